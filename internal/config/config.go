// Package config parses command-line arguments for the mq tool.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/jacoelho/mq/internal/document"
	"github.com/jacoelho/mq/internal/exit"
)

var (
	ErrNoQuery       = errors.New("no query specified (use --query or --query-file)")
	ErrConflictQuery = errors.New("--query and --query-file are mutually exclusive")
)

// Config is the complete configuration for one mq invocation.
type Config struct {
	// Query definition, exactly one source unless interactive.
	Query     string
	QueryFile string

	// Document sources; empty means stdin.
	DocumentFiles []string
	Format        document.Format

	// Output behavior.
	Select      string
	Invert      bool
	Count       bool
	Interactive bool
}

// Validate checks source files exist and the query is unambiguous.
func (c *Config) Validate() error {
	if !c.Interactive {
		if c.Query == "" && c.QueryFile == "" {
			return ErrNoQuery
		}
	}
	if c.Query != "" && c.QueryFile != "" {
		return ErrConflictQuery
	}

	for _, file := range c.DocumentFiles {
		if _, err := os.Stat(file); err != nil {
			return fmt.Errorf("document file %s not found: %w", file, err)
		}
	}
	if c.QueryFile != "" {
		if _, err := os.Stat(c.QueryFile); err != nil {
			return fmt.Errorf("query file %s not found: %w", c.QueryFile, err)
		}
	}

	return nil
}

// Parse parses command-line arguments and returns a validated Config, or an
// exit result when parsing fails or help was requested.
func Parse(args []string) (*Config, *exit.Result) {
	if len(args) == 0 {
		return nil, exit.Usage("Error: no arguments provided\n\n%s", Usage())
	}

	fs := flag.NewFlagSet(args[0], flag.ContinueOnError)
	fs.Usage = func() {}
	fs.SetOutput(io.Discard)

	var (
		query       = fs.String("query", "", "Inline query definition (JSON or YAML)")
		queryFile   = fs.String("query-file", "", "Path to a JSON or YAML file holding the query definition")
		format      = fs.String("format", "auto", "Document input format: auto, json or yaml")
		selectPath  = fs.String("select", "", "JSONPath projected from each matching document")
		invert      = fs.Bool("invert", false, "Emit documents that do NOT match")
		count       = fs.Bool("count", false, "Print only the number of matching documents")
		interactive = fs.Bool("interactive", false, "Start an interactive query shell over the loaded documents")
	)

	if err := fs.Parse(args[1:]); err != nil {
		if err == flag.ErrHelp {
			return nil, exit.Success(Usage())
		}
		return nil, exit.Usage("Error: failed to parse arguments: %v\n\n%s", err, Usage())
	}

	inputFormat, err := document.ParseFormat(*format)
	if err != nil {
		return nil, exit.Usage("Error: %v\n\n%s", err, Usage())
	}

	config := &Config{
		Query:         *query,
		QueryFile:     *queryFile,
		DocumentFiles: fs.Args(),
		Format:        inputFormat,
		Select:        *selectPath,
		Invert:        *invert,
		Count:         *count,
		Interactive:   *interactive,
	}

	if err := config.Validate(); err != nil {
		return nil, exit.Usage("Error: %v\n\n%s", err, Usage())
	}

	return config, nil
}

// Usage returns the usage string for the mq tool.
func Usage() string {
	return `mq - match documents against MongoDB-style queries

Usage: mq [options] [document-file ...]

Documents are read from the given files (JSON, NDJSON or multi-document
YAML) or from stdin when no files are given. Matching documents are printed
as compact JSON, one per line.

Options:
  --query CONDITION     Inline query definition (JSON or YAML)
  --query-file FILE     Path to a JSON or YAML file holding the query
  --format FORMAT       Document input format: auto, json or yaml (default: auto)
  --select JSONPATH     Print only the selected value of each matching document
  --invert              Emit documents that do NOT match
  --count               Print only the number of matching documents
  --interactive         Start an interactive query shell over the documents
  -h, --help            Show this help message

Exit codes: 0 when at least one document matched, 1 when none did, 2 on
usage or query errors.

Examples:
  mq --query '{"age": {"$gt": 25}}' people.json
  mq --query-file query.yaml people.yaml
  cat stream.ndjson | mq --query '{"tags": "urgent"}' --count
  mq --query '{"a.b": {"$exists": true}}' --select '$.a' docs.json
  mq --interactive people.json`
}
