package filter

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/jacoelho/mq/internal/config"
	"github.com/jacoelho/mq/internal/document"
	"github.com/jacoelho/mq/internal/exit"
	"github.com/jacoelho/mq/internal/shell"
)

// Runner loads the query and document sources described by a Config and
// drives evaluation.
type Runner struct {
	cfg    *config.Config
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

// NewRunner builds a runner bound to the process streams.
func NewRunner(cfg *config.Config) *Runner {
	return &Runner{
		cfg:    cfg,
		stdin:  os.Stdin,
		stdout: os.Stdout,
		stderr: os.Stderr,
	}
}

// Run executes one invocation and returns the process exit code. The context
// cancels evaluation between documents.
func (r *Runner) Run(ctx context.Context) int {
	documents, err := r.loadDocuments()
	if err != nil {
		fmt.Fprintf(r.stderr, "Error: %v\n", err)
		return exit.CodeUsage
	}

	if r.cfg.Interactive {
		s := shell.New(documents, r.stdout)
		if err := s.Run(ctx); err != nil {
			fmt.Fprintf(r.stderr, "Error: %v\n", err)
			return exit.CodeUsage
		}
		return exit.CodeMatched
	}

	definition, err := r.loadQuery()
	if err != nil {
		fmt.Fprintf(r.stderr, "Error: %v\n", err)
		return exit.CodeUsage
	}

	f, err := New(definition, r.cfg.Select, r.cfg.Invert)
	if err != nil {
		fmt.Fprintf(r.stderr, "Error: %v\n", err)
		return exit.CodeUsage
	}

	matched := 0
	for _, doc := range documents {
		if err := ctx.Err(); err != nil {
			fmt.Fprintf(r.stderr, "Error: %v\n", err)
			return exit.CodeUsage
		}

		result, err := f.Evaluate(doc)
		if err != nil {
			fmt.Fprintf(r.stderr, "Error: %v\n", err)
			return exit.CodeUsage
		}
		if !result.Matched {
			continue
		}

		matched++
		if r.cfg.Count {
			continue
		}
		if err := printJSON(r.stdout, result.Value); err != nil {
			fmt.Fprintf(r.stderr, "Error: %v\n", err)
			return exit.CodeUsage
		}
	}

	if r.cfg.Count {
		fmt.Fprintln(r.stdout, matched)
	}
	if matched == 0 {
		return exit.CodeNoMatch
	}
	return exit.CodeMatched
}

func (r *Runner) loadQuery() (any, error) {
	if r.cfg.Query != "" {
		return document.ParseQueryString(r.cfg.Query)
	}

	file, err := os.Open(r.cfg.QueryFile)
	if err != nil {
		return nil, fmt.Errorf("open query file: %w", err)
	}
	defer file.Close()

	return document.DecodeQuery(file, document.FormatAuto, r.cfg.QueryFile)
}

func (r *Runner) loadDocuments() ([]any, error) {
	if len(r.cfg.DocumentFiles) == 0 {
		return document.DecodeAll(r.stdin, r.cfg.Format, "-")
	}

	var documents []any
	for _, name := range r.cfg.DocumentFiles {
		file, err := os.Open(name)
		if err != nil {
			return nil, fmt.Errorf("open document file: %w", err)
		}

		decoded, err := document.DecodeAll(file, r.cfg.Format, name)
		file.Close()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		documents = append(documents, decoded...)
	}

	return documents, nil
}

func printJSON(w io.Writer, value any) error {
	encoded, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode result: %w", err)
	}
	_, err = fmt.Fprintf(w, "%s\n", encoded)
	return err
}
