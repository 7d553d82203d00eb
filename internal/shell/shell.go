// Package shell provides an interactive query prompt over a set of loaded
// documents.
package shell

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jacoelho/mq"
	"github.com/jacoelho/mq/internal/document"
	"github.com/peterh/liner"
)

// Shell reads query definitions line by line and evaluates each one against
// every loaded document.
type Shell struct {
	documents []any
	out       io.Writer
}

func New(documents []any, out io.Writer) *Shell {
	return &Shell{documents: documents, out: out}
}

// Run drives the prompt until .exit, Ctrl-C or Ctrl-D.
func (s *Shell) Run(ctx context.Context) error {
	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)

	fmt.Fprintf(s.out, "%d documents loaded, .help for commands\n", len(s.documents))

	for {
		if err := ctx.Err(); err != nil {
			return nil
		}

		input, err := line.Prompt("mq> ")
		if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
			fmt.Fprintln(s.out)
			return nil
		}
		if err != nil {
			return fmt.Errorf("read input: %w", err)
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		line.AppendHistory(input)

		if strings.HasPrefix(input, ".") {
			if done := s.command(input); done {
				return nil
			}
			continue
		}

		s.evaluate(input)
	}
}

// command handles dot-commands and reports whether the shell should exit.
func (s *Shell) command(input string) bool {
	name, argument, _ := strings.Cut(input, " ")
	switch name {
	case ".exit", ".quit":
		return true
	case ".help":
		fmt.Fprint(s.out, helpText)
	case ".count":
		fmt.Fprintf(s.out, "%d documents loaded\n", len(s.documents))
	case ".load":
		if argument == "" {
			fmt.Fprintln(s.out, "usage: .load FILE")
			break
		}
		s.load(strings.TrimSpace(argument))
	default:
		fmt.Fprintf(s.out, "unknown command %q, .help for commands\n", name)
	}
	return false
}

func (s *Shell) load(name string) {
	file, err := os.Open(name)
	if err != nil {
		fmt.Fprintf(s.out, "error: %v\n", err)
		return
	}
	defer file.Close()

	decoded, err := document.DecodeAll(file, document.FormatAuto, name)
	if err != nil {
		fmt.Fprintf(s.out, "error: %v\n", err)
		return
	}

	s.documents = append(s.documents, decoded...)
	fmt.Fprintf(s.out, "loaded %d documents (%d total)\n", len(decoded), len(s.documents))
}

func (s *Shell) evaluate(input string) {
	definition, err := document.ParseQueryString(input)
	if err != nil {
		fmt.Fprintf(s.out, "error: %v\n", err)
		return
	}

	query := mq.New(definition)
	matched := 0
	for _, doc := range s.documents {
		ok, err := query.Match(doc)
		if err != nil {
			fmt.Fprintf(s.out, "error: %v\n", err)
			return
		}
		if !ok {
			continue
		}
		matched++
		encoded, err := json.Marshal(doc)
		if err != nil {
			fmt.Fprintf(s.out, "error: %v\n", err)
			return
		}
		fmt.Fprintf(s.out, "%s\n", encoded)
	}

	fmt.Fprintf(s.out, "%d of %d documents matched\n", matched, len(s.documents))
}

const helpText = `Commands:
  .help         show this help
  .count        show the number of loaded documents
  .load FILE    load more documents from FILE
  .exit         leave the shell

Any other input is evaluated as a query definition, for example:
  {"age": {"$gt": 25}}
`
