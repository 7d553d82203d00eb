// Package filter applies a compiled query to a stream of documents, with
// optional inversion and JSONPath projection of the matching values.
package filter

import (
	"fmt"

	"github.com/jacoelho/mq"
	"github.com/theory/jsonpath"
)

// Filter pairs an immutable query with output options. A Filter is safe for
// reuse across any number of documents.
type Filter struct {
	query  *mq.Query
	path   *jsonpath.Path
	invert bool
}

// Result is the outcome of evaluating one document.
type Result struct {
	Matched bool
	Value   any
}

// New compiles a filter from a query definition and an optional JSONPath
// selection expression.
func New(definition any, selectExpr string, invert bool) (*Filter, error) {
	f := &Filter{
		query:  mq.New(definition),
		invert: invert,
	}

	if selectExpr != "" {
		path, err := jsonpath.Parse(selectExpr)
		if err != nil {
			return nil, fmt.Errorf("invalid JSONPath %q: %w", selectExpr, err)
		}
		f.path = path
	}

	return f, nil
}

// Evaluate matches one document. For matching documents the result value is
// the document itself, or the JSONPath selection when one was configured: a
// single node selects as the node, several nodes select as a sequence, and
// no nodes select as nil.
func (f *Filter) Evaluate(doc any) (Result, error) {
	matched, err := f.query.Match(doc)
	if err != nil {
		return Result{}, err
	}
	if f.invert {
		matched = !matched
	}
	if !matched {
		return Result{}, nil
	}

	value := doc
	if f.path != nil {
		selected := f.path.Select(doc)
		switch len(selected) {
		case 0:
			value = nil
		case 1:
			value = selected[0]
		default:
			value = []any(selected)
		}
	}

	return Result{Matched: true, Value: value}, nil
}
