package mq

import (
	"fmt"
	"maps"
	"reflect"
	"slices"
	"strings"

	"github.com/jacoelho/mq/internal/number"
)

// Query is an immutable query definition. It holds no per-call state, so a
// single Query may be evaluated concurrently against independent documents.
type Query struct {
	definition any
}

// New wraps a query definition. The definition is stored unchanged and never
// validated up front; structural problems surface as errors from Match.
func New(definition any) *Query {
	return &Query{definition: definition}
}

// Match reports whether entry satisfies the query definition. Any document
// shape is legal input; errors are returned only for structurally invalid
// conditions.
func (q *Query) Match(entry any) (bool, error) {
	return matches(q.definition, entry)
}

// matches is the recursive core predicate. A mapping condition is the
// conjunction of its key checks; any other condition is a literal check
// against the entry (membership when the entry is a sequence).
func matches(condition, entry any) (bool, error) {
	criteria, ok := condition.(map[string]any)
	if !ok {
		if elements, ok := entry.([]any); ok {
			return containsValue(elements, condition), nil
		}
		return equalValues(condition, entry), nil
	}

	// Keys are visited in sorted order so the outcome, including which
	// structural error surfaces first, is identical across calls.
	for _, key := range slices.Sorted(maps.Keys(criteria)) {
		matched, err := processCondition(key, criteria[key], entry)
		if err != nil {
			return false, err
		}
		if !matched {
			return false, nil
		}
	}

	return true, nil
}

// processCondition resolves a single condition key: operator keys dispatch
// into the operator table, plain keys resolve as dot-separated field paths.
//
// Ordinary operators distribute existentially when the entry is a sequence,
// so `{"tags": {"$gt": 3}}` matches `{"tags": [1, 5]}`. Array operators
// ($all, $elemMatch, $size) receive the sequence as-is.
func processCondition(key string, condition, entry any) (bool, error) {
	if strings.HasPrefix(key, "$") {
		operator, ok := operators[key]
		if !ok {
			return false, fmt.Errorf("%w: %q", ErrUnsupportedOperator, key)
		}

		if elements, isSequence := entry.([]any); isSequence && !isArrayOperator(key) {
			for _, element := range elements {
				matched, err := operator(condition, element)
				if err != nil {
					return false, err
				}
				if matched {
					return true, nil
				}
			}
			return false, nil
		}

		return operator(condition, entry)
	}

	// The presence test for a sibling $exists runs against the raw key and
	// the unresolved entry: existence means the literal key is a direct
	// member, independent of dotted structure. The $exists operator body
	// itself is a no-op (see operators.go).
	if criteria, ok := condition.(map[string]any); ok {
		if want, ok := criteria["$exists"]; ok {
			if (want == true) != hasDirectKey(entry, key) {
				return false, nil
			}
		}
	}

	extracted, err := extract(entry, strings.Split(key, "."))
	if err != nil {
		return false, err
	}

	return matches(condition, extracted)
}

func hasDirectKey(entry any, key string) bool {
	mapping, ok := entry.(map[string]any)
	if !ok {
		return false
	}
	_, ok = mapping[key]
	return ok
}

// equalValues is deep structural equality with cross-type numeric
// comparison, so int64(1) equals float64(1) at any nesting depth.
func equalValues(a, b any) bool {
	switch left := a.(type) {
	case map[string]any:
		right, ok := b.(map[string]any)
		if !ok || len(left) != len(right) {
			return false
		}
		for key, leftValue := range left {
			rightValue, ok := right[key]
			if !ok || !equalValues(leftValue, rightValue) {
				return false
			}
		}
		return true
	case []any:
		right, ok := b.([]any)
		if !ok || len(left) != len(right) {
			return false
		}
		for i := range left {
			if !equalValues(left[i], right[i]) {
				return false
			}
		}
		return true
	}

	leftNumber, leftIsNumber := number.ToFloat64(a)
	rightNumber, rightIsNumber := number.ToFloat64(b)
	if leftIsNumber && rightIsNumber {
		return leftNumber == rightNumber
	}
	if leftIsNumber != rightIsNumber {
		return false
	}

	return reflect.DeepEqual(a, b)
}

func containsValue(elements []any, value any) bool {
	for _, element := range elements {
		if equalValues(value, element) {
			return true
		}
	}
	return false
}
