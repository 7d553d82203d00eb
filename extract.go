package mq

import (
	"fmt"
	"strconv"
)

// extract resolves a dot-separated field path against a document value.
//
// nil short-circuits further descent so queries on absent nested fields
// degrade to comparisons against nil instead of failing. When a sequence is
// reached and the head segment is not a non-negative integer, the full path
// is extracted from every element, which is how queries address fields
// inside arrays of mappings without explicit indices. Unresolvable paths
// fail soft by returning the entry unchanged; subsequent equality or
// operator checks then treat it as a non-match.
func extract(entry any, path []string) (any, error) {
	if len(path) == 0 {
		return entry, nil
	}
	if entry == nil {
		return nil, nil
	}

	switch current := entry.(type) {
	case []any:
		index, err := strconv.Atoi(path[0])
		if err != nil || index < 0 {
			distributed := make([]any, len(current))
			for i, element := range current {
				extracted, err := extract(element, path)
				if err != nil {
					return nil, err
				}
				distributed[i] = extracted
			}
			return distributed, nil
		}
		if index >= len(current) {
			return nil, fmt.Errorf("%w: index %d in a sequence of %d", ErrIndexOutOfRange, index, len(current))
		}
		return extract(current[index], path[1:])
	case map[string]any:
		if value, ok := current[path[0]]; ok {
			return extract(value, path[1:])
		}
		return current, nil
	default:
		return entry, nil
	}
}
