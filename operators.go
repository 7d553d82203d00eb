package mq

import (
	"fmt"
	"maps"
	"math"
	"slices"

	"github.com/jacoelho/mq/internal/number"
)

// operatorFunc evaluates one operator against a condition argument and a
// document value. Errors indicate a structurally invalid condition, never a
// mismatched document.
type operatorFunc func(condition, entry any) (bool, error)

// operators is the process-wide operator table. It is built once at startup
// and never mutated; the init indirection breaks the reference cycle between
// the logical operators and the condition matcher.
var operators map[string]operatorFunc

func init() {
	operators = map[string]operatorFunc{
		// Comparison
		"$gt":  compareNumeric(func(entry, condition float64) bool { return entry > condition }),
		"$gte": compareNumeric(func(entry, condition float64) bool { return entry >= condition }),
		"$lt":  compareNumeric(func(entry, condition float64) bool { return entry < condition }),
		"$lte": compareNumeric(func(entry, condition float64) bool { return entry <= condition }),
		"$in":  opIn,
		"$nin": opNin,
		"$ne":  opNe,

		// Logical
		"$and": opAnd,
		"$or":  opOr,
		"$nor": opNor,
		"$not": opNot,

		// Element. The real $exists check happens in processCondition when
		// it appears beside a field path; the operator body reached through
		// normal dispatch (for example under $not) is a no-op.
		"$exists": opNoop,
		"$type":   opType,

		// Evaluation
		"$mod":     opMod,
		"$regex":   opRegex,
		"$options": notImplemented("$options"),
		"$text":    notImplemented("$text"),
		"$where":   notImplemented("$where"),

		// Array
		"$all":       opAll,
		"$elemMatch": opElemMatch,
		"$size":      opSize,

		// Meta
		"$comment": opNoop,
	}
}

// arrayOperators receive sequence entries as-is instead of distributing
// element-wise. Every operator added to the table must be classified into
// exactly one of the two behavior groups.
var arrayOperators = map[string]struct{}{
	"$all":       {},
	"$elemMatch": {},
	"$size":      {},
}

func isArrayOperator(name string) bool {
	_, ok := arrayOperators[name]
	return ok
}

func opNoop(any, any) (bool, error) {
	return true, nil
}

func notImplemented(name string) operatorFunc {
	return func(any, any) (bool, error) {
		return false, fmt.Errorf("%w: %s", ErrNotImplemented, name)
	}
}

// compareNumeric builds an ordering operator. Non-numeric values on either
// side are a non-match, never an error.
func compareNumeric(compare func(entry, condition float64) bool) operatorFunc {
	return func(condition, entry any) (bool, error) {
		entryNumber, ok := number.ToFloat64(entry)
		if !ok {
			return false, nil
		}
		conditionNumber, ok := number.ToFloat64(condition)
		if !ok {
			return false, nil
		}
		return compare(entryNumber, conditionNumber), nil
	}
}

func opIn(condition, entry any) (bool, error) {
	candidates, ok := condition.([]any)
	if !ok {
		return false, fmt.Errorf("%w: $in requires an array of candidates, got %T", ErrInvalidArgument, condition)
	}
	return containsValue(candidates, entry), nil
}

func opNin(condition, entry any) (bool, error) {
	matched, err := opIn(condition, entry)
	if err != nil {
		return false, err
	}
	return !matched, nil
}

func opNe(condition, entry any) (bool, error) {
	return !equalValues(condition, entry), nil
}

func opAnd(condition, entry any) (bool, error) {
	subConditions, ok := condition.([]any)
	if !ok {
		return false, fmt.Errorf("%w: $and has been attributed incorrect argument %v", ErrInvalidArgument, condition)
	}
	for _, sub := range subConditions {
		matched, err := matches(sub, entry)
		if err != nil {
			return false, err
		}
		if !matched {
			return false, nil
		}
	}
	return true, nil
}

func opOr(condition, entry any) (bool, error) {
	subConditions, ok := condition.([]any)
	if !ok {
		return false, fmt.Errorf("%w: $or has been attributed incorrect argument %v", ErrInvalidArgument, condition)
	}
	for _, sub := range subConditions {
		matched, err := matches(sub, entry)
		if err != nil {
			return false, err
		}
		if matched {
			return true, nil
		}
	}
	return false, nil
}

func opNor(condition, entry any) (bool, error) {
	subConditions, ok := condition.([]any)
	if !ok {
		return false, fmt.Errorf("%w: $nor has been attributed incorrect argument %v", ErrInvalidArgument, condition)
	}
	for _, sub := range subConditions {
		matched, err := matches(sub, entry)
		if err != nil {
			return false, err
		}
		if matched {
			return false, nil
		}
	}
	return true, nil
}

func opNot(condition, entry any) (bool, error) {
	matched, err := matches(condition, entry)
	if err != nil {
		return false, err
	}
	return !matched, nil
}

// opMod checks entry % divisor == remainder with a floored remainder, so
// the sign convention matches the source query dialect: -7 mod 3 is 2.
func opMod(condition, entry any) (bool, error) {
	arguments, ok := condition.([]any)
	if !ok || len(arguments) != 2 {
		return false, fmt.Errorf("%w: $mod requires [divisor, remainder], got %v", ErrInvalidArgument, condition)
	}
	divisor, ok := number.ToFloat64(arguments[0])
	if !ok {
		return false, fmt.Errorf("%w: $mod divisor %v is not a number", ErrInvalidArgument, arguments[0])
	}
	if divisor == 0 {
		return false, fmt.Errorf("%w: $mod divisor is zero", ErrInvalidArgument)
	}
	remainder, ok := number.ToFloat64(arguments[1])
	if !ok {
		return false, fmt.Errorf("%w: $mod remainder %v is not a number", ErrInvalidArgument, arguments[1])
	}

	value, ok := number.ToFloat64(entry)
	if !ok {
		return false, nil
	}

	return flooredMod(value, divisor) == remainder, nil
}

func flooredMod(value, divisor float64) float64 {
	result := math.Mod(value, divisor)
	if result != 0 && (result < 0) != (divisor < 0) {
		result += divisor
	}
	return result
}

// opAll checks that every item of the condition matches the whole entry,
// reproducing "entry contains all of these".
func opAll(condition, entry any) (bool, error) {
	items, ok := condition.([]any)
	if !ok {
		return false, fmt.Errorf("%w: $all requires an array, got %T", ErrInvalidArgument, condition)
	}
	for _, item := range items {
		matched, err := matches(item, entry)
		if err != nil {
			return false, err
		}
		if !matched {
			return false, nil
		}
	}
	return true, nil
}

// opElemMatch checks that at least one element of the entry satisfies every
// key of the condition, mirroring top-level mapping matching scoped to a
// single element.
func opElemMatch(condition, entry any) (bool, error) {
	criteria, ok := condition.(map[string]any)
	if !ok {
		return false, fmt.Errorf("%w: $elemMatch requires an object, got %T", ErrInvalidArgument, condition)
	}
	elements, ok := entry.([]any)
	if !ok {
		return false, nil
	}

	// Same sorted key order as matches, so per-element outcomes are stable.
	keys := slices.Sorted(maps.Keys(criteria))
	for _, element := range elements {
		satisfied := true
		for _, key := range keys {
			matched, err := processCondition(key, criteria[key], element)
			if err != nil {
				return false, err
			}
			if !matched {
				satisfied = false
				break
			}
		}
		if satisfied {
			return true, nil
		}
	}

	return false, nil
}

func opSize(condition, entry any) (bool, error) {
	want, err := number.ToStrictInt(condition)
	if err != nil {
		return false, fmt.Errorf("%w: $size has been attributed incorrect argument %v", ErrInvalidArgument, condition)
	}
	elements, ok := entry.([]any)
	if !ok {
		return false, nil
	}
	return len(elements) == want, nil
}
