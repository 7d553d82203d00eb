package mq

import (
	"fmt"

	"github.com/jacoelho/mq/internal/number"
)

// bsonTypeChecks maps the fixed BSON-style numeric type codes accepted by
// $type to runtime type checks. Several codes collapse onto the same native
// type: object ids, dates, regexes and code are carried as strings, and
// timestamps plus both integer widths are carried as Go integers. The code
// set is fixed for drop-in compatibility with the source query dialect.
var bsonTypeChecks = map[int]func(entry any) bool{
	1:  isFloat,   // double
	2:  isString,  // string
	3:  isMapping, // object
	4:  isSequence,
	5:  isBinary,
	7:  isString, // object id
	8:  isBool,
	9:  isString, // date (UTC datetime)
	10: isNull,
	11: isString, // regex
	13: isString, // javascript
	15: isString, // javascript with scope
	16: isInteger, // 32-bit integer
	17: isInteger, // timestamp
	18: isInteger, // 64-bit integer
}

// opType checks the runtime type of the entry against a numeric type code.
// Unlike the ordering operators it is strict about its argument: unknown or
// non-integer codes are errors.
func opType(condition, entry any) (bool, error) {
	code, err := number.ToStrictInt(condition)
	if err != nil {
		return false, fmt.Errorf("%w: $type has been used with unknown type %v", ErrInvalidArgument, condition)
	}
	check, ok := bsonTypeChecks[code]
	if !ok {
		return false, fmt.Errorf("%w: $type has been used with unknown type %d", ErrInvalidArgument, code)
	}
	return check(entry), nil
}

func isFloat(entry any) bool {
	switch entry.(type) {
	case float32, float64:
		return true
	default:
		return false
	}
}

// isInteger deliberately excludes floats so 5 and 5.0 keep distinct types.
func isInteger(entry any) bool {
	switch entry.(type) {
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return true
	default:
		return false
	}
}

func isString(entry any) bool {
	_, ok := entry.(string)
	return ok
}

func isMapping(entry any) bool {
	_, ok := entry.(map[string]any)
	return ok
}

func isSequence(entry any) bool {
	_, ok := entry.([]any)
	return ok
}

func isBinary(entry any) bool {
	_, ok := entry.([]byte)
	return ok
}

func isBool(entry any) bool {
	_, ok := entry.(bool)
	return ok
}

func isNull(entry any) bool {
	return entry == nil
}
