// Package number coerces the numeric types that show up in decoded
// document trees: native Go numbers from callers, float64 and json.Number
// from JSON decoding, and int64/uint64 from YAML decoding.
package number

import (
	"encoding/json"
	"fmt"
	"reflect"
)

// ToFloat64 reports value as a float64 when it carries any numeric kind,
// including named numeric types. Booleans and numeric strings are not
// numbers.
func ToFloat64(value any) (float64, bool) {
	if current, ok := value.(json.Number); ok {
		parsed, err := current.Float64()
		if err != nil {
			return 0, false
		}
		return parsed, true
	}

	reflected := reflect.ValueOf(value)
	switch reflected.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(reflected.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(reflected.Uint()), true
	case reflect.Float32, reflect.Float64:
		return reflected.Float(), true
	default:
		return 0, false
	}
}

// ToStrictInt converts integer-kinded values to int. Floats are rejected
// even when integral, so callers keep the int/float distinction.
func ToStrictInt(value any) (int, error) {
	switch reflected := reflect.ValueOf(value); reflected.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return int(reflected.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return int(reflected.Uint()), nil
	default:
		return 0, fmt.Errorf("%T is not an integer", value)
	}
}
