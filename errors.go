package mq

import "errors"

var (
	// ErrUnsupportedOperator indicates a condition key names an operator
	// that is not in the operator table.
	ErrUnsupportedOperator = errors.New("mq: unsupported operator")

	// ErrInvalidArgument indicates an operator received a structurally
	// invalid argument in the condition tree.
	ErrInvalidArgument = errors.New("mq: invalid operator argument")

	// ErrNotImplemented indicates an operator that is recognized but
	// deliberately not implemented ($options, $text, $where).
	ErrNotImplemented = errors.New("mq: operator not implemented")

	// ErrIndexOutOfRange indicates an explicit numeric path segment
	// addressed a position beyond the end of a sequence.
	ErrIndexOutOfRange = errors.New("mq: array index out of range")
)
