// Package exit carries termination messages and process exit codes from the
// CLI layers back to main.
package exit

import (
	"fmt"
	"io"
	"os"
)

const (
	CodeMatched = 0 // at least one document matched
	CodeNoMatch = 1 // evaluation succeeded, nothing matched
	CodeUsage   = 2 // bad flags, unreadable input, invalid query
)

// Result is a terminal outcome with a message for the user.
type Result struct {
	Code    int
	Message string
}

// Print writes the message to stdout for success results and stderr
// otherwise.
func (r *Result) Print() {
	var w io.Writer = os.Stdout
	if r.Code != CodeMatched {
		w = os.Stderr
	}
	fmt.Fprint(w, r.Message)
}

// Success builds a zero-code result.
func Success(message string) *Result {
	return &Result{Code: CodeMatched, Message: message}
}

// Usage builds a usage-error result with a formatted message.
func Usage(format string, a ...any) *Result {
	return &Result{Code: CodeUsage, Message: fmt.Sprintf(format, a...)}
}
