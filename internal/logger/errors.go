package logger

import (
	"errors"
	"fmt"
	"os"
)

// Init refuses a Log section without names; both end up on every log line.
var (
	ErrAppNameIsEmpty     = errors.New("log: AppName is required")
	ErrServiceNameIsEmpty = errors.New("log: ServiceName is required")
)

// ErrorHandler is installed as zerolog.ErrorHandler. A failed write cannot be
// logged, so it goes to stderr.
func ErrorHandler(err error) {
	_, _ = fmt.Fprintf(os.Stderr, "zerolog: could not write event: %v\n", err)
}
