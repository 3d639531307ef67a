// Package exitcode maps command errors to process exit codes.
package exitcode

import (
	"errors"
	"strings"

	"github.com/kjourdan1/hbstree/internal/template"
)

const (
	OK         = 0
	Generic    = 1
	Validation = 2
	Render     = 3
	Config     = 4
)

type Error struct {
	Code  int
	Cause error
}

func (e *Error) Error() string {
	return e.Cause.Error()
}

func (e *Error) Unwrap() error {
	return e.Cause
}

func Wrap(code int, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Code: code, Cause: err}
}

func Of(err error) int {
	if err == nil {
		return OK
	}

	var coded *Error
	if errors.As(err, &coded) {
		return coded.Code
	}

	var optErr *template.ConfigurationError
	if errors.As(err, &optErr) {
		return Config
	}

	// Fallback for errors that reach main without a code.
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "rendering ") || strings.Contains(msg, "helper "):
		return Render
	case strings.Contains(msg, "config"):
		return Config
	case strings.Contains(msg, "validation") || strings.Contains(msg, "invalid"):
		return Validation
	default:
		return Generic
	}
}
