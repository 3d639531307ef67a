package exitcode

import (
	"errors"
	"fmt"
	"testing"

	"github.com/kjourdan1/hbstree/internal/template"
)

func TestOf_Nil(t *testing.T) {
	if code := Of(nil); code != OK {
		t.Errorf("Of(nil) = %d, want %d", code, OK)
	}
}

func TestOf_CodedError(t *testing.T) {
	tests := []struct {
		name string
		code int
	}{
		{"generic", Generic},
		{"validation", Validation},
		{"render", Render},
		{"config", Config},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Wrap(tt.code, fmt.Errorf("some error"))
			if got := Of(err); got != tt.code {
				t.Errorf("Of(Wrap(%d, ...)) = %d, want %d", tt.code, got, tt.code)
			}
		})
	}
}

func TestOf_WrappedCodedError(t *testing.T) {
	inner := Wrap(Render, fmt.Errorf("template failed"))
	wrapped := fmt.Errorf("outer: %w", inner)
	if got := Of(wrapped); got != Render {
		t.Errorf("Of(wrapped coded error) = %d, want %d", got, Render)
	}
}

func TestOf_ConfigurationError(t *testing.T) {
	_, err := template.New(template.DirTree("."), nil, template.Options{})
	if err == nil {
		t.Fatal("expected an error for an empty pattern list")
	}
	if got := Of(fmt.Errorf("building writer: %w", err)); got != Config {
		t.Errorf("Of(ConfigurationError) = %d, want %d", got, Config)
	}
}

func TestOf_StringFallback(t *testing.T) {
	tests := []struct {
		msg  string
		want int
	}{
		{"rendering index.hbs: missing partial", Render},
		{"helper shout.js: ReferenceError", Render},
		{"reading config file hbstree.yaml: no such file", Config},
		{"3 validation error(s) found", Validation},
		{"invalid file pattern", Validation},
		{"something else", Generic},
	}
	for _, tt := range tests {
		t.Run(tt.msg, func(t *testing.T) {
			if got := Of(errors.New(tt.msg)); got != tt.want {
				t.Errorf("Of(%q) = %d, want %d", tt.msg, got, tt.want)
			}
		})
	}
}

func TestWrap_Nil(t *testing.T) {
	if Wrap(Generic, nil) != nil {
		t.Error("Wrap(nil) should return nil")
	}
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := Wrap(Validation, cause)
	if !errors.Is(err, cause) {
		t.Error("wrapped error should unwrap to cause")
	}
	if err.Error() != "root cause" {
		t.Errorf("Error() = %q, want %q", err.Error(), "root cause")
	}
}
