package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestNotFoundError(t *testing.T) {
	tests := []struct {
		name     string
		err      *NotFoundError
		wantMsg  string
		wantBase error
	}{
		{
			name:     "with ID",
			err:      &NotFoundError{Resource: "function", ID: "blake3"},
			wantMsg:  "no such function: blake3",
			wantBase: ErrNotFound,
		},
		{
			name:     "without ID",
			err:      &NotFoundError{Resource: "driver"},
			wantMsg:  "driver not found",
			wantBase: ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.wantMsg {
				t.Errorf("Error() = %q, want %q", got, tt.wantMsg)
			}
			if got := tt.err.Unwrap(); !errors.Is(got, tt.wantBase) {
				t.Errorf("Unwrap() = %v, want %v", got, tt.wantBase)
			}
		})
	}

	t.Run("with underlying error", func(t *testing.T) {
		underlyingErr := fmt.Errorf("registry closed")
		err := &NotFoundError{Resource: "function", ID: "x", Err: underlyingErr}
		if got := err.Unwrap(); got != underlyingErr {
			t.Errorf("Unwrap() = %v, want %v", got, underlyingErr)
		}
	})
}

func TestValidationError(t *testing.T) {
	tests := []struct {
		name     string
		err      *ValidationError
		wantMsg  string
		wantBase error
	}{
		{
			name:     "with field",
			err:      &ValidationError{Field: "name", Message: "must not be empty"},
			wantMsg:  "validation failed for name: must not be empty",
			wantBase: ErrInvalidInput,
		},
		{
			name:     "without field",
			err:      &ValidationError{Message: "no implementation"},
			wantMsg:  "validation failed: no implementation",
			wantBase: ErrInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.wantMsg {
				t.Errorf("Error() = %q, want %q", got, tt.wantMsg)
			}
			if got := tt.err.Unwrap(); !errors.Is(got, tt.wantBase) {
				t.Errorf("Unwrap() = %v, want %v", got, tt.wantBase)
			}
		})
	}
}

func TestParseError(t *testing.T) {
	tests := []struct {
		name    string
		err     *ParseError
		wantMsg string
	}{
		{
			name:    "with input",
			err:     &ParseError{Format: "call", Input: "f(", Message: "unexpected EOF"},
			wantMsg: `failed to parse call "f(": unexpected EOF`,
		},
		{
			name:    "without input",
			err:     &ParseError{Format: "signature", Message: "missing name"},
			wantMsg: "failed to parse signature: missing name",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.wantMsg {
				t.Errorf("Error() = %q, want %q", got, tt.wantMsg)
			}
			if !errors.Is(tt.err, ErrInvalidInput) {
				t.Errorf("errors.Is(%v, ErrInvalidInput) = false", tt.err)
			}
		})
	}

	t.Run("with underlying error", func(t *testing.T) {
		underlyingErr := fmt.Errorf("lexer: bad token")
		err := &ParseError{Format: "call", Message: "invalid syntax", Err: underlyingErr}
		if got := err.Unwrap(); got != underlyingErr {
			t.Errorf("Unwrap() = %v, want %v", got, underlyingErr)
		}
	})
}

func TestUnsupportedError(t *testing.T) {
	err := &UnsupportedError{Feature: "result type", Reason: "map[string]int"}
	if got, want := err.Error(), "unsupported result type: map[string]int"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	if !errors.Is(err, ErrUnsupported) {
		t.Error("UnsupportedError should unwrap to ErrUnsupported")
	}

	bare := &UnsupportedError{Feature: "aggregate functions"}
	if got, want := bare.Error(), "unsupported aggregate functions"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestArityError(t *testing.T) {
	err := &ArityError{Function: "xpath", Got: 3}
	if got, want := err.Error(), "wrong number of arguments to function xpath()"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	if !errors.Is(err, ErrInvalidInput) {
		t.Error("ArityError should unwrap to ErrInvalidInput")
	}
}

func TestContractError(t *testing.T) {
	err := NewContract("ResultInt64", "outcome already resolved")
	if got, want := err.Error(), "contract violation in ResultInt64: outcome already resolved"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	if !Is(err, ErrContractViolation) {
		t.Error("ContractError should unwrap to ErrContractViolation")
	}
}

func TestHelperFunctions(t *testing.T) {
	t.Run("NewNotFound", func(t *testing.T) {
		err := NewNotFound("function", "uuid")
		if err.Resource != "function" || err.ID != "uuid" {
			t.Errorf("NewNotFound() = %+v, want Resource=function, ID=uuid", err)
		}
	})

	t.Run("NewValidation", func(t *testing.T) {
		err := NewValidation("nargs", "too many arguments")
		if err.Field != "nargs" || err.Message != "too many arguments" {
			t.Errorf("NewValidation() = %+v, unexpected values", err)
		}
	})

	t.Run("NewParse", func(t *testing.T) {
		err := NewParse("call", "f(1", "unexpected EOF")
		if err.Format != "call" || err.Input != "f(1" || err.Message != "unexpected EOF" {
			t.Errorf("NewParse() = %+v, unexpected values", err)
		}
	})

	t.Run("NewUnsupported", func(t *testing.T) {
		err := NewUnsupported("codec", "not compiled in")
		if err.Feature != "codec" || err.Reason != "not compiled in" {
			t.Errorf("NewUnsupported() = %+v, unexpected values", err)
		}
	})
}

func TestWrap(t *testing.T) {
	t.Run("wraps error", func(t *testing.T) {
		baseErr := fmt.Errorf("base error")
		wrapped := Wrap(baseErr, "context message")
		if wrapped == nil {
			t.Fatal("Wrap() returned nil")
		}
		if !errors.Is(wrapped, baseErr) {
			t.Errorf("Wrap() error does not unwrap to base error")
		}
		wantMsg := "context message: base error"
		if wrapped.Error() != wantMsg {
			t.Errorf("Wrap() = %q, want %q", wrapped.Error(), wantMsg)
		}
	})

	t.Run("nil error returns nil", func(t *testing.T) {
		if got := Wrap(nil, "context"); got != nil {
			t.Errorf("Wrap(nil) = %v, want nil", got)
		}
	})
}

func TestWrapf(t *testing.T) {
	baseErr := fmt.Errorf("base error")
	wrapped := Wrapf(baseErr, "register %s", "blake3")
	if !errors.Is(wrapped, baseErr) {
		t.Errorf("Wrapf() error does not unwrap to base error")
	}
	if got, want := wrapped.Error(), "register blake3: base error"; got != want {
		t.Errorf("Wrapf() = %q, want %q", got, want)
	}
	if got := Wrapf(nil, "context %s", "test"); got != nil {
		t.Errorf("Wrapf(nil) = %v, want nil", got)
	}
}

func TestAs(t *testing.T) {
	err := Wrap(&ArityError{Function: "f", Got: 2}, "call")
	var arityErr *ArityError
	if !As(err, &arityErr) {
		t.Fatal("As() failed to match ArityError")
	}
	if arityErr.Got != 2 {
		t.Errorf("As() arityErr.Got = %d, want 2", arityErr.Got)
	}
}
