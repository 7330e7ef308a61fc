package callexpr

import (
	"math"
	"testing"

	"github.com/FocuswithJustin/sqlcontext/core/errors"
	"github.com/FocuswithJustin/sqlcontext/core/udf"
)

func TestParseCall(t *testing.T) {
	tests := []struct {
		input string
		name  string
		args  []udf.Value
	}{
		{"pi()", "pi", []udf.Value{}},
		{"half(5)", "half", []udf.Value{udf.Integer(5)}},
		{"f(1, -2.5, 'it''s', x'0aff', NULL, TRUE, false)", "f", []udf.Value{
			udf.Integer(1), udf.Real(-2.5), udf.Text("it's"), udf.Blob([]byte{0x0a, 0xff}),
			udf.Null(), udf.Integer(1), udf.Integer(0),
		}},
		{"  spaced ( 1 ,2 )  ", "spaced", []udf.Value{udf.Integer(1), udf.Integer(2)}},
		{"g(.5, 1e3, 2., +7)", "g", []udf.Value{udf.Real(0.5), udf.Real(1000), udf.Real(2), udf.Integer(7)}},
		{"h('', x'')", "h", []udf.Value{udf.Text(""), udf.Blob(nil)}},
		{"m(-9223372036854775808)", "m", []udf.Value{udf.Integer(math.MinInt64)}},
		{"big(9223372036854775808)", "big", []udf.Value{udf.Real(9223372036854775808)}},
		{"blake3_hex('abc')", "blake3_hex", []udf.Value{udf.Text("abc")}},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			call, err := ParseCall(tt.input)
			if err != nil {
				t.Fatalf("ParseCall() error = %v", err)
			}
			if call.Name != tt.name {
				t.Errorf("Name = %q, want %q", call.Name, tt.name)
			}
			if len(call.Args) != len(tt.args) {
				t.Fatalf("got %d args, want %d", len(call.Args), len(tt.args))
			}
			for i, want := range tt.args {
				if !call.Args[i].Equal(want) {
					t.Errorf("arg %d = %v (%v), want %v (%v)", i, call.Args[i], call.Args[i].Kind(), want, want.Kind())
				}
			}
		})
	}
}

func TestParseCallErrors(t *testing.T) {
	inputs := []string{
		"",
		"half",
		"half(",
		"half(1,)",
		"half(1) trailing",
		"f(x'abc')",
		"f(-'text')",
		"f(bogus)",
		"f('unterminated)",
	}
	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			_, err := ParseCall(input)
			if err == nil {
				t.Fatal("expected error")
			}
			var parseErr *errors.ParseError
			if !errors.As(err, &parseErr) || parseErr.Format != "call" {
				t.Errorf("error = %v, want call ParseError", err)
			}
		})
	}
}

func TestCallString(t *testing.T) {
	call, err := ParseCall("f(1, 'a''b', x'00', NULL)")
	if err != nil {
		t.Fatal(err)
	}
	if got := call.String(); got != "f(1, 'a''b', x'00', NULL)" {
		t.Errorf("String() = %q", got)
	}
}

func TestParseSignature(t *testing.T) {
	sig, err := ParseSignature("area(w, h)")
	if err != nil {
		t.Fatalf("ParseSignature() error = %v", err)
	}
	if sig.Name != "area" || len(sig.Params) != 2 || sig.Params[0] != "w" || sig.Params[1] != "h" {
		t.Errorf("ParseSignature() = %+v", sig)
	}

	sig, err = ParseSignature("now()")
	if err != nil || sig.Name != "now" || len(sig.Params) != 0 {
		t.Errorf("ParseSignature(now()) = %+v, %v", sig, err)
	}
}

func TestParseSignatureErrors(t *testing.T) {
	for _, input := range []string{"area", "area(1)", "area(w, w)", "(w)", "area(w h)"} {
		if _, err := ParseSignature(input); !errors.Is(err, errors.ErrInvalidInput) {
			t.Errorf("ParseSignature(%q) error = %v, want parse error", input, err)
		}
	}
}
