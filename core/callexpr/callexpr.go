// Package callexpr parses SQL-style function calls with literal arguments,
// such as "half(5)" or "xpath('<a>x</a>', '//a')", and function signatures
// such as "area(w, h)".
package callexpr

import (
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	"github.com/FocuswithJustin/sqlcontext/core/errors"
	"github.com/FocuswithJustin/sqlcontext/core/udf"
)

//nolint:govet // participle grammar tags are not standard struct tags
type callGrammar struct {
	Name string     `@Ident`
	Args []*literal `"(" ( @@ ( "," @@ )* )? ")"`
}

//nolint:govet // participle grammar tags are not standard struct tags
type literal struct {
	Sign   *string `@("-" | "+")?`
	Float  *string `( @Float`
	Int    *string `| @Int`
	String *string `| @String`
	Blob   *string `| @Blob`
	Word   *string `| @Ident )`
}

//nolint:govet // participle grammar tags are not standard struct tags
type signatureGrammar struct {
	Name   string   `@Ident`
	Params []string `"(" ( @Ident ( "," @Ident )* )? ")"`
}

// sqlLexer tokenizes SQL literals. Blob precedes Ident so x'00' is not read
// as the identifier x.
var sqlLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Blob", Pattern: `[xX]'[^']*'`},
	{Name: "String", Pattern: `'(?:[^']|'')*'`},
	{Name: "Float", Pattern: `(?:[0-9]+\.[0-9]*|\.[0-9]+)(?:[eE][-+]?[0-9]+)?|[0-9]+[eE][-+]?[0-9]+`},
	{Name: "Int", Pattern: `[0-9]+`},
	{Name: "Ident", Pattern: `[A-Za-z_][A-Za-z0-9_]*`},
	{Name: "Punct", Pattern: `[(),+\-]`},
	{Name: "Whitespace", Pattern: `\s+`},
})

var (
	callParser = participle.MustBuild[callGrammar](
		participle.Lexer(sqlLexer),
		participle.Elide("Whitespace"),
	)
	signatureParser = participle.MustBuild[signatureGrammar](
		participle.Lexer(sqlLexer),
		participle.Elide("Whitespace"),
	)
)

// Call is a parsed function call.
type Call struct {
	Name string
	Args []udf.Value
}

// String renders the call with SQL literal syntax.
func (c *Call) String() string {
	args := make([]string, len(c.Args))
	for i, a := range c.Args {
		args[i] = a.String()
	}
	return c.Name + "(" + strings.Join(args, ", ") + ")"
}

// ParseCall parses a call whose arguments are integer, real, 'text',
// x'hex' blob, NULL, TRUE or FALSE literals. TRUE and FALSE are the
// integers 1 and 0.
func ParseCall(s string) (*Call, error) {
	parsed, err := callParser.ParseString("", s)
	if err != nil {
		return nil, &errors.ParseError{Format: "call", Input: s, Message: err.Error(), Err: err}
	}
	call := &Call{Name: parsed.Name, Args: make([]udf.Value, len(parsed.Args))}
	for i, lit := range parsed.Args {
		v, err := lit.value()
		if err != nil {
			return nil, errors.NewParse("call", s, fmt.Sprintf("argument %d: %v", i+1, err))
		}
		call.Args[i] = v
	}
	return call, nil
}

func (l *literal) value() (udf.Value, error) {
	neg := l.Sign != nil && *l.Sign == "-"
	signed := l.Sign != nil

	switch {
	case l.Int != nil:
		digits := *l.Int
		if neg {
			digits = "-" + digits
		}
		n, err := strconv.ParseInt(digits, 10, 64)
		if err != nil {
			// Integer literals that overflow become reals.
			f, ferr := strconv.ParseFloat(digits, 64)
			if ferr != nil {
				return udf.Value{}, ferr
			}
			return udf.Real(f), nil
		}
		return udf.Integer(n), nil
	case l.Float != nil:
		f, err := strconv.ParseFloat(*l.Float, 64)
		if err != nil {
			return udf.Value{}, err
		}
		if neg {
			f = -f
		}
		return udf.Real(f), nil
	case signed:
		return udf.Value{}, fmt.Errorf("sign applied to a non-numeric literal")
	case l.String != nil:
		s := *l.String
		return udf.Text(strings.ReplaceAll(s[1:len(s)-1], "''", "'")), nil
	case l.Blob != nil:
		s := *l.Blob
		b, err := hex.DecodeString(s[2 : len(s)-1])
		if err != nil {
			return udf.Value{}, fmt.Errorf("malformed blob literal %s", s)
		}
		return udf.Blob(b), nil
	case l.Word != nil:
		switch strings.ToUpper(*l.Word) {
		case "NULL":
			return udf.Null(), nil
		case "TRUE":
			return udf.Integer(1), nil
		case "FALSE":
			return udf.Integer(0), nil
		}
		return udf.Value{}, fmt.Errorf("unknown literal %s", *l.Word)
	}
	return udf.Null(), nil
}

// Signature is a parsed function head: a name and parameter names.
type Signature struct {
	Name   string
	Params []string
}

// ParseSignature parses "name(p1, p2, ...)". Parameter names must be unique.
func ParseSignature(s string) (*Signature, error) {
	parsed, err := signatureParser.ParseString("", s)
	if err != nil {
		return nil, &errors.ParseError{Format: "signature", Input: s, Message: err.Error(), Err: err}
	}
	seen := make(map[string]bool, len(parsed.Params))
	for _, p := range parsed.Params {
		if seen[p] {
			return nil, errors.NewParse("signature", s, fmt.Sprintf("duplicate parameter %s", p))
		}
		seen[p] = true
	}
	return &Signature{Name: parsed.Name, Params: parsed.Params}, nil
}
