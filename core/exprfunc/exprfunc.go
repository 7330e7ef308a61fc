// Package exprfunc defines SQL functions from one-line expressions:
//
//	area(w, h) = w * h
//	greet(name) = "hello, " + name
//	clamp(x, lo, hi) = x < lo ? lo : (x > hi ? hi : x)
//
// The body is an expr-lang expression compiled once at definition time.
// Parameters are bound by name to the argument values (int64, float64,
// string, []byte or nil) and all arguments are also available as args.
package exprfunc

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/conf"
	"github.com/expr-lang/expr/vm"
	"github.com/spf13/cast"

	"github.com/FocuswithJustin/sqlcontext/core/callexpr"
	"github.com/FocuswithJustin/sqlcontext/core/errors"
	"github.com/FocuswithJustin/sqlcontext/core/udf"
)

const argsName = "args"

var anyType = reflect.TypeOf((*any)(nil)).Elem()

// Definition is the source of an expression-defined function. It is the
// UserData of the functions Define returns.
type Definition struct {
	Name   string
	Params []string
	Body   string
}

func (d *Definition) String() string {
	return fmt.Sprintf("%s(%s) = %s", d.Name, strings.Join(d.Params, ", "), d.Body)
}

// Define compiles def into a function whose arity is its parameter count.
func Define(def string) (*udf.Function, error) {
	head, body, ok := strings.Cut(def, "=")
	if !ok {
		return nil, errors.NewParse("definition", def, "missing '='")
	}
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, errors.NewParse("definition", def, "empty body")
	}
	sig, err := callexpr.ParseSignature(strings.TrimSpace(head))
	if err != nil {
		return nil, err
	}

	for _, p := range sig.Params {
		if p == argsName {
			return nil, errors.NewParse("definition", def, "parameter name args is reserved")
		}
	}
	env := map[string]any{argsName: []any{}}
	program, err := expr.Compile(body, expr.Env(env), untyped(sig.Params))
	if err != nil {
		return nil, &errors.ParseError{Format: "expression", Input: body, Message: err.Error(), Err: err}
	}

	d := &Definition{Name: sig.Name, Params: sig.Params, Body: body}
	return &udf.Function{
		Name:     sig.Name,
		NArgs:    len(sig.Params),
		UserData: d,
		Impl:     evaluate(d, program),
	}, nil
}

// MustDefine is like Define but panics on error.
func MustDefine(def string) *udf.Function {
	fn, err := Define(def)
	if err != nil {
		panic(err)
	}
	return fn
}

// untyped declares params as variables of unknown type. SQL arguments carry
// their type per row, so the checker must accept any operand; names outside
// params and args are still rejected.
func untyped(params []string) expr.Option {
	return func(c *conf.Config) {
		for _, p := range params {
			c.Types[p] = conf.Tag{Type: anyType}
		}
	}
}

func evaluate(d *Definition, program *vm.Program) udf.Func {
	return func(ctx *udf.Context) {
		args := ctx.Args()
		env := make(map[string]any, len(d.Params)+1)
		all := make([]any, len(args))
		for i, a := range args {
			all[i] = a.Interface()
			env[d.Params[i]] = all[i]
		}
		env[argsName] = all

		out, err := expr.Run(program, env)
		if err != nil {
			ctx.Error(fmt.Sprintf("%s: %v", d.Name, err))
			return
		}
		report(ctx, d.Name, out)
	}
}

// report resolves ctx with the expression result.
func report(ctx *udf.Context, name string, out any) {
	switch v := out.(type) {
	case nil:
		ctx.ResultNull()
	case bool:
		ctx.ResultBool(v)
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		n, err := cast.ToInt64E(v)
		if err != nil {
			ctx.Error(fmt.Sprintf("%s: %v", name, err))
			return
		}
		ctx.ResultInt64(n)
	case float32, float64:
		ctx.ResultFloat64(cast.ToFloat64(v))
	case string:
		ctx.ResultText(v)
	case []byte:
		ctx.ResultBlob(v)
	default:
		// Stringers such as time.Time render as text.
		s, err := cast.ToStringE(out)
		if err != nil {
			ctx.Error(fmt.Sprintf("%s: %v", name, errors.NewUnsupported("result type", fmt.Sprintf("%T", out))))
			return
		}
		ctx.ResultText(s)
	}
}
