/*
Package udf adapts an embedded SQL engine's user-defined function calling
convention to typed Go.

When the engine evaluates a host-implemented SQL function it supplies an
opaque per-call handle and an array of opaque argument values. NewContext
copies the arguments into immutable Values and wraps the handle in a Context
that offers typed result and error reporting.

# Values

A Value is a closed tagged union over NULL, 64-bit integer, double, UTF-8
text and blob:

	v := udf.Integer(5)
	v.Kind()    // udf.KindInteger
	v.Text()    // "5"
	v.Float64() // 5.0

Reading a Value through an accessor of another kind converts it the way
sqlite3_value_int64, sqlite3_value_double and friends do.

# Outcome

Every invocation resolves exactly once, with one of

	ctx.ResultNull()
	ctx.ResultInt32(v) / ctx.ResultInt64(v)
	ctx.ResultFloat64(v)
	ctx.ResultBool(v)        // 1 or 0
	ctx.ResultText(s)
	ctx.ResultBlob(b)        // copied by the engine
	ctx.ResultValue(v)
	ctx.Error(msg)
	ctx.ErrorCode(code)
	ctx.Fail(err)

A function that reports nothing returns NULL. Reporting twice is a contract
violation; it is logged and the engine keeps the last write. Building with
the udf_debug tag turns it into a panic.

# Engines

An engine implements Handle and ValueHandle. Package vm is an in-process
engine; package sqlite binds Functions to database/sql SQLite drivers through
Invoke and Capture.

# Example

	reg := udf.NewRegistry()
	reg.MustRegister(&udf.Function{
		Name:          "half",
		NArgs:         1,
		Deterministic: true,
		Impl: func(ctx *udf.Context) {
			arg := ctx.Arg(0)
			if arg.IsNull() {
				ctx.ResultNull()
				return
			}
			ctx.ResultFloat64(arg.Float64() / 2)
		},
	})
*/
package udf
