package udf

import (
	"fmt"

	"github.com/FocuswithJustin/sqlcontext/core/errors"
	"github.com/FocuswithJustin/sqlcontext/internal/logging"
)

// state of the outcome slot.
type state uint8

const (
	statePending state = iota
	stateResolved
)

// Context is the per-invocation view of a function call: the copied
// arguments, the registration's user data, and the single outcome slot.
//
// A Context is valid only while the engine's call is in progress. It must not
// be retained, reused, or shared across goroutines.
type Context struct {
	handle Handle
	args   []Value
	state  state
	last   string // operation that resolved the outcome
}

// NewContext copies argv into a new Context. argc must equal len(argv);
// anything else is an engine contract violation and panics.
func NewContext(h Handle, argc int, argv []ValueHandle) *Context {
	if h == nil {
		panic(errors.NewContract("NewContext", "nil handle"))
	}
	if argc < 0 || argc != len(argv) {
		panic(errors.NewContract("NewContext",
			fmt.Sprintf("argc %d does not match %d argument handles", argc, len(argv))))
	}
	args := make([]Value, argc)
	for i, v := range argv {
		args[i] = FromHandle(v)
	}
	return &Context{handle: h, args: args}
}

// UserData returns the auxiliary data supplied when the function was
// registered, or nil. Its type is known only to the registrant.
func (c *Context) UserData() any {
	return c.handle.UserData()
}

// Args returns the arguments in call order. The returned slice is a copy.
func (c *Context) Args() []Value {
	out := make([]Value, len(c.args))
	copy(out, c.args)
	return out
}

// NumArgs returns the number of arguments passed to the call.
func (c *Context) NumArgs() int {
	return len(c.args)
}

// Arg returns the i'th argument. It panics if i is out of range.
func (c *Context) Arg(i int) Value {
	return c.args[i]
}

// Resolved reports whether a result or error has been reported.
func (c *Context) Resolved() bool {
	return c.state == stateResolved
}

// ResultNull reports a NULL result.
func (c *Context) ResultNull() {
	c.resolve("ResultNull")
	c.handle.ResultNull()
}

// ResultInt32 reports an integer result.
func (c *Context) ResultInt32(v int32) {
	c.resolve("ResultInt32")
	c.handle.ResultInt64(int64(v))
}

// ResultInt64 reports an integer result.
func (c *Context) ResultInt64(v int64) {
	c.resolve("ResultInt64")
	c.handle.ResultInt64(v)
}

// ResultFloat64 reports a real result.
func (c *Context) ResultFloat64(v float64) {
	c.resolve("ResultFloat64")
	c.handle.ResultFloat64(v)
}

// ResultBool reports true as integer 1 and false as integer 0.
func (c *Context) ResultBool(v bool) {
	c.resolve("ResultBool")
	var n int64
	if v {
		n = 1
	}
	c.handle.ResultInt64(n)
}

// ResultText reports a text result.
func (c *Context) ResultText(v string) {
	c.resolve("ResultText")
	c.handle.ResultText(v)
}

// ResultBlob reports a blob result. The engine copies v, so the caller may
// reuse the buffer as soon as ResultBlob returns.
func (c *Context) ResultBlob(v []byte) {
	c.resolve("ResultBlob")
	if v == nil {
		v = []byte{}
	}
	c.handle.ResultBlob(v)
}

// ResultValue reports v with the result operation matching its kind.
func (c *Context) ResultValue(v Value) {
	c.resolve("ResultValue")
	switch v.Kind() {
	case KindInteger:
		c.handle.ResultInt64(v.Int64())
	case KindReal:
		c.handle.ResultFloat64(v.Float64())
	case KindText:
		c.handle.ResultText(v.Text())
	case KindBlob:
		c.handle.ResultBlob(v.Blob())
	default:
		c.handle.ResultNull()
	}
}

// Error reports a failure carrying msg.
func (c *Context) Error(msg string) {
	c.resolve("Error")
	c.handle.ResultError(msg)
}

// ErrorCode reports a failure carrying code and the engine's default message
// for it.
func (c *Context) ErrorCode(code Code) {
	c.resolve("ErrorCode")
	c.handle.ResultErrorCode(code)
}

// Fail reports err. An *Error keeps its code and message; any other error is
// reported with CodeError and its text. A nil err reports CodeError with the
// default message.
func (c *Context) Fail(err error) {
	c.resolve("Fail")
	if err == nil {
		c.handle.ResultErrorCode(CodeError)
		return
	}
	var sqlErr *Error
	if errors.As(err, &sqlErr) {
		if sqlErr.Message != "" {
			c.handle.ResultError(sqlErr.Message)
		}
		c.handle.ResultErrorCode(sqlErr.Code)
		return
	}
	c.handle.ResultError(err.Error())
}

// resolve moves the outcome slot to resolved. A second resolution is a
// contract violation: logged, then forwarded (the engine keeps the last
// write), or a panic in udf_debug builds.
func (c *Context) resolve(op string) {
	if c.state == stateResolved {
		reason := fmt.Sprintf("outcome already resolved by %s", c.last)
		if debugContracts {
			panic(errors.NewContract(op, reason))
		}
		logging.ContractViolation(op, reason)
	}
	c.state = stateResolved
	c.last = op
}
