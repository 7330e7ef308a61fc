package udf

import (
	"database/sql/driver"
)

// ValueHandle is an engine-owned argument value. It is borrowed for the
// duration of one call and must not be retained.
type ValueHandle interface {
	Kind() Kind
	Int64() int64
	Float64() float64
	Text() string
	// Blob may alias engine memory; callers copy before the call returns.
	Blob() []byte
}

// Handle is the engine's opaque per-call context: the place a function
// invocation writes its outcome. Implementations of ResultText and
// ResultBlob must copy their argument.
type Handle interface {
	UserData() any
	ResultNull()
	ResultInt64(v int64)
	ResultFloat64(v float64)
	ResultText(v string)
	ResultBlob(v []byte)
	ResultError(msg string)
	ResultErrorCode(code Code)
}

// OutcomeKind reports what a Capture has recorded.
type OutcomeKind int

const (
	OutcomePending OutcomeKind = iota
	OutcomeValue
	OutcomeError
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomePending:
		return "pending"
	case OutcomeValue:
		return "value"
	case OutcomeError:
		return "error"
	default:
		return "unknown"
	}
}

// Outcome is the engine-visible result of one invocation.
type Outcome struct {
	Kind    OutcomeKind
	Value   Value
	Code    Code
	Message string
}

// Err returns the reported failure, or nil for pending and value outcomes.
func (o Outcome) Err() error {
	if o.Kind != OutcomeError {
		return nil
	}
	return &Error{Code: o.Code, Message: o.Message}
}

// Capture is a Handle that records the outcome in memory, the way the engine
// records it in its result register. Database drivers that only accept a
// (driver.Value, error) pair use it to bridge into a Context.
type Capture struct {
	userData any
	outcome  Outcome
}

// NewCapture returns a Capture carrying the given user data.
func NewCapture(userData any) *Capture {
	return &Capture{userData: userData}
}

// Outcome returns what has been reported so far.
func (c *Capture) Outcome() Outcome {
	return c.outcome
}

func (c *Capture) UserData() any {
	return c.userData
}

func (c *Capture) ResultNull() {
	c.setValue(Null())
}

func (c *Capture) ResultInt64(v int64) {
	c.setValue(Integer(v))
}

func (c *Capture) ResultFloat64(v float64) {
	c.setValue(Real(v))
}

func (c *Capture) ResultText(v string) {
	c.setValue(Text(v))
}

func (c *Capture) ResultBlob(v []byte) {
	c.setValue(Blob(v))
}

func (c *Capture) ResultError(msg string) {
	c.outcome = Outcome{Kind: OutcomeError, Code: CodeError, Message: msg}
}

// ResultErrorCode keeps a message set by an earlier ResultError, like
// sqlite3_result_error_code does.
func (c *Capture) ResultErrorCode(code Code) {
	msg := ""
	if c.outcome.Kind == OutcomeError {
		msg = c.outcome.Message
	}
	if msg == "" {
		msg = code.Message()
	}
	c.outcome = Outcome{Kind: OutcomeError, Code: code, Message: msg}
}

func (c *Capture) setValue(v Value) {
	c.outcome = Outcome{Kind: OutcomeValue, Value: v}
}

// DriverResult converts the outcome to the pair database/sql drivers expect
// from a scalar function. A pending outcome is NULL.
func (c *Capture) DriverResult() (driver.Value, error) {
	switch c.outcome.Kind {
	case OutcomeError:
		return nil, c.outcome.Err()
	case OutcomeValue:
		return c.outcome.Value.Interface(), nil
	default:
		return nil, nil
	}
}

// driverArg adapts a driver.Value argument to ValueHandle.
type driverArg struct {
	v Value
}

// DriverArgs wraps driver values as engine value handles.
func DriverArgs(args []driver.Value) []ValueHandle {
	handles := make([]ValueHandle, len(args))
	for i, a := range args {
		handles[i] = driverArg{v: FromDriverValue(a)}
	}
	return handles
}

func (a driverArg) Kind() Kind       { return a.v.Kind() }
func (a driverArg) Int64() int64     { return a.v.Int64() }
func (a driverArg) Float64() float64 { return a.v.Float64() }
func (a driverArg) Text() string     { return a.v.Text() }
func (a driverArg) Blob() []byte     { return a.v.Blob() }
