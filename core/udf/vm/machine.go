// Package vm is a small register machine that calls host functions the way an
// embedded SQL engine does for OP_Function: argument values live in engine
// registers, the function writes its outcome into a per-call context, and the
// engine copies the result into an output register.
package vm

import (
	"fmt"
	"strconv"

	"github.com/FocuswithJustin/sqlcontext/core/errors"
	"github.com/FocuswithJustin/sqlcontext/core/udf"
	"github.com/FocuswithJustin/sqlcontext/internal/logging"
)

// callContext is the engine side of one function invocation.
type callContext struct {
	fn      *udf.Function
	out     *Mem
	isError bool
	code    udf.Code
	msg     string
}

func newCallContext(fn *udf.Function) *callContext {
	// An unreported result is NULL.
	return &callContext{fn: fn, out: NewMemNull()}
}

func (c *callContext) UserData() any {
	return c.fn.UserData
}

func (c *callContext) ResultNull() {
	c.clearError()
	c.out.SetNull()
}

func (c *callContext) ResultInt64(v int64) {
	c.clearError()
	c.out.SetInt(v)
}

func (c *callContext) ResultFloat64(v float64) {
	c.clearError()
	c.out.SetReal(v)
}

func (c *callContext) ResultText(v string) {
	c.clearError()
	c.out.SetStr(v)
}

func (c *callContext) ResultBlob(v []byte) {
	c.clearError()
	c.out.SetBlob(v)
}

func (c *callContext) ResultError(msg string) {
	c.isError = true
	c.code = udf.CodeError
	c.msg = msg
	c.out.SetStr(msg)
}

// ResultErrorCode keeps a message set by ResultError, otherwise the code's
// default message becomes the error text.
func (c *callContext) ResultErrorCode(code udf.Code) {
	if !c.isError || c.msg == "" {
		c.msg = code.Message()
		c.out.SetStr(c.msg)
	}
	c.isError = true
	c.code = code
}

func (c *callContext) clearError() {
	c.isError = false
	c.code = udf.CodeOK
	c.msg = ""
}

func (c *callContext) err() error {
	if !c.isError {
		return nil
	}
	return &udf.Error{Code: c.code, Message: c.msg}
}

// Machine holds a register file and a registry of callable functions. A
// Machine is used by one goroutine at a time, like a prepared statement; the
// registry may be shared.
type Machine struct {
	registry *udf.Registry
	mem      []*Mem
}

// NewMachine creates a machine with nMem NULL registers.
func NewMachine(registry *udf.Registry, nMem int) *Machine {
	mem := make([]*Mem, nMem)
	for i := range mem {
		mem[i] = NewMemNull()
	}
	return &Machine{registry: registry, mem: mem}
}

// NumRegs returns the size of the register file.
func (m *Machine) NumRegs() int {
	return len(m.mem)
}

// Reg returns register i.
func (m *Machine) Reg(i int) (*Mem, error) {
	if i < 0 || i >= len(m.mem) {
		return nil, &errors.ValidationError{
			Field:   "register",
			Value:   strconv.Itoa(i),
			Message: fmt.Sprintf("%d out of range [0, %d)", i, len(m.mem)),
		}
	}
	return m.mem[i], nil
}

// SetReg copies v into register i.
func (m *Machine) SetReg(i int, v *Mem) error {
	dst, err := m.Reg(i)
	if err != nil {
		return err
	}
	dst.Copy(v)
	return nil
}

// Call invokes name on registers [firstArg, firstArg+nArg) and stores the
// result in register out. A failure reported by the function is returned as
// a *udf.Error and leaves the error text in out.
func (m *Machine) Call(name string, firstArg, nArg, out int) error {
	if nArg < 0 || firstArg < 0 || firstArg+nArg > len(m.mem) {
		return &errors.ValidationError{
			Field:   "arguments",
			Value:   name,
			Message: fmt.Sprintf("registers [%d, %d) out of range [0, %d)", firstArg, firstArg+nArg, len(m.mem)),
		}
	}
	dst, err := m.Reg(out)
	if err != nil {
		return errors.Wrapf(err, "result register for %s", name)
	}

	fn, err := m.registry.Lookup(name, nArg)
	if err != nil {
		return err
	}

	argv := make([]udf.ValueHandle, nArg)
	for i := range argv {
		argv[i] = m.mem[firstArg+i]
	}

	ctx := newCallContext(fn)
	fn.Call(ctx, argv)
	dst.Copy(ctx.out)

	if err := ctx.err(); err != nil {
		logging.FunctionError(fn.Name, int(ctx.code), ctx.msg, "engine", "vm")
		return err
	}
	return nil
}

// Eval loads args into the low registers, growing the register file when
// needed, and calls name. The result is returned as a new Mem.
func (m *Machine) Eval(name string, args ...*Mem) (*Mem, error) {
	need := len(args) + 1
	for len(m.mem) < need {
		m.mem = append(m.mem, NewMemNull())
	}
	for i, a := range args {
		if a == nil {
			return nil, errors.NewValidation("args", fmt.Sprintf("argument %d is nil", i))
		}
		m.mem[i].Copy(a)
	}
	out := len(args)
	if err := m.Call(name, 0, len(args), out); err != nil {
		return nil, err
	}
	result := NewMem()
	result.Copy(m.mem[out])
	return result, nil
}
