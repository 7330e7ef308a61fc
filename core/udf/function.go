package udf

import (
	"database/sql/driver"
	"sort"
	"strings"
	"sync"

	"github.com/FocuswithJustin/sqlcontext/core/errors"
)

// MaxArgs is the largest fixed arity an engine accepts for a function.
const MaxArgs = 127

// Func is the body of a scalar SQL function. It reads its arguments from ctx
// and reports exactly one result or error.
type Func func(ctx *Context)

// Function describes a host function to register with an engine.
type Function struct {
	// Name is the SQL name; lookups are case-insensitive.
	Name string

	// NArgs is the required number of arguments, or -1 for variadic.
	NArgs int

	// Deterministic functions return the same result for the same arguments.
	Deterministic bool

	// UserData is handed to every invocation through Context.UserData.
	// Synchronizing access to it is the registrant's job.
	UserData any

	Impl Func
}

// Validate checks that f can be registered.
func (f *Function) Validate() error {
	if f == nil {
		return errors.NewValidation("function", "nil function")
	}
	if strings.TrimSpace(f.Name) == "" {
		return errors.NewValidation("name", "must not be empty")
	}
	if f.NArgs < -1 || f.NArgs > MaxArgs {
		return &errors.ValidationError{
			Field:   "nargs",
			Value:   f.Name,
			Message: "must be -1 or between 0 and 127",
		}
	}
	if f.Impl == nil {
		return &errors.ValidationError{Field: "impl", Value: f.Name, Message: "must not be nil"}
	}
	return nil
}

// Accepts reports whether f can be called with n arguments.
func (f *Function) Accepts(n int) bool {
	return f.NArgs < 0 || f.NArgs == n
}

// Call invokes f against an engine handle. It is what an engine does for a
// single row: build the context, run the body.
func (f *Function) Call(h Handle, argv []ValueHandle) {
	f.Impl(NewContext(h, len(argv), argv))
}

// Invoke runs f on driver values and returns the driver-level result. It is
// the trampoline for database/sql drivers whose scalar callbacks take and
// return driver.Value.
func Invoke(f *Function, args []driver.Value) (driver.Value, error) {
	capture := NewCapture(f.UserData)
	f.Call(capture, DriverArgs(args))
	return capture.DriverResult()
}

// Registry holds functions keyed by lower-cased name and arity.
type Registry struct {
	mu        sync.RWMutex
	functions map[string][]*Function
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		functions: make(map[string][]*Function),
	}
}

// Register adds fn. A function with the same name and arity is rejected.
func (r *Registry) Register(fn *Function) error {
	if err := fn.Validate(); err != nil {
		return err
	}
	key := strings.ToLower(fn.Name)

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.functions[key] {
		if existing.NArgs == fn.NArgs {
			return errors.Wrapf(errors.ErrAlreadyExists, "function %s/%d", fn.Name, fn.NArgs)
		}
	}
	r.functions[key] = append(r.functions[key], fn)
	return nil
}

// Unregister removes the function registered under name with exactly nargs
// and reports whether one was found.
func (r *Registry) Unregister(name string, nargs int) bool {
	key := strings.ToLower(name)

	r.mu.Lock()
	defer r.mu.Unlock()

	overloads := r.functions[key]
	for i, fn := range overloads {
		if fn.NArgs != nargs {
			continue
		}
		overloads = append(overloads[:i:i], overloads[i+1:]...)
		if len(overloads) == 0 {
			delete(r.functions, key)
		} else {
			r.functions[key] = overloads
		}
		return true
	}
	return false
}

// MustRegister is like Register but panics on error.
func (r *Registry) MustRegister(fn *Function) {
	if err := r.Register(fn); err != nil {
		panic(err)
	}
}

// Lookup finds the function to call for name with nargs arguments. An exact
// arity match wins over a variadic one.
func (r *Registry) Lookup(name string, nargs int) (*Function, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	overloads, ok := r.functions[strings.ToLower(name)]
	if !ok {
		return nil, errors.NewNotFound("function", name)
	}
	var variadic *Function
	for _, fn := range overloads {
		if fn.NArgs == nargs {
			return fn, nil
		}
		if fn.NArgs < 0 {
			variadic = fn
		}
	}
	if variadic != nil {
		return variadic, nil
	}
	return nil, &errors.ArityError{Function: name, Got: nargs}
}

// Functions returns all registered functions ordered by name, then arity.
func (r *Registry) Functions() []*Function {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*Function, 0, len(r.functions))
	for _, overloads := range r.functions {
		result = append(result, overloads...)
	}
	sort.Slice(result, func(i, j int) bool {
		a, b := strings.ToLower(result[i].Name), strings.ToLower(result[j].Name)
		if a != b {
			return a < b
		}
		return result[i].NArgs < result[j].NArgs
	})
	return result
}

// Len returns the number of registered functions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n := 0
	for _, overloads := range r.functions {
		n += len(overloads)
	}
	return n
}
