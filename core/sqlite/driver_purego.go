//go:build !cgo_sqlite

package sqlite

import (
	"database/sql/driver"

	msqlite "modernc.org/sqlite"
)

const (
	driverName    = "sqlite"
	driverType    = "purego"
	driverPackage = "modernc.org/sqlite"
)

// registerDriverFunction installs impl as a variadic function. modernc keys
// functions by name alone, so arity is checked in dispatch.
func registerDriverFunction(name string, deterministic bool, impl scalarFunc) error {
	return msqlite.RegisterFunction(name, &msqlite.FunctionImpl{
		NArgs:         -1,
		Deterministic: deterministic,
		Scalar: func(_ *msqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
			return impl(args)
		},
	})
}
