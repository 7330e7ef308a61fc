//go:build cgo_sqlite

// Package sqliteexternal provides a CGO-based SQLite driver using mattn/go-sqlite3.
// This is an optional external dependency for performance-critical applications.
//
// Build with: go build -tags cgo_sqlite
// Requires: CGO_ENABLED=1
package sqliteexternal

import (
	"database/sql"
	"database/sql/driver"
	"fmt"
	"strings"
	"sync"

	sqlite3 "github.com/mattn/go-sqlite3"
)

const (
	// DriverName is the SQL driver name to use with database/sql. It differs
	// from mattn's own "sqlite3" registration because it carries a ConnectHook.
	DriverName = "sqlite3_udf"

	// DriverType identifies this as the CGO implementation.
	DriverType = "cgo"

	// DriverPackage is the import path of the underlying driver.
	DriverPackage = "github.com/mattn/go-sqlite3"
)

// ScalarFunc is a scalar SQL function over driver values.
type ScalarFunc func(args []driver.Value) (driver.Value, error)

type function struct {
	name string
	pure bool
	impl ScalarFunc
}

var (
	mu        sync.RWMutex
	functions []function
)

func init() {
	sql.Register(DriverName, &sqlite3.SQLiteDriver{ConnectHook: connectHook})
}

// RegisterFunction adds a variadic function that is attached to every
// connection opened afterwards. Names are unique, ignoring case.
func RegisterFunction(name string, pure bool, impl ScalarFunc) error {
	mu.Lock()
	defer mu.Unlock()
	for _, fn := range functions {
		if strings.EqualFold(fn.name, name) {
			return fmt.Errorf("a function named %q is already registered", name)
		}
	}
	functions = append(functions, function{name: name, pure: pure, impl: impl})
	return nil
}

func connectHook(conn *sqlite3.SQLiteConn) error {
	mu.RLock()
	fns := make([]function, len(functions))
	copy(fns, functions)
	mu.RUnlock()

	for _, fn := range fns {
		if err := conn.RegisterFunc(fn.name, adapt(fn.impl), fn.pure); err != nil {
			return err
		}
	}
	return nil
}

// adapt converts impl to the reflective signature mattn accepts. mattn passes
// NULL as a nil []byte and returns an empty []byte as NULL.
func adapt(impl ScalarFunc) func(args ...interface{}) (interface{}, error) {
	return func(args ...interface{}) (interface{}, error) {
		values := make([]driver.Value, len(args))
		for i, a := range args {
			values[i] = a
		}
		return impl(values)
	}
}
