// Package sqlite binds host functions to SQLite through database/sql, using
// either the pure Go driver (modernc.org/sqlite) or the CGO driver
// (mattn/go-sqlite3).
//
// Build modes:
//   - Default (CGO_ENABLED=0): Uses pure Go modernc.org/sqlite
//   - CGO mode (CGO_ENABLED=1 -tags cgo_sqlite): Uses mattn/go-sqlite3 via contrib/sqlite-external
//
// Functions are registered process-wide and attached to every connection
// opened afterwards, so register them before calling Open.
//
// Use Open() instead of sql.Open() to ensure the correct driver is used.
package sqlite

import (
	"database/sql"
	"database/sql/driver"
	"fmt"
	"strings"
	"sync"

	"github.com/FocuswithJustin/sqlcontext/core/errors"
	"github.com/FocuswithJustin/sqlcontext/core/udf"
	"github.com/FocuswithJustin/sqlcontext/internal/logging"
)

// scalarFunc is the driver-level shape of a scalar function.
type scalarFunc = func(args []driver.Value) (driver.Value, error)

var (
	bindMu sync.Mutex
	// bound holds every function handed to the driver. The driver sees one
	// variadic entry point per name; overloads are resolved here by arity.
	bound = udf.NewRegistry()
	names = make(map[string]bool)
)

// DriverName returns the SQL driver name to use.
func DriverName() string {
	return driverName
}

// DriverType returns a string identifying the underlying implementation.
// Returns "cgo" for mattn/go-sqlite3, "purego" for modernc.org/sqlite.
func DriverType() string {
	return driverType
}

// IsCGO returns true if the CGO implementation is being used.
func IsCGO() bool {
	return driverType == "cgo"
}

// Open opens a SQLite database using the appropriate driver.
func Open(dataSourceName string) (*sql.DB, error) {
	return sql.Open(driverName, dataSourceName)
}

// OpenReadOnly opens a SQLite database file in read-only mode.
func OpenReadOnly(path string) (*sql.DB, error) {
	return Open("file:" + path + "?mode=ro")
}

// RegisterFunction makes fn callable from SQL on connections opened after
// the call returns. Registering the same name and arity twice is an error.
// If the driver refuses the name, fn is not kept and a later call retries.
func RegisterFunction(fn *udf.Function) error {
	bindMu.Lock()
	defer bindMu.Unlock()

	if err := bound.Register(fn); err != nil {
		return err
	}
	key := strings.ToLower(fn.Name)
	if !names[key] {
		name := fn.Name
		err := registerDriverFunction(name, fn.Deterministic, func(args []driver.Value) (driver.Value, error) {
			return dispatch(name, args)
		})
		if err != nil {
			bound.Unregister(fn.Name, fn.NArgs)
			return fmt.Errorf("register %s with %s driver: %w", name, driverType, err)
		}
		names[key] = true
	}
	logging.FunctionRegistered(driverType, fn.Name, fn.NArgs)
	return nil
}

// RegisterFunctions registers every function in reg.
func RegisterFunctions(reg *udf.Registry) error {
	for _, fn := range reg.Functions() {
		if err := RegisterFunction(fn); err != nil {
			return err
		}
	}
	return nil
}

// Functions returns the functions registered with the driver.
func Functions() []*udf.Function {
	return bound.Functions()
}

func dispatch(name string, args []driver.Value) (driver.Value, error) {
	fn, err := bound.Lookup(name, len(args))
	if err != nil {
		return nil, err
	}
	v, err := udf.Invoke(fn, args)
	var sqlErr *udf.Error
	if errors.As(err, &sqlErr) {
		logging.FunctionError(fn.Name, int(sqlErr.Code), sqlErr.Message, "engine", driverType)
	}
	return v, err
}

// Info contains information about the SQLite driver configuration.
type Info struct {
	DriverName string `json:"driver_name"`
	DriverType string `json:"driver_type"`
	IsCGO      bool   `json:"is_cgo"`
	Package    string `json:"package"`
	Functions  int    `json:"functions"`
}

// GetInfo returns information about the current SQLite configuration.
func GetInfo() Info {
	return Info{
		DriverName: driverName,
		DriverType: driverType,
		IsCGO:      IsCGO(),
		Package:    driverPackage,
		Functions:  bound.Len(),
	}
}
