// Command sqlctx registers host SQL functions with SQLite and runs queries
// and single function calls against them.
package main

import (
	"context"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/alecthomas/kong"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/FocuswithJustin/sqlcontext/core/callexpr"
	"github.com/FocuswithJustin/sqlcontext/core/errors"
	"github.com/FocuswithJustin/sqlcontext/core/exprfunc"
	"github.com/FocuswithJustin/sqlcontext/core/extfuncs"
	"github.com/FocuswithJustin/sqlcontext/core/sqlite"
	"github.com/FocuswithJustin/sqlcontext/core/udf"
	"github.com/FocuswithJustin/sqlcontext/core/udf/vm"
	"github.com/FocuswithJustin/sqlcontext/internal/logging"
	"github.com/FocuswithJustin/sqlcontext/internal/validation"
)

const version = "0.1.0"

// Globals are flags shared by every command.
type Globals struct {
	LogLevel  string   `name:"log-level" env:"SQLCTX_LOG_LEVEL" default:"warn" enum:"debug,info,warn,error" help:"Log level (debug, info, warn, error)"`
	LogFormat string   `name:"log-format" env:"SQLCTX_LOG_FORMAT" default:"text" enum:"text,json" help:"Log format (text, json)"`
	Define    []string `name:"define" short:"d" env:"SQLCTX_DEFINE" sep:";" help:"Define a function, e.g. 'area(w, h) = w * h' (repeatable, ';'-separated in env)"`
}

// CLI defines the command-line interface for sqlctx.
type CLI struct {
	Globals

	Query   QueryCmd   `cmd:"" help:"Run a SQL query with the functions registered"`
	Eval    EvalCmd    `cmd:"" help:"Evaluate one function call with literal arguments"`
	Funcs   FuncsCmd   `cmd:"" help:"List available functions"`
	Info    InfoCmd    `cmd:"" help:"Show SQLite driver information"`
	Version VersionCmd `cmd:"" help:"Print version information"`
}

// app is the state handed to every command.
type app struct {
	out      io.Writer
	registry *udf.Registry
}

// QueryCmd runs SQL against a database.
type QueryCmd struct {
	DB       string `name:"db" default:":memory:" help:"Database path or DSN"`
	ReadOnly bool   `name:"read-only" help:"Open the database file read-only"`
	Header   bool   `name:"header" help:"Print column names first"`
	SQL      string `arg:"" help:"SQL statement to run"`
}

// open connects to the database named by --db, read-only when asked.
func (c *QueryCmd) open(ctx context.Context) (*sqlx.DB, error) {
	var (
		raw *sql.DB
		err error
	)
	if c.ReadOnly {
		if c.DB == ":memory:" || strings.HasPrefix(c.DB, "file:") {
			return nil, &errors.ValidationError{Field: "db", Value: c.DB, Message: "--read-only needs a database file path"}
		}
		raw, err = sqlite.OpenReadOnly(c.DB)
	} else {
		raw, err = sqlite.Open(c.DB)
	}
	if err != nil {
		return nil, err
	}
	db := sqlx.NewDb(raw, sqlite.DriverName())
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

func (c *QueryCmd) Run(a *app) error {
	if err := validation.ValidateDatabase(c.DB); err != nil {
		return err
	}
	if err := validation.ValidateStatement(c.SQL); err != nil {
		return err
	}
	for _, fn := range a.registry.Functions() {
		err := sqlite.RegisterFunction(fn)
		if errors.Is(err, errors.ErrAlreadyExists) {
			continue
		}
		if err != nil {
			return err
		}
	}

	ctx := logging.WithQueryID(context.Background(), uuid.NewString())
	logger := logging.LoggerFromContext(ctx)

	db, err := c.open(ctx)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", c.DB, err)
	}
	defer db.Close()

	start := time.Now()
	rows, err := db.QueryxContext(ctx, c.SQL)
	if err != nil {
		logger.Error("query_failed", "error", err)
		return err
	}
	defer rows.Close()

	if c.Header {
		cols, err := rows.Columns()
		if err != nil {
			return err
		}
		fmt.Fprintln(a.out, strings.Join(cols, "\t"))
	}

	n := 0
	for rows.Next() {
		row, err := rows.SliceScan()
		if err != nil {
			return err
		}
		cells := make([]string, len(row))
		for i, v := range row {
			cells[i] = formatCell(v)
		}
		fmt.Fprintln(a.out, strings.Join(cells, "\t"))
		n++
	}
	if err := rows.Err(); err != nil {
		logger.Error("query_failed", "error", err)
		return err
	}
	logger.Info("query_complete", "rows", n, "duration", time.Since(start))
	return nil
}

// EvalCmd evaluates a call without a database.
type EvalCmd struct {
	Call string `arg:"" help:"Call such as \"blake3_hex('abc')\""`
}

func (c *EvalCmd) Run(a *app) error {
	call, err := callexpr.ParseCall(c.Call)
	if err != nil {
		return err
	}
	args := make([]*vm.Mem, len(call.Args))
	for i, v := range call.Args {
		args[i] = vm.NewMemValue(v)
	}

	out, err := vm.NewMachine(a.registry, 0).Eval(call.Name, args...)
	if err != nil {
		var sqlErr *udf.Error
		if errors.As(err, &sqlErr) {
			fmt.Fprintf(a.out, "error\t%s\t%s\n", sqlErr.Code, sqlErr.Message)
		}
		return fmt.Errorf("%s: %w", call, err)
	}
	v := out.Value()
	fmt.Fprintf(a.out, "%s\t%s\n", v.Kind(), formatValue(v))
	return nil
}

// FuncsCmd lists functions.
type FuncsCmd struct{}

func (c *FuncsCmd) Run(a *app) error {
	for _, fn := range a.registry.Functions() {
		nargs := fmt.Sprint(fn.NArgs)
		if fn.NArgs < 0 {
			nargs = "variadic"
		}
		flags := ""
		if fn.Deterministic {
			flags = "deterministic"
		}
		line := fmt.Sprintf("%s\t%s\t%s", fn.Name, nargs, flags)
		if d, ok := fn.UserData.(*exprfunc.Definition); ok {
			line += "\t" + d.String()
		}
		fmt.Fprintln(a.out, strings.TrimRight(line, "\t"))
	}
	return nil
}

// InfoCmd prints driver information as JSON.
type InfoCmd struct{}

func (c *InfoCmd) Run(a *app) error {
	enc := json.NewEncoder(a.out)
	enc.SetIndent("", "  ")
	return enc.Encode(sqlite.GetInfo())
}

// VersionCmd prints version information.
type VersionCmd struct{}

func (c *VersionCmd) Run(a *app) error {
	fmt.Fprintf(a.out, "sqlctx version %s (%s driver)\n", version, sqlite.DriverType())
	return nil
}

func (g *Globals) initLogging() error {
	level, err := logging.ParseLevel(g.LogLevel)
	if err != nil {
		return err
	}
	format, err := logging.ParseFormat(g.LogFormat)
	if err != nil {
		return err
	}
	logging.InitLogger(level, format)
	return nil
}

// buildRegistry collects the library functions and the --define functions.
func buildRegistry(defines []string) (*udf.Registry, error) {
	reg := udf.NewRegistry()
	if err := extfuncs.Register(reg); err != nil {
		return nil, err
	}
	for _, def := range defines {
		if strings.TrimSpace(def) == "" {
			continue
		}
		fn, err := exprfunc.Define(def)
		if err != nil {
			return nil, err
		}
		if err := reg.Register(fn); err != nil {
			return nil, err
		}
	}
	return reg, nil
}

func formatValue(v udf.Value) string {
	switch v.Kind() {
	case udf.KindNull:
		return "NULL"
	case udf.KindText:
		return v.Text()
	default:
		return v.String()
	}
}

func formatCell(v any) string {
	switch x := v.(type) {
	case time.Time:
		return x.Format(time.RFC3339Nano)
	case []byte:
		return "x'" + hex.EncodeToString(x) + "'"
	}
	return formatValue(udf.FromDriverValue(v))
}

func run(args []string, stdout io.Writer) error {
	var cli CLI
	parser, err := kong.New(&cli,
		kong.Name("sqlctx"),
		kong.Description("Host SQL functions for SQLite"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Writers(stdout, os.Stderr),
	)
	if err != nil {
		return err
	}
	ctx, err := parser.Parse(args)
	if err != nil {
		return err
	}
	if err := cli.Globals.initLogging(); err != nil {
		return err
	}
	reg, err := buildRegistry(cli.Define)
	if err != nil {
		return err
	}
	return ctx.Run(&app{out: stdout, registry: reg})
}

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "sqlctx: %v\n", err)
		os.Exit(1)
	}
}
