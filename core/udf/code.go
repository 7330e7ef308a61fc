package udf

import "fmt"

// Code is an engine result code. Extended codes carry the primary code in
// their low byte.
type Code int

// Primary result codes, see https://sqlite.org/rescode.html
const (
	CodeOK         Code = 0
	CodeError      Code = 1
	CodeInternal   Code = 2
	CodePerm       Code = 3
	CodeAbort      Code = 4
	CodeBusy       Code = 5
	CodeLocked     Code = 6
	CodeNoMem      Code = 7
	CodeReadOnly   Code = 8
	CodeInterrupt  Code = 9
	CodeIOErr      Code = 10
	CodeCorrupt    Code = 11
	CodeNotFound   Code = 12
	CodeFull       Code = 13
	CodeCantOpen   Code = 14
	CodeProtocol   Code = 15
	CodeEmpty      Code = 16
	CodeSchema     Code = 17
	CodeTooBig     Code = 18
	CodeConstraint Code = 19
	CodeMismatch   Code = 20
	CodeMisuse     Code = 21
	CodeNoLFS      Code = 22
	CodeAuth       Code = 23
	CodeFormat     Code = 24
	CodeRange      Code = 25
	CodeNotADB     Code = 26
	CodeNotice     Code = 27
	CodeWarning    Code = 28
	CodeRow        Code = 100
	CodeDone       Code = 101
)

var codeNames = map[Code]string{
	CodeOK:         "SQLITE_OK",
	CodeError:      "SQLITE_ERROR",
	CodeInternal:   "SQLITE_INTERNAL",
	CodePerm:       "SQLITE_PERM",
	CodeAbort:      "SQLITE_ABORT",
	CodeBusy:       "SQLITE_BUSY",
	CodeLocked:     "SQLITE_LOCKED",
	CodeNoMem:      "SQLITE_NOMEM",
	CodeReadOnly:   "SQLITE_READONLY",
	CodeInterrupt:  "SQLITE_INTERRUPT",
	CodeIOErr:      "SQLITE_IOERR",
	CodeCorrupt:    "SQLITE_CORRUPT",
	CodeNotFound:   "SQLITE_NOTFOUND",
	CodeFull:       "SQLITE_FULL",
	CodeCantOpen:   "SQLITE_CANTOPEN",
	CodeProtocol:   "SQLITE_PROTOCOL",
	CodeEmpty:      "SQLITE_EMPTY",
	CodeSchema:     "SQLITE_SCHEMA",
	CodeTooBig:     "SQLITE_TOOBIG",
	CodeConstraint: "SQLITE_CONSTRAINT",
	CodeMismatch:   "SQLITE_MISMATCH",
	CodeMisuse:     "SQLITE_MISUSE",
	CodeNoLFS:      "SQLITE_NOLFS",
	CodeAuth:       "SQLITE_AUTH",
	CodeFormat:     "SQLITE_FORMAT",
	CodeRange:      "SQLITE_RANGE",
	CodeNotADB:     "SQLITE_NOTADB",
	CodeNotice:     "SQLITE_NOTICE",
	CodeWarning:    "SQLITE_WARNING",
	CodeRow:        "SQLITE_ROW",
	CodeDone:       "SQLITE_DONE",
}

// Default messages, as returned by sqlite3_errstr.
var codeMessages = map[Code]string{
	CodeOK:         "not an error",
	CodeError:      "SQL logic error",
	CodePerm:       "access permission denied",
	CodeAbort:      "query aborted",
	CodeBusy:       "database is locked",
	CodeLocked:     "database table is locked",
	CodeNoMem:      "out of memory",
	CodeReadOnly:   "attempt to write a readonly database",
	CodeInterrupt:  "interrupted",
	CodeIOErr:      "disk I/O error",
	CodeCorrupt:    "database disk image is malformed",
	CodeNotFound:   "unknown operation",
	CodeFull:       "database or disk is full",
	CodeCantOpen:   "unable to open database file",
	CodeProtocol:   "locking protocol",
	CodeSchema:     "database schema has changed",
	CodeTooBig:     "string or blob too big",
	CodeConstraint: "constraint failed",
	CodeMismatch:   "datatype mismatch",
	CodeMisuse:     "bad parameter or other API misuse",
	CodeAuth:       "authorization denied",
	CodeRange:      "column index out of range",
	CodeNotADB:     "file is not a database",
	CodeNotice:     "notification message",
	CodeWarning:    "warning message",
	CodeRow:        "another row available",
	CodeDone:       "no more rows available",
}

// abortRollback is SQLITE_ABORT_ROLLBACK, the one extended code with its own message.
const abortRollback Code = 516

// Primary returns the primary result code of an extended code.
func (c Code) Primary() Code {
	switch c {
	case CodeRow, CodeDone:
		return c
	}
	return c & 0xff
}

// Message returns the engine's default English message for the code.
func (c Code) Message() string {
	if c == abortRollback {
		return "abort due to ROLLBACK"
	}
	if msg, ok := codeMessages[c.Primary()]; ok {
		return msg
	}
	return "unknown error"
}

// String returns the symbolic name of the code.
func (c Code) String() string {
	if name, ok := codeNames[c]; ok {
		return name
	}
	if name, ok := codeNames[c.Primary()]; ok {
		return fmt.Sprintf("%s(%d)", name, int(c))
	}
	return fmt.Sprintf("Code(%d)", int(c))
}

// Error is a failure reported by a function through its context.
type Error struct {
	Code    Code
	Message string
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Code.Message()
}

// Errorf builds an *Error with CodeError and a formatted message.
func Errorf(format string, args ...any) *Error {
	return &Error{Code: CodeError, Message: fmt.Sprintf(format, args...)}
}
