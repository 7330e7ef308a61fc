package udf

import (
	"database/sql/driver"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Kind identifies which variant of a Value is active.
type Kind int

const (
	KindNull Kind = iota
	KindInteger
	KindReal
	KindText
	KindBlob
)

// String returns the SQL type name of the kind, as typeof() would.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindInteger:
		return "integer"
	case KindReal:
		return "real"
	case KindText:
		return "text"
	case KindBlob:
		return "blob"
	default:
		return "unknown"
	}
}

// Value is one SQL datum copied out of the engine. It is immutable; the zero
// Value is NULL.
type Value struct {
	kind Kind
	n    int64  // integer payload, or float bits for KindReal
	s    string // text or blob payload
}

// Null returns the NULL value.
func Null() Value {
	return Value{}
}

// Integer returns an integer value.
func Integer(v int64) Value {
	return Value{kind: KindInteger, n: v}
}

// Real returns a real value.
func Real(v float64) Value {
	return Value{kind: KindReal, n: int64(math.Float64bits(v))}
}

// Text returns a text value.
func Text(v string) Value {
	return Value{kind: KindText, s: v}
}

// Blob returns a blob value holding a copy of v.
func Blob(v []byte) Value {
	return Value{kind: KindBlob, s: string(v)}
}

// FromHandle copies an engine-owned value into a Value. Unknown kinds
// degrade to NULL.
func FromHandle(h ValueHandle) Value {
	if h == nil {
		return Null()
	}
	switch h.Kind() {
	case KindInteger:
		return Integer(h.Int64())
	case KindReal:
		return Real(h.Float64())
	case KindText:
		return Text(h.Text())
	case KindBlob:
		return Blob(h.Blob())
	default:
		return Null()
	}
}

// FromDriverValue converts a database/sql driver value as produced by SQLite
// drivers for function arguments.
func FromDriverValue(v driver.Value) Value {
	switch x := v.(type) {
	case nil:
		return Null()
	case int64:
		return Integer(x)
	case float64:
		return Real(x)
	case string:
		return Text(x)
	case []byte:
		if x == nil {
			// mattn/go-sqlite3 hands NULL to interface{} arguments as a nil []byte.
			return Null()
		}
		return Blob(x)
	case bool:
		if x {
			return Integer(1)
		}
		return Integer(0)
	default:
		return Null()
	}
}

// Kind returns the active variant.
func (v Value) Kind() Kind {
	return v.kind
}

// IsNull reports whether v is NULL.
func (v Value) IsNull() bool {
	return v.kind == KindNull
}

// Conversions follow the table in https://sqlite.org/c3ref/value_blob.html

// Int64 returns the value as a 64-bit integer.
func (v Value) Int64() int64 {
	switch v.kind {
	case KindInteger:
		return v.n
	case KindReal:
		return realToInteger(v.float())
	case KindText, KindBlob:
		return castTextToInteger(v.s)
	default:
		return 0
	}
}

// Float64 returns the value as a floating point number.
func (v Value) Float64() float64 {
	switch v.kind {
	case KindInteger:
		return float64(v.n)
	case KindReal:
		return v.float()
	case KindText, KindBlob:
		return castTextToReal(v.s)
	default:
		return 0
	}
}

// Text returns the value as a string. NULL reads as "".
func (v Value) Text() string {
	switch v.kind {
	case KindInteger:
		return strconv.FormatInt(v.n, 10)
	case KindReal:
		return formatReal(v.float())
	case KindText, KindBlob:
		return v.s
	default:
		return ""
	}
}

// Blob returns a fresh copy of the value as bytes. NULL reads as nil.
func (v Value) Blob() []byte {
	switch v.kind {
	case KindNull:
		return nil
	case KindText, KindBlob:
		return []byte(v.s)
	default:
		return []byte(v.Text())
	}
}

// Bytes returns the size in bytes of the text or blob representation.
func (v Value) Bytes() int {
	switch v.kind {
	case KindNull:
		return 0
	case KindText, KindBlob:
		return len(v.s)
	default:
		return len(v.Text())
	}
}

// Interface returns the value as a driver.Value: nil, int64, float64, string
// or []byte.
func (v Value) Interface() driver.Value {
	switch v.kind {
	case KindInteger:
		return v.n
	case KindReal:
		return v.float()
	case KindText:
		return v.s
	case KindBlob:
		return []byte(v.s)
	default:
		return nil
	}
}

// Equal reports whether v and o have the same kind and payload. Reals compare
// with ==, so NaN is never equal to itself.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindNull:
		return true
	case KindInteger:
		return v.n == o.n
	case KindReal:
		return v.float() == o.float()
	default:
		return v.s == o.s
	}
}

// String formats the value for display.
func (v Value) String() string {
	switch v.kind {
	case KindNull:
		return "NULL"
	case KindText:
		return "'" + strings.ReplaceAll(v.s, "'", "''") + "'"
	case KindBlob:
		return fmt.Sprintf("x'%x'", v.s)
	default:
		return v.Text()
	}
}

func (v Value) float() float64 { return math.Float64frombits(uint64(v.n)) }

// realToInteger truncates toward zero and saturates like sqlite3VdbeIntValue.
func realToInteger(r float64) int64 {
	switch {
	case math.IsNaN(r):
		return 0
	case r <= math.MinInt64:
		return math.MinInt64
	case r >= math.MaxInt64:
		return math.MaxInt64
	default:
		return int64(r)
	}
}

func formatReal(r float64) string {
	s := strconv.FormatFloat(r, 'g', 15, 64)
	if !strings.ContainsAny(s, ".eEnN") {
		s += ".0"
	}
	return s
}

// castTextToInteger emulates the SQLite CAST operator for a TEXT value to
// INTEGER, as documented in https://sqlite.org/lang_expr.html#castexpr
func castTextToInteger(s string) int64 {
	const digits = "0123456789"
	s = trimLeadingSpace(s)
	if len(s) > 0 && (s[0] == '+' || s[0] == '-') {
		s = s[:1+len(longestPrefix(s[1:], digits))]
	} else {
		s = longestPrefix(s, digits)
	}
	// Out of range input saturates, which ParseInt already does.
	n, _ := strconv.ParseInt(s, 10, 64)
	return n
}

func longestPrefix(s string, allowSet string) string {
	for i := 0; i < len(s); i++ {
		if strings.IndexByte(allowSet, s[i]) < 0 {
			return s[:i]
		}
	}
	return s
}

// castTextToReal emulates the SQLite CAST operator for a TEXT value to
// REAL, as documented in https://sqlite.org/lang_expr.html#castexpr
func castTextToReal(s string) float64 {
	prefix := realPrefix(trimLeadingSpace(s))
	if prefix == "" {
		return 0
	}
	// Overflow yields ±Inf, as in SQLite.
	n, _ := strconv.ParseFloat(prefix, 64)
	return n
}

// realPrefix returns the longest prefix of s matching
// [+-]digits[.digits][(e|E)[+-]digits], with at least one mantissa digit.
// Spellings such as nan, inf or hex floats have no prefix.
func realPrefix(s string) string {
	i := 0
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}
	mantissa := 0
	for ; i < len(s) && isDigit(s[i]); i++ {
		mantissa++
	}
	if i < len(s) && s[i] == '.' {
		j := i + 1
		for ; j < len(s) && isDigit(s[j]); j++ {
			mantissa++
		}
		if mantissa > 0 {
			i = j
		}
	}
	if mantissa == 0 {
		return ""
	}
	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		j := i + 1
		if j < len(s) && (s[j] == '+' || s[j] == '-') {
			j++
		}
		k := j
		for k < len(s) && isDigit(s[k]) {
			k++
		}
		if k > j {
			i = k
		}
	}
	return s[:i]
}

func isDigit(c byte) bool {
	return '0' <= c && c <= '9'
}

// trimLeadingSpace drops the ASCII whitespace SQLite skips before a number.
func trimLeadingSpace(s string) string {
	return strings.TrimLeft(s, " \t\n\v\f\r")
}
