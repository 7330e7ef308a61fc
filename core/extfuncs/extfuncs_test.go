package extfuncs

import (
	"bytes"
	"encoding/hex"
	"strings"
	"testing"

	"github.com/FocuswithJustin/sqlcontext/core/errors"
	"github.com/FocuswithJustin/sqlcontext/core/udf"
	"github.com/FocuswithJustin/sqlcontext/core/udf/vm"
	"github.com/FocuswithJustin/sqlcontext/internal/logging"
	"github.com/zeebo/blake3"
)

func newMachine(t *testing.T) *vm.Machine {
	t.Helper()
	reg := udf.NewRegistry()
	if err := Register(reg); err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	return vm.NewMachine(reg, 0)
}

func eval(t *testing.T, m *vm.Machine, name string, args ...*vm.Mem) udf.Value {
	t.Helper()
	out, err := m.Eval(name, args...)
	if err != nil {
		t.Fatalf("%s() error = %v", name, err)
	}
	return out.Value()
}

func evalErr(t *testing.T, m *vm.Machine, name string, args ...*vm.Mem) *udf.Error {
	t.Helper()
	_, err := m.Eval(name, args...)
	var sqlErr *udf.Error
	if !errors.As(err, &sqlErr) {
		t.Fatalf("%s() error = %v, want *udf.Error", name, err)
	}
	return sqlErr
}

func TestRegisterTwiceFails(t *testing.T) {
	reg := udf.NewRegistry()
	if err := Register(reg); err != nil {
		t.Fatal(err)
	}
	if err := Register(reg); !errors.Is(err, errors.ErrAlreadyExists) {
		t.Errorf("second Register() error = %v, want ErrAlreadyExists", err)
	}
	if reg.Len() != len(All()) {
		t.Errorf("Len() = %d, want %d", reg.Len(), len(All()))
	}
}

func TestNullPropagation(t *testing.T) {
	m := newMachine(t)
	for _, name := range []string{"blake3", "blake3_hex", "xz_compress", "xz_decompress", "uuid_valid"} {
		if v := eval(t, m, name, vm.NewMemNull()); !v.IsNull() {
			t.Errorf("%s(NULL) = %v, want NULL", name, v)
		}
	}
	for _, name := range []string{"xpath", "xpath_count"} {
		if v := eval(t, m, name, vm.NewMemNull(), vm.NewMemStr("//a")); !v.IsNull() {
			t.Errorf("%s(NULL, expr) = %v, want NULL", name, v)
		}
	}
}

func TestBlake3(t *testing.T) {
	m := newMachine(t)
	want := blake3.Sum256([]byte("hello"))

	blob := eval(t, m, "blake3", vm.NewMemStr("hello"))
	if blob.Kind() != udf.KindBlob || !bytes.Equal(blob.Blob(), want[:]) {
		t.Errorf("blake3(hello) = %v", blob)
	}

	hexed := eval(t, m, "blake3_hex", vm.NewMemBlob([]byte("hello")))
	if hexed.Text() != hex.EncodeToString(want[:]) {
		t.Errorf("blake3_hex(hello) = %s", hexed.Text())
	}

	empty := eval(t, m, "blake3_hex", vm.NewMemStr(""))
	if empty.Text() != "af1349b9f5f9a1a6a0404dea36dcc9499bcb25c9adc112b7cc9a93cae41f3262" {
		t.Errorf("blake3_hex('') = %s", empty.Text())
	}
}

func TestXZRoundTrip(t *testing.T) {
	m := newMachine(t)
	input := bytes.Repeat([]byte("sqlcontext "), 100)

	compressed := eval(t, m, "xz_compress", vm.NewMemBlob(input))
	if compressed.Kind() != udf.KindBlob || len(compressed.Blob()) >= len(input) {
		t.Fatalf("xz_compress returned %d bytes for %d input bytes", len(compressed.Blob()), len(input))
	}

	restored := eval(t, m, "xz_decompress", vm.NewMemValue(compressed))
	if !bytes.Equal(restored.Blob(), input) {
		t.Error("xz_decompress(xz_compress(x)) != x")
	}
}

func TestXZDecompressInvalid(t *testing.T) {
	m := newMachine(t)
	err := evalErr(t, m, "xz_decompress", vm.NewMemBlob([]byte("not xz")))
	if err.Code != udf.CodeError || !strings.HasPrefix(err.Message, "xz_decompress:") {
		t.Errorf("error = %+v", err)
	}
}

func TestUUID(t *testing.T) {
	m := newMachine(t)
	a := eval(t, m, "uuid")
	b := eval(t, m, "uuid")
	if a.Kind() != udf.KindText || a.Equal(b) {
		t.Errorf("uuid() = %v, %v; want distinct text values", a, b)
	}
	if v := eval(t, m, "uuid_valid", vm.NewMemValue(a)); v.Int64() != 1 {
		t.Errorf("uuid_valid(uuid()) = %v, want 1", v)
	}
	if v := eval(t, m, "uuid_valid", vm.NewMemStr("nope")); v.Int64() != 0 {
		t.Errorf("uuid_valid(nope) = %v, want 0", v)
	}
}

const library = `<library>
	<book lang="en"><title>Go</title></book>
	<book lang="de"><title>SQL</title></book>
</library>`

func TestXPath(t *testing.T) {
	m := newMachine(t)
	doc := vm.NewMemStr(library)

	tests := []struct {
		name string
		fn   string
		expr string
		want udf.Value
	}{
		{"first title", "xpath", "//book/title", udf.Text("Go")},
		{"attribute filter", "xpath", "//book[@lang='de']/title", udf.Text("SQL")},
		{"no match", "xpath", "//magazine", udf.Null()},
		{"count", "xpath_count", "//book", udf.Integer(2)},
		{"count none", "xpath_count", "//magazine", udf.Integer(0)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := eval(t, m, tt.fn, doc, vm.NewMemStr(tt.expr))
			if !got.Equal(tt.want) {
				t.Errorf("%s(doc, %q) = %v, want %v", tt.fn, tt.expr, got, tt.want)
			}
		})
	}
}

func TestXPathErrors(t *testing.T) {
	m := newMachine(t)

	err := evalErr(t, m, "xpath", vm.NewMemStr(library), vm.NewMemStr("//book["))
	if !strings.Contains(err.Message, "failed to parse xpath") {
		t.Errorf("bad expression error = %q", err.Message)
	}

	err = evalErr(t, m, "xpath_count", vm.NewMemStr("<a>&bogus;</a>"), vm.NewMemStr("//b"))
	if !strings.Contains(err.Message, "parsing XML") {
		t.Errorf("bad document error = %q", err.Message)
	}
}

func TestXPathCachesExpressions(t *testing.T) {
	fns := All()
	var xpathFn *udf.Function
	for _, fn := range fns {
		if fn.Name == "xpath" {
			xpathFn = fn
		}
	}
	if xpathFn == nil {
		t.Fatal("xpath not in All()")
	}

	reg := udf.NewRegistry()
	reg.MustRegister(xpathFn)
	m := vm.NewMachine(reg, 0)
	for i := 0; i < 3; i++ {
		eval(t, m, "xpath", vm.NewMemStr(library), vm.NewMemStr("//title"))
	}

	exprs := xpathFn.UserData.(interface{ Len() int })
	if exprs.Len() != 1 {
		t.Errorf("cached expressions = %d, want 1", exprs.Len())
	}
}

func TestXPathCacheEviction(t *testing.T) {
	var buf bytes.Buffer
	logging.InitLoggerWithWriter(logging.LevelDebug, logging.FormatJSON, &buf)
	defer logging.InitLogger(logging.LevelInfo, logging.FormatJSON)

	exprs := newXPathCache(2)
	reg := udf.NewRegistry()
	reg.MustRegister(&udf.Function{Name: "xpath_count", NArgs: 2, UserData: exprs, Impl: xpathCount})
	m := vm.NewMachine(reg, 0)

	queries := []struct {
		expr string
		want int64
	}{
		{"//book", 2},
		{"//title", 2},
		{"//book[@lang='de']", 1},
		{"//book", 2}, // evicted above, compiled again
	}
	for _, q := range queries {
		got := eval(t, m, "xpath_count", vm.NewMemStr(library), vm.NewMemStr(q.expr))
		if !got.Equal(udf.Integer(q.want)) {
			t.Errorf("xpath_count(doc, %q) = %v, want %d", q.expr, got, q.want)
		}
	}

	if exprs.Len() != 2 {
		t.Errorf("cached expressions = %d, want 2", exprs.Len())
	}
	if _, ok := exprs.Get("//title"); ok {
		t.Error("//title should be the least recently used entry and evicted")
	}
	if n := strings.Count(buf.String(), "xpath_cache_evict"); n != 2 {
		t.Errorf("logged %d evictions, want 2:\n%s", n, buf.String())
	}
}
