package extfuncs

import (
	"bytes"
	"fmt"

	"github.com/FocuswithJustin/sqlcontext/core/cache"
	"github.com/FocuswithJustin/sqlcontext/core/errors"
	"github.com/FocuswithJustin/sqlcontext/core/udf"
	"github.com/FocuswithJustin/sqlcontext/internal/logging"
	"github.com/antchfx/xmlquery"
	"github.com/antchfx/xpath"
)

// compiledXPath is shared between rows and goroutines. xpath.Expr is safe
// for concurrent use once compiled.
type compiledXPath struct {
	expr *xpath.Expr
}

// xpathCacheSize bounds the compiled expressions kept per function set.
// Queries usually reuse a handful of literal expressions; expressions built
// per row would otherwise grow the cache without limit.
const xpathCacheSize = 64

func newXPathCache(size int) cache.Cache[string, *compiledXPath] {
	return cache.NewLRUCache[string, *compiledXPath](cache.Config{
		MaxSize: size,
		OnEvict: func(key, _ any) {
			logging.Debug("xpath_cache_evict", "expr", key)
		},
	})
}

func compileXPath(src string) (*compiledXPath, error) {
	expr, err := xpath.Compile(src)
	if err != nil {
		return nil, &errors.ParseError{Format: "xpath", Input: src, Message: err.Error(), Err: err}
	}
	return &compiledXPath{expr: expr}, nil
}

// queryXPath parses the document and expression arguments. On failure it
// reports the error through ctx and returns false.
func queryXPath(ctx *udf.Context, name string) ([]*xmlquery.Node, bool) {
	exprs, ok := ctx.UserData().(cache.Cache[string, *compiledXPath])
	if !ok {
		ctx.ErrorCode(udf.CodeMisuse)
		return nil, false
	}
	compiled, err := cache.GetOrCompute(exprs, ctx.Arg(1).Text(), compileXPath)
	if err != nil {
		ctx.Error(fmt.Sprintf("%s: %v", name, err))
		return nil, false
	}
	doc, err := xmlquery.Parse(bytes.NewReader(ctx.Arg(0).Blob()))
	if err != nil {
		ctx.Error(fmt.Sprintf("%s: parsing XML: %v", name, err))
		return nil, false
	}
	return xmlquery.QuerySelectorAll(doc, compiled.expr), true
}

// xpathFirst returns the text of the first matching node, or NULL.
func xpathFirst(ctx *udf.Context) {
	if nullIn(ctx) {
		return
	}
	nodes, ok := queryXPath(ctx, "xpath")
	if !ok {
		return
	}
	if len(nodes) == 0 {
		ctx.ResultNull()
		return
	}
	ctx.ResultText(nodes[0].InnerText())
}

func xpathCount(ctx *udf.Context) {
	if nullIn(ctx) {
		return
	}
	nodes, ok := queryXPath(ctx, "xpath_count")
	if !ok {
		return
	}
	ctx.ResultInt64(int64(len(nodes)))
}
