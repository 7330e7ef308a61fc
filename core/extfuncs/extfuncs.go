// Package extfuncs is a library of host SQL functions built on the udf
// context: hashing, compression, identifiers and XML queries.
//
// Every function returns NULL when its first argument is NULL, except uuid()
// which takes no arguments.
package extfuncs

import (
	"github.com/FocuswithJustin/sqlcontext/core/udf"
)

// maxLength matches SQLite's default SQLITE_MAX_LENGTH.
const maxLength = 1_000_000_000

// All returns a fresh set of library functions. Functions that keep state,
// such as the XPath expression cache, get their own instance.
func All() []*udf.Function {
	exprs := newXPathCache(xpathCacheSize)
	return []*udf.Function{
		{Name: "blake3", NArgs: 1, Deterministic: true, Impl: blake3Blob},
		{Name: "blake3_hex", NArgs: 1, Deterministic: true, Impl: blake3Hex},
		{Name: "xz_compress", NArgs: 1, Deterministic: true, Impl: xzCompress},
		{Name: "xz_decompress", NArgs: 1, Deterministic: true, Impl: xzDecompress},
		{Name: "uuid", NArgs: 0, Impl: newUUID},
		{Name: "uuid_valid", NArgs: 1, Deterministic: true, Impl: uuidValid},
		{Name: "xpath", NArgs: 2, Deterministic: true, UserData: exprs, Impl: xpathFirst},
		{Name: "xpath_count", NArgs: 2, Deterministic: true, UserData: exprs, Impl: xpathCount},
	}
}

// Register adds every library function to reg.
func Register(reg *udf.Registry) error {
	for _, fn := range All() {
		if err := reg.Register(fn); err != nil {
			return err
		}
	}
	return nil
}

// nullIn resolves ctx to NULL if any argument is NULL.
func nullIn(ctx *udf.Context) bool {
	for _, arg := range ctx.Args() {
		if arg.IsNull() {
			ctx.ResultNull()
			return true
		}
	}
	return false
}
