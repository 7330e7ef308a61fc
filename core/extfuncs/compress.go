package extfuncs

import (
	"bytes"
	"fmt"
	"io"

	"github.com/FocuswithJustin/sqlcontext/core/udf"
	"github.com/ulikunitz/xz"
)

var (
	xzNewWriter = xz.NewWriter
	xzNewReader = xz.NewReader
)

func xzCompress(ctx *udf.Context) {
	if nullIn(ctx) {
		return
	}
	var buf bytes.Buffer
	w, err := xzNewWriter(&buf)
	if err != nil {
		ctx.Error(fmt.Sprintf("xz_compress: failed to create xz writer: %v", err))
		return
	}
	if _, err := w.Write(ctx.Arg(0).Blob()); err != nil {
		ctx.Error(fmt.Sprintf("xz_compress: %v", err))
		return
	}
	if err := w.Close(); err != nil {
		ctx.Error(fmt.Sprintf("xz_compress: %v", err))
		return
	}
	ctx.ResultBlob(buf.Bytes())
}

// xzDecompress reports SQLITE_TOOBIG rather than allocating past maxLength.
func xzDecompress(ctx *udf.Context) {
	if nullIn(ctx) {
		return
	}
	r, err := xzNewReader(bytes.NewReader(ctx.Arg(0).Blob()))
	if err != nil {
		ctx.Error(fmt.Sprintf("xz_decompress: %v", err))
		return
	}
	data, err := io.ReadAll(io.LimitReader(r, maxLength+1))
	if err != nil {
		ctx.Error(fmt.Sprintf("xz_decompress: %v", err))
		return
	}
	if len(data) > maxLength {
		ctx.ErrorCode(udf.CodeTooBig)
		return
	}
	ctx.ResultBlob(data)
}
