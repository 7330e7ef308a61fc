package extfuncs

import (
	"encoding/hex"

	"github.com/FocuswithJustin/sqlcontext/core/udf"
	"github.com/zeebo/blake3"
)

// blake3Blob returns the 32-byte BLAKE3 digest of its argument's bytes.
func blake3Blob(ctx *udf.Context) {
	if nullIn(ctx) {
		return
	}
	sum := blake3.Sum256(ctx.Arg(0).Blob())
	ctx.ResultBlob(sum[:])
}

func blake3Hex(ctx *udf.Context) {
	if nullIn(ctx) {
		return
	}
	sum := blake3.Sum256(ctx.Arg(0).Blob())
	ctx.ResultText(hex.EncodeToString(sum[:]))
}
