package extfuncs

import (
	"github.com/FocuswithJustin/sqlcontext/core/udf"
	"github.com/google/uuid"
)

func newUUID(ctx *udf.Context) {
	ctx.ResultText(uuid.NewString())
}

func uuidValid(ctx *udf.Context) {
	if nullIn(ctx) {
		return
	}
	_, err := uuid.Parse(ctx.Arg(0).Text())
	ctx.ResultBool(err == nil)
}
