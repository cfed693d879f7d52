package async

import (
	"context"
	"runtime/debug"

	"github.com/m-mizutani/ctxlog"
)

// Dispatch runs handler in a background goroutine with panic recovery. The
// handler gets a fresh background context carrying the caller's logger, so it
// survives cancellation of the originating request.
func Dispatch(ctx context.Context, handler func(ctx context.Context) error) {
	newCtx := detach(ctx)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				ctxlog.From(newCtx).Error("panic in async handler",
					"recover", r,
					"stack", string(debug.Stack()),
				)
			}
		}()

		if err := handler(newCtx); err != nil {
			ctxlog.From(newCtx).Error("error in async handler", "error", err)
		}
	}()
}

// detach builds a background context preserving the context-carried logger
func detach(ctx context.Context) context.Context {
	newCtx := context.Background()
	if logger := ctxlog.From(ctx); logger != nil {
		newCtx = ctxlog.With(newCtx, logger)
	}
	return newCtx
}
