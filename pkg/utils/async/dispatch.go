package async

import (
	"context"
	"fmt"
	"runtime/debug"

	"github.com/getsentry/sentry-go"
	"github.com/m-mizutani/ctxlog"
)

// captureException forwards handler failures to Sentry. It is a no-op until
// sentry.Init has run with a DSN.
var captureException = func(err error) {
	sentry.CaptureException(err)
}

// Dispatch runs handler in a new goroutine with a background context that
// keeps the caller's logger. Cancellation of the original context does not
// reach the handler: a publish run triggered by a webhook must outlive the
// HTTP request that delivered it. Handler errors and panics are logged and
// reported to Sentry when it is configured.
func Dispatch(ctx context.Context, handler func(ctx context.Context) error) {
	newCtx := ctxlog.With(context.Background(), ctxlog.From(ctx))

	go func() {
		defer func() {
			if r := recover(); r != nil {
				captureException(fmt.Errorf("panic in async handler: %v", r))
				ctxlog.From(newCtx).Error("panic in async handler",
					"recover", r,
					"stack", string(debug.Stack()))
			}
		}()

		if err := handler(newCtx); err != nil {
			captureException(err)
			ctxlog.From(newCtx).Error("error in async handler", "error", err)
		}
	}()
}
