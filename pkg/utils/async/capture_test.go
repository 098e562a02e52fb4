package async

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
)

func swapCapture(t *testing.T) chan error {
	t.Helper()
	captured := make(chan error, 1)
	orig := captureException
	captureException = func(err error) { captured <- err }
	t.Cleanup(func() { captureException = orig })
	return captured
}

func TestDispatchCapturesHandlerError(t *testing.T) {
	captured := swapCapture(t)

	Dispatch(context.Background(), func(ctx context.Context) error {
		return errors.New("publish run failed")
	})

	select {
	case err := <-captured:
		gt.String(t, err.Error()).Equal("publish run failed")
	case <-time.After(2 * time.Second):
		t.Fatal("handler error was not captured")
	}
}

func TestDispatchCapturesPanic(t *testing.T) {
	captured := swapCapture(t)

	Dispatch(context.Background(), func(ctx context.Context) error {
		panic("kaboom")
	})

	select {
	case err := <-captured:
		gt.True(t, strings.Contains(err.Error(), "kaboom"))
	case <-time.After(2 * time.Second):
		t.Fatal("panic was not captured")
	}
}
