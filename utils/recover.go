package utils

import (
	"fmt"
	"log"
	"runtime/debug"
	"time"

	"github.com/getsentry/sentry-go"
)

// Recover turns a panic in an event handler into a log line and, when Sentry
// is initialized, an event. Use as `defer utils.Recover("where")`.
func Recover(where string) {
	r := recover()
	if r == nil {
		return
	}
	log.Printf("[PANIC] %s: %v\n%s", where, r, debug.Stack())
	if hub := sentry.CurrentHub(); hub.Client() != nil {
		hub.Recover(fmt.Errorf("%s: %v", where, r))
	}
}

// ReportError sends an unexpected error to Sentry when it is configured.
func ReportError(where string, err error) {
	if err == nil {
		return
	}
	if hub := sentry.CurrentHub(); hub.Client() != nil {
		hub.CaptureException(fmt.Errorf("%s: %w", where, err))
	}
}

// InitSentry enables error reporting when dsn is set. The returned function
// flushes buffered events and must run before exit.
func InitSentry(dsn, release string) (func(), error) {
	if dsn == "" {
		return func() {}, nil
	}
	err := sentry.Init(sentry.ClientOptions{
		Dsn:              dsn,
		Release:          release,
		AttachStacktrace: true,
	})
	if err != nil {
		return func() {}, fmt.Errorf("sentry init: %w", err)
	}
	return func() { sentry.Flush(2 * time.Second) }, nil
}
