package goroutine

import (
	"context"
	"runtime/debug"

	"github.com/buildhub/homeowner-gateway/internal/logger"
)

// SafeGo runs fn in a goroutine and logs any panic instead of crashing the
// process.
func SafeGo(name string, fn func()) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				logger.Log.WithFields(map[string]interface{}{
					"goroutine": name,
					"panic":     r,
					"stack":     string(debug.Stack()),
				}).Error("goroutine panicked")
			}
		}()
		fn()
	}()
}

// SafeGoWithContext is SafeGo for functions that take a context.
func SafeGoWithContext(ctx context.Context, name string, fn func(ctx context.Context)) {
	SafeGo(name, func() { fn(ctx) })
}
