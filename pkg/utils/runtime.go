package utils

import (
	"context"
	"log"
	"runtime/debug"

	"golang-etf-news-bot/pkg/logger"
)

// GoSafe runs fn in a new goroutine, recovering and logging any panic.
func GoSafe(fn func()) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				log.Printf("recovered from panic: %v\n%s", r, debug.Stack())
			}
		}()
		fn()
	}()
}

// ShouldContinue reports whether the context is still alive, logging when it is not.
func ShouldContinue(ctx context.Context, log *logger.Logger) bool {
	select {
	case <-ctx.Done():
		log.Info("Context cancelled, stopping processing", logger.ErrorField(ctx.Err()))
		return false
	default:
		return true
	}
}
