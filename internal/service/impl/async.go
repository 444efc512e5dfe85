package impl

import (
	"context"
	"log/slog"
	"time"
)

const dispatchTimeout = 30 * time.Second

// dispatchAsync runs a delivery task detached from the request lifecycle.
// Errors are logged, never surfaced to the caller; retries belong to the
// sink itself.
func dispatchAsync(task string, fn func(ctx context.Context) error) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), dispatchTimeout)
		defer cancel()
		if err := fn(ctx); err != nil {
			slog.Error("async dispatch failed", "task", task, "error", err)
		}
	}()
}
