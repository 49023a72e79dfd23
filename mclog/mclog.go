// Package mclog provides the single zap logger used across the connection
// pipeline, worker pool and command-line tools. It exists so that none of
// those packages construct their own *zap.Logger or fall back to the log
// package, matching production-service logging rather than the teacher's
// bare log.Printf calls.
package mclog

import (
	"sync"

	"go.uber.org/zap"
)

var (
	mu  sync.RWMutex
	log *zap.Logger
)

func init() {
	l, err := zap.NewProduction()
	if err != nil {
		l = zap.NewNop()
	}
	log = l
}

// L returns the process-wide logger.
func L() *zap.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return log
}

// SetDevelopment swaps in a development logger (console-encoded, debug
// level), intended for cmd/ tools run interactively.
func SetDevelopment() error {
	l, err := zap.NewDevelopment()
	if err != nil {
		return err
	}
	mu.Lock()
	log = l
	mu.Unlock()
	return nil
}

// Set installs a caller-provided logger, e.g. a *zap.Logger wired to a test
// observer.
func Set(l *zap.Logger) {
	mu.Lock()
	log = l
	mu.Unlock()
}
