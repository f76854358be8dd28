// Package logging wires a single process-wide zap logger, initialized once
// and read by every other package through L().
package logging

import (
	"sync"

	"go.uber.org/zap"
)

var (
	once sync.Once
	log  *zap.Logger
)

// Init builds the process-wide logger. dev selects zap's human-readable
// development encoder; otherwise the production JSON encoder is used.
// Safe to call multiple times; only the first call takes effect.
func Init(dev bool) {
	once.Do(func() {
		var err error
		if dev {
			log, err = zap.NewDevelopment()
		} else {
			log, err = zap.NewProduction()
		}
		if err != nil {
			log = zap.NewNop()
		}
	})
}

// L returns the process-wide logger. If Init was never called it falls
// back to zap's default production logger so callers never see a nil.
func L() *zap.Logger {
	if log == nil {
		Init(false)
	}
	return log
}

// Sync flushes any buffered log entries. Call on shutdown.
func Sync() {
	if log != nil {
		_ = log.Sync()
	}
}
