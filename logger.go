package wire

import (
	"sync"

	"go.uber.org/zap"
)

var (
	logger     *zap.Logger
	loggerMu   sync.RWMutex
	loggerOnce sync.Once
)

// Logger returns the package logger.
// It uses a no-op logger by default.
func Logger() *zap.Logger {
	loggerOnce.Do(func() {
		loggerMu.Lock()
		defer loggerMu.Unlock()
		if logger == nil {
			logger = zap.NewNop()
		}
	})
	loggerMu.RLock()
	defer loggerMu.RUnlock()
	return logger
}

// SetLogger configures the package logger. A nil logger restores the no-op default.
func SetLogger(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	loggerMu.Lock()
	defer loggerMu.Unlock()
	logger = l
}
