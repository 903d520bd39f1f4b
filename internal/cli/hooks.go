package cli

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// logHooks reports registry, HTTP and cache events at debug level.
type logHooks struct {
	logger *log.Logger
}

func (h *logHooks) OnOperationStart(_ context.Context, op, subject string) {
	h.logger.Debug("start", "op", op, "subject", subject)
}

func (h *logHooks) OnOperationComplete(_ context.Context, op, subject string, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("failed", "op", op, "subject", subject, "duration", d.Round(time.Millisecond), "err", err)
		return
	}
	h.logger.Debug("done", "op", op, "subject", subject, "duration", d.Round(time.Millisecond))
}

func (h *logHooks) OnCacheHit(_ context.Context, keyType string) {
	h.logger.Debug("cache hit", "namespace", keyType)
}

func (h *logHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.logger.Debug("cache miss", "namespace", keyType)
}

func (h *logHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.logger.Debug("cache store", "namespace", keyType, "bytes", size)
}

func (h *logHooks) OnRequest(context.Context, string, string, string) {}

func (h *logHooks) OnResponse(_ context.Context, method, host, path string, status int, d time.Duration) {
	h.logger.Debug("http", "method", method, "host", host, "path", path, "status", status, "duration", d.Round(time.Millisecond))
}

func (h *logHooks) OnError(_ context.Context, method, host, path string, err error) {
	h.logger.Debug("http error", "method", method, "host", host, "path", path, "err", err)
}
