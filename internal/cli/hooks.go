package cli

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/ghoshnapatra/ghoshna/pkg/observability"
)

// logHooks reports pipeline and cache events through the CLI logger at
// debug level, so they show up with --verbose.
type logHooks struct {
	logger *log.Logger
}

func newLogHooks(l *log.Logger) *logHooks {
	return &logHooks{logger: l}
}

func (h *logHooks) OnExportStart(_ context.Context, engine string) {
	h.logger.Debug("export started", "engine", engine)
}

func (h *logHooks) OnRenderComplete(_ context.Context, engine string, width, height int, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("render failed", "engine", engine, "error", err)
		return
	}
	h.logger.Debug("render complete", "engine", engine, "width", width, "height", height,
		"duration", d.Round(time.Millisecond))
}

func (h *logHooks) OnCompressAttempt(_ context.Context, iteration int, quality float64, size int, outcome string) {
	h.logger.Debug("compress attempt", "iteration", iteration, "quality", quality, "size", size, "outcome", outcome)
}

func (h *logHooks) OnExportComplete(_ context.Context, size int, inWindow bool, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("export failed", "error", err, "duration", d.Round(time.Millisecond))
		return
	}
	h.logger.Debug("export complete", "size", size, "in_window", inWindow, "duration", d.Round(time.Millisecond))
}

func (h *logHooks) OnCacheHit(_ context.Context, keyType string) {
	h.logger.Debug("cache hit", "type", keyType)
}

func (h *logHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.logger.Debug("cache miss", "type", keyType)
}

func (h *logHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.logger.Debug("cache set", "type", keyType, "size", size)
}

var (
	_ observability.PipelineHooks = (*logHooks)(nil)
	_ observability.CacheHooks    = (*logHooks)(nil)
)
