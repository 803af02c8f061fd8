// Package chrome rasterizes declaration documents by screenshotting their
// markup in headless Chrome.
//
// The markup is written into the render target's scratch directory and
// loaded from there, so the page is never shown. Chrome must be installed;
// chromedp locates it on PATH unless [WithExecPath] is given.
package chrome

import (
	"bytes"
	"context"
	"image/png"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/chromedp/chromedp"

	"github.com/ghoshnapatra/ghoshna/pkg/document"
	"github.com/ghoshnapatra/ghoshna/pkg/errors"
	"github.com/ghoshnapatra/ghoshna/pkg/render"
)

// Name identifies the engine in configuration and logs.
const Name = "chrome"

// DefaultSettle is how long the page is given to load fonts and remote
// images before the screenshot.
const DefaultSettle = 500 * time.Millisecond

// Option configures an Engine.
type Option func(*Engine)

// WithExecPath sets the Chrome binary.
func WithExecPath(path string) Option {
	return func(e *Engine) { e.execPath = path }
}

// WithSettle sets the wait between page load and screenshot.
func WithSettle(d time.Duration) Option {
	return func(e *Engine) { e.settle = d }
}

// WithLogger sets the logger. Browser output is logged at debug level.
func WithLogger(l *log.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// Engine renders through headless Chrome.
type Engine struct {
	execPath string
	settle   time.Duration
	logger   *log.Logger
}

// New creates a chrome engine.
func New(opts ...Option) *Engine {
	e := &Engine{settle: DefaultSettle}
	for _, opt := range opts {
		opt(e)
	}
	if e.logger == nil {
		e.logger = log.New(io.Discard)
	}
	return e
}

// Name implements render.Engine.
func (e *Engine) Name() string { return Name }

// allocatorOptions returns the browser flags for a render.
func (e *Engine) allocatorOptions() []chromedp.ExecAllocatorOption {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("hide-scrollbars", true),
		// The markup is a local file that may reference remote images.
		chromedp.Flag("allow-file-access-from-files", true),
		chromedp.Flag("disable-web-security", true),
	)
	if e.execPath != "" {
		opts = append(opts, chromedp.ExecPath(e.execPath))
	}
	return opts
}

// fileURL returns the file:// URL for a local path.
func fileURL(path string) string {
	p := filepath.ToSlash(path)
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return "file://" + p
}

// Render implements render.Engine.
func (e *Engine) Render(ctx context.Context, t *render.Target, scale float64) (*render.Bitmap, error) {
	start := time.Now()

	path, err := t.WriteMarkup()
	if err != nil {
		return nil, err
	}

	allocCtx, cancel := chromedp.NewExecAllocator(ctx, e.allocatorOptions()...)
	defer cancel()

	taskCtx, cancel := chromedp.NewContext(allocCtx,
		chromedp.WithLogf(e.logger.Debugf),
		chromedp.WithErrorf(e.logger.Debugf),
	)
	defer cancel()

	page := t.Page()
	var buf []byte
	err = chromedp.Run(taskCtx,
		chromedp.EmulateViewport(int64(page.Width), int64(page.Height), chromedp.EmulateScale(scale)),
		chromedp.Navigate(fileURL(path)),
		chromedp.WaitReady("#"+document.DocumentID, chromedp.ByQuery),
		chromedp.Sleep(e.settle),
		chromedp.Screenshot("#"+document.DocumentID, &buf, chromedp.ByQuery),
	)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeRenderFailed, err, "chrome screenshot")
	}

	img, err := png.Decode(bytes.NewReader(buf))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeRenderFailed, err, "decode screenshot")
	}

	bmp := &render.Bitmap{
		Image: render.Flatten(img, page.BackgroundColor()),
		Scale: scale,
	}
	e.logger.Debug("rasterized", "engine", Name, "width", bmp.Width(), "height", bmp.Height(),
		"bytes", len(buf), "duration", time.Since(start))
	return bmp, nil
}
