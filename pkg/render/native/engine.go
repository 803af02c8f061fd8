// Package native rasterizes declaration documents with the pure-Go gogpu/gg
// software renderer.
//
// The engine needs no external process and produces byte-identical bitmaps
// for identical documents, which makes it the default engine and the one the
// export idempotence guarantee relies on.
package native

import (
	"context"
	"image"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/disintegration/imaging"
	"github.com/gogpu/gg"

	"github.com/ghoshnapatra/ghoshna/pkg/errors"
	"github.com/ghoshnapatra/ghoshna/pkg/fonts"
	"github.com/ghoshnapatra/ghoshna/pkg/render"
)

// Name identifies the engine in configuration and logs.
const Name = "native"

// Option configures an Engine.
type Option func(*Engine)

// WithFonts sets the font fallback list. Defaults to the embedded font.
func WithFonts(set *fonts.Set) Option {
	return func(e *Engine) { e.fonts = set }
}

// WithLogger sets the logger for debug output.
func WithLogger(l *log.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// Engine draws documents with gogpu/gg.
type Engine struct {
	fonts  *fonts.Set
	logger *log.Logger
}

// New creates a native engine.
func New(opts ...Option) *Engine {
	e := &Engine{}
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

// Close releases the configured font set.
func (e *Engine) Close() error {
	if e.fonts == nil {
		return nil
	}
	return e.fonts.Close()
}

// Render implements render.Engine.
func (e *Engine) Render(_ context.Context, t *render.Target, scale float64) (*render.Bitmap, error) {
	start := time.Now()

	set := e.fonts
	if set == nil {
		var err error
		if set, err = fonts.Default(); err != nil {
			return nil, errors.Wrap(errors.ErrCodeRenderFailed, err, "load fonts")
		}
	}

	l := layoutDocument(t.Document(), t.Page(), set, scale)
	img, err := draw(l, t.Page().Background, scale)
	if err != nil {
		return nil, err
	}

	e.logger.Debug("rasterized", "engine", Name, "width", l.Width, "height", l.Height,
		"texts", len(l.Texts), "rules", len(l.Rules), "duration", time.Since(start))
	return &render.Bitmap{Image: img, Scale: scale}, nil
}

func draw(l *layout, background string, scale float64) (*image.NRGBA, error) {
	dc := gg.NewContext(l.Width, l.Height)
	defer dc.Close()

	dc.ClearWithColor(gg.Hex(background))

	dc.SetLineWidth(ruleThickness * scale)
	for _, r := range l.Rules {
		dc.SetHexColor(r.Color)
		if r.Dotted {
			dc.SetDash(scale, 2*scale)
		} else {
			dc.ClearDash()
		}
		dc.DrawLine(r.X1, r.Y, r.X2, r.Y)
		if err := dc.Stroke(); err != nil {
			return nil, errors.Wrap(errors.ErrCodeRenderFailed, err, "stroke rule")
		}
	}
	dc.ClearDash()

	for _, t := range l.Texts {
		dc.SetHexColor(t.Color)
		x := t.X
		for _, run := range t.Faces.Runs(t.Text) {
			dc.SetFont(run.Face)
			dc.DrawString(run.Text, x, t.Y)
			x += run.Face.Advance(run.Text)
		}
	}

	if err := dc.FlushGPU(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeRenderFailed, err, "flush")
	}
	return imaging.Clone(dc.Image()), nil
}
