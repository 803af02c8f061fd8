// Package pipeline runs the ghoshna export: record → document → target →
// rasterize → composite → compress → package.
//
// The stages run strictly in order on one goroutine. A [Runner] refuses to
// start a second export while one is in flight, and once the first stage has
// begun an export always runs to completion: cancellation is only honoured
// before it starts.
//
// # Usage
//
//	runner := pipeline.NewRunner(native.New(), nil, nil, logger)
//	res, err := runner.Export(ctx, rec, sess)
//	if err != nil {
//	    return err
//	}
//	path, err := io.Save(".", res.Artifact, io.SaveOptions{})
//
// # Caching
//
// When the runner has a cache, the encoded artifact is stored under a key
// derived from a hash of the normalized record and every setting that
// affects the output bytes. The record itself is never written anywhere.
package pipeline

import (
	"time"

	"github.com/ghoshnapatra/ghoshna/pkg/cache"
	"github.com/ghoshnapatra/ghoshna/pkg/compose"
	"github.com/ghoshnapatra/ghoshna/pkg/compress"
	"github.com/ghoshnapatra/ghoshna/pkg/document"
	"github.com/ghoshnapatra/ghoshna/pkg/errors"
	pkgio "github.com/ghoshnapatra/ghoshna/pkg/io"
	"github.com/ghoshnapatra/ghoshna/pkg/render"
	"github.com/ghoshnapatra/ghoshna/pkg/session"
)

// DefaultCacheTTL is how long cached artifacts live when Options.CacheTTL
// is unset.
const DefaultCacheTTL = 7 * 24 * time.Hour

// =============================================================================
// Options - Export Configuration
// =============================================================================

// Options configures every export a Runner performs.
type Options struct {
	// Page is the logical page. Zero means A4.
	Page document.Page

	// Scale is the device pixel ratio. Zero means render.DefaultScale.
	Scale float64

	// Compress bounds the size search. Zero fields take the compress defaults.
	Compress compress.Options

	// Fonts lists the configured font files; only used for cache keys.
	Fonts []string

	// CacheTTL is the lifetime of cached artifacts.
	CacheTTL time.Duration

	// Refresh skips the cache lookup but still stores the new artifact.
	Refresh bool

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// ValidateAndSetDefaults applies defaults and checks the options.
// It is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.Page == (document.Page{}) {
		o.Page = document.A4()
	}
	if o.Page.Width <= 0 || o.Page.Height <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "page size must be positive (got %dx%d)", o.Page.Width, o.Page.Height)
	}
	if o.Scale == 0 {
		o.Scale = render.DefaultScale
	}
	if o.Scale < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "scale must be positive (got %v)", o.Scale)
	}
	if o.CacheTTL == 0 {
		o.CacheTTL = DefaultCacheTTL
	}
	if err := o.Compress.ValidateAndSetDefaults(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// artifactKeyOpts returns the cache key options for engine.
func (o *Options) artifactKeyOpts(engine string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Engine:     engine,
		Width:      o.Page.Width,
		Height:     o.Page.Height,
		Padding:    o.Page.Padding,
		Background: o.Page.Background,
		Scale:      o.Scale,
		MinSize:    o.Compress.Window.Min,
		MaxSize:    o.Compress.Window.Max,
		Fonts:      o.Fonts,

		Low:           o.Compress.Low,
		High:          o.Compress.High,
		Initial:       o.Compress.Initial,
		MaxIterations: o.Compress.MaxIterations,
	}
}

// =============================================================================
// Result - Export Output
// =============================================================================

// Result is the outcome of one export.
type Result struct {
	// Artifact is the packaged JPEG.
	Artifact *pkgio.Artifact

	// Compression is the quality search that produced the artifact. On a
	// cache hit it carries only the final data, quality and flags.
	Compression *compress.Result

	// Dimensions are the composite surface dimensions.
	Dimensions compose.Dimensions

	// RecordHash identifies the normalized record without revealing it.
	RecordHash string

	// Cached reports whether the artifact came from the cache.
	Cached bool

	// Nudges are the session nudges due after this export, in display order.
	Nudges []session.Flag

	// Stats contains timing information.
	Stats Stats
}

// Stats contains per-stage timings. Stages skipped on a cache hit are zero.
type Stats struct {
	RenderTime    time.Duration
	CompositeTime time.Duration
	CompressTime  time.Duration
	Total         time.Duration
}
