package pipeline

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"

	"github.com/ghoshnapatra/ghoshna/pkg/cache"
	"github.com/ghoshnapatra/ghoshna/pkg/compose"
	"github.com/ghoshnapatra/ghoshna/pkg/compress"
	"github.com/ghoshnapatra/ghoshna/pkg/declaration"
	"github.com/ghoshnapatra/ghoshna/pkg/document"
	"github.com/ghoshnapatra/ghoshna/pkg/errors"
	"github.com/ghoshnapatra/ghoshna/pkg/history"
	pkgio "github.com/ghoshnapatra/ghoshna/pkg/io"
	"github.com/ghoshnapatra/ghoshna/pkg/observability"
	"github.com/ghoshnapatra/ghoshna/pkg/render"
	"github.com/ghoshnapatra/ghoshna/pkg/session"
)

// Runner executes exports with caching and history.
//
// A Runner holds no per-export state beyond its in-flight flag; targets,
// surfaces and buffers are local to each Export call.
type Runner struct {
	Engine  render.Engine
	Encoder compress.Encoder
	Cache   cache.Cache
	Keyer   cache.Keyer
	History history.Store
	Logger  *log.Logger
	Options Options

	busy atomic.Bool
}

// NewRunner creates a runner rendering with engine.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
// History is disabled until the History field is set.
func NewRunner(engine render.Engine, c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Runner{
		Engine:  engine,
		Encoder: compress.JPEGEncoder{},
		Cache:   c,
		Keyer:   keyer,
		History: history.NullStore{},
		Logger:  logger,
	}
}

// Close releases the engine (when it holds resources), the cache and the
// history store.
func (r *Runner) Close() error {
	var errs []error
	if c, ok := r.Engine.(io.Closer); ok {
		errs = append(errs, c.Close())
	}
	if r.Cache != nil {
		errs = append(errs, r.Cache.Close())
	}
	if r.History != nil {
		errs = append(errs, r.History.Close())
	}
	return stderrors.Join(errs...)
}

// Busy reports whether an export is in flight.
func (r *Runner) Busy() bool { return r.busy.Load() }

// Export renders rec and encodes it into a size-bounded JPEG artifact.
//
// A second call while one is in flight fails with EXPORT_IN_PROGRESS. ctx is
// checked once before any work; after that the export runs to completion.
// sess may be nil, in which case no nudges are reported. rec is not modified.
func (r *Runner) Export(ctx context.Context, rec declaration.Record, sess *session.Session) (res *Result, err error) {
	if !r.busy.CompareAndSwap(false, true) {
		return nil, errors.New(errors.ErrCodeExportInProgress, "an export is already in progress")
	}
	defer r.busy.Store(false)

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if r.Engine == nil {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "no render engine")
	}
	opts := r.Options
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	ctx = context.WithoutCancel(ctx)

	start := time.Now()
	engine := r.Engine.Name()
	hooks := observability.Pipeline()
	hooks.OnExportStart(ctx, engine)
	defer func() {
		var size int
		var inWindow bool
		if res != nil {
			size, inWindow = res.Artifact.Size(), res.Artifact.InWindow
		}
		hooks.OnExportComplete(ctx, size, inWindow, time.Since(start), err)
	}()

	rec = rec.Normalize()
	recordHash, err := hashRecord(rec)
	if err != nil {
		return nil, err
	}

	res = &Result{RecordHash: recordHash}
	key := r.Keyer.ArtifactKey(recordHash, opts.artifactKeyOpts(engine))

	if cached, ok := r.lookup(ctx, key, opts); ok {
		res.Cached = true
		res.Compression = cached.result()
		res.Dimensions = cached.Dimensions
	} else {
		if err := r.produce(ctx, rec, opts, res); err != nil {
			return nil, err
		}
		r.store(ctx, key, res, opts)
	}

	res.Artifact, err = pkgio.Package(rec.ApplicantName, res.Compression)
	if err != nil {
		return nil, err
	}
	res.Stats.Total = time.Since(start)

	r.record(ctx, engine, res)
	res.Nudges = dueNudges(sess)

	r.Logger.Info("exported",
		"file", res.Artifact.Name,
		"size", fmt.Sprintf("%.1f KB", float64(res.Artifact.Size())/1024),
		"quality", res.Artifact.Quality,
		"in_window", res.Artifact.InWindow,
		"cached", res.Cached,
		"duration", res.Stats.Total.Round(time.Millisecond))

	return res, nil
}

// produce runs the render, composite and compress stages into res.
func (r *Runner) produce(ctx context.Context, rec declaration.Record, opts Options, res *Result) (err error) {
	doc := document.Build(rec, opts.Page)
	target, err := render.NewTarget(doc, opts.Page)
	if err != nil {
		return err
	}
	defer func() {
		cerr := target.Close()
		switch {
		case cerr == nil:
		case err != nil:
			err = stderrors.Join(err, cerr)
		default:
			r.Logger.Warn("release render target", "error", cerr)
		}
	}()

	engine := r.Engine.Name()
	renderStart := time.Now()
	bmp, err := render.Rasterize(ctx, r.Engine, target, opts.Scale)
	res.Stats.RenderTime = time.Since(renderStart)
	if bmp != nil {
		observability.Pipeline().OnRenderComplete(ctx, engine, bmp.Width(), bmp.Height(), res.Stats.RenderTime, err)
	} else {
		observability.Pipeline().OnRenderComplete(ctx, engine, 0, 0, res.Stats.RenderTime, err)
	}
	if err != nil {
		return fmt.Errorf("rasterize: %w", err)
	}
	r.Logger.Debug("rasterized", "stage", "render", "engine", engine, "bitmap", bmp.String(), "duration", res.Stats.RenderTime)

	compositeStart := time.Now()
	surface, dims, err := compose.Composite(bmp, opts.Page)
	if err != nil {
		return fmt.Errorf("composite: %w", err)
	}
	res.Dimensions = dims
	res.Stats.CompositeTime = time.Since(compositeStart)
	r.Logger.Debug("composited", "stage", "composite", "width", dims.Width, "height", dims.Height)

	copts := opts.Compress
	copts.Logger = r.Logger
	onAttempt := copts.OnAttempt
	copts.OnAttempt = func(a compress.Attempt) {
		observability.Pipeline().OnCompressAttempt(ctx, a.Iteration, a.Quality, a.Size, string(a.Outcome))
		if onAttempt != nil {
			onAttempt(a)
		}
	}
	compressor, err := compress.New(r.Encoder, copts)
	if err != nil {
		return err
	}

	compressStart := time.Now()
	res.Compression, err = compressor.Compress(surface)
	res.Stats.CompressTime = time.Since(compressStart)
	if err != nil {
		return fmt.Errorf("compress: %w", err)
	}
	return nil
}

// =============================================================================
// Cache
// =============================================================================

// cachedArtifact is the cache payload: the encoded bytes and how they were
// produced. It carries nothing from the record.
type cachedArtifact struct {
	Data       []byte             `json:"data"`
	Quality    float64            `json:"quality"`
	Iterations int                `json:"iterations"`
	InWindow   bool               `json:"in_window"`
	Dimensions compose.Dimensions `json:"dimensions"`
}

func (c *cachedArtifact) result() *compress.Result {
	return &compress.Result{
		Data:       c.Data,
		Quality:    c.Quality,
		Iterations: c.Iterations,
		InWindow:   c.InWindow,
	}
}

func (r *Runner) lookup(ctx context.Context, key string, opts Options) (*cachedArtifact, bool) {
	if opts.Refresh {
		return nil, false
	}
	hooks := observability.Cache()
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		r.Logger.Warn("cache lookup failed", "error", err)
		return nil, false
	}
	if !hit {
		hooks.OnCacheMiss(ctx, "artifact")
		return nil, false
	}
	var cached cachedArtifact
	if err := json.Unmarshal(data, &cached); err != nil || len(cached.Data) == 0 {
		// Unreadable entries are recomputed and overwritten.
		hooks.OnCacheMiss(ctx, "artifact")
		return nil, false
	}
	hooks.OnCacheHit(ctx, "artifact")
	r.Logger.Debug("cache hit", "stage", "cache", "size", len(cached.Data))
	return &cached, true
}

func (r *Runner) store(ctx context.Context, key string, res *Result, opts Options) {
	data, err := json.Marshal(cachedArtifact{
		Data:       res.Compression.Data,
		Quality:    res.Compression.Quality,
		Iterations: res.Compression.Iterations,
		InWindow:   res.Compression.InWindow,
		Dimensions: res.Dimensions,
	})
	if err != nil {
		return
	}
	if err := r.Cache.Set(ctx, key, data, opts.CacheTTL); err != nil {
		r.Logger.Warn("cache store failed", "error", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, "artifact", len(data))
}

// =============================================================================
// History & Session
// =============================================================================

func (r *Runner) record(ctx context.Context, engine string, res *Result) {
	e := history.NewEntry()
	e.RecordHash = res.RecordHash
	e.Engine = engine
	e.Size = res.Artifact.Size()
	e.Quality = res.Artifact.Quality
	e.Iterations = res.Compression.Iterations
	e.InWindow = res.Artifact.InWindow
	e.Cached = res.Cached
	e.Duration = res.Stats.Total
	if err := r.History.Add(ctx, e); err != nil {
		r.Logger.Warn("record history failed", "error", err)
	}
}

// dueNudges returns the nudges sess has not shown yet and marks them shown.
func dueNudges(sess *session.Session) []session.Flag {
	var due []session.Flag
	for _, f := range session.Nudges {
		if sess.Once(f) {
			due = append(due, f)
		}
	}
	return due
}

// hashRecord hashes the normalized record for cache keys and history.
func hashRecord(rec declaration.Record) (string, error) {
	data, err := json.Marshal(rec)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal, err, "hash record")
	}
	return cache.Hash(data), nil
}
