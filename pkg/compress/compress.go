// Package compress encodes a canvas into JPEG bytes whose size lands inside
// a byte window.
//
// # Search
//
// The [Compressor] runs a bounded binary search over the encoder quality:
//
//	low, high, best = 0.1, 0.9, 0.5
//	repeat at most MaxIterations times:
//	    mid = (low + high) / 2
//	    size < Min: low = mid
//	    size > Max: high = mid
//	    otherwise:  accept mid
//
// Every attempt that produced data becomes the running best candidate. If no
// attempt landed in the window, the image is encoded once more at the best
// quality and that result is accepted as is: missing the window is not an
// error. The search makes at most MaxIterations+1 encodes whatever the
// encoder's size curve looks like.
//
// Only an encoder that never returns data fails the search, with
// ENCODING_FAILED.
package compress

import (
	"image"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/ghoshnapatra/ghoshna/pkg/errors"
)

// Default search parameters.
const (
	DefaultMinSize       = 20 * 1024
	DefaultMaxSize       = 50 * 1024
	DefaultLow           = 0.1
	DefaultHigh          = 0.9
	DefaultInitial       = 0.5
	DefaultMaxIterations = 8
)

// Window is an inclusive byte-size range.
type Window struct {
	Min int `json:"min" toml:"min"`
	Max int `json:"max" toml:"max"`
}

// DefaultWindow returns the 20 KiB to 50 KiB window.
func DefaultWindow() Window {
	return Window{Min: DefaultMinSize, Max: DefaultMaxSize}
}

// Contains reports whether size lies inside the window.
func (w Window) Contains(size int) bool {
	return size >= w.Min && size <= w.Max
}

// Outcome classifies a single encode attempt.
type Outcome string

const (
	OutcomeNoData   Outcome = "no-data"
	OutcomeTooSmall Outcome = "too-small"
	OutcomeTooLarge Outcome = "too-large"
	OutcomeInWindow Outcome = "in-window"
	OutcomeFallback Outcome = "fallback"
)

// Attempt records one encode.
type Attempt struct {
	Iteration int // 1-based; MaxIterations+1 for the fallback encode
	Quality   float64
	Size      int
	Outcome   Outcome
	Duration  time.Duration
}

// Result is the outcome of a search.
type Result struct {
	Data       []byte
	Quality    float64
	Iterations int  // search iterations run, excluding the fallback encode
	InWindow   bool // false when the fallback was accepted
	Attempts   []Attempt
}

// Size returns the encoded size in bytes.
func (r *Result) Size() int { return len(r.Data) }

// Options configures a Compressor.
type Options struct {
	Window        Window
	Low           float64
	High          float64
	Initial       float64
	MaxIterations int

	// OnAttempt, if set, is called after every encode.
	OnAttempt func(Attempt)

	Logger *log.Logger
}

// ValidateAndSetDefaults fills zero values and checks the search bounds.
func (o *Options) ValidateAndSetDefaults() error {
	if o.Window == (Window{}) {
		o.Window = DefaultWindow()
	}
	if o.Low == 0 && o.High == 0 {
		o.Low, o.High = DefaultLow, DefaultHigh
	}
	if o.Initial == 0 {
		o.Initial = DefaultInitial
	}
	if o.MaxIterations == 0 {
		o.MaxIterations = DefaultMaxIterations
	}
	if o.Logger == nil {
		o.Logger = log.New(io.Discard)
	}

	if o.Window.Min < 0 || o.Window.Max < o.Window.Min {
		return errors.New(errors.ErrCodeInvalidConfig, "invalid size window [%d, %d]", o.Window.Min, o.Window.Max)
	}
	if o.Low < 0 || o.High > 1 || o.Low >= o.High {
		return errors.New(errors.ErrCodeInvalidConfig, "invalid quality bounds [%v, %v]", o.Low, o.High)
	}
	if o.Initial < 0 || o.Initial > 1 {
		return errors.New(errors.ErrCodeInvalidConfig, "invalid initial quality %v", o.Initial)
	}
	if o.MaxIterations < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "invalid iteration cap %d", o.MaxIterations)
	}
	return nil
}

// Compressor runs the size-bounded quality search.
type Compressor struct {
	enc  Encoder
	opts Options
}

// New creates a compressor. Zero options take the defaults.
func New(enc Encoder, opts Options) (*Compressor, error) {
	if enc == nil {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "no encoder")
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	return &Compressor{enc: enc, opts: opts}, nil
}

// Options returns the effective options.
func (c *Compressor) Options() Options { return c.opts }

// encode runs one attempt. Encoder errors count as no data.
func (c *Compressor) encode(img image.Image, iteration int, q float64) ([]byte, Attempt) {
	start := time.Now()
	data, err := c.enc.Encode(img, q)
	a := Attempt{Iteration: iteration, Quality: q, Size: len(data), Duration: time.Since(start)}
	if err != nil {
		c.opts.Logger.Debug("encode failed", "iteration", iteration, "quality", q, "err", err)
		data = nil
		a.Size = 0
	}
	if len(data) == 0 {
		data = nil
		a.Outcome = OutcomeNoData
	}
	return data, a
}

func (c *Compressor) record(res *Result, a Attempt) {
	res.Attempts = append(res.Attempts, a)
	if c.opts.OnAttempt != nil {
		c.opts.OnAttempt(a)
	}
	c.opts.Logger.Debug("encode", "iteration", a.Iteration, "quality", a.Quality,
		"size", a.Size, "outcome", a.Outcome)
}

// Compress encodes img, searching for a quality whose output fits the
// window.
func (c *Compressor) Compress(img image.Image) (*Result, error) {
	if img == nil {
		return nil, errors.New(errors.ErrCodeContentUnavailable, "no image to compress")
	}

	w := c.opts.Window
	low, high := c.opts.Low, c.opts.High
	bestQ := c.opts.Initial
	var bestData []byte

	res := &Result{}
	for i := 1; i <= c.opts.MaxIterations; i++ {
		mid := (low + high) / 2
		data, a := c.encode(img, i, mid)
		res.Iterations = i

		if data == nil {
			c.record(res, a)
			continue
		}
		bestQ, bestData = mid, data

		switch size := len(data); {
		case size < w.Min:
			a.Outcome = OutcomeTooSmall
			low = mid
		case size > w.Max:
			a.Outcome = OutcomeTooLarge
			high = mid
		default:
			a.Outcome = OutcomeInWindow
			c.record(res, a)
			res.Data, res.Quality, res.InWindow = data, mid, true
			return res, nil
		}
		c.record(res, a)
	}

	// No attempt fit the window: accept the best candidate.
	data, a := c.encode(img, c.opts.MaxIterations+1, bestQ)
	if data != nil {
		a.Outcome = OutcomeFallback
	}
	c.record(res, a)

	switch {
	case data != nil:
		res.Data, res.Quality = data, bestQ
	case bestData != nil:
		res.Data, res.Quality = bestData, bestQ
	default:
		return nil, errors.New(errors.ErrCodeEncodingFailed,
			"encoder returned no data in %d attempts", len(res.Attempts))
	}
	return res, nil
}
