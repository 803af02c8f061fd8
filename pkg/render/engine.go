package render

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/disintegration/imaging"

	"github.com/ghoshnapatra/ghoshna/pkg/errors"
)

// DefaultScale is the device scale every export renders at.
const DefaultScale = 2.0

// Bitmap is a rasterized document.
type Bitmap struct {
	Image *image.NRGBA
	Scale float64
}

// Width returns the bitmap width in device pixels.
func (b *Bitmap) Width() int { return b.Image.Bounds().Dx() }

// Height returns the bitmap height in device pixels.
func (b *Bitmap) Height() int { return b.Image.Bounds().Dy() }

// LogicalHeight returns the bitmap height in logical (unscaled) pixels.
func (b *Bitmap) LogicalHeight() float64 {
	return float64(b.Height()) / b.Scale
}

// Engine rasterizes a render target at a device scale.
type Engine interface {
	Name() string
	Render(ctx context.Context, t *Target, scale float64) (*Bitmap, error)
}

// EngineFunc adapts a function to the Engine interface.
type EngineFunc func(ctx context.Context, t *Target, scale float64) (*Bitmap, error)

// Name implements Engine.
func (f EngineFunc) Name() string { return "func" }

// Render implements Engine.
func (f EngineFunc) Render(ctx context.Context, t *Target, scale float64) (*Bitmap, error) {
	return f(ctx, t, scale)
}

// DeviceWidth is the expected bitmap width for a target rendered at scale.
func DeviceWidth(t *Target, scale float64) int {
	return int(math.Round(float64(t.page.Width) * scale))
}

// Rasterize renders t with e at scale.
//
// A target renders one bitmap at a time: a call made while another
// Rasterize on the same target is in flight fails with EXPORT_IN_PROGRESS
// rather than waiting. The returned bitmap is flattened onto the page
// background so no transparent pixel survives.
func Rasterize(ctx context.Context, e Engine, t *Target, scale float64) (*Bitmap, error) {
	if t == nil {
		return nil, errors.New(errors.ErrCodeContentUnavailable, "no render target")
	}
	if scale <= 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "invalid scale %v", scale)
	}
	if !t.busy.TryLock() {
		return nil, errors.New(errors.ErrCodeExportInProgress, "render target is busy")
	}
	defer t.busy.Unlock()

	if t.Closed() {
		return nil, errors.New(errors.ErrCodeContentUnavailable, "render target is closed")
	}

	bmp, err := e.Render(ctx, t, scale)
	if err != nil {
		if errors.GetCode(err) != "" {
			return nil, err
		}
		return nil, errors.Wrap(errors.ErrCodeRenderFailed, err, "%s engine", e.Name())
	}
	if bmp == nil || bmp.Image == nil || bmp.Image.Bounds().Empty() {
		return nil, errors.New(errors.ErrCodeRenderFailed, "%s engine produced no image", e.Name())
	}
	if want := DeviceWidth(t, scale); bmp.Width() != want {
		return nil, errors.New(errors.ErrCodeRenderFailed,
			"%s engine produced width %d, want %d", e.Name(), bmp.Width(), want)
	}

	return &Bitmap{
		Image: Flatten(bmp.Image, t.page.BackgroundColor()),
		Scale: scale,
	}, nil
}

// Flatten composites img over an opaque background of the same size.
func Flatten(img image.Image, bg color.Color) *image.NRGBA {
	b := img.Bounds()
	dst := imaging.New(b.Dx(), b.Dy(), bg)
	return imaging.Overlay(dst, img, image.Pt(0, 0), 1.0)
}

func (b *Bitmap) String() string {
	return fmt.Sprintf("%dx%d@%gx", b.Width(), b.Height(), b.Scale)
}
