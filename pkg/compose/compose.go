// Package compose places a rasterized document on a canvas of the final
// export size.
//
// The canvas is at least 85% of a page tall so short documents still look
// like a page, and always leaves a bottom margin below the content:
//
//	contentHeight = min(bitmapHeight/scale, pageHeight - TopMargin)
//	finalHeight   = max(contentHeight + BottomPadding, pageHeight*MinHeightFraction)
//
// The canvas is fully painted with the page background before the bitmap is
// composited at the origin.
package compose

import (
	"image"
	"math"

	"github.com/disintegration/imaging"

	"github.com/ghoshnapatra/ghoshna/pkg/document"
	"github.com/ghoshnapatra/ghoshna/pkg/errors"
	"github.com/ghoshnapatra/ghoshna/pkg/render"
)

// Layout constants, in logical pixels.
const (
	TopMargin         = 40
	BottomPadding     = 80
	MinHeightFraction = 0.85
)

// Dimensions is the computed canvas geometry.
type Dimensions struct {
	ContentHeight float64 // logical
	FinalHeight   float64 // logical
	Width         int     // device pixels
	Height        int     // device pixels
}

// Layout computes the canvas geometry for a bitmap bitmapHeight device pixels
// tall rendered at scale.
func Layout(bitmapHeight int, page document.Page, scale float64) Dimensions {
	pageH := float64(page.Height)
	content := math.Min(float64(bitmapHeight)/scale, pageH-TopMargin)
	final := math.Max(content+BottomPadding, pageH*MinHeightFraction)
	return Dimensions{
		ContentHeight: content,
		FinalHeight:   final,
		Width:         int(math.Round(float64(page.Width) * scale)),
		Height:        int(math.Ceil(final * scale)),
	}
}

// Composite returns the final canvas for bmp on page.
// The bitmap is alpha-composited at the origin over the background; anything
// below the canvas height is cropped.
func Composite(bmp *render.Bitmap, page document.Page) (*image.NRGBA, Dimensions, error) {
	if bmp == nil || bmp.Image == nil || bmp.Image.Bounds().Empty() {
		return nil, Dimensions{}, errors.New(errors.ErrCodeContentUnavailable, "no bitmap to composite")
	}
	if bmp.Scale <= 0 {
		return nil, Dimensions{}, errors.New(errors.ErrCodeInvalidInput, "invalid bitmap scale %v", bmp.Scale)
	}

	dims := Layout(bmp.Height(), page, bmp.Scale)
	canvas := imaging.New(dims.Width, dims.Height, page.BackgroundColor())
	return imaging.Overlay(canvas, bmp.Image, image.Pt(0, 0), 1.0), dims, nil
}
