package compose

import (
	"image"
	"image/color"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ghoshnapatra/ghoshna/pkg/document"
	"github.com/ghoshnapatra/ghoshna/pkg/errors"
	"github.com/ghoshnapatra/ghoshna/pkg/render"
)

func TestLayout(t *testing.T) {
	page := document.A4()
	minH := float64(page.Height) * MinHeightFraction // 954.55

	tests := []struct {
		name         string
		bitmapHeight int
		want         Dimensions
	}{
		{
			name:         "short content uses the minimum height",
			bitmapHeight: 1000,
			want:         Dimensions{ContentHeight: 500, FinalHeight: minH, Width: 1588, Height: int(math.Ceil(minH * 2))},
		},
		{
			name:         "tall content adds the bottom padding",
			bitmapHeight: 2000,
			want:         Dimensions{ContentHeight: 1000, FinalHeight: 1080, Width: 1588, Height: 2160},
		},
		{
			name:         "content clamped below the page height",
			bitmapHeight: 5000,
			want:         Dimensions{ContentHeight: 1083, FinalHeight: 1163, Width: 1588, Height: 2326},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Layout(tt.bitmapHeight, page, 2)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Layout() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestLayoutInvariants(t *testing.T) {
	page := document.A4()
	for h := 0; h <= 4000; h += 37 {
		d := Layout(h, page, 2)
		if d.FinalHeight < float64(page.Height)*MinHeightFraction {
			t.Fatalf("height %d: final %v below minimum", h, d.FinalHeight)
		}
		if d.FinalHeight < d.ContentHeight+BottomPadding {
			t.Fatalf("height %d: final %v leaves no bottom padding", h, d.FinalHeight)
		}
	}
}

func bitmap(w, h int, c color.NRGBA) *render.Bitmap {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	return &render.Bitmap{Image: img, Scale: 2}
}

func TestComposite(t *testing.T) {
	page := document.A4()
	bg := page.BackgroundColor()
	ink := color.NRGBA{R: 0x1a, G: 0x1a, B: 0x1a, A: 0xff}

	canvas, dims, err := Composite(bitmap(1588, 400, ink), page)
	if err != nil {
		t.Fatalf("Composite: %v", err)
	}
	if got := canvas.Bounds().Size(); got != image.Pt(dims.Width, dims.Height) {
		t.Fatalf("canvas size = %v, want %dx%d", got, dims.Width, dims.Height)
	}
	if got := canvas.NRGBAAt(10, 10); got != ink {
		t.Errorf("content pixel = %v, want %v", got, ink)
	}
	if got := canvas.NRGBAAt(10, dims.Height-1); got != bg {
		t.Errorf("padding pixel = %v, want background %v", got, bg)
	}
}

func TestCompositeTransparentBitmap(t *testing.T) {
	page := document.A4()
	canvas, _, err := Composite(bitmap(1588, 400, color.NRGBA{}), page)
	if err != nil {
		t.Fatalf("Composite: %v", err)
	}
	if got, want := canvas.NRGBAAt(100, 100), page.BackgroundColor(); got != want {
		t.Errorf("pixel = %v, want background %v", got, want)
	}
}

func TestCompositeNoBitmap(t *testing.T) {
	tests := []struct {
		name string
		bmp  *render.Bitmap
	}{
		{"nil", nil},
		{"nil image", &render.Bitmap{Scale: 2}},
		{"empty image", &render.Bitmap{Image: image.NewNRGBA(image.Rect(0, 0, 0, 0)), Scale: 2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := Composite(tt.bmp, document.A4())
			if !errors.Is(err, errors.ErrCodeContentUnavailable) {
				t.Errorf("Composite() error = %v, want CONTENT_UNAVAILABLE", err)
			}
		})
	}
}
