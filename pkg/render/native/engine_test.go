package native

import (
	"bytes"
	"context"
	"testing"

	"github.com/ghoshnapatra/ghoshna/pkg/declaration"
	"github.com/ghoshnapatra/ghoshna/pkg/document"
	"github.com/ghoshnapatra/ghoshna/pkg/render"
)

func rasterize(t *testing.T, rec declaration.Record) *render.Bitmap {
	t.Helper()
	page := document.A4()
	tgt, err := render.NewTarget(document.Build(rec, page), page)
	if err != nil {
		t.Fatalf("NewTarget: %v", err)
	}
	defer tgt.Close()

	bmp, err := render.Rasterize(context.Background(), New(), tgt, render.DefaultScale)
	if err != nil {
		t.Fatalf("Rasterize: %v", err)
	}
	return bmp
}

func TestRenderDimensions(t *testing.T) {
	bmp := rasterize(t, declaration.Record{ApplicantName: "Ram Kumar"})
	if bmp.Width() != document.PageWidth*2 {
		t.Errorf("width = %d, want %d", bmp.Width(), document.PageWidth*2)
	}
	if bmp.Height() <= 2*2*document.PagePadding {
		t.Errorf("height = %d, want more than the paddings", bmp.Height())
	}
	if bmp.Scale != render.DefaultScale {
		t.Errorf("scale = %v, want %v", bmp.Scale, render.DefaultScale)
	}
}

func TestRenderBackground(t *testing.T) {
	bmp := rasterize(t, declaration.Record{})
	want := document.A4().BackgroundColor()
	for _, pt := range [][2]int{{0, 0}, {bmp.Width() - 1, 0}, {0, bmp.Height() - 1}, {bmp.Width() - 1, bmp.Height() - 1}} {
		if got := bmp.Image.NRGBAAt(pt[0], pt[1]); got != want {
			t.Errorf("pixel %v = %v, want background %v", pt, got, want)
		}
	}
}

func TestRenderDrawsPlaceholders(t *testing.T) {
	bmp := rasterize(t, declaration.Record{})
	bg := document.A4().BackgroundColor()

	inked := 0
	for y := 0; y < bmp.Height(); y++ {
		for x := 0; x < bmp.Width(); x++ {
			if bmp.Image.NRGBAAt(x, y) != bg {
				inked++
			}
		}
	}
	if inked == 0 {
		t.Fatal("empty record rendered a blank page")
	}
}

func TestRenderDeterministic(t *testing.T) {
	rec := declaration.Record{
		ApplicantName: "Ram Kumar",
		FatherName:    "Shyam Lal",
		Age:           "34",
		Year:          "2025",
		Occupation:    "Farmer",
		Address:       "Lucknow",
		Place:         "Lucknow",
		Date:          "2025-01-26",
	}
	a := rasterize(t, rec)
	b := rasterize(t, rec)

	if a.Image.Bounds() != b.Image.Bounds() {
		t.Fatalf("bounds differ: %v vs %v", a.Image.Bounds(), b.Image.Bounds())
	}
	if !bytes.Equal(a.Image.Pix, b.Image.Pix) {
		t.Error("rendering the same record twice produced different pixels")
	}
}
