package document

import (
	"image/color"
	"math"

	"github.com/gogpu/gg"
)

// Page layout constants, in logical pixels (A4 at 96 DPI).
const (
	PageWidth      = 794
	PageHeight     = 1123
	PagePadding    = 60
	PageBackground = "#FFFEF7"
	InkColor       = "#1A1A1A"
	RuleColor      = "#333333"
)

// Page describes the fixed logical surface a document is laid out on.
type Page struct {
	Width      int    `json:"width" toml:"width"`
	Height     int    `json:"height" toml:"height"`
	Padding    int    `json:"padding" toml:"padding"`
	Background string `json:"background" toml:"background"`
}

// A4 returns the default page.
func A4() Page {
	return Page{
		Width:      PageWidth,
		Height:     PageHeight,
		Padding:    PagePadding,
		Background: PageBackground,
	}
}

// ContentWidth is the width available between the paddings.
func (p Page) ContentWidth() int {
	return p.Width - 2*p.Padding
}

// BackgroundColor returns the declared background as an opaque color.
func (p Page) BackgroundColor() color.NRGBA {
	return ParseColor(p.Background)
}

// ParseColor parses a #RRGGBB hex string. Alpha is forced to opaque so a
// background can never leak transparency into an encoded image.
func ParseColor(hex string) color.NRGBA {
	c := gg.Hex(hex)
	return color.NRGBA{
		R: channel(c.R),
		G: channel(c.G),
		B: channel(c.B),
		A: 0xff,
	}
}

func channel(v float64) uint8 {
	return uint8(math.Round(math.Max(0, math.Min(1, v)) * 255))
}
