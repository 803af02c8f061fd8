package native

import (
	"math"
	"strings"

	"github.com/ghoshnapatra/ghoshna/pkg/document"
	"github.com/ghoshnapatra/ghoshna/pkg/fonts"
)

// Typography, in logical pixels.
const (
	headerSize    = 14.0
	headerLine    = headerSize * 2.2
	headerGap     = 48.0
	titleSize     = 24.0
	titleLine     = titleSize * 1.8
	titleGap      = 56.0
	bodySize      = 16.0
	bodyLine      = bodySize * 2.4
	paragraphGap  = 16.0
	footerGap     = 64.0
	footerLine    = bodySize * 2.0
	indentWidth   = bodySize * 2
	valuePadding  = 8.0
	ruleOffset    = 4.0
	ruleThickness = 1.0
)

// textItem is a string drawn with its baseline at (X, Y).
type textItem struct {
	Text  string
	Faces *fonts.Faces
	X, Y  float64
	Color string
}

// ruleItem is a horizontal underline.
type ruleItem struct {
	X1, X2, Y float64
	Dotted    bool
	Color     string
}

// layout is a document positioned in device pixels.
type layout struct {
	Width, Height int
	Texts         []textItem
	Rules         []ruleItem
}

type layoutState struct {
	scale       float64
	left, right float64
	y           float64
	header      *fonts.Faces
	title       *fonts.Faces
	body        *fonts.Faces
	out         *layout
}

func (s *layoutState) px(v float64) float64 { return v * s.scale }

// baseline returns the baseline of a line box of height h starting at top.
func baseline(f *fonts.Faces, top, h float64) float64 {
	m := f.Metrics()
	return top + (h-(m.Ascent+m.Descent))/2 + m.Ascent
}

// layoutDocument positions every element of d at scale.
func layoutDocument(d *document.Document, page document.Page, set *fonts.Set, scale float64) *layout {
	s := &layoutState{
		scale:  scale,
		left:   float64(page.Padding) * scale,
		right:  float64(page.Width-page.Padding) * scale,
		y:      float64(page.Padding) * scale,
		header: set.Face(headerSize * scale),
		title:  set.Face(titleSize * scale),
		body:   set.Face(bodySize * scale),
		out:    &layout{Width: int(math.Round(float64(page.Width) * scale))},
	}

	if d.Header != "" {
		s.centered(d.Header, s.header, s.px(headerLine), document.RuleColor)
		s.y += s.px(headerGap)
	}
	if d.Title != "" {
		s.centered(d.Title, s.title, s.px(titleLine), document.InkColor)
		s.y += s.px(titleGap)
	}
	for _, line := range d.Body {
		s.flow(line)
	}
	if d.Paragraph != "" {
		s.paragraph(d.Paragraph)
		s.y += s.px(paragraphGap)
	}
	if len(d.Left) > 0 || len(d.Right) > 0 {
		s.y += s.px(footerGap)
		s.footer(d.Left, d.Right)
	}

	s.y += float64(page.Padding) * scale
	s.out.Height = int(math.Ceil(s.y))
	return s.out
}

// centered places an underlined single line centered in the content box.
func (s *layoutState) centered(text string, f *fonts.Faces, lineH float64, color string) {
	w := f.Advance(text)
	x := s.left + (s.right-s.left-w)/2
	base := baseline(f, s.y, lineH)
	s.out.Texts = append(s.out.Texts, textItem{Text: text, Faces: f, X: x, Y: base, Color: color})
	s.out.Rules = append(s.out.Rules, ruleItem{X1: x, X2: x + w, Y: base + s.px(ruleOffset), Color: color})
	s.y += lineH
}

// segmentWidth returns the width a segment occupies on a line.
func (s *layoutState) segmentWidth(seg document.Segment) float64 {
	switch seg.Kind {
	case document.Value:
		return max(s.body.Advance(seg.Text)+2*s.px(valuePadding), s.px(seg.MinWidth))
	case document.Blank:
		return s.px(seg.MinWidth)
	default:
		return s.body.Advance(seg.Text)
	}
}

// place draws seg at x on the line whose baseline is base.
func (s *layoutState) place(seg document.Segment, x, w, base float64) {
	switch seg.Kind {
	case document.Value:
		tw := s.body.Advance(seg.Text)
		s.out.Texts = append(s.out.Texts, textItem{
			Text: seg.Text, Faces: s.body, X: x + (w-tw)/2, Y: base, Color: document.InkColor,
		})
		s.out.Rules = append(s.out.Rules, ruleItem{
			X1: x, X2: x + w, Y: base + s.px(ruleOffset), Dotted: true, Color: document.RuleColor,
		})
	case document.Blank:
		s.out.Rules = append(s.out.Rules, ruleItem{
			X1: x, X2: x + w, Y: base + s.px(ruleOffset), Dotted: true, Color: document.RuleColor,
		})
	default:
		s.out.Texts = append(s.out.Texts, textItem{
			Text: seg.Text, Faces: s.body, X: x, Y: base, Color: document.InkColor,
		})
	}
}

// flow lays segments left to right, wrapping between segments.
func (s *layoutState) flow(line document.Line) {
	lineH := s.px(bodyLine)
	space := s.body.Advance(" ")
	x := s.left
	if line.Indent {
		x += s.px(indentWidth)
	}
	base := baseline(s.body, s.y, lineH)
	first := true
	for _, seg := range line.Segments {
		w := s.segmentWidth(seg)
		if !first {
			if x+space+w > s.right {
				s.y += lineH
				base = baseline(s.body, s.y, lineH)
				x = s.left
			} else {
				x += space
			}
		}
		s.place(seg, x, w, base)
		x += w
		first = false
	}
	s.y += lineH
}

// paragraph word-wraps text across the content width.
func (s *layoutState) paragraph(text string) {
	lineH := s.px(bodyLine)
	space := s.body.Advance(" ")
	var line []string
	lineW := 0.0
	emit := func() {
		if len(line) == 0 {
			return
		}
		s.out.Texts = append(s.out.Texts, textItem{
			Text: strings.Join(line, " "), Faces: s.body, X: s.left,
			Y: baseline(s.body, s.y, lineH), Color: document.InkColor,
		})
		s.y += lineH
		line, lineW = line[:0], 0
	}
	for _, word := range strings.Fields(text) {
		w := s.body.Advance(word)
		if len(line) > 0 && s.left+lineW+space+w > s.right {
			emit()
		}
		if len(line) > 0 {
			lineW += space
		}
		line = append(line, word)
		lineW += w
	}
	emit()
}

// footer places the two footer columns, bottom aligned.
func (s *layoutState) footer(left, right []document.Line) {
	lineH := s.px(footerLine)
	rows := max(len(left), len(right))
	space := s.body.Advance(" ")

	column := func(lines []document.Line, alignRight bool) {
		top := s.y + float64(rows-len(lines))*lineH
		for _, line := range lines {
			widths := make([]float64, len(line.Segments))
			total := 0.0
			for i, seg := range line.Segments {
				widths[i] = s.segmentWidth(seg)
				total += widths[i]
			}
			if n := len(line.Segments); n > 1 {
				total += float64(n-1) * space
			}
			x := s.left
			if alignRight {
				x = s.right - total
			}
			base := baseline(s.body, top, lineH)
			for i, seg := range line.Segments {
				s.place(seg, x, widths[i], base)
				x += widths[i] + space
			}
			top += lineH
		}
	}
	column(left, false)
	column(right, true)
	s.y += float64(rows) * lineH
}
