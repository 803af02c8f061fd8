// Package fonts loads the font faces used by the native render engine.
//
// A [Set] is an ordered list of font sources. Configured fonts (for example a
// Devanagari face such as Noto Sans Devanagari) come first; the embedded Go
// Regular font is always last so Latin digits and punctuation always have a
// glyph. Text is split into [Run]s, each drawable with a single face.
package fonts

import (
	"fmt"
	"sync"
	"unicode"

	"github.com/gogpu/gg/text"
	"golang.org/x/image/font/gofont/goregular"
)

// Parsed once and shared; font sources are safe for concurrent use.
var (
	goRegular     *text.FontSource
	goRegularErr  error
	goRegularOnce sync.Once
)

// GoRegular returns the embedded Go Regular font source.
func GoRegular() (*text.FontSource, error) {
	goRegularOnce.Do(func() {
		goRegular, goRegularErr = text.NewFontSource(goregular.TTF)
	})
	return goRegular, goRegularErr
}

// Set is an ordered font fallback list.
type Set struct {
	sources []*text.FontSource
	owned   []*text.FontSource // loaded from files, closed by Close
}

// Default returns a set containing only the embedded font.
func Default() (*Set, error) {
	return Load()
}

// Load builds a set from font files, in priority order, followed by the
// embedded font.
func Load(paths ...string) (*Set, error) {
	s := &Set{}
	for _, p := range paths {
		src, err := text.NewFontSourceFromFile(p)
		if err != nil {
			s.Close()
			return nil, fmt.Errorf("load font %s: %w", p, err)
		}
		s.sources = append(s.sources, src)
		s.owned = append(s.owned, src)
	}
	base, err := GoRegular()
	if err != nil {
		s.Close()
		return nil, fmt.Errorf("load embedded font: %w", err)
	}
	s.sources = append(s.sources, base)
	return s, nil
}

// Len returns the number of sources in the set.
func (s *Set) Len() int { return len(s.sources) }

// Face returns the set's faces at size (in pixels).
func (s *Set) Face(size float64) *Faces {
	f := &Faces{size: size, faces: make([]text.Face, len(s.sources))}
	for i, src := range s.sources {
		f.faces[i] = src.Face(size)
	}
	return f
}

// Close releases fonts loaded from files. The embedded font is shared and
// stays open.
func (s *Set) Close() error {
	var first error
	for _, src := range s.owned {
		if err := src.Close(); err != nil && first == nil {
			first = err
		}
	}
	s.owned = nil
	return first
}

// Faces is a Set at one size.
type Faces struct {
	size  float64
	faces []text.Face
}

// Run is a span of text drawable with a single face.
type Run struct {
	Text string
	Face text.Face
}

// Size returns the face size in pixels.
func (f *Faces) Size() float64 { return f.size }

// Primary returns the highest priority face.
func (f *Faces) Primary() text.Face { return f.faces[0] }

// Metrics returns vertical metrics covering every face in the set.
func (f *Faces) Metrics() text.Metrics {
	m := f.faces[0].Metrics()
	for _, face := range f.faces[1:] {
		fm := face.Metrics()
		m.Ascent = max(m.Ascent, fm.Ascent)
		m.Descent = max(m.Descent, fm.Descent)
		m.LineGap = max(m.LineGap, fm.LineGap)
	}
	return m
}

// pick returns the first face with a glyph for r, or -1 if none has one.
func (f *Faces) pick(r rune) int {
	for i, face := range f.faces {
		if face.HasGlyph(r) {
			return i
		}
	}
	return -1
}

// Runs splits s into runs of consecutive runes covered by the same face.
// Spaces and combining marks stay with the preceding run. Runes no face
// covers are drawn with the last face.
func (f *Faces) Runs(s string) []Run {
	var runs []Run
	cur, start := -1, 0
	for i, r := range s {
		if cur >= 0 && sticky(r) && f.faces[cur].HasGlyph(r) {
			continue
		}
		idx := f.pick(r)
		if idx < 0 {
			idx = len(f.faces) - 1
		}
		if idx == cur {
			continue
		}
		if cur >= 0 {
			runs = append(runs, Run{Text: s[start:i], Face: f.faces[cur]})
		}
		cur, start = idx, i
	}
	if cur >= 0 {
		runs = append(runs, Run{Text: s[start:], Face: f.faces[cur]})
	}
	return runs
}

func sticky(r rune) bool {
	return unicode.IsSpace(r) || unicode.In(r, unicode.Mn, unicode.Mc)
}

// Advance returns the width of s drawn run by run.
func (f *Faces) Advance(s string) float64 {
	var w float64
	for _, r := range f.Runs(s) {
		w += r.Face.Advance(r.Text)
	}
	return w
}
