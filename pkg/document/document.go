// Package document lays a declaration record out as the fixed Ghoshna Patra
// template.
//
// A [Document] is the record already interpolated into the template: a header
// reference line, a title, body lines made of labels and field values, the
// declaration paragraph and a two-column footer. Unset fields appear as
// dotted placeholders so the layout never collapses.
//
// Render engines consume a Document either directly (the native engine walks
// its lines) or through [Markup] (HTML for the browser engine).
package document

import (
	"github.com/ghoshnapatra/ghoshna/pkg/declaration"
)

// SegmentKind classifies a run of text on a line.
type SegmentKind int

const (
	// Label is fixed template text.
	Label SegmentKind = iota
	// Value is an interpolated field value (or its placeholder).
	Value
	// Blank is an empty underlined gap of fixed width.
	Blank
)

// Segment is one run of text on a Line.
type Segment struct {
	Kind        SegmentKind
	Text        string
	Field       declaration.Field // set for Value segments
	Placeholder bool              // true when the field was unset
	MinWidth    float64           // minimum underline width in logical px
}

// Line is a single row of segments.
type Line struct {
	Segments []Segment
	Indent   bool
}

// Document is the template with a record interpolated into it.
type Document struct {
	Page      Page
	Header    string
	Title     string
	Body      []Line
	Paragraph string
	Left      []Line // footer, left column
	Right     []Line // footer, right column
}

// Template text.
const (
	headerText = "संख्या— 874 / एक—9—2014—रा—9,दिनॉक 16 जून,2014 का संलग्नक"
	titleText  = "स्वप्रमाणित घोषणा—पत्र"
	bodyText   = "कि आवेदन पत्र में दिये गये विवरण/तथ्य मेरी व्यक्तिगत जानकारी एवं विश्वास में शुद्ध एवं सत्य हैं । " +
		"मैं मिथ्या विवरणों / तथ्यों को देने के परिणामों से भली–भाँति अवगत हूँ । " +
		"यदि आवेदन पत्र में दिये गये कोई विवरण/तथ्य मिथ्या पाये जाते हैं,तो मैं,मेरे विरूद्ध भा०द०वि० 1960 की " +
		"धारा—199 व 200 एवं प्रभावी किसी अन्य विधि के अंतर्गत अभियोजन एवं दण्ड के लिये,स्वयं उत्तरदायी होऊँगा / होऊँगी।"
)

// Build interpolates rec into the template on page.
// The record is normalized first; the caller's value is not modified.
func Build(rec declaration.Record, page Page) *Document {
	rec = rec.Normalize()

	return &Document{
		Page:   page,
		Header: headerText,
		Title:  titleText,
		Body: []Line{
			{
				Indent: true,
				Segments: []Segment{
					label("मैं"),
					value(rec, declaration.FieldApplicantName, 280),
					label("पुत्र / पुत्री / श्री"),
					value(rec, declaration.FieldFatherName, 200),
				},
			},
			{
				Segments: []Segment{
					label("..उम्र"),
					value(rec, declaration.FieldAge, 40),
					label("वर्ष"),
					value(rec, declaration.FieldYear, 50),
					label("व्यवसाय"),
					value(rec, declaration.FieldOccupation, 140),
					label("निवासी"),
					value(rec, declaration.FieldAddress, 160),
				},
			},
			{
				Segments: []Segment{
					blank(300),
					label("प्रमाणित करते हुये घोषणा करता / करती हूँ"),
				},
			},
		},
		Paragraph: bodyText,
		Left: []Line{
			{Segments: []Segment{label("स्थान"), value(rec, declaration.FieldPlace, 150)}},
			{Segments: []Segment{label("दिनॉक"), value(rec, declaration.FieldDate, 150)}},
		},
		Right: []Line{
			{Segments: []Segment{label("आवेदक / आवेदिका के हस्ताक्षर"), blank(100)}},
			{Segments: []Segment{
				label("आवेदक / आवेदिका का नाम"),
				valueWidth(rec, declaration.FieldApplicantName, declaration.SignatureNameDots, 100),
			}},
		},
	}
}

// Empty reports whether d carries nothing to render.
func (d *Document) Empty() bool {
	return d == nil || (d.Title == "" && len(d.Body) == 0 && d.Paragraph == "" && len(d.Left) == 0 && len(d.Right) == 0)
}

// Lines returns every line in reading order, footer columns last.
func (d *Document) Lines() []Line {
	out := make([]Line, 0, len(d.Body)+len(d.Left)+len(d.Right))
	out = append(out, d.Body...)
	out = append(out, d.Left...)
	return append(out, d.Right...)
}

func label(s string) Segment {
	return Segment{Kind: Label, Text: s}
}

func blank(width float64) Segment {
	return Segment{Kind: Blank, MinWidth: width}
}

func value(rec declaration.Record, f declaration.Field, minWidth float64) Segment {
	return valueWidth(rec, f, declaration.MinDots(f), minWidth)
}

func valueWidth(rec declaration.Record, f declaration.Field, dots int, minWidth float64) Segment {
	s := Segment{
		Kind:  Value,
		Text:  rec.DisplayWidth(f, dots),
		Field: f,
	}
	if f == declaration.FieldDate {
		_, ok := declaration.ParseDate(rec.Date)
		s.Placeholder = !ok
		// the date cell keeps its minimum width even when filled
		s.MinWidth = minWidth
		return s
	}
	if !rec.IsSet(f) {
		s.Placeholder = true
		s.MinWidth = minWidth
	}
	return s
}
