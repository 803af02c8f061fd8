package declaration

import (
	"strings"
	"time"
)

// PlaceholderRune fills unset fields.
const PlaceholderRune = '.'

// Minimum placeholder widths, in dots, per field.
var minDots = map[Field]int{
	FieldApplicantName: 45,
	FieldFatherName:    35,
	FieldAge:           6,
	FieldYear:          8,
	FieldOccupation:    22,
	FieldAddress:       25,
	FieldPlace:         24,
	FieldDate:          24,
}

// SignatureNameDots is the placeholder width of the applicant name repeated
// under the signature line.
const SignatureNameDots = 16

// MinDots returns the placeholder width of f.
func MinDots(f Field) int {
	if n, ok := minDots[f]; ok {
		return n
	}
	return 20
}

// Placeholder returns the dotted blank of the given width.
func Placeholder(dots int) string {
	if dots <= 0 {
		return ""
	}
	return strings.Repeat(string(PlaceholderRune), dots)
}

// Display returns the trimmed value of f, or its placeholder when unset.
func (r Record) Display(f Field) string {
	return r.DisplayWidth(f, MinDots(f))
}

// DisplayWidth is like Display with an explicit placeholder width.
func (r Record) DisplayWidth(f Field, dots int) string {
	if f == FieldDate {
		if d, ok := r.referenceDate(); ok {
			return d
		}
		return Placeholder(dots)
	}
	if v := strings.TrimSpace(r.Get(f)); v != "" {
		return v
	}
	return Placeholder(dots)
}

// dateLayouts are the accepted input layouts of the date field.
var dateLayouts = []string{
	time.DateOnly,
	"02/01/2006",
	"02-01-2006",
	time.RFC3339,
}

// ReferenceDate formats the date field as DD/MM/YYYY.
// An unset or unparseable date yields the date placeholder.
func (r Record) ReferenceDate() string {
	if d, ok := r.referenceDate(); ok {
		return d
	}
	return Placeholder(MinDots(FieldDate))
}

func (r Record) referenceDate() (string, bool) {
	t, ok := ParseDate(r.Date)
	if !ok {
		return "", false
	}
	return t.Format("02/01/2006"), true
}

// ParseDate parses a date field value in any accepted layout.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
