// Package declaration defines the self-declaration record rendered by the
// export pipeline.
//
// A [Record] is a flat set of named text fields. Every value is treated as a
// trimmed string; an empty value means "unset" and is rendered as a dotted
// placeholder so the document keeps its layout. The pipeline only reads
// records and never stores them.
//
// # Usage
//
//	rec := declaration.Record{
//	    ApplicantName: "Ram Kumar",
//	    Date:          "2025-01-26",
//	}
//	rec = rec.Normalize()
//	fmt.Println(rec.ReferenceDate()) // 26/01/2025
package declaration

import (
	"strings"
	"time"
)

// Field identifies one named value of a Record.
type Field string

// Record fields in document order.
const (
	FieldApplicantName Field = "applicant_name"
	FieldFatherName    Field = "father_name"
	FieldAge           Field = "age"
	FieldYear          Field = "year"
	FieldOccupation    Field = "occupation"
	FieldAddress       Field = "address"
	FieldPlace         Field = "place"
	FieldDate          Field = "date"
)

// Fields lists every Record field in document order.
var Fields = []Field{
	FieldApplicantName,
	FieldFatherName,
	FieldAge,
	FieldYear,
	FieldOccupation,
	FieldAddress,
	FieldPlace,
	FieldDate,
}

// labels holds the Hindi form labels shown to users.
var labels = map[Field]string{
	FieldApplicantName: "आवेदक का नाम",
	FieldFatherName:    "पिता का नाम",
	FieldAge:           "उम्र",
	FieldYear:          "वर्ष",
	FieldOccupation:    "व्यवसाय",
	FieldAddress:       "निवासी",
	FieldPlace:         "स्थान",
	FieldDate:          "दिनांक",
}

// Label returns the user-facing label of f.
func (f Field) Label() string {
	if l, ok := labels[f]; ok {
		return l
	}
	return string(f)
}

// Record holds the field values of one declaration.
type Record struct {
	ApplicantName string `json:"applicant_name" toml:"applicant_name"`
	FatherName    string `json:"father_name" toml:"father_name"`
	Age           string `json:"age" toml:"age"`
	Year          string `json:"year" toml:"year"`
	Occupation    string `json:"occupation" toml:"occupation"`
	Address       string `json:"address" toml:"address"`
	Place         string `json:"place" toml:"place"`
	Date          string `json:"date" toml:"date"`
}

// Get returns the value of f. Unknown fields return "".
func (r Record) Get(f Field) string {
	switch f {
	case FieldApplicantName:
		return r.ApplicantName
	case FieldFatherName:
		return r.FatherName
	case FieldAge:
		return r.Age
	case FieldYear:
		return r.Year
	case FieldOccupation:
		return r.Occupation
	case FieldAddress:
		return r.Address
	case FieldPlace:
		return r.Place
	case FieldDate:
		return r.Date
	}
	return ""
}

// Set assigns value to f and reports whether f is a known field.
func (r *Record) Set(f Field, value string) bool {
	switch f {
	case FieldApplicantName:
		r.ApplicantName = value
	case FieldFatherName:
		r.FatherName = value
	case FieldAge:
		r.Age = value
	case FieldYear:
		r.Year = value
	case FieldOccupation:
		r.Occupation = value
	case FieldAddress:
		r.Address = value
	case FieldPlace:
		r.Place = value
	case FieldDate:
		r.Date = value
	default:
		return false
	}
	return true
}

// Normalize returns a copy of r with every field trimmed.
// The receiver is left untouched.
func (r Record) Normalize() Record {
	out := r
	for _, f := range Fields {
		out.Set(f, strings.TrimSpace(r.Get(f)))
	}
	return out
}

// IsSet reports whether f has a non-blank value.
func (r Record) IsSet(f Field) bool {
	return strings.TrimSpace(r.Get(f)) != ""
}

// Missing returns the fields that are blank, in document order.
func (r Record) Missing() []Field {
	var missing []Field
	for _, f := range Fields {
		if !r.IsSet(f) {
			missing = append(missing, f)
		}
	}
	return missing
}

// Today returns the local date in the form the date field expects (YYYY-MM-DD).
func Today(now time.Time) string {
	return now.Format(time.DateOnly)
}
