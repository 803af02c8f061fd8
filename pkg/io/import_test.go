package io

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ghoshnapatra/ghoshna/pkg/declaration"
	"github.com/ghoshnapatra/ghoshna/pkg/errors"
)

var sample = declaration.Record{
	ApplicantName: "Ram Kumar",
	FatherName:    "Shyam Lal",
	Age:           "34",
	Year:          "2025",
	Occupation:    "Farmer",
	Address:       "Lucknow",
	Place:         "Lucknow",
	Date:          "2025-01-26",
}

func TestReadRecordJSON(t *testing.T) {
	in := `{"applicant_name":"Ram Kumar","father_name":"Shyam Lal","age":"34","year":"2025",
"occupation":"Farmer","address":"Lucknow","place":"Lucknow","date":"2025-01-26"}`
	got, err := ReadRecord(strings.NewReader(in), FormatJSON)
	if err != nil {
		t.Fatalf("ReadRecord: %v", err)
	}
	if diff := cmp.Diff(sample, got); diff != "" {
		t.Errorf("record mismatch (-want +got):\n%s", diff)
	}
}

func TestReadRecordRejectsUnknownKeys(t *testing.T) {
	tests := []struct {
		name   string
		in     string
		format Format
	}{
		{"json", `{"applicant":"Ram"}`, FormatJSON},
		{"toml", `applicant = "Ram"`, FormatTOML},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadRecord(strings.NewReader(tt.in), tt.format)
			if !errors.Is(err, errors.ErrCodeInvalidInput) {
				t.Errorf("ReadRecord() error = %v, want INVALID_INPUT", err)
			}
		})
	}
}

func TestWriteRecordTOMLRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteRecord(&buf, sample); err != nil {
		t.Fatalf("WriteRecord: %v", err)
	}
	got, err := ReadRecord(&buf, FormatTOML)
	if err != nil {
		t.Fatalf("ReadRecord: %v", err)
	}
	if diff := cmp.Diff(sample, got); diff != "" {
		t.Errorf("record mismatch (-want +got):\n%s", diff)
	}
}

func TestImportRecord(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "record.toml")
	var buf bytes.Buffer
	if err := WriteRecord(&buf, sample); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := ImportRecord(path)
	if err != nil {
		t.Fatalf("ImportRecord: %v", err)
	}
	if diff := cmp.Diff(sample, got); diff != "" {
		t.Errorf("record mismatch (-want +got):\n%s", diff)
	}

	if _, err := ImportRecord(filepath.Join(dir, "missing.json")); !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("missing file error = %v, want FILE_NOT_FOUND", err)
	}
	if _, err := ImportRecord(filepath.Join(dir, "record.yaml")); !errors.Is(err, errors.ErrCodeUnsupported) {
		t.Errorf("yaml error = %v, want UNSUPPORTED", err)
	}
}
