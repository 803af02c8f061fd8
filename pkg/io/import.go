package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/ghoshnapatra/ghoshna/pkg/declaration"
	"github.com/ghoshnapatra/ghoshna/pkg/errors"
)

// Format is a record file encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatTOML Format = "toml"
)

// FormatFromPath picks a format from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".toml":
		return FormatTOML, nil
	default:
		return "", errors.New(errors.ErrCodeUnsupported, "unsupported record file %q (want .json or .toml)", filepath.Base(path))
	}
}

// ReadRecord decodes a record from r. Unknown keys are rejected so a typo
// does not silently leave a field empty.
func ReadRecord(r io.Reader, format Format) (declaration.Record, error) {
	var rec declaration.Record
	switch format {
	case FormatJSON:
		dec := json.NewDecoder(r)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&rec); err != nil {
			return rec, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode json record")
		}
	case FormatTOML:
		md, err := toml.NewDecoder(r).Decode(&rec)
		if err != nil {
			return rec, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode toml record")
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return rec, errors.New(errors.ErrCodeInvalidInput, "unknown record key %q", undecoded[0].String())
		}
	default:
		return rec, errors.New(errors.ErrCodeUnsupported, "unsupported record format %q", format)
	}
	return rec, nil
}

// ImportRecord reads a record file at path.
func ImportRecord(path string) (declaration.Record, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return declaration.Record{}, err
	}
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return declaration.Record{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "record file %s", path)
		}
		return declaration.Record{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadRecord(f, format)
}

// WriteRecord encodes rec as TOML.
func WriteRecord(w io.Writer, rec declaration.Record) error {
	if err := toml.NewEncoder(w).Encode(rec); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}
