package io

import (
	stderrors "errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/ghoshnapatra/ghoshna/pkg/compress"
	"github.com/ghoshnapatra/ghoshna/pkg/errors"
)

// File naming.
const (
	FilePrefix   = "Ghoshna_Patra_"
	FileExt      = ".jpg"
	FallbackName = "Document"
	MIMEType     = "image/jpeg"
)

// maxCollisions bounds the _N suffix search.
const maxCollisions = 1000

// Artifact is an encoded export ready to be saved.
type Artifact struct {
	Name     string
	MIMEType string
	Data     []byte
	Quality  float64
	InWindow bool
}

// Size returns the artifact size in bytes.
func (a *Artifact) Size() int { return len(a.Data) }

// SanitizeName trims name and collapses whitespace runs into underscores.
// Whitespace is any Unicode space, including NBSP, \v and U+3000.
// An empty result becomes FallbackName.
func SanitizeName(name string) string {
	s := strings.Join(strings.FieldsFunc(name, unicode.IsSpace), "_")
	if s == "" {
		return FallbackName
	}
	// Keep the name a single path element.
	return strings.NewReplacer("/", "_", "\\", "_").Replace(s)
}

// FileName returns the artifact file name for an applicant.
func FileName(applicant string) string {
	return FilePrefix + SanitizeName(applicant) + FileExt
}

// Package wraps a compression result as an artifact for applicant.
func Package(applicant string, res *compress.Result) (*Artifact, error) {
	if res == nil || len(res.Data) == 0 {
		return nil, errors.New(errors.ErrCodeEncodingFailed, "no encoded data to package")
	}
	return &Artifact{
		Name:     FileName(applicant),
		MIMEType: MIMEType,
		Data:     res.Data,
		Quality:  res.Quality,
		InWindow: res.InWindow,
	}, nil
}

// SaveOptions controls how Save publishes a file.
type SaveOptions struct {
	// Overwrite replaces an existing file instead of picking a new name.
	Overwrite bool
	// Perm is the file mode of the published file. Defaults to 0644.
	Perm fs.FileMode
}

// WriteTo streams the artifact bytes to w.
func WriteTo(w io.Writer, a *Artifact) (int64, error) {
	n, err := w.Write(a.Data)
	if err != nil {
		return int64(n), fmt.Errorf("write %s: %w", a.Name, err)
	}
	return int64(n), nil
}

// Save writes a into dir and returns the path it was published at.
func Save(dir string, a *Artifact, opts SaveOptions) (path string, err error) {
	if a == nil || len(a.Data) == 0 {
		return "", errors.New(errors.ErrCodeEncodingFailed, "no artifact to save")
	}
	if err := errors.ValidateFileName(a.Name); err != nil {
		return "", err
	}
	if opts.Perm == 0 {
		opts.Perm = 0o644
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", errors.Wrap(errors.ErrCodeInvalidPath, err, "create %s", dir)
	}

	tmp, err := os.CreateTemp(dir, ".ghoshna-*.tmp")
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInvalidPath, err, "create temp file in %s", dir)
	}
	// The temp file is the transient handle: it is closed and removed on
	// every path. After a successful publish the name is already gone.
	defer func() {
		tmp.Close()
		os.Remove(tmp.Name())
	}()

	if _, err := tmp.Write(a.Data); err != nil {
		return "", fmt.Errorf("write %s: %w", tmp.Name(), err)
	}
	if err := tmp.Chmod(opts.Perm); err != nil {
		return "", fmt.Errorf("chmod %s: %w", tmp.Name(), err)
	}
	if err := tmp.Sync(); err != nil {
		return "", fmt.Errorf("sync %s: %w", tmp.Name(), err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("close %s: %w", tmp.Name(), err)
	}

	if opts.Overwrite {
		path = filepath.Join(dir, a.Name)
		if err := os.Rename(tmp.Name(), path); err != nil {
			return "", fmt.Errorf("publish %s: %w", path, err)
		}
		return path, nil
	}
	return publish(tmp.Name(), dir, a.Name)
}

// CandidateName returns the n-th name tried for name: name itself for n <= 1,
// then base_n.ext.
func CandidateName(name string, n int) string {
	if n <= 1 {
		return name
	}
	ext := filepath.Ext(name)
	return fmt.Sprintf("%s_%d%s", strings.TrimSuffix(name, ext), n, ext)
}

// publish moves tmp to the first free candidate name in dir without
// replacing an existing file.
func publish(tmp, dir, name string) (string, error) {
	for n := 1; n <= maxCollisions; n++ {
		path := filepath.Join(dir, CandidateName(name, n))

		// A hard link fails if path exists, which makes the check and the
		// publish a single step.
		err := os.Link(tmp, path)
		if err == nil {
			return path, nil
		}
		if stderrors.Is(err, fs.ErrExist) {
			continue
		}

		// Filesystems without hard links: check, then rename.
		if _, statErr := os.Lstat(path); statErr == nil {
			continue
		}
		if err := os.Rename(tmp, path); err != nil {
			return "", fmt.Errorf("publish %s: %w", path, err)
		}
		return path, nil
	}
	return "", errors.New(errors.ErrCodeInvalidPath, "no free file name for %s in %s", name, dir)
}
