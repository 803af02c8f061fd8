package render

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/ghoshnapatra/ghoshna/pkg/document"
	"github.com/ghoshnapatra/ghoshna/pkg/errors"
)

// MarkupFile is the name of the markup snapshot inside a target's scratch
// directory.
const MarkupFile = "index.html"

// Target is a detached render surface for one export.
//
// A Target is owned by exactly one export and must be closed on every exit
// path. Close is idempotent.
type Target struct {
	doc    *document.Document
	page   document.Page
	markup []byte

	busy sync.Mutex // held for the duration of a Rasterize call

	mu     sync.Mutex
	dir    string
	closed bool
}

// NewTarget builds a render target for doc laid out on page.
// It fails with CONTENT_UNAVAILABLE before allocating anything when doc is
// missing or empty.
func NewTarget(doc *document.Document, page document.Page) (*Target, error) {
	if doc.Empty() {
		return nil, errors.New(errors.ErrCodeContentUnavailable, "document has no content")
	}
	if page.Width <= 0 || page.Height <= 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "invalid page size %dx%d", page.Width, page.Height)
	}

	// Render against the target's page, not whatever the document carried.
	snapshot := *doc
	snapshot.Page = page

	markup, err := document.Markup(&snapshot)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeContentUnavailable, err, "build markup")
	}
	return &Target{
		doc:    &snapshot,
		page:   page,
		markup: markup,
	}, nil
}

// Document returns the document snapshot the target renders.
func (t *Target) Document() *document.Document { return t.doc }

// Page returns the page geometry.
func (t *Target) Page() document.Page { return t.page }

// Markup returns the HTML snapshot of the document.
func (t *Target) Markup() []byte { return t.markup }

// Dir returns the target's private scratch directory, creating it on first
// use.
func (t *Target) Dir() (string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return "", errors.New(errors.ErrCodeContentUnavailable, "render target is closed")
	}
	if t.dir != "" {
		return t.dir, nil
	}
	dir, err := os.MkdirTemp("", "ghoshna-target-*")
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal, err, "create scratch directory")
	}
	t.dir = dir
	return dir, nil
}

// WriteMarkup writes the markup snapshot into the scratch directory and
// returns its path.
func (t *Target) WriteMarkup() (string, error) {
	dir, err := t.Dir()
	if err != nil {
		return "", err
	}
	path := filepath.Join(dir, MarkupFile)
	if err := os.WriteFile(path, t.markup, 0o600); err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal, err, "write markup")
	}
	return path, nil
}

// Closed reports whether Close has been called.
func (t *Target) Closed() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.closed
}

// Close releases the target and removes its scratch directory.
// Calling Close more than once is a no-op.
func (t *Target) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return nil
	}
	t.closed = true
	if t.dir == "" {
		return nil
	}
	dir := t.dir
	t.dir = ""
	return os.RemoveAll(dir)
}
