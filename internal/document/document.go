// Package document opens paginated documents and tracks their identity
// across reloads. A Handle owns one parsed generation of a file at a time
// and replaces it wholesale when the file changes on disk.
package document

import (
	"path/filepath"
	"strings"
)

// A Document is one immutable parsed generation of a file. Implementations
// never mutate after construction; a reload produces a fresh Document.
type Document interface {
	// PageCount reports the number of addressable pages. Zero is valid.
	PageCount() int
	// Page returns the raw text of the page at index, which must be in
	// [0, PageCount()).
	Page(index int) (string, error)
	// Close releases any resources backing the document.
	Close() error
}

// Handle owns the currently open Document for a path. It is not safe for
// concurrent use; callers serialize access around it.
type Handle struct {
	path string
	doc  Document
	gen  uint64
}

// Open parses the file at path and returns a handle at generation 1.
func Open(path string) (*Handle, error) {
	doc, err := openPath(path)
	if err != nil {
		return nil, err
	}
	return &Handle{path: path, doc: doc, gen: 1}, nil
}

func openPath(path string) (Document, error) {
	if strings.EqualFold(filepath.Ext(path), ".pdf") {
		return openPDF(path)
	}
	return openText(path)
}

// Reopen re-reads the path and swaps in the freshly parsed document. The
// swap happens only after the new document parses; a failed reopen leaves
// the handle untouched so the caller can retry later.
func (h *Handle) Reopen() error {
	doc, err := openPath(h.path)
	if err != nil {
		return err
	}
	old := h.doc
	h.doc = doc
	h.gen++
	if old != nil {
		old.Close()
	}
	return nil
}

// Document returns the current generation's document.
func (h *Handle) Document() Document { return h.doc }

// Generation identifies the current document instance. It starts at 1 and
// increments on every successful Reopen, never on failure.
func (h *Handle) Generation() uint64 { return h.gen }

func (h *Handle) Path() string { return h.path }

func (h *Handle) PageCount() int { return h.doc.PageCount() }

func (h *Handle) Page(index int) (string, error) { return h.doc.Page(index) }

func (h *Handle) Close() error { return h.doc.Close() }
