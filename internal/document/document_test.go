package document

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeFixture(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}

func TestOpenTextSplitsOnFormFeed(t *testing.T) {
	path := writeFixture(t, "report.txt", "first page\fsecond page\fthird page")

	h, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer h.Close()

	if got := h.PageCount(); got != 3 {
		t.Fatalf("page count = %d, want 3", got)
	}
	page, err := h.Page(1)
	if err != nil {
		t.Fatalf("page 1: %v", err)
	}
	if page != "second page" {
		t.Fatalf("page 1 = %q, want %q", page, "second page")
	}
	if got := h.Generation(); got != 1 {
		t.Fatalf("generation = %d, want 1", got)
	}
}

func TestOpenTextWithoutSeparatorIsOnePage(t *testing.T) {
	path := writeFixture(t, "plain.txt", "just one page of text\n")

	h, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer h.Close()

	if got := h.PageCount(); got != 1 {
		t.Fatalf("page count = %d, want 1", got)
	}
}

func TestOpenEmptyFileHasNoPages(t *testing.T) {
	path := writeFixture(t, "empty.txt", "")

	h, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer h.Close()

	if got := h.PageCount(); got != 0 {
		t.Fatalf("page count = %d, want 0", got)
	}
}

func TestSplitPages(t *testing.T) {
	cases := []struct {
		name    string
		content string
		want    int
	}{
		{"empty", "", 0},
		{"single", "alpha", 1},
		{"two", "alpha\fbeta", 2},
		{"trailing separator", "alpha\fbeta\f", 2},
		{"trailing separator with newline", "alpha\fbeta\f\n", 2},
		{"blank middle page survives", "alpha\f\fbeta", 3},
		{"lone separator", "\f", 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := len(splitPages(tc.content)); got != tc.want {
				t.Fatalf("splitPages(%q) yielded %d pages, want %d", tc.content, got, tc.want)
			}
		})
	}
}

func TestPageOutOfRange(t *testing.T) {
	path := writeFixture(t, "short.txt", "one\ftwo")

	h, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer h.Close()

	for _, index := range []int{-1, 2, 10} {
		_, err := h.Page(index)
		var rangeErr *PageRangeError
		if !errors.As(err, &rangeErr) {
			t.Fatalf("Page(%d) err = %v, want PageRangeError", index, err)
		}
		if rangeErr.Index != index || rangeErr.Count != 2 {
			t.Fatalf("Page(%d) range error = %+v", index, rangeErr)
		}
	}
}

func TestOpenMissingPath(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "nope.txt"))

	var openErr *OpenError
	if !errors.As(err, &openErr) {
		t.Fatalf("err = %v, want OpenError", err)
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("err = %v, want wrapped os.ErrNotExist", err)
	}
}

func TestOpenRejectsInvalidPDF(t *testing.T) {
	path := writeFixture(t, "broken.pdf", "this is not a pdf document\n")

	_, err := Open(path)
	var openErr *OpenError
	if !errors.As(err, &openErr) {
		t.Fatalf("err = %v, want OpenError", err)
	}
}

func TestOpenRoutesUppercaseExtension(t *testing.T) {
	path := writeFixture(t, "broken.PDF", "still not a pdf\n")

	if _, err := Open(path); err == nil {
		t.Fatal("expected parse failure for garbage .PDF file")
	}
}

func TestReopenReplacesDocument(t *testing.T) {
	path := writeFixture(t, "doc.txt", "alpha\fbeta")

	h, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer h.Close()
	old := h.Document()

	if err := os.WriteFile(path, []byte("rewritten"), 0o644); err != nil {
		t.Fatalf("rewrite: %v", err)
	}
	if err := h.Reopen(); err != nil {
		t.Fatalf("reopen: %v", err)
	}

	if got := h.Generation(); got != 2 {
		t.Fatalf("generation = %d, want 2", got)
	}
	if got := h.PageCount(); got != 1 {
		t.Fatalf("page count = %d, want 1", got)
	}

	// The superseded document is a frozen snapshot of the prior generation.
	if got := old.PageCount(); got != 2 {
		t.Fatalf("old generation page count = %d, want 2", got)
	}
	if page, err := old.Page(0); err != nil || page != "alpha" {
		t.Fatalf("old generation page 0 = %q, %v", page, err)
	}
}

func TestReopenFailureLeavesHandleIntact(t *testing.T) {
	path := writeFixture(t, "doc.txt", "alpha\fbeta")

	h, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer h.Close()

	if err := os.Remove(path); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if err := h.Reopen(); err == nil {
		t.Fatal("expected reopen failure for missing file")
	}

	if got := h.Generation(); got != 1 {
		t.Fatalf("generation after failed reopen = %d, want 1", got)
	}
	if got := h.PageCount(); got != 2 {
		t.Fatalf("page count after failed reopen = %d, want 2", got)
	}
	if page, err := h.Page(1); err != nil || page != "beta" {
		t.Fatalf("page 1 after failed reopen = %q, %v", page, err)
	}
}
