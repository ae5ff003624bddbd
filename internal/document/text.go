package document

import (
	"os"
	"strings"
)

// textDocument holds a plain-text file paginated on form feeds. The whole
// file is read at open, so old generations stay readable after a reload.
type textDocument struct {
	pages []string
}

func openText(path string) (Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &OpenError{Path: path, Err: err}
	}
	return &textDocument{pages: splitPages(string(data))}, nil
}

// splitPages treats form feed as a page separator, the way pr and less
// do. A trailing separator does not open an empty final page.
func splitPages(content string) []string {
	if content == "" {
		return nil
	}
	pages := strings.Split(content, "\f")
	if n := len(pages); n > 1 && strings.TrimSpace(pages[n-1]) == "" {
		pages = pages[:n-1]
	}
	return pages
}

func (d *textDocument) PageCount() int { return len(d.pages) }

func (d *textDocument) Page(index int) (string, error) {
	if index < 0 || index >= len(d.pages) {
		return "", &PageRangeError{Index: index, Count: len(d.pages)}
	}
	return d.pages[index], nil
}

func (d *textDocument) Close() error { return nil }
