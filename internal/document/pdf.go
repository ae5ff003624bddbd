package document

import (
	"fmt"
	"os"

	"github.com/ledongthuc/pdf"
)

// pdfDocument extracts page text lazily; the reader keeps the file open
// for the lifetime of the generation.
type pdfDocument struct {
	file   *os.File
	reader *pdf.Reader
	count  int
}

// openPDF parses the file at path. The pdf library panics on some
// malformed inputs, and a half-written file mid-rebuild is exactly that
// case; recovered panics become OpenErrors so reloads stay retryable.
func openPDF(path string) (doc Document, err error) {
	defer func() {
		if r := recover(); r != nil {
			doc = nil
			err = &OpenError{Path: path, Err: fmt.Errorf("malformed pdf: %v", r)}
		}
	}()

	file, reader, err := pdf.Open(path)
	if err != nil {
		return nil, &OpenError{Path: path, Err: err}
	}
	return &pdfDocument{file: file, reader: reader, count: reader.NumPage()}, nil
}

func (d *pdfDocument) PageCount() int { return d.count }

func (d *pdfDocument) Page(index int) (text string, err error) {
	if index < 0 || index >= d.count {
		return "", &PageRangeError{Index: index, Count: d.count}
	}
	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = fmt.Errorf("extract pdf page %d: %v", index+1, r)
		}
	}()

	page := d.reader.Page(index + 1) // library pages are 1-based
	if page.V.IsNull() {
		return "", nil
	}
	text, err = page.GetPlainText(nil)
	if err != nil {
		return "", fmt.Errorf("extract pdf page %d: %w", index+1, err)
	}
	return text, nil
}

func (d *pdfDocument) Close() error { return d.file.Close() }
