// Package render turns raw extracted page text into display-ready
// artifacts. Output is normalized but width-independent; wrapping to
// the terminal happens at draw time.
package render

import (
	"fmt"
	"strings"

	"github.com/mveigas/quire/internal/pager"
)

const (
	tabWidth    = 4
	maxBlankRun = 2
)

// Renderer normalizes page text. It implements pager.Renderer.
type Renderer struct{}

// New returns a Renderer.
func New() *Renderer { return &Renderer{} }

// Render normalizes raw into an artifact for page index. Pages with no
// extractable text render as a placeholder so the viewer never shows a
// blank screen for a real page.
func (r *Renderer) Render(index int, raw string) pager.Artifact {
	text := normalize(raw)
	if text == "" {
		text = fmt.Sprintf("(page %d has no extractable text)", index+1)
	}
	return pager.Artifact{Index: index, Text: text}
}

func normalize(raw string) string {
	raw = strings.ReplaceAll(raw, "\r\n", "\n")
	raw = strings.ReplaceAll(raw, "\r", "\n")
	raw = strings.ReplaceAll(raw, "\t", strings.Repeat(" ", tabWidth))

	lines := strings.Split(raw, "\n")
	out := make([]string, 0, len(lines))
	blanks := 0
	for _, line := range lines {
		line = strings.TrimRight(line, " ")
		if line == "" {
			blanks++
			if blanks > maxBlankRun {
				continue
			}
		} else {
			blanks = 0
		}
		out = append(out, line)
	}
	return strings.Trim(strings.Join(out, "\n"), "\n")
}
