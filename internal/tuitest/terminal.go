package tuitest

import (
	"bytes"
	"io"
)

// terminalQueries maps the capability queries bubbletea and lipgloss
// send on startup to canned replies. Without these the program blocks
// waiting on a real terminal.
var terminalQueries = []struct {
	query []byte
	reply []byte
}{
	{[]byte("\x1b[6n"), []byte("\x1b[1;1R")},
	{[]byte("\x1b]10;?\x07"), []byte("\x1b]10;rgb:cccc/cccc/cccc\x07")},
	{[]byte("\x1b]10;?\x1b\\"), []byte("\x1b]10;rgb:cccc/cccc/cccc\x1b\\")},
	{[]byte("\x1b]11;?\x07"), []byte("\x1b]11;rgb:0000/0000/0000\x07")},
	{[]byte("\x1b]11;?\x1b\\"), []byte("\x1b]11;rgb:0000/0000/0000\x1b\\")},
}

// queryResponder watches the program's output stream for terminal
// queries and writes the matching replies back to the PTY.
type queryResponder struct {
	pty io.Writer
	buf []byte
}

func newQueryResponder(pty io.Writer) *queryResponder {
	return &queryResponder{pty: pty, buf: make([]byte, 0, 128)}
}

// Process scans a chunk of program output for queries. A query can be
// split across reads, so unmatched bytes stay buffered.
func (qr *queryResponder) Process(chunk []byte) {
	qr.buf = append(qr.buf, chunk...)
	for {
		matched := false
		for _, q := range terminalQueries {
			idx := bytes.Index(qr.buf, q.query)
			if idx < 0 {
				continue
			}
			_, _ = qr.pty.Write(q.reply)
			qr.buf = append(qr.buf[:idx], qr.buf[idx+len(q.query):]...)
			matched = true
		}
		if !matched {
			break
		}
	}
	// Keep a small tail; queries are short and older bytes are ordinary
	// program output.
	if len(qr.buf) > 256 {
		qr.buf = qr.buf[len(qr.buf)-64:]
	}
}
