package document

import "fmt"

// OpenError reports a path that could not be opened or parsed as a
// supported document. During a reload it is transient: the previous
// generation stays live and the caller retries on the next change signal.
type OpenError struct {
	Path string
	Err  error
}

func (e *OpenError) Error() string {
	return fmt.Sprintf("open document %s: %v", e.Path, e.Err)
}

func (e *OpenError) Unwrap() error { return e.Err }

// PageRangeError reports a page request outside [0, Count). Navigation
// clamps before reading, so hitting this indicates a caller bug.
type PageRangeError struct {
	Index int
	Count int
}

func (e *PageRangeError) Error() string {
	return fmt.Sprintf("page %d out of range [0, %d)", e.Index, e.Count)
}
