package pager

// Cursor tracks the selected page within a document of Total pages.
// Cursors are immutable values; every operation returns the adjusted
// copy and the zero value is an empty document.
type Cursor struct {
	Current int
	Total   int
}

// NewCursor starts at the first page of a document with total pages.
func NewCursor(total int) Cursor {
	if total < 0 {
		total = 0
	}
	return Cursor{Total: total}
}

// Next advances one page, stopping at the final page.
func (c Cursor) Next() Cursor {
	if c.Total == 0 {
		return c
	}
	if c.Current < c.Total-1 {
		c.Current++
	}
	return c
}

// Previous steps back one page, stopping at the first page.
func (c Cursor) Previous() Cursor {
	if c.Total == 0 {
		return c
	}
	if c.Current > 0 {
		c.Current--
	}
	return c
}

// Start jumps to the first page.
func (c Cursor) Start() Cursor {
	c.Current = 0
	return c
}

// End jumps to the final page.
func (c Cursor) End() Cursor {
	if c.Total == 0 {
		return c
	}
	c.Current = c.Total - 1
	return c
}

// Goto selects page index. An out-of-range index leaves the cursor
// unchanged.
func (c Cursor) Goto(index int) Cursor {
	if index < 0 || index >= c.Total {
		return c
	}
	c.Current = index
	return c
}

// Resize adopts a new page count, clamping Current onto the final page
// when the document shrank past it.
func (c Cursor) Resize(total int) Cursor {
	if total < 0 {
		total = 0
	}
	c.Total = total
	if total == 0 {
		c.Current = 0
		return c
	}
	if c.Current >= total {
		c.Current = total - 1
	}
	return c
}

// IsFirst reports whether the cursor sits on the first page.
func (c Cursor) IsFirst() bool { return c.Current == 0 }

// IsLast reports whether the cursor sits on the final page. An empty
// document is both first and last.
func (c Cursor) IsLast() bool { return c.Total == 0 || c.Current == c.Total-1 }

// Empty reports whether the document has no pages.
func (c Cursor) Empty() bool { return c.Total == 0 }
