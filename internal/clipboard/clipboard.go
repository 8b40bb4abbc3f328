// Package clipboard keeps an in-process copy buffer for elements.
package clipboard

import (
	"fmt"

	"github.com/inamate/canvas/internal/document"
)

// PasteOffset is the distance, per paste, between a pasted copy and its source.
const PasteOffset = 20.0

// Clipboard holds deep copies of copied elements and the paste counter.
// The zero value is an empty clipboard.
type Clipboard struct {
	buffer []document.Element
	count  int
}

// Copy replaces the buffer with deep copies of els and resets the paste
// counter. An empty input leaves the clipboard untouched.
func (c *Clipboard) Copy(els []document.Element) {
	if len(els) == 0 {
		return
	}
	c.buffer = document.CloneElements(els)
	c.count = 1
}

// Paste returns fresh copies of the buffer, each with new IDs, a " copy"
// name suffix and an offset that grows with every paste since the last
// Copy. It returns nil when the buffer is empty.
func (c *Clipboard) Paste() []document.Element {
	if c.Empty() {
		return nil
	}
	offset := PasteOffset * float64(c.count)
	out := make([]document.Element, len(c.buffer))
	for i, el := range c.buffer {
		p := document.Reidentify(el)
		p.Name = fmt.Sprintf("%s copy", el.Name)
		p.X += offset
		p.Y += offset
		out[i] = p
	}
	c.count++
	return out
}

// Len returns the number of buffered elements.
func (c *Clipboard) Len() int {
	return len(c.buffer)
}

// Empty reports whether there is nothing to paste.
func (c *Clipboard) Empty() bool {
	return len(c.buffer) == 0
}
