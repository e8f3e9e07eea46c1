package markup

import (
	"io"

	"github.com/charmbracelet/log"
)

// Builder turns begin/end/text events from a markup-specific front end into a
// content tree. The front end decides what counts as an element; the Builder
// only maintains the open-element stack.
type Builder struct {
	doc    *Document
	stack  []NodeID
	logger *log.Logger
}

// NewBuilder creates a Builder appending into doc.
func NewBuilder(doc *Document, logger *log.Logger) *Builder {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Builder{doc: doc, logger: logger}
}

// BeginElement opens an element. The first element becomes the document root
// when Finish is called.
func (b *Builder) BeginElement(name string, attrs map[string]string) {
	id := b.doc.tree.NewElement(name, attrs)
	if len(b.stack) > 0 {
		b.doc.tree.Append(b.stack[len(b.stack)-1], id)
	} else if b.doc.root == NoNode {
		b.doc.root = id
	} else {
		// A second top-level element: tolerate it by appending to the root.
		b.logger.Warn("extra top-level element appended to root", "name", name)
		b.doc.tree.Append(b.doc.root, id)
	}
	b.stack = append(b.stack, id)
}

// EndElement closes the innermost open element with the given name. Stray end
// events are dropped with a warning; unclosed children are closed implicitly.
func (b *Builder) EndElement(name string) {
	for i := len(b.stack) - 1; i >= 0; i-- {
		if b.doc.tree.nodes[b.stack[i]].tag == name {
			b.stack = b.stack[:i]
			return
		}
	}
	b.logger.Warn("ignoring end event with no open element", "name", name)
}

// Text appends a text node to the innermost open element. Text outside any
// element is dropped.
func (b *Builder) Text(content string) {
	if content == "" {
		return
	}
	if len(b.stack) == 0 {
		b.logger.Warn("dropping text outside any element")
		return
	}
	id := b.doc.tree.NewText(content)
	b.doc.tree.Append(b.stack[len(b.stack)-1], id)
}

// Depth returns the number of currently open elements.
func (b *Builder) Depth() int { return len(b.stack) }

// Finish closes any remaining open elements and publishes the root, firing
// OnSetRoot.
func (b *Builder) Finish() {
	b.stack = b.stack[:0]
	if b.doc.root != NoNode {
		b.doc.SetRoot(b.doc.root)
	}
}
