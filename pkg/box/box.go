package box

import (
	"flowbox/pkg/css"
	"flowbox/pkg/markup"
)

// Box is a node of the style tree: computed properties plus structure, no
// geometry. A box carries either children or text, never both; the content
// variants below make that exclusivity structural instead of a pair of
// optional fields.
type Box struct {
	El    markup.Node
	Style *css.Computed

	// Anonymous marks boxes fabricated to satisfy block/inline nesting;
	// their El is a synthetic placeholder that never matches selectors.
	Anonymous bool

	// InlineContext is true while the box's children form an inline
	// formatting context. Appending a block-level child flips it.
	InlineContext bool

	// Replaced is non-nil for replaced elements (img); it supplies the
	// intrinsic size the flow engine uses instead of content layout.
	Replaced Replaced

	content content
}

// Replaced is implemented by replaced-element content attached by a
// BoxGenerator.
type Replaced interface {
	// IntrinsicSize returns the natural pixel size of the content.
	IntrinsicSize() (w, h float64)
	// Source identifies the content (a URI) for painting and diagnostics.
	Source() string
}

type content interface{ isContent() }

type childContent struct{ kids []*Box }
type textContent struct{ text string }

func (childContent) isContent() {}
func (textContent) isContent()  {}

// NewBox creates an empty container box.
func NewBox(el markup.Node, style *css.Computed) *Box {
	return &Box{El: el, Style: style, InlineContext: true, content: &childContent{}}
}

// NewTextBox creates a text box. Text boxes are always inline-level.
func NewTextBox(el markup.Node, style *css.Computed, text string) *Box {
	return &Box{El: el, Style: style, content: &textContent{text: text}}
}

// Text returns the box's text run, if it is a text box.
func (b *Box) Text() (string, bool) {
	if t, ok := b.content.(*textContent); ok {
		return t.text, true
	}
	return "", false
}

// IsText reports whether the box holds a text run.
func (b *Box) IsText() bool {
	_, ok := b.content.(*textContent)
	return ok
}

// SetText replaces the text of a text box.
func (b *Box) SetText(text string) {
	t, ok := b.content.(*textContent)
	if !ok {
		panic("box: SetText on a container box")
	}
	t.text = text
}

// Children returns the child list; nil for text boxes.
func (b *Box) Children() []*Box {
	if c, ok := b.content.(*childContent); ok {
		return c.kids
	}
	return nil
}

// Append adds a child box. It panics on a text box: a box holds children or
// text, never both.
func (b *Box) Append(child *Box) {
	c, ok := b.content.(*childContent)
	if !ok {
		panic("box: Append on a text box")
	}
	c.kids = append(c.kids, child)
}

// LastChild returns the last child, or nil.
func (b *Box) LastChild() *Box {
	kids := b.Children()
	if len(kids) == 0 {
		return nil
	}
	return kids[len(kids)-1]
}

func (b *Box) replaceChildren(kids []*Box) {
	c, ok := b.content.(*childContent)
	if !ok {
		panic("box: replaceChildren on a text box")
	}
	c.kids = kids
}

// IsInlineLevel reports whether the box participates in inline layout: text,
// display:inline and display:inline-block (and replaced inline content).
func (b *Box) IsInlineLevel() bool {
	if b.IsText() {
		return true
	}
	switch b.Style.Display {
	case css.DisplayInline, css.DisplayInlineBlock:
		return true
	}
	return false
}

// IsBlockLevel reports whether the box is block-level in its parent's flow.
func (b *Box) IsBlockLevel() bool { return !b.IsInlineLevel() }

// VisibleText concatenates the text runs of the box and its descendants.
func (b *Box) VisibleText() string {
	if t, ok := b.Text(); ok {
		return t
	}
	out := ""
	for _, c := range b.Children() {
		out += c.VisibleText()
	}
	return out
}
