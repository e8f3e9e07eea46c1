package box

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"

	"flowbox/pkg/css"
	"flowbox/pkg/markup"
)

// BoxGenerator builds the box for a specific element name, typically to
// attach replaced content. Register one per name on a Generator.
type BoxGenerator interface {
	CreateBox(name string, attrs map[string]string) *Box
}

// Generator turns a content tree into a box tree: it computes styles through
// a StyleList, drops display:none subtrees, collapses whitespace, and
// synthesizes the anonymous boxes that keep block and inline children from
// mixing as siblings.
type Generator struct {
	styles *css.StyleList
	gens   map[string]BoxGenerator
	logger *log.Logger
}

// NewGenerator creates a Generator resolving styles against sl. A nil logger
// discards.
func NewGenerator(sl *css.StyleList, logger *log.Logger) *Generator {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Generator{styles: sl, gens: map[string]BoxGenerator{}, logger: logger}
}

// Register installs a BoxGenerator for an element name. At most one generator
// may claim a name.
func (g *Generator) Register(name string, bg BoxGenerator) error {
	name = strings.ToLower(name)
	if _, dup := g.gens[name]; dup {
		return fmt.Errorf("box generator already registered for %q", name)
	}
	g.gens[name] = bg
	return nil
}

// AdoptRegistrations copies other's registered BoxGenerators onto g, keeping
// existing registrations on conflict.
func (g *Generator) AdoptRegistrations(other *Generator) {
	for name, bg := range other.gens {
		if _, dup := g.gens[name]; !dup {
			g.gens[name] = bg
		}
	}
}

// Generate builds the box tree for the whole document. It returns nil when
// the document has no root or the root computes to display:none.
func (g *Generator) Generate(doc *markup.Document) *Box {
	if !doc.HasRoot() {
		return nil
	}
	root := doc.Root()
	style := g.ComputeStyle(root, nil)
	if style.Display == css.DisplayNone {
		return nil
	}
	b := g.makeBox(root, style)
	g.populate(b, root)
	return b
}

// ComputeStyle resolves the computed style for one element: inherited values
// from the parent, then the cascade's declarations, then the element's inline
// style attribute on top.
func (g *Generator) ComputeStyle(n markup.Node, parent *css.Computed) *css.Computed {
	c := css.NewComputed()
	c.InheritFrom(parent)
	css.ApplyDeclarations(c, parent, g.styles.Declarations(asElement(n)), g.logger)
	if inline, ok := n.Attr("style"); ok && inline != "" {
		css.ApplyDeclarations(c, parent, css.ParseDeclarations(inline, g.logger), g.logger)
	}
	return c
}

// populate builds boxes for el's children into parent. One Collapser per
// child list carries trailing-space state across adjacent text runs; when the
// withheld separator turns out to sit between two element boxes, it is
// materialized as a single space before the second box.
func (g *Generator) populate(parent *Box, el markup.Node) {
	var coll Collapser
	var sepNode markup.Node // whitespace-only run that may become a separator
	for _, child := range el.Children() {
		if child.IsText() {
			text := coll.Collapse(child.Text(), parent.Style.WhiteSpace)
			if text == "" {
				sepNode = child
				continue
			}
			g.insert(parent, NewTextBox(child, inheritedStyle(parent.Style), text))
			sepNode = markup.Node{}
			continue
		}
		style := g.ComputeStyle(child, parent.Style)
		if style.Display == css.DisplayNone {
			continue
		}
		if coll.Flush() {
			g.insertSeparator(parent, sepNode)
		}
		coll.BoxBreak()
		sepNode = markup.Node{}
		cb := g.makeBox(child, style)
		g.insert(parent, cb)
		g.populate(cb, child)
	}
}

// insertSeparator emits the single collapsed space owed between two sibling
// boxes: appended to the preceding text box when one exists, otherwise as a
// space-only text box for the whitespace run that produced it. Block contexts
// drop it through the usual discardable path.
func (g *Generator) insertSeparator(parent *Box, node markup.Node) {
	target := parent
	if last := target.LastChild(); last != nil && last.Anonymous && last.InlineContext {
		target = last
	}
	if last := target.LastChild(); last != nil && last.IsText() {
		t, _ := last.Text()
		last.SetText(t + " ")
		return
	}
	if node.Valid() {
		g.insert(parent, NewTextBox(node, inheritedStyle(parent.Style), " "))
	}
}

func (g *Generator) makeBox(n markup.Node, style *css.Computed) *Box {
	if bg, ok := g.gens[n.TagName()]; ok {
		if b := bg.CreateBox(n.TagName(), n.Attrs()); b != nil {
			b.El = n
			b.Style = style
			return b
		}
	}
	return NewBox(n, style)
}

// insert places child under parent, fabricating anonymous block boxes so that
// every box ends up with either all block-level or all inline-level children.
func (g *Generator) insert(parent, child *Box) {
	if child.IsInlineLevel() {
		if parent.InlineContext {
			parent.Append(child)
			return
		}
		// Parent already stacks blocks: reuse the trailing anonymous
		// block if there is one, otherwise open a new one. Whitespace
		// between blocks is dropped rather than wrapped.
		if last := parent.LastChild(); last != nil && last.Anonymous && last.InlineContext {
			last.Append(child)
			return
		}
		if discardable(child) {
			return
		}
		wrap := g.newAnonymousBlock(parent)
		parent.Append(wrap)
		wrap.Append(child)
		return
	}

	if parent.InlineContext {
		// First block-level child: the inline children collected so far
		// move into one anonymous block (or vanish if pure whitespace).
		prior := parent.Children()
		parent.replaceChildren(nil)
		parent.InlineContext = false
		if len(prior) > 0 && !allDiscardable(prior) {
			wrap := g.newAnonymousBlock(parent)
			for _, k := range prior {
				wrap.Append(k)
			}
			parent.Append(wrap)
		}
	}
	parent.Append(child)
}

// newAnonymousBlock fabricates an anonymous block box. Its placeholder node
// knows its parent for traversal but is invisible to selectors and absent
// from the content tree's child lists.
func (g *Generator) newAnonymousBlock(parent *Box) *Box {
	tree := parent.El.Tree()
	node := tree.Node(tree.NewAnonymous(parent.El.NodeID()))
	style := inheritedStyle(parent.Style)
	style.Display = css.DisplayBlock
	b := NewBox(node, style)
	b.Anonymous = true
	return b
}

func inheritedStyle(parent *css.Computed) *css.Computed {
	c := css.NewComputed()
	c.InheritFrom(parent)
	return c
}

// discardable reports whether a box is a pure-whitespace text run under a
// collapsing mode; such runs never force an anonymous block into existence.
func discardable(b *Box) bool {
	t, ok := b.Text()
	if !ok || !b.Style.WhiteSpace.Collapses() {
		return false
	}
	return strings.TrimSpace(t) == ""
}

func allDiscardable(boxes []*Box) bool {
	for _, b := range boxes {
		if !discardable(b) {
			return false
		}
	}
	return true
}
