package markup

import (
	"strings"
)

// NodeID indexes a node in a Tree's flat table. Parent and sibling links are
// stored as indices rather than pointers, so the tree has a single owner and
// no reference cycles.
type NodeID int32

// NoNode is the null node index.
const NoNode NodeID = -1

// Kind tags a node as element or text; a node carries children or a text
// string, never both.
type Kind uint8

const (
	KindElement Kind = iota
	KindText
)

type nodeData struct {
	kind      Kind
	alive     bool
	anonymous bool

	tag     string
	attrs   map[string]string
	id      string   // cached from attrs["id"]
	classes []string // cached from attrs["class"]

	parent  NodeID
	prevSib NodeID

	children []NodeID // KindElement only
	text     string   // KindText only
}

// Tree is the arena holding all nodes of one document. Node handles stay
// valid until the tree itself is discarded; detached subtrees are only marked
// dead, their slots are not reused.
type Tree struct {
	nodes []nodeData
}

// NewTree creates an empty arena.
func NewTree() *Tree {
	return &Tree{nodes: make([]nodeData, 0, 64)}
}

func (t *Tree) alloc(d nodeData) NodeID {
	d.alive = true
	d.parent = NoNode
	d.prevSib = NoNode
	t.nodes = append(t.nodes, d)
	return NodeID(len(t.nodes) - 1)
}

// NewElement creates a detached element node. The id attribute and the
// space-separated class list are cached for selector matching.
func (t *Tree) NewElement(tag string, attrs map[string]string) NodeID {
	d := nodeData{kind: KindElement, tag: strings.ToLower(tag)}
	if len(attrs) > 0 {
		d.attrs = make(map[string]string, len(attrs))
		for k, v := range attrs {
			d.attrs[strings.ToLower(k)] = v
		}
		d.id = d.attrs["id"]
		if cls, ok := d.attrs["class"]; ok {
			d.classes = strings.Fields(cls)
		}
	}
	return t.alloc(d)
}

// NewText creates a detached text node.
func (t *Tree) NewText(text string) NodeID {
	return t.alloc(nodeData{kind: KindText, text: text})
}

// NewAnonymous creates a placeholder element for an anonymous box. It records
// its parent for traversal but is not part of the parent's child list, has no
// tag, and never matches a selector.
func (t *Tree) NewAnonymous(parent NodeID) NodeID {
	id := t.alloc(nodeData{kind: KindElement, anonymous: true})
	t.nodes[id].parent = parent
	return id
}

// Append links child as the last child of parent, maintaining the
// previous-sibling index.
func (t *Tree) Append(parent, child NodeID) {
	p := &t.nodes[parent]
	c := &t.nodes[child]
	c.parent = parent
	if n := len(p.children); n > 0 {
		c.prevSib = p.children[n-1]
	} else {
		c.prevSib = NoNode
	}
	p.children = append(p.children, child)
}

// InsertBefore links child into parent's child list ahead of ref. A NoNode
// ref appends.
func (t *Tree) InsertBefore(parent, child, ref NodeID) {
	if ref == NoNode {
		t.Append(parent, child)
		return
	}
	p := &t.nodes[parent]
	for i, existing := range p.children {
		if existing != ref {
			continue
		}
		p.children = append(p.children, NoNode)
		copy(p.children[i+1:], p.children[i:])
		p.children[i] = child
		c := &t.nodes[child]
		c.parent = parent
		if i > 0 {
			c.prevSib = p.children[i-1]
		} else {
			c.prevSib = NoNode
		}
		t.nodes[ref].prevSib = child
		return
	}
	t.Append(parent, child)
}

// Detach unlinks a node from its parent and marks the whole subtree dead.
func (t *Tree) Detach(id NodeID) {
	d := &t.nodes[id]
	if d.parent != NoNode {
		p := &t.nodes[d.parent]
		for i, c := range p.children {
			if c != id {
				continue
			}
			if i+1 < len(p.children) {
				next := p.children[i+1]
				if i > 0 {
					t.nodes[next].prevSib = p.children[i-1]
				} else {
					t.nodes[next].prevSib = NoNode
				}
			}
			p.children = append(p.children[:i], p.children[i+1:]...)
			break
		}
	}
	d.parent = NoNode
	d.prevSib = NoNode
	t.kill(id)
}

func (t *Tree) kill(id NodeID) {
	d := &t.nodes[id]
	d.alive = false
	for _, c := range d.children {
		t.kill(c)
	}
}

// Node returns a handle for id. The zero Node (and handles for NoNode) are
// invalid.
func (t *Tree) Node(id NodeID) Node {
	return Node{tree: t, id: id}
}

// Len returns the number of allocated slots (including dead ones).
func (t *Tree) Len() int { return len(t.nodes) }

// Node is a light value handle over an arena slot.
type Node struct {
	tree *Tree
	id   NodeID
}

// Valid reports whether the handle refers to a live node.
func (n Node) Valid() bool {
	return n.tree != nil && n.id != NoNode && n.tree.nodes[n.id].alive
}

// NodeID returns the underlying arena index.
func (n Node) NodeID() NodeID { return n.id }

// Tree returns the owning arena.
func (n Node) Tree() *Tree { return n.tree }

func (n Node) data() *nodeData { return &n.tree.nodes[n.id] }

// Kind returns the node kind.
func (n Node) Kind() Kind { return n.data().kind }

// IsText reports whether the node is a text node.
func (n Node) IsText() bool { return n.data().kind == KindText }

// IsAnonymous reports whether the node is a synthesized placeholder.
func (n Node) IsAnonymous() bool { return n.data().anonymous }

// TagName returns the lowercased element tag; empty for text and anonymous
// nodes.
func (n Node) TagName() string { return n.data().tag }

// ID returns the element's id attribute, or "".
func (n Node) ID() string { return n.data().id }

// Classes returns the element's class list (shared slice; do not mutate).
func (n Node) Classes() []string { return n.data().classes }

// Attr returns an attribute value.
func (n Node) Attr(name string) (string, bool) {
	d := n.data()
	if d.attrs == nil {
		return "", false
	}
	v, ok := d.attrs[strings.ToLower(name)]
	return v, ok
}

// Attrs returns a copy of the element's attribute map; nil when there are
// none.
func (n Node) Attrs() map[string]string {
	d := n.data()
	if len(d.attrs) == 0 {
		return nil
	}
	out := make(map[string]string, len(d.attrs))
	for k, v := range d.attrs {
		out[k] = v
	}
	return out
}

// Text returns a text node's content; empty for elements.
func (n Node) Text() string { return n.data().text }

// Parent returns the parent handle; invalid at the root.
func (n Node) Parent() Node {
	return Node{tree: n.tree, id: n.data().parent}
}

// PrevSibling returns the previous sibling handle (text or element).
func (n Node) PrevSibling() Node {
	return Node{tree: n.tree, id: n.data().prevSib}
}

// Children returns handles for the node's children. Text nodes have none.
func (n Node) Children() []Node {
	ids := n.data().children
	out := make([]Node, len(ids))
	for i, id := range ids {
		out[i] = Node{tree: n.tree, id: id}
	}
	return out
}

// NumChildren returns the child count without allocating.
func (n Node) NumChildren() int { return len(n.data().children) }

// TextContent concatenates the text of the node and all its descendants.
func (n Node) TextContent() string {
	var sb strings.Builder
	n.appendText(&sb)
	return sb.String()
}

func (n Node) appendText(sb *strings.Builder) {
	d := n.data()
	if d.kind == KindText {
		sb.WriteString(d.text)
		return
	}
	for _, c := range d.children {
		Node{tree: n.tree, id: c}.appendText(sb)
	}
}

// Path describes the node's ancestry ("html > body > p#intro"), mostly for
// diagnostics and hit-test output.
func (n Node) Path() string {
	var parts []string
	for cur := n; cur.id != NoNode; cur = cur.Parent() {
		d := cur.data()
		if d.kind == KindText {
			parts = append(parts, "#text")
			continue
		}
		label := d.tag
		if d.anonymous {
			label = "(anonymous)"
		}
		if d.id != "" {
			label += "#" + d.id
		}
		parts = append(parts, label)
	}
	for i, j := 0, len(parts)-1; i < j; i, j = i+1, j-1 {
		parts[i], parts[j] = parts[j], parts[i]
	}
	return strings.Join(parts, " > ")
}

func (n Node) setAttr(name, value string) {
	d := n.data()
	if d.attrs == nil {
		d.attrs = make(map[string]string, 1)
	}
	name = strings.ToLower(name)
	d.attrs[name] = value
	switch name {
	case "id":
		d.id = value
	case "class":
		d.classes = strings.Fields(value)
	}
}

func (n Node) setText(text string) {
	n.data().text = text
}
