package markup

// Listener observes document mutations. The View uses these events to decide
// which frames to mark dirty.
type Listener interface {
	// OnSetRoot fires when the document gets a (new) root element.
	OnSetRoot(root Node)
	// OnElementModified fires on structural or attribute changes.
	OnElementModified(n Node)
	// OnElementStyleModified fires when only the inline style changed.
	OnElementStyleModified(n Node)
}

// Document owns one content tree plus the stylesheet sources collected while
// it was built. All edits go through the Document so listeners stay informed.
type Document struct {
	tree *Tree
	root NodeID

	// Styles holds inline stylesheet texts in document order; StyleLinks
	// holds stylesheet URIs still to be retrieved through a Locator.
	// Scripts holds script texts for a script engine to run after the
	// tree is built; they never enter the content tree.
	Styles     []string
	StyleLinks []string
	Scripts    []string

	listeners []Listener
}

// NewDocument creates an empty document with a fresh arena.
func NewDocument() *Document {
	return &Document{tree: NewTree(), root: NoNode}
}

// Tree exposes the underlying arena.
func (d *Document) Tree() *Tree { return d.tree }

// Root returns the root element handle; invalid before SetRoot.
func (d *Document) Root() Node { return d.tree.Node(d.root) }

// HasRoot reports whether a root element has been set.
func (d *Document) HasRoot() bool { return d.root != NoNode }

// AddListener registers a mutation listener.
func (d *Document) AddListener(l Listener) {
	d.listeners = append(d.listeners, l)
}

// SetRoot installs the root element and notifies listeners. The previous
// root's subtree, if any, is dead afterwards.
func (d *Document) SetRoot(id NodeID) {
	if d.root != NoNode && d.root != id {
		d.tree.kill(d.root)
	}
	d.root = id
	for _, l := range d.listeners {
		l.OnSetRoot(d.tree.Node(id))
	}
}

// SetAttribute updates an attribute. A change to the style attribute is a
// style-only mutation; everything else is structural (it may change selector
// matches of whole subtrees).
func (d *Document) SetAttribute(n Node, name, value string) {
	n.setAttr(name, value)
	if name == "style" {
		d.notifyStyle(n)
		return
	}
	d.notifyModified(n)
}

// SetText replaces a text node's content.
func (d *Document) SetText(n Node, text string) {
	if !n.IsText() {
		return
	}
	n.setText(text)
	parent := n.Parent()
	if parent.id != NoNode {
		d.notifyModified(parent)
	} else {
		d.notifyModified(n)
	}
}

// AppendChild attaches a detached node as parent's last child.
func (d *Document) AppendChild(parent, child Node) {
	d.tree.Append(parent.id, child.id)
	d.notifyModified(parent)
}

// RemoveChild detaches child from parent, destroying the subtree.
func (d *Document) RemoveChild(child Node) {
	parent := child.Parent()
	d.tree.Detach(child.id)
	if parent.id != NoNode {
		d.notifyModified(parent)
	}
}

func (d *Document) notifyModified(n Node) {
	for _, l := range d.listeners {
		l.OnElementModified(n)
	}
}

func (d *Document) notifyStyle(n Node) {
	for _, l := range d.listeners {
		l.OnElementStyleModified(n)
	}
}

// FindByID returns the first live element with the given id attribute.
func (d *Document) FindByID(id string) (Node, bool) {
	if d.root == NoNode {
		return Node{}, false
	}
	return findByID(d.Root(), id)
}

func findByID(n Node, id string) (Node, bool) {
	if !n.Valid() {
		return Node{}, false
	}
	if !n.IsText() && n.ID() == id {
		return n, true
	}
	for _, c := range n.Children() {
		if found, ok := findByID(c, id); ok {
			return found, true
		}
	}
	return Node{}, false
}
