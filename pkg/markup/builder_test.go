package markup

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilderBuildsTree(t *testing.T) {
	doc := NewDocument()
	b := NewBuilder(doc, nil)

	b.BeginElement("html", nil)
	b.BeginElement("body", map[string]string{"class": "main dark"})
	b.BeginElement("p", map[string]string{"id": "intro"})
	b.Text("hello")
	b.EndElement("p")
	b.EndElement("body")
	b.EndElement("html")
	b.Finish()

	require.True(t, doc.HasRoot())
	root := doc.Root()
	assert.Equal(t, "html", root.TagName())

	body := root.Children()[0]
	assert.Equal(t, []string{"main", "dark"}, body.Classes())

	p := body.Children()[0]
	assert.Equal(t, "intro", p.ID())
	assert.Equal(t, "hello", p.TextContent())
	assert.Equal(t, "html > body > p#intro", p.Path())
}

func TestBuilderImplicitlyClosesChildren(t *testing.T) {
	doc := NewDocument()
	b := NewBuilder(doc, nil)

	b.BeginElement("ul", nil)
	b.BeginElement("li", nil)
	b.BeginElement("li", nil) // closes nothing; nested for this front end
	b.EndElement("ul")        // closes everything up to ul
	assert.Equal(t, 0, b.Depth())
	b.Finish()
	assert.True(t, doc.HasRoot())
}

func TestBuilderStrayEndAndOrphanText(t *testing.T) {
	doc := NewDocument()
	b := NewBuilder(doc, nil)

	b.Text("dropped")
	b.EndElement("div")
	b.BeginElement("html", nil)
	b.Finish()

	require.True(t, doc.HasRoot())
	assert.Equal(t, 0, doc.Root().NumChildren())
}

func TestPrevSiblingSkipsNothing(t *testing.T) {
	doc := NewDocument()
	tree := doc.Tree()
	parent := tree.NewElement("div", nil)
	a := tree.NewElement("a", nil)
	b := tree.NewElement("b", nil)
	tree.Append(parent, a)
	tree.Append(parent, b)

	assert.Equal(t, a, tree.Node(b).PrevSibling().NodeID())
	assert.False(t, tree.Node(a).PrevSibling().Valid())
}

func TestDetachKillsSubtree(t *testing.T) {
	doc := NewDocument()
	tree := doc.Tree()
	parent := tree.NewElement("div", nil)
	child := tree.NewElement("p", nil)
	grand := tree.NewText("x")
	tree.Append(parent, child)
	tree.Append(child, grand)

	tree.Detach(child)
	assert.False(t, tree.Node(child).Valid())
	assert.False(t, tree.Node(grand).Valid())
	assert.Equal(t, 0, tree.Node(parent).NumChildren())
}

func TestAnonymousNodeInvisibleToChildren(t *testing.T) {
	doc := NewDocument()
	tree := doc.Tree()
	parent := tree.NewElement("div", nil)
	anon := tree.NewAnonymous(parent)

	n := tree.Node(anon)
	assert.True(t, n.IsAnonymous())
	assert.Equal(t, parent, n.Parent().NodeID())
	assert.Equal(t, 0, tree.Node(parent).NumChildren())
	assert.Empty(t, n.TagName())
}

type eventRecorder struct {
	events []string
}

func (r *eventRecorder) OnSetRoot(n Node)         { r.events = append(r.events, "root") }
func (r *eventRecorder) OnElementModified(n Node) { r.events = append(r.events, "mod:"+n.TagName()) }
func (r *eventRecorder) OnElementStyleModified(n Node) {
	r.events = append(r.events, "style:"+n.TagName())
}

func TestDocumentMutationEvents(t *testing.T) {
	doc := NewDocument()
	rec := &eventRecorder{}
	doc.AddListener(rec)

	tree := doc.Tree()
	root := tree.NewElement("html", nil)
	doc.SetRoot(root)

	n := doc.Root()
	doc.SetAttribute(n, "style", "color: red")
	doc.SetAttribute(n, "class", "dark")

	child := tree.Node(tree.NewElement("p", nil))
	doc.AppendChild(n, child)
	doc.RemoveChild(child)

	assert.Equal(t, []string{"root", "style:html", "mod:html", "mod:html", "mod:html"}, rec.events)
}

func TestFindByID(t *testing.T) {
	doc := NewDocument()
	b := NewBuilder(doc, nil)
	b.BeginElement("html", nil)
	b.BeginElement("div", map[string]string{"id": "a"})
	b.EndElement("div")
	b.BeginElement("div", map[string]string{"id": "b"})
	b.EndElement("div")
	b.EndElement("html")
	b.Finish()

	n, ok := doc.FindByID("b")
	require.True(t, ok)
	assert.Equal(t, "div", n.TagName())
	_, ok = doc.FindByID("missing")
	assert.False(t, ok)
}

func TestParseHTMLFrontEnd(t *testing.T) {
	src := `<!DOCTYPE html>
<html>
<head>
  <style>p { color: red }</style>
  <link rel="stylesheet" href="extra.css">
  <script>document.getElementById("x")</script>
</head>
<body>
  <p id="x">one<br>two</p>
  <img src="pic.png">
  <!-- comment -->
</body>
</html>`

	doc := NewDocument()
	err := ParseHTML(strings.NewReader(src), doc, NewBuilder(doc, nil))
	require.NoError(t, err)

	require.Len(t, doc.Styles, 1)
	assert.Contains(t, doc.Styles[0], "color: red")
	assert.Equal(t, []string{"extra.css"}, doc.StyleLinks)
	require.Len(t, doc.Scripts, 1)
	assert.Contains(t, doc.Scripts[0], "getElementById")

	p, ok := doc.FindByID("x")
	require.True(t, ok)
	// br is a void element: it closes itself and splits the text runs
	require.Equal(t, 3, p.NumChildren())
	assert.Equal(t, "br", p.Children()[1].TagName())
	assert.Equal(t, "onetwo", p.TextContent())

	img := findTag(doc.Root(), "img")
	require.True(t, img.Valid())
	src2, _ := img.Attr("src")
	assert.Equal(t, "pic.png", src2)
}

func findTag(n Node, tag string) Node {
	if n.TagName() == tag {
		return n
	}
	for _, c := range n.Children() {
		if found := findTag(c, tag); found.Valid() {
			return found
		}
	}
	return Node{}
}
