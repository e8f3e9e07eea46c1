package view

import (
	"io"

	"github.com/charmbracelet/log"

	"flowbox/pkg/box"
	"flowbox/pkg/css"
	"flowbox/pkg/layout"
	"flowbox/pkg/markup"
	"flowbox/pkg/resource"
)

// View ties a document to its visual state: it owns the cascade, the box
// tree, and the frame tree, and listens to document mutations so only the
// necessary parts are rebuilt. Layout is pulled, not pushed: nothing flows
// until EnsureLayout.
type View struct {
	doc    *markup.Document
	dev    layout.Device
	loc    resource.Locator
	engine *layout.Engine
	logger *log.Logger
	media  string

	styles *css.StyleList
	gen    *box.Generator
	root   *box.Box
	frame  *layout.Frame
}

// New creates a View over doc and registers it as a mutation listener. A nil
// locator disables external stylesheet and image retrieval; a nil logger
// discards.
func New(doc *markup.Document, dev layout.Device, loc resource.Locator,
	viewportW, viewportH float64, logger *log.Logger) *View {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	v := &View{
		doc:    doc,
		dev:    dev,
		loc:    loc,
		engine: layout.NewEngine(dev, viewportW, viewportH, logger),
		logger: logger,
		media:  "screen",
	}
	v.rebuildStyles()
	if loc != nil {
		if err := v.gen.Register("img", box.NewImageGenerator(loc, logger)); err != nil {
			logger.Warn("img generator", "err", err)
		}
	}
	doc.AddListener(v)
	return v
}

// Engine exposes the flow engine, mostly so callers can change the viewport.
func (v *View) Engine() *layout.Engine { return v.engine }

// Generator exposes the box generator for registering replaced-element
// builders.
func (v *View) Generator() *box.Generator { return v.gen }

// rebuildStyles assembles the cascade: built-in defaults first, then the
// document's stylesheets in source order, then linked sheets.
func (v *View) rebuildStyles() {
	sl := css.NewStyleList(v.media, v.logger)
	v.addSheet(sl, "(defaults)", box.DefaultStyles)
	for _, src := range v.doc.Styles {
		v.addSheet(sl, "(style)", src)
	}
	for _, uri := range v.doc.StyleLinks {
		if v.loc == nil {
			continue
		}
		src, err := resource.GetText(v.loc, uri)
		if err != nil {
			v.logger.Warn("stylesheet unavailable", "href", uri, "err", err)
			continue
		}
		v.addSheet(sl, uri, src)
	}
	oldGen := v.gen
	v.styles = sl
	v.gen = box.NewGenerator(sl, v.logger)
	if oldGen != nil {
		// keep replaced-element registrations across restyles
		v.gen.AdoptRegistrations(oldGen)
	}
}

func (v *View) addSheet(sl *css.StyleList, name, src string) {
	sheet, err := css.ParseFile(name, src, v.logger)
	if err != nil {
		v.logger.Warn("stylesheet rejected", "sheet", name, "err", err)
		return
	}
	sl.Add(sheet)
}

// rebuild regenerates boxes and frames from the current document.
func (v *View) rebuild() {
	if !v.doc.HasRoot() {
		v.root, v.frame = nil, nil
		return
	}
	v.root = v.gen.Generate(v.doc)
	if v.root == nil {
		v.frame = nil
		return
	}
	v.frame = layout.BuildTree(v.root)
}

// EnsureLayout brings the frame tree up to date and returns its root; nil
// when the document renders to nothing.
func (v *View) EnsureLayout() *layout.Frame {
	if v.frame == nil {
		v.rebuild()
	}
	if v.frame == nil {
		return nil
	}
	v.engine.Flow(v.frame)
	return v.frame
}

// OnSetRoot implements markup.Listener: a new root means new stylesheets may
// have been collected, so everything is rebuilt.
func (v *View) OnSetRoot(root markup.Node) {
	v.rebuildStyles()
	v.rebuild()
}

// OnElementModified implements markup.Listener. Structural edits can change
// selector matches and anonymous box structure anywhere below the node, so
// the box tree is regenerated wholesale.
func (v *View) OnElementModified(n markup.Node) {
	v.rebuild()
}

// OnElementStyleModified implements markup.Listener. Inline style edits keep
// the box structure, so only the subtree's computed styles are refreshed and
// its frames marked for reflow; if the display type changed after all, the
// edit is handled as structural.
func (v *View) OnElementStyleModified(n markup.Node) {
	if v.frame == nil {
		v.rebuild()
		return
	}
	fr := v.findFrame(v.frame, n.NodeID())
	if fr == nil {
		v.rebuild()
		return
	}
	var parentStyle *css.Computed
	if fr.Parent != nil {
		parentStyle = fr.Parent.Box.Style
	}
	fresh := v.gen.ComputeStyle(n, parentStyle)
	if fresh.Display != fr.Box.Style.Display {
		v.rebuild()
		return
	}
	v.restyle(fr, fresh, parentStyle)
	fr.MarkDirty()
}

// restyle installs style on the frame's box and recomputes the inherited
// styles of the subtree below it.
func (v *View) restyle(fr *layout.Frame, style, parentStyle *css.Computed) {
	fr.Box.Style = style
	for _, c := range fr.Children {
		b := c.Box
		if b.IsText() || b.Anonymous {
			inherited := css.NewComputed()
			inherited.InheritFrom(style)
			if b.Anonymous {
				inherited.Display = b.Style.Display
			}
			v.restyle(c, inherited, style)
			continue
		}
		v.restyle(c, v.gen.ComputeStyle(b.El, style), style)
	}
}

func (v *View) findFrame(f *layout.Frame, id markup.NodeID) *layout.Frame {
	if f.Box.El.NodeID() == id && !f.Box.Anonymous {
		return f
	}
	for _, c := range f.Children {
		if found := v.findFrame(c, id); found != nil {
			return found
		}
	}
	return nil
}

// FramesForPoint returns the frames whose bounds contain the point, in paint
// order (ancestors first, later siblings after earlier ones). Consecutive
// frames for the same content node collapse to one entry.
func (v *View) FramesForPoint(x, y float64) []*layout.Frame {
	root := v.EnsureLayout()
	if root == nil {
		return nil
	}
	var hits []*layout.Frame
	collectHits(root, x, y, &hits)
	return dedupeAdjacent(hits)
}

func collectHits(f *layout.Frame, x, y float64, hits *[]*layout.Frame) {
	if !f.Bounds().Contains(x, y) {
		return
	}
	*hits = append(*hits, f)
	for _, c := range f.Children {
		collectHits(c, x, y, hits)
	}
}

func dedupeAdjacent(frames []*layout.Frame) []*layout.Frame {
	out := frames[:0]
	for _, f := range frames {
		if len(out) > 0 && out[len(out)-1].Box.El.NodeID() == f.Box.El.NodeID() {
			continue
		}
		out = append(out, f)
	}
	return out
}
