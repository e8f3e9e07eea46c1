package box

import (
	"flowbox/pkg/css"
	"flowbox/pkg/markup"
)

// element adapts a markup.Node to the css.Element matching interface. The
// markup package stays free of any css dependency; this adapter is the only
// bridge.
type element struct {
	n markup.Node
}

func asElement(n markup.Node) element { return element{n: n} }

func (e element) TagName() string                 { return e.n.TagName() }
func (e element) ID() string                      { return e.n.ID() }
func (e element) Classes() []string               { return e.n.Classes() }
func (e element) Attr(name string) (string, bool) { return e.n.Attr(name) }
func (e element) IsAnonymous() bool               { return e.n.IsAnonymous() }

func (e element) ParentElement() (css.Element, bool) {
	p := e.n.Parent()
	if !p.Valid() || p.IsText() {
		return nil, false
	}
	return element{n: p}, true
}

func (e element) PrevSiblingElement() (css.Element, bool) {
	for s := e.n.PrevSibling(); s.Valid(); s = s.PrevSibling() {
		if !s.IsText() {
			return element{n: s}, true
		}
	}
	return nil, false
}
