package css

import (
	"sort"
	"strings"

	"github.com/charmbracelet/log"
)

// Element is the view of a content element the matcher needs. The markup
// package's node handles implement it; keeping it an interface here avoids a
// dependency cycle and lets tests use lightweight fakes.
type Element interface {
	TagName() string
	ID() string
	Classes() []string
	Attr(name string) (string, bool)
	ParentElement() (Element, bool)
	PrevSiblingElement() (Element, bool)
	// IsAnonymous marks synthesized placeholder elements, which never match
	// any selector.
	IsAnonymous() bool
}

// StyleList holds stylesheets in registration order and resolves the cascade.
// A later-registered sheet outranks an earlier one only at equal specificity.
type StyleList struct {
	sheets []*Stylesheet
	media  string // media type matched against @media scoping; "" = all
	next   int    // running registration order for rule tiebreaks
	logger *log.Logger
}

// NewStyleList creates an empty cascade for the given media type ("screen",
// "print", ...). An empty media type matches every rule.
func NewStyleList(media string, logger *log.Logger) *StyleList {
	return &StyleList{media: media, logger: ensureLogger(logger)}
}

// Add registers a stylesheet. Registration order is the cascade's final
// tiebreak, so sheets must be added in document order.
func (sl *StyleList) Add(ss *Stylesheet) {
	for _, r := range ss.Rules {
		r.order = sl.next
		sl.next++
	}
	sl.sheets = append(sl.sheets, ss)
}

// Len returns the number of registered stylesheets.
func (sl *StyleList) Len() int { return len(sl.sheets) }

// Declarations gathers all declarations applying to el, in cascade order:
// ascending specificity with registration order breaking ties, and all
// !important declarations after all normal ones.
func (sl *StyleList) Declarations(el Element) []Declaration {
	if el.IsAnonymous() {
		return nil
	}
	var matched []*Rule
	for _, ss := range sl.sheets {
		for _, r := range ss.candidates(el) {
			if !sl.mediaApplies(r) {
				continue
			}
			if Matches(r, el) {
				matched = append(matched, r)
			}
		}
	}
	sort.SliceStable(matched, func(i, j int) bool {
		if matched[i].Specificity != matched[j].Specificity {
			return matched[i].Specificity < matched[j].Specificity
		}
		return matched[i].order < matched[j].order
	})

	var decls, important []Declaration
	for _, r := range matched {
		for _, d := range r.Decls {
			if d.Important {
				important = append(important, d)
			} else {
				decls = append(decls, d)
			}
		}
	}
	return append(decls, important...)
}

func (sl *StyleList) mediaApplies(r *Rule) bool {
	if len(r.Media) == 0 || sl.media == "" {
		return true
	}
	for _, m := range r.Media {
		if m == "all" || m == sl.media {
			return true
		}
	}
	return false
}

// Matches fully evaluates a rule's selector against el: the primary selector
// must match, then each combining step repositions the cursor right-to-left.
func Matches(r *Rule, el Element) bool {
	if !matchSimple(r.Sel, el) {
		return false
	}
	cursor := el
	for _, step := range r.Steps {
		next, ok := reposition(step, cursor)
		if !ok {
			return false
		}
		cursor = next
	}
	return true
}

func reposition(step CombinatorStep, cursor Element) (Element, bool) {
	switch step.Rel {
	case RelDescendant:
		for {
			parent, ok := cursor.ParentElement()
			if !ok {
				return nil, false
			}
			if matchSimple(step.Sel, parent) {
				return parent, true
			}
			cursor = parent
		}
	case RelChild:
		parent, ok := cursor.ParentElement()
		if !ok || !matchSimple(step.Sel, parent) {
			return nil, false
		}
		return parent, true
	case RelAdjacent:
		prev, ok := cursor.PrevSiblingElement()
		if !ok || !matchSimple(step.Sel, prev) {
			return nil, false
		}
		return prev, true
	}
	return nil, false
}

func matchSimple(sel SimpleSelector, el Element) bool {
	if el.IsAnonymous() {
		return false
	}
	if sel.Tag != "" && sel.Tag != "*" && sel.Tag != el.TagName() {
		return false
	}
	if sel.ID != "" && sel.ID != el.ID() {
		return false
	}
	if len(sel.Classes) > 0 {
		have := el.Classes()
		for _, want := range sel.Classes {
			if !containsString(have, want) {
				return false
			}
		}
	}
	for _, attr := range sel.Attribs {
		if !matchAttrib(attr, el) {
			return false
		}
	}
	// Dynamic and structural pseudo-selectors never match in a static layout.
	return len(sel.Pseudos) == 0
}

func matchAttrib(attr AttribTest, el Element) bool {
	value, ok := el.Attr(attr.Name)
	if !ok {
		return false
	}
	switch attr.Op {
	case "":
		return true
	case "=":
		return value == attr.Value
	case "^=":
		return attr.Value != "" && strings.HasPrefix(value, attr.Value)
	case "$=":
		return attr.Value != "" && strings.HasSuffix(value, attr.Value)
	case "*=":
		return attr.Value != "" && strings.Contains(value, attr.Value)
	case "~=":
		return containsString(strings.Fields(value), attr.Value)
	case "|=":
		return value == attr.Value || strings.HasPrefix(value, attr.Value+"-")
	}
	return false
}

func containsString(haystack []string, needle string) bool {
	for _, s := range haystack {
		if s == needle {
			return true
		}
	}
	return false
}
