package css

import "strings"

// AttribTest is one [name op value] attribute condition. An empty Op tests
// for attribute presence only.
type AttribTest struct {
	Name  string
	Op    string // "", "=", "~=", "|=", "^=", "$=", "*="
	Value string
}

// SimpleSelector is one compound selector: optional tag, optional id, classes,
// attribute tests and pseudo selectors.
type SimpleSelector struct {
	Tag     string // "" or "*" matches any element
	ID      string
	Classes []string
	Attribs []AttribTest
	Pseudos []string
}

func (s SimpleSelector) empty() bool {
	return s.Tag == "" && s.ID == "" && len(s.Classes) == 0 &&
		len(s.Attribs) == 0 && len(s.Pseudos) == 0
}

// specificity contribution of a single compound selector.
func (s SimpleSelector) specificity() int {
	spec := 0
	if s.ID != "" {
		spec += 0x10000
	}
	spec += (len(s.Classes) + len(s.Attribs)) * 0x100
	if s.Tag != "" && s.Tag != "*" {
		spec++
	}
	return spec
}

func (s SimpleSelector) String() string {
	var sb strings.Builder
	if s.Tag != "" {
		sb.WriteString(s.Tag)
	}
	if s.ID != "" {
		sb.WriteByte('#')
		sb.WriteString(s.ID)
	}
	for _, c := range s.Classes {
		sb.WriteByte('.')
		sb.WriteString(c)
	}
	for _, a := range s.Attribs {
		sb.WriteByte('[')
		sb.WriteString(a.Name)
		if a.Op != "" {
			sb.WriteString(a.Op)
			sb.WriteString(a.Value)
		}
		sb.WriteByte(']')
	}
	for _, p := range s.Pseudos {
		sb.WriteByte(':')
		sb.WriteString(p)
	}
	return sb.String()
}

// Relation connects a combining selector to the selector on its right.
type Relation int

const (
	RelDescendant Relation = iota // whitespace
	RelChild                      // >
	RelAdjacent                   // +
)

func (r Relation) String() string {
	switch r {
	case RelChild:
		return " > "
	case RelAdjacent:
		return " + "
	}
	return " "
}

// CombinatorStep is one combining selector. Steps are stored right-to-left:
// Steps[0] is the selector immediately left of the primary one.
type CombinatorStep struct {
	Rel Relation
	Sel SimpleSelector
}

// Declaration is a single property: value pair from a rule body or an inline
// style attribute.
type Declaration struct {
	Property  string
	Values    []Value
	Important bool
	Line, Col int
}

// Rule is an immutable parsed ruleset entry. A source ruleset with a selector
// group ("h1, h2 { ... }") produces one Rule per selector, sharing the
// declaration list.
type Rule struct {
	Sel         SimpleSelector   // primary (rightmost) selector
	Steps       []CombinatorStep // combining selectors, right-to-left
	Decls       []Declaration
	Specificity int
	Media       []string // media types the rule is scoped to; empty = all

	order int // registration-global tiebreak, assigned by StyleList
}

func (r *Rule) computeSpecificity() {
	spec := r.Sel.specificity()
	for _, st := range r.Steps {
		spec += st.Sel.specificity()
	}
	r.Specificity = spec
}

func (r *Rule) String() string {
	var sb strings.Builder
	for i := len(r.Steps) - 1; i >= 0; i-- {
		sb.WriteString(r.Steps[i].Sel.String())
		sb.WriteString(r.Steps[i].Rel.String())
	}
	sb.WriteString(r.Sel.String())
	return sb.String()
}
