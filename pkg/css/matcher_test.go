package css

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeEl struct {
	tag     string
	id      string
	classes []string
	attrs   map[string]string
	parent  *fakeEl
	prev    *fakeEl
	anon    bool
}

func (f *fakeEl) TagName() string   { return f.tag }
func (f *fakeEl) ID() string        { return f.id }
func (f *fakeEl) Classes() []string { return f.classes }
func (f *fakeEl) IsAnonymous() bool { return f.anon }

func (f *fakeEl) Attr(name string) (string, bool) {
	v, ok := f.attrs[name]
	return v, ok
}

func (f *fakeEl) ParentElement() (Element, bool) {
	if f.parent == nil {
		return nil, false
	}
	return f.parent, true
}

func (f *fakeEl) PrevSiblingElement() (Element, bool) {
	if f.prev == nil {
		return nil, false
	}
	return f.prev, true
}

func mustParse(t *testing.T, src string) *Stylesheet {
	t.Helper()
	ss, err := Parse(src)
	require.NoError(t, err)
	return ss
}

func TestMatchesTagClassID(t *testing.T) {
	ss := mustParse(t, `p.big#intro { color: red }`)
	r := ss.Rules[0]

	el := &fakeEl{tag: "p", id: "intro", classes: []string{"big", "wide"}}
	assert.True(t, Matches(r, el))

	assert.False(t, Matches(r, &fakeEl{tag: "p", id: "intro"}))
	assert.False(t, Matches(r, &fakeEl{tag: "div", id: "intro", classes: []string{"big"}}))
}

func TestMatchesDescendantWalksAllAncestors(t *testing.T) {
	r := mustParse(t, `div p { color: red }`).Rules[0]

	grandparent := &fakeEl{tag: "div"}
	parent := &fakeEl{tag: "section", parent: grandparent}
	el := &fakeEl{tag: "p", parent: parent}
	assert.True(t, Matches(r, el))

	orphan := &fakeEl{tag: "p", parent: &fakeEl{tag: "section"}}
	assert.False(t, Matches(r, orphan))
}

func TestMatchesChildRequiresImmediateParent(t *testing.T) {
	r := mustParse(t, `div > p { color: red }`).Rules[0]

	el := &fakeEl{tag: "p", parent: &fakeEl{tag: "div"}}
	assert.True(t, Matches(r, el))

	deep := &fakeEl{tag: "p", parent: &fakeEl{tag: "span", parent: &fakeEl{tag: "div"}}}
	assert.False(t, Matches(r, deep))
}

func TestMatchesAdjacentSibling(t *testing.T) {
	r := mustParse(t, `h1 + p { color: red }`).Rules[0]

	el := &fakeEl{tag: "p", prev: &fakeEl{tag: "h1"}}
	assert.True(t, Matches(r, el))
	assert.False(t, Matches(r, &fakeEl{tag: "p"}))
	assert.False(t, Matches(r, &fakeEl{tag: "p", prev: &fakeEl{tag: "h2"}}))
}

func TestAnonymousElementNeverMatches(t *testing.T) {
	r := mustParse(t, `* { color: red }`).Rules[0]
	assert.False(t, Matches(r, &fakeEl{anon: true}))
}

func TestAttribOperators(t *testing.T) {
	el := &fakeEl{tag: "a", attrs: map[string]string{
		"href": "https://example.com/page",
		"rel":  "external nofollow",
		"lang": "en-US",
	}}
	cases := []struct {
		src  string
		want bool
	}{
		{`a[href] {}`, true},
		{`a[target] {}`, false},
		{`a[rel~="nofollow"] {}`, true},
		{`a[rel~="no"] {}`, false},
		{`a[lang|="en"] {}`, true},
		{`a[lang|="e"] {}`, false},
		{`a[href^="https"] {}`, true},
		{`a[href$="page"] {}`, true},
		{`a[href*="example"] {}`, true},
		{`a[href="https://example.com/page"] {}`, true},
	}
	for _, tc := range cases {
		r := mustParse(t, tc.src).Rules[0]
		assert.Equal(t, tc.want, Matches(r, el), tc.src)
	}
}

func TestDeclarationsCascadeOrder(t *testing.T) {
	sl := NewStyleList("screen", nil)
	sl.Add(mustParse(t, `p { color: red } p.big { color: blue }`))

	el := &fakeEl{tag: "p", classes: []string{"big"}}
	decls := sl.Declarations(el)
	require.Len(t, decls, 2)
	// .big has higher specificity, so its declaration comes last and wins
	assert.Equal(t, "blue", decls[1].Values[0].Ident)
}

func TestDeclarationsRegistrationOrderBreaksTies(t *testing.T) {
	sl := NewStyleList("screen", nil)
	sl.Add(mustParse(t, `p { color: red }`))
	sl.Add(mustParse(t, `p { color: green }`))

	decls := sl.Declarations(&fakeEl{tag: "p"})
	require.Len(t, decls, 2)
	assert.Equal(t, "green", decls[1].Values[0].Ident)
}

func TestImportantComesAfterAllNormal(t *testing.T) {
	sl := NewStyleList("screen", nil)
	sl.Add(mustParse(t, `p { color: red !important } p.big { color: blue }`))

	decls := sl.Declarations(&fakeEl{tag: "p", classes: []string{"big"}})
	require.Len(t, decls, 2)
	assert.Equal(t, "blue", decls[0].Values[0].Ident)
	assert.True(t, decls[1].Important)
	assert.Equal(t, "red", decls[1].Values[0].Ident)
}

func TestMediaScopingFiltersRules(t *testing.T) {
	sl := NewStyleList("screen", nil)
	sl.Add(mustParse(t, `@media print { p { color: red } } @media screen { p { color: blue } }`))

	decls := sl.Declarations(&fakeEl{tag: "p"})
	require.Len(t, decls, 1)
	assert.Equal(t, "blue", decls[0].Values[0].Ident)
}

func TestPseudoSelectorsNeverMatch(t *testing.T) {
	r := mustParse(t, `a:hover { color: red }`).Rules[0]
	assert.False(t, Matches(r, &fakeEl{tag: "a"}))
}
