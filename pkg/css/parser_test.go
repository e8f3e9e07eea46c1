package css

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSimpleRuleset(t *testing.T) {
	ss, err := Parse(`p { color: red; margin-top: 4px; }`)
	require.NoError(t, err)
	require.Len(t, ss.Rules, 1)

	r := ss.Rules[0]
	assert.Equal(t, "p", r.Sel.Tag)
	require.Len(t, r.Decls, 2)
	assert.Equal(t, "color", r.Decls[0].Property)
	require.Len(t, r.Decls[0].Values, 1)
	assert.Equal(t, "red", r.Decls[0].Values[0].Ident)
	assert.Equal(t, Dimension{Value: 4, Unit: UnitPx}, r.Decls[1].Values[0].Dim)
}

func TestParseSelectorGroupSharesDeclarations(t *testing.T) {
	ss, err := Parse(`h1, h2, .title { font-weight: bold }`)
	require.NoError(t, err)
	require.Len(t, ss.Rules, 3)
	for _, r := range ss.Rules {
		assert.Len(t, r.Decls, 1)
	}
	assert.Equal(t, []string{"title"}, ss.Rules[2].Sel.Classes)
}

func TestParseCombinatorChainRightToLeft(t *testing.T) {
	ss, err := Parse(`div > p.note span { color: blue }`)
	require.NoError(t, err)
	require.Len(t, ss.Rules, 1)

	r := ss.Rules[0]
	// primary is the rightmost selector
	assert.Equal(t, "span", r.Sel.Tag)
	require.Len(t, r.Steps, 2)
	// Steps[0] is immediately left of the primary
	assert.Equal(t, RelDescendant, r.Steps[0].Rel)
	assert.Equal(t, "p", r.Steps[0].Sel.Tag)
	assert.Equal(t, []string{"note"}, r.Steps[0].Sel.Classes)
	assert.Equal(t, RelChild, r.Steps[1].Rel)
	assert.Equal(t, "div", r.Steps[1].Sel.Tag)
}

func TestSpecificitySumsAcrossChain(t *testing.T) {
	cases := []struct {
		src  string
		want int
	}{
		{`p {}`, 1},
		{`.a {}`, 0x100},
		{`#x {}`, 0x10000},
		{`p.a.b {}`, 0x201},
		{`div p {}`, 2},
		{`#x .a p {}`, 0x10101},
		{`[href] {}`, 0x100},
	}
	for _, tc := range cases {
		ss, err := Parse(tc.src)
		require.NoError(t, err, tc.src)
		require.Len(t, ss.Rules, 1, tc.src)
		assert.Equal(t, tc.want, ss.Rules[0].Specificity, tc.src)
	}
}

func TestParseImportant(t *testing.T) {
	ss, err := Parse(`p { color: red !important; width: 10px }`)
	require.NoError(t, err)
	r := ss.Rules[0]
	require.Len(t, r.Decls, 2)
	assert.True(t, r.Decls[0].Important)
	assert.False(t, r.Decls[1].Important)
}

func TestParseHexAndRGBColors(t *testing.T) {
	ss, err := Parse(`p { color: #fa0; background-color: rgb(16, 32, 250) }`)
	require.NoError(t, err)
	decls := ss.Rules[0].Decls
	require.Len(t, decls, 2)
	assert.Equal(t, Color{0xff, 0xaa, 0x00, 0xff}, decls[0].Values[0].Color)
	assert.Equal(t, Color{16, 32, 250, 255}, decls[1].Values[0].Color)
}

func TestBadDeclarationIsDroppedAlone(t *testing.T) {
	ss, err := Parse(`p { color: red; bogus~; width: 10px }`)
	require.NoError(t, err)
	decls := ss.Rules[0].Decls
	require.Len(t, decls, 2)
	assert.Equal(t, "color", decls[0].Property)
	assert.Equal(t, "width", decls[1].Property)
}

func TestUnknownUnitRejectsDeclarationOnly(t *testing.T) {
	ss, err := Parse(`p { width: 3foos; height: 2em }`)
	require.NoError(t, err)
	decls := ss.Rules[0].Decls
	require.Len(t, decls, 1)
	assert.Equal(t, "height", decls[0].Property)
	assert.Equal(t, Dimension{Value: 2, Unit: UnitEm}, decls[0].Values[0].Dim)
}

func TestUnknownAtRuleSkipped(t *testing.T) {
	ss, err := Parse(`@font-face { src: url(x.ttf); } p { color: red }`)
	require.NoError(t, err)
	require.Len(t, ss.Rules, 1)
	assert.Equal(t, "p", ss.Rules[0].Sel.Tag)
}

func TestMediaBlockRecordsTypes(t *testing.T) {
	ss, err := Parse(`@media print, screen { p { color: red } } div { color: blue }`)
	require.NoError(t, err)
	require.Len(t, ss.Rules, 2)
	assert.Equal(t, []string{"print", "screen"}, ss.Rules[0].Media)
	assert.Nil(t, ss.Rules[1].Media)
}

func TestParseDeclarationsInlineStyle(t *testing.T) {
	decls := ParseDeclarations(`color: green; margin: 0 auto`, nil)
	require.Len(t, decls, 2)
	assert.Equal(t, "color", decls[0].Property)
	require.Len(t, decls[1].Values, 2)
	assert.Equal(t, ValIdent, decls[1].Values[1].Kind)
	assert.Equal(t, "auto", decls[1].Values[1].Ident)
}

func TestUnterminatedStringFailsParse(t *testing.T) {
	_, err := Parse(`"abc`)
	require.Error(t, err)
	var perr *ParseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, 1, perr.Line)
}

func TestUnterminatedStringInDeclarationDropsIt(t *testing.T) {
	ss, err := Parse(`p { font-family: "Open Sans }`)
	require.NoError(t, err)
	require.Len(t, ss.Rules, 1)
	assert.Empty(t, ss.Rules[0].Decls)
}

func TestAttributeSelectors(t *testing.T) {
	ss, err := Parse(`a[href^="https"] { color: red }`)
	require.NoError(t, err)
	sel := ss.Rules[0].Sel
	require.Len(t, sel.Attribs, 1)
	assert.Equal(t, AttribTest{Name: "href", Op: "^=", Value: "https"}, sel.Attribs[0])
}

func TestCommentsIgnored(t *testing.T) {
	ss, err := Parse("/* lead */ p /* mid */ { color: red /* trail */ }")
	require.NoError(t, err)
	require.Len(t, ss.Rules, 1)
	assert.Len(t, ss.Rules[0].Decls, 1)
}
