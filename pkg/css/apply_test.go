package css

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func applySrc(t *testing.T, c *Computed, parent *Computed, src string) {
	t.Helper()
	decls := ParseDeclarations(src, nil)
	require.NotNil(t, decls)
	ApplyDeclarations(c, parent, decls, nil)
}

func TestApplyDisplayAndColor(t *testing.T) {
	c := NewComputed()
	applySrc(t, c, nil, "display: block; color: red")
	assert.Equal(t, DisplayBlock, c.Display)
	assert.Equal(t, Color{255, 0, 0, 255}, c.Color)
}

func TestUnknownDisplayValueHidesElement(t *testing.T) {
	c := NewComputed()
	applySrc(t, c, nil, "display: flex")
	assert.Equal(t, DisplayNone, c.Display)
}

func TestUnknownPropertyIsIgnored(t *testing.T) {
	c := NewComputed()
	applySrc(t, c, nil, "box-shadow: 1px 1px; color: green")
	assert.Equal(t, Color{0, 128, 0, 255}, c.Color)
}

func TestMarginShorthandExpansion(t *testing.T) {
	cases := []struct {
		src  string
		want [4]Dimension
	}{
		{"margin: 1px", [4]Dimension{Px(1), Px(1), Px(1), Px(1)}},
		{"margin: 1px 2px", [4]Dimension{Px(1), Px(2), Px(1), Px(2)}},
		{"margin: 1px 2px 3px", [4]Dimension{Px(1), Px(2), Px(3), Px(2)}},
		{"margin: 1px 2px 3px 4px", [4]Dimension{Px(1), Px(2), Px(3), Px(4)}},
	}
	for _, tc := range cases {
		c := NewComputed()
		applySrc(t, c, nil, tc.src)
		assert.Equal(t, tc.want, c.Margin, tc.src)
	}
}

func TestMarginAcceptsAutoAndPercent(t *testing.T) {
	c := NewComputed()
	applySrc(t, c, nil, "margin: 0 auto; padding: 10%")
	assert.True(t, c.Margin[EdgeLeft].IsAuto())
	assert.True(t, c.Margin[EdgeRight].IsAuto())
	assert.Equal(t, Px(0), c.Margin[EdgeTop])
	assert.Equal(t, Dimension{Value: 10, Unit: UnitPercent}, c.Padding[EdgeBottom])
}

func TestBorderShorthandFansOutToAllEdges(t *testing.T) {
	c := NewComputed()
	applySrc(t, c, nil, "border: 2px solid blue")
	for edge := 0; edge < 4; edge++ {
		assert.Equal(t, Px(2), c.BorderWidth[edge])
		assert.Equal(t, BorderStyleSolid, c.BorderStyle[edge])
		assert.Equal(t, Color{0, 0, 255, 255}, c.BorderColor[edge])
	}
}

func TestBorderTupleOrderIndependent(t *testing.T) {
	a := NewComputed()
	applySrc(t, a, nil, "border-top: solid red thin")
	b := NewComputed()
	applySrc(t, b, nil, "border-top: thin red solid")
	assert.Equal(t, a.BorderWidth, b.BorderWidth)
	assert.Equal(t, a.BorderStyle, b.BorderStyle)
	assert.Equal(t, a.BorderColor, b.BorderColor)
	assert.Equal(t, Px(1), a.BorderWidth[EdgeTop])
}

func TestBorderNoneZeroesWidth(t *testing.T) {
	c := NewComputed()
	applySrc(t, c, nil, "border: 4px none red")
	assert.Equal(t, Px(0), c.BorderWidth[EdgeTop])
	assert.Equal(t, BorderStyleNone, c.BorderStyle[EdgeTop])
}

func TestBorderColorDefaultsToTextColor(t *testing.T) {
	c := NewComputed()
	applySrc(t, c, nil, "color: green; border: 1px solid")
	assert.Equal(t, Color{0, 128, 0, 255}, c.BorderColor[EdgeLeft])
}

func TestInheritKeyword(t *testing.T) {
	parent := NewComputed()
	applySrc(t, parent, nil, "color: teal; white-space: pre; line-height: 1.5")

	c := NewComputed()
	applySrc(t, c, parent, "color: inherit; white-space: inherit; line-height: inherit")
	assert.Equal(t, parent.Color, c.Color)
	assert.Equal(t, WhiteSpacePre, c.WhiteSpace)
	assert.Equal(t, Dimension{Value: 1.5, Unit: UnitNone}, c.LineHeight)
}

func TestInheritRejectedOnNonInheritedProperty(t *testing.T) {
	parent := NewComputed()
	applySrc(t, parent, nil, "width: 50px; background-color: yellow")

	c := NewComputed()
	applySrc(t, c, parent, "width: inherit; background-color: inherit")
	assert.True(t, c.Width.IsAuto())
	assert.Equal(t, Color{}, c.BackgroundColor)
}

func TestFontSizeKeywordRecorded(t *testing.T) {
	c := NewComputed()
	applySrc(t, c, nil, "font-size: x-large")
	assert.Equal(t, "x-large", c.FontSizeName)

	applySrc(t, c, nil, "font-size: 12pt")
	assert.Empty(t, c.FontSizeName)
	assert.Equal(t, Dimension{Value: 12, Unit: UnitPt}, c.FontSize)
}

func TestFontFamilyFirstWins(t *testing.T) {
	c := NewComputed()
	applySrc(t, c, nil, `font-family: "Comic Sans", monospace`)
	assert.Equal(t, "comic sans", c.FontFamily)
}

func TestLineHeightNumberIsMultiplier(t *testing.T) {
	c := NewComputed()
	applySrc(t, c, nil, "line-height: 1.5")
	assert.Equal(t, Dimension{Value: 1.5, Unit: UnitNone}, c.LineHeight)

	applySrc(t, c, nil, "line-height: 20px")
	assert.Equal(t, Px(20), c.LineHeight)
}

func TestUnitlessNumberIsPixels(t *testing.T) {
	c := NewComputed()
	applySrc(t, c, nil, "width: 120")
	assert.Equal(t, Px(120), c.Width)
}

func TestInheritFromCopiesInheritableOnly(t *testing.T) {
	parent := NewComputed()
	applySrc(t, parent, nil, "color: red; background-color: blue; white-space: pre")

	c := NewComputed()
	c.InheritFrom(parent)
	assert.Equal(t, parent.Color, c.Color)
	assert.Equal(t, WhiteSpacePre, c.WhiteSpace)
	// background does not inherit
	assert.Equal(t, Color{}, c.BackgroundColor)
}

func TestApplyIsIdempotent(t *testing.T) {
	decls := ParseDeclarations("margin: 1px 2px; border: 1px solid red; color: teal", nil)
	a := NewComputed()
	ApplyDeclarations(a, nil, decls, nil)
	b := a.Clone()
	ApplyDeclarations(b, nil, decls, nil)
	assert.Equal(t, a, b)
}
