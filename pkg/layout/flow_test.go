package layout

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"flowbox/pkg/box"
	"flowbox/pkg/css"
	"flowbox/pkg/markup"
)

// fakeDevice measures every rune as charW pixels wide, so expected positions
// are easy to compute by hand.
type fakeDevice struct{}

const charW = 10.0

func (fakeDevice) NamedFontSize(name string) float64 {
	switch name {
	case "x-large":
		return 24
	default:
		return 16
	}
}

func (fakeDevice) UnitToDevice(value float64, unit css.Unit) float64 {
	if unit == css.UnitPt {
		return value * 96 / 72
	}
	return value
}

func (fakeDevice) MeasureText(text string, font FontSpec) (float64, float64) {
	return float64(len([]rune(text))) * charW, font.Size
}

func boxTree(t *testing.T, src, sheet string) *box.Box {
	t.Helper()
	doc := markup.NewDocument()
	require.NoError(t, markup.ParseHTML(strings.NewReader(src), doc, markup.NewBuilder(doc, nil)))
	sl := css.NewStyleList("screen", nil)
	if sheet != "" {
		ss, err := css.Parse(sheet)
		require.NoError(t, err)
		sl.Add(ss)
	}
	root := box.NewGenerator(sl, nil).Generate(doc)
	require.NotNil(t, root)
	return root
}

func layoutHTML(t *testing.T, src, sheet string, vw, vh float64) (*Frame, *Engine) {
	t.Helper()
	f := BuildTree(boxTree(t, src, sheet))
	eng := NewEngine(fakeDevice{}, vw, vh, nil)
	eng.Flow(f)
	return f, eng
}

func TestBlockStackingCollapsesSiblingMargins(t *testing.T) {
	f, _ := layoutHTML(t,
		`<div><p class="a"></p><p class="b"></p></div>`,
		`div, p { display: block }
		 .a { height: 10px; margin-bottom: 12px }
		 .b { height: 20px; margin-top: 8px }`,
		100, 200)

	require.Len(t, f.Children, 2)
	a, b := f.Children[0], f.Children[1]
	assert.Equal(t, 0.0, a.Y)
	assert.Equal(t, 10.0, a.Height)
	// the 12px and 8px margins collapse to 12px
	assert.Equal(t, 22.0, b.Y)
	assert.Equal(t, 42.0, f.Height)
	assert.Equal(t, 100.0, f.Width)
}

func TestAutoWidthFillsContainingBlock(t *testing.T) {
	f, _ := layoutHTML(t,
		`<div><p></p></div>`,
		`div { display: block; width: 80px }
		 p { display: block; margin-left: 5px; margin-right: 5px }`,
		300, 300)

	assert.Equal(t, 80.0, f.Width)
	p := f.Children[0]
	assert.Equal(t, 70.0, p.Width)
	assert.Equal(t, 5.0, p.X)
}

func TestPercentagesResolveAgainstContainingBlock(t *testing.T) {
	f, _ := layoutHTML(t,
		`<div><p></p></div>`,
		`div { display: block; width: 200px; height: 100px }
		 p { display: block; width: 50%; height: 50% }`,
		300, 300)

	p := f.Children[0]
	assert.Equal(t, 100.0, p.Width)
	assert.Equal(t, 50.0, p.Height)
}

func TestPercentHeightAgainstAutoUsesContent(t *testing.T) {
	f, _ := layoutHTML(t,
		`<div><p><span class="inner"></span></p></div>`,
		`div, p { display: block }
		 p { height: 50% }
		 .inner { display: block; height: 30px }`,
		300, 300)

	p := f.Children[0]
	assert.Equal(t, 30.0, p.Height)
}

func TestPaddingAndBorderEnterBorderBox(t *testing.T) {
	f, _ := layoutHTML(t,
		`<div></div>`,
		`div { display: block; width: 50px; height: 20px;
		       padding: 4px; border: 2px solid black }`,
		300, 300)

	assert.Equal(t, 62.0, f.Width)
	assert.Equal(t, 32.0, f.Height)
	assert.Equal(t, 50.0, f.ContentWidth())
}

func TestUndrawnBorderHasNoWidth(t *testing.T) {
	f, _ := layoutHTML(t,
		`<div></div>`,
		`div { display: block; width: 50px; height: 20px;
		       border-width: 5px; border-style: none }`,
		300, 300)

	assert.Equal(t, 50.0, f.Width)
	assert.Equal(t, [4]float64{}, f.Border)
}

func TestTextWrapsAtSpaces(t *testing.T) {
	f, _ := layoutHTML(t,
		`<p>aaa bbb ccc</p>`,
		`p { display: block; width: 75px; font-size: 10px }`,
		300, 300)

	text := f.Children[0]
	require.Len(t, text.Fragments, 2)
	assert.Equal(t, "aaa bbb", text.Fragments[0].Text)
	assert.Equal(t, "ccc", text.Fragments[1].Text)
	assert.Equal(t, 0.0, text.Fragments[0].Y)
	// default line-height is 1.2 times the 10px font
	assert.Equal(t, 12.0, text.Fragments[1].Y)
	assert.Equal(t, 24.0, f.Height)
}

func TestNowrapKeepsOneFragment(t *testing.T) {
	f, _ := layoutHTML(t,
		`<p>aaa bbb ccc</p>`,
		`p { display: block; width: 50px; font-size: 10px; white-space: nowrap }`,
		300, 300)

	text := f.Children[0]
	require.Len(t, text.Fragments, 1)
	assert.Equal(t, 110.0, text.Fragments[0].W)
	// the overflowing fragment still lands in the bounds
	assert.GreaterOrEqual(t, f.Bounds().W, 110.0)
}

func TestPreservedNewlinesForceLines(t *testing.T) {
	f, _ := layoutHTML(t,
		"<p>a\nb</p>",
		`p { display: block; white-space: pre; font-size: 10px }`,
		300, 300)

	text := f.Children[0]
	require.Len(t, text.Fragments, 2)
	assert.Equal(t, "a", text.Fragments[0].Text)
	assert.Equal(t, "b", text.Fragments[1].Text)
	assert.Equal(t, 12.0, text.Fragments[1].Y)
	assert.Equal(t, 24.0, f.Height)
}

func TestTextAlignCenterShiftsLine(t *testing.T) {
	f, _ := layoutHTML(t,
		`<p>abcd</p>`,
		`p { display: block; width: 100px; font-size: 10px; text-align: center }`,
		300, 300)

	text := f.Children[0]
	require.Len(t, text.Fragments, 1)
	assert.Equal(t, 30.0, text.Fragments[0].X)
}

func TestTextIndentOffsetsFirstLine(t *testing.T) {
	f, _ := layoutHTML(t,
		`<p>ab</p>`,
		`p { display: block; width: 200px; font-size: 10px; text-indent: 20px }`,
		300, 300)

	text := f.Children[0]
	require.Len(t, text.Fragments, 1)
	assert.Equal(t, 20.0, text.Fragments[0].X)
}

func TestInlineBlockShrinksToFit(t *testing.T) {
	f, _ := layoutHTML(t,
		`<div><span class="ib">abc</span></div>`,
		`div { display: block; width: 200px; font-size: 10px }
		 .ib { display: inline-block }`,
		300, 300)

	ib := f.Children[0]
	assert.Equal(t, 30.0, ib.Width)
	assert.Equal(t, 12.0, ib.Height)
	assert.Equal(t, 12.0, f.Height)
}

func TestBlockInsideInlineInterruptsLine(t *testing.T) {
	f, _ := layoutHTML(t,
		`<p><span>aa<div>xx</div>bb</span></p>`,
		`p, div { display: block }
		 p { width: 200px; font-size: 10px }`,
		300, 300)

	require.Len(t, f.Children, 1)
	span := f.Children[0]
	assert.False(t, span.Box.InlineContext)
	require.Len(t, span.Children, 3)

	before, div, after := span.Children[0], span.Children[1], span.Children[2]
	assert.Equal(t, "aa", before.Box.VisibleText())
	assert.Equal(t, 0.0, before.Y)
	// the div lays out as a full-width block between the two text lines
	assert.Equal(t, 200.0, div.Width)
	assert.Equal(t, 12.0, div.Y)
	assert.Equal(t, 24.0, after.Y)
	assert.Equal(t, 36.0, span.Height)
	assert.Equal(t, 36.0, f.Height)
}

func TestTextResumesBelowBlockInInline(t *testing.T) {
	f, _ := layoutHTML(t,
		`<p>x<span>a<div>d</div></span>y</p>`,
		`p, div { display: block }
		 p { width: 200px; font-size: 10px }`,
		300, 300)

	require.Len(t, f.Children, 3)
	span := f.Children[1]
	assert.Equal(t, 12.0, span.Y)
	assert.Equal(t, 24.0, span.Height)

	tail := f.Children[2]
	require.Len(t, tail.Fragments, 1)
	assert.Equal(t, "y", tail.Fragments[0].Text)
	assert.Equal(t, 0.0, tail.Fragments[0].X)
	assert.Equal(t, 36.0, tail.Fragments[0].Y)
	assert.Equal(t, 48.0, f.Height)
}

type fixedImage struct{ w, h float64 }

func (r fixedImage) IntrinsicSize() (float64, float64) { return r.w, r.h }
func (r fixedImage) Source() string                    { return "fixed" }

type fixedImageGen struct{}

func (fixedImageGen) CreateBox(name string, attrs map[string]string) *box.Box {
	b := box.NewBox(markup.Node{}, nil)
	b.Replaced = fixedImage{w: 40, h: 20}
	return b
}

func TestReplacedKeepsAspectRatio(t *testing.T) {
	doc := markup.NewDocument()
	src := `<div><img></div>`
	require.NoError(t, markup.ParseHTML(strings.NewReader(src), doc, markup.NewBuilder(doc, nil)))
	sl := css.NewStyleList("screen", nil)
	ss, err := css.Parse(`div { display: block } img { width: 80px }`)
	require.NoError(t, err)
	sl.Add(ss)

	gen := box.NewGenerator(sl, nil)
	require.NoError(t, gen.Register("img", fixedImageGen{}))
	f := BuildTree(gen.Generate(doc))
	NewEngine(fakeDevice{}, 300, 300, nil).Flow(f)

	img := f.Children[0]
	assert.Equal(t, 80.0, img.Width)
	assert.Equal(t, 40.0, img.Height)
}

func TestFlowLeavesTreeClean(t *testing.T) {
	f, _ := layoutHTML(t,
		`<div><p>hello world</p><p>more</p></div>`,
		`div, p { display: block }`,
		300, 300)
	assert.False(t, f.anyDirty())
}

func TestFlowMasterIsNearestFixedAncestor(t *testing.T) {
	f, _ := layoutHTML(t,
		`<div><div class="fixed"><p>x</p></div></div>`,
		`div, p { display: block }
		 .fixed { width: 50px; height: 40px }`,
		300, 300)

	fixed := f.Children[0]
	p := fixed.Children[0]
	assert.Same(t, fixed, p.FlowMaster())
	assert.Same(t, f, fixed.Parent.FlowMaster())

	p.MarkDirty()
	assert.True(t, fixed.Dirty())
	assert.False(t, f.Dirty())
}

func TestReflowAfterStyleChange(t *testing.T) {
	f, eng := layoutHTML(t,
		`<div><p>x</p></div>`,
		`div, p { display: block; font-size: 10px }`,
		300, 300)
	p := f.Children[0]
	assert.Equal(t, 12.0, p.Height)

	p.Box.Style.Height = css.Px(30)
	p.MarkDirty()
	eng.Flow(f)

	assert.Equal(t, 30.0, p.Height)
	assert.Equal(t, 30.0, f.Height)
	assert.False(t, f.anyDirty())
}

func TestBoundsCoverDescendants(t *testing.T) {
	f, _ := layoutHTML(t,
		`<div><p class="inner"></p></div>`,
		`div { display: block; width: 100px; height: 50px }
		 .inner { display: block; width: 20px; height: 20px; margin-left: 10px }`,
		300, 300)

	inner := f.Children[0]
	ib := inner.Bounds()
	assert.Equal(t, Rect{X: 10, Y: 0, W: 20, H: 20}, ib)

	ob := f.Bounds()
	assert.True(t, ob.Contains(ib.X, ib.Y))
	assert.True(t, ob.Contains(ib.X+ib.W-1, ib.Y+ib.H-1))
	// half-open: the far edge is outside
	assert.False(t, ob.Contains(ob.X+ob.W, ob.Y))
}

func TestNamedFontSizeResolvedByDevice(t *testing.T) {
	f, _ := layoutHTML(t,
		`<p>x</p>`,
		`p { display: block; font-size: x-large }`,
		300, 300)
	assert.Equal(t, 24.0, f.FontSize)
}

func TestInheritedFontSizeNotAppliedTwice(t *testing.T) {
	f, _ := layoutHTML(t,
		`<div><p>x</p></div>`,
		`div, p { display: block } div { font-size: 2em }`,
		300, 300)

	// div: 2em of the 16px default; p inherits the dimension unchanged and
	// must not double it
	assert.Equal(t, 32.0, f.FontSize)
	assert.Equal(t, 32.0, f.Children[0].FontSize)
}
