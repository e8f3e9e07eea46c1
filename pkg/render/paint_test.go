package render

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"flowbox/pkg/css"
	"flowbox/pkg/layout"
)

// quadPainter records every border band it is asked to draw.
type quadPainter struct {
	quads [][4]float64
}

func (p *quadPainter) NamedFontSize(string) float64               { return 16 }
func (p *quadPainter) UnitToDevice(v float64, _ css.Unit) float64 { return v }
func (p *quadPainter) MeasureText(text string, font layout.FontSpec) (float64, float64) {
	return float64(len([]rune(text))) * 10, font.Size
}
func (p *quadPainter) DrawBackground(x, y, w, h float64, _ css.Color) {}
func (p *quadPainter) DrawBorder(x, y, w, h float64, _ css.BorderStyle, _ css.Color, _ bool) {
	p.quads = append(p.quads, [4]float64{x, y, w, h})
}
func (p *quadPainter) DrawText(x, y float64, text string, _ layout.FontSpec, _ css.Color) {}
func (p *quadPainter) DrawImage(img image.Image, x, y, w, h float64)                      {}
func (p *quadPainter) PushClip(x, y, w, h float64)                                        {}
func (p *quadPainter) PopClip()                                                           {}

func TestSolidEdgeIsOneBand(t *testing.T) {
	p := &quadPainter{}
	paintEdge(p, 0, 0, 10, 1, css.BorderStyleSolid, css.Color{A: 255}, true)
	require.Len(t, p.quads, 1)
	assert.Equal(t, [4]float64{0, 0, 10, 1}, p.quads[0])
}

func TestDottedEdgeSegmentedByThickness(t *testing.T) {
	p := &quadPainter{}
	paintEdge(p, 0, 5, 10, 1, css.BorderStyleDotted, css.Color{A: 255}, true)
	// square 1px dots with 1px gaps along the 10px edge
	require.Len(t, p.quads, 5)
	for i, q := range p.quads {
		assert.Equal(t, [4]float64{float64(2 * i), 5, 1, 1}, q)
	}
}

func TestDashedVerticalEdgeClampsLastSegment(t *testing.T) {
	p := &quadPainter{}
	paintEdge(p, 0, 0, 2, 14, css.BorderStyleDashed, css.Color{A: 255}, false)
	// thickness 2: 6px dashes, 4px gaps, the final dash cut to the edge
	require.Len(t, p.quads, 2)
	assert.Equal(t, [4]float64{0, 0, 2, 6}, p.quads[0])
	assert.Equal(t, [4]float64{0, 10, 2, 4}, p.quads[1])
}

func TestDashPattern(t *testing.T) {
	seg, gap, ok := dashPattern(css.BorderStyleDotted, 3)
	assert.True(t, ok)
	assert.Equal(t, 3.0, seg)
	assert.Equal(t, 3.0, gap)

	seg, gap, ok = dashPattern(css.BorderStyleDashed, 2)
	assert.True(t, ok)
	assert.Equal(t, 6.0, seg)
	assert.Equal(t, 4.0, gap)

	_, _, ok = dashPattern(css.BorderStyleSolid, 2)
	assert.False(t, ok)
}
