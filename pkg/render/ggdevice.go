package render

import (
	"image"

	"github.com/fogleman/gg"
	"golang.org/x/image/font"

	"flowbox/pkg/css"
	"flowbox/pkg/layout"
)

// Painter is what the paint traversal draws on: the layout measurement
// surface plus primitive drawing operations. Coordinates are absolute device
// pixels, Y growing downward.
type Painter interface {
	layout.Device

	DrawBackground(x, y, w, h float64, c css.Color)
	// DrawBorder paints one border edge as a filled band. Dotted and dashed
	// edges are segmented by the caller; the device draws the quad it is
	// given. horizontal tells which axis the band runs along.
	DrawBorder(x, y, w, h float64, style css.BorderStyle, c css.Color, horizontal bool)
	// DrawText paints a run with its baseline at y.
	DrawText(x, y float64, text string, font layout.FontSpec, c css.Color)
	DrawImage(img image.Image, x, y, w, h float64)
	// PushClip intersects the clip region with the rectangle; PopClip
	// restores the previous region.
	PushClip(x, y, w, h float64)
	PopClip()
}

// GGDevice renders into an in-memory RGBA image through fogleman/gg. It also
// serves as the layout measurement device, so layout and paint always agree
// on text widths.
type GGDevice struct {
	ctx   *gg.Context
	fonts FontConfig
	faces *fontCache
	clips int
}

// NewGGDevice creates a device with a white canvas of the given pixel size.
func NewGGDevice(width, height int, fonts FontConfig) *GGDevice {
	ctx := gg.NewContext(width, height)
	ctx.SetRGB(1, 1, 1)
	ctx.Clear()
	return &GGDevice{ctx: ctx, fonts: fonts, faces: newFontCache(32)}
}

// Image returns the rendered canvas.
func (d *GGDevice) Image() image.Image { return d.ctx.Image() }

// NamedFontSize maps the CSS absolute-size keywords to pixels at the default
// 16px medium.
func (d *GGDevice) NamedFontSize(name string) float64 {
	switch name {
	case "xx-small":
		return 9
	case "x-small":
		return 10
	case "small":
		return 13
	case "large":
		return 18
	case "x-large":
		return 24
	case "xx-large":
		return 32
	default:
		return 16
	}
}

// UnitToDevice converts absolute units at 96 dpi.
func (d *GGDevice) UnitToDevice(value float64, unit css.Unit) float64 {
	switch unit {
	case css.UnitPt:
		return value * 96 / 72
	case css.UnitPc:
		return value * 16
	case css.UnitIn:
		return value * 96
	case css.UnitCm:
		return value * 96 / 2.54
	case css.UnitMm:
		return value * 96 / 25.4
	default: // px and unitless
		return value
	}
}

// MeasureText returns the advance width and line height of text in the given
// face. When no face can be loaded it estimates 0.6em per glyph.
func (d *GGDevice) MeasureText(text string, fs layout.FontSpec) (float64, float64) {
	if face := d.face(fs); face != nil {
		d.ctx.SetFontFace(face)
		w, h := d.ctx.MeasureString(text)
		return w, h
	}
	return float64(len([]rune(text))) * fs.Size * 0.6, fs.Size * 1.2
}

func (d *GGDevice) face(fs layout.FontSpec) font.Face {
	return d.faces.get(d.fonts.FontPath(fs.Family, fs.Bold, fs.Italic), fs.Size)
}

func (d *GGDevice) setColor(c css.Color) {
	d.ctx.SetRGBA255(int(c.R), int(c.G), int(c.B), int(c.A))
}

// DrawBackground fills a rectangle.
func (d *GGDevice) DrawBackground(x, y, w, h float64, c css.Color) {
	if c.A == 0 {
		return
	}
	d.setColor(c)
	d.ctx.DrawRectangle(x, y, w, h)
	d.ctx.Fill()
}

// DrawBorder paints one edge band. Double splits the band in thirds; every
// other drawn style fills it. Dotted and dashed edges arrive pre-segmented
// from the paint traversal, one band per dash.
func (d *GGDevice) DrawBorder(x, y, w, h float64, style css.BorderStyle, c css.Color, horizontal bool) {
	if c.A == 0 || w <= 0 || h <= 0 {
		return
	}
	d.setColor(c)
	switch style {
	case css.BorderStyleDouble:
		if horizontal {
			third := h / 3
			d.ctx.DrawRectangle(x, y, w, third)
			d.ctx.DrawRectangle(x, y+h-third, w, third)
		} else {
			third := w / 3
			d.ctx.DrawRectangle(x, y, third, h)
			d.ctx.DrawRectangle(x+w-third, y, third, h)
		}
		d.ctx.Fill()
	default:
		d.ctx.DrawRectangle(x, y, w, h)
		d.ctx.Fill()
	}
}

// DrawText paints a run with its baseline at y.
func (d *GGDevice) DrawText(x, y float64, text string, fs layout.FontSpec, c css.Color) {
	if c.A == 0 || text == "" {
		return
	}
	d.setColor(c)
	if face := d.face(fs); face != nil {
		d.ctx.SetFontFace(face)
	}
	d.ctx.DrawString(text, x, y)
}

// DrawImage scales img into the destination rectangle.
func (d *GGDevice) DrawImage(img image.Image, x, y, w, h float64) {
	if img == nil || w <= 0 || h <= 0 {
		return
	}
	b := img.Bounds()
	if b.Dx() == 0 || b.Dy() == 0 {
		return
	}
	d.ctx.Push()
	d.ctx.Translate(x, y)
	d.ctx.Scale(w/float64(b.Dx()), h/float64(b.Dy()))
	d.ctx.DrawImage(img, 0, 0)
	d.ctx.Pop()
}

// PushClip intersects the clip region with the rectangle. The clip is
// advisory: popping the innermost clip clears the whole region rather than
// restoring the enclosing one.
func (d *GGDevice) PushClip(x, y, w, h float64) {
	d.ctx.DrawRectangle(x, y, w, h)
	d.ctx.Clip()
	d.clips++
}

// PopClip leaves the clip region set by the matching PushClip.
func (d *GGDevice) PopClip() {
	if d.clips == 0 {
		return
	}
	d.clips--
	if d.clips == 0 {
		d.ctx.ResetClip()
	}
}
