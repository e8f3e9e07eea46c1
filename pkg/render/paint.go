package render

import (
	"flowbox/pkg/box"
	"flowbox/pkg/css"
	"flowbox/pkg/layout"
)

// Paint draws a laid-out frame tree in document order: each frame paints its
// background, then its borders, then its content, then its children, so later
// siblings cover earlier ones the way the flow stacked them.
func Paint(p Painter, root *layout.Frame) {
	paintFrame(p, root, 0, 0)
}

func paintFrame(p Painter, f *layout.Frame, ox, oy float64) {
	x := ox + f.X
	y := oy + f.Y
	s := f.Box.Style

	if s != nil && !f.Box.IsText() {
		if s.BackgroundColor.A > 0 {
			p.DrawBackground(x, y, f.Width, f.Height, s.BackgroundColor)
		}
		paintBorders(p, f, x, y)
	}

	clipped := s != nil && s.Overflow == css.OverflowHidden
	if clipped {
		p.PushClip(x, y, f.Width, f.Height)
	}

	if ic, ok := f.Box.Replaced.(*box.ImageContent); ok && ic.Img != nil {
		cx, cy := x+f.Border[css.EdgeLeft]+f.Padding[css.EdgeLeft],
			y+f.Border[css.EdgeTop]+f.Padding[css.EdgeTop]
		p.DrawImage(ic.Img, cx, cy, f.ContentWidth(), f.ContentHeight())
	}

	if s != nil {
		font := layout.FontSpec{
			Family: s.FontFamily,
			Size:   f.FontSize,
			Bold:   s.FontWeight == css.FontWeightBold,
			Italic: s.FontStyle == css.FontStyleItalic,
		}
		for _, frag := range f.Fragments {
			p.DrawText(x+frag.X, y+frag.Y+frag.Baseline, frag.Text, font, s.Color)
		}
	}

	cox := x + f.Border[css.EdgeLeft] + f.Padding[css.EdgeLeft]
	coy := y + f.Border[css.EdgeTop] + f.Padding[css.EdgeTop]
	for _, c := range f.Children {
		paintFrame(p, c, cox, coy)
	}

	if clipped {
		p.PopClip()
	}
}

// paintBorders draws the four edge bands of the border box.
func paintBorders(p Painter, f *layout.Frame, x, y float64) {
	s := f.Box.Style
	top, right := f.Border[css.EdgeTop], f.Border[css.EdgeRight]
	bottom, left := f.Border[css.EdgeBottom], f.Border[css.EdgeLeft]

	if top > 0 && s.BorderStyle[css.EdgeTop].Drawn() {
		paintEdge(p, x, y, f.Width, top,
			s.BorderStyle[css.EdgeTop], s.BorderColor[css.EdgeTop], true)
	}
	if bottom > 0 && s.BorderStyle[css.EdgeBottom].Drawn() {
		paintEdge(p, x, y+f.Height-bottom, f.Width, bottom,
			s.BorderStyle[css.EdgeBottom], s.BorderColor[css.EdgeBottom], true)
	}
	if left > 0 && s.BorderStyle[css.EdgeLeft].Drawn() {
		paintEdge(p, x, y+top, left, f.Height-top-bottom,
			s.BorderStyle[css.EdgeLeft], s.BorderColor[css.EdgeLeft], false)
	}
	if right > 0 && s.BorderStyle[css.EdgeRight].Drawn() {
		paintEdge(p, x+f.Width-right, y+top, right, f.Height-top-bottom,
			s.BorderStyle[css.EdgeRight], s.BorderColor[css.EdgeRight], false)
	}
}

// paintEdge emits one border edge. Continuous styles go out as a single band;
// dotted and dashed become a run of short bands along the edge, the pattern
// scaled to the band thickness.
func paintEdge(p Painter, x, y, w, h float64, style css.BorderStyle, c css.Color, horizontal bool) {
	thickness, length := h, w
	if !horizontal {
		thickness, length = w, h
	}
	seg, gap, dashed := dashPattern(style, thickness)
	if !dashed {
		p.DrawBorder(x, y, w, h, style, c, horizontal)
		return
	}
	for off := 0.0; off < length; off += seg + gap {
		run := seg
		if off+run > length {
			run = length - off
		}
		if horizontal {
			p.DrawBorder(x+off, y, run, h, style, c, horizontal)
		} else {
			p.DrawBorder(x, y+off, w, run, style, c, horizontal)
		}
	}
}

// dashPattern returns the segment and gap lengths for the dash-drawn border
// styles: square dots for dotted, 3:2 dashes for dashed.
func dashPattern(style css.BorderStyle, thickness float64) (seg, gap float64, ok bool) {
	switch style {
	case css.BorderStyleDotted:
		return thickness, thickness, true
	case css.BorderStyleDashed:
		return 3 * thickness, 2 * thickness, true
	}
	return 0, 0, false
}
