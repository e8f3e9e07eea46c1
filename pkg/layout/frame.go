package layout

import (
	"flowbox/pkg/box"
	"flowbox/pkg/css"
)

type flowState uint8

const (
	flowClean flowState = iota
	flowDirty
	flowFlowing
)

// Fragment is one laid-out line piece of a text frame, positioned relative to
// the frame's origin.
type Fragment struct {
	Text       string
	X, Y, W, H float64
	Baseline   float64 // distance from fragment top to the text baseline
}

// Frame is the geometry node paired with one box. X and Y locate the frame's
// border box relative to the parent's content box; Width and Height are the
// border-box size. A text frame additionally carries its line fragments.
type Frame struct {
	Box      *box.Box
	Parent   *Frame
	Children []*Frame

	X, Y          float64
	Width, Height float64

	// Resolved edge extents in device pixels, clockwise from the top.
	Margin, Padding, Border [4]float64

	Fragments []Fragment

	// FontSize is the resolved font size in device pixels, needed to
	// resolve em units on this frame's own properties.
	FontSize float64

	state  flowState
	bounds Rect
}

// BuildTree mirrors a box tree into a frame tree. All frames start dirty.
func BuildTree(b *box.Box) *Frame {
	return buildFrame(b, nil)
}

func buildFrame(b *box.Box, parent *Frame) *Frame {
	f := &Frame{Box: b, Parent: parent, state: flowDirty}
	if parent != nil {
		parent.Children = append(parent.Children, f)
	}
	for _, c := range b.Children() {
		buildFrame(c, f)
	}
	return f
}

// Dirty reports whether the frame needs reflow.
func (f *Frame) Dirty() bool { return f.state == flowDirty }

// MarkDirty flags the frame's flow master for reflow. Marking anything below
// the master would let a size change escape unnoticed, so the dirt always
// lands on the master itself.
func (f *Frame) MarkDirty() {
	f.FlowMaster().state = flowDirty
}

// FlowMaster returns the nearest self-or-ancestor whose size cannot change
// when its contents change: both width and height are authored (not auto).
// The root frame is always a flow master.
func (f *Frame) FlowMaster() *Frame {
	cur := f
	for cur.Parent != nil {
		s := cur.Box.Style
		if s != nil && !s.Width.IsAuto() && !s.Height.IsAuto() {
			return cur
		}
		cur = cur.Parent
	}
	return cur
}

// Root returns the top of the frame tree.
func (f *Frame) Root() *Frame {
	cur := f
	for cur.Parent != nil {
		cur = cur.Parent
	}
	return cur
}

// ContentWidth returns the width of the content box.
func (f *Frame) ContentWidth() float64 {
	return f.Width - f.Border[css.EdgeLeft] - f.Border[css.EdgeRight] -
		f.Padding[css.EdgeLeft] - f.Padding[css.EdgeRight]
}

// ContentHeight returns the height of the content box.
func (f *Frame) ContentHeight() float64 {
	return f.Height - f.Border[css.EdgeTop] - f.Border[css.EdgeBottom] -
		f.Padding[css.EdgeTop] - f.Padding[css.EdgeBottom]
}

// contentOrigin returns the content box origin relative to the border box.
func (f *Frame) contentOrigin() (float64, float64) {
	return f.Border[css.EdgeLeft] + f.Padding[css.EdgeLeft],
		f.Border[css.EdgeTop] + f.Padding[css.EdgeTop]
}

// MarginBoxWidth returns the frame width including horizontal margins.
func (f *Frame) MarginBoxWidth() float64 {
	return f.Width + f.Margin[css.EdgeLeft] + f.Margin[css.EdgeRight]
}

// Bounds returns the frame's absolute bounding rectangle, unioned with all
// descendant bounds. Valid after UpdateBounds.
func (f *Frame) Bounds() Rect { return f.bounds }

// FindFrame returns the frame paired with the given box, or nil.
func (f *Frame) FindFrame(b *box.Box) *Frame {
	if f.Box == b {
		return f
	}
	for _, c := range f.Children {
		if found := c.FindFrame(b); found != nil {
			return found
		}
	}
	return nil
}

func (f *Frame) anyDirty() bool {
	if f.state == flowDirty {
		return true
	}
	for _, c := range f.Children {
		if c.anyDirty() {
			return true
		}
	}
	return false
}
