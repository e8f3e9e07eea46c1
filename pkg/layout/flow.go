package layout

import (
	"io"
	"strings"

	"github.com/charmbracelet/log"

	"flowbox/pkg/css"
)

// DefaultFontSize is the root font size in device pixels.
const DefaultFontSize = 16.0

// maxFlowPasses bounds the settle loop. Each pass only re-flows frames whose
// size changed under them, so real documents settle in one or two passes.
const maxFlowPasses = 8

// Engine runs the flow algorithm: it resolves dimensions against containing
// blocks, stacks block children, fills line boxes with inline content, and
// repeats over dirty frames until every size is stable.
type Engine struct {
	dev    Device
	logger *log.Logger

	ViewportW float64
	ViewportH float64
}

// NewEngine creates a flow engine for the given device and viewport. A nil
// logger discards.
func NewEngine(dev Device, viewportW, viewportH float64, logger *log.Logger) *Engine {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Engine{dev: dev, logger: logger, ViewportW: viewportW, ViewportH: viewportH}
}

// Flow brings the frame tree to a clean state and recomputes absolute
// bounds. Dirty frames are re-flowed in place; a frame whose size changed
// dirties its parent's flow master, and the loop runs until nothing moves.
func (e *Engine) Flow(root *Frame) {
	for pass := 0; pass < maxFlowPasses && root.anyDirty(); pass++ {
		e.flowDirty(root, e.ViewportW, e.ViewportH, DefaultFontSize)
	}
	if root.anyDirty() {
		e.logger.Warn("layout did not settle", "passes", maxFlowPasses)
		markClean(root)
	}
	UpdateBounds(root, 0, 0)
}

// flowDirty descends to dirty frames and re-flows them with the containing
// block they were last given.
func (e *Engine) flowDirty(f *Frame, cbW, cbH, parentFont float64) {
	if f.state == flowDirty {
		oldW, oldH := f.Width, f.Height
		e.flowFrame(f, cbW, cbH, parentFont)
		if (f.Width != oldW || f.Height != oldH) && f.Parent != nil {
			// Siblings below must move; the parent's flow master sees
			// to it on the next pass.
			f.Parent.MarkDirty()
		}
		return
	}
	for _, c := range f.Children {
		e.flowDirty(c, f.ContentWidth(), e.innerCBHeight(f), f.FontSize)
	}
}

// innerCBHeight returns the containing-block height the frame offers its
// children; negative when it depends on content and percentages cannot bind.
func (e *Engine) innerCBHeight(f *Frame) float64 {
	if f.Box.Style == nil || f.Box.Style.Height.IsAuto() {
		return -1
	}
	return f.ContentHeight()
}

func (e *Engine) flowFrame(f *Frame, cbW, cbH, parentFont float64) {
	if f.Box.IsText() {
		// Text geometry is owned by the parent's line layout.
		f.state = flowClean
		return
	}
	f.state = flowFlowing

	s := f.Box.Style
	var parentStyle *css.Computed
	if f.Parent != nil {
		parentStyle = f.Parent.Box.Style
	}
	f.FontSize = childFontSize(e.dev, s, parentStyle, parentFont)
	e.resolveEdges(f, cbW)

	if f.Box.Replaced != nil {
		e.sizeReplaced(f, cbW, cbH)
		f.state = flowClean
		return
	}

	// Width first: children need it as their containing block.
	shrink := false
	switch {
	case !s.Width.IsAuto():
		f.Width = resolve(e.dev, s.Width, cbW, f.FontSize) + f.edgesX()
	case s.Display == css.DisplayInlineBlock:
		// Shrink-to-fit: lay out at the available width, then clamp to
		// the widest line and lay out again.
		shrink = true
		f.Width = cbW - f.Margin[css.EdgeLeft] - f.Margin[css.EdgeRight]
	default:
		f.Width = cbW - f.Margin[css.EdgeLeft] - f.Margin[css.EdgeRight]
	}
	if f.Width < f.edgesX() {
		f.Width = f.edgesX()
	}

	contentH := e.flowChildren(f, cbH)
	if shrink {
		natural := e.naturalWidth(f)
		if natural+f.edgesX() < f.Width {
			f.Width = natural + f.edgesX()
			contentH = e.flowChildren(f, cbH)
		}
	}

	switch {
	case s.Height.IsAuto():
		f.Height = contentH + f.edgesY()
	case s.Height.IsPercent() && cbH < 0:
		// Percentage against an auto containing block falls back to
		// the content height.
		f.Height = contentH + f.edgesY()
	default:
		f.Height = resolve(e.dev, s.Height, cbH, f.FontSize) + f.edgesY()
	}
	f.state = flowClean
}

// flowChildren lays out the frame's children inside its content box and
// returns the content height.
func (e *Engine) flowChildren(f *Frame, cbH float64) float64 {
	if len(f.Children) == 0 {
		return 0
	}
	if f.Box.InlineContext {
		return e.flowInline(f)
	}
	return e.stackBlocks(f, cbH)
}

// stackBlocks positions block-level children top to bottom, collapsing
// adjacent vertical margins between siblings.
func (e *Engine) stackBlocks(f *Frame, cbH float64) float64 {
	contentW := f.ContentWidth()
	innerH := -1.0
	s := f.Box.Style
	if !s.Height.IsAuto() && !(s.Height.IsPercent() && cbH < 0) {
		innerH = resolve(e.dev, s.Height, max(cbH, 0), f.FontSize)
	}
	y := 0.0
	prevMarginBottom := 0.0
	for i, c := range f.Children {
		e.flowFrame(c, contentW, innerH, f.FontSize)
		gap := c.Margin[css.EdgeTop]
		if i > 0 {
			gap = max(prevMarginBottom, c.Margin[css.EdgeTop])
		}
		y += gap
		c.X = c.Margin[css.EdgeLeft]
		c.Y = y
		y += c.Height
		prevMarginBottom = c.Margin[css.EdgeBottom]
	}
	return y + prevMarginBottom
}

// naturalWidth returns the widest line (or child margin box) laid out so far,
// for shrink-to-fit sizing.
func (e *Engine) naturalWidth(f *Frame) float64 {
	w := 0.0
	for _, c := range f.Children {
		if c.Box.IsText() {
			for _, frag := range c.Fragments {
				w = max(w, frag.X+frag.W)
			}
			continue
		}
		w = max(w, c.X+c.MarginBoxWidth()-c.Margin[css.EdgeLeft])
		w = max(w, e.naturalWidth(c))
	}
	return w
}

func (e *Engine) resolveEdges(f *Frame, cbW float64) {
	s := f.Box.Style
	for edge := 0; edge < 4; edge++ {
		f.Margin[edge] = resolve(e.dev, s.Margin[edge], cbW, f.FontSize)
		f.Padding[edge] = resolve(e.dev, s.Padding[edge], cbW, f.FontSize)
		if s.BorderStyle[edge].Drawn() {
			f.Border[edge] = resolve(e.dev, s.BorderWidth[edge], cbW, f.FontSize)
		} else {
			f.Border[edge] = 0
		}
	}
}

func (f *Frame) edgesX() float64 {
	return f.Border[css.EdgeLeft] + f.Border[css.EdgeRight] +
		f.Padding[css.EdgeLeft] + f.Padding[css.EdgeRight]
}

func (f *Frame) edgesY() float64 {
	return f.Border[css.EdgeTop] + f.Border[css.EdgeBottom] +
		f.Padding[css.EdgeTop] + f.Padding[css.EdgeBottom]
}

// sizeReplaced sizes a replaced frame from its style, falling back to the
// intrinsic size and keeping the aspect ratio when only one axis is authored.
func (e *Engine) sizeReplaced(f *Frame, cbW, cbH float64) {
	iw, ih := f.Box.Replaced.IntrinsicSize()
	s := f.Box.Style
	w, h := iw, ih
	wAuto := s.Width.IsAuto()
	hAuto := s.Height.IsAuto() || (s.Height.IsPercent() && cbH < 0)
	if !wAuto {
		w = resolve(e.dev, s.Width, cbW, f.FontSize)
	}
	if !hAuto {
		h = resolve(e.dev, s.Height, max(cbH, 0), f.FontSize)
	}
	if !wAuto && hAuto && iw > 0 {
		h = ih * w / iw
	}
	if wAuto && !hAuto && ih > 0 {
		w = iw * h / ih
	}
	f.Width = w + f.edgesX()
	f.Height = h + f.edgesY()
}

// childFontSize resolves a frame's font size. A style that merely inherited
// its font-size reuses the parent's resolved pixels, so relative units are
// never applied twice.
func childFontSize(dev Device, style, parentStyle *css.Computed, parentResolved float64) float64 {
	if style == nil {
		return parentResolved
	}
	if parentStyle != nil &&
		style.FontSize == parentStyle.FontSize &&
		style.FontSizeName == parentStyle.FontSizeName {
		return parentResolved
	}
	return FontSize(dev, style, parentResolved)
}

func markClean(f *Frame) {
	f.state = flowClean
	for _, c := range f.Children {
		markClean(c)
	}
}

// lineItem is one placed piece of the current line: either a text fragment or
// an atomic inline frame.
type lineItem struct {
	frag  *Fragment
	owner *Frame
	frame *Frame
	w, h  float64
}

// liner accumulates inline content into line boxes inside one block
// container's content box.
type liner struct {
	e    *Engine
	f    *Frame
	maxW float64

	x, y    float64
	items   []lineItem
	started bool
}

func (e *Engine) flowInline(f *Frame) float64 {
	ln := &liner{e: e, f: f, maxW: f.ContentWidth()}
	ln.x = resolve(e.dev, f.Box.Style.TextIndent, ln.maxW, f.FontSize)
	e.placeInline(f, f, ln)
	ln.breakLine()
	return ln.y
}

// placeInline walks container's children, flattening nested inline boxes into
// parent's line flow. Atomic frames (inline-block, replaced) are flowed as
// units.
func (e *Engine) placeInline(root, container *Frame, ln *liner) {
	for _, c := range container.Children {
		switch {
		case c.Box.IsText():
			e.placeText(root, c, ln)
		case c.Box.Replaced != nil || c.Box.Style.Display == css.DisplayInlineBlock:
			e.placeAtomic(root, c, ln)
		case !c.Box.InlineContext:
			// An inline box that holds a block-level child interrupts the
			// line flow: close the current line, lay the box out as a
			// full-width block, and resume lines below it.
			ln.breakLine()
			e.flowFrame(c, ln.maxW, -1, root.FontSize)
			c.X = c.Margin[css.EdgeLeft]
			c.Y = ln.y + c.Margin[css.EdgeTop]
			ln.y += c.Margin[css.EdgeTop] + c.Height + c.Margin[css.EdgeBottom]
			ln.x = 0
			ln.started = false
		default:
			// Nested inline box: its geometry is the union of its
			// pieces, taken care of by UpdateBounds.
			c.X, c.Y, c.Width, c.Height = 0, 0, 0, 0
			c.state = flowClean
			e.placeInline(root, c, ln)
		}
	}
}

func (e *Engine) placeText(root, t *Frame, ln *liner) {
	s := t.Box.Style
	var parentStyle *css.Computed
	if t.Parent != nil {
		parentStyle = t.Parent.Box.Style
	}
	t.FontSize = childFontSize(e.dev, s, parentStyle, root.FontSize)
	font := FontFor(e.dev, s, root.FontSize)
	font.Size = t.FontSize
	lineH := resolveLineHeight(e.dev, s, t.FontSize)

	t.Fragments = nil
	t.X, t.Y, t.Width, t.Height = 0, 0, 0, 0
	t.state = flowClean

	text, _ := t.Box.Text()
	wraps := s.WhiteSpace.Wraps()
	for pi, para := range strings.Split(text, "\n") {
		if pi > 0 {
			ln.breakLine()
		}
		rest := para
		for rest != "" {
			if !wraps {
				ln.addFragment(t, rest, font, lineH)
				break
			}
			avail := ln.maxW - ln.x
			head, tail := fitText(e.dev, rest, font, avail, len(ln.items) == 0)
			if head == "" {
				ln.breakLine()
				continue
			}
			ln.addFragment(t, head, font, lineH)
			rest = tail
		}
	}
}

func (e *Engine) placeAtomic(root, c *Frame, ln *liner) {
	e.flowFrame(c, ln.maxW, -1, root.FontSize)
	w := c.MarginBoxWidth()
	if len(ln.items) > 0 && ln.x+w > ln.maxW {
		ln.breakLine()
	}
	c.X = ln.x + c.Margin[css.EdgeLeft]
	ln.items = append(ln.items, lineItem{frame: c, w: w,
		h: c.Height + c.Margin[css.EdgeTop] + c.Margin[css.EdgeBottom]})
	ln.x += w
}

// addFragment appends one measured text piece to the current line. The
// rendered text drops break opportunities and hanging trailing spaces.
func (ln *liner) addFragment(t *Frame, raw string, font FontSpec, lineH float64) {
	shown := measurable(raw)
	w, textH := ln.e.dev.MeasureText(shown, font)
	h := max(lineH, textH)
	frag := &Fragment{Text: shown, X: ln.x, W: w, H: h, Baseline: textH * 0.8}
	ln.items = append(ln.items, lineItem{frag: frag, owner: t, w: w, h: h})
	ln.x += w
}

// breakLine closes the current line: it assigns vertical positions, applies
// text-align, and moves the cursor to the next line.
func (ln *liner) breakLine() {
	if len(ln.items) == 0 {
		if ln.started {
			// A forced break on an empty line still advances.
			ln.y += ln.f.FontSize * 1.2
		}
		ln.x = 0
		ln.started = true
		return
	}
	lineH := 0.0
	lineW := 0.0
	for _, it := range ln.items {
		lineH = max(lineH, it.h)
		lineW = max(lineW, ln.itemRight(it))
	}
	shift := 0.0
	switch ln.f.Box.Style.TextAlign {
	case css.TextAlignRight:
		shift = ln.maxW - lineW
	case css.TextAlignCenter:
		shift = (ln.maxW - lineW) / 2
	}
	if shift < 0 {
		shift = 0
	}
	for _, it := range ln.items {
		if it.frag != nil {
			it.frag.X += shift
			it.frag.Y = ln.y + (lineH - it.h)
			it.owner.Fragments = append(it.owner.Fragments, *it.frag)
			continue
		}
		it.frame.X += shift
		it.frame.Y = ln.y + (lineH - it.h) + it.frame.Margin[css.EdgeTop]
	}
	ln.y += lineH
	ln.x = 0
	ln.items = ln.items[:0]
	ln.started = true
}

func (ln *liner) itemRight(it lineItem) float64 {
	if it.frag != nil {
		return it.frag.X + it.w
	}
	return it.frame.X - it.frame.Margin[css.EdgeLeft] + it.w
}

// resolveLineHeight turns the line-height property into device pixels; a
// bare number multiplies the font size.
func resolveLineHeight(dev Device, s *css.Computed, fontSize float64) float64 {
	lh := s.LineHeight
	if lh.Unit == css.UnitNone {
		return lh.Value * fontSize
	}
	return resolve(dev, lh, fontSize, fontSize)
}
