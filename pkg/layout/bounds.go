package layout

// Rect is an axis-aligned rectangle in absolute device coordinates, Y growing
// downward.
type Rect struct {
	X, Y, W, H float64
}

// Contains reports whether the point lies inside the rectangle.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}

// Union returns the smallest rectangle covering both.
func (r Rect) Union(o Rect) Rect {
	if r.W == 0 && r.H == 0 {
		return o
	}
	if o.W == 0 && o.H == 0 {
		return r
	}
	x0 := min(r.X, o.X)
	y0 := min(r.Y, o.Y)
	x1 := max(r.X+r.W, o.X+o.W)
	y1 := max(r.Y+r.H, o.Y+o.H)
	return Rect{X: x0, Y: y0, W: x1 - x0, H: y1 - y0}
}

// UpdateBounds computes absolute bounding rectangles for the whole tree in
// one post-order pass. Each frame's bounds cover its own border box plus every
// descendant, so overflowing content stays hit-testable.
func UpdateBounds(f *Frame, originX, originY float64) {
	absX := originX + f.X
	absY := originY + f.Y
	own := Rect{X: absX, Y: absY, W: f.Width, H: f.Height}
	cx, cy := f.contentOrigin()
	for _, c := range f.Children {
		UpdateBounds(c, absX+cx, absY+cy)
		own = own.Union(c.bounds)
	}
	for _, frag := range f.Fragments {
		own = own.Union(Rect{X: absX + frag.X, Y: absY + frag.Y, W: frag.W, H: frag.H})
	}
	f.bounds = own
}

func min(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func max(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
