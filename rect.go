package overlay

// Rect is an axis-aligned rectangle in framebuffer pixel coordinates.
// A Rect with zero width or height is empty and must never drive a draw
// call; Intersect may return such a degenerate value.
type Rect struct {
	Left   int
	Top    int
	Width  int
	Height int
}

// RectEmpty is the canonical empty rectangle.
var RectEmpty = Rect{}

// NewRect creates a rectangle, clamping negative dimensions to zero.
func NewRect(left, top, width, height int) Rect {
	return Rect{Left: left, Top: top, Width: max(0, width), Height: max(0, height)}
}

// Right returns the exclusive right edge.
func (r Rect) Right() int { return r.Left + r.Width }

// Bottom returns the exclusive bottom edge.
func (r Rect) Bottom() int { return r.Top + r.Height }

// Contains reports whether the point (x, y) lies inside the rectangle.
// The left and top edges are inclusive, right and bottom exclusive.
func (r Rect) Contains(x, y int) bool {
	return x >= r.Left && x < r.Right() && y >= r.Top && y < r.Bottom()
}

// IsEmpty reports whether the rectangle covers no pixels.
func (r Rect) IsEmpty() bool { return r.Width <= 0 || r.Height <= 0 }

// Intersect clamps each edge of r into other's span and returns the
// overlapping rectangle. The result is empty when r and other do not
// overlap; callers must check IsEmpty before iterating over it.
func (r Rect) Intersect(other Rect) Rect {
	left := clampInt(r.Left, other.Left, other.Right())
	top := clampInt(r.Top, other.Top, other.Bottom())
	return Rect{
		Left:   left,
		Top:    top,
		Width:  clampInt(r.Right(), other.Left, other.Right()) - left,
		Height: clampInt(r.Bottom(), other.Top, other.Bottom()) - top,
	}
}

// Inset shrinks the rectangle by n pixels on every side, degenerating to
// empty when n exceeds half the size.
func (r Rect) Inset(n int) Rect {
	return NewRect(r.Left+n, r.Top+n, r.Width-2*n, r.Height-2*n)
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
