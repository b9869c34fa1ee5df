package overlay

// DebugRectangle is the simplest Element: a flat-color rectangle. It is
// not focusable and consumes no input; it exists to visualize layout
// claims during development.
type DebugRectangle struct {
	Base
	color Color
}

var _ Element = (*DebugRectangle)(nil)

// NewDebugRectangle creates a flat rectangle of the given color.
func NewDebugRectangle(bounds Rect, color Color) *DebugRectangle {
	return &DebugRectangle{Base: NewBase(bounds), color: color}
}

// Draw fills the bounds with the rectangle's color.
func (d *DebugRectangle) Draw(fb *FrameBuffer) {
	fb.DrawRect(d.BoundsRect(), d.color)
}
