package overlay

import "github.com/nxovl/overlay/display"

// FrameBuffer is a one-frame exclusive view over a dequeued back-buffer
// slot. It is created by Renderer.GetFramebuffer, consumed by
// Renderer.Present, and must not be retained across frames: the pixel
// slice aliases hardware memory that the display service reclaims on
// present.
type FrameBuffer struct {
	width  int
	height int
	stride int // pixels per row, >= width
	format display.PixelFormat
	pixels []uint16

	renderer *Renderer

	// Hardware synchronization metadata consumed on present.
	slot         int
	fencePresent bool
	fences       display.FenceSet
}

// Width returns the drawable width in pixels.
func (fb *FrameBuffer) Width() int { return fb.width }

// Height returns the drawable height in pixels.
func (fb *FrameBuffer) Height() int { return fb.height }

// StridePixels returns the hardware row stride in pixels. It is derived
// from the surface's byte stride and may exceed Width.
func (fb *FrameBuffer) StridePixels() int { return fb.stride }

// Slot returns the back-buffer slot index this view wraps.
func (fb *FrameBuffer) Slot() int { return fb.slot }

// Bounds returns the full drawable rectangle.
func (fb *FrameBuffer) Bounds() Rect {
	return Rect{Width: fb.width, Height: fb.height}
}

// Clear fills the whole drawable area with the background color.
func (fb *FrameBuffer) Clear() {
	fb.DrawRect(fb.Bounds(), ColorBackground)
}

// DrawRect alpha-blends color into every pixel of rect. The rect is
// clipped against the framebuffer bounds and, when the owning
// Renderer's scissor stack is non-empty, against the top-of-stack clip
// region; a fully clipped rect is a no-op. Pixels are always composited
// via Color.BlendWith, never overwritten.
//
// This is the only primitive that writes pixels; every higher-level
// drawing operation is expressed in terms of it.
func (fb *FrameBuffer) DrawRect(rect Rect, color Color) {
	rect = rect.Intersect(fb.Bounds())
	if clip, ok := fb.renderer.scissorTop(); ok {
		rect = rect.Intersect(clip)
	}
	if rect.IsEmpty() {
		return
	}

	for y := rect.Top; y < rect.Bottom(); y++ {
		row := fb.pixels[y*fb.stride:]
		for x := rect.Left; x < rect.Right(); x++ {
			row[x] = fb.encode(fb.decode(row[x]).BlendWith(color, true))
		}
	}
}

// DrawBox draws a hollow rectangular border around rect: four edge
// bands of thickness max(1, lineWidth/2) extended outward from the
// edges. Coordinates are clamped at zero rather than underflowing when
// the rect sits closer to the origin than the line offset.
func (fb *FrameBuffer) DrawBox(rect Rect, lineWidth int, color Color) {
	off := max(1, lineWidth/2)

	left := max(0, rect.Left-off)
	top := max(0, rect.Top-off)

	// Top and bottom bands span the full extended width.
	fb.DrawRect(NewRect(left, top, rect.Width+2*off, 2*off), color)
	fb.DrawRect(NewRect(left, max(0, rect.Bottom()-off), rect.Width+2*off, 2*off), color)
	// Left and right bands span the full extended height.
	fb.DrawRect(NewRect(left, top, 2*off, rect.Height+2*off), color)
	fb.DrawRect(NewRect(max(0, rect.Right()-off), top, 2*off, rect.Height+2*off), color)
}

// Pixel returns the current composited color at (x, y), or
// ColorTransparent outside the drawable area.
func (fb *FrameBuffer) Pixel(x, y int) Color {
	if !fb.Bounds().Contains(x, y) {
		return ColorTransparent
	}
	return fb.decode(fb.pixels[y*fb.stride+x])
}

// decode interprets a wire pixel in the surface's channel order.
func (fb *FrameBuffer) decode(px uint16) Color {
	if fb.format == display.FormatABGR4444 {
		// The RGBA<->ABGR permutation is its own inverse.
		return Color(Color(px).ABGR4444())
	}
	return Color(px)
}

// encode serializes a color into the surface's channel order.
func (fb *FrameBuffer) encode(c Color) uint16 {
	if fb.format == display.FormatABGR4444 {
		return c.ABGR4444()
	}
	return c.RGBA4444()
}
