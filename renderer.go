package overlay

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/nxovl/overlay/display"
)

// Renderer owns the hardware display connection and the negotiated
// overlay layer. It hands out one FrameBuffer view per frame, applies
// the global opacity, and carries the scissor stack consulted by every
// draw call.
//
// Renderer is single-threaded: one frame is one synchronous pass of
// GetFramebuffer, draw, Present, WaitVSync. Only one FrameBuffer may be
// alive per Renderer at a time; this is an ownership discipline, not a
// runtime check.
type Renderer struct {
	surface display.Surface
	opacity float64

	// scissors is the clip stack. The last entry, when present, is the
	// active clip region for every draw call of the current frame.
	scissors []Rect
}

var _ io.Closer = (*Renderer)(nil)

// New negotiates a managed overlay layer of the given geometry and
// returns a Renderer bound to it. The surface comes from the display
// registry unless one is injected with WithSurface. Construction fails
// when the display service is unavailable, the layer cannot be created,
// or the geometry is invalid.
func New(x, y, width, height int, opacity float64, opts ...Option) (*Renderer, error) {
	options := defaultOptions()
	for _, opt := range opts {
		opt(&options)
	}

	surface := options.surface
	if surface == nil {
		var err error
		surface, err = display.Open(display.Geometry{
			X:           x,
			Y:           y,
			Width:       width,
			Height:      height,
			Z:           display.LayerZMax,
			BufferDepth: options.bufferDepth,
			Format:      options.format,
			Layout:      display.LayoutBlockLinear,
		})
		if err != nil {
			return nil, fmt.Errorf("overlay: create layer surface: %w", err)
		}
	}

	r := &Renderer{surface: surface}
	r.SetOpacity(opacity)

	Logger().Info("overlay: layer negotiated",
		slog.Int("width", surface.Width()),
		slog.Int("height", surface.Height()),
		slog.Int("stride", surface.Stride()))
	return r, nil
}

// Surface returns the underlying display surface.
func (r *Renderer) Surface() display.Surface { return r.surface }

// SetOpacity clamps v into [0, 1] and stores it as the global overlay
// opacity. It affects subsequent OpacityPass calls only; pixels already
// composited keep their alpha.
func (r *Renderer) SetOpacity(v float64) {
	r.opacity = min(1, max(0, v))
}

// Opacity returns the current global opacity in [0, 1].
func (r *Renderer) Opacity() float64 { return r.opacity }

// OpacityPass returns a copy of color with its alpha scaled by the
// current global opacity. Widgets call it for opacity-aware chrome.
func (r *Renderer) OpacityPass(color Color) Color {
	return color.WithA(uint8(float64(color.A()) * r.opacity))
}

// PushScissor makes clip the active clip region for subsequent draw
// calls. Pushes must be balanced with PopScissor on every exit path of
// the drawing scope, early returns included.
func (r *Renderer) PushScissor(clip Rect) {
	r.scissors = append(r.scissors, clip)
}

// PopScissor removes the active clip region, restoring the previous
// one. Popping an empty stack is a no-op.
func (r *Renderer) PopScissor() {
	if len(r.scissors) > 0 {
		r.scissors = r.scissors[:len(r.scissors)-1]
	}
}

// scissorTop returns the active clip region, if any.
func (r *Renderer) scissorTop() (Rect, bool) {
	if len(r.scissors) == 0 {
		return Rect{}, false
	}
	return r.scissors[len(r.scissors)-1], true
}

// GetFramebuffer blocks until a back-buffer slot is available and wraps
// it as a FrameBuffer sized to the surface's reported dimensions. The
// returned view is valid for the current frame only and must be handed
// to Present.
func (r *Renderer) GetFramebuffer() (*FrameBuffer, error) {
	buf, err := r.surface.Dequeue(true)
	if err != nil {
		return nil, fmt.Errorf("overlay: dequeue buffer: %w", err)
	}

	return &FrameBuffer{
		width:        r.surface.Width(),
		height:       r.surface.Height(),
		stride:       r.surface.Stride() / 2,
		format:       r.surface.Format(),
		pixels:       buf.Pixels,
		renderer:     r,
		slot:         buf.Slot,
		fencePresent: buf.FencePresent,
		fences:       buf.Fences,
	}, nil
}

// Present queues the framebuffer's slot back to the display service for
// scan-out on the next vblank. The framebuffer must not be used after
// Present returns.
func (r *Renderer) Present(fb *FrameBuffer) error {
	if err := r.surface.Queue(display.Buffer{
		Pixels:       fb.pixels,
		Slot:         fb.slot,
		FencePresent: fb.fencePresent,
		Fences:       fb.fences,
	}); err != nil {
		return fmt.Errorf("overlay: queue buffer: %w", err)
	}
	return nil
}

// WaitVSync blocks until the next vertical sync signal. The overlay
// always waits for the actual vblank; there is no timeout.
func (r *Renderer) WaitVSync() error {
	return r.surface.WaitVSync(-1)
}

// Close tears down the layer surface. The Renderer must not be used
// afterwards.
func (r *Renderer) Close() error {
	return r.surface.Close()
}
