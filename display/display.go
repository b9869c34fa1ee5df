// Package display abstracts the hardware display service that owns the
// overlay's layer surface. A Surface hands out back-buffer slots, accepts
// them back for presentation, and paces frame production with vsync.
//
// Implementations are registered in a factory registry; the software
// surface is always available, hardware surfaces register themselves on
// import (see the wgpu subpackage).
package display

import (
	"errors"
	"time"
)

// Common surface errors.
var (
	// ErrNotAvailable is returned when no surface implementation can
	// service the requested geometry.
	ErrNotAvailable = errors.New("display: not available")

	// ErrNoFreeSlot is returned by a non-blocking Dequeue when every
	// back-buffer slot is owned by the consumer.
	ErrNoFreeSlot = errors.New("display: no free buffer slot")

	// ErrClosed is returned when operations are attempted on a closed
	// surface.
	ErrClosed = errors.New("display: surface closed")

	// ErrInvalidGeometry is returned when the requested layer geometry
	// cannot be negotiated.
	ErrInvalidGeometry = errors.New("display: invalid layer geometry")

	// ErrTimeout is returned when a bounded WaitVSync elapses before
	// the next vblank.
	ErrTimeout = errors.New("display: vsync wait timed out")
)

// PixelFormat identifies the 16-bit channel order of the layer surface.
type PixelFormat int

const (
	// FormatRGBA4444 stores red in the high nibble.
	FormatRGBA4444 PixelFormat = iota
	// FormatABGR4444 stores alpha in the high nibble.
	FormatABGR4444
)

// Layout identifies the memory layout negotiated for the surface.
// Block-linear tiling is opaque to the compositor; it only matters to
// the hardware consumer.
type Layout int

const (
	LayoutLinear Layout = iota
	LayoutBlockLinear
)

// LayerZMax places the overlay layer above every application layer.
const LayerZMax = -1

// Geometry describes the managed overlay layer requested from the
// display service.
type Geometry struct {
	X           int
	Y           int
	Width       int
	Height      int
	Z           int
	BufferDepth int
	Format      PixelFormat
	Layout      Layout
}

// Validate reports whether the geometry can describe a real layer.
func (g Geometry) Validate() error {
	if g.Width <= 0 || g.Height <= 0 || g.BufferDepth <= 0 {
		return ErrInvalidGeometry
	}
	return nil
}

// Fence is one hardware synchronization token. The display service
// signals it when the associated buffer is safe to reuse.
type Fence struct {
	ID    uint32
	Value uint32
}

// FenceSet carries the fences attached to a dequeued buffer. At most
// four fences accompany a slot, matching the hardware's multi-fence
// descriptor.
type FenceSet struct {
	Count  int
	Fences [4]Fence
}

// Buffer is one dequeued back-buffer slot. Pixels is the slot's raw
// 16-bit storage, stride-sized: rows may be wider than the surface
// width due to hardware alignment.
type Buffer struct {
	Pixels       []uint16
	Slot         int
	FencePresent bool
	Fences       FenceSet
}

// Surface is one negotiated overlay layer. It is not safe for
// concurrent use; the compositor drives it from a single thread.
type Surface interface {
	// Width returns the layer width in pixels.
	Width() int

	// Height returns the layer height in pixels.
	Height() int

	// Stride returns the number of bytes per pixel row. This is
	// derived from the hardware allocation and may exceed Width()*2.
	Stride() int

	// Format returns the negotiated 16-bit channel order.
	Format() PixelFormat

	// Dequeue acquires a free back-buffer slot. When block is true it
	// waits until the display service releases one; otherwise it
	// returns ErrNoFreeSlot immediately when none is free.
	Dequeue(block bool) (Buffer, error)

	// Queue hands a dequeued buffer back for presentation on the next
	// vblank.
	Queue(Buffer) error

	// WaitVSync blocks until the next vertical sync signal. A negative
	// timeout waits indefinitely.
	WaitVSync(timeout time.Duration) error

	// Close tears down the layer and releases the hardware connection.
	Close() error
}
