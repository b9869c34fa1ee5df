package display

import (
	"fmt"
	"image"
	"time"
)

// rowAlign is the byte alignment the software surface applies to pixel
// rows, mirroring the hardware allocator. It guarantees stride != width
// for most layer widths, which keeps stride bugs visible in tests.
const rowAlign = 64

const defaultRefresh = time.Second / 60

func init() {
	Register(SurfaceSoftware, func(geom Geometry) (Surface, error) {
		return NewSoftware(geom)
	})
}

// SoftwareOption configures a software surface.
type SoftwareOption func(*Software)

// WithRefresh overrides the simulated refresh interval (default 60 Hz).
func WithRefresh(interval time.Duration) SoftwareOption {
	return func(s *Software) {
		if interval > 0 {
			s.refresh = interval
		}
	}
}

// Software is an in-memory Surface used for tests, headless rendering,
// and as the fallback when no hardware surface is registered. It cycles
// BufferDepth slots through a free list and paces WaitVSync with a
// wall-clock ticker.
type Software struct {
	geom         Geometry
	stridePixels int
	slots        [][]uint16
	free         chan int
	front        int
	refresh      time.Duration
	ticker       *time.Ticker
	closed       bool
}

// NewSoftware creates an in-memory surface for the given geometry.
func NewSoftware(geom Geometry, opts ...SoftwareOption) (*Software, error) {
	if err := geom.Validate(); err != nil {
		return nil, err
	}

	stridePixels := alignUp(geom.Width*2, rowAlign) / 2
	s := &Software{
		geom:         geom,
		stridePixels: stridePixels,
		slots:        make([][]uint16, geom.BufferDepth),
		free:         make(chan int, geom.BufferDepth),
		front:        -1,
		refresh:      defaultRefresh,
	}
	for _, opt := range opts {
		opt(s)
	}
	for i := range s.slots {
		s.slots[i] = make([]uint16, stridePixels*geom.Height)
		s.free <- i
	}
	return s, nil
}

// Width returns the layer width in pixels.
func (s *Software) Width() int { return s.geom.Width }

// Height returns the layer height in pixels.
func (s *Software) Height() int { return s.geom.Height }

// Stride returns the aligned byte width of one pixel row.
func (s *Software) Stride() int { return s.stridePixels * 2 }

// Format returns the negotiated channel order.
func (s *Software) Format() PixelFormat { return s.geom.Format }

// Dequeue hands out a free back-buffer slot.
func (s *Software) Dequeue(block bool) (Buffer, error) {
	if s.closed {
		return Buffer{}, ErrClosed
	}
	var slot int
	if block {
		slot = <-s.free
	} else {
		select {
		case slot = <-s.free:
		default:
			return Buffer{}, ErrNoFreeSlot
		}
	}
	return Buffer{Pixels: s.slots[slot], Slot: slot}, nil
}

// Queue presents a buffer: it becomes the front buffer and the
// previously presented slot returns to the free list.
func (s *Software) Queue(b Buffer) error {
	if s.closed {
		return ErrClosed
	}
	if b.Slot < 0 || b.Slot >= len(s.slots) {
		return fmt.Errorf("display: queue of unknown slot %d", b.Slot)
	}
	if s.front >= 0 {
		s.free <- s.front
	}
	s.front = b.Slot
	return nil
}

// WaitVSync blocks until the next simulated vblank tick.
func (s *Software) WaitVSync(timeout time.Duration) error {
	if s.closed {
		return ErrClosed
	}
	if s.ticker == nil {
		s.ticker = time.NewTicker(s.refresh)
	}
	if timeout < 0 {
		<-s.ticker.C
		return nil
	}
	select {
	case <-s.ticker.C:
		return nil
	case <-time.After(timeout):
		return ErrTimeout
	}
}

// Close releases the surface. Buffers obtained earlier must not be
// used afterwards.
func (s *Software) Close() error {
	if s.closed {
		return ErrClosed
	}
	s.closed = true
	if s.ticker != nil {
		s.ticker.Stop()
	}
	return nil
}

// Front returns the raw pixel storage of the last presented buffer, or
// nil when nothing has been presented yet. The slice aliases the slot
// storage; callers must treat it as read-only.
func (s *Software) Front() []uint16 {
	if s.front < 0 {
		return nil
	}
	return s.slots[s.front]
}

// Image expands the last presented frame into a standard NRGBA image,
// replicating each 4-bit channel into 8 bits. Returns nil when nothing
// has been presented yet.
func (s *Software) Image() *image.NRGBA {
	front := s.Front()
	if front == nil {
		return nil
	}
	img := image.NewNRGBA(image.Rect(0, 0, s.geom.Width, s.geom.Height))
	for y := 0; y < s.geom.Height; y++ {
		for x := 0; x < s.geom.Width; x++ {
			px := front[y*s.stridePixels+x]
			r, g, b, a := unpack(px, s.geom.Format)
			i := img.PixOffset(x, y)
			img.Pix[i+0] = r * 0x11
			img.Pix[i+1] = g * 0x11
			img.Pix[i+2] = b * 0x11
			img.Pix[i+3] = a * 0x11
		}
	}
	return img
}

// unpack splits a 16-bit pixel into channel nibbles for the given order.
func unpack(px uint16, format PixelFormat) (r, g, b, a uint8) {
	switch format {
	case FormatABGR4444:
		return uint8(px & 0xF), uint8(px >> 4 & 0xF), uint8(px >> 8 & 0xF), uint8(px >> 12 & 0xF)
	default:
		return uint8(px >> 12 & 0xF), uint8(px >> 8 & 0xF), uint8(px >> 4 & 0xF), uint8(px & 0xF)
	}
}

func alignUp(v, align int) int {
	return (v + align - 1) / align * align
}
