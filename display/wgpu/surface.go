package wgpu

import (
	"fmt"
	"time"
	"unsafe"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/nxovl/overlay/display"
)

const (
	// Linear rows pad to the GOB width: 64 bytes, 32 16-bit pixels.
	rowAlignPixels = 32

	defaultRefresh = time.Second / 60
	fenceTimeout   = 5 * time.Second
)

func init() {
	display.Register(display.SurfaceWGPU, func(geom display.Geometry) (display.Surface, error) {
		return NewSurface(geom)
	})
}

// Option configures a Surface.
type Option func(*surfaceOptions)

type surfaceOptions struct {
	provider gpucontext.DeviceProvider
	device   hal.Device
	queue    hal.Queue
	refresh  time.Duration
}

// WithProvider shares an existing GPU device instead of opening one.
// The provider must expose raw hal handles.
func WithProvider(p gpucontext.DeviceProvider) Option {
	return func(o *surfaceOptions) { o.provider = p }
}

// WithDevice injects hal handles directly. The caller keeps ownership
// of the device and queue.
func WithDevice(device hal.Device, queue hal.Queue) Option {
	return func(o *surfaceOptions) { o.device = device; o.queue = queue }
}

// WithRefresh overrides the vsync pacing interval.
func WithRefresh(d time.Duration) Option {
	return func(o *surfaceOptions) {
		if d > 0 {
			o.refresh = d
		}
	}
}

// slot is one back-buffer: CPU staging memory, its GPU upload target,
// and the tiled buffer the display controller scans out.
type slot struct {
	staging   []uint16
	linearBuf hal.Buffer
	tiledBuf  hal.Buffer

	// Set while a tiling submit is in flight for this slot.
	pending bool
	fence   hal.Fence
	cmdBuf  hal.CommandBuffer
}

// Surface is a GPU-backed overlay layer. Queued frames are uploaded to
// the GPU and swizzled into the block-linear layout by a compute pass;
// slot reuse is guarded by the submit fence.
type Surface struct {
	geom         display.Geometry
	stridePixels int

	instance hal.Instance // owned instance, nil when the device was injected
	device   hal.Device
	queue    hal.Queue
	tiler    *tiler

	slots []slot
	free  chan int

	refresh time.Duration
	ticker  *time.Ticker
	closed  bool
}

var _ display.Surface = (*Surface)(nil)

// NewSurface negotiates a GPU-backed layer for the given geometry.
func NewSurface(geom display.Geometry, opts ...Option) (*Surface, error) {
	if err := geom.Validate(); err != nil {
		return nil, err
	}

	o := surfaceOptions{refresh: defaultRefresh}
	for _, opt := range opts {
		opt(&o)
	}

	s := &Surface{
		geom:         geom,
		stridePixels: alignUp(geom.Width, rowAlignPixels),
		refresh:      o.refresh,
	}

	var err error
	switch {
	case o.device != nil:
		s.device, s.queue = o.device, o.queue
	case o.provider != nil:
		s.device, s.queue, err = deviceFromProvider(o.provider)
		if err != nil {
			return nil, err
		}
	default:
		s.instance, s.device, s.queue, err = openDevice()
		if err != nil {
			return nil, fmt.Errorf("%w: %w", display.ErrNotAvailable, err)
		}
	}

	if geom.Layout == display.LayoutBlockLinear {
		wordsPerRow := uint32(s.stridePixels / 2)
		s.tiler, err = newTiler(s.device, s.queue, wordsPerRow, uint32(geom.Height))
		if err != nil {
			s.teardown()
			return nil, err
		}
	}

	linearSize := uint64(s.stridePixels * geom.Height * 2)
	tiledRows := alignUp(geom.Height, gobHeight)
	tiledSize := uint64(s.stridePixels * tiledRows * 2)

	s.slots = make([]slot, geom.BufferDepth)
	s.free = make(chan int, geom.BufferDepth)
	for i := range s.slots {
		s.slots[i].staging = make([]uint16, s.stridePixels*geom.Height)
		s.slots[i].linearBuf, err = s.device.CreateBuffer(&hal.BufferDescriptor{
			Label: fmt.Sprintf("overlay_linear_%d", i),
			Size:  linearSize,
			Usage: gputypes.BufferUsageStorage | gputypes.BufferUsageCopyDst,
		})
		if err != nil {
			s.teardown()
			return nil, fmt.Errorf("wgpu: create linear buffer: %w", err)
		}
		if s.tiler != nil {
			s.slots[i].tiledBuf, err = s.device.CreateBuffer(&hal.BufferDescriptor{
				Label: fmt.Sprintf("overlay_tiled_%d", i),
				Size:  tiledSize,
				Usage: gputypes.BufferUsageStorage | gputypes.BufferUsageCopySrc,
			})
			if err != nil {
				s.teardown()
				return nil, fmt.Errorf("wgpu: create tiled buffer: %w", err)
			}
		}
		s.free <- i
	}

	slogger().Info("wgpu: surface created",
		"width", geom.Width, "height", geom.Height,
		"stride", s.stridePixels, "depth", geom.BufferDepth)
	return s, nil
}

// Width returns the layer width in pixels.
func (s *Surface) Width() int { return s.geom.Width }

// Height returns the layer height in pixels.
func (s *Surface) Height() int { return s.geom.Height }

// Stride returns the number of bytes per pixel row.
func (s *Surface) Stride() int { return s.stridePixels * 2 }

// Format returns the negotiated channel order.
func (s *Surface) Format() display.PixelFormat { return s.geom.Format }

// Dequeue acquires a free slot. If the slot's previous present is still
// in flight the submit fence is waited on before the slot is reused.
func (s *Surface) Dequeue(block bool) (display.Buffer, error) {
	if s.closed {
		return display.Buffer{}, display.ErrClosed
	}

	var idx int
	if block {
		var ok bool
		idx, ok = <-s.free
		if !ok {
			return display.Buffer{}, display.ErrClosed
		}
	} else {
		select {
		case i, ok := <-s.free:
			if !ok {
				return display.Buffer{}, display.ErrClosed
			}
			idx = i
		default:
			return display.Buffer{}, display.ErrNoFreeSlot
		}
	}

	sl := &s.slots[idx]
	buf := display.Buffer{Pixels: sl.staging, Slot: idx}
	if sl.pending {
		buf.FencePresent = true
		buf.Fences = display.FenceSet{Count: 1}
		buf.Fences.Fences[0] = display.Fence{ID: uint32(idx), Value: 1}
		if err := s.reapSlot(sl); err != nil {
			s.free <- idx
			return display.Buffer{}, err
		}
	}
	return buf, nil
}

// Queue uploads the slot's staging pixels and submits the block-linear
// tiling pass. The submit is fenced but not waited on; the fence guards
// the slot's next reuse.
func (s *Surface) Queue(buf display.Buffer) error {
	if s.closed {
		return display.ErrClosed
	}
	if buf.Slot < 0 || buf.Slot >= len(s.slots) {
		return fmt.Errorf("wgpu: queue: bad slot %d", buf.Slot)
	}
	sl := &s.slots[buf.Slot]

	data := unsafe.Slice((*byte)(unsafe.Pointer(&sl.staging[0])), len(sl.staging)*2)
	s.queue.WriteBuffer(sl.linearBuf, 0, data)

	if s.tiler == nil {
		// Linear layout: the upload alone publishes the frame.
		s.free <- buf.Slot
		return nil
	}

	linearSize := uint64(len(sl.staging) * 2)
	tiledSize := uint64(s.stridePixels*alignUp(s.geom.Height, gobHeight)) * 2
	cmdBuf, err := s.tiler.encode(sl.linearBuf, sl.tiledBuf, linearSize, tiledSize,
		uint32(s.stridePixels/2), uint32(s.geom.Height))
	if err != nil {
		s.free <- buf.Slot
		return err
	}

	fence, err := s.device.CreateFence()
	if err != nil {
		s.device.FreeCommandBuffer(cmdBuf)
		s.free <- buf.Slot
		return fmt.Errorf("wgpu: create fence: %w", err)
	}
	if err := s.queue.Submit([]hal.CommandBuffer{cmdBuf}, fence, 1); err != nil {
		s.device.FreeCommandBuffer(cmdBuf)
		s.device.DestroyFence(fence)
		s.free <- buf.Slot
		return fmt.Errorf("wgpu: submit tiling pass: %w", err)
	}

	sl.pending = true
	sl.fence = fence
	sl.cmdBuf = cmdBuf
	s.free <- buf.Slot
	return nil
}

// WaitVSync paces the caller at the configured refresh interval. The
// display service signals real vblanks; here a wall-clock ticker stands
// in for them.
func (s *Surface) WaitVSync(timeout time.Duration) error {
	if s.closed {
		return display.ErrClosed
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
		return display.ErrTimeout
	}
}

// Close waits out in-flight submits and releases all GPU resources.
func (s *Surface) Close() error {
	if s.closed {
		return display.ErrClosed
	}
	s.closed = true
	if s.ticker != nil {
		s.ticker.Stop()
		s.ticker = nil
	}
	close(s.free)

	var firstErr error
	for i := range s.slots {
		if err := s.reapSlot(&s.slots[i]); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	s.teardown()
	return firstErr
}

// reapSlot waits on and releases a slot's in-flight submit.
func (s *Surface) reapSlot(sl *slot) error {
	if !sl.pending {
		return nil
	}
	ok, err := s.device.Wait(sl.fence, 1, fenceTimeout)
	s.device.FreeCommandBuffer(sl.cmdBuf)
	s.device.DestroyFence(sl.fence)
	sl.pending = false
	sl.fence = nil
	sl.cmdBuf = nil
	if err != nil {
		return fmt.Errorf("wgpu: wait tiling fence: %w", err)
	}
	if !ok {
		return display.ErrTimeout
	}
	return nil
}

// teardown releases per-slot buffers, the tiler and the owned device.
func (s *Surface) teardown() {
	for i := range s.slots {
		if s.slots[i].linearBuf != nil {
			s.device.DestroyBuffer(s.slots[i].linearBuf)
			s.slots[i].linearBuf = nil
		}
		if s.slots[i].tiledBuf != nil {
			s.device.DestroyBuffer(s.slots[i].tiledBuf)
			s.slots[i].tiledBuf = nil
		}
	}
	if s.tiler != nil {
		s.tiler.destroy()
		s.tiler = nil
	}
	if s.instance != nil {
		s.instance.Destroy()
		s.instance = nil
	}
}

func alignUp(v, align int) int {
	return (v + align - 1) / align * align
}
