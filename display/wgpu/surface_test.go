package wgpu

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
	"github.com/gogpu/wgpu/hal/noop"

	"github.com/nxovl/overlay/display"
)

// createNoopDevice creates a noop device and queue for testing.
func createNoopDevice(t *testing.T) (hal.Device, hal.Queue, func()) {
	t.Helper()
	api := noop.API{}
	instance, err := api.CreateInstance(nil)
	if err != nil {
		t.Fatalf("CreateInstance failed: %v", err)
	}
	adapters := instance.EnumerateAdapters(nil)
	if len(adapters) == 0 {
		instance.Destroy()
		t.Fatal("no noop adapters")
	}
	openDev, err := adapters[0].Adapter.Open(0, gputypes.DefaultLimits())
	if err != nil {
		instance.Destroy()
		t.Fatalf("Open failed: %v", err)
	}
	cleanup := func() {
		openDev.Device.Destroy()
		instance.Destroy()
	}
	return openDev.Device, openDev.Queue, cleanup
}

// newTestSurface builds a block-linear surface on the noop backend,
// skipping the test when the tiling shader cannot be compiled.
func newTestSurface(t *testing.T, geom display.Geometry, opts ...Option) *Surface {
	t.Helper()
	s, err := NewSurface(geom, opts...)
	if err != nil {
		if strings.Contains(err.Error(), "compile block-linear shader") {
			t.Skipf("Skipping: %v", err)
		}
		t.Fatalf("NewSurface failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func testGeometry() display.Geometry {
	return display.Geometry{
		Width:       64,
		Height:      32,
		Z:           display.LayerZMax,
		BufferDepth: 2,
		Format:      display.FormatRGBA4444,
		Layout:      display.LayoutBlockLinear,
	}
}

func TestNewSurface(t *testing.T) {
	device, queue, cleanup := createNoopDevice(t)
	defer cleanup()

	s := newTestSurface(t, testGeometry(), WithDevice(device, queue))

	if s.Width() != 64 || s.Height() != 32 {
		t.Errorf("size = %dx%d, want 64x32", s.Width(), s.Height())
	}
	// 64 pixels already sits on a GOB row boundary.
	if s.Stride() != 128 {
		t.Errorf("Stride() = %d, want 128", s.Stride())
	}
	if s.Format() != display.FormatRGBA4444 {
		t.Errorf("Format() = %v, want FormatRGBA4444", s.Format())
	}
}

func TestNewSurfaceStridePadding(t *testing.T) {
	device, queue, cleanup := createNoopDevice(t)
	defer cleanup()

	geom := testGeometry()
	geom.Width = 50
	s := newTestSurface(t, geom, WithDevice(device, queue))

	// 50 pixels pads up to 64, two bytes each.
	if s.Stride() != 128 {
		t.Errorf("Stride() = %d, want 128", s.Stride())
	}
}

func TestNewSurfaceInvalidGeometry(t *testing.T) {
	device, queue, cleanup := createNoopDevice(t)
	defer cleanup()

	_, err := NewSurface(display.Geometry{}, WithDevice(device, queue))
	if !errors.Is(err, display.ErrInvalidGeometry) {
		t.Errorf("err = %v, want ErrInvalidGeometry", err)
	}
}

func TestSurfacePresentCycle(t *testing.T) {
	device, queue, cleanup := createNoopDevice(t)
	defer cleanup()

	s := newTestSurface(t, testGeometry(), WithDevice(device, queue))

	seen := make(map[int]bool)
	for frame := 0; frame < 4; frame++ {
		buf, err := s.Dequeue(true)
		if err != nil {
			t.Fatalf("frame %d: Dequeue failed: %v", frame, err)
		}
		seen[buf.Slot] = true
		if len(buf.Pixels) != s.Stride()/2*s.Height() {
			t.Fatalf("frame %d: pixel slice len = %d, want %d",
				frame, len(buf.Pixels), s.Stride()/2*s.Height())
		}
		for i := range buf.Pixels {
			buf.Pixels[i] = uint16(frame)
		}
		if err := s.Queue(buf); err != nil {
			t.Fatalf("frame %d: Queue failed: %v", frame, err)
		}
	}
	if len(seen) != 2 {
		t.Errorf("used %d slots, want both of depth 2", len(seen))
	}
}

func TestSurfaceFenceOnReuse(t *testing.T) {
	device, queue, cleanup := createNoopDevice(t)
	defer cleanup()

	s := newTestSurface(t, testGeometry(), WithDevice(device, queue))

	first, err := s.Dequeue(true)
	if err != nil {
		t.Fatalf("Dequeue failed: %v", err)
	}
	if first.FencePresent {
		t.Error("fresh slot reported a fence")
	}
	if err := s.Queue(first); err != nil {
		t.Fatalf("Queue failed: %v", err)
	}

	// Drain the other slot so the next dequeue reuses the first.
	other, err := s.Dequeue(true)
	if err != nil {
		t.Fatalf("Dequeue failed: %v", err)
	}
	if err := s.Queue(other); err != nil {
		t.Fatalf("Queue failed: %v", err)
	}

	reused, err := s.Dequeue(true)
	if err != nil {
		t.Fatalf("Dequeue failed: %v", err)
	}
	if reused.Slot != first.Slot {
		t.Fatalf("reused slot %d, want %d", reused.Slot, first.Slot)
	}
	if !reused.FencePresent {
		t.Error("reused slot did not report its present fence")
	}
	if reused.Fences.Count != 1 {
		t.Errorf("fence count = %d, want 1", reused.Fences.Count)
	}
}

func TestSurfaceDequeueNonBlocking(t *testing.T) {
	device, queue, cleanup := createNoopDevice(t)
	defer cleanup()

	s := newTestSurface(t, testGeometry(), WithDevice(device, queue))

	// Hold every slot without queueing any back.
	for i := 0; i < 2; i++ {
		if _, err := s.Dequeue(false); err != nil {
			t.Fatalf("Dequeue %d failed: %v", i, err)
		}
	}
	if _, err := s.Dequeue(false); !errors.Is(err, display.ErrNoFreeSlot) {
		t.Errorf("err = %v, want ErrNoFreeSlot", err)
	}
}

func TestSurfaceLinearLayout(t *testing.T) {
	device, queue, cleanup := createNoopDevice(t)
	defer cleanup()

	geom := testGeometry()
	geom.Layout = display.LayoutLinear
	s, err := NewSurface(geom, WithDevice(device, queue))
	if err != nil {
		t.Fatalf("NewSurface failed: %v", err)
	}
	defer s.Close()

	buf, err := s.Dequeue(true)
	if err != nil {
		t.Fatalf("Dequeue failed: %v", err)
	}
	if err := s.Queue(buf); err != nil {
		t.Fatalf("Queue failed: %v", err)
	}

	// Linear presents have no tiling submit to fence.
	buf, err = s.Dequeue(true)
	if err != nil {
		t.Fatalf("Dequeue failed: %v", err)
	}
	if buf.FencePresent {
		t.Error("linear layout reported a fence")
	}
}

func TestSurfaceWaitVSync(t *testing.T) {
	device, queue, cleanup := createNoopDevice(t)
	defer cleanup()

	s := newTestSurface(t, testGeometry(), WithDevice(device, queue),
		WithRefresh(time.Millisecond))

	if err := s.WaitVSync(time.Second); err != nil {
		t.Errorf("WaitVSync failed: %v", err)
	}
	if err := s.WaitVSync(-1); err != nil {
		t.Errorf("indefinite WaitVSync failed: %v", err)
	}
}

func TestSurfaceClose(t *testing.T) {
	device, queue, cleanup := createNoopDevice(t)
	defer cleanup()

	s := newTestSurface(t, testGeometry(), WithDevice(device, queue))
	if err := s.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if _, err := s.Dequeue(true); !errors.Is(err, display.ErrClosed) {
		t.Errorf("Dequeue err = %v, want ErrClosed", err)
	}
	if err := s.Close(); !errors.Is(err, display.ErrClosed) {
		t.Errorf("second Close err = %v, want ErrClosed", err)
	}
}
