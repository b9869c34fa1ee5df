package overlay

import "github.com/nxovl/overlay/display"

// Option configures a Renderer during creation.
//
// Example:
//
//	// Default: negotiate a hardware layer via the display registry
//	r, err := overlay.New(0, 0, 448, 720, 1.0)
//
//	// Dependency injection: render into an in-memory surface
//	s, _ := display.NewSoftware(geom)
//	r, err := overlay.New(0, 0, 448, 720, 1.0, overlay.WithSurface(s))
type Option func(*rendererOptions)

// rendererOptions holds optional configuration for Renderer creation.
type rendererOptions struct {
	surface     display.Surface
	bufferDepth int
	format      display.PixelFormat
}

// defaultOptions returns the default renderer options: double buffering
// in RGBA4444.
func defaultOptions() rendererOptions {
	return rendererOptions{
		bufferDepth: 2,
		format:      display.FormatRGBA4444,
	}
}

// WithSurface injects an already-created display surface instead of
// negotiating one through the registry. The Renderer takes ownership
// and closes it on Close.
func WithSurface(s display.Surface) Option {
	return func(o *rendererOptions) { o.surface = s }
}

// WithBufferDepth overrides the number of back-buffer slots requested
// from the display service (default 2).
func WithBufferDepth(depth int) Option {
	return func(o *rendererOptions) {
		if depth > 0 {
			o.bufferDepth = depth
		}
	}
}

// WithFormat overrides the 16-bit channel order negotiated for the
// layer (default RGBA4444).
func WithFormat(f display.PixelFormat) Option {
	return func(o *rendererOptions) { o.format = f }
}
