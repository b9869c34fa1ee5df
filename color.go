package overlay

import "image/color"

// Color is a packed 16-bit pixel value with four 4-bit channels.
// The bit layout matches the RGBA4444 hardware format: red occupies the
// high nibble, alpha the low nibble. Each channel is in [0, 15].
type Color uint16

// Fixed design-language palette. These are process-wide constants, not
// per-instance state.
const (
	// ColorBackground is the default overlay background fill.
	ColorBackground Color = 0x000D
	// ColorTransparent is a fully transparent pixel.
	ColorTransparent Color = 0x0000
	// ColorHighlight is the greenish focus highlight.
	ColorHighlight = Color(0x0<<12 | 0xF<<8 | 0xD<<4 | 0xF)
	// ColorFrame is the border color.
	ColorFrame = Color(0x7<<12 | 0x7<<8 | 0x7<<4 | 0xF)
	// ColorHandle is the slider handle color.
	ColorHandle = Color(0x5<<12 | 0x5<<8 | 0x5<<4 | 0xF)
	// ColorText is the primary text color.
	ColorText = Color(0xF<<12 | 0xF<<8 | 0xF<<4 | 0xF)
	// ColorDescription is the secondary text color.
	ColorDescription = Color(0xA<<12 | 0xA<<8 | 0xA<<4 | 0xF)
	// ColorHeaderBar is the header separator color.
	ColorHeaderBar = Color(0xC<<12 | 0xC<<8 | 0xC<<4 | 0xF)
	// ColorClickAnimation is the click feedback accent.
	ColorClickAnimation = Color(0x0<<12 | 0x2<<8 | 0x2<<4 | 0xF)
)

// FromValues packs four 4-bit channel values into a Color.
// Each argument is masked to its low nibble.
func FromValues(r, g, b, a uint8) Color {
	return Color(uint16(r&0xF)<<12 | uint16(g&0xF)<<8 | uint16(b&0xF)<<4 | uint16(a&0xF))
}

// R returns the red channel in [0, 15].
func (c Color) R() uint8 { return uint8(c >> 12 & 0xF) }

// G returns the green channel in [0, 15].
func (c Color) G() uint8 { return uint8(c >> 8 & 0xF) }

// B returns the blue channel in [0, 15].
func (c Color) B() uint8 { return uint8(c >> 4 & 0xF) }

// A returns the alpha channel in [0, 15].
func (c Color) A() uint8 { return uint8(c & 0xF) }

// WithA returns a copy of c with the alpha channel replaced.
func (c Color) WithA(a uint8) Color {
	return c&^0xF | Color(a&0xF)
}

// RGBA4444 returns the pixel value in RGBA channel order (red in the
// high nibble). This is the Color's native bit pattern.
func (c Color) RGBA4444() uint16 { return uint16(c) }

// ABGR4444 returns the same logical color serialized in ABGR channel
// order (alpha in the high nibble), for hardware expecting that layout.
func (c Color) ABGR4444() uint16 {
	return uint16(FromValues(c.A(), c.B(), c.G(), c.R()))
}

// BlendChannel linearly interpolates two 4-bit channel values weighted
// by a 4-bit alpha: (right*alpha + left*(255-alpha)) / 255, computed in
// a widened integer domain. Panics when alpha exceeds 0xF; a wider value
// is a programming error and silently clamping it would mask color-math
// bugs upstream.
func BlendChannel(left, right, alpha uint8) uint8 {
	if alpha > 0xF {
		panic("overlay: blend alpha out of range for 4-bit channel")
	}
	oneMinus := uint32(0xFF - alpha)
	return uint8((uint32(right)*uint32(alpha) + uint32(left)*oneMinus) / 0xFF)
}

// BlendWith composites other over c and returns the result. The blend
// weight for all three color channels is c's own alpha, not other's, a
// deliberate quirk of the overlay compositor that keeps nearly opaque
// pixels stable under repeated compositing. When blendAlpha is true the
// resulting alpha is the sum of both alphas, saturating at 0xF;
// otherwise c's alpha is kept unchanged.
func (c Color) BlendWith(other Color, blendAlpha bool) Color {
	a := c.A()
	if blendAlpha {
		a = min(0xF, c.A()+other.A())
	}
	return FromValues(
		BlendChannel(c.R(), other.R(), c.A()),
		BlendChannel(c.G(), other.G(), c.A()),
		BlendChannel(c.B(), other.B(), c.A()),
		a,
	)
}

// RGBA implements the standard color.Color interface. Each 4-bit channel
// expands into the 16-bit range by nibble replication, then red, green
// and blue are premultiplied by alpha as the interface requires.
func (c Color) RGBA() (r, g, b, a uint32) {
	a = uint32(c.A()) * 0x1111
	r = uint32(c.R()) * 0x1111 * a / 0xFFFF
	g = uint32(c.G()) * 0x1111 * a / 0xFFFF
	b = uint32(c.B()) * 0x1111 * a / 0xFFFF
	return r, g, b, a
}

var _ color.Color = Color(0)
