// Package hid mirrors the per-frame input state supplied by the
// platform's input service: pad button bitmasks, analog stick positions
// and touch points. The bit encoding is owned by the platform; this
// package only names it.
package hid

// Key is a pad button bitmask. A set bit means the button is down.
type Key uint64

// Pad button bits, in the platform's native layout.
const (
	KeyA Key = 1 << iota
	KeyB
	KeyX
	KeyY
	KeyStickL
	KeyStickR
	KeyL
	KeyR
	KeyZL
	KeyZR
	KeyPlus
	KeyMinus
	KeyLeft
	KeyUp
	KeyRight
	KeyDown
	KeyStickLLeft
	KeyStickLUp
	KeyStickLRight
	KeyStickLDown
	KeyStickRLeft
	KeyStickRUp
	KeyStickRRight
	KeyStickRDown
)

// Direction aggregates: any input meaning "left"/"right"/"up"/"down",
// whether from the d-pad or either stick.
const (
	AnyLeft  = KeyLeft | KeyStickLLeft | KeyStickRLeft
	AnyRight = KeyRight | KeyStickLRight | KeyStickRRight
	AnyUp    = KeyUp | KeyStickLUp | KeyStickRUp
	AnyDown  = KeyDown | KeyStickLDown | KeyStickRDown
)

// Any reports whether any bit of mask is set in k.
func (k Key) Any(mask Key) bool { return k&mask != 0 }

// KeyInfo describes one button for display purposes: its mask, a
// human-readable name and the glyph used when drawing combo hints.
type KeyInfo struct {
	Key   Key
	Name  string
	Glyph rune
}

// Keys is the display lookup table for the primary buttons.
var Keys = []KeyInfo{
	{KeyA, "A", 'A'},
	{KeyB, "B", 'B'},
	{KeyX, "X", 'X'},
	{KeyY, "Y", 'Y'},
	{KeyL, "L", 'L'},
	{KeyR, "R", 'R'},
	{KeyZL, "ZL", 'l'},
	{KeyZR, "ZR", 'r'},
	{KeyPlus, "Plus", '+'},
	{KeyMinus, "Minus", '-'},
	{KeyLeft, "Left", '<'},
	{KeyUp, "Up", '^'},
	{KeyRight, "Right", '>'},
	{KeyDown, "Down", 'v'},
}

// Lookup returns the KeyInfo for the first bit set in k, or nil when no
// table entry matches.
func Lookup(k Key) *KeyInfo {
	for i := range Keys {
		if k.Any(Keys[i].Key) {
			return &Keys[i]
		}
	}
	return nil
}

// AnalogStickState is one stick's deflection. Axes are signed with zero
// at rest; magnitude scaling is owned by the platform.
type AnalogStickState struct {
	X int32
	Y int32
}

// TouchState is one touch point in framebuffer coordinates.
type TouchState struct {
	X int
	Y int
}

// State is the complete input snapshot delivered once per frame.
// NewKeys carries only the buttons that went down this frame; HeldKeys
// carries every button currently down.
type State struct {
	NewKeys  Key
	HeldKeys Key
	Touch    *TouchState
	StickL   AnalogStickState
	StickR   AnalogStickState
}
