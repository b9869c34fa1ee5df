package overlay

import "github.com/nxovl/overlay/hid"

// TrackBar geometry and animation tuning.
const (
	trackBarMax         = 100
	trackThickness      = 2
	handleWidth         = 8
	handleHeight        = 16
	shakeFrames         = 12
	clickAnimationAlpha = 0xF
)

// TrackBar is a horizontal slider holding a value in [0, 100].
// Controller input is level-triggered: every frame a held left
// direction increments, a held right direction decrements, with
// explicit saturation at the bounds. Both-or-neither held is a no-op
// that still counts as consumed; a single held direction with the value
// already at the corresponding bound is not consumed, letting the
// application bubble the input elsewhere.
type TrackBar struct {
	Base
	color       Color
	value       uint8
	icon        rune
	onChange    func(uint8)
	touchLocked bool

	// Animation state machines, driven one step per drawn frame.
	shakeLeft  int // frames remaining, shaking toward the left
	shakeRight int // frames remaining, shaking toward the right
	clickAnim  int // frames remaining of click feedback
}

var _ Element = (*TrackBar)(nil)

// NewTrackBar creates a slider. onChange may be nil; when set it is
// invoked with the new value on every change. A touch-locked track bar
// ignores touch input and can only be driven by controller.
func NewTrackBar(bounds Rect, color Color, value uint8, icon rune, onChange func(uint8), touchLocked bool) *TrackBar {
	return &TrackBar{
		Base:        NewBase(bounds),
		color:       color,
		value:       min(value, trackBarMax),
		icon:        icon,
		onChange:    onChange,
		touchLocked: touchLocked,
	}
}

// Value returns the current slider value in [0, 100].
func (t *TrackBar) Value() uint8 { return t.value }

// SetValue sets the slider value, saturating at the bounds, and fires
// the change callback when the value actually moved.
func (t *TrackBar) SetValue(v uint8) {
	v = min(v, trackBarMax)
	if v == t.value {
		return
	}
	t.value = v
	if t.onChange != nil {
		t.onChange(t.value)
	}
}

// RequestFocus accepts focus unconditionally.
func (t *TrackBar) RequestFocus(FocusDirection) Element { return t }

// OnControllerInput applies held direction keys to the value once per
// frame. See the type comment for the consumption rules.
func (t *TrackBar) OnControllerInput(_, heldKeys hid.Key, _ *hid.TouchState, _, _ hid.AnalogStickState) bool {
	left := heldKeys.Any(hid.AnyLeft)
	right := heldKeys.Any(hid.AnyRight)

	switch {
	case left == right:
		// Both or neither: nothing to do, but the input belongs to us.
		return true
	case left && t.value < trackBarMax:
		t.SetValue(t.value + 1)
		return true
	case right && t.value > 0:
		t.SetValue(t.value - 1)
		return true
	default:
		// A single direction at its bound: decline so the move can
		// bubble to a neighbor.
		return false
	}
}

// OnTouch maps the touch position onto the track unless the bar is
// touch-locked.
func (t *TrackBar) OnTouch(state hid.TouchState, _ *hid.TouchState) bool {
	if t.touchLocked || !t.InBounds(state.X, state.Y) {
		return false
	}
	span := t.BoundsRect().Width - handleWidth
	if span <= 0 {
		return true
	}
	pos := clampInt(state.X-t.BoundsRect().Left-handleWidth/2, 0, span)
	t.SetValue(uint8(pos * trackBarMax / span))
	return true
}

// TriggerHighlightShake starts the focus-denied shake toward dir.
func (t *TrackBar) TriggerHighlightShake(dir FocusDirection) {
	switch dir {
	case FocusLeft:
		t.shakeLeft = shakeFrames
	case FocusRight:
		t.shakeRight = shakeFrames
	}
}

// TriggerClickAnimation starts the click feedback animation.
func (t *TrackBar) TriggerClickAnimation(InputMode) { t.clickAnim = shakeFrames }

// ResetClickAnimation cancels the click feedback animation.
func (t *TrackBar) ResetClickAnimation() { t.clickAnim = 0 }

// DrawClickAnimation paints one frame of the click feedback: a fading
// fill over the bounds, advancing the animation one step.
func (t *TrackBar) DrawClickAnimation(fb *FrameBuffer) {
	if t.clickAnim <= 0 {
		return
	}
	alpha := uint8(clickAnimationAlpha * t.clickAnim / shakeFrames)
	fb.DrawRect(t.BoundsRect(), ColorClickAnimation.WithA(alpha))
	t.clickAnim--
}

// DrawHighlight draws the focus accent, displaced by the decaying shake
// offset while a shake is running.
func (t *TrackBar) DrawHighlight(fb *FrameBuffer, color Color) {
	offset := 0
	switch {
	case t.shakeLeft > 0:
		offset = -t.shakeLeft / 2
		t.shakeLeft--
	case t.shakeRight > 0:
		offset = t.shakeRight / 2
		t.shakeRight--
	}

	bounds := t.BoundsRect()
	fb.DrawRect(NewRect(
		bounds.Left-highlightExtend+offset,
		bounds.Top-highlightExtend,
		bounds.Width+2*highlightExtend,
		highlightHeight,
	), color)
}

// Draw paints the track line and the handle at the current value.
func (t *TrackBar) Draw(fb *FrameBuffer) {
	bounds := t.BoundsRect()
	midY := bounds.Top + bounds.Height/2

	// Track line.
	fb.DrawRect(NewRect(bounds.Left, midY-trackThickness/2, bounds.Width, trackThickness), ColorFrame)

	// Handle, positioned proportionally to the value.
	span := max(0, bounds.Width-handleWidth)
	handleX := bounds.Left + span*int(t.value)/trackBarMax
	handle := NewRect(handleX, midY-handleHeight/2, handleWidth, handleHeight)
	fb.DrawRect(handle, ColorHandle)
	fb.DrawBox(handle, 2, t.color)

	t.DrawClickAnimation(fb)
}
