package overlay

import "github.com/nxovl/overlay/hid"

// FocusDirection is the direction focus traveled before landing on an
// element.
type FocusDirection int

const (
	// FocusNone means focus was placed programmatically, without user
	// input.
	FocusNone FocusDirection = iota
	// FocusUp means focus moved upwards.
	FocusUp
	// FocusDown means focus moved downwards.
	FocusDown
	// FocusLeft means focus moved from left to right.
	FocusLeft
	// FocusRight means focus moved from right to left.
	FocusRight
)

// InputMode is the active input control mode.
type InputMode int

const (
	// InputController is button/stick input.
	InputController InputMode = iota
	// InputTouch is stationary touch input.
	InputTouch
	// InputTouchScroll is moving/scrolling touch input.
	InputTouchScroll
)

// highlight band geometry shared by the default chrome.
const (
	highlightHeight = 4
	highlightExtend = 4
)

// Element is the contract every widget implements. Concrete widgets
// embed Base to inherit the default behaviors and override what they
// need.
//
// Elements claim a rectangle of framebuffer space (BoundsRect) and by
// convention paint only inside it; the active scissor stack is a
// backstop, not an enforcement mechanism.
//
// Input handlers return true when the input was consumed, stopping
// further propagation. OnControllerInput is invoked every frame whether
// or not new input occurred: edge-triggered behavior must diff newKeys,
// level-triggered (repeat) behavior reads heldKeys.
type Element interface {
	// BoundsRect returns this element's claim in framebuffer
	// coordinates.
	BoundsRect() Rect

	// Draw paints the element's visual state into the framebuffer
	// using DrawRect and primitives derived from it.
	Draw(fb *FrameBuffer)

	// DrawBackground paints the default chrome behind the element:
	// a fill of the full bounds.
	DrawBackground(fb *FrameBuffer, color Color)

	// DrawHighlight paints the focus accent: a band above the top
	// edge, extended past both sides.
	DrawHighlight(fb *FrameBuffer, color Color)

	// RequestFocus is called with the direction focus arrived from.
	// A focusable element returns the element that should take focus
	// (usually itself); a non-focusable element returns nil.
	RequestFocus(dir FocusDirection) Element

	// OnClick is called when buttons go down while the element is
	// focused.
	OnClick(keys hid.Key) bool

	// OnTouch is called for touch transitions; prev is nil on the
	// first contact.
	OnTouch(state hid.TouchState, prev *hid.TouchState) bool

	// OnControllerInput is called every frame with the full input
	// snapshot.
	OnControllerInput(newKeys, heldKeys hid.Key, touch *hid.TouchState, stickL, stickR hid.AnalogStickState) bool

	// TriggerHighlightShake starts the focus-denied shake animation
	// toward dir.
	TriggerHighlightShake(dir FocusDirection)

	// TriggerClickAnimation starts the click feedback animation for
	// the given input mode.
	TriggerClickAnimation(mode InputMode)

	// ResetClickAnimation cancels any running click animation.
	ResetClickAnimation()

	// DrawClickAnimation paints the current click animation frame.
	DrawClickAnimation(fb *FrameBuffer)

	// SetParent records a non-owning reference to the enclosing
	// element. The tree owns children top-down; parents are reached
	// only for focus bubbling.
	SetParent(parent Element)

	// Parent returns the enclosing element, or nil at the root.
	Parent() Element
}

// Base supplies the default Element behaviors: chrome drawn from the
// stored bounds, all input unconsumed, focus declined, animation hooks
// as no-ops. Widgets embed it and override selectively. Base itself
// does not implement Draw; every widget paints its own state.
type Base struct {
	bounds Rect
	parent Element
}

// NewBase creates the embedded behavior for the given bounds.
func NewBase(bounds Rect) Base {
	return Base{bounds: bounds}
}

// BoundsRect returns the element's coordinate claim.
func (b *Base) BoundsRect() Rect { return b.bounds }

// SetBoundsRect moves or resizes the element's claim.
func (b *Base) SetBoundsRect(r Rect) { b.bounds = r }

// DrawBackground fills the full bounds with color.
func (b *Base) DrawBackground(fb *FrameBuffer, color Color) {
	fb.DrawRect(b.bounds, color)
}

// DrawHighlight draws the focus accent band above the top edge,
// extended past each side.
func (b *Base) DrawHighlight(fb *FrameBuffer, color Color) {
	fb.DrawRect(NewRect(
		b.bounds.Left-highlightExtend,
		b.bounds.Top-highlightExtend,
		b.bounds.Width+2*highlightExtend,
		highlightHeight,
	), color)
}

// InBounds reports whether the point lies inside the element's claim.
func (b *Base) InBounds(x, y int) bool { return b.bounds.Contains(x, y) }

// RequestFocus declines focus by default.
func (b *Base) RequestFocus(FocusDirection) Element { return nil }

// OnClick leaves clicks unconsumed by default.
func (b *Base) OnClick(hid.Key) bool { return false }

// OnTouch leaves touches unconsumed by default.
func (b *Base) OnTouch(hid.TouchState, *hid.TouchState) bool { return false }

// OnControllerInput leaves controller input unconsumed by default.
func (b *Base) OnControllerInput(_, _ hid.Key, _ *hid.TouchState, _, _ hid.AnalogStickState) bool {
	return false
}

// TriggerHighlightShake is a no-op by default.
func (b *Base) TriggerHighlightShake(FocusDirection) {}

// TriggerClickAnimation is a no-op by default.
func (b *Base) TriggerClickAnimation(InputMode) {}

// ResetClickAnimation is a no-op by default.
func (b *Base) ResetClickAnimation() {}

// DrawClickAnimation is a no-op by default.
func (b *Base) DrawClickAnimation(*FrameBuffer) {}

// SetParent records the enclosing element. The reference is non-owning:
// children never control their ancestors' lifetime.
func (b *Base) SetParent(parent Element) { b.parent = parent }

// Parent returns the enclosing element, or nil at the root.
func (b *Base) Parent() Element { return b.parent }
