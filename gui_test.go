package overlay

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nxovl/overlay/display"
	"github.com/nxovl/overlay/hid"
)

func newGuiFixture(t *testing.T, root Element) (*Gui, *display.Software) {
	t.Helper()
	surface, err := display.NewSoftware(display.Geometry{
		Width: 64, Height: 48, BufferDepth: 2,
		Format: display.FormatRGBA4444,
	}, display.WithRefresh(1))
	require.NoError(t, err)
	r, err := New(0, 0, 64, 48, 1.0, WithSurface(surface))
	require.NoError(t, err)
	t.Cleanup(func() { r.Close() })
	return NewGui(r, root), surface
}

func TestNewGuiInitialFocus(t *testing.T) {
	g := NewGroup(NewRect(0, 0, 64, 48))
	tb := NewTrackBar(NewRect(0, 0, 40, 16), ColorFrame, 0, 'v', nil, false)
	g.AddChild(tb)

	gui, _ := newGuiFixture(t, g)
	assert.Same(t, Element(tb), gui.Focused())
}

func TestNewGuiNoFocusable(t *testing.T) {
	root := NewGroup(NewRect(0, 0, 64, 48))
	gui, _ := newGuiFixture(t, root)
	assert.Nil(t, gui.Focused())

	// Input with nothing focusable must not panic.
	gui.HandleInput(hid.State{NewKeys: hid.KeyDown, HeldKeys: hid.KeyDown})
}

func TestHandleInputReachesFocused(t *testing.T) {
	g := NewGroup(NewRect(0, 0, 64, 48))
	tb := NewTrackBar(NewRect(0, 0, 40, 16), ColorFrame, 50, 'v', nil, false)
	g.AddChild(tb)
	gui, _ := newGuiFixture(t, g)

	gui.HandleInput(hid.State{HeldKeys: hid.KeyLeft})
	assert.Equal(t, uint8(51), tb.Value())

	gui.HandleInput(hid.State{HeldKeys: hid.KeyRight})
	assert.Equal(t, uint8(50), tb.Value())
}

func TestHandleInputBubblesToParent(t *testing.T) {
	g := NewGroup(NewRect(0, 0, 64, 48))
	tb := NewTrackBar(NewRect(0, 0, 40, 16), ColorFrame, 100, 'v', nil, false)
	g.AddChild(tb)
	gui, _ := newGuiFixture(t, g)

	// At the bound the bar declines; the group has no handler either,
	// so the press falls through to focus traversal without crashing.
	gui.HandleInput(hid.State{NewKeys: hid.KeyLeft, HeldKeys: hid.KeyLeft})
	assert.Equal(t, uint8(100), tb.Value())
}

func TestHandleInputTouch(t *testing.T) {
	g := NewGroup(NewRect(0, 0, 64, 48))
	tb := NewTrackBar(NewRect(0, 0, 58, 20), ColorFrame, 0, 'v', nil, false)
	g.AddChild(tb)
	gui, _ := newGuiFixture(t, g)

	gui.HandleInput(hid.State{Touch: &hid.TouchState{X: 57, Y: 10}})
	assert.Equal(t, uint8(100), tb.Value())
	assert.Equal(t, InputTouch, gui.InputMode())
}

func TestInputModeTransitions(t *testing.T) {
	g := NewGroup(NewRect(0, 0, 64, 48))
	g.AddChild(NewTrackBar(NewRect(0, 0, 40, 16), ColorFrame, 0, 'v', nil, false))
	gui, _ := newGuiFixture(t, g)

	assert.Equal(t, InputController, gui.InputMode(), "default mode")

	gui.HandleInput(hid.State{Touch: &hid.TouchState{X: 10, Y: 10}})
	assert.Equal(t, InputTouch, gui.InputMode())

	// A moving touch point is a scroll.
	gui.HandleInput(hid.State{Touch: &hid.TouchState{X: 14, Y: 10}})
	assert.Equal(t, InputTouchScroll, gui.InputMode())

	gui.HandleInput(hid.State{HeldKeys: hid.KeyA})
	assert.Equal(t, InputController, gui.InputMode())
}

func TestRequestFocusShakeOnDecline(t *testing.T) {
	g := NewGroup(NewRect(0, 0, 64, 48))
	tb := NewTrackBar(NewRect(0, 0, 40, 16), ColorFrame, 0, 'v', nil, false)
	g.AddChild(tb)
	gui, _ := newGuiFixture(t, g)
	require.Same(t, Element(tb), gui.Focused())

	// The only focusable element already holds focus; asking an
	// unfocusable target shakes the incumbent.
	empty := NewGroup(NewRect(0, 0, 10, 10))
	gui.RequestFocus(empty, FocusLeft)
	assert.Same(t, Element(tb), gui.Focused(), "focus must not move")
	assert.Equal(t, shakeFrames, tb.shakeLeft, "denied focus must shake")
}

func TestRequestFocusMovesAndResets(t *testing.T) {
	g := NewGroup(NewRect(0, 0, 64, 48))
	first := NewTrackBar(NewRect(0, 0, 40, 16), ColorFrame, 0, 'v', nil, false)
	second := NewTrackBar(NewRect(0, 20, 40, 16), ColorFrame, 0, 'v', nil, false)
	g.AddChild(first)
	g.AddChild(second)
	gui, _ := newGuiFixture(t, g)
	require.Same(t, Element(first), gui.Focused())

	first.TriggerClickAnimation(InputController)
	gui.RequestFocus(second, FocusNone)

	assert.Same(t, Element(second), gui.Focused())
	assert.Zero(t, first.clickAnim, "moving focus must reset the old animation")
}

// focusButton is a minimal focusable element for dispatch tests: it
// accepts focus and clicks but consumes no controller input.
type focusButton struct {
	Base
	clicked hid.Key
}

func (b *focusButton) Draw(*FrameBuffer) {}

func (b *focusButton) RequestFocus(FocusDirection) Element { return b }

func (b *focusButton) OnClick(keys hid.Key) bool {
	if !keys.Any(hid.KeyA) {
		return false
	}
	b.clicked |= keys
	return true
}

func TestMoveFocusOnUnconsumedPress(t *testing.T) {
	g := NewGroup(NewRect(0, 0, 64, 48))
	first := &focusButton{Base: NewBase(NewRect(0, 0, 40, 16))}
	second := &focusButton{Base: NewBase(NewRect(0, 20, 40, 16))}
	g.AddChild(first)
	g.AddChild(second)
	gui, _ := newGuiFixture(t, g)
	require.Same(t, Element(first), gui.Focused())

	// A fresh direction press no element consumes drives focus
	// traversal; up travel scans the tree backwards.
	gui.HandleInput(hid.State{NewKeys: hid.KeyUp, HeldKeys: hid.KeyUp})
	assert.Same(t, Element(second), gui.Focused())
}

func TestHandleInputClick(t *testing.T) {
	g := NewGroup(NewRect(0, 0, 64, 48))
	btn := &focusButton{Base: NewBase(NewRect(0, 0, 40, 16))}
	g.AddChild(btn)
	gui, _ := newGuiFixture(t, g)
	require.Same(t, Element(btn), gui.Focused())

	gui.HandleInput(hid.State{NewKeys: hid.KeyA, HeldKeys: hid.KeyA})
	assert.True(t, btn.clicked.Any(hid.KeyA), "click did not reach the focused element")

	// An unhandled button leaves the element untouched.
	before := btn.clicked
	gui.HandleInput(hid.State{NewKeys: hid.KeyB, HeldKeys: hid.KeyB})
	assert.Equal(t, before, btn.clicked)
}

func TestFrame(t *testing.T) {
	g := NewGroup(NewRect(0, 0, 64, 48))
	g.AddChild(NewDebugRectangle(NewRect(0, 0, 8, 8), FromValues(0xF, 0, 0, 0xF)))
	g.AddChild(NewTrackBar(NewRect(8, 24, 48, 16), ColorFrame, 50, 'v', nil, false))
	gui, surface := newGuiFixture(t, g)

	require.NoError(t, gui.Frame())

	front := surface.Front()
	require.NotNil(t, front, "frame was not presented")

	// The cleared background reaches the presented buffer.
	stride := surface.Stride() / 2
	assert.Equal(t, uint16(ColorBackground), front[47*stride+63])
}
