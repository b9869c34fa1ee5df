package overlay

import "github.com/nxovl/overlay/hid"

// Gui drives the overlay's cooperative frame loop: input dispatch
// through the element tree, then one synchronous render pass of
// dequeue, draw, present, vsync. It owns the element tree through its
// root and tracks the focused element.
type Gui struct {
	renderer *Renderer
	root     Element
	focused  Element

	prevTouch *hid.TouchState
	mode      InputMode
}

// NewGui creates a frame driver for the given tree and gives the root a
// chance to claim initial focus.
func NewGui(renderer *Renderer, root Element) *Gui {
	g := &Gui{renderer: renderer, root: root}
	g.focused = root.RequestFocus(FocusNone)
	return g
}

// Focused returns the currently focused element, or nil when nothing is
// focusable.
func (g *Gui) Focused() Element { return g.focused }

// InputMode returns the input mode inferred from the last HandleInput.
func (g *Gui) InputMode() InputMode { return g.mode }

// RequestFocus asks el to take focus, arriving from dir. When el
// declines and a previous element holds focus, that element shakes its
// highlight toward the denied direction.
func (g *Gui) RequestFocus(el Element, dir FocusDirection) {
	if el == nil {
		return
	}
	next := el.RequestFocus(dir)
	if next == nil {
		if g.focused != nil {
			g.focused.TriggerHighlightShake(dir)
		}
		return
	}
	if g.focused != nil && g.focused != next {
		g.focused.ResetClickAnimation()
	}
	g.focused = next
}

// HandleInput dispatches one frame's input snapshot. The focused
// element sees it first; unconsumed input bubbles through parent links
// toward the root. Called once per tick regardless of whether new
// input occurred.
func (g *Gui) HandleInput(in hid.State) {
	g.updateMode(in)

	if in.Touch != nil {
		g.dispatchTouch(*in.Touch)
	}
	g.prevTouch = in.Touch

	consumed := false
	for el := g.focused; el != nil; el = el.Parent() {
		if el.OnControllerInput(in.NewKeys, in.HeldKeys, in.Touch, in.StickL, in.StickR) {
			consumed = true
			break
		}
	}

	if in.NewKeys != 0 {
		for el := g.focused; el != nil; el = el.Parent() {
			if el.OnClick(in.NewKeys) {
				el.TriggerClickAnimation(g.mode)
				consumed = true
				break
			}
		}
	}

	if !consumed {
		g.moveFocus(in.NewKeys)
	}
}

// Frame renders one frame: dequeue a framebuffer, clear, draw the tree,
// draw the focus highlight on top, present and wait for vblank.
func (g *Gui) Frame() error {
	fb, err := g.renderer.GetFramebuffer()
	if err != nil {
		return err
	}

	fb.Clear()
	g.root.Draw(fb)
	if g.focused != nil {
		g.focused.DrawHighlight(fb, g.renderer.OpacityPass(ColorHighlight))
	}

	if err := g.renderer.Present(fb); err != nil {
		return err
	}
	return g.renderer.WaitVSync()
}

// dispatchTouch delivers a touch transition, bubbling unconsumed
// touches from the focused element toward the root.
func (g *Gui) dispatchTouch(touch hid.TouchState) {
	for el := g.focused; el != nil; el = el.Parent() {
		if el.OnTouch(touch, g.prevTouch) {
			return
		}
	}
}

// moveFocus turns fresh direction presses into focus traversal.
func (g *Gui) moveFocus(newKeys hid.Key) {
	var dir FocusDirection
	switch {
	case newKeys.Any(hid.AnyUp):
		dir = FocusUp
	case newKeys.Any(hid.AnyDown):
		dir = FocusDown
	case newKeys.Any(hid.AnyLeft):
		dir = FocusLeft
	case newKeys.Any(hid.AnyRight):
		dir = FocusRight
	default:
		return
	}
	g.RequestFocus(g.root, dir)
}

// updateMode infers the active input mode from the snapshot.
func (g *Gui) updateMode(in hid.State) {
	switch {
	case in.Touch != nil && g.prevTouch != nil &&
		(in.Touch.X != g.prevTouch.X || in.Touch.Y != g.prevTouch.Y):
		g.mode = InputTouchScroll
	case in.Touch != nil:
		g.mode = InputTouch
	case in.NewKeys != 0 || in.HeldKeys != 0:
		g.mode = InputController
	}
}
