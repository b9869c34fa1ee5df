package overlay

// Group is a container element that owns an ordered list of children.
// Ownership runs strictly top-down: the group holds its children, and
// each child keeps only a non-owning parent reference for focus
// bubbling.
type Group struct {
	Base
	children []Element
}

var _ Element = (*Group)(nil)

// NewGroup creates an empty container claiming the given bounds.
func NewGroup(bounds Rect) *Group {
	return &Group{Base: NewBase(bounds)}
}

// AddChild appends a child and records this group as its parent.
func (g *Group) AddChild(el Element) {
	el.SetParent(g)
	g.children = append(g.children, el)
}

// Children returns the owned child list in draw order.
func (g *Group) Children() []Element { return g.children }

// Draw paints the group background, then every child in order.
func (g *Group) Draw(fb *FrameBuffer) {
	g.DrawBackground(fb, ColorBackground)
	for _, child := range g.children {
		child.Draw(fb)
	}
}

// RequestFocus delegates to the children: the first one (in travel
// order) that accepts focus wins. Focus arriving from below or from
// the right scans the list backwards.
func (g *Group) RequestFocus(dir FocusDirection) Element {
	if dir == FocusUp || dir == FocusRight {
		for i := len(g.children) - 1; i >= 0; i-- {
			if el := g.children[i].RequestFocus(dir); el != nil {
				return el
			}
		}
		return nil
	}
	for _, child := range g.children {
		if el := child.RequestFocus(dir); el != nil {
			return el
		}
	}
	return nil
}
