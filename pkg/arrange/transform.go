package arrange

import (
	"github.com/matzehuels/badgeboard/pkg/document"
	"github.com/matzehuels/badgeboard/pkg/element"
)

// pending collects replacement elements before they become a Replace op.
type pending struct {
	d *document.Document
	m map[string]element.Element
}

func newPending(d *document.Document) *pending {
	return &pending{d: d, m: map[string]element.Element{}}
}

func (p *pending) get(id string) element.Element {
	if e, ok := p.m[id]; ok {
		return e
	}
	e, _ := p.d.Get(id)
	return e
}

func (p *pending) set(e element.Element) { p.m[e.ID] = e }

// fit resizes group gid to the bounds of its members. Transformed groups
// are left alone and reported with false.
func (p *pending) fit(gid string) bool {
	g := p.get(gid)
	if g.Transformed() {
		return false
	}
	var kids []element.Element
	for _, c := range g.Children() {
		kids = append(kids, p.get(c))
	}
	b, ok := element.BoundsOf(kids)
	if !ok {
		return false
	}
	g.X, g.Y, g.Width, g.Height = b.X, b.Y, b.Width, b.Height
	p.set(g)
	return true
}

// refitAncestors fits the groups above id, innermost first, stopping at the
// first transformed one.
func (p *pending) refitAncestors(id string) {
	for _, a := range p.d.Ancestors(id) {
		if !p.fit(a) {
			return
		}
	}
}

// elements returns the changed elements in paint order, skipping any that
// ended up identical to the document.
func (p *pending) elements() []element.Element {
	var out []element.Element
	for _, id := range p.d.IDs() {
		e, ok := p.m[id]
		if !ok {
			continue
		}
		if cur, _ := p.d.Get(id); cur.Equal(e) {
			continue
		}
		out = append(out, e)
	}
	return out
}

// Update plans merging patch into element id.
//
// When the target is a group and the patch changes its geometry, the
// change is mapped onto every descendant: a pure move translates them
// exactly, while a resize, scale or rotation maps their origins through
// the group's old and new frames and adjusts their own scale and rotation.
// After the update, untransformed ancestor groups are refitted around their
// members.
func Update(d *document.Document, id string, patch element.Patch) (Plan, error) {
	cur, err := d.MustGet(id)
	if err != nil {
		return Plan{}, err
	}
	next, err := patch.Apply(cur)
	if err != nil {
		return Plan{}, err
	}

	pend := newPending(d)
	pend.set(next)
	if cur.IsGroup() && cur.Geometry != next.Geometry {
		m := newFrameMap(cur.Geometry, next.Geometry)
		for _, c := range d.Descendants(id) {
			pend.set(m.apply(pend.get(c)))
		}
	}
	pend.refitAncestors(id)

	plan := Plan{Label: updateLabel(patch)}
	if changed := pend.elements(); len(changed) > 0 {
		plan.Op = document.Replace{Elements: changed}
	}
	return plan, nil
}

func updateLabel(p element.Patch) string {
	switch {
	case p.Payload != nil:
		return "Edit"
	case p.Rotation != nil:
		return "Rotate"
	case p.Width != nil || p.Height != nil || p.ScaleX != nil || p.ScaleY != nil:
		return "Resize"
	case p.X != nil || p.Y != nil:
		return "Move"
	case p.Hidden != nil:
		return "Toggle visibility"
	default:
		return "Edit"
	}
}

// frameMap carries points from a group's old frame to its new one.
type frameMap struct {
	from, to       element.Geometry
	sx, sy         float64
	dRot           float64
	translatesOnly bool
}

func newFrameMap(from, to element.Geometry) frameMap {
	m := frameMap{from: from, to: to, sx: 1, sy: 1, dRot: to.Rotation - from.Rotation}
	if from.Width != 0 {
		m.sx = (to.Width * to.ScaleX) / (from.Width * from.ScaleX)
	}
	if from.Height != 0 {
		m.sy = (to.Height * to.ScaleY) / (from.Height * from.ScaleY)
	}
	m.translatesOnly = m.sx == 1 && m.sy == 1 && m.dRot == 0
	return m
}

func (m frameMap) point(x, y float64) (float64, float64) {
	if m.translatesOnly {
		return x + m.to.X - m.from.X, y + m.to.Y - m.from.Y
	}
	ux, uy := element.RotatePoint(x-m.from.X, y-m.from.Y, -m.from.Rotation)
	ux, uy = ux*m.sx, uy*m.sy
	vx, vy := element.RotatePoint(ux, uy, m.to.Rotation)
	return m.to.X + vx, m.to.Y + vy
}

func (m frameMap) apply(e element.Element) element.Element {
	e.X, e.Y = m.point(e.X, e.Y)
	if m.translatesOnly {
		return e
	}
	e.ScaleX *= m.sx
	e.ScaleY *= m.sy
	e.Rotation += m.dRot
	return e
}
