// Copyright © 2024 Galvanized Logic Inc.

package physics

// fixture.go attaches a Shape to a Body with the material properties
// (density, friction, restitution) and broad-phase bookkeeping needed
// to collide it against other fixtures. A body can carry several
// fixtures - the classic example being a capsule built from two circle
// fixtures and a box fixture - so mass, collision, and the broad-phase
// proxy are all tracked per fixture, not per body.

import (
	"github.com/gazed/kinetic/math/lin"
	"github.com/google/uuid"
)

// Filter controls which fixture pairs the broad-phase considers for
// narrow-phase collision, mirroring how caster.go's ray casts used to
// be filtered by a single shape type: here it is two 16-bit category
// masks plus an optional group override for cases a mask can't express
// (e.g. "these two fixtures never collide, whatever their category").
type Filter struct {
	CategoryBits uint16
	MaskBits     uint16
	GroupIndex   int16
}

// DefaultFilter collides with everything.
func DefaultFilter() Filter { return Filter{CategoryBits: 0x0001, MaskBits: 0xFFFF} }

// shouldCollide applies the standard group-override-then-mask test.
func (f Filter) shouldCollide(o Filter) bool {
	if f.GroupIndex == o.GroupIndex && f.GroupIndex != 0 {
		return f.GroupIndex > 0
	}
	return f.CategoryBits&o.MaskBits != 0 && o.CategoryBits&f.MaskBits != 0
}

// FixtureDef is the immutable configuration used to create a Fixture.
type FixtureDef struct {
	Shape       Shape
	Density     float64 // must be positive for dynamic bodies to have mass.
	Friction    float64
	Restitution float64
	IsSensor    bool // sensors report overlap but generate no contact response.
	Filter      Filter
}

// DefaultFixtureDef returns a FixtureDef with the usual material
// defaults (friction 0.2, no bounce, collides with everything).
func DefaultFixtureDef(shape Shape) FixtureDef {
	return FixtureDef{Shape: shape, Density: 1.0, Friction: 0.2, Filter: DefaultFilter()}
}

var fixtureUUID uint64

// Fixture binds one Shape to a Body for collision purposes.
type Fixture struct {
	// DebugID identifies this fixture in logs and listener side
	// tables; id below is the cheap integer used for contact keys and
	// is not meant for external consumption.
	DebugID uuid.UUID

	id          uint64
	body        *Body
	shape       Shape
	density     float64
	friction    float64
	restitution float64
	isSensor    bool
	filter      Filter

	// proxies holds one broad-phase proxy ID per child of the shape
	// (a chain shape has one child edge per segment; every other
	// shape has exactly one child).
	proxies []int
	aabbs   []AABB

	userData any
}

// Body returns the body this fixture is attached to.
func (f *Fixture) Body() *Body { return f.body }

// Shape returns the collision shape.
func (f *Fixture) Shape() Shape { return f.shape }

// IsSensor reports whether this fixture is a sensor, which detects
// overlap but generates no contact response.
func (f *Fixture) IsSensor() bool { return f.isSensor }

// SetSensor changes sensor status after creation.
func (f *Fixture) SetSensor(sensor bool) { f.isSensor = sensor }

// SetFilter updates the collision filter; existing contacts involving
// this fixture are left for the next broad-phase pass to re-evaluate.
func (f *Fixture) SetFilter(filter Filter) { f.filter = filter }
func (f *Fixture) Filter() Filter          { return f.filter }

// Friction/Restitution report the fixture's material properties.
func (f *Fixture) Friction() float64    { return f.friction }
func (f *Fixture) Restitution() float64 { return f.restitution }
func (f *Fixture) Density() float64     { return f.density }

// UserData/SetUserData stash an application value on the fixture.
func (f *Fixture) UserData() any      { return f.userData }
func (f *Fixture) SetUserData(v any)  { f.userData = v }

// testPoint reports whether a world point lies inside this fixture's
// shape. Only meaningful for convex shapes (Circle/Polygon); edges and
// chains have no interior and always report false.
func (f *Fixture) testPoint(p lin.V2) bool {
	xf := f.body.transform
	local := xf.ApplyT(&p)
	switch s := f.shape.(type) {
	case *Circle:
		return local.Dist(&s.P) <= s.R
	case *Polygon:
		for i, n := range s.Normals {
			d := n.Dot(&lin.V2{X: local.X - s.Vertices[i].X, Y: local.Y - s.Vertices[i].Y})
			if d > 0 {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// computeAABBs fills in the per-child AABBs in world space.
func (f *Fixture) computeAABBs() {
	n := f.shape.GetChildCount()
	if len(f.aabbs) != n {
		f.aabbs = make([]AABB, n)
	}
	for i := 0; i < n; i++ {
		f.aabbs[i] = f.shape.ComputeAABB(f.body.transform, i)
	}
}

// createProxies inserts one broad-phase proxy per shape child.
func (f *Fixture) createProxies(tree *DynamicTree, proxyID func() int) {
	f.computeAABBs()
	f.proxies = make([]int, len(f.aabbs))
	for i, aabb := range f.aabbs {
		f.proxies[i] = tree.CreateProxy(aabb, proxyID())
	}
}

// destroyProxies removes every broad-phase proxy this fixture owns.
func (f *Fixture) destroyProxies(tree *DynamicTree) {
	for _, p := range f.proxies {
		tree.DestroyProxy(p)
	}
	f.proxies = nil
}

// synchronize updates the fixture's broad-phase proxies after its body
// moved from transform0 to the body's current transform, returning
// true if any proxy actually moved (and so needs new contact pairs
// found for it).
func (f *Fixture) synchronize(tree *DynamicTree, transform0 *lin.Transform) bool {
	moved := false
	for i := range f.proxies {
		aabb1 := f.shape.ComputeAABB(transform0, i)
		aabb2 := f.shape.ComputeAABB(f.body.transform, i)
		f.aabbs[i] = aabb2
		displacement := lin.V2{X: aabb2.Center().X - aabb1.Center().X, Y: aabb2.Center().Y - aabb1.Center().Y}
		if tree.MoveProxy(f.proxies[i], aabb2, displacement) {
			moved = true
		}
	}
	return moved
}

// computeMass computes the mass data contributed by this fixture
// alone, at the given density; used by Body.resetMassData to sum
// across every fixture on the body.
func (f *Fixture) computeMass() MassData {
	if f.density == 0 {
		return MassData{}
	}
	return f.shape.ComputeMass(f.density)
}
