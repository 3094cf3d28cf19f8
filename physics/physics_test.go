// Copyright © 2024 Galvanized Logic Inc.

package physics

// physics_test.go is the end-to-end scenario suite: each test drives a
// whole World through many Step calls and checks the settled outcome,
// the way distance_test.go/body_test.go check one function's output in
// isolation. testify's assert/require package gets its only use here -
// every scenario below makes several numeric-tolerance assertions
// against the same simulation run, which require.InDelta/assert.True
// read more plainly than a page of repeated t.Errorf calls.

import (
	"math"
	"testing"

	"github.com/gazed/kinetic/math/lin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// S1: a single falling disk under gravity should match the closed-form
// projectile solution after a fixed number of ticks.
func TestScenarioFallingDisk(t *testing.T) {
	w := NewWorld(DefaultWorldDef())
	def := DefaultBodyDef()
	def.Type = DynamicBody
	def.Position = lin.V2{X: 0, Y: 10}
	b := w.CreateBody(def)
	fd := DefaultFixtureDef(NewCircle(0.5))
	fd.Density = 1
	b.CreateFixture(fd)

	const dt = 1.0 / 60.0
	for i := 0; i < 60; i++ {
		w.Step(dt)
	}

	wantY := 10 - 0.5*10*1*1
	require.InDelta(t, wantY, b.Position().Y, 0.02)
	require.InDelta(t, -10.0, b.LinearVelocity().Y, 0.2)
}

// S2: a box dropped onto a much larger ground box should come to rest
// on top of it, within slop, and fall asleep.
func TestScenarioBoxRestingOnGround(t *testing.T) {
	w := NewWorld(DefaultWorldDef())

	groundDef := DefaultBodyDef()
	groundDef.Position = lin.V2{X: 0, Y: -10}
	ground := w.CreateBody(groundDef)
	ground.CreateFixture(DefaultFixtureDef(NewBox(50, 10)))

	boxDef := DefaultBodyDef()
	boxDef.Type = DynamicBody
	boxDef.Position = lin.V2{X: 0, Y: 4}
	box := w.CreateBody(boxDef)
	fd := DefaultFixtureDef(NewBox(0.5, 0.5))
	fd.Density = 1
	box.CreateFixture(fd)

	const dt = 1.0 / 60.0
	for i := 0; i < 180; i++ {
		w.Step(dt)
	}

	restY := -10 + 10 + 0.5
	assert.GreaterOrEqual(t, box.Position().Y, restY-2*linearSlop())
	assert.LessOrEqual(t, box.Position().Y, restY+linearSlop())
	assert.Less(t, math.Abs(box.LinearVelocity().Y), linearSleepTolerance())
	assert.False(t, box.IsAwake(), "box should have settled asleep")
}

// S3: a box on a revolute pendulum with no gravity should conserve
// kinetic energy across many steps.
func TestScenarioRevolutePendulumEnergy(t *testing.T) {
	w := NewWorld(WorldDef{AllowSleep: true, VelocityIterations: 8, PositionIterations: 3})

	anchorDef := DefaultBodyDef()
	anchor := w.CreateBody(anchorDef)

	boxDef := DefaultBodyDef()
	boxDef.Type = DynamicBody
	boxDef.Position = lin.V2{X: 0, Y: -1}
	boxDef.AngularVelocity = 1.0
	box := w.CreateBody(boxDef)
	fd := DefaultFixtureDef(NewBox(0.5, 0.5))
	fd.Density = 1
	box.CreateFixture(fd)

	jointDef := JointDef{
		Type:         RevoluteJoint,
		BodyA:        anchor,
		BodyB:        box,
		LocalAnchorA: lin.V2{},
		LocalAnchorB: lin.V2{X: 0, Y: 1},
	}
	w.CreateJoint(jointDef)

	kineticEnergy := func() float64 {
		v := box.LinearVelocity()
		linear := 0.5 * box.Mass() * (v.X*v.X + v.Y*v.Y)
		angular := 0.5 * box.Inertia() * box.AngularVelocity() * box.AngularVelocity()
		return linear + angular
	}
	initial := kineticEnergy()
	require.Greater(t, initial, 0.0)

	const dt = 1.0 / 60.0
	for i := 0; i < 600; i++ {
		w.Step(dt)
	}

	final := kineticEnergy()
	ratio := math.Abs(final-initial) / initial
	assert.Less(t, ratio, 0.05, "pendulum should conserve kinetic energy within 5%%")
}

// S4: a prismatic joint with translation limits should let a constant
// force push the body up against the upper limit and hold it there.
func TestScenarioPrismaticLimit(t *testing.T) {
	w := NewWorld(WorldDef{VelocityIterations: 8, PositionIterations: 3})

	groundDef := DefaultBodyDef()
	ground := w.CreateBody(groundDef)

	sliderDef := DefaultBodyDef()
	sliderDef.Type = DynamicBody
	slider := w.CreateBody(sliderDef)
	fd := DefaultFixtureDef(NewBox(0.2, 0.2))
	fd.Density = 1
	slider.CreateFixture(fd)

	jointDef := JointDef{
		Type:        PrismaticJoint,
		BodyA:       ground,
		BodyB:       slider,
		LocalAxisA:  lin.V2{X: 1, Y: 0},
		EnableLimit: true,
		LowerLimit:  -1,
		UpperLimit:  1,
	}
	w.CreateJoint(jointDef)

	const dt = 1.0 / 60.0
	for i := 0; i < 300; i++ {
		slider.ApplyForceToCenter(lin.V2{X: 20, Y: 0}, true)
		w.Step(dt)
	}

	assert.InDelta(t, 1.0, slider.Position().X, 10*linearSlop())
}

// S5: a fast bullet body should not tunnel through a thin static wall
// in a single step.
func TestScenarioBulletTunnelingPrevention(t *testing.T) {
	w := NewWorld(WorldDef{})

	wallDef := DefaultBodyDef()
	wall := w.CreateBody(wallDef)
	wall.CreateFixture(DefaultFixtureDef(NewBox(0.05, 5)))

	bulletDef := DefaultBodyDef()
	bulletDef.Type = DynamicBody
	bulletDef.Position = lin.V2{X: -5, Y: 0}
	bulletDef.LinearVelocity = lin.V2{X: 1000, Y: 0}
	bulletDef.Bullet = true
	bullet := w.CreateBody(bulletDef)
	fd := DefaultFixtureDef(NewCircle(0.1))
	fd.Density = 1
	bullet.CreateFixture(fd)

	w.Step(1.0 / 60.0)

	assert.LessOrEqual(t, bullet.Position().X, -(0.05+0.1+linearSlop()))
}

// S6: two overlapping unit squares should report zero GJK separation,
// with a witness-point midpoint that lies inside both shapes.
func TestScenarioGJKOverlapDetection(t *testing.T) {
	var proxyA, proxyB DistanceProxy
	proxyA.SetShape(NewBox(0.5, 0.5), 0)
	proxyB.SetShape(NewBox(0.5, 0.5), 0)

	xfA := *lin.NewTransform().SetI()
	xfB := *lin.NewTransform().SetPA(lin.V2{X: 0.5, Y: 0.5}, 0)

	input := DistanceInput{ProxyA: proxyA, ProxyB: proxyB, TransformA: xfA, TransformB: xfB}
	var cache SimplexCache
	out := Distance(&input, &cache)

	require.LessOrEqual(t, out.Distance, lin.Epsilon)

	mid := lin.V2{X: (out.PointA.X + out.PointB.X) / 2, Y: (out.PointA.Y + out.PointB.Y) / 2}
	boxA := NewBox(0.5, 0.5)
	boxB := NewBox(0.5, 0.5)
	assert.True(t, pointInPolygon(boxA, xfA, mid))
	assert.True(t, pointInPolygon(boxB, xfB, mid))
}

// pointInPolygon reports whether a world-space point lies inside a
// polygon at the given transform, using the same half-plane test
// Fixture.testPoint uses for a body's own fixtures.
func pointInPolygon(p *Polygon, xf lin.Transform, point lin.V2) bool {
	local := xf.ApplyT(&point)
	for i, n := range p.Normals {
		d := n.Dot(&lin.V2{X: local.X - p.Vertices[i].X, Y: local.Y - p.Vertices[i].Y})
		if d > linearSlop() {
			return false
		}
	}
	return true
}
