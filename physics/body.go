// Copyright © 2024 Galvanized Logic Inc.

package physics

// body.go is a 2D, multi-fixture generalization of the original
// body.go: that file tracked a single shape per body and resolved
// box/box contacts through a cgo call into collision.h. Multiple
// fixtures per body and the narrow phase itself (distance.go,
// manifold.go, collide.go) are both pure Go now, so the cgo dependency
// is dropped entirely - there is nothing left for it to do. The
// per-body bookkeeping (scratch vectors, lazy solver body, inverse
// mass/inertia, damping, predicted transform) keeps the original's
// shape and naming.

import (
	"math"
	"sync"

	"github.com/gazed/kinetic/math/lin"
	"github.com/google/uuid"
)

// BodyType controls how a body participates in the simulation.
type BodyType int

const (
	StaticBody    BodyType = iota // zero mass, never moves, infinite effective mass in contacts.
	KinematicBody                 // moves at a prescribed velocity, unaffected by forces or contacts.
	DynamicBody                   // full simulation: forces, contacts, and joints all apply.
)

// BodyDef is the immutable configuration used to create a Body.
type BodyDef struct {
	Type           BodyType
	Position       lin.V2
	Angle          float64
	LinearVelocity lin.V2
	AngularVelocity float64
	LinearDamping  float64
	AngularDamping float64
	GravityScale   float64
	FixedRotation  bool
	Bullet         bool // opt into continuous collision against every other body.
	AllowSleep     bool
	Awake          bool
	UserData       any
}

// DefaultBodyDef returns a BodyDef for an awake, sleep-eligible static
// body at the origin with unit gravity scale.
func DefaultBodyDef() BodyDef {
	return BodyDef{Type: StaticBody, GravityScale: 1.0, AllowSleep: true, Awake: true}
}

// Body is a single rigid object in a World, made up of one or more
// Fixtures that determine its collision shape and mass.
type Body struct {
	// DebugID identifies this body in logs and listener side tables,
	// stable across the body's lifetime regardless of its position in
	// World.bodies (which shifts on destroy).
	DebugID uuid.UUID

	bid   uint32 // unique id, used to build order-independent contact pair keys.
	world *World
	typ   BodyType

	fixtures []*Fixture

	transform     *lin.Transform // current world transform of the body origin.
	prevTransform lin.Transform  // transform at the start of the current Step, for broad-phase displacement.
	sweep         lin.Sweep      // motion over the current/previous sub-step, for TOI.

	linearVelocity  lin.V2
	angularVelocity float64

	force  lin.V2
	torque float64

	linearDamping  float64
	angularDamping float64
	gravityScale   float64

	mass, invMass float64
	i, invI       float64 // rotational inertia about the local center, and its inverse.
	localCenter   lin.V2

	fixedRotation bool
	bullet        bool

	awake      bool
	allowSleep bool
	sleepTime  float64
	islandFlag bool

	userData any

	// scratch variables reused every step to avoid per-step allocation.
	v0 lin.V2
}

var bodyUUID uint32
var bodyUUIDMutex sync.Mutex

// newBody constructs a Body for the given World; World.CreateBody is
// the public entry point since a body only makes sense attached to a
// world (it needs the broad-phase tree to register fixture proxies).
func newBody(def BodyDef, w *World) *Body {
	b := &Body{}
	b.DebugID = uuid.New()
	b.world = w
	b.typ = def.Type
	b.transform = lin.NewTransform().SetPA(def.Position, def.Angle)
	b.sweep.C = def.Position
	b.sweep.C0 = def.Position
	b.sweep.A = def.Angle
	b.sweep.A0 = def.Angle
	b.linearVelocity = def.LinearVelocity
	b.angularVelocity = def.AngularVelocity
	b.linearDamping = def.LinearDamping
	b.angularDamping = def.AngularDamping
	b.gravityScale = def.GravityScale
	b.fixedRotation = def.FixedRotation
	b.bullet = def.Bullet
	b.allowSleep = def.AllowSleep
	b.awake = def.Awake
	b.userData = def.UserData
	if b.typ == StaticBody {
		b.mass, b.invMass = 0, 0
	}

	bodyUUIDMutex.Lock()
	b.bid = bodyUUID
	bodyUUID++
	bodyUUIDMutex.Unlock()
	return b
}

// Type/Transform/Position/Angle/Sweep are simple accessors.
func (b *Body) Type() BodyType          { return b.typ }
func (b *Body) Transform() lin.Transform { return *b.transform }
func (b *Body) Position() lin.V2        { return b.transform.P }
func (b *Body) Angle() float64          { return b.transform.Q.Angle() }
func (b *Body) UserData() any           { return b.userData }
func (b *Body) SetUserData(v any)       { b.userData = v }

// WorldCenter returns the center of mass in world coordinates.
func (b *Body) WorldCenter() lin.V2 { return b.sweep.C }

// LocalCenter returns the center of mass in body-local coordinates.
func (b *Body) LocalCenter() lin.V2 { return b.localCenter }

// LinearVelocity/AngularVelocity report the body's current velocity.
func (b *Body) LinearVelocity() lin.V2   { return b.linearVelocity }
func (b *Body) AngularVelocity() float64 { return b.angularVelocity }

func (b *Body) SetLinearVelocity(v lin.V2) {
	if b.typ != StaticBody {
		b.linearVelocity = v
	}
}
func (b *Body) SetAngularVelocity(w float64) {
	if b.typ != StaticBody {
		b.angularVelocity = w
	}
}

// ApplyForce adds a force at a world point, and the torque that point
// offset produces, to the forces accumulated for the next step.
func (b *Body) ApplyForce(force, point lin.V2, wake bool) {
	if b.typ != DynamicBody {
		return
	}
	if wake && !b.awake {
		b.SetAwake(true)
	}
	if !b.awake {
		return
	}
	b.force.X += force.X
	b.force.Y += force.Y
	rx, ry := point.X-b.sweep.C.X, point.Y-b.sweep.C.Y
	b.torque += rx*force.Y - ry*force.X
}

// ApplyForceToCenter adds a force through the center of mass (no torque).
func (b *Body) ApplyForceToCenter(force lin.V2, wake bool) {
	if b.typ != DynamicBody {
		return
	}
	if wake && !b.awake {
		b.SetAwake(true)
	}
	if !b.awake {
		return
	}
	b.force.X += force.X
	b.force.Y += force.Y
}

// ApplyTorque adds torque without any linear force.
func (b *Body) ApplyTorque(torque float64, wake bool) {
	if b.typ != DynamicBody {
		return
	}
	if wake && !b.awake {
		b.SetAwake(true)
	}
	if b.awake {
		b.torque += torque
	}
}

// ApplyLinearImpulse changes velocity immediately by impulse/mass,
// applied at a world point.
func (b *Body) ApplyLinearImpulse(impulse, point lin.V2, wake bool) {
	if b.typ != DynamicBody {
		return
	}
	if wake && !b.awake {
		b.SetAwake(true)
	}
	if !b.awake {
		return
	}
	b.linearVelocity.X += b.invMass * impulse.X
	b.linearVelocity.Y += b.invMass * impulse.Y
	rx, ry := point.X-b.sweep.C.X, point.Y-b.sweep.C.Y
	b.angularVelocity += b.invI * (rx*impulse.Y - ry*impulse.X)
}

// ApplyAngularImpulse changes angular velocity immediately by impulse*invI.
func (b *Body) ApplyAngularImpulse(impulse float64, wake bool) {
	if b.typ != DynamicBody {
		return
	}
	if wake && !b.awake {
		b.SetAwake(true)
	}
	if b.awake {
		b.angularVelocity += b.invI * impulse
	}
}

// SetAwake wakes the body (resetting its sleep timer) or forces it to
// sleep (zeroing its velocities). Static bodies are always awake.
func (b *Body) SetAwake(awake bool) {
	if b.typ == StaticBody {
		return
	}
	if awake {
		b.sleepTime = 0
		b.awake = true
	} else {
		b.sleepTime = 0
		b.awake = false
		b.linearVelocity = lin.V2{}
		b.angularVelocity = 0
		b.force = lin.V2{}
		b.torque = 0
	}
}
func (b *Body) IsAwake() bool { return b.awake }

// IsBullet reports whether this body requests continuous collision.
func (b *Body) IsBullet() bool { return b.bullet }
func (b *Body) SetBullet(v bool) { b.bullet = v }

func (b *Body) SetFixedRotation(v bool) {
	if b.fixedRotation == v {
		return
	}
	b.fixedRotation = v
	b.angularVelocity = 0
	b.resetMassData()
}
func (b *Body) IsFixedRotation() bool { return b.fixedRotation }

// Mass/InvMass/Inertia/InvInertia report the body's computed mass data.
func (b *Body) Mass() float64        { return b.mass }
func (b *Body) InvMass() float64     { return b.invMass }
func (b *Body) Inertia() float64     { return b.i }
func (b *Body) InvInertia() float64  { return b.invI }

// Fixtures returns the body's attached fixtures.
func (b *Body) Fixtures() []*Fixture { return b.fixtures }

// CreateFixture attaches shape/material data to the body, registers a
// broad-phase proxy per shape child, and recomputes the body's mass
// data (fixture density contributes to it).
func (b *Body) CreateFixture(def FixtureDef) *Fixture {
	fixtureUUID++
	f := &Fixture{
		DebugID:     uuid.New(),
		id:          fixtureUUID,
		body:        b,
		shape:       def.Shape,
		density:     def.Density,
		friction:    def.Friction,
		restitution: def.Restitution,
		isSensor:    def.IsSensor,
		filter:      def.Filter,
	}
	b.fixtures = append(b.fixtures, f)
	if b.world != nil {
		f.createProxies(b.world.tree, b.world.nextProxyID)
	}
	b.resetMassData()
	return f
}

// DestroyFixture removes a fixture, its broad-phase proxies, and any
// contacts involving it, then recomputes mass data.
func (b *Body) DestroyFixture(f *Fixture) {
	for i, bf := range b.fixtures {
		if bf == f {
			b.fixtures = append(b.fixtures[:i], b.fixtures[i+1:]...)
			break
		}
	}
	if b.world != nil {
		f.destroyProxies(b.world.tree)
		b.world.destroyContactsFor(f)
	}
	b.resetMassData()
}

// resetMassData recomputes mass, inverse mass, rotational inertia
// about the center of mass, and the local center, by summing each
// fixture's contribution at its own density. Static and kinematic
// bodies, and fixed-rotation dynamic bodies, are given zero/fixed
// inverse inertia.
func (b *Body) resetMassData() {
	b.mass, b.invMass, b.i, b.invI = 0, 0, 0, 0
	b.localCenter = lin.V2{}
	if b.typ != DynamicBody {
		b.sweep.LocalCenter = b.localCenter
		return
	}

	center := lin.V2{}
	totalI := 0.0
	for _, f := range b.fixtures {
		if f.density == 0 {
			continue
		}
		md := f.computeMass()
		b.mass += md.Mass
		center.X += md.Center.X * md.Mass
		center.Y += md.Center.Y * md.Mass
		totalI += md.I
	}

	if b.mass > 0 {
		b.invMass = 1.0 / b.mass
		center.X *= b.invMass
		center.Y *= b.invMass
	} else {
		b.mass, b.invMass = 1.0, 1.0
	}

	if totalI > 0 && !b.fixedRotation {
		totalI -= b.mass * center.Dot(&center)
		b.i = totalI
		b.invI = 1.0 / totalI
	}

	oldCenter := b.sweep.C
	b.localCenter = center
	b.sweep.LocalCenter = center
	b.sweep.C = b.transform.Apply(&center)
	b.sweep.C0 = b.sweep.C

	// keep velocity consistent with the moved center of mass.
	rx, ry := b.sweep.C.X-oldCenter.X, b.sweep.C.Y-oldCenter.Y
	b.linearVelocity.X += -b.angularVelocity * ry
	b.linearVelocity.Y += b.angularVelocity * rx
}

// pairID builds an order-independent key for a pair of bodies, used to
// look up/store persistent contacts.
func (b *Body) pairID(a *Body) uint64 {
	id0, id1 := uint64(b.bid), uint64(a.bid)
	if id0 > id1 {
		id0, id1 = id1, id0
	}
	return id0<<32 | id1
}

// applyGravity accumulates the world's gravity, scaled per-body, into
// the force total for the coming integration step.
func (b *Body) applyGravity(gravity lin.V2) {
	if b.typ == DynamicBody {
		b.force.X += gravity.X * b.mass * b.gravityScale
		b.force.Y += gravity.Y * b.mass * b.gravityScale
	}
}

// integrateVelocities applies accumulated force/torque and damping to
// the body's velocity. Static and kinematic bodies are untouched.
func (b *Body) integrateVelocities(ts float64) {
	if b.typ != DynamicBody {
		return
	}
	b.linearVelocity.X += ts * b.invMass * b.force.X
	b.linearVelocity.Y += ts * b.invMass * b.force.Y
	b.angularVelocity += ts * b.invI * b.torque

	b.linearVelocity.X *= 1.0 / (1.0 + ts*b.linearDamping)
	b.linearVelocity.Y *= 1.0 / (1.0 + ts*b.linearDamping)
	b.angularVelocity *= 1.0 / (1.0 + ts*b.angularDamping)
}

// integratePositions advances the sweep's end point by the current
// velocities, clamping rotation per sub-step the way the original
// clamped angular velocity - too large a rotation in one step makes
// the narrow phase's linear approximations unreliable.
func (b *Body) integratePositions(ts float64) {
	if b.typ == StaticBody {
		return
	}
	translation := lin.V2{X: ts * b.linearVelocity.X, Y: ts * b.linearVelocity.Y}
	if translation.Dot(&translation) > maxTranslation()*maxTranslation() {
		ratio := maxTranslation() / translation.Len()
		b.linearVelocity.X *= ratio
		b.linearVelocity.Y *= ratio
	}
	rotation := ts * b.angularVelocity
	if rotation*rotation > maxRotation*maxRotation {
		ratio := maxRotation / math.Abs(rotation)
		b.angularVelocity *= ratio
	}

	b.sweep.C0 = b.sweep.C
	b.sweep.A0 = b.sweep.A
	b.sweep.C.X += ts * b.linearVelocity.X
	b.sweep.C.Y += ts * b.linearVelocity.Y
	b.sweep.A += ts * b.angularVelocity
	b.synchronizeTransform()
}

// synchronizeTransform rebuilds the body-origin transform from the
// sweep's current center-of-mass position/angle.
func (b *Body) synchronizeTransform() {
	b.transform.Q.Set(b.sweep.A)
	r := b.transform.Q.Apply(&b.sweep.LocalCenter)
	b.transform.P.X = b.sweep.C.X - r.X
	b.transform.P.Y = b.sweep.C.Y - r.Y
}

// advance moves the sweep (and transform) back to time alpha in
// [0,1] of the current step, used by the TOI solver to roll a body
// back to the moment just before impact.
func (b *Body) advance(alpha float64) {
	b.sweep.Advance(alpha)
	b.sweep.C = b.sweep.C0
	b.sweep.A = b.sweep.A0
	b.synchronizeTransform()
}

// synchronizeFixtures pushes the body's current transform into every
// fixture's broad-phase proxies, returning true if any proxy moved.
func (b *Body) synchronizeFixtures(transform0 *lin.Transform) bool {
	moved := false
	for _, f := range b.fixtures {
		if f.synchronize(b.world.tree, transform0) {
			moved = true
		}
	}
	return moved
}

// getVelocityAtLocalPoint returns the linear velocity of the body at a
// local-space point, combining linear and angular contributions.
func (b *Body) getVelocityAtLocalPoint(localPoint lin.V2) lin.V2 {
	r := b.transform.Q.Apply(&lin.V2{X: localPoint.X - b.localCenter.X, Y: localPoint.Y - b.localCenter.Y})
	return lin.V2{
		X: b.linearVelocity.X - b.angularVelocity*r.Y,
		Y: b.linearVelocity.Y + b.angularVelocity*r.X,
	}
}

// clearForces zeroes the accumulated force/torque; called once per
// step after integration so forces don't carry over uninvoked.
func (b *Body) clearForces() {
	b.force = lin.V2{}
	b.torque = 0
}

// shouldSleep reports whether the body's recent velocity has been low
// enough, for long enough, to be put to sleep.
func (b *Body) shouldSleep() bool {
	if b.typ == StaticBody || !b.allowSleep || b.bullet {
		return b.typ == StaticBody
	}
	linTol2 := linearSleepTolerance() * linearSleepTolerance()
	if b.linearVelocity.Dot(&b.linearVelocity) > linTol2 {
		return false
	}
	if b.angularVelocity*b.angularVelocity > angularSleepTolerance*angularSleepTolerance {
		return false
	}
	return b.sleepTime >= timeToSleep
}
