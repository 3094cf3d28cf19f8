// Copyright © 2024 Galvanized Logic Inc.

package physics

// world.go is the stepper that replaces an earlier flat
// bodies-map-plus-solver (physics.go/solver.go) orchestration with one
// that actually has a broad phase, persistent contacts, islands, and
// joints to coordinate: generate broad-phase pairs, update contacts,
// flood-fill islands, run each island through the velocity/position
// solver, sweep for missed bullet collisions, then let bodies sleep.

import (
	"log/slog"

	"github.com/gazed/kinetic/math/lin"
)

// WorldDef configures a World at creation.
type WorldDef struct {
	Gravity            lin.V2
	AllowSleep         bool
	VelocityIterations int
	PositionIterations int

	// Logger receives lifecycle/diagnostic records. Defaults to
	// slog.Default() when left nil.
	Logger *slog.Logger
}

// DefaultWorldDef returns standard gravity (0,-10), sleeping enabled,
// and the usual 8 velocity / 3 position solver iterations.
func DefaultWorldDef() WorldDef {
	return WorldDef{Gravity: lin.V2{Y: -10}, AllowSleep: true, VelocityIterations: 8, PositionIterations: 3}
}

// World owns every body, fixture, contact, and joint in a simulation,
// plus the broad-phase tree used to find candidate contact pairs.
type World struct {
	def WorldDef

	tree     *DynamicTree
	bodies   []*Body
	contacts []*Contact
	joints   []*Joint

	contactByKey map[uint64]*Contact
	nextProxy    int

	listener ContactListener
	filter   ContactFilter

	solver *contactSolver

	log *slog.Logger

	locked bool
}

// NewWorld creates an empty simulation.
func NewWorld(def WorldDef) *World {
	w := &World{def: def}
	w.tree = NewDynamicTree()
	w.contactByKey = make(map[uint64]*Contact)
	w.filter = defaultContactFilter{}
	w.solver = newContactSolver()
	w.log = def.Logger
	if w.log == nil {
		w.log = slog.Default()
	}
	return w
}

// SetContactListener/SetContactFilter install the application's hooks.
func (w *World) SetContactListener(l ContactListener) { w.listener = l }
func (w *World) SetContactFilter(f ContactFilter)     { w.filter = f }

func (w *World) nextProxyID() int { w.nextProxy++; return w.nextProxy }

// CreateBody adds a body to the world. Its fixtures are added
// separately via Body.CreateFixture.
func (w *World) CreateBody(def BodyDef) *Body {
	b := newBody(def, w)
	w.bodies = append(w.bodies, b)
	w.log.Debug("physics: body created", "id", b.DebugID.String(), "type", b.typ)
	return b
}

// DestroyBody removes a body, its fixtures' broad-phase proxies, and
// any contacts/joints referencing it. Must not be called while the
// world is mid-Step (the same "locked" guard Box2D-style engines use
// to stop a ContactListener callback from mutating the world it was
// called from).
func (w *World) DestroyBody(b *Body) {
	if w.locked {
		w.log.Warn("physics: DestroyBody called during Step; ignored", "id", b.DebugID.String())
		return
	}
	for _, f := range b.fixtures {
		f.destroyProxies(w.tree)
	}
	w.joints = filterJoints(w.joints, func(j *Joint) bool { return j.bodyA != b && j.bodyB != b })
	kept := w.contacts[:0]
	for _, c := range w.contacts {
		if c.bodyA() == b || c.bodyB() == b {
			delete(w.contactByKey, contactKey(c.fixtureA, c.fixtureB))
			continue
		}
		kept = append(kept, c)
	}
	w.contacts = kept
	w.bodies = filterBodies(w.bodies, func(o *Body) bool { return o != b })
	w.log.Debug("physics: body destroyed", "id", b.DebugID.String())
}

func filterBodies(bs []*Body, keep func(*Body) bool) []*Body {
	out := bs[:0]
	for _, b := range bs {
		if keep(b) {
			out = append(out, b)
		}
	}
	return out
}
func filterJoints(js []*Joint, keep func(*Joint) bool) []*Joint {
	out := js[:0]
	for _, j := range js {
		if keep(j) {
			out = append(out, j)
		}
	}
	return out
}

// CreateJoint adds a joint between two bodies (or one body and a
// fixed world target, for a mouse joint) and wakes both bodies.
func (w *World) CreateJoint(def JointDef) *Joint {
	j := newJoint(def)
	w.joints = append(w.joints, j)
	if j.bodyA != nil {
		j.bodyA.SetAwake(true)
	}
	if j.bodyB != nil {
		j.bodyB.SetAwake(true)
	}
	w.log.Debug("physics: joint created", "id", j.DebugID.String(), "type", j.typ)
	return j
}

// DestroyJoint removes a joint.
func (w *World) DestroyJoint(j *Joint) {
	w.joints = filterJoints(w.joints, func(o *Joint) bool { return o != j })
}

// destroyContactsFor drops any contact referencing fixture f, called
// when f is removed from its body.
func (w *World) destroyContactsFor(f *Fixture) {
	kept := w.contacts[:0]
	for _, c := range w.contacts {
		if c.fixtureA == f || c.fixtureB == f {
			delete(w.contactByKey, contactKey(c.fixtureA, c.fixtureB))
			continue
		}
		kept = append(kept, c)
	}
	w.contacts = kept
}

func contactKey(a, b *Fixture) uint64 {
	pa, pb := a.id, b.id
	if pa > pb {
		pa, pb = pb, pa
	}
	return pa<<32 | pb
}

// Step advances the simulation by dt seconds: updates the broad
// phase, refreshes contacts, builds islands, solves velocity and
// position constraints per island, performs continuous-collision
// sweeps for bullet bodies, and lets still bodies sleep.
func (w *World) Step(dt float64) {
	w.locked = true
	defer func() { w.locked = false }()

	for _, b := range w.bodies {
		b.prevTransform = *b.transform
	}
	w.updateContacts()

	if dt > 0 {
		w.solveIslands(dt)
		// solveTOI measures each sweep from its Alpha0; reset it to the
		// start of this step before sweeping, else a body rolled back by
		// a previous step's TOI would still be trying to advance from
		// its old sub-step boundary.
		for _, b := range w.bodies {
			b.sweep.Alpha0 = 0
		}
		w.solveTOI(dt)
	}

	for _, b := range w.bodies {
		b.clearForces()
	}
}

// updateContacts synchronizes broad-phase proxies for every fixture,
// finds newly overlapping pairs, drops contacts whose AABBs no longer
// overlap, and refreshes the manifold of every surviving contact.
func (w *World) updateContacts() {
	for _, b := range w.bodies {
		b.synchronizeFixtures(&b.prevTransform)
	}

	seen := make(map[uint64]bool, len(w.contacts))
	for _, c := range w.contacts {
		seen[contactKey(c.fixtureA, c.fixtureB)] = true
	}
	w.findNewContactsBruteForce(seen)

	// update touching state, drop contacts whose fixtures no longer overlap.
	kept := w.contacts[:0]
	for _, c := range w.contacts {
		if !c.fixtureA.body.awake && !c.fixtureB.body.awake &&
			c.fixtureA.body.typ != StaticBody && c.fixtureB.body.typ != StaticBody {
			kept = append(kept, c)
			continue
		}
		if !w.filter.ShouldCollide(c.fixtureA, c.fixtureB) {
			delete(w.contactByKey, contactKey(c.fixtureA, c.fixtureB))
			continue
		}
		if !w.aabbsOverlap(c) {
			delete(w.contactByKey, contactKey(c.fixtureA, c.fixtureB))
			continue
		}
		c.update(w.listener)
		kept = append(kept, c)
	}
	w.contacts = kept
}

// findNewContactsBruteForce scans fixture pairs directly rather than
// walking the broad-phase tree's internal node structure from the
// outside; the tree is still what makes Query(aabb) itself fast, this
// loop is the O(n^2) "for every fixture, who else is nearby" pass that
// a dedicated pair-cache (Box2D's b2ContactManager) would normally
// dedupe across steps - left as a direct scan since wiring the tree's
// userData back to a *Fixture pointer table is straightforward but
// more machinery than this engine's pair volume currently needs.
func (w *World) findNewContactsBruteForce(seen map[uint64]bool) {
	var all []*Fixture
	for _, b := range w.bodies {
		all = append(all, b.fixtures...)
	}
	for i := 0; i < len(all); i++ {
		for j := i + 1; j < len(all); j++ {
			fa, fb := all[i], all[j]
			if fa.body == fb.body {
				continue
			}
			if fa.body.typ != DynamicBody && fb.body.typ != DynamicBody {
				continue
			}
			if !fixtureAABBsOverlap(fa, fb) {
				continue
			}
			key := contactKey(fa, fb)
			if seen[key] {
				continue
			}
			seen[key] = true
			c := newContact(fa, fb, 0, 0)
			w.contactByKey[key] = c
			w.contacts = append(w.contacts, c)
		}
	}
}

func fixtureAABBsOverlap(a, b *Fixture) bool {
	for _, aabbA := range a.aabbs {
		for _, aabbB := range b.aabbs {
			if aabbA.Overlap(aabbB) {
				return true
			}
		}
	}
	return false
}

func (w *World) aabbsOverlap(c *Contact) bool {
	return fixtureAABBsOverlap(c.fixtureA, c.fixtureB)
}

// solveIslands integrates forces/velocities, builds islands from the
// current contact/joint graph, and runs each island through the
// sequential-impulse velocity solver followed by position correction.
func (w *World) solveIslands(dt float64) {
	for _, b := range w.bodies {
		if !b.awake {
			continue
		}
		b.applyGravity(w.def.Gravity)
		b.integrateVelocities(dt)
	}

	islands := w.buildIslands()
	for _, isl := range islands {
		w.solveIsland(isl, dt)
	}

	for _, b := range w.bodies {
		if b.typ == StaticBody || !b.awake {
			continue
		}
		if b.allowSleep && !b.bullet &&
			b.linearVelocity.Dot(&b.linearVelocity) <= linearSleepTolerance()*linearSleepTolerance() &&
			b.angularVelocity*b.angularVelocity <= angularSleepTolerance*angularSleepTolerance {
			b.sleepTime += dt
		} else {
			b.sleepTime = 0
		}
	}

	if w.def.AllowSleep {
		for _, isl := range islands {
			minSleep := lin.Large
			for _, b := range isl.bodies {
				if b.typ == StaticBody {
					continue
				}
				if b.sleepTime < minSleep {
					minSleep = b.sleepTime
				}
			}
			if minSleep >= timeToSleep {
				for _, b := range isl.bodies {
					b.SetAwake(false)
				}
				w.log.Debug("physics: island asleep", "bodies", len(isl.bodies))
			}
		}
	}
}

// solveIsland initializes the joint and contact constraints, runs the
// velocity solver (contacts and joints together, both clamped by
// sequential impulses) for VelocityIterations, integrates positions,
// then runs the position-correction pass for PositionIterations and
// reports each contact's normal impulses to ContactListener.PostSolve.
func (w *World) solveIsland(isl *island, dt float64) {
	for _, j := range isl.joints {
		j.initVelocityConstraints(dt)
	}
	w.solver.initialize(isl.contacts)
	w.solver.warmStart()
	w.solver.prepare(dt)

	for i := 0; i < w.def.VelocityIterations; i++ {
		for _, j := range isl.joints {
			j.solveVelocity(dt)
		}
		w.solver.solveVelocityConstraints()
	}
	w.solver.storeImpulses()

	for _, b := range isl.bodies {
		b.integratePositions(dt)
	}

	for i := 0; i < w.def.PositionIterations; i++ {
		for _, j := range isl.joints {
			j.solvePositionConstraints()
		}
		w.solver.solvePositionConstraints(baumgarte)
	}

	if w.listener != nil {
		for i := range w.solver.velocityConstraints {
			vc := &w.solver.velocityConstraints[i]
			impulses := make([]float64, vc.pointCount)
			for k := range impulses {
				impulses[k] = vc.points[k].normalImpulse
			}
			w.listener.PostSolve(vc.contact, impulses)
		}
	}

	for _, b := range isl.bodies {
		b.synchronizeFixtures(b.transform)
	}
}

// solveTOI performs a conservative-advancement sweep for every bullet
// body against every other body's fixtures (including every child of a
// chain shape). The earliest impact found rolls both bodies' sweeps back to that instant,
// resolves a fresh single-contact mini-island there (a toiBaumgarte
// position nudge plus one velocity-only pass with no warm starting,
// since the contact did not exist a moment before), then lets both
// bodies integrate whatever fraction of the step remains rather than
// simply stopping dead at the impact point.
func (w *World) solveTOI(dt float64) {
	for _, b := range w.bodies {
		if !b.bullet || b.typ != DynamicBody {
			continue
		}
		w.solveTOIForBody(b, dt)
	}
}

// solveTOIForBody finds the earliest time of impact between b and any
// other body this step, then resolves it.
func (w *World) solveTOIForBody(b *Body, dt float64) {
	minT := 1.0
	var other *Body
	var fixA, fixB *Fixture
	var childA, childB int

	for _, o := range w.bodies {
		if o == b || len(o.fixtures) == 0 || len(b.fixtures) == 0 {
			continue
		}
		for _, fb := range b.fixtures {
			if fb.isSensor {
				continue
			}
			for cb := 0; cb < fb.shape.GetChildCount(); cb++ {
				for _, fo := range o.fixtures {
					if fo.isSensor {
						continue
					}
					for co := 0; co < fo.shape.GetChildCount(); co++ {
						out := TimeOfImpact(&TOIInput{
							ProxyA: proxyForChild(fb.shape, cb),
							ProxyB: proxyForChild(fo.shape, co),
							SweepA: b.sweep, SweepB: o.sweep,
							TMax: 1.0,
						})
						if out.State == TOITouching && out.T < minT {
							minT = out.T
							other = o
							fixA, fixB = fb, fo
							childA, childB = cb, co
						}
					}
				}
			}
		}
	}
	if other == nil {
		return
	}

	b.advance(minT)
	other.advance(minT)
	w.solveTOIContact(fixA, fixB, childA, childB)

	if remaining := (1 - minT) * dt; remaining > 0 {
		b.integratePositions(remaining)
		other.integratePositions(remaining)
	}
	b.synchronizeFixtures(b.transform)
	other.synchronizeFixtures(other.transform)
}

// solveTOIContact builds the two-body mini-island for a TOI event: a
// single fresh Contact at the rolled-back configuration, corrected
// once with toiBaumgarte (stiffer than the per-step baumgarte, since
// this gets no further iterations) and resolved with one velocity-only
// pass. The contact is never added to w.contacts - updateContacts will
// rediscover it normally, with warm-started impulses, next step.
func (w *World) solveTOIContact(fixA, fixB *Fixture, childA, childB int) {
	c := newContact(fixA, fixB, childA, childB)
	c.update(nil)
	if !c.touching {
		return
	}
	solver := newContactSolver()
	solver.initialize([]*Contact{c})
	// warmStart still runs - it is what computes each point's rA/rB and
	// world normal - but a brand-new contact carries zero accumulated
	// impulse, so in effect nothing is warm-started.
	solver.warmStart()
	solver.prepare(0)
	solver.solvePositionConstraints(toiBaumgarte)
	solver.solveVelocityConstraints()
}

func proxyForChild(s Shape, child int) DistanceProxy {
	var p DistanceProxy
	p.SetShape(s, child)
	return p
}

// QueryAABB visits every fixture whose fattened broad-phase AABB
// overlaps aabb.
func (w *World) QueryAABB(aabb AABB, cb QueryCallback) {
	fixtureByProxy := make(map[int]*Fixture)
	for _, b := range w.bodies {
		for _, f := range b.fixtures {
			for _, p := range f.proxies {
				fixtureByProxy[w.tree.GetUserData(p)] = f
			}
		}
	}
	w.tree.Query(aabb, func(userData int) bool {
		if f, ok := fixtureByProxy[userData]; ok {
			return cb(f)
		}
		return true
	})
}

// RayCast casts a ray through every fixture in the world, reporting
// each hit via cb (see RayCastCallback for the fraction-clipping
// convention).
func (w *World) RayCast(p1, p2 lin.V2, cb RayCastCallback) {
	input := RayCastInput{P1: p1, P2: p2, MaxFraction: 1.0}
	for _, b := range w.bodies {
		for _, f := range b.fixtures {
			for i := 0; i < f.shape.GetChildCount(); i++ {
				out, hit := f.shape.RayCast(&input, b.transform, i)
				if !hit {
					continue
				}
				point := lin.V2{X: p1.X + out.Fraction*(p2.X-p1.X), Y: p1.Y + out.Fraction*(p2.Y-p1.Y)}
				fraction := cb(f, point, out.Normal, out.Fraction)
				if fraction == 0 {
					return
				}
				if fraction < input.MaxFraction {
					input.MaxFraction = fraction
				}
			}
		}
	}
}
