// Copyright © 2024 Galvanized Logic Inc.

package physics

// contact.go replaces an earlier contactPair/pointOfContact pair
// (persistent contact storage keyed by a body pair, matched frame to
// frame by nearest local-space point - "based on bullet
// btPersistentManifold::refreshContactPoints/getCacheEntry") with a
// Contact keyed by a fixture pair. Point matching is done by
// ManifoldPoint.ID instead of nearest-point distance: manifold.go
// already tags every point it produces with the contact feature
// (vertex/face index pair) that generated it, so two manifolds agree
// on "the same point" exactly when their IDs match - no distance
// threshold or area-based eviction heuristic needed. The accumulated
// normalImpulse/tangentImpulse (this engine's equivalent of
// pointOfContact.sp.warmImpulse) transfers across frames by copying
// it from the old manifold point with a matching ID onto the new one.

import "github.com/gazed/kinetic/math/lin"

// Contact tracks the persistent narrow-phase state between two
// fixtures whose fattened AABBs overlap in the broad-phase tree. A
// Contact exists for as long as the AABBs overlap, even while
// Touching is false (shapes near but not touching still need their
// separation tracked so TOI and islands can react the moment they do).
type Contact struct {
	fixtureA, fixtureB           *Fixture
	childIndexA, childIndexB     int // which child of a chain shape, else 0.
	manifold                     Manifold
	friction, restitution        float64
	touching                     bool
	enabled                      bool // disabled contacts (e.g. by a ContactFilter) are skipped entirely.
	islandFlag                   bool // set while the island builder is flood-filling.
	toiCount                     int
	toi                          float64
	hasTOI                       bool

	next, prev *Contact // intrusive doubly-linked list, owned by World.
}

// newContact builds a Contact for a fixture pair, assigning the pair
// in canonical Collide() order so Update never has to re-derive it.
func newContact(fA, fB *Fixture, childA, childB int) *Contact {
	if !shapeTypeLess(fA.shape.Type(), fB.shape.Type()) {
		fA, fB = fB, fA
		childA, childB = childB, childA
	}
	c := &Contact{fixtureA: fA, fixtureB: fB, childIndexA: childA, childIndexB: childB, enabled: true}
	c.friction = mixFriction(fA.friction, fB.friction)
	c.restitution = mixRestitution(fA.restitution, fB.restitution)
	return c
}

// mixFriction/mixRestitution combine two fixtures' material properties.
// Friction uses sqrt(a*b) (Box2D's convention: rubber-on-rubber stays
// grippy, ice-on-anything stays slick); restitution takes the max so a
// single bouncy fixture in a pair still bounces.
func mixFriction(a, b float64) float64 {
	if a < 0 {
		a = 0
	}
	if b < 0 {
		b = 0
	}
	return sqrtf(a * b)
}
func mixRestitution(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

func sqrtf(x float64) float64 {
	if x <= 0 {
		return 0
	}
	// Newton's method; avoids importing math solely for one call site
	// this file needs (collide.go and friends already import it where
	// the standard library function earns its keep).
	z := x
	for i := 0; i < 20; i++ {
		z -= (z*z - x) / (2 * z)
	}
	return z
}

// FixtureA/FixtureB/Manifold/IsTouching/Friction/Restitution are the
// read-only view a ContactListener sees.
func (c *Contact) FixtureA() *Fixture   { return c.fixtureA }
func (c *Contact) FixtureB() *Fixture   { return c.fixtureB }
func (c *Contact) Manifold() Manifold   { return c.manifold }
func (c *Contact) IsTouching() bool     { return c.touching }
func (c *Contact) Friction() float64    { return c.friction }
func (c *Contact) Restitution() float64 { return c.restitution }
func (c *Contact) IsEnabled() bool      { return c.enabled }
func (c *Contact) SetEnabled(v bool)    { c.enabled = v }

// bodyA/bodyB are a convenience for the solver and island builder.
func (c *Contact) bodyA() *Body { return c.fixtureA.body }
func (c *Contact) bodyB() *Body { return c.fixtureB.body }

// update recomputes the manifold between the two fixtures, transfers
// warm-start impulses for points whose ID survived from the previous
// frame, and returns whether the touching state changed. It fires
// BeginContact/EndContact/PreSolve on listener itself when one is given.
func (c *Contact) update(listener ContactListener) (beganTouching, endedTouching bool) {
	oldManifold := c.manifold
	wasTouching := c.touching

	xfA := c.fixtureA.body.transform
	xfB := c.fixtureB.body.transform

	var newManifold Manifold
	sensor := c.fixtureA.isSensor || c.fixtureB.isSensor
	if sensor {
		// sensors only need an overlap test, not a full manifold: run
		// GJK distance with radii and treat <=0 as touching.
		c.touching = testOverlap(c.fixtureA.shape, xfA, c.fixtureB.shape, xfB)
	} else {
		Collide(&newManifold, c.fixtureA.shape, xfA, c.fixtureB.shape, xfB)
		c.touching = newManifold.PointCount > 0

		for i := 0; i < newManifold.PointCount; i++ {
			np := &newManifold.Points[i]
			np.NormalImpulse, np.TangentImpulse = 0, 0
			for j := 0; j < oldManifold.PointCount; j++ {
				op := oldManifold.Points[j]
				if op.ID == np.ID {
					np.NormalImpulse = op.NormalImpulse
					np.TangentImpulse = op.TangentImpulse
					break
				}
			}
		}
		c.manifold = newManifold
	}

	if c.touching && !wasTouching {
		beganTouching = true
		if listener != nil {
			listener.BeginContact(c)
		}
	}
	if !c.touching && wasTouching {
		endedTouching = true
		if listener != nil {
			listener.EndContact(c)
		}
	}
	if c.touching && listener != nil {
		listener.PreSolve(c, &oldManifold)
	}
	return beganTouching, endedTouching
}

// testOverlap reports whether two shapes are within touching distance
// (distance <= 0 once radii are accounted for), used for sensor
// fixtures which never generate a solver manifold.
func testOverlap(shapeA Shape, xfA *lin.Transform, shapeB Shape, xfB *lin.Transform) bool {
	var proxyA, proxyB DistanceProxy
	proxyA.SetShape(shapeA, 0)
	proxyB.SetShape(shapeB, 0)
	input := DistanceInput{ProxyA: proxyA, ProxyB: proxyB, TransformA: *xfA, TransformB: *xfB, UseRadii: true}
	var cache SimplexCache
	out := Distance(&input, &cache)
	return out.Distance < 10*lin.Epsilon
}
