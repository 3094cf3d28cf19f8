// Copyright © 2024 Galvanized Logic Inc.

package physics

// listener.go gives applications a way to observe contact lifecycle
// events without polling every Contact after each step, the same role
// caster.go's simple callback style played for ray casts.

import "github.com/gazed/kinetic/math/lin"

// ContactListener receives contact begin/end events and a chance to
// veto or tune a touching contact before the solver runs.
type ContactListener interface {
	BeginContact(c *Contact)
	EndContact(c *Contact)
	// PreSolve is called after the manifold is updated but before the
	// solver runs, with the manifold from the previous step (useful
	// for "was this touching last step too" checks). Implementations
	// may call c.SetEnabled(false) to skip this contact entirely.
	PreSolve(c *Contact, oldManifold *Manifold)
	// PostSolve reports the normal impulses the solver actually
	// applied, once per contact, after the solver runs.
	PostSolve(c *Contact, impulses []float64)
}

// BaseContactListener is an embeddable no-op ContactListener; embed it
// to implement only the callbacks you care about.
type BaseContactListener struct{}

func (BaseContactListener) BeginContact(c *Contact)                        {}
func (BaseContactListener) EndContact(c *Contact)                          {}
func (BaseContactListener) PreSolve(c *Contact, oldManifold *Manifold)      {}
func (BaseContactListener) PostSolve(c *Contact, impulses []float64)       {}

// ContactFilter decides whether two fixtures should ever generate a
// contact, beyond the basic Filter category/mask test - e.g. a game
// rule like "bullets from the same ship never hit each other".
type ContactFilter interface {
	ShouldCollide(a, b *Fixture) bool
}

// defaultContactFilter applies only the Filter bits set on each fixture.
type defaultContactFilter struct{}

func (defaultContactFilter) ShouldCollide(a, b *Fixture) bool {
	return a.filter.shouldCollide(b.filter)
}

// QueryCallback is invoked once per fixture whose fattened AABB
// overlaps a World.QueryAABB region; return false to stop early.
type QueryCallback func(f *Fixture) bool

// RayCastCallback is invoked once per fixture hit by World.RayCast,
// nearest first along the ray is NOT guaranteed - callers wanting the
// closest hit should track it themselves and shrink fraction via the
// returned value, matching Box2D's convention: return 0 to terminate
// the cast, fraction to clip the ray to the hit, or 1 to continue
// unclipped.
type RayCastCallback func(f *Fixture, point, normal lin.V2, fraction float64) float64
