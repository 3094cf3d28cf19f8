// Copyright © 2024 Galvanized Logic Inc.

package physics

// collide.go dispatches a shape pair to the right manifold generator by
// shape type, the same registry-by-type idea caster.go used for ray
// casts (there keyed by a single shape type, here by a pair). Chain
// shapes never reach this dispatch directly - a chain fixture is
// represented in the contact graph as one Edge child per segment, built
// once in fixture.go and frozen until the chain changes.
//
// Collide requires its shapes in canonical order (Edge < Polygon <
// Circle by collideRank); a ManifoldPoint's meaning is defined in terms
// of manifold.Type relative to that A/B assignment, so swapping the
// pair after the fact would require re-deriving each point's frame
// rather than just flipping a tag. newContact (contact.go) stores the
// fixtures in canonical order when the contact is created.

import "github.com/gazed/kinetic/math/lin"

// Collide fills manifold with the contact between shapeA and shapeB,
// placed by xfA/xfB. shapeA's collideRank must be <= shapeB's
// (Edge or Polygon as A against a Circle B, Edge as A against a Polygon).
func Collide(manifold *Manifold, shapeA Shape, xfA *lin.Transform, shapeB Shape, xfB *lin.Transform) {
	switch a := shapeA.(type) {
	case *Circle:
		if b, ok := shapeB.(*Circle); ok {
			CollideCircles(manifold, a, xfA, b, xfB)
			return
		}
	case *Edge:
		switch b := shapeB.(type) {
		case *Circle:
			CollideEdgeAndCircle(manifold, a, xfA, b, xfB)
			return
		case *Edge:
			panicf("Collide: edge/edge contacts are not meaningful")
		case *Polygon:
			CollideEdgeAndPolygon(manifold, a, xfA, b, xfB)
			return
		}
	case *Polygon:
		switch b := shapeB.(type) {
		case *Circle:
			CollidePolygonAndCircle(manifold, a, xfA, b, xfB)
			return
		case *Polygon:
			CollidePolygons(manifold, a, xfA, b, xfB)
			return
		}
	}
	panicf("Collide: unsupported or out-of-order shape pair %v/%v", shapeA.Type(), shapeB.Type())
}

// collideRank orders shape types by how Collide expects them paired:
// Edge is always fixture A against a Circle or Polygon, Polygon is
// always fixture A against a Circle. A lower rank means "prefers to be
// fixture A" - the opposite of ShapeType's declaration order, since
// Circle (the simplest shape) is declared first but is the one most
// often relegated to fixture B.
func collideRank(t ShapeType) int {
	switch t {
	case EdgeShape:
		return 0
	case PolygonShape:
		return 1
	case CircleShape:
		return 2
	default:
		return 3
	}
}

// shapeTypeLess reports whether shape type a should be fixture A, paired
// against b, when Contact.update orders a pair for Collide.
func shapeTypeLess(a, b ShapeType) bool { return collideRank(a) <= collideRank(b) }
