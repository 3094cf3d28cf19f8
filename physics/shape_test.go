// Copyright © 2024 Galvanized Logic Inc.

package physics

import (
	"testing"

	"github.com/gazed/kinetic/math/lin"
)

func TestCircleType(t *testing.T) {
	c := Shape(NewCircle(1)) // compiler checks Shape interface.
	if c.Type() != CircleShape {
		t.Error("invalid circle shape type")
	}
}

func TestCircleAabb(t *testing.T) {
	c := NewCircle(1)
	xf := lin.NewTransform().SetI()
	ab := c.ComputeAABB(xf, 0)
	if ab.LowerBound.X != -1 || ab.LowerBound.Y != -1 || ab.UpperBound.X != 1 || ab.UpperBound.Y != 1 {
		t.Errorf("invalid circle aabb: %+v", ab)
	}
}

func TestCircleMass(t *testing.T) {
	c := NewCircle(2)
	md := c.ComputeMass(1)
	want := lin.PI * 4
	if !lin.Aeq(md.Mass, want) {
		t.Errorf("got mass %v want %v", md.Mass, want)
	}
}

func TestBoxType(t *testing.T) {
	b := Shape(NewBox(1, 1)) // compiler checks Shape interface.
	if b.Type() != PolygonShape {
		t.Error("invalid box shape type")
	}
}

func TestBoxAabb(t *testing.T) {
	b := NewBox(1, 1)
	xf := lin.NewTransform().SetI()
	ab := b.ComputeAABB(xf, 0)
	r := b.Radius
	if !lin.Aeq(ab.LowerBound.X, -1-r) || !lin.Aeq(ab.UpperBound.X, 1+r) {
		t.Errorf("invalid box aabb: %+v", ab)
	}
}

func TestBoxMass(t *testing.T) {
	b := NewBox(1, 1)
	md := b.ComputeMass(1)
	want := 4.0
	if !lin.Aeq(md.Mass, want) {
		t.Errorf("got mass %v want %v", md.Mass, want)
	}
	if !md.Center.Aeq(&lin.V2{}) {
		t.Errorf("centroid of a centered box should be origin, got %v", md.Center)
	}
}

func TestPolygonFromTriangle(t *testing.T) {
	pts := []lin.V2{{0, 0}, {2, 0}, {0, 2}}
	p := NewPolygon(pts)
	if len(p.Vertices) != 3 {
		t.Errorf("expected 3 hull vertices, got %d", len(p.Vertices))
	}
}

func TestEdgeChildCount(t *testing.T) {
	e := NewEdge(lin.V2{X: 0, Y: 0}, lin.V2{X: 1, Y: 0})
	if e.GetChildCount() != 1 {
		t.Error("edge should have exactly one child")
	}
}

func TestChainChildEdges(t *testing.T) {
	verts := []lin.V2{{0, 0}, {1, 0}, {2, 0}, {3, 0}}
	c := NewChain(verts)
	if c.GetChildCount() != 3 {
		t.Errorf("expected 3 child edges, got %d", c.GetChildCount())
	}
	mid := c.GetChildEdge(1)
	if !mid.HasVertex0 || !mid.HasVertex3 {
		t.Error("interior chain edge should have both ghost vertices")
	}
	first := c.GetChildEdge(0)
	if first.HasVertex0 {
		t.Error("first chain edge should have no prior ghost vertex by default")
	}
}

func TestAABBOverlap(t *testing.T) {
	a := AABB{LowerBound: lin.V2{X: 0, Y: 0}, UpperBound: lin.V2{X: 1, Y: 1}}
	b := AABB{LowerBound: lin.V2{X: -1, Y: -1}, UpperBound: lin.V2{X: 0, Y: 0}}
	if !a.Overlap(b) {
		t.Error("touching at a point should count as overlapping")
	}
	c := AABB{LowerBound: lin.V2{X: 2, Y: 2}, UpperBound: lin.V2{X: 3, Y: 3}}
	if a.Overlap(c) {
		t.Error("disjoint aabbs should not overlap")
	}
}

func TestAABBCombine(t *testing.T) {
	a := AABB{LowerBound: lin.V2{X: 0, Y: 0}, UpperBound: lin.V2{X: 1, Y: 1}}
	b := AABB{LowerBound: lin.V2{X: -1, Y: -1}, UpperBound: lin.V2{X: 0.5, Y: 0.5}}
	u := a.Combine(b)
	if u.LowerBound.X != -1 || u.LowerBound.Y != -1 || u.UpperBound.X != 1 || u.UpperBound.Y != 1 {
		t.Errorf("invalid combined aabb: %+v", u)
	}
}
