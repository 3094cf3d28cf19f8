// Copyright © 2024 Galvanized Logic Inc.

package physics

import (
	"math"

	"github.com/gazed/kinetic/math/lin"
)

// Shape is a convex collision primitive attached to a Fixture. A Shape is
// always in local space centered at (or near) the origin; combine it with
// a Transform to place it in world space. Shapes do not allocate memory
// during collision queries - callers supply the output structures.
type Shape interface {
	Type() ShapeType // Type returns the shape's tagged variant.
	GetRadius() float64
	GetChildCount() int // Polygon/Circle/Edge = 1, Chain = one per segment.

	// ComputeAABB updates and returns the axis aligned bounding box for
	// child childIndex of this shape, transformed by xf.
	ComputeAABB(xf *lin.Transform, childIndex int) AABB

	// ComputeMass returns the mass, center of mass, and rotational
	// inertia about the local origin for the given density.
	ComputeMass(density float64) MassData

	// RayCast casts against child childIndex of this shape, transformed
	// by xf. ok is false if the ray misses or starts inside the shape.
	RayCast(input *RayCastInput, xf *lin.Transform, childIndex int) (output RayCastOutput, ok bool)
}

// ShapeType enumerates the shape variants Shape.Type() can report.
type ShapeType int

const (
	CircleShape ShapeType = iota
	EdgeShape
	PolygonShape
	ChainShape
	numShapeTypes
)

// MassData is the mass, center of mass (in local coordinates), and
// rotational inertia of a shape about its local origin.
type MassData struct {
	Mass   float64
	Center lin.V2
	I      float64
}

// AABB is an axis aligned bounding box.
type AABB struct {
	LowerBound lin.V2
	UpperBound lin.V2
}

// Overlap returns true if AABBs a and b intersect, including when they
// are just touching along an edge.
func (a AABB) Overlap(b AABB) bool {
	d1x := b.LowerBound.X - a.UpperBound.X
	d1y := b.LowerBound.Y - a.UpperBound.Y
	d2x := a.LowerBound.X - b.UpperBound.X
	d2y := a.LowerBound.Y - b.UpperBound.Y
	if d1x > 0 || d1y > 0 || d2x > 0 || d2y > 0 {
		return false
	}
	return true
}

// Contains returns true if b lies entirely within a.
func (a AABB) Contains(b AABB) bool {
	return a.LowerBound.X <= b.LowerBound.X && a.LowerBound.Y <= b.LowerBound.Y &&
		b.UpperBound.X <= a.UpperBound.X && b.UpperBound.Y <= a.UpperBound.Y
}

// Combine returns the AABB enclosing both a and b.
func (a AABB) Combine(b AABB) AABB {
	return AABB{
		LowerBound: lin.V2{X: math.Min(a.LowerBound.X, b.LowerBound.X), Y: math.Min(a.LowerBound.Y, b.LowerBound.Y)},
		UpperBound: lin.V2{X: math.Max(a.UpperBound.X, b.UpperBound.X), Y: math.Max(a.UpperBound.Y, b.UpperBound.Y)},
	}
}

// Perimeter returns the full perimeter 2*(width + height) of the box,
// the quantity the dynamic tree's SAH cost function actually needs.
func (a AABB) Perimeter() float64 {
	wx := a.UpperBound.X - a.LowerBound.X
	wy := a.UpperBound.Y - a.LowerBound.Y
	return 2.0 * (wx + wy)
}

// Center returns the AABB's midpoint.
func (a AABB) Center() lin.V2 {
	return lin.V2{X: 0.5 * (a.LowerBound.X + a.UpperBound.X), Y: 0.5 * (a.LowerBound.Y + a.UpperBound.Y)}
}

// Extents returns the AABB's half-width and half-height.
func (a AABB) Extents() lin.V2 {
	return lin.V2{X: 0.5 * (a.UpperBound.X - a.LowerBound.X), Y: 0.5 * (a.UpperBound.Y - a.LowerBound.Y)}
}

// Shape
// ============================================================================
// Circle

// Circle is a disc of radius R centered at point P in local coordinates.
type Circle struct {
	P lin.V2
	R float64
}

// NewCircle creates a circle shape of the given radius centered at the
// local origin.
func NewCircle(radius float64) *Circle { return &Circle{R: radius} }

func (c *Circle) Type() ShapeType  { return CircleShape }
func (c *Circle) GetRadius() float64 { return c.R }
func (c *Circle) GetChildCount() int { return 1 }

func (c *Circle) ComputeAABB(xf *lin.Transform, childIndex int) AABB {
	p := xf.Apply(&c.P)
	return AABB{
		LowerBound: lin.V2{X: p.X - c.R, Y: p.Y - c.R},
		UpperBound: lin.V2{X: p.X + c.R, Y: p.Y + c.R},
	}
}

func (c *Circle) ComputeMass(density float64) MassData {
	mass := density * lin.PI * c.R * c.R
	// I about local origin = I about center + mass*d^2 (parallel axis)
	i := mass * (0.5*c.R*c.R + c.P.Dot(&c.P))
	return MassData{Mass: mass, Center: c.P, I: i}
}

func (c *Circle) RayCast(input *RayCastInput, xf *lin.Transform, childIndex int) (RayCastOutput, bool) {
	position := xf.Apply(&c.P)
	s := lin.V2{X: input.P1.X - position.X, Y: input.P1.Y - position.Y}
	b := s.Dot(&s) - c.R*c.R

	var d lin.V2
	d.Sub(&input.P2, &input.P1)
	rr := d.Dot(&d)
	if rr < lin.Epsilon {
		return RayCastOutput{}, false
	}
	cc := s.Dot(&d)
	sigma := cc*cc - rr*b
	if sigma < 0.0 || rr < lin.Epsilon {
		return RayCastOutput{}, false
	}
	t := -(cc + math.Sqrt(sigma))
	if t >= 0.0 && t <= input.MaxFraction*rr {
		t /= rr
		var out RayCastOutput
		out.Fraction = t
		var n lin.V2
		n.AddScaled(&s, &d, t)
		n.Unit()
		out.Normal = n
		return out, true
	}
	return RayCastOutput{}, false
}

// Shape
// ============================================================================
// Edge

// Edge is a single line segment from V1 to V2. V0/V3 are optional ghost
// vertices belonging to the edges before/after this one in a chain: they
// let manifold generation ignore contacts that would only happen against
// the "inside" of an otherwise one-sided chain.
type Edge struct {
	V0, V1, V2, V3         lin.V2
	HasVertex0, HasVertex3 bool
	Radius                 float64
}

// NewEdge creates a stand-alone two-sided edge shape from v1 to v2.
func NewEdge(v1, v2 lin.V2) *Edge { return &Edge{V1: v1, V2: v2} }

func (e *Edge) Type() ShapeType  { return EdgeShape }
func (e *Edge) GetRadius() float64 { return e.Radius }
func (e *Edge) GetChildCount() int { return 1 }

func (e *Edge) ComputeAABB(xf *lin.Transform, childIndex int) AABB {
	v1 := xf.Apply(&e.V1)
	v2 := xf.Apply(&e.V2)
	lower := lin.V2{X: math.Min(v1.X, v2.X), Y: math.Min(v1.Y, v2.Y)}
	upper := lin.V2{X: math.Max(v1.X, v2.X), Y: math.Max(v1.Y, v2.Y)}
	r := e.Radius
	return AABB{
		LowerBound: lin.V2{X: lower.X - r, Y: lower.Y - r},
		UpperBound: lin.V2{X: upper.X + r, Y: upper.Y + r},
	}
}

// ComputeMass returns zero mass: an edge has no area. Attaching an edge
// to a dynamic body without any other fixture leaves it massless, and
// Body.resetMassData then gives the body a mass of 1.
func (e *Edge) ComputeMass(density float64) MassData {
	center := lin.V2{X: 0.5 * (e.V1.X + e.V2.X), Y: 0.5 * (e.V1.Y + e.V2.Y)}
	return MassData{Mass: 0, Center: center, I: 0}
}

func (e *Edge) RayCast(input *RayCastInput, xf *lin.Transform, childIndex int) (RayCastOutput, bool) {
	p1 := xf.ApplyT(&input.P1)
	p2 := xf.ApplyT(&input.P2)
	var d lin.V2
	d.Sub(&p2, &p1)

	var v1, v2 lin.V2
	v1, v2 = e.V1, e.V2
	var e2 lin.V2
	e2.Sub(&v2, &v1)
	normal := lin.V2{X: e2.Y, Y: -e2.X}
	normal.Unit()

	var pv1 lin.V2
	pv1.Sub(&v1, &p1)
	numerator := normal.Dot(&pv1)
	denominator := normal.Dot(&d)
	if denominator == 0.0 {
		return RayCastOutput{}, false
	}
	t := numerator / denominator
	if t < 0.0 || t > input.MaxFraction {
		return RayCastOutput{}, false
	}
	var point lin.V2
	point.AddScaled(&p1, &d, t)

	var e2v lin.V2
	e2v.Sub(&v2, &v1)
	rr := e2v.Dot(&e2v)
	if rr < lin.Epsilon {
		return RayCastOutput{}, false
	}
	var pv lin.V2
	pv.Sub(&point, &v1)
	s := pv.Dot(&e2v) / rr
	if s < 0.0 || s > 1.0 {
		return RayCastOutput{}, false
	}

	var out RayCastOutput
	out.Fraction = t
	if numerator > 0.0 {
		normal.Neg(&normal)
	}
	out.Normal = xf.Q.Apply(&normal)
	return out, true
}

// Shape
// ============================================================================
// Polygon

// Polygon is a convex hull of up to maxPolygonVertices points, stored in
// CCW order with one outward unit normal per edge, plus the centroid.
// Every polygon carries a small fixed skin radius (polygonRadius) so
// narrow-phase contact generation can treat it like a rounded convex.
type Polygon struct {
	Vertices []lin.V2
	Normals  []lin.V2
	Centroid lin.V2
	Radius   float64
}

// NewPolygon builds a convex polygon from the given point set. The hull
// is always normalized to CCW winding; input whose hull has fewer than
// 3 points yields NewBox(1, 1) instead.
func NewPolygon(points []lin.V2) *Polygon {
	hull := computeHull(points)
	if len(hull) < 3 {
		return NewBox(1, 1)
	}
	p := &Polygon{Radius: polygonRadius()}
	p.setFromHull(hull)
	return p
}

// NewBox builds an axis aligned box polygon centered at the local origin
// with the given half-widths.
func NewBox(hx, hy float64) *Polygon {
	return NewBoxAt(hx, hy, lin.V2{}, 0)
}

// NewBoxAt builds a box polygon centered at center, rotated by angle
// radians, with the given half-widths.
func NewBoxAt(hx, hy float64, center lin.V2, angle float64) *Polygon {
	p := &Polygon{Radius: polygonRadius()}
	verts := []lin.V2{{-hx, -hy}, {hx, -hy}, {hx, hy}, {-hx, hy}}
	norms := []lin.V2{{0, -1}, {1, 0}, {0, 1}, {-1, 0}}
	var xf lin.Transform
	xf.SetPA(center, angle)
	p.Vertices = make([]lin.V2, 4)
	p.Normals = make([]lin.V2, 4)
	for i := range verts {
		p.Vertices[i] = xf.Apply(&verts[i])
		p.Normals[i] = xf.Q.Apply(&norms[i])
	}
	p.Centroid = center
	return p
}

func (p *Polygon) setFromHull(hull []lin.V2) {
	n := len(hull)
	p.Vertices = make([]lin.V2, n)
	p.Normals = make([]lin.V2, n)
	copy(p.Vertices, hull)
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		var edge lin.V2
		edge.Sub(&p.Vertices[j], &p.Vertices[i])
		normal := lin.V2{X: edge.Y, Y: -edge.X}
		normal.Unit()
		p.Normals[i] = normal
	}
	p.Centroid = polygonCentroid(p.Vertices)
}

func (p *Polygon) Type() ShapeType    { return PolygonShape }
func (p *Polygon) GetRadius() float64 { return p.Radius }
func (p *Polygon) GetChildCount() int { return 1 }

func (p *Polygon) ComputeAABB(xf *lin.Transform, childIndex int) AABB {
	v0 := xf.Apply(&p.Vertices[0])
	lower, upper := v0, v0
	for i := 1; i < len(p.Vertices); i++ {
		v := xf.Apply(&p.Vertices[i])
		lower.X, lower.Y = math.Min(lower.X, v.X), math.Min(lower.Y, v.Y)
		upper.X, upper.Y = math.Max(upper.X, v.X), math.Max(upper.Y, v.Y)
	}
	r := p.Radius
	return AABB{
		LowerBound: lin.V2{X: lower.X - r, Y: lower.Y - r},
		UpperBound: lin.V2{X: upper.X + r, Y: upper.Y + r},
	}
}

// ComputeMass integrates mass, centroid, and inertia over the polygon's
// triangle fan from its first vertex.
func (p *Polygon) ComputeMass(density float64) MassData {
	n := len(p.Vertices)
	if n == 0 {
		return MassData{}
	}
	if n == 1 {
		area := lin.PI * p.Radius * p.Radius
		mass := density * area
		return MassData{Mass: mass, Center: p.Vertices[0], I: mass * 0.5 * p.Radius * p.Radius}
	}

	center := lin.V2{}
	area := 0.0
	I := 0.0
	ref := p.Vertices[0]
	const inv3 = 1.0 / 3.0

	for i := 0; i < n; i++ {
		e1 := lin.V2{X: p.Vertices[i].X - ref.X, Y: p.Vertices[i].Y - ref.Y}
		j := (i + 1) % n
		e2 := lin.V2{X: p.Vertices[j].X - ref.X, Y: p.Vertices[j].Y - ref.Y}

		d := e1.Cross2(&e2)
		triArea := 0.5 * d
		area += triArea

		center.X += triArea * inv3 * (e1.X + e2.X)
		center.Y += triArea * inv3 * (e1.Y + e2.Y)

		ex1, ey1 := e1.X, e1.Y
		ex2, ey2 := e2.X, e2.Y
		intx2 := ex1*ex1 + ex2*ex1 + ex2*ex2
		inty2 := ey1*ey1 + ey2*ey1 + ey2*ey2
		I += (0.25 * inv3 * d) * (intx2 + inty2)
	}

	mass := density * area
	if area > lin.Epsilon {
		center.X *= 1.0 / area
		center.Y *= 1.0 / area
	}
	massCenter := lin.V2{X: center.X + ref.X, Y: center.Y + ref.Y}

	// I currently about the reference point; shift to centroid then to origin.
	I = density * I
	I += mass * (massCenter.Dot(&massCenter) - center.Dot(&center))

	return MassData{Mass: mass, Center: massCenter, I: I}
}

func (p *Polygon) RayCast(input *RayCastInput, xf *lin.Transform, childIndex int) (RayCastOutput, bool) {
	p1 := xf.ApplyT(&input.P1)
	p2 := xf.ApplyT(&input.P2)
	var d lin.V2
	d.Sub(&p2, &p1)

	lower, upper := 0.0, input.MaxFraction
	index := -1

	for i := range p.Vertices {
		var toVert lin.V2
		toVert.Sub(&p.Vertices[i], &p1)
		numerator := p.Normals[i].Dot(&toVert)
		denominator := p.Normals[i].Dot(&d)
		if denominator == 0.0 {
			if numerator < 0.0 {
				return RayCastOutput{}, false
			}
		} else {
			if denominator < 0.0 && numerator < lower*denominator {
				lower = numerator / denominator
				index = i
			} else if denominator > 0.0 && numerator < upper*denominator {
				upper = numerator / denominator
			}
		}
		if upper < lower {
			return RayCastOutput{}, false
		}
	}
	if index >= 0 {
		var out RayCastOutput
		out.Fraction = lower
		out.Normal = xf.Q.Apply(&p.Normals[index])
		return out, true
	}
	return RayCastOutput{}, false
}

// polygonCentroid returns the area-weighted centroid of a CCW polygon.
func polygonCentroid(verts []lin.V2) lin.V2 {
	n := len(verts)
	c := lin.V2{}
	area := 0.0
	ref := verts[0]
	const inv3 = 1.0 / 3.0
	for i := 0; i < n; i++ {
		e1 := lin.V2{X: verts[i].X - ref.X, Y: verts[i].Y - ref.Y}
		j := (i + 1) % n
		e2 := lin.V2{X: verts[j].X - ref.X, Y: verts[j].Y - ref.Y}
		d := e1.Cross2(&e2)
		triArea := 0.5 * d
		area += triArea
		c.X += triArea * inv3 * (e1.X + e2.X)
		c.Y += triArea * inv3 * (e1.Y + e2.Y)
	}
	if area > lin.Epsilon {
		c.X /= area
		c.Y /= area
	}
	return lin.V2{X: c.X + ref.X, Y: c.Y + ref.Y}
}

// computeHull computes the CCW convex hull of points using a gift-wrap
// scan, capped at maxPolygonVertices. Degenerate/near-collinear input is
// caught by the caller, which falls back to a unit box.
func computeHull(points []lin.V2) []lin.V2 {
	n := len(points)
	if n < 3 {
		return nil
	}
	if n > maxPolygonVertices {
		n = maxPolygonVertices
		points = points[:n]
	}

	// find the rightmost, then lowest point to start from.
	start := 0
	for i := 1; i < n; i++ {
		if points[i].X > points[start].X || (points[i].X == points[start].X && points[i].Y < points[start].Y) {
			start = i
		}
	}

	hull := make([]int, 0, n)
	ih := start
	for {
		hull = append(hull, ih)
		ie := 0
		for j := 1; j < n; j++ {
			if ie == ih {
				ie = j
				continue
			}
			r := lin.V2{X: points[ie].X - points[hull[len(hull)-1]].X, Y: points[ie].Y - points[hull[len(hull)-1]].Y}
			v := lin.V2{X: points[j].X - points[hull[len(hull)-1]].X, Y: points[j].Y - points[hull[len(hull)-1]].Y}
			c := r.Cross2(&v)
			if c < 0.0 {
				ie = j
			}
			if c == 0.0 && v.LenSqr() > r.LenSqr() {
				ie = j
			}
		}
		if ie == start {
			break
		}
		ih = ie
		if len(hull) > n {
			break // degenerate, avoid an infinite loop
		}
	}
	if len(hull) < 3 {
		return nil
	}
	out := make([]lin.V2, len(hull))
	for i, idx := range hull {
		out[i] = points[idx]
	}
	return out
}

// Shape
// ============================================================================
// Chain

// Chain is an ordered, one-sided sequence of vertices. Child i exposes
// the Edge from Vertices[i] to Vertices[i+1], with ghost vertices from
// its neighbors so the generated contacts do not catch on internal
// corners of a continuous chain (e.g. ground terrain).
type Chain struct {
	Vertices                  []lin.V2
	PrevVertex, NextVertex     lin.V2
	HasPrevVertex, HasNextVertex bool
}

// NewChain creates a chain shape from an ordered vertex list. Index i
// must be in [0, count) when fetching a child edge.
func NewChain(vertices []lin.V2) *Chain {
	if len(vertices) < 2 {
		panicf("NewChain: need at least 2 vertices, got %d", len(vertices))
	}
	return &Chain{Vertices: vertices}
}

func (c *Chain) Type() ShapeType    { return ChainShape }
func (c *Chain) GetRadius() float64 { return 0 }
func (c *Chain) GetChildCount() int { return len(c.Vertices) - 1 }

// GetChildEdge returns the Edge shape for segment i, including ghost
// vertices from its chain neighbors.
func (c *Chain) GetChildEdge(i int) *Edge {
	if i < 0 || i >= c.GetChildCount() {
		panicf("Chain.GetChildEdge: index %d out of [0,%d)", i, c.GetChildCount())
	}
	e := &Edge{V1: c.Vertices[i], V2: c.Vertices[i+1]}
	if i > 0 {
		e.V0 = c.Vertices[i-1]
		e.HasVertex0 = true
	} else if c.HasPrevVertex {
		e.V0 = c.PrevVertex
		e.HasVertex0 = true
	}
	if i+2 < len(c.Vertices) {
		e.V3 = c.Vertices[i+2]
		e.HasVertex3 = true
	} else if c.HasNextVertex {
		e.V3 = c.NextVertex
		e.HasVertex3 = true
	}
	return e
}

func (c *Chain) ComputeAABB(xf *lin.Transform, childIndex int) AABB {
	return c.GetChildEdge(childIndex).ComputeAABB(xf, 0)
}

// ComputeMass returns zero: a chain has no area, matching Edge.
func (c *Chain) ComputeMass(density float64) MassData { return MassData{} }

func (c *Chain) RayCast(input *RayCastInput, xf *lin.Transform, childIndex int) (RayCastOutput, bool) {
	return c.GetChildEdge(childIndex).RayCast(input, xf, 0)
}

// RayCastInput describes a ray from P1 to P2, clipped to MaxFraction of
// the segment.
type RayCastInput struct {
	P1, P2      lin.V2
	MaxFraction float64
}

// RayCastOutput is the result of a successful ray cast: the outward
// surface normal and the fraction along the input segment of the hit.
type RayCastOutput struct {
	Normal   lin.V2
	Fraction float64
}
