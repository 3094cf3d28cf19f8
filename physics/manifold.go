// Copyright © 2024 Galvanized Logic Inc.

package physics

// manifold.go generates contact manifolds between pairs of shapes. The
// overall shape of the algorithm - pick a reference face by separating
// axis, clip the incident feature's points to the reference face's side
// planes, then keep only the points still behind the reference face -
// is the same face-clip idiom clipping.go used for 3D convex hulls; in
// 2D the clip planes collapse to two side points per edge, so there is
// no general Sutherland-Hodgman polygon clip, just clipSegmentToLine.

import (
	"github.com/gazed/kinetic/math/lin"
)

// ManifoldType distinguishes how a Manifold's points should be
// interpreted by the solver: as two circle centers, or as points on
// shape B clipped against a reference face on shape A or B.
type ManifoldType int

const (
	manifoldCircles ManifoldType = iota
	manifoldFaceA
	manifoldFaceB
)

// contactID identifies a contact point across simulation steps so the
// solver can carry its accumulated impulse forward (warm starting).
type contactID struct {
	indexA, indexB   int
	typeA, typeB     int // 0 = vertex, 1 = face
}

// ManifoldPoint is one point of contact, in the local frame of the
// incident shape (shape B for Circles and FaceA, shape A for FaceB) so
// it can be safely cached between steps even as both bodies move.
type ManifoldPoint struct {
	Point               lin.V2
	NormalImpulse       float64
	TangentImpulse      float64
	ID                  contactID
}

// Manifold describes the contact region between two shapes: up to
// maxManifoldPoints points sharing one contact normal.
type Manifold struct {
	Type        ManifoldType
	LocalNormal lin.V2 // valid for FaceA/FaceB
	LocalPoint  lin.V2 // reference face anchor, or circle A's center
	Points      [maxManifoldPoints]ManifoldPoint
	PointCount  int
}

// CollideCircles generates a manifold between two circles.
func CollideCircles(manifold *Manifold, circleA *Circle, xfA *lin.Transform, circleB *Circle, xfB *lin.Transform) {
	*manifold = Manifold{}
	pA := xfA.Apply(&circleA.P)
	pB := xfB.Apply(&circleB.P)

	var d lin.V2
	d.Sub(&pB, &pA)
	distSqr := d.LenSqr()
	rA, rB := circleA.R, circleB.R
	radiusSum := rA + rB
	if distSqr > radiusSum*radiusSum {
		return
	}

	manifold.Type = manifoldCircles
	manifold.LocalPoint = circleA.P
	manifold.LocalNormal = lin.V2{}
	manifold.PointCount = 1
	manifold.Points[0].Point = circleB.P
	manifold.Points[0].ID = contactID{}
}

// CollidePolygonAndCircle generates a manifold between a polygon and a
// circle: the circle center is classified against the polygon's Voronoi
// regions to decide whether the closest feature is a face or a vertex.
func CollidePolygonAndCircle(manifold *Manifold, polyA *Polygon, xfA *lin.Transform, circleB *Circle, xfB *lin.Transform) {
	*manifold = Manifold{}

	worldCenter := xfB.Apply(&circleB.P)
	localCenter := xfA.ApplyT(&worldCenter)

	n := len(polyA.Vertices)
	separation := -lin.Large
	normalIndex := 0
	for i := 0; i < n; i++ {
		var toCenter lin.V2
		toCenter.Sub(&localCenter, &polyA.Vertices[i])
		s := polyA.Normals[i].Dot(&toCenter)
		if s > circleB.R+polyA.Radius {
			return // early out: definitely separated along this axis
		}
		if s > separation {
			separation = s
			normalIndex = i
		}
	}

	v1 := polyA.Vertices[normalIndex]
	v2 := polyA.Vertices[(normalIndex+1)%n]

	if separation < lin.Epsilon {
		manifold.Type = manifoldFaceA
		manifold.LocalNormal = polyA.Normals[normalIndex]
		manifold.LocalPoint = lin.V2{X: 0.5 * (v1.X + v2.X), Y: 0.5 * (v1.Y + v2.Y)}
		manifold.PointCount = 1
		manifold.Points[0].Point = circleB.P
		return
	}

	var u1, u2 lin.V2
	u1.Sub(&localCenter, &v1)
	u2.Sub(&localCenter, &v2)
	var edge lin.V2
	edge.Sub(&v2, &v1)

	var normal lin.V2
	var anchor lin.V2
	switch {
	case u1.Dot(&edge) <= 0:
		if localCenter.DistSqr(&v1) > (circleB.R+polyA.Radius)*(circleB.R+polyA.Radius) {
			return
		}
		normal.Sub(&localCenter, &v1)
		anchor = v1
	case u2.Dot(&edge) >= 0:
		if localCenter.DistSqr(&v2) > (circleB.R+polyA.Radius)*(circleB.R+polyA.Radius) {
			return
		}
		normal.Sub(&localCenter, &v2)
		anchor = v2
	default:
		normal = polyA.Normals[normalIndex]
		if normal.Dot(&u1) > circleB.R+polyA.Radius {
			return
		}
		manifold.Type = manifoldFaceA
		manifold.LocalNormal = normal
		manifold.LocalPoint = lin.V2{X: 0.5 * (v1.X + v2.X), Y: 0.5 * (v1.Y + v2.Y)}
		manifold.PointCount = 1
		manifold.Points[0].Point = circleB.P
		return
	}
	normal.Unit()
	manifold.Type = manifoldFaceA
	manifold.LocalNormal = normal
	manifold.LocalPoint = anchor
	manifold.PointCount = 1
	manifold.Points[0].Point = circleB.P
}

// clipVertex is one endpoint carried through clipSegmentToLine, tagged
// with the contact feature that produced it.
type clipVertex struct {
	v  lin.V2
	id contactID
}

// clipSegmentToLine clips the segment in vIn to the half-space
// n . x <= offset, interpolating a new vertex at the cut and tagging it
// with vertexIndexA so the solver can track the feature.
func clipSegmentToLine(vOut *[2]clipVertex, vIn [2]clipVertex, n lin.V2, offset float64, vertexIndexA int) int {
	numOut := 0
	dist0 := n.Dot(&vIn[0].v) - offset
	dist1 := n.Dot(&vIn[1].v) - offset

	if dist0 <= 0 {
		vOut[numOut] = vIn[0]
		numOut++
	}
	if dist1 <= 0 {
		vOut[numOut] = vIn[1]
		numOut++
	}
	if dist0*dist1 < 0 {
		interp := dist0 / (dist0 - dist1)
		var v lin.V2
		v.X = vIn[0].v.X + interp*(vIn[1].v.X-vIn[0].v.X)
		v.Y = vIn[0].v.Y + interp*(vIn[1].v.Y-vIn[0].v.Y)
		vOut[numOut] = clipVertex{v: v, id: contactID{indexA: vertexIndexA, indexB: vIn[0].id.indexB, typeA: 0, typeB: 1}}
		numOut++
	}
	return numOut
}

// findMaxSeparation returns the edge index on poly1 whose normal gives
// the largest (most separating) projection of poly2's support points,
// and that separation value.
func findMaxSeparation(poly1, poly2 *Polygon, xf1, xf2 *lin.Transform) (bestIndex int, bestSeparation float64) {
	var xf lin.Transform
	xf.MulT(xf2, xf1)

	n1 := len(poly1.Vertices)
	bestSeparation = -lin.Large
	for i := 0; i < n1; i++ {
		nLocal := poly1.Normals[i]
		n := xf.Q.Apply(&nLocal)
		v1Local := poly1.Vertices[i]
		v1 := xf.Apply(&v1Local)

		negN := lin.V2{X: -n.X, Y: -n.Y}
		si := poly2.GetSupportPoint(&negN)
		v2 := poly2.Vertices[si]

		var d lin.V2
		d.Sub(&v2, &v1)
		s := n.Dot(&d)
		if s > bestSeparation {
			bestSeparation = s
			bestIndex = i
		}
	}
	return bestIndex, bestSeparation
}

// GetSupportPoint returns the index of the polygon vertex farthest
// along d, in the polygon's own local frame.
func (p *Polygon) GetSupportPoint(d *lin.V2) int {
	best := 0
	bestVal := p.Vertices[0].Dot(d)
	for i := 1; i < len(p.Vertices); i++ {
		v := p.Vertices[i].Dot(d)
		if v > bestVal {
			best, bestVal = i, v
		}
	}
	return best
}

func findIncidentEdge(poly1 *Polygon, xf1 *lin.Transform, edge1 int, poly2 *Polygon, xf2 *lin.Transform) [2]clipVertex {
	normal1Local := poly1.Normals[edge1]
	var xf lin.Transform
	xf.MulT(xf2, xf1)
	normal1 := xf.Q.Apply(&normal1Local)

	n2 := len(poly2.Vertices)
	index := 0
	minDot := lin.Large
	for i := 0; i < n2; i++ {
		d := normal1.Dot(&poly2.Normals[i])
		if d < minDot {
			minDot = d
			index = i
		}
	}

	i1, i2 := index, (index+1)%n2
	v1 := xf2.Apply(&poly2.Vertices[i1])
	v2 := xf2.Apply(&poly2.Vertices[i2])
	return [2]clipVertex{
		{v: v1, id: contactID{indexB: i1, typeB: 1}},
		{v: v2, id: contactID{indexB: i2, typeB: 1}},
	}
}

// CollidePolygons generates a manifold between two convex polygons via
// the separating axis test followed by Sutherland-Hodgman-style edge
// clipping (reduced to the 2-plane case that applies to a single edge).
func CollidePolygons(manifold *Manifold, polyA *Polygon, xfA *lin.Transform, polyB *Polygon, xfB *lin.Transform) {
	*manifold = Manifold{}
	totalRadius := polyA.Radius + polyB.Radius

	edgeA, separationA := findMaxSeparation(polyA, polyB, xfA, xfB)
	if separationA > totalRadius {
		return
	}
	edgeB, separationB := findMaxSeparation(polyB, polyA, xfB, xfA)
	if separationB > totalRadius {
		return
	}

	var ref, inc *Polygon
	var xfRef, xfInc *lin.Transform
	var edge1 int
	flip := false
	const tol = 0.1 * 0.005 // bias toward A to avoid manifold flip-flop near equal separation

	if separationB > separationA+tol {
		ref, inc = polyB, polyA
		xfRef, xfInc = xfB, xfA
		edge1 = edgeB
		flip = true
	} else {
		ref, inc = polyA, polyB
		xfRef, xfInc = xfA, xfB
		edge1 = edgeA
		flip = false
	}

	incidentEdge := findIncidentEdge(ref, xfRef, edge1, inc, xfInc)

	i1, i2 := edge1, (edge1+1)%len(ref.Vertices)
	v11, v12 := ref.Vertices[i1], ref.Vertices[i2]

	var localTangent lin.V2
	localTangent.Sub(&v12, &v11)
	localTangent.Unit()

	localNormal := lin.V2{X: localTangent.Y, Y: -localTangent.X}
	planePoint := lin.V2{X: 0.5 * (v11.X + v12.X), Y: 0.5 * (v11.Y + v12.Y)}

	tangent := xfRef.Q.Apply(&localTangent)
	normal := lin.V2{X: tangent.Y, Y: -tangent.X}

	v11w := xfRef.Apply(&v11)
	v12w := xfRef.Apply(&v12)

	frontOffset := normal.Dot(&v11w)
	sideOffset1 := -tangent.Dot(&v11w) + totalRadius
	sideOffset2 := tangent.Dot(&v12w) + totalRadius

	var negTangent lin.V2
	negTangent.Neg(&tangent)

	var clipPoints1 [2]clipVertex
	np1 := clipSegmentToLine(&clipPoints1, incidentEdge, negTangent, sideOffset1, i1)
	if np1 < 2 {
		return
	}
	var clipPoints2 [2]clipVertex
	np2 := clipSegmentToLine(&clipPoints2, [2]clipVertex{clipPoints1[0], clipPoints1[1]}, tangent, sideOffset2, i2)
	if np2 < 2 {
		return
	}

	manifold.LocalNormal = localNormal
	manifold.LocalPoint = planePoint
	if flip {
		manifold.Type = manifoldFaceB
	} else {
		manifold.Type = manifoldFaceA
	}

	pointCount := 0
	for i := 0; i < 2; i++ {
		separation := normal.Dot(&clipPoints2[i].v) - frontOffset
		if separation <= totalRadius {
			cp := &manifold.Points[pointCount]
			var worldPoint lin.V2 = clipPoints2[i].v
			cp.Point = xfInc.ApplyT(&worldPoint)
			cp.ID = clipPoints2[i].id
			pointCount++
		}
	}
	manifold.PointCount = pointCount
}

// CollideEdgeAndCircle generates a manifold between a one-sided edge
// and a circle, including the ghost-vertex check that suppresses a
// contact against the "inside" corner of a chain of edges.
func CollideEdgeAndCircle(manifold *Manifold, edgeA *Edge, xfA *lin.Transform, circleB *Circle, xfB *lin.Transform) {
	*manifold = Manifold{}

	worldCenter := xfB.Apply(&circleB.P)
	q := xfA.ApplyT(&worldCenter)

	a, b := edgeA.V1, edgeA.V2
	var e lin.V2
	e.Sub(&b, &a)

	var qa, qb lin.V2
	qa.Sub(&q, &a)
	qb.Sub(&q, &b)
	u, v := qa.Dot(&e), -qb.Dot(&e)

	radius := edgeA.Radius + circleB.R

	var p lin.V2
	var normal lin.V2
	switch {
	case u <= 0:
		if edgeA.HasVertex0 {
			a1 := edgeA.V0
			var v1a lin.V2
			v1a.Sub(&a, &a1)
			var qToA lin.V2
			qToA.Sub(&a, &q)
			if v1a.Dot(&qToA) > 0 {
				return // the previous segment owns this contact
			}
		}
		p = a
		normal.Sub(&q, &p)
		if d := normal.Unit(); d > radius {
			return
		}
	case v <= 0:
		if edgeA.HasVertex3 {
			b2 := edgeA.V3
			var v2b lin.V2
			v2b.Sub(&b2, &b)
			var v2q lin.V2
			v2q.Sub(&q, &b)
			if v2b.Dot(&v2q) > 0 {
				return
			}
		}
		p = b
		normal.Sub(&q, &p)
		if d := normal.Unit(); d > radius {
			return
		}
	default:
		eLenSqr := e.LenSqr()
		p.X = a.X + (u/eLenSqr)*e.X
		p.Y = a.Y + (u/eLenSqr)*e.Y
		var toQ lin.V2
		toQ.Sub(&q, &p)
		dist := toQ.Dot(&toQ)
		if dist > radius*radius {
			return
		}
		normal = lin.V2{X: e.Y, Y: -e.X}
		normal.Unit()
		if normal.Dot(&qa) < 0 {
			normal.Neg(&normal)
		}
	}

	manifold.Type = manifoldFaceA
	manifold.LocalNormal = normal
	manifold.LocalPoint = p
	manifold.PointCount = 1
	manifold.Points[0].Point = circleB.P
}

// CollideEdgeAndPolygon generates a manifold between a one-sided edge
// and a polygon by treating the edge as a degenerate two-vertex
// polygon and reusing the separating-axis/clip pipeline. The edge's
// ghost vertices (V0/V3) are not consulted.
func CollideEdgeAndPolygon(manifold *Manifold, edgeA *Edge, xfA *lin.Transform, polyB *Polygon, xfB *lin.Transform) {
	asPoly := &Polygon{
		Vertices: []lin.V2{edgeA.V1, edgeA.V2},
		Radius:   edgeA.Radius,
	}
	var e lin.V2
	e.Sub(&edgeA.V2, &edgeA.V1)
	n := lin.V2{X: e.Y, Y: -e.X}
	n.Unit()
	var nNeg lin.V2
	nNeg.Neg(&n)
	asPoly.Normals = []lin.V2{n, nNeg}
	asPoly.Centroid = lin.V2{X: 0.5 * (edgeA.V1.X + edgeA.V2.X), Y: 0.5 * (edgeA.V1.Y + edgeA.V2.Y)}

	CollidePolygons(manifold, asPoly, xfA, polyB, xfB)
}
