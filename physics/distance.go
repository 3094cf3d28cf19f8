// Copyright © 2024 Galvanized Logic Inc.

package physics

// distance.go computes the closest points and separation distance
// between two convex shapes using GJK. It follows the same simplex
// iteration structure as the 3D narrow phase this package's ancestor
// used (see gjk.go), but the region tests are 2D closest-point tests
// over a simplex of at most 3 vertices instead of plane tests over a
// tetrahedron: with only two dimensions there is no "intersection"
// return, only a possibly-zero separation.

import (
	"github.com/gazed/kinetic/math/lin"
)

// DistanceProxy wraps a shape's vertices (plus optional skin radius) for
// GJK queries. Build one per fixture once and reuse across a step.
type DistanceProxy struct {
	Vertices []lin.V2
	Radius   float64
}

// SetShape fills the proxy from shape's child childIndex.
func (p *DistanceProxy) SetShape(shape Shape, childIndex int) {
	switch s := shape.(type) {
	case *Circle:
		p.Vertices = []lin.V2{s.P}
		p.Radius = s.R
	case *Polygon:
		p.Vertices = s.Vertices
		p.Radius = s.Radius
	case *Edge:
		p.Vertices = []lin.V2{s.V1, s.V2}
		p.Radius = s.Radius
	case *Chain:
		e := s.GetChildEdge(childIndex)
		p.Vertices = []lin.V2{e.V1, e.V2}
		p.Radius = e.Radius
	default:
		panicf("DistanceProxy.SetShape: unsupported shape type %v", shape.Type())
	}
}

// SetVertices sets the proxy directly from a point or segment, as used
// by ShapeCast when casting a single point.
func (p *DistanceProxy) SetVertices(vertices []lin.V2, radius float64) {
	p.Vertices = vertices
	p.Radius = radius
}

// GetSupport returns the index of the vertex farthest along d.
func (p *DistanceProxy) GetSupport(d *lin.V2) int {
	bestIndex := 0
	bestValue := p.Vertices[0].Dot(d)
	for i := 1; i < len(p.Vertices); i++ {
		value := p.Vertices[i].Dot(d)
		if value > bestValue {
			bestIndex, bestValue = i, value
		}
	}
	return bestIndex
}

// simplexVertex is one support point of the Minkowski difference proxyA
// - proxyB, carried alongside the indices that produced it so the cache
// can warm-start the next query.
type simplexVertex struct {
	wA, wB lin.V2 // support points on proxyA and proxyB, in frame
	w      lin.V2 // wB - wA
	a      float64
	indexA int
	indexB int
}

// SimplexCache warm-starts Distance between calls: the previous query's
// winning simplex indices are tried first so most queries in a running
// simulation converge in one or two iterations.
type SimplexCache struct {
	Count  int
	IndexA [3]int
	IndexB [3]int
}

type simplex struct {
	v1, v2, v3 simplexVertex
	count      int
}

func (s *simplex) vertex(i int) *simplexVertex {
	switch i {
	case 0:
		return &s.v1
	case 1:
		return &s.v2
	default:
		return &s.v3
	}
}

func (s *simplex) readCache(cache *SimplexCache, proxyA *DistanceProxy, xfA *lin.Transform, proxyB *DistanceProxy, xfB *lin.Transform) {
	s.count = cache.Count
	for i := 0; i < s.count; i++ {
		v := s.vertex(i)
		v.indexA = cache.IndexA[i]
		v.indexB = cache.IndexB[i]
		wALocal := proxyA.Vertices[v.indexA]
		wBLocal := proxyB.Vertices[v.indexB]
		v.wA = xfA.Apply(&wALocal)
		v.wB = xfB.Apply(&wBLocal)
		v.w.Sub(&v.wB, &v.wA)
		v.a = -1
	}
	if s.count == 0 {
		v := s.vertex(0)
		v.indexA, v.indexB = 0, 0
		wALocal := proxyA.Vertices[0]
		wBLocal := proxyB.Vertices[0]
		v.wA = xfA.Apply(&wALocal)
		v.wB = xfB.Apply(&wBLocal)
		v.w.Sub(&v.wB, &v.wA)
		v.a = 1
		s.count = 1
	}
}

func (s *simplex) writeCache(cache *SimplexCache) {
	cache.Count = s.count
	for i := 0; i < s.count; i++ {
		v := s.vertex(i)
		cache.IndexA[i] = v.indexA
		cache.IndexB[i] = v.indexB
	}
}

func (s *simplex) searchDirection() lin.V2 {
	switch s.count {
	case 1:
		var d lin.V2
		d.Neg(&s.v1.w)
		return d
	case 2:
		var e12 lin.V2
		e12.Sub(&s.v2.w, &s.v1.w)
		negW1 := lin.V2{X: -s.v1.w.X, Y: -s.v1.w.Y}
		sgn := e12.Cross2(&negW1)
		if sgn > 0.0 {
			return lin.V2{X: -e12.Y, Y: e12.X}
		}
		return lin.V2{X: e12.Y, Y: -e12.X}
	default:
		return lin.V2{}
	}
}

// solve2 finds the barycentric coordinates of the closest point to the
// origin on segment v1-v2, collapsing the simplex to whichever vertices
// remain active.
func (s *simplex) solve2() lin.V2 {
	w1, w2 := s.v1.w, s.v2.w
	var e12 lin.V2
	e12.Sub(&w2, &w1)

	d12_2 := -w1.Dot(&e12)
	if d12_2 <= 0.0 {
		s.v1.a = 1.0
		s.count = 1
		return w1
	}
	d12_1 := w2.Dot(&e12)
	if d12_1 <= 0.0 {
		s.v2.a = 1.0
		s.count = 1
		s.v1 = s.v2
		return w2
	}
	inv := 1.0 / (d12_1 + d12_2)
	s.v1.a = d12_1 * inv
	s.v2.a = d12_2 * inv
	s.count = 2
	var out lin.V2
	out.X = w1.X*s.v1.a + w2.X*s.v2.a
	out.Y = w1.Y*s.v1.a + w2.Y*s.v2.a
	return out
}

// solve3 resolves the closest point to the origin on triangle
// v1-v2-v3, degenerating to solve2 on whichever edge is nearest when
// the origin lies outside the triangle.
func (s *simplex) solve3() lin.V2 {
	w1, w2, w3 := s.v1.w, s.v2.w, s.v3.w

	var e12, e13, e23 lin.V2
	e12.Sub(&w2, &w1)
	e13.Sub(&w3, &w1)
	e23.Sub(&w3, &w2)

	d12_1 := w2.Dot(&e12)
	d12_2 := -w1.Dot(&e12)
	d13_1 := w3.Dot(&e13)
	d13_2 := -w1.Dot(&e13)
	d23_1 := w3.Dot(&e23)
	d23_2 := -w2.Dot(&e23)

	n123 := e12.Cross2(&e13)
	d123_1 := n123 * w2.Cross2(&w3)
	d123_2 := n123 * w3.Cross2(&w1)
	d123_3 := n123 * w1.Cross2(&w2)

	if d12_2 <= 0.0 && d13_2 <= 0.0 {
		s.v1.a = 1.0
		s.count = 1
		return w1
	}
	if d12_1 > 0.0 && d12_2 > 0.0 && d123_3 <= 0.0 {
		inv := 1.0 / (d12_1 + d12_2)
		s.v1.a = d12_1 * inv
		s.v2.a = d12_2 * inv
		s.count = 2
		return s.weighted2(w1, w2)
	}
	if d13_1 > 0.0 && d13_2 > 0.0 && d123_2 <= 0.0 {
		inv := 1.0 / (d13_1 + d13_2)
		s.v1.a = d13_1 * inv
		s.v3.a = d13_2 * inv
		s.count = 2
		s.v2 = s.v3
		return s.weighted2(w1, w3)
	}
	if d12_1 <= 0.0 && d23_2 <= 0.0 {
		s.v2.a = 1.0
		s.count = 1
		s.v1 = s.v2
		return w2
	}
	if d13_1 <= 0.0 && d23_1 <= 0.0 {
		s.v3.a = 1.0
		s.count = 1
		s.v1 = s.v3
		return w3
	}
	if d23_1 > 0.0 && d23_2 > 0.0 && d123_1 <= 0.0 {
		inv := 1.0 / (d23_1 + d23_2)
		s.v2.a = d23_1 * inv
		s.v3.a = d23_2 * inv
		s.count = 2
		s.v1 = s.v2
		s.v2 = s.v3
		return s.weighted2(w2, w3)
	}
	inv := 1.0 / (d123_1 + d123_2 + d123_3)
	s.v1.a = d123_1 * inv
	s.v2.a = d123_2 * inv
	s.v3.a = d123_3 * inv
	s.count = 3
	return lin.V2{}
}

func (s *simplex) weighted2(w1, w2 lin.V2) lin.V2 {
	return lin.V2{X: w1.X*s.v1.a + w2.X*s.v2.a, Y: w1.Y*s.v1.a + w2.Y*s.v2.a}
}

// witnessPoints returns the closest points on proxyA and proxyB before
// the shape radii are added back in.
func (s *simplex) witnessPoints() (pA, pB lin.V2) {
	switch s.count {
	case 1:
		return s.v1.wA, s.v1.wB
	case 2:
		pA.X = s.v1.wA.X*s.v1.a + s.v2.wA.X*s.v2.a
		pA.Y = s.v1.wA.Y*s.v1.a + s.v2.wA.Y*s.v2.a
		pB.X = s.v1.wB.X*s.v1.a + s.v2.wB.X*s.v2.a
		pB.Y = s.v1.wB.Y*s.v1.a + s.v2.wB.Y*s.v2.a
		return pA, pB
	default:
		pA.X = s.v1.wA.X*s.v1.a + s.v2.wA.X*s.v2.a + s.v3.wA.X*s.v3.a
		pA.Y = s.v1.wA.Y*s.v1.a + s.v2.wA.Y*s.v2.a + s.v3.wA.Y*s.v3.a
		pB = pA
		return pA, pB
	}
}

// DistanceInput is the input to Distance.
type DistanceInput struct {
	ProxyA, ProxyB   DistanceProxy
	TransformA, TransformB lin.Transform
	UseRadii         bool
}

// DistanceOutput is the result of Distance: the closest points on each
// shape, the separation between them, and the iteration count (useful
// for diagnosing a pathological pair in tests).
type DistanceOutput struct {
	PointA, PointB lin.V2
	Distance       float64
	Iterations     int
}

const maxGJKIterations = 20

// Distance finds the minimum distance between proxyA and proxyB, placed
// by transformA/transformB, using GJK. cache is both read and updated
// to warm-start the next call between the same pair. When UseRadii is
// set the result accounts for each proxy's skin radius, matching the
// rounded-polygon convention used for narrow-phase collision.
func Distance(input *DistanceInput, cache *SimplexCache) DistanceOutput {
	proxyA, proxyB := &input.ProxyA, &input.ProxyB
	xfA, xfB := &input.TransformA, &input.TransformB

	var s simplex
	s.readCache(cache, proxyA, xfA, proxyB, xfB)

	saveA := [3]int{}
	saveB := [3]int{}
	iter := 0
	for iter < maxGJKIterations {
		saveCount := s.count
		for i := 0; i < saveCount; i++ {
			v := s.vertex(i)
			saveA[i], saveB[i] = v.indexA, v.indexB
		}

		switch s.count {
		case 1:
		case 2:
			s.solve2()
		case 3:
			s.solve3()
		}

		if s.count == 3 {
			break // origin is enclosed by the triangle; distance is 0 (overlap)
		}

		d := s.searchDirection()
		if d.LenSqr() < lin.Epsilon*lin.Epsilon {
			break
		}

		var vert simplexVertex
		negD := lin.V2{X: -d.X, Y: -d.Y}
		aDir := xfA.Q.ApplyT(&negD)
		vert.indexA = proxyA.GetSupport(&aDir)
		localA := proxyA.Vertices[vert.indexA]
		vert.wA = xfA.Apply(&localA)

		bDir := xfB.Q.ApplyT(&d)
		vert.indexB = proxyB.GetSupport(&bDir)
		localB := proxyB.Vertices[vert.indexB]
		vert.wB = xfB.Apply(&localB)
		vert.w.Sub(&vert.wB, &vert.wA)

		iter++

		duplicate := false
		for i := 0; i < saveCount; i++ {
			if vert.indexA == saveA[i] && vert.indexB == saveB[i] {
				duplicate = true
				break
			}
		}
		if duplicate {
			break
		}

		*s.vertex(s.count) = vert
		s.count++
	}

	pA, pB := s.witnessPoints()
	s.writeCache(cache)

	var out DistanceOutput
	out.Iterations = iter
	out.PointA, out.PointB = pA, pB
	out.Distance = pA.Dist(&pB)

	if input.UseRadii {
		if out.Distance < lin.Epsilon {
			mid := lin.V2{X: 0.5 * (pA.X + pB.X), Y: 0.5 * (pA.Y + pB.Y)}
			out.PointA, out.PointB = mid, mid
			out.Distance = 0
			return out
		}
		var normal lin.V2
		normal.Sub(&pB, &pA)
		normal.Unit()
		out.Distance -= proxyA.Radius + proxyB.Radius
		out.PointA.AddScaled(&pA, &normal, proxyA.Radius)
		out.PointB.AddScaled(&pB, &normal, -proxyB.Radius)
		if out.Distance < 0 {
			out.Distance = 0
		}
	}
	return out
}
