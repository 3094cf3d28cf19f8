// Copyright © 2013-2015 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package lin

// Vector performs 2 element vector math needed for 2D rigid body physics.

import "math"

// V2 is a 2 element vector. This can also be used as a point.
type V2 struct {
	X float64 // increments as X moves to the right.
	Y float64 // increments as Y moves up.
}

// NewV2 creates a new vector of zero'd values.
func NewV2() *V2 { return &V2{} }

// Eq (==) returns true if each element in v has the same value as the
// corresponding element in a.
func (v *V2) Eq(a *V2) bool { return v.X == a.X && v.Y == a.Y }

// Aeq (~=) almost-equals returns true if v and a are close enough that the
// difference doesn't matter.
func (v *V2) Aeq(a *V2) bool { return Aeq(v.X, a.X) && Aeq(v.Y, a.Y) }

// AeqZ (~=) almost-equals-zero returns true if the square length of v is
// close enough to zero that it makes no difference.
func (v *V2) AeqZ() bool { return v.Dot(v) < Epsilon }

// GetS returns the float64 values of the vector.
func (v *V2) GetS() (x, y float64) { return v.X, v.Y }

// SetS (=) sets the vector elements to the given values. The updated
// vector v is returned.
func (v *V2) SetS(x, y float64) *V2 {
	v.X, v.Y = x, y
	return v
}

// Set (=, copy, clone) sets the elements of v to the elements of a. The
// updated vector v is returned.
func (v *V2) Set(a *V2) *V2 {
	v.X, v.Y = a.X, a.Y
	return v
}

// Add (+) sets v = a + b and returns v.
func (v *V2) Add(a, b *V2) *V2 {
	v.X, v.Y = a.X+b.X, a.Y+b.Y
	return v
}

// Sub (-) sets v = a - b and returns v.
func (v *V2) Sub(a, b *V2) *V2 {
	v.X, v.Y = a.X-b.X, a.Y-b.Y
	return v
}

// Scale (*) sets v = a * s and returns v.
func (v *V2) Scale(a *V2, s float64) *V2 {
	v.X, v.Y = a.X*s, a.Y*s
	return v
}

// AddScaled sets v = a + b*s and returns v. Common accumulator pattern
// used by the integrator and solver to apply an impulse or displacement.
func (v *V2) AddScaled(a, b *V2, s float64) *V2 {
	v.X, v.Y = a.X+b.X*s, a.Y+b.Y*s
	return v
}

// Neg (-v) sets v = -a and returns v.
func (v *V2) Neg(a *V2) *V2 {
	v.X, v.Y = -a.X, -a.Y
	return v
}

// Dot (.) returns the dot product of v and a.
func (v *V2) Dot(a *V2) float64 { return v.X*a.X + v.Y*a.Y }

// Cross2 (x) returns the scalar cross product of v and a:
// the z value of the corresponding 3D cross product.
func (v *V2) Cross2(a *V2) float64 { return v.X*a.Y - v.Y*a.X }

// CrossSV sets v to the cross product of a scalar s and a vector a:
// s x a == (-s*a.Y, s*a.X).
func (v *V2) CrossSV(s float64, a *V2) *V2 {
	v.X, v.Y = -s*a.Y, s*a.X
	return v
}

// CrossVS sets v to the cross product of a vector a and a scalar s:
// a x s == (s*a.Y, -s*a.X).
func (v *V2) CrossVS(a *V2, s float64) *V2 {
	v.X, v.Y = s*a.Y, -s*a.X
	return v
}

// Skew returns the left-perpendicular of v: rotate v by +90 degrees.
func (v *V2) Skew() V2 { return V2{-v.Y, v.X} }

// Len returns the length (magnitude) of v.
func (v *V2) Len() float64 { return math.Sqrt(v.X*v.X + v.Y*v.Y) }

// LenSqr returns the squared length of v. Cheaper than Len when only
// used for comparison.
func (v *V2) LenSqr() float64 { return v.X*v.X + v.Y*v.Y }

// Dist returns the distance between the points v and a.
func (v *V2) Dist(a *V2) float64 {
	dx, dy := v.X-a.X, v.Y-a.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// DistSqr returns the squared distance between the points v and a.
func (v *V2) DistSqr(a *V2) float64 {
	dx, dy := v.X-a.X, v.Y-a.Y
	return dx*dx + dy*dy
}

// Unit normalizes v in place to length 1 and returns the prior length.
// Leaves v untouched (zero) if its length is too small to normalize.
func (v *V2) Unit() float64 {
	length := v.Len()
	if length < Epsilon {
		return 0
	}
	inv := 1.0 / length
	v.X *= inv
	v.Y *= inv
	return length
}

// Min sets v to the component-wise minimum of a and b and returns v.
func (v *V2) Min(a, b *V2) *V2 {
	v.X, v.Y = math.Min(a.X, b.X), math.Min(a.Y, b.Y)
	return v
}

// Max sets v to the component-wise maximum of a and b and returns v.
func (v *V2) Max(a, b *V2) *V2 {
	v.X, v.Y = math.Max(a.X, b.X), math.Max(a.Y, b.Y)
	return v
}

// Abs sets v to the component-wise absolute value of a and returns v.
func (v *V2) Abs(a *V2) *V2 {
	v.X, v.Y = math.Abs(a.X), math.Abs(a.Y)
	return v
}

// Clamp sets v to a clamped component-wise between lo and hi and returns v.
func (v *V2) Clamp(a, lo, hi *V2) *V2 {
	v.X = Clamp(a.X, lo.X, hi.X)
	v.Y = Clamp(a.Y, lo.Y, hi.Y)
	return v
}

// MulAdd is a 2-scalar weighted sum: v = a*sa + b*sb.
func (v *V2) MulAdd(a *V2, sa float64, b *V2, sb float64) *V2 {
	v.X = a.X*sa + b.X*sb
	v.Y = a.Y*sa + b.Y*sb
	return v
}
