// Copyright © 2013-2015 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package lin

// Rotation replaces the quaternion used by the 3D ancestor of this
// package: in 2D, orientation is a single angle, kept as its sine and
// cosine so the solver is not repeatedly calling math.Sin/Cos.

import "math"

// Rot is a 2D rotation stored as (sin, cos) of an angle.
type Rot struct {
	Sin float64
	Cos float64
}

// NewRot returns the identity rotation (angle 0).
func NewRot() *Rot { return &Rot{Sin: 0, Cos: 1} }

// Set computes Sin and Cos from the given angle in radians and returns r.
func (r *Rot) Set(angle float64) *Rot {
	r.Sin, r.Cos = math.Sin(angle), math.Cos(angle)
	return r
}

// SetI sets r to the identity rotation and returns r.
func (r *Rot) SetI() *Rot {
	r.Sin, r.Cos = 0, 1
	return r
}

// Set2 copies a into r and returns r.
func (r *Rot) Set2(a *Rot) *Rot {
	r.Sin, r.Cos = a.Sin, a.Cos
	return r
}

// Angle returns the rotation's angle in radians, in (-PI, PI].
func (r *Rot) Angle() float64 { return math.Atan2(r.Sin, r.Cos) }

// XAxis returns the rotated x basis vector (1,0).
func (r *Rot) XAxis() V2 { return V2{r.Cos, r.Sin} }

// YAxis returns the rotated y basis vector (0,1).
func (r *Rot) YAxis() V2 { return V2{-r.Sin, r.Cos} }

// Mul sets r = a * b (compose rotation b followed by a) and returns r.
// Equivalent to: angle(r) = angle(a) + angle(b).
func (r *Rot) Mul(a, b *Rot) *Rot {
	sin := a.Sin*b.Cos + a.Cos*b.Sin
	cos := a.Cos*b.Cos - a.Sin*b.Sin
	r.Sin, r.Cos = sin, cos
	return r
}

// MulT sets r = a^T * b (the relative rotation from a to b) and returns r.
// Equivalent to: angle(r) = angle(b) - angle(a).
func (r *Rot) MulT(a, b *Rot) *Rot {
	sin := a.Cos*b.Sin - a.Sin*b.Cos
	cos := a.Cos*b.Cos + a.Sin*b.Sin
	r.Sin, r.Cos = sin, cos
	return r
}

// Apply rotates vector v by r and returns the result.
func (r *Rot) Apply(v *V2) V2 {
	return V2{r.Cos*v.X - r.Sin*v.Y, r.Sin*v.X + r.Cos*v.Y}
}

// ApplyT rotates vector v by the inverse (transpose) of r and returns the result.
func (r *Rot) ApplyT(v *V2) V2 {
	return V2{r.Cos*v.X + r.Sin*v.Y, -r.Sin*v.X + r.Cos*v.Y}
}
