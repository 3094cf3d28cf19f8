// Copyright © 2013-2015 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package lin

// Transform is a 2D rigid transform for rotation and translation. It
// excludes scaling and shear, the same simplification the 3D ancestor
// of this package made with its own T type.
type Transform struct {
	P V2  // Position (translation, origin).
	Q Rot // Rotation (orientation).
}

// NewTransform returns the identity transform.
func NewTransform() *Transform { return &Transform{Q: Rot{Sin: 0, Cos: 1}} }

// SetI sets t to the identity transform and returns t.
func (t *Transform) SetI() *Transform {
	t.P = V2{}
	t.Q.SetI()
	return t
}

// Set copies a into t and returns t.
func (t *Transform) Set(a *Transform) *Transform {
	t.P, t.Q = a.P, a.Q
	return t
}

// SetPA sets t's position and angle directly and returns t.
func (t *Transform) SetPA(p V2, angle float64) *Transform {
	t.P = p
	t.Q.Set(angle)
	return t
}

// Apply transforms a local point v into world coordinates:
// world = t.Q * v + t.P.
func (t *Transform) Apply(v *V2) V2 {
	r := t.Q.Apply(v)
	return V2{r.X + t.P.X, r.Y + t.P.Y}
}

// ApplyT transforms a world point v into t's local coordinates:
// local = t.Q^T * (v - t.P).
func (t *Transform) ApplyT(v *V2) V2 {
	px, py := v.X-t.P.X, v.Y-t.P.Y
	return t.Q.ApplyT(&V2{px, py})
}

// Mul sets t = a * b, the composition of two transforms such that
// applying t to a point equals applying b then a. Returns t.
func (t *Transform) Mul(a, b *Transform) *Transform {
	var q Rot
	q.Mul(&a.Q, &b.Q)
	p := a.Q.Apply(&b.P)
	p.X += a.P.X
	p.Y += a.P.Y
	t.Q, t.P = q, p
	return t
}

// MulT sets t = a^-1 * b, the relative transform from a to b. Returns t.
func (t *Transform) MulT(a, b *Transform) *Transform {
	var q Rot
	q.MulT(&a.Q, &b.Q)
	dx, dy := b.P.X-a.P.X, b.P.Y-a.P.Y
	p := a.Q.ApplyT(&V2{dx, dy})
	t.Q, t.P = q, p
	return t
}
