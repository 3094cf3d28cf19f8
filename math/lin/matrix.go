// Copyright © 2013-2015 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package lin

// Matrix performs 2x2 and 3x3 matrix math. M2 holds the effective-mass
// Jacobians used by the contact block solver and by joints with a
// 2-DOF point constraint. M3 is the 3x3 counterpart, for solving three
// constraint rows together.

// M2 is a 2x2 matrix stored by column, matching the convention that
// Col1 and Col2 are the matrix's two columns.
type M2 struct {
	Col1, Col2 V2
}

// NewM2 returns a new zero'd matrix.
func NewM2() *M2 { return &M2{} }

// SetCols sets the matrix columns directly and returns m.
func (m *M2) SetCols(col1, col2 V2) *M2 {
	m.Col1, m.Col2 = col1, col2
	return m
}

// SetI sets m to the identity matrix and returns m.
func (m *M2) SetI() *M2 {
	m.Col1 = V2{1, 0}
	m.Col2 = V2{0, 1}
	return m
}

// Set copies a into m and returns m.
func (m *M2) Set(a *M2) *M2 {
	m.Col1, m.Col2 = a.Col1, a.Col2
	return m
}

// MulV multiplies m by vector v and returns the result.
func (m *M2) MulV(v *V2) V2 {
	return V2{m.Col1.X*v.X + m.Col2.X*v.Y, m.Col1.Y*v.X + m.Col2.Y*v.Y}
}

// Add sets m = a + b and returns m.
func (m *M2) Add(a, b *M2) *M2 {
	m.Col1.X, m.Col1.Y = a.Col1.X+b.Col1.X, a.Col1.Y+b.Col1.Y
	m.Col2.X, m.Col2.Y = a.Col2.X+b.Col2.X, a.Col2.Y+b.Col2.Y
	return m
}

// Det returns the determinant of m.
func (m *M2) Det() float64 { return m.Col1.X*m.Col2.Y - m.Col2.X*m.Col1.Y }

// Inverse returns the inverse of m, or the zero matrix if m is singular.
func (m *M2) Inverse() M2 {
	a, b, c, d := m.Col1.X, m.Col2.X, m.Col1.Y, m.Col2.Y
	det := a*d - b*c
	if det != 0.0 {
		det = 1.0 / det
	}
	var out M2
	out.Col1.X, out.Col2.X = det*d, -det*b
	out.Col1.Y, out.Col2.Y = -det*c, det*a
	return out
}

// Solve solves m*x = b for x using Cramer's rule. Used instead of an
// explicit Inverse when only one right-hand side needs solving.
func (m *M2) Solve(b *V2) V2 {
	a11, a12, a21, a22 := m.Col1.X, m.Col2.X, m.Col1.Y, m.Col2.Y
	det := a11*a22 - a12*a21
	if det != 0.0 {
		det = 1.0 / det
	}
	return V2{det * (a22*b.X - a12*b.Y), det * (a11*b.Y - a21*b.X)}
}

// M3 is a 3x3 matrix stored by column.
type M3 struct {
	Col1, Col2, Col3 V3
}

// V3 is a bare 3 element vector used only for M3 columns/rows: the
// third component is the angular (z) degree of freedom paired with a
// 2D linear point, not a general 3D vector.
type V3 struct {
	X, Y, Z float64
}

// NewM3 returns a new zero'd 3x3 matrix.
func NewM3() *M3 { return &M3{} }

// SetI sets m to the identity matrix and returns m.
func (m *M3) SetI() *M3 {
	m.Col1 = V3{1, 0, 0}
	m.Col2 = V3{0, 1, 0}
	m.Col3 = V3{0, 0, 1}
	return m
}

// MulV multiplies m by vector v and returns the result.
func (m *M3) MulV(v *V3) V3 {
	return V3{
		m.Col1.X*v.X + m.Col2.X*v.Y + m.Col3.X*v.Z,
		m.Col1.Y*v.X + m.Col2.Y*v.Y + m.Col3.Y*v.Z,
		m.Col1.Z*v.X + m.Col2.Z*v.Y + m.Col3.Z*v.Z,
	}
}

// Solve33 solves m*x = b for x, a full 3x3 system.
func (m *M3) Solve33(b *V3) V3 {
	col1, col2, col3 := m.Col1, m.Col2, m.Col3
	det := col1.Dot3(cross3(col2, col3))
	if det != 0.0 {
		det = 1.0 / det
	}
	var out V3
	out.X = det * b.Dot3(cross3(col2, col3))
	out.Y = det * col1.Dot3(cross3(*b, col3))
	out.Z = det * col1.Dot3(cross3(col2, *b))
	return out
}

// Solve22 solves the upper-left 2x2 block of m against a 2-vector b,
// ignoring the third row/column.
func (m *M3) Solve22(b *V2) V2 {
	a11, a12, a21, a22 := m.Col1.X, m.Col2.X, m.Col1.Y, m.Col2.Y
	det := a11*a22 - a12*a21
	if det != 0.0 {
		det = 1.0 / det
	}
	return V2{det * (a22*b.X - a12*b.Y), det * (a11*b.Y - a21*b.X)}
}

// GetInverse22 extracts the inverse of the upper-left 2x2 block of m
// into the given matrix, which must not alias m.
func (m *M3) GetInverse22(out *M3) {
	a, b, c, d := m.Col1.X, m.Col2.X, m.Col1.Y, m.Col2.Y
	det := a*d - b*c
	if det != 0.0 {
		det = 1.0 / det
	}
	out.Col1.X, out.Col2.X, out.Col3.X = det*d, -det*b, 0
	out.Col1.Y, out.Col2.Y, out.Col3.Y = -det*c, det*a, 0
	out.Col1.Z, out.Col2.Z, out.Col3.Z = 0, 0, 0
}

// Dot3 returns the dot product of v and a.
func (v *V3) Dot3(a V3) float64 { return v.X*a.X + v.Y*a.Y + v.Z*a.Z }

// cross3 returns the 3D cross product of a and b.
func cross3(a, b V3) V3 {
	return V3{a.Y*b.Z - a.Z*b.Y, a.Z*b.X - a.X*b.Z, a.X*b.Y - a.Y*b.X}
}
