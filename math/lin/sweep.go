// Copyright © 2013-2015 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package lin

// Sweep describes a body's motion over a solver sub-step: the center of
// mass position and angle at the start (C0, A0) and end (C, A) of the
// sub-step, plus the local center offset from the body origin and the
// fraction of the full step the sub-step begins at (Alpha0). Continuous
// collision (time of impact) advances Alpha0 as it resolves partial
// sub-steps within one Step call.
type Sweep struct {
	LocalCenter V2 // local center of mass position
	C0, C       V2 // center of mass position, start and end of sub-step
	A0, A       float64
	Alpha0      float64 // fraction of the step at which this sub-step begins
}

// GetTransform interpolates the sweep at fraction beta in [0,1] of the
// sub-step and writes the resulting world transform into out.
func (s *Sweep) GetTransform(out *Transform, beta float64) {
	out.P.X = (1.0-beta)*s.C0.X + beta*s.C.X
	out.P.Y = (1.0-beta)*s.C0.Y + beta*s.C.Y
	angle := (1.0-beta)*s.A0 + beta*s.A
	out.Q.Set(angle)

	// shift to origin-centered position: p = center - R*localCenter
	r := out.Q.Apply(&s.LocalCenter)
	out.P.X -= r.X
	out.P.Y -= r.Y
}

// Advance moves the sweep's starting point forward to the given
// fraction alpha of the full step, leaving the end point unchanged.
// Used by the TOI loop once a sub-step's time of impact is resolved.
func (s *Sweep) Advance(alpha float64) {
	if s.Alpha0 >= alpha {
		return
	}
	beta := (alpha - s.Alpha0) / (1.0 - s.Alpha0)
	s.C0.X += beta * (s.C.X - s.C0.X)
	s.C0.Y += beta * (s.C.Y - s.C0.Y)
	s.A0 += beta * (s.A - s.A0)
	s.Alpha0 = alpha
}

// Normalize moves A0 into (-PI, PI] and shifts A by the same amount,
// preserving the angle difference between them, so repeated spins
// don't lose precision.
func (s *Sweep) Normalize() {
	d := s.A0 - Nang(s.A0)
	s.A0 -= d
	s.A -= d
}
