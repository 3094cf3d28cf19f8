// Copyright © 2013-2015 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

// Package lin provides a linear math library that includes vectors,
// matrices, rotations and transforms. Linear math operations are used
// throughout the broad-phase, narrow-phase, and constraint solver of a
// 2D rigid body physics simulation.
//
// Package lin is provided as part of the kinetic 2D physics engine.
package lin

// Design Notes:
//
// 1) This is a CPU based 2D math library. It is called from the inner
//    loops of the solver where performance is key. Some general
//    guidelines, verified with benchmarks in the 3D ancestor of this
//    package, still apply:
//     - avoid instantiating new structures
//     - use pointers to structures
//     - prefer multiply over divide
//
// 2) Unlike a 3D math library there is no quaternion: a 2D rotation is
//    fully described by a single angle, stored as (sin, cos) so the
//    solver is not re-computing trig functions every step.

import "math"

// Various linear math constants.
const (

	// PI and its commonly needed varients.
	PI     float64 = math.Pi
	PIx2   float64 = PI * 2
	HalfPi float64 = PIx2 * 0.25
	DegRad float64 = PIx2 / 360.0 // X degrees * DEG_RAD = Y radians
	RadDeg float64 = 360.0 / PIx2 // Y radians * RAD_DEG = X degrees

	// Convenience numbers.
	Large float64 = math.MaxFloat32

	// Epsilon is used to distinguish when a float is close enough to a number.
	Epsilon float64 = 0.000001
)

// Rad converts degrees to radians.
func Rad(deg float64) float64 { return deg * DegRad }

// Deg converts radians to degrees.
func Deg(rad float64) float64 { return rad * RadDeg }

// AeqZ (~=) almost-equals returns true if the difference between x and zero
// is so small that it doesn't matter.
func AeqZ(x float64) bool { return math.Abs(x) < Epsilon }

// Aeq (~=) almost-equals returns true if the difference between a and b is
// so small that it doesn't matter.
func Aeq(a, b float64) bool { return math.Abs(a-b) < Epsilon }

// Lerp returns the linear interpolation of a to b by the given ratio.
func Lerp(a, b, ratio float64) float64 { return (b-a)*ratio + a }

// Clamp returns a scalar value (one of: s, lb, ub) guaranteed to be within
// the range given by lower bound lb and upper bound ub.
func Clamp(s, lb, ub float64) float64 {
	switch {
	case s < lb:
		return lb
	case s > ub:
		return ub
	}
	return s
}

// Nang (normalize angle) maps a rotation angle in radians into (-PI, PI].
// Sweep angles are normalized with this before they are compared or used
// to rebuild a Rot, otherwise accumulated spin makes the sin/cos pair
// ambiguous.
func Nang(radians float64) float64 {
	radians = math.Mod(radians, PIx2)
	switch {
	case radians <= -PI:
		return radians + PIx2
	case radians > PI:
		return radians - PIx2
	}
	return radians
}

// AbsMax returns the index (0-3) of the largest absolute value among the
// four given numbers.
func AbsMax(a0, a1, a2, a3 float64) int {
	maxIndex := 0
	maxVal := math.Abs(a0)
	if v := math.Abs(a1); v > maxVal {
		maxIndex, maxVal = 1, v
	}
	if v := math.Abs(a2); v > maxVal {
		maxIndex, maxVal = 2, v
	}
	if v := math.Abs(a3); v > maxVal {
		maxIndex = 3
	}
	return maxIndex
}
