// Copyright © 2024 Galvanized Logic Inc.

package physics

// timeofimpact.go finds the first time within a step that two moving
// shapes come within touching distance, so World.Step can roll a fast
// ("bullet") body back to the moment of impact instead of letting it
// tunnel through a thin target between two discrete positions. This
// is conservative advancement built directly on distance.go's GJK
// distance query: at each iterate, Distance() gives the current
// separation and DistanceOutput's witness points give a normal to
// bound how fast that separation can close, so the time estimate only
// ever advances to a time it can prove is still safe.

import (
	"math"

	"github.com/gazed/kinetic/math/lin"
)

// TOIInput describes two swept shapes to test against each other.
type TOIInput struct {
	ProxyA, ProxyB DistanceProxy
	SweepA, SweepB lin.Sweep
	// TMax is the largest fraction of the sweep worth considering,
	// normally 1.0 (the whole step).
	TMax float64
}

// TOIState reports how the search concluded.
type TOIState int

const (
	TOIUnknown TOIState = iota
	TOIFailed
	TOIOverlapped // core shapes already overlap at the current search time: caller should resolve as a normal contact, not a TOI event.
	TOITouching   // found the first time of touching contact.
	TOISeparated  // shapes never come within target distance by TMax.
)

// TOIOutput is the result of TimeOfImpact.
type TOIOutput struct {
	State TOIState
	T     float64 // fraction of the sweep (within [0, TMax]) at which the shapes first touch.
}

const toiTarget = 3 * 0.005 // stop this far short of actual touching, the same skin used for linearSlop.

// TimeOfImpact performs conservative advancement: repeatedly place
// both shapes at the current best time estimate, measure their
// separation with the existing GJK Distance query, and either accept
// touching (separation below target + tolerance, where target is
// max(linearSlop, totalRadius - 3*linearSlop)), report TOIOverlapped
// (core separation <= 0), fail (ran out of iterations or the step
// made no progress), or advance time by an amount that distance is
// provably still non-negative for given the bodies' maximum relative
// speed.
func TimeOfImpact(input *TOIInput) TOIOutput {
	const maxIterations = 20
	t1 := 0.0
	var cache SimplexCache

	totalRadius := input.ProxyA.Radius + input.ProxyB.Radius
	target := math.Max(linearSlop(), totalRadius-3*linearSlop())
	tolerance := 0.25 * linearSlop()

	for iter := 0; iter < maxIterations; iter++ {
		var xfA, xfB lin.Transform
		input.SweepA.GetTransform(&xfA, t1)
		input.SweepB.GetTransform(&xfB, t1)

		distInput := DistanceInput{ProxyA: input.ProxyA, ProxyB: input.ProxyB, TransformA: xfA, TransformB: xfB}
		out := Distance(&distInput, &cache)

		if out.Distance <= 0 {
			return TOIOutput{State: TOIOverlapped, T: t1}
		}
		if out.Distance < target+tolerance {
			return TOIOutput{State: TOITouching, T: t1}
		}

		// bound the closing speed along the witness-point axis using
		// each body's maximum point velocity over the remaining sweep,
		// then take a conservative (never-overshooting) step.
		axis := lin.V2{X: out.PointB.X - out.PointA.X, Y: out.PointB.Y - out.PointA.Y}
		d := axis.Len()
		if d > lin.Epsilon {
			axis.Scale(&axis, 1/d)
		}
		maxSpeed := sweepMaxSeparationSpeed(&input.SweepA, &input.SweepB, axis)
		if maxSpeed < lin.Epsilon {
			return TOIOutput{State: TOISeparated, T: input.TMax}
		}

		dt := (out.Distance - target) / maxSpeed
		t2 := t1 + dt
		if t2 >= input.TMax {
			return TOIOutput{State: TOISeparated, T: input.TMax}
		}
		if t2 <= t1 {
			return TOIOutput{State: TOIFailed, T: t1}
		}
		t1 = t2
	}
	return TOIOutput{State: TOIFailed, T: t1}
}

// sweepMaxSeparationSpeed bounds how fast the separation along axis
// can shrink, using each sweep's linear displacement plus an angular
// term scaled by the (unknown at this level) shape extents - a
// conservative over-estimate using the full translation speed is used
// instead of a tight per-shape bound, trading a few extra iterations
// for a much simpler, still-safe estimate.
func sweepMaxSeparationSpeed(sweepA, sweepB *lin.Sweep, axis lin.V2) float64 {
	vA := lin.V2{X: sweepA.C.X - sweepA.C0.X, Y: sweepA.C.Y - sweepA.C0.Y}
	vB := lin.V2{X: sweepB.C.X - sweepB.C0.X, Y: sweepB.C.Y - sweepB.C0.Y}
	relV := lin.V2{X: vB.X - vA.X, Y: vB.Y - vA.Y}
	closing := -relV.Dot(&axis)
	angularBound := math.Abs(sweepA.A-sweepA.A0) + math.Abs(sweepB.A-sweepB.A0)
	if closing < 0 {
		closing = 0
	}
	return closing + angularBound
}
