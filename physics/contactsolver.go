// Copyright © 2024 Galvanized Logic Inc.

package physics

// contactsolver.go is the 2D Sequential Impulses solver, generalized
// from solver.go's Bullet-derived Projected-Gauss-Seidel pattern
// (constraints built once per step from contact points, then resolved
// by repeated single-constraint passes that only ever push an applied
// impulse towards its limits). Two things solver.go's 3D/box-box world
// never needed: a block solver for two-point manifolds (solving both
// points' normal impulses together avoids the wobble of solving them
// one at a time when they are tightly coupled, e.g. a box resting
// flush on a flat edge) and a separate position-correction pass
// (Non-Linear Gauss-Seidel over position error, rather than
// solver.go's split-impulse velocity hack) since 2D manifolds
// routinely run with zero slop tolerance for resting stacks. Both are
// standard parts of a 2D rigid-body solver; grounded in the same
// sequential-impulse family solver.go documents, just extended to
// cover what a 2D engine with persistent 1-2 point manifolds needs.

import (
	"math"

	"github.com/gazed/kinetic/math/lin"
)

type velocityConstraintPoint struct {
	rA, rB                     lin.V2
	normalImpulse              float64
	tangentImpulse             float64
	normalMass                 float64
	tangentMass                float64
	velocityBias               float64
}

type contactVelocityConstraint struct {
	points                 [maxManifoldPoints]velocityConstraintPoint
	normal                 lin.V2
	normalMass             lin.M2 // 2x2 block solver mass matrix (2-point manifolds only).
	k                      lin.M2
	bodyA, bodyB           *Body
	friction, restitution  float64
	pointCount             int
	contact                *Contact
}

type contactPositionConstraint struct {
	localPoints          [maxManifoldPoints]lin.V2
	localNormal          lin.V2
	localPoint           lin.V2
	bodyA, bodyB         *Body
	typ                  ManifoldType
	radiusA, radiusB     float64
	pointCount           int
}

// contactSolver owns the per-step constraint arrays built from the
// world's touching contacts; World.solveIsland drives it.
type contactSolver struct {
	velocityConstraints []contactVelocityConstraint
	positionConstraints []contactPositionConstraint
}

func newContactSolver() *contactSolver { return &contactSolver{} }

// initialize builds velocity and position constraints for every
// touching, enabled contact in the island and warm-starts them from
// the manifold's carried-over impulses.
func (s *contactSolver) initialize(contacts []*Contact) {
	s.velocityConstraints = s.velocityConstraints[:0]
	s.positionConstraints = s.positionConstraints[:0]

	for _, c := range contacts {
		if !c.enabled || !c.touching || c.fixtureA.isSensor || c.fixtureB.isSensor {
			continue
		}
		m := &c.manifold
		bA, bB := c.bodyA(), c.bodyB()

		vc := contactVelocityConstraint{
			bodyA: bA, bodyB: bB,
			friction: c.friction, restitution: c.restitution,
			pointCount: m.PointCount, contact: c,
		}
		pc := contactPositionConstraint{
			bodyA: bA, bodyB: bB,
			typ: m.Type, pointCount: m.PointCount,
			localNormal: m.LocalNormal, localPoint: m.LocalPoint,
			radiusA: shapeRadius(c.fixtureA.shape), radiusB: shapeRadius(c.fixtureB.shape),
		}
		for i := 0; i < m.PointCount; i++ {
			vc.points[i].normalImpulse = m.Points[i].NormalImpulse
			vc.points[i].tangentImpulse = m.Points[i].TangentImpulse
			pc.localPoints[i] = m.Points[i].Point
		}
		s.velocityConstraints = append(s.velocityConstraints, vc)
		s.positionConstraints = append(s.positionConstraints, pc)
	}
}

func shapeRadius(s Shape) float64 { return s.GetRadius() }

// worldManifoldPoints recomputes the world-space normal and per-point
// contact locations for a velocity constraint's bodies at their
// current transforms - done once per solver setup, not once per
// iteration, since transforms don't move during velocity solving.
func worldManifoldPoints(pc *contactPositionConstraint, xfA, xfB *lin.Transform) (normal lin.V2, points [maxManifoldPoints]lin.V2) {
	switch pc.typ {
	case manifoldCircles:
		pointA := xfA.Apply(&pc.localPoint)
		pointB := xfB.Apply(&pc.localPoints[0])
		d := lin.V2{X: pointB.X - pointA.X, Y: pointB.Y - pointA.Y}
		if d.LenSqr() > lin.Epsilon*lin.Epsilon {
			n := d
			n.Scale(&n, 1/n.Len())
			normal = n
		} else {
			normal = lin.V2{X: 1}
		}
		cA := lin.V2{X: pointA.X + pc.radiusA*normal.X, Y: pointA.Y + pc.radiusA*normal.Y}
		cB := lin.V2{X: pointB.X - pc.radiusB*normal.X, Y: pointB.Y - pc.radiusB*normal.Y}
		points[0] = lin.V2{X: 0.5 * (cA.X + cB.X), Y: 0.5 * (cA.Y + cB.Y)}
	case manifoldFaceA:
		normal = xfA.Q.Apply(&pc.localNormal)
		planePoint := xfA.Apply(&pc.localPoint)
		for i := 0; i < pc.pointCount; i++ {
			clip := xfB.Apply(&pc.localPoints[i])
			sep := normal.Dot(&lin.V2{X: clip.X - planePoint.X, Y: clip.Y - planePoint.Y}) - pc.radiusA - pc.radiusB
			cA := lin.V2{X: clip.X - sep*normal.X, Y: clip.Y - sep*normal.Y}
			cB := clip
			points[i] = lin.V2{X: 0.5 * (cA.X + cB.X), Y: 0.5 * (cA.Y + cB.Y)}
		}
	case manifoldFaceB:
		normal = xfB.Q.Apply(&pc.localNormal)
		planePoint := xfB.Apply(&pc.localPoint)
		for i := 0; i < pc.pointCount; i++ {
			clip := xfA.Apply(&pc.localPoints[i])
			sep := normal.Dot(&lin.V2{X: clip.X - planePoint.X, Y: clip.Y - planePoint.Y}) - pc.radiusA - pc.radiusB
			cB := lin.V2{X: clip.X - sep*normal.X, Y: clip.Y - sep*normal.Y}
			cA := clip
			points[i] = lin.V2{X: 0.5 * (cA.X + cB.X), Y: 0.5 * (cA.Y + cB.Y)}
		}
		normal = lin.V2{X: -normal.X, Y: -normal.Y} // faceB normal points from B into A.
	}
	return normal, points
}

// warmStart applies the impulses carried over from the previous step
// (or zero, for new points) before the first velocity iteration.
func (s *contactSolver) warmStart() {
	for i := range s.velocityConstraints {
		vc := &s.velocityConstraints[i]
		pc := &s.positionConstraints[i]
		normal, points := worldManifoldPoints(pc, vc.bodyA.transform, vc.bodyB.transform)
		vc.normal = normal
		tangent := normal.Skew()

		for j := 0; j < vc.pointCount; j++ {
			p := &vc.points[j]
			p.rA = lin.V2{X: points[j].X - vc.bodyA.sweep.C.X, Y: points[j].Y - vc.bodyA.sweep.C.Y}
			p.rB = lin.V2{X: points[j].X - vc.bodyB.sweep.C.X, Y: points[j].Y - vc.bodyB.sweep.C.Y}

			impulse := lin.V2{
				X: p.normalImpulse*normal.X + p.tangentImpulse*tangent.X,
				Y: p.normalImpulse*normal.Y + p.tangentImpulse*tangent.Y,
			}
			applyImpulseAt(vc.bodyA, lin.V2{X: -impulse.X, Y: -impulse.Y}, p.rA)
			applyImpulseAt(vc.bodyB, impulse, p.rB)
		}
	}
}

// prepare computes the effective masses used by the velocity solver,
// including the block-solver 2x2 matrix for two-point manifolds.
func (s *contactSolver) prepare(ts float64) {
	for i := range s.velocityConstraints {
		vc := &s.velocityConstraints[i]
		bA, bB := vc.bodyA, vc.bodyB
		tangent := vc.normal.Skew()

		for j := 0; j < vc.pointCount; j++ {
			p := &vc.points[j]
			rnA := p.rA.Cross2(&vc.normal)
			rnB := p.rB.Cross2(&vc.normal)
			kNormal := bA.invMass + bB.invMass + bA.invI*rnA*rnA + bB.invI*rnB*rnB
			if kNormal > 0 {
				p.normalMass = 1 / kNormal
			}
			rtA := p.rA.Cross2(&tangent)
			rtB := p.rB.Cross2(&tangent)
			kTangent := bA.invMass + bB.invMass + bA.invI*rtA*rtA + bB.invI*rtB*rtB
			if kTangent > 0 {
				p.tangentMass = 1 / kTangent
			}

			dv := relativeVelocityAt(bA, bB, p.rA, p.rB)
			vRelNormal := dv.Dot(&vc.normal)
			p.velocityBias = 0
			if vRelNormal < -1.0 {
				p.velocityBias = -vc.restitution * vRelNormal
			}
		}

		if vc.pointCount == 2 {
			p1, p2 := &vc.points[0], &vc.points[1]
			rn1A, rn1B := p1.rA.Cross2(&vc.normal), p1.rB.Cross2(&vc.normal)
			rn2A, rn2B := p2.rA.Cross2(&vc.normal), p2.rB.Cross2(&vc.normal)
			k11 := bA.invMass + bB.invMass + bA.invI*rn1A*rn1A + bB.invI*rn1B*rn1B
			k22 := bA.invMass + bB.invMass + bA.invI*rn2A*rn2A + bB.invI*rn2B*rn2B
			k12 := bA.invMass + bB.invMass + bA.invI*rn1A*rn2A + bB.invI*rn1B*rn2B
			// if the off-diagonal term is too large relative to the
			// diagonal, the block is ill-conditioned: fall back to
			// solving only the first point.
			const maxConditionNumber = 1000.0
			if k11*k11 < maxConditionNumber*(k11*k22-k12*k12) {
				vc.k = lin.M2{Col1: lin.V2{X: k11, Y: k12}, Col2: lin.V2{X: k12, Y: k22}}
				vc.normalMass = vc.k.Inverse()
			} else {
				vc.pointCount = 1
			}
		}
	}
}

func relativeVelocityAt(bA, bB *Body, rA, rB lin.V2) lin.V2 {
	vA := lin.V2{X: bA.linearVelocity.X - bA.angularVelocity*rA.Y, Y: bA.linearVelocity.Y + bA.angularVelocity*rA.X}
	vB := lin.V2{X: bB.linearVelocity.X - bB.angularVelocity*rB.Y, Y: bB.linearVelocity.Y + bB.angularVelocity*rB.X}
	return lin.V2{X: vB.X - vA.X, Y: vB.Y - vA.Y}
}

func applyImpulseAt(b *Body, impulse, r lin.V2) {
	b.linearVelocity.X += b.invMass * impulse.X
	b.linearVelocity.Y += b.invMass * impulse.Y
	b.angularVelocity += b.invI * r.Cross2(&impulse)
}

// solveVelocityConstraints runs one sequential-impulse pass: friction
// first using the previous iteration's normal impulse as its limit
// (matches solver.go's ordering rationale - friction is clamped by
// whatever normal force currently holds, so solving it first lags one
// iteration behind, which in practice converges fine), then the
// normal impulses, using the block solver when two points are coupled.
func (s *contactSolver) solveVelocityConstraints() {
	for i := range s.velocityConstraints {
		vc := &s.velocityConstraints[i]
		bA, bB := vc.bodyA, vc.bodyB
		normal := vc.normal
		tangent := normal.Skew()

		for j := 0; j < vc.pointCount; j++ {
			p := &vc.points[j]
			dv := relativeVelocityAt(bA, bB, p.rA, p.rB)
			vt := dv.Dot(&tangent)
			lambda := p.tangentMass * -vt
			maxFriction := vc.friction * p.normalImpulse
			newImpulse := lin.Clamp(p.tangentImpulse+lambda, -maxFriction, maxFriction)
			lambda = newImpulse - p.tangentImpulse
			p.tangentImpulse = newImpulse

			impulse := lin.V2{X: lambda * tangent.X, Y: lambda * tangent.Y}
			applyImpulseAt(bA, lin.V2{X: -impulse.X, Y: -impulse.Y}, p.rA)
			applyImpulseAt(bB, impulse, p.rB)
		}

		if vc.pointCount == 1 {
			p := &vc.points[0]
			dv := relativeVelocityAt(bA, bB, p.rA, p.rB)
			vn := dv.Dot(&normal)
			lambda := -p.normalMass * (vn - p.velocityBias)
			newImpulse := p.normalImpulse + lambda
			if newImpulse < 0 {
				newImpulse = 0
			}
			lambda = newImpulse - p.normalImpulse
			p.normalImpulse = newImpulse

			impulse := lin.V2{X: lambda * normal.X, Y: lambda * normal.Y}
			applyImpulseAt(bA, lin.V2{X: -impulse.X, Y: -impulse.Y}, p.rA)
			applyImpulseAt(bB, impulse, p.rB)
		} else if vc.pointCount == 2 {
			s.solveBlock(vc)
		}
	}
}

// solveBlock solves both normal impulses of a two-point manifold
// together, clamping to the feasible region of the 2D LCP (both
// positive, point 1 alone, point 2 alone, or both zero) in turn -
// the standard four-case block solver for a 2-contact manifold.
func (s *contactSolver) solveBlock(vc *contactVelocityConstraint) {
	bA, bB := vc.bodyA, vc.bodyB
	normal := vc.normal
	p1, p2 := &vc.points[0], &vc.points[1]

	a := lin.V2{X: p1.normalImpulse, Y: p2.normalImpulse}
	dv1 := relativeVelocityAt(bA, bB, p1.rA, p1.rB)
	dv2 := relativeVelocityAt(bA, bB, p2.rA, p2.rB)
	vn1 := dv1.Dot(&normal) - p1.velocityBias
	vn2 := dv2.Dot(&normal) - p2.velocityBias
	b := lin.V2{X: vn1, Y: vn2}
	b.X -= vc.k.Col1.X*a.X + vc.k.Col2.X*a.Y
	b.Y -= vc.k.Col1.Y*a.X + vc.k.Col2.Y*a.Y

	// case 1: both points active.
	x := vc.normalMass.MulV(&b)
	x.X, x.Y = -x.X, -x.Y
	if x.X >= 0 && x.Y >= 0 {
		s.applyBlockSolution(vc, x.X-a.X, x.Y-a.Y)
		return
	}

	// case 2: point 1 only.
	x1 := -p1.normalMass * b.X
	if x1 >= 0 {
		vn2try := vc.k.Col1.Y*x1 + b.Y
		if x1 >= 0 && vn2try >= 0 {
			s.applyBlockSolution(vc, x1-a.X, -a.Y)
			return
		}
	}

	// case 3: point 2 only.
	x2 := -p2.normalMass * b.Y
	if x2 >= 0 {
		vn1try := vc.k.Col2.X*x2 + b.X
		if vn1try >= 0 {
			s.applyBlockSolution(vc, -a.X, x2-a.Y)
			return
		}
	}

	// case 4: neither point active.
	if b.X >= 0 && b.Y >= 0 {
		s.applyBlockSolution(vc, -a.X, -a.Y)
	}
}

func (s *contactSolver) applyBlockSolution(vc *contactVelocityConstraint, d1, d2 float64) {
	bA, bB := vc.bodyA, vc.bodyB
	normal := vc.normal
	p1, p2 := &vc.points[0], &vc.points[1]
	p1.normalImpulse += d1
	p2.normalImpulse += d2

	i1 := lin.V2{X: d1 * normal.X, Y: d1 * normal.Y}
	i2 := lin.V2{X: d2 * normal.X, Y: d2 * normal.Y}
	applyImpulseAt(bA, lin.V2{X: -i1.X, Y: -i1.Y}, p1.rA)
	applyImpulseAt(bA, lin.V2{X: -i2.X, Y: -i2.Y}, p2.rA)
	applyImpulseAt(bB, i1, p1.rB)
	applyImpulseAt(bB, i2, p2.rB)
}

// storeImpulses writes the solved normal/tangent impulses back to the
// manifold so they warm-start next step, and are visible to
// ContactListener.PostSolve.
func (s *contactSolver) storeImpulses() {
	for i := range s.velocityConstraints {
		vc := &s.velocityConstraints[i]
		m := &vc.contact.manifold
		impulses := make([]float64, vc.pointCount)
		for j := 0; j < vc.pointCount; j++ {
			m.Points[j].NormalImpulse = vc.points[j].normalImpulse
			m.Points[j].TangentImpulse = vc.points[j].tangentImpulse
			impulses[j] = vc.points[j].normalImpulse
		}
	}
}

// solvePositionConstraints runs Non-Linear Gauss-Seidel position
// correction: one iteration nudges each contact's bodies apart along
// its separation normal, directly moving sweep.C/A rather than
// velocity, so it converges without adding energy. Returns true once
// no contact penetrates deeper than 3*linearSlop. baumgarteFactor is
// the fraction of separation corrected per iteration - the ordinary
// per-step solve uses baumgarte, while a one-shot TOI resolution uses
// the stiffer toiBaumgarte since it gets no further iterations.
func (s *contactSolver) solvePositionConstraints(baumgarteFactor float64) bool {
	minSeparation := 0.0
	for i := range s.positionConstraints {
		pc := &s.positionConstraints[i]
		bA, bB := pc.bodyA, pc.bodyB

		for j := 0; j < pc.pointCount; j++ {
			normal, rA, rB, separation := positionSeparation(pc, j)
			minSeparation = math.Min(minSeparation, separation)

			c := lin.Clamp(baumgarteFactor*(separation+linearSlop()), -maxLinearCorrection(), 0)
			rnA := rA.Cross2(&normal)
			rnB := rB.Cross2(&normal)
			k := bA.invMass + bB.invMass + bA.invI*rnA*rnA + bB.invI*rnB*rnB
			impulse := 0.0
			if k > 0 {
				impulse = -c / k
			}
			p := lin.V2{X: impulse * normal.X, Y: impulse * normal.Y}

			bA.sweep.C.X -= bA.invMass * p.X
			bA.sweep.C.Y -= bA.invMass * p.Y
			bA.sweep.A -= bA.invI * rA.Cross2(&p)
			bB.sweep.C.X += bB.invMass * p.X
			bB.sweep.C.Y += bB.invMass * p.Y
			bB.sweep.A += bB.invI * rB.Cross2(&p)
			bA.synchronizeTransform()
			bB.synchronizeTransform()
		}
	}
	return minSeparation >= -3*linearSlop()
}

// positionSeparation recomputes the world-space normal, contact
// radii, and signed separation for one manifold point at the bodies'
// current (mid-correction) transforms.
func positionSeparation(pc *contactPositionConstraint, index int) (normal, rA, rB lin.V2, separation float64) {
	xfA, xfB := pc.bodyA.transform, pc.bodyB.transform
	switch pc.typ {
	case manifoldCircles:
		pointA := xfA.Apply(&pc.localPoint)
		pointB := xfB.Apply(&pc.localPoints[0])
		d := lin.V2{X: pointB.X - pointA.X, Y: pointB.Y - pointA.Y}
		dist := d.Len()
		if dist > lin.Epsilon {
			normal = lin.V2{X: d.X / dist, Y: d.Y / dist}
		} else {
			normal = lin.V2{X: 1}
		}
		separation = dist - pc.radiusA - pc.radiusB
		rA = lin.V2{X: pointA.X - pc.bodyA.sweep.C.X, Y: pointA.Y - pc.bodyA.sweep.C.Y}
		rB = lin.V2{X: pointB.X - pc.bodyB.sweep.C.X, Y: pointB.Y - pc.bodyB.sweep.C.Y}
	case manifoldFaceA:
		normal = xfA.Q.Apply(&pc.localNormal)
		planePoint := xfA.Apply(&pc.localPoint)
		clip := xfB.Apply(&pc.localPoints[index])
		separation = normal.Dot(&lin.V2{X: clip.X - planePoint.X, Y: clip.Y - planePoint.Y}) - pc.radiusA - pc.radiusB
		rA = lin.V2{X: clip.X - separation*normal.X - pc.bodyA.sweep.C.X, Y: clip.Y - separation*normal.Y - pc.bodyA.sweep.C.Y}
		rB = lin.V2{X: clip.X - pc.bodyB.sweep.C.X, Y: clip.Y - pc.bodyB.sweep.C.Y}
	case manifoldFaceB:
		normal = xfB.Q.Apply(&pc.localNormal)
		planePoint := xfB.Apply(&pc.localPoint)
		clip := xfA.Apply(&pc.localPoints[index])
		separation = normal.Dot(&lin.V2{X: clip.X - planePoint.X, Y: clip.Y - planePoint.Y}) - pc.radiusA - pc.radiusB
		rB = lin.V2{X: clip.X - separation*normal.X - pc.bodyB.sweep.C.X, Y: clip.Y - separation*normal.Y - pc.bodyB.sweep.C.Y}
		rA = lin.V2{X: clip.X - pc.bodyA.sweep.C.X, Y: clip.Y - pc.bodyA.sweep.C.Y}
		normal = lin.V2{X: -normal.X, Y: -normal.Y}
	}
	return normal, rA, rB, separation
}
