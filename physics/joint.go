// Copyright © 2024 Galvanized Logic Inc.

package physics

// joint.go adds constraints between body pairs beyond contacts:
// distance, revolute, prismatic, pulley, mouse, gear, wheel, weld,
// friction, and motor joints. Earlier Bullet-style rigid body physics
// in this package had no joint concept at all (no constraint-solver-
// driven linkage system), so this is built from scratch in the idiom
// collide.go and contactsolver.go already established: one type-
// tagged struct dispatched by a switch, velocity constraints solved by
// sequential impulses alongside the contact solver, each joint type's
// effective-mass derivation following the same Jacobian-transpose
// pattern contactsolver.go uses for contacts. Position drift gets the
// same treatment: solvePositionConstraints nudges sweep.C/A directly,
// per joint type, the way contactSolver.solvePositionConstraints does
// for contact penetration.

import (
	"math"

	"github.com/gazed/kinetic/math/lin"
	"github.com/google/uuid"
)

// JointType selects which constraint equations a Joint enforces.
type JointType int

const (
	DistanceJoint JointType = iota
	RevoluteJoint
	PrismaticJoint
	PulleyJoint
	MouseJoint
	GearJoint
	WheelJoint
	WeldJoint
	FrictionJoint
	MotorJoint
)

// JointDef configures a Joint at creation. Not every field applies to
// every JointType; see the per-type notes.
type JointDef struct {
	Type             JointType
	BodyA, BodyB     *Body
	CollideConnected bool

	LocalAnchorA, LocalAnchorB lin.V2 // point-to-point joints (distance/revolute/prismatic/weld/wheel).
	LocalAxisA                lin.V2 // prismatic/wheel translation axis, in bodyA's frame.
	ReferenceAngle             float64

	Length                float64 // distance joint rest length.
	Stiffness, Damping     float64 // a wheel joint's suspension spring (0 stiffness = no spring); a distance joint with Stiffness > 0 skips its position correction; weld ignores both.

	EnableLimit            bool
	LowerLimit, UpperLimit float64 // translation (prismatic/wheel); revolute joints do not enforce them.

	EnableMotor              bool
	MotorSpeed, MaxMotorTorque, MaxMotorForce float64

	GroundAnchorA, GroundAnchorB lin.V2 // pulley joint fixed points.
	Ratio                        float64 // pulley length ratio / gear ratio.
	LengthA, LengthB             float64 // pulley initial rope lengths.

	Joint1, Joint2 *Joint // gear joint drives these.

	Target   lin.V2 // mouse joint drag target, in world space.
	MaxForce float64
}

// Joint is a constraint between two bodies (a mouse joint drags BodyB
// towards a world-space Target, with BodyA as its fixed reference; both
// bodies are required). All per-type state lives in this single
// struct, set by JointDef; unused fields for a given Type are simply
// left at zero.
type Joint struct {
	// DebugID identifies this joint in logs and listener side tables,
	// independent of its slice position (which shifts on destroy).
	DebugID uuid.UUID

	typ              JointType
	bodyA, bodyB     *Body
	collideConnected bool

	localAnchorA, localAnchorB lin.V2
	localAxisA                 lin.V2
	referenceAngle             float64

	length             float64
	stiffness, damping float64

	enableLimit            bool
	lowerLimit, upperLimit float64

	enableMotor                              bool
	motorSpeed, maxMotorTorque, maxMotorForce float64

	groundAnchorA, groundAnchorB lin.V2
	ratio                        float64
	lengthA, lengthB             float64
	constant                     float64 // pulley: lengthA + ratio*lengthB, held fixed.

	joint1, joint2 *Joint

	target   lin.V2
	maxForce float64

	// accumulated impulses, zeroed at the start of each step by
	// initVelocityConstraints (joints are not warm-started).
	impulse      lin.V2
	axialImpulse float64
	motorImpulse float64
	angularMass  float64
	linearMass   lin.M2

	// lowerImpulse/upperImpulse are the one-sided accumulated impulses
	// for a prismatic/wheel joint's translation limit (EnableLimit).
	lowerImpulse, upperImpulse float64

	islandFlag bool
}

// newJoint copies def into a new Joint without validating it;
// World.CreateJoint is the public entry point so
// the joint is registered with the world (and its bodies woken).
func newJoint(def JointDef) *Joint {
	j := &Joint{
		DebugID: uuid.New(),
		typ:     def.Type, bodyA: def.BodyA, bodyB: def.BodyB,
		collideConnected: def.CollideConnected,
		localAnchorA:     def.LocalAnchorA, localAnchorB: def.LocalAnchorB,
		localAxisA: def.LocalAxisA, referenceAngle: def.ReferenceAngle,
		length: def.Length, stiffness: def.Stiffness, damping: def.Damping,
		enableLimit: def.EnableLimit, lowerLimit: def.LowerLimit, upperLimit: def.UpperLimit,
		enableMotor: def.EnableMotor, motorSpeed: def.MotorSpeed,
		maxMotorTorque: def.MaxMotorTorque, maxMotorForce: def.MaxMotorForce,
		groundAnchorA: def.GroundAnchorA, groundAnchorB: def.GroundAnchorB,
		ratio: def.Ratio, lengthA: def.LengthA, lengthB: def.LengthB,
		joint1: def.Joint1, joint2: def.Joint2,
		target: def.Target, maxForce: def.MaxForce,
	}
	if j.typ == PulleyJoint {
		j.constant = j.lengthA + j.ratio*j.lengthB
	}
	return j
}

func (j *Joint) Type() JointType { return j.typ }
func (j *Joint) BodyA() *Body    { return j.bodyA }
func (j *Joint) BodyB() *Body    { return j.bodyB }

// anchorWorldA/B resolve the local anchors to the bodies' current
// world transforms, the same small helper every point-to-point joint
// type needs.
func (j *Joint) anchorWorldA() lin.V2 { return j.bodyA.transform.Apply(&j.localAnchorA) }
func (j *Joint) anchorWorldB() lin.V2 {
	if j.bodyB == nil {
		return j.target
	}
	return j.bodyB.transform.Apply(&j.localAnchorB)
}

// initVelocityConstraints zeroes this joint's accumulated impulses for
// the step, called once per step before any solveVelocity iteration.
// It discards whatever warm start the joint carried from the previous
// step; unlike contactSolver.prepare, it does not precompute effective
// mass - each solve* method below recomputes its own inline, since a
// joint's mass terms are cheap enough per type that caching them here
// would just be one more field to keep in sync.
func (j *Joint) initVelocityConstraints(ts float64) {
	switch j.typ {
	case DistanceJoint, RevoluteJoint, WeldJoint, MouseJoint, FrictionJoint, MotorJoint:
		j.impulse = lin.V2{}
		j.axialImpulse = 0
		j.motorImpulse = 0
	case PrismaticJoint, WheelJoint:
		j.axialImpulse = 0
		j.motorImpulse = 0
		j.lowerImpulse = 0
		j.upperImpulse = 0
	}
}

// solveVelocity runs one sequential-impulse pass for this joint,
// applying impulses directly to its bodies' velocities.
func (j *Joint) solveVelocity(ts float64) {
	switch j.typ {
	case DistanceJoint:
		j.solveDistance()
	case RevoluteJoint:
		j.solveRevolute(ts)
	case PrismaticJoint:
		j.solvePrismatic(ts)
	case WeldJoint:
		j.solveWeld()
	case MouseJoint:
		j.solveMouse(ts)
	case FrictionJoint:
		j.solveFriction(ts)
	case MotorJoint:
		j.solveMotor(ts)
	case WheelJoint:
		j.solveWheel(ts)
	case PulleyJoint:
		j.solvePulley()
	case GearJoint:
		j.solveGear()
	}
}

// solvePositionConstraints runs one Non-Linear Gauss-Seidel position
// correction for this joint - the same direct sweep.C/A nudge plus
// synchronizeTransform idiom contactSolver.solvePositionConstraints
// uses for contacts - so the world's position-iteration loop can
// correct joint drift the same way it corrects contact penetration.
// Joint types whose velocity constraint carries no rigid position
// error to correct (a soft spring, a drag force, a coupling between
// two other joints) report converged unconditionally.
func (j *Joint) solvePositionConstraints() bool {
	switch j.typ {
	case DistanceJoint:
		return j.solvePositionDistance()
	case RevoluteJoint:
		return j.solvePositionPoint() < linearSlop()
	case PrismaticJoint:
		return j.solvePositionPrismatic(true)
	case WeldJoint:
		return j.solvePositionWeld()
	case WheelJoint:
		return j.solvePositionPrismatic(false)
	case PulleyJoint:
		return j.solvePositionPulley()
	default: // MouseJoint, FrictionJoint, MotorJoint, GearJoint.
		return true
	}
}

// solvePositionDistance corrects |anchorB - anchorA| back to length.
// A distance joint with Stiffness > 0 reports converged without
// touching the bodies, so it gets no position correction at all
// (solveDistance is rigid either way).
func (j *Joint) solvePositionDistance() bool {
	if j.stiffness > 0 {
		return true
	}
	bA, bB := j.bodyA, j.bodyB
	rA := lin.V2{X: j.anchorWorldA().X - bA.sweep.C.X, Y: j.anchorWorldA().Y - bA.sweep.C.Y}
	rB := lin.V2{X: j.anchorWorldB().X - bB.sweep.C.X, Y: j.anchorWorldB().Y - bB.sweep.C.Y}
	d := lin.V2{X: (bB.sweep.C.X + rB.X) - (bA.sweep.C.X + rA.X), Y: (bB.sweep.C.Y + rB.Y) - (bA.sweep.C.Y + rA.Y)}
	length := d.Len()
	if length < lin.Epsilon {
		return true
	}
	axis := lin.V2{X: d.X / length, Y: d.Y / length}
	c := length - j.length

	crA := rA.Cross2(&axis)
	crB := rB.Cross2(&axis)
	k := bA.invMass + bB.invMass + bA.invI*crA*crA + bB.invI*crB*crB
	if k == 0 {
		return true
	}
	impulseMag := lin.Clamp(c, -maxLinearCorrection(), maxLinearCorrection())
	lambda := -impulseMag / k
	p := lin.V2{X: lambda * axis.X, Y: lambda * axis.Y}

	bA.sweep.C.X -= bA.invMass * p.X
	bA.sweep.C.Y -= bA.invMass * p.Y
	bA.sweep.A -= bA.invI * rA.Cross2(&p)
	bB.sweep.C.X += bB.invMass * p.X
	bB.sweep.C.Y += bB.invMass * p.Y
	bB.sweep.A += bB.invI * rB.Cross2(&p)
	bA.synchronizeTransform()
	bB.synchronizeTransform()
	return math.Abs(c) < linearSlop()
}

// solvePositionPoint corrects the shared-anchor position error common
// to the revolute and weld joints, returning the residual separation
// so a caller with its own angular term (weld) can fold it into one
// convergence check.
func (j *Joint) solvePositionPoint() float64 {
	bA, bB := j.bodyA, j.bodyB
	rA := lin.V2{X: j.anchorWorldA().X - bA.sweep.C.X, Y: j.anchorWorldA().Y - bA.sweep.C.Y}
	rB := lin.V2{X: j.anchorWorldB().X - bB.sweep.C.X, Y: j.anchorWorldB().Y - bB.sweep.C.Y}
	c := lin.V2{X: (bB.sweep.C.X + rB.X) - (bA.sweep.C.X + rA.X), Y: (bB.sweep.C.Y + rB.Y) - (bA.sweep.C.Y + rA.Y)}

	m := j.pointToPointMass(rA, rB)
	impulse := m.MulV(&c)
	impulse.X, impulse.Y = -impulse.X, -impulse.Y

	bA.sweep.C.X -= bA.invMass * impulse.X
	bA.sweep.C.Y -= bA.invMass * impulse.Y
	bA.sweep.A -= bA.invI * rA.Cross2(&impulse)
	bB.sweep.C.X += bB.invMass * impulse.X
	bB.sweep.C.Y += bB.invMass * impulse.Y
	bB.sweep.A += bB.invI * rB.Cross2(&impulse)
	bA.synchronizeTransform()
	bB.synchronizeTransform()
	return c.Len()
}

// solvePositionWeld corrects the shared anchor (via solvePositionPoint)
// plus the rigid relative angle the velocity pass locks to zero.
func (j *Joint) solvePositionWeld() bool {
	bA, bB := j.bodyA, j.bodyB
	angleC := 0.0
	angularK := bA.invI + bB.invI
	if angularK > 0 {
		angleC = bB.sweep.A - bA.sweep.A - j.referenceAngle
		impulse := -angleC / angularK
		bA.sweep.A -= bA.invI * impulse
		bB.sweep.A += bB.invI * impulse
		bA.synchronizeTransform()
		bB.synchronizeTransform()
	}
	linearC := j.solvePositionPoint()
	return linearC < linearSlop() && math.Abs(angleC) < angularSlop
}

// solvePositionPrismatic corrects the separation perpendicular to the
// slide axis and, when lockAngle is set, the relative angle the
// prismatic joint's velocity pass locks to zero - the wheel joint
// shares this for its suspension axis but passes lockAngle=false since
// its hinge must stay free to spin.
func (j *Joint) solvePositionPrismatic(lockAngle bool) bool {
	bA, bB := j.bodyA, j.bodyB
	axis := bA.transform.Q.Apply(&j.localAxisA)
	perp := axis.Skew()

	converged := true
	k11 := bA.invMass + bB.invMass
	if k11 > 0 {
		d := lin.V2{X: bB.sweep.C.X - bA.sweep.C.X, Y: bB.sweep.C.Y - bA.sweep.C.Y}
		perpC := perp.Dot(&d)
		impulseMag := lin.Clamp(-perpC, -maxLinearCorrection(), maxLinearCorrection())
		lambda := impulseMag / k11
		p := lin.V2{X: lambda * perp.X, Y: lambda * perp.Y}

		bA.sweep.C.X -= bA.invMass * p.X
		bA.sweep.C.Y -= bA.invMass * p.Y
		bB.sweep.C.X += bB.invMass * p.X
		bB.sweep.C.Y += bB.invMass * p.Y
		bA.synchronizeTransform()
		bB.synchronizeTransform()
		converged = math.Abs(perpC) < linearSlop()
	}

	if lockAngle {
		angularK := bA.invI + bB.invI
		if angularK > 0 {
			angleC := bB.sweep.A - bA.sweep.A - j.referenceAngle
			impulse := -angleC / angularK
			bA.sweep.A -= bA.invI * impulse
			bB.sweep.A += bB.invI * impulse
			bA.synchronizeTransform()
			bB.synchronizeTransform()
			converged = converged && math.Abs(angleC) < angularSlop
		}
	}
	return converged
}

// solvePositionPulley corrects lengthA + ratio*lengthB back to
// constant, mirroring solvePulley's velocity constraint.
func (j *Joint) solvePositionPulley() bool {
	bA, bB := j.bodyA, j.bodyB
	rA := lin.V2{X: j.anchorWorldA().X - bA.sweep.C.X, Y: j.anchorWorldA().Y - bA.sweep.C.Y}
	rB := lin.V2{X: j.anchorWorldB().X - bB.sweep.C.X, Y: j.anchorWorldB().Y - bB.sweep.C.Y}

	dA := lin.V2{X: (bA.sweep.C.X + rA.X) - j.groundAnchorA.X, Y: (bA.sweep.C.Y + rA.Y) - j.groundAnchorA.Y}
	dB := lin.V2{X: (bB.sweep.C.X + rB.X) - j.groundAnchorB.X, Y: (bB.sweep.C.Y + rB.Y) - j.groundAnchorB.Y}
	lA, lB := dA.Len(), dB.Len()
	if lA < lin.Epsilon || lB < lin.Epsilon {
		return true
	}
	axisA := lin.V2{X: dA.X / lA, Y: dA.Y / lA}
	axisB := lin.V2{X: dB.X / lB, Y: dB.Y / lB}

	c := lA + j.ratio*lB - j.constant
	crA := rA.Cross2(&axisA)
	crB := rB.Cross2(&axisB)
	mA := bA.invMass + bA.invI*crA*crA
	mB := bB.invMass + bB.invI*crB*crB
	k := mA + j.ratio*j.ratio*mB
	if k == 0 {
		return true
	}
	impulse := lin.Clamp(-c, -maxLinearCorrection(), maxLinearCorrection()) / k

	pA := lin.V2{X: impulse * axisA.X, Y: impulse * axisA.Y}
	pB := lin.V2{X: j.ratio * impulse * axisB.X, Y: j.ratio * impulse * axisB.Y}
	bA.sweep.C.X += bA.invMass * pA.X
	bA.sweep.C.Y += bA.invMass * pA.Y
	bA.sweep.A += bA.invI * rA.Cross2(&pA)
	bB.sweep.C.X += bB.invMass * pB.X
	bB.sweep.C.Y += bB.invMass * pB.Y
	bB.sweep.A += bB.invI * rB.Cross2(&pB)
	bA.synchronizeTransform()
	bB.synchronizeTransform()
	return math.Abs(c) < linearSlop()
}

// pointToPointMass returns the inverse of the effective 2x2 mass matrix
// of a point-to-point constraint with anchor arms rA/rB (revolute,
// weld and mouse use it; distance computes its own 1D mass).
func (j *Joint) pointToPointMass(rA, rB lin.V2) lin.M2 {
	bA, bB := j.bodyA, j.bodyB
	mA, mB := bA.invMass, 0.0
	iA, iB := bA.invI, 0.0
	if bB != nil {
		mB = bB.invMass
		iB = bB.invI
	}
	k11 := mA + mB + iA*rA.Y*rA.Y + iB*rB.Y*rB.Y
	k12 := -iA*rA.X*rA.Y - iB*rB.X*rB.Y
	k22 := mA + mB + iA*rA.X*rA.X + iB*rB.X*rB.X
	m := lin.M2{Col1: lin.V2{X: k11, Y: k12}, Col2: lin.V2{X: k12, Y: k22}}
	return m.Inverse()
}

func (j *Joint) velocityAt(b *Body, r lin.V2) lin.V2 {
	if b == nil {
		return lin.V2{}
	}
	return lin.V2{X: b.linearVelocity.X - b.angularVelocity*r.Y, Y: b.linearVelocity.Y + b.angularVelocity*r.X}
}

func (j *Joint) applyAt(b *Body, impulse, r lin.V2) {
	if b == nil || b.typ == StaticBody {
		return
	}
	b.linearVelocity.X += b.invMass * impulse.X
	b.linearVelocity.Y += b.invMass * impulse.Y
	b.angularVelocity += b.invI * r.Cross2(&impulse)
}

// solveDistance enforces |anchorB - anchorA| == length by clamping
// relative velocity along the anchor axis to zero. It is rigid
// whatever Stiffness and Damping are: no spring-damper runs here, and
// the only effect of Stiffness > 0 is that solvePositionDistance skips
// the position correction.
func (j *Joint) solveDistance() {
	bA, bB := j.bodyA, j.bodyB
	rA := lin.V2{X: j.anchorWorldA().X - bA.sweep.C.X, Y: j.anchorWorldA().Y - bA.sweep.C.Y}
	rB := lin.V2{X: j.anchorWorldB().X - bB.sweep.C.X, Y: j.anchorWorldB().Y - bB.sweep.C.Y}
	d := lin.V2{X: (bB.sweep.C.X + rB.X) - (bA.sweep.C.X + rA.X), Y: (bB.sweep.C.Y + rB.Y) - (bA.sweep.C.Y + rA.Y)}
	dist := d.Len()
	if dist < lin.Epsilon {
		return
	}
	axis := lin.V2{X: d.X / dist, Y: d.Y / dist}

	crA := rA.Cross2(&axis)
	crB := rB.Cross2(&axis)
	k := bA.invMass + bB.invMass + bA.invI*crA*crA + bB.invI*crB*crB
	if k == 0 {
		return
	}

	vA := j.velocityAt(bA, rA)
	vB := j.velocityAt(bB, rB)
	relVel := axis.Dot(&lin.V2{X: vB.X - vA.X, Y: vB.Y - vA.Y})
	lambda := -relVel / k
	j.axialImpulse += lambda
	impulse := lin.V2{X: lambda * axis.X, Y: lambda * axis.Y}
	j.applyAt(bA, lin.V2{X: -impulse.X, Y: -impulse.Y}, rA)
	j.applyAt(bB, impulse, rB)
}

// solveRevolute enforces anchorA == anchorB (a shared pivot point)
// plus an optional motor on the relative angle. The motor runs only
// while EnableLimit is false; LowerLimit/UpperLimit are not enforced.
func (j *Joint) solveRevolute(ts float64) {
	bA, bB := j.bodyA, j.bodyB
	rA := lin.V2{X: j.anchorWorldA().X - bA.sweep.C.X, Y: j.anchorWorldA().Y - bA.sweep.C.Y}
	rB := lin.V2{X: j.anchorWorldB().X - bB.sweep.C.X, Y: j.anchorWorldB().Y - bB.sweep.C.Y}

	if j.enableMotor && !j.enableLimit {
		cdot := bB.angularVelocity - bA.angularVelocity - j.motorSpeed
		angularMass := 1.0 / (bA.invI + bB.invI)
		impulse := -angularMass * cdot
		old := j.motorImpulse
		maxImp := j.maxMotorTorque * ts
		j.motorImpulse = lin.Clamp(old+impulse, -maxImp, maxImp)
		impulse = j.motorImpulse - old
		bA.angularVelocity -= bA.invI * impulse
		bB.angularVelocity += bB.invI * impulse
	}

	m := j.pointToPointMass(rA, rB)
	vA := j.velocityAt(bA, rA)
	vB := j.velocityAt(bB, rB)
	cdot := lin.V2{X: vB.X - vA.X, Y: vB.Y - vA.Y}
	impulse := m.MulV(&cdot)
	impulse.X, impulse.Y = -impulse.X, -impulse.Y
	j.impulse.X += impulse.X
	j.impulse.Y += impulse.Y
	j.applyAt(bA, lin.V2{X: -impulse.X, Y: -impulse.Y}, rA)
	j.applyAt(bB, impulse, rB)
}

// solveAxialLimit enforces lowerLimit <= translation along axis <=
// upperLimit with one-sided clamped impulses (accumulated separately
// in lowerImpulse/upperImpulse so each bound only ever pushes, never
// pulls). Shared by the prismatic joint's slide and the wheel joint's
// suspension travel - both measure translation the same way, center-
// to-center along axis rather than anchor-to-anchor, which is close
// enough for the geometries either joint solves.
func (j *Joint) solveAxialLimit(axis lin.V2, ts float64) {
	bA, bB := j.bodyA, j.bodyB
	k := bA.invMass + bB.invMass
	if k == 0 {
		return
	}
	d := lin.V2{X: bB.sweep.C.X - bA.sweep.C.X, Y: bB.sweep.C.Y - bA.sweep.C.Y}
	translation := axis.Dot(&d)

	// lower bound: push relVel >= 0 whenever at or past the limit.
	relVel := axis.Dot(&lin.V2{X: bB.linearVelocity.X - bA.linearVelocity.X, Y: bB.linearVelocity.Y - bA.linearVelocity.Y})
	cLower := translation - j.lowerLimit
	bias := cLower / ts // before the limit: only block closing the gap this step.
	if cLower < 0 {
		bias = cLower * baumgarte / ts
	}
	imp := -(relVel + bias) / k
	old := j.lowerImpulse
	j.lowerImpulse = math.Max(old+imp, 0)
	imp = j.lowerImpulse - old
	p := lin.V2{X: imp * axis.X, Y: imp * axis.Y}
	j.applyAt(bA, lin.V2{X: -p.X, Y: -p.Y}, lin.V2{})
	j.applyAt(bB, p, lin.V2{})

	// upper bound: push relVel <= 0 whenever at or past the limit.
	relVel = axis.Dot(&lin.V2{X: bB.linearVelocity.X - bA.linearVelocity.X, Y: bB.linearVelocity.Y - bA.linearVelocity.Y})
	cUpper := j.upperLimit - translation
	bias = cUpper / ts
	if cUpper < 0 {
		bias = cUpper * baumgarte / ts
	}
	imp = -(-relVel + bias) / k
	old = j.upperImpulse
	j.upperImpulse = math.Max(old+imp, 0)
	imp = j.upperImpulse - old
	p = lin.V2{X: -imp * axis.X, Y: -imp * axis.Y}
	j.applyAt(bA, lin.V2{X: -p.X, Y: -p.Y}, lin.V2{})
	j.applyAt(bB, p, lin.V2{})
}

// solvePrismatic enforces zero relative velocity perpendicular to the
// slider axis (and zero relative angular velocity), plus an optional
// motor/limit along the axis.
func (j *Joint) solvePrismatic(ts float64) {
	bA, bB := j.bodyA, j.bodyB
	axis := bA.transform.Q.Apply(&j.localAxisA)
	perp := axis.Skew()
	k11 := bA.invMass + bB.invMass

	if j.enableLimit {
		j.solveAxialLimit(axis, ts)
	}

	if j.enableMotor {
		relVel := axis.Dot(&lin.V2{X: bB.linearVelocity.X - bA.linearVelocity.X, Y: bB.linearVelocity.Y - bA.linearVelocity.Y})
		k := bA.invMass + bB.invMass
		impulse := 0.0
		if k > 0 {
			impulse = (j.motorSpeed - relVel) / k
		}
		old := j.motorImpulse
		maxImp := j.maxMotorForce * ts
		j.motorImpulse = lin.Clamp(old+impulse, -maxImp, maxImp)
		applied := j.motorImpulse - old
		p := lin.V2{X: applied * axis.X, Y: applied * axis.Y}
		j.applyAt(bA, lin.V2{X: -p.X, Y: -p.Y}, lin.V2{})
		j.applyAt(bB, p, lin.V2{})
	}

	// perpendicular constraint: no relative sliding off-axis, no relative spin.
	if k11 == 0 {
		return
	}
	relVel := perp.Dot(&lin.V2{X: bB.linearVelocity.X - bA.linearVelocity.X, Y: bB.linearVelocity.Y - bA.linearVelocity.Y})
	lambda := -relVel / k11
	p := lin.V2{X: lambda * perp.X, Y: lambda * perp.Y}
	j.applyAt(bA, lin.V2{X: -p.X, Y: -p.Y}, lin.V2{})
	j.applyAt(bB, p, lin.V2{})

	angularK := bA.invI + bB.invI
	if angularK > 0 {
		angImpulse := -(bB.angularVelocity - bA.angularVelocity) / angularK
		bA.angularVelocity -= bA.invI * angImpulse
		bB.angularVelocity += bB.invI * angImpulse
	}
}

// solveWeld fuses the two bodies rigidly: zero relative point velocity
// at the shared anchor plus zero relative angular velocity.
func (j *Joint) solveWeld() {
	bA, bB := j.bodyA, j.bodyB
	angularK := bA.invI + bB.invI
	if angularK > 0 {
		cdot := bB.angularVelocity - bA.angularVelocity
		impulse := -cdot / angularK
		bA.angularVelocity -= bA.invI * impulse
		bB.angularVelocity += bB.invI * impulse
	}
	j.solveRevolute(1) // the point constraint is identical to revolute's.
}

// solveMouse drags bodyB's anchor towards Target with a soft spring
// (MaxForce clamps the impulse so a dragged body can't be snapped
// through the world).
func (j *Joint) solveMouse(ts float64) {
	b := j.bodyB
	r := lin.V2{X: j.anchorWorldB().X - b.sweep.C.X, Y: j.anchorWorldB().Y - b.sweep.C.Y}
	m := j.pointToPointMass(lin.V2{}, r)
	cdot := j.velocityAt(b, r)
	cPos := lin.V2{X: (b.sweep.C.X + r.X) - j.target.X, Y: (b.sweep.C.Y + r.Y) - j.target.Y}
	bias := lin.V2{X: cPos.X * baumgarte / ts, Y: cPos.Y * baumgarte / ts}
	rhs := lin.V2{X: -(cdot.X + bias.X), Y: -(cdot.Y + bias.Y)}
	impulse := m.MulV(&rhs)

	maxImp := j.maxForce * ts
	total := lin.V2{X: j.impulse.X + impulse.X, Y: j.impulse.Y + impulse.Y}
	if total.LenSqr() > maxImp*maxImp {
		total.Scale(&total, maxImp/total.Len())
	}
	impulse = lin.V2{X: total.X - j.impulse.X, Y: total.Y - j.impulse.Y}
	j.impulse = total
	j.applyAt(b, impulse, r)
}

// solveFriction applies a velocity-damping force/torque capped at
// MaxForce/MaxMotorTorque, used to e.g. slow a body without a rigid
// constraint (conveyor belts, drag).
func (j *Joint) solveFriction(ts float64) {
	bA, bB := j.bodyA, j.bodyB
	angularK := bA.invI + bB.invI
	if angularK > 0 {
		cdot := bB.angularVelocity - bA.angularVelocity
		impulse := -cdot / angularK
		maxImp := j.maxMotorTorque * ts
		old := j.motorImpulse
		j.motorImpulse = lin.Clamp(old+impulse, -maxImp, maxImp)
		applied := j.motorImpulse - old
		bA.angularVelocity -= bA.invI * applied
		bB.angularVelocity += bB.invI * applied
	}
	k := bA.invMass + bB.invMass
	if k > 0 {
		cdot := lin.V2{X: bB.linearVelocity.X - bA.linearVelocity.X, Y: bB.linearVelocity.Y - bA.linearVelocity.Y}
		impulse := lin.V2{X: -cdot.X / k, Y: -cdot.Y / k}
		maxImp := j.maxForce * ts
		total := lin.V2{X: j.impulse.X + impulse.X, Y: j.impulse.Y + impulse.Y}
		if total.LenSqr() > maxImp*maxImp {
			total.Scale(&total, maxImp/total.Len())
		}
		applied := lin.V2{X: total.X - j.impulse.X, Y: total.Y - j.impulse.Y}
		j.impulse = total
		j.applyAt(bA, lin.V2{X: -applied.X, Y: -applied.Y}, lin.V2{})
		j.applyAt(bB, applied, lin.V2{})
	}
}

// solveMotor drives the relative velocity between the two bodies
// towards MotorSpeed (linear, along bodyA's local x-axis) and towards
// zero relative angular velocity, each clamped to its own bounded
// impulse (MaxForce, MaxMotorTorque) - the MotorSpeed target is what
// distinguishes this from solveFriction's damping-to-zero, used for
// scripted conveyance (e.g. a conveyor belt's surface speed).
func (j *Joint) solveMotor(ts float64) {
	bA, bB := j.bodyA, j.bodyB

	angularK := bA.invI + bB.invI
	if angularK > 0 {
		cdot := bB.angularVelocity - bA.angularVelocity
		impulse := -cdot / angularK
		maxImp := j.maxMotorTorque * ts
		old := j.motorImpulse
		j.motorImpulse = lin.Clamp(old+impulse, -maxImp, maxImp)
		applied := j.motorImpulse - old
		bA.angularVelocity -= bA.invI * applied
		bB.angularVelocity += bB.invI * applied
	}

	k := bA.invMass + bB.invMass
	if k == 0 {
		return
	}
	axis := bA.transform.Q.Apply(&lin.V2{X: 1})
	relVel := axis.Dot(&lin.V2{X: bB.linearVelocity.X - bA.linearVelocity.X, Y: bB.linearVelocity.Y - bA.linearVelocity.Y})
	impulse := (j.motorSpeed - relVel) / k
	maxImp := j.maxForce * ts
	old := j.axialImpulse
	j.axialImpulse = lin.Clamp(old+impulse, -maxImp, maxImp)
	applied := j.axialImpulse - old
	p := lin.V2{X: applied * axis.X, Y: applied * axis.Y}
	j.applyAt(bA, lin.V2{X: -p.X, Y: -p.Y}, lin.V2{})
	j.applyAt(bB, p, lin.V2{})
}

// solveWheel enforces the suspension axis (no relative sliding
// perpendicular to it, an optional travel limit, an optional spring-
// damper pulling translation to zero) while leaving the relative
// angular velocity alone - unlike solvePrismatic, which locks it - so
// the wheel spins freely, driven only by its own optional motor.
func (j *Joint) solveWheel(ts float64) {
	bA, bB := j.bodyA, j.bodyB
	axis := bA.transform.Q.Apply(&j.localAxisA)
	perp := axis.Skew()
	k11 := bA.invMass + bB.invMass

	if j.enableLimit {
		j.solveAxialLimit(axis, ts)
	}

	if j.stiffness > 0 && k11 > 0 {
		d := lin.V2{X: bB.sweep.C.X - bA.sweep.C.X, Y: bB.sweep.C.Y - bA.sweep.C.Y}
		translation := axis.Dot(&d)
		relVel := axis.Dot(&lin.V2{X: bB.linearVelocity.X - bA.linearVelocity.X, Y: bB.linearVelocity.Y - bA.linearVelocity.Y})
		force := -j.stiffness*translation - j.damping*relVel
		impulse := force * ts
		p := lin.V2{X: impulse * axis.X, Y: impulse * axis.Y}
		j.applyAt(bA, lin.V2{X: -p.X, Y: -p.Y}, lin.V2{})
		j.applyAt(bB, p, lin.V2{})
	}

	if j.enableMotor {
		angularK := bA.invI + bB.invI
		if angularK > 0 {
			cdot := bB.angularVelocity - bA.angularVelocity - j.motorSpeed
			impulse := -cdot / angularK
			old := j.motorImpulse
			maxImp := j.maxMotorTorque * ts
			j.motorImpulse = lin.Clamp(old+impulse, -maxImp, maxImp)
			applied := j.motorImpulse - old
			bA.angularVelocity -= bA.invI * applied
			bB.angularVelocity += bB.invI * applied
		}
	}

	if k11 == 0 {
		return
	}
	relVel := perp.Dot(&lin.V2{X: bB.linearVelocity.X - bA.linearVelocity.X, Y: bB.linearVelocity.Y - bA.linearVelocity.Y})
	lambda := -relVel / k11
	p := lin.V2{X: lambda * perp.X, Y: lambda * perp.Y}
	j.applyAt(bA, lin.V2{X: -p.X, Y: -p.Y}, lin.V2{})
	j.applyAt(bB, p, lin.V2{})
}

// solvePulley keeps lengthA + ratio*lengthB == constant by treating
// each side as a distance joint to its ground anchor, then coupling
// their axial impulses by ratio.
func (j *Joint) solvePulley() {
	bA, bB := j.bodyA, j.bodyB
	rA := lin.V2{X: j.anchorWorldA().X - bA.sweep.C.X, Y: j.anchorWorldA().Y - bA.sweep.C.Y}
	rB := lin.V2{X: j.anchorWorldB().X - bB.sweep.C.X, Y: j.anchorWorldB().Y - bB.sweep.C.Y}

	dA := lin.V2{X: (bA.sweep.C.X + rA.X) - j.groundAnchorA.X, Y: (bA.sweep.C.Y + rA.Y) - j.groundAnchorA.Y}
	dB := lin.V2{X: (bB.sweep.C.X + rB.X) - j.groundAnchorB.X, Y: (bB.sweep.C.Y + rB.Y) - j.groundAnchorB.Y}
	lA, lB := dA.Len(), dB.Len()
	if lA < lin.Epsilon || lB < lin.Epsilon {
		return
	}
	axisA := lin.V2{X: dA.X / lA, Y: dA.Y / lA}
	axisB := lin.V2{X: dB.X / lB, Y: dB.Y / lB}

	crA := rA.Cross2(&axisA)
	crB := rB.Cross2(&axisB)
	mA := bA.invMass + bA.invI*crA*crA
	mB := bB.invMass + bB.invI*crB*crB
	k := mA + j.ratio*j.ratio*mB
	if k == 0 {
		return
	}

	velA, velB := j.velocityAt(bA, rA), j.velocityAt(bB, rB)
	vA := velA.Dot(&axisA)
	vB := velB.Dot(&axisB)
	cdot := -(vA + j.ratio*vB)
	impulse := -cdot / k

	pA := lin.V2{X: -impulse * axisA.X, Y: -impulse * axisA.Y}
	pB := lin.V2{X: -j.ratio * impulse * axisB.X, Y: -j.ratio * impulse * axisB.Y}
	j.applyAt(bA, pA, rA)
	j.applyAt(bB, pB, rB)
}

// solveGear couples two existing joints by holding w1 + Ratio*w2 at
// zero, where w1/w2 are the relative angular velocities of each joint's
// two bodies; a prismatic joint's linear slide is not part of the
// coupling.
func (j *Joint) solveGear() {
	j1, j2 := j.joint1, j.joint2
	if j1 == nil || j2 == nil {
		return
	}
	w1 := j1.bodyB.angularVelocity - j1.bodyA.angularVelocity
	w2 := j2.bodyB.angularVelocity - j2.bodyA.angularVelocity
	cdot := w1 + j.ratio*w2
	k := j1.bodyA.invI + j1.bodyB.invI + j.ratio*j.ratio*(j2.bodyA.invI+j2.bodyB.invI)
	if k == 0 {
		return
	}
	impulse := -cdot / k
	j1.bodyA.angularVelocity -= j1.bodyA.invI * impulse
	j1.bodyB.angularVelocity += j1.bodyB.invI * impulse
	j2.bodyA.angularVelocity -= j2.bodyA.invI * impulse * j.ratio
	j2.bodyB.angularVelocity += j2.bodyB.invI * impulse * j.ratio
}
