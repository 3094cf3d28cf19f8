// Copyright © 2024 Galvanized Logic Inc.

package physics

// settings.go collects the tuning constants used throughout broad-phase,
// narrow-phase, and solver code. Values are expressed in terms of
// lengthUnitsPerMeter so the same constants make sense whether bodies
// are sized in meters or, say, centimeters.

import "github.com/gazed/kinetic/math/lin"

// LengthUnitsPerMeter scales every length-based tuning constant below.
// Override it before creating a World if 1 unit in your scene does not
// correspond to 1 meter. Changing it after bodies exist has no effect
// on already-computed fixture masses.
var LengthUnitsPerMeter float64 = 1.0

const (
	maxManifoldPoints  = 2
	maxPolygonVertices = 8

	maxSubSteps    = 8
	maxTOIContacts = 32

	baumgarte    = 0.2
	toiBaumgarte = 0.75
	timeToSleep  = 0.5 // seconds

	aabbMultiplier        = 4.0
	angularSlop           = 2.0 * lin.DegRad
	maxAngularCorrection  = 8.0 * lin.DegRad
	maxRotation           = 0.5 * lin.PI
	angularSleepTolerance = 2.0 * lin.DegRad // per second
)

// linearSlop is the amount of allowed penetration/overlap. Making this
// larger than necessary trades accuracy for less jitter.
func linearSlop() float64 { return 0.005 * LengthUnitsPerMeter }

// polygonRadius is the fixed skin applied to every polygon.
func polygonRadius() float64 { return 2.0 * linearSlop() }

func aabbExtension() float64       { return 0.1 * LengthUnitsPerMeter }
func maxLinearCorrection() float64 { return 0.2 * LengthUnitsPerMeter }
func maxTranslation() float64      { return 2.0 * LengthUnitsPerMeter }
func linearSleepTolerance() float64 { return 0.01 * LengthUnitsPerMeter }
