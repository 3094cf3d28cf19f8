// Copyright © 2024 Galvanized Logic Inc.

package physics

import (
	"testing"

	"github.com/gazed/kinetic/math/lin"
)

func TestDistanceSeparatedCircles(t *testing.T) {
	var proxyA, proxyB DistanceProxy
	proxyA.SetShape(NewCircle(1), 0)
	proxyB.SetShape(NewCircle(1), 0)

	xfA := *lin.NewTransform().SetI()
	xfB := *lin.NewTransform().SetPA(lin.V2{X: 5, Y: 0}, 0)

	input := DistanceInput{ProxyA: proxyA, ProxyB: proxyB, TransformA: xfA, TransformB: xfB}
	var cache SimplexCache
	out := Distance(&input, &cache)

	if !lin.Aeq(out.Distance, 5) {
		t.Errorf("got distance %v want 5", out.Distance)
	}
}

func TestDistanceUseRadii(t *testing.T) {
	var proxyA, proxyB DistanceProxy
	proxyA.SetShape(NewCircle(1), 0)
	proxyB.SetShape(NewCircle(1), 0)

	xfA := *lin.NewTransform().SetI()
	xfB := *lin.NewTransform().SetPA(lin.V2{X: 5, Y: 0}, 0)

	input := DistanceInput{ProxyA: proxyA, ProxyB: proxyB, TransformA: xfA, TransformB: xfB, UseRadii: true}
	var cache SimplexCache
	out := Distance(&input, &cache)

	if !lin.Aeq(out.Distance, 3) {
		t.Errorf("got distance %v want 3 (5 - 1 - 1)", out.Distance)
	}
}

func TestDistanceOverlappingBoxes(t *testing.T) {
	var proxyA, proxyB DistanceProxy
	proxyA.SetShape(NewBox(1, 1), 0)
	proxyB.SetShape(NewBox(1, 1), 0)

	xfA := *lin.NewTransform().SetI()
	xfB := *lin.NewTransform().SetPA(lin.V2{X: 0.5, Y: 0}, 0)

	input := DistanceInput{ProxyA: proxyA, ProxyB: proxyB, TransformA: xfA, TransformB: xfB}
	var cache SimplexCache
	out := Distance(&input, &cache)

	if out.Distance > lin.Epsilon {
		t.Errorf("overlapping boxes should report ~0 distance, got %v", out.Distance)
	}
}

func TestDistanceCacheWarmStart(t *testing.T) {
	var proxyA, proxyB DistanceProxy
	proxyA.SetShape(NewCircle(1), 0)
	proxyB.SetShape(NewCircle(1), 0)

	xfA := *lin.NewTransform().SetI()
	xfB := *lin.NewTransform().SetPA(lin.V2{X: 4, Y: 0}, 0)

	var cache SimplexCache
	input := DistanceInput{ProxyA: proxyA, ProxyB: proxyB, TransformA: xfA, TransformB: xfB}
	first := Distance(&input, &cache)

	xfB2 := *lin.NewTransform().SetPA(lin.V2{X: 4.1, Y: 0}, 0)
	input.TransformB = xfB2
	second := Distance(&input, &cache)

	if second.Iterations > first.Iterations {
		t.Errorf("warm-started query should not need more iterations: first=%d second=%d", first.Iterations, second.Iterations)
	}
}
