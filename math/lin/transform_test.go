// SPDX-FileCopyrightText : © 2014-2022 Galvanized Logic Inc.
// SPDX-License-Identifier: BSD-2-Clause

package lin

import "testing"

func TestRotApply(t *testing.T) {
	r := NewRot().Set(HalfPi)
	v := &V2{1, 0}
	got := r.Apply(v)
	want := V2{0, 1}
	if !got.Aeq(&want) {
		t.Errorf("got %v want %v", got, want)
	}
}

func TestRotApplyTIsInverse(t *testing.T) {
	r := NewRot().Set(0.7)
	v := &V2{2, -3}
	rotated := r.Apply(v)
	back := r.ApplyT(&rotated)
	if !back.Aeq(v) {
		t.Errorf("got %v want %v", back, v)
	}
}

func TestTransformApplyRoundTrip(t *testing.T) {
	tr := NewTransform().SetPA(V2{1, 2}, 0.4)
	v := &V2{5, -1}
	world := tr.Apply(v)
	local := tr.ApplyT(&world)
	if !local.Aeq(v) {
		t.Errorf("got %v want %v", local, v)
	}
}

func TestTransformMulMulT(t *testing.T) {
	a := NewTransform().SetPA(V2{1, 0}, 0.3)
	b := NewTransform().SetPA(V2{0, 2}, 0.5)

	var composed Transform
	composed.Mul(a, b)

	var back Transform
	back.MulT(a, &composed)
	if !back.P.Aeq(&b.P) || !Aeq(back.Q.Angle(), b.Q.Angle()) {
		t.Errorf("MulT(a, Mul(a,b)) got %v want %v", back, b)
	}
}

func TestSweepGetTransformInterpolates(t *testing.T) {
	s := &Sweep{
		C0: V2{0, 0}, C: V2{10, 0},
		A0: 0, A: HalfPi,
	}
	var out Transform
	s.GetTransform(&out, 0.5)
	want := V2{5, 0}
	if !out.P.Aeq(&want) {
		t.Errorf("midpoint got %v want %v", out.P, want)
	}
}

func TestNangRange(t *testing.T) {
	cases := []float64{0, PI, -PI, PIx2 + 0.1, -PIx2 - 0.1, 3 * PI}
	for _, c := range cases {
		n := Nang(c)
		if n <= -PI || n > PI {
			t.Errorf("Nang(%v) = %v out of (-PI, PI]", c, n)
		}
	}
}
