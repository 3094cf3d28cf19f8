// SPDX-FileCopyrightText : © 2014-2022 Galvanized Logic Inc.
// SPDX-License-Identifier: BSD-2-Clause

package lin

import "testing"

// While the functions below are not complicated, they are foundational such
// that it is better to test each one of them than have the bugs discovered
// later from other code.

func TestSetV2(t *testing.T) {
	v, a := &V2{}, &V2{1, 2}
	if !v.Set(a).Eq(a) {
		t.Errorf("%v is not the same as %v", v, a)
	}
}

func TestAddV2(t *testing.T) {
	v, a, b, want := &V2{}, &V2{1, 2}, &V2{3, 4}, &V2{4, 6}
	if !v.Add(a, b).Eq(want) {
		t.Errorf("got %v want %v", v, want)
	}
}

func TestSubV2(t *testing.T) {
	v, a, b, want := &V2{}, &V2{3, 4}, &V2{1, 2}, &V2{2, 2}
	if !v.Sub(a, b).Eq(want) {
		t.Errorf("got %v want %v", v, want)
	}
}

func TestScaleV2(t *testing.T) {
	v, a, want := &V2{}, &V2{1, -2}, &V2{2, -4}
	if !v.Scale(a, 2).Eq(want) {
		t.Errorf("got %v want %v", v, want)
	}
}

func TestDotV2(t *testing.T) {
	a, b := &V2{1, 0}, &V2{0, 1}
	if got := a.Dot(b); !Aeq(got, 0) {
		t.Errorf("perpendicular dot got %v want 0", got)
	}
	if got := a.Dot(a); !Aeq(got, 1) {
		t.Errorf("unit self dot got %v want 1", got)
	}
}

func TestCross2V2(t *testing.T) {
	a, b := &V2{1, 0}, &V2{0, 1}
	if got := a.Cross2(b); !Aeq(got, 1) {
		t.Errorf("got %v want 1", got)
	}
	if got := b.Cross2(a); !Aeq(got, -1) {
		t.Errorf("got %v want -1", got)
	}
}

func TestCrossSV(t *testing.T) {
	var v V2
	a := &V2{1, 0}
	v.CrossSV(1, a)
	want := V2{0, 1}
	if !v.Eq(&want) {
		t.Errorf("got %v want %v", v, want)
	}
}

func TestSkew(t *testing.T) {
	a := V2{1, 0}
	got := a.Skew()
	want := V2{0, 1}
	if !got.Eq(&want) {
		t.Errorf("got %v want %v", got, want)
	}
}

func TestLenV2(t *testing.T) {
	a := &V2{3, 4}
	if got := a.Len(); !Aeq(got, 5) {
		t.Errorf("got %v want 5", got)
	}
}

func TestUnitV2(t *testing.T) {
	a := &V2{0, 5}
	length := a.Unit()
	if !Aeq(length, 5) {
		t.Errorf("prior length got %v want 5", length)
	}
	want := V2{0, 1}
	if !a.Aeq(&want) {
		t.Errorf("got %v want %v", a, want)
	}
}

func TestUnitZeroV2(t *testing.T) {
	a := &V2{0, 0}
	a.Unit()
	if !a.Eq(&V2{0, 0}) {
		t.Errorf("zero vector should stay zero, got %v", a)
	}
}
