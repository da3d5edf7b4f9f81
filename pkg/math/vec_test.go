package math

import (
	"math"
	"testing"
)

func TestVec3Cross(t *testing.T) {
	x := Vec3{1, 0, 0}
	y := Vec3{0, 1, 0}
	got := x.Cross(y)
	want := Vec3{0, 0, 1}
	if got != want {
		t.Errorf("Vec3.Cross() = %v, want %v", got, want)
	}
}

func TestVec3Normalize(t *testing.T) {
	v := Vec3{3, 0, 4}
	n := v.Normalize()
	l := n.Length()
	if l < 0.999 || l > 1.001 {
		t.Errorf("Vec3.Normalize().Length() = %v, want ~1", l)
	}

	if got := (Vec3{}).Normalize(); got != (Vec3{}) {
		t.Errorf("zero Vec3.Normalize() = %v, want zero", got)
	}
}

func TestVec3LengthSq(t *testing.T) {
	v := Vec3{1, 2, 2}
	if got := v.LengthSq(); got != 9 {
		t.Errorf("Vec3.LengthSq() = %v, want 9", got)
	}
}

func TestVec3IsFinite(t *testing.T) {
	nan := float32(math.NaN())
	tests := []struct {
		v    Vec3
		want bool
	}{
		{Vec3{1, 2, 3}, true},
		{Vec3{nan, 0, 0}, false},
		{Vec3{0, float32(math.Inf(1)), 0}, false},
	}

	for _, tc := range tests {
		if got := tc.v.IsFinite(); got != tc.want {
			t.Errorf("%v.IsFinite() = %v, want %v", tc.v, got, tc.want)
		}
	}
}

func TestClamp(t *testing.T) {
	tests := []struct {
		x, lo, hi, want float32
	}{
		{0.5, 0, 1, 0.5},
		{-1, 0, 1, 0},
		{2, 0, 1, 1},
	}

	for _, tc := range tests {
		if got := Clamp(tc.x, tc.lo, tc.hi); got != tc.want {
			t.Errorf("Clamp(%v, %v, %v) = %v, want %v", tc.x, tc.lo, tc.hi, got, tc.want)
		}
	}
}
