package astro

import (
	"math"
	"testing"
)

func TestVec3Norm(t *testing.T) {
	tests := []struct {
		name string
		v    Vec3
		want float64
	}{
		{"zero", Vec3{0, 0, 0}, 0},
		{"unit x", Vec3{1, 0, 0}, 1},
		{"unit y", Vec3{0, 1, 0}, 1},
		{"3-4-5", Vec3{3, 0, 4}, 5},
		{"negative", Vec3{-3, 0, -4}, 5},
		{"3D", Vec3{1, 2, 2}, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.v.Norm()
			if math.Abs(got-tt.want) > 1e-10 {
				t.Errorf("Norm() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestVec3Normalized(t *testing.T) {
	got := Vec3{0, 0, 7}.Normalized()
	if got != (Vec3{0, 0, 1}) {
		t.Errorf("Normalized() = %v, want {0 0 1}", got)
	}
	if (Vec3{}).Normalized() != (Vec3{}) {
		t.Error("Normalized() of zero vector should be zero")
	}
}

func TestVec3Lerp(t *testing.T) {
	a := Vec3{0, 10, -4}
	b := Vec3{10, 0, 4}

	tests := []struct {
		t    float64
		want Vec3
	}{
		{0, a},
		{1, b},
		{0.5, Vec3{5, 5, 0}},
		{0.25, Vec3{2.5, 7.5, -2}},
	}

	for _, tt := range tests {
		got := a.Lerp(b, tt.t)
		if got.Sub(tt.want).Norm() > 1e-12 {
			t.Errorf("Lerp(%v) = %v, want %v", tt.t, got, tt.want)
		}
	}
}

func TestVec3IsFinite(t *testing.T) {
	if !(Vec3{1, 2, 3}).IsFinite() {
		t.Error("finite vector reported non-finite")
	}
	if (Vec3{math.NaN(), 0, 0}).IsFinite() {
		t.Error("NaN component reported finite")
	}
	if (Vec3{0, math.Inf(1), 0}).IsFinite() {
		t.Error("Inf component reported finite")
	}
}

func TestEclipticToEquatorial(t *testing.T) {
	// The vernal equinox direction is shared by both frames.
	got := EclipticToEquatorial(Vec3{X: 1})
	if got.Sub(Vec3{X: 1}).Norm() > 1e-12 {
		t.Errorf("X axis moved: %v", got)
	}

	// The ecliptic pole tilts toward -Y by the obliquity.
	pole := EclipticToEquatorial(Vec3{Z: 1})
	dec := EquatorialToSky(pole).DecDeg
	if math.Abs(dec-(90-23.439291)) > 1e-6 {
		t.Errorf("ecliptic pole declination = %v, want %v", dec, 90-23.439291)
	}
}

func TestEquatorialToSky(t *testing.T) {
	tests := []struct {
		name    string
		v       Vec3
		wantRA  float64
		wantDec float64
	}{
		{"equinox", Vec3{X: 1}, 0, 0},
		{"6h", Vec3{Y: 2}, 90, 0},
		{"18h", Vec3{Y: -1}, 270, 0},
		{"north pole", Vec3{Z: 5}, 0, 90},
		{"zero", Vec3{}, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EquatorialToSky(tt.v)
			if math.Abs(got.RAdeg-tt.wantRA) > 1e-9 || math.Abs(got.DecDeg-tt.wantDec) > 1e-9 {
				t.Errorf("EquatorialToSky(%v) = (%v, %v), want (%v, %v)",
					tt.v, got.RAdeg, got.DecDeg, tt.wantRA, tt.wantDec)
			}
		})
	}
}

func TestSceneToEcliptic(t *testing.T) {
	got := SceneToEcliptic(Vec3{X: 1, Y: 2, Z: 3})
	if got != (Vec3{X: 1, Y: 3, Z: 2}) {
		t.Errorf("SceneToEcliptic() = %v", got)
	}
}

func TestDomeVector(t *testing.T) {
	tests := []struct {
		name string
		c    SkyCoord
		want Vec3
	}{
		{"zenith", SkyCoord{AzDeg: 0, ElDeg: 90}, Vec3{Y: 2}},
		{"north horizon", SkyCoord{AzDeg: 0, ElDeg: 0}, Vec3{Z: 2}},
		{"east horizon", SkyCoord{AzDeg: 90, ElDeg: 0}, Vec3{X: 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DomeVector(tt.c, 2)
			if got.Sub(tt.want).Norm() > 1e-9 {
				t.Errorf("DomeVector() = %v, want %v", got, tt.want)
			}
		})
	}
}
