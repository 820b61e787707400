package optics

import (
	"math"
	"testing"
)

const epsilon = 0.01 // tolerance for float comparisons (degrees, metres)

// Reference: 1/2.8" (5.6 x 3.1 mm) with a 4 mm lens
// HorizontalFOV = 2 * atan(5.6 / (2*4)) * 180/pi ~ 69.98 deg
// VerticalFOV   = 2 * atan(3.1 / (2*4)) * 180/pi ~ 42.35 deg
func TestFieldOfView_Reference(t *testing.T) {
	fov, ok := FieldOfView(4, "1/2.8")
	if !ok {
		t.Fatal("expected ok for known sensor")
	}
	wantH := 2.0 * math.Atan(5.6/(2.0*4.0)) * 180.0 / math.Pi
	wantV := 2.0 * math.Atan(3.1/(2.0*4.0)) * 180.0 / math.Pi
	if math.Abs(fov.HorizontalDeg-wantH) > epsilon {
		t.Errorf("HorizontalDeg = %v, want ~%v", fov.HorizontalDeg, wantH)
	}
	if math.Abs(fov.VerticalDeg-wantV) > epsilon {
		t.Errorf("VerticalDeg = %v, want ~%v", fov.VerticalDeg, wantV)
	}
}

func TestFieldOfView_Invalid(t *testing.T) {
	cases := []struct {
		name   string
		focal  float64
		sensor string
	}{
		{"zero_focal", 0, "1/2.8"},
		{"negative_focal", -4, "1/2.8"},
		{"nan_focal", math.NaN(), "1/2.8"},
		{"unknown_sensor", 4, "1/9.9"},
		{"empty_sensor", 4, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, ok := FieldOfView(tc.focal, tc.sensor); ok {
				t.Error("expected ok=false")
			}
		})
	}
}

func TestFieldOfView_DecreasesWithFocalLength(t *testing.T) {
	wide, _ := FieldOfView(2.8, "1/2.0")
	tele, _ := FieldOfView(12, "1/2.0")
	if wide.HorizontalDeg <= tele.HorizontalDeg {
		t.Errorf("2.8mm FOV (%v) should be larger than 12mm FOV (%v)", wide.HorizontalDeg, tele.HorizontalDeg)
	}
}

func TestLookupSensor_ShortLabel(t *testing.T) {
	a, ok := LookupSensor("1/2")
	if !ok {
		t.Fatal("expected 1/2 to resolve")
	}
	b, _ := LookupSensor("1/2.0")
	if a != b {
		t.Errorf("1/2 = %v, want %v", a, b)
	}
	if _, ok := LookupSensor(`1/2.8"`); !ok {
		t.Error("expected inch mark to be ignored")
	}
}

func TestCameraAngles_AspectRatioSwapsAxes(t *testing.T) {
	fov, _ := FieldOfView(4, "1/2.8")

	normal, ok := CameraAngles(4, "1/2.8", false)
	if !ok {
		t.Fatal("expected ok")
	}
	if normal.PlanDeg != int(math.Round(fov.HorizontalDeg)) {
		t.Errorf("PlanDeg = %d, want rounded horizontal %v", normal.PlanDeg, fov.HorizontalDeg)
	}
	if math.Abs(normal.SideDeg-fov.VerticalDeg) > epsilon {
		t.Errorf("SideDeg = %v, want vertical %v", normal.SideDeg, fov.VerticalDeg)
	}

	corridor, _ := CameraAngles(4, "1/2.8", true)
	if corridor.PlanDeg != int(math.Round(fov.VerticalDeg)) {
		t.Errorf("corridor PlanDeg = %d, want rounded vertical %v", corridor.PlanDeg, fov.VerticalDeg)
	}
	if math.Abs(corridor.SideDeg-fov.HorizontalDeg) > epsilon {
		t.Errorf("corridor SideDeg = %v, want horizontal %v", corridor.SideDeg, fov.HorizontalDeg)
	}
}

func TestCameraAngles_NoOptics(t *testing.T) {
	if _, ok := CameraAngles(0, "1/2.8", false); ok {
		t.Error("expected ok=false without a focal length")
	}
}
