// SPDX-License-Identifier: MIT

package ephemeris

import (
	"errors"
	"math"
	"testing"
	"time"
)

func TestMeanObliquity(t *testing.T) {
	got := MeanObliquity(J2000)
	if math.Abs(got-23.4393) > 0.001 {
		t.Errorf("MeanObliquity(J2000) = %v, want ~23.4393", got)
	}
	// Obliquity decreases slowly over time.
	if MeanObliquity(J2000+36525) >= got {
		t.Error("obliquity should decrease over a century")
	}
}

func TestGreenwichSiderealTime(t *testing.T) {
	got := GreenwichSiderealTime(J2000)
	if math.Abs(got-280.4606) > 0.001 {
		t.Errorf("GreenwichSiderealTime(J2000) = %v, want ~280.4606", got)
	}

	// A sidereal day is ~3m56s shorter than a solar day, so over one solar
	// day GMST advances ~360.9856 degrees.
	next := GreenwichSiderealTime(J2000 + 1)
	step := NormalizeDegrees(next - got)
	if math.Abs(step-0.9856) > 0.001 {
		t.Errorf("GMST daily advance = %v, want ~0.9856", step)
	}
}

func TestLocalSiderealTime(t *testing.T) {
	g := GreenwichSiderealTime(J2000)
	if got := LocalSiderealTime(J2000, 0); math.Abs(got-g) > 1e-9 {
		t.Errorf("LST at Greenwich = %v, want %v", got, g)
	}
	if got, want := LocalSiderealTime(J2000, 90), NormalizeDegrees(g+90); math.Abs(got-want) > 1e-9 {
		t.Errorf("LST at 90E = %v, want %v", got, want)
	}
}

func TestChartAngles(t *testing.T) {
	// Sydney, 1990-01-15 08:30 local (+10:00).
	utc := time.Date(1990, 1, 14, 22, 30, 0, 0, time.UTC)
	jd := JulianDay(utc)

	angles, err := ChartAngles(jd, -33.8688, 151.2093)
	if err != nil {
		t.Fatalf("ChartAngles: %v", err)
	}
	if math.Abs(angles.Ascendant-337.14) > 0.1 {
		t.Errorf("Ascendant = %v, want ~337.14 (Pisces)", angles.Ascendant)
	}
	if math.Abs(angles.Midheaven-244.78) > 0.1 {
		t.Errorf("Midheaven = %v, want ~244.78 (Sagittarius)", angles.Midheaven)
	}
}

func TestChartAnglesPolarLatitude(t *testing.T) {
	// The bound itself is rejected: |lat| >= 89.5 has no defined Ascendant.
	for _, lat := range []float64{89.5, -89.5, 89.9, -90} {
		if _, err := ChartAngles(J2000, lat, 0); !errors.Is(err, ErrPolarLatitude) {
			t.Errorf("lat %v: expected ErrPolarLatitude, got %v", lat, err)
		}
	}
	if _, err := ChartAngles(J2000, 89.49, 0); err != nil {
		t.Errorf("lat 89.49: %v", err)
	}
}

func TestChartAnglesQuadrantRelation(t *testing.T) {
	// The Ascendant is always in the eastern half of the chart relative to
	// the Midheaven: asc - mc wrapped into (0, 180) at moderate latitudes.
	for i := 0; i < 24; i++ {
		jd := J2000 + float64(i)/24
		angles, err := ChartAngles(jd, 48.2, 16.37) // Vienna
		if err != nil {
			t.Fatalf("ChartAngles: %v", err)
		}
		rel := NormalizeDegrees(angles.Ascendant - angles.Midheaven)
		if rel <= 0 || rel >= 180 {
			t.Errorf("hour %d: asc-mc = %v, want within (0, 180)", i, rel)
		}
	}
}
