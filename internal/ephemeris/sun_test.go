// SPDX-License-Identifier: MIT

package ephemeris

import (
	"math"
	"testing"
	"time"
)

func TestSunLongitudeAtJ2000(t *testing.T) {
	got := SunLongitude(J2000)
	// Late Capricorn region, ~280.4 degrees.
	if got < 280.2 || got > 280.6 {
		t.Errorf("SunLongitude(J2000) = %v, want ~280.4", got)
	}
}

func TestSunLongitudeAtSeasons(t *testing.T) {
	tests := []struct {
		name string
		t    time.Time
		want float64
	}{
		// Equinox and solstice instants pin the solar longitude to the
		// cardinal points of the ecliptic.
		{"march equinox 2000", time.Date(2000, 3, 20, 7, 35, 0, 0, time.UTC), 0},
		{"june solstice 2000", time.Date(2000, 6, 21, 1, 48, 0, 0, time.UTC), 90},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SunLongitude(JulianDay(tt.t))
			diff := math.Abs(got - tt.want)
			if diff > 180 {
				diff = 360 - diff
			}
			if diff > 0.05 {
				t.Errorf("SunLongitude = %v, want %v +/- 0.05", got, tt.want)
			}
		})
	}
}

func TestSunLongitudeAdvancesDaily(t *testing.T) {
	// The Sun moves just under one degree per day along the ecliptic.
	jd := JulianDay(time.Date(2010, 4, 10, 0, 0, 0, 0, time.UTC))
	step := NormalizeDegrees(SunLongitude(jd+1) - SunLongitude(jd))
	if step < 0.9 || step > 1.1 {
		t.Errorf("daily solar motion = %v, want ~1 degree", step)
	}
}
