// SPDX-License-Identifier: MIT

package ephemeris

import (
	"errors"
	"math"
)

// ErrPolarLatitude is returned when the Ascendant is undefined because the
// birth latitude is too close to a pole.
var ErrPolarLatitude = errors.New("ascendant undefined near the poles")

// maxChartLatitude bounds the geographic latitude for which the Ascendant
// formula remains numerically stable.
const maxChartLatitude = 89.5

// MeanObliquity returns the mean obliquity of the ecliptic in degrees.
func MeanObliquity(jd float64) float64 {
	t := JulianCenturies(jd)
	return 23.43929111 - 0.01300417*t - 1.638889e-7*t*t
}

// GreenwichSiderealTime returns the Greenwich mean sidereal time in degrees.
func GreenwichSiderealTime(jd float64) float64 {
	t := JulianCenturies(jd)
	theta := 280.46061837 +
		360.98564736629*(jd-J2000) +
		0.000387933*t*t -
		t*t*t/38710000
	return NormalizeDegrees(theta)
}

// LocalSiderealTime returns the local mean sidereal time in degrees for an
// east-positive geographic longitude.
func LocalSiderealTime(jd, lonEast float64) float64 {
	return NormalizeDegrees(GreenwichSiderealTime(jd) + lonEast)
}

// Angles holds the two cardinal chart angles.
type Angles struct {
	Ascendant float64 // ecliptic longitude, degrees
	Midheaven float64 // ecliptic longitude, degrees
}

// ChartAngles computes the Ascendant and Midheaven for a Julian day and a
// geographic position (latitude north-positive, longitude east-positive).
func ChartAngles(jd, lat, lon float64) (Angles, error) {
	if math.Abs(lat) >= maxChartLatitude {
		return Angles{}, ErrPolarLatitude
	}

	ramc := LocalSiderealTime(jd, lon)
	eps := MeanObliquity(jd)

	mc := atan2Deg(sinDeg(ramc), cosDeg(ramc)*cosDeg(eps))
	asc := atan2Deg(cosDeg(ramc), -(sinDeg(ramc)*cosDeg(eps) + tanDeg(lat)*sinDeg(eps)))

	return Angles{Ascendant: asc, Midheaven: mc}, nil
}
