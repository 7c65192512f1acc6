// SPDX-License-Identifier: MIT

package ephemeris

// SunLongitude returns the apparent geocentric ecliptic longitude of the Sun
// in degrees for the given Julian day.
func SunLongitude(jd float64) float64 {
	t := JulianCenturies(jd)

	// Geometric mean longitude and mean anomaly.
	l0 := 280.46646 + 36000.76983*t + 0.0003032*t*t
	m := 357.52911 + 35999.05029*t - 0.0001537*t*t

	// Equation of center.
	c := (1.914602-0.004817*t-0.000014*t*t)*sinDeg(m) +
		(0.019993-0.000101*t)*sinDeg(2*m) +
		0.000289*sinDeg(3*m)

	trueLon := l0 + c

	// Correct to apparent longitude (nutation + aberration).
	omega := 125.04 - 1934.136*t
	apparent := trueLon - 0.00569 - 0.00478*sinDeg(omega)

	return NormalizeDegrees(apparent)
}
