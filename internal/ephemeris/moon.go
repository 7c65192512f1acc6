// SPDX-License-Identifier: MIT

package ephemeris

// MoonLongitude returns the geocentric ecliptic longitude of the Moon in
// degrees for the given Julian day. The principal periodic terms of the lunar
// theory are included, which keeps the error well under 0.1 degree.
func MoonLongitude(jd float64) float64 {
	t := JulianCenturies(jd)

	// Mean elements (degrees).
	lp := 218.3164477 + 481267.88123421*t - 0.0015786*t*t // mean longitude
	d := 297.8501921 + 445267.1114034*t - 0.0018819*t*t   // mean elongation
	m := 357.5291092 + 35999.0502909*t - 0.0001536*t*t    // solar anomaly
	mp := 134.9633964 + 477198.8675055*t + 0.0087414*t*t  // lunar anomaly
	f := 93.2720950 + 483202.0175233*t - 0.0036539*t*t    // argument of latitude

	lon := lp +
		6.288774*sinDeg(mp) +
		1.274027*sinDeg(2*d-mp) +
		0.658314*sinDeg(2*d) +
		0.213618*sinDeg(2*mp) -
		0.185116*sinDeg(m) -
		0.114332*sinDeg(2*f) +
		0.058793*sinDeg(2*d-2*mp) +
		0.057066*sinDeg(2*d-m-mp) +
		0.053322*sinDeg(2*d+mp) +
		0.045758*sinDeg(2*d-m) -
		0.040923*sinDeg(m-mp) -
		0.034720*sinDeg(d) -
		0.030383*sinDeg(m+mp) +
		0.015327*sinDeg(2*d-2*f) -
		0.012528*sinDeg(mp+2*f) +
		0.010980*sinDeg(mp-2*f)

	return NormalizeDegrees(lon)
}
