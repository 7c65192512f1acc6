// SPDX-License-Identifier: MIT

package ephemeris

import (
	"fmt"
	"math"
)

// Body identifies a chart point.
type Body string

const (
	Sun       Body = "sun"
	Moon      Body = "moon"
	Mercury   Body = "mercury"
	Venus     Body = "venus"
	Mars      Body = "mars"
	Jupiter   Body = "jupiter"
	Saturn    Body = "saturn"
	Uranus    Body = "uranus"
	Neptune   Body = "neptune"
	Pluto     Body = "pluto"
	Ascendant Body = "ascendant"
	Midheaven Body = "midheaven"
)

// Planets lists the ten chart bodies in traditional order.
var Planets = []Body{Sun, Moon, Mercury, Venus, Mars, Jupiter, Saturn, Uranus, Neptune, Pluto}

// elements holds mean Keplerian orbital elements at J2000 and their rates per
// Julian century, valid for 1800-2050 (JPL approximate elements).
type elements struct {
	a, aDot       float64 // semi-major axis [au]
	e, eDot       float64 // eccentricity
	i, iDot       float64 // inclination [deg]
	l, lDot       float64 // mean longitude [deg]
	peri, periDot float64 // longitude of perihelion [deg]
	node, nodeDot float64 // longitude of ascending node [deg]
}

var planetElements = map[Body]elements{
	Mercury: {0.38709927, 0.00000037, 0.20563593, 0.00001906, 7.00497902, -0.00594749, 252.25032350, 149472.67411175, 77.45779628, 0.16047689, 48.33076593, -0.12534081},
	Venus:   {0.72333566, 0.00000390, 0.00677672, -0.00004107, 3.39467605, -0.00078890, 181.97909950, 58517.81538729, 131.60246718, 0.00268329, 76.67984255, -0.27769418},
	Mars:    {1.52371034, 0.00001847, 0.09339410, 0.00007882, 1.84969142, -0.00813131, -4.55343205, 19140.30268499, -23.94362959, 0.44441088, 49.55953891, -0.29257343},
	Jupiter: {5.20288700, -0.00011607, 0.04838624, -0.00013253, 1.30439695, -0.00183714, 34.39644051, 3034.74612775, 14.72847983, 0.21252668, 100.47390909, 0.20469106},
	Saturn:  {9.53667594, -0.00125060, 0.05386179, -0.00050991, 2.48599187, 0.00193609, 49.95424423, 1222.49362201, 92.59887831, -0.41897216, 113.66242448, -0.28867794},
	Uranus:  {19.18916464, -0.00196176, 0.04725744, -0.00004397, 0.77263783, -0.00242939, 313.23810451, 428.48202785, 170.95427630, 0.40805281, 74.01692503, 0.04240589},
	Neptune: {30.06992276, 0.00026291, 0.00859048, 0.00005105, 1.77004347, 0.00035372, -55.12002969, 218.45945325, 44.96476227, -0.32241464, 131.78422574, -0.00508664},
	Pluto:   {39.48211675, -0.00031596, 0.24882730, 0.00005170, 17.14001206, 0.00004818, 238.92903833, 145.20780515, 224.06891629, -0.04062942, 110.30393684, -0.01183482},
}

// Earth-Moon barycenter, used to reduce heliocentric positions to geocentric.
var earthElements = elements{1.00000261, 0.00000562, 0.01671123, -0.00004392, -0.00001531, -0.01294668, 100.46457166, 35999.37244981, 102.93768193, 0.32327364, 0, 0}

// solveKepler solves Kepler's equation M = E - e*sin(E) for the eccentric
// anomaly E. All angles are in degrees.
func solveKepler(m, e float64) float64 {
	const tol = 1e-8 // degrees
	const maxIter = 30

	eStar := e * 180 / math.Pi
	ecc := NormalizeDegrees(m) + eStar*sinDeg(m)
	for i := 0; i < maxIter; i++ {
		dm := NormalizeDegrees(m) - (ecc - eStar*sinDeg(ecc))
		if dm > 180 {
			dm -= 360
		} else if dm < -180 {
			dm += 360
		}
		de := dm / (1 - e*cosDeg(ecc))
		ecc += de
		if math.Abs(de) < tol {
			break
		}
	}
	return ecc
}

// heliocentric returns the heliocentric ecliptic rectangular coordinates
// (au, J2000 ecliptic plane) of a body with the given elements.
func heliocentric(el elements, t float64) (x, y, z float64) {
	a := el.a + el.aDot*t
	e := el.e + el.eDot*t
	inc := el.i + el.iDot*t
	l := el.l + el.lDot*t
	peri := el.peri + el.periDot*t
	node := el.node + el.nodeDot*t

	m := NormalizeDegrees(l - peri)
	ecc := solveKepler(m, e)

	// Position in the orbital plane.
	xp := a * (cosDeg(ecc) - e)
	yp := a * math.Sqrt(1-e*e) * sinDeg(ecc)

	// Rotate to the ecliptic frame.
	w := peri - node
	cw, sw := cosDeg(w), sinDeg(w)
	cn, sn := cosDeg(node), sinDeg(node)
	ci, si := cosDeg(inc), sinDeg(inc)

	x = (cw*cn-sw*sn*ci)*xp + (-sw*cn-cw*sn*ci)*yp
	y = (cw*sn+sw*cn*ci)*xp + (-sw*sn+cw*cn*ci)*yp
	z = sw*si*xp + cw*si*yp
	return x, y, z
}

// Position is a geocentric ecliptic position.
type Position struct {
	Longitude float64 // degrees, [0, 360)
	Latitude  float64 // degrees
	RadiusAU  float64 // geocentric distance; 0 for Sun/Moon/angles
}

// PlanetPosition returns the geocentric ecliptic position of a planet for the
// given Julian day.
func PlanetPosition(body Body, jd float64) (Position, error) {
	el, ok := planetElements[body]
	if !ok {
		return Position{}, fmt.Errorf("no orbital elements for body %q", body)
	}
	t := JulianCenturies(jd)

	px, py, pz := heliocentric(el, t)
	ex, ey, ez := heliocentric(earthElements, t)

	gx, gy, gz := px-ex, py-ey, pz-ez
	r := math.Sqrt(gx*gx + gy*gy + gz*gz)

	return Position{
		Longitude: atan2Deg(gy, gx),
		Latitude:  math.Asin(gz/r) * 180 / math.Pi,
		RadiusAU:  r,
	}, nil
}

// BodyLongitude returns the geocentric ecliptic longitude of any of the ten
// chart bodies for the given Julian day.
func BodyLongitude(body Body, jd float64) (float64, error) {
	switch body {
	case Sun:
		return SunLongitude(jd), nil
	case Moon:
		return MoonLongitude(jd), nil
	default:
		pos, err := PlanetPosition(body, jd)
		if err != nil {
			return 0, err
		}
		return pos.Longitude, nil
	}
}
