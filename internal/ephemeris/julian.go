// SPDX-License-Identifier: MIT

// Package ephemeris computes geocentric ecliptic positions of the Sun, Moon
// and planets, plus the local chart angles (Ascendant, Midheaven), from
// classical series and mean Keplerian orbital elements. Accuracy is at the
// sub-degree level over 1800-2050, which is sufficient for sign placement.
package ephemeris

import (
	"fmt"
	"math"
	"time"
)

// J2000 is the Julian day of the standard epoch 2000-01-01 12:00 UT.
const J2000 = 2451545.0

// JulianDay converts a UTC instant to a Julian day number.
func JulianDay(t time.Time) float64 {
	t = t.UTC()

	y := t.Year()
	m := int(t.Month())
	if m <= 2 {
		y--
		m += 12
	}

	a := y / 100
	b := 2 - a + a/4

	day := float64(t.Day()) +
		(float64(t.Hour())+
			float64(t.Minute())/60+
			(float64(t.Second())+float64(t.Nanosecond())/1e9)/3600)/24

	return math.Floor(365.25*float64(y+4716)) +
		math.Floor(30.6001*float64(m+1)) +
		day + float64(b) - 1524.5
}

// JulianCenturies returns the number of Julian centuries since J2000.
func JulianCenturies(jd float64) float64 {
	return (jd - J2000) / 36525.0
}

// NormalizeDegrees wraps an angle in degrees into [0, 360).
func NormalizeDegrees(deg float64) float64 {
	deg = math.Mod(deg, 360)
	if deg < 0 {
		deg += 360
	}
	return deg
}

// ParseBirthInstant combines a civil date ("2006-01-02"), a clock time
// ("15:04") and a UTC offset ("+10:00") into a UTC instant.
func ParseBirthInstant(date, clock, utcOffset string) (time.Time, error) {
	loc, err := parseOffset(utcOffset)
	if err != nil {
		return time.Time{}, err
	}
	t, err := time.ParseInLocation("2006-01-02 15:04", date+" "+clock, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date/time %q %q: %w", date, clock, err)
	}
	return t.UTC(), nil
}

// parseOffset parses a "+HH:MM" or "-HH:MM" UTC offset into a fixed zone.
func parseOffset(offset string) (*time.Location, error) {
	if offset == "" {
		return time.UTC, nil
	}
	var sign int
	switch offset[0] {
	case '+':
		sign = 1
	case '-':
		sign = -1
	default:
		return nil, fmt.Errorf("invalid UTC offset %q: must start with + or -", offset)
	}
	var hh, mm int
	if _, err := fmt.Sscanf(offset[1:], "%d:%d", &hh, &mm); err != nil {
		return nil, fmt.Errorf("invalid UTC offset %q: %w", offset, err)
	}
	if hh > 14 || mm > 59 {
		return nil, fmt.Errorf("invalid UTC offset %q: out of range", offset)
	}
	secs := sign * (hh*3600 + mm*60)
	return time.FixedZone(offset, secs), nil
}

func sinDeg(deg float64) float64 { return math.Sin(deg * math.Pi / 180) }
func cosDeg(deg float64) float64 { return math.Cos(deg * math.Pi / 180) }
func tanDeg(deg float64) float64 { return math.Tan(deg * math.Pi / 180) }

func atan2Deg(y, x float64) float64 {
	return NormalizeDegrees(math.Atan2(y, x) * 180 / math.Pi)
}
