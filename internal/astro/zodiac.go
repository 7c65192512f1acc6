// SPDX-License-Identifier: MIT

// Package astro maps ecliptic positions onto the zodiac and assembles natal
// charts: sign placements, dominant element and mode, aspects and houses.
package astro

import "github.com/astrochart/astrod/internal/ephemeris"

// Sign is a zodiac sign.
type Sign string

const (
	Aries       Sign = "Aries"
	Taurus      Sign = "Taurus"
	Gemini      Sign = "Gemini"
	Cancer      Sign = "Cancer"
	Leo         Sign = "Leo"
	Virgo       Sign = "Virgo"
	Libra       Sign = "Libra"
	Scorpio     Sign = "Scorpio"
	Sagittarius Sign = "Sagittarius"
	Capricorn   Sign = "Capricorn"
	Aquarius    Sign = "Aquarius"
	Pisces      Sign = "Pisces"
)

// signs in zodiacal order; each spans 30 degrees of ecliptic longitude.
var signs = []Sign{
	Aries, Taurus, Gemini, Cancer, Leo, Virgo,
	Libra, Scorpio, Sagittarius, Capricorn, Aquarius, Pisces,
}

// Element is one of the four classical elements.
type Element string

const (
	Fire  Element = "Fire"
	Earth Element = "Earth"
	Air   Element = "Air"
	Water Element = "Water"
)

// Mode is one of the three zodiac modalities.
type Mode string

const (
	Cardinal Mode = "Cardinal"
	Fixed    Mode = "Fixed"
	Mutable  Mode = "Mutable"
)

var signElements = map[Sign]Element{
	Aries: Fire, Taurus: Earth, Gemini: Air, Cancer: Water,
	Leo: Fire, Virgo: Earth, Libra: Air, Scorpio: Water,
	Sagittarius: Fire, Capricorn: Earth, Aquarius: Air, Pisces: Water,
}

var signModes = map[Sign]Mode{
	Aries: Cardinal, Taurus: Fixed, Gemini: Mutable, Cancer: Cardinal,
	Leo: Fixed, Virgo: Mutable, Libra: Cardinal, Scorpio: Fixed,
	Sagittarius: Mutable, Capricorn: Cardinal, Aquarius: Fixed, Pisces: Mutable,
}

// SignFromLongitude maps an ecliptic longitude in degrees to its zodiac sign.
func SignFromLongitude(lon float64) Sign {
	lon = ephemeris.NormalizeDegrees(lon)
	return signs[int(lon/30)%12]
}

// DegreeInSign returns the position within the sign, [0, 30).
func DegreeInSign(lon float64) float64 {
	lon = ephemeris.NormalizeDegrees(lon)
	return lon - float64(int(lon/30))*30
}

// ElementOf returns the element of a sign.
func ElementOf(s Sign) Element { return signElements[s] }

// ModeOf returns the modality of a sign.
func ModeOf(s Sign) Mode { return signModes[s] }
