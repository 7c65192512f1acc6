// SPDX-License-Identifier: MIT

package astro

import (
	"math"

	"github.com/astrochart/astrod/internal/ephemeris"
)

// AspectType is a major (Ptolemaic) aspect.
type AspectType string

const (
	Conjunction AspectType = "conjunction"
	Sextile     AspectType = "sextile"
	Square      AspectType = "square"
	Trine       AspectType = "trine"
	Opposition  AspectType = "opposition"
)

// aspectDef pairs an exact angle with the maximum orb allowed for it.
type aspectDef struct {
	kind  AspectType
	angle float64
	orb   float64
}

var majorAspects = []aspectDef{
	{Conjunction, 0, 8},
	{Sextile, 60, 6},
	{Square, 90, 7},
	{Trine, 120, 8},
	{Opposition, 180, 8},
}

// Aspect is an angular relation between two chart bodies.
type Aspect struct {
	First  ephemeris.Body `json:"first"`
	Second ephemeris.Body `json:"second"`
	Type   AspectType     `json:"type"`
	Orb    float64        `json:"orb"` // degrees off exact
}

// separation returns the angular distance between two longitudes, [0, 180].
func separation(a, b float64) float64 {
	d := math.Abs(ephemeris.NormalizeDegrees(a) - ephemeris.NormalizeDegrees(b))
	if d > 180 {
		d = 360 - d
	}
	return d
}

// findAspects scans all planet pairs for major aspects within orb.
func findAspects(planets []Placement) []Aspect {
	var out []Aspect
	for i := 0; i < len(planets); i++ {
		for j := i + 1; j < len(planets); j++ {
			sep := separation(planets[i].Longitude, planets[j].Longitude)
			for _, def := range majorAspects {
				orb := math.Abs(sep - def.angle)
				if orb <= def.orb {
					out = append(out, Aspect{
						First:  planets[i].Body,
						Second: planets[j].Body,
						Type:   def.kind,
						Orb:    orb,
					})
					break
				}
			}
		}
	}
	return out
}
