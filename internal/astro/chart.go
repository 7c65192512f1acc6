// SPDX-License-Identifier: MIT

package astro

import (
	"fmt"
	"time"

	"github.com/astrochart/astrod/internal/ephemeris"
)

// Placement is a chart body with its computed position.
type Placement struct {
	Body      ephemeris.Body `json:"body"`
	Longitude float64        `json:"longitude"`
	Sign      Sign           `json:"sign"`
	Degree    float64        `json:"degree"` // within the sign, [0, 30)
}

// Chart is a computed natal chart.
type Chart struct {
	ID        string    `json:"id,omitempty"`
	Name      string    `json:"name"`
	Date      string    `json:"date"`
	Time      string    `json:"time"`
	Location  string    `json:"location"`
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	UTC       time.Time `json:"utc"`
	JulianDay float64   `json:"julian_day"`

	Placements []Placement `json:"placements"` // ten planets + ASC + MC

	DominantElement Element `json:"dominant_element"`
	DominantMode    Mode    `json:"dominant_mode"`

	Aspects []Aspect  `json:"aspects,omitempty"`
	Houses  []float64 `json:"houses,omitempty"` // 12 equal-house cusps
}

// BirthData is the input for a chart computation.
type BirthData struct {
	Name      string
	Date      string // "2006-01-02"
	Time      string // "15:04"
	Location  string
	Latitude  float64
	Longitude float64
	UTCOffset string // "+10:00"
}

// Compute builds a full natal chart from birth data.
func Compute(data BirthData) (*Chart, error) {
	utc, err := ephemeris.ParseBirthInstant(data.Date, data.Time, data.UTCOffset)
	if err != nil {
		return nil, err
	}
	jd := ephemeris.JulianDay(utc)

	placements := make([]Placement, 0, len(ephemeris.Planets)+2)
	for _, body := range ephemeris.Planets {
		lon, err := ephemeris.BodyLongitude(body, jd)
		if err != nil {
			return nil, fmt.Errorf("compute %s: %w", body, err)
		}
		placements = append(placements, newPlacement(body, lon))
	}

	angles, err := ephemeris.ChartAngles(jd, data.Latitude, data.Longitude)
	if err != nil {
		return nil, err
	}
	placements = append(placements,
		newPlacement(ephemeris.Ascendant, angles.Ascendant),
		newPlacement(ephemeris.Midheaven, angles.Midheaven),
	)

	element, mode := dominant(placements)

	chart := &Chart{
		Name:            data.Name,
		Date:            data.Date,
		Time:            data.Time,
		Location:        data.Location,
		Latitude:        data.Latitude,
		Longitude:       data.Longitude,
		UTC:             utc,
		JulianDay:       jd,
		Placements:      placements,
		DominantElement: element,
		DominantMode:    mode,
		Aspects:         findAspects(placements[:len(ephemeris.Planets)]),
		Houses:          equalHouses(angles.Ascendant),
	}
	return chart, nil
}

func newPlacement(body ephemeris.Body, lon float64) Placement {
	return Placement{
		Body:      body,
		Longitude: lon,
		Sign:      SignFromLongitude(lon),
		Degree:    DegreeInSign(lon),
	}
}

// SignOf returns the sign of a body in the chart, or "" if absent.
func (c *Chart) SignOf(body ephemeris.Body) Sign {
	for _, p := range c.Placements {
		if p.Body == body {
			return p.Sign
		}
	}
	return ""
}

// dominant tallies elements and modes over all placements. Ties resolve to
// the first-listed candidate (Fire, Earth, Air, Water / Cardinal, Fixed,
// Mutable), matching the behaviour charts have always had.
func dominant(placements []Placement) (Element, Mode) {
	elementOrder := []Element{Fire, Earth, Air, Water}
	modeOrder := []Mode{Cardinal, Fixed, Mutable}

	elementCounts := map[Element]int{}
	modeCounts := map[Mode]int{}
	for _, p := range placements {
		elementCounts[ElementOf(p.Sign)]++
		modeCounts[ModeOf(p.Sign)]++
	}

	bestElement := elementOrder[0]
	for _, e := range elementOrder[1:] {
		if elementCounts[e] > elementCounts[bestElement] {
			bestElement = e
		}
	}
	bestMode := modeOrder[0]
	for _, m := range modeOrder[1:] {
		if modeCounts[m] > modeCounts[bestMode] {
			bestMode = m
		}
	}
	return bestElement, bestMode
}

// equalHouses returns 12 equal-house cusps starting at the Ascendant.
func equalHouses(asc float64) []float64 {
	cusps := make([]float64, 12)
	for i := range cusps {
		cusps[i] = ephemeris.NormalizeDegrees(asc + float64(i)*30)
	}
	return cusps
}
