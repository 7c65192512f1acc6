// SPDX-License-Identifier: MIT

package astro

import (
	"testing"
	"time"

	"github.com/astrochart/astrod/internal/ephemeris"
)

func sydneyBirth() BirthData {
	return BirthData{
		Name:      "Test Subject",
		Date:      "1990-01-15",
		Time:      "08:30",
		Location:  "Sydney",
		Latitude:  -33.8688,
		Longitude: 151.2093,
		UTCOffset: "+10:00",
	}
}

func TestComputeSydneyChart(t *testing.T) {
	chart, err := Compute(sydneyBirth())
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}

	wantUTC := time.Date(1990, 1, 14, 22, 30, 0, 0, time.UTC)
	if !chart.UTC.Equal(wantUTC) {
		t.Errorf("UTC = %v, want %v", chart.UTC, wantUTC)
	}

	if len(chart.Placements) != 12 {
		t.Fatalf("placements = %d, want 12 (ten planets + ASC + MC)", len(chart.Placements))
	}

	wantSigns := map[ephemeris.Body]Sign{
		ephemeris.Sun:       Capricorn,
		ephemeris.Moon:      Virgo,
		ephemeris.Mercury:   Capricorn,
		ephemeris.Venus:     Aquarius,
		ephemeris.Mars:      Sagittarius,
		ephemeris.Jupiter:   Cancer,
		ephemeris.Saturn:    Capricorn,
		ephemeris.Uranus:    Capricorn,
		ephemeris.Neptune:   Capricorn,
		ephemeris.Pluto:     Scorpio,
		ephemeris.Ascendant: Pisces,
		ephemeris.Midheaven: Sagittarius,
	}
	for body, want := range wantSigns {
		if got := chart.SignOf(body); got != want {
			t.Errorf("SignOf(%s) = %v, want %v", body, got, want)
		}
	}

	if chart.DominantElement != Earth {
		t.Errorf("DominantElement = %v, want Earth", chart.DominantElement)
	}
	if chart.DominantMode != Cardinal {
		t.Errorf("DominantMode = %v, want Cardinal", chart.DominantMode)
	}
}

func TestComputeHouses(t *testing.T) {
	chart, err := Compute(sydneyBirth())
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}

	if len(chart.Houses) != 12 {
		t.Fatalf("houses = %d, want 12", len(chart.Houses))
	}

	var asc float64
	for _, p := range chart.Placements {
		if p.Body == ephemeris.Ascendant {
			asc = p.Longitude
		}
	}
	for i, cusp := range chart.Houses {
		want := ephemeris.NormalizeDegrees(asc + float64(i)*30)
		if cusp != want {
			t.Errorf("house %d cusp = %v, want %v", i+1, cusp, want)
		}
	}
}

func TestComputeInvalidInput(t *testing.T) {
	data := sydneyBirth()
	data.Date = "15/01/1990"
	if _, err := Compute(data); err == nil {
		t.Error("expected error for malformed date")
	}

	data = sydneyBirth()
	data.Latitude = 89.9
	if _, err := Compute(data); err == nil {
		t.Error("expected error for polar latitude")
	}
}

func TestDominantTieBreak(t *testing.T) {
	// On an exact tie the first-listed candidate wins: Fire before Earth
	// before Air before Water, Cardinal before Fixed before Mutable.
	placements := []Placement{
		{Sign: Aries},  // Fire, Cardinal
		{Sign: Taurus}, // Earth, Fixed
	}
	element, mode := dominant(placements)
	if element != Fire {
		t.Errorf("element tie = %v, want Fire", element)
	}
	if mode != Cardinal {
		t.Errorf("mode tie = %v, want Cardinal", mode)
	}

	// A real majority beats list order.
	placements = []Placement{
		{Sign: Taurus},
		{Sign: Virgo},
		{Sign: Aries},
	}
	element, mode = dominant(placements)
	if element != Earth {
		t.Errorf("element = %v, want Earth", element)
	}
	if mode != Cardinal {
		// One of each mode: tie resolves to Cardinal.
		t.Errorf("mode = %v, want Cardinal", mode)
	}
}

func TestComputeAspectsExcludeAngles(t *testing.T) {
	chart, err := Compute(sydneyBirth())
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	for _, asp := range chart.Aspects {
		for _, b := range []ephemeris.Body{asp.First, asp.Second} {
			if b == ephemeris.Ascendant || b == ephemeris.Midheaven {
				t.Errorf("aspect %v-%v involves a chart angle", asp.First, asp.Second)
			}
		}
	}
}
