// SPDX-License-Identifier: MIT

package astro

import (
	"math"
	"testing"

	"github.com/astrochart/astrod/internal/ephemeris"
)

func TestSeparation(t *testing.T) {
	tests := []struct {
		a, b, want float64
	}{
		{0, 0, 0},
		{0, 90, 90},
		{90, 0, 90},
		{350, 10, 20},
		{10, 350, 20},
		{0, 180, 180},
		{0, 181, 179},
	}
	for _, tt := range tests {
		if got := separation(tt.a, tt.b); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("separation(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestFindAspects(t *testing.T) {
	placements := []Placement{
		{Body: ephemeris.Sun, Longitude: 10},
		{Body: ephemeris.Moon, Longitude: 12},     // conjunction, orb 2
		{Body: ephemeris.Mars, Longitude: 100},    // square to Sun, orb 0
		{Body: ephemeris.Jupiter, Longitude: 192}, // opposition to Sun, orb 2
		{Body: ephemeris.Saturn, Longitude: 55},   // nothing within orb of Sun
	}

	got := findAspects(placements)

	find := func(a, b ephemeris.Body) *Aspect {
		for i := range got {
			if got[i].First == a && got[i].Second == b {
				return &got[i]
			}
		}
		return nil
	}

	if asp := find(ephemeris.Sun, ephemeris.Moon); asp == nil || asp.Type != Conjunction {
		t.Errorf("Sun-Moon: want conjunction, got %+v", asp)
	}
	if asp := find(ephemeris.Sun, ephemeris.Mars); asp == nil || asp.Type != Square || asp.Orb != 0 {
		t.Errorf("Sun-Mars: want exact square, got %+v", asp)
	}
	if asp := find(ephemeris.Sun, ephemeris.Jupiter); asp == nil || asp.Type != Opposition {
		t.Errorf("Sun-Jupiter: want opposition, got %+v", asp)
	}
	if asp := find(ephemeris.Sun, ephemeris.Saturn); asp != nil {
		t.Errorf("Sun-Saturn: want no aspect, got %+v", asp)
	}
}

func TestFindAspectsOrbLimits(t *testing.T) {
	// 8 degrees is within the conjunction orb, 8.5 is not.
	within := []Placement{
		{Body: ephemeris.Sun, Longitude: 0},
		{Body: ephemeris.Moon, Longitude: 8},
	}
	if got := findAspects(within); len(got) != 1 {
		t.Errorf("orb 8: expected 1 aspect, got %d", len(got))
	}

	outside := []Placement{
		{Body: ephemeris.Sun, Longitude: 0},
		{Body: ephemeris.Moon, Longitude: 8.5},
	}
	if got := findAspects(outside); len(got) != 0 {
		t.Errorf("orb 8.5: expected no aspects, got %d", len(got))
	}
}
