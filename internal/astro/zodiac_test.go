// SPDX-License-Identifier: MIT

package astro

import (
	"math"
	"testing"
)

func TestSignFromLongitude(t *testing.T) {
	tests := []struct {
		lon  float64
		want Sign
	}{
		{0, Aries},
		{29.999, Aries},
		{30, Taurus},
		{45.06, Taurus},
		{136.24, Leo},
		{224.6, Scorpio},
		{280.46, Capricorn},
		{316.58, Aquarius},
		{359.999, Pisces},
		{360, Aries},
		{-10, Pisces},
		{721, Aries},
	}
	for _, tt := range tests {
		if got := SignFromLongitude(tt.lon); got != tt.want {
			t.Errorf("SignFromLongitude(%v) = %v, want %v", tt.lon, got, tt.want)
		}
	}
}

func TestDegreeInSign(t *testing.T) {
	tests := []struct {
		lon, want float64
	}{
		{0, 0},
		{15.5, 15.5},
		{30, 0},
		{280.46, 10.46},
		{359.9, 29.9},
	}
	for _, tt := range tests {
		if got := DegreeInSign(tt.lon); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("DegreeInSign(%v) = %v, want %v", tt.lon, got, tt.want)
		}
	}
}

func TestElementAndModeTables(t *testing.T) {
	wantElements := map[Sign]Element{
		Aries: Fire, Taurus: Earth, Gemini: Air, Cancer: Water,
		Leo: Fire, Virgo: Earth, Libra: Air, Scorpio: Water,
		Sagittarius: Fire, Capricorn: Earth, Aquarius: Air, Pisces: Water,
	}
	wantModes := map[Sign]Mode{
		Aries: Cardinal, Taurus: Fixed, Gemini: Mutable, Cancer: Cardinal,
		Leo: Fixed, Virgo: Mutable, Libra: Cardinal, Scorpio: Fixed,
		Sagittarius: Mutable, Capricorn: Cardinal, Aquarius: Fixed, Pisces: Mutable,
	}

	for _, sign := range signs {
		if got := ElementOf(sign); got != wantElements[sign] {
			t.Errorf("ElementOf(%v) = %v, want %v", sign, got, wantElements[sign])
		}
		if got := ModeOf(sign); got != wantModes[sign] {
			t.Errorf("ModeOf(%v) = %v, want %v", sign, got, wantModes[sign])
		}
	}
}

func TestZodiacCoversFullCircle(t *testing.T) {
	if len(signs) != 12 {
		t.Fatalf("expected 12 signs, got %d", len(signs))
	}
	// Every sign owns exactly one 30-degree span.
	seen := map[Sign]int{}
	for lon := 0.0; lon < 360; lon += 30 {
		seen[SignFromLongitude(lon+15)]++
	}
	for _, sign := range signs {
		if seen[sign] != 1 {
			t.Errorf("sign %v covered %d spans, want 1", sign, seen[sign])
		}
	}
}
