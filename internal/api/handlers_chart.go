// SPDX-License-Identifier: MIT

package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/astrochart/astrod/internal/astro"
	"github.com/astrochart/astrod/internal/ephemeris"
	"github.com/astrochart/astrod/internal/geocode"
	astlog "github.com/astrochart/astrod/internal/log"
	"github.com/astrochart/astrod/internal/metrics"
	"github.com/astrochart/astrod/internal/store"
)

// chartResponse is the public chart payload. Field names are a wire
// contract; existing clients parse them as-is.
type chartResponse struct {
	Name     string `json:"name"`
	Date     string `json:"date"`
	Time     string `json:"time"`
	Location string `json:"location"`

	SunSign       astro.Sign `json:"sun_sign"`
	MoonSign      astro.Sign `json:"moon_sign"`
	MercurySign   astro.Sign `json:"mercury_sign"`
	VenusSign     astro.Sign `json:"venus_sign"`
	MarsSign      astro.Sign `json:"mars_sign"`
	JupiterSign   astro.Sign `json:"jupiter_sign"`
	SaturnSign    astro.Sign `json:"saturn_sign"`
	UranusSign    astro.Sign `json:"uranus_sign"`
	NeptuneSign   astro.Sign `json:"neptune_sign"`
	PlutoSign     astro.Sign `json:"pluto_sign"`
	RisingSign    astro.Sign `json:"rising_sign"`
	MidheavenSign astro.Sign `json:"midheaven_sign"`

	DominantElement astro.Element `json:"dominant_element"`
	Mode            astro.Mode    `json:"mode"`
}

func toChartResponse(c *astro.Chart) chartResponse {
	return chartResponse{
		Name:            c.Name,
		Date:            c.Date,
		Time:            c.Time,
		Location:        c.Location,
		SunSign:         c.SignOf(ephemeris.Sun),
		MoonSign:        c.SignOf(ephemeris.Moon),
		MercurySign:     c.SignOf(ephemeris.Mercury),
		VenusSign:       c.SignOf(ephemeris.Venus),
		MarsSign:        c.SignOf(ephemeris.Mars),
		JupiterSign:     c.SignOf(ephemeris.Jupiter),
		SaturnSign:      c.SignOf(ephemeris.Saturn),
		UranusSign:      c.SignOf(ephemeris.Uranus),
		NeptuneSign:     c.SignOf(ephemeris.Neptune),
		PlutoSign:       c.SignOf(ephemeris.Pluto),
		RisingSign:      c.SignOf(ephemeris.Ascendant),
		MidheavenSign:   c.SignOf(ephemeris.Midheaven),
		DominantElement: c.DominantElement,
		Mode:            c.DominantMode,
	}
}

// handleChart serves GET /astrology/chart. It geocodes the birth location,
// computes the natal chart and archives it when a store is configured.
func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := astlog.WithComponentFromContext(ctx, "api")

	q := r.URL.Query()
	name := q.Get("name")
	date := q.Get("date")
	clock := q.Get("time")
	location := q.Get("location")
	tz := q.Get("tz")
	if tz == "" {
		tz = s.cfg.DefaultUTCOffset
	}

	for _, p := range []struct{ name, value string }{
		{"date", date}, {"time", clock}, {"location", location},
	} {
		if p.value == "" {
			writeError(w, http.StatusBadRequest, "missing required parameter: "+p.name)
			return
		}
	}

	// Reject bad date/time/tz before spending a geocoder call.
	if _, err := ephemeris.ParseBirthInstant(date, clock, tz); err != nil {
		logger.Warn().Err(err).Str(astlog.FieldEvent, "chart.invalid_input").Msg("invalid birth instant")
		writeError(w, http.StatusBadRequest, "invalid date, time or tz")
		return
	}

	coords, err := s.resolver.Resolve(ctx, location)
	if err != nil {
		switch {
		case errors.Is(err, geocode.ErrNotFound):
			writeLocationNotFound(w)
		case errors.Is(err, geocode.ErrRateLimited), errors.Is(err, geocode.ErrCircuitOpen):
			writeServiceUnavailable(w, "geocoding temporarily unavailable")
		default:
			logger.Error().Err(err).
				Str(astlog.FieldEvent, "chart.geocode_failed").
				Str(astlog.FieldLocation, location).
				Msg("geocoding failed")
			writeServiceUnavailable(w, "geocoding temporarily unavailable")
		}
		return
	}

	start := time.Now()
	chart, err := astro.Compute(astro.BirthData{
		Name:      name,
		Date:      date,
		Time:      clock,
		Location:  location,
		Latitude:  coords.Latitude,
		Longitude: coords.Longitude,
		UTCOffset: tz,
	})
	if err != nil {
		metrics.IncChartComputed("failure")
		if errors.Is(err, ephemeris.ErrPolarLatitude) {
			writeError(w, http.StatusBadRequest, "latitude too close to the poles for chart angles")
			return
		}
		logger.Error().Err(err).Str(astlog.FieldEvent, "chart.compute_failed").Msg("chart computation failed")
		writeError(w, http.StatusInternalServerError, "chart computation failed")
		return
	}
	metrics.IncChartComputed("success")
	metrics.ObserveChartCompute(time.Since(start).Seconds())

	if s.charts != nil {
		// Archive write is best effort; the chart response does not
		// depend on it.
		if id, saveErr := s.charts.Save(ctx, chart); saveErr != nil {
			logger.Warn().Err(saveErr).Str(astlog.FieldEvent, "chart.archive_failed").Msg("failed to archive chart")
		} else {
			// Carry the chart ID so the completion log correlates with
			// the archive entry.
			ctx = astlog.ContextWithChartID(ctx, id)
			logger = astlog.WithComponentFromContext(ctx, "api")
			w.Header().Set("X-Chart-Id", id)
		}
	}

	logger.Info().
		Str(astlog.FieldEvent, "chart.computed").
		Str(astlog.FieldLocation, location).
		Str(astlog.FieldSign, string(chart.SignOf(ephemeris.Sun))).
		Msg("chart computed")

	writeJSON(w, http.StatusOK, toChartResponse(chart))
}

// positionsResponse carries raw ecliptic longitudes for one instant.
type positionsResponse struct {
	Date      string            `json:"date"`
	Time      string            `json:"time"`
	JulianDay float64           `json:"julian_day"`
	Positions []astro.Placement `json:"positions"`
}

// handlePositions serves GET /astrology/positions: planetary longitudes
// without the geocoding step. Latitude and longitude are optional; when
// both are given the chart angles are included.
func (s *Server) handlePositions(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	date := q.Get("date")
	clock := q.Get("time")
	tz := q.Get("tz")
	if tz == "" {
		tz = s.cfg.DefaultUTCOffset
	}

	for _, p := range []struct{ name, value string }{
		{"date", date}, {"time", clock},
	} {
		if p.value == "" {
			writeError(w, http.StatusBadRequest, "missing required parameter: "+p.name)
			return
		}
	}

	utc, err := ephemeris.ParseBirthInstant(date, clock, tz)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid date, time or tz")
		return
	}
	jd := ephemeris.JulianDay(utc)

	positions := make([]astro.Placement, 0, len(ephemeris.Planets)+2)
	for _, body := range ephemeris.Planets {
		lon, err := ephemeris.BodyLongitude(body, jd)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "position computation failed")
			return
		}
		positions = append(positions, astro.Placement{
			Body:      body,
			Longitude: lon,
			Sign:      astro.SignFromLongitude(lon),
			Degree:    astro.DegreeInSign(lon),
		})
	}

	latStr, lonStr := q.Get("lat"), q.Get("lon")
	if latStr != "" && lonStr != "" {
		lat, latErr := strconv.ParseFloat(latStr, 64)
		lon, lonErr := strconv.ParseFloat(lonStr, 64)
		if latErr != nil || lonErr != nil {
			writeError(w, http.StatusBadRequest, "invalid lat or lon")
			return
		}
		angles, err := ephemeris.ChartAngles(jd, lat, lon)
		if err != nil {
			if errors.Is(err, ephemeris.ErrPolarLatitude) {
				writeError(w, http.StatusBadRequest, "latitude too close to the poles for chart angles")
				return
			}
			writeError(w, http.StatusInternalServerError, "angle computation failed")
			return
		}
		for _, p := range []struct {
			body ephemeris.Body
			lon  float64
		}{
			{ephemeris.Ascendant, angles.Ascendant},
			{ephemeris.Midheaven, angles.Midheaven},
		} {
			positions = append(positions, astro.Placement{
				Body:      p.body,
				Longitude: p.lon,
				Sign:      astro.SignFromLongitude(p.lon),
				Degree:    astro.DegreeInSign(p.lon),
			})
		}
	}

	writeJSON(w, http.StatusOK, positionsResponse{
		Date:      date,
		Time:      clock,
		JulianDay: jd,
		Positions: positions,
	})
}

// handleChartList serves GET /astrology/charts.
func (s *Server) handleChartList(w http.ResponseWriter, r *http.Request) {
	if s.charts == nil {
		writeServiceUnavailable(w, "chart archive disabled")
		return
	}

	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = n
	}

	entries, err := s.charts.Recent(r.Context(), limit)
	if err != nil {
		s.logger.Error().Err(err).Str(astlog.FieldEvent, "charts.list_failed").Msg("failed to list charts")
		writeError(w, http.StatusInternalServerError, "failed to list charts")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"charts": entries})
}

// handleChartByID serves GET /astrology/charts/{id}.
func (s *Server) handleChartByID(w http.ResponseWriter, r *http.Request) {
	if s.charts == nil {
		writeServiceUnavailable(w, "chart archive disabled")
		return
	}

	id := chi.URLParam(r, "id")
	entry, err := s.charts.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeNotFound(w)
			return
		}
		s.logger.Error().Err(err).
			Str(astlog.FieldEvent, "charts.get_failed").
			Str(astlog.FieldChartID, id).
			Msg("failed to load chart")
		writeError(w, http.StatusInternalServerError, "failed to load chart")
		return
	}
	writeJSON(w, http.StatusOK, entry)
}
