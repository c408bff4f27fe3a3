package server

import (
	"net/http"
	"strconv"
	"strings"

	"brewbook/internal/api"
	"brewbook/internal/brewcalc"
	"brewbook/internal/recipe"
	"brewbook/internal/srm"
)

func (s *Server) handleCalcABV(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	og := recipe.ParseStat(q.Get("og"))
	fg := recipe.ParseStat(q.Get("fg"))
	abv, ok := brewcalc.ABVFromPointers(og, fg)
	s.writeJSON(w, http.StatusOK, api.ABVResponse{OG: og, FG: fg, ABV: api.String(abv, ok)})
}

// handleCalcIBU estimates bitterness either for a stored recipe (GET with
// slug) or for an explicit hop schedule (POST body).
func (s *Server) handleCalcIBU(w http.ResponseWriter, r *http.Request) {
	var (
		req  api.IBURequest
		slug string
	)
	if r.Method == http.MethodPost {
		if !s.decodeBody(w, r, &req) {
			return
		}
	} else {
		q := r.URL.Query()
		slug = strings.TrimSpace(q.Get("slug"))
		if slug == "" {
			s.writeError(w, http.StatusBadRequest, "slug is required; POST a hop schedule to calculate ad hoc")
			return
		}
		rec, err := s.app.Catalog.Get(r.Context(), slug)
		if err != nil {
			s.writeFailure(w, r, err)
			return
		}
		req.OG = rec.Stats.OG
		req.Hops = brewcalc.HopAdditions(rec.Hops)
		if og := recipe.ParseStat(q.Get("og")); og != nil {
			req.OG = og
		}
		req.BoilVolumeL = recipe.ParseStat(q.Get("volume"))
	}

	volume := s.cfg.Brewing.DefaultBoilVolumeL
	if req.BoilVolumeL != nil {
		volume = *req.BoilVolumeL
	}
	resp := api.IBUResponse{Slug: slug, OG: req.OG, BoilVolumeL: volume, BoilHops: countBoil(req.Hops)}
	if req.OG != nil {
		resp.IBU = api.Float(brewcalc.TinsethIBU(req.Hops, *req.OG, volume))
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func countBoil(hops []brewcalc.HopAddition) int {
	n := 0
	for _, h := range hops {
		if h.Use == recipe.HopUseBoil {
			n++
		}
	}
	return n
}

func (s *Server) handleCalcGravity(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	resp := api.GravityResponse{
		Measured:         recipe.ParseStat(q.Get("sg")),
		SampleTempC:      recipe.ParseStat(q.Get("temp")),
		CalibrationTempC: s.cfg.Brewing.CalibrationTempC,
	}
	if raw := strings.TrimSpace(q.Get("calibration")); raw != "" {
		cal := recipe.ParseStat(raw)
		if cal == nil {
			s.writeJSON(w, http.StatusOK, resp)
			return
		}
		resp.CalibrationTempC = *cal
	}
	if resp.Measured != nil && resp.SampleTempC != nil {
		resp.Corrected = api.Float(brewcalc.CorrectGravityC(*resp.Measured, *resp.SampleTempC, resp.CalibrationTempC))
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleColor(w http.ResponseWriter, r *http.Request) {
	raw := r.PathValue("srm")
	value, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "srm must be a number")
		return
	}
	resp := api.ColorResponse{SRM: value, Hex: srm.FallbackHex}
	if entry, ok := s.app.Colors.Match(value); ok {
		resp.Hex = entry.Hex
		resp.Description = entry.Description
		resp.Matched = true
	}
	s.writeJSON(w, http.StatusOK, resp)
}
