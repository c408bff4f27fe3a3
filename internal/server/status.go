package server

import (
	"net/http"
	"strconv"
	"time"

	"brewbook/internal/api"
	"brewbook/internal/logs"
)

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	resp := api.StatusResponse{
		Storage:   s.app.Catalog.Driver(),
		StartedAt: api.FormatTime(s.started),
		Uptime:    time.Since(s.started).Round(time.Second).String(),
		Colors: api.ColorStatus{
			Entries: s.app.Colors.Table().Len(),
			Source:  "embedded",
		},
	}
	if path := s.cfg.Colors.TablePath; path != "" {
		resp.Colors.Source = path
	}
	if err := s.app.Colors.Err(); err != nil {
		resp.Colors.Error = err.Error()
	}
	if s.app.Index != nil {
		resp.Index.Enabled = true
		resp.Index.Driver = s.app.Index.Driver()
		count, err := s.app.Index.Count(r.Context())
		if err != nil {
			resp.Index.Error = err.Error()
		}
		resp.Index.Count = count
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleLogs(w http.ResponseWriter, r *http.Request) {
	path := s.cfg.LogFilePath()
	if path == "" {
		s.writeError(w, http.StatusServiceUnavailable, "log file is not configured")
		return
	}
	query := r.URL.Query()
	opts := logs.TailOptions{Offset: -1, Limit: 100}
	if raw := query.Get("offset"); raw != "" {
		offset, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			s.writeError(w, http.StatusBadRequest, "offset must be an integer")
			return
		}
		opts.Offset = offset
	}
	if raw := query.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 0 {
			s.writeError(w, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
		opts.Limit = limit
	}
	result, err := logs.Tail(r.Context(), path, opts)
	if err != nil {
		s.writeFailure(w, r, err)
		return
	}
	if result.Lines == nil {
		result.Lines = []string{}
	}
	s.writeJSON(w, http.StatusOK, result)
}
