package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"brewbook/internal/api"
	"brewbook/internal/catalog"
	"brewbook/internal/logging"
)

const maxBodyBytes = 1 << 20

type errorBody = api.ErrorResponse

func writeJSONStatus(w http.ResponseWriter, status int, payload any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return nil
	}
	return json.NewEncoder(w).Encode(payload)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload any) {
	if err := writeJSONStatus(w, status, payload); err != nil {
		s.logger.Error("failed to encode response", logging.Error(err))
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, errorBody{Error: message})
}

// writeFailure maps a catalog failure to a status code and its user message.
func (s *Server) writeFailure(w http.ResponseWriter, r *http.Request, err error) {
	status := statusForKind(catalog.KindOf(err))
	if status >= http.StatusInternalServerError {
		logging.ErrorWithContext(logging.WithContext(r.Context(), s.logger), "request failed", "api_request_failed",
			logging.String("method", r.Method),
			logging.String("path", r.URL.Path),
			logging.Error(err),
		)
	}
	s.writeError(w, status, catalog.UserMessage(err, http.StatusText(status)))
}

func statusForKind(kind string) int {
	switch kind {
	case catalog.KindNotFound, catalog.KindUnavailable:
		return http.StatusNotFound
	case catalog.KindValidation:
		return http.StatusBadRequest
	case catalog.KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// decodeBody reads a JSON request body into dst. It writes the error reply
// itself and reports whether decoding succeeded.
func (s *Server) decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(body)
	if err := dec.Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
			return false
		}
		s.writeError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return false
	}
	return true
}
