package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"tubemp3/core/resolver"
	"tubemp3/logger"
)

// errorResponse is the uniform error body: a machine-readable code plus an
// optional human-readable detail. No stack traces are exposed.
type errorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Error("failed to encode response", logger.ErrorField(err))
	}
}

func writeError(w http.ResponseWriter, status int, code, details string) {
	writeJSON(w, status, errorResponse{Error: code, Details: details})
}

// resolutionStatus maps a resolution failure to an HTTP status and error
// code: not-found → 404, everything else → 500 with detail.
func resolutionStatus(err error) (int, string) {
	var rerr *resolver.ResolutionError
	if errors.As(err, &rerr) {
		switch rerr.Kind {
		case resolver.KindNotFound:
			return http.StatusNotFound, "video_not_found"
		case resolver.KindRateLimited:
			return http.StatusInternalServerError, "rate_limited"
		case resolver.KindMalformed:
			return http.StatusInternalServerError, "malformed_response"
		}
	}
	return http.StatusInternalServerError, "resolution_failed"
}
