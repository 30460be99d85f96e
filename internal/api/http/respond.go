package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/mind-engage/skillassist/internal/db"
	"github.com/mind-engage/skillassist/internal/results"
	"github.com/mind-engage/skillassist/internal/skill"
	"github.com/mind-engage/skillassist/internal/students"
)

const maxBodyBytes = 1 << 20

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("bad json: %w", err)
	}
	return nil
}

// statusFor maps domain errors onto HTTP. Everything unrecognised is a 500.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, skill.ErrUnknownTrack):
		return http.StatusBadRequest, "unknown track"
	case errors.Is(err, students.ErrInvalidRegistration):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, students.ErrInvalidCredentials):
		return http.StatusUnauthorized, students.ErrInvalidCredentials.Error()
	case errors.Is(err, students.ErrDuplicateIdentity):
		return http.StatusConflict, students.ErrDuplicateIdentity.Error()
	case errors.Is(err, students.ErrNotFound), errors.Is(err, results.ErrUnknownStudent):
		return http.StatusNotFound, "student not found"
	case errors.Is(err, db.ErrUnavailable):
		return http.StatusServiceUnavailable, "store unavailable"
	}
	return http.StatusInternalServerError, "internal error"
}

func fail(w http.ResponseWriter, r *http.Request, err error) {
	status, msg := statusFor(err)
	if status >= http.StatusInternalServerError {
		loggerFrom(r.Context()).ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "status", status, "error", err)
	}
	writeError(w, status, msg)
}
