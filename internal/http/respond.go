package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/Rapou7/YonkiStats/internal/core"
	"github.com/Rapou7/YonkiStats/internal/prefs"
	"github.com/Rapou7/YonkiStats/internal/stats"
)

type errorBody struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Response encoding failed", "error", err)
	}
}

func writeErrorBody(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorBody{Error: msg})
}

// writeError maps domain errors onto HTTP statuses. Unknown errors are
// treated as internal and logged, never echoed to the client.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, core.ErrMalformedPayload),
		errors.Is(err, stats.ErrInvalidPeriod):
		writeErrorBody(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, core.ErrInvalidRecord),
		errors.Is(err, core.ErrInvalidCategory),
		errors.Is(err, core.ErrEmptyType),
		errors.Is(err, core.ErrNegativeAmount),
		errors.Is(err, core.ErrNegativeGrams),
		errors.Is(err, prefs.ErrInvalidLanguage),
		errors.Is(err, prefs.ErrInvalidThemeColor):
		writeErrorBody(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, core.ErrCapacityExceeded):
		writeErrorBody(w, http.StatusConflict, err.Error())
	default:
		slog.ErrorContext(r.Context(), "Request failed",
			"error", err, "method", r.Method, "url", r.URL.Path)
		writeErrorBody(w, http.StatusInternalServerError, "internal error")
	}
}

// decodeJSON decodes a request body into v, rejecting unknown fields.
func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

// maxBodyBytes bounds request bodies; import payloads are the largest
// legitimate input and stay well under this.
const maxBodyBytes = 10 << 20
