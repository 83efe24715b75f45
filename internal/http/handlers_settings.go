package http

import (
	"net/http"

	"github.com/Rapou7/YonkiStats/internal/i18n"
	"github.com/Rapou7/YonkiStats/internal/prefs"
)

type settingsResponse struct {
	prefs.Settings
	AvailableColors []string `json:"availableColors"`
}

// settingsRequest carries a partial update; empty fields are untouched.
type settingsRequest struct {
	Language   string `json:"language,omitempty"`
	ThemeColor string `json:"themeColor,omitempty"`
}

func (s *Server) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, settingsResponse{
		Settings:        s.prefs.Current(),
		AvailableColors: prefs.AvailableColors,
	})
}

func (s *Server) handleUpdateSettings(w http.ResponseWriter, r *http.Request) {
	var req settingsRequest
	if err := decodeJSON(r, &req); err != nil {
		writeErrorBody(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Language != "" {
		if err := s.prefs.SetLanguage(r.Context(), i18n.Locale(req.Language)); err != nil {
			writeError(w, r, err)
			return
		}
		// Series labels are locale-dependent.
		s.seriesCache.Flush()
	}
	if req.ThemeColor != "" {
		if err := s.prefs.SetThemeColor(r.Context(), req.ThemeColor); err != nil {
			writeError(w, r, err)
			return
		}
	}

	writeJSON(w, http.StatusOK, settingsResponse{
		Settings:        s.prefs.Current(),
		AvailableColors: prefs.AvailableColors,
	})
}
