package http

import (
	"net/http"
	"time"

	"github.com/Rapou7/YonkiStats/internal/core"
)

func (s *Server) handleListFavorites(w http.ResponseWriter, r *http.Request) {
	favorites, err := s.repo.ListFavorites(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	if favorites == nil {
		favorites = []core.Entry{}
	}
	writeJSON(w, http.StatusOK, favorites)
}

func (s *Server) handleCreateFavorite(w http.ResponseWriter, r *http.Request) {
	var req entryRequest
	if err := decodeJSON(r, &req); err != nil {
		writeErrorBody(w, http.StatusBadRequest, "invalid request body")
		return
	}

	created, err := s.repo.AddFavorite(r.Context(), req.entry())
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleDeleteFavorite(w http.ResponseWriter, r *http.Request) {
	if err := s.repo.RemoveFavorite(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleQuickAdd logs a new entry from a favorite template, dated now.
func (s *Server) handleQuickAdd(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	favorites, err := s.repo.ListFavorites(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	var fav *core.Entry
	for i := range favorites {
		if favorites[i].ID == id {
			fav = &favorites[i]
			break
		}
	}
	if fav == nil {
		writeErrorBody(w, http.StatusNotFound, "favorite not found")
		return
	}

	created, err := s.repo.Add(r.Context(), core.Entry{
		Date:        time.Now().UTC().Format(time.RFC3339),
		AmountSpent: fav.AmountSpent,
		Grams:       fav.Grams,
		Source:      fav.Source,
		Type:        fav.Type,
		Category:    fav.Category,
		Notes:       fav.Notes,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	s.flushStatsCaches()
	writeJSON(w, http.StatusCreated, created)
}
