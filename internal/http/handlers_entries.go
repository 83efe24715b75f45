package http

import (
	"net/http"

	"github.com/Rapou7/YonkiStats/internal/core"
	applog "github.com/Rapou7/YonkiStats/internal/log"
	"github.com/shopspring/decimal"
)

// entryRequest is the mutable subset of an entry accepted on create and
// update. IDs are always server-assigned.
type entryRequest struct {
	Date        string          `json:"date"`
	AmountSpent decimal.Decimal `json:"amountSpent"`
	Grams       decimal.Decimal `json:"grams"`
	Source      string          `json:"source"`
	Type        string          `json:"type"`
	Category    core.Category   `json:"category"`
	Notes       string          `json:"notes,omitempty"`
}

func (er entryRequest) entry() core.Entry {
	return core.Entry{
		Date:        er.Date,
		AmountSpent: er.AmountSpent,
		Grams:       er.Grams,
		Source:      er.Source,
		Type:        er.Type,
		Category:    er.Category,
		Notes:       er.Notes,
	}
}

func (s *Server) handleListEntries(w http.ResponseWriter, r *http.Request) {
	entries, err := s.repo.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	if entries == nil {
		entries = []core.Entry{}
	}
	writeJSON(w, http.StatusOK, entries)
}

func (s *Server) handleCreateEntry(w http.ResponseWriter, r *http.Request) {
	var req entryRequest
	if err := decodeJSON(r, &req); err != nil {
		writeErrorBody(w, http.StatusBadRequest, "invalid request body")
		return
	}

	created, err := s.repo.Add(r.Context(), req.entry())
	if err != nil {
		writeError(w, r, err)
		return
	}

	applog.NewStructuredLogger(applog.FromContext(r.Context())).
		LogEntryCreated(r.Context(), created.ID, created.Type, string(created.Category))

	s.flushStatsCaches()
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleUpdateEntry(w http.ResponseWriter, r *http.Request) {
	var req entryRequest
	if err := decodeJSON(r, &req); err != nil {
		writeErrorBody(w, http.StatusBadRequest, "invalid request body")
		return
	}

	e := req.entry()
	e.ID = r.PathValue("id")
	if err := s.repo.Update(r.Context(), e); err != nil {
		writeError(w, r, err)
		return
	}

	s.flushStatsCaches()
	writeJSON(w, http.StatusOK, e)
}

func (s *Server) handleDeleteEntry(w http.ResponseWriter, r *http.Request) {
	if err := s.repo.Remove(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, r, err)
		return
	}
	s.flushStatsCaches()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDeleteAllEntries(w http.ResponseWriter, r *http.Request) {
	if err := s.repo.RemoveAll(r.Context()); err != nil {
		writeError(w, r, err)
		return
	}
	s.flushStatsCaches()
	w.WriteHeader(http.StatusNoContent)
}
