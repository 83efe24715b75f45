package http

import (
	"io"
	"log/slog"
	"net/http"
	"time"
)

// handleExport streams the full snapshot as a downloadable JSON document.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	snapshot, err := s.repo.ExportAll(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	filename := "yonkistats-export-" + time.Now().UTC().Format("2006-01-02") + ".json"
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	writeJSON(w, http.StatusOK, snapshot)
}

// handleImport replaces both collections with the uploaded document.
func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeErrorBody(w, http.StatusBadRequest, "could not read request body")
		return
	}

	if err := s.repo.ImportAll(r.Context(), payload); err != nil {
		writeError(w, r, err)
		return
	}

	s.flushStatsCaches()
	slog.InfoContext(r.Context(), "Import completed", "bytes", len(payload))
	w.WriteHeader(http.StatusNoContent)
}
