package server

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/jonathan/training-report/internal/export"
	"github.com/jonathan/training-report/internal/history"
	"github.com/jonathan/training-report/internal/server/middleware"
	"github.com/jonathan/training-report/internal/types"
)

func (s *Server) handleListHistory(w http.ResponseWriter, r *http.Request) {
	opts := history.ListOptions{Status: types.EntryStatus(r.URL.Query().Get("status"))}
	if opts.Status != "" && !opts.Status.IsValid() {
		s.writeError(w, r, &ErrValidation{Field: "status", Message: "unknown status " + string(opts.Status)})
		return
	}
	if v := r.URL.Query().Get("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil || limit < 0 {
			s.writeError(w, r, &ErrValidation{Field: "limit", Message: "must be a non-negative integer"})
			return
		}
		opts.Limit = limit
	}

	entries, err := s.history.List(r.Context(), opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{"entries": entries, "count": len(entries)})
}

func (s *Server) handleGetHistory(w http.ResponseWriter, r *http.Request) {
	entry, err := s.history.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, entry)
}

// handleResumeHistory opens a saved entry in a new editing session
func (s *Server) handleResumeHistory(w http.ResponseWriter, r *http.Request) {
	principal, err := middleware.GetPrincipal(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	entry, err := s.history.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	sess := s.sessions.Resume(principal.UserID.String(), entry)
	s.jsonResponse(w, http.StatusCreated, sess.Snapshot())
}

func (s *Server) handleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req types.UpdateStatusRequest
	if err := decodeJSON(w, r, &req, false); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := req.Validate(); err != nil {
		s.writeError(w, r, err)
		return
	}
	entry, err := s.history.Transition(r.Context(), r.PathValue("id"), req.Status)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, entry)
}

func (s *Server) handleDeleteHistory(w http.ResponseWriter, r *http.Request) {
	var req types.DeleteEntriesRequest
	if err := decodeJSON(w, r, &req, false); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := req.Validate(); err != nil {
		s.writeError(w, r, err)
		return
	}
	n, err := s.history.Delete(r.Context(), req.IDs)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]int{"deleted": n})
}

// handleExportHistory renders the selected entries (all when ids is empty)
func (s *Server) handleExportHistory(w http.ResponseWriter, r *http.Request) {
	format, err := export.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		s.writeError(w, r, &ErrValidation{Field: "format", Message: err.Error()})
		return
	}
	entries, err := s.history.Select(r.Context(), splitList(r.URL.Query().Get("ids")))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	var buf bytes.Buffer
	if err := export.Write(&buf, format, entries); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", format.Filename(time.Now())))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}
