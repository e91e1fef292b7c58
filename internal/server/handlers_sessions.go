package server

import (
	"encoding/json"
	"net/http"

	"github.com/jonathan/training-report/internal/form"
	"github.com/jonathan/training-report/internal/generation"
	"github.com/jonathan/training-report/internal/server/middleware"
	"github.com/jonathan/training-report/internal/types"
)

// SaveRequest is the body of POST /sessions/{id}/save
type SaveRequest struct {
	Overwrite bool `json:"overwrite"`
}

// UndoResponse reports whether anything was undone
type UndoResponse struct {
	generation.Snapshot
	Undone bool `json:"undone"`
}

// session resolves the caller's session from the path
func (s *Server) session(w http.ResponseWriter, r *http.Request) (*generation.Session, middleware.Principal, bool) {
	principal, err := middleware.GetPrincipal(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return nil, principal, false
	}
	sess, err := s.sessions.Get(principal.UserID.String(), r.PathValue("id"))
	if err != nil {
		s.writeError(w, r, err)
		return nil, principal, false
	}
	return sess, principal, true
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	principal, err := middleware.GetPrincipal(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var raw json.RawMessage
	if err := decodeJSON(w, r, &raw, true); err != nil {
		s.writeError(w, r, err)
		return
	}
	f, err := decodeForm(raw)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := form.CheckTools(f); err != nil {
		s.writeError(w, r, err)
		return
	}

	sess := s.sessions.Create(principal.UserID.String(), f)
	s.jsonResponse(w, http.StatusCreated, sess.Snapshot())
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sess, _, ok := s.session(w, r)
	if !ok {
		return
	}
	s.jsonResponse(w, http.StatusOK, sess.Snapshot())
}

func (s *Server) handleUpdateForm(w http.ResponseWriter, r *http.Request) {
	sess, _, ok := s.session(w, r)
	if !ok {
		return
	}
	var patch types.FormPatch
	if err := decodeJSON(w, r, &patch, false); err != nil {
		s.writeError(w, r, err)
		return
	}
	snap, err := sess.UpdateForm(patch)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, snap)
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	sess, _, ok := s.session(w, r)
	if !ok {
		return
	}
	var req types.GenerateRequest
	if err := decodeJSON(w, r, &req, true); err != nil {
		s.writeError(w, r, err)
		return
	}
	snap, err := sess.Generate(r.Context(), req.NewVariant)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, snap)
}

func (s *Server) handleSetText(w http.ResponseWriter, r *http.Request) {
	sess, _, ok := s.session(w, r)
	if !ok {
		return
	}
	var req types.EditTextRequest
	if err := decodeJSON(w, r, &req, false); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, sess.SetText(req.Text))
}

func (s *Server) handleSwitchTab(w http.ResponseWriter, r *http.Request) {
	sess, _, ok := s.session(w, r)
	if !ok {
		return
	}
	var req types.SwitchTabRequest
	if err := decodeJSON(w, r, &req, false); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := req.Validate(); err != nil {
		s.writeError(w, r, err)
		return
	}
	snap, err := sess.SwitchTab(req.Tab)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, snap)
}

func (s *Server) handleRefine(w http.ResponseWriter, r *http.Request) {
	sess, _, ok := s.session(w, r)
	if !ok {
		return
	}
	var req types.RefineRequest
	if err := decodeJSON(w, r, &req, false); err != nil {
		s.writeError(w, r, err)
		return
	}
	snap, err := sess.Refine(r.Context(), req.Instruction)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, snap)
}

func (s *Server) handleUndo(w http.ResponseWriter, r *http.Request) {
	sess, _, ok := s.session(w, r)
	if !ok {
		return
	}
	snap, undone := sess.Undo()
	s.jsonResponse(w, http.StatusOK, UndoResponse{Snapshot: snap, Undone: undone})
}

func (s *Server) handleSave(w http.ResponseWriter, r *http.Request) {
	sess, principal, ok := s.session(w, r)
	if !ok {
		return
	}
	var req SaveRequest
	if err := decodeJSON(w, r, &req, true); err != nil {
		s.writeError(w, r, err)
		return
	}
	entry, err := sess.Save(r.Context(), s.history, principal.UserID.String(), req.Overwrite)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	status := http.StatusCreated
	if req.Overwrite {
		status = http.StatusOK
	}
	s.jsonResponse(w, status, entry)
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	principal, err := middleware.GetPrincipal(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	if err := s.sessions.Delete(principal.UserID.String(), r.PathValue("id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
