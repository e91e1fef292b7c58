package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/jonathan/training-report/internal/catalog"
	"github.com/jonathan/training-report/internal/drafting"
	"github.com/jonathan/training-report/internal/generation"
	"github.com/jonathan/training-report/internal/scoring"
	"github.com/jonathan/training-report/internal/schemas"
	"github.com/jonathan/training-report/internal/types"
)

// maxBodyBytes caps request bodies
const maxBodyBytes = 1 << 20

// CatalogResponse is the reference data behind the questionnaire
type CatalogResponse struct {
	Trainings         []catalog.Training             `json:"trainings"`
	Roles             []string                       `json:"roles"`
	RoleOptions       map[string]catalog.RoleOptions `json:"roleOptions"`
	Personalities     []catalog.Personality          `json:"personalities"`
	RefineSuggestions []string                       `json:"refineSuggestions"`
	Synonyms          map[string][]string            `json:"synonyms"`
	BannedPhrases     []catalog.Replacement          `json:"bannedPhrases"`
	KPITypes          []string                       `json:"kpiTypes"`
	KPIUnits          []catalog.KPIUnit              `json:"kpiUnits"`
}

// DraftRequest is the body of POST /drafts
type DraftRequest struct {
	Form      json.RawMessage `json:"form"`
	VariantID int             `json:"variantId,omitempty"`
}

// DraftResponse carries a draft built without calling the model
type DraftResponse struct {
	VariantID int            `json:"variantId"`
	Skeleton  string         `json:"skeleton"`
	Draft     string         `json:"draft"`
	Quality   scoring.Result `json:"quality"`
}

func (s *Server) handleCatalog(w http.ResponseWriter, _ *http.Request) {
	roles := catalog.Roles()
	options := make(map[string]catalog.RoleOptions, len(roles))
	for _, role := range roles {
		options[role] = catalog.OptionsForRole(role)
	}

	s.jsonResponse(w, http.StatusOK, CatalogResponse{
		Trainings:         catalog.Trainings(),
		Roles:             roles,
		RoleOptions:       options,
		Personalities:     catalog.Personalities(),
		RefineSuggestions: catalog.RefineSuggestions(),
		Synonyms:          catalog.Synonyms(),
		BannedPhrases:     catalog.BannedPhrases(),
		KPITypes:          catalog.KPITypes(),
		KPIUnits:          catalog.KPIUnits(),
	})
}

// handleLearningPoints accepts the training by id (tr-01) or name
func (s *Server) handleLearningPoints(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("training")
	var training types.TrainingType
	for _, t := range catalog.Trainings() {
		if t.ID == key || string(t.Name) == key {
			training = t.Name
			break
		}
	}
	if training == "" {
		s.errorResponse(w, http.StatusNotFound, "Unknown training: "+key)
		return
	}

	tools := splitList(r.URL.Query().Get("tools"))
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"training":       training,
		"tools":          tools,
		"learningPoints": catalog.LearningPointsFor(training, tools),
	})
}

func (s *Server) handleDraft(w http.ResponseWriter, r *http.Request) {
	var req DraftRequest
	if err := decodeJSON(w, r, &req, false); err != nil {
		s.writeError(w, r, err)
		return
	}
	f, err := decodeForm(req.Form)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	orch := s.sessions.Orchestrator()
	variant := req.VariantID
	if variant <= 0 {
		variant = orch.RollVariant()
	}
	if variant > generation.MaxVariant {
		s.writeError(w, r, &ErrValidation{Field: "variantId", Message: "must be between 1 and 10"})
		return
	}

	draft, quality := orch.Draft(f, variant)
	s.jsonResponse(w, http.StatusOK, DraftResponse{
		VariantID: variant,
		Skeleton:  drafting.SkeletonFor(variant).String(),
		Draft:     draft,
		Quality:   quality,
	})
}

// decodeJSON reads a JSON body into dst. An empty body is accepted when
// optional is set.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any, optional bool) error {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		return &ErrBadRequest{Err: err}
	}
	if len(bytes.TrimSpace(body)) == 0 {
		if optional {
			return nil
		}
		return &ErrBadRequest{Err: errors.New("request body is empty")}
	}
	if err := json.Unmarshal(body, dst); err != nil {
		return &ErrBadRequest{Err: err}
	}
	return nil
}

// decodeForm checks a raw FormData document against the schema and decodes
// it over the defaults. An absent document yields an empty form.
func decodeForm(raw json.RawMessage) (types.FormData, error) {
	f := types.NewFormData()
	if len(bytes.TrimSpace(raw)) == 0 || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return f, nil
	}
	if err := schemas.ValidateForm(raw); err != nil {
		return f, err
	}
	if err := json.Unmarshal(raw, &f); err != nil {
		return f, &ErrBadRequest{Err: err}
	}
	normalizeForm(&f)
	return f, nil
}

// normalizeForm fills in what a partial document leaves unset
func normalizeForm(f *types.FormData) {
	if f.TrainingType == "" {
		f.TrainingType = types.TrainingAIPractice
	}
	if f.Personality == "" {
		f.Personality = types.DefaultPersonality
	}
	*f = f.Clone()
}
