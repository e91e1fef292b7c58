package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/jonathan/training-report/internal/config"
	"github.com/jonathan/training-report/internal/drafting"
	"github.com/jonathan/training-report/internal/gateway"
	"github.com/jonathan/training-report/internal/generation"
	"github.com/jonathan/training-report/internal/history"
	"github.com/jonathan/training-report/internal/server/ratelimit"
	"github.com/jonathan/training-report/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testUser     = "trainer"
	testPassword = "correct-horse-battery"
	testSecret   = "test-secret-key-for-jwt-signing"
)

// stubGateway answers deterministically without a model
type stubGateway struct {
	mu       sync.Mutex
	polished int
	refineFn func(req gateway.RefineRequest) (string, error)
}

func (g *stubGateway) Polish(_ context.Context, req gateway.PolishRequest) (string, error) {
	g.mu.Lock()
	g.polished++
	g.mu.Unlock()
	return fmt.Sprintf("polished %s v%d", req.Length, req.VariantID), nil
}

func (g *stubGateway) Refine(_ context.Context, req gateway.RefineRequest) (string, error) {
	if g.refineFn != nil {
		return g.refineFn(req)
	}
	return req.Text + " (" + req.Instruction + ")", nil
}

type testEnv struct {
	server  *Server
	handler http.Handler
	history *history.Service
	gateway *stubGateway
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	pw := &config.PasswordConfig{BcryptCost: 10}
	hash, err := pw.HashPassword(testPassword)
	require.NoError(t, err)

	gw := &stubGateway{}
	rng := drafting.NewSeededSource(7)
	orch := generation.NewOrchestrator(drafting.NewSynthesizer(rng), gw, rng)
	svc := history.NewService(history.NewMemoryStore())

	s, err := New(Options{
		History:   svc,
		Sessions:  generation.NewManager(orch, time.Hour, 0),
		Auth:      &config.AuthConfig{Username: testUser, PasswordHash: hash, Password: pw},
		JWT:       &config.JWTConfig{Secret: testSecret, ExpirationHours: 1, Issuer: config.TokenIssuer},
		RateLimit: &ratelimit.Config{Enabled: false},
	})
	require.NoError(t, err)
	t.Cleanup(s.Close)

	return &testEnv{server: s, handler: s.Handler(), history: svc, gateway: gw}
}

// do sends an authenticated request and returns the recorder
func (e *testEnv) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(testUser, testPassword)
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func validForm() types.FormData {
	f := types.NewFormData()
	f.UserName = "山田 太郎"
	f.MainTool = "ChatGPT"
	f.JobRole = "営業"
	f.JobTasks = []string{"顧客開拓"}
	f.JobFlow = "訪問と提案"
	f.LearningPoints = []string{"要約"}
	return f
}

func TestNew_RequiresCollaborators(t *testing.T) {
	_, err := New(Options{})
	assert.Error(t, err)
}

func TestHealth_NoAuth(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	env.handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	body := decode[map[string]any](t, rec)
	assert.Equal(t, "ok", body["status"])
}

func TestProtectedRoutes_RequireAuth(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name   string
		method string
		path   string
	}{
		{"catalog", http.MethodGet, "/catalog"},
		{"history", http.MethodGet, "/history"},
		{"sessions", http.MethodPost, "/sessions"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			rec := httptest.NewRecorder()
			env.handler.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Contains(t, rec.Header().Get("WWW-Authenticate"), "Basic")
		})
	}
}

func TestBasicAuth_WrongPassword(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest(http.MethodGet, "/catalog", nil)
	req.SetBasicAuth(testUser, "wrong")
	rec := httptest.NewRecorder()
	env.handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLogin_IssuesUsableToken(t *testing.T) {
	env := newTestEnv(t)

	body, _ := json.Marshal(types.LoginRequest{Username: testUser, Password: testPassword})
	req := httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	env.handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	login := decode[LoginResponse](t, rec)
	assert.NotEmpty(t, login.Token)
	assert.Equal(t, testUser, login.Username)

	req = httptest.NewRequest(http.MethodGet, "/catalog", nil)
	req.Header.Set("Authorization", "Bearer "+login.Token)
	rec = httptest.NewRecorder()
	env.handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestLogin_InvalidCredentials(t *testing.T) {
	env := newTestEnv(t)

	body, _ := json.Marshal(types.LoginRequest{Username: testUser, Password: "nope"})
	req := httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	env.handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCORS_Preflight(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest(http.MethodOptions, "/sessions", nil)
	rec := httptest.NewRecorder()
	env.handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestCatalog(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/catalog", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	cat := decode[CatalogResponse](t, rec)
	assert.Len(t, cat.Trainings, 4)
	assert.NotEmpty(t, cat.Roles)
	assert.Len(t, cat.RoleOptions, len(cat.Roles))
	assert.NotEmpty(t, cat.Personalities)
	assert.NotEmpty(t, cat.BannedPhrases)
	assert.Len(t, cat.KPIUnits, 3)
}

func TestLearningPoints_ByIDAndName(t *testing.T) {
	env := newTestEnv(t)

	byID := env.do(t, http.MethodGet, "/catalog/trainings/tr-01/learning-points?tools=ChatGPT", nil)
	require.Equal(t, http.StatusOK, byID.Code)
	points := decode[map[string]any](t, byID)
	assert.NotEmpty(t, points["learningPoints"])

	byName := env.do(t, http.MethodGet, "/catalog/trainings/"+url.PathEscape(string(types.TrainingAIPractice))+"/learning-points?tools=ChatGPT", nil)
	require.Equal(t, http.StatusOK, byName.Code)
	assert.JSONEq(t, byID.Body.String(), byName.Body.String())

	missing := env.do(t, http.MethodGet, "/catalog/trainings/tr-99/learning-points", nil)
	assert.Equal(t, http.StatusNotFound, missing.Code)
}

func TestDraft(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/drafts", map[string]any{"form": validForm(), "variantId": 3})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	draft := decode[DraftResponse](t, rec)
	assert.Equal(t, 3, draft.VariantID)
	assert.NotEmpty(t, draft.Skeleton)
	assert.Contains(t, draft.Draft, "ChatGPT")
	assert.Zero(t, env.gateway.polished, "drafts never call the model")
}

func TestDraft_RollsVariant(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/drafts", map[string]any{"form": validForm()})
	require.Equal(t, http.StatusOK, rec.Code)

	draft := decode[DraftResponse](t, rec)
	assert.GreaterOrEqual(t, draft.VariantID, 1)
	assert.LessOrEqual(t, draft.VariantID, generation.MaxVariant)
}

func TestDraft_RejectsInvalidDocuments(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name string
		body string
	}{
		{"empty body", ""},
		{"malformed json", `{"form":`},
		{"unknown field", `{"form":{"userName":"a","shoeSize":42}}`},
		{"bad training", `{"form":{"trainingType":"料理編"}}`},
		{"variant too large", `{"form":{"userName":"a"},"variantId":11}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := env.do(t, http.MethodPost, "/drafts", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
		})
	}
}

func TestSplitList(t *testing.T) {
	assert.Nil(t, splitList(""))
	assert.Equal(t, []string{"a", "b"}, splitList(" a, ,b ,"))
}
