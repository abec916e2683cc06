package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"asha-backend/internal/analytics"
	"asha-backend/internal/auth"
	"asha-backend/internal/chat"
	"asha-backend/internal/database"
	"asha-backend/internal/llm"
	"asha-backend/internal/messaging"
	"asha-backend/internal/retrieval"
	"asha-backend/pkg/api"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type stubCompleter struct {
	reply string
	err   error
}

func (s *stubCompleter) Complete(ctx context.Context, system string, history []llm.Message) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return s.reply, nil
}

type stubGenerator struct {
	summary string
	err     error
}

func (s *stubGenerator) Generate(ctx context.Context, systemPrompt, prompt string) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return s.summary, nil
}

type testEnv struct {
	db     *gorm.DB
	router chi.Router
	queue  *messaging.InMemoryQueue
	issuer *auth.TokenIssuer
}

func newTestEnv(t *testing.T, completer llm.Completer, generator InsightsGenerator) *testEnv {
	t.Helper()

	db, err := database.NewDatabase(filepath.Join(t.TempDir(), "api.db"))
	require.NoError(t, err)

	queue := messaging.NewInMemoryQueue()
	go analytics.NewConsumer(db, queue).Start()
	t.Cleanup(queue.Close)

	recorder := analytics.NewRecorder(queue)
	retriever := retrieval.NewRetriever(retrieval.NewExpander(), retrieval.NewLocalStore(db), nil, nil)
	manager := chat.NewChatSessionManager(db, completer, retriever, 10)
	issuer := auth.NewTokenIssuer("test-secret", auth.DefaultTokenTTL)

	r := chi.NewRouter()
	NewChatService(db, manager, recorder).AddRoutes(r)
	NewSearchService(retriever, recorder).AddRoutes(r)
	NewFeedbackService(db, generator, recorder, issuer.Middleware).AddRoutes(r)
	NewAuthService(db, issuer).AddRoutes(r)
	NewAnalyticsService(db, issuer.Middleware).AddRoutes(r)
	NewHealthService(db, completer != nil, nil, nil).AddRoutes(r)

	return &testEnv{db: db, router: r, queue: queue, issuer: issuer}
}

func (env *testEnv) request(t *testing.T, method, endpoint string, payload any, dest any, headers map[string]string) int {
	t.Helper()

	var body io.Reader
	if payload != nil {
		requestBody, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(requestBody)
	}

	req := httptest.NewRequest(method, endpoint, body)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	rr := httptest.NewRecorder()
	env.router.ServeHTTP(rr, req)

	if dest != nil && rr.Code == http.StatusOK {
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), dest), "body: %s", rr.Body.String())
	}
	return rr.Code
}

func (env *testEnv) startSession(t *testing.T) string {
	t.Helper()
	var resp api.StartSessionResponse
	code := env.request(t, http.MethodPost, "/chat/sessions", api.StartSessionRequest{}, &resp, nil)
	require.Equal(t, http.StatusOK, code)
	require.NotEmpty(t, resp.SessionID)
	return resp.SessionID
}

func (env *testEnv) seedJob(t *testing.T, title, description string) {
	t.Helper()
	require.NoError(t, env.db.Create(&database.JobListing{Title: title, Description: description}).Error)
}

func (env *testEnv) loginToken(t *testing.T) string {
	t.Helper()
	signup := api.SignupRequest{Name: "Asha", Email: fmt.Sprintf("user%d@example.com", len(t.Name())), Password: "password123"}
	code := env.request(t, http.MethodPost, "/auth/signup", signup, nil, nil)
	require.Equal(t, http.StatusOK, code)

	var resp api.LoginResponse
	code = env.request(t, http.MethodPost, "/auth/login", api.LoginRequest{Email: signup.Email, Password: signup.Password}, &resp, nil)
	require.Equal(t, http.StatusOK, code)
	return resp.Token
}
