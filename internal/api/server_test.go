package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/musaddiq-rafi/boipoka.ai-sub000/internal/ai"
	"github.com/musaddiq-rafi/boipoka.ai-sub000/internal/auth"
	"github.com/musaddiq-rafi/boipoka.ai-sub000/internal/domain"
	"github.com/musaddiq-rafi/boipoka.ai-sub000/internal/ratelimit"
	"github.com/musaddiq-rafi/boipoka.ai-sub000/internal/search"
	"github.com/musaddiq-rafi/boipoka.ai-sub000/internal/service"
	"github.com/musaddiq-rafi/boipoka.ai-sub000/internal/store"
)

// testEnvelope mirrors the success envelope for decoding.
type testEnvelope[T any] struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    T      `json:"data"`
}

// testError mirrors the error envelope for decoding.
type testError struct {
	Success bool              `json:"success"`
	Message string            `json:"message"`
	Code    string            `json:"code"`
	Details map[string]string `json:"details"`
}

type fakeAssistant struct {
	mu    sync.Mutex
	calls int
	reply string
	err   error
}

func (f *fakeAssistant) Complete(_ context.Context, req ai.Request) (*ai.Completion, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &ai.Completion{Content: f.reply, Model: req.Model, TotalTokens: 10}, nil
}

func (f *fakeAssistant) DefaultModel() string { return "test-model" }

// testServer wraps the API server for handler tests.
type testServer struct {
	*Server
	api       humatest.TestAPI
	tokens    *auth.TokenService
	assistant *fakeAssistant
}

func setupTestServer(t *testing.T) *testServer {
	t.Helper()
	return setupTestServerWithOptions(t, Options{})
}

func setupTestServerWithOptions(t *testing.T, opts Options) *testServer {
	t.Helper()

	tmpDir, err := os.MkdirTemp("", "boipoka-api-test-*")
	require.NoError(t, err)

	st, err := store.New(filepath.Join(tmpDir, "test.db"), nil)
	require.NoError(t, err)

	index, err := search.NewSearchIndex(search.Options{})
	require.NoError(t, err)
	st.SetSearchIndexer(search.NewIndexer(index))

	t.Cleanup(func() {
		_ = index.Close()
		_ = st.Close()
		_ = os.RemoveAll(tmpDir)
	})

	key := make([]byte, 32)
	for i := range key {
		key[i] = byte(i * 7)
	}
	tokens, err := auth.NewTokenService(auth.Options{Key: key})
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	assistant := &fakeAssistant{reply: "Try Piranesi."}

	services := &Services{
		Auth:        service.NewAuthService(st, tokens, logger),
		Profile:     service.NewProfileService(st, logger),
		Blog:        service.NewBlogService(st, logger),
		Collection:  service.NewCollectionService(st, logger),
		ReadingList: service.NewReadingListService(st, logger),
		Chat:        service.NewChatService(st, logger, service.ChatOptions{Assistant: assistant}),
		Search:      service.NewSearchService(index, st, logger),
	}

	opts.Title = "Boipoka API Test"
	s := NewServer(st, services, opts, logger)

	return &testServer{
		Server:    s,
		api:       humatest.Wrap(t, s.api),
		tokens:    tokens,
		assistant: assistant,
	}
}

// identityToken mints a token for an identity that has not signed up.
func (ts *testServer) identityToken(t *testing.T, uid string) string {
	t.Helper()
	token, err := ts.tokens.Issue(domain.Identity{
		UID:   uid,
		Email: uid + "@example.com",
		Name:  strings.ToUpper(uid[:1]) + uid[1:],
	})
	require.NoError(t, err)
	return token
}

// registerUser signs up a user and returns the bearer header and user id.
func (ts *testServer) registerUser(t *testing.T, username string) (string, string) {
	t.Helper()

	token := ts.identityToken(t, "uid-"+username)
	header := bearer(token)

	resp := ts.api.Post("/auth/signup", header, map[string]any{
		"data": map[string]any{"username": username},
	})
	require.Equal(t, http.StatusCreated, resp.Code, "signup failed: %s", resp.Body.String())

	env := decode[UserData](t, resp.Body.Bytes())
	return header, env.Data.User.ID
}

func bearer(token string) string {
	return "Authorization: Bearer " + token
}

func decode[T any](t *testing.T, body []byte) testEnvelope[T] {
	t.Helper()
	var env testEnvelope[T]
	require.NoError(t, json.Unmarshal(body, &env), "body: %s", body)
	return env
}

func decodeError(t *testing.T, body []byte) testError {
	t.Helper()
	var e testError
	require.NoError(t, json.Unmarshal(body, &e), "body: %s", body)
	assert.False(t, e.Success)
	return e
}

func TestNewServerRegistersEveryRoute(t *testing.T) {
	var ts *testServer
	require.NotPanics(t, func() { ts = setupTestServer(t) })

	paths := ts.api.OpenAPI().Paths
	for _, path := range []string{
		"/chats",
		"/chats/{id}/messages",
		"/collections/{id}/books",
		"/collections/{id}/books/{volumeId}",
		"/reading-list",
		"/search",
	} {
		assert.Contains(t, paths, path)
	}
}

func TestHealthCheck(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Get("/health")
	require.Equal(t, http.StatusOK, resp.Code)

	env := decode[HealthResponse](t, resp.Body.Bytes())
	assert.True(t, env.Success)
	assert.Equal(t, "healthy", env.Data.Status)
	assert.Equal(t, "healthy", env.Data.Components["database"].Status)
	assert.Equal(t, "healthy", env.Data.Components["search"].Status)
}

func TestAuthRequired(t *testing.T) {
	ts := setupTestServer(t)
	unregistered := bearer(ts.identityToken(t, "nobody"))

	tests := []struct {
		name    string
		headers []any
	}{
		{"no token", nil},
		{"malformed header", []any{"Authorization: Token abc"}},
		{"forged token", []any{bearer("v4.local.forged")}},
		{"identity without signup", []any{unregistered}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := ts.api.Get("/blogs", tt.headers...)
			require.Equal(t, http.StatusUnauthorized, resp.Code)
			e := decodeError(t, resp.Body.Bytes())
			assert.Equal(t, "UNAUTHENTICATED", e.Code)
		})
	}
}

func TestUnknownRouteUsesEnvelope(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Get("/nope")
	require.Equal(t, http.StatusNotFound, resp.Code)
	e := decodeError(t, resp.Body.Bytes())
	assert.Equal(t, "NOT_FOUND", e.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	ts := setupTestServer(t)
	header, _ := ts.registerUser(t, "metrics_user")

	resp := ts.api.Post("/blogs", header, map[string]any{
		"data": map[string]any{"title": "t", "content": "c", "spoilerAlert": false},
	})
	require.Equal(t, http.StatusCreated, resp.Code)

	resp = ts.api.Get("/metrics")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), "boipoka_content_created_total")
}

func TestRequestValidationIsBadRequest(t *testing.T) {
	ts := setupTestServer(t)
	header, _ := ts.registerUser(t, "validator")

	// Missing the data wrapper.
	resp := ts.api.Post("/blogs", header, map[string]any{"title": "t"})
	require.Equal(t, http.StatusBadRequest, resp.Code, resp.Body.String())
	assert.Equal(t, "VALIDATION", decodeError(t, resp.Body.Bytes()).Code)

	// Unknown visibility value.
	resp = ts.api.Post("/blogs", header, map[string]any{
		"data": map[string]any{"title": "t", "content": "c", "spoilerAlert": false, "visibility": "secret"},
	})
	require.Equal(t, http.StatusBadRequest, resp.Code, resp.Body.String())
	assert.Equal(t, "VALIDATION", decodeError(t, resp.Body.Bytes()).Code)
}

func TestIPRateLimit(t *testing.T) {
	limiter := ratelimit.New(0.001, 2)
	t.Cleanup(limiter.Stop)
	ts := setupTestServerWithOptions(t, Options{IPLimiter: limiter})

	for i := range 2 {
		resp := ts.api.Get("/health")
		require.Equal(t, http.StatusOK, resp.Code, fmt.Sprintf("request %d", i))
	}
	resp := ts.api.Get("/health")
	require.Equal(t, http.StatusTooManyRequests, resp.Code)
	assert.Equal(t, "RATE_LIMITED", decodeError(t, resp.Body.Bytes()).Code)
}
