package bootstrap

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"firebase.google.com/go/v4/auth"
	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avan-studio/avan-backend/internal/auth/domain"
	"github.com/avan-studio/avan-backend/internal/auth/identity"
	projectssvc "github.com/avan-studio/avan-backend/internal/projects/service"
	"github.com/avan-studio/avan-backend/internal/storage/kv"
)

type tokenVerifier struct{}

func (tokenVerifier) VerifyIDToken(_ context.Context, token string) (*auth.Token, error) {
	if !strings.HasPrefix(token, "tok-") {
		return nil, errors.New("bad token")
	}
	return &auth.Token{UID: strings.TrimPrefix(token, "tok-")}, nil
}

// noIdentity rejects every call; the routes under test do not reach it.
type noIdentity struct{}

var _ identity.Provider = noIdentity{}

var errNoIdentity = &domain.ProviderError{Code: domain.CodeNetworkRequest}

func (noIdentity) SignUp(context.Context, string, string) (*domain.Session, error) {
	return nil, errNoIdentity
}
func (noIdentity) SignIn(context.Context, string, string) (*domain.Session, error) {
	return nil, errNoIdentity
}
func (noIdentity) SignOut(context.Context, string) error { return errNoIdentity }
func (noIdentity) Lookup(context.Context, string) (*domain.User, error) {
	return nil, errNoIdentity
}
func (noIdentity) UpdateProfile(context.Context, string, domain.ProfileUpdate) (*domain.User, error) {
	return nil, errNoIdentity
}
func (noIdentity) UpdatePassword(context.Context, string, string) (*domain.Session, error) {
	return nil, errNoIdentity
}
func (noIdentity) Reauthenticate(context.Context, string, string, string) (*domain.Session, error) {
	return nil, errNoIdentity
}
func (noIdentity) DeleteAccount(context.Context, string) error { return errNoIdentity }

type echoGenerator struct{}

func (echoGenerator) GenerateCode(_ context.Context, prompt string, _ []string, _, _ string) string {
	return "```html\n<p>" + prompt + "</p>\n```"
}

func setupRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return BuildRouter(RouterDeps{
		ServiceName: "avan-test",
		Version:     "test",
		CORSOrigins: []string{"http://localhost:5173"},
		Redis:       client,
		Store:       kv.NewRedisBackend(client),
		Guard:       projectssvc.NewRedisGuard(client, 0),
		Generator:   echoGenerator{},
		Verifier:    tokenVerifier{},
		Identity:    noIdentity{},
	})
}

func request(r *gin.Engine, method, path, token, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	r.ServeHTTP(w, req)
	return w
}

func TestBuildRouter_Infra(t *testing.T) {
	r := setupRouter(t)

	w := request(r, http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"redis":"up"`)
	assert.NotEmpty(t, w.Header().Get("X-Request-Id"))

	w = request(r, http.MethodGet, "/metrics", "", "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestBuildRouter_RequiresToken(t *testing.T) {
	r := setupRouter(t)

	assert.Equal(t, http.StatusUnauthorized, request(r, http.MethodGet, "/api/v1/projects", "", "").Code)
	assert.Equal(t, http.StatusUnauthorized, request(r, http.MethodGet, "/api/v1/settings", "nope", "").Code)

	// public, reaches the identity provider
	w := request(r, http.MethodPost, "/api/v1/auth/signin", "", `{"email":"a@b.c","password":"x"}`)
	assert.Equal(t, http.StatusBadGateway, w.Code)
}

func TestBuildRouter_ProjectFlow(t *testing.T) {
	r := setupRouter(t)

	w := request(r, http.MethodPost, "/api/v1/projects", "tok-u1", `{"input":"hello"}`)
	require.Equal(t, http.StatusCreated, w.Code)

	w = request(r, http.MethodGet, "/api/v1/data/export", "tok-u1", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "_messages")

	w = request(r, http.MethodGet, "/api/v1/data/export", "tok-u2", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{}`, w.Body.String())
}
