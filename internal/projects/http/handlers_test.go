package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avan-studio/avan-backend/internal/auth"
	"github.com/avan-studio/avan-backend/internal/projects/service"
	"github.com/avan-studio/avan-backend/internal/storage/kv"
)

type cannedGenerator struct {
	reply string
	langs []string
}

func (g *cannedGenerator) GenerateCode(_ context.Context, _ string, _ []string, _, lang string) string {
	g.langs = append(g.langs, lang)
	return g.reply
}

type fixedLanguage string

func (l fixedLanguage) Language(context.Context, string) string { return string(l) }

func setupRouter(gen *cannedGenerator) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	chat := service.NewChatService(kv.NewMemoryBackend(), gen, service.NewMemoryGuard())

	rg := r.Group("/projects", func(c *gin.Context) {
		c.Set(auth.CtxFirebaseUID, "u1")
		c.Next()
	})
	New(chat, fixedLanguage("he")).Register(rg)
	return r
}

func do(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func createProject(t *testing.T, r *gin.Engine) string {
	t.Helper()
	w := do(r, http.MethodPost, "/projects", `{"input":"a bakery site"}`)
	require.Equal(t, http.StatusCreated, w.Code)

	var resp struct {
		Project struct {
			ID string `json:"id"`
		} `json:"project"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.Project.ID
}

func TestCreateAndStart(t *testing.T) {
	gen := &cannedGenerator{reply: "```html\n<h1>Bakery</h1>\n```"}
	r := setupRouter(gen)
	id := createProject(t, r)

	w := do(r, http.MethodPost, "/projects/"+id+"/start", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"code_updated":true`)
	assert.Contains(t, w.Body.String(), "האתר שלך מוכן!")
	assert.Equal(t, []string{"he"}, gen.langs)

	w = do(r, http.MethodGet, "/projects/"+id, "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Project struct {
			CurrentCode string `json:"currentCode"`
		} `json:"project"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "<h1>Bakery</h1>", resp.Project.CurrentCode)
}

func TestPostMessage(t *testing.T) {
	gen := &cannedGenerator{reply: "No code this time."}
	r := setupRouter(gen)
	id := createProject(t, r)

	w := do(r, http.MethodPost, "/projects/"+id+"/messages", `{"message":"   "}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, gen.langs)

	w = do(r, http.MethodPost, "/projects/"+id+"/messages?lang=fr", `{"message":"hello"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "No code this time.")
	assert.Equal(t, []string{"fr"}, gen.langs)

	w = do(r, http.MethodPost, "/projects/missing/messages", `{"message":"hello","language":"en"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSaveListAndDownload(t *testing.T) {
	gen := &cannedGenerator{reply: "```html\n<p>x</p>\n```"}
	r := setupRouter(gen)
	id := createProject(t, r)

	w := do(r, http.MethodGet, "/projects/"+id+"/code", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	do(r, http.MethodPost, "/projects/"+id+"/start", `{"language":"en"}`)

	w = do(r, http.MethodPost, "/projects/"+id+"/save", `{"name":""}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"name":"Untitled Project"`)
	assert.Contains(t, w.Body.String(), "הפרויקט נשמר בהצלחה")

	w = do(r, http.MethodGet, "/projects", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"id":"`+id+`"`)

	w = do(r, http.MethodGet, "/projects/"+id+"/code", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "<p>x</p>", w.Body.String())
	assert.Equal(t, "text/html; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="index.html"`, w.Header().Get("Content-Disposition"))
}

func TestSaveWithoutBodyKeepsName(t *testing.T) {
	r := setupRouter(&cannedGenerator{reply: "ok"})
	id := createProject(t, r)

	w := do(r, http.MethodPost, "/projects/"+id+"/save", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"name":"a bakery site..."`)

	w = do(r, http.MethodPost, "/projects/"+id+"/save", `{"name":"Bakery"}`)
	require.Equal(t, http.StatusOK, w.Code)

	w = do(r, http.MethodPost, "/projects/"+id+"/save", `{}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"name":"Bakery"`)
}
