package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cahier-app/cahier-backend/internal/projects/domain"
	"github.com/cahier-app/cahier-backend/internal/projects/repository"
	"github.com/cahier-app/cahier-backend/internal/projects/service"
	"github.com/cahier-app/cahier-backend/internal/storage/kv"
)

type envelope struct {
	OK       bool             `json:"ok"`
	Error    string           `json:"error"`
	Project  *domain.Project  `json:"project"`
	Projects []domain.Project `json:"projects"`
	HTML     string           `json:"html"`
	View     *struct {
		Sections []struct {
			Key  string `json:"key"`
			HTML string `json:"html"`
		} `json:"sections"`
	} `json:"view"`
}

func setupRouter(t *testing.T, storage kv.Storage) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	svc := service.NewProjectService(repository.NewLocalStore(storage), nil)
	h := New(svc)

	r := gin.New()
	api := r.Group("/api/v1")
	h.Register(api.Group("/projects"))
	h.RegisterMarkdown(api)
	return r
}

func do(t *testing.T, r *gin.Engine, method, path string, body any) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	var env envelope
	if rr.Header().Get("Content-Type") == "application/json; charset=utf-8" {
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &env))
	}
	return rr, env
}

func TestProjectsCRUD(t *testing.T) {
	r := setupRouter(t, kv.NewMemory())

	rr, env := do(t, r, http.MethodPost, "/api/v1/projects", map[string]string{
		"title":     "Cahier",
		"objective": "A",
		"features":  "B",
	})
	require.Equal(t, http.StatusCreated, rr.Code)
	require.True(t, env.OK)
	id := env.Project.ID
	require.NotEmpty(t, id)

	rr, env = do(t, r, http.MethodPatch, "/api/v1/projects/"+id, map[string]string{"features": "C"})
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "A", env.Project.Objective)
	assert.Equal(t, "C", env.Project.Features)

	rr, env = do(t, r, http.MethodGet, "/api/v1/projects/"+id, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "Cahier", env.Project.Title)

	rr, env = do(t, r, http.MethodGet, "/api/v1/projects", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Len(t, env.Projects, 1)

	rr, _ = do(t, r, http.MethodDelete, "/api/v1/projects/"+id, nil)
	assert.Equal(t, http.StatusOK, rr.Code)

	rr, env = do(t, r, http.MethodDelete, "/api/v1/projects/"+id, nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.False(t, env.OK)
}

func TestCreateRejectsEmptyTitle(t *testing.T) {
	r := setupRouter(t, kv.NewMemory())

	rr, env := do(t, r, http.MethodPost, "/api/v1/projects", map[string]string{"title": "  "})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "title is required", env.Error)
}

func TestNotFound(t *testing.T) {
	r := setupRouter(t, kv.NewMemory())

	rr, _ := do(t, r, http.MethodGet, "/api/v1/projects/nonexistent-id", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr, _ = do(t, r, http.MethodPatch, "/api/v1/projects/nonexistent-id", map[string]string{"title": "x"})
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestViewAndExport(t *testing.T) {
	r := setupRouter(t, kv.NewMemory())

	_, env := do(t, r, http.MethodPost, "/api/v1/projects", map[string]string{
		"title":     "Cahier",
		"objective": "<img src=x onerror=alert(1)>**net**",
	})
	id := env.Project.ID

	rr, env := do(t, r, http.MethodGet, "/api/v1/projects/"+id+"/view", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	require.NotNil(t, env.View)
	require.Len(t, env.View.Sections, 1)
	assert.NotContains(t, env.View.Sections[0].HTML, "onerror")

	rr, _ = do(t, r, http.MethodGet, "/api/v1/projects/"+id+"/export?format=md", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "text/markdown; charset=utf-8", rr.Header().Get("Content-Type"))
	assert.Contains(t, rr.Body.String(), "# Cahier")

	rr, env = do(t, r, http.MethodGet, "/api/v1/projects/"+id+"/export?format=pdf", nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.False(t, env.OK)
}

func TestRenderEndpoint(t *testing.T) {
	r := setupRouter(t, kv.NewMemory())

	rr, env := do(t, r, http.MethodPost, "/api/v1/markdown/render", map[string]string{
		"markdown": "<script>alert(1)</script>\n\n**bold**",
	})
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, env.HTML, "<strong>bold</strong>")
	assert.NotContains(t, env.HTML, "<script")
}

type downStorage struct{ kv.Memory }

func (d *downStorage) Get(context.Context, string) (string, bool, error) {
	return "", false, errors.New("redis: connection refused")
}

func TestStorageUnavailableMapsTo503(t *testing.T) {
	r := setupRouter(t, &downStorage{})

	rr, env := do(t, r, http.MethodGet, "/api/v1/projects", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
	assert.Equal(t, "storage unavailable", env.Error)
}
