package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sepehr-khosravi/mazeh-backend/internal/recipe/domain"
	"github.com/Sepehr-khosravi/mazeh-backend/internal/recipe/repository"
	"github.com/Sepehr-khosravi/mazeh-backend/internal/recipe/service"
)

// stubRepo is a minimal in-memory repository so the handler runs against the real service.
type stubRepo struct {
	mu      sync.Mutex
	recipes []domain.Recipe
}

func (s *stubRepo) List(context.Context) ([]domain.Recipe, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.Recipe(nil), s.recipes...), nil
}

func (s *stubRepo) GetByID(_ context.Context, id int64) (*domain.Recipe, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.recipes {
		if r.ID == id {
			return &r, nil
		}
	}
	return nil, nil
}

func (s *stubRepo) Create(_ context.Context, rec *domain.Recipe) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.recipes {
		if r.Name == rec.Name && r.Category == rec.Category && r.Difficulty == rec.Difficulty {
			return domain.ErrDuplicate
		}
	}
	rec.ID = int64(len(s.recipes) + 1)
	s.recipes = append(s.recipes, *rec)
	return nil
}

func (s *stubRepo) Delete(_ context.Context, id int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, r := range s.recipes {
		if r.ID == id {
			s.recipes = append(s.recipes[:i], s.recipes[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

type failingRepo struct{ stubRepo }

func (*failingRepo) List(context.Context) ([]domain.Recipe, error) {
	return nil, errors.New("pq: connection refused")
}

func newRouter(repo repository.Repository) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewRecipeHandler(service.NewRecipeService(repo, nil, nil), nil).Register(r.Group("/api/v1"))
	return r
}

func serve(r *gin.Engine, method, path, body string) (*httptest.ResponseRecorder, map[string]any) {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	var out map[string]any
	_ = json.Unmarshal(w.Body.Bytes(), &out)
	return w, out
}

const kukuBody = `{
	"name": "Kuku", "time": 40, "category": "main", "nationality": "Iranian",
	"difficulty": "easy", "description": "Herb frittata", "meal": "dinner",
	"gallery": [{"url": "https://img.example/kuku.png"}],
	"ingrediants": [{"name": "eggs", "amount": "4"}],
	"steps": [{"order": 1, "description": "Whisk"}]
}`

func TestRecipeHandler_ListEmpty(t *testing.T) {
	w, body := serve(newRouter(&stubRepo{}), http.MethodGet, "/api/v1/recipe", "")
	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Recipes Not Found!", body["message"])
	assert.Equal(t, "Not Found", body["error"])
}

func TestRecipeHandler_AddListGetDelete(t *testing.T) {
	r := newRouter(&stubRepo{})

	w, body := serve(r, http.MethodPost, "/api/v1/recipe/add", kukuBody)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "Recipe created", body["message"])
	data := body["data"].(map[string]any)
	assert.Equal(t, "https://img.example/kuku.png", data["image"])
	assert.Equal(t, "https://img.example/kuku.png", data["icon"])
	require.Len(t, data["ingredients"], 1)

	w, body = serve(r, http.MethodPost, "/api/v1/recipe/add", kukuBody)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Recipe already exists!", body["message"])

	w, body = serve(r, http.MethodGet, "/api/v1/recipe", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, body["data"], 1)

	w, body = serve(r, http.MethodGet, "/api/v1/recipe/1", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Kuku", body["data"].(map[string]any)["name"])

	w, body = serve(r, http.MethodDelete, "/api/v1/recipe/delete", `{"id": 1}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, map[string]any{"message": "Ok"}, body)

	w, body = serve(r, http.MethodDelete, "/api/v1/recipe/delete", `{"id": 1}`)
	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "This Recipe Not Found", body["message"])
}

func TestRecipeHandler_BadInput(t *testing.T) {
	r := newRouter(&stubRepo{})
	cases := []struct {
		name, method, path, body string
	}{
		{"non-numeric id", http.MethodGet, "/api/v1/recipe/abc", ""},
		{"missing fields", http.MethodPost, "/api/v1/recipe/add", `{"name": "Kuku"}`},
		{"malformed json", http.MethodPost, "/api/v1/recipe/add", `{"name":`},
		{"delete without id", http.MethodDelete, "/api/v1/recipe/delete", `{}`},
		{"delete with string id", http.MethodDelete, "/api/v1/recipe/delete", `{"id": "one"}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w, body := serve(r, tc.method, tc.path, tc.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, float64(400), body["statusCode"])
		})
	}
}

func TestRecipeHandler_InternalErrorHidesCause(t *testing.T) {
	w, body := serve(newRouter(&failingRepo{}), http.MethodGet, "/api/v1/recipe", "")
	require.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "Internal Server Error", body["message"])
	assert.NotContains(t, w.Body.String(), "connection refused")
}
