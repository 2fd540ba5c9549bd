package handler

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

	identitydomain "github.com/Sepehr-khosravi/mazeh-backend/internal/identity/domain"
	"github.com/Sepehr-khosravi/mazeh-backend/internal/policy/engine"
	"github.com/Sepehr-khosravi/mazeh-backend/internal/server/middleware"
	"github.com/Sepehr-khosravi/mazeh-backend/internal/storage/domain"
	"github.com/Sepehr-khosravi/mazeh-backend/internal/storage/service"
)

type memRepo struct {
	materials []*domain.Material
}

func (m *memRepo) ListByUser(_ context.Context, userID int64) ([]domain.Material, error) {
	out := []domain.Material{}
	for _, mat := range m.materials {
		if mat.UserID == userID {
			out = append(out, *mat)
		}
	}
	return out, nil
}

func (m *memRepo) GetByID(_ context.Context, id int64) (*domain.Material, error) {
	for _, mat := range m.materials {
		if mat.ID == id {
			cp := *mat
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *memRepo) Create(_ context.Context, mat *domain.Material) error {
	for _, existing := range m.materials {
		if existing.UserID == mat.UserID && existing.Name == mat.Name {
			return domain.ErrDuplicate
		}
	}
	mat.ID = int64(len(m.materials) + 1)
	mat.Amount = domain.InitialAmount
	cp := *mat
	m.materials = append(m.materials, &cp)
	return nil
}

func (m *memRepo) Increment(ctx context.Context, id int64) (*domain.Material, error) {
	for _, mat := range m.materials {
		if mat.ID == id {
			mat.Amount += domain.AmountStep
			cp := *mat
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *memRepo) Decrement(ctx context.Context, id int64) (*domain.Material, error) {
	for _, mat := range m.materials {
		if mat.ID == id {
			mat.Amount = domain.Decremented(mat.Amount)
			cp := *mat
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *memRepo) Delete(_ context.Context, id int64) (bool, error) {
	for i, mat := range m.materials {
		if mat.ID == id {
			m.materials = append(m.materials[:i], m.materials[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

// asUser stands in for the bearer guard.
func asUser(id int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request = c.Request.WithContext(middleware.WithIdentity(c.Request.Context(), identitydomain.Identity{ID: id, Username: "cook"}))
		c.Next()
	}
}

func newRouter(repo *memRepo) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewStorageHandler(service.NewStorageService(repo, engine.NewOPAEvaluator()), nil)
	h.Register(r.Group("/api/v1/u1", asUser(1)))
	h.Register(r.Group("/api/v1/u2", asUser(2)))
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

func TestStorageHandler_Flow(t *testing.T) {
	r := newRouter(&memRepo{})

	w, body := serve(r, http.MethodGet, "/api/v1/u1/storage", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []any{}, body["data"])

	w, body = serve(r, http.MethodPost, "/api/v1/u1/storage/add", `{"name":"rice","type":"grain","count":3}`)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "Created", body["message"])
	assert.Equal(t, map[string]any{"name": "rice", "amount": float64(100), "id": float64(1)}, body["data"])

	w, body = serve(r, http.MethodPost, "/api/v1/u1/storage/add", `{"name":"rice","type":"grain"}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "This Material Already Exists!", body["message"])

	w, body = serve(r, http.MethodPatch, "/api/v1/u1/storage/count/plus/1", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Ok", body["message"])
	assert.Equal(t, float64(200), body["data"].(map[string]any)["amount"])

	w, body = serve(r, http.MethodPatch, "/api/v1/u1/storage/count/mines/1", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(100), body["data"].(map[string]any)["amount"])

	w, body = serve(r, http.MethodGet, "/api/v1/u1/storage", "")
	require.Equal(t, http.StatusOK, w.Code)
	list := body["data"].([]any)
	require.Len(t, list, 1)
	assert.Equal(t, "grain", list[0].(map[string]any)["type"])
	assert.Equal(t, float64(1), list[0].(map[string]any)["userId"])

	w, body = serve(r, http.MethodDelete, "/api/v1/u1/storage/delete/1", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, map[string]any{"message": "Ok"}, body)
}

func TestStorageHandler_TenantIsolation(t *testing.T) {
	r := newRouter(&memRepo{})
	w, _ := serve(r, http.MethodPost, "/api/v1/u1/storage/add", `{"name":"milk","type":"dairy"}`)
	require.Equal(t, http.StatusCreated, w.Code)

	for _, tc := range []struct{ method, path string }{
		{http.MethodPatch, "/api/v1/u2/storage/count/plus/1"},
		{http.MethodPatch, "/api/v1/u2/storage/count/mines/1"},
		{http.MethodDelete, "/api/v1/u2/storage/delete/1"},
		{http.MethodDelete, "/api/v1/u1/storage/delete/99"},
	} {
		w, body := serve(r, tc.method, tc.path, "")
		assert.Equal(t, http.StatusNotFound, w.Code, tc.path)
		assert.Equal(t, "This Material Not Found!", body["message"], tc.path)
	}

	w, body := serve(r, http.MethodGet, "/api/v1/u2/storage", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, body["data"])
}

func TestStorageHandler_BadInput(t *testing.T) {
	r := newRouter(&memRepo{})
	for _, tc := range []struct{ method, path, body string }{
		{http.MethodPatch, "/api/v1/u1/storage/count/plus/abc", ""},
		{http.MethodPatch, "/api/v1/u1/storage/count/mines/-1", ""},
		{http.MethodDelete, "/api/v1/u1/storage/delete/x", ""},
		{http.MethodPost, "/api/v1/u1/storage/add", `{"name":"salt"}`},
		{http.MethodPost, "/api/v1/u1/storage/add", `not json`},
	} {
		w, body := serve(r, tc.method, tc.path, tc.body)
		assert.Equal(t, http.StatusBadRequest, w.Code, tc.path)
		assert.Equal(t, float64(400), body["statusCode"], tc.path)
	}
}
