// Package handler serves the recipe catalogue under /api/v1/recipe.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Sepehr-khosravi/mazeh-backend/internal/apperr"
	"github.com/Sepehr-khosravi/mazeh-backend/internal/recipe/domain"
	"github.com/Sepehr-khosravi/mazeh-backend/internal/server/respond"
)

// RecipeService is the catalogue as seen by HTTP. *service.RecipeService satisfies it.
type RecipeService interface {
	List(ctx context.Context) ([]domain.Recipe, error)
	Get(ctx context.Context, id int64) (*domain.Recipe, error)
	Create(ctx context.Context, rec *domain.Recipe) (*domain.Recipe, error)
	Delete(ctx context.Context, id int64) error
}

type recipeRequest struct {
	Name        string                `json:"name"`
	Time        int                   `json:"time"`
	Image       string                `json:"image"`
	Icon        string                `json:"icon"`
	Category    string                `json:"category"`
	Nationality string                `json:"nationality"`
	Difficulty  string                `json:"difficulty"`
	Description string                `json:"description"`
	Meal        string                `json:"meal"`
	Gallery     []domain.GalleryImage `json:"gallery"`
	Ingredients []domain.Ingredient   `json:"ingredients"`
	// Ingrediants is the spelling older clients send.
	Ingrediants []domain.Ingredient `json:"ingrediants"`
	Steps       []domain.Step       `json:"steps"`
}

func (r recipeRequest) toDomain() *domain.Recipe {
	ingredients := r.Ingredients
	if len(ingredients) == 0 {
		ingredients = r.Ingrediants
	}
	return &domain.Recipe{
		Name:        r.Name,
		Time:        r.Time,
		Image:       r.Image,
		Icon:        r.Icon,
		Category:    r.Category,
		Nationality: r.Nationality,
		Difficulty:  r.Difficulty,
		Description: r.Description,
		Meal:        r.Meal,
		Gallery:     r.Gallery,
		Ingredients: ingredients,
		Steps:       r.Steps,
	}
}

type deleteRequest struct {
	ID int64 `json:"id"`
}

type RecipeHandler struct {
	svc    RecipeService
	logger *slog.Logger
}

func NewRecipeHandler(svc RecipeService, logger *slog.Logger) *RecipeHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &RecipeHandler{svc: svc, logger: logger}
}

// Register mounts the routes on g, which must already run the bearer guard.
func (h *RecipeHandler) Register(g *gin.RouterGroup) {
	r := g.Group("/recipe")
	r.GET("", h.list)
	r.GET("/:id", h.get)
	r.POST("/add", h.add)
	r.DELETE("/delete", h.delete)
}

func (h *RecipeHandler) list(c *gin.Context) {
	list, err := h.svc.List(c.Request.Context())
	if err != nil {
		respond.Error(c, h.logger, err)
		return
	}
	respond.OK(c, http.StatusOK, "ok", list)
}

func (h *RecipeHandler) get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		respond.BindError(c, apperr.New(apperr.ErrInvalidInput, "id must be a number"))
		return
	}
	rec, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		respond.Error(c, h.logger, err)
		return
	}
	respond.OK(c, http.StatusOK, "ok", rec)
}

func (h *RecipeHandler) add(c *gin.Context) {
	var req recipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.BindError(c, err)
		return
	}
	rec, err := h.svc.Create(c.Request.Context(), req.toDomain())
	if err != nil {
		respond.Error(c, h.logger, err)
		return
	}
	respond.OK(c, http.StatusCreated, "Recipe created", rec)
}

func (h *RecipeHandler) delete(c *gin.Context) {
	var req deleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.BindError(c, err)
		return
	}
	if req.ID <= 0 {
		respond.BindError(c, apperr.New(apperr.ErrInvalidInput, "id should not be empty"))
		return
	}
	if err := h.svc.Delete(c.Request.Context(), req.ID); err != nil {
		respond.Error(c, h.logger, err)
		return
	}
	respond.OK(c, http.StatusOK, "Ok", nil)
}
