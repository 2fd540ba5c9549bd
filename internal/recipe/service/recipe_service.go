package service

import (
	"context"
	"errors"
	"log/slog"

	"golang.org/x/sync/singleflight"

	"github.com/Sepehr-khosravi/mazeh-backend/internal/apperr"
	"github.com/Sepehr-khosravi/mazeh-backend/internal/logging"
	"github.com/Sepehr-khosravi/mazeh-backend/internal/recipe/domain"
	"github.com/Sepehr-khosravi/mazeh-backend/internal/recipe/repository"
)

// Client-facing messages.
const (
	MsgRecipesNotFound = "Recipes Not Found!"
	MsgRecipeNotFound  = "This Recipe Not Found"
	MsgRecipeExists    = "Recipe already exists!"
)

// Cache stores the recipe list. *cache.RecipeCache satisfies it.
type Cache interface {
	GetList(ctx context.Context) ([]domain.Recipe, error)
	SetList(ctx context.Context, list []domain.Recipe) error
	Invalidate(ctx context.Context) error
}

// RecipeService manages the recipe catalogue.
type RecipeService struct {
	repo   repository.Repository
	cache  Cache
	sf     singleflight.Group
	logger *slog.Logger
}

// NewRecipeService creates a RecipeService. If c is nil, caching is disabled.
func NewRecipeService(repo repository.Repository, c Cache, logger *slog.Logger) *RecipeService {
	if logger == nil {
		logger = slog.Default()
	}
	return &RecipeService{repo: repo, cache: c, logger: logger}
}

// List returns every recipe. An empty catalogue is ErrNotFound.
func (s *RecipeService) List(ctx context.Context) ([]domain.Recipe, error) {
	list, err := s.list(ctx)
	if err != nil {
		return nil, apperr.Internal("RECIPE_LIST", err)
	}
	if len(list) == 0 {
		return nil, apperr.New(apperr.ErrNotFound, MsgRecipesNotFound)
	}
	return list, nil
}

func (s *RecipeService) list(ctx context.Context) ([]domain.Recipe, error) {
	if s.cache == nil {
		return s.repo.List(ctx)
	}
	v, err, _ := s.sf.Do("list", func() (interface{}, error) {
		if list, err := s.cache.GetList(ctx); err != nil {
			logging.LogError(ctx, s.logger, "recipe cache read failed", err)
		} else if list != nil {
			return list, nil
		}
		list, err := s.repo.List(ctx)
		if err != nil {
			return nil, err
		}
		if len(list) > 0 {
			if err := s.cache.SetList(ctx, list); err != nil {
				logging.LogError(ctx, s.logger, "recipe cache write failed", err)
			}
		}
		return list, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]domain.Recipe), nil
}

// Get returns the recipe with its gallery, ingredients and steps.
func (s *RecipeService) Get(ctx context.Context, id int64) (*domain.Recipe, error) {
	if id <= 0 {
		return nil, apperr.New(apperr.ErrNotFound, MsgRecipeNotFound)
	}
	rec, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, apperr.Internal("RECIPE_GET", err, "recipe_id", id)
	}
	if rec == nil {
		return nil, apperr.New(apperr.ErrNotFound, MsgRecipeNotFound)
	}
	return rec, nil
}

// Create validates rec, fills default media and stores it with its children.
func (s *RecipeService) Create(ctx context.Context, rec *domain.Recipe) (*domain.Recipe, error) {
	if err := rec.Validate(); err != nil {
		return nil, apperr.New(apperr.ErrInvalidInput, err.Error())
	}
	rec.ApplyDefaultMedia()
	if err := s.repo.Create(ctx, rec); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return nil, apperr.New(apperr.ErrAlreadyExists, MsgRecipeExists)
		}
		return nil, apperr.Internal("RECIPE_CREATE", err)
	}
	s.invalidate(ctx)
	return rec, nil
}

// Delete removes the recipe and its children.
func (s *RecipeService) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return apperr.New(apperr.ErrNotFound, MsgRecipeNotFound)
	}
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return apperr.Internal("RECIPE_DELETE", err, "recipe_id", id)
	}
	if !deleted {
		return apperr.New(apperr.ErrNotFound, MsgRecipeNotFound)
	}
	s.invalidate(ctx)
	return nil
}

func (s *RecipeService) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx); err != nil {
		logging.LogError(ctx, s.logger, "recipe cache invalidate failed", err)
	}
}
