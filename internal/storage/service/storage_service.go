package service

import (
	"context"
	"errors"
	"strings"

	"github.com/Sepehr-khosravi/mazeh-backend/internal/apperr"
	"github.com/Sepehr-khosravi/mazeh-backend/internal/policy/engine"
	"github.com/Sepehr-khosravi/mazeh-backend/internal/storage/domain"
	"github.com/Sepehr-khosravi/mazeh-backend/internal/storage/repository"
)

// Client-facing messages.
const (
	MsgMaterialNotFound = "This Material Not Found!"
	MsgMaterialExists   = "This Material Already Exists!"
)

// Actions passed to the ownership policy.
const (
	ActionIncrement = "increment"
	ActionDecrement = "decrement"
	ActionDelete    = "delete"
)

// StorageService manages each user's materials. Items are tenant-scoped: an item
// the policy does not let the caller touch is reported as not found.
type StorageService struct {
	repo   repository.Repository
	policy engine.Evaluator
}

func NewStorageService(repo repository.Repository, policy engine.Evaluator) *StorageService {
	return &StorageService{repo: repo, policy: policy}
}

// List returns the caller's materials; an empty list is not an error.
func (s *StorageService) List(ctx context.Context, userID int64) ([]domain.Material, error) {
	list, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, apperr.Internal("STORAGE_LIST", err, "user_id", userID)
	}
	return list, nil
}

// Add stores a new material for userID with the initial amount.
func (s *StorageService) Add(ctx context.Context, userID int64, name, kind string) (*domain.Material, error) {
	m := &domain.Material{Name: strings.TrimSpace(name), Type: strings.TrimSpace(kind), UserID: userID}
	if err := m.Validate(); err != nil {
		return nil, apperr.New(apperr.ErrInvalidInput, err.Error())
	}
	if err := s.repo.Create(ctx, m); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return nil, apperr.New(apperr.ErrAlreadyExists, MsgMaterialExists)
		}
		return nil, apperr.Internal("STORAGE_ADD", err, "user_id", userID)
	}
	return m, nil
}

// Increment raises the amount by one step.
func (s *StorageService) Increment(ctx context.Context, userID, id int64) (*domain.Material, error) {
	if err := s.authorize(ctx, userID, id, ActionIncrement); err != nil {
		return nil, err
	}
	m, err := s.repo.Increment(ctx, id)
	return s.updated(m, err, "STORAGE_INCREMENT", id)
}

// Decrement lowers the amount by one step, never below domain.MinAmount.
func (s *StorageService) Decrement(ctx context.Context, userID, id int64) (*domain.Material, error) {
	if err := s.authorize(ctx, userID, id, ActionDecrement); err != nil {
		return nil, err
	}
	m, err := s.repo.Decrement(ctx, id)
	return s.updated(m, err, "STORAGE_DECREMENT", id)
}

func (s *StorageService) Delete(ctx context.Context, userID, id int64) error {
	if err := s.authorize(ctx, userID, id, ActionDelete); err != nil {
		return err
	}
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return apperr.Internal("STORAGE_DELETE", err, "material_id", id)
	}
	if !deleted {
		return apperr.New(apperr.ErrNotFound, MsgMaterialNotFound)
	}
	return nil
}

func (s *StorageService) updated(m *domain.Material, err error, code string, id int64) (*domain.Material, error) {
	if err != nil {
		return nil, apperr.Internal(code, err, "material_id", id)
	}
	if m == nil {
		return nil, apperr.New(apperr.ErrNotFound, MsgMaterialNotFound)
	}
	return m, nil
}

func (s *StorageService) authorize(ctx context.Context, userID, id int64, action string) error {
	m, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return apperr.Internal("STORAGE_LOOKUP", err, "material_id", id)
	}
	if m == nil {
		return apperr.New(apperr.ErrNotFound, MsgMaterialNotFound)
	}
	allowed, err := s.policy.AllowStorage(ctx, engine.OwnershipInput{UserID: userID, OwnerID: m.UserID, Action: action})
	if err != nil {
		return apperr.Internal("STORAGE_POLICY", err, "material_id", id, "action", action)
	}
	if !allowed {
		return apperr.New(apperr.ErrNotFound, MsgMaterialNotFound)
	}
	return nil
}
