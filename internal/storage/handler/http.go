// Package handler serves a user's stored materials under /api/v1/storage.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Sepehr-khosravi/mazeh-backend/internal/apperr"
	"github.com/Sepehr-khosravi/mazeh-backend/internal/server/middleware"
	"github.com/Sepehr-khosravi/mazeh-backend/internal/server/respond"
	"github.com/Sepehr-khosravi/mazeh-backend/internal/storage/domain"
)

// StorageService is the storage feature as seen by HTTP. *service.StorageService satisfies it.
type StorageService interface {
	List(ctx context.Context, userID int64) ([]domain.Material, error)
	Add(ctx context.Context, userID int64, name, kind string) (*domain.Material, error)
	Increment(ctx context.Context, userID, id int64) (*domain.Material, error)
	Decrement(ctx context.Context, userID, id int64) (*domain.Material, error)
	Delete(ctx context.Context, userID, id int64) error
}

type addRequest struct {
	Name string `json:"name"`
	Type string `json:"type"`
	// Count is accepted for compatibility; new materials always start at domain.InitialAmount.
	Count *int `json:"count"`
}

type materialView struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Type   string `json:"type"`
	Amount int    `json:"amount"`
	UserID int64  `json:"userId"`
}

type amountView struct {
	Name   string `json:"name"`
	Amount int    `json:"amount"`
	ID     int64  `json:"id"`
}

func toAmountView(m *domain.Material) amountView {
	return amountView{Name: m.Name, Amount: m.Amount, ID: m.ID}
}

type StorageHandler struct {
	svc    StorageService
	logger *slog.Logger
}

func NewStorageHandler(svc StorageService, logger *slog.Logger) *StorageHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &StorageHandler{svc: svc, logger: logger}
}

// Register mounts the routes on g, which must already run the bearer guard.
func (h *StorageHandler) Register(g *gin.RouterGroup) {
	s := g.Group("/storage")
	s.GET("", h.list)
	s.POST("/add", h.add)
	s.PATCH("/count/plus/:id", h.increment)
	s.PATCH("/count/mines/:id", h.decrement)
	s.DELETE("/delete/:id", h.delete)
}

func (h *StorageHandler) list(c *gin.Context) {
	ctx := c.Request.Context()
	list, err := h.svc.List(ctx, middleware.UserID(ctx))
	if err != nil {
		respond.Error(c, h.logger, err)
		return
	}
	out := make([]materialView, 0, len(list))
	for _, m := range list {
		out = append(out, materialView{ID: m.ID, Name: m.Name, Type: m.Type, Amount: m.Amount, UserID: m.UserID})
	}
	respond.OK(c, http.StatusOK, "ok", out)
}

func (h *StorageHandler) add(c *gin.Context) {
	var req addRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.BindError(c, err)
		return
	}
	ctx := c.Request.Context()
	m, err := h.svc.Add(ctx, middleware.UserID(ctx), req.Name, req.Type)
	if err != nil {
		respond.Error(c, h.logger, err)
		return
	}
	respond.OK(c, http.StatusCreated, "Created", toAmountView(m))
}

func (h *StorageHandler) increment(c *gin.Context) {
	h.adjust(c, h.svc.Increment)
}

func (h *StorageHandler) decrement(c *gin.Context) {
	h.adjust(c, h.svc.Decrement)
}

func (h *StorageHandler) adjust(c *gin.Context, op func(ctx context.Context, userID, id int64) (*domain.Material, error)) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	m, err := op(ctx, middleware.UserID(ctx), id)
	if err != nil {
		respond.Error(c, h.logger, err)
		return
	}
	respond.OK(c, http.StatusOK, "Ok", toAmountView(m))
}

func (h *StorageHandler) delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	if err := h.svc.Delete(ctx, middleware.UserID(ctx), id); err != nil {
		respond.Error(c, h.logger, err)
		return
	}
	respond.OK(c, http.StatusOK, "Ok", nil)
}

// pathID parses :id, answering 400 itself when it is not a positive integer.
func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		respond.BindError(c, apperr.New(apperr.ErrInvalidInput, "id must be a positive number"))
		return 0, false
	}
	return id, true
}
