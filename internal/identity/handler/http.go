// Package handler binds the auth core to HTTP under /api/v1/auth.
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Sepehr-khosravi/mazeh-backend/internal/apperr"
	"github.com/Sepehr-khosravi/mazeh-backend/internal/audit"
	"github.com/Sepehr-khosravi/mazeh-backend/internal/identity/domain"
	"github.com/Sepehr-khosravi/mazeh-backend/internal/server/middleware"
	"github.com/Sepehr-khosravi/mazeh-backend/internal/server/respond"
)

// AuthService is the auth core as seen by the HTTP layer. *service.AuthService satisfies it.
type AuthService interface {
	Login(ctx context.Context, creds domain.Credentials) (*domain.AuthData, error)
	Register(ctx context.Context, creds domain.Credentials) (*domain.AuthData, error)
	VerifyTokens(id domain.Identity) (*domain.VerifyData, error)
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

func (r credentialsRequest) toDomain() domain.Credentials {
	return domain.Credentials{Email: r.Email, Username: r.Username, Password: r.Password}
}

// AuthHandler serves register, login and verify.
type AuthHandler struct {
	svc      AuthService
	audit    audit.AuditLogger
	failures middleware.FailureCounter
	logger   *slog.Logger
}

// NewAuthHandler returns an AuthHandler. auditLogger and failures may be nil.
func NewAuthHandler(svc AuthService, auditLogger audit.AuditLogger, failures middleware.FailureCounter, logger *slog.Logger) *AuthHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthHandler{svc: svc, audit: auditLogger, failures: failures, logger: logger}
}

// Register mounts the public routes on g. Verify is mounted on guarded, which must run RequireBearer.
func (h *AuthHandler) Register(g *gin.RouterGroup, guarded *gin.RouterGroup) {
	g.POST("/auth/register", h.register)
	g.POST("/auth/login", h.login)
	guarded.GET("/auth/verify", h.verify)
}

func (h *AuthHandler) register(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.BindError(c, err)
		return
	}
	data, err := h.svc.Register(c.Request.Context(), req.toDomain())
	if err != nil {
		respond.Error(c, h.logger, err)
		return
	}
	if h.audit != nil {
		h.audit.LogEvent(c.Request.Context(), data.ID, "register", "user", middleware.ClientIP(c), "")
	}
	respond.OK(c, http.StatusOK, "ok", data)
}

func (h *AuthHandler) login(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.BindError(c, err)
		return
	}
	data, err := h.svc.Login(c.Request.Context(), req.toDomain())
	if err != nil {
		h.countFailure(err)
		respond.Error(c, h.logger, err)
		return
	}
	respond.OK(c, http.StatusOK, "ok", data)
}

func (h *AuthHandler) verify(c *gin.Context) {
	id, ok := middleware.IdentityFrom(c.Request.Context())
	if !ok {
		respond.Unauthorized(c)
		return
	}
	data, err := h.svc.VerifyTokens(id)
	if err != nil {
		respond.Error(c, h.logger, err)
		return
	}
	respond.OK(c, http.StatusOK, "ok", data)
}

func (h *AuthHandler) countFailure(err error) {
	if h.failures == nil {
		return
	}
	switch {
	case errors.Is(err, apperr.ErrNotFound):
		h.failures.AuthFailure("user_not_found")
	case errors.Is(err, apperr.ErrInvalidCredentials):
		h.failures.AuthFailure("invalid_credentials")
	}
}
