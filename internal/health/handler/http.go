// Package handler serves liveness and readiness probes.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Pinger checks database connectivity. *pgxpool.Pool satisfies it.
type Pinger interface {
	Ping(ctx context.Context) error
}

// PolicyChecker checks that the policy engine can evaluate. *engine.OPAEvaluator satisfies it.
type PolicyChecker interface {
	HealthCheck(ctx context.Context) error
}

const probeTimeout = 2 * time.Second

// Server answers the probes. A nil dependency is skipped.
type Server struct {
	pinger Pinger
	policy PolicyChecker
	logger *slog.Logger
}

func NewServer(pinger Pinger, policy PolicyChecker, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{pinger: pinger, policy: policy, logger: logger}
}

// Register mounts /healthz/liveness and /healthz/readiness on r.
func (s *Server) Register(r gin.IRoutes) {
	r.GET("/healthz/liveness", s.Liveness)
	r.GET("/healthz/readiness", s.Readiness)
}

// Liveness always answers 200 while the process serves HTTP.
func (s *Server) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Readiness answers 503 when the database does not ping or the policy engine cannot evaluate.
func (s *Server) Readiness(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), probeTimeout)
	defer cancel()

	checks := gin.H{}
	ready := true
	if s.pinger != nil {
		if err := s.pinger.Ping(ctx); err != nil {
			s.logger.WarnContext(ctx, "readiness: database ping failed", "error", err)
			checks["database"] = "down"
			ready = false
		} else {
			checks["database"] = "ok"
		}
	}
	if s.policy != nil {
		if err := s.policy.HealthCheck(ctx); err != nil {
			s.logger.WarnContext(ctx, "readiness: policy engine failed", "error", err)
			checks["policy"] = "down"
			ready = false
		} else {
			checks["policy"] = "ok"
		}
	}

	if !ready {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "checks": checks})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "checks": checks})
}
