package middleware

import (
	"log/slog"
	"strings"

	"github.com/gin-gonic/gin"

	identitydomain "github.com/Sepehr-khosravi/mazeh-backend/internal/identity/domain"
	"github.com/Sepehr-khosravi/mazeh-backend/internal/security"
	"github.com/Sepehr-khosravi/mazeh-backend/internal/server/respond"
)

const bearerPrefix = "Bearer "

// TokenValidator verifies a raw bearer token. *security.TokenProvider satisfies it.
type TokenValidator interface {
	Validate(token string) (security.Claims, error)
}

// FailureCounter counts rejected authentication attempts. *observability.Metrics satisfies it.
type FailureCounter interface {
	AuthFailure(reason string)
}

// RequireBearer rejects the request with 401 unless the Authorization header
// carries "Bearer <token>" with a token that validates. On success the identity
// is attached to the request context. Rejections are logged with a fixed message;
// the token is never logged.
func RequireBearer(tokens TokenValidator, logger *slog.Logger, failures FailureCounter) gin.HandlerFunc {
	if logger == nil {
		logger = slog.Default()
	}
	reject := func(c *gin.Context, reason string) {
		logger.WarnContext(c.Request.Context(), "bearer token rejected",
			"reason", reason,
			"route", c.FullPath(),
			"request_id", RequestIDFrom(c.Request.Context()),
		)
		if failures != nil {
			failures.AuthFailure(reason)
		}
		respond.Unauthorized(c)
	}

	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			reject(c, "missing_token")
			return
		}
		token, ok := extractBearer(header)
		if !ok {
			reject(c, "malformed_header")
			return
		}
		claims, err := tokens.Validate(token)
		if err != nil {
			reject(c, "invalid_token")
			return
		}
		ctx := WithIdentity(c.Request.Context(), identitydomain.Identity{
			ID:       claims.ID,
			Email:    claims.Email,
			Username: claims.Username,
		})
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// extractBearer strips the case-sensitive "Bearer " prefix. An empty remainder is not a token.
func extractBearer(header string) (string, bool) {
	rest, ok := strings.CutPrefix(header, bearerPrefix)
	if !ok {
		return "", false
	}
	rest = strings.TrimSpace(rest)
	return rest, rest != ""
}
