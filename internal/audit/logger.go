package audit

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/Sepehr-khosravi/mazeh-backend/internal/audit/domain"
	auditrepo "github.com/Sepehr-khosravi/mazeh-backend/internal/audit/repository"
	"github.com/Sepehr-khosravi/mazeh-backend/internal/logging"
)

// AuditLogger writes a single audit event. Used by the audit middleware and the register handler.
// LogEvent is best-effort: failures are logged and do not affect the caller.
type AuditLogger interface {
	LogEvent(ctx context.Context, userID int64, action, resource, ip, metadata string)
}

// Emitter mirrors audit events to an external log pipeline. *otel.LogEmitter satisfies it.
type Emitter interface {
	Emit(ctx context.Context, ts time.Time, body string, attrs map[string]string)
}

// Logger implements AuditLogger with a repository and an optional emitter.
type Logger struct {
	repo    auditrepo.Repository
	emitter Emitter
	log     *slog.Logger
}

// NewLogger returns a Logger persisting to repo. repo and emitter may be nil.
func NewLogger(repo auditrepo.Repository, emitter Emitter, log *slog.Logger) *Logger {
	if log == nil {
		log = slog.Default()
	}
	return &Logger{repo: repo, emitter: emitter, log: log}
}

// LogEvent writes one audit log entry and emits it as a log record.
func (l *Logger) LogEvent(ctx context.Context, userID int64, action, resource, ip, metadata string) {
	if ip == "" {
		ip = "unknown"
	}
	entry := &domain.AuditLog{
		ID:        uuid.New().String(),
		UserID:    userID,
		Action:    action,
		Resource:  resource,
		IP:        ip,
		Metadata:  metadata,
		CreatedAt: time.Now().UTC(),
	}
	if l.repo != nil {
		if err := l.repo.Create(ctx, entry); err != nil {
			logging.LogError(ctx, l.log, "audit: failed to persist event", err)
		}
	}
	if l.emitter != nil {
		attrs := map[string]string{
			"audit_id": entry.ID,
			"action":   action,
			"resource": resource,
			"ip":       ip,
			"metadata": metadata,
		}
		if userID != 0 {
			attrs["user_id"] = strconv.FormatInt(userID, 10)
		}
		l.emitter.Emit(ctx, entry.CreatedAt, action+" "+resource, attrs)
	}
}
