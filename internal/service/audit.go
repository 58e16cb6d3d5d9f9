package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"stowage/internal/domain"
	"stowage/internal/port"
)

// auditRecorder writes audit entries on a best-effort basis. A failed write is
// logged and never surfaces to the caller.
type auditRecorder struct {
	repo port.AuditRepository
	log  *zap.Logger
}

func (r *auditRecorder) record(ctx context.Context, action domain.AuditAction, bucket, key, detail string, opErr error) {
	entry := &domain.AuditEntry{
		ID:        uuid.New(),
		Action:    action,
		Bucket:    bucket,
		Key:       key,
		Detail:    detail,
		RequestID: domain.RequestIDFromContext(ctx),
		Succeeded: opErr == nil,
	}
	if err := r.repo.Create(ctx, entry); err != nil {
		r.log.Warn("failed to write audit entry",
			zap.String("action", string(action)),
			zap.String("bucket", bucket),
			zap.String("key", key),
			zap.Error(err),
		)
	}
}

// requireArgs takes name/value pairs and returns ErrInvalidArgument naming the
// first empty value.
func requireArgs(pairs ...string) error {
	for i := 0; i+1 < len(pairs); i += 2 {
		if pairs[i+1] == "" {
			return invalidArg(pairs[i] + " is required")
		}
	}
	return nil
}

func invalidArg(msg string) error {
	return fmt.Errorf("%w: %s", domain.ErrInvalidArgument, msg)
}
