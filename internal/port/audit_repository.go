package port

import (
	"context"

	"stowage/internal/domain"
)

// AuditRepository defines the contract for audit log persistence.
type AuditRepository interface {
	Create(ctx context.Context, entry *domain.AuditEntry) error
	List(ctx context.Context, offset, limit int) ([]domain.AuditEntry, int, error)
}
