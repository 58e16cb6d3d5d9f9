// Package noop provides an AuditRepository that keeps nothing, used when no
// database is configured.
package noop

import (
	"context"

	"stowage/internal/domain"
	"stowage/internal/port"
)

type auditRepo struct{}

// NewAuditRepo creates an AuditRepository that discards entries.
func NewAuditRepo() port.AuditRepository {
	return auditRepo{}
}

func (auditRepo) Create(context.Context, *domain.AuditEntry) error { return nil }

func (auditRepo) List(context.Context, int, int) ([]domain.AuditEntry, int, error) {
	return []domain.AuditEntry{}, 0, nil
}
