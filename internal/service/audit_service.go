package service

import (
	"context"

	"stowage/internal/domain"
	"stowage/internal/port"
)

// AuditService exposes the audit log.
type AuditService interface {
	List(ctx context.Context, offset, limit int) ([]domain.AuditEntry, int, error)
}

type auditService struct {
	repo port.AuditRepository
}

// NewAuditService creates a new AuditService implementation.
func NewAuditService(repo port.AuditRepository) AuditService {
	return &auditService{repo: repo}
}

func (s *auditService) List(ctx context.Context, offset, limit int) ([]domain.AuditEntry, int, error) {
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.repo.List(ctx, offset, limit)
}
