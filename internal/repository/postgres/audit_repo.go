package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"stowage/internal/domain"
	"stowage/internal/port"
)

type auditRepo struct {
	db *sqlx.DB
}

// NewAuditRepo creates a new PostgreSQL-backed AuditRepository.
func NewAuditRepo(db *sqlx.DB) port.AuditRepository {
	return &auditRepo{db: db}
}

func (r *auditRepo) Create(ctx context.Context, entry *domain.AuditEntry) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO audit_log (id, action, bucket, object_key, detail, request_id, succeeded)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		entry.ID, entry.Action, entry.Bucket, entry.Key, entry.Detail, entry.RequestID, entry.Succeeded)
	if err != nil {
		return fmt.Errorf("auditRepo.Create: %w", err)
	}
	return nil
}

func (r *auditRepo) List(ctx context.Context, offset, limit int) ([]domain.AuditEntry, int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM audit_log`); err != nil {
		return nil, 0, fmt.Errorf("auditRepo.List count: %w", err)
	}

	var entries []domain.AuditEntry
	err := r.db.SelectContext(ctx, &entries,
		`SELECT id, action, bucket, object_key, detail, request_id, succeeded, created_at
		 FROM audit_log
		 ORDER BY created_at DESC
		 LIMIT $1 OFFSET $2`,
		limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("auditRepo.List: %w", err)
	}
	return entries, total, nil
}
