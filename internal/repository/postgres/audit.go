package postgres

import (
	"context"

	"github.com/jmoiron/sqlx"

	"dinarex/internal/domain"
	"dinarex/pkg/errors"
)

type AuditRepository struct {
	db *sqlx.DB
}

func NewAuditRepository(db *sqlx.DB) *AuditRepository {
	return &AuditRepository{db: db}
}

func (r *AuditRepository) Create(ctx context.Context, log *domain.AuditLog) error {
	query := `
        INSERT INTO audit_logs (id, action, entity_type, entity_id, actor, new_values, created_at)
        VALUES (:id, :action, :entity_type, :entity_id, :actor, :new_values, :created_at)
    `
	_, err := r.db.NamedExecContext(ctx, query, log)
	return errors.Wrap(err, "failed to insert audit log")
}

func (r *AuditRepository) FindAll(ctx context.Context, limit, offset int) ([]*domain.AuditLog, error) {
	var logs []*domain.AuditLog
	err := r.db.SelectContext(ctx, &logs,
		`SELECT * FROM audit_logs ORDER BY created_at DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list audit logs")
	}
	return logs, nil
}

func (r *AuditRepository) CountAll(ctx context.Context) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM audit_logs`)
	if err != nil {
		return 0, errors.Wrap(err, "failed to count audit logs")
	}
	return count, nil
}
