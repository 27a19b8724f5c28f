package repository

import (
	"context"

	"github.com/ayaocrm/crm/internal/model"
	"github.com/ayaocrm/crm/pkg/db/transactor"
)

// AuditLogRepository handles the append-only action log. No update or
// delete is exposed anywhere.
type AuditLogRepository interface {
	Create(context.Context, *model.AuditLogEntry) error
	FindRecent(ctx context.Context, limit int) ([]*model.AuditLogEntry, error)
}

type postgresAuditLogRepository struct {
	e transactor.PgxWithinTransactionExecutor
}

// NewPostgresAuditLogRepository builds postgres AuditLogRepository
func NewPostgresAuditLogRepository(e transactor.PgxWithinTransactionExecutor) AuditLogRepository {
	return &postgresAuditLogRepository{e: e}
}

func (r *postgresAuditLogRepository) Create(ctx context.Context, entry *model.AuditLogEntry) error {
	q := `INSERT INTO action_logs(id, username, action, target_type, target_id, details, created_at)
		  VALUES($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.e.Executor(ctx).Exec(ctx, q,
		entry.ID, entry.Username, entry.Action, entry.TargetType, entry.TargetID, entry.Details, entry.CreatedAt,
	)
	if err != nil {
		return err
	}
	return nil
}

func (r *postgresAuditLogRepository) FindRecent(ctx context.Context, limit int) ([]*model.AuditLogEntry, error) {
	q := `SELECT id, username, action, target_type, target_id, details, created_at FROM action_logs
		  ORDER BY created_at DESC LIMIT $1`

	rows, err := r.e.Executor(ctx).Query(ctx, q, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make([]*model.AuditLogEntry, 0)
	for rows.Next() {
		var e model.AuditLogEntry
		if err := rows.Scan(&e.ID, &e.Username, &e.Action, &e.TargetType, &e.TargetID, &e.Details, &e.CreatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, &e)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}
