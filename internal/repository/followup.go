package repository

import (
	"context"

	"github.com/ayaocrm/crm/internal/model"
	"github.com/ayaocrm/crm/pkg/db/transactor"
)

// FollowupRepository handles persistence for followup notes. Followups are
// immutable, so only create and read are exposed. customer_id is not a
// foreign key - followups deliberately survive customer deletion.
type FollowupRepository interface {
	Create(context.Context, *model.Followup) error
	FindByCustomerID(context.Context, string) ([]*model.Followup, error)
	FindAll(context.Context) ([]*model.Followup, error)
}

type postgresFollowupRepository struct {
	e transactor.PgxWithinTransactionExecutor
}

// NewPostgresFollowupRepository builds postgres FollowupRepository
func NewPostgresFollowupRepository(e transactor.PgxWithinTransactionExecutor) FollowupRepository {
	return &postgresFollowupRepository{e: e}
}

func (r *postgresFollowupRepository) Create(ctx context.Context, f *model.Followup) error {
	q := "INSERT INTO followups(id, customer_id, author, note, next_action, created_at) VALUES($1, $2, $3, $4, $5, $6)"
	if _, err := r.e.Executor(ctx).Exec(ctx, q, f.ID, f.CustomerID, f.Author, f.Note, f.NextAction, f.CreatedAt); err != nil {
		return err
	}
	return nil
}

func (r *postgresFollowupRepository) FindByCustomerID(ctx context.Context, customerID string) ([]*model.Followup, error) {
	q := `SELECT id, customer_id, author, note, next_action, created_at FROM followups
		  WHERE customer_id = $1 ORDER BY created_at DESC`
	return r.query(ctx, q, customerID)
}

func (r *postgresFollowupRepository) FindAll(ctx context.Context) ([]*model.Followup, error) {
	q := "SELECT id, customer_id, author, note, next_action, created_at FROM followups ORDER BY created_at DESC"
	return r.query(ctx, q)
}

func (r *postgresFollowupRepository) query(ctx context.Context, q string, args ...any) ([]*model.Followup, error) {
	rows, err := r.e.Executor(ctx).Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	followups := make([]*model.Followup, 0)
	for rows.Next() {
		var f model.Followup
		if err := rows.Scan(&f.ID, &f.CustomerID, &f.Author, &f.Note, &f.NextAction, &f.CreatedAt); err != nil {
			return nil, err
		}
		followups = append(followups, &f)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return followups, nil
}
