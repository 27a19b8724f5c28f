package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v4"

	"github.com/ayaocrm/crm/internal/model"
	"github.com/ayaocrm/crm/pkg/db/transactor"
)

// UserRepository handles persistence for user accounts
type UserRepository interface {
	FindByUsername(context.Context, string) (*model.User, error)
	FindAll(context.Context) ([]*model.UserInfo, error)
	Create(context.Context, *model.User) error
	UpdatePassword(ctx context.Context, username string, passwordHash string) (bool, error)
	DeleteByUsername(context.Context, string) (bool, error)
	Count(context.Context) (int, error)
	CountByRole(context.Context, model.Role) (int, error)
}

type postgresUserRepository struct {
	e transactor.PgxWithinTransactionExecutor
}

// NewPostgresUserRepository builds postgres UserRepository
func NewPostgresUserRepository(e transactor.PgxWithinTransactionExecutor) UserRepository {
	return &postgresUserRepository{e: e}
}

func (r *postgresUserRepository) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	q := "SELECT username, password_hash, role, full_name, preferred_lang FROM users WHERE username = $1"

	var u model.User
	row := r.e.Executor(ctx).QueryRow(ctx, q, username)
	if err := row.Scan(&u.Username, &u.PasswordHash, &u.Role, &u.FullName, &u.Language); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

func (r *postgresUserRepository) FindAll(ctx context.Context) ([]*model.UserInfo, error) {
	q := "SELECT username, role, full_name, preferred_lang FROM users ORDER BY username"

	rows, err := r.e.Executor(ctx).Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := make([]*model.UserInfo, 0)
	for rows.Next() {
		var u model.UserInfo
		if err := rows.Scan(&u.Username, &u.Role, &u.FullName, &u.Language); err != nil {
			return nil, err
		}
		users = append(users, &u)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return users, nil
}

func (r *postgresUserRepository) Create(ctx context.Context, u *model.User) error {
	q := "INSERT INTO users(username, password_hash, role, full_name, preferred_lang) VALUES($1, $2, $3, $4, $5)"
	if _, err := r.e.Executor(ctx).Exec(ctx, q, u.Username, u.PasswordHash, u.Role, u.FullName, u.Language); err != nil {
		return err
	}
	return nil
}

func (r *postgresUserRepository) UpdatePassword(ctx context.Context, username string, passwordHash string) (bool, error) {
	q := "UPDATE users SET password_hash = $1 WHERE username = $2"
	comm, err := r.e.Executor(ctx).Exec(ctx, q, passwordHash, username)
	if err != nil {
		return false, err
	}
	return comm.RowsAffected() > 0, nil
}

func (r *postgresUserRepository) DeleteByUsername(ctx context.Context, username string) (bool, error) {
	q := "DELETE FROM users WHERE username = $1"
	comm, err := r.e.Executor(ctx).Exec(ctx, q, username)
	if err != nil {
		return false, err
	}
	return comm.RowsAffected() > 0, nil
}

func (r *postgresUserRepository) Count(ctx context.Context) (int, error) {
	q := "SELECT COUNT(1) FROM users"

	var count int
	if err := r.e.Executor(ctx).QueryRow(ctx, q).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *postgresUserRepository) CountByRole(ctx context.Context, role model.Role) (int, error) {
	q := "SELECT COUNT(1) FROM users WHERE role = $1"

	var count int
	if err := r.e.Executor(ctx).QueryRow(ctx, q, role).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}
