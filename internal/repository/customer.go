package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v4"

	"github.com/ayaocrm/crm/internal/model"
	"github.com/ayaocrm/crm/pkg/db/transactor"
)

const customerColumns = `id, name, whatsapp, line, telegram, country, city, age, job, income,
	relation, deal_amount, level, progress, main_owner, assistant, remark, created_at`

// CustomerRepository handles persistence for customer records
type CustomerRepository interface {
	FindByID(context.Context, string) (*model.Customer, error)
	FindAll(context.Context) ([]*model.Customer, error)
	Create(context.Context, *model.Customer) error
	Update(context.Context, *model.Customer) (bool, error)
	DeleteByID(context.Context, string) (bool, error)
}

type postgresCustomerRepository struct {
	e transactor.PgxWithinTransactionExecutor
}

// NewPostgresCustomerRepository builds postgres CustomerRepository
func NewPostgresCustomerRepository(e transactor.PgxWithinTransactionExecutor) CustomerRepository {
	return &postgresCustomerRepository{e: e}
}

func (r *postgresCustomerRepository) FindByID(ctx context.Context, id string) (*model.Customer, error) {
	q := "SELECT " + customerColumns + " FROM customers WHERE id = $1"

	var c model.Customer
	row := r.e.Executor(ctx).QueryRow(ctx, q, id)
	if err := r.scan(row, &c); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

func (r *postgresCustomerRepository) FindAll(ctx context.Context) ([]*model.Customer, error) {
	q := "SELECT " + customerColumns + " FROM customers ORDER BY created_at DESC"

	rows, err := r.e.Executor(ctx).Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	customers := make([]*model.Customer, 0)
	for rows.Next() {
		var c model.Customer
		if err := r.scan(rows, &c); err != nil {
			return nil, err
		}
		customers = append(customers, &c)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return customers, nil
}

func (r *postgresCustomerRepository) Create(ctx context.Context, c *model.Customer) error {
	q := `INSERT INTO customers(` + customerColumns + `)
		  VALUES($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)`
	_, err := r.e.Executor(ctx).Exec(ctx, q,
		c.ID, c.Name, c.WhatsApp, c.Line, c.Telegram, c.Country, c.City, c.Age, c.Job, c.Income,
		c.Relation, c.DealAmount, c.Level, c.Progress, c.MainOwner, c.Assistant, c.Remark, c.CreatedAt,
	)
	if err != nil {
		return err
	}
	return nil
}

func (r *postgresCustomerRepository) Update(ctx context.Context, c *model.Customer) (bool, error) {
	q := `UPDATE customers SET name = $1, whatsapp = $2, line = $3, telegram = $4, country = $5,
		  city = $6, age = $7, job = $8, income = $9, relation = $10, deal_amount = $11,
		  level = $12, progress = $13, main_owner = $14, assistant = $15, remark = $16
		  WHERE id = $17`
	comm, err := r.e.Executor(ctx).Exec(ctx, q,
		c.Name, c.WhatsApp, c.Line, c.Telegram, c.Country, c.City, c.Age, c.Job, c.Income,
		c.Relation, c.DealAmount, c.Level, c.Progress, c.MainOwner, c.Assistant, c.Remark, c.ID,
	)
	if err != nil {
		return false, err
	}
	return comm.RowsAffected() > 0, nil
}

func (r *postgresCustomerRepository) DeleteByID(ctx context.Context, id string) (bool, error) {
	q := "DELETE FROM customers WHERE id = $1"
	comm, err := r.e.Executor(ctx).Exec(ctx, q, id)
	if err != nil {
		return false, err
	}
	return comm.RowsAffected() > 0, nil
}

func (r *postgresCustomerRepository) scan(row pgx.Row, c *model.Customer) error {
	return row.Scan(
		&c.ID, &c.Name, &c.WhatsApp, &c.Line, &c.Telegram, &c.Country, &c.City, &c.Age, &c.Job,
		&c.Income, &c.Relation, &c.DealAmount, &c.Level, &c.Progress, &c.MainOwner, &c.Assistant,
		&c.Remark, &c.CreatedAt,
	)
}
