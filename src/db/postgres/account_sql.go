package postgres

import (
	"context"

	"ledger-server/src/models"
)

type AccountRepo struct {
	q DBTX
}

const accountColumns = `id, user_id, balance, total_income, total_expenses, created_at, updated_at`

func scanAccount(row interface{ Scan(...any) error }) (*models.Account, error) {
	var a models.Account
	err := row.Scan(&a.ID, &a.UserID, &a.Balance, &a.TotalIncome, &a.TotalExpenses, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, mapErr(err)
	}
	return &a, nil
}

func (r *AccountRepo) Get(ctx context.Context, userID string) (*models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE user_id = $1`
	return scanAccount(r.q.QueryRow(ctx, query, userID))
}

func (r *AccountRepo) insertIfMissing(ctx context.Context, account *models.Account) error {
	query := `
		INSERT INTO accounts (id, user_id, balance, total_income, total_expenses, created_at, updated_at)
		VALUES ($1, $2, 0, 0, 0, $3, $3)
		ON CONFLICT (user_id) DO NOTHING
	`
	_, err := r.q.Exec(ctx, query, account.ID, account.UserID, account.CreatedAt)
	return mapErr(err)
}

func (r *AccountRepo) Ensure(ctx context.Context, account *models.Account) (*models.Account, error) {
	if err := r.insertIfMissing(ctx, account); err != nil {
		return nil, err
	}
	return r.Get(ctx, account.UserID)
}

func (r *AccountRepo) Lock(ctx context.Context, account *models.Account) (*models.Account, error) {
	if err := r.insertIfMissing(ctx, account); err != nil {
		return nil, err
	}
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE user_id = $1 FOR UPDATE`
	return scanAccount(r.q.QueryRow(ctx, query, account.UserID))
}

func (r *AccountRepo) Update(ctx context.Context, account *models.Account) error {
	query := `
		UPDATE accounts
		SET balance = $2, total_income = $3, total_expenses = $4, updated_at = $5
		WHERE user_id = $1
	`
	return expectOne(r.q.Exec(ctx, query,
		account.UserID, account.Balance, account.TotalIncome, account.TotalExpenses, account.UpdatedAt))
}
