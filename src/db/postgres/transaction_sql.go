package postgres

import (
	"context"

	"ledger-server/src/models"
)

type TransactionRepo struct {
	q DBTX
}

const transactionColumns = `id, user_id, amount, category, type, sender, receiver, date, note, created_at, updated_at`

func scanTransaction(row interface{ Scan(...any) error }) (*models.Transaction, error) {
	var t models.Transaction
	err := row.Scan(&t.ID, &t.UserID, &t.Amount, &t.Category, &t.Type, &t.Sender, &t.Receiver, &t.Date, &t.Note, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, mapErr(err)
	}
	return &t, nil
}

func (r *TransactionRepo) Create(ctx context.Context, t *models.Transaction) error {
	query := `
		INSERT INTO transactions (id, user_id, amount, category, type, sender, receiver, date, note, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err := r.q.Exec(ctx, query, t.ID, t.UserID, t.Amount, t.Category, string(t.Type),
		t.Sender, t.Receiver, t.Date, t.Note, t.CreatedAt, t.UpdatedAt)
	return mapErr(err)
}

func (r *TransactionRepo) Get(ctx context.Context, userID, id string) (*models.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE id = $1 AND user_id = $2`
	return scanTransaction(r.q.QueryRow(ctx, query, id, userID))
}

func (r *TransactionRepo) List(ctx context.Context, userID string, f models.TransactionFilter) ([]models.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE user_id = $1
		  AND ($2 = '' OR category = $2)
		  AND ($3 = '' OR type = $3)
		  AND ($4::timestamptz IS NULL OR date >= $4)
		  AND ($5::timestamptz IS NULL OR date <= $5)
		ORDER BY date DESC, created_at DESC, id DESC
	`
	rows, err := r.q.Query(ctx, query, userID, f.Category, string(f.Type), f.Start, f.End)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	transactions := []models.Transaction{}
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, *t)
	}
	return transactions, mapErr(rows.Err())
}

func (r *TransactionRepo) Update(ctx context.Context, t *models.Transaction) error {
	query := `
		UPDATE transactions
		SET amount = $3, category = $4, type = $5, sender = $6, receiver = $7, date = $8, note = $9, updated_at = $10
		WHERE id = $1 AND user_id = $2
	`
	return expectOne(r.q.Exec(ctx, query, t.ID, t.UserID, t.Amount, t.Category, string(t.Type),
		t.Sender, t.Receiver, t.Date, t.Note, t.UpdatedAt))
}

func (r *TransactionRepo) Delete(ctx context.Context, userID, id string) error {
	return expectOne(r.q.Exec(ctx, `DELETE FROM transactions WHERE id = $1 AND user_id = $2`, id, userID))
}

func (r *TransactionRepo) CountByCategory(ctx context.Context, userID, category string) (int, error) {
	var n int
	err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM transactions WHERE user_id = $1 AND category = $2`, userID, category).Scan(&n)
	if err != nil {
		return 0, mapErr(err)
	}
	return n, nil
}
