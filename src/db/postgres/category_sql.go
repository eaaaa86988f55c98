package postgres

import (
	"context"

	"ledger-server/src/models"

	"github.com/shopspring/decimal"
)

type CategoryRepo struct {
	q DBTX
}

const categoryColumns = `id, user_id, name, icon, emoji, color, type, monthly_budget, is_default, created_at, updated_at`

func scanCategory(row interface{ Scan(...any) error }) (*models.Category, error) {
	var c models.Category
	var budget decimal.NullDecimal
	err := row.Scan(&c.ID, &c.UserID, &c.Name, &c.Icon, &c.Emoji, &c.Color, &c.Type, &budget, &c.IsDefault, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, mapErr(err)
	}
	if budget.Valid {
		c.MonthlyBudget = &budget.Decimal
	}
	return &c, nil
}

func nullable(d *decimal.Decimal) decimal.NullDecimal {
	if d == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(*d)
}

func (r *CategoryRepo) Create(ctx context.Context, c *models.Category) error {
	query := `
		INSERT INTO categories (id, user_id, name, icon, emoji, color, type, monthly_budget, is_default, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err := r.q.Exec(ctx, query, c.ID, c.UserID, c.Name, c.Icon, c.Emoji, c.Color, string(c.Type),
		nullable(c.MonthlyBudget), c.IsDefault, c.CreatedAt, c.UpdatedAt)
	return mapErr(err)
}

func (r *CategoryRepo) Get(ctx context.Context, userID, id string) (*models.Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM categories WHERE id = $1 AND user_id = $2`
	return scanCategory(r.q.QueryRow(ctx, query, id, userID))
}

func (r *CategoryRepo) List(ctx context.Context, userID string, typ models.TransactionType) ([]models.Category, error) {
	query := `
		SELECT ` + categoryColumns + `
		FROM categories
		WHERE user_id = $1 AND ($2 = '' OR type = $2)
		ORDER BY name ASC
	`
	rows, err := r.q.Query(ctx, query, userID, string(typ))
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	categories := []models.Category{}
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		categories = append(categories, *c)
	}
	return categories, mapErr(rows.Err())
}

func (r *CategoryRepo) Update(ctx context.Context, c *models.Category) error {
	query := `
		UPDATE categories
		SET name = $3, icon = $4, emoji = $5, color = $6, monthly_budget = $7, updated_at = $8
		WHERE id = $1 AND user_id = $2
	`
	return expectOne(r.q.Exec(ctx, query, c.ID, c.UserID, c.Name, c.Icon, c.Emoji, c.Color,
		nullable(c.MonthlyBudget), c.UpdatedAt))
}

func (r *CategoryRepo) Delete(ctx context.Context, userID, id string) error {
	return expectOne(r.q.Exec(ctx, `DELETE FROM categories WHERE id = $1 AND user_id = $2`, id, userID))
}

func (r *CategoryRepo) CountDefaults(ctx context.Context, userID string) (int, error) {
	var n int
	err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM categories WHERE user_id = $1 AND is_default`, userID).Scan(&n)
	if err != nil {
		return 0, mapErr(err)
	}
	return n, nil
}
