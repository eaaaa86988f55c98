package postgres

import (
	"context"

	"ledger-server/src/models"
)

type BudgetGoalRepo struct {
	q DBTX
}

func (r *BudgetGoalRepo) Get(ctx context.Context, userID string) (*models.BudgetGoal, error) {
	query := `
		SELECT id, user_id, monthly_limit, created_at, updated_at
		FROM budget_goals WHERE user_id = $1
	`
	var g models.BudgetGoal
	err := r.q.QueryRow(ctx, query, userID).Scan(&g.ID, &g.UserID, &g.MonthlyLimit, &g.CreatedAt, &g.UpdatedAt)
	if err != nil {
		return nil, mapErr(err)
	}
	return &g, nil
}

func (r *BudgetGoalRepo) Upsert(ctx context.Context, goal *models.BudgetGoal) (*models.BudgetGoal, error) {
	query := `
		INSERT INTO budget_goals (id, user_id, monthly_limit, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $4)
		ON CONFLICT (user_id) DO UPDATE
		SET monthly_limit = EXCLUDED.monthly_limit, updated_at = EXCLUDED.updated_at
		RETURNING id, user_id, monthly_limit, created_at, updated_at
	`
	var g models.BudgetGoal
	err := r.q.QueryRow(ctx, query, goal.ID, goal.UserID, goal.MonthlyLimit, goal.UpdatedAt).
		Scan(&g.ID, &g.UserID, &g.MonthlyLimit, &g.CreatedAt, &g.UpdatedAt)
	if err != nil {
		return nil, mapErr(err)
	}
	return &g, nil
}
