package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// BudgetGoal is a user's monthly spending ceiling. There is at most one per user.
type BudgetGoal struct {
	ID           string          `json:"id"`
	UserID       string          `json:"user_id"`
	MonthlyLimit decimal.Decimal `json:"monthly_limit"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}
