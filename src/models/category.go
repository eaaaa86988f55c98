package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Category struct {
	ID            string           `json:"id"`
	UserID        string           `json:"user_id"`
	Name          string           `json:"name"`
	Icon          string           `json:"icon"`
	Emoji         string           `json:"emoji"`
	Color         string           `json:"color"`
	Type          TransactionType  `json:"type"`
	MonthlyBudget *decimal.Decimal `json:"monthly_budget"`
	IsDefault     bool             `json:"is_default"`
	CreatedAt     time.Time        `json:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at"`
}

type CreateCategoryRequest struct {
	Name          string           `json:"name"`
	Icon          string           `json:"icon"`
	Emoji         string           `json:"emoji"`
	Color         string           `json:"color"`
	Type          TransactionType  `json:"type"`
	MonthlyBudget *decimal.Decimal `json:"monthly_budget"`
}

// UpdateCategoryRequest carries a partial update; nil fields are left as is.
type UpdateCategoryRequest struct {
	Name          *string          `json:"name"`
	Icon          *string          `json:"icon"`
	Emoji         *string          `json:"emoji"`
	Color         *string          `json:"color"`
	MonthlyBudget *decimal.Decimal `json:"monthly_budget"`
}
