package models

import "github.com/shopspring/decimal"

type CategoryTotal struct {
	Category string          `json:"category"`
	Type     TransactionType `json:"type,omitempty"`
	Total    decimal.Decimal `json:"total"`
	Count    int             `json:"count"`
}

type MonthlyTotal struct {
	Month   string          `json:"month"`
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
}

type Totals struct {
	TotalIncome   decimal.Decimal `json:"total_income"`
	TotalExpenses decimal.Decimal `json:"total_expenses"`
	NetBalance    decimal.Decimal `json:"net_balance"`
}

type Dashboard struct {
	Totals            Totals          `json:"totals"`
	CategoryBreakdown []CategoryTotal `json:"category_breakdown"`
	MonthlyTrend      []MonthlyTotal  `json:"monthly_trend"`
}

// BudgetStatus compares the current month's spending against the user's limit.
// MonthlyLimit is nil when no goal is set.
type BudgetStatus struct {
	Month         string           `json:"month"`
	MonthlyLimit  *decimal.Decimal `json:"monthly_limit"`
	TotalExpenses decimal.Decimal  `json:"total_expenses"`
	OverLimit     bool             `json:"over_limit"`
}
