package models

import (
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// Amounts travel as JSON numbers, not quoted strings.
	decimal.MarshalJSONWithoutQuotes = true
}

// Account is the per-user running aggregate maintained by the ledger.
type Account struct {
	ID            string          `json:"id"`
	UserID        string          `json:"user_id"`
	Balance       decimal.Decimal `json:"balance"`
	TotalIncome   decimal.Decimal `json:"total_income"`
	TotalExpenses decimal.Decimal `json:"total_expenses"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// Consistent reports whether the balance still equals income minus expenses
// and no field has gone negative.
func (a Account) Consistent() bool {
	if a.Balance.IsNegative() || a.TotalIncome.IsNegative() || a.TotalExpenses.IsNegative() {
		return false
	}
	return a.Balance.Equal(a.TotalIncome.Sub(a.TotalExpenses))
}
