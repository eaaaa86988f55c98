// Package summary holds the read-only aggregations over a user's
// transactions. Every function is pure: the same transactions and reference
// time always produce the same result.
package summary

import (
	"sort"
	"time"

	"ledger-server/src/models"

	"github.com/shopspring/decimal"
)

// TrendMonths is the length of the trailing monthly trend, current month
// included.
const TrendMonths = 6

type categoryKey struct {
	name string
	typ  models.TransactionType
}

type accumulator struct {
	order  []categoryKey
	totals map[categoryKey]*models.CategoryTotal
}

func newAccumulator() *accumulator {
	return &accumulator{totals: map[categoryKey]*models.CategoryTotal{}}
}

func (a *accumulator) add(key categoryKey, amount decimal.Decimal) {
	ct, ok := a.totals[key]
	if !ok {
		ct = &models.CategoryTotal{Category: key.name, Type: key.typ}
		a.totals[key] = ct
		a.order = append(a.order, key)
	}
	ct.Total = ct.Total.Add(amount)
	ct.Count++
}

// sorted returns totals largest first, ties broken by name then type.
func (a *accumulator) sorted() []models.CategoryTotal {
	out := make([]models.CategoryTotal, 0, len(a.order))
	for _, k := range a.order {
		out = append(out, *a.totals[k])
	}
	sort.SliceStable(out, func(i, j int) bool {
		if c := out[i].Total.Cmp(out[j].Total); c != 0 {
			return c > 0
		}
		if out[i].Category != out[j].Category {
			return out[i].Category < out[j].Category
		}
		return out[i].Type < out[j].Type
	})
	return out
}

// CategoryTotals sums transactions of one type by category name. A non-nil
// month restricts the sum to that calendar month.
func CategoryTotals(txs []models.Transaction, typ models.TransactionType, month *Month) []models.CategoryTotal {
	acc := newAccumulator()
	for _, t := range txs {
		if t.Type != typ {
			continue
		}
		if month != nil && !month.Contains(t.Date) {
			continue
		}
		acc.add(categoryKey{name: t.Category}, t.Amount)
	}
	return acc.sorted()
}

type trend struct {
	first Month
	rows  []models.MonthlyTotal
}

func newTrend(now time.Time) *trend {
	current := MonthOf(now)
	tr := &trend{first: current.AddMonths(-(TrendMonths - 1))}
	for i := 0; i < TrendMonths; i++ {
		tr.rows = append(tr.rows, models.MonthlyTotal{
			Month:   tr.first.AddMonths(i).String(),
			Income:  decimal.Zero,
			Expense: decimal.Zero,
		})
	}
	return tr
}

func (tr *trend) add(t models.Transaction) {
	m := MonthOf(t.Date)
	idx := (m.Year-tr.first.Year)*12 + int(m.Month) - int(tr.first.Month)
	if idx < 0 || idx >= len(tr.rows) {
		return
	}
	switch t.Type {
	case models.Income:
		tr.rows[idx].Income = tr.rows[idx].Income.Add(t.Amount)
	case models.Expense:
		tr.rows[idx].Expense = tr.rows[idx].Expense.Add(t.Amount)
	}
}

// TrendStart is the first instant covered by MonthlyTrend for now.
func TrendStart(now time.Time) time.Time {
	return MonthOf(now).AddMonths(-(TrendMonths - 1)).Start()
}

// MonthlyTrend returns income and expense per month for the trailing
// TrendMonths calendar months ending with the month of now, oldest first.
// Months without transactions are present with zero totals.
func MonthlyTrend(txs []models.Transaction, now time.Time) []models.MonthlyTotal {
	tr := newTrend(now)
	for _, t := range txs {
		tr.add(t)
	}
	return tr.rows
}

// Dashboard computes totals, the per-category breakdown across both types and
// the monthly trend in a single pass.
func Dashboard(txs []models.Transaction, now time.Time) models.Dashboard {
	var income, expense decimal.Decimal
	acc := newAccumulator()
	tr := newTrend(now)
	for _, t := range txs {
		switch t.Type {
		case models.Income:
			income = income.Add(t.Amount)
		case models.Expense:
			expense = expense.Add(t.Amount)
		default:
			continue
		}
		acc.add(categoryKey{name: t.Category, typ: t.Type}, t.Amount)
		tr.add(t)
	}
	return models.Dashboard{
		Totals: models.Totals{
			TotalIncome:   income,
			TotalExpenses: expense,
			NetBalance:    income.Sub(expense),
		},
		CategoryBreakdown: acc.sorted(),
		MonthlyTrend:      tr.rows,
	}
}

// BudgetCheck compares the expenses of the month of now with limit. A nil
// limit means no limit and is never exceeded.
func BudgetCheck(txs []models.Transaction, limit *decimal.Decimal, now time.Time) models.BudgetStatus {
	month := MonthOf(now)
	var spent decimal.Decimal
	for _, t := range txs {
		if t.Type == models.Expense && month.Contains(t.Date) {
			spent = spent.Add(t.Amount)
		}
	}
	return models.BudgetStatus{
		Month:         month.String(),
		MonthlyLimit:  limit,
		TotalExpenses: spent,
		OverLimit:     limit != nil && spent.GreaterThan(*limit),
	}
}
