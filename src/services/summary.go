package services

import (
	"context"
	"time"

	"ledger-server/src/db"
	"ledger-server/src/models"
	"ledger-server/src/summary"
)

// SummaryService loads a user's transactions and hands them to the summary
// functions. Nothing is cached between calls.
type SummaryService struct {
	store   db.Store
	budgets *BudgetService
	now     func() time.Time
}

func NewSummaryService(store db.Store, budgets *BudgetService) *SummaryService {
	return &SummaryService{store: store, budgets: budgets, now: time.Now}
}

func (s *SummaryService) load(ctx context.Context, userID string, filter models.TransactionFilter) ([]models.Transaction, error) {
	txs, err := s.store.Transactions().List(ctx, userID, filter)
	if err != nil {
		return nil, storeErr(err)
	}
	return txs, nil
}

func monthFilter(typ models.TransactionType, m summary.Month) models.TransactionFilter {
	start, end := m.Start(), m.End()
	return models.TransactionFilter{Type: typ, Start: &start, End: &end}
}

// CategoryTotals defaults to expenses when typ is empty.
func (s *SummaryService) CategoryTotals(ctx context.Context, userID string, typ models.TransactionType) ([]models.CategoryTotal, error) {
	if typ == "" {
		typ = models.Expense
	}
	if !typ.Valid() {
		return nil, validationErr("type must be %q or %q", models.Income, models.Expense)
	}
	txs, err := s.load(ctx, userID, models.TransactionFilter{Type: typ})
	if err != nil {
		return nil, err
	}
	return summary.CategoryTotals(txs, typ, nil), nil
}

// CategoryMonthly is CategoryTotals for one month; an empty month means the
// current one.
func (s *SummaryService) CategoryMonthly(ctx context.Context, userID string, typ models.TransactionType, month string) ([]models.CategoryTotal, error) {
	if typ == "" {
		typ = models.Expense
	}
	if !typ.Valid() {
		return nil, validationErr("type must be %q or %q", models.Income, models.Expense)
	}
	m := summary.MonthOf(s.now())
	if month != "" {
		var err error
		if m, err = summary.ParseMonth(month); err != nil {
			return nil, validationErr("%v", err)
		}
	}
	txs, err := s.load(ctx, userID, monthFilter(typ, m))
	if err != nil {
		return nil, err
	}
	return summary.CategoryTotals(txs, typ, &m), nil
}

func (s *SummaryService) MonthlyTrend(ctx context.Context, userID string) ([]models.MonthlyTotal, error) {
	now := s.now()
	start := summary.TrendStart(now)
	txs, err := s.load(ctx, userID, models.TransactionFilter{Start: &start})
	if err != nil {
		return nil, err
	}
	return summary.MonthlyTrend(txs, now), nil
}

func (s *SummaryService) Dashboard(ctx context.Context, userID string) (*models.Dashboard, error) {
	txs, err := s.load(ctx, userID, models.TransactionFilter{})
	if err != nil {
		return nil, err
	}
	d := summary.Dashboard(txs, s.now())
	return &d, nil
}

func (s *SummaryService) BudgetCheck(ctx context.Context, userID string) (*models.BudgetStatus, error) {
	limit, err := s.budgets.GetLimit(ctx, userID)
	if err != nil {
		return nil, err
	}
	now := s.now()
	txs, err := s.load(ctx, userID, monthFilter(models.Expense, summary.MonthOf(now)))
	if err != nil {
		return nil, err
	}
	st := summary.BudgetCheck(txs, limit, now)
	return &st, nil
}
