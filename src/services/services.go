// Package services holds the domain operations behind the HTTP API. Every
// operation takes the caller's user id and never touches another user's data.
package services

import (
	"ledger-server/src/auth"
	"ledger-server/src/db"
)

type Services struct {
	Users      *UserService
	Ledger     *LedgerService
	Categories *CategoryService
	Budgets    *BudgetService
	Summary    *SummaryService
}

func New(store db.Store, cache *db.UserCache, tokens *auth.TokenManager) *Services {
	budgets := NewBudgetService(store)
	return &Services{
		Users:      NewUserService(store, cache, tokens),
		Ledger:     NewLedgerService(store),
		Categories: NewCategoryService(store),
		Budgets:    budgets,
		Summary:    NewSummaryService(store, budgets),
	}
}
