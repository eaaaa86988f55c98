package services

import (
	"context"
	"errors"
	"time"

	"ledger-server/src/db"
	"ledger-server/src/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type BudgetService struct {
	store db.Store
	now   func() time.Time
}

func NewBudgetService(store db.Store) *BudgetService {
	return &BudgetService{store: store, now: time.Now}
}

// GetLimit returns nil when the user has not set a limit.
func (s *BudgetService) GetLimit(ctx context.Context, userID string) (*decimal.Decimal, error) {
	goal, err := s.store.BudgetGoals().Get(ctx, userID)
	if errors.Is(err, db.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, storeErr(err)
	}
	return &goal.MonthlyLimit, nil
}

func (s *BudgetService) SetLimit(ctx context.Context, userID string, limit decimal.Decimal) (*models.BudgetGoal, error) {
	if !validAmount(limit) {
		return nil, validationErr("monthly_limit must be greater than zero and less than %s", maxAmount)
	}
	now := s.now().UTC()
	goal, err := s.store.BudgetGoals().Upsert(ctx, &models.BudgetGoal{
		ID:           uuid.NewString(),
		UserID:       userID,
		MonthlyLimit: limit.Round(2),
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return nil, storeErr(err)
	}
	return goal, nil
}
