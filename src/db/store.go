package db

import (
	"context"
	"errors"

	"ledger-server/src/models"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate record")
)

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	UpdateName(ctx context.Context, id, name string) (*models.User, error)
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	Delete(ctx context.Context, id string) error
}

type AccountRepository interface {
	// Get returns the account without creating it.
	Get(ctx context.Context, userID string) (*models.Account, error)
	// Ensure returns the user's account, creating a zeroed one if absent.
	Ensure(ctx context.Context, account *models.Account) (*models.Account, error)
	// Lock is Ensure plus a row lock held until the enclosing transaction ends.
	Lock(ctx context.Context, account *models.Account) (*models.Account, error)
	Update(ctx context.Context, account *models.Account) error
}

type CategoryRepository interface {
	Create(ctx context.Context, category *models.Category) error
	Get(ctx context.Context, userID, id string) (*models.Category, error)
	List(ctx context.Context, userID string, typ models.TransactionType) ([]models.Category, error)
	Update(ctx context.Context, category *models.Category) error
	Delete(ctx context.Context, userID, id string) error
	CountDefaults(ctx context.Context, userID string) (int, error)
}

type TransactionRepository interface {
	Create(ctx context.Context, tx *models.Transaction) error
	Get(ctx context.Context, userID, id string) (*models.Transaction, error)
	List(ctx context.Context, userID string, filter models.TransactionFilter) ([]models.Transaction, error)
	Update(ctx context.Context, tx *models.Transaction) error
	Delete(ctx context.Context, userID, id string) error
	CountByCategory(ctx context.Context, userID, category string) (int, error)
}

type BudgetGoalRepository interface {
	Get(ctx context.Context, userID string) (*models.BudgetGoal, error)
	Upsert(ctx context.Context, goal *models.BudgetGoal) (*models.BudgetGoal, error)
}

// Repositories is the set of repositories bound to one connection or
// transaction.
type Repositories interface {
	Users() UserRepository
	Accounts() AccountRepository
	Categories() CategoryRepository
	Transactions() TransactionRepository
	BudgetGoals() BudgetGoalRepository
}

// Store is the persistence boundary. Repositories returned directly operate
// outside any transaction; WithinTx commits everything fn does through its
// argument, or nothing if fn returns an error or panics.
type Store interface {
	Repositories
	WithinTx(ctx context.Context, fn func(ctx context.Context, repos Repositories) error) error
}
