package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"ledger-server/src/auth"
	"ledger-server/src/db"
	"ledger-server/src/db/memory"
	"ledger-server/src/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

var fixedNow = time.Date(2024, time.June, 15, 10, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }

func newTestServices(t *testing.T, store db.Store) *Services {
	t.Helper()
	cache, err := db.NewUserCache(100)
	require.NoError(t, err)
	t.Cleanup(cache.Close)

	svc := New(store, cache, auth.NewTokenManager("test-secret", time.Hour))
	svc.Users.bcryptCost = bcrypt.MinCost
	svc.Users.now = fixedClock
	svc.Ledger.now = fixedClock
	svc.Categories.now = fixedClock
	svc.Budgets.now = fixedClock
	svc.Summary.now = fixedClock
	return svc
}

func txReq(typ models.TransactionType, amount string, category string) models.TransactionInput {
	date := fixedNow
	return models.TransactionInput{
		Amount:   decimal.RequireFromString(amount),
		Type:     typ,
		Category: category,
		Sender:   "me",
		Receiver: "them",
		Date:     &date,
	}
}

// failingStore fails selected writes inside transactions.
type failingStore struct {
	*memory.Store
	failTxCreate bool
}

type failingRepos struct {
	db.Repositories
	s *failingStore
}

type failingTransactions struct {
	db.TransactionRepository
}

var errDiskFull = errors.New("disk full")

func (failingTransactions) Create(ctx context.Context, tx *models.Transaction) error {
	return errDiskFull
}

func (r failingRepos) Transactions() db.TransactionRepository {
	if r.s.failTxCreate {
		return failingTransactions{r.Repositories.Transactions()}
	}
	return r.Repositories.Transactions()
}

func (s *failingStore) WithinTx(ctx context.Context, fn func(ctx context.Context, repos db.Repositories) error) error {
	return s.Store.WithinTx(ctx, func(ctx context.Context, repos db.Repositories) error {
		return fn(ctx, failingRepos{Repositories: repos, s: s})
	})
}
