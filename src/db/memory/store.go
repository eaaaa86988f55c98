// Package memory is an in-process implementation of db.Store. It backs the
// DATA_BACKEND=memory mode and the service tests.
package memory

import (
	"context"
	"sync"

	"ledger-server/src/db"
	"ledger-server/src/models"
)

type state struct {
	users        map[string]models.User
	accounts     map[string]models.Account // keyed by user id
	categories   map[string]models.Category
	transactions map[string]models.Transaction
	budgetGoals  map[string]models.BudgetGoal // keyed by user id
}

func newState() *state {
	return &state{
		users:        map[string]models.User{},
		accounts:     map[string]models.Account{},
		categories:   map[string]models.Category{},
		transactions: map[string]models.Transaction{},
		budgetGoals:  map[string]models.BudgetGoal{},
	}
}

func (s *state) clone() *state {
	c := newState()
	for k, v := range s.users {
		c.users[k] = v
	}
	for k, v := range s.accounts {
		c.accounts[k] = v
	}
	for k, v := range s.categories {
		if v.MonthlyBudget != nil {
			b := *v.MonthlyBudget
			v.MonthlyBudget = &b
		}
		c.categories[k] = v
	}
	for k, v := range s.transactions {
		c.transactions[k] = v
	}
	for k, v := range s.budgetGoals {
		c.budgetGoals[k] = v
	}
	return c
}

// Store keeps all data behind one mutex. WithinTx works on a copy of the
// state and swaps it in only when fn succeeds.
type Store struct {
	mu sync.Mutex
	st *state
}

func NewStore() *Store {
	return &Store{st: newState()}
}

// view binds repositories either to the live state (tx == false, each call
// takes the lock) or to a transaction's private copy (lock already held).
type view struct {
	s  *Store
	st *state
	tx bool
}

func (v *view) do(fn func(st *state) error) error {
	if v.tx {
		return fn(v.st)
	}
	v.s.mu.Lock()
	defer v.s.mu.Unlock()
	return fn(v.s.st)
}

func (s *Store) live() *view { return &view{s: s} }

func (s *Store) Users() db.UserRepository               { return &userRepo{s.live()} }
func (s *Store) Accounts() db.AccountRepository         { return &accountRepo{s.live()} }
func (s *Store) Categories() db.CategoryRepository      { return &categoryRepo{s.live()} }
func (s *Store) Transactions() db.TransactionRepository { return &transactionRepo{s.live()} }
func (s *Store) BudgetGoals() db.BudgetGoalRepository   { return &budgetGoalRepo{s.live()} }

type txRepos struct{ v *view }

func (r txRepos) Users() db.UserRepository               { return &userRepo{r.v} }
func (r txRepos) Accounts() db.AccountRepository         { return &accountRepo{r.v} }
func (r txRepos) Categories() db.CategoryRepository      { return &categoryRepo{r.v} }
func (r txRepos) Transactions() db.TransactionRepository { return &transactionRepo{r.v} }
func (r txRepos) BudgetGoals() db.BudgetGoalRepository   { return &budgetGoalRepo{r.v} }

func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context, repos db.Repositories) error) (err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	work := s.st.clone()
	defer func() {
		if p := recover(); p != nil {
			panic(p)
		}
		if err == nil {
			s.st = work
		}
	}()

	if err := ctx.Err(); err != nil {
		return err
	}
	return fn(ctx, txRepos{v: &view{s: s, st: work, tx: true}})
}
