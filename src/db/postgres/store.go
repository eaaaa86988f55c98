// Package postgres implements db.Store on a pgx connection pool.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"ledger-server/src/db"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const uniqueViolation = "23505"

// DBTX is the subset of pgx shared by *pgxpool.Pool and pgx.Tx.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type repositories struct {
	q DBTX
}

func (r repositories) Users() db.UserRepository               { return &UserRepo{q: r.q} }
func (r repositories) Accounts() db.AccountRepository         { return &AccountRepo{q: r.q} }
func (r repositories) Categories() db.CategoryRepository      { return &CategoryRepo{q: r.q} }
func (r repositories) Transactions() db.TransactionRepository { return &TransactionRepo{q: r.q} }
func (r repositories) BudgetGoals() db.BudgetGoalRepository   { return &BudgetGoalRepo{q: r.q} }

type Store struct {
	repositories
	pool *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{repositories: repositories{q: pool}, pool: pool}
}

func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context, repos db.Repositories) error) error {
	return pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		return fn(ctx, repositories{q: tx})
	})
}

// mapErr converts driver errors into the db package sentinels.
func mapErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return db.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return fmt.Errorf("%w: %s", db.ErrDuplicate, pgErr.ConstraintName)
	}
	return fmt.Errorf("query error: %w", err)
}

func expectOne(tag pgconn.CommandTag, err error) error {
	if err != nil {
		return mapErr(err)
	}
	if tag.RowsAffected() == 0 {
		return db.ErrNotFound
	}
	return nil
}
