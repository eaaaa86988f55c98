package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"ledger-server/src/db"
	"ledger-server/src/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LedgerService is the only writer of accounts. Every transaction change and
// its effect on the owner's account commit together or not at all.
type LedgerService struct {
	store db.Store
	now   func() time.Time
}

func NewLedgerService(store db.Store) *LedgerService {
	return &LedgerService{store: store, now: time.Now}
}

func newAccount(userID string, now time.Time) *models.Account {
	return &models.Account{
		ID:        uuid.NewString(),
		UserID:    userID,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Entry amounts are stored as NUMERIC(14,2), account totals as NUMERIC(18,2).
var (
	maxAmount       = decimal.New(1, 12)
	maxAccountTotal = decimal.New(1, 16)
)

func validAmount(d decimal.Decimal) bool {
	return d.IsPositive() && d.LessThan(maxAmount)
}

// checkID rejects ids that cannot name a stored entity.
func checkID(what, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return notFoundErr(what)
	}
	return nil
}

func normalizeTransaction(req models.TransactionInput) (models.TransactionInput, error) {
	req.Category = strings.TrimSpace(req.Category)
	req.Sender = strings.TrimSpace(req.Sender)
	req.Receiver = strings.TrimSpace(req.Receiver)
	req.Note = strings.TrimSpace(req.Note)

	switch {
	case !req.Amount.IsPositive():
		return req, validationErr("amount must be greater than zero")
	case !req.Amount.LessThan(maxAmount):
		return req, validationErr("amount must be less than %s", maxAmount)
	case req.Amount.Exponent() < -2 && !req.Amount.Equal(req.Amount.Round(2)):
		return req, validationErr("amount must have at most two decimal places")
	case !req.Type.Valid():
		return req, validationErr("type must be %q or %q", models.Income, models.Expense)
	case req.Category == "":
		return req, validationErr("category is required")
	case req.Sender == "":
		return req, validationErr("sender is required")
	case req.Receiver == "":
		return req, validationErr("receiver is required")
	case req.Date == nil || req.Date.IsZero():
		return req, validationErr("date is required")
	}
	req.Amount = req.Amount.Round(2)
	return req, nil
}

// adjust moves the account by a transaction's effect; a negative amount
// takes the effect away. It does not check the result.
func adjust(a *models.Account, typ models.TransactionType, amount decimal.Decimal) error {
	switch typ {
	case models.Income:
		a.TotalIncome = a.TotalIncome.Add(amount)
		a.Balance = a.Balance.Add(amount)
	case models.Expense:
		a.TotalExpenses = a.TotalExpenses.Add(amount)
		a.Balance = a.Balance.Sub(amount)
	default:
		return validationErr("unknown transaction type %q", typ)
	}
	return nil
}

// settle checks the account after every adjustment of a change has been made.
func settle(a *models.Account) error {
	switch {
	case a.Balance.IsNegative():
		return fmt.Errorf("%w: change would leave balance at %s", ErrInsufficientBalance, a.Balance)
	case a.TotalIncome.IsNegative() || a.TotalExpenses.IsNegative():
		return fmt.Errorf("%w: account totals are inconsistent (income %s, expenses %s)", ErrPersistence, a.TotalIncome, a.TotalExpenses)
	case !a.TotalIncome.LessThan(maxAccountTotal) || !a.TotalExpenses.LessThan(maxAccountTotal):
		return validationErr("account totals must stay below %s", maxAccountTotal)
	}
	return nil
}

// apply adds a transaction's effect to the account.
func apply(a *models.Account, typ models.TransactionType, amount decimal.Decimal) error {
	if typ == models.Expense && amount.GreaterThan(a.Balance) {
		return fmt.Errorf("%w: expense of %s exceeds balance of %s", ErrInsufficientBalance, amount, a.Balance)
	}
	if err := adjust(a, typ, amount); err != nil {
		return err
	}
	return settle(a)
}

// RecordTransaction stores a new transaction and applies it to the user's
// account, creating the account on first use.
func (s *LedgerService) RecordTransaction(ctx context.Context, userID string, req models.TransactionInput) (*models.Transaction, *models.Account, error) {
	in, err := normalizeTransaction(req)
	if err != nil {
		return nil, nil, err
	}

	now := s.now().UTC()
	tx := &models.Transaction{
		ID:        uuid.NewString(),
		UserID:    userID,
		Amount:    in.Amount,
		Category:  in.Category,
		Type:      in.Type,
		Sender:    in.Sender,
		Receiver:  in.Receiver,
		Date:      in.Date.UTC(),
		Note:      in.Note,
		CreatedAt: now,
		UpdatedAt: now,
	}

	var account *models.Account
	err = s.store.WithinTx(ctx, func(ctx context.Context, repos db.Repositories) error {
		acc, err := repos.Accounts().Lock(ctx, newAccount(userID, now))
		if err != nil {
			return storeErr(err)
		}
		if err := apply(acc, tx.Type, tx.Amount); err != nil {
			return err
		}
		acc.UpdatedAt = now
		if err := repos.Accounts().Update(ctx, acc); err != nil {
			return storeErr(err)
		}
		if err := repos.Transactions().Create(ctx, tx); err != nil {
			return storeErr(err)
		}
		account = acc
		return nil
	})
	if err != nil {
		return nil, nil, storeErr(err)
	}
	return tx, account, nil
}

// UpdateTransaction replaces every mutable field of a transaction and moves
// the account from the old effect to the new one.
func (s *LedgerService) UpdateTransaction(ctx context.Context, userID, id string, req models.TransactionInput) (*models.Transaction, *models.Account, error) {
	if err := checkID("transaction", id); err != nil {
		return nil, nil, err
	}
	in, err := normalizeTransaction(req)
	if err != nil {
		return nil, nil, err
	}

	now := s.now().UTC()
	var (
		updated *models.Transaction
		account *models.Account
	)
	err = s.store.WithinTx(ctx, func(ctx context.Context, repos db.Repositories) error {
		acc, err := repos.Accounts().Lock(ctx, newAccount(userID, now))
		if err != nil {
			return storeErr(err)
		}
		existing, err := repos.Transactions().Get(ctx, userID, id)
		if err != nil {
			if errors.Is(err, db.ErrNotFound) {
				return notFoundErr("transaction")
			}
			return storeErr(err)
		}
		// Only the end state has to be valid: an income that was partly
		// spent can still be edited as long as the balance covers it.
		next := *acc
		if err := adjust(&next, existing.Type, existing.Amount.Neg()); err != nil {
			return err
		}
		if err := adjust(&next, in.Type, in.Amount); err != nil {
			return err
		}
		if err := settle(&next); err != nil {
			return err
		}
		acc = &next
		acc.UpdatedAt = now

		existing.Amount = in.Amount
		existing.Category = in.Category
		existing.Type = in.Type
		existing.Sender = in.Sender
		existing.Receiver = in.Receiver
		existing.Date = in.Date.UTC()
		existing.Note = in.Note
		existing.UpdatedAt = now

		if err := repos.Accounts().Update(ctx, acc); err != nil {
			return storeErr(err)
		}
		if err := repos.Transactions().Update(ctx, existing); err != nil {
			return storeErr(err)
		}
		updated, account = existing, acc
		return nil
	})
	if err != nil {
		return nil, nil, storeErr(err)
	}
	return updated, account, nil
}

// DeleteTransaction removes a transaction and reverses its effect on the
// account.
func (s *LedgerService) DeleteTransaction(ctx context.Context, userID, id string) (*models.Account, error) {
	if err := checkID("transaction", id); err != nil {
		return nil, err
	}
	now := s.now().UTC()
	var account *models.Account
	err := s.store.WithinTx(ctx, func(ctx context.Context, repos db.Repositories) error {
		acc, err := repos.Accounts().Lock(ctx, newAccount(userID, now))
		if err != nil {
			return storeErr(err)
		}
		existing, err := repos.Transactions().Get(ctx, userID, id)
		if err != nil {
			if errors.Is(err, db.ErrNotFound) {
				return notFoundErr("transaction")
			}
			return storeErr(err)
		}
		if err := adjust(acc, existing.Type, existing.Amount.Neg()); err != nil {
			return err
		}
		if err := settle(acc); err != nil {
			return err
		}
		acc.UpdatedAt = now
		if err := repos.Accounts().Update(ctx, acc); err != nil {
			return storeErr(err)
		}
		if err := repos.Transactions().Delete(ctx, userID, id); err != nil {
			return storeErr(err)
		}
		account = acc
		return nil
	})
	if err != nil {
		return nil, storeErr(err)
	}
	return account, nil
}

func (s *LedgerService) GetTransaction(ctx context.Context, userID, id string) (*models.Transaction, error) {
	if err := checkID("transaction", id); err != nil {
		return nil, err
	}
	tx, err := s.store.Transactions().Get(ctx, userID, id)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, notFoundErr("transaction")
		}
		return nil, storeErr(err)
	}
	return tx, nil
}

func (s *LedgerService) ListTransactions(ctx context.Context, userID string, filter models.TransactionFilter) ([]models.Transaction, error) {
	if filter.Type != "" && !filter.Type.Valid() {
		return nil, validationErr("type must be %q or %q", models.Income, models.Expense)
	}
	if filter.Start != nil && filter.End != nil && filter.End.Before(*filter.Start) {
		return nil, validationErr("endDate is before startDate")
	}
	txs, err := s.store.Transactions().List(ctx, userID, filter)
	if err != nil {
		return nil, storeErr(err)
	}
	return txs, nil
}

// GetAccount returns the user's account, creating a zeroed one if needed.
func (s *LedgerService) GetAccount(ctx context.Context, userID string) (*models.Account, error) {
	acc, err := s.store.Accounts().Ensure(ctx, newAccount(userID, s.now().UTC()))
	if err != nil {
		return nil, storeErr(err)
	}
	return acc, nil
}
