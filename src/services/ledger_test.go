package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"ledger-server/src/db/memory"
	"ledger-server/src/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordTransaction_KeepsBalanceConsistent(t *testing.T) {
	svc := newTestServices(t, memory.NewStore())
	ctx := context.Background()

	steps := []models.TransactionInput{
		txReq(models.Income, "1000", "Salary"),
		txReq(models.Expense, "250.50", "Housing"),
		txReq(models.Expense, "49.50", "Food & Dining"),
		txReq(models.Income, "20", "Gifts Received"),
	}
	for _, req := range steps {
		tx, acc, err := svc.Ledger.RecordTransaction(ctx, "u1", req)
		require.NoError(t, err)
		assert.NotEmpty(t, tx.ID)
		assert.True(t, acc.Consistent(), "account inconsistent: %+v", acc)
	}

	acc, err := svc.Ledger.GetAccount(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "720", acc.Balance.String())
	assert.Equal(t, "1020", acc.TotalIncome.String())
	assert.Equal(t, "300", acc.TotalExpenses.String())
}

func TestRecordTransaction_InsufficientBalanceChangesNothing(t *testing.T) {
	svc := newTestServices(t, memory.NewStore())
	ctx := context.Background()

	_, _, err := svc.Ledger.RecordTransaction(ctx, "u1", txReq(models.Income, "100", "Salary"))
	require.NoError(t, err)

	_, _, err = svc.Ledger.RecordTransaction(ctx, "u1", txReq(models.Expense, "100.01", "Travel"))
	require.ErrorIs(t, err, ErrInsufficientBalance)

	acc, err := svc.Ledger.GetAccount(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "100", acc.Balance.String())
	assert.True(t, acc.TotalExpenses.IsZero())

	txs, err := svc.Ledger.ListTransactions(ctx, "u1", models.TransactionFilter{})
	require.NoError(t, err)
	assert.Len(t, txs, 1)
}

func TestRecordTransaction_ExpenseEqualToBalanceAllowed(t *testing.T) {
	svc := newTestServices(t, memory.NewStore())
	ctx := context.Background()

	_, _, err := svc.Ledger.RecordTransaction(ctx, "u1", txReq(models.Income, "80", "Salary"))
	require.NoError(t, err)
	_, acc, err := svc.Ledger.RecordTransaction(ctx, "u1", txReq(models.Expense, "80", "Food"))
	require.NoError(t, err)
	assert.True(t, acc.Balance.IsZero())
}

func TestRecordTransaction_FirstExpenseOnNewAccount(t *testing.T) {
	svc := newTestServices(t, memory.NewStore())

	_, _, err := svc.Ledger.RecordTransaction(context.Background(), "fresh", txReq(models.Expense, "1", "Food"))
	assert.ErrorIs(t, err, ErrInsufficientBalance)
}

func TestRecordTransaction_Validation(t *testing.T) {
	svc := newTestServices(t, memory.NewStore())
	ctx := context.Background()

	tests := []struct {
		name   string
		mutate func(r *models.TransactionInput)
	}{
		{"zero amount", func(r *models.TransactionInput) { r.Amount = decimal.Zero }},
		{"negative amount", func(r *models.TransactionInput) { r.Amount = decimal.NewFromInt(-5) }},
		{"sub-cent amount", func(r *models.TransactionInput) { r.Amount = decimal.RequireFromString("1.005") }},
		{"amount at cap", func(r *models.TransactionInput) { r.Amount = decimal.New(1, 12) }},
		{"amount over cap", func(r *models.TransactionInput) { r.Amount = decimal.RequireFromString("1e13") }},
		{"bad type", func(r *models.TransactionInput) { r.Type = "transfer" }},
		{"blank category", func(r *models.TransactionInput) { r.Category = "   " }},
		{"missing sender", func(r *models.TransactionInput) { r.Sender = "" }},
		{"missing receiver", func(r *models.TransactionInput) { r.Receiver = "" }},
		{"missing date", func(r *models.TransactionInput) { r.Date = nil }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := txReq(models.Income, "10", "Salary")
			tt.mutate(&req)
			_, _, err := svc.Ledger.RecordTransaction(ctx, "u1", req)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}

	_, err := svc.Ledger.GetAccount(ctx, "u1")
	require.NoError(t, err)
	txs, err := svc.Ledger.ListTransactions(ctx, "u1", models.TransactionFilter{})
	require.NoError(t, err)
	assert.Empty(t, txs)
}

func TestRecordTransaction_PersistenceFailureRollsBack(t *testing.T) {
	store := &failingStore{Store: memory.NewStore()}
	svc := newTestServices(t, store)
	ctx := context.Background()

	_, _, err := svc.Ledger.RecordTransaction(ctx, "u1", txReq(models.Income, "100", "Salary"))
	require.NoError(t, err)

	store.failTxCreate = true
	_, _, err = svc.Ledger.RecordTransaction(ctx, "u1", txReq(models.Income, "50", "Salary"))
	require.ErrorIs(t, err, ErrPersistence)
	assert.ErrorIs(t, err, errDiskFull)

	acc, err := svc.Ledger.GetAccount(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "100", acc.Balance.String())
	assert.Equal(t, "100", acc.TotalIncome.String())
}

func TestRecordTransaction_ConcurrentExpensesNeverOverdraw(t *testing.T) {
	svc := newTestServices(t, memory.NewStore())
	ctx := context.Background()

	_, _, err := svc.Ledger.RecordTransaction(ctx, "u1", txReq(models.Income, "100", "Salary"))
	require.NoError(t, err)

	var wg sync.WaitGroup
	var mu sync.Mutex
	ok := 0
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, _, err := svc.Ledger.RecordTransaction(ctx, "u1", txReq(models.Expense, "10", "Food")); err == nil {
				mu.Lock()
				ok++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 10, ok)
	acc, err := svc.Ledger.GetAccount(ctx, "u1")
	require.NoError(t, err)
	assert.True(t, acc.Balance.IsZero())
	assert.True(t, acc.Consistent())
}

func TestUpdateTransaction_ReappliesEffect(t *testing.T) {
	svc := newTestServices(t, memory.NewStore())
	ctx := context.Background()

	_, _, err := svc.Ledger.RecordTransaction(ctx, "u1", txReq(models.Income, "500", "Salary"))
	require.NoError(t, err)
	tx, _, err := svc.Ledger.RecordTransaction(ctx, "u1", txReq(models.Expense, "100", "Food"))
	require.NoError(t, err)

	req := txReq(models.Expense, "300", "Travel")
	req.Note = "  flights  "
	updated, acc, err := svc.Ledger.UpdateTransaction(ctx, "u1", tx.ID, req)
	require.NoError(t, err)
	assert.Equal(t, tx.ID, updated.ID)
	assert.Equal(t, "Travel", updated.Category)
	assert.Equal(t, "flights", updated.Note)
	assert.Equal(t, "200", acc.Balance.String())
	assert.Equal(t, "300", acc.TotalExpenses.String())
	assert.True(t, acc.Consistent())

	_, _, err = svc.Ledger.UpdateTransaction(ctx, "u1", tx.ID, txReq(models.Expense, "501", "Travel"))
	assert.ErrorIs(t, err, ErrInsufficientBalance)

	got, err := svc.Ledger.GetTransaction(ctx, "u1", tx.ID)
	require.NoError(t, err)
	assert.Equal(t, "300", got.Amount.String())
}

func TestUpdateTransaction_OtherUsersTransactionNotFound(t *testing.T) {
	svc := newTestServices(t, memory.NewStore())
	ctx := context.Background()

	tx, _, err := svc.Ledger.RecordTransaction(ctx, "owner", txReq(models.Income, "10", "Salary"))
	require.NoError(t, err)

	_, _, err = svc.Ledger.UpdateTransaction(ctx, "intruder", tx.ID, txReq(models.Income, "20", "Salary"))
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = svc.Ledger.DeleteTransaction(ctx, "intruder", tx.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = svc.Ledger.GetTransaction(ctx, "intruder", tx.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRecordTransaction_LargestAmountAccepted(t *testing.T) {
	svc := newTestServices(t, memory.NewStore())

	_, acc, err := svc.Ledger.RecordTransaction(context.Background(), "u1", txReq(models.Income, "999999999999.99", "Salary"))
	require.NoError(t, err)
	assert.Equal(t, "999999999999.99", acc.Balance.String())
}

func TestUpdateTransaction_SpentIncomeStaysEditable(t *testing.T) {
	svc := newTestServices(t, memory.NewStore())
	ctx := context.Background()

	income, _, err := svc.Ledger.RecordTransaction(ctx, "u1", txReq(models.Income, "100", "Salary"))
	require.NoError(t, err)
	_, _, err = svc.Ledger.RecordTransaction(ctx, "u1", txReq(models.Expense, "60", "Food"))
	require.NoError(t, err)

	req := txReq(models.Income, "100", "Bonus")
	req.Note = "june"
	updated, acc, err := svc.Ledger.UpdateTransaction(ctx, "u1", income.ID, req)
	require.NoError(t, err)
	assert.Equal(t, "june", updated.Note)
	assert.Equal(t, "Bonus", updated.Category)
	assert.Equal(t, "40", acc.Balance.String())
	assert.True(t, acc.Consistent())

	_, acc, err = svc.Ledger.UpdateTransaction(ctx, "u1", income.ID, txReq(models.Income, "150", "Bonus"))
	require.NoError(t, err)
	assert.Equal(t, "90", acc.Balance.String())
	assert.Equal(t, "150", acc.TotalIncome.String())
	assert.Equal(t, "60", acc.TotalExpenses.String())

	_, acc, err = svc.Ledger.UpdateTransaction(ctx, "u1", income.ID, txReq(models.Income, "60", "Bonus"))
	require.NoError(t, err)
	assert.True(t, acc.Balance.IsZero())
	assert.True(t, acc.Consistent())
}

func TestUpdateTransaction_EndStateMustCoverExpenses(t *testing.T) {
	svc := newTestServices(t, memory.NewStore())
	ctx := context.Background()

	income, _, err := svc.Ledger.RecordTransaction(ctx, "u1", txReq(models.Income, "100", "Salary"))
	require.NoError(t, err)
	_, _, err = svc.Ledger.RecordTransaction(ctx, "u1", txReq(models.Expense, "60", "Food"))
	require.NoError(t, err)

	_, _, err = svc.Ledger.UpdateTransaction(ctx, "u1", income.ID, txReq(models.Income, "59.99", "Salary"))
	require.ErrorIs(t, err, ErrInsufficientBalance)
	_, _, err = svc.Ledger.UpdateTransaction(ctx, "u1", income.ID, txReq(models.Expense, "1", "Salary"))
	require.ErrorIs(t, err, ErrInsufficientBalance)

	acc, err := svc.Ledger.GetAccount(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "40", acc.Balance.String())
	assert.Equal(t, "100", acc.TotalIncome.String())
	got, err := svc.Ledger.GetTransaction(ctx, "u1", income.ID)
	require.NoError(t, err)
	assert.Equal(t, models.Income, got.Type)
	assert.Equal(t, "100", got.Amount.String())
}

func TestTransactionOperations_MalformedIDNotFound(t *testing.T) {
	svc := newTestServices(t, memory.NewStore())
	ctx := context.Background()

	_, err := svc.Ledger.GetTransaction(ctx, "u1", "abc")
	assert.ErrorIs(t, err, ErrNotFound)
	_, _, err = svc.Ledger.UpdateTransaction(ctx, "u1", "abc", txReq(models.Income, "10", "Salary"))
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = svc.Ledger.DeleteTransaction(ctx, "u1", "abc")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = svc.Categories.Update(ctx, "u1", "abc", models.UpdateCategoryRequest{})
	assert.ErrorIs(t, err, ErrNotFound)
	err = svc.Categories.Delete(ctx, "u1", "abc")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteTransaction_ReversesEffect(t *testing.T) {
	svc := newTestServices(t, memory.NewStore())
	ctx := context.Background()

	income, _, err := svc.Ledger.RecordTransaction(ctx, "u1", txReq(models.Income, "100", "Salary"))
	require.NoError(t, err)
	expense, _, err := svc.Ledger.RecordTransaction(ctx, "u1", txReq(models.Expense, "60", "Food"))
	require.NoError(t, err)

	// Removing the income would leave the 60 expense uncovered.
	_, err = svc.Ledger.DeleteTransaction(ctx, "u1", income.ID)
	require.ErrorIs(t, err, ErrInsufficientBalance)

	acc, err := svc.Ledger.DeleteTransaction(ctx, "u1", expense.ID)
	require.NoError(t, err)
	assert.Equal(t, "100", acc.Balance.String())
	assert.True(t, acc.TotalExpenses.IsZero())

	acc, err = svc.Ledger.DeleteTransaction(ctx, "u1", income.ID)
	require.NoError(t, err)
	assert.True(t, acc.Balance.IsZero())
	assert.True(t, acc.TotalIncome.IsZero())

	_, err = svc.Ledger.GetTransaction(ctx, "u1", income.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListTransactions_Filters(t *testing.T) {
	svc := newTestServices(t, memory.NewStore())
	ctx := context.Background()

	dates := []time.Time{
		time.Date(2024, time.January, 10, 0, 0, 0, 0, time.UTC),
		time.Date(2024, time.February, 10, 0, 0, 0, 0, time.UTC),
		time.Date(2024, time.March, 10, 0, 0, 0, 0, time.UTC),
	}
	for _, d := range dates {
		req := txReq(models.Income, "10", "Salary")
		req.Date = &d
		_, _, err := svc.Ledger.RecordTransaction(ctx, "u1", req)
		require.NoError(t, err)
	}
	_, _, err := svc.Ledger.RecordTransaction(ctx, "u1", txReq(models.Expense, "5", "Food"))
	require.NoError(t, err)

	all, err := svc.Ledger.ListTransactions(ctx, "u1", models.TransactionFilter{})
	require.NoError(t, err)
	require.Len(t, all, 4)
	assert.Equal(t, "Food", all[0].Category, "newest first")

	start, end := dates[1], dates[2]
	ranged, err := svc.Ledger.ListTransactions(ctx, "u1", models.TransactionFilter{Start: &start, End: &end})
	require.NoError(t, err)
	assert.Len(t, ranged, 2)

	food, err := svc.Ledger.ListTransactions(ctx, "u1", models.TransactionFilter{Category: "Food"})
	require.NoError(t, err)
	assert.Len(t, food, 1)

	_, err = svc.Ledger.ListTransactions(ctx, "u1", models.TransactionFilter{Start: &end, End: &start})
	assert.ErrorIs(t, err, ErrValidation)
	_, err = svc.Ledger.ListTransactions(ctx, "u1", models.TransactionFilter{Type: "bogus"})
	assert.ErrorIs(t, err, ErrValidation)

	others, err := svc.Ledger.ListTransactions(ctx, "u2", models.TransactionFilter{})
	require.NoError(t, err)
	assert.Empty(t, others)
}
