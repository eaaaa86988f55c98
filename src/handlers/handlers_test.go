package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"ledger-server/src/auth"
	"ledger-server/src/db/memory"
	"ledger-server/src/middleware"
	"ledger-server/src/models"
	"ledger-server/src/services"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{fmt.Errorf("%w: amount", services.ErrValidation), http.StatusBadRequest},
		{services.ErrUnauthorized, http.StatusUnauthorized},
		{fmt.Errorf("%w: transaction", services.ErrNotFound), http.StatusNotFound},
		{services.ErrConflict, http.StatusConflict},
		{services.ErrInsufficientBalance, http.StatusUnprocessableEntity},
		{fmt.Errorf("%w: %w", services.ErrPersistence, errors.New("disk")), http.StatusInternalServerError},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, statusFor(tt.err), tt.err.Error())
	}
}

func TestParseDate(t *testing.T) {
	got, err := parseDate("2024-03-05", false)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC), got)

	got, err = parseDate("2024-03-05", true)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 5, 23, 59, 59, 999999999, time.UTC), got)

	got, err = parseDate("2024-03-05T12:30:00+02:00", true)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 5, 10, 30, 0, 0, time.UTC), got)

	_, err = parseDate("05/03/2024", false)
	assert.ErrorIs(t, err, services.ErrValidation)
}

func TestWriteErrorHidesInternalDetail(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	writeError(rec, req, "failed", fmt.Errorf("%w: %w", services.ErrPersistence, errors.New("password=hunter2")))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "hunter2")
	assert.JSONEq(t, `{"error":"internal error"}`, rec.Body.String())
}

const testUser = "user-1"

func newTestRouter(t *testing.T) (*chi.Mux, *services.Services) {
	t.Helper()
	svc := services.New(memory.NewStore(), nil, auth.NewTokenManager("handler-test-secret", time.Hour))

	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			next.ServeHTTP(w, req.WithContext(middleware.WithUserID(req.Context(), testUser)))
		})
	})
	r.Get("/account", GetAccount(svc.Ledger))
	r.Get("/transactions", ListTransactions(svc.Ledger))
	r.Post("/transactions", RecordTransaction(svc.Ledger))
	r.Get("/transactions/{id}", GetTransaction(svc.Ledger))
	r.Put("/transactions/{id}", UpdateTransaction(svc.Ledger))
	r.Delete("/transactions/{id}", DeleteTransaction(svc.Ledger))
	r.Get("/categories", ListCategories(svc.Categories))
	r.Post("/categories", CreateCategory(svc.Categories))
	r.Post("/categories/init", InitCategories(svc.Categories))
	r.Patch("/categories/{id}", UpdateCategory(svc.Categories))
	r.Delete("/categories/{id}", DeleteCategory(svc.Categories))
	r.Get("/limit", GetLimit(svc.Budgets))
	r.Post("/limit", SetLimit(svc.Budgets))
	r.Get("/summary", BudgetSummary(svc.Summary))
	r.Get("/summary/categories", CategorySummary(svc.Summary))
	return r, svc
}

func do(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func txBody(typ, amount, category string) string {
	return fmt.Sprintf(`{"amount":%s,"type":%q,"category":%q,"sender":"me","receiver":"shop","date":%q}`,
		amount, typ, category, time.Now().UTC().Format(time.DateOnly))
}

func TestRecordTransactionHandler(t *testing.T) {
	r, _ := newTestRouter(t)

	rec := do(t, r, http.MethodPost, "/transactions", txBody("income", "100.50", "Salary"))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	got := decode[transactionResponse](t, rec)
	assert.NotEmpty(t, got.Transaction.ID)
	assert.Equal(t, testUser, got.Transaction.UserID)
	assert.True(t, got.Account.Balance.Equal(decimal.RequireFromString("100.5")))

	rec = do(t, r, http.MethodPost, "/transactions", txBody("expense", "200", "Food"))
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = do(t, r, http.MethodGet, "/account", "")
	require.Equal(t, http.StatusOK, rec.Code)
	account := decode[models.Account](t, rec)
	assert.True(t, account.Balance.Equal(decimal.RequireFromString("100.5")))
	assert.True(t, account.TotalExpenses.IsZero())
}

func TestRecordTransactionRejectsBadBodies(t *testing.T) {
	r, _ := newTestRouter(t)
	tests := []struct {
		name string
		body string
	}{
		{"unknown field", `{"amount":5,"type":"income","category":"a","sender":"b","receiver":"c","date":"2024-01-01","userId":"other"}`},
		{"amount as string", `{"amount":"abc","type":"income","category":"a","sender":"b","receiver":"c","date":"2024-01-01"}`},
		{"zero amount", `{"amount":0,"type":"income","category":"a","sender":"b","receiver":"c","date":"2024-01-01"}`},
		{"bad type", `{"amount":5,"type":"transfer","category":"a","sender":"b","receiver":"c","date":"2024-01-01"}`},
		{"missing sender", `{"amount":5,"type":"income","category":"a","receiver":"c","date":"2024-01-01"}`},
		{"amount too large", `{"amount":10000000000000,"type":"income","category":"a","sender":"b","receiver":"c","date":"2024-01-01"}`},
		{"bad date", `{"amount":5,"type":"income","category":"a","sender":"b","receiver":"c","date":"yesterday"}`},
		{"not json", `amount=5`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, r, http.MethodPost, "/transactions", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
		})
	}

	rec := do(t, r, http.MethodGet, "/account", "")
	account := decode[models.Account](t, rec)
	assert.True(t, account.Balance.IsZero())
}

func TestTransactionLifecycleHandlers(t *testing.T) {
	r, _ := newTestRouter(t)

	rec := do(t, r, http.MethodPost, "/transactions", txBody("income", "500", "Salary"))
	require.Equal(t, http.StatusCreated, rec.Code)
	rec = do(t, r, http.MethodPost, "/transactions", txBody("expense", "40", "Food"))
	require.Equal(t, http.StatusCreated, rec.Code)
	expense := decode[transactionResponse](t, rec).Transaction

	rec = do(t, r, http.MethodGet, "/transactions?type=expense", "")
	require.Equal(t, http.StatusOK, rec.Code)
	list := decode[[]models.Transaction](t, rec)
	require.Len(t, list, 1)
	assert.Equal(t, expense.ID, list[0].ID)

	rec = do(t, r, http.MethodGet, "/transactions?startDate=2000-01-01&endDate=2000-01-31", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decode[[]models.Transaction](t, rec))

	rec = do(t, r, http.MethodGet, "/transactions?startDate=nope", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, r, http.MethodPut, "/transactions/"+expense.ID, txBody("expense", "60", "Groceries"))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	updated := decode[transactionResponse](t, rec)
	assert.Equal(t, "Groceries", updated.Transaction.Category)
	assert.True(t, updated.Account.Balance.Equal(decimal.NewFromInt(440)))

	rec = do(t, r, http.MethodDelete, "/transactions/"+expense.ID, "")
	require.Equal(t, http.StatusOK, rec.Code)
	deleted := decode[map[string]models.Account](t, rec)
	assert.True(t, deleted["account"].Balance.Equal(decimal.NewFromInt(500)))
	assert.True(t, deleted["account"].Consistent())

	rec = do(t, r, http.MethodGet, "/transactions/"+expense.ID, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCategoryHandlers(t *testing.T) {
	r, _ := newTestRouter(t)

	rec := do(t, r, http.MethodPost, "/categories/init", "")
	require.Equal(t, http.StatusCreated, rec.Code)
	first := decode[struct {
		Created    int               `json:"created"`
		Categories []models.Category `json:"categories"`
	}](t, rec)
	assert.Equal(t, len(services.DefaultCategories), first.Created)
	assert.Len(t, first.Categories, len(services.DefaultCategories))

	rec = do(t, r, http.MethodPost, "/categories/init", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"created":0`)

	rec = do(t, r, http.MethodPost, "/categories", `{"name":"Pets","type":"expense","color":"#123ABC"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	pets := decode[models.Category](t, rec)
	assert.Equal(t, "tag", pets.Icon)

	rec = do(t, r, http.MethodPost, "/categories", `{"name":"Pets","type":"expense"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = do(t, r, http.MethodGet, "/categories?type=income", "")
	require.Equal(t, http.StatusOK, rec.Code)
	for _, c := range decode[[]models.Category](t, rec) {
		assert.Equal(t, models.Income, c.Type)
	}

	rec = do(t, r, http.MethodPatch, "/categories/"+pets.ID, `{"monthly_budget":75}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	patched := decode[models.Category](t, rec)
	require.NotNil(t, patched.MonthlyBudget)
	assert.Equal(t, "Pets", patched.Name)

	do(t, r, http.MethodPost, "/transactions", txBody("income", "100", "Salary"))
	do(t, r, http.MethodPost, "/transactions", txBody("expense", "10", "Pets"))
	rec = do(t, r, http.MethodDelete, "/categories/"+pets.ID, "")
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = do(t, r, http.MethodDelete, "/categories/missing", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestLimitAndSummaryHandlers(t *testing.T) {
	r, _ := newTestRouter(t)

	rec := do(t, r, http.MethodGet, "/limit", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"monthly_limit":null}`, rec.Body.String())

	rec = do(t, r, http.MethodPost, "/limit", `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	rec = do(t, r, http.MethodPost, "/limit", `{"monthly_limit":-5}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, r, http.MethodPost, "/limit", `{"monthly_limit":200}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	do(t, r, http.MethodPost, "/transactions", txBody("income", "1000", "Salary"))
	do(t, r, http.MethodPost, "/transactions", txBody("expense", "150", "Food"))
	do(t, r, http.MethodPost, "/transactions", txBody("expense", "100", "Rent"))

	rec = do(t, r, http.MethodGet, "/summary", "")
	require.Equal(t, http.StatusOK, rec.Code)
	status := decode[models.BudgetStatus](t, rec)
	assert.True(t, status.OverLimit)
	assert.True(t, status.TotalExpenses.Equal(decimal.NewFromInt(250)))

	rec = do(t, r, http.MethodGet, "/summary/categories", "")
	require.Equal(t, http.StatusOK, rec.Code)
	totals := decode[[]models.CategoryTotal](t, rec)
	require.Len(t, totals, 2)
	assert.Equal(t, "Food", totals[0].Category)
	assert.Equal(t, "Rent", totals[1].Category)

	rec = do(t, r, http.MethodGet, "/summary/categories?type=bogus", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMalformedIDsAreNotFound(t *testing.T) {
	r, _ := newTestRouter(t)
	tests := []struct {
		method string
		target string
		body   string
	}{
		{http.MethodGet, "/transactions/abc", ""},
		{http.MethodPut, "/transactions/abc", txBody("income", "10", "Salary")},
		{http.MethodDelete, "/transactions/abc", ""},
		{http.MethodPatch, "/categories/abc", `{"name":"Renamed"}`},
		{http.MethodDelete, "/categories/abc", ""},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.target, func(t *testing.T) {
			rec := do(t, r, tt.method, tt.target, tt.body)
			assert.Equal(t, http.StatusNotFound, rec.Code, rec.Body.String())
		})
	}
}
