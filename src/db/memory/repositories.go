package memory

import (
	"context"
	"sort"
	"strings"

	"ledger-server/src/db"
	"ledger-server/src/models"
)

type userRepo struct{ v *view }

func (r *userRepo) Create(ctx context.Context, user *models.User) error {
	return r.v.do(func(st *state) error {
		if _, ok := st.users[user.ID]; ok {
			return db.ErrDuplicate
		}
		for _, u := range st.users {
			if u.Email == user.Email {
				return db.ErrDuplicate
			}
		}
		st.users[user.ID] = *user
		return nil
	})
}

func (r *userRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	var out models.User
	err := r.v.do(func(st *state) error {
		u, ok := st.users[id]
		if !ok {
			return db.ErrNotFound
		}
		out = u
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *userRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var out models.User
	err := r.v.do(func(st *state) error {
		for _, u := range st.users {
			if u.Email == email {
				out = u
				return nil
			}
		}
		return db.ErrNotFound
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *userRepo) UpdateName(ctx context.Context, id, name string) (*models.User, error) {
	var out models.User
	err := r.v.do(func(st *state) error {
		u, ok := st.users[id]
		if !ok {
			return db.ErrNotFound
		}
		u.Name = name
		st.users[id] = u
		out = u
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *userRepo) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	return r.v.do(func(st *state) error {
		u, ok := st.users[id]
		if !ok {
			return db.ErrNotFound
		}
		u.PasswordHash = passwordHash
		st.users[id] = u
		return nil
	})
}

// Delete removes the user and everything the user owns.
func (r *userRepo) Delete(ctx context.Context, id string) error {
	return r.v.do(func(st *state) error {
		if _, ok := st.users[id]; !ok {
			return db.ErrNotFound
		}
		delete(st.users, id)
		delete(st.accounts, id)
		delete(st.budgetGoals, id)
		for k, c := range st.categories {
			if c.UserID == id {
				delete(st.categories, k)
			}
		}
		for k, t := range st.transactions {
			if t.UserID == id {
				delete(st.transactions, k)
			}
		}
		return nil
	})
}

type accountRepo struct{ v *view }

func (r *accountRepo) Get(ctx context.Context, userID string) (*models.Account, error) {
	var out models.Account
	err := r.v.do(func(st *state) error {
		a, ok := st.accounts[userID]
		if !ok {
			return db.ErrNotFound
		}
		out = a
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *accountRepo) Ensure(ctx context.Context, account *models.Account) (*models.Account, error) {
	var out models.Account
	err := r.v.do(func(st *state) error {
		a, ok := st.accounts[account.UserID]
		if !ok {
			a = *account
			st.accounts[account.UserID] = a
		}
		out = a
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Lock is Ensure: the store mutex already serializes transactions.
func (r *accountRepo) Lock(ctx context.Context, account *models.Account) (*models.Account, error) {
	return r.Ensure(ctx, account)
}

func (r *accountRepo) Update(ctx context.Context, account *models.Account) error {
	return r.v.do(func(st *state) error {
		a, ok := st.accounts[account.UserID]
		if !ok {
			return db.ErrNotFound
		}
		a.Balance = account.Balance
		a.TotalIncome = account.TotalIncome
		a.TotalExpenses = account.TotalExpenses
		a.UpdatedAt = account.UpdatedAt
		st.accounts[account.UserID] = a
		return nil
	})
}

type categoryRepo struct{ v *view }

func nameTaken(st *state, userID, name, exceptID string) bool {
	for _, c := range st.categories {
		if c.UserID == userID && c.ID != exceptID && c.Name == name {
			return true
		}
	}
	return false
}

func (r *categoryRepo) Create(ctx context.Context, category *models.Category) error {
	return r.v.do(func(st *state) error {
		if nameTaken(st, category.UserID, category.Name, "") {
			return db.ErrDuplicate
		}
		st.categories[category.ID] = *category
		return nil
	})
}

func (r *categoryRepo) Get(ctx context.Context, userID, id string) (*models.Category, error) {
	var out models.Category
	err := r.v.do(func(st *state) error {
		c, ok := st.categories[id]
		if !ok || c.UserID != userID {
			return db.ErrNotFound
		}
		out = c
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *categoryRepo) List(ctx context.Context, userID string, typ models.TransactionType) ([]models.Category, error) {
	out := []models.Category{}
	err := r.v.do(func(st *state) error {
		for _, c := range st.categories {
			if c.UserID != userID || (typ != "" && c.Type != typ) {
				continue
			}
			out = append(out, c)
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, err
}

func (r *categoryRepo) Update(ctx context.Context, category *models.Category) error {
	return r.v.do(func(st *state) error {
		c, ok := st.categories[category.ID]
		if !ok || c.UserID != category.UserID {
			return db.ErrNotFound
		}
		if nameTaken(st, category.UserID, category.Name, category.ID) {
			return db.ErrDuplicate
		}
		st.categories[category.ID] = *category
		return nil
	})
}

func (r *categoryRepo) Delete(ctx context.Context, userID, id string) error {
	return r.v.do(func(st *state) error {
		c, ok := st.categories[id]
		if !ok || c.UserID != userID {
			return db.ErrNotFound
		}
		delete(st.categories, id)
		return nil
	})
}

func (r *categoryRepo) CountDefaults(ctx context.Context, userID string) (int, error) {
	n := 0
	err := r.v.do(func(st *state) error {
		for _, c := range st.categories {
			if c.UserID == userID && c.IsDefault {
				n++
			}
		}
		return nil
	})
	return n, err
}

type transactionRepo struct{ v *view }

func (r *transactionRepo) Create(ctx context.Context, tx *models.Transaction) error {
	return r.v.do(func(st *state) error {
		if _, ok := st.transactions[tx.ID]; ok {
			return db.ErrDuplicate
		}
		st.transactions[tx.ID] = *tx
		return nil
	})
}

func (r *transactionRepo) Get(ctx context.Context, userID, id string) (*models.Transaction, error) {
	var out models.Transaction
	err := r.v.do(func(st *state) error {
		t, ok := st.transactions[id]
		if !ok || t.UserID != userID {
			return db.ErrNotFound
		}
		out = t
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// List returns matches newest first.
func (r *transactionRepo) List(ctx context.Context, userID string, filter models.TransactionFilter) ([]models.Transaction, error) {
	out := []models.Transaction{}
	err := r.v.do(func(st *state) error {
		for _, t := range st.transactions {
			if t.UserID == userID && filter.Match(t) {
				out = append(out, t)
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.After(out[j].Date)
		}
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return strings.Compare(out[i].ID, out[j].ID) > 0
	})
	return out, err
}

func (r *transactionRepo) Update(ctx context.Context, tx *models.Transaction) error {
	return r.v.do(func(st *state) error {
		t, ok := st.transactions[tx.ID]
		if !ok || t.UserID != tx.UserID {
			return db.ErrNotFound
		}
		st.transactions[tx.ID] = *tx
		return nil
	})
}

func (r *transactionRepo) Delete(ctx context.Context, userID, id string) error {
	return r.v.do(func(st *state) error {
		t, ok := st.transactions[id]
		if !ok || t.UserID != userID {
			return db.ErrNotFound
		}
		delete(st.transactions, id)
		return nil
	})
}

func (r *transactionRepo) CountByCategory(ctx context.Context, userID, category string) (int, error) {
	n := 0
	err := r.v.do(func(st *state) error {
		for _, t := range st.transactions {
			if t.UserID == userID && t.Category == category {
				n++
			}
		}
		return nil
	})
	return n, err
}

type budgetGoalRepo struct{ v *view }

func (r *budgetGoalRepo) Get(ctx context.Context, userID string) (*models.BudgetGoal, error) {
	var out models.BudgetGoal
	err := r.v.do(func(st *state) error {
		g, ok := st.budgetGoals[userID]
		if !ok {
			return db.ErrNotFound
		}
		out = g
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *budgetGoalRepo) Upsert(ctx context.Context, goal *models.BudgetGoal) (*models.BudgetGoal, error) {
	var out models.BudgetGoal
	err := r.v.do(func(st *state) error {
		g, ok := st.budgetGoals[goal.UserID]
		if ok {
			g.MonthlyLimit = goal.MonthlyLimit
			g.UpdatedAt = goal.UpdatedAt
		} else {
			g = *goal
		}
		st.budgetGoals[goal.UserID] = g
		out = g
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}
