package services

import (
	"context"
	"errors"
	"math/rand"
	"strings"
	"time"

	"ledger-server/src/db"
	"ledger-server/src/models"
	"ledger-server/src/util"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	defaultIcon  = "tag"
	defaultEmoji = "📌"
)

// Colors handed out to new categories created without one.
var categoryPalette = []string{
	"#FF6B6B", "#4ECDC4", "#45B7D1", "#96CEB4", "#FFEEAD", "#D4A5A5", "#9B59B6",
	"#3498DB", "#E67E22", "#E74C3C", "#2ECC71", "#F1C40F", "#1ABC9C", "#95A5A6",
}

type seedCategory struct {
	Name  string
	Icon  string
	Emoji string
	Color string
	Type  models.TransactionType
}

// DefaultCategories is the set every user starts with.
var DefaultCategories = []seedCategory{
	{"Food & Dining", "utensils", "🍔", "#FF6B6B", models.Expense},
	{"Shopping", "shopping-bag", "🛍️", "#4ECDC4", models.Expense},
	{"Transportation", "car", "🚗", "#45B7D1", models.Expense},
	{"Housing", "home", "🏠", "#96CEB4", models.Expense},
	{"Utilities", "bolt", "💡", "#FFEEAD", models.Expense},
	{"Entertainment", "film", "🎬", "#D4A5A5", models.Expense},
	{"Healthcare", "heart-pulse", "⚕️", "#9B59B6", models.Expense},
	{"Education", "graduation-cap", "📚", "#3498DB", models.Expense},
	{"Travel", "plane", "✈️", "#E67E22", models.Expense},
	{"Gifts Given", "gift", "🎁", "#E74C3C", models.Expense},
	{"Salary", "briefcase", "💰", "#2ECC71", models.Income},
	{"Freelance", "laptop", "💻", "#F1C40F", models.Income},
	{"Investments", "chart-line", "📈", "#1ABC9C", models.Income},
	{"Gifts Received", "gift", "🎁", "#E74C3C", models.Income},
	{"Other Income", "plus-circle", "➕", "#95A5A6", models.Income},
}

// errAlreadySeeded aborts a bootstrap that lost a race to another one.
var errAlreadySeeded = errors.New("categories already seeded")

type CategoryService struct {
	store db.Store
	now   func() time.Time
}

func NewCategoryService(store db.Store) *CategoryService {
	return &CategoryService{store: store, now: time.Now}
}

func validBudget(b *decimal.Decimal) bool {
	return b == nil || validAmount(*b)
}

func (s *CategoryService) Create(ctx context.Context, userID string, req models.CreateCategoryRequest) (*models.Category, error) {
	name := strings.TrimSpace(req.Name)
	if !util.ValidateCategoryName(name) {
		return nil, validationErr("name must be between 1 and 50 characters")
	}
	typ := req.Type
	if typ == "" {
		typ = models.Expense
	}
	if !typ.Valid() {
		return nil, validationErr("type must be %q or %q", models.Income, models.Expense)
	}
	color := strings.TrimSpace(req.Color)
	if color == "" {
		color = categoryPalette[rand.Intn(len(categoryPalette))]
	}
	if !util.ValidateColor(color) {
		return nil, validationErr("color must be a #RRGGBB hex value")
	}
	if !validBudget(req.MonthlyBudget) {
		return nil, validationErr("monthly_budget must be greater than zero and less than %s", maxAmount)
	}

	now := s.now().UTC()
	c := &models.Category{
		ID:            uuid.NewString(),
		UserID:        userID,
		Name:          name,
		Icon:          orDefault(req.Icon, defaultIcon),
		Emoji:         orDefault(req.Emoji, defaultEmoji),
		Color:         color,
		Type:          typ,
		MonthlyBudget: req.MonthlyBudget,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.store.Categories().Create(ctx, c); err != nil {
		if errors.Is(err, db.ErrDuplicate) {
			return nil, conflictErr("category %q already exists", name)
		}
		return nil, storeErr(err)
	}
	return c, nil
}

func orDefault(v, fallback string) string {
	if v = strings.TrimSpace(v); v == "" {
		return fallback
	}
	return v
}

func (s *CategoryService) List(ctx context.Context, userID string, typ models.TransactionType) ([]models.Category, error) {
	if typ != "" && !typ.Valid() {
		return nil, validationErr("type must be %q or %q", models.Income, models.Expense)
	}
	categories, err := s.store.Categories().List(ctx, userID, typ)
	if err != nil {
		return nil, storeErr(err)
	}
	return categories, nil
}

// Update applies a partial update. A monthly_budget of zero clears the budget.
// Transactions keep the category name they were recorded with.
func (s *CategoryService) Update(ctx context.Context, userID, id string, req models.UpdateCategoryRequest) (*models.Category, error) {
	if err := checkID("category", id); err != nil {
		return nil, err
	}
	c, err := s.store.Categories().Get(ctx, userID, id)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, notFoundErr("category")
		}
		return nil, storeErr(err)
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if !util.ValidateCategoryName(name) {
			return nil, validationErr("name must be between 1 and 50 characters")
		}
		c.Name = name
	}
	if req.Icon != nil {
		c.Icon = orDefault(*req.Icon, defaultIcon)
	}
	if req.Emoji != nil {
		c.Emoji = orDefault(*req.Emoji, defaultEmoji)
	}
	if req.Color != nil {
		color := strings.TrimSpace(*req.Color)
		if !util.ValidateColor(color) {
			return nil, validationErr("color must be a #RRGGBB hex value")
		}
		c.Color = color
	}
	if req.MonthlyBudget != nil {
		switch {
		case req.MonthlyBudget.IsZero():
			c.MonthlyBudget = nil
		case validAmount(*req.MonthlyBudget):
			b := *req.MonthlyBudget
			c.MonthlyBudget = &b
		default:
			return nil, validationErr("monthly_budget must not be negative or reach %s", maxAmount)
		}
	}
	c.UpdatedAt = s.now().UTC()

	if err := s.store.Categories().Update(ctx, c); err != nil {
		switch {
		case errors.Is(err, db.ErrDuplicate):
			return nil, conflictErr("category %q already exists", c.Name)
		case errors.Is(err, db.ErrNotFound):
			return nil, notFoundErr("category")
		}
		return nil, storeErr(err)
	}
	return c, nil
}

// Delete refuses to remove default categories and categories that any
// transaction still names.
func (s *CategoryService) Delete(ctx context.Context, userID, id string) error {
	if err := checkID("category", id); err != nil {
		return err
	}
	return storeErr(s.store.WithinTx(ctx, func(ctx context.Context, repos db.Repositories) error {
		c, err := repos.Categories().Get(ctx, userID, id)
		if err != nil {
			if errors.Is(err, db.ErrNotFound) {
				return notFoundErr("category")
			}
			return storeErr(err)
		}
		if c.IsDefault {
			return conflictErr("default category %q cannot be deleted", c.Name)
		}
		n, err := repos.Transactions().CountByCategory(ctx, userID, c.Name)
		if err != nil {
			return storeErr(err)
		}
		if n > 0 {
			return conflictErr("category %q is used by %d transaction(s)", c.Name, n)
		}
		return storeErr(repos.Categories().Delete(ctx, userID, id))
	}))
}

// Bootstrap seeds the default categories once per user and returns the number
// created. Later calls create nothing.
func (s *CategoryService) Bootstrap(ctx context.Context, userID string) (int, error) {
	var created int
	err := s.store.WithinTx(ctx, func(ctx context.Context, repos db.Repositories) error {
		n, err := seedDefaults(ctx, repos, userID, s.now().UTC())
		created = n
		return err
	})
	if errors.Is(err, errAlreadySeeded) {
		return 0, nil
	}
	if err != nil {
		return 0, storeErr(err)
	}
	return created, nil
}

func seedDefaults(ctx context.Context, repos db.Repositories, userID string, now time.Time) (int, error) {
	n, err := repos.Categories().CountDefaults(ctx, userID)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		return 0, nil
	}
	existing, err := repos.Categories().List(ctx, userID, "")
	if err != nil {
		return 0, err
	}
	taken := make(map[string]bool, len(existing))
	for _, c := range existing {
		taken[c.Name] = true
	}

	created := 0
	for _, d := range DefaultCategories {
		if taken[d.Name] {
			continue
		}
		err := repos.Categories().Create(ctx, &models.Category{
			ID:        uuid.NewString(),
			UserID:    userID,
			Name:      d.Name,
			Icon:      d.Icon,
			Emoji:     d.Emoji,
			Color:     d.Color,
			Type:      d.Type,
			IsDefault: true,
			CreatedAt: now,
			UpdatedAt: now,
		})
		if errors.Is(err, db.ErrDuplicate) {
			return 0, errAlreadySeeded
		}
		if err != nil {
			return 0, err
		}
		created++
	}
	return created, nil
}
