package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"ledger-server/src/auth"
	"ledger-server/src/db"
	"ledger-server/src/models"
	"ledger-server/src/util"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const passwordRules = "password must be at least 8 characters with uppercase, lowercase, digit, and special character"

type UserService struct {
	store      db.Store
	cache      *db.UserCache
	tokens     *auth.TokenManager
	bcryptCost int
	now        func() time.Time
}

func NewUserService(store db.Store, cache *db.UserCache, tokens *auth.TokenManager) *UserService {
	return &UserService{
		store:      store,
		cache:      cache,
		tokens:     tokens,
		bcryptCost: bcrypt.DefaultCost,
		now:        time.Now,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates the user together with the default categories and a
// zeroed account, then signs the user in.
func (s *UserService) Register(ctx context.Context, req models.RegisterRequest) (*models.AuthResponse, error) {
	name := strings.TrimSpace(req.Name)
	email := normalizeEmail(req.Email)
	if !util.ValidateName(name) {
		return nil, validationErr("name must be between 1 and 100 characters")
	}
	if !util.ValidateEmail(email) {
		return nil, validationErr("invalid email format")
	}
	if !util.ValidatePassword(req.Password) {
		return nil, validationErr(passwordRules)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.bcryptCost)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	user := &models.User{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    now,
	}
	err = s.store.WithinTx(ctx, func(ctx context.Context, repos db.Repositories) error {
		if err := repos.Users().Create(ctx, user); err != nil {
			if errors.Is(err, db.ErrDuplicate) {
				return conflictErr("email already registered")
			}
			return err
		}
		if _, err := seedDefaults(ctx, repos, user.ID, now); err != nil {
			return err
		}
		_, err := repos.Accounts().Ensure(ctx, newAccount(user.ID, now))
		return err
	})
	if err != nil {
		return nil, storeErr(err)
	}
	return s.issue(user)
}

func (s *UserService) Login(ctx context.Context, email, password string) (*models.AuthResponse, error) {
	user, err := s.store.Users().GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, unauthorizedErr("invalid credentials")
		}
		return nil, storeErr(err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, unauthorizedErr("invalid credentials")
	}
	return s.issue(user)
}

func (s *UserService) issue(user *models.User) (*models.AuthResponse, error) {
	token, err := s.tokens.Generate(user.ID)
	if err != nil {
		return nil, err
	}
	s.cache.Set(user)
	return &models.AuthResponse{Token: token, User: *user}, nil
}

// Authenticate resolves a bearer token to the id of an existing user.
func (s *UserService) Authenticate(ctx context.Context, token string) (string, error) {
	userID, err := s.tokens.Parse(token)
	if err != nil {
		return "", unauthorizedErr(err.Error())
	}
	if _, ok := s.cache.Get(userID); ok {
		return userID, nil
	}
	user, err := s.store.Users().GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return "", unauthorizedErr("user no longer exists")
		}
		return "", storeErr(err)
	}
	s.cache.Set(user)
	return userID, nil
}

func (s *UserService) GetUser(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.store.Users().GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, notFoundErr("user")
		}
		return nil, storeErr(err)
	}
	return user, nil
}

func (s *UserService) UpdateName(ctx context.Context, userID, name string) (*models.User, error) {
	name = strings.TrimSpace(name)
	if !util.ValidateName(name) {
		return nil, validationErr("name must be between 1 and 100 characters")
	}
	user, err := s.store.Users().UpdateName(ctx, userID, name)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, notFoundErr("user")
		}
		return nil, storeErr(err)
	}
	s.cache.Set(user)
	return user, nil
}

func (s *UserService) ChangePassword(ctx context.Context, userID, current, next string) error {
	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(current)); err != nil {
		return unauthorizedErr("current password is incorrect")
	}
	if !util.ValidatePassword(next) {
		return validationErr(passwordRules)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(next), s.bcryptCost)
	if err != nil {
		return err
	}
	if err := s.store.Users().UpdatePassword(ctx, userID, string(hash)); err != nil {
		return storeErr(err)
	}
	return nil
}

// DeleteUser removes the user and all data the user owns.
func (s *UserService) DeleteUser(ctx context.Context, userID string) error {
	if err := s.store.Users().Delete(ctx, userID); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return notFoundErr("user")
		}
		return storeErr(err)
	}
	s.cache.Del(userID)
	return nil
}
