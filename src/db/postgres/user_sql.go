package postgres

import (
	"context"

	"ledger-server/src/models"
)

type UserRepo struct {
	q DBTX
}

func (r *UserRepo) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (id, name, email, password_hash, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := r.q.Exec(ctx, query, user.ID, user.Name, user.Email, user.PasswordHash, user.CreatedAt)
	return mapErr(err)
}

func (r *UserRepo) getBy(ctx context.Context, column, value string) (*models.User, error) {
	query := `
		SELECT id, name, email, password_hash, created_at
		FROM users
		WHERE ` + column + ` = $1
	`
	var user models.User
	err := r.q.QueryRow(ctx, query, value).Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.PasswordHash,
		&user.CreatedAt,
	)
	if err != nil {
		return nil, mapErr(err)
	}
	return &user, nil
}

func (r *UserRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	return r.getBy(ctx, "id", id)
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.getBy(ctx, "email", email)
}

func (r *UserRepo) UpdateName(ctx context.Context, id, name string) (*models.User, error) {
	query := `
		UPDATE users SET name = $2
		WHERE id = $1
		RETURNING id, name, email, password_hash, created_at
	`
	var user models.User
	err := r.q.QueryRow(ctx, query, id, name).Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.PasswordHash,
		&user.CreatedAt,
	)
	if err != nil {
		return nil, mapErr(err)
	}
	return &user, nil
}

func (r *UserRepo) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	return expectOne(r.q.Exec(ctx, `UPDATE users SET password_hash = $2 WHERE id = $1`, id, passwordHash))
}

// Delete relies on ON DELETE CASCADE for owned rows.
func (r *UserRepo) Delete(ctx context.Context, id string) error {
	return expectOne(r.q.Exec(ctx, `DELETE FROM users WHERE id = $1`, id))
}
