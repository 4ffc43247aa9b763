package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dan9191/posts-service/internal/models"
	"github.com/jmoiron/sqlx"
)

// CreateUser creates a new user in the database
func (r *Repository) CreateUser(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (name, email, password_hash, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)`
	id, err := r.insert(ctx, query, user.Name, user.Email, user.PasswordHash, user.CreatedAt, user.UpdatedAt)
	if isUniqueViolation(err) {
		return ErrDuplicate
	}
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	user.ID = id
	return nil
}

// FindUserByEmail retrieves a user by email
func (r *Repository) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.findUser(ctx, "email = ?", email)
}

// FindUserByID retrieves a user by id
func (r *Repository) FindUserByID(ctx context.Context, id int64) (*models.User, error) {
	return r.findUser(ctx, "id = ?", id)
}

func (r *Repository) findUser(ctx context.Context, cond string, arg any) (*models.User, error) {
	user := &models.User{}
	query := `
		SELECT id, name, email, password_hash, created_at, updated_at
		FROM users
		WHERE ` + cond
	err := sqlx.GetContext(ctx, r.q, user, r.q.Rebind(query), arg)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}

// EmailExists reports whether a user with the email is registered
func (r *Repository) EmailExists(ctx context.Context, email string) (bool, error) {
	return r.exists(ctx, "SELECT COUNT(1) FROM users WHERE email = ?", email)
}

// UserExists reports whether a user with the id exists
func (r *Repository) UserExists(ctx context.Context, id int64) (bool, error) {
	return r.exists(ctx, "SELECT COUNT(1) FROM users WHERE id = ?", id)
}

func (r *Repository) exists(ctx context.Context, query string, arg any) (bool, error) {
	var n int
	if err := r.q.QueryRowxContext(ctx, r.q.Rebind(query), arg).Scan(&n); err != nil {
		return false, fmt.Errorf("failed to count rows: %w", err)
	}
	return n > 0, nil
}
