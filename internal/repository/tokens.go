package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Dan9191/posts-service/internal/models"
	"github.com/jmoiron/sqlx"
)

const tokenColumns = `id, user_id, name, token, created_at, expires_at`

// CreateToken stores a new token. A second token with the same name for
// the same user fails with ErrDuplicate.
func (r *Repository) CreateToken(ctx context.Context, token *models.Token) error {
	query := `
		INSERT INTO personal_access_tokens (user_id, name, token, created_at, expires_at)
		VALUES (?, ?, ?, ?, ?)`
	id, err := r.insert(ctx, query, token.UserID, token.Name, token.Hash, token.CreatedAt, token.ExpiresAt)
	if isUniqueViolation(err) {
		return ErrDuplicate
	}
	if err != nil {
		return fmt.Errorf("failed to create token: %w", err)
	}
	token.ID = id
	return nil
}

// FindTokenByHash retrieves a token by the hash of its bearer string
func (r *Repository) FindTokenByHash(ctx context.Context, hash string) (*models.Token, error) {
	return r.findToken(ctx, `SELECT `+tokenColumns+` FROM personal_access_tokens WHERE token = ?`, hash)
}

// FindUserToken retrieves the named token of a user
func (r *Repository) FindUserToken(ctx context.Context, userID int64, name string) (*models.Token, error) {
	return r.findToken(ctx, `SELECT `+tokenColumns+` FROM personal_access_tokens WHERE user_id = ? AND name = ?`, userID, name)
}

func (r *Repository) findToken(ctx context.Context, query string, args ...any) (*models.Token, error) {
	token := &models.Token{}
	err := sqlx.GetContext(ctx, r.q, token, r.q.Rebind(query), args...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find token: %w", err)
	}
	return token, nil
}

// DeleteUserTokens removes every token of the user and returns how many were removed
func (r *Repository) DeleteUserTokens(ctx context.Context, userID int64) (int64, error) {
	return r.deleteTokens(ctx, `DELETE FROM personal_access_tokens WHERE user_id = ?`, userID)
}

// DeleteExpiredUserTokens removes the user's tokens that expired before now
func (r *Repository) DeleteExpiredUserTokens(ctx context.Context, userID int64, now time.Time) (int64, error) {
	return r.deleteTokens(ctx, `
		DELETE FROM personal_access_tokens
		WHERE user_id = ? AND expires_at IS NOT NULL AND expires_at <= ?`, userID, now)
}

// DeleteExpiredTokens removes all tokens that expired before now
func (r *Repository) DeleteExpiredTokens(ctx context.Context, now time.Time) (int64, error) {
	return r.deleteTokens(ctx, `
		DELETE FROM personal_access_tokens
		WHERE expires_at IS NOT NULL AND expires_at <= ?`, now)
}

func (r *Repository) deleteTokens(ctx context.Context, query string, args ...any) (int64, error) {
	res, err := r.q.ExecContext(ctx, r.q.Rebind(query), args...)
	if err != nil {
		return 0, fmt.Errorf("failed to delete tokens: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count deleted tokens: %w", err)
	}
	return n, nil
}
