package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dan9191/posts-service/internal/database"
	"github.com/Dan9191/posts-service/internal/models"
	"github.com/jmoiron/sqlx"
)

const postColumns = `id, user_id, title, body, created_at, updated_at`

// CreatePost creates a new post in the database
func (r *Repository) CreatePost(ctx context.Context, post *models.Post) error {
	query := `
		INSERT INTO posts (user_id, title, body, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)`
	id, err := r.insert(ctx, query, post.UserID, post.Title, post.Body, post.CreatedAt, post.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create post: %w", err)
	}
	post.ID = id
	return nil
}

// FindPostByID retrieves a post by id
func (r *Repository) FindPostByID(ctx context.Context, id int64) (*models.Post, error) {
	post := &models.Post{}
	query := `SELECT ` + postColumns + ` FROM posts WHERE id = ?`
	err := sqlx.GetContext(ctx, r.q, post, r.q.Rebind(query), id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find post: %w", err)
	}
	return post, nil
}

// ListPosts returns the posts of one user whose title or body contains the
// search term, ordered by creation time.
func (r *Repository) ListPosts(ctx context.Context, f models.PostFilter) ([]models.Post, error) {
	order := "DESC"
	if f.Oldest {
		order = "ASC"
	}
	// The OR is grouped so the owner clause applies to both matches.
	query := `
		SELECT ` + postColumns + `
		FROM posts
		WHERE (title LIKE ? OR body LIKE ?) AND user_id = ?
		ORDER BY created_at ` + order + `, id ` + order

	pattern := "%" + f.Search + "%"
	posts := []models.Post{}
	if err := sqlx.SelectContext(ctx, r.q, &posts, r.q.Rebind(query), pattern, pattern, f.UserID); err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	return posts, nil
}

// UpdatePost writes the title, body and updated_at of an existing post.
// MySQL reports unchanged rows as unaffected, so no affected-row check here.
func (r *Repository) UpdatePost(ctx context.Context, post *models.Post) error {
	query := `
		UPDATE posts
		SET title = ?, body = ?, updated_at = ?
		WHERE id = ?`
	if _, err := r.q.ExecContext(ctx, r.q.Rebind(query), post.Title, post.Body, post.UpdatedAt, post.ID); err != nil {
		return fmt.Errorf("failed to update post: %w", err)
	}
	return nil
}

// DeletePost removes a post by id
func (r *Repository) DeletePost(ctx context.Context, id int64) error {
	res, err := r.q.ExecContext(ctx, r.q.Rebind(`DELETE FROM posts WHERE id = ?`), id)
	if err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}
	return requireAffected(res)
}

// ResetPostSequence sets the post id counter so the next insert receives
// the current maximum id plus one.
func (r *Repository) ResetPostSequence(ctx context.Context) error {
	if r.dialect == database.Unknown {
		return fmt.Errorf("%w: %s", ErrUnsupportedDriver, r.DriverName())
	}

	var maxID sql.NullInt64
	if err := r.q.QueryRowxContext(ctx, `SELECT MAX(id) FROM posts`).Scan(&maxID); err != nil {
		return fmt.Errorf("failed to read max post id: %w", err)
	}

	var err error
	switch r.dialect {
	case database.MySQL:
		_, err = r.q.ExecContext(ctx, fmt.Sprintf("ALTER TABLE posts AUTO_INCREMENT = %d", maxID.Int64+1))
	case database.Postgres:
		_, err = r.q.ExecContext(ctx, `SELECT setval('posts_id_seq', $1, false)`, maxID.Int64+1)
	case database.SQLite:
		_, err = r.q.ExecContext(ctx, `UPDATE sqlite_sequence SET seq = ? WHERE name = 'posts'`, maxID.Int64)
	}
	if err != nil {
		return fmt.Errorf("failed to reset post sequence: %w", err)
	}
	return nil
}

func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
