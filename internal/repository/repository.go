package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Dan9191/posts-service/internal/database"
	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

var (
	// ErrNotFound is returned when a lookup matches no row
	ErrNotFound = errors.New("not found")
	// ErrDuplicate is returned when an insert violates a unique constraint
	ErrDuplicate = errors.New("duplicate")
	// ErrUnsupportedDriver is returned when an operation has no statement for the driver
	ErrUnsupportedDriver = errors.New("unsupported driver")
)

// Repository provides database operations
type Repository struct {
	db      *sqlx.DB
	q       sqlx.ExtContext // db, or the open transaction
	dialect database.Dialect
}

// NewRepository initializes a new repository
func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db, q: db, dialect: database.DialectOf(db.DriverName())}
}

// DriverName returns the name of the underlying database/sql driver
func (r *Repository) DriverName() string {
	return r.db.DriverName()
}

// WithTx runs fn against a repository bound to a new transaction. The
// transaction commits when fn returns nil and rolls back otherwise.
func (r *Repository) WithTx(ctx context.Context, fn func(tx *Repository) error) (err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback()
			return
		}
		if err = tx.Commit(); err != nil {
			err = fmt.Errorf("failed to commit transaction: %w", err)
		}
	}()

	return fn(&Repository{db: r.db, q: tx, dialect: r.dialect})
}

// insert runs an INSERT written with ? placeholders and returns the new id
func (r *Repository) insert(ctx context.Context, query string, args ...any) (int64, error) {
	if r.dialect == database.Postgres {
		var id int64
		err := r.q.QueryRowxContext(ctx, r.q.Rebind(query+" RETURNING id"), args...).Scan(&id)
		return id, err
	}

	res, err := r.q.ExecContext(ctx, r.q.Rebind(query), args...)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		return myErr.Number == 1062
	}
	// SQLite: "UNIQUE constraint failed: table.column"
	return strings.Contains(strings.ToLower(err.Error()), "unique constraint failed")
}
