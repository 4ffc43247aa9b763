package database

import (
	"context"
	"io"
	"path/filepath"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func TestDialectOf(t *testing.T) {
	tests := []struct {
		driver string
		want   Dialect
	}{
		{"postgres", Postgres},
		{"pgx", Postgres},
		{"mysql", MySQL},
		{"sqlite", SQLite},
		{"sqlite3", SQLite},
		{"sqlserver", Unknown},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, DialectOf(tc.driver), tc.driver)
	}
}

func TestOpenAndMigrate_SQLite(t *testing.T) {
	ctx := context.Background()
	db, err := Open(ctx, "sqlite", filepath.Join(t.TempDir(), "posts.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, Migrate(ctx, db, quietLogger()))
	// Applying twice is a no-op.
	require.NoError(t, Migrate(ctx, db, quietLogger()))

	for _, table := range []string{"users", "personal_access_tokens", "posts"} {
		var name string
		err := db.QueryRowContext(ctx, `SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?`, table).Scan(&name)
		require.NoError(t, err, table)
		assert.Equal(t, table, name)
	}

	var fk int
	require.NoError(t, db.QueryRowContext(ctx, `PRAGMA foreign_keys`).Scan(&fk))
	assert.Equal(t, 1, fk)
}

func TestMigrate_UnknownDriver(t *testing.T) {
	mockDB, _, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = mockDB.Close() })

	err = Migrate(context.Background(), sqlx.NewDb(mockDB, "sqlserver"), quietLogger())
	assert.ErrorContains(t, err, "sqlserver")
}

func TestOpen_UnregisteredDriver(t *testing.T) {
	_, err := Open(context.Background(), "nosuchdriver", "x")
	assert.Error(t, err)
}

func TestMysqlDSN_EnablesParseTime(t *testing.T) {
	dsn, err := mysqlDSN("user:pw@tcp(db:3306)/posts?charset=utf8mb4")
	require.NoError(t, err)

	cfg, err := mysql.ParseDSN(dsn)
	require.NoError(t, err)
	assert.True(t, cfg.ParseTime)
	assert.Equal(t, "posts", cfg.DBName)
	assert.Equal(t, "db:3306", cfg.Addr)

	_, err = Open(context.Background(), "mysql", "no-database-separator")
	assert.ErrorContains(t, err, "invalid mysql DSN")
}
