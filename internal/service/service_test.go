package service

import (
	"context"
	"io"
	"path/filepath"
	"testing"
	"time"

	"github.com/Dan9191/posts-service/internal/config"
	"github.com/Dan9191/posts-service/internal/database"
	"github.com/Dan9191/posts-service/internal/models"
	"github.com/Dan9191/posts-service/internal/repository"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

// --- helpers ---

type testClock struct {
	t time.Time
}

// now returns the current instant and moves the clock one second forward
func (c *testClock) now() time.Time {
	t := c.t
	c.t = c.t.Add(time.Second)
	return t
}

func (c *testClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func testConfig() *config.Config {
	return &config.Config{
		JWTSecret:          "test-secret",
		EnforceOwnership:   true,
		PostIDRecompaction: true,
	}
}

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func newTestService(t *testing.T, cfg *config.Config) (*Service, *testClock) {
	t.Helper()
	ctx := context.Background()
	db, err := database.Open(ctx, "sqlite", filepath.Join(t.TempDir(), "posts.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, database.Migrate(ctx, db, quietLogger()))

	clock := &testClock{t: time.Now().UTC().Truncate(time.Second)}
	svc := NewService(repository.NewRepository(db), quietLogger(), cfg)
	svc.now = clock.now
	return svc, clock
}

// register creates a user and returns it resolved from its token
func register(t *testing.T, svc *Service, name, email string) (*models.User, string) {
	t.Helper()
	ctx := context.Background()
	res, err := svc.Register(ctx, name, email, "secret-password")
	require.NoError(t, err)
	user, err := svc.Authenticate(ctx, res.Token)
	require.NoError(t, err)
	return user, res.Token
}
