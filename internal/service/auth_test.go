package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegister_IssuesToken(t *testing.T) {
	svc, _ := newTestService(t, testConfig())
	ctx := context.Background()

	res, err := svc.Register(ctx, "Alice", "alice@example.com", "pw")
	require.NoError(t, err)
	assert.Equal(t, "Register successful", res.Message)
	assert.NotEmpty(t, res.Token)

	user, err := svc.Authenticate(ctx, res.Token)
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", user.Email)
	assert.NotEqual(t, "pw", user.PasswordHash)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	svc, _ := newTestService(t, testConfig())
	ctx := context.Background()
	register(t, svc, "Alice", "alice@example.com")

	_, err := svc.Register(ctx, "Other", "alice@example.com", "pw")
	require.ErrorIs(t, err, ErrValidation)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, []string{"The email has already been taken."}, verr.Fields["email"])
}

func TestRegister_PasswordTooLong(t *testing.T) {
	svc, _ := newTestService(t, testConfig())
	ctx := context.Background()

	_, err := svc.Register(ctx, "Alice", "alice@example.com", strings.Repeat("p", 73))
	require.ErrorIs(t, err, ErrValidation)
	assert.EqualError(t, err, "The password must not be greater than 72 bytes.")

	res, err := svc.Register(ctx, "Alice", "alice@example.com", strings.Repeat("p", 72))
	require.NoError(t, err)
	assert.NotEmpty(t, res.Token)
}

func TestLogin_SingleSession(t *testing.T) {
	svc, _ := newTestService(t, testConfig())
	ctx := context.Background()
	user, _ := register(t, svc, "Alice", "alice@example.com")

	// The registration token is still live.
	_, err := svc.Login(ctx, "alice@example.com", "secret-password")
	require.ErrorIs(t, err, ErrAlreadyLoggedIn)
	assert.EqualError(t, err, "User is already logged in")

	_, err = svc.Logout(ctx, user)
	require.NoError(t, err)

	res, err := svc.Login(ctx, "alice@example.com", "secret-password")
	require.NoError(t, err)
	assert.Equal(t, "Login successful", res.Message)
	assert.NotEmpty(t, res.Token)

	_, err = svc.Login(ctx, "alice@example.com", "secret-password")
	assert.ErrorIs(t, err, ErrAlreadyLoggedIn)
}

func TestLogin_Failures(t *testing.T) {
	svc, _ := newTestService(t, testConfig())
	ctx := context.Background()
	register(t, svc, "Alice", "alice@example.com")

	_, err := svc.Login(ctx, "alice@example.com", "wrong")
	require.ErrorIs(t, err, ErrInvalidCredential)
	assert.EqualError(t, err, "Password incorrect")

	_, err = svc.Login(ctx, "nobody@example.com", "secret-password")
	require.ErrorIs(t, err, ErrNotFound)
	assert.EqualError(t, err, "User not found")
}

func TestIssueToken_DuplicateMapsToAlreadyLoggedIn(t *testing.T) {
	svc, _ := newTestService(t, testConfig())
	ctx := context.Background()
	user, _ := register(t, svc, "Alice", "alice@example.com")

	// A concurrent login that passed the existence check loses on the unique index.
	_, err := svc.issueToken(ctx, svc.repo, user.ID)
	assert.ErrorIs(t, err, ErrAlreadyLoggedIn)
}

func TestLogout_RevokesToken(t *testing.T) {
	svc, _ := newTestService(t, testConfig())
	ctx := context.Background()
	user, token := register(t, svc, "Alice", "alice@example.com")

	res, err := svc.Logout(ctx, user)
	require.NoError(t, err)
	assert.Equal(t, "Logout successful", res.Message)

	_, err = svc.Authenticate(ctx, token)
	assert.ErrorIs(t, err, ErrUnauthenticated)

	_, err = svc.Logout(ctx, user)
	assert.ErrorIs(t, err, ErrUnauthenticated, "nothing left to delete")
}

func TestProfile(t *testing.T) {
	svc, _ := newTestService(t, testConfig())
	ctx := context.Background()
	user, _ := register(t, svc, "Alice", "alice@example.com")

	p, err := svc.Profile(ctx, user)
	require.NoError(t, err)
	assert.Equal(t, user.ID, p.ID)
	assert.Equal(t, "Alice", p.Name)
	assert.Equal(t, "alice@example.com", p.Email)

	_, err = svc.Profile(ctx, nil)
	require.ErrorIs(t, err, ErrUnauthenticated)
	assert.EqualError(t, err, "User not authenticated")
}

func TestAuthenticate_Rejects(t *testing.T) {
	svc, _ := newTestService(t, testConfig())
	ctx := context.Background()
	_, token := register(t, svc, "Alice", "alice@example.com")

	other := *svc
	cfg := *svc.config
	cfg.JWTSecret = "another-secret"
	other.config = &cfg

	for name, fn := range map[string]func() error{
		"garbage":      func() error { _, err := svc.Authenticate(ctx, "garbage"); return err },
		"empty":        func() error { _, err := svc.Authenticate(ctx, ""); return err },
		"wrong secret": func() error { _, err := other.Authenticate(ctx, token); return err },
	} {
		assert.ErrorIs(t, fn(), ErrUnauthenticated, name)
	}
}

func TestTokenTTL_ExpiredTokensDoNotBlockLogin(t *testing.T) {
	cfg := testConfig()
	cfg.TokenTTL = time.Hour
	svc, clock := newTestService(t, cfg)
	ctx := context.Background()
	_, token := register(t, svc, "Alice", "alice@example.com")

	clock.advance(2 * time.Hour)

	_, err := svc.Authenticate(ctx, token)
	require.ErrorIs(t, err, ErrUnauthenticated)

	res, err := svc.Login(ctx, "alice@example.com", "secret-password")
	require.NoError(t, err)

	_, err = svc.Authenticate(ctx, res.Token)
	require.NoError(t, err)
}

func TestPruneExpiredTokens(t *testing.T) {
	cfg := testConfig()
	cfg.TokenTTL = time.Hour
	svc, clock := newTestService(t, cfg)
	ctx := context.Background()
	register(t, svc, "Alice", "alice@example.com")
	register(t, svc, "Bob", "bob@example.com")

	n, err := svc.PruneExpiredTokens(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)

	clock.advance(2 * time.Hour)
	n, err = svc.PruneExpiredTokens(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}
