package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/Dan9191/posts-service/internal/models"
	"github.com/Dan9191/posts-service/internal/repository"
	"github.com/Dan9191/posts-service/internal/utils"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

// maxPasswordBytes is the longest input bcrypt accepts
const maxPasswordBytes = 72

// Register creates a new user with hashed password and issues its auth token
func (s *Service) Register(ctx context.Context, name, email, password string) (*TokenResult, error) {
	if len(password) > maxPasswordBytes {
		return nil, NewValidationError("password", fmt.Sprintf("The password must not be greater than %d bytes.", maxPasswordBytes))
	}

	taken, err := s.repo.EmailExists(ctx, email)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, NewValidationError("email", "The email has already been taken.")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := s.now()
	user := &models.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hashedPassword),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	var token string
	err = s.repo.WithTx(ctx, func(tx *repository.Repository) error {
		if err := tx.CreateUser(ctx, user); err != nil {
			if errors.Is(err, repository.ErrDuplicate) {
				return NewValidationError("email", "The email has already been taken.")
			}
			return err
		}
		token, err = s.issueToken(ctx, tx, user.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.log.WithField("user_id", user.ID).Infof("User registered: %s", user.Email)
	return &TokenResult{Message: "Register successful", Token: token}, nil
}

// Login authenticates a user and issues a new auth token. A user holding a
// live token must log out first.
func (s *Service) Login(ctx context.Context, email, password string) (*TokenResult, error) {
	user, err := s.repo.FindUserByEmail(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, errUserNotFound
	}
	if err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, errPasswordIncorrect
	}

	var token string
	err = s.repo.WithTx(ctx, func(tx *repository.Repository) error {
		if _, err := tx.DeleteExpiredUserTokens(ctx, user.ID, s.now()); err != nil {
			return err
		}
		_, err := tx.FindUserToken(ctx, user.ID, models.AuthTokenName)
		if err == nil {
			return errAlreadyLoggedIn
		}
		if !errors.Is(err, repository.ErrNotFound) {
			return err
		}
		token, err = s.issueToken(ctx, tx, user.ID)
		return err
	})
	if err != nil {
		if errors.Is(err, ErrAlreadyLoggedIn) {
			s.log.WithField("user_id", user.ID).Warn("Login rejected, user already holds a token")
		}
		return nil, err
	}

	s.log.WithField("user_id", user.ID).Infof("User logged in: %s", user.Email)
	return &TokenResult{Message: "Login successful", Token: token}, nil
}

// Authenticate resolves the user a bearer token was issued to. The token
// must verify and still be stored.
func (s *Service) Authenticate(ctx context.Context, bearer string) (*models.User, error) {
	now := s.now()
	userID, err := utils.ParseToken([]byte(s.config.JWTSecret), bearer, now)
	if err != nil {
		s.log.WithError(err).Debug("Bearer token rejected")
		return nil, errNotAuthenticated
	}

	token, err := s.repo.FindTokenByHash(ctx, utils.HashToken(bearer))
	if errors.Is(err, repository.ErrNotFound) {
		return nil, errNotAuthenticated
	}
	if err != nil {
		return nil, err
	}
	if token.UserID != userID || token.Expired(now) {
		return nil, errNotAuthenticated
	}

	user, err := s.repo.FindUserByID(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, errNotAuthenticated
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

// Profile returns the public view of the authenticated user
func (s *Service) Profile(ctx context.Context, user *models.User) (*models.Profile, error) {
	if user == nil {
		return nil, errNotAuthenticated
	}
	profile := user.Profile()
	return &profile, nil
}

// Logout revokes every token of the authenticated user
func (s *Service) Logout(ctx context.Context, user *models.User) (*MessageResult, error) {
	if user == nil {
		return nil, errNotAuthenticated
	}
	n, err := s.repo.DeleteUserTokens(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, errNotAuthenticated
	}

	s.log.WithFields(logrus.Fields{"user_id": user.ID, "tokens": n}).Info("User logged out")
	return &MessageResult{Message: "Logout successful"}, nil
}

// PruneExpiredTokens deletes all tokens past their expiry
func (s *Service) PruneExpiredTokens(ctx context.Context) (int64, error) {
	n, err := s.repo.DeleteExpiredTokens(ctx, s.now())
	if err != nil {
		return 0, err
	}
	if n > 0 {
		s.log.Infof("Pruned %d expired tokens", n)
	}
	return n, nil
}

func (s *Service) issueToken(ctx context.Context, repo *repository.Repository, userID int64) (string, error) {
	now := s.now()
	token, expiresAt, err := utils.IssueToken([]byte(s.config.JWTSecret), userID, now, s.config.TokenTTL)
	if err != nil {
		return "", err
	}

	err = repo.CreateToken(ctx, &models.Token{
		UserID:    userID,
		Name:      models.AuthTokenName,
		Hash:      utils.HashToken(token),
		CreatedAt: now,
		ExpiresAt: expiresAt,
	})
	if errors.Is(err, repository.ErrDuplicate) {
		return "", errAlreadyLoggedIn
	}
	if err != nil {
		return "", err
	}
	return token, nil
}
