package service

import (
	"context"
	"errors"

	"github.com/Dan9191/posts-service/internal/models"
	"github.com/Dan9191/posts-service/internal/repository"
	"github.com/sirupsen/logrus"
)

// PostResult is returned by create and update
type PostResult struct {
	Message string       `json:"message"`
	Post    *models.Post `json:"post"`
}

// CreatePost stores a new post for userID
func (s *Service) CreatePost(ctx context.Context, user *models.User, userID int64, title, body string) (*PostResult, error) {
	if user == nil {
		return nil, errNotAuthenticated
	}

	exists, err := s.repo.UserExists(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, NewValidationError("user_id", "The selected user id is invalid.")
	}
	if s.config.EnforceOwnership && userID != user.ID {
		return nil, errForeignPostCreator
	}

	now := s.now()
	post := &models.Post{
		UserID:    userID,
		Title:     title,
		Body:      body,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.CreatePost(ctx, post); err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{"user_id": userID, "post_id": post.ID}).Info("Post created")
	return &PostResult{Message: "Post created successfully", Post: post}, nil
}

// ReadPosts lists the authenticated user's posts whose title or body
// contains search. order "oldest" sorts ascending by creation time; any
// other value sorts latest first.
func (s *Service) ReadPosts(ctx context.Context, user *models.User, search, order string) ([]models.Post, error) {
	if user == nil {
		return nil, errNotAuthenticated
	}

	posts, err := s.repo.ListPosts(ctx, models.PostFilter{
		UserID: user.ID,
		Search: search,
		Oldest: order == "oldest",
	})
	if err != nil {
		return nil, err
	}
	if len(posts) == 0 {
		return nil, errNoPostFound
	}
	return posts, nil
}

// UpdatePost applies the supplied fields to an existing post
func (s *Service) UpdatePost(ctx context.Context, user *models.User, id int64, upd models.PostUpdate) (*PostResult, error) {
	if user == nil {
		return nil, errNotAuthenticated
	}

	post, err := s.ownedPost(ctx, s.repo, user, id)
	if err != nil {
		return nil, err
	}

	if upd.Title != nil {
		post.Title = *upd.Title
	}
	if upd.Body != nil {
		post.Body = *upd.Body
	}
	post.UpdatedAt = s.now()
	if err := s.repo.UpdatePost(ctx, post); err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{"user_id": user.ID, "post_id": post.ID}).Info("Post updated")
	return &PostResult{Message: "Post updated successfully", Post: post}, nil
}

// DeletePost removes a post and, when enabled, resets the post id counter
// in the same transaction.
func (s *Service) DeletePost(ctx context.Context, user *models.User, id int64) (*MessageResult, error) {
	if user == nil {
		return nil, errNotAuthenticated
	}

	err := s.repo.WithTx(ctx, func(tx *repository.Repository) error {
		if _, err := s.ownedPost(ctx, tx, user, id); err != nil {
			return err
		}
		if err := tx.DeletePost(ctx, id); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return errPostNotFound
			}
			return err
		}
		if !s.config.PostIDRecompaction {
			return nil
		}
		if err := tx.ResetPostSequence(ctx); err != nil {
			if errors.Is(err, repository.ErrUnsupportedDriver) {
				return errUnsupportedDriver(tx.DriverName())
			}
			return err
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrUnsupportedDriver) {
			s.log.WithError(err).Error("Post id recompaction failed")
		}
		return nil, err
	}

	s.log.WithFields(logrus.Fields{"user_id": user.ID, "post_id": id}).Info("Post deleted")
	return &MessageResult{Message: "Post deleted successfully"}, nil
}

func (s *Service) ownedPost(ctx context.Context, repo *repository.Repository, user *models.User, id int64) (*models.Post, error) {
	post, err := repo.FindPostByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, errPostNotFound
	}
	if err != nil {
		return nil, err
	}
	if s.config.EnforceOwnership && post.UserID != user.ID {
		return nil, errPostNotOwned
	}
	return post, nil
}
