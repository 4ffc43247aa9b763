package service

import (
	"time"

	"github.com/Dan9191/posts-service/internal/config"
	"github.com/Dan9191/posts-service/internal/repository"
	"github.com/sirupsen/logrus"
)

// Service handles business logic
type Service struct {
	repo   *repository.Repository
	log    *logrus.Logger
	config *config.Config
	now    func() time.Time
}

// NewService initializes a new service
func NewService(repo *repository.Repository, log *logrus.Logger, cfg *config.Config) *Service {
	return &Service{
		repo:   repo,
		log:    log,
		config: cfg,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// MessageResult is a response carrying only a message
type MessageResult struct {
	Message string `json:"message"`
}

// TokenResult is returned by register and login
type TokenResult struct {
	Message string `json:"message"`
	Token   string `json:"token"`
}
