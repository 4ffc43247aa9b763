package handler

import (
	"net/http"

	"github.com/Dan9191/posts-service/internal/service"
	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
)

// Handler serves the JSON API on top of the service layer
type Handler struct {
	svc      *service.Service
	log      *logrus.Logger
	validate *validator.Validate
}

// NewHandler creates a handler bound to svc
func NewHandler(svc *service.Service, log *logrus.Logger) *Handler {
	return &Handler{svc: svc, log: log, validate: newValidator()}
}

// Test answers the connectivity probe
func (h *Handler) Test(w http.ResponseWriter, r *http.Request) {
	sendJSON(w, http.StatusOK, service.MessageResult{Message: "Hello, world!"})
}

// Health reports liveness
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	sendJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
