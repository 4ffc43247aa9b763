package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Dan9191/posts-service/internal/middleware"
	"github.com/Dan9191/posts-service/internal/service"
)

type errorResponse struct {
	Error  string              `json:"error"`
	Errors map[string][]string `json:"errors,omitempty"`
}

func sendJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func sendError(w http.ResponseWriter, status int, message string) {
	sendJSON(w, status, errorResponse{Error: message})
}

// writeError maps a service failure to its status code and envelope
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *service.ValidationError
	if errors.As(err, &verr) {
		sendJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: verr.Error(), Errors: verr.Fields})
		return
	}

	var status int
	switch service.KindOf(err) {
	case service.KindValidation:
		status = http.StatusUnprocessableEntity
	case service.KindNotFound:
		status = http.StatusNotFound
	case service.KindInvalidCredential, service.KindUnauthenticated:
		status = http.StatusUnauthorized
	case service.KindForbidden:
		status = http.StatusForbidden
	case service.KindAlreadyLoggedIn:
		status = http.StatusConflict
	case service.KindUnsupportedDriver:
		status = http.StatusInternalServerError
	default:
		h.log.WithError(err).WithField("request_id", middleware.RequestIDFrom(r.Context())).Error("Request failed")
		sendError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	sendError(w, status, err.Error())
}

// NotFound answers unknown routes with the JSON envelope
func NotFound(w http.ResponseWriter, r *http.Request) {
	sendError(w, http.StatusNotFound, "Not found")
}

// MethodNotAllowed answers known routes called with the wrong method
func MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	sendError(w, http.StatusMethodNotAllowed, "Method not allowed")
}
