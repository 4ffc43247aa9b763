package middleware

import (
	"context"

	"github.com/Dan9191/posts-service/internal/models"
)

type ctxKeyUser struct{}

type ctxKeyRequestID struct{}

// WithUser stores the authenticated user in ctx
func WithUser(ctx context.Context, user *models.User) context.Context {
	return context.WithValue(ctx, ctxKeyUser{}, user)
}

// UserFrom returns the authenticated user, or nil for anonymous requests
func UserFrom(ctx context.Context) *models.User {
	user, _ := ctx.Value(ctxKeyUser{}).(*models.User)
	return user
}

// RequestIDFrom returns the id assigned by RequestLogger
func RequestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(ctxKeyRequestID{}).(string)
	return id
}
