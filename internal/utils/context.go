package utils

import (
	"context"

	"STOREFRONT_BACK-END/internal/models"
)

type contextKey string

const userKey contextKey = "user"

// WithUser stores the authenticated user in the context
func WithUser(ctx context.Context, u *models.User) context.Context {
	return context.WithValue(ctx, userKey, u)
}

// UserFromContext returns the user set by AuthMiddleware
func UserFromContext(ctx context.Context) (*models.User, bool) {
	u, ok := ctx.Value(userKey).(*models.User)
	return u, ok && u != nil
}
