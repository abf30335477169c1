// Package store persists users, website profiles and password reset codes.
package store

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"STOREFRONT_BACK-END/internal/models"
)

var (
	// ErrNotFound is returned when no record matches a lookup
	ErrNotFound = errors.New("store: record not found")
	// ErrDuplicate is returned when an insert violates a uniqueness rule
	ErrDuplicate = errors.New("store: duplicate record")
)

// WebsiteFilter selects website profiles. Zero fields match anything.
type WebsiteFilter struct {
	ID         uuid.UUID
	UserID     uuid.UUID
	Slug       string
	ActiveOnly bool
}

// Matches reports whether w satisfies the filter
func (f WebsiteFilter) Matches(w *models.Website) bool {
	if f.ID != uuid.Nil && w.ID != f.ID {
		return false
	}
	if f.UserID != uuid.Nil && w.UserID != f.UserID {
		return false
	}
	if f.Slug != "" && w.Slug != f.Slug {
		return false
	}
	if f.ActiveOnly && !w.IsActive {
		return false
	}
	return true
}

// UserStore is the users collection
type UserStore interface {
	FindUserByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)
	InsertUser(ctx context.Context, u *models.User) error
}

// WebsiteStore is the websites collection
type WebsiteStore interface {
	FindWebsite(ctx context.Context, f WebsiteFilter) (*models.Website, error)
	// FindWebsites returns matches in creation order, at most limit of them
	FindWebsites(ctx context.Context, f WebsiteFilter, limit int) ([]models.Website, error)
	InsertWebsite(ctx context.Context, w *models.Website) error
	// UpdateWebsite applies patch to every match and reports how many matched
	UpdateWebsite(ctx context.Context, f WebsiteFilter, patch models.WebsitePatch) (int64, error)
}

// VerificationStore is the auth_verifications collection
type VerificationStore interface {
	// LatestActiveVerification returns the newest unused, unexpired code for a user
	LatestActiveVerification(ctx context.Context, userID uuid.UUID) (*models.AuthVerification, error)
	InsertVerification(ctx context.Context, v *models.AuthVerification) error
	// FindVerification returns the newest code for email matching code, used or not
	FindVerification(ctx context.Context, email, code string) (*models.AuthVerification, error)
	// ConsumeVerification atomically marks an unused code spent and sets the
	// owner's password hash. ErrNotFound when the code is already used.
	ConsumeVerification(ctx context.Context, id, userID uuid.UUID, passwordHash string) error
}

// Store is the full document store handle shared by the services
type Store interface {
	UserStore
	WebsiteStore
	VerificationStore
	Ping(ctx context.Context) error
	Close()
}
