package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"STOREFRONT_BACK-END/internal/config"
	"STOREFRONT_BACK-END/internal/dto"
	"STOREFRONT_BACK-END/internal/logger"
	"STOREFRONT_BACK-END/internal/middleware"
	"STOREFRONT_BACK-END/internal/models"
	"STOREFRONT_BACK-END/internal/store"
)

// IdentityService registers users, checks logins and resolves bearer tokens
type IdentityService struct {
	users store.UserStore
	jwt   *config.JWTConfig
	cost  int
	now   func() time.Time
}

// NewIdentityService creates an IdentityService
func NewIdentityService(users store.UserStore, jwtCfg *config.JWTConfig) *IdentityService {
	return &IdentityService{
		users: users,
		jwt:   jwtCfg,
		cost:  bcrypt.DefaultCost,
		now:   time.Now,
	}
}

var _ middleware.UserResolver = (*IdentityService)(nil)

// Register creates an account and returns an access token for it
func (s *IdentityService) Register(ctx context.Context, req dto.RegisterRequest) (string, error) {
	if err := validateStruct(req); err != nil {
		return "", err
	}

	if _, err := s.users.FindUserByEmail(ctx, req.Email); err == nil {
		return "", ErrEmailTaken
	} else if !errors.Is(err, store.ErrNotFound) {
		return "", fmt.Errorf("lookup user: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}

	user := &models.User{
		ID:           uuid.New(),
		Name:         strings.TrimSpace(req.Name),
		Email:        req.Email,
		PasswordHash: string(hash),
		CreatedAt:    s.now().UTC(),
		IsActive:     true,
	}
	if err := s.users.InsertUser(ctx, user); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return "", ErrEmailTaken
		}
		return "", fmt.Errorf("insert user: %w", err)
	}

	logger.FromContext(ctx).Info("user registered", zap.String("user_id", user.ID.String()))
	return s.issue(user)
}

// Login checks the password and returns a fresh access token.
// Unknown email and wrong password produce the same error.
func (s *IdentityService) Login(ctx context.Context, req dto.LoginRequest) (string, error) {
	if err := validateStruct(req); err != nil {
		return "", err
	}

	user, err := s.users.FindUserByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return "", ErrInvalidCredentials
		}
		return "", fmt.Errorf("lookup user: %w", err)
	}
	// accounts created through Google have no password
	if user.PasswordHash == "" {
		return "", ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return "", ErrInvalidCredentials
	}

	return s.issue(user)
}

// ResolveCurrentUser maps a bearer token to its user
func (s *IdentityService) ResolveCurrentUser(ctx context.Context, token string) (*models.User, error) {
	claims, err := middleware.ValidateToken(token, s.jwt)
	if err != nil {
		return nil, ErrUnauthorized
	}
	userID, err := claims.UserID()
	if err != nil {
		return nil, ErrUnauthorized
	}

	user, err := s.users.FindUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrUnauthorized
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	return user, nil
}

// LoginWithGoogle finds or creates the account for a verified Google identity
func (s *IdentityService) LoginWithGoogle(ctx context.Context, info dto.GoogleUserInfo) (string, *models.User, error) {
	if info.Email == "" || !info.Verified {
		return "", nil, ErrUnauthorized
	}

	user, err := s.users.FindUserByEmail(ctx, info.Email)
	switch {
	case err == nil:
	case errors.Is(err, store.ErrNotFound):
		name := info.Name
		if name == "" {
			name, _, _ = strings.Cut(info.Email, "@")
		}
		user = &models.User{
			ID:        uuid.New(),
			Name:      name,
			Email:     info.Email,
			CreatedAt: s.now().UTC(),
			IsActive:  true,
		}
		if err := s.users.InsertUser(ctx, user); err != nil {
			return "", nil, fmt.Errorf("insert user: %w", err)
		}
		logger.FromContext(ctx).Info("user registered via google", zap.String("user_id", user.ID.String()))
	default:
		return "", nil, fmt.Errorf("lookup user: %w", err)
	}

	token, err := s.issue(user)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

func (s *IdentityService) issue(user *models.User) (string, error) {
	token, err := middleware.GenerateToken(user.ID, user.Email, s.jwt)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return token, nil
}
