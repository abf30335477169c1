package services

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
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

// ResetCodeTTL is how long an emailed verification code stays valid
const ResetCodeTTL = 3 * time.Minute

const resetCodeLength = 6

// Mailer delivers verification codes
type Mailer interface {
	SendVerificationCode(to, code string, validFor time.Duration) error
}

// PasswordResetService runs the forgot password flow: code, reset token, new password
type PasswordResetService struct {
	users         store.UserStore
	verifications store.VerificationStore
	mailer        Mailer
	jwt           *config.JWTConfig
	cost          int
	now           func() time.Time
	newCode       func() (string, error)
}

// NewPasswordResetService creates a PasswordResetService. mailer may be nil, in
// which case codes are only logged at debug level.
func NewPasswordResetService(users store.UserStore, verifications store.VerificationStore, mailer Mailer, jwtCfg *config.JWTConfig) *PasswordResetService {
	return &PasswordResetService{
		users:         users,
		verifications: verifications,
		mailer:        mailer,
		jwt:           jwtCfg,
		cost:          bcrypt.DefaultCost,
		now:           time.Now,
		newCode:       func() (string, error) { return generateVerificationCode(resetCodeLength) },
	}
}

// ForgotPassword issues a verification code for email and returns how long it is valid
func (s *PasswordResetService) ForgotPassword(ctx context.Context, req dto.ForgotPasswordRequest) (time.Duration, error) {
	if err := validateStruct(req); err != nil {
		return 0, err
	}

	user, err := s.users.FindUserByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return 0, ErrUserNotFound
		}
		return 0, fmt.Errorf("lookup user: %w", err)
	}

	active, err := s.verifications.LatestActiveVerification(ctx, user.ID)
	switch {
	case err == nil:
		return 0, &ResetCodeActiveError{RetryAfter: active.ExpiresAt.Sub(s.now())}
	case !errors.Is(err, store.ErrNotFound):
		return 0, fmt.Errorf("lookup verification: %w", err)
	}

	code, err := s.newCode()
	if err != nil {
		return 0, fmt.Errorf("generate code: %w", err)
	}

	now := s.now().UTC()
	v := &models.AuthVerification{
		ID:        uuid.New(),
		UserID:    user.ID,
		Email:     user.Email,
		Code:      code,
		ExpiresAt: now.Add(ResetCodeTTL),
		CreatedAt: now,
	}
	if err := s.verifications.InsertVerification(ctx, v); err != nil {
		return 0, fmt.Errorf("store verification: %w", err)
	}

	log := logger.FromContext(ctx)
	if s.mailer == nil {
		log.Debug("email disabled, verification code not sent",
			zap.String("email", user.Email), zap.String("code", code))
		return ResetCodeTTL, nil
	}
	if err := s.mailer.SendVerificationCode(user.Email, code, ResetCodeTTL); err != nil {
		return 0, fmt.Errorf("send verification code: %w", err)
	}
	log.Info("verification code sent", zap.String("user_id", user.ID.String()))
	return ResetCodeTTL, nil
}

// ResetTokenTTL is how long a token from VerifyCode stays valid
func (s *PasswordResetService) ResetTokenTTL() time.Duration {
	return s.jwt.ResetTokenTTL
}

// VerifyCode exchanges a valid code for a short-lived reset token
func (s *PasswordResetService) VerifyCode(ctx context.Context, req dto.VerifyOTPRequest) (string, error) {
	if err := validateStruct(req); err != nil {
		return "", err
	}

	v, err := s.activeVerification(ctx, req.Email, req.Code)
	if err != nil {
		return "", err
	}

	token, err := middleware.GenerateResetToken(v.UserID, v.Email, v.Code, s.jwt)
	if err != nil {
		return "", fmt.Errorf("sign reset token: %w", err)
	}
	return token, nil
}

// ResetPassword sets a new password and consumes the verification code
func (s *PasswordResetService) ResetPassword(ctx context.Context, req dto.ResetPasswordRequest) error {
	if err := validateStruct(req); err != nil {
		return err
	}

	claims, err := middleware.ValidateResetToken(req.ResetToken, s.jwt)
	if err != nil {
		return ErrUnauthorized
	}

	v, err := s.activeVerification(ctx, claims.Email, claims.Code)
	if err != nil {
		return err
	}
	if v.UserID != claims.UserID {
		return ErrInvalidResetCode
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), s.cost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := s.verifications.ConsumeVerification(ctx, v.ID, v.UserID, string(hash)); err != nil {
		// lost a race with another reset using the same code
		if errors.Is(err, store.ErrNotFound) {
			return ErrInvalidResetCode
		}
		return fmt.Errorf("consume code: %w", err)
	}

	logger.FromContext(ctx).Info("password reset", zap.String("user_id", v.UserID.String()))
	return nil
}

func (s *PasswordResetService) activeVerification(ctx context.Context, email, code string) (*models.AuthVerification, error) {
	v, err := s.verifications.FindVerification(ctx, email, code)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrInvalidResetCode
		}
		return nil, fmt.Errorf("lookup verification: %w", err)
	}
	if v.Used || !s.now().Before(v.ExpiresAt) {
		return nil, ErrInvalidResetCode
	}
	return v, nil
}

// generateVerificationCode generates a random n-digit verification code
func generateVerificationCode(length int) (string, error) {
	const digits = "0123456789"
	code := make([]byte, length)

	for i := range code {
		num, err := rand.Int(rand.Reader, big.NewInt(int64(len(digits))))
		if err != nil {
			return "", err
		}
		code[i] = digits[num.Int64()]
	}

	return string(code), nil
}
