package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"STOREFRONT_BACK-END/internal/dto"
	"STOREFRONT_BACK-END/internal/store"
)

type fakeMailer struct {
	to, code string
	err      error
}

func (m *fakeMailer) SendVerificationCode(to, code string, _ time.Duration) error {
	m.to, m.code = to, code
	return m.err
}

func newTestReset(t *testing.T) (*PasswordResetService, *IdentityService, *fakeMailer) {
	t.Helper()
	st := store.NewMemoryStore()
	identity := newTestIdentity(st)
	if _, err := identity.Register(context.Background(), dto.RegisterRequest{Name: "Ann", Email: "ann@example.com", Password: "oldpass"}); err != nil {
		t.Fatalf("register: %v", err)
	}

	mailer := &fakeMailer{}
	svc := NewPasswordResetService(st, st, mailer, testJWTConfig())
	svc.cost = bcrypt.MinCost
	return svc, identity, mailer
}

func TestPasswordResetFlow(t *testing.T) {
	ctx := context.Background()
	svc, identity, mailer := newTestReset(t)

	ttl, err := svc.ForgotPassword(ctx, dto.ForgotPasswordRequest{Email: "ann@example.com"})
	if err != nil {
		t.Fatalf("forgot password: %v", err)
	}
	if ttl != ResetCodeTTL || mailer.to != "ann@example.com" || len(mailer.code) != 6 {
		t.Fatalf("unexpected mail %+v ttl %v", mailer, ttl)
	}

	var active *ResetCodeActiveError
	if _, err := svc.ForgotPassword(ctx, dto.ForgotPasswordRequest{Email: "ann@example.com"}); !errors.As(err, &active) {
		t.Fatalf("expected ResetCodeActiveError, got %v", err)
	}

	if _, err := svc.VerifyCode(ctx, dto.VerifyOTPRequest{Email: "ann@example.com", Code: wrongCode(mailer.code)}); !errors.Is(err, ErrInvalidResetCode) {
		t.Fatalf("expected ErrInvalidResetCode, got %v", err)
	}

	resetToken, err := svc.VerifyCode(ctx, dto.VerifyOTPRequest{Email: "ann@example.com", Code: mailer.code})
	if err != nil {
		t.Fatalf("verify: %v", err)
	}

	if err := svc.ResetPassword(ctx, dto.ResetPasswordRequest{ResetToken: resetToken, NewPassword: "newpass"}); err != nil {
		t.Fatalf("reset: %v", err)
	}
	if _, err := identity.Login(ctx, dto.LoginRequest{Email: "ann@example.com", Password: "newpass"}); err != nil {
		t.Fatalf("login with new password: %v", err)
	}
	if _, err := identity.Login(ctx, dto.LoginRequest{Email: "ann@example.com", Password: "oldpass"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("old password must stop working, got %v", err)
	}

	if err := svc.ResetPassword(ctx, dto.ResetPasswordRequest{ResetToken: resetToken, NewPassword: "again1"}); !errors.Is(err, ErrInvalidResetCode) {
		t.Fatalf("reset token must be single use, got %v", err)
	}
}

func TestResetPasswordConcurrentUseOnce(t *testing.T) {
	ctx := context.Background()
	svc, identity, mailer := newTestReset(t)
	if _, err := svc.ForgotPassword(ctx, dto.ForgotPasswordRequest{Email: "ann@example.com"}); err != nil {
		t.Fatalf("forgot password: %v", err)
	}
	resetToken, err := svc.VerifyCode(ctx, dto.VerifyOTPRequest{Email: "ann@example.com", Code: mailer.code})
	if err != nil {
		t.Fatalf("verify: %v", err)
	}

	passwords := []string{"first1", "second2", "third3", "fourth4"}
	errs := make([]error, len(passwords))
	var wg sync.WaitGroup
	for i, pw := range passwords {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs[i] = svc.ResetPassword(ctx, dto.ResetPasswordRequest{ResetToken: resetToken, NewPassword: pw})
		}()
	}
	wg.Wait()

	winner := ""
	for i, err := range errs {
		switch {
		case err == nil:
			if winner != "" {
				t.Fatalf("code used twice: %q and %q", winner, passwords[i])
			}
			winner = passwords[i]
		case !errors.Is(err, ErrInvalidResetCode):
			t.Fatalf("unexpected error %v", err)
		}
	}
	if winner == "" {
		t.Fatal("no reset succeeded")
	}
	if _, err := identity.Login(ctx, dto.LoginRequest{Email: "ann@example.com", Password: winner}); err != nil {
		t.Fatalf("winning password must be stored: %v", err)
	}
}

func TestForgotPasswordUnknownEmail(t *testing.T) {
	svc, _, _ := newTestReset(t)
	if _, err := svc.ForgotPassword(context.Background(), dto.ForgotPasswordRequest{Email: "bob@example.com"}); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestVerifyCodeExpired(t *testing.T) {
	ctx := context.Background()
	svc, _, mailer := newTestReset(t)
	if _, err := svc.ForgotPassword(ctx, dto.ForgotPasswordRequest{Email: "ann@example.com"}); err != nil {
		t.Fatalf("forgot password: %v", err)
	}

	svc.now = func() time.Time { return time.Now().Add(ResetCodeTTL + time.Second) }
	if _, err := svc.VerifyCode(ctx, dto.VerifyOTPRequest{Email: "ann@example.com", Code: mailer.code}); !errors.Is(err, ErrInvalidResetCode) {
		t.Fatalf("expected ErrInvalidResetCode, got %v", err)
	}
}

func TestResetPasswordRejectsAccessToken(t *testing.T) {
	ctx := context.Background()
	svc, identity, _ := newTestReset(t)
	access, err := identity.Login(ctx, dto.LoginRequest{Email: "ann@example.com", Password: "oldpass"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if err := svc.ResetPassword(ctx, dto.ResetPasswordRequest{ResetToken: access, NewPassword: "newpass"}); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func wrongCode(code string) string {
	if code == "000000" {
		return "111111"
	}
	return "000000"
}
