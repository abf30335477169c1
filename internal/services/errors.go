package services

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"
)

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUnauthorized       = errors.New("could not validate credentials")
	ErrUserNotFound       = errors.New("user not found")
	ErrWebsiteNotFound    = errors.New("website not found")
	ErrInvalidResetCode   = errors.New("invalid or expired verification code")
)

// ValidationError lists request fields that failed validation, keyed by JSON path
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, ", ")
}

// ResetCodeActiveError is returned while a previous reset code is still valid
type ResetCodeActiveError struct {
	RetryAfter time.Duration
}

func (e *ResetCodeActiveError) Error() string {
	return fmt.Sprintf("verification code already sent, retry in %d seconds", int(e.RetryAfter.Seconds()))
}
