package services

import (
	"time"

	"golang.org/x/crypto/bcrypt"

	"STOREFRONT_BACK-END/internal/config"
	"STOREFRONT_BACK-END/internal/store"
)

func testJWTConfig() *config.JWTConfig {
	return &config.JWTConfig{
		Secret:         "test-secret",
		Issuer:         "storefront-test",
		AccessTokenTTL: 30 * time.Minute,
		ResetTokenTTL:  10 * time.Minute,
	}
}

func newTestIdentity(st *store.MemoryStore) *IdentityService {
	svc := NewIdentityService(st, testJWTConfig())
	svc.cost = bcrypt.MinCost
	return svc
}
