package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"STOREFRONT_BACK-END/internal/config"
	"STOREFRONT_BACK-END/internal/logger"
	"STOREFRONT_BACK-END/internal/models"
	"STOREFRONT_BACK-END/internal/utils"
)

// JWTClaims represents the claims in the JWT token. The subject is the user id.
type JWTClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// UserID parses the subject claim
func (c *JWTClaims) UserID() (uuid.UUID, error) {
	return uuid.Parse(c.Subject)
}

// UserResolver turns a bearer token into the requesting user
type UserResolver interface {
	ResolveCurrentUser(ctx context.Context, token string) (*models.User, error)
}

// GenerateToken generates a JWT token for the given user
func GenerateToken(userID uuid.UUID, email string, cfg *config.JWTConfig) (string, error) {
	now := time.Now()
	claims := JWTClaims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			Issuer:    cfg.Issuer,
			ExpiresAt: jwt.NewNumericDate(now.Add(cfg.AccessTokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(cfg.Secret))
}

// ValidateToken validates a JWT token and returns the claims
func ValidateToken(tokenString string, cfg *config.JWTConfig) (*JWTClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(cfg.Secret), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*JWTClaims)
	if !ok || !token.Valid {
		return nil, jwt.ErrTokenMalformed
	}
	if claims.Subject == "" || claims.Subject == resetTokenSubject {
		return nil, jwt.ErrTokenInvalidClaims
	}
	return claims, nil
}

// BearerToken extracts the token from an "Authorization: Bearer <token>" header
func BearerToken(r *http.Request) (string, error) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", errors.New("authorization header required")
	}

	// Extract token from "Bearer <token>"
	tokenParts := strings.Fields(authHeader)
	if len(tokenParts) != 2 || !strings.EqualFold(tokenParts[0], "Bearer") {
		return "", errors.New("invalid authorization header format")
	}
	return tokenParts[1], nil
}

// AuthMiddleware resolves the bearer token to a user and stores it in the request context
func AuthMiddleware(resolver UserResolver) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			tokenString, err := BearerToken(r)
			if err != nil {
				w.Header().Set("WWW-Authenticate", "Bearer")
				utils.WriteErrorResponse(w, http.StatusUnauthorized, "Unauthorized", err.Error())
				return
			}

			user, err := resolver.ResolveCurrentUser(r.Context(), tokenString)
			if err != nil {
				logger.FromContext(r.Context()).Debug("token rejected")
				w.Header().Set("WWW-Authenticate", "Bearer")
				utils.WriteErrorResponse(w, http.StatusUnauthorized, "Unauthorized", "Could not validate credentials")
				return
			}

			ctx := utils.WithUser(r.Context(), user)
			next.ServeHTTP(w, r.WithContext(ctx))
		}
	}
}
