package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrInvalidToken is returned when a token fails verification.
	ErrInvalidToken = errors.New("invalid token")
	// ErrExpiredToken is returned when a token has expired.
	ErrExpiredToken = errors.New("token has expired")
)

// Token kinds. Access tokens gate API requests; refresh tokens may only be
// exchanged for a new pair.
const (
	tokenKindAccess  = "access"
	tokenKindRefresh = "refresh"
)

// TokenConfig holds signing configuration for issued tokens.
type TokenConfig struct {
	SecretKey       string
	AccessDuration  time.Duration
	RefreshDuration time.Duration
	Issuer          string
}

// DefaultTokenConfig returns the default token configuration. The secret
// must be overridden via JWT_SECRET_KEY outside local development.
func DefaultTokenConfig() TokenConfig {
	return TokenConfig{
		SecretKey:       "dev-secret-change-in-production",
		AccessDuration:  15 * time.Minute,
		RefreshDuration: 7 * 24 * time.Hour,
		Issuer:          "task-manager",
	}
}

// TokenClaims are the custom claims carried by issued tokens.
type TokenClaims struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Kind     string `json:"token_type"`
	jwt.RegisteredClaims
}

// TokenManager issues and verifies HS256-signed tokens. It is the system's
// Auth Verifier: every API request's token resolves to a user identity here
// or is rejected.
type TokenManager struct {
	config TokenConfig
}

// NewTokenManager creates a new TokenManager.
func NewTokenManager(config TokenConfig) *TokenManager {
	return &TokenManager{config: config}
}

// IssueAccessToken issues a short-lived access token.
func (m *TokenManager) IssueAccessToken(userID, username, email string) (string, error) {
	return m.issue(userID, username, email, tokenKindAccess, m.config.AccessDuration)
}

// IssueRefreshToken issues a long-lived refresh token.
func (m *TokenManager) IssueRefreshToken(userID, username, email string) (string, error) {
	return m.issue(userID, username, email, tokenKindRefresh, m.config.RefreshDuration)
}

func (m *TokenManager) issue(userID, username, email, kind string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := TokenClaims{
		UserID:   userID,
		Username: username,
		Email:    email,
		Kind:     kind,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    m.config.Issuer,
			Subject:   userID,
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(m.config.SecretKey))
}

// VerifyAccessToken verifies an access token and returns its claims.
func (m *TokenManager) VerifyAccessToken(tokenString string) (*TokenClaims, error) {
	return m.verify(tokenString, tokenKindAccess)
}

// VerifyRefreshToken verifies a refresh token and returns its claims.
func (m *TokenManager) VerifyRefreshToken(tokenString string) (*TokenClaims, error) {
	return m.verify(tokenString, tokenKindRefresh)
}

func (m *TokenManager) verify(tokenString, kind string) (*TokenClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &TokenClaims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(m.config.SecretKey), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*TokenClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.Kind != kind {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// AccessTokenTTL returns the access token lifetime in seconds.
func (m *TokenManager) AccessTokenTTL() int64 {
	return int64(m.config.AccessDuration.Seconds())
}
