// Package auth issues and checks the bearer tokens that bind a client to the
// quiz session it generated.
package auth

import (
	"errors"
	"fmt"
	"time"

	"quizbot/internal/config"
	"quizbot/internal/logger"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

var (
	ErrInvalidToken    = errors.New("invalid session token")
	ErrSessionMismatch = errors.New("token was issued for a different session")
)

// SessionClaims are the JWT claims of a session token.
type SessionClaims struct {
	SessionID string `json:"sid"`
	jwt.RegisteredClaims
}

// TokenManager signs tokens with HS256.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenManager returns nil when no secret is configured; a nil manager
// disables session ownership checks.
func NewTokenManager(cfg config.AuthConfig) *TokenManager {
	if cfg.Secret == "" {
		return nil
	}
	ttl := cfg.TokenTTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &TokenManager{secret: []byte(cfg.Secret), ttl: ttl, now: time.Now}
}

// Issue returns a signed token for sessionID.
func (m *TokenManager) Issue(sessionID string) (string, error) {
	now := m.now()
	claims := SessionClaims{
		SessionID: sessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Subject:   sessionID,
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
}

// Parse validates the signature and expiry and returns the claims.
func (m *TokenManager) Parse(tokenString string) (*SessionClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return m.secret, nil
	}, jwt.WithTimeFunc(m.now))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			logger.Get().Warn("Session token expired", zap.Error(err))
		} else {
			logger.Get().Warn("Session token validation failed", zap.Error(err))
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*SessionClaims)
	if !ok || !token.Valid || claims.SessionID == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// Authorize checks that tokenString grants access to sessionID.
func (m *TokenManager) Authorize(tokenString, sessionID string) error {
	claims, err := m.Parse(tokenString)
	if err != nil {
		return err
	}
	if claims.SessionID != sessionID {
		return ErrSessionMismatch
	}
	return nil
}
