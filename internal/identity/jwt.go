package identity

import (
	"context"
	"fmt"
	"time"

	"github.com/mhmasum1/digital-life-lessons-server/internal/common"
	"github.com/mhmasum1/digital-life-lessons-server/internal/config"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

const tokenIssuer = "digital-life-lessons-server"

// Claims is the payload of self-issued tokens.
type Claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// JWTService issues and verifies HS256 tokens signed with JWT_SECRET_KEY.
type JWTService struct {
	secret []byte
	expiry time.Duration
	logger *zap.Logger
	now    func() time.Time
}

// NewJWTService creates a new JWT service.
func NewJWTService(cfg *config.Config, logger *zap.Logger) *JWTService {
	expiry := cfg.JWTAccessTokenExpiry
	if expiry <= 0 {
		expiry = 7 * 24 * time.Hour
	}
	return &JWTService{
		secret: []byte(cfg.JWTSecretKey),
		expiry: expiry,
		logger: logger.Named("jwt"),
		now:    time.Now,
	}
}

// Issue signs a token for email. Callers must have confirmed the user exists.
func (s *JWTService) Issue(email string) (string, time.Time, error) {
	if len(s.secret) == 0 {
		return "", time.Time{}, fmt.Errorf("jwt secret is not configured")
	}
	now := s.now()
	expiresAt := now.Add(s.expiry)
	email = common.NormalizeEmail(email)

	claims := &Claims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    tokenIssuer,
			Subject:   email,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.secret)
	if err != nil {
		s.logger.Error("Failed to sign access token", zap.Error(err))
		return "", time.Time{}, fmt.Errorf("could not sign access token: %w", err)
	}
	return tokenString, expiresAt, nil
}

// Verify validates a self-issued token.
func (s *JWTService) Verify(_ context.Context, tokenString string) (*Principal, error) {
	if tokenString == "" || len(s.secret) == 0 {
		return nil, ErrInvalidToken
	}
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !token.Valid {
		s.logger.Debug("Token validation failed", zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if claims.Email == "" {
		return nil, ErrInvalidToken
	}
	return &Principal{Email: claims.Email, Subject: claims.Subject}, nil
}
