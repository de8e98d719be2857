package service

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"shespeaks/internal/config"
	"shespeaks/internal/model"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrInvalidToken       = errors.New("invalid or expired token")
)

// AuthService handles dashboard admin authentication
type AuthService struct {
	hostUsername string
	hostPassword string
	jwtSecret    []byte
	tokenTTL     time.Duration
	now          func() time.Time
}

// NewAuthService creates a new auth service
func NewAuthService(cfg config.AuthConfig) *AuthService {
	return &AuthService{
		hostUsername: cfg.HostUsername,
		hostPassword: cfg.HostPassword,
		jwtSecret:    []byte(cfg.JWTSecret),
		tokenTTL:     cfg.TokenTTL,
		now:          time.Now,
	}
}

// Login validates credentials and returns a token for the refresh and export
// endpoints
func (s *AuthService) Login(username, password string) (*model.LoginResponse, error) {
	if username != s.hostUsername || password != s.hostPassword {
		return nil, ErrInvalidCredentials
	}

	hostID := "host_" + uuid.New().String()[:8]
	now := s.now()
	expires := now.Add(s.tokenTTL)

	claims := &model.HostClaims{
		HostID: hostID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return nil, err
	}

	return &model.LoginResponse{
		Token:     tokenString,
		HostID:    hostID,
		ExpiresAt: expires.Unix(),
	}, nil
}

// ValidateHostToken validates a host JWT and returns claims
func (s *AuthService) ValidateHostToken(tokenString string) (*model.HostClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &model.HostClaims{}, func(token *jwt.Token) (interface{}, error) {
		return s.jwtSecret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.now))
	if err != nil {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*model.HostClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
