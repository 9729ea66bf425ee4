// FILE: internal/service/auth_service.go
package service

import (
	"context"
	"errors"
	"os"
	"time"

	"workalone-be/internal/dto"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// IAuthService guards the ops dashboard. There is a single operator account
// configured by environment; users and contacts never log in, they only
// ever talk to the engine over SMS.
type IAuthService interface {
	LoginOps(ctx context.Context, req *dto.OpsLoginRequest) (*dto.OpsLoginResponse, error)
}

type authService struct {
	opsUsername     string
	opsPasswordHash string
	tokenTTL        time.Duration
}

func NewAuthService(opsUsername, opsPasswordHash string) IAuthService {
	return &authService{
		opsUsername:     opsUsername,
		opsPasswordHash: opsPasswordHash,
		tokenTTL:        12 * time.Hour,
	}
}

func (s *authService) LoginOps(ctx context.Context, req *dto.OpsLoginRequest) (*dto.OpsLoginResponse, error) {
	if s.opsUsername == "" || s.opsPasswordHash == "" {
		return nil, errors.New("ops login is not configured")
	}
	if req.Username != s.opsUsername {
		return nil, errors.New("invalid credentials")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(s.opsPasswordHash), []byte(req.Password)); err != nil {
		return nil, errors.New("invalid credentials")
	}

	expiresAt := time.Now().Add(s.tokenTTL)
	claims := jwt.MapClaims{
		"sub":  req.Username,
		"role": "ops",
		"exp":  expiresAt.Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		secret = "default_secret"
	}
	signedToken, err := token.SignedString([]byte(secret))
	if err != nil {
		return nil, err
	}

	return &dto.OpsLoginResponse{
		Token:     signedToken,
		ExpiresAt: expiresAt,
	}, nil
}
