package service

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"

	"workalone-be/internal/dto"
)

func TestLoginOpsIssuesToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-signing-secret")

	hash, err := bcrypt.GenerateFromPassword([]byte("ops-secret-pw"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	svc := NewAuthService("operator", string(hash))

	res, err := svc.LoginOps(context.Background(), &dto.OpsLoginRequest{
		Username: "operator",
		Password: "ops-secret-pw",
	})
	assert.NoError(t, err)
	if !assert.NotNil(t, res) {
		return
	}
	assert.WithinDuration(t, time.Now().Add(12*time.Hour), res.ExpiresAt, time.Minute)

	token, err := jwt.Parse(res.Token, func(tok *jwt.Token) (interface{}, error) {
		return []byte("test-signing-secret"), nil
	})
	assert.NoError(t, err)
	assert.True(t, token.Valid)

	claims, ok := token.Claims.(jwt.MapClaims)
	if assert.True(t, ok) {
		assert.Equal(t, "operator", claims["sub"])
		assert.Equal(t, "ops", claims["role"])
	}
}

func TestLoginOpsRejectsBadCredentials(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("ops-secret-pw"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	svc := NewAuthService("operator", string(hash))

	_, err = svc.LoginOps(context.Background(), &dto.OpsLoginRequest{
		Username: "operator",
		Password: "wrong",
	})
	assert.EqualError(t, err, "invalid credentials")

	_, err = svc.LoginOps(context.Background(), &dto.OpsLoginRequest{
		Username: "intruder",
		Password: "ops-secret-pw",
	})
	assert.EqualError(t, err, "invalid credentials")
}

func TestLoginOpsRequiresConfiguration(t *testing.T) {
	svc := NewAuthService("", "")

	_, err := svc.LoginOps(context.Background(), &dto.OpsLoginRequest{
		Username: "operator",
		Password: "anything",
	})
	assert.EqualError(t, err, "ops login is not configured")
}
