package service

import (
	"testing"
	"time"

	"pharmaflow/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestTokenRoundTrip(t *testing.T) {
	svc := NewAuthService(nil, "test-secret", time.Hour)

	token, err := svc.issueToken(&models.Employee{Username: "alice", Role: models.RoleAdmin})
	require.NoError(t, err)

	username, role, err := svc.VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, "alice", username)
	assert.Equal(t, models.RoleAdmin, role)
}

func TestVerifyTokenRejectsWrongSecret(t *testing.T) {
	issuer := NewAuthService(nil, "secret-a", time.Hour)
	verifier := NewAuthService(nil, "secret-b", time.Hour)

	token, err := issuer.issueToken(&models.Employee{Username: "alice", Role: models.RolePharmacist})
	require.NoError(t, err)

	_, _, err = verifier.VerifyToken(token)
	assert.Error(t, err)
}

func TestVerifyTokenRejectsExpired(t *testing.T) {
	svc := NewAuthService(nil, "test-secret", -time.Minute)

	token, err := svc.issueToken(&models.Employee{Username: "alice", Role: models.RolePharmacist})
	require.NoError(t, err)

	_, _, err = svc.VerifyToken(token)
	assert.Error(t, err)
}

func TestVerifyTokenRejectsGarbage(t *testing.T) {
	svc := NewAuthService(nil, "test-secret", time.Hour)

	_, _, err := svc.VerifyToken("not-a-token")
	assert.Error(t, err)
}

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("s3cret")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret", hash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte("s3cret")))
	assert.Error(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte("wrong")))
}
