package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medbay/medbay-api/internal/models"
)

func TestIssueAndVerify(t *testing.T) {
	svc := NewTokenService("test-secret")

	token, err := svc.Issue("abc123", models.RoleDoctor, LoginTokenTTL)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "abc123", claims.UserID)
	assert.Equal(t, models.RoleDoctor, claims.Role)
	assert.True(t, claims.IsDoctor())
	assert.False(t, claims.IsAdmin())
	assert.WithinDuration(t, time.Now().Add(LoginTokenTTL), claims.ExpiresAt.Time, time.Minute)
}

func TestVerifyRoleClaims(t *testing.T) {
	svc := NewTokenService("test-secret")

	tests := []struct {
		role     models.Role
		isAdmin  bool
		isDoctor bool
	}{
		{models.RoleAdmin, true, false},
		{models.RoleDoctor, false, true},
		{models.RoleUnendorsed, false, false},
	}
	for _, tt := range tests {
		t.Run(string(tt.role), func(t *testing.T) {
			token, err := svc.Issue("id", tt.role, time.Hour)
			require.NoError(t, err)
			claims, err := svc.Verify(token)
			require.NoError(t, err)
			assert.Equal(t, tt.isAdmin, claims.IsAdmin())
			assert.Equal(t, tt.isDoctor, claims.IsDoctor())
		})
	}
}

func TestVerifyExpired(t *testing.T) {
	svc := NewTokenService("test-secret")

	token, err := svc.Issue("abc123", models.RoleDoctor, -time.Minute)
	require.NoError(t, err)

	_, err = svc.Verify(token)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestVerifyWrongSecret(t *testing.T) {
	token, err := NewTokenService("secret-a").Issue("abc123", models.RoleDoctor, time.Hour)
	require.NoError(t, err)

	_, err = NewTokenService("secret-b").Verify(token)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestVerifyMalformed(t *testing.T) {
	svc := NewTokenService("test-secret")

	_, err := svc.Verify("not-a-token")
	assert.ErrorIs(t, err, ErrTokenMalformed)
}

func TestVerifyRejectsUnsignedToken(t *testing.T) {
	svc := NewTokenService("test-secret")

	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{
		UserID: "abc123",
		Role:   models.RoleAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	token, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = svc.Verify(token)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

// Verification never consults the store: a token keeps the role it was
// issued with even if the account changes afterwards.
func TestVerifyClaimsAreFrozenAtIssueTime(t *testing.T) {
	svc := NewTokenService("test-secret")

	before, err := svc.Issue("abc123", models.RoleUnendorsed, time.Hour)
	require.NoError(t, err)
	after, err := svc.Issue("abc123", models.RoleDoctor, time.Hour)
	require.NoError(t, err)

	beforeClaims, err := svc.Verify(before)
	require.NoError(t, err)
	afterClaims, err := svc.Verify(after)
	require.NoError(t, err)

	assert.False(t, beforeClaims.IsDoctor())
	assert.True(t, afterClaims.IsDoctor())
}
