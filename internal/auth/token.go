package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/medbay/medbay-api/internal/models"
)

// Token verification failures, in order of specificity. Gates collapse all
// three into a single 401 so callers cannot probe which check failed.
var (
	ErrTokenMalformed = errors.New("malformed token")
	ErrTokenExpired   = errors.New("expired token")
	ErrTokenInvalid   = errors.New("invalid token")
)

// Token lifetimes. Signup issues a shorter session than login.
const (
	LoginTokenTTL  = 3 * time.Hour
	SignupTokenTTL = 2 * time.Hour
)

// Claims is the decoded payload of a session token. The role is fixed at
// issue time; endorsing or deleting the account later does not touch tokens
// already in the wild — they stay valid until they expire.
type Claims struct {
	UserID string      `json:"uid"`
	Role   models.Role `json:"role"`
	jwt.RegisteredClaims
}

func (c *Claims) IsAdmin() bool  { return c.Role == models.RoleAdmin }
func (c *Claims) IsDoctor() bool { return c.Role == models.RoleDoctor }

// TokenService signs and verifies session tokens with a process-wide secret
// handed in at construction. There is no session table and no revocation.
type TokenService struct {
	secret []byte
}

func NewTokenService(secret string) *TokenService {
	return &TokenService{secret: []byte(secret)}
}

// Issue creates a signed HS256 token for the given account.
func (s *TokenService) Issue(userID string, role models.Role, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := &Claims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// Verify checks signature and expiry and returns the embedded claims.
// Claims are not cross-checked against the user store.
func (s *TokenService) Verify(tokenStr string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		// block alg confusion
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrTokenInvalid
		}
		return s.secret, nil
	})
	switch {
	case errors.Is(err, jwt.ErrTokenMalformed):
		return nil, ErrTokenMalformed
	case errors.Is(err, jwt.ErrTokenExpired):
		return nil, ErrTokenExpired
	case err != nil:
		return nil, ErrTokenInvalid
	}
	if !token.Valid {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}
