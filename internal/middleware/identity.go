package middleware

import (
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/medbay/medbay-api/internal/auth"
)

// Identity helpers for handlers running behind a guard. The guard verifies
// the token once and attaches the claims; everything here reads that
// attachment. A missing or unverified token is a definite negative, never
// an error — callers treat it as "ownership denied".

// CallerClaims returns the claims attached by the guard chain.
func CallerClaims(c *gin.Context) (*auth.Claims, bool) {
	v, ok := c.Get(claimsKey)
	if !ok {
		return nil, false
	}
	claims, ok := v.(*auth.Claims)
	return claims, ok
}

// CallerID returns the caller's user id.
func CallerID(c *gin.Context) (primitive.ObjectID, bool) {
	claims, ok := CallerClaims(c)
	if !ok {
		return primitive.NilObjectID, false
	}
	id, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		return primitive.NilObjectID, false
	}
	return id, true
}

// IsAdmin reports whether the caller holds the admin role.
func IsAdmin(c *gin.Context) bool {
	claims, ok := CallerClaims(c)
	return ok && claims.IsAdmin()
}

// IsDoctor reports whether the caller holds the doctor role.
func IsDoctor(c *gin.Context) bool {
	claims, ok := CallerClaims(c)
	return ok && claims.IsDoctor()
}

// IDMatch reports whether the caller owns the given id.
func IDMatch(c *gin.Context, id primitive.ObjectID) bool {
	callerID, ok := CallerID(c)
	return ok && callerID == id
}
