package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/medbay/medbay-api/internal/auth"
	"github.com/medbay/medbay-api/internal/models"
	"github.com/medbay/medbay-api/internal/services"
	"github.com/medbay/medbay-api/internal/store"
)

// TokenCookie is the session cookie name. The Authorization header takes
// precedence over the cookie when both are present.
const TokenCookie = "token"

const claimsKey = "claims"

func tokenFromRequest(c *gin.Context) string {
	if h := c.GetHeader("Authorization"); h != "" {
		return strings.TrimPrefix(h, "Bearer ")
	}
	if tok, err := c.Cookie(TokenCookie); err == nil {
		return tok
	}
	return ""
}

type loginRequest struct {
	Email    string `json:"email" form:"email" binding:"required"`
	Password string `json:"password" form:"password" binding:"required,min=6"`
}

var validate = validator.New()

// NormalizeEmail lowercases and trims an address the way the store keys it.
// Format is checked after normalization so padded input still authenticates.
func NormalizeEmail(raw string) (string, bool) {
	email := strings.ToLower(strings.TrimSpace(raw))
	return email, validate.Var(email, "email") == nil
}

// FirstValidationError reports the first violated field of a binding error.
func FirstValidationError(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return fmt.Sprintf("%s is missing or invalid", strings.ToLower(verrs[0].Field()))
	}
	return "invalid input"
}

// Authenticate verifies email/password credentials and issues a session
// token before handing off to the terminal handler. Any token already on
// the request is discarded first so stale credentials never satisfy this
// guard. Lookup miss and password mismatch return the same generic message.
func Authenticate(users store.UserStore, tokens *auth.TokenService, audit *services.AuditLog) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Header.Del("Authorization")
		c.SetCookie(TokenCookie, "", -1, "/", "", false, true)

		var req loginRequest
		if err := c.ShouldBind(&req); err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
				"message": FirstValidationError(err),
				"error":   "validation failed",
			})
			return
		}
		email, ok := NormalizeEmail(req.Email)
		if !ok {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
				"message": "email is missing or invalid",
				"error":   "validation failed",
			})
			return
		}

		user, err := users.FindByEmail(c.Request.Context(), email)
		if errors.Is(err, store.ErrNotFound) {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
				"message": "invalid credentials",
				"error":   "invalid credentials",
			})
			return
		}
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"message": "server error",
				"error":   err.Error(),
			})
			return
		}
		if !auth.CheckPasswordHash(req.Password, user.Password) {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
				"message": "invalid credentials",
				"error":   "invalid credentials",
			})
			return
		}

		token, err := tokens.Issue(user.ID.Hex(), user.Role(), auth.LoginTokenTTL)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"message": "server error",
				"error":   err.Error(),
			})
			return
		}

		c.SetCookie(TokenCookie, token, int(auth.LoginTokenTTL.Seconds()), "/", "", false, true)
		audit.Record(c.Request.Context(), "login", user.ID.Hex(), user.Email)
		c.Next()
	}
}

// Authorise admits any request carrying a valid token and attaches the
// verified claims to the request context. Expired, invalid and malformed
// tokens all yield the same 401.
func Authorise(tokens *auth.TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := verifyRequest(c, tokens)
		if !ok {
			return
		}
		c.Set(claimsKey, claims)
		c.Next()
	}
}

// AdminOnly admits only tokens carrying the admin role.
func AdminOnly(tokens *auth.TokenService) gin.HandlerFunc {
	return requireRole(tokens, models.RoleAdmin, "only admins can perform this action")
}

// DoctorOnly admits only tokens carrying the doctor role. Unendorsed
// accounts and admins are both refused.
func DoctorOnly(tokens *auth.TokenService) gin.HandlerFunc {
	return requireRole(tokens, models.RoleDoctor, "only doctors can perform this action")
}

func requireRole(tokens *auth.TokenService, role models.Role, denied string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := verifyRequest(c, tokens)
		if !ok {
			return
		}
		if claims.Role != role {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"message": "unauthorised",
				"error":   denied,
			})
			return
		}
		c.Set(claimsKey, claims)
		c.Next()
	}
}

func verifyRequest(c *gin.Context, tokens *auth.TokenService) (*auth.Claims, bool) {
	token := tokenFromRequest(c)
	if token == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"message": "unauthorised",
			"error":   "please login",
		})
		return nil, false
	}
	claims, err := tokens.Verify(token)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"message": "unauthorised",
			"error":   "please login",
		})
		return nil, false
	}
	return claims, true
}
