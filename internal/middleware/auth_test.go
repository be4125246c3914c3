package middleware_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/medbay/medbay-api/internal/auth"
	"github.com/medbay/medbay-api/internal/middleware"
	"github.com/medbay/medbay-api/internal/models"
	"github.com/medbay/medbay-api/internal/services"
	"github.com/medbay/medbay-api/internal/store"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newAudit() *services.AuditLog {
	return services.NewAuditLog(zerolog.Nop())
}

func seedUser(t *testing.T, users store.UserStore, email, password string, role models.Role) *models.User {
	t.Helper()
	hash, err := auth.HashPassword(password)
	require.NoError(t, err)
	u := &models.User{
		Name:     "Test User",
		Email:    email,
		Password: hash,
		IsDoctor: role == models.RoleDoctor,
		IsAdmin:  role == models.RoleAdmin,
		Gender:   models.GenderFemale,
		Phone:    "123",
	}
	require.NoError(t, users.Create(context.Background(), u))
	return u
}

func sessionCookie(t *testing.T, res *http.Response) *http.Cookie {
	t.Helper()
	for _, c := range res.Cookies() {
		if c.Name == middleware.TokenCookie && c.Value != "" {
			return c
		}
	}
	return nil
}

func authenticateRouter(users store.UserStore, tokens *auth.TokenService) (*gin.Engine, *bool) {
	r := gin.New()
	reached := false
	r.POST("/login", middleware.Authenticate(users, tokens, newAudit()), func(c *gin.Context) {
		reached = true
		c.Status(http.StatusOK)
	})
	return r, &reached
}

func TestAuthenticateIssuesToken(t *testing.T) {
	users := store.NewMemoryUserStore()
	tokens := auth.NewTokenService("test-secret")
	user := seedUser(t, users, "a@b.com", "secret1", models.RoleDoctor)

	r, reached := authenticateRouter(users, tokens)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(`{"email":"a@b.com","password":"secret1"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, *reached)

	cookie := sessionCookie(t, w.Result())
	require.NotNil(t, cookie, "expected a session cookie")
	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, int(auth.LoginTokenTTL.Seconds()), cookie.MaxAge)

	claims, err := tokens.Verify(cookie.Value)
	require.NoError(t, err)
	assert.Equal(t, user.ID.Hex(), claims.UserID)
	assert.True(t, claims.IsDoctor())
}

func TestAuthenticateNormalizesEmail(t *testing.T) {
	users := store.NewMemoryUserStore()
	tokens := auth.NewTokenService("test-secret")
	seedUser(t, users, "a@b.com", "secret1", models.RoleDoctor)

	r, _ := authenticateRouter(users, tokens)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(`{"email":"  A@B.CoM ","password":"secret1"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

// Unknown email and wrong password must be indistinguishable to the caller.
func TestAuthenticateGenericFailure(t *testing.T) {
	users := store.NewMemoryUserStore()
	tokens := auth.NewTokenService("test-secret")
	seedUser(t, users, "a@b.com", "secret1", models.RoleDoctor)

	bodies := map[string]string{
		"wrong password": `{"email":"a@b.com","password":"wrong-password"}`,
		"unknown email":  `{"email":"nobody@b.com","password":"secret1"}`,
	}
	var responses []string
	for name, body := range bodies {
		t.Run(name, func(t *testing.T) {
			r, reached := authenticateRouter(users, tokens)
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(body))
			req.Header.Set("Content-Type", "application/json")
			r.ServeHTTP(w, req)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.False(t, *reached, "terminal handler must not run")
			assert.Nil(t, sessionCookie(t, w.Result()), "no token on failure")
			responses = append(responses, w.Body.String())
		})
	}
	require.Len(t, responses, 2)
	assert.Equal(t, responses[0], responses[1], "failure responses must be identical")
}

func TestAuthenticateValidation(t *testing.T) {
	users := store.NewMemoryUserStore()
	tokens := auth.NewTokenService("test-secret")

	tests := []struct {
		name string
		body string
	}{
		{"missing email", `{"password":"secret1"}`},
		{"bad email", `{"email":"not-an-email","password":"secret1"}`},
		{"short password", `{"email":"a@b.com","password":"short"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, reached := authenticateRouter(users, tokens)
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			r.ServeHTTP(w, req)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.False(t, *reached)
		})
	}
}

// A valid token on the request must not substitute for credentials.
func TestAuthenticateIgnoresExistingToken(t *testing.T) {
	users := store.NewMemoryUserStore()
	tokens := auth.NewTokenService("test-secret")
	user := seedUser(t, users, "a@b.com", "secret1", models.RoleDoctor)

	stale, err := tokens.Issue(user.ID.Hex(), models.RoleDoctor, time.Hour)
	require.NoError(t, err)

	r, reached := authenticateRouter(users, tokens)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(`{"email":"a@b.com","password":"wrong-password"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+stale)
	req.AddCookie(&http.Cookie{Name: middleware.TokenCookie, Value: stale})
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.False(t, *reached)
}

func guardedRouter(guard gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.GET("/guarded", guard, func(c *gin.Context) {
		claims, ok := middleware.CallerClaims(c)
		if !ok {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.JSON(http.StatusOK, gin.H{"uid": claims.UserID})
	})
	return r
}

func getGuarded(r *gin.Engine, header, cookie string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/guarded", nil)
	if header != "" {
		req.Header.Set("Authorization", "Bearer "+header)
	}
	if cookie != "" {
		req.AddCookie(&http.Cookie{Name: middleware.TokenCookie, Value: cookie})
	}
	r.ServeHTTP(w, req)
	return w
}

func TestAuthorise(t *testing.T) {
	tokens := auth.NewTokenService("test-secret")
	r := guardedRouter(middleware.Authorise(tokens))

	valid, err := tokens.Issue("abc123", models.RoleDoctor, time.Hour)
	require.NoError(t, err)
	expired, err := tokens.Issue("abc123", models.RoleDoctor, -time.Minute)
	require.NoError(t, err)
	foreign, err := auth.NewTokenService("other-secret").Issue("abc123", models.RoleDoctor, time.Hour)
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
		cookie string
		want   int
	}{
		{"no token", "", "", http.StatusUnauthorized},
		{"valid header", valid, "", http.StatusOK},
		{"valid cookie", "", valid, http.StatusOK},
		{"expired", expired, "", http.StatusUnauthorized},
		{"wrong signature", foreign, "", http.StatusUnauthorized},
		{"malformed", "garbage", "", http.StatusUnauthorized},
		{"header preferred over cookie", "garbage", valid, http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := getGuarded(r, tt.header, tt.cookie)
			assert.Equal(t, tt.want, w.Code)
		})
	}
}

func TestRoleGates(t *testing.T) {
	tokens := auth.NewTokenService("test-secret")

	adminTok, err := tokens.Issue("admin1", models.RoleAdmin, time.Hour)
	require.NoError(t, err)
	doctorTok, err := tokens.Issue("doctor1", models.RoleDoctor, time.Hour)
	require.NoError(t, err)
	unendorsedTok, err := tokens.Issue("newbie1", models.RoleUnendorsed, time.Hour)
	require.NoError(t, err)
	expiredAdmin, err := tokens.Issue("admin1", models.RoleAdmin, -time.Minute)
	require.NoError(t, err)

	adminGate := guardedRouter(middleware.AdminOnly(tokens))
	doctorGate := guardedRouter(middleware.DoctorOnly(tokens))

	tests := []struct {
		name  string
		gate  *gin.Engine
		token string
		want  int
	}{
		{"admin passes admin gate", adminGate, adminTok, http.StatusOK},
		{"doctor fails admin gate", adminGate, doctorTok, http.StatusForbidden},
		{"unendorsed fails admin gate", adminGate, unendorsedTok, http.StatusForbidden},
		{"doctor passes doctor gate", doctorGate, doctorTok, http.StatusOK},
		{"admin fails doctor gate", doctorGate, adminTok, http.StatusForbidden},
		{"unendorsed fails doctor gate", doctorGate, unendorsedTok, http.StatusForbidden},
		{"missing token is 401", adminGate, "", http.StatusUnauthorized},
		{"expired token is 401 at every gate", doctorGate, expiredAdmin, http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := getGuarded(tt.gate, tt.token, "")
			assert.Equal(t, tt.want, w.Code)
		})
	}
}

func TestIdentityHelpers(t *testing.T) {
	tokens := auth.NewTokenService("test-secret")
	ownerID := primitive.NewObjectID()
	otherID := primitive.NewObjectID()

	token, err := tokens.Issue(ownerID.Hex(), models.RoleDoctor, time.Hour)
	require.NoError(t, err)

	r := gin.New()
	r.GET("/check", middleware.Authorise(tokens), func(c *gin.Context) {
		callerID, ok := middleware.CallerID(c)
		assert.True(t, ok)
		assert.Equal(t, ownerID, callerID)

		assert.True(t, middleware.IDMatch(c, ownerID))
		assert.False(t, middleware.IDMatch(c, otherID))
		assert.True(t, middleware.IsDoctor(c))
		assert.False(t, middleware.IsAdmin(c))
		c.Status(http.StatusOK)
	})

	w := getGuardedPath(r, "/check", token)
	assert.Equal(t, http.StatusOK, w.Code)
}

// Without a guard there are no attached claims; helpers answer with a
// definite negative rather than an error.
func TestIdentityHelpersWithoutGuard(t *testing.T) {
	r := gin.New()
	r.GET("/check", func(c *gin.Context) {
		_, ok := middleware.CallerClaims(c)
		assert.False(t, ok)
		_, ok = middleware.CallerID(c)
		assert.False(t, ok)
		assert.False(t, middleware.IsAdmin(c))
		assert.False(t, middleware.IsDoctor(c))
		assert.False(t, middleware.IDMatch(c, primitive.NewObjectID()))
		c.Status(http.StatusOK)
	})

	w := getGuardedPath(r, "/check", "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func getGuardedPath(r *gin.Engine, path, token string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	r.ServeHTTP(w, req)
	return w
}
