package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/medbay/medbay-api/internal/auth"
	"github.com/medbay/medbay-api/internal/middleware"
	"github.com/medbay/medbay-api/internal/models"
	"github.com/medbay/medbay-api/internal/store"
)

type signupRequest struct {
	Name           string `json:"name" form:"name" binding:"required"`
	Email          string `json:"email" form:"email" binding:"required"`
	Password       string `json:"password" form:"password" binding:"required,min=6"`
	Specialization string `json:"specialization" form:"specialization"`
	Gender         string `json:"gender" form:"gender" binding:"required,oneof=M F O"`
	Phone          string `json:"phone" form:"phone" binding:"required"`
}

// RegisterDoctor creates an unendorsed doctor account and starts a session.
// The account cannot touch reports until an admin endorses it.
func (h *Handler) RegisterDoctor(c *gin.Context) {
	var req signupRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"message": middleware.FirstValidationError(err),
			"error":   "invalid input",
		})
		return
	}

	user, err := h.createUser(c, req, false)
	if err != nil {
		return
	}

	token, err := h.Tokens.Issue(user.ID.Hex(), user.Role(), auth.SignupTokenTTL)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "server error", "error": err.Error()})
		return
	}
	c.SetCookie(middleware.TokenCookie, token, int(auth.SignupTokenTTL.Seconds()), "/", "", false, true)
	h.Audit.Record(c.Request.Context(), "doctor_signup", user.ID.Hex(), user.Email)
	c.Redirect(http.StatusFound, "/users/v/dashboard")
}

// createUser hashes the password and inserts the account. It writes the
// error response itself and returns a nil user on failure.
func (h *Handler) createUser(c *gin.Context, req signupRequest, isAdmin bool) (*models.User, error) {
	email, ok := middleware.NormalizeEmail(req.Email)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{
			"message": "email is missing or invalid",
			"error":   "invalid input",
		})
		return nil, errors.New("invalid email")
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "server error", "error": err.Error()})
		return nil, err
	}

	specialization := req.Specialization
	if specialization == "" {
		specialization = "N/A"
	}

	user := &models.User{
		Name:           req.Name,
		Email:          email,
		Password:       hash,
		IsDoctor:       false,
		IsAdmin:        isAdmin,
		Specialization: specialization,
		Gender:         req.Gender,
		Phone:          req.Phone,
	}
	if err := h.Users.Create(c.Request.Context(), user); err != nil {
		if errors.Is(err, store.ErrDuplicateEmail) {
			c.JSON(http.StatusConflict, gin.H{
				"message": "an account with this email already exists",
				"error":   "duplicate email",
			})
			return nil, err
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": "server error", "error": err.Error()})
		return nil, err
	}
	return user, nil
}

// DoctorLogin is the terminal handler behind the Authenticate guard.
func (h *Handler) DoctorLogin(c *gin.Context) {
	c.Redirect(http.StatusFound, "/users/v/dashboard")
}

func (h *Handler) DoctorDashboard(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "welcome", "docName": h.doctorName(c)})
}

// doctorName resolves the caller's display name, falling back to "Doctor"
// when the account is gone or no identity is attached.
func (h *Handler) doctorName(c *gin.Context) string {
	id, ok := middleware.CallerID(c)
	if !ok {
		return "Doctor"
	}
	user, err := h.Users.FindByID(c.Request.Context(), id)
	if err != nil {
		return "Doctor"
	}
	return user.Name
}

func (h *Handler) DoctorProfile(c *gin.Context) {
	h.profile(c)
}

func (h *Handler) profile(c *gin.Context) {
	id, ok := middleware.CallerID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "unauthorised", "error": "please login"})
		return
	}
	user, err := h.Users.FindByID(c.Request.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"message": "user not found", "error": "try logging in"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "server error", "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": user})
}

type profileUpdateRequest struct {
	Name           string `json:"name" form:"name"`
	Phone          string `json:"phone" form:"phone"`
	Specialization string `json:"specialization" form:"specialization"`
}

func (h *Handler) UpdateDoctor(c *gin.Context) {
	h.updateProfile(c, "/users/v/profile")
}

// updateProfile applies a partial update of the mutable profile fields.
// Email, password and the role flags are never updatable here.
func (h *Handler) updateProfile(c *gin.Context, redirect string) {
	id, ok := middleware.CallerID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "unauthorised", "error": "please login"})
		return
	}

	var req profileUpdateRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid input", "error": err.Error()})
		return
	}

	err := h.Users.Update(c.Request.Context(), id, store.UserUpdate{
		Name:           req.Name,
		Phone:          req.Phone,
		Specialization: req.Specialization,
	})
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"message": "user not found", "error": "try logging in"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "server error", "error": err.Error()})
		return
	}
	c.Redirect(http.StatusFound, redirect)
}

// Logout clears the session cookie. The token itself stays valid until it
// expires; there is no server-side revocation.
func (h *Handler) Logout(c *gin.Context) {
	c.SetCookie(middleware.TokenCookie, "", -1, "/", "", false, true)
	c.Redirect(http.StatusFound, "/")
}
