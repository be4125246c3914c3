package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/medbay/medbay-api/internal/auth"
	"github.com/medbay/medbay-api/internal/middleware"
	"github.com/medbay/medbay-api/internal/store"
)

type adminSignupRequest struct {
	signupRequest
	AdminKey string `json:"adminKey" form:"adminKey" binding:"required"`
}

// RegisterAdmin creates an admin account. The request must carry the shared
// registration key; a mismatch gets the same generic message as a bad login
// so the key cannot be probed.
func (h *Handler) RegisterAdmin(c *gin.Context) {
	var req adminSignupRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"message": middleware.FirstValidationError(err),
			"error":   "invalid input",
		})
		return
	}
	if req.AdminKey != h.AdminKey {
		c.JSON(http.StatusBadRequest, gin.H{
			"message": "cannot register admin",
			"error":   "invalid credentials",
		})
		return
	}

	user, err := h.createUser(c, req.signupRequest, true)
	if err != nil {
		return
	}

	token, err := h.Tokens.Issue(user.ID.Hex(), user.Role(), auth.SignupTokenTTL)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "server error", "error": err.Error()})
		return
	}
	c.SetCookie(middleware.TokenCookie, token, int(auth.SignupTokenTTL.Seconds()), "/", "", false, true)
	h.Audit.Record(c.Request.Context(), "admin_signup", user.ID.Hex(), user.Email)
	c.Redirect(http.StatusFound, "/admin/va/dashboard")
}

// AdminLogin is the terminal handler behind the Authenticate guard.
func (h *Handler) AdminLogin(c *gin.Context) {
	c.Redirect(http.StatusFound, "/admin/va/dashboard")
}

func (h *Handler) AdminDashboard(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message":  "welcome",
		"docName":  "Admin",
		"activity": h.Audit.Recent(),
	})
}

func (h *Handler) AdminProfile(c *gin.Context) {
	h.profile(c)
}

func (h *Handler) UpdateAdmin(c *gin.Context) {
	h.updateProfile(c, "/admin/va/profile")
}

type emailRequest struct {
	Email string `json:"email" form:"email" binding:"required"`
}

// EndorseDoctor promotes an account's doctor flag, exactly once. Tokens
// issued before the endorsement keep their old role until refreshed.
func (h *Handler) EndorseDoctor(c *gin.Context) {
	var req emailRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"message": middleware.FirstValidationError(err),
			"error":   "invalid input",
		})
		return
	}
	email, ok := middleware.NormalizeEmail(req.Email)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"message": "email is missing or invalid", "error": "invalid input"})
		return
	}

	doc, err := h.Users.FindByEmail(c.Request.Context(), email)
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusBadRequest, gin.H{"message": "cross check email", "error": "user not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "server error", "error": err.Error()})
		return
	}

	if err := h.Users.Endorse(c.Request.Context(), doc.ID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "server error", "error": err.Error()})
		return
	}
	doc.IsDoctor = true

	actor := ""
	if claims, ok := middleware.CallerClaims(c); ok {
		actor = claims.UserID
	}
	h.Audit.Record(c.Request.Context(), "doctor_endorsed", actor, doc.Email)

	c.JSON(http.StatusOK, gin.H{
		"message": "Doctor " + doc.Name + " has been endorsed",
		"data":    doc,
	})
}

// DeleteDoctor removes a doctor account by email. Admin accounts cannot be
// deleted through this path.
func (h *Handler) DeleteDoctor(c *gin.Context) {
	var req emailRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"message": middleware.FirstValidationError(err),
			"error":   "invalid input",
		})
		return
	}
	email, ok := middleware.NormalizeEmail(req.Email)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"message": "email is missing or invalid", "error": "invalid input"})
		return
	}

	doc, err := h.Users.FindByEmail(c.Request.Context(), email)
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusBadRequest, gin.H{"message": "cross check email", "error": "user not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "server error", "error": err.Error()})
		return
	}
	if doc.IsAdmin {
		c.JSON(http.StatusBadRequest, gin.H{"message": "cannot delete admin", "error": "invalid credentials"})
		return
	}

	if err := h.Users.Delete(c.Request.Context(), doc.ID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "server error", "error": err.Error()})
		return
	}

	actor := ""
	if claims, ok := middleware.CallerClaims(c); ok {
		actor = claims.UserID
	}
	h.Audit.Record(c.Request.Context(), "doctor_deleted", actor, doc.Email)

	c.JSON(http.StatusOK, gin.H{"message": "success", "data": "deleted"})
}
