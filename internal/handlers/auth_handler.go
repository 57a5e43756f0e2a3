package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/lawnmate-api/internal/auth"
	"github.com/BruksfildServices01/lawnmate-api/internal/httperr"
	"github.com/BruksfildServices01/lawnmate-api/internal/middleware"
	"github.com/BruksfildServices01/lawnmate-api/internal/models"
	"github.com/BruksfildServices01/lawnmate-api/internal/validators"
)

type AuthHandler struct {
	db     *gorm.DB
	tokens *auth.TokenService
}

func NewAuthHandler(db *gorm.DB, tokens *auth.TokenService) *AuthHandler {
	return &AuthHandler{db: db, tokens: tokens}
}

// --------- Requests ---------

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// --------- Handlers ---------

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if !bindOptionalJSON(c, &req) {
		return
	}

	email := validators.NormalizeEmail(req.Email)
	if email == "" || req.Password == "" {
		httperr.BadRequest(c, "missing_credentials", "Email and password required")
		return
	}

	var emp models.Employee
	if err := h.db.WithContext(c.Request.Context()).
		Where("email = ?", email).
		First(&emp).Error; err != nil {

		if httperr.IsNotFound(err) {
			httperr.Unauthorized(c, "bad_email", "Bad email")
			return
		}
		writeError(c, err, "login_failed")
		return
	}

	if !auth.CheckPassword(emp.PasswordHash, req.Password) {
		httperr.Unauthorized(c, "bad_password", "Bad password")
		return
	}

	pair, err := h.tokens.IssuePair(auth.Employee{ID: emp.ID, Role: auth.Role(emp.Role)})
	if err != nil {
		writeError(c, err, "failed_to_generate_token")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"access_token":  pair.AccessToken,
		"refresh_token": pair.RefreshToken,
		"employee":      emp,
	})
}

// Refresh works for employee and customer refresh tokens alike.
func (h *AuthHandler) Refresh(c *gin.Context) {
	token, ok := refreshTokenFrom(c)
	if !ok {
		return
	}

	access, _, err := h.tokens.Refresh(c.Request.Context(), token)
	if err != nil {
		writeTokenError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"access_token": access})
}

func (h *AuthHandler) Logout(c *gin.Context) {
	token, ok := refreshTokenFrom(c)
	if !ok {
		return
	}

	claims, err := h.tokens.ParseRefresh(c.Request.Context(), token)
	if err != nil {
		writeTokenError(c, err)
		return
	}
	if err := h.tokens.Revoke(c.Request.Context(), claims); err != nil {
		writeError(c, err, "logout_failed")
		return
	}

	c.JSON(http.StatusOK, gin.H{"msg": "Logged out"})
}

func (h *AuthHandler) Me(c *gin.Context) {
	emp := middleware.CurrentEmployee(c)

	row, ok := findByID[models.Employee](c, h.db, emp.ID, "employee_not_found", "Employee not found")
	if !ok {
		return
	}
	c.JSON(http.StatusOK, row)
}

// --------- Helpers ---------

// refreshTokenFrom reads the bearer header first, then the JSON body.
func refreshTokenFrom(c *gin.Context) (string, bool) {
	token, err := middleware.BearerToken(c)
	if err == nil {
		return token, true
	}
	if !errors.Is(err, middleware.ErrMissingBearer) {
		httperr.Unauthorized(c, "invalid_authorization_header", "Expected 'Authorization: Bearer <token>'")
		return "", false
	}

	var req RefreshRequest
	if !bindOptionalJSON(c, &req) {
		return "", false
	}
	if strings.TrimSpace(req.RefreshToken) == "" {
		httperr.Unauthorized(c, "missing_token", "Missing refresh token")
		return "", false
	}
	return strings.TrimSpace(req.RefreshToken), true
}

func writeTokenError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, auth.ErrTokenExpired):
		httperr.Unauthorized(c, "token_expired", "Token has expired")
	case errors.Is(err, auth.ErrWrongTokenType):
		httperr.Unauthorized(c, "refresh_token_required", "Only refresh tokens are allowed")
	case errors.Is(err, auth.ErrTokenRevoked):
		httperr.Unauthorized(c, "token_revoked", "Token has been revoked")
	case errors.Is(err, auth.ErrTokenInvalid):
		httperr.Unauthorized(c, "invalid_token", "Invalid token")
	default:
		writeError(c, err, "token_check_failed")
	}
}
