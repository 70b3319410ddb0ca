package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/authguard/internal/application"
	"github.com/oksasatya/authguard/internal/application/command"
	"github.com/oksasatya/authguard/internal/domain"
	"github.com/oksasatya/authguard/pkg/response"
	"github.com/oksasatya/authguard/pkg/validation"
)

// AuthHandler translates HTTP requests into dispatcher operations.
// All domain decisions live below; this layer only binds, maps errors
// to status codes, and shapes the envelope.
type AuthHandler struct {
	Dispatcher *application.Dispatcher
	Logger     *logrus.Logger
}

func NewAuthHandler(d *application.Dispatcher, logger *logrus.Logger) *AuthHandler {
	return &AuthHandler{Dispatcher: d, Logger: logger}
}

type registerRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,pwd"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type validateRequest struct {
	Token string `json:"token" binding:"required"`
}

func clientIP(c *gin.Context) string {
	if ip := c.GetString("real_ip"); ip != "" {
		return ip
	}
	return c.ClientIP()
}

func bearerToken(c *gin.Context) string {
	h := c.GetHeader("Authorization")
	if strings.HasPrefix(h, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
	}
	return ""
}

// Register POST /api/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		resp := response.Error[any](c, http.StatusUnprocessableEntity, "validation failed", validation.ToDetails(err))
		c.JSON(resp.Status, resp)
		return
	}

	result, err := h.Dispatcher.RegisterUser(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.fail(c, err, "registration failed")
		return
	}

	resp := response.Success(c, http.StatusCreated, gin.H{
		"user_id": result.UserID,
		"email":   result.Email,
	}, "user created")
	c.JSON(resp.Status, resp)
}

// Login POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		resp := response.Error[any](c, http.StatusUnprocessableEntity, "validation failed", validation.ToDetails(err))
		c.JSON(resp.Status, resp)
		return
	}

	result, err := h.Dispatcher.LoginUser(c.Request.Context(), command.LoginInput{
		Email:     req.Email,
		Password:  req.Password,
		IP:        clientIP(c),
		UserAgent: c.GetHeader("User-Agent"),
	})
	if err != nil {
		h.fail(c, err, "login failed")
		return
	}

	resp := response.Success(c, http.StatusOK, gin.H{
		"access_token": result.Token,
		"token_type":   "bearer",
		"expires_at":   result.ExpiresAt,
	}, "login successful")
	c.JSON(resp.Status, resp)
}

// Logout POST /api/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	token := bearerToken(c)
	if token == "" {
		resp := response.Error[any](c, http.StatusUnauthorized, "missing access token", nil)
		c.JSON(resp.Status, resp)
		return
	}

	if err := h.Dispatcher.LogoutUser(c.Request.Context(), token); err != nil {
		h.fail(c, err, "logout failed")
		return
	}

	resp := response.Success[any](c, http.StatusOK, nil, "logged out")
	c.JSON(resp.Status, resp)
}

// Validate POST /api/auth/validate
func (h *AuthHandler) Validate(c *gin.Context) {
	var req validateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		resp := response.Error[any](c, http.StatusUnprocessableEntity, "validation failed", validation.ToDetails(err))
		c.JSON(resp.Status, resp)
		return
	}

	result, err := h.Dispatcher.ValidateToken(c.Request.Context(), req.Token)
	if err != nil {
		h.fail(c, err, "validation failed")
		return
	}

	resp := response.Success(c, http.StatusOK, gin.H{
		"is_valid":    result.IsValid,
		"user_id":     result.UserID,
		"email":       result.Email,
		"permissions": result.Permissions,
	}, "token validated")
	c.JSON(resp.Status, resp)
}

// Me GET /api/auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	token := bearerToken(c)
	if token == "" {
		resp := response.Error[any](c, http.StatusUnauthorized, "missing access token", nil)
		c.JSON(resp.Status, resp)
		return
	}

	info, err := h.Dispatcher.GetUserInfo(c.Request.Context(), token)
	if err != nil {
		h.fail(c, err, "token rejected")
		return
	}

	resp := response.Success(c, http.StatusOK, gin.H{
		"user_id":      info.UserID,
		"email":        info.Email,
		"permissions":  info.Permissions,
		"session_id":   info.SessionID,
		"logged_in_at": info.LoggedInAt,
		"expires_at":   info.ExpiresAt,
	}, "ok")
	c.JSON(resp.Status, resp)
}

// fail maps domain error codes to HTTP statuses. Infrastructure detail
// never reaches the caller.
func (h *AuthHandler) fail(c *gin.Context, err error, msg string) {
	status := http.StatusInternalServerError
	body := msg

	switch domain.CodeOf(err) {
	case domain.ErrCodeValidation:
		status = http.StatusBadRequest
		body = err.Error()
	case domain.ErrCodeUnauthorized:
		status = http.StatusUnauthorized
		body = err.Error()
	case domain.ErrCodeConflict:
		status = http.StatusConflict
		body = err.Error()
	case domain.ErrCodeNotFound:
		status = http.StatusNotFound
		body = err.Error()
	case domain.ErrCodeState:
		status = http.StatusForbidden
		body = err.Error()
	default:
		h.Logger.WithError(err).Error("internal error")
	}

	resp := response.Error[any](c, status, body, nil)
	c.JSON(resp.Status, resp)
}
