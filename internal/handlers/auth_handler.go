package handlers

import (
	"errors"
	"net/http"

	"task-tracker-api/internal/auth"
	"task-tracker-api/internal/cache"
	"task-tracker-api/internal/config"

	"github.com/gin-gonic/gin"
)

// LoginRequest represents the login request payload
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse represents the login response
type LoginResponse struct {
	Token    string `json:"token"`
	Username string `json:"username"`
	Message  string `json:"message"`
}

type AuthHandler struct {
	issuer   *auth.Issuer
	cfg      config.AuthConfig
	failures *cache.Attempts
}

func NewAuthHandler(issuer *auth.Issuer, cfg config.AuthConfig) *AuthHandler {
	return &AuthHandler{
		issuer:   issuer,
		cfg:      cfg,
		failures: cache.NewAttempts(cfg.MaxFailedLogins, cfg.LockoutWindow),
	}
}

// Login handles POST /api/login against the single configured account.
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request. Username and password are required.",
		})
		return
	}

	if !h.cfg.Enabled {
		c.JSON(http.StatusNotFound, gin.H{"error": "Authentication is disabled"})
		return
	}

	key := req.Username + "|" + c.ClientIP()
	if h.failures.Blocked(key) {
		c.JSON(http.StatusTooManyRequests, gin.H{"error": "Too many failed login attempts, try again later"})
		return
	}

	err := auth.CheckCredentials(h.cfg.Username, h.cfg.PasswordHash, req.Username, req.Password)
	if errors.Is(err, auth.ErrBadCredentials) {
		h.failures.PurgeExpired()
		h.failures.Fail(key)
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}
	h.failures.Reset(key)

	token, err := h.issuer.GenerateToken(req.Username)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to generate token",
		})
		return
	}

	c.JSON(http.StatusOK, LoginResponse{
		Token:    token,
		Username: req.Username,
		Message:  "Login successful",
	})
}
