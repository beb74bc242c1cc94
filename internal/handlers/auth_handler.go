package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/drivent/booking-backend/internal/models"
	"github.com/drivent/booking-backend/internal/services"
)

// SignInService authenticates users
type SignInService interface {
	SignIn(ctx context.Context, email, password string) (*models.SignInResponse, error)
}

// AuthHandler handles authentication endpoints
type AuthHandler struct {
	authService SignInService
	logger      logrus.FieldLogger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService SignInService, logger logrus.FieldLogger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		logger:      logger,
	}
}

// SignIn handles POST /auth/sign-in
func (h *AuthHandler) SignIn(c *gin.Context) {
	var req models.SignInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeValidationError(c, "A valid email and a password of at least 6 characters are required")
		return
	}

	resp, err := h.authService.SignIn(c.Request.Context(), req.Email, req.Password)
	if errors.Is(err, services.ErrInvalidCredentials) {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Error:   "unauthorized",
			Message: err.Error(),
			Code:    "INVALID_CREDENTIALS",
		})
		return
	}
	if err != nil {
		h.logger.WithError(err).Error("Sign-in failed")
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "internal_error",
			Message: "Failed to sign in",
		})
		return
	}

	c.JSON(http.StatusOK, resp)
}
