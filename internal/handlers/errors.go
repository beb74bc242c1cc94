package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/drivent/booking-backend/internal/services"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// writeServiceError maps booking denials to 404/403 and anything else to 500
func writeServiceError(c *gin.Context, logger logrus.FieldLogger, err error) {
	switch {
	case services.IsNotFound(err):
		c.JSON(http.StatusNotFound, ErrorResponse{
			Error:   "not_found",
			Message: err.Error(),
			Code:    "NOT_FOUND",
		})
	case services.IsForbidden(err):
		c.JSON(http.StatusForbidden, ErrorResponse{
			Error:   "forbidden",
			Message: err.Error(),
			Code:    "FORBIDDEN",
		})
	default:
		logger.WithError(err).WithField("path", c.Request.URL.Path).Error("Request failed")
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "internal_error",
			Message: "An unexpected error occurred",
		})
	}
}

func writeValidationError(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{
		Error:   "validation_error",
		Message: message,
	})
}
