package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/drivent/booking-backend/internal/middleware"
	"github.com/drivent/booking-backend/internal/models"
)

// BookingService is the booking behaviour the handler needs
type BookingService interface {
	Find(ctx context.Context, userID int) (*models.BookingWithRoom, error)
	Create(ctx context.Context, roomID, userID int) (*models.BookingResult, error)
	Update(ctx context.Context, roomID, userID, bookingID int) (*models.BookingResult, error)
}

// BookingHandler handles hotel booking endpoints
type BookingHandler struct {
	bookingService BookingService
	logger         logrus.FieldLogger
}

// NewBookingHandler creates a new booking handler
func NewBookingHandler(bookingService BookingService, logger logrus.FieldLogger) *BookingHandler {
	return &BookingHandler{
		bookingService: bookingService,
		logger:         logger,
	}
}

// FindBooking handles GET /booking
func (h *BookingHandler) FindBooking(c *gin.Context) {
	userCtx := middleware.MustGetUserContext(c)

	booking, err := h.bookingService.Find(c.Request.Context(), userCtx.UserID)
	if err != nil {
		writeServiceError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, booking)
}

// CreateBooking handles POST /booking
func (h *BookingHandler) CreateBooking(c *gin.Context) {
	userCtx := middleware.MustGetUserContext(c)

	var req models.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeValidationError(c, "roomId must be a positive integer")
		return
	}

	result, err := h.bookingService.Create(c.Request.Context(), req.RoomID, userCtx.UserID)
	if err != nil {
		writeServiceError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// UpdateBooking handles PUT /booking/:bookingId and PUT /booking.
// The path parameter takes precedence over bookingId in the body.
func (h *BookingHandler) UpdateBooking(c *gin.Context) {
	userCtx := middleware.MustGetUserContext(c)

	var req models.UpdateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeValidationError(c, "Invalid request body")
		return
	}

	if param := c.Param("bookingId"); param != "" {
		bookingID, err := strconv.Atoi(param)
		if err != nil {
			writeValidationError(c, "bookingId must be an integer")
			return
		}
		req.BookingID = bookingID
	}

	if err := req.Validate(); err != nil {
		writeValidationError(c, err.Error())
		return
	}

	result, err := h.bookingService.Update(c.Request.Context(), req.RoomID, userCtx.UserID, req.BookingID)
	if err != nil {
		writeServiceError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
