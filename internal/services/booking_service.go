package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/drivent/booking-backend/internal/database"
	"github.com/drivent/booking-backend/internal/events"
	"github.com/drivent/booking-backend/internal/locks"
	"github.com/drivent/booking-backend/internal/metrics"
	"github.com/drivent/booking-backend/internal/models"
)

// BookingStore reads and writes bookings
type BookingStore interface {
	FindByUserID(ctx context.Context, userID int) (*models.Booking, error)
	FindByRoomID(ctx context.Context, roomID int) (*models.Booking, error)
	Create(ctx context.Context, roomID, userID int) (*models.Booking, error)
	UpdateRoom(ctx context.Context, bookingID, roomID int) (*models.Booking, error)
}

// RoomFinder looks up rooms
type RoomFinder interface {
	FindByID(ctx context.Context, roomID int) (*models.Room, error)
}

// EnrollmentFinder looks up a user's enrollment
type EnrollmentFinder interface {
	FindByUserID(ctx context.Context, userID int) (*models.Enrollment, error)
}

// TicketFinder looks up tickets and their types
type TicketFinder interface {
	FindByEnrollmentID(ctx context.Context, enrollmentID int) (*models.Ticket, error)
	FindTypeByID(ctx context.Context, ticketTypeID int) (*models.TicketType, error)
}

// RoomLocker grants exclusive access to a room for the duration of a write
type RoomLocker interface {
	LockRoom(ctx context.Context, roomID int) (func(), error)
}

// EventPublisher announces committed booking writes
type EventPublisher interface {
	PublishBookingEvent(ctx context.Context, event events.BookingEvent) error
}

// BookingService applies the eligibility gates and performs booking writes.
// locker and publisher are optional.
type BookingService struct {
	bookings    BookingStore
	rooms       RoomFinder
	enrollments EnrollmentFinder
	tickets     TicketFinder
	locker      RoomLocker
	publisher   EventPublisher
	logger      logrus.FieldLogger
}

// NewBookingService creates a new booking service
func NewBookingService(
	bookings BookingStore,
	rooms RoomFinder,
	enrollments EnrollmentFinder,
	tickets TicketFinder,
	locker RoomLocker,
	publisher EventPublisher,
	logger logrus.FieldLogger,
) *BookingService {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &BookingService{
		bookings:    bookings,
		rooms:       rooms,
		enrollments: enrollments,
		tickets:     tickets,
		locker:      locker,
		publisher:   publisher,
		logger:      logger,
	}
}

// Find returns the caller's booking together with its room
func (s *BookingService) Find(ctx context.Context, userID int) (view *models.BookingWithRoom, err error) {
	start := time.Now()
	defer func() { s.observe("find", userID, start, err) }()

	booking, err := s.bookings.FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := requireBooking(booking); err != nil {
		return nil, err
	}

	room, err := s.rooms.FindByID(ctx, booking.RoomID)
	if err != nil {
		return nil, err
	}
	if err := requireRoom(room); err != nil {
		return nil, err
	}

	return &models.BookingWithRoom{ID: booking.ID, Room: *room}, nil
}

// Create books a room for the caller
func (s *BookingService) Create(ctx context.Context, roomID, userID int) (result *models.BookingResult, err error) {
	start := time.Now()
	defer func() { s.observe("create", userID, start, err) }()

	room, err := s.rooms.FindByID(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if err := requireRoom(room); err != nil {
		return nil, err
	}

	unlock, err := s.lockRoom(ctx, roomID, MsgBookingExists)
	if err != nil {
		return nil, err
	}
	defer unlock()

	existing, err := s.bookings.FindByRoomID(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if err := requireRoomFree(existing, MsgBookingExists); err != nil {
		return nil, err
	}

	if err := s.checkTicket(ctx, userID); err != nil {
		return nil, err
	}

	booking, err := s.bookings.Create(ctx, roomID, userID)
	if errors.Is(err, database.ErrBookingConflict) {
		return nil, ForbiddenError(MsgBookingExists)
	}
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events.BookingEvent{
		Key:        events.BookingCreated,
		BookingID:  booking.ID,
		UserID:     userID,
		RoomID:     roomID,
		OccurredAt: time.Now(),
	})

	return &models.BookingResult{BookingID: booking.ID}, nil
}

// Update moves the caller's booking to another room
func (s *BookingService) Update(ctx context.Context, roomID, userID, bookingID int) (result *models.BookingResult, err error) {
	start := time.Now()
	defer func() { s.observe("update", userID, start, err) }()

	room, err := s.rooms.FindByID(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if err := requireRoom(room); err != nil {
		return nil, err
	}

	unlock, err := s.lockRoom(ctx, roomID, MsgRoomTaken)
	if err != nil {
		return nil, err
	}
	defer unlock()

	existing, err := s.bookings.FindByRoomID(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if err := requireRoomFree(existing, MsgRoomTaken); err != nil {
		return nil, err
	}

	userBooking, err := s.bookings.FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := checkBookingOwner(userBooking, bookingID); err != nil {
		return nil, err
	}

	booking, err := s.bookings.UpdateRoom(ctx, bookingID, roomID)
	if errors.Is(err, database.ErrBookingConflict) {
		return nil, ForbiddenError(MsgRoomTaken)
	}
	if err != nil {
		return nil, err
	}

	previousRoomID := userBooking.RoomID
	s.publish(ctx, events.BookingEvent{
		Key:            events.BookingUpdated,
		BookingID:      booking.ID,
		UserID:         userID,
		RoomID:         roomID,
		PreviousRoomID: &previousRoomID,
		OccurredAt:     time.Now(),
	})

	return &models.BookingResult{BookingID: booking.ID}, nil
}

func (s *BookingService) checkTicket(ctx context.Context, userID int) error {
	enrollment, err := s.enrollments.FindByUserID(ctx, userID)
	if err != nil {
		return err
	}
	if enrollment == nil {
		return checkTicketEligible(nil, nil, nil)
	}

	ticket, err := s.tickets.FindByEnrollmentID(ctx, enrollment.ID)
	if err != nil {
		return err
	}
	if ticket == nil {
		return checkTicketEligible(enrollment, nil, nil)
	}

	ticketType, err := s.tickets.FindTypeByID(ctx, ticket.TicketTypeID)
	if err != nil {
		return err
	}

	return checkTicketEligible(enrollment, ticket, ticketType)
}

// lockRoom returns a no-op unlock when no locker is configured. A room held
// by a concurrent request is reported with busyMessage.
func (s *BookingService) lockRoom(ctx context.Context, roomID int, busyMessage string) (func(), error) {
	if s.locker == nil {
		return func() {}, nil
	}

	unlock, err := s.locker.LockRoom(ctx, roomID)
	if errors.Is(err, locks.ErrRoomLocked) {
		return nil, ForbiddenError(busyMessage)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to lock room: %w", err)
	}
	return unlock, nil
}

func (s *BookingService) publish(ctx context.Context, event events.BookingEvent) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishBookingEvent(ctx, event); err != nil {
		s.logger.WithFields(logrus.Fields{
			"event":      event.Key,
			"booking_id": event.BookingID,
		}).WithError(err).Warn("Failed to publish booking event")
	}
}

func (s *BookingService) observe(operation string, userID int, start time.Time, err error) {
	outcome := metrics.OutcomeSuccess
	fields := logrus.Fields{"operation": operation, "user_id": userID}

	var bookingErr *BookingError
	switch {
	case err == nil:
	case errors.As(err, &bookingErr):
		if bookingErr.Kind == KindNotFound {
			outcome = metrics.OutcomeNotFound
		} else {
			outcome = metrics.OutcomeForbidden
		}
		s.logger.WithFields(fields).WithField("reason", bookingErr.Message).Info("Booking operation denied")
	default:
		outcome = metrics.OutcomeError
		s.logger.WithFields(fields).WithError(err).Error("Booking operation failed")
	}

	metrics.ObserveBookingOperation(operation, outcome, time.Since(start))
}
