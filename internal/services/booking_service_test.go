package services

import (
	"context"
	"errors"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/drivent/booking-backend/internal/database"
	"github.com/drivent/booking-backend/internal/events"
	"github.com/drivent/booking-backend/internal/locks"
	"github.com/drivent/booking-backend/internal/models"
)

// ---------------------------------------------------------------------------
// In-memory fakes
// ---------------------------------------------------------------------------

type fakeBookings struct {
	byID      map[int]*models.Booking
	nextID    int
	writes    int
	readErr   error
	createErr error
	updateErr error
}

func (f *fakeBookings) FindByUserID(_ context.Context, userID int) (*models.Booking, error) {
	if f.readErr != nil {
		return nil, f.readErr
	}
	for _, b := range f.byID {
		if b.UserID == userID {
			copied := *b
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeBookings) FindByRoomID(_ context.Context, roomID int) (*models.Booking, error) {
	if f.readErr != nil {
		return nil, f.readErr
	}
	for _, b := range f.byID {
		if b.RoomID == roomID {
			copied := *b
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeBookings) Create(_ context.Context, roomID, userID int) (*models.Booking, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.writes++
	f.nextID++
	b := &models.Booking{ID: f.nextID, RoomID: roomID, UserID: userID}
	f.byID[b.ID] = b
	return b, nil
}

func (f *fakeBookings) UpdateRoom(_ context.Context, bookingID, roomID int) (*models.Booking, error) {
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	b, ok := f.byID[bookingID]
	if !ok {
		return nil, errors.New("booking not found")
	}
	f.writes++
	b.RoomID = roomID
	return b, nil
}

type fakeRooms map[int]*models.Room

func (f fakeRooms) FindByID(_ context.Context, roomID int) (*models.Room, error) {
	return f[roomID], nil
}

type fakeEnrollments map[int]*models.Enrollment

func (f fakeEnrollments) FindByUserID(_ context.Context, userID int) (*models.Enrollment, error) {
	return f[userID], nil
}

type fakeTickets struct {
	byEnrollment map[int]*models.Ticket
	types        map[int]*models.TicketType
}

func (f *fakeTickets) FindByEnrollmentID(_ context.Context, enrollmentID int) (*models.Ticket, error) {
	return f.byEnrollment[enrollmentID], nil
}

func (f *fakeTickets) FindTypeByID(_ context.Context, ticketTypeID int) (*models.TicketType, error) {
	return f.types[ticketTypeID], nil
}

type fakeLocker struct {
	err      error
	locked   []int
	unlocked int
}

func (f *fakeLocker) LockRoom(_ context.Context, roomID int) (func(), error) {
	if f.err != nil {
		return nil, f.err
	}
	f.locked = append(f.locked, roomID)
	return func() { f.unlocked++ }, nil
}

type fakePublisher struct {
	events []events.BookingEvent
	err    error
}

func (f *fakePublisher) PublishBookingEvent(_ context.Context, event events.BookingEvent) error {
	f.events = append(f.events, event)
	return f.err
}

// world holds the fixtures shared by the booking service tests. Users 1 and 2
// hold paid hotel tickets; rooms 10, 11 and 12 exist.
type world struct {
	bookings    *fakeBookings
	rooms       fakeRooms
	enrollments fakeEnrollments
	tickets     *fakeTickets
	locker      *fakeLocker
	publisher   *fakePublisher
	logHook     *test.Hook
}

const hotelTicketType = 1

func newWorld() *world {
	w := &world{
		bookings: &fakeBookings{byID: map[int]*models.Booking{}},
		rooms: fakeRooms{
			10: {ID: 10, Name: "101", Capacity: 2, HotelID: 1},
			11: {ID: 11, Name: "102", Capacity: 3, HotelID: 1},
			12: {ID: 12, Name: "103", Capacity: 1, HotelID: 1},
		},
		enrollments: fakeEnrollments{},
		tickets: &fakeTickets{
			byEnrollment: map[int]*models.Ticket{},
			types: map[int]*models.TicketType{
				hotelTicketType: {ID: hotelTicketType, IsRemote: false, IncludesHotel: true},
			},
		},
	}
	w.addPaidUser(1)
	w.addPaidUser(2)
	return w
}

func (w *world) addPaidUser(userID int) {
	enrollmentID := userID * 100
	w.enrollments[userID] = &models.Enrollment{ID: enrollmentID, UserID: userID}
	w.tickets.byEnrollment[enrollmentID] = &models.Ticket{
		ID:           enrollmentID,
		EnrollmentID: enrollmentID,
		TicketTypeID: hotelTicketType,
		Status:       models.TicketStatusPaid,
	}
}

func (w *world) seedBooking(id, userID, roomID int) {
	w.bookings.byID[id] = &models.Booking{ID: id, UserID: userID, RoomID: roomID}
	if id > w.bookings.nextID {
		w.bookings.nextID = id
	}
}

func (w *world) service() *BookingService {
	logger, hook := test.NewNullLogger()
	w.logHook = hook
	var locker RoomLocker
	if w.locker != nil {
		locker = w.locker
	}
	var publisher EventPublisher
	if w.publisher != nil {
		publisher = w.publisher
	}
	return NewBookingService(w.bookings, w.rooms, w.enrollments, w.tickets, locker, publisher, logger)
}

func assertDenied(t *testing.T, err error, kind ErrorKind, message string) {
	t.Helper()
	var bookingErr *BookingError
	require.True(t, errors.As(err, &bookingErr), "expected BookingError, got %v", err)
	assert.Equal(t, kind, bookingErr.Kind)
	assert.Equal(t, message, bookingErr.Message)
}

// ---------------------------------------------------------------------------
// Find
// ---------------------------------------------------------------------------

func TestFind_NoBooking(t *testing.T) {
	w := newWorld()

	view, err := w.service().Find(context.Background(), 1)

	assert.Nil(t, view)
	assertDenied(t, err, KindNotFound, MsgNoBooking)
	assert.True(t, IsNotFound(err))
}

func TestFind_RoomMissing(t *testing.T) {
	w := newWorld()
	w.seedBooking(1, 1, 99)

	_, err := w.service().Find(context.Background(), 1)

	assertDenied(t, err, KindNotFound, MsgRoomNotFound)
}

func TestFind_ReturnsBookingWithRoom(t *testing.T) {
	w := newWorld()
	w.seedBooking(4, 1, 11)

	view, err := w.service().Find(context.Background(), 1)

	require.NoError(t, err)
	assert.Equal(t, 4, view.ID)
	assert.Equal(t, 11, view.Room.ID)
	assert.Equal(t, "102", view.Room.Name)
}

func TestFind_PersistenceError(t *testing.T) {
	w := newWorld()
	w.bookings.readErr = errors.New("connection reset")

	_, err := w.service().Find(context.Background(), 1)

	require.Error(t, err)
	assert.False(t, IsNotFound(err))
	assert.False(t, IsForbidden(err))
}

// ---------------------------------------------------------------------------
// Create
// ---------------------------------------------------------------------------

func TestCreate_Success(t *testing.T) {
	w := newWorld()

	result, err := w.service().Create(context.Background(), 10, 1)

	require.NoError(t, err)
	assert.Equal(t, 1, result.BookingID)
	assert.Equal(t, 1, w.bookings.writes)

	stored := w.bookings.byID[result.BookingID]
	require.NotNil(t, stored)
	assert.Equal(t, 10, stored.RoomID)
	assert.Equal(t, 1, stored.UserID)
}

func TestCreate_RoomNotFound(t *testing.T) {
	w := newWorld()

	_, err := w.service().Create(context.Background(), 99, 1)

	assertDenied(t, err, KindNotFound, MsgRoomNotFound)
	assert.Zero(t, w.bookings.writes)
}

func TestCreate_RoomAlreadyBooked(t *testing.T) {
	tests := []struct {
		name   string
		holder int
	}{
		{"booked by another user", 2},
		{"booked by the requester", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := newWorld()
			w.seedBooking(1, tt.holder, 10)

			_, err := w.service().Create(context.Background(), 10, 1)

			assertDenied(t, err, KindForbidden, MsgBookingExists)
			assert.Zero(t, w.bookings.writes)
		})
	}
}

func TestCreate_TicketGate(t *testing.T) {
	tests := []struct {
		name    string
		arrange func(w *world)
	}{
		{
			name: "ticket reserved",
			arrange: func(w *world) {
				w.tickets.byEnrollment[100].Status = models.TicketStatusReserved
			},
		},
		{
			name: "remote ticket",
			arrange: func(w *world) {
				w.tickets.types[hotelTicketType].IsRemote = true
			},
		},
		{
			name: "ticket without hotel",
			arrange: func(w *world) {
				w.tickets.types[hotelTicketType].IncludesHotel = false
			},
		},
		{
			name: "reserved remote ticket without hotel",
			arrange: func(w *world) {
				w.tickets.byEnrollment[100].Status = models.TicketStatusReserved
				w.tickets.types[hotelTicketType].IsRemote = true
				w.tickets.types[hotelTicketType].IncludesHotel = false
			},
		},
		{
			name: "no enrollment",
			arrange: func(w *world) {
				delete(w.enrollments, 1)
			},
		},
		{
			name: "no ticket",
			arrange: func(w *world) {
				delete(w.tickets.byEnrollment, 100)
			},
		},
		{
			name: "no ticket type",
			arrange: func(w *world) {
				delete(w.tickets.types, hotelTicketType)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := newWorld()
			tt.arrange(w)

			_, err := w.service().Create(context.Background(), 10, 1)

			assertDenied(t, err, KindForbidden, MsgTicketIneligible)
			assert.True(t, IsForbidden(err))
			assert.Zero(t, w.bookings.writes)
		})
	}
}

func TestCreate_GateOrder(t *testing.T) {
	// Room existence is checked before occupancy, occupancy before the ticket.
	w := newWorld()
	w.seedBooking(1, 2, 10)
	w.tickets.byEnrollment[100].Status = models.TicketStatusReserved

	_, err := w.service().Create(context.Background(), 99, 1)
	assertDenied(t, err, KindNotFound, MsgRoomNotFound)

	_, err = w.service().Create(context.Background(), 10, 1)
	assertDenied(t, err, KindForbidden, MsgBookingExists)
}

func TestCreate_UniqueViolationIsForbidden(t *testing.T) {
	w := newWorld()
	w.bookings.createErr = database.ErrBookingConflict

	_, err := w.service().Create(context.Background(), 10, 1)

	assertDenied(t, err, KindForbidden, MsgBookingExists)
}

func TestCreate_PersistenceError(t *testing.T) {
	w := newWorld()
	w.bookings.createErr = errors.New("disk full")

	_, err := w.service().Create(context.Background(), 10, 1)

	require.Error(t, err)
	assert.False(t, IsForbidden(err))
	assert.Equal(t, logrus.ErrorLevel, w.logHook.LastEntry().Level)
}

func TestCreate_LocksRoom(t *testing.T) {
	w := newWorld()
	w.locker = &fakeLocker{}

	_, err := w.service().Create(context.Background(), 10, 1)

	require.NoError(t, err)
	assert.Equal(t, []int{10}, w.locker.locked)
	assert.Equal(t, 1, w.locker.unlocked)
}

func TestCreate_RoomLockHeld(t *testing.T) {
	w := newWorld()
	w.locker = &fakeLocker{err: locks.ErrRoomLocked}

	_, err := w.service().Create(context.Background(), 10, 1)

	assertDenied(t, err, KindForbidden, MsgBookingExists)
	assert.Zero(t, w.bookings.writes)
}

func TestCreate_LockerUnavailable(t *testing.T) {
	w := newWorld()
	w.locker = &fakeLocker{err: errors.New("redis down")}

	_, err := w.service().Create(context.Background(), 10, 1)

	require.Error(t, err)
	assert.False(t, IsForbidden(err))
	assert.Zero(t, w.bookings.writes)
}

func TestCreate_PublishesEvent(t *testing.T) {
	w := newWorld()
	w.publisher = &fakePublisher{}

	result, err := w.service().Create(context.Background(), 10, 1)

	require.NoError(t, err)
	require.Len(t, w.publisher.events, 1)
	event := w.publisher.events[0]
	assert.Equal(t, events.BookingCreated, event.Key)
	assert.Equal(t, result.BookingID, event.BookingID)
	assert.Equal(t, 10, event.RoomID)
	assert.Nil(t, event.PreviousRoomID)
}

func TestCreate_PublishFailureIsNotReturned(t *testing.T) {
	w := newWorld()
	w.publisher = &fakePublisher{err: errors.New("broker gone")}

	result, err := w.service().Create(context.Background(), 10, 1)

	require.NoError(t, err)
	assert.Equal(t, 1, result.BookingID)
	assert.Equal(t, logrus.WarnLevel, w.logHook.LastEntry().Level)
}

func TestCreate_DenialIsLogged(t *testing.T) {
	w := newWorld()

	_, err := w.service().Create(context.Background(), 99, 1)
	require.Error(t, err)

	entry := w.logHook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, logrus.InfoLevel, entry.Level)
	assert.Equal(t, MsgRoomNotFound, entry.Data["reason"])
	assert.Equal(t, "create", entry.Data["operation"])
}

// ---------------------------------------------------------------------------
// Update
// ---------------------------------------------------------------------------

func TestUpdate_Success(t *testing.T) {
	w := newWorld()
	w.seedBooking(1, 1, 10)
	w.publisher = &fakePublisher{}

	result, err := w.service().Update(context.Background(), 11, 1, 1)

	require.NoError(t, err)
	assert.Equal(t, 1, result.BookingID)
	assert.Equal(t, 11, w.bookings.byID[1].RoomID)
	assert.Equal(t, 1, w.bookings.writes)

	require.Len(t, w.publisher.events, 1)
	event := w.publisher.events[0]
	assert.Equal(t, events.BookingUpdated, event.Key)
	require.NotNil(t, event.PreviousRoomID)
	assert.Equal(t, 10, *event.PreviousRoomID)
}

func TestUpdate_RoomNotFound(t *testing.T) {
	w := newWorld()
	w.seedBooking(1, 1, 10)

	_, err := w.service().Update(context.Background(), 99, 1, 1)

	assertDenied(t, err, KindNotFound, MsgRoomNotFound)
	assert.Zero(t, w.bookings.writes)
}

func TestUpdate_RoomTaken(t *testing.T) {
	tests := []struct {
		name   string
		target int
	}{
		{"room held by another user", 11},
		{"room held by the caller", 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := newWorld()
			w.seedBooking(1, 1, 10)
			w.seedBooking(2, 2, 11)

			_, err := w.service().Update(context.Background(), tt.target, 1, 1)

			assertDenied(t, err, KindForbidden, MsgRoomTaken)
			assert.Zero(t, w.bookings.writes)
		})
	}
}

func TestUpdate_NotOwner(t *testing.T) {
	tests := []struct {
		name      string
		seed      func(w *world)
		bookingID int
	}{
		{"caller has no booking", func(w *world) { w.seedBooking(2, 2, 10) }, 2},
		{"caller owns a different booking", func(w *world) {
			w.seedBooking(1, 1, 10)
			w.seedBooking(2, 2, 11)
		}, 2},
		{"unknown booking id", func(w *world) { w.seedBooking(1, 1, 10) }, 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := newWorld()
			tt.seed(w)

			_, err := w.service().Update(context.Background(), 12, 1, tt.bookingID)

			assertDenied(t, err, KindForbidden, MsgNotBookingOwner)
			assert.Zero(t, w.bookings.writes)
		})
	}
}

func TestUpdate_UniqueViolationIsForbidden(t *testing.T) {
	w := newWorld()
	w.seedBooking(1, 1, 10)
	w.bookings.updateErr = database.ErrBookingConflict

	_, err := w.service().Update(context.Background(), 11, 1, 1)

	assertDenied(t, err, KindForbidden, MsgRoomTaken)
}

func TestUpdate_RoomLockHeld(t *testing.T) {
	w := newWorld()
	w.seedBooking(1, 1, 10)
	w.locker = &fakeLocker{err: locks.ErrRoomLocked}

	_, err := w.service().Update(context.Background(), 11, 1, 1)

	assertDenied(t, err, KindForbidden, MsgRoomTaken)
	assert.Equal(t, 10, w.bookings.byID[1].RoomID)
}

// ---------------------------------------------------------------------------
// End to end
// ---------------------------------------------------------------------------

func TestBookingLifecycle(t *testing.T) {
	w := newWorld()
	svc := w.service()
	ctx := context.Background()

	created, err := svc.Create(ctx, 10, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, created.BookingID)

	_, err = svc.Create(ctx, 10, 2)
	assertDenied(t, err, KindForbidden, MsgBookingExists)

	updated, err := svc.Update(ctx, 11, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, updated.BookingID)

	view, err := svc.Find(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, view.ID)
	assert.Equal(t, 11, view.Room.ID)

	assert.Equal(t, 2, w.bookings.writes)
}
