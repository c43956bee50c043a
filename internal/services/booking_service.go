package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/MeldryckSAID/NovaHelpBack/internal/models"
	"github.com/MeldryckSAID/NovaHelpBack/internal/repository"
	"github.com/jackc/pgx/v5"
)

var (
	ErrForbidden         = errors.New("forbidden")
	ErrInvalidInput      = errors.New("invalid input")
	ErrInvalidStatus     = errors.New("invalid status")
	ErrInvalidTransition = errors.New("invalid state transition")
	ErrInvalidDate       = errors.New("invalid requested date")
	ErrHelperNotFound    = errors.New("helper not found")
)

type bookingStore interface {
	Create(ctx context.Context, input repository.CreateBookingInput) (*models.Booking, error)
	GetByID(ctx context.Context, bookingID int64) (*models.Booking, error)
	List(ctx context.Context, filter repository.BookingListFilter) ([]models.Booking, error)
	UpdateStatusIfCurrent(ctx context.Context, bookingID int64, currentStatus, nextStatus string) (*models.Booking, error)
}

type slotReader interface {
	GetByID(ctx context.Context, slotID int64) (*models.TimeSlot, error)
}

type userReader interface {
	GetByID(ctx context.Context, id int64) (*models.User, error)
}

type sessionCounter interface {
	IncrementCompletedSessions(ctx context.Context, userID int64) error
}

type BookingService struct {
	bookingRepo    bookingStore
	slotRepo       slotReader
	userRepo       userReader
	helperProfiles sessionCounter
}

func NewBookingService(
	bookingRepo bookingStore,
	slotRepo slotReader,
	userRepo userReader,
	helperProfiles sessionCounter,
) *BookingService {
	return &BookingService{
		bookingRepo:    bookingRepo,
		slotRepo:       slotRepo,
		userRepo:       userRepo,
		helperProfiles: helperProfiles,
	}
}

type CreateBookingInput struct {
	HelperID      int64
	TimeSlotID    int64
	RequestedDate time.Time
	Message       *string
}

func (s *BookingService) CreateBooking(
	ctx context.Context,
	studentID int64,
	input CreateBookingInput,
) (*models.Booking, error) {
	if input.HelperID <= 0 || input.TimeSlotID <= 0 {
		return nil, ErrInvalidInput
	}
	if studentID == input.HelperID {
		return nil, ErrInvalidInput
	}

	helper, err := s.userRepo.GetByID(ctx, input.HelperID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrHelperNotFound
		}
		return nil, err
	}
	if helper.Role != "helper" {
		return nil, ErrHelperNotFound
	}

	slot, err := s.slotRepo.GetByID(ctx, input.TimeSlotID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSlotNotFound
		}
		return nil, err
	}
	if slot.HelperID != input.HelperID {
		return nil, ErrSlotNotFound
	}

	if err := validateRequestedDate(slot, input.RequestedDate, time.Now()); err != nil {
		return nil, err
	}

	message := input.Message
	if message != nil && strings.TrimSpace(*message) == "" {
		message = nil
	}

	return s.bookingRepo.Create(ctx, repository.CreateBookingInput{
		StudentID:     studentID,
		HelperID:      input.HelperID,
		TimeSlotID:    input.TimeSlotID,
		RequestedDate: truncateToDate(input.RequestedDate),
		Message:       message,
	})
}

// Decide records the helper's answer to a pending request. Only the booked
// helper may decide, and only while the request is still pending.
func (s *BookingService) Decide(
	ctx context.Context,
	bookingID int64,
	decidingHelperID int64,
	outcome string,
) (*models.Booking, error) {
	nextStatus, err := normalizeOutcome(outcome)
	if err != nil {
		return nil, err
	}

	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.HelperID != decidingHelperID {
		return nil, ErrForbidden
	}
	if booking.Status != models.BookingStatusPending {
		return nil, ErrInvalidTransition
	}

	updated, err := s.bookingRepo.UpdateStatusIfCurrent(ctx, bookingID, models.BookingStatusPending, nextStatus)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrInvalidTransition
		}
		return nil, err
	}
	return updated, nil
}

// Complete marks an accepted booking as done. Either participant may complete;
// a second attempt fails because the status is no longer accepted.
func (s *BookingService) Complete(
	ctx context.Context,
	bookingID int64,
	actingUserID int64,
) (*models.Booking, error) {
	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.StudentID != actingUserID && booking.HelperID != actingUserID {
		return nil, ErrForbidden
	}
	if booking.Status != models.BookingStatusAccepted {
		return nil, ErrInvalidTransition
	}

	updated, err := s.bookingRepo.UpdateStatusIfCurrent(ctx, bookingID, models.BookingStatusAccepted, models.BookingStatusCompleted)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrInvalidTransition
		}
		return nil, err
	}

	if err := s.helperProfiles.IncrementCompletedSessions(ctx, updated.HelperID); err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *BookingService) ListForStudent(ctx context.Context, studentID int64, status string) ([]models.Booking, error) {
	if err := validateStatusFilter(status); err != nil {
		return nil, err
	}
	return s.bookingRepo.List(ctx, repository.BookingListFilter{
		ActorID: studentID,
		Role:    "student",
		Status:  status,
	})
}

func (s *BookingService) ListForHelper(ctx context.Context, helperID int64, status string) ([]models.Booking, error) {
	if err := validateStatusFilter(status); err != nil {
		return nil, err
	}
	return s.bookingRepo.List(ctx, repository.BookingListFilter{
		ActorID: helperID,
		Role:    "helper",
		Status:  status,
	})
}

func (s *BookingService) GetForParticipant(ctx context.Context, bookingID, actorID int64) (*models.Booking, error) {
	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.StudentID != actorID && booking.HelperID != actorID {
		return nil, ErrForbidden
	}
	return booking, nil
}

func validateRequestedDate(slot *models.TimeSlot, requested time.Time, now time.Time) error {
	requestedDay := truncateToDate(requested)
	today := truncateToDate(now)

	if !requestedDay.After(today) {
		return ErrInvalidDate
	}

	weekday, ok := ParseWeekday(slot.Weekday)
	if !ok {
		return ErrInvalidDate
	}
	if requestedDay.Weekday() != weekday {
		return ErrInvalidDate
	}
	return nil
}

func truncateToDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func normalizeOutcome(outcome string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(outcome)) {
	case "accept", "accepted":
		return models.BookingStatusAccepted, nil
	case "reject", "rejected":
		return models.BookingStatusRejected, nil
	default:
		return "", ErrInvalidStatus
	}
}

func validateStatusFilter(status string) error {
	switch strings.TrimSpace(status) {
	case "", models.BookingStatusPending, models.BookingStatusAccepted,
		models.BookingStatusRejected, models.BookingStatusCompleted:
		return nil
	default:
		return ErrInvalidStatus
	}
}
