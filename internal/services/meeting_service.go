package services

import (
	"context"

	"github.com/MeldryckSAID/NovaHelpBack/internal/models"
)

// SessionNotifier is the boundary to the meeting UI: it tells both
// participants to tear down their media when a session ends.
type SessionNotifier interface {
	SessionEnded(bookingID, studentID, helperID int64)
}

type bookingLifecycle interface {
	GetForParticipant(ctx context.Context, bookingID, actorID int64) (*models.Booking, error)
	Complete(ctx context.Context, bookingID, actingUserID int64) (*models.Booking, error)
}

type MeetingService struct {
	bookings bookingLifecycle
	notifier SessionNotifier
}

func NewMeetingService(bookings bookingLifecycle, notifier SessionNotifier) *MeetingService {
	return &MeetingService{bookings: bookings, notifier: notifier}
}

// CanJoin is re-evaluated on every call so a concurrent status change is
// reflected on the next check.
func CanJoin(booking *models.Booking) bool {
	return booking != nil && booking.Status == models.BookingStatusAccepted
}

// JoinState returns the booking together with whether the meeting may be
// joined right now.
func (s *MeetingService) JoinState(ctx context.Context, bookingID, actorID int64) (*models.Booking, bool, error) {
	booking, err := s.bookings.GetForParticipant(ctx, bookingID, actorID)
	if err != nil {
		return nil, false, err
	}
	return booking, CanJoin(booking), nil
}

// EndSession completes the booking and signals media teardown. A repeat call
// on an already completed booking fails with ErrInvalidTransition and emits
// no signal.
func (s *MeetingService) EndSession(ctx context.Context, bookingID, actingUserID int64) (*models.Booking, error) {
	booking, err := s.bookings.Complete(ctx, bookingID, actingUserID)
	if err != nil {
		return nil, err
	}

	if s.notifier != nil {
		s.notifier.SessionEnded(booking.ID, booking.StudentID, booking.HelperID)
	}
	return booking, nil
}
