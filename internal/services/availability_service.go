package services

import (
	"context"
	"errors"
	"iter"
	"strings"
	"time"

	"github.com/MeldryckSAID/NovaHelpBack/internal/models"
	"github.com/MeldryckSAID/NovaHelpBack/internal/repository"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrInvalidRange     = errors.New("invalid time range")
	ErrInvalidWeekday   = errors.New("invalid weekday")
	ErrCapacityExceeded = errors.New("slot capacity exceeded")
	ErrSlotNotFound     = errors.New("time slot not found")
)

// MaxSlotsPerHelper caps how many recurring slots a helper may publish.
const MaxSlotsPerHelper = 5

// DefaultHorizonDays is how far ahead candidate dates are derived.
const DefaultHorizonDays = 28

var weekdays = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

type AvailabilityService struct {
	db       *pgxpool.Pool
	slotRepo *repository.TimeSlotRepository
}

func NewAvailabilityService(db *pgxpool.Pool, slotRepo *repository.TimeSlotRepository) *AvailabilityService {
	return &AvailabilityService{db: db, slotRepo: slotRepo}
}

type AddSlotInput struct {
	Weekday   string
	StartTime string
	EndTime   string
	Recurring bool
}

func (s *AvailabilityService) AddSlot(ctx context.Context, helperID int64, input AddSlotInput) (*models.TimeSlot, error) {
	weekday, ok := ParseWeekday(input.Weekday)
	if !ok {
		return nil, ErrInvalidWeekday
	}

	start, err := parseWallClock(input.StartTime)
	if err != nil {
		return nil, ErrInvalidRange
	}
	end, err := parseWallClock(input.EndTime)
	if err != nil {
		return nil, ErrInvalidRange
	}
	if !start.Before(end) {
		return nil, ErrInvalidRange
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	txSlotRepo := repository.NewTimeSlotRepository(tx)

	// Serialize per helper so two concurrent adds cannot both pass the
	// capacity check.
	if _, err := tx.Exec(ctx, "SELECT pg_advisory_xact_lock($1)", helperID); err != nil {
		return nil, err
	}

	count, err := txSlotRepo.CountForHelper(ctx, helperID)
	if err != nil {
		return nil, err
	}
	if count >= MaxSlotsPerHelper {
		return nil, ErrCapacityExceeded
	}

	slot, err := txSlotRepo.Create(ctx, repository.CreateTimeSlotInput{
		HelperID:  helperID,
		Weekday:   weekdayName(weekday),
		StartTime: input.StartTime,
		EndTime:   input.EndTime,
		Recurring: input.Recurring,
	})
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return slot, nil
}

func (s *AvailabilityService) RemoveSlot(ctx context.Context, helperID, slotID int64) error {
	removed, err := s.slotRepo.Delete(ctx, helperID, slotID)
	if err != nil {
		return err
	}
	if !removed {
		return ErrSlotNotFound
	}
	return nil
}

func (s *AvailabilityService) ListSlots(ctx context.Context, helperID int64) ([]models.TimeSlot, error) {
	return s.slotRepo.ListForHelper(ctx, helperID)
}

// CandidateDates derives the concrete future dates a slot can be booked on:
// every date within horizonDays after ref whose weekday matches the slot's.
// The sequence is lazy and restartable; nothing is persisted.
func CandidateDates(slot *models.TimeSlot, horizonDays int, ref time.Time) iter.Seq[time.Time] {
	return func(yield func(time.Time) bool) {
		weekday, ok := ParseWeekday(slot.Weekday)
		if !ok {
			return
		}

		day := time.Date(ref.Year(), ref.Month(), ref.Day(), 0, 0, 0, 0, time.UTC)
		for i := 1; i <= horizonDays; i++ {
			date := day.AddDate(0, 0, i)
			if date.Weekday() != weekday {
				continue
			}
			if !yield(date) {
				return
			}
		}
	}
}

// CollectCandidateDates materializes CandidateDates as ISO dates for API
// responses.
func CollectCandidateDates(slot *models.TimeSlot, horizonDays int, ref time.Time) []string {
	dates := make([]string, 0, horizonDays/7+1)
	for date := range CandidateDates(slot, horizonDays, ref) {
		dates = append(dates, date.Format("2006-01-02"))
	}
	return dates
}

func ParseWeekday(name string) (time.Weekday, bool) {
	weekday, ok := weekdays[strings.ToLower(strings.TrimSpace(name))]
	return weekday, ok
}

func weekdayName(weekday time.Weekday) string {
	return strings.ToLower(weekday.String())
}

func parseWallClock(value string) (time.Time, error) {
	return time.Parse("15:04", strings.TrimSpace(value))
}
