package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/MeldryckSAID/NovaHelpBack/internal/models"
	"github.com/MeldryckSAID/NovaHelpBack/internal/repository"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
)

var (
	testDBOnce sync.Once
	testDBPool *pgxpool.Pool
	testDBErr  error
)

func TestBookingServiceRequestAndAcceptFlow(t *testing.T) {
	ctx := context.Background()
	pool := integrationTestPool(t)
	bookingService := newIntegrationBookingService(pool)
	availabilityService := NewAvailabilityService(pool, repository.NewTimeSlotRepository(pool))

	studentID := createTestAccount(t, ctx, pool, "student")
	helperID := createTestAccount(t, ctx, pool, "helper")
	t.Cleanup(func() { cleanupTestUsers(t, ctx, pool, studentID, helperID) })

	slot, err := availabilityService.AddSlot(ctx, helperID, AddSlotInput{
		Weekday:   "tuesday",
		StartTime: "14:00",
		EndTime:   "18:00",
		Recurring: true,
	})
	if err != nil {
		t.Fatalf("AddSlot: %v", err)
	}

	requestedDate := nextIntegrationWeekday(time.Tuesday)
	booking, err := bookingService.CreateBooking(ctx, studentID, CreateBookingInput{
		HelperID:      helperID,
		TimeSlotID:    slot.ID,
		RequestedDate: requestedDate,
	})
	if err != nil {
		t.Fatalf("CreateBooking: %v", err)
	}
	if booking.Status != models.BookingStatusPending {
		t.Fatalf("expected pending booking, got %q", booking.Status)
	}

	accepted, err := bookingService.Decide(ctx, booking.ID, helperID, models.BookingStatusAccepted)
	if err != nil {
		t.Fatalf("Decide: %v", err)
	}
	if accepted.Status != models.BookingStatusAccepted {
		t.Fatalf("expected accepted booking, got %q", accepted.Status)
	}

	completed, err := bookingService.Complete(ctx, booking.ID, studentID)
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if completed.Status != models.BookingStatusCompleted {
		t.Fatalf("expected completed booking, got %q", completed.Status)
	}

	helperProfile, err := repository.NewHelperProfileRepository(pool).GetByUserID(ctx, helperID)
	if err != nil {
		t.Fatalf("GetByUserID helper profile: %v", err)
	}
	if helperProfile.CompletedSessions != 1 {
		t.Fatalf("expected completed_sessions 1, got %d", helperProfile.CompletedSessions)
	}
}

func TestBookingServiceListsBookingsForBothSides(t *testing.T) {
	ctx := context.Background()
	pool := integrationTestPool(t)
	bookingService := newIntegrationBookingService(pool)
	availabilityService := NewAvailabilityService(pool, repository.NewTimeSlotRepository(pool))

	studentID := createTestAccount(t, ctx, pool, "student")
	helperID := createTestAccount(t, ctx, pool, "helper")
	t.Cleanup(func() { cleanupTestUsers(t, ctx, pool, studentID, helperID) })

	slot, err := availabilityService.AddSlot(ctx, helperID, AddSlotInput{
		Weekday:   "friday",
		StartTime: "09:00",
		EndTime:   "12:00",
		Recurring: true,
	})
	if err != nil {
		t.Fatalf("AddSlot: %v", err)
	}

	booking, err := bookingService.CreateBooking(ctx, studentID, CreateBookingInput{
		HelperID:      helperID,
		TimeSlotID:    slot.ID,
		RequestedDate: nextIntegrationWeekday(time.Friday),
	})
	if err != nil {
		t.Fatalf("CreateBooking: %v", err)
	}

	studentBookings, err := bookingService.ListForStudent(ctx, studentID, models.BookingStatusPending)
	if err != nil {
		t.Fatalf("ListForStudent: %v", err)
	}
	if len(studentBookings) != 1 || studentBookings[0].ID != booking.ID {
		t.Fatalf("expected student to see booking %d, got %+v", booking.ID, studentBookings)
	}

	helperBookings, err := bookingService.ListForHelper(ctx, helperID, "")
	if err != nil {
		t.Fatalf("ListForHelper: %v", err)
	}
	if len(helperBookings) != 1 || helperBookings[0].ID != booking.ID {
		t.Fatalf("expected helper to see booking %d, got %+v", booking.ID, helperBookings)
	}
}

func TestAvailabilityServiceEnforcesSlotCap(t *testing.T) {
	ctx := context.Background()
	pool := integrationTestPool(t)
	availabilityService := NewAvailabilityService(pool, repository.NewTimeSlotRepository(pool))

	helperID := createTestAccount(t, ctx, pool, "helper")
	t.Cleanup(func() { cleanupTestUsers(t, ctx, pool, helperID) })

	weekdays := []string{"monday", "tuesday", "wednesday", "thursday", "friday"}
	for _, weekday := range weekdays {
		if _, err := availabilityService.AddSlot(ctx, helperID, AddSlotInput{
			Weekday:   weekday,
			StartTime: "10:00",
			EndTime:   "12:00",
			Recurring: true,
		}); err != nil {
			t.Fatalf("AddSlot(%s): %v", weekday, err)
		}
	}

	_, err := availabilityService.AddSlot(ctx, helperID, AddSlotInput{
		Weekday:   "saturday",
		StartTime: "10:00",
		EndTime:   "12:00",
		Recurring: true,
	})
	if err != ErrCapacityExceeded {
		t.Fatalf("expected ErrCapacityExceeded, got %v", err)
	}
}

func integrationTestPool(t *testing.T) *pgxpool.Pool {
	t.Helper()

	testDBOnce.Do(func() {
		_ = godotenv.Load(".env")
		_ = godotenv.Load(filepath.Join("..", "..", ".env"))

		dbURL := os.Getenv("DB_URL")
		if dbURL == "" {
			testDBErr = fmt.Errorf("DB_URL is not set")
			return
		}

		cfg, err := pgxpool.ParseConfig(dbURL)
		if err != nil {
			testDBErr = err
			return
		}

		testDBPool, testDBErr = pgxpool.NewWithConfig(context.Background(), cfg)
		if testDBErr != nil {
			return
		}
		testDBErr = testDBPool.Ping(context.Background())
	})

	if testDBErr != nil {
		t.Skipf("skipping integration test: %v", testDBErr)
	}
	return testDBPool
}

func newIntegrationBookingService(pool *pgxpool.Pool) *BookingService {
	return NewBookingService(
		repository.NewBookingRepository(pool),
		repository.NewTimeSlotRepository(pool),
		repository.NewUserRepository(pool),
		repository.NewHelperProfileRepository(pool),
	)
}

func nextIntegrationWeekday(weekday time.Weekday) time.Time {
	date := time.Now().AddDate(0, 0, 1)
	for date.Weekday() != weekday {
		date = date.AddDate(0, 0, 1)
	}
	return time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
}

func createTestAccount(t *testing.T, ctx context.Context, pool *pgxpool.Pool, role string) int64 {
	t.Helper()

	userRepo := repository.NewUserRepository(pool)
	user := &models.User{
		Email:        fmt.Sprintf("booking-test-%s-%d@example.com", role, time.Now().UnixNano()),
		PasswordHash: "test-hash",
		Role:         role,
	}
	if err := userRepo.CreateUser(ctx, user); err != nil {
		t.Fatalf("CreateUser(%s): %v", role, err)
	}

	if role == "student" {
		studentProfileRepo := repository.NewStudentProfileRepository(pool)
		if err := studentProfileRepo.CreateEmpty(ctx, user.ID); err != nil {
			t.Fatalf("CreateEmpty student profile: %v", err)
		}
		return user.ID
	}

	helperProfileRepo := repository.NewHelperProfileRepository(pool)
	if err := helperProfileRepo.CreateEmpty(ctx, user.ID); err != nil {
		t.Fatalf("CreateEmpty helper profile: %v", err)
	}
	if _, err := helperProfileRepo.UpdateOnboarding(ctx, user.ID, repository.HelperOnboardingInput{
		FullName:    "Test Helper",
		Avatar:      "avatar-1",
		Description: "Test description",
		Specialties: []string{"maths"},
	}); err != nil {
		t.Fatalf("UpdateOnboarding helper profile: %v", err)
	}

	return user.ID
}

func cleanupTestUsers(t *testing.T, ctx context.Context, pool *pgxpool.Pool, userIDs ...int64) {
	t.Helper()

	if len(userIDs) == 0 {
		return
	}

	if _, err := pool.Exec(ctx, "DELETE FROM messages WHERE conversation_id IN (SELECT id FROM conversations WHERE student_id = ANY($1) OR helper_id = ANY($1))", userIDs); err != nil {
		t.Fatalf("cleanup messages: %v", err)
	}
	if _, err := pool.Exec(ctx, "DELETE FROM conversations WHERE student_id = ANY($1) OR helper_id = ANY($1)", userIDs); err != nil {
		t.Fatalf("cleanup conversations: %v", err)
	}
	if _, err := pool.Exec(ctx, "DELETE FROM bookings WHERE student_id = ANY($1) OR helper_id = ANY($1)", userIDs); err != nil {
		t.Fatalf("cleanup bookings: %v", err)
	}
	if _, err := pool.Exec(ctx, "DELETE FROM time_slots WHERE helper_id = ANY($1)", userIDs); err != nil {
		t.Fatalf("cleanup time slots: %v", err)
	}
	if _, err := pool.Exec(ctx, "DELETE FROM users WHERE id = ANY($1)", userIDs); err != nil {
		t.Fatalf("cleanup users: %v", err)
	}
}
