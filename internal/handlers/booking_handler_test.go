package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/MeldryckSAID/NovaHelpBack/internal/models"
	"github.com/MeldryckSAID/NovaHelpBack/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
)

type stubBookingService struct {
	createResult   *models.Booking
	createErr      error
	decideResult   *models.Booking
	decideErr      error
	completeResult *models.Booking
	completeErr    error
	listResult     []models.Booking
	listErr        error
	getResult      *models.Booking
	getErr         error

	lastStudentID   int64
	lastHelperID    int64
	lastActorID     int64
	lastBookingID   int64
	lastOutcome     string
	lastStatus      string
	lastCreateInput services.CreateBookingInput
	listedForRole   string
}

func (s *stubBookingService) CreateBooking(_ context.Context, studentID int64, input services.CreateBookingInput) (*models.Booking, error) {
	s.lastStudentID = studentID
	s.lastCreateInput = input
	return s.createResult, s.createErr
}

func (s *stubBookingService) Decide(_ context.Context, bookingID, decidingHelperID int64, outcome string) (*models.Booking, error) {
	s.lastBookingID = bookingID
	s.lastHelperID = decidingHelperID
	s.lastOutcome = outcome
	return s.decideResult, s.decideErr
}

func (s *stubBookingService) Complete(_ context.Context, bookingID, actingUserID int64) (*models.Booking, error) {
	s.lastBookingID = bookingID
	s.lastActorID = actingUserID
	return s.completeResult, s.completeErr
}

func (s *stubBookingService) ListForStudent(_ context.Context, studentID int64, status string) ([]models.Booking, error) {
	s.lastStudentID = studentID
	s.lastStatus = status
	s.listedForRole = "student"
	return s.listResult, s.listErr
}

func (s *stubBookingService) ListForHelper(_ context.Context, helperID int64, status string) ([]models.Booking, error) {
	s.lastHelperID = helperID
	s.lastStatus = status
	s.listedForRole = "helper"
	return s.listResult, s.listErr
}

func (s *stubBookingService) GetForParticipant(_ context.Context, bookingID, actorID int64) (*models.Booking, error) {
	s.lastBookingID = bookingID
	s.lastActorID = actorID
	return s.getResult, s.getErr
}

func newBookingTestApp(service *stubBookingService, role, userID string) *fiber.App {
	handler := &BookingHandler{service: service}

	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("role", role)
		c.Locals("user_id", userID)
		return c.Next()
	})
	app.Post("/api/v1/bookings", handler.CreateBooking)
	app.Get("/api/v1/bookings", handler.ListBookings)
	app.Get("/api/v1/bookings/:id", handler.GetBooking)
	app.Put("/api/v1/bookings/:id/decision", handler.DecideBooking)
	app.Post("/api/v1/bookings/:id/complete", handler.CompleteBooking)
	return app
}

func TestCreateBookingReturnsCreatedBooking(t *testing.T) {
	service := &stubBookingService{
		createResult: &models.Booking{
			ID:            31,
			StudentID:     42,
			HelperID:      7,
			TimeSlotID:    11,
			RequestedDate: time.Date(2026, 9, 8, 0, 0, 0, 0, time.UTC),
			Status:        models.BookingStatusPending,
		},
	}
	app := newBookingTestApp(service, "student", "42")

	req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings", strings.NewReader(`{
		"helper_id": 7,
		"time_slot_id": 11,
		"requested_date": "2026-09-08",
		"message": "need help with calculus"
	}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
	if service.lastStudentID != 42 {
		t.Fatalf("expected student id 42, got %d", service.lastStudentID)
	}
	if service.lastCreateInput.HelperID != 7 || service.lastCreateInput.TimeSlotID != 11 {
		t.Fatalf("unexpected input: %+v", service.lastCreateInput)
	}
	if !service.lastCreateInput.RequestedDate.Equal(time.Date(2026, 9, 8, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected requested date %v", service.lastCreateInput.RequestedDate)
	}
	if service.lastCreateInput.Message == nil || *service.lastCreateInput.Message != "need help with calculus" {
		t.Fatalf("expected message forwarded, got %v", service.lastCreateInput.Message)
	}

	var body struct {
		Booking models.Booking `json:"booking"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.Booking.ID != 31 || body.Booking.Status != models.BookingStatusPending {
		t.Fatalf("unexpected booking in body: %+v", body.Booking)
	}
}

func TestCreateBookingForbiddenForHelpers(t *testing.T) {
	service := &stubBookingService{}
	app := newBookingTestApp(service, "helper", "7")

	req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings", strings.NewReader(`{"helper_id":7,"time_slot_id":11,"requested_date":"2026-09-08"}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", resp.StatusCode)
	}
}

func TestCreateBookingRejectsMalformedDate(t *testing.T) {
	service := &stubBookingService{}
	app := newBookingTestApp(service, "student", "42")

	req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings", strings.NewReader(`{"helper_id":7,"time_slot_id":11,"requested_date":"next tuesday"}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestCreateBookingMapsServiceErrors(t *testing.T) {
	cases := []struct {
		name       string
		serviceErr error
		wantStatus int
	}{
		{"invalid date", services.ErrInvalidDate, http.StatusBadRequest},
		{"unknown helper", services.ErrHelperNotFound, http.StatusNotFound},
		{"unknown slot", services.ErrSlotNotFound, http.StatusNotFound},
		{"invalid input", services.ErrInvalidInput, http.StatusBadRequest},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			service := &stubBookingService{createErr: tc.serviceErr}
			app := newBookingTestApp(service, "student", "42")

			req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings", strings.NewReader(`{"helper_id":7,"time_slot_id":11,"requested_date":"2026-09-08"}`))
			req.Header.Set("Content-Type", "application/json")

			resp, err := app.Test(req)
			if err != nil {
				t.Fatalf("app.Test: %v", err)
			}
			defer resp.Body.Close()

			if resp.StatusCode != tc.wantStatus {
				t.Fatalf("expected %d, got %d", tc.wantStatus, resp.StatusCode)
			}
		})
	}
}

func TestDecideBookingForwardsOutcome(t *testing.T) {
	service := &stubBookingService{
		decideResult: &models.Booking{ID: 31, HelperID: 7, Status: models.BookingStatusAccepted},
	}
	app := newBookingTestApp(service, "helper", "7")

	req := httptest.NewRequest(http.MethodPut, "/api/v1/bookings/31/decision", strings.NewReader(`{"outcome":"accepted"}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if service.lastBookingID != 31 || service.lastHelperID != 7 {
		t.Fatalf("unexpected forwarded ids: booking %d helper %d", service.lastBookingID, service.lastHelperID)
	}
	if service.lastOutcome != "accepted" {
		t.Fatalf("expected outcome forwarded, got %q", service.lastOutcome)
	}
}

func TestDecideBookingForbiddenForStudents(t *testing.T) {
	service := &stubBookingService{}
	app := newBookingTestApp(service, "student", "42")

	req := httptest.NewRequest(http.MethodPut, "/api/v1/bookings/31/decision", strings.NewReader(`{"outcome":"accepted"}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", resp.StatusCode)
	}
}

func TestDecideBookingReturnsUnprocessableForIllegalTransition(t *testing.T) {
	service := &stubBookingService{decideErr: services.ErrInvalidTransition}
	app := newBookingTestApp(service, "helper", "7")

	req := httptest.NewRequest(http.MethodPut, "/api/v1/bookings/31/decision", strings.NewReader(`{"outcome":"accepted"}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", resp.StatusCode)
	}
}

func TestCompleteBookingAllowedForBothRoles(t *testing.T) {
	for _, role := range []string{"student", "helper"} {
		t.Run(role, func(t *testing.T) {
			service := &stubBookingService{
				completeResult: &models.Booking{ID: 31, Status: models.BookingStatusCompleted},
			}
			app := newBookingTestApp(service, role, "42")

			req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings/31/complete", nil)
			resp, err := app.Test(req)
			if err != nil {
				t.Fatalf("app.Test: %v", err)
			}
			defer resp.Body.Close()

			if resp.StatusCode != http.StatusOK {
				t.Fatalf("expected 200, got %d", resp.StatusCode)
			}
			if service.lastBookingID != 31 || service.lastActorID != 42 {
				t.Fatalf("unexpected forwarded ids: booking %d actor %d", service.lastBookingID, service.lastActorID)
			}
		})
	}
}

func TestListBookingsBranchesOnRole(t *testing.T) {
	service := &stubBookingService{
		listResult: []models.Booking{{ID: 31, Status: models.BookingStatusPending}},
	}
	app := newBookingTestApp(service, "helper", "7")

	req := httptest.NewRequest(http.MethodGet, "/api/v1/bookings?status=pending", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if service.listedForRole != "helper" {
		t.Fatalf("expected the helper listing, got %q", service.listedForRole)
	}
	if service.lastHelperID != 7 || service.lastStatus != "pending" {
		t.Fatalf("unexpected filter: helper %d status %q", service.lastHelperID, service.lastStatus)
	}
}

func TestGetBookingReturnsNotFound(t *testing.T) {
	service := &stubBookingService{getErr: pgx.ErrNoRows}
	app := newBookingTestApp(service, "student", "42")

	req := httptest.NewRequest(http.MethodGet, "/api/v1/bookings/999", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}

func TestGetBookingForbiddenForOutsiders(t *testing.T) {
	service := &stubBookingService{getErr: services.ErrForbidden}
	app := newBookingTestApp(service, "student", "99")

	req := httptest.NewRequest(http.MethodGet, "/api/v1/bookings/31", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", resp.StatusCode)
	}
}
