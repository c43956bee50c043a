package handlers

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/MeldryckSAID/NovaHelpBack/internal/models"
	"github.com/MeldryckSAID/NovaHelpBack/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
)

type bookingApplicationService interface {
	CreateBooking(ctx context.Context, studentID int64, input services.CreateBookingInput) (*models.Booking, error)
	Decide(ctx context.Context, bookingID, decidingHelperID int64, outcome string) (*models.Booking, error)
	Complete(ctx context.Context, bookingID, actingUserID int64) (*models.Booking, error)
	ListForStudent(ctx context.Context, studentID int64, status string) ([]models.Booking, error)
	ListForHelper(ctx context.Context, helperID int64, status string) ([]models.Booking, error)
	GetForParticipant(ctx context.Context, bookingID, actorID int64) (*models.Booking, error)
}

type BookingHandler struct {
	service bookingApplicationService
}

func NewBookingHandler(service *services.BookingService) *BookingHandler {
	return &BookingHandler{service: service}
}

type createBookingRequest struct {
	HelperID      int64   `json:"helper_id"`
	TimeSlotID    int64   `json:"time_slot_id"`
	RequestedDate string  `json:"requested_date"`
	Message       *string `json:"message"`
}

type decideBookingRequest struct {
	Outcome string `json:"outcome"`
}

func (h *BookingHandler) CreateBooking(c *fiber.Ctx) error {
	role, ok := c.Locals("role").(string)
	if !ok || role != "student" {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Forbidden"})
	}

	studentID, err := parseProfileUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	var req createBookingRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	requestedDate, err := time.Parse("2006-01-02", strings.TrimSpace(req.RequestedDate))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "requested_date must be a valid YYYY-MM-DD date"})
	}

	booking, err := h.service.CreateBooking(c.Context(), studentID, services.CreateBookingInput{
		HelperID:      req.HelperID,
		TimeSlotID:    req.TimeSlotID,
		RequestedDate: requestedDate,
		Message:       req.Message,
	})
	if err != nil {
		return mapBookingError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"booking": booking})
}

func (h *BookingHandler) DecideBooking(c *fiber.Ctx) error {
	role, ok := c.Locals("role").(string)
	if !ok || role != "helper" {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Forbidden"})
	}

	helperID, err := parseProfileUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	bookingID, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || bookingID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid booking id"})
	}

	var req decideBookingRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	booking, err := h.service.Decide(c.Context(), bookingID, helperID, req.Outcome)
	if err != nil {
		return mapBookingError(c, err)
	}

	return c.JSON(fiber.Map{"booking": booking})
}

func (h *BookingHandler) CompleteBooking(c *fiber.Ctx) error {
	role, ok := c.Locals("role").(string)
	if !ok || (role != "student" && role != "helper") {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Forbidden"})
	}

	userID, err := parseProfileUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	bookingID, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || bookingID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid booking id"})
	}

	booking, err := h.service.Complete(c.Context(), bookingID, userID)
	if err != nil {
		return mapBookingError(c, err)
	}

	return c.JSON(fiber.Map{"booking": booking})
}

func (h *BookingHandler) ListBookings(c *fiber.Ctx) error {
	role, ok := c.Locals("role").(string)
	if !ok || (role != "student" && role != "helper") {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Forbidden"})
	}

	userID, err := parseProfileUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	status := strings.TrimSpace(c.Query("status"))

	var bookings []models.Booking
	if role == "helper" {
		bookings, err = h.service.ListForHelper(c.Context(), userID, status)
	} else {
		bookings, err = h.service.ListForStudent(c.Context(), userID, status)
	}
	if err != nil {
		return mapBookingError(c, err)
	}

	return c.JSON(fiber.Map{"bookings": bookings})
}

func (h *BookingHandler) GetBooking(c *fiber.Ctx) error {
	role, ok := c.Locals("role").(string)
	if !ok || (role != "student" && role != "helper") {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Forbidden"})
	}

	userID, err := parseProfileUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	bookingID, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || bookingID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid booking id"})
	}

	booking, err := h.service.GetForParticipant(c.Context(), bookingID, userID)
	if err != nil {
		return mapBookingError(c, err)
	}

	return c.JSON(fiber.Map{"booking": booking})
}

func mapBookingError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrInvalidInput), errors.Is(err, services.ErrInvalidStatus):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, services.ErrInvalidDate):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "requested_date must be a future date matching the slot weekday"})
	case errors.Is(err, services.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Forbidden"})
	case errors.Is(err, services.ErrInvalidTransition):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, services.ErrHelperNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Helper not found"})
	case errors.Is(err, services.ErrSlotNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Slot not found"})
	case errors.Is(err, pgx.ErrNoRows):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Booking not found"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to process booking request"})
	}
}
