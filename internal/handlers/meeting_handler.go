package handlers

import (
	"context"
	"strconv"

	"github.com/MeldryckSAID/NovaHelpBack/internal/models"
	"github.com/MeldryckSAID/NovaHelpBack/internal/services"
	"github.com/gofiber/fiber/v2"
)

type meetingApplicationService interface {
	JoinState(ctx context.Context, bookingID, actorID int64) (*models.Booking, bool, error)
	EndSession(ctx context.Context, bookingID, actingUserID int64) (*models.Booking, error)
}

type MeetingHandler struct {
	service meetingApplicationService
}

func NewMeetingHandler(service *services.MeetingService) *MeetingHandler {
	return &MeetingHandler{service: service}
}

// GetJoinState tells the client whether the meeting room may be entered.
// Clients poll this before rendering the room.
func (h *MeetingHandler) GetJoinState(c *fiber.Ctx) error {
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

	booking, joinable, err := h.service.JoinState(c.Context(), bookingID, userID)
	if err != nil {
		return mapBookingError(c, err)
	}

	return c.JSON(fiber.Map{
		"booking":  booking,
		"joinable": joinable,
	})
}

func (h *MeetingHandler) EndSession(c *fiber.Ctx) error {
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

	booking, err := h.service.EndSession(c.Context(), bookingID, userID)
	if err != nil {
		return mapBookingError(c, err)
	}

	return c.JSON(fiber.Map{"booking": booking})
}
