package handlers

import (
	"context"
	"errors"
	"strconv"

	"github.com/MeldryckSAID/NovaHelpBack/internal/models"
	"github.com/MeldryckSAID/NovaHelpBack/internal/services"
	"github.com/gofiber/fiber/v2"
)

type availabilityApplicationService interface {
	AddSlot(ctx context.Context, helperID int64, input services.AddSlotInput) (*models.TimeSlot, error)
	RemoveSlot(ctx context.Context, helperID, slotID int64) error
	ListSlots(ctx context.Context, helperID int64) ([]models.TimeSlot, error)
}

type AvailabilityHandler struct {
	service availabilityApplicationService
}

func NewAvailabilityHandler(service *services.AvailabilityService) *AvailabilityHandler {
	return &AvailabilityHandler{service: service}
}

type addSlotRequest struct {
	Weekday   string `json:"weekday"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	Recurring *bool  `json:"recurring"`
}

func (h *AvailabilityHandler) AddSlot(c *fiber.Ctx) error {
	role, ok := c.Locals("role").(string)
	if !ok || role != "helper" {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Forbidden"})
	}

	helperID, err := parseProfileUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	var req addSlotRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	recurring := true
	if req.Recurring != nil {
		recurring = *req.Recurring
	}

	slot, err := h.service.AddSlot(c.Context(), helperID, services.AddSlotInput{
		Weekday:   req.Weekday,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Recurring: recurring,
	})
	if err != nil {
		return mapAvailabilityError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"slot": slot})
}

func (h *AvailabilityHandler) RemoveSlot(c *fiber.Ctx) error {
	role, ok := c.Locals("role").(string)
	if !ok || role != "helper" {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Forbidden"})
	}

	helperID, err := parseProfileUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	slotID, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || slotID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid slot id"})
	}

	if err := h.service.RemoveSlot(c.Context(), helperID, slotID); err != nil {
		return mapAvailabilityError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *AvailabilityHandler) ListSlots(c *fiber.Ctx) error {
	role, ok := c.Locals("role").(string)
	if !ok || role != "helper" {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Forbidden"})
	}

	helperID, err := parseProfileUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	slots, err := h.service.ListSlots(c.Context(), helperID)
	if err != nil {
		return mapAvailabilityError(c, err)
	}

	return c.JSON(fiber.Map{"slots": slots})
}

func mapAvailabilityError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrInvalidWeekday), errors.Is(err, services.ErrInvalidRange):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, services.ErrCapacityExceeded):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": "Slot limit reached"})
	case errors.Is(err, services.ErrSlotNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Slot not found"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to process availability request"})
	}
}
