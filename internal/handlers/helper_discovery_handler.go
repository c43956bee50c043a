package handlers

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/MeldryckSAID/NovaHelpBack/internal/models"
	"github.com/MeldryckSAID/NovaHelpBack/internal/repository"
	"github.com/MeldryckSAID/NovaHelpBack/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
)

type helperDiscoveryRepository interface {
	List(ctx context.Context, filter repository.HelperListFilter) ([]models.HelperProfile, int, error)
	GetByUserID(ctx context.Context, userID int64) (*models.HelperProfile, error)
}

type studentDiscoveryRepository interface {
	GetByUserID(ctx context.Context, userID int64) (*models.StudentProfile, error)
}

type helperSlotLister interface {
	ListForHelper(ctx context.Context, helperID int64) ([]models.TimeSlot, error)
}

type helperRecommender interface {
	GetRecommendedHelpers(ctx context.Context, studentProfile *models.StudentProfile, limit int) ([]models.HelperWithScore, error)
}

type HelperDiscoveryHandler struct {
	helperRepo            helperDiscoveryRepository
	studentProfileRepo    studentDiscoveryRepository
	slotRepo              helperSlotLister
	recommendationService helperRecommender
}

func NewHelperDiscoveryHandler(
	helperRepo helperDiscoveryRepository,
	studentProfileRepo studentDiscoveryRepository,
	slotRepo helperSlotLister,
	recommendationService helperRecommender,
) *HelperDiscoveryHandler {
	return &HelperDiscoveryHandler{
		helperRepo:            helperRepo,
		studentProfileRepo:    studentProfileRepo,
		slotRepo:              slotRepo,
		recommendationService: recommendationService,
	}
}

func (h *HelperDiscoveryHandler) ListHelpers(c *fiber.Ctx) error {
	page := parsePositiveInt(c.Query("page"), 1)
	limit := parsePositiveInt(c.Query("limit"), defaultPageLimit)
	if limit > maxPageLimit {
		limit = maxPageLimit
	}

	presence := strings.TrimSpace(c.Query("presence"))
	if presence != "" {
		if validationErr := validatePresence(presence); validationErr != "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": validationErr})
		}
	}

	helpers, total, err := h.helperRepo.List(c.Context(), repository.HelperListFilter{
		Specialty: strings.TrimSpace(c.Query("specialty")),
		Presence:  presence,
		Search:    strings.TrimSpace(c.Query("search")),
		Offset:    (page - 1) * limit,
		Limit:     limit,
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch helpers"})
	}

	return c.JSON(fiber.Map{
		"helpers":    helpers,
		"pagination": buildPaginationMeta(page, limit, total),
	})
}

func (h *HelperDiscoveryHandler) GetRecommendedHelpers(c *fiber.Ctx) error {
	role, ok := c.Locals("role").(string)
	if !ok || role != "student" {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Forbidden"})
	}

	userID, err := parseProfileUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	limit := parsePositiveInt(c.Query("limit"), defaultPageLimit)
	if limit > maxPageLimit {
		limit = maxPageLimit
	}

	studentProfile, err := h.studentProfileRepo.GetByUserID(c.Context(), userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Profile not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch student profile"})
	}

	helpers, err := h.recommendationService.GetRecommendedHelpers(c.Context(), studentProfile, limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch recommended helpers"})
	}

	return c.JSON(fiber.Map{"helpers": helpers})
}

// GetHelperDetail returns the helper profile together with its weekly slots
// and the concrete dates each slot can be booked on.
func (h *HelperDiscoveryHandler) GetHelperDetail(c *fiber.Ctx) error {
	helperID, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || helperID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid helper id"})
	}

	helper, err := h.helperRepo.GetByUserID(c.Context(), helperID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Helper not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch helper"})
	}

	slots, err := h.slotRepo.ListForHelper(c.Context(), helperID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch helper availability"})
	}

	now := time.Now()
	slotsWithDates := make([]models.TimeSlotWithDates, 0, len(slots))
	for _, slot := range slots {
		slotsWithDates = append(slotsWithDates, models.TimeSlotWithDates{
			TimeSlot:       slot,
			CandidateDates: services.CollectCandidateDates(&slot, services.DefaultHorizonDays, now),
		})
	}

	return c.JSON(fiber.Map{
		"helper": models.HelperDetail{
			HelperProfile: *helper,
			TimeSlots:     slotsWithDates,
		},
	})
}

func parsePositiveInt(raw string, fallback int) int {
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value <= 0 {
		return fallback
	}
	return value
}

var _ services.HelperMatcher = (*repository.HelperProfileRepository)(nil)
