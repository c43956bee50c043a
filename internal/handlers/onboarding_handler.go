package handlers

import (
	"context"
	"strconv"

	"github.com/MeldryckSAID/NovaHelpBack/internal/models"
	"github.com/MeldryckSAID/NovaHelpBack/internal/repository"
	"github.com/gofiber/fiber/v2"
)

type studentOnboardingProfileStore interface {
	UpdateOnboarding(ctx context.Context, userID int64, req repository.StudentOnboardingInput) (*models.StudentProfile, error)
}

type helperOnboardingProfileStore interface {
	UpdateOnboarding(ctx context.Context, userID int64, req repository.HelperOnboardingInput) (*models.HelperProfile, error)
}

type OnboardingHandler struct {
	studentProfileRepo studentOnboardingProfileStore
	helperProfileRepo  helperOnboardingProfileStore
}

func NewOnboardingHandler(studentProfileRepo studentOnboardingProfileStore, helperProfileRepo helperOnboardingProfileStore) *OnboardingHandler {
	return &OnboardingHandler{
		studentProfileRepo: studentProfileRepo,
		helperProfileRepo:  helperProfileRepo,
	}
}

type studentOnboardingRequest struct {
	FullName      string   `json:"full_name"`
	Avatar        string   `json:"avatar"`
	Needs         string   `json:"needs"`
	InterestAreas []string `json:"interest_areas"`
}

type helperOnboardingRequest struct {
	FullName    string   `json:"full_name"`
	Avatar      string   `json:"avatar"`
	Description string   `json:"description"`
	Specialties []string `json:"specialties"`
}

func (h *OnboardingHandler) StudentOnboarding(c *fiber.Ctx) error {
	role, ok := c.Locals("role").(string)
	if !ok || role != "student" {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Forbidden"})
	}

	userID, err := parseUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	var req studentOnboardingRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if validationErr := validateStudentOnboardingRequest(req); validationErr != "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": validationErr})
	}

	profile, err := h.studentProfileRepo.UpdateOnboarding(c.Context(), userID, repository.StudentOnboardingInput{
		FullName:      req.FullName,
		Avatar:        req.Avatar,
		Needs:         req.Needs,
		InterestAreas: req.InterestAreas,
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update profile"})
	}

	return c.JSON(fiber.Map{
		"profile":             profile,
		"onboarding_complete": profile.OnboardingComplete,
	})
}

func (h *OnboardingHandler) HelperOnboarding(c *fiber.Ctx) error {
	role, ok := c.Locals("role").(string)
	if !ok || role != "helper" {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Forbidden"})
	}

	userID, err := parseUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	var req helperOnboardingRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if validationErr := validateHelperOnboardingRequest(req); validationErr != "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": validationErr})
	}

	profile, err := h.helperProfileRepo.UpdateOnboarding(c.Context(), userID, repository.HelperOnboardingInput{
		FullName:    req.FullName,
		Avatar:      req.Avatar,
		Description: req.Description,
		Specialties: req.Specialties,
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update profile"})
	}

	return c.JSON(fiber.Map{
		"profile":             profile,
		"onboarding_complete": profile.OnboardingComplete,
	})
}

func parseUserID(c *fiber.Ctx) (int64, error) {
	userIDValue := c.Locals("user_id")
	userIDStr, ok := userIDValue.(string)
	if !ok {
		return 0, strconv.ErrSyntax
	}
	return strconv.ParseInt(userIDStr, 10, 64)
}
