package services

import (
	"context"

	"github.com/MeldryckSAID/NovaHelpBack/internal/models"
	"github.com/MeldryckSAID/NovaHelpBack/internal/repository"
)

type StudentProfileUpdater interface {
	UpdatePartial(ctx context.Context, userID int64, req repository.UpdateStudentProfileInput) (*models.StudentProfile, error)
}

type HelperProfileUpdater interface {
	UpdatePartial(ctx context.Context, userID int64, req repository.UpdateHelperProfileInput) (*models.HelperProfile, error)
	UpdatePresence(ctx context.Context, userID int64, presence string) (*models.HelperProfile, error)
}

type ProfileService struct {
	studentProfileRepo StudentProfileUpdater
	helperProfileRepo  HelperProfileUpdater
}

func NewProfileService(studentProfileRepo StudentProfileUpdater, helperProfileRepo HelperProfileUpdater) *ProfileService {
	return &ProfileService{
		studentProfileRepo: studentProfileRepo,
		helperProfileRepo:  helperProfileRepo,
	}
}

func (s *ProfileService) UpdateStudentProfile(ctx context.Context, userID int64, req repository.UpdateStudentProfileInput) (*models.StudentProfile, error) {
	return s.studentProfileRepo.UpdatePartial(ctx, userID, req)
}

func (s *ProfileService) UpdateHelperProfile(ctx context.Context, userID int64, req repository.UpdateHelperProfileInput) (*models.HelperProfile, error) {
	return s.helperProfileRepo.UpdatePartial(ctx, userID, req)
}

func (s *ProfileService) UpdateHelperPresence(ctx context.Context, userID int64, presence string) (*models.HelperProfile, error) {
	return s.helperProfileRepo.UpdatePresence(ctx, userID, presence)
}
