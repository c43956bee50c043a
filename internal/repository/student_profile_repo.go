package repository

import (
	"context"

	"github.com/MeldryckSAID/NovaHelpBack/internal/models"
)

type StudentOnboardingInput struct {
	FullName      string
	Avatar        string
	Needs         string
	InterestAreas []string
}

type UpdateStudentProfileInput struct {
	FullName      *string
	Avatar        *string
	Needs         *string
	InterestAreas *[]string
}

type StudentProfileRepository struct {
	db DBTX
}

func NewStudentProfileRepository(db DBTX) *StudentProfileRepository {
	return &StudentProfileRepository{db: db}
}

func (r *StudentProfileRepository) CreateEmpty(ctx context.Context, userID int64) error {
	query := `INSERT INTO student_profiles (user_id) VALUES ($1)`
	_, err := r.db.Exec(ctx, query, userID)
	return err
}

func (r *StudentProfileRepository) GetByUserID(ctx context.Context, userID int64) (*models.StudentProfile, error) {
	query := `
		SELECT id, user_id, full_name, avatar, needs, interest_areas,
			   onboarding_complete, created_at, updated_at
		FROM student_profiles
		WHERE user_id = $1
	`
	var profile models.StudentProfile
	err := r.db.QueryRow(ctx, query, userID).Scan(
		&profile.ID,
		&profile.UserID,
		&profile.FullName,
		&profile.Avatar,
		&profile.Needs,
		&profile.InterestAreas,
		&profile.OnboardingComplete,
		&profile.CreatedAt,
		&profile.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *StudentProfileRepository) UpdateOnboarding(ctx context.Context, userID int64, req StudentOnboardingInput) (*models.StudentProfile, error) {
	query := `
		UPDATE student_profiles
		SET full_name = $1,
			avatar = $2,
			needs = NULLIF($3, ''),
			interest_areas = $4,
			onboarding_complete = TRUE,
			updated_at = NOW()
		WHERE user_id = $5
		RETURNING id, user_id, full_name, avatar, needs, interest_areas,
				  onboarding_complete, created_at, updated_at
	`
	var profile models.StudentProfile
	err := r.db.QueryRow(ctx, query,
		req.FullName,
		req.Avatar,
		req.Needs,
		req.InterestAreas,
		userID,
	).Scan(
		&profile.ID,
		&profile.UserID,
		&profile.FullName,
		&profile.Avatar,
		&profile.Needs,
		&profile.InterestAreas,
		&profile.OnboardingComplete,
		&profile.CreatedAt,
		&profile.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *StudentProfileRepository) UpdatePartial(ctx context.Context, userID int64, req UpdateStudentProfileInput) (*models.StudentProfile, error) {
	query := `
		UPDATE student_profiles
		SET full_name = COALESCE($1, full_name),
			avatar = COALESCE($2, avatar),
			needs = COALESCE($3, needs),
			interest_areas = COALESCE($4, interest_areas),
			updated_at = NOW()
		WHERE user_id = $5
		RETURNING id, user_id, full_name, avatar, needs, interest_areas,
				  onboarding_complete, created_at, updated_at
	`
	var profile models.StudentProfile
	err := r.db.QueryRow(ctx, query,
		req.FullName,
		req.Avatar,
		req.Needs,
		req.InterestAreas,
		userID,
	).Scan(
		&profile.ID,
		&profile.UserID,
		&profile.FullName,
		&profile.Avatar,
		&profile.Needs,
		&profile.InterestAreas,
		&profile.OnboardingComplete,
		&profile.CreatedAt,
		&profile.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &profile, nil
}
