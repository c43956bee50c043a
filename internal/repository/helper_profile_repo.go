package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/MeldryckSAID/NovaHelpBack/internal/models"
)

type HelperOnboardingInput struct {
	FullName    string
	Avatar      string
	Description string
	Specialties []string
}

type UpdateHelperProfileInput struct {
	FullName    *string
	Avatar      *string
	Description *string
	Specialties *[]string
}

type HelperListFilter struct {
	Specialty string
	Presence  string
	Search    string
	Limit     int
	Offset    int
}

const helperProfileColumns = `id, user_id, full_name, avatar, description, specialties,
			   rating, completed_sessions, presence, onboarding_complete, created_at, updated_at`

type HelperProfileRepository struct {
	db DBTX
}

func NewHelperProfileRepository(db DBTX) *HelperProfileRepository {
	return &HelperProfileRepository{db: db}
}

func (r *HelperProfileRepository) CreateEmpty(ctx context.Context, userID int64) error {
	query := `INSERT INTO helper_profiles (user_id) VALUES ($1)`
	_, err := r.db.Exec(ctx, query, userID)
	return err
}

func (r *HelperProfileRepository) GetByUserID(ctx context.Context, userID int64) (*models.HelperProfile, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM helper_profiles
		WHERE user_id = $1
	`, helperProfileColumns)

	var profile models.HelperProfile
	if err := scanHelperProfile(r.db.QueryRow(ctx, query, userID), &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *HelperProfileRepository) UpdateOnboarding(ctx context.Context, userID int64, req HelperOnboardingInput) (*models.HelperProfile, error) {
	query := fmt.Sprintf(`
		UPDATE helper_profiles
		SET full_name = $1,
			avatar = $2,
			description = NULLIF($3, ''),
			specialties = $4,
			onboarding_complete = TRUE,
			updated_at = NOW()
		WHERE user_id = $5
		RETURNING %s
	`, helperProfileColumns)

	var profile models.HelperProfile
	row := r.db.QueryRow(ctx, query, req.FullName, req.Avatar, req.Description, req.Specialties, userID)
	if err := scanHelperProfile(row, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *HelperProfileRepository) UpdatePartial(ctx context.Context, userID int64, req UpdateHelperProfileInput) (*models.HelperProfile, error) {
	query := fmt.Sprintf(`
		UPDATE helper_profiles
		SET full_name = COALESCE($1, full_name),
			avatar = COALESCE($2, avatar),
			description = COALESCE($3, description),
			specialties = COALESCE($4, specialties),
			updated_at = NOW()
		WHERE user_id = $5
		RETURNING %s
	`, helperProfileColumns)

	var profile models.HelperProfile
	row := r.db.QueryRow(ctx, query, req.FullName, req.Avatar, req.Description, req.Specialties, userID)
	if err := scanHelperProfile(row, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *HelperProfileRepository) UpdatePresence(ctx context.Context, userID int64, presence string) (*models.HelperProfile, error) {
	query := fmt.Sprintf(`
		UPDATE helper_profiles
		SET presence = $1, updated_at = NOW()
		WHERE user_id = $2
		RETURNING %s
	`, helperProfileColumns)

	var profile models.HelperProfile
	if err := scanHelperProfile(r.db.QueryRow(ctx, query, presence, userID), &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *HelperProfileRepository) IncrementCompletedSessions(ctx context.Context, userID int64) error {
	query := `
		UPDATE helper_profiles
		SET completed_sessions = completed_sessions + 1, updated_at = NOW()
		WHERE user_id = $1
	`
	_, err := r.db.Exec(ctx, query, userID)
	return err
}

func (r *HelperProfileRepository) List(ctx context.Context, filter HelperListFilter) ([]models.HelperProfile, int, error) {
	args := []any{}
	whereParts := []string{"onboarding_complete = TRUE"}

	if specialty := strings.TrimSpace(filter.Specialty); specialty != "" {
		args = append(args, specialty)
		whereParts = append(whereParts, fmt.Sprintf("$%d = ANY(specialties)", len(args)))
	}
	if presence := strings.TrimSpace(filter.Presence); presence != "" {
		args = append(args, presence)
		whereParts = append(whereParts, fmt.Sprintf("presence = $%d", len(args)))
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		args = append(args, "%"+search+"%")
		whereParts = append(whereParts, fmt.Sprintf("(full_name ILIKE $%d OR description ILIKE $%d)", len(args), len(args)))
	}

	where := strings.Join(whereParts, " AND ")

	var total int
	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM helper_profiles WHERE %s`, where)
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, filter.Limit, filter.Offset)
	query := fmt.Sprintf(`
		SELECT %s
		FROM helper_profiles
		WHERE %s
		ORDER BY rating DESC, completed_sessions DESC, id ASC
		LIMIT $%d OFFSET $%d
	`, helperProfileColumns, where, len(args)-1, len(args))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	profiles := make([]models.HelperProfile, 0)
	for rows.Next() {
		var profile models.HelperProfile
		if err := scanHelperProfile(rows, &profile); err != nil {
			return nil, 0, err
		}
		profiles = append(profiles, profile)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return profiles, total, nil
}

func (r *HelperProfileRepository) ListAll(ctx context.Context) ([]models.HelperProfile, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM helper_profiles
		WHERE onboarding_complete = TRUE
		ORDER BY id ASC
	`, helperProfileColumns)

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	profiles := make([]models.HelperProfile, 0)
	for rows.Next() {
		var profile models.HelperProfile
		if err := scanHelperProfile(rows, &profile); err != nil {
			return nil, err
		}
		profiles = append(profiles, profile)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return profiles, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanHelperProfile(row rowScanner, profile *models.HelperProfile) error {
	return row.Scan(
		&profile.ID,
		&profile.UserID,
		&profile.FullName,
		&profile.Avatar,
		&profile.Description,
		&profile.Specialties,
		&profile.Rating,
		&profile.CompletedSessions,
		&profile.Presence,
		&profile.OnboardingComplete,
		&profile.CreatedAt,
		&profile.UpdatedAt,
	)
}
