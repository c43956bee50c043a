package repository

import (
	"context"

	"github.com/MeldryckSAID/NovaHelpBack/internal/models"
)

type CreateTimeSlotInput struct {
	HelperID  int64
	Weekday   string
	StartTime string
	EndTime   string
	Recurring bool
}

type TimeSlotRepository struct {
	db DBTX
}

func NewTimeSlotRepository(db DBTX) *TimeSlotRepository {
	return &TimeSlotRepository{db: db}
}

func (r *TimeSlotRepository) Create(ctx context.Context, input CreateTimeSlotInput) (*models.TimeSlot, error) {
	query := `
		INSERT INTO time_slots (helper_id, weekday, start_time, end_time, recurring)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, helper_id, weekday, start_time, end_time, recurring, created_at
	`

	var slot models.TimeSlot
	err := r.db.QueryRow(
		ctx,
		query,
		input.HelperID,
		input.Weekday,
		input.StartTime,
		input.EndTime,
		input.Recurring,
	).Scan(
		&slot.ID,
		&slot.HelperID,
		&slot.Weekday,
		&slot.StartTime,
		&slot.EndTime,
		&slot.Recurring,
		&slot.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &slot, nil
}

func (r *TimeSlotRepository) GetByID(ctx context.Context, slotID int64) (*models.TimeSlot, error) {
	query := `
		SELECT id, helper_id, weekday, start_time, end_time, recurring, created_at
		FROM time_slots
		WHERE id = $1
	`
	var slot models.TimeSlot
	err := r.db.QueryRow(ctx, query, slotID).Scan(
		&slot.ID,
		&slot.HelperID,
		&slot.Weekday,
		&slot.StartTime,
		&slot.EndTime,
		&slot.Recurring,
		&slot.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &slot, nil
}

func (r *TimeSlotRepository) ListForHelper(ctx context.Context, helperID int64) ([]models.TimeSlot, error) {
	query := `
		SELECT id, helper_id, weekday, start_time, end_time, recurring, created_at
		FROM time_slots
		WHERE helper_id = $1
		ORDER BY created_at ASC, id ASC
	`
	rows, err := r.db.Query(ctx, query, helperID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	slots := make([]models.TimeSlot, 0)
	for rows.Next() {
		var slot models.TimeSlot
		if err := rows.Scan(
			&slot.ID,
			&slot.HelperID,
			&slot.Weekday,
			&slot.StartTime,
			&slot.EndTime,
			&slot.Recurring,
			&slot.CreatedAt,
		); err != nil {
			return nil, err
		}
		slots = append(slots, slot)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return slots, nil
}

func (r *TimeSlotRepository) CountForHelper(ctx context.Context, helperID int64) (int, error) {
	query := `SELECT COUNT(*) FROM time_slots WHERE helper_id = $1`
	var count int
	if err := r.db.QueryRow(ctx, query, helperID).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *TimeSlotRepository) Delete(ctx context.Context, helperID, slotID int64) (bool, error) {
	query := `DELETE FROM time_slots WHERE id = $1 AND helper_id = $2`
	tag, err := r.db.Exec(ctx, query, slotID, helperID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}
