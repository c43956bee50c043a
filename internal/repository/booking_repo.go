package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/MeldryckSAID/NovaHelpBack/internal/models"
)

type CreateBookingInput struct {
	StudentID     int64
	HelperID      int64
	TimeSlotID    int64
	RequestedDate time.Time
	Message       *string
}

type BookingListFilter struct {
	ActorID int64
	Role    string
	Status  string
}

type BookingRepository struct {
	db DBTX
}

func NewBookingRepository(db DBTX) *BookingRepository {
	return &BookingRepository{db: db}
}

func (r *BookingRepository) Create(ctx context.Context, input CreateBookingInput) (*models.Booking, error) {
	query := `
		INSERT INTO bookings (student_id, helper_id, time_slot_id, requested_date, message, status)
		VALUES ($1, $2, $3, $4, $5, 'pending')
		RETURNING id, student_id, helper_id, time_slot_id, requested_date, message, status, created_at, updated_at
	`

	var booking models.Booking
	err := r.db.QueryRow(
		ctx,
		query,
		input.StudentID,
		input.HelperID,
		input.TimeSlotID,
		input.RequestedDate,
		input.Message,
	).Scan(
		&booking.ID,
		&booking.StudentID,
		&booking.HelperID,
		&booking.TimeSlotID,
		&booking.RequestedDate,
		&booking.Message,
		&booking.Status,
		&booking.CreatedAt,
		&booking.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

func (r *BookingRepository) GetByID(ctx context.Context, bookingID int64) (*models.Booking, error) {
	query := `
		SELECT id, student_id, helper_id, time_slot_id, requested_date, message, status, created_at, updated_at
		FROM bookings
		WHERE id = $1
	`
	var booking models.Booking
	err := r.db.QueryRow(ctx, query, bookingID).Scan(
		&booking.ID,
		&booking.StudentID,
		&booking.HelperID,
		&booking.TimeSlotID,
		&booking.RequestedDate,
		&booking.Message,
		&booking.Status,
		&booking.CreatedAt,
		&booking.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

func (r *BookingRepository) List(ctx context.Context, filter BookingListFilter) ([]models.Booking, error) {
	actorColumn := "student_id"
	if filter.Role == "helper" {
		actorColumn = "helper_id"
	}

	args := []any{filter.ActorID}
	whereParts := []string{fmt.Sprintf("%s = $1", actorColumn)}

	if status := strings.TrimSpace(filter.Status); status != "" {
		args = append(args, status)
		whereParts = append(whereParts, fmt.Sprintf("status = $%d", len(args)))
	}

	query := fmt.Sprintf(`
		SELECT id, student_id, helper_id, time_slot_id, requested_date, message, status, created_at, updated_at
		FROM bookings
		WHERE %s
		ORDER BY created_at ASC, id ASC
	`, strings.Join(whereParts, " AND "))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	bookings := make([]models.Booking, 0)
	for rows.Next() {
		var booking models.Booking
		if err := rows.Scan(
			&booking.ID,
			&booking.StudentID,
			&booking.HelperID,
			&booking.TimeSlotID,
			&booking.RequestedDate,
			&booking.Message,
			&booking.Status,
			&booking.CreatedAt,
			&booking.UpdatedAt,
		); err != nil {
			return nil, err
		}
		bookings = append(bookings, booking)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return bookings, nil
}

// UpdateStatusIfCurrent applies a status change only when the row still holds
// the status the caller observed, so a stale transition request fails with no
// rows instead of clobbering a concurrent change.
func (r *BookingRepository) UpdateStatusIfCurrent(
	ctx context.Context,
	bookingID int64,
	currentStatus string,
	nextStatus string,
) (*models.Booking, error) {
	query := `
		UPDATE bookings
		SET status = $3, updated_at = NOW()
		WHERE id = $1 AND status = $2
		RETURNING id, student_id, helper_id, time_slot_id, requested_date, message, status, created_at, updated_at
	`
	var booking models.Booking
	err := r.db.QueryRow(ctx, query, bookingID, currentStatus, nextStatus).Scan(
		&booking.ID,
		&booking.StudentID,
		&booking.HelperID,
		&booking.TimeSlotID,
		&booking.RequestedDate,
		&booking.Message,
		&booking.Status,
		&booking.CreatedAt,
		&booking.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &booking, nil
}
