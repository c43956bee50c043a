package models

import "time"

const (
	BookingStatusPending   = "pending"
	BookingStatusAccepted  = "accepted"
	BookingStatusRejected  = "rejected"
	BookingStatusCompleted = "completed"
)

type Booking struct {
	ID            int64     `json:"id"`
	StudentID     int64     `json:"student_id"`
	HelperID      int64     `json:"helper_id"`
	TimeSlotID    int64     `json:"time_slot_id"`
	RequestedDate time.Time `json:"requested_date"`
	Message       *string   `json:"message,omitempty"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
