package models

import "time"

type TimeSlot struct {
	ID        int64     `json:"id"`
	HelperID  int64     `json:"helper_id"`
	Weekday   string    `json:"weekday"`
	StartTime string    `json:"start_time"`
	EndTime   string    `json:"end_time"`
	Recurring bool      `json:"recurring"`
	CreatedAt time.Time `json:"created_at"`
}

type TimeSlotWithDates struct {
	TimeSlot
	CandidateDates []string `json:"candidate_dates"`
}
