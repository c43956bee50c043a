package models

import "time"

type HelperProfile struct {
	ID                 int64     `json:"id"`
	UserID             int64     `json:"user_id"`
	FullName           *string   `json:"full_name"`
	Avatar             *string   `json:"avatar"`
	Description        *string   `json:"description,omitempty"`
	Specialties        *[]string `json:"specialties"`
	Rating             float64   `json:"rating"`
	CompletedSessions  int       `json:"completed_sessions"`
	Presence           string    `json:"presence"`
	OnboardingComplete bool      `json:"onboarding_complete"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

type HelperWithScore struct {
	HelperProfile
	MatchScore int `json:"match_score"`
}

type HelperDetail struct {
	HelperProfile
	TimeSlots []TimeSlotWithDates `json:"time_slots"`
}
