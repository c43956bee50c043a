package models

import "time"

type StudentProfile struct {
	ID                 int64     `json:"id"`
	UserID             int64     `json:"user_id"`
	FullName           *string   `json:"full_name"`
	Avatar             *string   `json:"avatar"`
	Needs              *string   `json:"needs,omitempty"`
	InterestAreas      *[]string `json:"interest_areas"`
	OnboardingComplete bool      `json:"onboarding_complete"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}
