package handlers

import (
	"strings"
)

const (
	maxInterestAreas = 5
	maxSpecialties   = 10
)

// Avatars come from a fixed catalog shipped with the frontend, so the
// backend only keeps the reference.
var allowedAvatars = map[string]struct{}{
	"avatar-1": {},
	"avatar-2": {},
	"avatar-3": {},
	"avatar-4": {},
	"avatar-5": {},
	"avatar-6": {},
	"avatar-7": {},
	"avatar-8": {},
}

var allowedPresences = map[string]struct{}{
	"available": {},
	"busy":      {},
	"offline":   {},
}

func validateStudentOnboardingRequest(req studentOnboardingRequest) string {
	if strings.TrimSpace(req.FullName) == "" {
		return "full_name is required"
	}
	if err := validateAvatar(req.Avatar); err != "" {
		return err
	}
	if len(req.InterestAreas) == 0 {
		return "interest_areas must contain at least one item"
	}
	if len(req.InterestAreas) > maxInterestAreas {
		return "interest_areas must contain at most 5 items"
	}
	for _, area := range req.InterestAreas {
		if strings.TrimSpace(area) == "" {
			return "interest_areas must not contain empty values"
		}
	}
	return ""
}

func validateHelperOnboardingRequest(req helperOnboardingRequest) string {
	if strings.TrimSpace(req.FullName) == "" {
		return "full_name is required"
	}
	if err := validateAvatar(req.Avatar); err != "" {
		return err
	}
	if strings.TrimSpace(req.Description) == "" {
		return "description is required"
	}
	if len(req.Specialties) == 0 {
		return "specialties must contain at least one item"
	}
	if len(req.Specialties) > maxSpecialties {
		return "specialties must contain at most 10 items"
	}
	for _, specialty := range req.Specialties {
		if strings.TrimSpace(specialty) == "" {
			return "specialties must not contain empty values"
		}
	}
	return ""
}

func validateStudentProfileUpdateRequest(req updateStudentProfileRequest) string {
	if req.FullName != nil && strings.TrimSpace(*req.FullName) == "" {
		return "full_name must not be empty"
	}
	if req.Avatar != nil {
		if err := validateAvatar(*req.Avatar); err != "" {
			return err
		}
	}
	if req.InterestAreas != nil {
		if len(*req.InterestAreas) == 0 {
			return "interest_areas must contain at least one item"
		}
		if len(*req.InterestAreas) > maxInterestAreas {
			return "interest_areas must contain at most 5 items"
		}
		for _, area := range *req.InterestAreas {
			if strings.TrimSpace(area) == "" {
				return "interest_areas must not contain empty values"
			}
		}
	}
	return ""
}

func validateHelperProfileUpdateRequest(req updateHelperProfileRequest) string {
	if req.FullName != nil && strings.TrimSpace(*req.FullName) == "" {
		return "full_name must not be empty"
	}
	if req.Avatar != nil {
		if err := validateAvatar(*req.Avatar); err != "" {
			return err
		}
	}
	if req.Description != nil && strings.TrimSpace(*req.Description) == "" {
		return "description must not be empty"
	}
	if req.Specialties != nil {
		if len(*req.Specialties) == 0 {
			return "specialties must contain at least one item"
		}
		if len(*req.Specialties) > maxSpecialties {
			return "specialties must contain at most 10 items"
		}
		for _, specialty := range *req.Specialties {
			if strings.TrimSpace(specialty) == "" {
				return "specialties must not contain empty values"
			}
		}
	}
	return ""
}

func validateAvatar(avatar string) string {
	if _, ok := allowedAvatars[strings.TrimSpace(avatar)]; !ok {
		return "avatar must reference one of the catalog avatars"
	}
	return ""
}

func validatePresence(presence string) string {
	if _, ok := allowedPresences[strings.TrimSpace(presence)]; !ok {
		return "presence must be one of: available, busy, offline"
	}
	return ""
}
