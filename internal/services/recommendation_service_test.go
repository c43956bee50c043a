package services

import (
	"context"
	"testing"

	"github.com/MeldryckSAID/NovaHelpBack/internal/models"
)

type stubHelperMatcher struct {
	helpers []models.HelperProfile
}

func (s *stubHelperMatcher) ListAll(_ context.Context) ([]models.HelperProfile, error) {
	return s.helpers, nil
}

func strSlice(values ...string) *[]string {
	return &values
}

func TestGetRecommendedHelpersRanksByMatchScore(t *testing.T) {
	service := NewRecommendationService(&stubHelperMatcher{helpers: []models.HelperProfile{
		{UserID: 1, Specialties: strSlice("languages"), Rating: 3.5, Presence: "offline"},
		{UserID: 2, Specialties: strSlice("programming", "math"), Rating: 4.8, CompletedSessions: 30, Presence: "available"},
		{UserID: 3, Specialties: strSlice("coding"), Rating: 4.2, CompletedSessions: 5, Presence: "busy"},
	}})

	student := &models.StudentProfile{InterestAreas: strSlice("Programming", "maths")}
	ranked, err := service.GetRecommendedHelpers(context.Background(), student, 0)
	if err != nil {
		t.Fatalf("GetRecommendedHelpers: %v", err)
	}
	if len(ranked) != 3 {
		t.Fatalf("expected 3 helpers, got %d", len(ranked))
	}

	// helper 2: 2 interest matches (80) + rating (20) + sessions (15) + available (10)
	// helper 3: "coding" matches the programming interest (40) + rating (20)
	// helper 1: nothing
	wantOrder := []int64{2, 3, 1}
	wantScores := []int{125, 60, 0}
	for i, want := range wantOrder {
		if ranked[i].UserID != want {
			t.Fatalf("position %d: expected helper %d, got %d", i, want, ranked[i].UserID)
		}
		if ranked[i].MatchScore != wantScores[i] {
			t.Errorf("helper %d: expected score %d, got %d", want, wantScores[i], ranked[i].MatchScore)
		}
	}
}

func TestGetRecommendedHelpersBreaksTiesByRating(t *testing.T) {
	service := NewRecommendationService(&stubHelperMatcher{helpers: []models.HelperProfile{
		{UserID: 1, Specialties: strSlice("science"), Rating: 4.1},
		{UserID: 2, Specialties: strSlice("sciences"), Rating: 4.9},
	}})

	student := &models.StudentProfile{InterestAreas: strSlice("science")}
	ranked, err := service.GetRecommendedHelpers(context.Background(), student, 0)
	if err != nil {
		t.Fatalf("GetRecommendedHelpers: %v", err)
	}
	if ranked[0].UserID != 2 || ranked[1].UserID != 1 {
		t.Fatalf("expected the higher rated helper first on equal score, got %d then %d",
			ranked[0].UserID, ranked[1].UserID)
	}
}

func TestGetRecommendedHelpersAppliesLimit(t *testing.T) {
	service := NewRecommendationService(&stubHelperMatcher{helpers: []models.HelperProfile{
		{UserID: 1}, {UserID: 2}, {UserID: 3}, {UserID: 4},
	}})

	ranked, err := service.GetRecommendedHelpers(context.Background(), nil, 2)
	if err != nil {
		t.Fatalf("GetRecommendedHelpers: %v", err)
	}
	if len(ranked) != 2 {
		t.Fatalf("expected 2 helpers, got %d", len(ranked))
	}
}

func TestGetRecommendedHelpersWithoutProfile(t *testing.T) {
	service := NewRecommendationService(&stubHelperMatcher{helpers: []models.HelperProfile{
		{UserID: 1, Rating: 3.0, Presence: "available"},
		{UserID: 2, Rating: 4.5, Presence: "offline"},
	}})

	ranked, err := service.GetRecommendedHelpers(context.Background(), nil, 0)
	if err != nil {
		t.Fatalf("GetRecommendedHelpers: %v", err)
	}
	// no interests, so only the ambient bonuses count
	if ranked[0].UserID != 2 {
		t.Fatalf("expected the rated helper first, got %d", ranked[0].UserID)
	}
}

func TestCalculateMatchScoreNormalizesAccentsAndSpacing(t *testing.T) {
	student := &models.StudentProfile{InterestAreas: strSlice("  Langues ")}
	helper := &models.HelperProfile{Specialties: strSlice("LANGUAGES")}
	if got := calculateMatchScore(student, helper); got != 40 {
		t.Fatalf("expected the alias to match for 40 points, got %d", got)
	}
}
