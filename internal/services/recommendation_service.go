package services

import (
	"context"
	"sort"
	"strings"

	"github.com/MeldryckSAID/NovaHelpBack/internal/models"
)

type HelperMatcher interface {
	ListAll(ctx context.Context) ([]models.HelperProfile, error)
}

type RecommendationService struct {
	helperRepo HelperMatcher
}

func NewRecommendationService(helperRepo HelperMatcher) *RecommendationService {
	return &RecommendationService{helperRepo: helperRepo}
}

// GetRecommendedHelpers ranks helpers for a student by overlap between the
// student's interest areas and each helper's specialties, with bonuses for
// track record and current presence.
func (s *RecommendationService) GetRecommendedHelpers(
	ctx context.Context,
	studentProfile *models.StudentProfile,
	limit int,
) ([]models.HelperWithScore, error) {
	helpers, err := s.helperRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	ranked := make([]models.HelperWithScore, 0, len(helpers))
	for _, helper := range helpers {
		ranked = append(ranked, models.HelperWithScore{
			HelperProfile: helper,
			MatchScore:    calculateMatchScore(studentProfile, &helper),
		})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].MatchScore == ranked[j].MatchScore {
			return ranked[i].Rating > ranked[j].Rating
		}
		return ranked[i].MatchScore > ranked[j].MatchScore
	})

	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}

	return ranked, nil
}

func calculateMatchScore(studentProfile *models.StudentProfile, helper *models.HelperProfile) int {
	score := 0
	interests := interestAliases(studentProfile)
	helperSpecs := normalizeValues(helper.Specialties)

	for _, aliases := range interests {
		for _, alias := range aliases {
			if _, ok := helperSpecs[alias]; ok {
				score += 40
				break
			}
		}
	}

	if helper.Rating > 4.0 {
		score += 20
	}
	if helper.CompletedSessions > 10 {
		score += 15
	}
	if helper.Presence == "available" {
		score += 10
	}

	return score
}

func interestAliases(studentProfile *models.StudentProfile) map[string][]string {
	interests := sliceValue(nil)
	if studentProfile != nil {
		interests = sliceValue(studentProfile.InterestAreas)
	}

	mapped := make(map[string][]string, len(interests))
	for _, interest := range interests {
		switch normalize(interest) {
		case "programming", "coding", "developpement":
			mapped["programming"] = []string{"programming", "coding", "developpement"}
		case "languages", "langues":
			mapped["languages"] = []string{"languages", "langues"}
		case "math", "maths", "mathematiques":
			mapped["math"] = []string{"math", "maths", "mathematiques"}
		case "science", "sciences":
			mapped["science"] = []string{"science", "sciences"}
		default:
			if key := normalize(interest); key != "" {
				mapped[key] = []string{key}
			}
		}
	}

	return mapped
}

func normalizeValues(values *[]string) map[string]struct{} {
	normalized := make(map[string]struct{})
	for _, value := range sliceValue(values) {
		if key := normalize(value); key != "" {
			normalized[key] = struct{}{}
		}
	}
	return normalized
}

func normalize(value string) string {
	value = strings.TrimSpace(strings.ToLower(value))
	value = strings.ReplaceAll(value, " ", "_")
	value = strings.ReplaceAll(value, "-", "_")
	return value
}

func sliceValue(values *[]string) []string {
	if values == nil {
		return nil
	}
	return *values
}
