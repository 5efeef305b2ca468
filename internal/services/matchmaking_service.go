package services

import (
	"context"
	"sort"
	"strings"

	"github.com/miwaszko990/ugc-travel-connect/internal/models"
)

type CreatorMatcher interface {
	ListAll(ctx context.Context) ([]models.CreatorProfile, error)
}

type MatchmakingService struct {
	creatorRepo CreatorMatcher
}

func NewMatchmakingService(creatorRepo CreatorMatcher) *MatchmakingService {
	return &MatchmakingService{creatorRepo: creatorRepo}
}

func (s *MatchmakingService) GetMatchedCreators(
	ctx context.Context,
	brandProfile *models.BrandProfile,
	limit int,
) ([]models.CreatorWithScore, error) {
	creators, err := s.creatorRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	matched := make([]models.CreatorWithScore, 0, len(creators))
	for _, creator := range creators {
		matched = append(matched, models.CreatorWithScore{
			CreatorProfile: creator,
			MatchScore:     calculateMatchScore(brandProfile, &creator),
		})
	}

	sort.SliceStable(matched, func(i, j int) bool {
		if matched[i].MatchScore == matched[j].MatchScore {
			return intValue(matched[i].FollowersCount) > intValue(matched[j].FollowersCount)
		}
		return matched[i].MatchScore > matched[j].MatchScore
	})

	if limit > 0 && len(matched) > limit {
		matched = matched[:limit]
	}

	return matched, nil
}

func calculateMatchScore(brandProfile *models.BrandProfile, creator *models.CreatorProfile) int {
	score := 0
	creatorNiches := normalizeValues(creator.Niches)

	for _, niche := range sliceValue(brandProfile.TargetNiches) {
		if _, ok := creatorNiches[strings.ToLower(strings.TrimSpace(niche))]; ok {
			score += 40
		}
	}

	if intValue(creator.FollowersCount) >= 10000 {
		score += 20
	}
	if floatValue(creator.EngagementRate) > 3.0 {
		score += 15
	}
	if boolValue(creator.IsVerified) {
		score += 10
	}
	if budget := floatValue(brandProfile.BudgetPerTrip); budget > 0 &&
		floatValue(creator.RatePerTrip) > 0 && floatValue(creator.RatePerTrip) <= budget {
		score += 15
	}

	return score
}

func normalizeValues(values *[]string) map[string]struct{} {
	normalized := make(map[string]struct{})
	for _, value := range sliceValue(values) {
		normalized[strings.ToLower(strings.TrimSpace(value))] = struct{}{}
	}
	return normalized
}

func sliceValue(values *[]string) []string {
	if values == nil {
		return nil
	}
	return *values
}

func intValue(value *int) int {
	if value == nil {
		return 0
	}
	return *value
}

func floatValue(value *float64) float64 {
	if value == nil {
		return 0
	}
	return *value
}

func boolValue(value *bool) bool {
	return value != nil && *value
}
