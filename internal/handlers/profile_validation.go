package handlers

import (
	"strings"
)

func validateCreatorOnboardingRequest(req creatorOnboardingRequest) string {
	if strings.TrimSpace(req.FullName) == "" {
		return "full_name is required"
	}
	if strings.TrimSpace(req.InstagramHandle) == "" {
		return "instagram_handle is required"
	}
	if strings.TrimSpace(req.City) == "" {
		return "city is required"
	}
	if strings.TrimSpace(req.Country) == "" {
		return "country is required"
	}
	if req.FollowersCount < 0 {
		return "followers_count must be 0 or greater"
	}
	if req.EngagementRate < 0 {
		return "engagement_rate must be 0 or greater"
	}
	if len(req.Niches) == 0 {
		return "niches must contain at least one item"
	}
	for _, niche := range req.Niches {
		if strings.TrimSpace(niche) == "" {
			return "niches must not contain empty values"
		}
	}
	if req.RatePerTrip < 0 {
		return "rate_per_trip must be 0 or greater"
	}
	return ""
}

func validateBrandOnboardingRequest(req brandOnboardingRequest) string {
	if strings.TrimSpace(req.BrandName) == "" {
		return "brand_name is required"
	}
	if strings.TrimSpace(req.Industry) == "" {
		return "industry is required"
	}
	if req.BudgetPerTrip < 0 {
		return "budget_per_trip must be 0 or greater"
	}
	if len(req.TargetNiches) == 0 {
		return "target_niches must contain at least one item"
	}
	for _, niche := range req.TargetNiches {
		if strings.TrimSpace(niche) == "" {
			return "target_niches must not contain empty values"
		}
	}
	return ""
}

func validateCreatorProfileUpdateRequest(req updateCreatorProfileRequest) string {
	if req.FullName != nil && strings.TrimSpace(*req.FullName) == "" {
		return "full_name must not be empty"
	}
	if req.InstagramHandle != nil && strings.TrimSpace(*req.InstagramHandle) == "" {
		return "instagram_handle must not be empty"
	}
	if req.City != nil && strings.TrimSpace(*req.City) == "" {
		return "city must not be empty"
	}
	if req.Country != nil && strings.TrimSpace(*req.Country) == "" {
		return "country must not be empty"
	}
	if req.FollowersCount != nil && *req.FollowersCount < 0 {
		return "followers_count must be 0 or greater"
	}
	if req.EngagementRate != nil && *req.EngagementRate < 0 {
		return "engagement_rate must be 0 or greater"
	}
	if req.Niches != nil {
		for _, niche := range *req.Niches {
			if strings.TrimSpace(niche) == "" {
				return "niches must not contain empty values"
			}
		}
	}
	if req.RatePerTrip != nil && *req.RatePerTrip < 0 {
		return "rate_per_trip must be 0 or greater"
	}
	if req.Bio != nil && strings.TrimSpace(*req.Bio) == "" {
		return "bio must not be empty"
	}
	return ""
}

func validateBrandProfileUpdateRequest(req updateBrandProfileRequest) string {
	if req.BrandName != nil && strings.TrimSpace(*req.BrandName) == "" {
		return "brand_name must not be empty"
	}
	if req.Industry != nil && strings.TrimSpace(*req.Industry) == "" {
		return "industry must not be empty"
	}
	if req.BudgetPerTrip != nil && *req.BudgetPerTrip < 0 {
		return "budget_per_trip must be 0 or greater"
	}
	if req.TargetNiches != nil {
		for _, niche := range *req.TargetNiches {
			if strings.TrimSpace(niche) == "" {
				return "target_niches must not contain empty values"
			}
		}
	}
	return ""
}
