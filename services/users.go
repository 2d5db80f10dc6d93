package services

import (
	"errors"
	"fmt"
	"strings"

	"nutrition-tracker-system/models"

	"gorm.io/gorm"
)

type ProfileService struct {
	DB *gorm.DB
}

func NewProfileService(db *gorm.DB) *ProfileService {
	return &ProfileService{DB: db}
}

// ProfileUpdateInput replaces the full metrics set. Email and password
// change through auth flows, never here.
type ProfileUpdateInput struct {
	Name          string               `json:"name"`
	Age           int                  `json:"age"`
	Gender        models.Gender        `json:"gender"`
	HeightCm      float64              `json:"height_cm"`
	WeightKg      float64              `json:"weight_kg"`
	ActivityLevel models.ActivityLevel `json:"activity_level"`
	Goal          models.GoalType      `json:"goal"`
	GoalWeightKg  *float64             `json:"goal_weight_kg,omitempty"`
}

func (s *ProfileService) GetProfile(userID string) (*models.UserProfile, error) {
	var profile models.UserProfile
	if err := s.DB.Where("id = ?", userID).First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("load profile: %w", err)
	}
	return &profile, nil
}

// UpdateProfile overwrites the metrics with a freshly validated set, so a
// stored profile can never drift into a state the recommendation engine
// rejects.
func (s *ProfileService) UpdateProfile(userID string, in ProfileUpdateInput) (*models.UserProfile, error) {
	profile, err := s.GetProfile(userID)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(in.Name) == "" {
		return nil, models.NewValidationError("name", "required")
	}

	profile.Name = strings.TrimSpace(in.Name)
	profile.Age = in.Age
	profile.Gender = in.Gender
	profile.HeightCm = in.HeightCm
	profile.WeightKg = in.WeightKg
	profile.ActivityLevel = in.ActivityLevel
	profile.Goal = in.Goal
	profile.GoalWeightKg = in.GoalWeightKg

	if err := ValidateProfileMetrics(profile); err != nil {
		return nil, err
	}

	if err := s.DB.Save(profile).Error; err != nil {
		return nil, fmt.Errorf("save profile: %w", err)
	}
	return profile, nil
}

// Recommendations prices the stored profile's daily targets.
func (s *ProfileService) Recommendations(userID string) (Recommendation, error) {
	profile, err := s.GetProfile(userID)
	if err != nil {
		return Recommendation{}, err
	}
	return ComputeRecommendations(profile)
}
