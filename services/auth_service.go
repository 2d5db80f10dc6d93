package services

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"nutrition-tracker-system/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// tokenTTL keeps a session alive for a week before the client has to log
// in again.
const tokenTTL = 7 * 24 * time.Hour

type AuthService struct {
	DB        *gorm.DB
	jwtSecret []byte
}

func NewAuthService(db *gorm.DB, jwtSecret string) *AuthService {
	return &AuthService{DB: db, jwtSecret: []byte(jwtSecret)}
}

type SignupInput struct {
	Email         string               `json:"email"`
	Password      string               `json:"password"`
	Name          string               `json:"name"`
	Age           int                  `json:"age"`
	Gender        models.Gender        `json:"gender"`
	HeightCm      float64              `json:"height_cm"`
	WeightKg      float64              `json:"weight_kg"`
	ActivityLevel models.ActivityLevel `json:"activity_level"`
	Goal          models.GoalType      `json:"goal"`
	GoalWeightKg  *float64             `json:"goal_weight_kg,omitempty"`
}

type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResult is the token envelope signup and login answer with.
type AuthResult struct {
	AccessToken string              `json:"access_token"`
	TokenType   string              `json:"token_type"`
	User        *models.UserProfile `json:"user"`
}

// Signup registers a new account. The profile metrics are validated with
// the same rules the recommendation engine enforces, so every stored user
// can always be priced.
func (s *AuthService) Signup(in SignupInput) (*AuthResult, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, models.NewValidationError("email", "must be a valid address")
	}
	if len(in.Password) < 8 {
		return nil, models.NewValidationError("password", "must be at least 8 characters")
	}
	if strings.TrimSpace(in.Name) == "" {
		return nil, models.NewValidationError("name", "required")
	}

	profile := &models.UserProfile{
		ID:            uuid.NewString(),
		Email:         email,
		Name:          strings.TrimSpace(in.Name),
		Age:           in.Age,
		Gender:        in.Gender,
		HeightCm:      in.HeightCm,
		WeightKg:      in.WeightKg,
		ActivityLevel: in.ActivityLevel,
		Goal:          in.Goal,
		GoalWeightKg:  in.GoalWeightKg,
	}
	if err := ValidateProfileMetrics(profile); err != nil {
		return nil, err
	}

	var existing int64
	if err := s.DB.Model(&models.UserProfile{}).Where("email = ?", email).Count(&existing).Error; err != nil {
		return nil, fmt.Errorf("check email: %w", err)
	}
	if existing > 0 {
		return nil, models.NewValidationError("email", "already registered")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	profile.PasswordHash = string(hash)

	if err := s.DB.Create(profile).Error; err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	log.Printf("✅ [AUTH] registered user %s", profile.ID)

	return s.tokenResult(profile)
}

// Login checks credentials and stamps last_login_at. Unknown email and
// wrong password are indistinguishable to the caller.
func (s *AuthService) Login(in LoginInput) (*AuthResult, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))

	var profile models.UserProfile
	if err := s.DB.Where("email = ?", email).First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("load user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(profile.PasswordHash), []byte(in.Password)); err != nil {
		return nil, models.ErrInvalidCredentials
	}

	now := time.Now().UTC()
	if err := s.DB.Model(&profile).Update("last_login_at", now).Error; err != nil {
		log.Printf("⚠️ [AUTH] failed to stamp login time for %s: %v", profile.ID, err)
	}
	profile.LastLoginAt = &now

	return s.tokenResult(&profile)
}

func (s *AuthService) tokenResult(profile *models.UserProfile) (*AuthResult, error) {
	token, err := s.IssueToken(profile.ID)
	if err != nil {
		return nil, err
	}
	return &AuthResult{AccessToken: token, TokenType: "bearer", User: profile}, nil
}

// IssueToken signs an HS256 token carrying the user id as subject.
func (s *AuthService) IssueToken(userID string) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(tokenTTL)),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// VerifyToken checks signature and expiry and returns the subject user id.
// Every failure mode collapses to ErrInvalidCredentials.
func (s *AuthService) VerifyToken(tokenString string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil || !token.Valid {
		return "", models.ErrInvalidCredentials
	}

	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok || claims.Subject == "" {
		return "", models.ErrInvalidCredentials
	}
	return claims.Subject, nil
}

// CurrentUser resolves a verified token subject to its profile.
func (s *AuthService) CurrentUser(userID string) (*models.UserProfile, error) {
	var profile models.UserProfile
	if err := s.DB.Where("id = ?", userID).First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("load user: %w", err)
	}
	return &profile, nil
}
