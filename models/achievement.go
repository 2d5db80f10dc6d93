package models

import (
	"time"
)

// RuleKind discriminates how an achievement threshold is compared.
type RuleKind string

const (
	RuleStreak       RuleKind = "streak_count"     // current streak length
	RuleDaysLogged   RuleKind = "days_logged"      // distinct days ever logged
	RuleProteinToday RuleKind = "protein_goal_met" // protein goal met on the event's day
	RuleProteinDays  RuleKind = "protein_days"     // distinct days the protein goal was met
	RuleUniqueFoods  RuleKind = "unique_foods"     // distinct foods ever logged
)

// UnlockRule is the data half of an achievement: one kind plus its
// threshold. RuleProteinToday is a boolean check and ignores Threshold.
type UnlockRule struct {
	Kind      RuleKind `json:"kind"`
	Threshold int      `json:"threshold,omitempty"`
}

// Rarity buckets for achievement display.
type Rarity string

const (
	RarityBronze   Rarity = "bronze"
	RaritySilver   Rarity = "silver"
	RarityGold     Rarity = "gold"
	RarityPlatinum Rarity = "platinum"
)

// Achievement is one catalog entry: static config, evaluated generically.
// Adding an achievement means adding data here, never touching the
// evaluator.
type Achievement struct {
	Code        string     `json:"code"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	BadgeIcon   string     `json:"badge_icon"`
	Category    string     `json:"category"`
	Rarity      Rarity     `json:"rarity"`
	Points      int        `json:"points"`
	Rule        UnlockRule `json:"rule"`
}

// UnlockedAchievement is one user's earned instance. The composite unique
// index makes a double unlock impossible at the storage layer, whatever the
// callers race into.
type UnlockedAchievement struct {
	ID              string    `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	UserID          string    `gorm:"uniqueIndex:idx_user_achievement;not null" json:"user_id"`
	AchievementCode string    `gorm:"uniqueIndex:idx_user_achievement;not null" json:"achievement_code"`
	UnlockedAt      time.Time `gorm:"autoCreateTime" json:"unlocked_at"`
}

// StatsSnapshot is the achievement evaluator's read of a user's progress at
// one moment, taken after a log event inside the same transaction.
type StatsSnapshot struct {
	CurrentStreak       int
	LongestStreak       int
	TotalDaysLogged     int
	TotalEntries        int
	ProteinGoalMetToday bool
	ProteinGoalDays     int
	UniqueFoods         int
}

// AchievementCatalog is the full rule set, in the order unlock reports use.
var AchievementCatalog = []Achievement{
	{
		Code:        "FIRST_STEPS",
		Name:        "First Steps",
		Description: "Log your first meal",
		BadgeIcon:   "🌟",
		Category:    "milestone",
		Rarity:      RarityBronze,
		Points:      10,
		Rule:        UnlockRule{Kind: RuleDaysLogged, Threshold: 1},
	},
	{
		Code:        "THREE_DAY_WARRIOR",
		Name:        "Three Day Warrior",
		Description: "Maintain a 3-day logging streak",
		BadgeIcon:   "🔥",
		Category:    "streak",
		Rarity:      RarityBronze,
		Points:      25,
		Rule:        UnlockRule{Kind: RuleStreak, Threshold: 3},
	},
	{
		Code:        "WEEK_CHAMPION",
		Name:        "Week Champion",
		Description: "Maintain a 7-day logging streak",
		BadgeIcon:   "⭐",
		Category:    "streak",
		Rarity:      RaritySilver,
		Points:      50,
		Rule:        UnlockRule{Kind: RuleStreak, Threshold: 7},
	},
	{
		Code:        "CONSISTENCY_MASTER",
		Name:        "Consistency Master",
		Description: "Maintain a 30-day logging streak",
		BadgeIcon:   "👑",
		Category:    "streak",
		Rarity:      RarityGold,
		Points:      200,
		Rule:        UnlockRule{Kind: RuleStreak, Threshold: 30},
	},
	{
		Code:        "STREAK_LEGEND",
		Name:        "Streak Legend",
		Description: "Maintain a 100-day logging streak",
		BadgeIcon:   "💎",
		Category:    "streak",
		Rarity:      RarityPlatinum,
		Points:      500,
		Rule:        UnlockRule{Kind: RuleStreak, Threshold: 100},
	},
	{
		Code:        "PROTEIN_SEEKER",
		Name:        "Protein Seeker",
		Description: "Meet your protein goal for a day",
		BadgeIcon:   "💪",
		Category:    "protein",
		Rarity:      RarityBronze,
		Points:      30,
		Rule:        UnlockRule{Kind: RuleProteinToday},
	},
	{
		Code:        "PROTEIN_PRO",
		Name:        "Protein Pro",
		Description: "Meet protein goal for 7 days",
		BadgeIcon:   "🏋️",
		Category:    "protein",
		Rarity:      RaritySilver,
		Points:      75,
		Rule:        UnlockRule{Kind: RuleProteinDays, Threshold: 7},
	},
	{
		Code:        "PROTEIN_BEAST",
		Name:        "Protein Beast",
		Description: "Meet protein goal for 30 days",
		BadgeIcon:   "🦬",
		Category:    "protein",
		Rarity:      RarityGold,
		Points:      250,
		Rule:        UnlockRule{Kind: RuleProteinDays, Threshold: 30},
	},
	{
		Code:        "DEDICATED_LOGGER",
		Name:        "Dedicated Logger",
		Description: "Log meals for 50 total days",
		BadgeIcon:   "📝",
		Category:    "consistency",
		Rarity:      RaritySilver,
		Points:      100,
		Rule:        UnlockRule{Kind: RuleDaysLogged, Threshold: 50},
	},
	{
		Code:        "NUTRITION_EXPLORER",
		Name:        "Nutrition Explorer",
		Description: "Log 100 different meals",
		BadgeIcon:   "🍽️",
		Category:    "milestone",
		Rarity:      RarityGold,
		Points:      150,
		Rule:        UnlockRule{Kind: RuleUniqueFoods, Threshold: 100},
	},
}

// CatalogByCode indexes the catalog for joins against unlock rows.
func CatalogByCode() map[string]Achievement {
	m := make(map[string]Achievement, len(AchievementCatalog))
	for _, a := range AchievementCatalog {
		m[a.Code] = a
	}
	return m
}
