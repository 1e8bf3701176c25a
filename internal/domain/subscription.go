package domain

import (
	"strings"
	"time"
)

// Subscription records a plan tier purchased by a user. Several rows may be
// active at once; the active subscription is the most recently created one.
type Subscription struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	UserID    uint       `gorm:"index;not null" json:"userId"`
	Plan      string     `gorm:"size:50;not null" json:"plan"` // e.g., basic, pro
	Price     float64    `gorm:"default:0" json:"price"`
	Currency  string     `gorm:"size:10;default:USD" json:"currency"`
	StartDate time.Time  `json:"startDate"`
	EndDate   *time.Time `json:"endDate,omitempty"`
	IsActive  bool       `gorm:"default:true" json:"isActive"`
	CreatedAt time.Time  `json:"createdAt"`
}

// PlanLimits defines the quota limits granted by a subscription tier.
// It is derived, never persisted.
type PlanLimits struct {
	MaxClients               int
	MaxWorkoutPlansPerClient int
	MaxDietPlansPerClient    int
}

// PlanLimitsFor maps a plan tier name to its limits. Matching is
// case-insensitive; unrecognized tiers (including "free") fall back to the
// default row.
func PlanLimitsFor(plan string) PlanLimits {
	switch strings.ToLower(plan) {
	case "pro", "professional":
		return PlanLimits{MaxClients: 200, MaxWorkoutPlansPerClient: 50, MaxDietPlansPerClient: 50}
	case "basic", "starter":
		return PlanLimits{MaxClients: 10, MaxWorkoutPlansPerClient: 5, MaxDietPlansPerClient: 5}
	default:
		return PlanLimits{MaxClients: 3, MaxWorkoutPlansPerClient: 2, MaxDietPlansPerClient: 2}
	}
}
