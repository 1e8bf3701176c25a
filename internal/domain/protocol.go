package domain

import "time"

// ProtocolGoal is a target configuration for a client (weight, calories, ...).
type ProtocolGoal struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	ClientID    uint       `gorm:"index;not null" json:"clientId"`
	Type        string     `gorm:"size:50;not null" json:"type"`
	Title       string     `gorm:"size:255;not null" json:"title"`
	TargetValue *float64   `json:"targetValue,omitempty"`
	Unit        string     `gorm:"size:20" json:"unit,omitempty"`
	Notes       string     `json:"notes,omitempty"`
	StartDate   *time.Time `json:"startDate,omitempty"`
	EndDate     *time.Time `json:"endDate,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
}

// GoalProgress is a periodic measurement toward a goal. Deleted together
// with its goal.
type GoalProgress struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	GoalID    uint      `gorm:"index;not null" json:"goalId"`
	Date      time.Time `gorm:"not null" json:"date"`
	Value     float64   `gorm:"not null" json:"value"`
	Notes     string    `json:"notes,omitempty"`
	PhotoKey  string    `gorm:"size:255" json:"-"` // Object storage key of the attached photo, if any
	CreatedAt time.Time `json:"createdAt"`
}
