package domain

import "time"

// WorkoutPlan describes scheduled exercises for a client. Ownership is
// transitive through the client.
type WorkoutPlan struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	ClientID    uint       `gorm:"index;not null" json:"clientId"`
	Title       string     `gorm:"size:255;not null" json:"title"`
	Description string     `json:"description,omitempty"`
	StartDate   *time.Time `json:"startDate,omitempty"`
	EndDate     *time.Time `json:"endDate,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// WorkoutExercise is a single exercise entry within a workout plan. Deleted
// together with its plan.
type WorkoutExercise struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	PlanID      uint   `gorm:"index;not null" json:"planId"`
	Name        string `gorm:"size:255;not null" json:"name"`
	Sets        int    `gorm:"default:3" json:"sets"`
	Reps        int    `gorm:"default:10" json:"reps"`
	RestSeconds *int   `json:"restSeconds,omitempty"`
	Notes       string `json:"notes,omitempty"`
}

// WorkoutLog records a performed workout session for a client. The plan link
// is optional and survives plan deletion.
type WorkoutLog struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ClientID  uint      `gorm:"index;not null" json:"clientId"`
	PlanID    *uint     `gorm:"index" json:"planId,omitempty"`
	Date      time.Time `gorm:"index;not null" json:"date"`
	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}
