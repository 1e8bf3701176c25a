package domain

import "time"

// FoodItem holds nutrition data for a single food, shared across diet plans.
type FoodItem struct {
	ID       uint    `gorm:"primaryKey" json:"id"`
	Name     string  `gorm:"uniqueIndex;size:255;not null" json:"name"`
	Calories float64 `gorm:"default:0" json:"calories"`
	ProteinG float64 `gorm:"default:0" json:"proteinG"`
	CarbsG   float64 `gorm:"default:0" json:"carbsG"`
	FatsG    float64 `gorm:"default:0" json:"fatsG"`
}

// DietPlan is a nutrition plan assigned to a client.
type DietPlan struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	ClientID    uint       `gorm:"index;not null" json:"clientId"`
	Title       string     `gorm:"size:255;not null" json:"title"`
	Description string     `json:"description,omitempty"`
	StartDate   *time.Time `json:"startDate,omitempty"`
	EndDate     *time.Time `json:"endDate,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// DietEntry references a food item consumed on a given day under a plan.
// Deleted together with its plan.
type DietEntry struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	PlanID     uint      `gorm:"index;not null" json:"planId"`
	FoodItemID uint      `gorm:"index;not null" json:"foodItemId"`
	Date       time.Time `gorm:"index;not null" json:"date"`
	Quantity   float64   `gorm:"default:1" json:"quantity"`
	MealType   string    `gorm:"size:50" json:"mealType,omitempty"` // breakfast/lunch/dinner/snack
}
