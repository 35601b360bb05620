package models

import "gorm.io/gorm"

// Per-user macro targets. Values the client ships with are used until the
// user customizes them.
type DailyGoal struct {
	gorm.Model
	UserID   uint `gorm:"uniqueIndex;not null"`
	Calories float64
	Protein  float64
	Carbs    float64
	Fat      float64
	Fiber    float64
	Sugar    float64
	Sodium   float64
	Vitamins float64
}
