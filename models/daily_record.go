package models

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// DailyRecord is the persisted tracking document, one row per user per
// calendar day. Writes always replace the whole row (no field-level updates).
type DailyRecord struct {
	gorm.Model
	UserID uint   `gorm:"uniqueIndex:idx_user_date;not null"`
	Date   string `gorm:"type:varchar(10);uniqueIndex:idx_user_date;not null"` // YYYY-MM-DD

	CaloriesConsumed float64
	ProteinConsumed  float64
	CarbsConsumed    float64
	FatConsumed      float64
	FiberConsumed    float64
	SugarConsumed    float64
	SodiumConsumed   float64
	VitaminsConsumed float64

	// serialized []MealEntry, insertion order preserved
	AnalyzedMeals datatypes.JSON
}
