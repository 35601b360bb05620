// services/goal_service.go
package services

import (
	"errors"

	"backend/models"

	"gorm.io/gorm"
)

// Targets the mobile client ships with, used until the user sets their own.
func defaultGoals(userID uint) models.DailyGoal {
	return models.DailyGoal{
		UserID:   userID,
		Calories: 2000,
		Protein:  150,
		Carbs:    200,
		Fat:      65,
		Fiber:    25,
		Sugar:    50,
		Sodium:   2300,
		Vitamins: 100,
	}
}

type GoalService struct {
	db      *gorm.DB
	tracker *TrackingService
}

func NewGoalService(db *gorm.DB, tracker *TrackingService) *GoalService {
	return &GoalService{db: db, tracker: tracker}
}

// GetGoalsAndProgress returns the user's goals plus consumed/goal/percent
// per nutrient, computed against the session's current ledger.
func (g *GoalService) GetGoalsAndProgress(userID uint) (*models.DailyGoal, map[string]interface{}, error) {
	var goal models.DailyGoal
	err := g.db.Where("user_id = ?", userID).First(&goal).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		goal = defaultGoals(userID)
	} else if err != nil {
		return nil, nil, err
	}

	sess, err := g.tracker.Session(userID)
	if err != nil {
		return nil, nil, err
	}
	ledger, _, _ := sess.Snapshot()

	pct := func(consumed, target float64) float64 {
		if target <= 0 {
			return 0
		}
		p := consumed / target
		if p > 1 {
			return 1
		}
		return p
	}

	progress := map[string]interface{}{
		"calories": map[string]float64{"consumed": ledger.CaloriesConsumed, "goal": goal.Calories, "percent": pct(ledger.CaloriesConsumed, goal.Calories)},
		"protein":  map[string]float64{"consumed": ledger.ProteinConsumed, "goal": goal.Protein, "percent": pct(ledger.ProteinConsumed, goal.Protein)},
		"carbs":    map[string]float64{"consumed": ledger.CarbsConsumed, "goal": goal.Carbs, "percent": pct(ledger.CarbsConsumed, goal.Carbs)},
		"fat":      map[string]float64{"consumed": ledger.FatConsumed, "goal": goal.Fat, "percent": pct(ledger.FatConsumed, goal.Fat)},
		"fiber":    map[string]float64{"consumed": ledger.FiberConsumed, "goal": goal.Fiber, "percent": pct(ledger.FiberConsumed, goal.Fiber)},
		"sugar":    map[string]float64{"consumed": ledger.SugarConsumed, "goal": goal.Sugar, "percent": pct(ledger.SugarConsumed, goal.Sugar)},
		"sodium":   map[string]float64{"consumed": ledger.SodiumConsumed, "goal": goal.Sodium, "percent": pct(ledger.SodiumConsumed, goal.Sodium)},
		"vitamins": map[string]float64{"consumed": ledger.VitaminsConsumed, "goal": goal.Vitamins, "percent": pct(ledger.VitaminsConsumed, goal.Vitamins)},
	}

	return &goal, progress, nil
}

func (g *GoalService) UpsertGoals(
	userID uint,
	calories, protein, carbs, fat, fiber, sugar, sodium, vitamins float64,
) error {
	var goal models.DailyGoal
	err := g.db.Where("user_id = ?", userID).First(&goal).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		goal = models.DailyGoal{
			UserID:   userID,
			Calories: calories,
			Protein:  protein,
			Carbs:    carbs,
			Fat:      fat,
			Fiber:    fiber,
			Sugar:    sugar,
			Sodium:   sodium,
			Vitamins: vitamins,
		}
		return g.db.Create(&goal).Error
	}
	if err != nil {
		return err
	}

	goal.Calories = calories
	goal.Protein = protein
	goal.Carbs = carbs
	goal.Fat = fat
	goal.Fiber = fiber
	goal.Sugar = sugar
	goal.Sodium = sodium
	goal.Vitamins = vitamins

	return g.db.Save(&goal).Error
}
