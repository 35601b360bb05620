package services

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"backend/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.ReplaceAll(t.Name(), "/", "_")
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("opening test db: %v", err)
	}
	if err := db.AutoMigrate(&models.DailyRecord{}, &models.DailyGoal{}, &models.Alert{}); err != nil {
		t.Fatalf("migrating test db: %v", err)
	}
	return db
}

func newTestTracker(t *testing.T) (*TrackingService, *LedgerStore) {
	t.Helper()

	store := NewLedgerStore(newTestDB(t))
	queue := NewWriteQueue(store)
	t.Cleanup(queue.Close)
	return NewTrackingService(store, queue, nil), store
}

// waitFor polls cond until it holds or the deadline passes, for asserting on
// fire-and-forget persistence writes.
func waitFor(t *testing.T, cond func() bool) {
	t.Helper()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("condition not met in time")
}

func testEstimate(name string, calories, protein, carbs, fat, fiber, sugar, sodium float64) MealAnalysisResult {
	return MealAnalysisResult{
		MealName:    name,
		Calories:    calories,
		Protein:     protein,
		Carbs:       carbs,
		Fat:         fat,
		Fiber:       fiber,
		Sugar:       sugar,
		Sodium:      sodium,
		Description: "test meal",
	}
}
