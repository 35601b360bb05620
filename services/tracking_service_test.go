package services

import (
	"math"
	"testing"

	"backend/models"
)

func TestSessionRequiresUser(t *testing.T) {
	tracker, _ := newTestTracker(t)

	if _, err := tracker.Session(0); err != ErrNotAuthenticated {
		t.Fatalf("expected ErrNotAuthenticated, got %v", err)
	}
}

func TestLoadDayMissingYieldsEmptyLedger(t *testing.T) {
	tracker, _ := newTestTracker(t)
	sess, err := tracker.Session(1)
	if err != nil {
		t.Fatalf("session: %v", err)
	}

	ledger, err := sess.LoadDay("2024-01-01")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if ledger.Date != "2024-01-01" {
		t.Errorf("date = %q", ledger.Date)
	}
	if len(ledger.AnalyzedMeals) != 0 {
		t.Errorf("expected no entries, got %d", len(ledger.AnalyzedMeals))
	}
	if ledger.CaloriesConsumed != 0 || ledger.ProteinConsumed != 0 || ledger.VitaminsConsumed != 0 {
		t.Errorf("expected zero totals: %+v", ledger)
	}
}

// Mirrors a day of use: two commits and one deletion.
func TestAddAndRemoveMealScenario(t *testing.T) {
	tracker, _ := newTestTracker(t)
	sess, _ := tracker.Session(1)
	sess.LoadDay("2024-01-01")

	first := sess.AddMeal(testEstimate("omelette", 350, 35, 12, 18, 8, 6, 420), false, "")
	ledger, _, _ := sess.Snapshot()
	if ledger.CaloriesConsumed != 350 {
		t.Fatalf("after first add calories = %v, want 350", ledger.CaloriesConsumed)
	}

	sess.AddMeal(testEstimate("salad", 280, 22, 25, 12, 5, 8, 350), false, "")
	ledger, _, _ = sess.Snapshot()
	if ledger.CaloriesConsumed != 630 {
		t.Fatalf("after second add calories = %v, want 630", ledger.CaloriesConsumed)
	}

	removed := sess.RemoveMeal(first.ID)
	if removed == nil || removed.ID != first.ID {
		t.Fatalf("expected to remove first meal, got %+v", removed)
	}
	ledger, _, _ = sess.Snapshot()
	if math.Abs(ledger.CaloriesConsumed-280) > 1e-9 {
		t.Errorf("after removal calories = %v, want 280", ledger.CaloriesConsumed)
	}
	if len(ledger.AnalyzedMeals) != 1 {
		t.Errorf("entries = %d, want 1", len(ledger.AnalyzedMeals))
	}
}

func TestAddMealAlwaysAppendsWithDistinctIDs(t *testing.T) {
	tracker, _ := newTestTracker(t)
	sess, _ := tracker.Session(1)
	sess.LoadDay("2024-01-01")

	seen := make(map[string]bool)
	for i := 0; i < 10; i++ {
		e := sess.AddMeal(testEstimate("snack", 100, 5, 10, 3, 1, 4, 50), false, "")
		if seen[e.ID] {
			t.Fatalf("duplicate entry id %q", e.ID)
		}
		seen[e.ID] = true
	}

	ledger, _, _ := sess.Snapshot()
	if len(ledger.AnalyzedMeals) != 10 {
		t.Errorf("entries = %d, want 10", len(ledger.AnalyzedMeals))
	}
}

func TestRemoveMealUnknownIDLeavesStateUntouched(t *testing.T) {
	tracker, _ := newTestTracker(t)
	sess, _ := tracker.Session(1)
	sess.LoadDay("2024-01-01")
	sess.AddMeal(testEstimate("omelette", 350, 35, 12, 18, 8, 6, 420), false, "")

	if removed := sess.RemoveMeal("no-such-id"); removed != nil {
		t.Fatalf("expected nil, got %+v", removed)
	}
	ledger, _, _ := sess.Snapshot()
	if ledger.CaloriesConsumed != 350 || len(ledger.AnalyzedMeals) != 1 {
		t.Errorf("state changed by unknown-id removal: %+v", ledger)
	}
}

func TestRemoveMealClampsDriftedTotals(t *testing.T) {
	tracker, store := newTestTracker(t)

	// seed a drifted document: cached protein below the entry's protein
	drifted := models.NewDailyLedger("2024-01-01")
	drifted.AnalyzedMeals = []models.MealEntry{{ID: "big", MealName: "shake", Protein: 35, Calories: 200}}
	drifted.ProteinConsumed = 10
	drifted.CaloriesConsumed = 200
	if err := store.Put(1, drifted); err != nil {
		t.Fatalf("seed: %v", err)
	}

	sess, _ := tracker.Session(1)
	if _, err := sess.LoadDay("2024-01-01"); err != nil {
		t.Fatalf("load: %v", err)
	}

	if removed := sess.RemoveMeal("big"); removed == nil {
		t.Fatal("expected removal")
	}
	ledger, _, _ := sess.Snapshot()
	if ledger.ProteinConsumed != 0 {
		t.Errorf("protein = %v, want exactly 0 (clamped)", ledger.ProteinConsumed)
	}
}

func TestAddMealPersistsInBackground(t *testing.T) {
	tracker, store := newTestTracker(t)
	sess, _ := tracker.Session(1)
	sess.LoadDay("2024-01-01")

	sess.AddMeal(testEstimate("omelette", 350, 35, 12, 18, 8, 6, 420), true, "https://cdn.example.com/p.jpg")

	waitFor(t, func() bool {
		got, found, err := store.Get(1, "2024-01-01")
		return err == nil && found && got.CaloriesConsumed == 350 && len(got.AnalyzedMeals) == 1
	})
}

func TestListAvailableDaysFailsSoft(t *testing.T) {
	tracker, store := newTestTracker(t)

	if days := tracker.ListAvailableDays(0); len(days) != 0 {
		t.Errorf("unauthenticated list should be empty, got %v", days)
	}

	store.Put(1, models.NewDailyLedger("2024-01-01"))
	store.Put(1, models.NewDailyLedger("2024-02-01"))
	days := tracker.ListAvailableDays(1)
	if len(days) != 2 || days[0] != "2024-02-01" {
		t.Errorf("days = %v, want newest first", days)
	}
}

func TestLoadDayStoreErrorFallsBackToEmptyDay(t *testing.T) {
	tracker, store := newTestTracker(t)
	sess, _ := tracker.Session(1)

	if err := store.db.Migrator().DropTable(&models.DailyRecord{}); err != nil {
		t.Fatalf("drop table: %v", err)
	}

	ledger, err := sess.LoadDay("2024-01-01")
	if err == nil {
		t.Fatal("expected a store error")
	}
	if ledger.Date != "2024-01-01" || len(ledger.AnalyzedMeals) != 0 || ledger.CaloriesConsumed != 0 {
		t.Errorf("expected empty fallback day, got %+v", ledger)
	}

	current, loading, errMsg := sess.Snapshot()
	if loading {
		t.Error("loading flag still set after failed load")
	}
	if errMsg != "Failed to load daily data" {
		t.Errorf("error message = %q, want %q", errMsg, "Failed to load daily data")
	}
	if len(current.AnalyzedMeals) != 0 || current.CaloriesConsumed != 0 {
		t.Errorf("session kept stale state: %+v", current)
	}
}

func TestFailedSaveSetsErrorAndEmitsAlert(t *testing.T) {
	tracker, store := newTestTracker(t)
	InitAlertDeps(store.db, nil)
	t.Cleanup(func() { _alert = alertDeps{} })

	sess, _ := tracker.Session(1)
	sess.LoadDay("2024-01-01")

	if err := store.db.Migrator().DropTable(&models.DailyRecord{}); err != nil {
		t.Fatalf("drop table: %v", err)
	}

	sess.AddMeal(testEstimate("omelette", 350, 35, 12, 18, 8, 6, 420), false, "")

	waitFor(t, func() bool {
		_, _, errMsg := sess.Snapshot()
		return errMsg == "Failed to save daily data"
	})

	// the in-memory day keeps the meal; a failed write never rolls it back
	ledger, _, _ := sess.Snapshot()
	if len(ledger.AnalyzedMeals) != 1 || ledger.CaloriesConsumed != 350 {
		t.Errorf("failed write rolled back memory: %+v", ledger)
	}

	var count int64
	if err := store.db.Model(&models.Alert{}).
		Where("user_id = ? AND type = ?", 1, "sync_failed").
		Count(&count).Error; err != nil {
		t.Fatalf("count alerts: %v", err)
	}
	if count != 1 {
		t.Errorf("alert rows = %d, want 1", count)
	}
}

func TestLoadDayKeepsMutationThatLandedMidRead(t *testing.T) {
	tracker, store := newTestTracker(t)
	sess, _ := tracker.Session(1)
	sess.LoadDay("2024-01-01")
	sess.AddMeal(testEstimate("omelette", 350, 35, 12, 18, 8, 6, 420), false, "")

	waitFor(t, func() bool {
		_, found, err := store.Get(1, "2024-01-01")
		return err == nil && found
	})

	// replay a load whose store read was already done when a second meal
	// landed: the fetched snapshot is stale and must not erase the add
	fetched, found, err := store.Get(1, "2024-01-01")
	if err != nil || !found {
		t.Fatalf("get: found=%v err=%v", found, err)
	}
	sess.mu.Lock()
	gen := sess.gen
	sess.mu.Unlock()

	added := sess.AddMeal(testEstimate("salad", 280, 22, 25, 12, 5, 8, 350), false, "")

	ledger, applyErr := sess.applyLoaded("2024-01-01", fetched, found, nil, gen)
	if applyErr != nil {
		t.Fatalf("apply: %v", applyErr)
	}
	if len(ledger.AnalyzedMeals) != 2 {
		t.Fatalf("entries = %d, want 2", len(ledger.AnalyzedMeals))
	}
	kept := false
	for _, e := range ledger.AnalyzedMeals {
		if e.ID == added.ID {
			kept = true
		}
	}
	if !kept {
		t.Error("meal added during the load was dropped")
	}
}

func TestResetSessionDropsInMemoryState(t *testing.T) {
	tracker, _ := newTestTracker(t)
	sess, _ := tracker.Session(1)
	sess.LoadDay("2024-01-01")
	sess.AddMeal(testEstimate("omelette", 350, 35, 12, 18, 8, 6, 420), false, "")

	tracker.ResetSession(1)

	fresh, _ := tracker.Session(1)
	if fresh == sess {
		t.Fatal("expected a new session after reset")
	}
}
