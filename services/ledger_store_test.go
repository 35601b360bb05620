package services

import (
	"math"
	"testing"
	"time"

	"backend/models"
)

func TestGetMissingDayIsNotAnError(t *testing.T) {
	store := NewLedgerStore(newTestDB(t))

	ledger, found, err := store.Get(1, "2024-01-01")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if found {
		t.Fatal("expected found=false for a day that was never written")
	}
	if ledger != nil {
		t.Fatalf("expected nil ledger, got %+v", ledger)
	}
}

func TestPutGetRoundTrip(t *testing.T) {
	store := NewLedgerStore(newTestDB(t))

	l := models.NewDailyLedger("2024-01-01")
	l.AddEntry(models.MealEntry{ID: "a", MealName: "omelette", Calories: 350, Protein: 35, Carbs: 12, Fat: 18, Fiber: 8, Sugar: 6, Sodium: 420, CreatedAt: time.Now()})
	l.AddEntry(models.MealEntry{ID: "b", MealName: "salad", Calories: 280, Protein: 22, Carbs: 25, Fat: 12, Fiber: 5, Sugar: 8, Sodium: 350, HasPhoto: true, PhotoURL: "https://cdn.example.com/meal.jpg", CreatedAt: time.Now()})
	l.VitaminsConsumed = 40

	if err := store.Put(1, l); err != nil {
		t.Fatalf("put: %v", err)
	}

	got, found, err := store.Get(1, "2024-01-01")
	if err != nil || !found {
		t.Fatalf("get: found=%v err=%v", found, err)
	}
	if math.Abs(got.CaloriesConsumed-630) > 1e-9 {
		t.Errorf("calories = %v, want 630", got.CaloriesConsumed)
	}
	if got.VitaminsConsumed != 40 {
		t.Errorf("vitamins = %v, want 40", got.VitaminsConsumed)
	}
	if len(got.AnalyzedMeals) != 2 {
		t.Fatalf("entries = %d, want 2", len(got.AnalyzedMeals))
	}
	if got.AnalyzedMeals[0].ID != "a" || got.AnalyzedMeals[1].ID != "b" {
		t.Errorf("entry order not preserved: %+v", got.AnalyzedMeals)
	}
	if !got.AnalyzedMeals[1].HasPhoto || got.AnalyzedMeals[1].PhotoURL == "" {
		t.Errorf("photo reference lost in round trip")
	}
}

func TestPutIsFullReplace(t *testing.T) {
	store := NewLedgerStore(newTestDB(t))

	l := models.NewDailyLedger("2024-01-01")
	l.AddEntry(models.MealEntry{ID: "a", Calories: 350})
	if err := store.Put(1, l); err != nil {
		t.Fatalf("first put: %v", err)
	}

	l.RemoveEntry("a")
	l.AddEntry(models.MealEntry{ID: "b", Calories: 100})
	if err := store.Put(1, l); err != nil {
		t.Fatalf("second put: %v", err)
	}

	got, found, err := store.Get(1, "2024-01-01")
	if err != nil || !found {
		t.Fatalf("get: found=%v err=%v", found, err)
	}
	if len(got.AnalyzedMeals) != 1 || got.AnalyzedMeals[0].ID != "b" {
		t.Errorf("document not fully replaced: %+v", got.AnalyzedMeals)
	}
	if got.CaloriesConsumed != 100 {
		t.Errorf("calories = %v, want 100", got.CaloriesConsumed)
	}

	dates, err := store.ListDates(1)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(dates) != 1 {
		t.Errorf("upsert created duplicate rows: %v", dates)
	}
}

func TestListDatesNewestFirstPerUser(t *testing.T) {
	store := NewLedgerStore(newTestDB(t))

	for _, d := range []string{"2024-01-02", "2024-01-10", "2023-12-31"} {
		if err := store.Put(1, models.NewDailyLedger(d)); err != nil {
			t.Fatalf("put %s: %v", d, err)
		}
	}
	if err := store.Put(2, models.NewDailyLedger("2024-05-05")); err != nil {
		t.Fatalf("put other user: %v", err)
	}

	dates, err := store.ListDates(1)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	want := []string{"2024-01-10", "2024-01-02", "2023-12-31"}
	if len(dates) != len(want) {
		t.Fatalf("dates = %v, want %v", dates, want)
	}
	for i := range want {
		if dates[i] != want[i] {
			t.Fatalf("dates = %v, want %v", dates, want)
		}
	}
}
