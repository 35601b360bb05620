package models

import "time"

// MealEntry is the immutable nutrition snapshot for one analyzed meal.
// Field names match the document shape the mobile client reads.
type MealEntry struct {
	ID          string    `json:"id"`
	MealName    string    `json:"mealName"`
	Calories    float64   `json:"calories"`
	Protein     float64   `json:"protein"`
	Carbs       float64   `json:"carbs"`
	Fat         float64   `json:"fat"`
	Fiber       float64   `json:"fiber"`
	Sugar       float64   `json:"sugar"`
	Sodium      float64   `json:"sodium"`
	Description string    `json:"description"`
	HasPhoto    bool      `json:"hasPhoto"`
	PhotoURL    string    `json:"photoURL,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// DailyLedger is one calendar day's committed meals plus the cached consumed
// totals. Totals stay in step with the entry list through AddEntry/RemoveEntry;
// vitamins are tracked manually and never derived from meals.
type DailyLedger struct {
	Date             string      `json:"date"` // YYYY-MM-DD
	CaloriesConsumed float64     `json:"caloriesConsumed"`
	ProteinConsumed  float64     `json:"proteinConsumed"`
	CarbsConsumed    float64     `json:"carbsConsumed"`
	FatConsumed      float64     `json:"fatConsumed"`
	FiberConsumed    float64     `json:"fiberConsumed"`
	SugarConsumed    float64     `json:"sugarConsumed"`
	SodiumConsumed   float64     `json:"sodiumConsumed"`
	VitaminsConsumed float64     `json:"vitaminsConsumed"`
	AnalyzedMeals    []MealEntry `json:"analyzedMeals"`
	CreatedAt        time.Time   `json:"createdAt"`
	UpdatedAt        time.Time   `json:"updatedAt"`
}

func NewDailyLedger(date string) *DailyLedger {
	now := time.Now()
	return &DailyLedger{
		Date:          date,
		AnalyzedMeals: []MealEntry{},
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// AddEntry appends e and folds its nutrients into the consumed totals.
func (l *DailyLedger) AddEntry(e MealEntry) {
	l.AnalyzedMeals = append(l.AnalyzedMeals, e)
	l.CaloriesConsumed += e.Calories
	l.ProteinConsumed += e.Protein
	l.CarbsConsumed += e.Carbs
	l.FatConsumed += e.Fat
	l.FiberConsumed += e.Fiber
	l.SugarConsumed += e.Sugar
	l.SodiumConsumed += e.Sodium
}

// RemoveEntry deletes the entry with the given id and subtracts its nutrients,
// clamping every total at zero. Returns nil when the id is not present.
func (l *DailyLedger) RemoveEntry(id string) *MealEntry {
	idx := -1
	for i := range l.AnalyzedMeals {
		if l.AnalyzedMeals[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil
	}
	e := l.AnalyzedMeals[idx]
	l.CaloriesConsumed = clampZero(l.CaloriesConsumed - e.Calories)
	l.ProteinConsumed = clampZero(l.ProteinConsumed - e.Protein)
	l.CarbsConsumed = clampZero(l.CarbsConsumed - e.Carbs)
	l.FatConsumed = clampZero(l.FatConsumed - e.Fat)
	l.FiberConsumed = clampZero(l.FiberConsumed - e.Fiber)
	l.SugarConsumed = clampZero(l.SugarConsumed - e.Sugar)
	l.SodiumConsumed = clampZero(l.SodiumConsumed - e.Sodium)
	l.AnalyzedMeals = append(l.AnalyzedMeals[:idx], l.AnalyzedMeals[idx+1:]...)
	return &e
}

// Clone returns a deep copy safe to hand to the write queue or a websocket
// client while the original keeps being mutated.
func (l *DailyLedger) Clone() *DailyLedger {
	cp := *l
	cp.AnalyzedMeals = make([]MealEntry, len(l.AnalyzedMeals))
	copy(cp.AnalyzedMeals, l.AnalyzedMeals)
	return &cp
}

func clampZero(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}
