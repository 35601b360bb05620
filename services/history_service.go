package services

import (
	"backend/models"
)

// HistoryService reads past days on demand. Every call works on its own
// ledger instance and persists independently of the current-day session —
// deleting a meal from a historical day never touches the live session, even
// when the requested date happens to be today.
type HistoryService struct {
	store *LedgerStore
	queue *WriteQueue
}

func NewHistoryService(store *LedgerStore, queue *WriteQueue) *HistoryService {
	return &HistoryService{store: store, queue: queue}
}

// LoadDay returns the stored ledger for date, or an empty one when none
// exists. A store error also yields an empty day plus the error as a
// non-fatal signal.
func (h *HistoryService) LoadDay(userID uint, date string) (*models.DailyLedger, error) {
	if userID == 0 {
		return nil, ErrNotAuthenticated
	}

	ledger, found, err := h.store.Get(userID, date)
	if err != nil {
		return models.NewDailyLedger(date), err
	}
	if !found {
		return models.NewDailyLedger(date), nil
	}
	return ledger, nil
}

// RemoveMeal loads date fresh, removes the meal with mealID, and schedules
// its own full-document write. Returns nil when the meal is not on that day.
func (h *HistoryService) RemoveMeal(userID uint, date, mealID string) (*models.MealEntry, error) {
	ledger, err := h.LoadDay(userID, date)
	if err != nil {
		return nil, err
	}

	removed := ledger.RemoveEntry(mealID)
	if removed == nil {
		return nil, nil
	}

	h.queue.Enqueue(userID, ledger, nil)
	return removed, nil
}
