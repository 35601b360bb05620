// services/tracking_service.go
package services

import (
	"errors"
	"sync"
	"time"

	"backend/models"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

var ErrNotAuthenticated = errors.New("not authenticated")

const dateLayout = "2006-01-02"

func FormatDate(t time.Time) string {
	return t.Format(dateLayout)
}

func ParseDate(s string) (time.Time, error) {
	return time.Parse(dateLayout, s)
}

// MealAnalysisResult is what the estimation provider returns for one meal.
type MealAnalysisResult struct {
	MealName    string  `json:"mealName" binding:"required"`
	Calories    float64 `json:"calories"`
	Protein     float64 `json:"protein"`
	Carbs       float64 `json:"carbs"`
	Fat         float64 `json:"fat"`
	Fiber       float64 `json:"fiber"`
	Sugar       float64 `json:"sugar"`
	Sodium      float64 `json:"sodium"`
	Description string  `json:"description"`
}

// DaySession holds the one in-memory "current day" ledger for a signed-in
// user. Mutations are serialized by its mutex and applied to memory first;
// persistence happens afterwards on the write queue, so readers see the
// change immediately and a failed write never rolls it back.
type DaySession struct {
	mu      sync.Mutex
	userID  uint
	svc     *TrackingService
	current *models.DailyLedger
	gen     uint64
	loading bool
	lastErr string
}

// TrackingService owns one DaySession per authenticated user and is the only
// component allowed to mutate daily totals.
type TrackingService struct {
	store *LedgerStore
	queue *WriteQueue
	hub   *RealtimeHub

	mu       sync.Mutex
	sessions map[uint]*DaySession
}

func NewTrackingService(store *LedgerStore, queue *WriteQueue, hub *RealtimeHub) *TrackingService {
	return &TrackingService{
		store:    store,
		queue:    queue,
		hub:      hub,
		sessions: make(map[uint]*DaySession),
	}
}

// Session returns the user's current-day session, creating it on first
// access with today's data loaded.
func (t *TrackingService) Session(userID uint) (*DaySession, error) {
	if userID == 0 {
		return nil, ErrNotAuthenticated
	}

	t.mu.Lock()
	s, ok := t.sessions[userID]
	if !ok {
		s = &DaySession{
			userID:  userID,
			svc:     t,
			current: models.NewDailyLedger(FormatDate(time.Now())),
		}
		t.sessions[userID] = s
	}
	t.mu.Unlock()

	if !ok {
		s.LoadDay(s.current.Date)
	}
	return s, nil
}

// ResetSession drops the in-memory day for a user so the next access reloads
// fresh state. Called whenever the authenticated identity changes.
func (t *TrackingService) ResetSession(userID uint) {
	t.mu.Lock()
	delete(t.sessions, userID)
	t.mu.Unlock()
}

// ListAvailableDays returns every tracked day key for the user, most recent
// first. Fails soft: store errors yield an empty list.
func (t *TrackingService) ListAvailableDays(userID uint) []string {
	if userID == 0 {
		return []string{}
	}
	dates, err := t.store.ListDates(userID)
	if err != nil {
		logrus.WithError(err).Error("listing tracked days failed")
		return []string{}
	}
	return dates
}

// LoadDay replaces the session's current ledger with the stored document for
// date, or a fresh empty day when none exists. Store errors fall back to an
// empty day and are surfaced through the returned error and the session's
// error message; they are never fatal to the caller.
func (s *DaySession) LoadDay(date string) (*models.DailyLedger, error) {
	s.mu.Lock()
	s.loading = true
	gen := s.gen
	s.mu.Unlock()

	ledger, found, err := s.svc.store.Get(s.userID, date)
	return s.applyLoaded(date, ledger, found, err, gen)
}

// applyLoaded installs the result of a store read taken at generation gen.
// A mutation that landed while the read was in flight bumps the generation;
// in that case the mutated ledger wins and the fetched one is discarded.
func (s *DaySession) applyLoaded(date string, ledger *models.DailyLedger, found bool, err error, gen uint64) (*models.DailyLedger, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false

	if s.gen != gen {
		if err != nil {
			s.lastErr = "Failed to load daily data"
			return s.current.Clone(), err
		}
		return s.current.Clone(), nil
	}

	if err != nil {
		s.lastErr = "Failed to load daily data"
		s.current = models.NewDailyLedger(date)
		return s.current.Clone(), err
	}

	s.lastErr = ""
	if !found {
		ledger = models.NewDailyLedger(date)
	}
	s.current = ledger
	return s.current.Clone(), nil
}

// AddMeal commits an estimate into the current day: fresh id, current
// timestamp, appended entry, totals bumped (vitamins untouched), write
// scheduled. The returned entry is already visible to readers.
func (s *DaySession) AddMeal(est MealAnalysisResult, hasPhoto bool, photoURL string) models.MealEntry {
	entry := models.MealEntry{
		ID:          uuid.NewString(),
		MealName:    est.MealName,
		Calories:    est.Calories,
		Protein:     est.Protein,
		Carbs:       est.Carbs,
		Fat:         est.Fat,
		Fiber:       est.Fiber,
		Sugar:       est.Sugar,
		Sodium:      est.Sodium,
		Description: est.Description,
		HasPhoto:    hasPhoto,
		CreatedAt:   time.Now(),
	}
	if hasPhoto {
		entry.PhotoURL = photoURL
	}

	s.mu.Lock()
	s.current.AddEntry(entry)
	s.gen++
	snapshot := s.current.Clone()
	s.mu.Unlock()

	s.scheduleSave(snapshot)
	return entry
}

// RemoveMeal deletes the entry with id if present, subtracting its macros
// with a zero floor per field. An unknown id is a no-op, not an error.
func (s *DaySession) RemoveMeal(id string) *models.MealEntry {
	s.mu.Lock()
	removed := s.current.RemoveEntry(id)
	if removed == nil {
		s.mu.Unlock()
		return nil
	}
	s.gen++
	snapshot := s.current.Clone()
	s.mu.Unlock()

	s.scheduleSave(snapshot)
	return removed
}

// Snapshot returns a copy of the current ledger along with the status pair
// the client renders (spinner + transient error banner).
func (s *DaySession) Snapshot() (*models.DailyLedger, bool, string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current.Clone(), s.loading, s.lastErr
}

func (s *DaySession) scheduleSave(snapshot *models.DailyLedger) {
	s.svc.queue.Enqueue(s.userID, snapshot, func(err error) {
		if err != nil {
			s.mu.Lock()
			s.lastErr = "Failed to save daily data"
			s.mu.Unlock()
			EmitAlert(s.userID, "sync_failed", "Your latest meal changes could not be saved")
			return
		}
		if s.svc.hub != nil {
			s.svc.hub.Broadcast(s.userID, map[string]any{
				"kind":   "ledger.updated",
				"ledger": snapshot,
			})
		}
	})
}
