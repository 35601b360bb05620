package services

import (
	"errors"
	"os"
	"strconv"
	"sync"
	"time"

	"backend/models"

	"github.com/google/uuid"
)

var ErrStagedNotFound = errors.New("staged meal not found")

// Window before a staged estimate commits itself.
const defaultAutoCommit = 30 * time.Second

// StagedMeal is an estimate awaiting user confirmation.
type StagedMeal struct {
	ID        string             `json:"id"`
	UserID    uint               `json:"-"`
	Estimate  MealAnalysisResult `json:"estimate"`
	HasPhoto  bool               `json:"hasPhoto"`
	PhotoURL  string             `json:"photoURL,omitempty"`
	StagedAt  time.Time          `json:"stagedAt"`
	ExpiresAt time.Time          `json:"expiresAt"`

	timer    *time.Timer
	resolved bool
}

// StagingService parks estimates until the user accepts or rejects them. If
// neither happens before the window closes, the estimate commits itself. A
// staged meal resolves exactly once: the timer is stopped on accept/reject
// and the resolved flag stops a late timer fire, so a user acting just
// before expiry cannot double-commit.
type StagingService struct {
	mu      sync.Mutex
	tracker *TrackingService
	pending map[string]*StagedMeal
	window  time.Duration
}

func NewStagingService(tracker *TrackingService) *StagingService {
	window := defaultAutoCommit
	if v := os.Getenv("STAGING_AUTO_COMMIT_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			window = time.Duration(n) * time.Second
		}
	}
	return &StagingService{
		tracker: tracker,
		pending: make(map[string]*StagedMeal),
		window:  window,
	}
}

// Stage parks an estimate and starts its auto-commit timer.
func (s *StagingService) Stage(userID uint, est MealAnalysisResult, hasPhoto bool, photoURL string) *StagedMeal {
	now := time.Now()
	staged := &StagedMeal{
		ID:        uuid.NewString(),
		UserID:    userID,
		Estimate:  est,
		HasPhoto:  hasPhoto,
		PhotoURL:  photoURL,
		StagedAt:  now,
		ExpiresAt: now.Add(s.window),
	}

	s.mu.Lock()
	s.pending[staged.ID] = staged
	staged.timer = time.AfterFunc(s.window, func() {
		s.Accept(userID, staged.ID)
	})
	s.mu.Unlock()

	return staged
}

// Accept commits a staged estimate into the user's current day. The timer
// path and the user path funnel through here with identical semantics.
func (s *StagingService) Accept(userID uint, id string) (*models.MealEntry, error) {
	staged, ok := s.take(userID, id)
	if !ok {
		return nil, ErrStagedNotFound
	}

	sess, err := s.tracker.Session(userID)
	if err != nil {
		return nil, err
	}
	entry := sess.AddMeal(staged.Estimate, staged.HasPhoto, staged.PhotoURL)
	return &entry, nil
}

// Reject discards a staged estimate without committing it.
func (s *StagingService) Reject(userID uint, id string) bool {
	_, ok := s.take(userID, id)
	return ok
}

// take resolves a staged meal exactly once, stopping its timer.
func (s *StagingService) take(userID uint, id string) (*StagedMeal, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	staged, ok := s.pending[id]
	if !ok || staged.UserID != userID || staged.resolved {
		return nil, false
	}
	staged.resolved = true
	if staged.timer != nil {
		staged.timer.Stop()
	}
	delete(s.pending, id)
	return staged, true
}
