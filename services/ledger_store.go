// services/ledger_store.go
package services

import (
	"encoding/json"
	"errors"
	"time"

	"backend/models"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// LedgerStore persists one full tracking document per (user, date). Every
// write replaces the whole document; partial updates do not exist, so the
// last write to land wins.
type LedgerStore struct {
	db *gorm.DB
}

func NewLedgerStore(db *gorm.DB) *LedgerStore {
	return &LedgerStore{db: db}
}

// Get returns the ledger for date, a found flag, and an error. A missing
// document is not an error; callers construct an empty day instead.
func (s *LedgerStore) Get(userID uint, date string) (*models.DailyLedger, bool, error) {
	var rec models.DailyRecord
	err := s.db.Where("user_id = ? AND date = ?", userID, date).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	ledger, err := recordToLedger(&rec)
	if err != nil {
		return nil, false, err
	}
	return ledger, true, nil
}

// Put upserts the full document at (userID, ledger.Date) and stamps the
// write time as updatedAt.
func (s *LedgerStore) Put(userID uint, ledger *models.DailyLedger) error {
	meals, err := json.Marshal(ledger.AnalyzedMeals)
	if err != nil {
		return err
	}

	var rec models.DailyRecord
	err = s.db.Where("user_id = ? AND date = ?", userID, ledger.Date).First(&rec).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	rec.UserID = userID
	rec.Date = ledger.Date
	rec.CaloriesConsumed = ledger.CaloriesConsumed
	rec.ProteinConsumed = ledger.ProteinConsumed
	rec.CarbsConsumed = ledger.CarbsConsumed
	rec.FatConsumed = ledger.FatConsumed
	rec.FiberConsumed = ledger.FiberConsumed
	rec.SugarConsumed = ledger.SugarConsumed
	rec.SodiumConsumed = ledger.SodiumConsumed
	rec.VitaminsConsumed = ledger.VitaminsConsumed
	rec.AnalyzedMeals = datatypes.JSON(meals)
	rec.UpdatedAt = time.Now()

	if rec.ID == 0 {
		return s.db.Create(&rec).Error
	}
	return s.db.Save(&rec).Error
}

// ListDates returns every day key for the user, most recent first.
func (s *LedgerStore) ListDates(userID uint) ([]string, error) {
	var dates []string
	err := s.db.Model(&models.DailyRecord{}).
		Where("user_id = ?", userID).
		Order("date DESC").
		Pluck("date", &dates).Error
	return dates, err
}

func recordToLedger(rec *models.DailyRecord) (*models.DailyLedger, error) {
	meals := []models.MealEntry{}
	if len(rec.AnalyzedMeals) > 0 {
		if err := json.Unmarshal(rec.AnalyzedMeals, &meals); err != nil {
			return nil, err
		}
	}

	return &models.DailyLedger{
		Date:             rec.Date,
		CaloriesConsumed: rec.CaloriesConsumed,
		ProteinConsumed:  rec.ProteinConsumed,
		CarbsConsumed:    rec.CarbsConsumed,
		FatConsumed:      rec.FatConsumed,
		FiberConsumed:    rec.FiberConsumed,
		SugarConsumed:    rec.SugarConsumed,
		SodiumConsumed:   rec.SodiumConsumed,
		VitaminsConsumed: rec.VitaminsConsumed,
		AnalyzedMeals:    meals,
		CreatedAt:        rec.CreatedAt,
		UpdatedAt:        rec.UpdatedAt,
	}, nil
}
