package controllers

import (
	"net/http"

	"backend/services"

	"github.com/gin-gonic/gin"
)

type HistoryController struct {
	Svc     *services.HistoryService
	Tracker *services.TrackingService
}

func NewHistoryController(svc *services.HistoryService, tracker *services.TrackingService) *HistoryController {
	return &HistoryController{Svc: svc, Tracker: tracker}
}

func (hc *HistoryController) ListDays(c *gin.Context) {
	days := hc.Tracker.ListAvailableDays(c.GetUint("userID"))
	c.JSON(http.StatusOK, gin.H{"days": days})
}

// GetDay returns a historical day's ledger. This is an independent instance
// from the current-day session; store errors degrade to an empty day.
func (hc *HistoryController) GetDay(c *gin.Context) {
	date := c.Param("date")
	if _, err := services.ParseDate(date); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date must be YYYY-MM-DD"})
		return
	}

	ledger, err := hc.Svc.LoadDay(c.GetUint("userID"), date)
	if ledger == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	resp := gin.H{"ledger": ledger}
	if err != nil {
		resp["error_message"] = "Failed to load daily data"
	}
	c.JSON(http.StatusOK, resp)
}

// RemoveMeal deletes a meal from a past day after the client's confirmation
// dialog. Works on that day's own ledger instance and persists it directly.
func (hc *HistoryController) RemoveMeal(c *gin.Context) {
	date := c.Param("date")
	if _, err := services.ParseDate(date); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date must be YYYY-MM-DD"})
		return
	}

	removed, err := hc.Svc.RemoveMeal(c.GetUint("userID"), date, c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if removed == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "meal not found"})
		return
	}
	c.JSON(http.StatusOK, removed)
}
