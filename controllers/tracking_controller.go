package controllers

import (
	"net/http"

	"backend/services"

	"github.com/gin-gonic/gin"
)

type TrackingController struct {
	Svc *services.TrackingService
}

func NewTrackingController(svc *services.TrackingService) *TrackingController {
	return &TrackingController{Svc: svc}
}

func (tc *TrackingController) session(c *gin.Context) (*services.DaySession, bool) {
	sess, err := tc.Svc.Session(c.GetUint("userID"))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return nil, false
	}
	return sess, true
}

// CurrentDay returns the session's in-memory ledger plus the async status
// pair the client renders.
func (tc *TrackingController) CurrentDay(c *gin.Context) {
	sess, ok := tc.session(c)
	if !ok {
		return
	}
	ledger, loading, errMsg := sess.Snapshot()
	c.JSON(http.StatusOK, gin.H{
		"ledger":        ledger,
		"is_loading":    loading,
		"error_message": errMsg,
	})
}

// LoadDay loads a specific date into the session. A store failure still
// returns an empty day; the error only shows up in error_message.
func (tc *TrackingController) LoadDay(c *gin.Context) {
	date := c.Param("date")
	if _, err := services.ParseDate(date); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date must be YYYY-MM-DD"})
		return
	}

	sess, ok := tc.session(c)
	if !ok {
		return
	}

	ledger, err := sess.LoadDay(date)
	resp := gin.H{"ledger": ledger}
	if err != nil {
		resp["error_message"] = "Failed to load daily data"
	}
	c.JSON(http.StatusOK, resp)
}

func (tc *TrackingController) AddMeal(c *gin.Context) {
	var body struct {
		Estimate services.MealAnalysisResult `json:"estimate" binding:"required"`
		HasPhoto bool                        `json:"has_photo"`
		PhotoURL string                      `json:"photo_url"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sess, ok := tc.session(c)
	if !ok {
		return
	}

	entry := sess.AddMeal(body.Estimate, body.HasPhoto, body.PhotoURL)
	c.JSON(http.StatusCreated, entry)
}

func (tc *TrackingController) RemoveMeal(c *gin.Context) {
	sess, ok := tc.session(c)
	if !ok {
		return
	}

	removed := sess.RemoveMeal(c.Param("id"))
	if removed == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "meal not found"})
		return
	}
	c.JSON(http.StatusOK, removed)
}

func (tc *TrackingController) ListDays(c *gin.Context) {
	days := tc.Svc.ListAvailableDays(c.GetUint("userID"))
	c.JSON(http.StatusOK, gin.H{"days": days})
}
