package controllers

import (
	"errors"
	"net/http"

	"backend/services"

	"github.com/gin-gonic/gin"
)

type AnalysisController struct {
	Analysis *services.AnalysisService
	Staging  *services.StagingService
}

func NewAnalysisController(analysis *services.AnalysisService, staging *services.StagingService) *AnalysisController {
	return &AnalysisController{Analysis: analysis, Staging: staging}
}

// Estimate analyzes a described or photographed meal and stages the result.
// The staged estimate auto-commits when the window expires unless the client
// accepts or rejects it first.
func (ac *AnalysisController) Estimate(c *gin.Context) {
	var body struct {
		Description string `json:"description"`
		ImageBase64 string `json:"image_base64"`
		PhotoURL    string `json:"photo_url"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var (
		est      *services.MealAnalysisResult
		err      error
		hasPhoto bool
	)
	if body.ImageBase64 != "" {
		est, err = ac.Analysis.EstimateFromPhoto(body.ImageBase64)
		hasPhoto = true
	} else {
		est, err = ac.Analysis.EstimateFromText(body.Description)
	}
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	staged := ac.Staging.Stage(c.GetUint("userID"), *est, hasPhoto, body.PhotoURL)
	c.JSON(http.StatusOK, staged)
}

func (ac *AnalysisController) AcceptStaged(c *gin.Context) {
	entry, err := ac.Staging.Accept(c.GetUint("userID"), c.Param("id"))
	if err != nil {
		if errors.Is(err, services.ErrStagedNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, entry)
}

func (ac *AnalysisController) RejectStaged(c *gin.Context) {
	if !ac.Staging.Reject(c.GetUint("userID"), c.Param("id")) {
		c.JSON(http.StatusNotFound, gin.H{"error": "staged meal not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "discarded"})
}
