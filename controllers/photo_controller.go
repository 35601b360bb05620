package controllers

import (
	"fmt"
	"net/http"

	"backend/utils"

	"github.com/gin-gonic/gin"
)

type PhotoUploadRequest struct {
	ImageBase64 string `json:"image_base64" binding:"required"`
}

// UploadMealPhoto stores the photo and returns the URL the client passes
// along as the entry's photo reference when committing the meal.
func UploadMealPhoto(c *gin.Context) {
	var req PhotoUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	prefix := fmt.Sprintf("user-%d", c.GetUint("userID"))
	url, err := utils.UploadMealPhoto(req.ImageBase64, prefix)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Upload failed", "detail": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"url": url})
}
