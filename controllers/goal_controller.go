package controllers

import (
	"net/http"

	"backend/services"

	"github.com/gin-gonic/gin"
)

type GoalController struct {
	Svc *services.GoalService
}

func NewGoalController(svc *services.GoalService) *GoalController {
	return &GoalController{Svc: svc}
}

func (gc *GoalController) GetGoals(c *gin.Context) {
	goal, progress, err := gc.Svc.GetGoalsAndProgress(c.GetUint("userID"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"goals": goal, "progress": progress})
}

func (gc *GoalController) UpdateGoals(c *gin.Context) {
	var body struct {
		Calories float64 `json:"calories"`
		Protein  float64 `json:"protein"`
		Carbs    float64 `json:"carbs"`
		Fat      float64 `json:"fat"`
		Fiber    float64 `json:"fiber"`
		Sugar    float64 `json:"sugar"`
		Sodium   float64 `json:"sodium"`
		Vitamins float64 `json:"vitamins"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := gc.Svc.UpsertGoals(c.GetUint("userID"),
		body.Calories, body.Protein, body.Carbs, body.Fat,
		body.Fiber, body.Sugar, body.Sodium, body.Vitamins)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "goals updated"})
}
