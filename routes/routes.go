package routes

import (
	"backend/config"
	"backend/controllers"
	"backend/middlewares"
	"backend/services"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

func SetupRouter() *gin.Engine {
	r := gin.Default()
	r.Use(cors.Default())

	// composition root: services share one store and one write queue
	store := services.NewLedgerStore(config.DB)
	queue := services.NewWriteQueue(store)
	hub := services.NewRealtimeHub()
	tracker := services.NewTrackingService(store, queue, hub)
	history := services.NewHistoryService(store, queue)
	staging := services.NewStagingService(tracker)
	goals := services.NewGoalService(config.DB, tracker)
	services.InitAlertDeps(config.DB, hub)

	analysis, err := services.NewAnalysisService()
	if err != nil {
		logrus.Fatalf("Rekognition init failed: %v", err)
	}

	authCtl := controllers.NewAuthController(tracker)
	trackingCtl := controllers.NewTrackingController(tracker)
	analysisCtl := controllers.NewAnalysisController(analysis, staging)
	historyCtl := controllers.NewHistoryController(history, tracker)
	goalCtl := controllers.NewGoalController(goals)
	rtCtl := controllers.NewRealtimeController(hub)

	// Public auth routes
	auth := r.Group("/auth")
	{
		auth.POST("/register", authCtl.Register)
		auth.POST("/login", authCtl.Login)
	}

	tracking := r.Group("/tracking")
	tracking.Use(middlewares.AuthMiddleware())
	{
		tracking.GET("/current", trackingCtl.CurrentDay)
		tracking.GET("/day/:date", trackingCtl.LoadDay)
		tracking.GET("/days", trackingCtl.ListDays)
		tracking.POST("/meals", trackingCtl.AddMeal)
		tracking.DELETE("/meals/:id", trackingCtl.RemoveMeal)
	}

	analysisGrp := r.Group("/analysis")
	analysisGrp.Use(middlewares.AuthMiddleware())
	{
		analysisGrp.POST("/estimate", analysisCtl.Estimate)
		analysisGrp.POST("/staged/:id/accept", analysisCtl.AcceptStaged)
		analysisGrp.POST("/staged/:id/reject", analysisCtl.RejectStaged)
	}

	historyGrp := r.Group("/history")
	historyGrp.Use(middlewares.AuthMiddleware())
	{
		historyGrp.GET("/days", historyCtl.ListDays)
		historyGrp.GET("/day/:date", historyCtl.GetDay)
		historyGrp.DELETE("/day/:date/meals/:id", historyCtl.RemoveMeal)
	}

	goalsGrp := r.Group("/goals")
	goalsGrp.Use(middlewares.AuthMiddleware())
	{
		goalsGrp.GET("", goalCtl.GetGoals)
		goalsGrp.PUT("", goalCtl.UpdateGoals)
	}

	photos := r.Group("/photos")
	photos.Use(middlewares.AuthMiddleware())
	{
		photos.POST("", controllers.UploadMealPhoto)
	}

	ws := r.Group("/ws")
	ws.Use(middlewares.AuthMiddleware())
	{
		ws.GET("", rtCtl.UpdatesWS)
	}

	return r
}
