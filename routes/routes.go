package routes

import (
	"questionbank/handlers"
	"questionbank/monitoring"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(
	router *gin.Engine,
	questionHandler *handlers.QuestionHandler,
	feedHandler *handlers.FeedHandler,
	healthHandler *handlers.HealthHandler,
) {
	router.GET("/", healthHandler.Root)
	router.GET("/health", healthHandler.Health)
	router.GET("/metrics", monitoring.PrometheusHandler())

	api := router.Group("/api")
	{
		questions := api.Group("/questions")
		{
			questions.GET("", questionHandler.GetQuestions)
			questions.POST("", questionHandler.CreateQuestions)
			questions.GET("/feed", feedHandler.Subscribe)
		}
	}
}
