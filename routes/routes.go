package routes

import (
	"os"
	"strings"

	"aicruel-backend/config"
	"aicruel-backend/controllers"
	"aicruel-backend/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func SetupRouter(cfg *config.Config) *gin.Engine {
	r := gin.Default()

	origins := []string{"http://localhost:3000"}
	if env := os.Getenv("ALLOWED_ORIGINS"); env != "" {
		origins = strings.Split(env, ",")
	}

	r.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	r.Use(config.PerformanceLogger())

	auth := r.Group("/auth")
	{
		auth.POST("/register", controllers.Register)
		auth.POST("/login", controllers.Login)

		auth.Use(utils.AuthMiddleware())
		auth.GET("/me", controllers.Me)
	}

	api := r.Group("/api")
	api.Use(utils.AuthMiddleware())
	{
		// Deadline routes
		deadlines := api.Group("/deadlines")
		{
			deadlines.POST("", controllers.CreateDeadline)
			deadlines.GET("", controllers.GetDeadlines)
			deadlines.GET("/:id", controllers.GetDeadline)
			deadlines.PUT("/:id", controllers.UpdateDeadline)
			deadlines.DELETE("/:id", controllers.DeleteDeadline)
		}

		// Notification settings routes
		settings := api.Group("/settings")
		{
			settings.GET("/notifications", controllers.GetNotificationSettings)
			settings.PUT("/notifications", controllers.UpdateNotificationSettings)
			settings.GET("/notifications/channels", controllers.ChannelStatus(cfg))
		}
	}

	return r
}
