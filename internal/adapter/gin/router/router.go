package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.uber.org/zap"

	"github.com/Ivanildsdev/myrecipebook/docs"
	"github.com/Ivanildsdev/myrecipebook/internal/adapter/gin/handler"
	"github.com/Ivanildsdev/myrecipebook/internal/adapter/gin/middleware"
	"github.com/Ivanildsdev/myrecipebook/internal/usecase/user"
	"github.com/Ivanildsdev/myrecipebook/pkg/logger"
)

// SetupRouter configures and returns a Gin router with all routes and middleware
func SetupRouter(
	userHandler *handler.UserHandler,
	tokens middleware.AccessTokenValidator,
	repo user.ReadRepository,
	log *zap.Logger,
) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Global middleware
	router.Use(middleware.Recovery(log))
	router.Use(logger.RequestID())
	router.Use(middleware.Logger(log))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "myrecipebook-api",
		})
	})

	// Swagger UI over the embedded OpenAPI document
	router.GET("/docs/openapi.json", func(c *gin.Context) {
		c.Data(http.StatusOK, "application/json", docs.OpenAPI)
	})
	router.GET("/swagger/*any", gin.WrapH(httpSwagger.Handler(
		httpSwagger.URL("/docs/openapi.json"),
	)))

	authenticated := middleware.AuthenticatedUser(tokens, repo, log)

	// API v1 routes
	v1 := router.Group("/v1")
	{
		v1.POST("/login", userHandler.Login)

		users := v1.Group("/user")
		{
			users.POST("", userHandler.Register)
			users.GET("", authenticated, userHandler.Profile)
			users.PUT("", authenticated, userHandler.Update)
			users.PUT("/change-password", authenticated, userHandler.ChangePassword)
		}
	}

	return router
}
