package handler

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ahmed-elshahat-702/recipe-hub/pkg/logger"
	"github.com/ahmed-elshahat-702/recipe-hub/pkg/metrics"
	"github.com/ahmed-elshahat-702/recipe-hub/recipes-service/internal/app/recipes/infrastructure"
)

const serviceName = "recipes-service"

// Handlers объединяет обработчики для SetupRoutes
type Handlers struct {
	Recipe      *RecipeHandler
	Interaction *InteractionHandler
	User        *UserHandler
}

// SetupRoutes настраивает все маршруты приложения с использованием Gin.
// Чтение доступно без токена, запись требует аутентификации.
// idempotencyStore может быть nil, тогда Idempotency-Key игнорируется
func SetupRoutes(handlers Handlers, authMiddleware *AuthMiddleware, idempotencyStore infrastructure.IdempotencyStore) *gin.Engine {
	router := gin.New()

	router.Use(gin.Recovery())

	router.Use(logger.GinLoggerMiddleware())

	router.Use(metrics.GinPrometheusMiddleware(serviceName))

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"https://*", "http://*"},
		AllowWildcard:    true,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Accept", "Authorization", "Content-Type", IdempotencyKeyHeader, logger.RequestIDHeader},
		ExposeHeaders:    []string{logger.RequestIDHeader, ReplayedHeader},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": serviceName,
		})
	})

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	required := authMiddleware.Authenticate()
	optional := authMiddleware.OptionalAuthenticate()
	idempotent := Idempotency(idempotencyStore)

	recipes := router.Group("/recipes")
	{
		recipes.GET("", optional, handlers.Recipe.ListRecipes)
		recipes.POST("", required, idempotent, handlers.Recipe.CreateRecipe)
		recipes.GET("/:id", optional, handlers.Recipe.GetRecipe)
		recipes.PUT("/:id", required, handlers.Recipe.UpdateRecipe)
		recipes.DELETE("/:id", required, handlers.Recipe.DeleteRecipe)

		recipes.GET("/:id/comments", handlers.Interaction.GetComments)
		recipes.POST("/:id/comments", required, idempotent, handlers.Interaction.AddComment)
		recipes.PATCH("/:id/comments/:comment_id", required, handlers.Interaction.EditComment)
		recipes.DELETE("/:id/comments/:comment_id", required, handlers.Interaction.DeleteComment)

		recipes.POST("/:id/comments/:comment_id/replies", required, idempotent, handlers.Interaction.AddReply)
		recipes.PATCH("/:id/comments/:comment_id/replies/:reply_id", required, handlers.Interaction.EditReply)
		recipes.DELETE("/:id/comments/:comment_id/replies/:reply_id", required, handlers.Interaction.DeleteReply)

		recipes.GET("/:id/likes", optional, handlers.Interaction.GetLikeStatus)
		recipes.POST("/:id/likes", required, idempotent, handlers.Interaction.ToggleLike)

		recipes.GET("/:id/rating", optional, handlers.Interaction.GetRatingSummary)
		recipes.POST("/:id/rating", required, idempotent, handlers.Interaction.SubmitRating)
	}

	users := router.Group("/users")
	{
		users.GET("/me", required, handlers.User.GetOwnProfile)
		users.PUT("/me", required, handlers.User.UpdateOwnProfile)

		users.GET("/:id", optional, handlers.User.GetProfile)
		users.GET("/:id/recipes", optional, handlers.User.GetUserRecipes)
		users.GET("/:id/liked-recipes", optional, handlers.User.GetLikedRecipes)
	}

	return router
}
