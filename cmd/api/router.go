package api

import (
	"net/http"

	authDelivery "github.com/thamiresml/thracker-sub002/internal/auth/delivery"
	authUsecase "github.com/thamiresml/thracker-sub002/internal/auth/usecase"
	connDelivery "github.com/thamiresml/thracker-sub002/internal/connection/delivery"
	connUsecase "github.com/thamiresml/thracker-sub002/internal/connection/usecase"
	syncDelivery "github.com/thamiresml/thracker-sub002/internal/sync/delivery"
	syncUsecase "github.com/thamiresml/thracker-sub002/internal/sync/usecase"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(r *gin.Engine, authUc authUsecase.AuthUsecase, connUc connUsecase.ConnectionUsecase, syncUc syncUsecase.SyncUsecase) {
	authHandler := authDelivery.NewAuthHandler(authUc)
	connHandler := connDelivery.NewConnectionHandler(connUc)
	syncHandler := syncDelivery.NewSyncHandler(syncUc)

	api := r.Group("/api")
	{
		// Health check (no auth required)
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		})

		// Auth routes
		auth := api.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.GET("/me", authDelivery.AuthMiddleware(authUc), authHandler.Me)
		}

		// Connection routes (protected)
		connections := api.Group("/connections")
		connections.Use(authDelivery.AuthMiddleware(authUc))
		{
			connections.GET("", connHandler.List)
			connections.GET("/google/connect", connHandler.Connect)
			connections.GET("/google/callback", connHandler.Callback)
			connections.DELETE("/:id", connHandler.Disconnect)
			connections.POST("/:id/sync", syncHandler.TriggerSync)
			connections.GET("/:id/sync/status", syncHandler.SyncStatus)
		}
	}
}
