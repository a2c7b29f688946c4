package router

import (
	"github.com/gin-gonic/gin"

	"tessera.app/spaced/internal/http/handler"
	"tessera.app/spaced/internal/http/middleware"
	"tessera.app/spaced/internal/service"
)

func SetupRoutes(router *gin.Engine, services *service.Services, adminAPIKey string) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	v1 := router.Group("/api/v1")
	{
		spaceHandler := handler.NewSpaceHandler(services.Spaces(), services.Participants())
		participantHandler := handler.NewParticipantHandler(services.Participants())
		roomHandler := handler.NewRoomHandler(services.Rooms())
		chatHandler := handler.NewChatHandler(services.Chat())

		SpaceRouter(v1.Group("/spaces"), spaceHandler, participantHandler, roomHandler, chatHandler)

		// The cross-space ledger is an operator surface.
		v1.GET("/usage", middleware.RequireAdminAPIKey(adminAPIKey), spaceHandler.UsageAll)
	}
}
