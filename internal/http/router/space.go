package router

import (
	"github.com/gin-gonic/gin"

	"tessera.app/spaced/internal/http/handler"
)

func SpaceRouter(rg *gin.RouterGroup, spaces *handler.SpaceHandler, participants *handler.ParticipantHandler, rooms *handler.RoomHandler, chat *handler.ChatHandler) {
	rg.POST("", spaces.Create)
	rg.GET("", spaces.List)
	rg.GET("/:name", spaces.Get)
	rg.DELETE("/:name", spaces.Delete)
	rg.GET("/:name/usage", spaces.Usage)
	rg.GET("/:name/chat", chat.History)
	rg.POST("/:name/chat", chat.Post)
	rg.POST("/:name/transfer-ownership", spaces.TransferOwnership)
	rg.POST("/:name/managers", spaces.PromoteManager)
	rg.DELETE("/:name/managers/:id", spaces.DemoteManager)

	rg.PUT("/:name/participants/:id", participants.Upsert)
	rg.DELETE("/:name/participants/:id", participants.Remove)

	rg.GET("/:name/rooms", spaces.Rooms)
	rg.POST("/:name/rooms", rooms.Create)
	rg.DELETE("/:name/rooms/:room", rooms.Delete)
	rg.POST("/:name/rooms/:room/rename", rooms.Rename)
	rg.PUT("/:name/rooms/:room/privacy", rooms.SetPrivacy)
	rg.POST("/:name/rooms/:room/join", rooms.Join)
	rg.POST("/:name/rooms/:room/leave", rooms.Leave)
	rg.POST("/:name/rooms/:room/pairing", rooms.EnterPairing)
}
