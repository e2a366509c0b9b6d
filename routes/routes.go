package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/bellapacxx/crupier/controllers"
	"github.com/bellapacxx/crupier/game"
	"github.com/bellapacxx/crupier/services"
)

func SetupRoutes(r *gin.Engine, round *game.Round, hub *services.Hub) {
	h := controllers.NewRoundHandler(round, hub)
	api := r.Group("/api")

	// ----------------------
	// Round routes
	// ----------------------
	api.GET("/round", h.GetRound)           // Snapshot
	api.POST("/round/:command", h.Command)  // start | pause | resume | toggle | restart
	api.PUT("/round/speed", h.SetSpeed)     // Draw interval
	api.GET("/round/last-card", h.LastCard) // Repeat last card
	api.GET("/milestones", h.GetMilestones) // Progress panel

	// ----------------------
	// Voice routes
	// ----------------------
	api.POST("/voice", h.Voice)              // Recognised phrase
	api.POST("/voice/status", h.VoiceStatus) // Recognition availability

	// WebSocket event stream
	r.GET("/ws", hub.HandleWebSocket(round))
}
