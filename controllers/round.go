package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/bellapacxx/crupier/game"
	"github.com/bellapacxx/crupier/services"
	"github.com/bellapacxx/crupier/utils/logger"
)

// RoundHandler exposes the single dealer round over HTTP.
type RoundHandler struct {
	round *game.Round
	hub   *services.Hub
}

func NewRoundHandler(round *game.Round, hub *services.Hub) *RoundHandler {
	return &RoundHandler{round: round, hub: hub}
}

// GetRound returns the current snapshot
func (h *RoundHandler) GetRound(c *gin.Context) {
	c.JSON(http.StatusOK, h.round.Snapshot())
}

// GetMilestones returns per-milestone progress
func (h *RoundHandler) GetMilestones(c *gin.Context) {
	snap := h.round.Snapshot()
	c.JSON(http.StatusOK, gin.H{"round_id": snap.RoundID, "milestones": snap.Progress})
}

// Command runs the button command named by the :command path param
func (h *RoundHandler) Command(c *gin.Context) {
	cmd, ok := services.ParseCommand(c.Param("command"))
	if !ok || cmd == services.CmdRepeat {
		c.JSON(http.StatusNotFound, gin.H{"error": services.ErrUnknownCommand.Error()})
		return
	}
	h.run(c, cmd)
}

// LastCard answers the "repeat last card" query
func (h *RoundHandler) LastCard(c *gin.Context) {
	card, err := h.round.LastCard()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"card": card, "card_id": card.ID(), "speech": card.String()})
}

type speedRequest struct {
	SpeedMS int64 `json:"speed_ms" binding:"required"`
}

// SetSpeed changes the draw interval
func (h *RoundHandler) SetSpeed(c *gin.Context) {
	var req speedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.round.SetSpeed(time.Duration(req.SpeedMS) * time.Millisecond); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.round.Snapshot())
}

type voiceRequest struct {
	Phrase string `json:"phrase" binding:"required"`
}

// Voice interprets a recognised phrase
func (h *RoundHandler) Voice(c *gin.Context) {
	var req voiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	cmd, ok := services.ParseVoiceCommand(req.Phrase)
	if !ok {
		logger.Debugf("[Voice] ignored phrase %q", req.Phrase)
		c.JSON(http.StatusOK, gin.H{"recognized": false})
		return
	}
	h.run(c, cmd)
}

type voiceStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// VoiceStatus records a speech front-end status report
func (h *RoundHandler) VoiceStatus(c *gin.Context) {
	var req voiceStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	status, ok := services.ParseVoiceStatus(req.Status)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": services.ErrUnknownStatus.Error()})
		return
	}

	h.hub.ReportVoiceStatus(h.round.ID(), status)
	c.JSON(http.StatusOK, gin.H{"status": status, "voice_enabled": !status.Degraded(), "message": status.Message()})
}

func (h *RoundHandler) run(c *gin.Context, cmd services.Command) {
	card, err := services.Execute(h.round, cmd)
	if err != nil {
		respondError(c, err)
		return
	}
	if card != nil {
		c.JSON(http.StatusOK, gin.H{"command": cmd, "card": card, "card_id": card.ID(), "speech": card.String()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"command": cmd, "round": h.round.Snapshot()})
}

func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, game.ErrInvalidSpeed):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, game.ErrRoundCompleted):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, game.ErrNoCardDrawn):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrUnknownCommand):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, game.ErrClosed):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
	default:
		logger.Errorf("[Round] internal error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
