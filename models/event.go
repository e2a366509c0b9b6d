package models

// EventType names a notification emitted by the round controller.
type EventType string

const (
	EventCardDrawn         EventType = "card_drawn"
	EventMilestoneAchieved EventType = "milestone_achieved"
	EventRoundCompleted    EventType = "round_completed"
	EventRoundStarted      EventType = "round_started"
	EventRoundPaused       EventType = "round_paused"
	EventRoundResumed      EventType = "round_resumed"
	EventRoundRestarted    EventType = "round_restarted"
	EventSpeedChanged      EventType = "speed_changed"
	EventVoiceStatus       EventType = "voice_status"
)

// Event is a pure notification; nothing acknowledges it.
type Event struct {
	Type      EventType  `json:"type"`
	RoundID   string     `json:"round_id"`
	Card      *Card      `json:"card,omitempty"`
	Milestone *Milestone `json:"milestone,omitempty"`
	Message   string     `json:"message,omitempty"`
	Remaining int        `json:"remaining"`
	Drawn     int        `json:"drawn"`
	SpeedMS   int64      `json:"speed_ms,omitempty"`
}
