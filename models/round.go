package models

import "time"

// RoundState is the lifecycle stage of a round.
type RoundState string

const (
	StateIdle      RoundState = "idle"
	StateRunning   RoundState = "running"
	StatePaused    RoundState = "paused"
	StateCompleted RoundState = "completed"
)

// Snapshot is a copy of the round taken under the controller lock.
type Snapshot struct {
	RoundID   string              `json:"round_id"`
	State     RoundState          `json:"state"`
	Speed     time.Duration       `json:"-"`
	SpeedMS   int64               `json:"speed_ms"`
	Remaining int                 `json:"remaining"`
	Total     int                 `json:"total"`
	Current   *Card               `json:"current,omitempty"`
	Drawn     []Card              `json:"drawn"`
	Board     []Card              `json:"board"`
	Achieved  []Milestone         `json:"achieved"`
	Progress  []MilestoneProgress `json:"progress"`
}
