package models

import (
	"encoding/json"
	"fmt"
)

// Milestone is one of the four fixed win patterns.
type Milestone uint8

const (
	Linea Milestone = iota
	Poker
	Esquinas
	Escalera

	milestoneCount
)

// Milestones lists every pattern in evaluation order.
var Milestones = [milestoneCount]Milestone{Linea, Poker, Esquinas, Escalera}

// ID returns the stable identifier sent to clients.
func (m Milestone) ID() string {
	switch m {
	case Linea:
		return "LINEA"
	case Poker:
		return "POKER"
	case Esquinas:
		return "ESQUINAS"
	case Escalera:
		return "ESCALERA"
	}
	return fmt.Sprintf("MILESTONE(%d)", uint8(m))
}

// Name is the label shown on the progress panel.
func (m Milestone) Name() string {
	switch m {
	case Linea:
		return "Línea"
	case Poker:
		return "Póker"
	case Esquinas:
		return "Esquinas"
	case Escalera:
		return "Escalera"
	}
	return m.ID()
}

// Message is announced when the milestone is achieved.
func (m Milestone) Message() string {
	switch m {
	case Linea:
		return "¡LÍNEA! Has completado un palo entero."
	case Poker:
		return "¡PÓKER! Cuatro cartas del mismo número."
	case Esquinas:
		return "¡ESQUINAS! Los cuatro ases han salido."
	case Escalera:
		return "¡ESCALERA! 5 cartas consecutivas del mismo palo."
	}
	return m.ID()
}

// Target is the count a partial tally must reach for the milestone.
func (m Milestone) Target() int {
	switch m {
	case Linea:
		return SuitCards
	case Poker, Esquinas:
		return len(Suits)
	case Escalera:
		return 5
	}
	return 0
}

func (m Milestone) String() string { return m.ID() }

func (m Milestone) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.ID())
}

func (m *Milestone) UnmarshalJSON(b []byte) error {
	var id string
	if err := json.Unmarshal(b, &id); err != nil {
		return err
	}
	v, ok := ParseMilestone(id)
	if !ok {
		return fmt.Errorf("unknown milestone %q", id)
	}
	*m = v
	return nil
}

// ParseMilestone resolves an identifier produced by ID.
func ParseMilestone(id string) (Milestone, bool) {
	for _, m := range Milestones {
		if m.ID() == id {
			return m, true
		}
	}
	return 0, false
}

// MilestoneSet is a set of achieved milestones.
type MilestoneSet uint8

func (s MilestoneSet) Has(m Milestone) bool { return s&(1<<m) != 0 }

// With returns s plus m.
func (s MilestoneSet) With(m Milestone) MilestoneSet { return s | 1<<m }

func (s MilestoneSet) Len() int {
	n := 0
	for _, m := range Milestones {
		if s.Has(m) {
			n++
		}
	}
	return n
}

// List returns the members in evaluation order.
func (s MilestoneSet) List() []Milestone {
	out := make([]Milestone, 0, len(Milestones))
	for _, m := range Milestones {
		if s.Has(m) {
			out = append(out, m)
		}
	}
	return out
}

// MilestoneProgress is one row of the progress panel.
type MilestoneProgress struct {
	Milestone Milestone `json:"id"`
	Name      string    `json:"name"`
	Count     int       `json:"count"`
	Target    int       `json:"target"`
	Complete  bool      `json:"complete"`
}
