package services

import (
	"fmt"

	"github.com/bellapacxx/crupier/models"
)

var speedLabels = map[int64]string{
	3000: "Lento",
	2000: "Normal",
	1000: "Rápido",
	500:  "Turbo",
}

// Speech returns the Spanish text a speech synthesiser should read for ev,
// or "" when the event is silent.
func Speech(ev models.Event) string {
	switch ev.Type {
	case models.EventCardDrawn:
		if ev.Card != nil {
			return ev.Card.String()
		}
	case models.EventMilestoneAchieved:
		if ev.Milestone != nil {
			return ev.Milestone.Message()
		}
	case models.EventRoundCompleted:
		return "¡Ronda completada! Todas las cartas han sido extraídas."
	case models.EventRoundStarted:
		return "¡Ronda iniciada!"
	case models.EventRoundResumed:
		return "Ronda reanudada"
	case models.EventRoundPaused:
		return "Ronda pausada"
	case models.EventRoundRestarted:
		return "Ronda reiniciada"
	case models.EventSpeedChanged:
		if label, ok := speedLabels[ev.SpeedMS]; ok {
			return "Velocidad " + label
		}
		return fmt.Sprintf("Una carta cada %.1f segundos", float64(ev.SpeedMS)/1000)
	case models.EventVoiceStatus:
		return ev.Message
	}
	return ""
}
