package services

import (
	"strings"
	"unicode"

	"github.com/bellapacxx/crupier/game"
	"github.com/bellapacxx/crupier/models"
)

// Command is a dealer action requested by a button or a spoken phrase.
type Command string

const (
	CmdStart   Command = "start"
	CmdPause   Command = "pause"
	CmdResume  Command = "resume"
	CmdToggle  Command = "toggle"
	CmdRestart Command = "restart"
	CmdRepeat  Command = "repeat"
)

// phrases are checked in order; earlier entries win, so "reiniciar" is never
// read as "iniciar".
var phrases = []struct {
	cmd   Command
	words []string
}{
	{CmdRestart, []string{"reiniciar", "reinicia", "reinicio", "nueva partida", "otra partida", "restart", "reset"}},
	{CmdRepeat, []string{"repite", "repetir", "repiteme", "otra vez", "que carta", "cual salio", "ultima carta", "repeat", "again"}},
	{CmdPause, []string{"pausa", "pausar", "parar", "para ya", "detente", "detener", "alto", "espera", "stop", "pause"}},
	{CmdResume, []string{"seguir", "sigue", "continua", "continuar", "reanudar", "reanuda", "listo", "resume", "continue"}},
	{CmdStart, []string{"iniciar", "inicia", "empezar", "empieza", "comenzar", "comienza", "vamos", "start", "go"}},
}

var accents = strings.NewReplacer(
	"á", "a", "é", "e", "í", "i", "ó", "o", "ú", "u", "ü", "u", "ñ", "n",
)

func normalize(phrase string) string {
	phrase = accents.Replace(strings.ToLower(phrase))
	words := strings.FieldsFunc(phrase, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	return " " + strings.Join(words, " ") + " "
}

// ParseVoiceCommand maps a recognised phrase to a command. Phrases that match
// nothing are ignored.
func ParseVoiceCommand(phrase string) (Command, bool) {
	norm := normalize(phrase)
	if strings.TrimSpace(norm) == "" {
		return "", false
	}
	for _, p := range phrases {
		for _, w := range p.words {
			if strings.Contains(norm, " "+w+" ") {
				return p.cmd, true
			}
		}
	}
	return "", false
}

// ParseCommand accepts the canonical command names used by buttons.
func ParseCommand(s string) (Command, bool) {
	switch c := Command(strings.ToLower(strings.TrimSpace(s))); c {
	case CmdStart, CmdPause, CmdResume, CmdToggle, CmdRestart, CmdRepeat:
		return c, true
	}
	return "", false
}

// Execute applies cmd to the round. Only CmdRepeat returns a card.
func Execute(r *game.Round, cmd Command) (*models.Card, error) {
	switch cmd {
	case CmdStart:
		return nil, r.Start()
	case CmdPause:
		return nil, r.Pause()
	case CmdResume:
		return nil, r.Resume()
	case CmdToggle:
		return nil, r.TogglePause()
	case CmdRestart:
		return nil, r.Restart()
	case CmdRepeat:
		c, err := r.LastCard()
		if err != nil {
			return nil, err
		}
		return &c, nil
	}
	return nil, ErrUnknownCommand
}

// VoiceStatus is what the speech front-end reports about recognition.
type VoiceStatus string

const (
	VoiceAvailable        VoiceStatus = "available"
	VoiceUnsupported      VoiceStatus = "unsupported"
	VoicePermissionDenied VoiceStatus = "permission-denied"
	VoiceRestartFailed    VoiceStatus = "restart-failed"
)

var voiceMessages = map[VoiceStatus]string{
	VoiceAvailable:        "Control por voz activado",
	VoiceUnsupported:      "Tu navegador no soporta el control por voz",
	VoicePermissionDenied: "Permiso de micrófono denegado",
	VoiceRestartFailed:    "El control por voz se ha detenido",
}

func ParseVoiceStatus(s string) (VoiceStatus, bool) {
	v := VoiceStatus(strings.ToLower(strings.TrimSpace(s)))
	_, ok := voiceMessages[v]
	return v, ok
}

// Degraded reports whether the voice feature is off after this status.
func (v VoiceStatus) Degraded() bool { return v != VoiceAvailable }

func (v VoiceStatus) Message() string { return voiceMessages[v] }
