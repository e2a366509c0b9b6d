package services

import (
	"encoding/json"
	"sync"

	"go.uber.org/zap"

	"github.com/bellapacxx/crupier/models"
)

// message is the JSON frame pushed to every connected client.
type message struct {
	models.Event
	CardID string `json:"card_id,omitempty"`
	Speech string `json:"speech,omitempty"`
}

func newMessage(ev models.Event) message {
	m := message{Event: ev, Speech: Speech(ev)}
	if ev.Card != nil {
		m.CardID = ev.Card.ID()
	}
	return m
}

// Hub fans round events out to WebSocket clients. It implements
// game.Notifier: Notify never blocks, slow clients lose frames.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]*Client
	log     *zap.SugaredLogger
}

func NewHub(log *zap.SugaredLogger) *Hub {
	return &Hub{
		clients: make(map[string]*Client),
		log:     log,
	}
}

// Notify logs ev and broadcasts it.
func (h *Hub) Notify(ev models.Event) {
	switch ev.Type {
	case models.EventCardDrawn:
		h.log.Debugw("card drawn", "round_id", ev.RoundID, "card", ev.Card.ID(), "remaining", ev.Remaining)
	default:
		h.log.Infow("round event", "type", ev.Type, "round_id", ev.RoundID, "drawn", ev.Drawn, "remaining", ev.Remaining)
	}
	h.broadcast(newMessage(ev))
}

// ReportVoiceStatus records a speech front-end status. It never touches the
// round; a degraded status only disables voice control on the clients.
func (h *Hub) ReportVoiceStatus(roundID string, status VoiceStatus) {
	if status.Degraded() {
		h.log.Warnw("voice control disabled", "round_id", roundID, "status", status)
	} else {
		h.log.Infow("voice control enabled", "round_id", roundID)
	}
	h.Notify(models.Event{Type: models.EventVoiceStatus, RoundID: roundID, Message: status.Message()})
}

// -------------------- Client management --------------------
func (h *Hub) addClient(c *Client) {
	h.mu.Lock()
	if old, ok := h.clients[c.id]; ok {
		old.Close()
	}
	h.clients[c.id] = c
	n := len(h.clients)
	h.mu.Unlock()

	h.log.Infow("client connected", "client_id", c.id, "clients", n)
}

func (h *Hub) removeClient(id string) {
	h.mu.Lock()
	client, ok := h.clients[id]
	if ok {
		delete(h.clients, id)
		client.Close()
	}
	n := len(h.clients)
	h.mu.Unlock()

	if ok {
		h.log.Infow("client disconnected", "client_id", id, "clients", n)
	}
}

func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// CloseAll disconnects every client.
func (h *Hub) CloseAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for id, c := range h.clients {
		c.Close()
		delete(h.clients, id)
	}
}

// -------------------- Broadcast --------------------
func (h *Hub) broadcast(v any) {
	b, err := json.Marshal(v)
	if err != nil {
		h.log.Errorw("marshal broadcast", "error", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, c := range h.clients {
		if !c.enqueue(b) {
			h.log.Warnw("dropping message", "client_id", c.id)
		}
	}
}

func (h *Hub) sendTo(c *Client, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		h.log.Errorw("marshal reply", "client_id", c.id, "error", err)
		return
	}
	if !c.enqueue(b) {
		h.log.Warnw("dropping reply", "client_id", c.id)
	}
}
