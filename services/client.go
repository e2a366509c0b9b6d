package services

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/bellapacxx/crupier/game"
	"github.com/bellapacxx/crupier/models"
)

const (
	sendBuffer = 32
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10
	maxMessage = 4096
)

type Client struct {
	id     string
	conn   *websocket.Conn
	hub    *Hub
	round  *game.Round
	send   chan []byte
	mu     sync.Mutex
	closed bool
}

// inbound is what a client may send over the socket.
type inbound struct {
	Action  string `json:"action"`
	SpeedMS int64  `json:"speed_ms"`
	Phrase  string `json:"phrase"`
	Status  string `json:"status"`
}

type reply struct {
	Type     string           `json:"type"`
	Error    string           `json:"error,omitempty"`
	Card     *models.Card     `json:"card,omitempty"`
	Speech   string           `json:"speech,omitempty"`
	Snapshot *models.Snapshot `json:"snapshot,omitempty"`
}

func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	close(c.send)
	c.conn.Close()
}

// enqueue hands b to the write pump without blocking.
func (c *Client) enqueue(b []byte) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false
	}
	select {
	case c.send <- b:
		return true
	default:
		return false
	}
}

// --------------------
// Client read/write pumps
// --------------------
func (c *Client) readPump() {
	defer c.hub.removeClient(c.id)

	c.conn.SetReadLimit(maxMessage)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				c.hub.log.Warnw("read error", "client_id", c.id, "error", err)
			}
			return
		}

		var msg inbound
		if err := json.Unmarshal(raw, &msg); err != nil {
			c.hub.log.Debugw("invalid message", "client_id", c.id, "error", err)
			c.hub.sendTo(c, reply{Type: "error", Error: "invalid message"})
			continue
		}
		c.handle(msg)
	}
}

func (c *Client) handle(msg inbound) {
	switch msg.Action {
	case "speed":
		if err := c.round.SetSpeed(time.Duration(msg.SpeedMS) * time.Millisecond); err != nil {
			c.hub.sendTo(c, reply{Type: "error", Error: err.Error()})
		}
		return
	case "voice":
		cmd, ok := ParseVoiceCommand(msg.Phrase)
		if !ok {
			c.hub.log.Debugw("ignored phrase", "client_id", c.id, "phrase", msg.Phrase)
			return
		}
		c.run(cmd)
		return
	case "voice_status":
		status, ok := ParseVoiceStatus(msg.Status)
		if !ok {
			c.hub.sendTo(c, reply{Type: "error", Error: ErrUnknownStatus.Error()})
			return
		}
		c.hub.ReportVoiceStatus(c.round.ID(), status)
		return
	case "snapshot":
		snap := c.round.Snapshot()
		c.hub.sendTo(c, reply{Type: "snapshot", Snapshot: &snap})
		return
	}

	cmd, ok := ParseCommand(msg.Action)
	if !ok {
		c.hub.log.Debugw("unknown action", "client_id", c.id, "action", msg.Action)
		c.hub.sendTo(c, reply{Type: "error", Error: ErrUnknownCommand.Error()})
		return
	}
	c.run(cmd)
}

func (c *Client) run(cmd Command) {
	card, err := Execute(c.round, cmd)
	if err != nil {
		c.hub.sendTo(c, reply{Type: "error", Error: err.Error()})
		return
	}
	if card != nil {
		c.hub.sendTo(c, reply{Type: "last_card", Card: card, Speech: card.String()})
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				c.hub.log.Debugw("write error", "client_id", c.id, "error", err)
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
