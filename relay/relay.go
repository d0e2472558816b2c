package relay

import (
	"encoding/json"
	"net/http"
	"time"

	"labdesk/logs"
	"labdesk/models"

	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 8 * 1024
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Conn is one live relay connection: connecting → registered(role) → closed.
type Conn struct {
	ID   string
	Role string
	Name string

	ws   *websocket.Conn
	send chan []byte
}

// Handler upgrades, verifies (per the configured hook), registers, and runs
// the pumps for one connection. Role and identity come from the client's
// query parameters; with the default verifier nothing checks them.
func Handler(reg *Registry, verify Verifier) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		hello := Hello{
			ID:        r.URL.Query().Get("id"),
			Role:      r.URL.Query().Get("role"),
			Name:      r.URL.Query().Get("name"),
			Signature: r.URL.Query().Get("sig"),
		}
		if hello.ID == "" {
			http.Error(w, "missing id", http.StatusBadRequest)
			return
		}
		if hello.Role != RoleAdmin {
			hello.Role = RoleUser
		}
		if err := verify.Verify(hello); err != nil {
			logs.Logger.Warnf("relay: rejected %s (%s): %v", hello.ID, hello.Role, err)
			http.Error(w, "verification failed", http.StatusForbidden)
			return
		}

		ws, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logs.Logger.Warnf("relay: upgrade failed: %v", err)
			return
		}

		c := &Conn{
			ID:   hello.ID,
			Role: hello.Role,
			Name: hello.Name,
			ws:   ws,
			send: make(chan []byte, 64),
		}
		register(reg, c)

		go c.writePump()
		c.readPump(reg)
	}
}

// register adds the connection and emits the presence events: the opposite
// pool learns about the newcomer, and an admin additionally gets the list of
// currently registered user ids. Users never receive a list of admins.
func register(reg *Registry, c *Conn) {
	reg.Add(c)

	reg.Broadcast(opposite(c.Role), models.RelayEvent{
		Event:    models.EventNewConnection,
		ID:       c.ID,
		Metadata: map[string]string{"name": c.Name, "role": c.Role},
	})

	if c.Role == RoleAdmin {
		reg.Send(c.ID, models.RelayEvent{
			Event: models.EventUserList,
			Users: reg.IDs(RoleUser),
		})
	}

	logs.Logger.Infof("relay: %s registered as %s", c.ID, c.Role)
}

func (c *Conn) readPump(reg *Registry) {
	defer func() {
		if reg.Remove(c) {
			reg.Broadcast(opposite(c.Role), models.RelayEvent{Event: models.EventExit, ID: c.ID})
		}
		c.ws.Close()
		logs.Logger.Infof("relay: %s disconnected", c.ID)
	}()

	c.ws.SetReadLimit(maxMessageSize)
	c.ws.SetReadDeadline(time.Now().Add(pongWait))
	c.ws.SetPongHandler(func(string) error {
		c.ws.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, raw, err := c.ws.ReadMessage()
		if err != nil {
			return
		}

		var ev models.RelayEvent
		if err := json.Unmarshal(raw, &ev); err != nil {
			// malformed frames are a silent no-op
			continue
		}

		switch ev.Event {
		case models.EventDirectMessage:
			// Forwarded verbatim, fire-and-forget; unknown targets dropped.
			// The claimed sender is not rewritten: sender identity is only
			// trustworthy when a Verifier checked it at connect time.
			reg.Send(ev.To, models.RelayEvent{
				Event: models.EventDirectMessage,
				From:  ev.From,
				To:    ev.To,
				Body:  ev.Body,
			})

		case models.EventWhois:
			target, ok := reg.Get(ev.ID)
			if !ok {
				continue
			}
			reg.Send(c.ID, models.RelayEvent{
				Event:    models.EventWhoisResult,
				ID:       target.ID,
				Metadata: map[string]string{"name": target.Name, "role": target.Role},
			})

		case models.EventExit:
			return

		default:
			// unknown events are ignored, not errors
		}
	}
}

func (c *Conn) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.ws.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.ws.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.ws.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
