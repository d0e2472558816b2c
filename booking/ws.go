package booking

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		// Allow all origins; adjust for production if needed
		return true
	},
}

// subscriber writes happen on a dedicated goroutine fed by a buffered
// channel, so a slow client never blocks the booking handlers.
type subscriber struct {
	ws   *websocket.Conn
	send chan []byte
}

var (
	subscribers = make(map[string][]*subscriber)
	mu          sync.Mutex
)

type wsMessage struct {
	Type string `json:"type"`
	Date string `json:"date"`
}

// HandleWS subscribes a client to availability updates for one date.
// Whenever a booking for that date is created or deleted the client gets
// {"type":"update","date":...} and is expected to refetch.
func HandleWS(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	date := ps.ByName("date")

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		http.Error(w, "WebSocket upgrade failed", http.StatusBadRequest)
		return
	}

	sub := &subscriber{ws: conn, send: make(chan []byte, 8)}

	mu.Lock()
	subscribers[date] = append(subscribers[date], sub)
	mu.Unlock()

	go sub.writePump()

	for {
		// This keeps the connection alive until the client disconnects
		_, _, err := conn.ReadMessage()
		if err != nil {
			break
		}
	}

	// Clean up on disconnect
	mu.Lock()
	conns := subscribers[date]
	newList := make([]*subscriber, 0, len(conns))
	for _, s := range conns {
		if s != sub {
			newList = append(newList, s)
		}
	}
	subscribers[date] = newList
	mu.Unlock()

	close(sub.send)
	conn.Close()
}

func (s *subscriber) writePump() {
	for msg := range s.send {
		if err := s.ws.WriteMessage(websocket.TextMessage, msg); err != nil {
			s.ws.Close()
			return
		}
	}
}

// broadcastUpdate queues the update for every subscriber of the date.
// Sends are non-blocking; a subscriber with a full buffer misses this
// update and catches up on the next refetch.
func broadcastUpdate(date string) {
	data, _ := json.Marshal(wsMessage{Type: "update", Date: date})

	mu.Lock()
	defer mu.Unlock()

	for _, s := range subscribers[date] {
		select {
		case s.send <- data:
		default:
		}
	}
}
