package ws

import (
	"encoding/json"
	"sync"

	"github.com/gofiber/contrib/websocket"
	"github.com/juju/loggo/v2"
)

var logger = loggo.GetLogger("retail.ws")

// Event is a message pushed to every connected till and back-office client.
type Event struct {
	Type    string      `json:"type"`
	Action  string      `json:"action"`
	Data    interface{} `json:"data"`
	User    string      `json:"user,omitempty"`
	Message string      `json:"message"`
}

type Hub struct {
	Clients    map[*websocket.Conn]bool
	Register   chan *websocket.Conn
	Unregister chan *websocket.Conn
	Broadcast  chan []byte
	mutex      sync.Mutex
}

func NewHub() *Hub {
	return &Hub{
		Clients:    make(map[*websocket.Conn]bool),
		Register:   make(chan *websocket.Conn),
		Unregister: make(chan *websocket.Conn),
		Broadcast:  make(chan []byte, 64),
	}
}

// Notify queues an event for broadcast. It never blocks the caller: when
// the queue is full the event is dropped and logged.
func (h *Hub) Notify(event Event) {
	msg, err := json.Marshal(event)
	if err != nil {
		logger.Errorf("cannot encode %s event: %v", event.Action, err)
		return
	}
	select {
	case h.Broadcast <- msg:
	default:
		logger.Warningf("broadcast queue full, dropping %s event", event.Action)
	}
}

func (h *Hub) Run() {
	for {
		select {
		case conn := <-h.Register:
			h.mutex.Lock()
			h.Clients[conn] = true
			h.mutex.Unlock()
			logger.Debugf("ws client connected")

		case conn := <-h.Unregister:
			h.mutex.Lock()
			if _, ok := h.Clients[conn]; ok {
				delete(h.Clients, conn)
				conn.Close()
			}
			h.mutex.Unlock()

		case message := <-h.Broadcast:
			h.mutex.Lock()
			for conn := range h.Clients {
				if err := conn.WriteMessage(websocket.TextMessage, message); err != nil {
					conn.Close()
					delete(h.Clients, conn)
				}
			}
			h.mutex.Unlock()
		}
	}
}
