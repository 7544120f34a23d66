package ws

// The hub keeps track of connected dashboard clients and broadcasts fresh
// dashboard snapshots to all of them whenever the dataset is regenerated.

import (
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/canalcerto/canalcerto-backend/pkg/metrics"
)

// Client represents one WebSocket connection.
type Client struct {
	Conn *websocket.Conn
	Send chan []byte
}

// Hub manages all client connections.
type Hub struct {
	Clients    map[*Client]bool
	Broadcast  chan []byte
	Register   chan *Client
	Unregister chan *Client

	logger *logrus.Logger
}

func NewHub(logger *logrus.Logger) *Hub {
	return &Hub{
		Clients:    make(map[*Client]bool),
		Broadcast:  make(chan []byte),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		logger:     logger,
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.Register:
			h.Clients[client] = true
			metrics.WSClientsActive.Inc()
			h.logger.Debug("Dashboard client registered")
		case client := <-h.Unregister:
			if _, ok := h.Clients[client]; ok {
				delete(h.Clients, client)
				close(client.Send)
				metrics.WSClientsActive.Dec()
				h.logger.Debug("Dashboard client unregistered")
			}
		case message := <-h.Broadcast:
			h.logger.WithField("clients", len(h.Clients)).Debug("Broadcasting dashboard snapshot")
			for client := range h.Clients {
				select {
				case client.Send <- message:
				default:
					close(client.Send)
					delete(h.Clients, client)
					metrics.WSClientsActive.Dec()
				}
			}
		}
	}
}
