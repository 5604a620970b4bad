// Package live bridges the event bus to websocket subscribers. A connected
// client first receives a snapshot of the events emitted so far, then every
// subsequent event as one JSON text frame; a client that cannot be written to
// is dropped silently.
package live

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/viant/ensemble/model/event"
	"github.com/viant/ensemble/service/bus"
)

const writeTimeout = 10 * time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Client adapts one websocket connection to the bus live-subscriber contract.
type Client struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

// NewClient wraps an established websocket connection.
func NewClient(conn *websocket.Conn) *Client {
	return &Client{conn: conn}
}

// Send writes one serialized event frame. Concurrent sends are serialised; a
// write failure is returned so the bus can drop this client.
func (c *Client) Send(data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	return c.conn.WriteMessage(websocket.TextMessage, data)
}

func (c *Client) sendSnapshot(events []*event.Event) error {
	payload, err := json.Marshal(map[string]interface{}{
		"type":   "snapshot",
		"events": events,
	})
	if err != nil {
		return err
	}
	return c.Send(payload)
}

// Handler upgrades HTTP requests to websocket connections attached to the
// supplied bus. Each connection receives the snapshot first, then live
// frames until it disconnects.
func Handler(eventBus *bus.Service) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Printf("[live] upgrade failed: %v", err)
			return
		}
		client := NewClient(conn)
		if err := client.sendSnapshot(eventBus.Snapshot()); err != nil {
			_ = conn.Close()
			return
		}
		eventBus.RegisterLive(client)
		go readPump(eventBus, client, conn)
	})
}

// readPump drains client frames to keep the connection alive and unregisters
// the client once the peer goes away.
func readPump(eventBus *bus.Service, client *Client, conn *websocket.Conn) {
	defer func() {
		eventBus.UnregisterLive(client)
		_ = conn.Close()
	}()
	conn.SetReadLimit(512)
	_ = conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	})
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("[live] read failed: %v", err)
			}
			return
		}
	}
}
