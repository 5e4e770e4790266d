package realtime

import (
	"context"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// Hub fans Redis pub/sub messages out to every connected websocket. It is
// the process's single subscriber per channel, so no client ever sees a
// duplicate notification from this side.
type Hub struct {
	rdb *redis.Client
	log *logrus.Logger

	mu      sync.Mutex
	clients map[*websocket.Conn]struct{}
}

func NewHub(rdb *redis.Client, log *logrus.Logger) *Hub {
	return &Hub{
		rdb:     rdb,
		log:     log,
		clients: make(map[*websocket.Conn]struct{}),
	}
}

func (h *Hub) Add(conn *websocket.Conn) {
	h.mu.Lock()
	h.clients[conn] = struct{}{}
	h.mu.Unlock()
}

func (h *Hub) Remove(conn *websocket.Conn) {
	h.mu.Lock()
	delete(h.clients, conn)
	h.mu.Unlock()
}

func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Run subscribes and forwards until ctx is done, then unsubscribes.
func (h *Hub) Run(ctx context.Context) {
	pubsub := h.rdb.Subscribe(ctx, ChannelSettings, ChannelIncidents)
	defer pubsub.Close()

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case m, ok := <-ch:
			if !ok {
				return
			}
			h.broadcast([]byte(m.Payload))
		}
	}
}

func (h *Hub) broadcast(payload []byte) {
	h.mu.Lock()
	conns := make([]*websocket.Conn, 0, len(h.clients))
	for c := range h.clients {
		conns = append(conns, c)
	}
	h.mu.Unlock()

	for _, c := range conns {
		_ = c.SetWriteDeadline(time.Now().Add(10 * time.Second))
		if err := c.WriteMessage(websocket.TextMessage, payload); err != nil {
			h.log.WithError(err).Debug("dropping websocket client")
			h.Remove(c)
			_ = c.Close()
		}
	}
}
