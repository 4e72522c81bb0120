package websocketPkg

import (
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"
)

type IHub interface {
	Broadcast(v interface{})
	Handler() fiber.Handler
	Clients() int
	Close()
}

type client struct {
	conn *websocket.Conn
	send chan []byte
}

type hub struct {
	log          *logrus.Logger
	mu           sync.RWMutex
	clients      map[*client]struct{}
	bufferSize   int
	writeTimeout time.Duration
	pingInterval time.Duration
}

func NewHub(log *logrus.Logger) IHub {
	return &hub{
		log:          log,
		clients:      make(map[*client]struct{}),
		bufferSize:   32,
		writeTimeout: 5 * time.Second,
		pingInterval: 30 * time.Second,
	}
}

// Broadcast encodes v once and queues it for every client. A client whose
// queue is full misses the message instead of stalling the others.
func (h *hub) Broadcast(v interface{}) {
	payload, err := jsoniter.Marshal(v)
	if err != nil {
		h.log.WithField("error", err.Error()).Error("Failed to encode broadcast payload")
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for c := range h.clients {
		select {
		case c.send <- payload:
		default:
			h.log.Warn("Live feed client is lagging, message dropped")
		}
	}
}

func (h *hub) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		close(c.send)
		delete(h.clients, c)
	}
}

func (h *hub) register(c *client) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
}

func (h *hub) unregister(c *client) {
	h.mu.Lock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
	h.mu.Unlock()
}

// Handler rejects plain HTTP requests and streams broadcasts to upgraded ones.
func (h *hub) Handler() fiber.Handler {
	stream := websocket.New(h.serve)

	return func(c *fiber.Ctx) error {
		if !websocket.IsWebSocketUpgrade(c) {
			return fiber.ErrUpgradeRequired
		}
		return stream(c)
	}
}

func (h *hub) serve(conn *websocket.Conn) {
	c := &client{conn: conn, send: make(chan []byte, h.bufferSize)}
	h.register(c)
	h.log.WithField("clients", h.Clients()).Info("Live feed client connected")

	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(h.pingInterval)
	defer func() {
		ticker.Stop()
		h.unregister(c)
		h.log.Info("Live feed client disconnected")
	}()

	for {
		select {
		case payload, ok := <-c.send:
			if !ok {
				return
			}
			_ = conn.SetWriteDeadline(time.Now().Add(h.writeTimeout))
			if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(h.writeTimeout)); err != nil {
				return
			}
		case <-done:
			return
		}
	}
}
