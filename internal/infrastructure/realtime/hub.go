// Package realtime pushes order events to connected admin browsers over websockets.
package realtime

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/styleco/storefront/internal/domain/order"
	"github.com/styleco/storefront/internal/domain/shared"
	"github.com/styleco/storefront/internal/infrastructure/event"
	"go.uber.org/zap"
)

const (
	defaultMaxClients   = 100
	defaultPingInterval = 30 * time.Second
	writeWait           = 10 * time.Second
	sendBuffer          = 16
	maxMessageSize      = 512
)

// AuthSubprotocol is offered by browsers ahead of the access token
// ("bearer, <token>"). The hub selects it so the handshake completes.
const AuthSubprotocol = "bearer"

// ErrTooManyClients is returned when the hub is full
var ErrTooManyClients = errors.New("too many live feed connections")

type client struct {
	conn *websocket.Conn
	send chan []byte
	once sync.Once
}

func (c *client) close() {
	c.once.Do(func() { close(c.send) })
}

// Hub fans order events out to websocket clients. It is an event handler;
// subscribe it to the event bus.
type Hub struct {
	mu           sync.RWMutex
	clients      map[*client]struct{}
	upgrader     websocket.Upgrader
	maxClients   int
	pingInterval time.Duration
	logger       *zap.Logger
}

// Option configures a Hub
type Option func(*Hub)

// WithLogger sets the logger
func WithLogger(logger *zap.Logger) Option {
	return func(h *Hub) { h.logger = logger }
}

// WithMaxClients caps concurrent connections
func WithMaxClients(n int) Option {
	return func(h *Hub) {
		if n > 0 {
			h.maxClients = n
		}
	}
}

// WithPingInterval sets the keepalive ping period
func WithPingInterval(d time.Duration) Option {
	return func(h *Hub) {
		if d > 0 {
			h.pingInterval = d
		}
	}
}

// WithAllowedOrigins restricts the Origin header of upgrade requests.
// "*" or an empty list accepts any origin.
func WithAllowedOrigins(origins []string) Option {
	return func(h *Hub) {
		h.upgrader.CheckOrigin = originChecker(origins)
	}
}

// NewHub creates a hub
func NewHub(opts ...Option) *Hub {
	h := &Hub{
		clients:      make(map[*client]struct{}),
		maxClients:   defaultMaxClients,
		pingInterval: defaultPingInterval,
		logger:       zap.NewNop(),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin:     originChecker(nil),
			Subprotocols:    []string{AuthSubprotocol},
		},
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// EventTypes lists the events pushed to the feed
func (h *Hub) EventTypes() []string {
	return []string{order.EventTypePlaced, order.EventTypeStatusChanged}
}

// Handle broadcasts ev to every client. Clients whose buffer is full are dropped.
func (h *Hub) Handle(_ context.Context, ev shared.DomainEvent) error {
	data, err := event.Encode(ev)
	if err != nil {
		return err
	}
	h.broadcast(data)
	return nil
}

func (h *Hub) broadcast(data []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		select {
		case c.send <- data:
		default:
			h.logger.Warn("Dropping slow live feed client", zap.String("remote", c.conn.RemoteAddr().String()))
			delete(h.clients, c)
			c.close()
		}
	}
}

// ServeWS upgrades the request and streams events until the client leaves
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) error {
	if h.ClientCount() >= h.maxClients {
		return ErrTooManyClients
	}
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return err
	}

	c := &client{conn: conn, send: make(chan []byte, sendBuffer)}
	h.mu.Lock()
	h.clients[c] = struct{}{}
	total := len(h.clients)
	h.mu.Unlock()
	h.logger.Info("Live feed client connected", zap.Int("clients", total))

	go h.writePump(c)
	h.readPump(c)
	return nil
}

// readPump only watches for the close frame; admins never send anything
func (h *Hub) readPump(c *client) {
	defer h.remove(c)

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(2 * h.pingInterval))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(2 * h.pingInterval))
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Hub) writePump(c *client) {
	ticker := time.NewTicker(h.pingInterval)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
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

func (h *Hub) remove(c *client) {
	h.mu.Lock()
	_, ok := h.clients[c]
	delete(h.clients, c)
	total := len(h.clients)
	h.mu.Unlock()
	if ok {
		c.close()
		h.logger.Info("Live feed client disconnected", zap.Int("clients", total))
	}
}

// ClientCount returns the number of connected clients
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Close disconnects every client
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		delete(h.clients, c)
		c.close()
	}
}

func originChecker(origins []string) func(*http.Request) bool {
	allowed := make(map[string]struct{}, len(origins))
	for _, o := range origins {
		if o == "*" {
			return func(*http.Request) bool { return true }
		}
		allowed[strings.TrimRight(strings.ToLower(o), "/")] = struct{}{}
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" || len(allowed) == 0 {
			return true
		}
		u, err := url.Parse(origin)
		if err != nil {
			return false
		}
		_, ok := allowed[strings.ToLower(u.Scheme+"://"+u.Host)]
		return ok
	}
}

var _ shared.EventHandler = (*Hub)(nil)
