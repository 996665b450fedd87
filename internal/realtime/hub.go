// Package realtime pushes events to admin dashboards over WebSocket and
// accepts operator replies from them.
package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/popeskul/pharmacy-messenger/internal/metrics"
	"github.com/popeskul/pharmacy-messenger/internal/models"
)

const defaultSendBuffer = 64

// Envelope is the JSON frame exchanged with dashboards.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// AdminSender handles admin_send_message commands.
type AdminSender interface {
	SendAdminMessage(ctx context.Context, req models.AdminMessageRequest) (*models.Message, error)
}

// Bridge relays frames between instances. Without one, the hub only reaches
// its own connections.
type Bridge interface {
	Publish(ctx context.Context, room string, frame []byte) error
	Start(ctx context.Context, deliver func(room string, frame []byte)) error
	Stop() error
}

type Hub struct {
	mu      sync.RWMutex
	clients map[*Client]struct{}
	rooms   map[string]map[*Client]struct{}

	upgrader   websocket.Upgrader
	sendBuffer int
	admin      AdminSender
	bridge     Bridge
	collector  *metrics.Collector
	logger     *zap.Logger
}

type Option func(*Hub)

func WithAllowedOrigins(origins []string) Option {
	return func(h *Hub) {
		h.upgrader.CheckOrigin = checkOrigin(origins)
	}
}

func WithSendBuffer(size int) Option {
	return func(h *Hub) {
		if size > 0 {
			h.sendBuffer = size
		}
	}
}

func NewHub(collector *metrics.Collector, logger *zap.Logger, opts ...Option) *Hub {
	h := &Hub{
		clients:    make(map[*Client]struct{}),
		rooms:      make(map[string]map[*Client]struct{}),
		sendBuffer: defaultSendBuffer,
		collector:  collector,
		logger:     logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
	h.upgrader.CheckOrigin = checkOrigin([]string{"*"})
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// SetAdminHandler wires the service that executes operator replies.
func (h *Hub) SetAdminHandler(admin AdminSender) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.admin = admin
}

// UseBridge routes published frames through b and starts delivering the
// frames it receives to local room members.
func (h *Hub) UseBridge(ctx context.Context, b Bridge) error {
	if err := b.Start(ctx, h.Deliver); err != nil {
		return fmt.Errorf("failed to start realtime bridge: %w", err)
	}
	h.mu.Lock()
	h.bridge = b
	h.mu.Unlock()
	return nil
}

// Publish sends event to every member of room across all instances. When the
// bridge fails the frame is still delivered locally.
func (h *Hub) Publish(ctx context.Context, room, event string, payload any) error {
	frame, err := encode(event, payload)
	if err != nil {
		return err
	}

	h.mu.RLock()
	bridge := h.bridge
	h.mu.RUnlock()

	if bridge != nil {
		err := bridge.Publish(ctx, room, frame)
		if err == nil {
			return nil
		}
		h.logger.Warn("Realtime bridge publish failed, delivering locally",
			zap.String("room", room), zap.String("event", event), zap.Error(err))
	}

	h.Deliver(room, frame)
	return nil
}

// Deliver writes frame to the local members of room. Members whose send
// buffer is full are disconnected.
func (h *Hub) Deliver(room string, frame []byte) {
	var slow []*Client

	h.mu.RLock()
	for c := range h.rooms[room] {
		select {
		case c.send <- frame:
		default:
			slow = append(slow, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range slow {
		h.logger.Warn("Dropping slow realtime connection", zap.String("connectionId", c.id))
		h.unregister(c)
	}
}

// ConnectionCount returns the number of open local connections.
func (h *Hub) ConnectionCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// RoomSize returns the number of local members of room.
func (h *Hub) RoomSize(room string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[room])
}

// ServeWS upgrades the request and serves the connection until it closes.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("WebSocket upgrade failed", zap.Error(err))
		return
	}

	c := &Client{
		id:   uuid.New().String(),
		hub:  h,
		conn: conn,
		send: make(chan []byte, h.sendBuffer),
	}
	h.register(c)

	go c.writePump()
	go c.readPump()
}

// Close disconnects every client and stops the bridge.
func (h *Hub) Close() error {
	h.mu.RLock()
	clients := make([]*Client, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	bridge := h.bridge
	h.mu.RUnlock()

	for _, c := range clients {
		h.unregister(c)
	}

	if bridge != nil {
		return bridge.Stop()
	}
	return nil
}

func (h *Hub) register(c *Client) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()

	h.collector.ConnectionOpened()
	h.logger.Info("Realtime client connected", zap.String("connectionId", c.id))
}

func (h *Hub) unregister(c *Client) {
	h.mu.Lock()
	if _, ok := h.clients[c]; !ok {
		h.mu.Unlock()
		return
	}
	delete(h.clients, c)
	for room, members := range h.rooms {
		delete(members, c)
		if len(members) == 0 {
			delete(h.rooms, room)
		}
	}
	close(c.send)
	h.mu.Unlock()

	h.collector.ConnectionClosed()
	h.logger.Info("Realtime client disconnected", zap.String("connectionId", c.id))
}

func (h *Hub) join(c *Client, room string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; !ok {
		return
	}
	members, ok := h.rooms[room]
	if !ok {
		members = make(map[*Client]struct{})
		h.rooms[room] = members
	}
	members[c] = struct{}{}
}

// sendTo queues frame for a single connection.
func (h *Hub) sendTo(c *Client, frame []byte) {
	h.mu.RLock()
	_, ok := h.clients[c]
	if ok {
		select {
		case c.send <- frame:
			h.mu.RUnlock()
			return
		default:
		}
	}
	h.mu.RUnlock()

	if ok {
		h.unregister(c)
	}
}

func (h *Hub) adminSender() AdminSender {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.admin
}

func encode(event string, payload any) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s payload: %w", event, err)
	}
	frame, err := json.Marshal(Envelope{Event: event, Data: data})
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s frame: %w", event, err)
	}
	return frame, nil
}

func checkOrigin(allowed []string) func(r *http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		for _, o := range allowed {
			if o == "*" || strings.EqualFold(o, origin) {
				return true
			}
		}
		return false
	}
}
