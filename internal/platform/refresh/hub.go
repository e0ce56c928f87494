// Package refresh carries cross-view invalidation. A mutation publishes a
// typed event naming the entity kind that changed; interested views and
// connected browsers subscribe by topic instead of polling a shared
// counter.
package refresh

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	gorillawebsocket "github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
)

// Topic names the entity kind an event is about.
type Topic string

const (
	TopicVisits    Topic = "visits"
	TopicFollowUps Topic = "followups"
	TopicDoctors   Topic = "doctors"
	TopicMessages  Topic = "messages"
)

// Event is one completed mutation.
type Event struct {
	Topic     Topic     `json:"topic"`
	Action    string    `json:"action"`
	EntityID  string    `json:"entity_id,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// NewEvent stamps an event with the current time.
func NewEvent(topic Topic, action, entityID string) Event {
	return Event{Topic: topic, Action: action, EntityID: entityID, Timestamp: time.Now().UTC()}
}

// Publisher is the side mutations see.
type Publisher interface {
	Publish(ctx context.Context, event Event)
}

// Listener receives events for topics it registered for. Invalidate must
// not block; heavy work belongs on the listener's own goroutine.
type Listener interface {
	Invalidate(event Event)
}

// subscription ties one inbound message from a browser client to the
// subscribe/unsubscribe action it requests.
type subscription struct {
	Action string   `json:"action"`
	Topics []string `json:"topics"`
}

type wsClient struct {
	id     string
	topics map[Topic]struct{}
	send   chan []byte
}

// Hub fans mutation events out to in-process listeners and connected
// WebSocket clients. All operations are safe for concurrent use.
type Hub struct {
	mu        sync.RWMutex
	listeners map[Topic][]Listener
	clients   map[*wsClient]struct{}
}

func NewHub() *Hub {
	return &Hub{
		listeners: make(map[Topic][]Listener),
		clients:   make(map[*wsClient]struct{}),
	}
}

// AddListener registers an in-process listener for the given topics.
func (h *Hub) AddListener(l Listener, topics ...Topic) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, t := range topics {
		h.listeners[t] = append(h.listeners[t], l)
	}
}

// Publish delivers the event to every listener and subscribed client.
func (h *Hub) Publish(_ context.Context, event Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, l := range h.listeners[event.Topic] {
		l.Invalidate(event)
	}

	data, err := json.Marshal(event)
	if err != nil {
		return
	}
	for client := range h.clients {
		if _, ok := client.topics[event.Topic]; !ok {
			continue
		}
		select {
		case client.send <- data:
		default:
			// Client buffer full; skip to avoid blocking.
		}
	}
}

// SubscriberCount returns how many connected clients follow a topic.
func (h *Hub) SubscriberCount(topic Topic) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	n := 0
	for client := range h.clients {
		if _, ok := client.topics[topic]; ok {
			n++
		}
	}
	return n
}

func (h *Hub) register(client *wsClient) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[client] = struct{}{}
}

func (h *Hub) unregister(client *wsClient) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[client]; !ok {
		return
	}
	delete(h.clients, client)
	close(client.send)
}

func (h *Hub) apply(client *wsClient, sub subscription) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, raw := range sub.Topics {
		t := Topic(raw)
		switch sub.Action {
		case "subscribe":
			client.topics[t] = struct{}{}
		case "unsubscribe":
			delete(client.topics, t)
		}
	}
}

var upgrader = gorillawebsocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins; tighten in production.
	},
}

// Handler exposes the hub to browsers over WebSocket.
type Handler struct {
	hub *Hub
}

func NewHandler(hub *Hub) *Handler {
	return &Handler{hub: hub}
}

func (h *Handler) RegisterRoutes(g *echo.Group) {
	g.GET("/ws/refresh", h.HandleConnect)
}

// HandleConnect upgrades the connection and starts the read/write pumps.
// Clients pick topics with {"action":"subscribe","topics":["visits"]}.
func (h *Handler) HandleConnect(c echo.Context) error {
	ws, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}

	client := &wsClient{
		id:     uuid.New().String(),
		topics: make(map[Topic]struct{}),
		send:   make(chan []byte, 64),
	}
	h.hub.register(client)

	go h.writePump(client, ws)
	go h.readPump(client, ws)

	return nil
}

func (h *Handler) readPump(client *wsClient, ws *gorillawebsocket.Conn) {
	defer func() {
		h.hub.unregister(client)
		ws.Close()
	}()

	for {
		_, message, err := ws.ReadMessage()
		if err != nil {
			break
		}
		var sub subscription
		if err := json.Unmarshal(message, &sub); err != nil {
			continue // Ignore malformed messages.
		}
		h.hub.apply(client, sub)
	}
}

func (h *Handler) writePump(client *wsClient, ws *gorillawebsocket.Conn) {
	defer ws.Close()

	for message := range client.send {
		if err := ws.WriteMessage(gorillawebsocket.TextMessage, message); err != nil {
			break
		}
	}
}
