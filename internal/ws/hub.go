package ws

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"
	"github.com/rs/zerolog"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Event is the frame pushed to a user's open sockets.
type Event struct {
	Type      string    `json:"type"`
	UserID    uuid.UUID `json:"user_id"`
	Timestamp string    `json:"timestamp"`
}

type ClientGauge interface {
	WSClientConnected()
	WSClientDisconnected()
}

// Hub fans events out to the sockets of the user they concern. All map
// mutation happens on the Run goroutine; the mutex only guards reads from
// ClientCount.
type Hub struct {
	clients    map[uuid.UUID]map[*Client]struct{}
	events     chan Event
	register   chan *Client
	unregister chan *Client
	mutex      sync.RWMutex
	log        zerolog.Logger
	gauge      ClientGauge
	now        func() time.Time
}

func NewHub(log zerolog.Logger, gauge ClientGauge) *Hub {
	return &Hub{
		clients:    make(map[uuid.UUID]map[*Client]struct{}),
		events:     make(chan Event, 1024),
		register:   make(chan *Client, 128),
		unregister: make(chan *Client, 128),
		log:        log,
		gauge:      gauge,
		now:        time.Now,
	}
}

func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.mutex.Lock()
			for userID, set := range h.clients {
				for c := range set {
					close(c.send)
					h.disconnected()
				}
				delete(h.clients, userID)
			}
			h.mutex.Unlock()
			return

		case client := <-h.register:
			if client == nil {
				continue
			}
			h.mutex.Lock()
			set, ok := h.clients[client.userID]
			if !ok {
				set = make(map[*Client]struct{})
				h.clients[client.userID] = set
			}
			set[client] = struct{}{}
			if h.gauge != nil {
				h.gauge.WSClientConnected()
			}
			h.mutex.Unlock()
			h.log.Debug().Str("user_id", client.userID.String()).Msg("ws connected")

		case client := <-h.unregister:
			if client == nil {
				continue
			}
			h.remove(client)

		case evt := <-h.events:
			b, err := json.Marshal(evt)
			if err != nil {
				h.log.Error().Err(err).Str("type", evt.Type).Msg("ws event encode failed")
				continue
			}

			h.mutex.RLock()
			targets := make([]*Client, 0, len(h.clients[evt.UserID]))
			for c := range h.clients[evt.UserID] {
				targets = append(targets, c)
			}
			h.mutex.RUnlock()

			for _, c := range targets {
				select {
				case c.send <- b:
				default:
					h.remove(c)
				}
			}
		}
	}
}

func (h *Hub) remove(client *Client) {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	set, ok := h.clients[client.userID]
	if !ok {
		return
	}
	if _, ok := set[client]; !ok {
		return
	}
	delete(set, client)
	if len(set) == 0 {
		delete(h.clients, client.userID)
	}
	close(client.send)
	h.disconnected()
	h.log.Debug().Str("user_id", client.userID.String()).Msg("ws disconnected")
}

func (h *Hub) disconnected() {
	if h.gauge != nil {
		h.gauge.WSClientDisconnected()
	}
}

func (h *Hub) Register(client *Client) {
	if h == nil {
		return
	}
	h.register <- client
}

func (h *Hub) Unregister(client *Client) {
	if h == nil {
		return
	}
	h.unregister <- client
}

// Publish queues an event for userID's sockets. It never blocks; when the
// queue is full the event is dropped.
func (h *Hub) Publish(userID uuid.UUID, event string) {
	if h == nil {
		return
	}
	evt := Event{Type: event, UserID: userID, Timestamp: h.now().UTC().Format(time.RFC3339)}
	select {
	case h.events <- evt:
	default:
		h.log.Warn().Str("type", event).Msg("ws event dropped, queue full")
	}
}

func (h *Hub) ClientCount(userID uuid.UUID) int {
	if h == nil {
		return 0
	}
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return len(h.clients[userID])
}
