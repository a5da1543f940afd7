// Package realtime fans out dormitory events to connected dashboards.
package realtime

import (
	"sync"
	"time"
)

//go:generate go run go.uber.org/mock/mockgen -package realtime -destination mock_broadcaster.go dormitory-backend/internal/realtime Broadcaster

// EventNewApplication is published when an application is submitted
const EventNewApplication = "new_application"

// AllDormitories subscribes to events of every dormitory
const AllDormitories uint = 0

// Event is a single notification pushed to subscribers
type Event struct {
	Type          string    `json:"type"`
	DormitoryID   uint      `json:"dormitory_id"`
	ApplicationID uint      `json:"application_id,omitempty"`
	Name          string    `json:"name,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// Broadcaster publishes events; delivery is best effort
type Broadcaster interface {
	Publish(dormitoryID uint, event Event)
}

// Hub keeps per-dormitory subscriber channels in memory
type Hub struct {
	mu          sync.RWMutex
	subscribers map[uint]map[chan Event]struct{}
	buffer      int
	closed      bool
}

func NewHub(buffer int) *Hub {
	if buffer < 1 {
		buffer = 1
	}
	return &Hub{
		subscribers: make(map[uint]map[chan Event]struct{}),
		buffer:      buffer,
	}
}

// Subscribe registers a listener for a dormitory (or AllDormitories).
// The returned function unsubscribes and closes the channel; it is safe to call more than once.
func (h *Hub) Subscribe(dormitoryID uint) (<-chan Event, func()) {
	ch := make(chan Event, h.buffer)

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		close(ch)
		return ch, func() {}
	}
	if h.subscribers[dormitoryID] == nil {
		h.subscribers[dormitoryID] = make(map[chan Event]struct{})
	}
	h.subscribers[dormitoryID][ch] = struct{}{}
	h.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			subs := h.subscribers[dormitoryID]
			if _, ok := subs[ch]; !ok {
				return // already closed by Close
			}
			delete(subs, ch)
			if len(subs) == 0 {
				delete(h.subscribers, dormitoryID)
			}
			close(ch)
		})
	}
}

// Publish delivers the event to the dormitory's subscribers and to AllDormitories.
// Subscribers whose buffer is full miss the event.
func (h *Hub) Publish(dormitoryID uint, event Event) {
	event.DormitoryID = dormitoryID
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now().UTC()
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	h.deliver(h.subscribers[dormitoryID], event)
	if dormitoryID != AllDormitories {
		h.deliver(h.subscribers[AllDormitories], event)
	}
}

func (h *Hub) deliver(subs map[chan Event]struct{}, event Event) {
	for ch := range subs {
		select {
		case ch <- event:
		default:
		}
	}
}

// Close ends every subscription; later subscribers get a closed channel
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, subs := range h.subscribers {
		for ch := range subs {
			close(ch)
		}
	}
	h.subscribers = make(map[uint]map[chan Event]struct{})
	h.closed = true
}

// SubscriberCount returns the number of listeners of a dormitory
func (h *Hub) SubscriberCount(dormitoryID uint) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers[dormitoryID])
}
