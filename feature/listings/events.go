package listings

import (
	"sync"

	"listing-manager/feature/listings/identity"
)

// EventType names an observable engine event.
type EventType string

const (
	EventQueueChanged       EventType = "queue-changed"
	EventListingCreated     EventType = "listing-created"
	EventListingRemoved     EventType = "listing-removed"
	EventActionError        EventType = "action-error"
	EventInventoryRefreshed EventType = "inventory-refreshed"
	EventHeartbeatSent      EventType = "heartbeat-sent"
)

// Phase identifies where an action-error originated.
type Phase string

const (
	PhaseCreate    Phase = "create"
	PhaseDelete    Phase = "delete"
	PhaseFlush     Phase = "flush"
	PhaseInventory Phase = "inventory"
)

// Event is delivered to subscribers. Only the fields relevant to Type are set:
//
//	queue-changed        Creates, Removes
//	listing-created      Identity
//	listing-removed      ListingID
//	action-error         Phase, Identity or ListingID, Reason
//	inventory-refreshed  Timestamp
//	heartbeat-sent       Bumped
type Event struct {
	Type      EventType    `json:"type"`
	Creates   int          `json:"creates,omitempty"`
	Removes   int          `json:"removes,omitempty"`
	Identity  identity.Key `json:"identity,omitempty"`
	ListingID string       `json:"listing_id,omitempty"`
	Phase     Phase        `json:"phase,omitempty"`
	Reason    string       `json:"reason,omitempty"`
	Timestamp int64        `json:"timestamp,omitempty"`
	Bumped    int          `json:"bumped,omitempty"`
}

// EventHandler consumes events. Handlers run synchronously on the publishing
// goroutine, after the queue lock is released, and must not block.
type EventHandler func(Event)

type bus struct {
	mu       sync.RWMutex
	next     int
	handlers map[int]EventHandler
}

func newBus() *bus {
	return &bus{handlers: make(map[int]EventHandler)}
}

func (b *bus) subscribe(h EventHandler) func() {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.next
	b.next++
	b.handlers[id] = h

	return func() {
		b.mu.Lock()
		delete(b.handlers, id)
		b.mu.Unlock()
	}
}

func (b *bus) publish(events []Event) {
	if len(events) == 0 {
		return
	}

	b.mu.RLock()
	handlers := make([]EventHandler, 0, len(b.handlers))
	for i := 0; i < b.next; i++ {
		if h, ok := b.handlers[i]; ok {
			handlers = append(handlers, h)
		}
	}
	b.mu.RUnlock()

	for _, e := range events {
		for _, h := range handlers {
			h(e)
		}
	}
}
