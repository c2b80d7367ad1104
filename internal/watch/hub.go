// Package watch provides an in-process change feed: services publish
// an event after each successful mutation, and subscribers receive
// them asynchronously. It replaces the hosted document store's
// collection listeners. Delivery order relative to other in-flight
// operations is not guaranteed.
package watch

import (
	"sync"

	"go.uber.org/zap"
)

// Collection names events are published under.
const (
	CollectionExpenses = "expenses"
	CollectionInvoices = "invoices"
	CollectionReports  = "reports"
)

// Event describes a mutation on a collection.
type Event struct {
	Collection string
	Op         string // created, updated, deleted
	ID         int64
}

// Mutation ops.
const (
	OpCreated = "created"
	OpUpdated = "updated"
	OpDeleted = "deleted"
)

type subscriber struct {
	id int64
	ch chan Event
}

// Hub fans out collection events to subscribers. Each subscriber gets
// its own buffered channel drained by its own goroutine; a slow
// subscriber drops events rather than blocking publishers.
type Hub struct {
	mu     sync.Mutex
	nextID int64
	subs   map[string][]*subscriber
	logger *zap.Logger
}

// NewHub creates an empty hub.
func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		subs:   make(map[string][]*subscriber),
		logger: logger,
	}
}

// Subscribe registers fn for every event on the collection and returns
// an unsubscribe function. fn runs on a dedicated goroutine, never on
// the publisher's.
func (h *Hub) Subscribe(collection string, fn func(Event)) func() {
	h.mu.Lock()
	h.nextID++
	sub := &subscriber{id: h.nextID, ch: make(chan Event, 64)}
	h.subs[collection] = append(h.subs[collection], sub)
	h.mu.Unlock()

	go func() {
		for ev := range sub.ch {
			fn(ev)
		}
	}()

	return func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		list := h.subs[collection]
		for i, s := range list {
			if s.id == sub.id {
				h.subs[collection] = append(list[:i], list[i+1:]...)
				close(s.ch)
				return
			}
		}
	}
}

// Publish delivers the event to every subscriber of its collection.
// Full subscriber buffers are skipped.
func (h *Hub) Publish(ev Event) {
	h.mu.Lock()
	subs := append([]*subscriber(nil), h.subs[ev.Collection]...)
	h.mu.Unlock()

	for _, sub := range subs {
		select {
		case sub.ch <- ev:
		default:
			h.logger.Warn("Dropping change event for slow subscriber",
				zap.String("collection", ev.Collection),
				zap.String("op", ev.Op),
				zap.Int64("id", ev.ID))
		}
	}
}
