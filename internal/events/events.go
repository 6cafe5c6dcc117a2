// Package events is the storefront's change feed. Every write publishes a
// Change keyed by entity type; subscribers filter on the entity types they
// care about (SSE clients, cache invalidation, the pending-order alert), and
// relays forward each change to an external broker.
package events

import (
	"context"
	"encoding/json"
	"log"
	"strings"
	"sync"
	"time"
)

type Entity string

const (
	EntityProducts   Entity = "products"
	EntityCategories Entity = "categories"
	EntityCombos     Entity = "combos"
	EntityBorders    Entity = "border_options"
	EntityCoupons    Entity = "coupons"
	EntityOrders     Entity = "orders"
	EntitySettings   Entity = "store_settings"
	EntityChat       Entity = "chat_messages"
	EntityAlerts     Entity = "alerts"
)

// ParseEntity validates an entity name coming from a client.
func ParseEntity(s string) (Entity, bool) {
	switch e := Entity(s); e {
	case EntityProducts, EntityCategories, EntityCombos, EntityBorders, EntityCoupons,
		EntityOrders, EntitySettings, EntityChat, EntityAlerts:
		return e, true
	}
	return "", false
}

type Action string

const (
	ActionInsert Action = "INSERT"
	ActionUpdate Action = "UPDATE"
	ActionDelete Action = "DELETE"
	ActionAlert  Action = "ALERT"
)

// Change describes one row-level change.
type Change struct {
	Entity Entity      `json:"entity"`
	Action Action      `json:"action"`
	ID     string      `json:"id,omitempty"`
	Data   interface{} `json:"data,omitempty"`
	At     time.Time   `json:"at"`
}

// RoutingKey is "<entity>.<action>", e.g. "orders.insert".
func (c Change) RoutingKey() string {
	return string(c.Entity) + "." + strings.ToLower(string(c.Action))
}

// Publisher accepts changes. *Bus implements it.
type Publisher interface {
	Publish(ctx context.Context, change Change) error
}

// Relay forwards an encoded change to a broker.
type Relay interface {
	Send(ctx context.Context, key string, body []byte) error
}

type subscriber struct {
	ch       chan Change
	entities map[Entity]bool
}

// Bus fans changes out to in-process subscribers and relays.
type Bus struct {
	mu     sync.RWMutex
	subs   map[int]*subscriber
	nextID int
	relays []Relay
	buffer int
}

// NewBus creates a bus forwarding every change to relays.
func NewBus(relays ...Relay) *Bus {
	return &Bus{subs: make(map[int]*subscriber), relays: relays, buffer: 64}
}

// AddRelay registers another broker relay.
func (b *Bus) AddRelay(r Relay) {
	b.mu.Lock()
	b.relays = append(b.relays, r)
	b.mu.Unlock()
}

// Subscribe returns a channel of changes for the given entities (all when
// none are given) and a function that cancels the subscription.
func (b *Bus) Subscribe(entities ...Entity) (<-chan Change, func()) {
	sub := &subscriber{ch: make(chan Change, b.buffer)}
	if len(entities) > 0 {
		sub.entities = make(map[Entity]bool, len(entities))
		for _, e := range entities {
			sub.entities[e] = true
		}
	}

	b.mu.Lock()
	id := b.nextID
	b.nextID++
	b.subs[id] = sub
	b.mu.Unlock()

	var once sync.Once
	return sub.ch, func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subs, id)
			b.mu.Unlock()
			close(sub.ch)
		})
	}
}

// Publish delivers change to matching subscribers without blocking; a
// subscriber whose buffer is full misses the change. Relay failures are
// logged and otherwise ignored.
func (b *Bus) Publish(ctx context.Context, change Change) error {
	if change.At.IsZero() {
		change.At = time.Now()
	}

	b.mu.RLock()
	for id, sub := range b.subs {
		if sub.entities != nil && !sub.entities[change.Entity] {
			continue
		}
		select {
		case sub.ch <- change:
		default:
			log.Printf("Change feed subscriber %d is full, dropping %s", id, change.RoutingKey())
		}
	}
	relays := b.relays
	b.mu.RUnlock()

	if len(relays) == 0 {
		return nil
	}
	body, err := json.Marshal(change)
	if err != nil {
		log.Printf("Failed to encode change %s: %v", change.RoutingKey(), err)
		return nil
	}
	for _, r := range relays {
		if err := r.Send(ctx, change.RoutingKey(), body); err != nil {
			log.Printf("Warning: failed to relay change %s: %v", change.RoutingKey(), err)
		}
	}
	return nil
}
