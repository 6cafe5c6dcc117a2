package services

import (
	"context"
	"log"
	"sync"
	"time"

	"pizzaria/internal/events"
)

// PendingCounter reports how many orders await confirmation.
type PendingCounter interface {
	CountPending() (int64, error)
}

// PendingAlert repeats an alert on the change feed while pending orders
// exist. Its ticker runs only between the first pending order and the last
// one leaving the pending state.
type PendingAlert struct {
	orders   PendingCounter
	bus      *events.Bus
	interval time.Duration

	mu     sync.Mutex
	stop   chan struct{}
	done   chan struct{}
	active bool
}

func NewPendingAlert(orders PendingCounter, bus *events.Bus, interval time.Duration) *PendingAlert {
	return &PendingAlert{orders: orders, bus: bus, interval: interval}
}

// Active reports whether the alert ticker is running.
func (a *PendingAlert) Active() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.active
}

// Run watches order changes until ctx is done, starting and stopping the
// ticker as the pending set fills and empties.
func (a *PendingAlert) Run(ctx context.Context) {
	changes, cancel := a.bus.Subscribe(events.EntityOrders)
	defer cancel()
	defer a.halt()

	a.Refresh(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case _, ok := <-changes:
			if !ok {
				return
			}
			a.Refresh(ctx)
		}
	}
}

// Refresh re-counts pending orders and starts or stops the ticker.
func (a *PendingAlert) Refresh(ctx context.Context) {
	n, err := a.orders.CountPending()
	if err != nil {
		log.Printf("Failed to count pending orders: %v", err)
		return
	}
	if n > 0 {
		a.start(ctx, n)
	} else {
		a.halt()
	}
}

func (a *PendingAlert) start(ctx context.Context, pending int64) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.active {
		return
	}
	a.active = true
	a.stop = make(chan struct{})
	a.done = make(chan struct{})
	go a.loop(ctx, a.stop, a.done)
	a.alert(ctx, pending)
}

func (a *PendingAlert) halt() {
	a.mu.Lock()
	if !a.active {
		a.mu.Unlock()
		return
	}
	a.active = false
	stop, done := a.stop, a.done
	a.mu.Unlock()
	close(stop)
	<-done
}

func (a *PendingAlert) loop(ctx context.Context, stop, done chan struct{}) {
	defer close(done)
	ticker := time.NewTicker(a.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-stop:
			return
		case <-ticker.C:
			n, err := a.orders.CountPending()
			if err != nil {
				log.Printf("Failed to count pending orders: %v", err)
				continue
			}
			if n == 0 {
				continue
			}
			a.alert(ctx, n)
		}
	}
}

func (a *PendingAlert) alert(ctx context.Context, pending int64) {
	announce(ctx, a.bus, events.EntityAlerts, events.ActionAlert, "", map[string]int64{"pending": pending})
}
