package services_test

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"pizzaria/internal/events"
	"pizzaria/internal/services"

	"github.com/stretchr/testify/assert"
)

type fakeCounter struct {
	n atomic.Int64
}

func (c *fakeCounter) CountPending() (int64, error) {
	return c.n.Load(), nil
}

func TestPendingAlert_StartsAndStops(t *testing.T) {
	bus := events.NewBus()
	counter := &fakeCounter{}
	alert := services.NewPendingAlert(counter, bus, 10*time.Millisecond)

	alerts, cancelAlerts := bus.Subscribe(events.EntityAlerts)
	defer cancelAlerts()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	alert.Refresh(ctx)
	assert.False(t, alert.Active())

	counter.n.Store(2)
	alert.Refresh(ctx)
	assert.True(t, alert.Active())

	received := 0
	timeout := time.After(time.Second)
	for received < 3 {
		select {
		case ch := <-alerts:
			assert.Equal(t, events.ActionAlert, ch.Action)
			received++
		case <-timeout:
			t.Fatalf("got %d alerts, want 3", received)
		}
	}

	counter.n.Store(0)
	alert.Refresh(ctx)
	assert.False(t, alert.Active())
}

func TestPendingAlert_RunFollowsOrderChanges(t *testing.T) {
	bus := events.NewBus()
	counter := &fakeCounter{}
	alert := services.NewPendingAlert(counter, bus, time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		alert.Run(ctx)
		close(done)
	}()

	counter.n.Store(1)
	assert.Eventually(t, func() bool {
		_ = bus.Publish(ctx, events.Change{Entity: events.EntityOrders, Action: events.ActionInsert})
		return alert.Active()
	}, time.Second, 10*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
	assert.False(t, alert.Active())
}
