package events_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"pizzaria/internal/events"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockRelay struct {
	mock.Mock
}

func (m *MockRelay) Send(ctx context.Context, key string, body []byte) error {
	args := m.Called(key, body)
	return args.Error(0)
}

func TestBus_FiltersByEntity(t *testing.T) {
	bus := events.NewBus()
	orders, cancelOrders := bus.Subscribe(events.EntityOrders)
	defer cancelOrders()
	all, cancelAll := bus.Subscribe()
	defer cancelAll()

	ctx := context.Background()
	require.NoError(t, bus.Publish(ctx, events.Change{Entity: events.EntityProducts, Action: events.ActionUpdate, ID: "p1"}))
	require.NoError(t, bus.Publish(ctx, events.Change{Entity: events.EntityOrders, Action: events.ActionInsert, ID: "o1"}))

	got := <-orders
	assert.Equal(t, "o1", got.ID)
	assert.False(t, got.At.IsZero())
	assert.Len(t, orders, 0)

	assert.Equal(t, "p1", (<-all).ID)
	assert.Equal(t, "o1", (<-all).ID)
}

func TestBus_CancelClosesChannel(t *testing.T) {
	bus := events.NewBus()
	ch, cancel := bus.Subscribe(events.EntityChat)
	cancel()
	cancel()

	_, open := <-ch
	assert.False(t, open)
	assert.NoError(t, bus.Publish(context.Background(), events.Change{Entity: events.EntityChat}))
}

func TestBus_RelaysEncodedChange(t *testing.T) {
	relay := new(MockRelay)
	failing := new(MockRelay)
	bus := events.NewBus(relay, failing)

	relay.On("Send", "orders.insert", mock.MatchedBy(func(body []byte) bool {
		var c events.Change
		return json.Unmarshal(body, &c) == nil && c.ID == "o1" && c.Entity == events.EntityOrders
	})).Return(nil).Once()
	failing.On("Send", "orders.insert", mock.Anything).Return(errors.New("broker down")).Once()

	err := bus.Publish(context.Background(), events.Change{Entity: events.EntityOrders, Action: events.ActionInsert, ID: "o1"})
	assert.NoError(t, err)
	relay.AssertExpectations(t)
	failing.AssertExpectations(t)
}

func TestParseEntity(t *testing.T) {
	e, ok := events.ParseEntity("store_settings")
	assert.True(t, ok)
	assert.Equal(t, events.EntitySettings, e)

	_, ok = events.ParseEntity("users")
	assert.False(t, ok)
}
