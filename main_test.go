package main

import (
	"bytes"
	"encoding/json"
	"io/ioutil"
	"log"
	"os"
	"path/filepath"
	"testing"
	"time"

	"pizzaria/internal/events"
	"pizzaria/internal/models"

	"github.com/shopspring/decimal"
	"github.com/streadway/amqp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	log.SetOutput(ioutil.Discard)
	os.Exit(m.Run())
}

func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func useTempDatabase(t *testing.T) {
	t.Helper()
	t.Setenv("DATABASE_DRIVER", "sqlite")
	t.Setenv("DATABASE_DSN", filepath.Join(t.TempDir(), "pizzaria.db"))
	t.Setenv("REDIS_URL", "")
	t.Setenv("RABBITMQ_URL", "")
	t.Setenv("KAFKA_BROKERS", "")
}

func TestRootCommand_Subcommands(t *testing.T) {
	root := newRootCmd()
	var names []string
	for _, c := range root.Commands() {
		names = append(names, c.Name())
	}
	assert.ElementsMatch(t, []string{"serve", "migrate", "seed", "kitchen"}, names)

	kitchen, _, err := root.Find([]string{"kitchen"})
	require.NoError(t, err)
	assert.Equal(t, "pizzaria.kitchen", kitchen.Flag("queue").DefValue)
}

func TestMigrateAndSeedCommands(t *testing.T) {
	useTempDatabase(t)

	out, err := runCommand(t, "migrate")
	require.NoError(t, err)
	assert.Contains(t, out, "Schema is up to date (sqlite)")

	out, err = runCommand(t, "seed")
	require.NoError(t, err)
	assert.Contains(t, out, "Demo menu loaded")

	out, err = runCommand(t, "seed")
	require.NoError(t, err)
	assert.Contains(t, out, "nothing to seed")
}

func TestCommands_RejectBadConfiguration(t *testing.T) {
	useTempDatabase(t)
	t.Setenv("DATABASE_DRIVER", "oracle")

	_, err := runCommand(t, "migrate")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported DATABASE_DRIVER")
}

func TestKitchenCommand_RequiresRabbitMQ(t *testing.T) {
	useTempDatabase(t)

	_, err := runCommand(t, "kitchen")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "RABBITMQ_URL")
}

func delivery(t *testing.T, change events.Change) amqp.Delivery {
	t.Helper()
	body, err := json.Marshal(change)
	require.NoError(t, err)
	return amqp.Delivery{Body: body, RoutingKey: change.RoutingKey()}
}

func sampleOrder() *models.Order {
	return &models.Order{
		ID:            "a1b2c3d4-0000-0000-0000-000000000000",
		CustomerName:  "Ana Souza",
		DeliveryType:  models.DeliveryPickup,
		PaymentMethod: models.PaymentCash,
		Status:        models.StatusConfirmed,
		Subtotal:      decimal.NewFromInt(24),
		Total:         decimal.NewFromInt(24),
		Items: []models.OrderItem{
			{Type: models.ItemDrink, Name: "Coke 2L", Price: decimal.NewFromInt(12), Quantity: 2},
		},
		CreatedAt: time.Date(2024, 5, 10, 19, 30, 0, 0, time.UTC),
	}
}

func TestKitchenHandler(t *testing.T) {
	tests := []struct {
		name     string
		change   events.Change
		contains []string
		empty    bool
	}{
		{
			name:     "new order prints the receipt",
			change:   events.Change{Entity: events.EntityOrders, Action: events.ActionInsert, Data: sampleOrder()},
			contains: []string{"2x Coke 2L", "10/05/2024 19:30"},
		},
		{
			name:     "status update prints the summary",
			change:   events.Change{Entity: events.EntityOrders, Action: events.ActionUpdate, Data: sampleOrder()},
			contains: []string{"[confirmed]", "Name: Ana Souza"},
		},
		{
			name:   "other entities are skipped",
			change: events.Change{Entity: events.EntityProducts, Action: events.ActionInsert, ID: "p1"},
			empty:  true,
		},
		{
			name:   "orders without payload are skipped",
			change: events.Change{Entity: events.EntityOrders, Action: events.ActionDelete, ID: "o1"},
			empty:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			err := kitchenHandler(&out)(delivery(t, tt.change))
			require.NoError(t, err)
			if tt.empty {
				assert.Empty(t, out.String())
				return
			}
			for _, s := range tt.contains {
				assert.Contains(t, out.String(), s)
			}
		})
	}
}

func TestKitchenHandler_DropsMalformedMessages(t *testing.T) {
	var out bytes.Buffer
	err := kitchenHandler(&out)(amqp.Delivery{Body: []byte("{not json")})
	assert.NoError(t, err)
	assert.Empty(t, out.String())
}
