package services

import (
	"context"
	"log"

	"pizzaria/internal/events"
)

// announce publishes a change when a publisher is configured. Failures are
// logged and never reach the caller.
func announce(ctx context.Context, pub events.Publisher, entity events.Entity, action events.Action, id string, data interface{}) {
	if pub == nil {
		return
	}
	change := events.Change{Entity: entity, Action: action, ID: id, Data: data}
	if err := pub.Publish(ctx, change); err != nil {
		log.Printf("Failed to publish change %s: %v", change.RoutingKey(), err)
	}
}
