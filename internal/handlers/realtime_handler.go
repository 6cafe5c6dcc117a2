package handlers

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"pizzaria/internal/events"

	"github.com/gofiber/fiber/v2"
)

const heartbeatInterval = 15 * time.Second

// RealtimeHandler streams change events to browsers as server-sent events.
type RealtimeHandler struct {
	bus *events.Bus
	ctx context.Context
}

// NewRealtimeHandler creates a new RealtimeHandler. Open streams end when
// ctx is done.
func NewRealtimeHandler(ctx context.Context, bus *events.Bus) *RealtimeHandler {
	return &RealtimeHandler{bus: bus, ctx: ctx}
}

// RegisterRoutes registers the storefront stream. It carries catalog and
// settings changes, plus the changes of a single order when ?order_id= is
// given.
func (h *RealtimeHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/realtime", h.HandleStream)
}

// RegisterAdminRoutes registers the unrestricted back-office stream.
func (h *RealtimeHandler) RegisterAdminRoutes(router fiber.Router) {
	router.Get("/realtime", h.HandleAdminStream)
}

var publicEntities = map[events.Entity]bool{
	events.EntityProducts:   true,
	events.EntityCategories: true,
	events.EntityCombos:     true,
	events.EntityBorders:    true,
	events.EntitySettings:   true,
}

// parseEntities reads a comma separated entity list; empty means all.
func parseEntities(raw string) ([]events.Entity, error) {
	var out []events.Entity
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		e, ok := events.ParseEntity(part)
		if !ok {
			return nil, fmt.Errorf("unknown entity %q", part)
		}
		out = append(out, e)
	}
	return out, nil
}

func writeEvent(w *bufio.Writer, change events.Change) error {
	data, err := json.Marshal(change)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", change.Entity, data); err != nil {
		return err
	}
	return w.Flush()
}

// HandleStream serves the storefront stream.
func (h *RealtimeHandler) HandleStream(c *fiber.Ctx) error {
	entities, err := parseEntities(c.Query("entities"))
	if err != nil {
		return invalidFilter(c, err)
	}
	orderID := c.Query("order_id")
	if len(entities) == 0 {
		for e := range publicEntities {
			entities = append(entities, e)
		}
		if orderID != "" {
			entities = append(entities, events.EntityOrders)
		}
	}
	for _, e := range entities {
		if publicEntities[e] || (e == events.EntityOrders && orderID != "") {
			continue
		}
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"message": "Entity not available on the public stream",
			"error":   string(e),
		})
	}
	return h.stream(c, entities, func(ch events.Change) bool {
		return ch.Entity != events.EntityOrders || ch.ID == orderID
	})
}

// HandleAdminStream subscribes to ?entities=orders,chat_messages (all when
// omitted).
func (h *RealtimeHandler) HandleAdminStream(c *fiber.Ctx) error {
	entities, err := parseEntities(c.Query("entities"))
	if err != nil {
		return invalidFilter(c, err)
	}
	return h.stream(c, entities, nil)
}

func invalidFilter(c *fiber.Ctx, err error) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"message": "Invalid entities filter",
		"error":   err.Error(),
	})
}

// stream writes each matching change as an SSE event until the client goes
// away or the handler context ends.
func (h *RealtimeHandler) stream(c *fiber.Ctx, entities []events.Entity, keep func(events.Change) bool) error {
	c.Set(fiber.HeaderContentType, "text/event-stream")
	c.Set(fiber.HeaderCacheControl, "no-cache")
	c.Set(fiber.HeaderConnection, "keep-alive")

	changes, cancel := h.bus.Subscribe(entities...)
	ctx := h.ctx
	c.Context().SetBodyStreamWriter(func(w *bufio.Writer) {
		defer cancel()
		if _, err := fmt.Fprint(w, ": connected\n\n"); err != nil {
			return
		}
		if err := w.Flush(); err != nil {
			return
		}
		heartbeat := time.NewTicker(heartbeatInterval)
		defer heartbeat.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case change, ok := <-changes:
				if !ok {
					return
				}
				if keep != nil && !keep(change) {
					continue
				}
				if err := writeEvent(w, change); err != nil {
					log.Printf("Realtime client gone: %v", err)
					return
				}
			case <-heartbeat.C:
				if _, err := fmt.Fprint(w, ": ping\n\n"); err != nil {
					return
				}
				if err := w.Flush(); err != nil {
					return
				}
			}
		}
	})
	return nil
}
