// Package orderflow holds the admin order status transition table and the
// payment status guard applied to gateway notices.
package orderflow

import (
	"errors"
	"fmt"

	"pizzaria/internal/models"
)

var (
	ErrUnknownStatus     = errors.New("unknown order status")
	ErrInvalidTransition = errors.New("invalid status transition")
)

// transitions is forward-only. Preparing and ready are progress notes on a
// confirmed order and may only move on to delivered.
var transitions = map[models.OrderStatus][]models.OrderStatus{
	models.StatusPending:   {models.StatusConfirmed, models.StatusCancelled},
	models.StatusConfirmed: {models.StatusPreparing, models.StatusReady, models.StatusDelivered, models.StatusCancelled},
	models.StatusPreparing: {models.StatusReady, models.StatusDelivered, models.StatusCancelled},
	models.StatusReady:     {models.StatusDelivered, models.StatusCancelled},
	models.StatusDelivered: nil,
	models.StatusCancelled: nil,
}

// paymentSources maps each payment status to the statuses it may replace.
// A settled payment only moves on to a refund.
var paymentSources = map[models.PaymentStatus][]models.PaymentStatus{
	models.PaymentPending:  {models.PaymentPending},
	models.PaymentApproved: {models.PaymentPending, models.PaymentApproved},
	models.PaymentRejected: {models.PaymentPending, models.PaymentRejected},
	models.PaymentRefunded: {models.PaymentPending, models.PaymentApproved, models.PaymentRefunded},
}

// Steps of the progress bar.
const (
	StepReceived  = 0
	StepConfirmed = 1
	StepDelivered = 2
)

// Valid reports whether s is a known status.
func Valid(s models.OrderStatus) bool {
	_, ok := transitions[s]
	return ok
}

// Terminal reports whether no further transition exists.
func Terminal(s models.OrderStatus) bool {
	return s == models.StatusDelivered || s == models.StatusCancelled
}

// Allowed lists the statuses reachable from s.
func Allowed(s models.OrderStatus) []models.OrderStatus {
	out := make([]models.OrderStatus, len(transitions[s]))
	copy(out, transitions[s])
	return out
}

// Check returns nil when from → to is in the table.
func Check(from, to models.OrderStatus) error {
	if !Valid(from) {
		return fmt.Errorf("%w: %q", ErrUnknownStatus, from)
	}
	if !Valid(to) {
		return fmt.Errorf("%w: %q", ErrUnknownStatus, to)
	}
	for _, s := range transitions[from] {
		if s == to {
			return nil
		}
	}
	return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
}

// Next is the main forward action for s: pending confirms, anything
// confirmed-like delivers.
func Next(s models.OrderStatus) (models.OrderStatus, bool) {
	switch s {
	case models.StatusPending:
		return models.StatusConfirmed, true
	case models.StatusConfirmed, models.StatusPreparing, models.StatusReady:
		return models.StatusDelivered, true
	}
	return "", false
}

// Progress maps a status to its progress-bar step; cancelled orders report -1.
func Progress(s models.OrderStatus) int {
	switch s {
	case models.StatusPending:
		return StepReceived
	case models.StatusConfirmed, models.StatusPreparing, models.StatusReady:
		return StepConfirmed
	case models.StatusDelivered:
		return StepDelivered
	}
	return -1
}

// PaymentSources lists the payment statuses that to may overwrite.
func PaymentSources(to models.PaymentStatus) []models.PaymentStatus {
	out := make([]models.PaymentStatus, len(paymentSources[to]))
	copy(out, paymentSources[to])
	return out
}
