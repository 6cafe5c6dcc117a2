package orderflow_test

import (
	"testing"

	"pizzaria/internal/models"
	"pizzaria/internal/orderflow"

	"github.com/stretchr/testify/assert"
)

var all = []models.OrderStatus{
	models.StatusPending, models.StatusConfirmed, models.StatusPreparing,
	models.StatusReady, models.StatusDelivered, models.StatusCancelled,
}

func TestCheck_ForwardOnly(t *testing.T) {
	assert.NoError(t, orderflow.Check(models.StatusPending, models.StatusConfirmed))
	assert.NoError(t, orderflow.Check(models.StatusConfirmed, models.StatusDelivered))
	assert.NoError(t, orderflow.Check(models.StatusPreparing, models.StatusDelivered))
	assert.NoError(t, orderflow.Check(models.StatusReady, models.StatusDelivered))

	assert.ErrorIs(t, orderflow.Check(models.StatusConfirmed, models.StatusPending), orderflow.ErrInvalidTransition)
	assert.ErrorIs(t, orderflow.Check(models.StatusReady, models.StatusPreparing), orderflow.ErrInvalidTransition)
	assert.ErrorIs(t, orderflow.Check(models.StatusPending, models.StatusDelivered), orderflow.ErrInvalidTransition)
}

func TestCheck_CancelOnlyFromNonTerminal(t *testing.T) {
	for _, s := range all {
		err := orderflow.Check(s, models.StatusCancelled)
		if orderflow.Terminal(s) {
			assert.ErrorIs(t, err, orderflow.ErrInvalidTransition, s)
		} else {
			assert.NoError(t, err, s)
		}
	}
}

func TestCheck_NoReopening(t *testing.T) {
	for _, from := range []models.OrderStatus{models.StatusDelivered, models.StatusCancelled} {
		for _, to := range all {
			assert.Error(t, orderflow.Check(from, to), "%s -> %s", from, to)
		}
		assert.Empty(t, orderflow.Allowed(from))
	}
}

func TestCheck_UnknownStatus(t *testing.T) {
	assert.ErrorIs(t, orderflow.Check("shipped", models.StatusDelivered), orderflow.ErrUnknownStatus)
	assert.ErrorIs(t, orderflow.Check(models.StatusPending, "shipped"), orderflow.ErrUnknownStatus)
}

func TestNextAndProgress(t *testing.T) {
	next, ok := orderflow.Next(models.StatusPending)
	assert.True(t, ok)
	assert.Equal(t, models.StatusConfirmed, next)

	for _, s := range []models.OrderStatus{models.StatusConfirmed, models.StatusPreparing, models.StatusReady} {
		next, ok = orderflow.Next(s)
		assert.True(t, ok)
		assert.Equal(t, models.StatusDelivered, next)
		assert.Equal(t, orderflow.StepConfirmed, orderflow.Progress(s))
	}

	_, ok = orderflow.Next(models.StatusDelivered)
	assert.False(t, ok)
	assert.Equal(t, orderflow.StepReceived, orderflow.Progress(models.StatusPending))
	assert.Equal(t, orderflow.StepDelivered, orderflow.Progress(models.StatusDelivered))
	assert.Equal(t, -1, orderflow.Progress(models.StatusCancelled))
}

func TestPaymentSources(t *testing.T) {
	tests := []struct {
		from, to models.PaymentStatus
		ok       bool
	}{
		{models.PaymentPending, models.PaymentApproved, true},
		{models.PaymentPending, models.PaymentRejected, true},
		{models.PaymentApproved, models.PaymentApproved, true},
		{models.PaymentApproved, models.PaymentRefunded, true},
		{models.PaymentApproved, models.PaymentPending, false},
		{models.PaymentApproved, models.PaymentRejected, false},
		{models.PaymentRejected, models.PaymentPending, false},
		{models.PaymentRejected, models.PaymentApproved, false},
		{models.PaymentRejected, models.PaymentRefunded, false},
		{models.PaymentRefunded, models.PaymentRejected, false},
		{models.PaymentRefunded, models.PaymentApproved, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.ok, contains(orderflow.PaymentSources(tt.to), tt.from), "%s -> %s", tt.from, tt.to)
	}
	assert.Empty(t, orderflow.PaymentSources("chargeback"))
}

func contains(list []models.PaymentStatus, s models.PaymentStatus) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
