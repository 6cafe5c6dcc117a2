package services_test

import (
	"context"
	"testing"

	"pizzaria/internal/models"
	"pizzaria/internal/repositories"
	"pizzaria/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChatService_Conversation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	order := placeOrder(t, f, models.PaymentCash)

	_, err := f.chat.Send(ctx, order.ID, models.SenderCustomer, "Ana", "Is it on its way?")
	require.NoError(t, err)
	_, err = f.chat.Send(ctx, order.ID, models.SenderStaff, "Bella", "Leaving now")
	require.NoError(t, err)

	_, err = f.chat.Send(ctx, order.ID, models.SenderCustomer, "Ana", "   ")
	assert.ErrorIs(t, err, services.ErrInvalidInput)
	_, err = f.chat.Send(ctx, "missing", models.SenderCustomer, "Ana", "hi")
	assert.ErrorIs(t, err, repositories.ErrNotFound)

	unread, err := f.chat.UnreadForStaff()
	require.NoError(t, err)
	assert.Equal(t, int64(1), unread[order.ID])

	n, err := f.chat.MarkRead(ctx, order.ID, models.SenderStaff)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	unread, err = f.chat.UnreadForStaff()
	require.NoError(t, err)
	assert.Empty(t, unread)

	msgs, err := f.chat.Messages(order.ID)
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, models.SenderCustomer, msgs[0].SenderRole)
}
