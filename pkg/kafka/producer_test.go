package kafka

import (
	"context"
	"errors"
	"testing"

	"github.com/Shopify/sarama"
	"github.com/Shopify/sarama/mocks"
	"github.com/stretchr/testify/assert"
)

func TestProducer_Send(t *testing.T) {
	conf := sarama.NewConfig()
	conf.Producer.Return.Successes = true
	conn := mocks.NewSyncProducer(t, conf)
	conn.ExpectSendMessageWithCheckerFunctionAndSucceed(func(val []byte) error {
		if string(val) != `{"entity":"orders"}` {
			return errors.New("unexpected body " + string(val))
		}
		return nil
	})
	conn.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)

	p := newProducer(conn, "pizzaria.changes")
	assert.NoError(t, p.Send(context.Background(), "orders.insert", []byte(`{"entity":"orders"}`)))

	err := p.Send(context.Background(), "orders.update", []byte(`{}`))
	assert.ErrorIs(t, err, sarama.ErrOutOfBrokers)
	assert.NoError(t, p.Close())
}
