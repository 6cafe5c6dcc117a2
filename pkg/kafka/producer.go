package kafka

import (
	"context"
	"fmt"

	"github.com/Shopify/sarama"
)

// Producer writes change documents to a single Kafka topic.
type Producer struct {
	topic string
	conn  sarama.SyncProducer
}

// NewProducer connects a synchronous producer to brokers.
func NewProducer(brokers []string, topic string) (*Producer, error) {
	conf := sarama.NewConfig()
	conf.Producer.Return.Successes = true
	conf.Producer.Return.Errors = true
	conf.Producer.RequiredAcks = sarama.WaitForAll

	conn, err := sarama.NewSyncProducer(brokers, conf)
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka producer: %w", err)
	}
	return newProducer(conn, topic), nil
}

func newProducer(conn sarama.SyncProducer, topic string) *Producer {
	return &Producer{topic: topic, conn: conn}
}

// Send writes body keyed by the change routing key.
func (p *Producer) Send(_ context.Context, key string, body []byte) error {
	_, _, err := p.conn.SendMessage(&sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(key),
		Value: sarama.ByteEncoder(body),
	})
	if err != nil {
		return fmt.Errorf("failed to send %s to kafka: %w", key, err)
	}
	return nil
}

// Close flushes and closes the producer.
func (p *Producer) Close() error {
	return p.conn.Close()
}
