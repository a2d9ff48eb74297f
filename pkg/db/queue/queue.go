package queue

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/IBM/sarama"
	"github.com/outcome-gg/outcome-engine/pkg/messaging"
)

const maxRetry = 5

var (
	brokerList = "localhost:9092"
	topic      = "settlement-queue"
)

// SetBrokerList overrides the Kafka broker address for settlement messages
func SetBrokerList(brokers string) {
	brokerList = brokers
}

// SetTopic overrides the settlement topic
func SetTopic(t string) {
	topic = t
}

// QueueMessageSender implements the MessageSender interface for handing
// processed-order results to the settlement ledger via Kafka.
type QueueMessageSender struct {
	producer sarama.SyncProducer
}

// NewQueueMessageSender creates a sender with its own synchronous producer
func NewQueueMessageSender() (*QueueMessageSender, error) {
	cfg := sarama.NewConfig()
	cfg.Producer.RequiredAcks = sarama.WaitForAll
	cfg.Producer.Retry.Max = maxRetry
	cfg.Producer.Return.Successes = true

	producer, err := sarama.NewSyncProducer([]string{brokerList}, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka producer: %w", err)
	}

	return &QueueMessageSender{producer: producer}, nil
}

// SendDoneMessage sends the DoneMessage to the settlement queue
func (q *QueueMessageSender) SendDoneMessage(_ context.Context, done *messaging.DoneMessage) error {
	data, err := json.Marshal(done)
	if err != nil {
		return fmt.Errorf("failed to marshal done message: %w", err)
	}

	msg := &sarama.ProducerMessage{
		Topic: topic,
		Key:   sarama.StringEncoder(done.OrderID),
		Value: sarama.ByteEncoder(data),
	}

	if _, _, err := q.producer.SendMessage(msg); err != nil {
		return fmt.Errorf("failed to send message to Kafka: %w", err)
	}

	return nil
}

// Close closes the underlying producer
func (q *QueueMessageSender) Close() error {
	return q.producer.Close()
}

// Ensure QueueMessageSender implements MessageSender
var _ messaging.MessageSender = (*QueueMessageSender)(nil)
