package queue

import (
	"context"
	"fmt"
	"sync"

	"github.com/outcome-gg/outcome-engine/pkg/messaging"
)

var (
	senderPool   chan messaging.MessageSender
	poolInitOnce sync.Once
	maxPoolSize  = 32

	// newSender is the factory used to fill the pool; swapped in tests
	newSender = func() (messaging.MessageSender, error) {
		return NewQueueMessageSender()
	}
)

// initSenderPool initializes the sender pool
func initSenderPool() {
	poolInitOnce.Do(func() {
		senderPool = make(chan messaging.MessageSender, maxPoolSize)
		for i := 0; i < maxPoolSize; i++ {
			sender, err := newSender()
			if err != nil {
				fmt.Printf("Error creating sender: %v\n", err)
				continue
			}
			if sender != nil {
				senderPool <- sender
			}
		}
	})
}

// GetSender gets a sender from the pool
func GetSender() messaging.MessageSender {
	initSenderPool()

	select {
	case sender := <-senderPool:
		return sender
	default:
		fmt.Printf("Warning: sender pool is empty\n")
		return nil
	}
}

// ReturnSender returns a sender to the pool
func ReturnSender(sender messaging.MessageSender) {
	if sender == nil {
		return
	}

	select {
	case senderPool <- sender:
	default:
		fmt.Printf("Warning: sender pool is full\n")
		_ = sender.Close()
	}
}

// pooledSender is a MessageSender facade over the shared pool
type pooledSender struct{}

func (pooledSender) SendDoneMessage(ctx context.Context, msg *messaging.DoneMessage) error {
	return SendMessage(ctx, msg)
}

func (pooledSender) Close() error { return nil }

// PooledSender returns a MessageSender that draws a producer from the shared
// pool per send.
func PooledSender() messaging.MessageSender {
	return pooledSender{}
}

// SendMessage sends a message using a pooled sender
func SendMessage(ctx context.Context, msg *messaging.DoneMessage) error {
	sender := GetSender()
	if sender == nil {
		return fmt.Errorf("failed to get message sender from pool")
	}

	if err := sender.SendDoneMessage(ctx, msg); err != nil {
		// A failed sender may hold a broken connection; close it instead of
		// returning it to the pool.
		_ = sender.Close()
		return err
	}

	ReturnSender(sender)
	return nil
}
