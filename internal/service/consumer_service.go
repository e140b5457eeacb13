package service

import (
	"context"
	"sync"

	"ai-workflow-be/internal/pkg/logger"
	"ai-workflow-be/pkg/events"

	"github.com/ThreeDotsLabs/watermill/message"
)

const consumerModule = "ActivityConsumer"

// Subscriber is the in-process side of the event bus.
type Subscriber interface {
	Subscribe(ctx context.Context) (<-chan *message.Message, error)
}

type IConsumerService interface {
	Consume(ctx context.Context) error
	Stats() map[string]int
}

// consumerService records workflow activity from the bus and forwards every
// event to an external publisher when one is configured.
type consumerService struct {
	bus       Subscriber
	forwarder events.Publisher
	logger    logger.ILogger

	mu     sync.Mutex
	counts map[string]int
}

func NewConsumerService(bus Subscriber, forwarder events.Publisher, log logger.ILogger) IConsumerService {
	return &consumerService{
		bus:       bus,
		forwarder: forwarder,
		logger:    log,
		counts:    make(map[string]int),
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.bus.Subscribe(ctx)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	event, err := events.Decode(msg)
	if err != nil {
		cs.logger.Error(consumerModule, "Failed to decode event", map[string]interface{}{"error": err.Error()})
		// undecodable messages are never retried
		msg.Ack()
		return
	}

	cs.mu.Lock()
	cs.counts[event.Type]++
	cs.mu.Unlock()

	cs.logger.Info(consumerModule, event.Type, event.Data)
	// publishers block until ack; forwarding stays ordered because this loop is sequential
	msg.Ack()

	if cs.forwarder != nil {
		if err := cs.forwarder.Publish(ctx, event); err != nil {
			cs.logger.Warn(consumerModule, "Failed to forward event", map[string]interface{}{"type": event.Type, "error": err.Error()})
		}
	}
}

// Stats returns how many events of each type were consumed.
func (cs *consumerService) Stats() map[string]int {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	out := make(map[string]int, len(cs.counts))
	for k, v := range cs.counts {
		out[k] = v
	}
	return out
}
