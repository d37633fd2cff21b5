package service

import (
	"context"
	"encoding/json"

	"campus-chatbot-be/internal/dto"
	"campus-chatbot-be/internal/pkg/logger"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

// consumerService listens for document-change messages and keeps the
// staleness counter current.
type consumerService struct {
	pubSub    *gochannel.GoChannel
	topicName string
	tracker   *ChangeTracker
	logger    logger.ILogger
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	tracker *ChangeTracker,
	log logger.ILogger,
) IConsumerService {
	return &consumerService{
		pubSub:    pubSub,
		topicName: topicName,
		tracker:   tracker,
		logger:    log,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(msg *message.Message) {
	var payload dto.DocumentChangedMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		cs.logger.Error("ConsumerService", "Failed to unmarshal document change message", map[string]interface{}{
			"error": err.Error(),
		})
		msg.Ack() // Ack invalid messages to prevent infinite retry
		return
	}

	cs.tracker.Increment()
	cs.logger.Debug("ConsumerService", "Document change recorded", map[string]interface{}{
		"action":       payload.Action,
		"document_key": payload.DocumentKey,
		"pending":      cs.tracker.Pending(),
	})
	msg.Ack()
}
