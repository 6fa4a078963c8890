package service

import (
	"context"
	"encoding/json"

	"cloess-chatbot-be/internal/dto"
	"cloess-chatbot-be/internal/pkg/logger"

	"github.com/ThreeDotsLabs/watermill/message"
)

const consumerModule = "InteractionConsumer"

type IConsumerService interface {
	Consume(ctx context.Context) error
}

// InteractionRecorder persists one queued interaction.
type InteractionRecorder interface {
	RecordInteraction(ctx context.Context, msg *dto.PublishInteractionMessage) error
}

type consumerService struct {
	subscriber message.Subscriber
	topicName  string
	recorder   InteractionRecorder
	logger     logger.ILogger
}

func NewConsumerService(
	subscriber message.Subscriber,
	topicName string,
	recorder InteractionRecorder,
	log logger.ILogger,
) IConsumerService {
	return &consumerService{
		subscriber: subscriber,
		topicName:  topicName,
		recorder:   recorder,
		logger:     log,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.subscriber.Subscribe(ctx, cs.topicName)
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
	var payload dto.PublishInteractionMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		cs.logger.Error(consumerModule, "Failed to unmarshal message", map[string]interface{}{
			"message_id": msg.UUID,
			"error":      err.Error(),
		})
		// Malformed payloads would never succeed; drop them.
		msg.Ack()
		return
	}

	if err := cs.recorder.RecordInteraction(ctx, &payload); err != nil {
		cs.logger.Error(consumerModule, "Failed to record interaction", map[string]interface{}{
			"message_id": msg.UUID,
			"product_id": payload.ProductId,
			"error":      err.Error(),
		})
		msg.Nack()
		return
	}

	cs.logger.Debug(consumerModule, "Interaction recorded", map[string]interface{}{
		"product_id": payload.ProductId,
		"type":       payload.InteractionType,
	})
	msg.Ack()
}
