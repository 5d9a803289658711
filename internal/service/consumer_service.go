package service

import (
	"context"
	"encoding/json"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"

	"trulearn-be/internal/dto"
	"trulearn-be/internal/pkg/logger"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

// consumerService drains the study-events topic and writes each event to
// the activity log. It runs as a background goroutine started from main.
type consumerService struct {
	pubSub      *gochannel.GoChannel
	topicName   string
	activityLog logger.ILogger
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	activityLog logger.ILogger,
) IConsumerService {
	return &consumerService{
		pubSub:      pubSub,
		topicName:   topicName,
		activityLog: activityLog,
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
	var payload dto.StudyEventMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		cs.activityLog.Error("events", "failed to unmarshal study event", map[string]interface{}{
			"error": err.Error(),
		})
		msg.Ack() // Ack invalid messages to prevent infinite retry
		return
	}

	details := map[string]interface{}{
		"event_type":  payload.Type,
		"concept":     payload.Concept,
		"filename":    payload.Filename,
		"occurred_at": payload.OccurredAt,
	}
	for k, v := range payload.Details {
		details[k] = v
	}
	cs.activityLog.Info("events", "study activity", details)

	msg.Ack()
}
