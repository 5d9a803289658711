package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"

	"trulearn-be/internal/dto"
)

type IPublisherService interface {
	Publish(ctx context.Context, payload []byte) error
	PublishEvent(ctx context.Context, eventType, conceptLabel, filename string, details map[string]interface{})
}

type publisherService struct {
	topicName string
	pubSub    *gochannel.GoChannel
}

func NewPublisherService(topicName string, pubSub *gochannel.GoChannel) IPublisherService {
	return &publisherService{
		topicName: topicName,
		pubSub:    pubSub,
	}
}

func (ps *publisherService) Publish(ctx context.Context, payload []byte) error {
	msg := message.NewMessage(watermill.NewUUID(), payload)
	msg.SetContext(ctx)
	return ps.pubSub.Publish(ps.topicName, msg)
}

// PublishEvent marshals and publishes a study activity event. Eventing is
// auxiliary: failures are swallowed so they never fail the request.
func (ps *publisherService) PublishEvent(ctx context.Context, eventType, conceptLabel, filename string, details map[string]interface{}) {
	payload, err := json.Marshal(dto.StudyEventMessage{
		Type:       eventType,
		Concept:    conceptLabel,
		Filename:   filename,
		Details:    details,
		OccurredAt: time.Now(),
	})
	if err != nil {
		return
	}
	_ = ps.Publish(ctx, payload)
}
