package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"

	"ai-outfit-planner-be/internal/constant"
	"ai-outfit-planner-be/internal/dto"
	"ai-outfit-planner-be/internal/pkg/logger"
)

// IPublisherService fans pipeline events onto the in-process bus. The
// consumer service routes them to websocket clients, NATS and the trip
// plan archive.
type IPublisherService interface {
	PublishStageChanged(ctx context.Context, sessionId, fromStage, toStage string) error
	PublishPlanCompleted(ctx context.Context, sessionId string, details *dto.EventDetails, data *dto.GenerationData) error
}

// StageChangedMessage is the payload on constant.TopicStageChanged.
type StageChangedMessage struct {
	SessionId string    `json:"session_id"`
	FromStage string    `json:"from_stage"`
	ToStage   string    `json:"to_stage"`
	At        time.Time `json:"at"`
}

// PlanCompletedMessage is the payload on constant.TopicPlanCompleted.
type PlanCompletedMessage struct {
	SessionId    string              `json:"session_id"`
	EventDetails *dto.EventDetails   `json:"event_details,omitempty"`
	Plan         *dto.GenerationData `json:"plan"`
	At           time.Time           `json:"at"`
}

type publisherService struct {
	publisher message.Publisher
	log       logger.ILogger
}

func NewPublisherService(publisher message.Publisher, log logger.ILogger) IPublisherService {
	return &publisherService{publisher: publisher, log: log}
}

func (s *publisherService) PublishStageChanged(ctx context.Context, sessionId, fromStage, toStage string) error {
	return s.publish(constant.TopicStageChanged, StageChangedMessage{
		SessionId: sessionId,
		FromStage: fromStage,
		ToStage:   toStage,
		At:        time.Now().UTC(),
	})
}

func (s *publisherService) PublishPlanCompleted(ctx context.Context, sessionId string, details *dto.EventDetails, data *dto.GenerationData) error {
	return s.publish(constant.TopicPlanCompleted, PlanCompletedMessage{
		SessionId:    sessionId,
		EventDetails: details,
		Plan:         data,
		At:           time.Now().UTC(),
	})
}

func (s *publisherService) publish(topic string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	msg := message.NewMessage(watermill.NewUUID(), data)
	if err := s.publisher.Publish(topic, msg); err != nil {
		if s.log != nil {
			s.log.Error("PublisherService", "Failed to publish message", map[string]interface{}{
				"topic": topic, "error": err.Error(),
			})
		}
		return err
	}
	return nil
}
