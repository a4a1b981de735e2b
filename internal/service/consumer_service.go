package service

import (
	"context"
	"encoding/json"
	"log"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"

	"ai-outfit-planner-be/internal/constant"
	"ai-outfit-planner-be/internal/websocket"
	"ai-outfit-planner-be/pkg/events"
)

// EventPublisher is the outbound bus surface (NATS JetStream in
// production). Nil disables external publishing.
type EventPublisher interface {
	Publish(ctx context.Context, event events.Event) error
}

// IConsumerService drains the in-process pipeline topics and routes
// each event to websocket clients, the NATS bus and the plan archive.
type IConsumerService interface {
	Consume(ctx context.Context) error
}

type consumerService struct {
	pubSub    *gochannel.GoChannel
	hub       *websocket.Hub
	tripPlans ITripPlanService
	bus       EventPublisher
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	hub *websocket.Hub,
	tripPlans ITripPlanService,
	bus EventPublisher,
) IConsumerService {
	return &consumerService{
		pubSub:    pubSub,
		hub:       hub,
		tripPlans: tripPlans,
		bus:       bus,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	stageMessages, err := cs.pubSub.Subscribe(ctx, constant.TopicStageChanged)
	if err != nil {
		return err
	}
	planMessages, err := cs.pubSub.Subscribe(ctx, constant.TopicPlanCompleted)
	if err != nil {
		return err
	}

	go func() {
		for msg := range stageMessages {
			cs.processStageChanged(ctx, msg)
		}
	}()
	go func() {
		for msg := range planMessages {
			cs.processPlanCompleted(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processStageChanged(ctx context.Context, msg *message.Message) {
	var payload StageChangedMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		log.Printf("[ERROR] Failed to unmarshal stage change: %v", err)
		msg.Ack() // malformed payloads never become valid on retry
		return
	}

	if cs.hub != nil {
		cs.hub.SendToSession(payload.SessionId, "stage_changed", payload)
	}

	if cs.bus != nil {
		event := events.NewStageChanged(payload.SessionId, payload.FromStage, payload.ToStage)
		if err := cs.bus.Publish(ctx, event); err != nil {
			log.Printf("[ERROR] Failed to publish stage change for session %s: %v", payload.SessionId, err)
			msg.Nack()
			return
		}
	}

	msg.Ack()
}

func (cs *consumerService) processPlanCompleted(ctx context.Context, msg *message.Message) {
	var payload PlanCompletedMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		log.Printf("[ERROR] Failed to unmarshal plan completion: %v", err)
		msg.Ack()
		return
	}

	if cs.hub != nil {
		cs.hub.SendToSession(payload.SessionId, "plan_completed", payload)
	}

	tripId := ""
	if cs.tripPlans != nil && payload.Plan != nil {
		plan, err := cs.tripPlans.ArchivePlan(ctx, payload.SessionId, payload.EventDetails, payload.Plan)
		if err != nil {
			log.Printf("[ERROR] Failed to archive plan for session %s: %v", payload.SessionId, err)
			msg.Nack() // archive failures are retriable
			return
		}
		tripId = plan.TripId
	}

	if cs.bus != nil && payload.Plan != nil {
		reusability := 0
		if payload.Plan.ReusabilityAnalysis != nil {
			reusability = payload.Plan.ReusabilityAnalysis.ReusabilityPercentage
		}
		event := events.NewPlanCompleted(payload.SessionId, tripId, payload.Plan.IsDemoMode, payload.Plan.Fallback, reusability)
		if err := cs.bus.Publish(ctx, event); err != nil {
			log.Printf("[ERROR] Failed to publish plan completion for session %s: %v", payload.SessionId, err)
		}
	}

	log.Printf("[INFO] Plan completion processed for session %s", payload.SessionId)
	msg.Ack()
}
