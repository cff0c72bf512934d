package pubsub

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	pubsub "cloud.google.com/go/pubsub/v2"
	"github.com/google/uuid"

	"github.com/angelmondragon/phonedex-backend/pkg/enums"
)

// Envelope is the JSON body of every analytics message.
type Envelope struct {
	EventID    string                   `json:"event_id"`
	EventType  enums.AnalyticsEventType `json:"event_type"`
	OccurredAt time.Time                `json:"occurred_at"`
	Data       json.RawMessage          `json:"data"`
}

type messagePublisher interface {
	Publish(ctx context.Context, msg *pubsub.Message) *pubsub.PublishResult
	Stop()
}

// EventPublisher serializes analytics events onto a topic.
type EventPublisher struct {
	publisher messagePublisher
	now       func() time.Time
	send      func(ctx context.Context, msg *pubsub.Message) error
}

// NewEventPublisher wraps a topic publisher.
func NewEventPublisher(publisher *pubsub.Publisher) (*EventPublisher, error) {
	if publisher == nil {
		return nil, errors.New("publisher required")
	}
	ep := &EventPublisher{publisher: publisher, now: time.Now}
	ep.send = ep.publishAndWait
	return ep, nil
}

// Publish sends one event and waits for the server ack.
func (p *EventPublisher) Publish(ctx context.Context, eventType enums.AnalyticsEventType, data any) error {
	msg, err := p.buildMessage(eventType, data)
	if err != nil {
		return err
	}
	return p.send(ctx, msg)
}

func (p *EventPublisher) buildMessage(eventType enums.AnalyticsEventType, data any) (*pubsub.Message, error) {
	if !eventType.IsValid() {
		return nil, fmt.Errorf("unknown event type %q", eventType)
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("marshal event data: %w", err)
	}
	env := Envelope{
		EventID:    uuid.NewString(),
		EventType:  eventType,
		OccurredAt: p.now().UTC(),
		Data:       raw,
	}
	body, err := json.Marshal(env)
	if err != nil {
		return nil, fmt.Errorf("marshal envelope: %w", err)
	}
	return &pubsub.Message{
		Data: body,
		Attributes: map[string]string{
			"event_id":   env.EventID,
			"event_type": eventType.String(),
		},
	}, nil
}

func (p *EventPublisher) publishAndWait(ctx context.Context, msg *pubsub.Message) error {
	if _, err := p.publisher.Publish(ctx, msg).Get(ctx); err != nil {
		return fmt.Errorf("publish %s: %w", msg.Attributes["event_type"], err)
	}
	return nil
}

// Stop flushes pending messages.
func (p *EventPublisher) Stop() {
	if p == nil || p.publisher == nil {
		return
	}
	p.publisher.Stop()
}
