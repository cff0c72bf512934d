package pubsub

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	pubsub "cloud.google.com/go/pubsub/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/phonedex-backend/pkg/enums"
)

func TestNewEventPublisherRequiresPublisher(t *testing.T) {
	_, err := NewEventPublisher(nil)
	require.Error(t, err)
}

func TestPublishBuildsEnvelope(t *testing.T) {
	now := time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)
	var sent *pubsub.Message
	p := &EventPublisher{
		now: func() time.Time { return now },
		send: func(ctx context.Context, msg *pubsub.Message) error {
			sent = msg
			return nil
		},
	}

	err := p.Publish(context.Background(), enums.AnalyticsEventSearchPerformed, map[string]any{"query": "pixel", "results": 3})
	require.NoError(t, err)
	require.NotNil(t, sent)
	assert.Equal(t, "search.performed", sent.Attributes["event_type"])

	var env Envelope
	require.NoError(t, json.Unmarshal(sent.Data, &env))
	assert.Equal(t, enums.AnalyticsEventSearchPerformed, env.EventType)
	assert.Equal(t, sent.Attributes["event_id"], env.EventID)
	assert.True(t, env.OccurredAt.Equal(now))
	assert.JSONEq(t, `{"query":"pixel","results":3}`, string(env.Data))
}

func TestPublishRejectsUnknownEvent(t *testing.T) {
	p := &EventPublisher{now: time.Now, send: func(context.Context, *pubsub.Message) error { return nil }}
	err := p.Publish(context.Background(), enums.AnalyticsEventType("order.paid"), nil)
	require.Error(t, err)
}

func TestTopicResourceName(t *testing.T) {
	assert.Equal(t, "projects/p1/topics/analytics", topicResourceName("p1", " analytics "))
	assert.Equal(t, "projects/x/topics/y", topicResourceName("p1", "projects/x/topics/y"))
	assert.Empty(t, topicResourceName("", "analytics"))
	assert.Empty(t, topicResourceName("p1", ""))
}
