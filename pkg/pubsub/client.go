// Package pubsub mirrors analytics events onto a Google Cloud Pub/Sub topic.
package pubsub

import (
	"context"
	"errors"
	"fmt"
	"strings"

	pubsub "cloud.google.com/go/pubsub/v2"
	"cloud.google.com/go/pubsub/v2/apiv1/pubsubpb"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/angelmondragon/phonedex-backend/pkg/config"
	"github.com/angelmondragon/phonedex-backend/pkg/logger"
)

var (
	errProjectIDRequired = errors.New("gcp project id is required")
	errNoTopic           = errors.New("pubsub analytics topic is required")
	errNotInitialized    = errors.New("pubsub client not initialized")
)

// Client owns the Pub/Sub connection and the resolved analytics topic.
type Client struct {
	client         *pubsub.Client
	analyticsTopic string
}

// NewClient connects to Pub/Sub and fails fast when the analytics topic is
// missing. Topics are provisioned out of band.
func NewClient(ctx context.Context, gcp config.GCPConfig, cfg config.PubSubConfig, logg *logger.Logger) (*Client, error) {
	projectID := strings.TrimSpace(gcp.ProjectID)
	if projectID == "" {
		return nil, errProjectIDRequired
	}
	topic := topicResourceName(projectID, cfg.AnalyticsTopic)
	if topic == "" {
		return nil, errNoTopic
	}

	psClient, err := pubsub.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("creating pubsub client: %w", err)
	}
	c := &Client{client: psClient, analyticsTopic: topic}
	if err := c.Ping(ctx); err != nil {
		_ = psClient.Close()
		return nil, err
	}

	if logg != nil {
		logg.Info(logg.WithField(ctx, "topic", topic), "pubsub client initialized")
	}
	return c, nil
}

// AnalyticsPublisher returns a publisher for the analytics topic.
func (c *Client) AnalyticsPublisher() *pubsub.Publisher {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Publisher(c.analyticsTopic)
}

// Ping confirms the analytics topic is reachable.
func (c *Client) Ping(ctx context.Context) error {
	if c == nil || c.client == nil {
		return errNotInitialized
	}
	_, err := c.client.TopicAdminClient.GetTopic(ctx, &pubsubpb.GetTopicRequest{Topic: c.analyticsTopic})
	switch {
	case err == nil:
		return nil
	case status.Code(err) == codes.NotFound:
		return fmt.Errorf("topic %s does not exist", c.analyticsTopic)
	default:
		return fmt.Errorf("checking topic %s: %w", c.analyticsTopic, err)
	}
}

func (c *Client) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}

// topicResourceName expands a short topic id to projects/<p>/topics/<id>.
// Full resource names pass through.
func topicResourceName(projectID, name string) string {
	name = strings.TrimSpace(name)
	projectID = strings.TrimSpace(projectID)
	switch {
	case name == "":
		return ""
	case strings.HasPrefix(name, "projects/") && strings.Contains(name, "/topics/"):
		return name
	case projectID == "":
		return ""
	}
	return "projects/" + projectID + "/topics/" + name
}
