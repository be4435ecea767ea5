package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"cloud.google.com/go/pubsub"
	"github.com/rs/zerolog"
)

// PubsubNotifierConfig holds configuration for the Pub/Sub notifier.
type PubsubNotifierConfig struct {
	TopicID string
	// TopicExistsTimeout bounds the existence check at construction.
	TopicExistsTimeout time.Duration
	// PublishConfirmationTimeout bounds the wait for each publish result.
	PublishConfirmationTimeout time.Duration
}

// NewPubsubNotifierDefaults provides a config with sensible defaults.
func NewPubsubNotifierDefaults() *PubsubNotifierConfig {
	return &PubsubNotifierConfig{
		TopicExistsTimeout:         15 * time.Second,
		PublishConfirmationTimeout: 20 * time.Second,
	}
}

// PubsubNotifier broadcasts change events on a Google Cloud Pub/Sub topic so
// other processes (a second tab's backend, a rebuild trigger) can react.
// Publish failures are logged and dropped, matching the Notifier contract.
type PubsubNotifier struct {
	topic                      *pubsub.Topic
	logger                     zerolog.Logger
	publishConfirmationTimeout time.Duration
	wg                         sync.WaitGroup
}

// NewPubsubNotifier creates a notifier for the configured topic. It validates
// the topic's existence before returning.
func NewPubsubNotifier(
	ctx context.Context,
	cfg *PubsubNotifierConfig,
	client *pubsub.Client,
	logger zerolog.Logger,
) (*PubsubNotifier, error) {
	if client == nil {
		return nil, fmt.Errorf("pubsub client cannot be nil for notifier")
	}

	topic := client.Topic(cfg.TopicID)
	existsCtx, cancel := context.WithTimeout(ctx, cfg.TopicExistsTimeout)
	defer cancel()
	exists, err := topic.Exists(existsCtx)
	if err != nil {
		return nil, fmt.Errorf("failed to check for topic %s: %w", cfg.TopicID, err)
	}
	if !exists {
		return nil, fmt.Errorf("pubsub topic %s does not exist", cfg.TopicID)
	}

	logger.Info().Str("topic_id", cfg.TopicID).Msg("PubsubNotifier initialized successfully.")
	return &PubsubNotifier{
		topic:                      topic,
		logger:                     logger.With().Str("component", "PubsubNotifier").Str("topic_id", cfg.TopicID).Logger(),
		publishConfirmationTimeout: cfg.PublishConfirmationTimeout,
	}, nil
}

// DataChanged publishes the event and returns without waiting for the result.
func (n *PubsubNotifier) DataChanged(ctx context.Context, event Event) {
	payload, err := json.Marshal(event)
	if err != nil {
		n.logger.Error().Err(err).Str("kind", string(event.Kind)).Msg("Failed to marshal change event.")
		return
	}

	res := n.topic.Publish(ctx, &pubsub.Message{Data: payload})

	n.wg.Add(1)
	go func() {
		defer n.wg.Done()
		getCtx, cancel := context.WithTimeout(context.Background(), n.publishConfirmationTimeout)
		defer cancel()
		if _, err := res.Get(getCtx); err != nil {
			n.logger.Error().Err(err).Str("kind", string(event.Kind)).Str("op", string(event.Op)).Msg("Failed to publish change event.")
		}
	}()
}

// Close flushes outstanding publishes and stops the topic client.
func (n *PubsubNotifier) Close() error {
	n.wg.Wait()
	if n.topic != nil {
		n.topic.Stop()
	}
	n.logger.Info().Msg("PubsubNotifier stopped.")
	return nil
}
