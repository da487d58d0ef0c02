package consumer

import (
	"context"
	"errors"
	"time"

	pkglog "github.com/weiawesome/wes-io-live/spellcheck-service/pkg/log"
	"github.com/weiawesome/wes-io-live/spellcheck-service/pkg/pubsub"
)

const retryDelay = 2 * time.Second

var errSubscriptionClosed = errors.New("subscription closed")

// Invalidator drops cached output built from an index.
type Invalidator interface {
	InvalidateIndex(ctx context.Context, index string, extraTags ...string) error
}

// InvalidationConsumer listens for index update events and invalidates the
// cached results and spellcheck payloads of the updated index.
type InvalidationConsumer struct {
	subscriber  pubsub.Subscriber
	invalidator Invalidator
	pattern     string
	retryDelay  time.Duration
	doneCh      chan struct{}
}

// NewInvalidationConsumer creates a consumer for pubsub.PatternIndexUpdated.
func NewInvalidationConsumer(subscriber pubsub.Subscriber, invalidator Invalidator) *InvalidationConsumer {
	return &InvalidationConsumer{
		subscriber:  subscriber,
		invalidator: invalidator,
		pattern:     pubsub.PatternIndexUpdated,
		retryDelay:  retryDelay,
		doneCh:      make(chan struct{}),
	}
}

// Done returns a channel that is closed when Run() exits.
func (c *InvalidationConsumer) Done() <-chan struct{} { return c.doneCh }

// Run consumes events until ctx is done, resubscribing after errors.
func (c *InvalidationConsumer) Run(ctx context.Context) {
	defer close(c.doneCh)
	l := pkglog.L()

	for {
		err := c.runSubscription(ctx)
		if ctx.Err() != nil {
			return
		}
		l.Warn().Err(err).Str("pattern", c.pattern).Msg("index update subscription error, resubscribing")

		select {
		case <-ctx.Done():
			return
		case <-time.After(c.retryDelay):
		}
	}
}

func (c *InvalidationConsumer) runSubscription(ctx context.Context) error {
	events, err := c.subscriber.SubscribePattern(ctx, c.pattern)
	if err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case evt, ok := <-events:
			if !ok {
				return errSubscriptionClosed
			}
			c.handleEvent(ctx, evt)
		}
	}
}

func (c *InvalidationConsumer) handleEvent(ctx context.Context, evt *pubsub.Event) {
	l := pkglog.L()

	if evt == nil || evt.Type != pubsub.EventIndexUpdated {
		return
	}

	var payload pubsub.IndexUpdatedPayload
	if len(evt.Payload) > 0 {
		if err := evt.UnmarshalPayload(&payload); err != nil {
			l.Warn().Err(err).Str(pkglog.FieldIndex, evt.Scope).Msg("invalid index update payload")
			return
		}
	}
	index := payload.Index
	if index == "" {
		index = evt.Scope
	}
	if index == "" {
		l.Warn().Msg("index update without index")
		return
	}

	if err := c.invalidator.InvalidateIndex(ctx, index, payload.Tags...); err != nil {
		l.Error().Err(err).Str(pkglog.FieldIndex, index).Msg("invalidate index failed")
	}
}
