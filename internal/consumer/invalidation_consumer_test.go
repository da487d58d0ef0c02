package consumer

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weiawesome/wes-io-live/spellcheck-service/pkg/pubsub"
)

type invalidation struct {
	index string
	tags  []string
}

type fakeInvalidator struct {
	mu    sync.Mutex
	calls []invalidation
	err   error
}

func (f *fakeInvalidator) InvalidateIndex(_ context.Context, index string, extraTags ...string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, invalidation{index: index, tags: extraTags})
	return f.err
}

func (f *fakeInvalidator) Calls() []invalidation {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]invalidation(nil), f.calls...)
}

type fakeSubscriber struct {
	mu       sync.Mutex
	attempts int
	channels []chan *pubsub.Event
	failures int
}

func (f *fakeSubscriber) Subscribe(ctx context.Context, channel string) (<-chan *pubsub.Event, error) {
	return f.SubscribePattern(ctx, channel)
}

func (f *fakeSubscriber) SubscribePattern(context.Context, string) (<-chan *pubsub.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.attempts++
	if f.failures > 0 {
		f.failures--
		return nil, errors.New("broker unavailable")
	}
	ch := make(chan *pubsub.Event, 8)
	f.channels = append(f.channels, ch)
	return ch, nil
}

func (f *fakeSubscriber) Unsubscribe(context.Context, string) error {
	return nil
}

func (f *fakeSubscriber) latest() chan *pubsub.Event {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.channels) == 0 {
		return nil
	}
	return f.channels[len(f.channels)-1]
}

func TestHandleEvent(t *testing.T) {
	tests := []struct {
		name  string
		event *pubsub.Event
		want  []invalidation
	}{
		{
			name:  "payload index and tags",
			event: &pubsub.Event{Type: pubsub.EventIndexUpdated, Scope: "content", Payload: json.RawMessage(`{"index":"content","tags":["node_list"]}`)},
			want:  []invalidation{{index: "content", tags: []string{"node_list"}}},
		},
		{
			name:  "scope fallback",
			event: &pubsub.Event{Type: pubsub.EventIndexUpdated, Scope: "docs"},
			want:  []invalidation{{index: "docs"}},
		},
		{
			name:  "other event type",
			event: &pubsub.Event{Type: "index_created", Scope: "docs"},
		},
		{
			name:  "malformed payload",
			event: &pubsub.Event{Type: pubsub.EventIndexUpdated, Scope: "docs", Payload: json.RawMessage(`"oops"`)},
		},
		{
			name:  "no index",
			event: &pubsub.Event{Type: pubsub.EventIndexUpdated},
		},
		{
			name: "nil event",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inv := &fakeInvalidator{}
			c := NewInvalidationConsumer(&fakeSubscriber{}, inv)

			c.handleEvent(context.Background(), tt.event)
			assert.Equal(t, tt.want, inv.Calls())
		})
	}
}

func TestRunResubscribes(t *testing.T) {
	sub := &fakeSubscriber{failures: 1}
	inv := &fakeInvalidator{err: errors.New("redis down")}
	c := NewInvalidationConsumer(sub, inv)
	c.retryDelay = 10 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	go c.Run(ctx)

	require.Eventually(t, func() bool { return sub.latest() != nil }, time.Second, 5*time.Millisecond)
	first := sub.latest()
	first <- &pubsub.Event{Type: pubsub.EventIndexUpdated, Scope: "content"}
	close(first)

	require.Eventually(t, func() bool {
		ch := sub.latest()
		return ch != nil && ch != first
	}, time.Second, 5*time.Millisecond)
	sub.latest() <- &pubsub.Event{Type: pubsub.EventIndexUpdated, Scope: "docs"}

	require.Eventually(t, func() bool { return len(inv.Calls()) == 2 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, "content", inv.Calls()[0].index)
	assert.Equal(t, "docs", inv.Calls()[1].index)

	cancel()
	select {
	case <-c.Done():
	case <-time.After(time.Second):
		t.Fatal("consumer did not stop")
	}
}

func TestRunOverRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	ps := pubsub.NewRedisPubSubFromClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	defer ps.Close()

	inv := &fakeInvalidator{}
	c := NewInvalidationConsumer(ps, inv)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go c.Run(ctx)

	evt, err := pubsub.NewEvent(pubsub.EventIndexUpdated, "content", pubsub.IndexUpdatedPayload{Index: "content"})
	require.NoError(t, err)

	// Publish until the pattern subscription is active.
	require.Eventually(t, func() bool {
		_ = ps.Publish(ctx, pubsub.IndexUpdatedChannel("content"), evt)
		return len(inv.Calls()) > 0
	}, 2*time.Second, 20*time.Millisecond)
	assert.Equal(t, "content", inv.Calls()[0].index)
}
