package testutil

import (
	"context"
	"sync"

	"github.com/questx-lab/lotterypool/pkg/pubsub"
)

type PublishedPack struct {
	Topic string
	Pack  *pubsub.Pack
}

// MockPublisher records published packs. PublishFunc, if set, decides the
// result of Publish.
type MockPublisher struct {
	PublishFunc func(context.Context, string, *pubsub.Pack) error

	mu   sync.Mutex
	sent []PublishedPack
}

func (m *MockPublisher) Publish(ctx context.Context, topic string, pack *pubsub.Pack) error {
	if m.PublishFunc != nil {
		if err := m.PublishFunc(ctx, topic, pack); err != nil {
			return err
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, PublishedPack{Topic: topic, Pack: pack})
	return nil
}

func (m *MockPublisher) Sent() []PublishedPack {
	m.mu.Lock()
	defer m.mu.Unlock()

	result := make([]PublishedPack, len(m.sent))
	copy(result, m.sent)
	return result
}
