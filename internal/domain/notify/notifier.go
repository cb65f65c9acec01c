package notify

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/google/uuid"
	"github.com/questx-lab/lotterypool/internal/entity"
	"github.com/questx-lab/lotterypool/internal/model"
	"github.com/questx-lab/lotterypool/internal/repository"
	"github.com/questx-lab/lotterypool/pkg/pubsub"
	"github.com/questx-lab/lotterypool/pkg/xcontext"
)

type outboxKey struct{}

type outbox struct {
	mu    sync.Mutex
	packs []*pubsub.Pack
}

// WithOutbox returns a context collecting the notifications emitted with it
// until they are flushed.
func WithOutbox(ctx context.Context) context.Context {
	return context.WithValue(ctx, outboxKey{}, &outbox{})
}

// Notifier persists pool events with the caller's transaction and publishes
// them once the transaction is committed.
type Notifier struct {
	eventRepo repository.PoolEventRepository
	publisher pubsub.Publisher
}

// NewNotifier returns a Notifier. A nil publisher only persists events.
func NewNotifier(eventRepo repository.PoolEventRepository, publisher pubsub.Publisher) *Notifier {
	return &Notifier{eventRepo: eventRepo, publisher: publisher}
}

func (n *Notifier) Emit(
	ctx context.Context,
	pool *entity.Pool,
	topic entity.PoolEventTopic,
	subject string,
	roundID, amount int64,
) error {
	event := &entity.PoolEvent{
		Base:    entity.Base{ID: uuid.NewString()},
		PoolID:  pool.ID,
		Topic:   topic,
		Subject: subject,
		RoundID: roundID,
		Amount:  amount,
	}

	if err := n.eventRepo.Create(ctx, event); err != nil {
		return err
	}

	box, ok := ctx.Value(outboxKey{}).(*outbox)
	if !ok {
		return nil
	}

	msg, err := json.Marshal(model.ConvertPoolEvent(pool, event))
	if err != nil {
		return err
	}

	box.mu.Lock()
	box.packs = append(box.packs, &pubsub.Pack{Key: []byte(pool.Handle), Msg: msg})
	box.mu.Unlock()
	return nil
}

// Flush publishes the notifications collected in ctx. Publish failures are
// logged, the events stay queryable from the database.
func (n *Notifier) Flush(ctx context.Context) {
	box, ok := ctx.Value(outboxKey{}).(*outbox)
	if !ok {
		return
	}

	box.mu.Lock()
	packs := box.packs
	box.packs = nil
	box.mu.Unlock()

	if n.publisher == nil {
		return
	}

	for _, pack := range packs {
		if err := n.publisher.Publish(ctx, model.LotteryEventTopic, pack); err != nil {
			xcontext.Logger(ctx).Errorf("Cannot publish event of pool %s: %v", pack.Key, err)
		}
	}
}

// Discard drops the notifications collected in ctx.
func (n *Notifier) Discard(ctx context.Context) {
	if box, ok := ctx.Value(outboxKey{}).(*outbox); ok {
		box.mu.Lock()
		box.packs = nil
		box.mu.Unlock()
	}
}
