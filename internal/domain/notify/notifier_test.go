package notify

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/questx-lab/lotterypool/internal/entity"
	"github.com/questx-lab/lotterypool/internal/model"
	"github.com/questx-lab/lotterypool/internal/repository"
	"github.com/questx-lab/lotterypool/pkg/pubsub"
	"github.com/questx-lab/lotterypool/pkg/testutil"
	"github.com/stretchr/testify/require"
)

func TestNotifier_EmitAndFlush(t *testing.T) {
	ctx := testutil.MockContext()
	publisher := &testutil.MockPublisher{}
	notifier := NewNotifier(repository.NewPoolEventRepository(), publisher)

	pool, err := testutil.SamplePool(ctx, &entity.Pool{Handle: "small"})
	require.NoError(t, err)

	ctx = WithOutbox(ctx)
	require.NoError(t, notifier.Emit(ctx, &pool, entity.PoolEventEntered, "alice", 1, 100))
	require.NoError(t, notifier.Emit(ctx, &pool, entity.PoolEventJackpot, "", 2, 7))
	require.Empty(t, publisher.Sent())

	notifier.Flush(ctx)
	sent := publisher.Sent()
	require.Len(t, sent, 2)
	require.Equal(t, model.LotteryEventTopic, sent[0].Topic)
	require.Equal(t, []byte("small"), sent[0].Pack.Key)

	var event model.PoolEvent
	require.NoError(t, json.Unmarshal(sent[0].Pack.Msg, &event))
	require.Equal(t, "entered", event.Topic)
	require.Equal(t, "alice", event.Subject)
	require.Equal(t, int64(100), event.Amount)

	// Flushing twice publishes nothing new.
	notifier.Flush(ctx)
	require.Len(t, publisher.Sent(), 2)

	events, err := repository.NewPoolEventRepository().GetList(ctx,
		repository.PoolEventFilter{PoolID: pool.ID, Limit: 10})
	require.NoError(t, err)
	require.Len(t, events, 2)
}

func TestNotifier_Discard(t *testing.T) {
	ctx := WithOutbox(testutil.MockContext())
	publisher := &testutil.MockPublisher{}
	notifier := NewNotifier(repository.NewPoolEventRepository(), publisher)

	pool := entity.Pool{Base: entity.Base{ID: "pool"}, Handle: "small"}
	require.NoError(t, notifier.Emit(ctx, &pool, entity.PoolEventRefund, "bob", 1, 200))
	notifier.Discard(ctx)
	notifier.Flush(ctx)
	require.Empty(t, publisher.Sent())
}

func TestNotifier_PublishFailureIsLogged(t *testing.T) {
	ctx := WithOutbox(testutil.MockContext())
	publisher := &testutil.MockPublisher{
		PublishFunc: func(context.Context, string, *pubsub.Pack) error {
			return errors.New("broker down")
		},
	}
	notifier := NewNotifier(repository.NewPoolEventRepository(), publisher)

	pool := entity.Pool{Base: entity.Base{ID: "pool"}, Handle: "small"}
	require.NoError(t, notifier.Emit(ctx, &pool, entity.PoolEventWinner, "carol", 1, 130))
	notifier.Flush(ctx)
	require.Empty(t, publisher.Sent())
}
