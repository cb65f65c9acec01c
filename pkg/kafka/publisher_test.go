package kafka

import (
	"context"
	"errors"
	"testing"

	"github.com/Shopify/sarama"
	"github.com/Shopify/sarama/mocks"
	"github.com/questx-lab/lotterypool/pkg/pubsub"
	"github.com/stretchr/testify/require"
)

func TestPublisher_Publish(t *testing.T) {
	config := sarama.NewConfig()
	config.Producer.Return.Successes = true

	producer := mocks.NewSyncProducer(t, config)
	producer.ExpectSendMessageWithCheckerFunctionAndSucceed(func(val []byte) error {
		if string(val) != `{"topic":"entered"}` {
			return errors.New("unexpected message")
		}
		return nil
	})
	producer.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)

	p := &publisher{clientID: "test", producer: producer}

	err := p.Publish(context.Background(), "LOTTERY_EVENT", &pubsub.Pack{
		Key: []byte("small"),
		Msg: []byte(`{"topic":"entered"}`),
	})
	require.NoError(t, err)

	err = p.Publish(context.Background(), "LOTTERY_EVENT", &pubsub.Pack{Key: []byte("small")})
	require.ErrorIs(t, err, sarama.ErrOutOfBrokers)

	require.NoError(t, p.Stop(context.Background()))
}
