package main

import (
	"context"
	"encoding/json"
	"errors"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/questx-lab/lotterypool/internal/model"
	"github.com/questx-lab/lotterypool/pkg/kafka"
	"github.com/questx-lab/lotterypool/pkg/pubsub"
	"github.com/questx-lab/lotterypool/pkg/xcontext"
	"github.com/urfave/cli/v2"
)

func (s *srv) startWatch(cctx *cli.Context) error {
	cfg := xcontext.Configs(s.ctx).Kafka
	if !cfg.Enable {
		return errors.New("kafka is disabled")
	}

	subscriber, err := kafka.NewSubscriber(
		cctx.String("group"),
		strings.Split(cfg.Addr, ","),
		[]string{model.LotteryEventTopic},
		logEvent,
	)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(s.ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	subscriber.Subscribe(ctx)
	return subscriber.Stop(s.ctx)
}

func logEvent(ctx context.Context, pack *pubsub.Pack, t time.Time) {
	var event model.PoolEvent
	if err := json.Unmarshal(pack.Msg, &event); err != nil {
		xcontext.Logger(ctx).Warnf("Cannot decode event of pool %s: %v", pack.Key, err)
		return
	}

	xcontext.Logger(ctx).Infof("%s | pool=%s topic=%s subject=%s round=%d amount=%d",
		t.Format(time.RFC3339), event.Pool, event.Topic, event.Subject, event.RoundID, event.Amount)
}
