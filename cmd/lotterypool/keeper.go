package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/questx-lab/lotterypool/internal/domain/cron"
	"github.com/questx-lab/lotterypool/pkg/xcontext"
	"github.com/urfave/cli/v2"
)

func (s *srv) startKeeper(*cli.Context) error {
	if err := s.loadAll(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(s.ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	s.runKeeper(ctx)
	s.stopPublisher()
	return nil
}

// runKeeper blocks until ctx is done.
func (s *srv) runKeeper(ctx context.Context) {
	cronJobManager := cron.NewCronJobManager()
	cronJobManager.Register(cron.NewKeeperCronJob(
		s.registry,
		s.lotteryDomain,
		xcontext.Configs(ctx).Keeper.Interval,
	))
	cronJobManager.Start(ctx)
}
