package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/questx-lab/lotterypool/internal/middleware"
	"github.com/questx-lab/lotterypool/pkg/router"
	"github.com/questx-lab/lotterypool/pkg/xcontext"
	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"
)

func (s *srv) startApi(cctx *cli.Context) error {
	if err := s.loadAll(); err != nil {
		return err
	}
	s.loadRouter()

	ctx, stop := signal.NotifyContext(s.ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := xcontext.Configs(s.ctx).ApiServer
	httpServer := &http.Server{
		Addr:    fmt.Sprintf("%s:%s", cfg.Host, cfg.Port),
		Handler: s.router.Handler(cfg.AllowOrigins),
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		xcontext.Logger(ctx).Infof("Starting server on %s", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}

		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})

	if cctx.Bool("keeper") {
		g.Go(func() error {
			s.runKeeper(ctx)
			return nil
		})
	}

	err := g.Wait()
	s.stopPublisher()
	xcontext.Logger(s.ctx).Infof("Server stopped")
	return err
}

func (s *srv) loadRouter() {
	s.router = router.New(s.ctx)
	s.router.Before(middleware.Logger())
	s.router.Before(middleware.NewAuthVerifier(s.tokenEngine).Middleware())

	// Public APIs.
	{
		router.POST(s.router, "/settleRound", s.lotteryDomain.SettleRound)
		router.POST(s.router, "/renewEmptyRound", s.lotteryDomain.RenewEmptyRound)
		router.GET(s.router, "/getCurrentRound", s.lotteryDomain.GetCurrentRound)
		router.GET(s.router, "/getRound", s.lotteryDomain.GetRound)
		router.GET(s.router, "/getPlayerEntry", s.lotteryDomain.GetPlayerEntry)
		router.GET(s.router, "/getPlayers", s.lotteryDomain.GetPlayers)
		router.GET(s.router, "/getStats", s.lotteryDomain.GetStats)
		router.GET(s.router, "/getEvents", s.lotteryDomain.GetEvents)
		router.GET(s.router, "/getBalance", s.assetDomain.GetBalance)
	}

	// Wallet authentication.
	walletRouter := s.router.Group("/wallet")
	{
		router.GET(walletRouter, "/login", s.walletAuthDomain.Login)
		router.POST(walletRouter, "/verify", s.walletAuthDomain.Verify)
	}

	// These APIs act on behalf of the caller of the access token.
	authRouter := s.router.Group("")
	authRouter.Before(middleware.Authenticate())
	{
		router.POST(authRouter, "/initializePool", s.lotteryDomain.InitializePool)
		router.POST(authRouter, "/enter", s.lotteryDomain.Enter)
		router.POST(authRouter, "/claimRefund", s.lotteryDomain.ClaimRefund)
		router.POST(authRouter, "/mint", s.assetDomain.Mint)
	}
}

func (s *srv) stopPublisher() {
	stopper, ok := s.publisher.(interface{ Stop(context.Context) error })
	if !ok {
		return
	}

	if err := stopper.Stop(s.ctx); err != nil {
		xcontext.Logger(s.ctx).Warnf("Cannot stop publisher: %v", err)
	}
}
