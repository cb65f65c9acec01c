package main

import (
	"encoding/json"
	"fmt"

	"github.com/questx-lab/lotterypool/internal/model"
	"github.com/questx-lab/lotterypool/pkg/xcontext"
	"github.com/urfave/cli/v2"
)

// initializePool runs initialize on behalf of --admin. The operator of the
// command is trusted with the admin's identity.
func (s *srv) initializePool(cctx *cli.Context) error {
	if err := s.loadAll(); err != nil {
		return err
	}

	ctx := xcontext.WithRequestUserID(s.ctx, cctx.String("admin"))
	resp, err := s.lotteryDomain.InitializePool(ctx, &model.InitializePoolRequest{
		PoolHandle:    cctx.String("handle"),
		Admin:         cctx.String("admin"),
		Asset:         cctx.String("asset"),
		Account:       cctx.String("account"),
		YieldSource:   cctx.String("yield-source"),
		YieldRate:     cctx.Int64("yield-rate"),
		Market:        cctx.String("market"),
		RoundDuration: cctx.Int64("round-duration"),
		MinDeposit:    cctx.Int64("min-deposit"),
	})
	if err != nil {
		return err
	}

	return printJSON(resp)
}

func (s *srv) mint(cctx *cli.Context) error {
	if err := s.loadAll(); err != nil {
		return err
	}

	ctx := xcontext.WithRequestUserID(s.ctx, xcontext.Configs(s.ctx).Asset.Admin)
	resp, err := s.assetDomain.Mint(ctx, &model.MintRequest{
		Asset:  cctx.String("asset"),
		To:     cctx.String("to"),
		Amount: cctx.Int64("amount"),
	})
	if err != nil {
		return err
	}

	return printJSON(resp)
}

func printJSON(v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}

	fmt.Println(string(b))
	return nil
}
