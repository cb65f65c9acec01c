package entity

import (
	"time"

	"github.com/questx-lab/lotterypool/pkg/enum"
)

type YieldSource string

var (
	YieldSourceNone         = enum.New(YieldSource("none"), "none")
	YieldSourceRateTimeMock = enum.New(YieldSource("rate_time_mock"), "rate_time_mock")
	YieldSourceExternalPool = enum.New(YieldSource("external_pool"), "external_pool")
)

// Pool is the configuration and global counters of one lottery instance.
type Pool struct {
	Base

	Handle string `gorm:"uniqueIndex;size:64"`
	Admin  string
	Asset  string
	// Account is the pool's own account on Asset. Deposits are held there.
	Account string

	YieldSource YieldSource
	// YieldRate is an annual rate in basis points, used by rate_time_mock.
	YieldRate int64
	// Market is the capital market address, used by external_pool.
	Market string

	// RoundDuration is in seconds.
	RoundDuration int64
	MinDeposit    int64

	CurrentRound int64
	TotalVolume  int64
	TotalPlayers int64
}

func (p *Pool) RoundDurationTime() time.Duration {
	return time.Duration(p.RoundDuration) * time.Second
}
