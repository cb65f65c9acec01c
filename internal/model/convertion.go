package model

import (
	"time"

	"github.com/questx-lab/lotterypool/internal/entity"
	"github.com/questx-lab/lotterypool/pkg/enum"
)

const DefaultTimeLayout string = time.RFC3339Nano

func ConvertPool(pool *entity.Pool) Pool {
	if pool == nil {
		return Pool{}
	}

	return Pool{
		Handle:        pool.Handle,
		Admin:         pool.Admin,
		Asset:         pool.Asset,
		Account:       pool.Account,
		YieldSource:   enum.ToString(pool.YieldSource),
		YieldRate:     pool.YieldRate,
		Market:        pool.Market,
		RoundDuration: pool.RoundDuration,
		MinDeposit:    pool.MinDeposit,
		CurrentRound:  pool.CurrentRound,
	}
}

func ConvertRound(round *entity.Round) Round {
	if round == nil {
		return Round{}
	}

	return Round{
		ID:            round.ID,
		StartTime:     round.StartTime.UTC().Format(DefaultTimeLayout),
		EndTime:       round.EndTime.UTC().Format(DefaultTimeLayout),
		TotalDeposits: round.TotalDeposits,
		TotalYield:    round.TotalYield,
		Seed:          round.Seed,
		Winner:        round.Winner.String,
		IsActive:      round.IsActive,
		RolledOver:    round.RolledOver,
		PlayerCount:   round.PlayerCount,
	}
}

func ConvertPlayerEntry(e *entity.PlayerEntry) PlayerEntry {
	if e == nil {
		return PlayerEntry{}
	}

	return PlayerEntry{
		Player:     e.Player,
		RoundID:    e.RoundID,
		Position:   e.Position,
		Deposit:    e.Deposit,
		HasClaimed: e.HasClaimed,
	}
}

func ConvertPoolEvent(pool *entity.Pool, e *entity.PoolEvent) PoolEvent {
	if e == nil {
		return PoolEvent{}
	}

	createdAt := e.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	return PoolEvent{
		ID:        e.ID,
		Pool:      pool.Handle,
		Topic:     enum.ToString(e.Topic),
		Subject:   e.Subject,
		RoundID:   e.RoundID,
		Amount:    e.Amount,
		CreatedAt: createdAt.UTC().Format(DefaultTimeLayout),
	}
}
