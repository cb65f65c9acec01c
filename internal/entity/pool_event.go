package entity

import "github.com/questx-lab/lotterypool/pkg/enum"

type PoolEventTopic string

var (
	PoolEventEntered = enum.New(PoolEventTopic("entered"), "entered")
	PoolEventWinner  = enum.New(PoolEventTopic("winner"), "winner")
	PoolEventJackpot = enum.New(PoolEventTopic("jackpot"), "jackpot")
	PoolEventRefund  = enum.New(PoolEventTopic("refund"), "refund")
)

type PoolEvent struct {
	Base

	PoolID string `gorm:"index:idx_pool_events_pool_round;size:36"`
	Topic  PoolEventTopic
	// Subject is the player account, or empty for jackpot events.
	Subject string
	RoundID int64 `gorm:"index:idx_pool_events_pool_round"`
	Amount  int64
}
