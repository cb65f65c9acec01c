package model

var (
	LotteryEventTopic = "LOTTERY_EVENT"
)
