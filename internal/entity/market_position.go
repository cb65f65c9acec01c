package entity

import "time"

// MarketPosition is what Owner has supplied to the in-database capital market.
type MarketPosition struct {
	Market     string `gorm:"primaryKey;size:64"`
	Asset      string `gorm:"primaryKey;size:64"`
	Owner      string `gorm:"primaryKey;size:128"`
	Supplied   int64
	Collateral int64
	UpdatedAt  time.Time
}
