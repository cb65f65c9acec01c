package entity

import "time"

// AssetBalance is one account's balance on the in-database asset ledger.
type AssetBalance struct {
	Asset     string `gorm:"primaryKey;size:64"`
	Account   string `gorm:"primaryKey;size:128"`
	Balance   int64
	UpdatedAt time.Time
}
