package entity

import (
	"database/sql"
	"time"
)

type Round struct {
	PoolID    string `gorm:"primaryKey;size:36"`
	ID        int64  `gorm:"primaryKey;autoIncrement:false"`
	CreatedAt time.Time
	UpdatedAt time.Time

	StartTime time.Time
	EndTime   time.Time

	// TotalDeposits includes Seed.
	TotalDeposits int64
	TotalYield    int64
	// Seed is the jackpot rolled over from the previous round.
	Seed int64

	Winner      sql.NullString
	IsActive    bool
	RolledOver  bool
	PlayerCount int64
}

// Principal is the sum of the deposits of the round's players.
func (r *Round) Principal() int64 {
	return r.TotalDeposits - r.Seed
}
