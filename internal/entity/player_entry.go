package entity

type PlayerEntry struct {
	Base

	PoolID  string `gorm:"uniqueIndex:idx_player_entries_pool_round_player;size:36"`
	RoundID int64  `gorm:"uniqueIndex:idx_player_entries_pool_round_player"`
	Player  string `gorm:"uniqueIndex:idx_player_entries_pool_round_player;size:128"`

	// Position is the 0-based order in which the player entered the round.
	Position   int64
	Deposit    int64
	HasClaimed bool
}
