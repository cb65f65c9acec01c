package model

type Pool struct {
	Handle        string `json:"handle"`
	Admin         string `json:"admin"`
	Asset         string `json:"asset"`
	Account       string `json:"account"`
	YieldSource   string `json:"yield_source"`
	YieldRate     int64  `json:"yield_rate"`
	Market        string `json:"market,omitempty"`
	RoundDuration int64  `json:"round_duration"`
	MinDeposit    int64  `json:"min_deposit"`
	CurrentRound  int64  `json:"current_round"`
}

type Round struct {
	ID            int64  `json:"id"`
	StartTime     string `json:"start_time"`
	EndTime       string `json:"end_time"`
	TotalDeposits int64  `json:"total_deposits"`
	TotalYield    int64  `json:"total_yield"`
	Seed          int64  `json:"seed"`
	Winner        string `json:"winner,omitempty"`
	IsActive      bool   `json:"is_active"`
	RolledOver    bool   `json:"rolled_over"`
	PlayerCount   int64  `json:"player_count"`
}

type PlayerEntry struct {
	Player     string `json:"player"`
	RoundID    int64  `json:"round_id"`
	Position   int64  `json:"position"`
	Deposit    int64  `json:"deposit"`
	HasClaimed bool   `json:"has_claimed"`
}

type Stats struct {
	TotalRounds     int64 `json:"total_rounds"`
	TotalVolume     int64 `json:"total_volume"`
	TotalPlayers    int64 `json:"total_players"`
	TotalPrizesPaid int64 `json:"total_prizes_paid"`
}

type PoolEvent struct {
	ID        string `json:"id"`
	Pool      string `json:"pool"`
	Topic     string `json:"topic"`
	Subject   string `json:"subject,omitempty"`
	RoundID   int64  `json:"round_id"`
	Amount    int64  `json:"amount"`
	CreatedAt string `json:"created_at"`
}
