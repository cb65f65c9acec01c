package model

type InitializePoolRequest struct {
	PoolHandle    string `json:"pool_handle"`
	Admin         string `json:"admin"`
	Asset         string `json:"asset"`
	Account       string `json:"account"`
	YieldSource   string `json:"yield_source"`
	YieldRate     int64  `json:"yield_rate"`
	Market        string `json:"market"`
	RoundDuration int64  `json:"round_duration"`
	MinDeposit    int64  `json:"min_deposit"`
}

type InitializePoolResponse struct {
	Pool  Pool  `json:"pool"`
	Round Round `json:"round"`
}

type EnterRequest struct {
	PoolHandle string `json:"pool_handle"`
	Player     string `json:"player"`
	Amount     int64  `json:"amount"`
}

type EnterResponse struct {
	Entry PlayerEntry `json:"entry"`
}

type SettleRoundRequest struct {
	PoolHandle string `json:"pool_handle"`
}

const (
	OutcomeWon      = "won"
	OutcomeRollover = "rollover"
)

type SettleRoundResponse struct {
	// Outcome is won or rollover. Both are successful settlements.
	Outcome string `json:"outcome"`
	RoundID int64  `json:"round_id"`
	// Winner and Prize are set for the won outcome.
	Winner string `json:"winner,omitempty"`
	Prize  int64  `json:"prize,omitempty"`
	// RolledAmount seeds NextRoundID for the rollover outcome.
	RolledAmount int64 `json:"rolled_amount,omitempty"`
	NextRoundID  int64 `json:"next_round_id"`
}

type ClaimRefundRequest struct {
	PoolHandle string `json:"pool_handle"`
	Player     string `json:"player"`
	RoundID    int64  `json:"round_id"`
}

type ClaimRefundResponse struct {
	Amount int64 `json:"amount"`
}

type RenewEmptyRoundRequest struct {
	PoolHandle string `json:"pool_handle"`
}

type RenewEmptyRoundResponse struct {
	Round Round `json:"round"`
}

type GetCurrentRoundRequest struct {
	PoolHandle string `json:"pool_handle" form:"pool_handle"`
}

type GetCurrentRoundResponse struct {
	Round Round `json:"round"`
}

type GetRoundRequest struct {
	PoolHandle string `json:"pool_handle" form:"pool_handle"`
	RoundID    int64  `json:"round_id" form:"round_id"`
}

type GetRoundResponse struct {
	Round Round `json:"round"`
}

type GetPlayerEntryRequest struct {
	PoolHandle string `json:"pool_handle" form:"pool_handle"`
	RoundID    int64  `json:"round_id" form:"round_id"`
	Player     string `json:"player" form:"player"`
}

type GetPlayerEntryResponse struct {
	Entry PlayerEntry `json:"entry"`
}

type GetPlayersRequest struct {
	PoolHandle string `json:"pool_handle" form:"pool_handle"`
	RoundID    int64  `json:"round_id" form:"round_id"`
}

type GetPlayersResponse struct {
	Players []string `json:"players"`
}

type GetStatsRequest struct {
	PoolHandle string `json:"pool_handle" form:"pool_handle"`
}

type GetStatsResponse struct {
	Stats Stats `json:"stats"`
}

type GetEventsRequest struct {
	PoolHandle string `json:"pool_handle" form:"pool_handle"`
	RoundID    int64  `json:"round_id" form:"round_id"`
	Offset     int    `json:"offset" form:"offset"`
	Limit      int    `json:"limit" form:"limit"`
}

type GetEventsResponse struct {
	Events []PoolEvent `json:"events"`
}
