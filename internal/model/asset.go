package model

type MintRequest struct {
	Asset  string `json:"asset"`
	To     string `json:"to"`
	Amount int64  `json:"amount"`
}

type MintResponse struct {
	Balance int64 `json:"balance"`
}

type GetBalanceRequest struct {
	Asset   string `json:"asset" form:"asset"`
	Account string `json:"account" form:"account"`
}

type GetBalanceResponse struct {
	Balance int64 `json:"balance"`
}
