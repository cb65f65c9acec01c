package model

type AccessToken struct {
	Account string `json:"account"`
}

type WalletLoginRequest struct {
	Address string `json:"address" form:"address"`
}

type WalletLoginResponse struct {
	Nonce string `json:"nonce"`
	// Message is the text to sign with personal_sign.
	Message string `json:"message"`
}

type WalletVerifyRequest struct {
	Address   string `json:"address"`
	Signature string `json:"signature"`
}

type WalletVerifyResponse struct {
	AccessToken string `json:"access_token"`
	Account     string `json:"account"`
}
