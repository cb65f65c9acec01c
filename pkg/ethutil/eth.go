package ethutil

import (
	"bytes"
	"crypto/ecdsa"
	"crypto/sha256"
	"errors"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	ethcrypto "github.com/ethereum/go-ethereum/crypto"
)

var ErrInvalidSignature = errors.New("invalid signature")

// GeneratePrivateKey derives a key deterministically from secret and nonce.
func GeneratePrivateKey(secret, nonce []byte) (*ecdsa.PrivateKey, error) {
	seed := sha256.Sum256(append(secret, nonce...))
	randomSeed := bytes.Repeat(seed[:], 2)
	reader := bytes.NewReader(randomSeed)
	return ecdsa.GenerateKey(ethcrypto.S256(), reader)
}

// SignText signs text the way wallets do for personal_sign. The recovery id
// of the returned signature is 27 or 28.
func SignText(key *ecdsa.PrivateKey, text string) (string, error) {
	signature, err := ethcrypto.Sign(accounts.TextHash([]byte(text)), key)
	if err != nil {
		return "", err
	}

	signature[ethcrypto.RecoveryIDOffset] += 27
	return hexutil.Encode(signature), nil
}

// RecoverTextSigner returns the address which signed text with personal_sign.
func RecoverTextSigner(text, hexSignature string) (common.Address, error) {
	signature, err := hexutil.Decode(hexSignature)
	if err != nil {
		return common.Address{}, err
	}

	if len(signature) != ethcrypto.SignatureLength {
		return common.Address{}, ErrInvalidSignature
	}

	// Transform yellow paper V from 27/28 to 0/1.
	if signature[ethcrypto.RecoveryIDOffset] == 27 || signature[ethcrypto.RecoveryIDOffset] == 28 {
		signature[ethcrypto.RecoveryIDOffset] -= 27
	}

	recovered, err := ethcrypto.SigToPub(accounts.TextHash([]byte(text)), signature)
	if err != nil {
		return common.Address{}, err
	}

	return ethcrypto.PubkeyToAddress(*recovered), nil
}

// NormalizeAccount returns the checksum form of a hex address. Other account
// names are returned unchanged.
func NormalizeAccount(account string) string {
	if common.IsHexAddress(account) {
		return common.HexToAddress(account).Hex()
	}

	return account
}
