package testutil

import (
	"crypto/ecdsa"
	"testing"

	"github.com/Layr-Labs/eigenx-sigutil-go/pkg/logger"
	"github.com/Layr-Labs/eigenx-sigutil-go/pkg/typeddata"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"go.uber.org/zap"
)

// Well known development keys. Never use them for anything of value.
const (
	TestPrivateKeyHex       = "0x4af1bceebf7f3634ec3cff8a2c38e51178d5d4ce585c52d6043e5e2cc3418bb0"
	SecondTestPrivateKeyHex = "0xac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80"
)

func CreateTestPrivateKey(t *testing.T) *ecdsa.PrivateKey {
	return mustKey(t, TestPrivateKeyHex)
}

func CreateSecondTestPrivateKey(t *testing.T) *ecdsa.PrivateKey {
	return mustKey(t, SecondTestPrivateKeyHex)
}

// AddressOf derives the account address independently of the signing code under test.
func AddressOf(key *ecdsa.PrivateKey) common.Address {
	return crypto.PubkeyToAddress(key.PublicKey)
}

// CreateCanonicalTypedData returns the single entry fixture used by the end-to-end tests.
func CreateCanonicalTypedData() []typeddata.Entry {
	return []typeddata.Entry{
		{Type: "string", Name: "message", Value: "hi"},
	}
}

// CreateMixedTypedData covers every value family the packer supports.
func CreateMixedTypedData() []typeddata.Entry {
	return []typeddata.Entry{
		{Type: "string", Name: "message", Value: "Hi, Alice!"},
		{Type: "uint256", Name: "amount", Value: "1000000000000000000"},
		{Type: "int8", Name: "delta", Value: -3},
		{Type: "bool", Name: "approved", Value: true},
		{Type: "address", Name: "recipient", Value: "0x1234567890123456789012345678901234567890"},
		{Type: "bytes", Name: "payload", Value: "0xdeadbeef"},
		{Type: "bytes32", Name: "nonce", Value: common.HexToHash("0x01").Bytes()},
		{Type: "uint16[]", Name: "ids", Value: []interface{}{1, 2, 3}},
	}
}

func CreateTestLogger(t *testing.T) *zap.Logger {
	l, err := logger.NewLogger(&logger.LoggerConfig{Debug: true})
	if err != nil {
		t.Fatalf("Failed to create logger: %v", err)
	}
	return l
}

func mustKey(t *testing.T, hexKey string) *ecdsa.PrivateKey {
	key, err := crypto.HexToECDSA(hexKey[2:])
	if err != nil {
		t.Fatalf("Failed to parse test private key: %v", err)
	}
	return key
}
