package crypto

import (
	cryptoEcdsa "crypto/ecdsa"
	"fmt"
	"strconv"

	"github.com/Layr-Labs/crypto-libs/pkg/ecdsa"
	"github.com/Layr-Labs/eigenx-sigutil-go/pkg/signature"
	"github.com/Layr-Labs/eigenx-sigutil-go/pkg/solidity"
	"github.com/ethereum/go-ethereum/common"
	ethcrypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"
)

// EthereumMessagePrefix is the personal message tag used when none is configured.
const EthereumMessagePrefix = "\x19Ethereum Signed Message:\n"

const (
	publicKeyLength         = 64
	prefixedPublicKeyLength = 65
	uncompressedPrefix      = 0x04
)

var ErrRecovery = errors.New("signature recovery failed")

// RecoveryError reports a malformed signature blob, an invalid curve point or a
// digest/signature mismatch.
type RecoveryError struct {
	Reason string
	Err    error
}

func (e *RecoveryError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", ErrRecovery.Error(), e.Reason, e.Err)
	}
	return fmt.Sprintf("%s: %s", ErrRecovery.Error(), e.Reason)
}

func (e *RecoveryError) Unwrap() error {
	return e.Err
}

func (e *RecoveryError) Is(target error) bool {
	return target == ErrRecovery
}

// ICrypto is the set of elliptic-curve and hashing primitives the signing code is built on.
type ICrypto interface {
	// HashPersonalMessage hashes message under the length-prefixed personal message convention.
	HashPersonalMessage(message []byte) common.Hash

	// Sign signs digest with key. V is returned as recovery id + 27.
	Sign(digest common.Hash, key *cryptoEcdsa.PrivateKey) (*signature.Signature, error)

	// Ecrecover returns the 64 byte uncompressed public key (without the 0x04 tag)
	// that produced sig over digest.
	Ecrecover(digest common.Hash, sig *signature.Signature) ([]byte, error)

	// PublicToAddress derives the account address of a 64 or 65 byte public key.
	PublicToAddress(publicKey []byte) (common.Address, error)

	// TypedHash packs values according to types and hashes the result.
	TypedHash(types []string, values []interface{}) (common.Hash, error)

	// ParseSignatureBlob splits a serialized signature into r, s and v.
	ParseSignatureBlob(blob []byte) (*signature.Signature, error)
}

// EthCrypto implements ICrypto on top of go-ethereum's secp256k1 and Keccak-256.
type EthCrypto struct {
	messagePrefix string
}

func NewEthCrypto(messagePrefix string) *EthCrypto {
	if messagePrefix == "" {
		messagePrefix = EthereumMessagePrefix
	}
	return &EthCrypto{messagePrefix: messagePrefix}
}

func DefaultCrypto() *EthCrypto {
	return NewEthCrypto(EthereumMessagePrefix)
}

func (ec *EthCrypto) MessagePrefix() string {
	return ec.messagePrefix
}

func (ec *EthCrypto) HashPersonalMessage(message []byte) common.Hash {
	prefix := ec.messagePrefix + strconv.Itoa(len(message))
	return ethcrypto.Keccak256Hash([]byte(prefix), message)
}

func (ec *EthCrypto) Sign(digest common.Hash, key *cryptoEcdsa.PrivateKey) (*signature.Signature, error) {
	if key == nil || key.D == nil {
		return nil, fmt.Errorf("private key cannot be nil")
	}

	signingKey := &ecdsa.PrivateKey{D: key.D}
	sig, err := signingKey.Sign(digest.Bytes())
	if err != nil {
		return nil, fmt.Errorf("failed to sign digest: %w", err)
	}

	return &signature.Signature{R: sig.R, S: sig.S, V: uint64(sig.V)}, nil
}

func (ec *EthCrypto) Ecrecover(digest common.Hash, sig *signature.Signature) ([]byte, error) {
	if sig == nil || sig.R == nil || sig.S == nil {
		return nil, &RecoveryError{Reason: "incomplete signature"}
	}
	if sig.V != signature.RecoveryIdOffset && sig.V != signature.RecoveryIdOffset+1 {
		return nil, &RecoveryError{Reason: fmt.Sprintf("invalid signature v value %d", sig.V)}
	}
	if sig.R.BitLen() > 256 || sig.S.BitLen() > 256 {
		return nil, &RecoveryError{Reason: "signature scalar exceeds 32 bytes"}
	}

	raw := make([]byte, signature.Length)
	sig.R.FillBytes(raw[:signature.ScalarLength])
	sig.S.FillBytes(raw[signature.ScalarLength : 2*signature.ScalarLength])
	raw[2*signature.ScalarLength] = byte(sig.V - signature.RecoveryIdOffset)

	pub, err := ethcrypto.Ecrecover(digest.Bytes(), raw)
	if err != nil {
		return nil, &RecoveryError{Reason: "ecrecover", Err: err}
	}
	if len(pub) != prefixedPublicKeyLength || pub[0] != uncompressedPrefix {
		return nil, &RecoveryError{Reason: fmt.Sprintf("unexpected public key length: %d", len(pub))}
	}
	return pub[1:], nil
}

func (ec *EthCrypto) PublicToAddress(publicKey []byte) (common.Address, error) {
	switch {
	case len(publicKey) == prefixedPublicKeyLength && publicKey[0] == uncompressedPrefix:
		publicKey = publicKey[1:]
	case len(publicKey) == publicKeyLength:
	default:
		return common.Address{}, fmt.Errorf("unexpected public key length: %d", len(publicKey))
	}
	return common.BytesToAddress(ethcrypto.Keccak256(publicKey)[12:]), nil
}

func (ec *EthCrypto) TypedHash(types []string, values []interface{}) (common.Hash, error) {
	return solidity.SHA3(types, values)
}

func (ec *EthCrypto) ParseSignatureBlob(blob []byte) (*signature.Signature, error) {
	sig, err := signature.Parse(blob)
	if err != nil {
		return nil, &RecoveryError{Reason: "malformed signature", Err: err}
	}
	return sig, nil
}
