// Package sigutil signs personal messages and typed-data arrays and recovers their signers.
//
// A Service holds no per-call state; every method is safe for concurrent use.
// Private keys are only passed through to the crypto capability and are never logged.
package sigutil

import (
	"crypto/ecdsa"
	"fmt"
	"math/big"

	"github.com/Layr-Labs/eigenx-sigutil-go/pkg/bytecodec"
	"github.com/Layr-Labs/eigenx-sigutil-go/pkg/crypto"
	"github.com/Layr-Labs/eigenx-sigutil-go/pkg/signature"
	"github.com/Layr-Labs/eigenx-sigutil-go/pkg/typeddata"
	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"
)

// MessageParams carries a personal message and, for recovery, its signature.
type MessageParams struct {
	Data []byte `json:"data"`
	Sig  []byte `json:"sig,omitempty"`
}

// TypedMessageParams carries a typed-data array and, for recovery, its signature.
type TypedMessageParams struct {
	Data []typeddata.Entry `json:"data"`
	Sig  []byte            `json:"sig,omitempty"`
}

type Service struct {
	crypto crypto.ICrypto
	hasher *typeddata.Hasher
	logger *zap.Logger
}

func NewService(c crypto.ICrypto, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		crypto: c,
		hasher: typeddata.NewHasher(c),
		logger: logger,
	}
}

func (s *Service) Normalize(input interface{}) (string, error) {
	return bytecodec.Normalize(input)
}

func (s *Service) ConcatSignature(v uint64, r, sv *big.Int) string {
	return signature.ConcatSignature(v, r, sv)
}

// HashPersonalMessage returns the digest SignPersonal signs for data.
func (s *Service) HashPersonalMessage(data []byte) common.Hash {
	return s.crypto.HashPersonalMessage(data)
}

// SignPersonal signs params.Data under the personal message convention.
func (s *Service) SignPersonal(privateKey *ecdsa.PrivateKey, params *MessageParams) (string, error) {
	if params == nil {
		return "", fmt.Errorf("message params cannot be nil")
	}

	digest := s.crypto.HashPersonalMessage(params.Data)
	sig, err := s.crypto.Sign(digest, privateKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign personal message: %w", err)
	}

	s.logger.Debug("Signed personal message",
		zap.Int("messageLen", len(params.Data)),
		zap.String("digest", digest.Hex()),
	)
	return sig.Hex(), nil
}

// RecoverPersonalSigner returns the address that signed params.Data.
func (s *Service) RecoverPersonalSigner(params *MessageParams) (string, error) {
	publicKey, err := s.personalPublicKey(params)
	if err != nil {
		return "", err
	}
	return s.addressHex(publicKey)
}

// ExtractPublicKey returns the 64 byte public key that signed params.Data.
func (s *Service) ExtractPublicKey(params *MessageParams) (string, error) {
	publicKey, err := s.personalPublicKey(params)
	if err != nil {
		return "", err
	}
	return bytecodec.BytesToHex(publicKey), nil
}

// TypedDataHash returns the hex digest of a typed-data array.
func (s *Service) TypedDataHash(entries []typeddata.Entry) (string, error) {
	digest, err := s.hasher.Hash(entries)
	if err != nil {
		return "", err
	}
	return bytecodec.BytesToHex(digest.Bytes()), nil
}

func (s *Service) SignTypedData(privateKey *ecdsa.PrivateKey, params *TypedMessageParams) (string, error) {
	if params == nil {
		return "", fmt.Errorf("message params cannot be nil")
	}

	digest, err := s.hasher.Hash(params.Data)
	if err != nil {
		return "", err
	}

	sig, err := s.crypto.Sign(digest, privateKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign typed data: %w", err)
	}

	s.logger.Debug("Signed typed data",
		zap.Int("entries", len(params.Data)),
		zap.String("digest", digest.Hex()),
	)
	return sig.Hex(), nil
}

func (s *Service) RecoverTypedDataSigner(params *TypedMessageParams) (string, error) {
	if params == nil {
		return "", fmt.Errorf("message params cannot be nil")
	}

	digest, err := s.hasher.Hash(params.Data)
	if err != nil {
		return "", err
	}

	publicKey, err := s.recoverPublicKey(digest, params.Sig)
	if err != nil {
		return "", err
	}
	return s.addressHex(publicKey)
}

func (s *Service) personalPublicKey(params *MessageParams) ([]byte, error) {
	if params == nil {
		return nil, fmt.Errorf("message params cannot be nil")
	}
	digest := s.crypto.HashPersonalMessage(params.Data)
	return s.recoverPublicKey(digest, params.Sig)
}

func (s *Service) recoverPublicKey(digest common.Hash, sig []byte) ([]byte, error) {
	parsed, err := s.crypto.ParseSignatureBlob(sig)
	if err != nil {
		return nil, err
	}
	publicKey, err := s.crypto.Ecrecover(digest, parsed)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("Recovered public key",
		zap.String("digest", digest.Hex()),
		zap.Uint64("v", parsed.V),
	)
	return publicKey, nil
}

func (s *Service) addressHex(publicKey []byte) (string, error) {
	address, err := s.crypto.PublicToAddress(publicKey)
	if err != nil {
		return "", fmt.Errorf("failed to derive address: %w", err)
	}
	return bytecodec.BytesToHex(address.Bytes()), nil
}
