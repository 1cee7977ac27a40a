package inMemoryMessageSigner

import (
	cryptoEcdsa "crypto/ecdsa"
	"fmt"

	"github.com/Layr-Labs/crypto-libs/pkg/ecdsa"
	"github.com/Layr-Labs/eigenx-sigutil-go/pkg/crypto"
	"github.com/Layr-Labs/eigenx-sigutil-go/pkg/messageSigner"
	"github.com/Layr-Labs/eigenx-sigutil-go/pkg/sigutil"
	"github.com/Layr-Labs/eigenx-sigutil-go/pkg/typeddata"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	ethcrypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type InMemoryMessageSigner struct {
	logger     *zap.Logger
	privateKey *cryptoEcdsa.PrivateKey
	address    common.Address
	service    *sigutil.Service
	crypto     crypto.ICrypto
}

func NewInMemoryMessageSignerFromHex(
	privateKeyHex string,
	c crypto.ICrypto,
	logger *zap.Logger,
) (*InMemoryMessageSigner, error) {
	key, err := ecdsa.NewPrivateKeyFromHexString(privateKeyHex)
	if err != nil {
		return nil, fmt.Errorf("error loading private key: %w", err)
	}
	signingKey, err := ethcrypto.ToECDSA(key.Bytes())
	if err != nil {
		return nil, fmt.Errorf("error loading private key: %w", err)
	}

	return NewInMemoryMessageSigner(signingKey, c, logger), nil
}

func NewInMemoryMessageSigner(
	key *cryptoEcdsa.PrivateKey,
	c crypto.ICrypto,
	logger *zap.Logger,
) *InMemoryMessageSigner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InMemoryMessageSigner{
		logger:     logger,
		privateKey: key,
		address:    ethcrypto.PubkeyToAddress(key.PublicKey),
		service:    sigutil.NewService(c, logger),
		crypto:     c,
	}
}

func (ims *InMemoryMessageSigner) Address() common.Address {
	return ims.address
}

func (ims *InMemoryMessageSigner) Service() *sigutil.Service {
	return ims.service
}

// data is the raw message bytes to sign
func (ims *InMemoryMessageSigner) SignMessage(data []byte) (string, error) {
	return ims.service.SignPersonal(ims.privateKey, &sigutil.MessageParams{Data: data})
}

func (ims *InMemoryMessageSigner) SignTypedData(entries []typeddata.Entry) (string, error) {
	return ims.service.SignTypedData(ims.privateKey, &sigutil.TypedMessageParams{Data: entries})
}

func (ims *InMemoryMessageSigner) CreateAuthenticatedMessage(data []byte) (*messageSigner.SignedMessage, error) {
	sigHex, err := ims.SignMessage(data)
	if err != nil {
		return nil, fmt.Errorf("failed to sign authenticated message: %w", err)
	}

	sig, err := hexutil.Decode(sigHex)
	if err != nil {
		return nil, fmt.Errorf("failed to decode signature: %w", err)
	}

	msg := &messageSigner.SignedMessage{
		Id:        uuid.New().String(),
		Payload:   common.CopyBytes(data),
		Digest:    ims.crypto.HashPersonalMessage(data),
		Signature: sig,
		Signer:    ims.address,
	}

	ims.logger.Debug("Created authenticated message",
		zap.String("id", msg.Id),
		zap.String("signer", msg.Signer.Hex()),
		zap.Int("payloadLen", len(data)),
	)
	return msg, nil
}
