package messageSigner

import (
	"fmt"
	"strings"

	"github.com/Layr-Labs/eigenx-sigutil-go/pkg/sigutil"
	"github.com/Layr-Labs/eigenx-sigutil-go/pkg/typeddata"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

type SignedMessage struct {
	Id        string         `json:"id"`        // Envelope id (uuid)
	Payload   hexutil.Bytes  `json:"payload"`   // Raw message bytes
	Digest    common.Hash    `json:"digest"`    // Personal message hash of payload
	Signature hexutil.Bytes  `json:"signature"` // r || s || v
	Signer    common.Address `json:"signer"`
}

type IMessageSigner interface {
	SignMessage(data []byte) (string, error)                 // Personal signature over raw bytes, hex encoded
	SignTypedData(entries []typeddata.Entry) (string, error) // Signature over the typed-data digest, hex encoded
	CreateAuthenticatedMessage(data []byte) (*SignedMessage, error)
	Address() common.Address
}

// VerifyAuthenticatedMessage checks that msg.Digest is the personal message hash of
// msg.Payload and that msg.Signature over it recovers to msg.Signer.
func VerifyAuthenticatedMessage(svc *sigutil.Service, msg *SignedMessage) error {
	if msg == nil {
		return fmt.Errorf("signed message cannot be nil")
	}

	if digest := svc.HashPersonalMessage(msg.Payload); digest != msg.Digest {
		return fmt.Errorf("digest mismatch: envelope has %s, payload hashes to %s", msg.Digest.Hex(), digest.Hex())
	}

	recovered, err := svc.RecoverPersonalSigner(&sigutil.MessageParams{
		Data: msg.Payload,
		Sig:  msg.Signature,
	})
	if err != nil {
		return fmt.Errorf("failed to recover signer: %w", err)
	}

	if !strings.EqualFold(recovered, msg.Signer.Hex()) {
		return fmt.Errorf("signer mismatch: expected %s, recovered %s", msg.Signer.Hex(), recovered)
	}
	return nil
}
