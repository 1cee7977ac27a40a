package signature

import (
	"encoding/hex"
	"math/big"

	"github.com/Layr-Labs/eigenx-sigutil-go/pkg/bytecodec"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/pkg/errors"
)

const (
	// ScalarLength is the width of r and s in the wire format.
	ScalarLength = 32
	// Length is the size of a serialized signature with a single byte v.
	Length = 2*ScalarLength + 1

	// RecoveryIdOffset is added to the raw recovery id when signing.
	RecoveryIdOffset = 27
)

var (
	ErrInvalidSignatureLength = errors.New("invalid signature length")
	ErrInvalidSignatureHex    = errors.New("invalid signature hex")
)

// Signature is an ECDSA (r, s, v) triple.
type Signature struct {
	R *big.Int
	S *big.Int
	V uint64
}

// Bytes renders r‖s‖v with r and s fixed at 32 bytes and v in its shortest form.
func (s *Signature) Bytes() []byte {
	out := make([]byte, 0, Length)
	out = append(out, scalarBytes(s.R)...)
	out = append(out, scalarBytes(s.S)...)
	return append(out, vBytes(s.V)...)
}

func (s *Signature) Hex() string {
	return ConcatSignature(s.V, s.R, s.S)
}

// ConcatSignature packs an (r, s, v) triple into its 0x-prefixed hex wire form.
// r and s may carry a two's-complement sign from the signing library; it is removed first.
func ConcatSignature(v uint64, r, s *big.Int) string {
	rStr := bytecodec.PadToWidth(unsigned(r).Text(16), 2*ScalarLength)
	sStr := bytecodec.PadToWidth(unsigned(s).Text(16), 2*ScalarLength)
	vStr := hex.EncodeToString(vBytes(v))
	return bytecodec.AddHexPrefix(rStr + sStr + vStr)
}

// Parse splits a 65 byte blob into r, s and v. A v of 0 or 1 is lifted to 27 or 28.
func Parse(blob []byte) (*Signature, error) {
	if len(blob) != Length {
		return nil, errors.Wrapf(ErrInvalidSignatureLength, "expected %d bytes, got %d", Length, len(blob))
	}

	v := uint64(blob[2*ScalarLength])
	if v < RecoveryIdOffset {
		v += RecoveryIdOffset
	}

	return &Signature{
		R: new(big.Int).SetBytes(blob[:ScalarLength]),
		S: new(big.Int).SetBytes(blob[ScalarLength : 2*ScalarLength]),
		V: v,
	}, nil
}

// ParseHex decodes a hex encoded signature, with or without the 0x prefix, and parses it.
func ParseHex(sig string) (*Signature, error) {
	blob, err := hexutil.Decode(bytecodec.AddHexPrefix(sig))
	if err != nil {
		return nil, errors.Wrapf(ErrInvalidSignatureHex, "%v", err)
	}
	return Parse(blob)
}

func unsigned(x *big.Int) *big.Int {
	if x == nil {
		return new(big.Int)
	}
	if x.Sign() < 0 {
		return bytecodec.ToUnsigned(x)
	}
	return bytecodec.ToUnsigned(bytecodec.FromSigned(x.Bytes()))
}

func scalarBytes(x *big.Int) []byte {
	out := make([]byte, ScalarLength)
	return unsigned(x).FillBytes(out)
}

func vBytes(v uint64) []byte {
	b := new(big.Int).SetUint64(v).Bytes()
	if len(b) == 0 {
		return []byte{0}
	}
	return b
}
