package signature

import (
	"math/big"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	rHex = "9242685bf161793cc25603c231bc2f568eb630ea16aa137d2664ac8038825608"
	sHex = "4f8ae3bd7535248d0bd448298cc2e2071e56992d0774dc340c368ae950852ada"
)

func Test_ConcatSignature(t *testing.T) {
	r := new(big.Int).SetBytes(common.FromHex(rHex))
	s := new(big.Int).SetBytes(common.FromHex(sHex))

	t.Run("Should lay out r, s and v", func(t *testing.T) {
		sig := ConcatSignature(27, r, s)

		require.True(t, strings.HasPrefix(sig, "0x"))
		body := sig[2:]
		require.Len(t, body, 130)
		assert.Equal(t, rHex, body[:64])
		assert.Equal(t, sHex, body[64:128])
		assert.Equal(t, "1b", body[128:])
	})

	t.Run("Should zero pad short scalars", func(t *testing.T) {
		sig := ConcatSignature(28, big.NewInt(1), big.NewInt(0xabc))
		body := sig[2:]
		assert.Equal(t, strings.Repeat("0", 63)+"1", body[:64])
		assert.Equal(t, strings.Repeat("0", 61)+"abc", body[64:128])
		assert.Equal(t, "1c", body[128:])
	})

	t.Run("Should undo a two's complement sign", func(t *testing.T) {
		negative := new(big.Int).Sub(r, new(big.Int).Lsh(big.NewInt(1), 256))
		require.Equal(t, -1, negative.Sign())

		assert.Equal(t, ConcatSignature(27, r, s), ConcatSignature(27, negative, s))
	})

	t.Run("Should keep v minimal", func(t *testing.T) {
		sig := ConcatSignature(0x0100, big.NewInt(1), big.NewInt(1))
		assert.True(t, strings.HasSuffix(sig, "0100"))
		assert.Len(t, sig, 2+128+4)

		sig = ConcatSignature(0, big.NewInt(1), big.NewInt(1))
		assert.True(t, strings.HasSuffix(sig, "00"))
		assert.Len(t, sig, 2+130)
	})

	t.Run("Should agree with Bytes and Hex", func(t *testing.T) {
		sig := &Signature{R: r, S: s, V: 28}
		assert.Equal(t, ConcatSignature(28, r, s), sig.Hex())
		assert.Equal(t, sig.Hex(), "0x"+common.Bytes2Hex(sig.Bytes()))
		assert.Len(t, sig.Bytes(), Length)
	})
}

func Test_Parse(t *testing.T) {
	r := new(big.Int).SetBytes(common.FromHex(rHex))
	s := new(big.Int).SetBytes(common.FromHex(sHex))

	t.Run("Should split a 65 byte blob", func(t *testing.T) {
		blob := (&Signature{R: r, S: s, V: 28}).Bytes()

		sig, err := Parse(blob)
		require.NoError(t, err)
		assert.Equal(t, r, sig.R)
		assert.Equal(t, s, sig.S)
		assert.Equal(t, uint64(28), sig.V)
	})

	t.Run("Should lift raw recovery ids", func(t *testing.T) {
		blob := (&Signature{R: r, S: s, V: 1}).Bytes()

		sig, err := Parse(blob)
		require.NoError(t, err)
		assert.Equal(t, uint64(28), sig.V)
	})

	t.Run("Should parse hex", func(t *testing.T) {
		sig, err := ParseHex(ConcatSignature(27, r, s))
		require.NoError(t, err)
		assert.Equal(t, uint64(27), sig.V)
		assert.Equal(t, r, sig.R)
	})

	t.Run("Should reject malformed hex instead of reading it as text", func(t *testing.T) {
		valid := ConcatSignature(27, r, s)

		_, err := ParseHex("0x" + strings.Repeat("zz", Length))
		require.ErrorIs(t, err, ErrInvalidSignatureHex)

		_, err = ParseHex(valid[:len(valid)-1])
		require.ErrorIs(t, err, ErrInvalidSignatureHex)

		_, err = ParseHex("not a signature")
		require.ErrorIs(t, err, ErrInvalidSignatureHex)

		sig, err := ParseHex(strings.TrimPrefix(valid, "0x"))
		require.NoError(t, err)
		assert.Equal(t, uint64(27), sig.V)
	})

	t.Run("Should reject wrong lengths", func(t *testing.T) {
		_, err := Parse(make([]byte, 64))
		require.ErrorIs(t, err, ErrInvalidSignatureLength)

		_, err = Parse(make([]byte, 66))
		require.ErrorIs(t, err, ErrInvalidSignatureLength)
	})
}

func FuzzSignatureRoundTrip(f *testing.F) {
	f.Add(common.FromHex(rHex), common.FromHex(sHex), uint8(27))
	f.Add([]byte{1}, []byte{}, uint8(28))

	f.Fuzz(func(t *testing.T, rb []byte, sb []byte, v uint8) {
		if len(rb) > ScalarLength || len(sb) > ScalarLength || v < RecoveryIdOffset {
			return
		}
		in := &Signature{R: new(big.Int).SetBytes(rb), S: new(big.Int).SetBytes(sb), V: uint64(v)}

		out, err := ParseHex(in.Hex())
		require.NoError(t, err)
		require.Zero(t, in.R.Cmp(out.R))
		require.Zero(t, in.S.Cmp(out.S))
		require.Equal(t, in.V, out.V)
	})
}
