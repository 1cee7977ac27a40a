package crypto

import (
	cryptoEcdsa "crypto/ecdsa"
	"fmt"
	"math/big"
	"testing"

	"github.com/Layr-Labs/crypto-libs/pkg/ecdsa"
	"github.com/Layr-Labs/eigenx-sigutil-go/pkg/signature"
	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common"
	ethcrypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testPrivateKey = "4af1bceebf7f3634ec3cff8a2c38e51178d5d4ce585c52d6043e5e2cc3418bb0"

func Test_EthCrypto(t *testing.T) {
	c := DefaultCrypto()
	key, err := ethcrypto.HexToECDSA(testPrivateKey)
	require.NoError(t, err)
	address := ethcrypto.PubkeyToAddress(key.PublicKey)

	t.Run("Should hash personal messages like go-ethereum", func(t *testing.T) {
		msg := []byte("hello world")
		assert.Equal(t, accounts.TextHash(msg), c.HashPersonalMessage(msg).Bytes())
	})

	t.Run("Should honour a custom message prefix", func(t *testing.T) {
		custom := NewEthCrypto("\x19Sophon Signed Message:\n")
		msg := []byte("hello")
		expected := ethcrypto.Keccak256Hash([]byte(fmt.Sprintf("\x19Sophon Signed Message:\n%d", len(msg))), msg)
		assert.Equal(t, expected, custom.HashPersonalMessage(msg))
		assert.NotEqual(t, c.HashPersonalMessage(msg), custom.HashPersonalMessage(msg))
	})

	t.Run("Should default an empty prefix", func(t *testing.T) {
		assert.Equal(t, EthereumMessagePrefix, NewEthCrypto("").MessagePrefix())
	})

	t.Run("Should sign and recover", func(t *testing.T) {
		digest := ethcrypto.Keccak256Hash([]byte("digest"))

		sig, err := c.Sign(digest, key)
		require.NoError(t, err)
		assert.Contains(t, []uint64{27, 28}, sig.V)

		pub, err := c.Ecrecover(digest, sig)
		require.NoError(t, err)
		require.Len(t, pub, 64)
		assert.Equal(t, ethcrypto.FromECDSAPub(&key.PublicKey)[1:], pub)

		recovered, err := c.PublicToAddress(pub)
		require.NoError(t, err)
		assert.Equal(t, address, recovered)
	})

	t.Run("Should produce the same blob as go-ethereum and crypto-libs", func(t *testing.T) {
		digest := ethcrypto.Keccak256Hash([]byte("interop"))
		sig, err := c.Sign(digest, key)
		require.NoError(t, err)

		raw, err := ethcrypto.Sign(digest.Bytes(), key)
		require.NoError(t, err)
		raw[64] += signature.RecoveryIdOffset
		assert.Equal(t, raw, sig.Bytes())

		libKey, err := ecdsa.NewPrivateKeyFromHexString(testPrivateKey)
		require.NoError(t, err)
		packed, err := libKey.SignAndPack(digest)
		require.NoError(t, err)
		assert.Equal(t, packed, sig.Bytes())
	})

	t.Run("Should reject nil keys", func(t *testing.T) {
		_, err := c.Sign(common.Hash{}, nil)
		require.Error(t, err)

		_, err = c.Sign(common.Hash{}, &cryptoEcdsa.PrivateKey{})
		require.Error(t, err)
	})

	t.Run("Should reject chain adjusted v values", func(t *testing.T) {
		digest := ethcrypto.Keccak256Hash([]byte("digest"))
		sig, err := c.Sign(digest, key)
		require.NoError(t, err)

		sig.V = 37
		_, err = c.Ecrecover(digest, sig)
		require.ErrorIs(t, err, ErrRecovery)

		var recErr *RecoveryError
		require.ErrorAs(t, err, &recErr)
		assert.Contains(t, recErr.Reason, "invalid signature v value")
	})

	t.Run("Should fail recovery for invalid curve points", func(t *testing.T) {
		sig := &signature.Signature{R: new(big.Int), S: new(big.Int), V: 27}
		_, err := c.Ecrecover(common.Hash{}, sig)
		require.ErrorIs(t, err, ErrRecovery)

		_, err = c.Ecrecover(common.Hash{}, nil)
		require.ErrorIs(t, err, ErrRecovery)
	})

	t.Run("Should derive addresses from prefixed keys", func(t *testing.T) {
		recovered, err := c.PublicToAddress(ethcrypto.FromECDSAPub(&key.PublicKey))
		require.NoError(t, err)
		assert.Equal(t, address, recovered)

		_, err = c.PublicToAddress(make([]byte, 33))
		require.Error(t, err)
	})

	t.Run("Should wrap malformed blobs as recovery errors", func(t *testing.T) {
		_, err := c.ParseSignatureBlob(make([]byte, 10))
		require.ErrorIs(t, err, ErrRecovery)
		require.ErrorIs(t, err, signature.ErrInvalidSignatureLength)
	})

	t.Run("Should hash typed values", func(t *testing.T) {
		h, err := c.TypedHash([]string{"string"}, []interface{}{"hi"})
		require.NoError(t, err)
		assert.Equal(t, ethcrypto.Keccak256Hash([]byte("hi")), h)
	})
}
