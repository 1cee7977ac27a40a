package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validKey = "0x4af1bceebf7f3634ec3cff8a2c38e51178d5d4ce585c52d6043e5e2cc3418bb0"

func Test_ResolveMessagePrefix(t *testing.T) {
	t.Run("Should default to the ethereum prefix", func(t *testing.T) {
		prefix, err := ResolveMessagePrefix("")
		require.NoError(t, err)
		assert.Equal(t, "\x19Ethereum Signed Message:\n", prefix)
	})

	t.Run("Should resolve presets case insensitively", func(t *testing.T) {
		prefix, err := ResolveMessagePrefix("Sophon")
		require.NoError(t, err)
		assert.Equal(t, "\x19Sophon Signed Message:\n", prefix)
	})

	t.Run("Should accept literal prefixes", func(t *testing.T) {
		prefix, err := ResolveMessagePrefix("\x19Custom Signed Message:\n")
		require.NoError(t, err)
		assert.Equal(t, "\x19Custom Signed Message:\n", prefix)
	})

	t.Run("Should reject unknown names", func(t *testing.T) {
		_, err := ResolveMessagePrefix("bitcoin")
		require.Error(t, err)
		assert.Contains(t, err.Error(), GetSupportedMessagePrefixesString())
	})
}

func Test_SigUtilConfig(t *testing.T) {
	t.Run("Should validate an empty config", func(t *testing.T) {
		cfg := &SigUtilConfig{}
		require.NoError(t, cfg.Validate())

		prefix, err := cfg.GetMessagePrefix()
		require.NoError(t, err)
		assert.Equal(t, MessagePrefixes[MessagePrefixEthereum], prefix)
	})

	t.Run("Should require a key for signing", func(t *testing.T) {
		cfg := &SigUtilConfig{}
		err := cfg.ValidateForSigning()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "privateKey")
	})

	t.Run("Should accept keys with or without prefix", func(t *testing.T) {
		require.NoError(t, (&SigUtilConfig{PrivateKey: validKey}).ValidateForSigning())
		require.NoError(t, (&SigUtilConfig{PrivateKey: validKey[2:]}).ValidateForSigning())
	})

	t.Run("Should reject malformed keys without echoing them", func(t *testing.T) {
		cfg := &SigUtilConfig{PrivateKey: "0x1234"}
		err := cfg.Validate()
		require.Error(t, err)
		assert.NotContains(t, err.Error(), "0x1234")

		cfg.PrivateKey = "0x" + "zz" + validKey[4:]
		require.Error(t, cfg.Validate())
	})

	t.Run("Should aggregate every error", func(t *testing.T) {
		cfg := &SigUtilConfig{PrivateKey: "0x12", MessagePrefix: "nope"}
		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "messagePrefix")
		assert.Contains(t, err.Error(), "privateKey")
	})
}
