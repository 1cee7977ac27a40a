package config

import (
	"fmt"
	"strings"

	"k8s.io/apimachinery/pkg/util/validation/field"
)

// Environment variable names for the sigutil CLI
const (
	EnvSigUtilPrivateKey    = "SIGUTIL_PRIVATE_KEY"
	EnvSigUtilMessagePrefix = "SIGUTIL_MESSAGE_PREFIX"
	EnvSigUtilDebug         = "SIGUTIL_DEBUG"
)

// MessagePrefixName selects the personal message domain tag.
type MessagePrefixName string

func (m MessagePrefixName) String() string {
	return string(m)
}

const (
	MessagePrefixEthereum MessagePrefixName = "ethereum"
	MessagePrefixSophon   MessagePrefixName = "sophon"
)

var MessagePrefixes = map[MessagePrefixName]string{
	MessagePrefixEthereum: "\x19Ethereum Signed Message:\n",
	MessagePrefixSophon:   "\x19Sophon Signed Message:\n",
}

// ResolveMessagePrefix maps a preset name to its tag. Any other non-empty value
// must already start with the 0x19 byte and is used literally.
func ResolveMessagePrefix(name string) (string, error) {
	if name == "" {
		return MessagePrefixes[MessagePrefixEthereum], nil
	}
	if prefix, ok := MessagePrefixes[MessagePrefixName(strings.ToLower(name))]; ok {
		return prefix, nil
	}
	if strings.HasPrefix(name, "\x19") {
		return name, nil
	}
	return "", fmt.Errorf("unsupported message prefix %q. Supported: %s", name, GetSupportedMessagePrefixesString())
}

// GetSupportedMessagePrefixesString returns the preset names for CLI help
func GetSupportedMessagePrefixesString() string {
	return fmt.Sprintf("%s, %s", MessagePrefixEthereum, MessagePrefixSophon)
}

// SigUtilConfig represents the configuration of the sigutil CLI
type SigUtilConfig struct {
	// Hex encoded secp256k1 key, only needed by signing commands
	PrivateKey string `json:"private_key" yaml:"privateKey"`

	// Preset name or literal personal message prefix
	MessagePrefix string `json:"message_prefix" yaml:"messagePrefix"`

	Debug bool `json:"debug" yaml:"debug"`
}

// Validate checks the fields that are always required
func (c *SigUtilConfig) Validate() error {
	return c.validate(false).ToAggregate()
}

// ValidateForSigning additionally requires a private key
func (c *SigUtilConfig) ValidateForSigning() error {
	return c.validate(true).ToAggregate()
}

func (c *SigUtilConfig) validate(signing bool) field.ErrorList {
	var allErrors field.ErrorList
	if _, err := ResolveMessagePrefix(c.MessagePrefix); err != nil {
		allErrors = append(allErrors, field.Invalid(field.NewPath("messagePrefix"), c.MessagePrefix, err.Error()))
	}
	if c.PrivateKey == "" {
		if signing {
			allErrors = append(allErrors, field.Required(field.NewPath("privateKey"), "privateKey is required for signing"))
		}
	} else if err := validatePrivateKey(c.PrivateKey); err != nil {
		allErrors = append(allErrors, field.Invalid(field.NewPath("privateKey"), "<redacted>", err.Error()))
	}
	return allErrors
}

// GetMessagePrefix returns the resolved personal message prefix
func (c *SigUtilConfig) GetMessagePrefix() (string, error) {
	return ResolveMessagePrefix(c.MessagePrefix)
}

func validatePrivateKey(key string) error {
	if !strings.HasPrefix(key, "0x") {
		key = "0x" + key
	}
	if len(key) != 66 { // 0x + 64 hex chars
		return fmt.Errorf("private key must be 32 bytes (64 hex chars), got %d chars", len(key)-2)
	}
	for _, r := range key[2:] {
		if !strings.ContainsRune("0123456789abcdefABCDEF", r) {
			return fmt.Errorf("private key must be hex encoded")
		}
	}
	return nil
}
