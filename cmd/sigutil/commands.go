package main

import (
	"encoding/json"
	"fmt"
	"math/big"
	"os"
	"strings"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/Layr-Labs/eigenx-sigutil-go/pkg/bytecodec"
	"github.com/Layr-Labs/eigenx-sigutil-go/pkg/config"
	"github.com/Layr-Labs/eigenx-sigutil-go/pkg/crypto"
	"github.com/Layr-Labs/eigenx-sigutil-go/pkg/logger"
	"github.com/Layr-Labs/eigenx-sigutil-go/pkg/messageSigner"
	"github.com/Layr-Labs/eigenx-sigutil-go/pkg/messageSigner/inMemoryMessageSigner"
	"github.com/Layr-Labs/eigenx-sigutil-go/pkg/signature"
	"github.com/Layr-Labs/eigenx-sigutil-go/pkg/sigutil"
	"github.com/Layr-Labs/eigenx-sigutil-go/pkg/typeddata"
)

// buildConfig reads the global flags into a SigUtilConfig
func buildConfig(c *cli.Context) *config.SigUtilConfig {
	return &config.SigUtilConfig{
		PrivateKey:    c.String("private-key"),
		MessagePrefix: c.String("message-prefix"),
		Debug:         c.Bool("debug"),
	}
}

type sigRuntime struct {
	cfg     *config.SigUtilConfig
	logger  *zap.Logger
	crypto  *crypto.EthCrypto
	service *sigutil.Service
}

// createRuntime validates the configuration and wires the signing service
func createRuntime(c *cli.Context, signing bool) (*sigRuntime, error) {
	cfg := buildConfig(c)

	validate := cfg.Validate
	if signing {
		validate = cfg.ValidateForSigning
	}
	if err := validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	l, err := logger.NewLogger(&logger.LoggerConfig{Debug: cfg.Debug})
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	prefix, err := cfg.GetMessagePrefix()
	if err != nil {
		return nil, err
	}
	ec := crypto.NewEthCrypto(prefix)

	return &sigRuntime{
		cfg:     cfg,
		logger:  l,
		crypto:  ec,
		service: sigutil.NewService(ec, l),
	}, nil
}

func (r *sigRuntime) signer() (*inMemoryMessageSigner.InMemoryMessageSigner, error) {
	return inMemoryMessageSigner.NewInMemoryMessageSignerFromHex(r.cfg.PrivateKey, r.crypto, r.logger)
}

// readInput returns the flag value, or the contents of the file when prefixed with @
func readInput(value string) ([]byte, error) {
	if strings.HasPrefix(value, "@") {
		data, err := os.ReadFile(value[1:])
		if err != nil {
			return nil, fmt.Errorf("failed to read file: %w", err)
		}
		return []byte(strings.TrimSpace(string(data))), nil
	}
	return []byte(value), nil
}

func readMessage(c *cli.Context) ([]byte, error) {
	raw, err := readInput(c.String("data"))
	if err != nil {
		return nil, err
	}
	return bytecodec.ToBuffer(string(raw))
}

func readTypedData(c *cli.Context) ([]typeddata.Entry, error) {
	raw, err := readInput(c.String("typed-data"))
	if err != nil {
		return nil, err
	}
	return typeddata.ParseEntries(raw)
}

func readSignature(c *cli.Context) ([]byte, error) {
	sig, err := signature.ParseHex(c.String("sig"))
	if err != nil {
		return nil, err
	}
	return sig.Bytes(), nil
}

func printResult(c *cli.Context, result string) {
	fmt.Fprintln(c.App.Writer, result)
}

func normalizeCommand(c *cli.Context) error {
	var input interface{} = c.String("value")
	if c.Bool("numeric") {
		n, ok := new(big.Int).SetString(c.String("value"), 10)
		if !ok {
			return fmt.Errorf("value %q is not a decimal integer", c.String("value"))
		}
		input = n
	}

	out, err := bytecodec.Normalize(input)
	if err != nil {
		return err
	}
	printResult(c, out)
	return nil
}

func concatSigCommand(c *cli.Context) error {
	r, err := hexutil.Decode(bytecodec.AddHexPrefix(c.String("r")))
	if err != nil {
		return fmt.Errorf("invalid r: %w", err)
	}
	s, err := hexutil.Decode(bytecodec.AddHexPrefix(c.String("s")))
	if err != nil {
		return fmt.Errorf("invalid s: %w", err)
	}

	printResult(c, sigutil.NewService(crypto.DefaultCrypto(), nil).ConcatSignature(
		c.Uint64("v"),
		new(big.Int).SetBytes(r),
		new(big.Int).SetBytes(s),
	))
	return nil
}

func signPersonalCommand(c *cli.Context) error {
	rt, err := createRuntime(c, true)
	if err != nil {
		return err
	}
	message, err := readMessage(c)
	if err != nil {
		return err
	}
	signer, err := rt.signer()
	if err != nil {
		return err
	}

	sig, err := signer.SignMessage(message)
	if err != nil {
		return fmt.Errorf("failed to sign message: %w", err)
	}
	printResult(c, sig)
	return nil
}

func recoverPersonalCommand(c *cli.Context) error {
	rt, params, err := personalRecoveryParams(c)
	if err != nil {
		return err
	}
	address, err := rt.service.RecoverPersonalSigner(params)
	if err != nil {
		return fmt.Errorf("failed to recover signer: %w", err)
	}
	printResult(c, address)
	return nil
}

func extractPublicKeyCommand(c *cli.Context) error {
	rt, params, err := personalRecoveryParams(c)
	if err != nil {
		return err
	}
	publicKey, err := rt.service.ExtractPublicKey(params)
	if err != nil {
		return fmt.Errorf("failed to extract public key: %w", err)
	}
	printResult(c, publicKey)
	return nil
}

func personalRecoveryParams(c *cli.Context) (*sigRuntime, *sigutil.MessageParams, error) {
	rt, err := createRuntime(c, false)
	if err != nil {
		return nil, nil, err
	}
	message, err := readMessage(c)
	if err != nil {
		return nil, nil, err
	}
	sig, err := readSignature(c)
	if err != nil {
		return nil, nil, err
	}
	return rt, &sigutil.MessageParams{Data: message, Sig: sig}, nil
}

func typedHashCommand(c *cli.Context) error {
	rt, err := createRuntime(c, false)
	if err != nil {
		return err
	}
	entries, err := readTypedData(c)
	if err != nil {
		return err
	}

	digest, err := rt.service.TypedDataHash(entries)
	if err != nil {
		return fmt.Errorf("failed to hash typed data: %w", err)
	}
	printResult(c, digest)
	return nil
}

func signTypedCommand(c *cli.Context) error {
	rt, err := createRuntime(c, true)
	if err != nil {
		return err
	}
	entries, err := readTypedData(c)
	if err != nil {
		return err
	}
	signer, err := rt.signer()
	if err != nil {
		return err
	}

	sig, err := signer.SignTypedData(entries)
	if err != nil {
		return fmt.Errorf("failed to sign typed data: %w", err)
	}
	printResult(c, sig)
	return nil
}

func recoverTypedCommand(c *cli.Context) error {
	rt, err := createRuntime(c, false)
	if err != nil {
		return err
	}
	entries, err := readTypedData(c)
	if err != nil {
		return err
	}
	sig, err := readSignature(c)
	if err != nil {
		return err
	}

	address, err := rt.service.RecoverTypedDataSigner(&sigutil.TypedMessageParams{Data: entries, Sig: sig})
	if err != nil {
		return fmt.Errorf("failed to recover signer: %w", err)
	}
	printResult(c, address)
	return nil
}

func signEnvelopeCommand(c *cli.Context) error {
	rt, err := createRuntime(c, true)
	if err != nil {
		return err
	}
	message, err := readMessage(c)
	if err != nil {
		return err
	}
	signer, err := rt.signer()
	if err != nil {
		return err
	}

	msg, err := signer.CreateAuthenticatedMessage(message)
	if err != nil {
		return err
	}
	out, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to encode envelope: %w", err)
	}
	printResult(c, string(out))
	return nil
}

func verifyEnvelopeCommand(c *cli.Context) error {
	rt, err := createRuntime(c, false)
	if err != nil {
		return err
	}
	raw, err := readInput(c.String("envelope"))
	if err != nil {
		return err
	}

	var msg messageSigner.SignedMessage
	if err := json.Unmarshal(raw, &msg); err != nil {
		return fmt.Errorf("failed to decode envelope: %w", err)
	}
	if err := messageSigner.VerifyAuthenticatedMessage(rt.service, &msg); err != nil {
		return err
	}

	rt.logger.Debug("Verified envelope", zap.String("id", msg.Id), zap.String("signer", msg.Signer.Hex()))
	printResult(c, strings.ToLower(msg.Signer.Hex()))
	return nil
}
