package main

import (
	"log"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/Layr-Labs/eigenx-sigutil-go/pkg/config"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp() *cli.App {
	dataFlag := &cli.StringFlag{
		Name:     "data",
		Usage:    "Message as 0x-prefixed hex or UTF-8 text, or @path to read it from a file",
		Required: true,
	}
	sigFlag := &cli.StringFlag{
		Name:     "sig",
		Usage:    "65 byte signature as hex",
		Required: true,
	}
	typedDataFlag := &cli.StringFlag{
		Name:     "typed-data",
		Usage:    `JSON array of {"type","name","value"} entries, or @path to read it from a file`,
		Required: true,
	}

	return &cli.App{
		Name:  "sigutil",
		Usage: "Sign and recover personal messages and typed data",
		Description: `Message signing utilities for account-based chain clients.

This tool can:
- Sign free-form personal messages and recover their signer or public key
- Hash, sign and recover schema-tagged typed data arrays
- Normalize hex input and assemble r, s, v into the 65 byte signature format`,
		Version: "1.0.0",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "private-key",
				Usage:   "Hex encoded secp256k1 private key used by signing commands",
				EnvVars: []string{config.EnvSigUtilPrivateKey},
			},
			&cli.StringFlag{
				Name:    "message-prefix",
				Usage:   "Personal message prefix: " + config.GetSupportedMessagePrefixesString() + " or a literal tag",
				Value:   config.MessagePrefixEthereum.String(),
				EnvVars: []string{config.EnvSigUtilMessagePrefix},
			},
			&cli.BoolFlag{
				Name:    "debug",
				Usage:   "Enable debug logging",
				EnvVars: []string{config.EnvSigUtilDebug},
			},
		},
		Commands: []*cli.Command{
			{
				Name:  "normalize",
				Usage: "Render a hex string or a decimal integer as lower-case 0x hex",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "value",
						Usage:    "Hex string, or decimal integer when --numeric is set",
						Required: true,
					},
					&cli.BoolFlag{
						Name:  "numeric",
						Usage: "Interpret value as a non-negative decimal integer",
					},
				},
				Action: normalizeCommand,
			},
			{
				Name:  "concat-sig",
				Usage: "Assemble r, s and v into a 65 byte signature",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "r", Usage: "r as hex", Required: true},
					&cli.StringFlag{Name: "s", Usage: "s as hex", Required: true},
					&cli.Uint64Flag{Name: "v", Usage: "recovery value, usually 27 or 28", Required: true},
				},
				Action: concatSigCommand,
			},
			{
				Name:   "sign-personal",
				Usage:  "Sign a personal message",
				Flags:  []cli.Flag{dataFlag},
				Action: signPersonalCommand,
			},
			{
				Name:   "recover-personal",
				Usage:  "Recover the address that signed a personal message",
				Flags:  []cli.Flag{dataFlag, sigFlag},
				Action: recoverPersonalCommand,
			},
			{
				Name:   "extract-pubkey",
				Usage:  "Recover the public key that signed a personal message",
				Flags:  []cli.Flag{dataFlag, sigFlag},
				Action: extractPublicKeyCommand,
			},
			{
				Name:   "typed-hash",
				Usage:  "Compute the digest of a typed data array",
				Flags:  []cli.Flag{typedDataFlag},
				Action: typedHashCommand,
			},
			{
				Name:   "sign-typed",
				Usage:  "Sign a typed data array",
				Flags:  []cli.Flag{typedDataFlag},
				Action: signTypedCommand,
			},
			{
				Name:   "recover-typed",
				Usage:  "Recover the address that signed a typed data array",
				Flags:  []cli.Flag{typedDataFlag, sigFlag},
				Action: recoverTypedCommand,
			},
			{
				Name:   "sign-envelope",
				Usage:  "Sign a personal message and print a JSON envelope with id, digest and signer",
				Flags:  []cli.Flag{dataFlag},
				Action: signEnvelopeCommand,
			},
			{
				Name:  "verify-envelope",
				Usage: "Verify a JSON envelope produced by sign-envelope",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "envelope",
						Usage:    "Envelope JSON, or @path to read it from a file",
						Required: true,
					},
				},
				Action: verifyEnvelopeCommand,
			},
		},
	}
}
