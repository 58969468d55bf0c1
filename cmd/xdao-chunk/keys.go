package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"xdao.co/dchunk/chunk"
	"xdao.co/dchunk/keys"
)

func (a *app) keygenCmd() *cobra.Command {
	var (
		outFile   string
		pubFile   string
		name      string
		symmetric bool
		force     bool
	)
	cmd := &cobra.Command{
		Use:   "keygen (--out <file> [--public <file>] | --name <name>) [--symmetric]",
		Short: "Generate an identity or a symmetric key",
		Long: `keygen writes a private key (or, with --symmetric, a symmetric key) to --out,
or saves it in the key store under --name. For identities it prints the list
id derived from the public key.`,
		Args: exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			if (outFile == "") == (name == "") {
				return usagef("keygen: exactly one of --out and --name is required")
			}
			_, f, err := a.factory()
			if err != nil {
				return err
			}
			var ks *keys.KeyStore
			if name != "" {
				if ks, err = a.keyStore(); err != nil {
					return err
				}
			}

			if symmetric {
				c, err := f.NewCryptor()
				if err != nil {
					return err
				}
				if ks != nil {
					err = ks.SaveSymmetric(name, c, force)
				} else {
					err = writeKeyFile(outFile, c.EncryptionKey(), force)
				}
				if err != nil {
					return err
				}
				a.logger.Info("generated symmetric key", zap.String("algorithm", c.Algorithm()))
				return nil
			}

			id, err := f.NewIdentity()
			if err != nil {
				return err
			}
			if ks != nil {
				err = ks.SaveIdentity(name, id, force)
			} else {
				err = writeKeyFile(outFile, id.SignKey(), force)
				if err == nil && pubFile != "" {
					err = writeKeyFile(pubFile, id.SignatureCheckKey(), force)
				}
			}
			if err != nil {
				return err
			}
			a.logger.Info("generated identity", zap.String("algorithm", id.Algorithm()))
			_, err = fmt.Fprintln(a.out, chunk.ListID(id))
			return err
		},
	}
	cmd.Flags().StringVarP(&outFile, "out", "o", "", "private or symmetric key output file")
	cmd.Flags().StringVar(&name, "name", "", "save the key in the key store under this name")
	cmd.Flags().StringVar(&pubFile, "public", "", "public key output file")
	cmd.Flags().BoolVar(&symmetric, "symmetric", false, "generate a symmetric key instead of an identity")
	cmd.Flags().BoolVar(&force, "force", false, "overwrite existing files")
	return cmd
}

func writeKeyFile(path string, b []byte, force bool) error {
	flags := os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	if !force {
		flags |= os.O_EXCL
	}
	f, err := os.OpenFile(path, flags, 0o600)
	if err != nil {
		return err
	}
	if _, err := f.Write(b); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

func (a *app) keysCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "keys",
		Short: "List the keys in the key store",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			ks, err := a.keyStore()
			if err != nil {
				return err
			}
			entries, err := ks.ListKeys()
			if err != nil {
				return err
			}
			for _, e := range entries {
				if _, err := fmt.Fprintf(a.out, "%s\t%s\n", e.Name, strings.Join(e.Kinds, ",")); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

// keyFlags are the key flags shared by seal, open, split and join. Keys
// come from files or, by name, from the key store.
type keyFlags struct {
	app       *app
	identity  string
	signer    string
	public    string
	trust     string
	symmetric string
	recipient string
}

func (k *keyFlags) bindSigning(a *app, cmd *cobra.Command) {
	k.app = a
	cmd.Flags().StringVar(&k.identity, "key-file", "", "private key file of the signer")
	cmd.Flags().StringVar(&k.signer, "signer", "", "key store name of the signer")
	cmd.Flags().StringVar(&k.symmetric, "sym-key", "", "symmetric key file to encrypt the payload with")
	cmd.Flags().StringVar(&k.recipient, "encrypt-to", "", "public key file of the recipient (hybrid envelope)")
}

func (k *keyFlags) bindOpening(a *app, cmd *cobra.Command) {
	k.app = a
	cmd.Flags().StringVar(&k.public, "pub", "", "public key file trusted to have signed the chunk")
	cmd.Flags().StringVar(&k.trust, "trust", "", "key store name trusted to have signed the chunk")
	cmd.Flags().StringVar(&k.identity, "key-file", "", "private key file of the envelope recipient")
	cmd.Flags().StringVar(&k.symmetric, "sym-key", "", "symmetric key file to decrypt the payload with")
}

func (k *keyFlags) encryptor(f *keys.Factory) (keys.Encryptor, error) {
	switch {
	case k.symmetric != "" && k.recipient != "":
		return nil, usagef("--sym-key and --encrypt-to are mutually exclusive")
	case k.symmetric != "":
		raw, err := os.ReadFile(k.symmetric)
		if err != nil {
			return nil, err
		}
		return f.CryptorFromKey(raw)
	case k.recipient != "":
		raw, err := os.ReadFile(k.recipient)
		if err != nil {
			return nil, err
		}
		checker, err := f.CheckerFromKey(raw)
		if err != nil {
			return nil, err
		}
		return keys.NewEnvelopeEncryptor(f, checker), nil
	default:
		return nil, nil
	}
}

// chunkerCrypto binds the signing flags to a sign mode.
func (k *keyFlags) chunkerCrypto(f *keys.Factory, mode string) (chunk.ChunkerCrypto, error) {
	enc, err := k.encryptor(f)
	if err != nil {
		return chunk.ChunkerCrypto{}, err
	}
	if k.identity != "" && k.signer != "" {
		return chunk.ChunkerCrypto{}, usagef("--key-file and --signer are mutually exclusive")
	}
	if k.identity == "" && k.signer == "" {
		if mode != "" && mode != "none" {
			return chunk.ChunkerCrypto{}, usagef("--mode %s requires --key-file or --signer", mode)
		}
		return chunk.PlainCrypto(enc), nil
	}
	var id keys.Identity
	if k.signer != "" {
		ks, err := k.app.keyStore()
		if err != nil {
			return chunk.ChunkerCrypto{}, err
		}
		if id, err = ks.LoadIdentity(f, k.signer); err != nil {
			return chunk.ChunkerCrypto{}, err
		}
	} else {
		raw, err := os.ReadFile(k.identity)
		if err != nil {
			return chunk.ChunkerCrypto{}, err
		}
		if id, err = f.IdentityFromKey(raw); err != nil {
			return chunk.ChunkerCrypto{}, err
		}
	}
	switch mode {
	case "", "embedded":
		return chunk.EmbeddedKeyCrypto(id, enc), nil
	case "external":
		return chunk.ExternalKeyCrypto(id, enc), nil
	case "list":
		return chunk.ListKeyCrypto(id, enc), nil
	default:
		return chunk.ChunkerCrypto{}, usagef("invalid --mode %q (want none, embedded, external or list)", mode)
	}
}

func (k *keyFlags) deChunkerCrypto(f *keys.Factory) (chunk.DeChunkerCrypto, error) {
	var checker keys.SignatureChecker
	switch {
	case k.public != "" && k.trust != "":
		return chunk.DeChunkerCrypto{}, usagef("--pub and --trust are mutually exclusive")
	case k.trust != "":
		ks, err := k.app.keyStore()
		if err != nil {
			return chunk.DeChunkerCrypto{}, err
		}
		if checker, err = ks.LoadChecker(f, k.trust); err != nil {
			return chunk.DeChunkerCrypto{}, err
		}
	case k.public != "":
		raw, err := os.ReadFile(k.public)
		if err != nil {
			return chunk.DeChunkerCrypto{}, err
		}
		if checker, err = f.CheckerFromKey(raw); err != nil {
			return chunk.DeChunkerCrypto{}, err
		}
	}
	var dec keys.Decryptor
	switch {
	case k.symmetric != "" && k.identity != "":
		return chunk.DeChunkerCrypto{}, usagef("--sym-key and --key-file are mutually exclusive")
	case k.symmetric != "":
		raw, err := os.ReadFile(k.symmetric)
		if err != nil {
			return chunk.DeChunkerCrypto{}, err
		}
		c, err := f.CryptorFromKey(raw)
		if err != nil {
			return chunk.DeChunkerCrypto{}, err
		}
		dec = c
	case k.identity != "":
		raw, err := os.ReadFile(k.identity)
		if err != nil {
			return chunk.DeChunkerCrypto{}, err
		}
		s, err := f.SignerFromKey(raw)
		if err != nil {
			return chunk.DeChunkerCrypto{}, err
		}
		dec = s
	}
	return chunk.NewDeChunkerCrypto(checker, dec), nil
}
