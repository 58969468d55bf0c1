package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ipfs/go-cid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"xdao.co/dchunk/addr"
	"xdao.co/dchunk/chunk"
	"xdao.co/dchunk/storage"
)

// chunkExt names chunk files written by split and read by join.
const chunkExt = ".chunk"

// keyFor builds the chunk key. List-signed chunks default to the list id.
func keyFor(id string, timestamp int64, cc chunk.ChunkerCrypto) (addr.Key, error) {
	aid := addr.NewId(id)
	if aid.IsZero() {
		listID, ok := cc.ListID()
		if !ok {
			return addr.Key{}, usagef("--id is required unless --mode list")
		}
		aid = listID
	}
	if timestamp == 0 {
		return addr.Untimed(aid), nil
	}
	return addr.NewKey(aid, timestamp)
}

// openKeyID is the Id a chunk is verified under: --id, or the list id of
// --pub for list-signed chunks.
func openKeyID(id string, dc chunk.DeChunkerCrypto) addr.Key {
	if id == "" && dc.Checker() != nil {
		return addr.Untimed(chunk.ListID(dc.Checker()))
	}
	return addr.Untimed(addr.NewId(id))
}

func writeOutput(a *app, path string, b []byte) error {
	if path == "" || path == "-" {
		_, err := a.out.Write(b)
		return err
	}
	return os.WriteFile(path, b, 0o644)
}

func (a *app) sealCmd() *cobra.Command {
	var (
		kf        keyFlags
		mode      string
		id        string
		timestamp int64
		outFile   string
		refs      []string
	)
	cmd := &cobra.Command{
		Use:   "seal <payload-file>",
		Short: "Seal a payload into a single version 1 chunk",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, f, err := a.factory()
			if err != nil {
				return err
			}
			cc, err := kf.chunkerCrypto(f, mode)
			if err != nil {
				return err
			}
			key, err := keyFor(id, timestamp, cc)
			if err != nil {
				return err
			}
			payload, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			var refBytes [][]byte
			for _, r := range refs {
				c, err := cid.Decode(r)
				if err != nil {
					return usagef("invalid --ref %q: %v", r, err)
				}
				refBytes = append(refBytes, c.Bytes())
			}
			c, err := chunk.Seal(key, payload, refBytes, cc)
			if err != nil {
				return err
			}
			a.logger.Info("sealed chunk",
				zap.Stringer("key", key),
				zap.Stringer("mode", cc.Mode()),
				zap.Int("bytes", len(c.Data)))
			return writeOutput(a, outFile, c.Data)
		},
	}
	kf.bindSigning(a, cmd)
	cmd.Flags().StringVar(&mode, "mode", "", "sign mode: none, embedded (default with --key-file), external, list")
	cmd.Flags().StringVar(&id, "id", "", "chunk id (defaults to the list id with --mode list)")
	cmd.Flags().Int64Var(&timestamp, "timestamp", 0, "chunk timestamp (0 = untimed)")
	cmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (default stdout)")
	cmd.Flags().StringSliceVar(&refs, "ref", nil, "CID of a referenced chunk (repeatable)")
	return cmd
}

func (a *app) openCmd() *cobra.Command {
	var (
		kf      keyFlags
		id      string
		outFile string
	)
	cmd := &cobra.Command{
		Use:   "open <chunk-file>",
		Short: "Verify a chunk and print its (decrypted) payload",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, f, err := a.factory()
			if err != nil {
				return err
			}
			dc, err := kf.deChunkerCrypto(f)
			if err != nil {
				return err
			}
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			c := chunk.DataChunk{Key: openKeyID(id, dc), Data: data}
			opened, err := chunk.NewOpener(f, a.logger).Open(c, dc)
			if err != nil {
				return err
			}
			if opened.Signed {
				a.logger.Info("signature verified", zap.Stringer("mode", opened.Mode), zap.String("algorithm", opened.Checker.Algorithm()))
			} else {
				a.logger.Warn("chunk is not signed")
			}
			return writeOutput(a, outFile, opened.Payload)
		},
	}
	kf.bindOpening(a, cmd)
	cmd.Flags().StringVar(&id, "id", "", "id the chunk is addressed by (defaults to the list id of --pub)")
	cmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (default stdout)")
	return cmd
}

func (a *app) inspectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <chunk-file>",
		Short: "Describe a chunk's version, control blocks and payload size",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			d, err := chunk.Describe(data)
			if err != nil {
				return err
			}
			enc := yaml.NewEncoder(a.out)
			enc.SetIndent(2)
			if err := enc.Encode(d); err != nil {
				return err
			}
			return enc.Close()
		},
	}
}

func (a *app) splitCmd() *cobra.Command {
	var (
		kf        keyFlags
		mode      string
		id        string
		timestamp int64
		dir       string
		size      int
	)
	cmd := &cobra.Command{
		Use:   "split --dir <dir> <payload-file>",
		Short: "Split a payload into a chain of version 2 chunks",
		Long: `split writes every chunk of the chain to <dir>/<cid>.chunk and prints the
CID of the top chunk.`,
		Args: exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if dir == "" {
				return usagef("split: --dir is required")
			}
			cfg, f, err := a.factory()
			if err != nil {
				return err
			}
			if size == 0 {
				size = cfg.Chunk.Size
			}
			cc, err := kf.chunkerCrypto(f, mode)
			if err != nil {
				return err
			}
			key, err := keyFor(id, timestamp, cc)
			if err != nil {
				return err
			}
			payload, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}

			store := storage.NewMemory()
			ch, err := chunk.NewChainer(store, size, cc, a.logger)
			if err != nil {
				return err
			}
			top, err := ch.Split(key, payload)
			if err != nil {
				return err
			}
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return err
			}
			for _, c := range store.CIDs() {
				b, err := store.Get(c)
				if err != nil {
					return err
				}
				if err := os.WriteFile(filepath.Join(dir, c.String()+chunkExt), b, 0o644); err != nil {
					return err
				}
			}
			topID, err := top.CID()
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(a.out, topID)
			return err
		},
	}
	kf.bindSigning(a, cmd)
	cmd.Flags().StringVar(&mode, "mode", "", "sign mode: none, embedded (default with --key-file), external, list")
	cmd.Flags().StringVar(&id, "id", "", "chunk id (defaults to the list id with --mode list)")
	cmd.Flags().Int64Var(&timestamp, "timestamp", 0, "chunk timestamp (0 = untimed)")
	cmd.Flags().StringVar(&dir, "dir", "", "output directory")
	cmd.Flags().IntVar(&size, "chunk-size", 0, "chunk capacity in bytes (default from config)")
	return cmd
}

func (a *app) joinCmd() *cobra.Command {
	var (
		kf      keyFlags
		id      string
		dir     string
		outFile string
	)
	cmd := &cobra.Command{
		Use:   "join --dir <dir> <top-cid>",
		Short: "Reassemble the payload of a chunk chain written by split",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if dir == "" {
				return usagef("join: --dir is required")
			}
			_, f, err := a.factory()
			if err != nil {
				return err
			}
			dc, err := kf.deChunkerCrypto(f)
			if err != nil {
				return err
			}
			store, err := loadChunkDir(dir)
			if err != nil {
				return err
			}
			topID, err := cid.Decode(args[0])
			if err != nil {
				return usagef("invalid top CID %q: %v", args[0], err)
			}
			data, err := store.Get(topID)
			if err != nil {
				return fmt.Errorf("top chunk %s: %w", topID, err)
			}
			top := chunk.DataChunk{Key: openKeyID(id, dc), Data: data}
			payload, err := chunk.Join(store, chunk.NewOpener(f, a.logger), top, dc)
			if err != nil {
				return err
			}
			return writeOutput(a, outFile, payload)
		},
	}
	kf.bindOpening(a, cmd)
	cmd.Flags().StringVar(&id, "id", "", "id the chain is addressed by (defaults to the list id of --pub)")
	cmd.Flags().StringVar(&dir, "dir", "", "directory of .chunk files")
	cmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (default stdout)")
	return cmd
}

// loadChunkDir reads every *.chunk file into a memory CAS, rejecting files
// whose name is not the CID of their content.
func loadChunkDir(dir string) (*storage.Memory, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	store := storage.NewMemory()
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, chunkExt) {
			continue
		}
		b, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return nil, err
		}
		got, err := store.Put(b)
		if err != nil {
			return nil, err
		}
		if want := strings.TrimSuffix(name, chunkExt); got.String() != want {
			return nil, fmt.Errorf("%s: %w (content is %s)", name, storage.ErrCIDMismatch, got)
		}
	}
	return store, nil
}
