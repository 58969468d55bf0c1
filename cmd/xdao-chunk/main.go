package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"xdao.co/dchunk/config"
	"xdao.co/dchunk/keys"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// usageError marks failures caused by bad arguments; run exits 2 for them.
type usageError struct{ msg string }

func (e usageError) Error() string { return e.msg }

func usagef(format string, args ...any) error {
	return usageError{msg: fmt.Sprintf(format, args...)}
}

// app carries the state shared by every subcommand.
type app struct {
	out        io.Writer
	errOut     io.Writer
	configFile string
	keystore   string
	verbose    bool
	logger     *zap.Logger
}

func run(args []string, out io.Writer, errOut io.Writer) int {
	a := &app{out: out, errOut: errOut, logger: zap.NewNop()}
	root := a.rootCmd()
	root.SetArgs(args)
	root.SetOut(out)
	root.SetErr(errOut)

	err := root.Execute()
	_ = a.logger.Sync()
	if err == nil {
		return 0
	}
	fmt.Fprintf(errOut, "Error: %v\n", err)
	var ue usageError
	if errors.As(err, &ue) {
		return 2
	}
	return 1
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "xdao-chunk",
		Short: "Build, sign, encrypt and inspect content-addressed chunks",
		Long: `xdao-chunk reads and writes the versioned binary chunk format.

Keys are stored as tagged key bytes (algorithm tag + key), chunks as their
raw encoding. Algorithms and chunk capacity come from --config (YAML).`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			a.logger = newLogger(a.errOut, a.verbose)
		},
	}
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError{msg: err.Error()}
	})
	root.PersistentFlags().StringVarP(&a.configFile, "config", "c", "", "config file path")
	root.PersistentFlags().StringVar(&a.keystore, "keystore", "", "key store directory (default ~/.xdao/chunk-keys)")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "enable verbose logging")

	root.AddCommand(
		a.keygenCmd(),
		a.keysCmd(),
		a.sealCmd(),
		a.openCmd(),
		a.inspectCmd(),
		a.splitCmd(),
		a.joinCmd(),
	)
	return root
}

// newLogger logs to w at info level, or debug when verbose.
func newLogger(w io.Writer, verbose bool) *zap.Logger {
	level := zapcore.InfoLevel
	if verbose {
		level = zapcore.DebugLevel
	}
	encCfg := zap.NewDevelopmentEncoderConfig()
	encCfg.TimeKey = ""
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), zapcore.AddSync(w), level)
	return zap.New(core)
}

func exactArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) != n {
			return usagef("%s: expected %d argument(s), got %d", cmd.CommandPath(), n, len(args))
		}
		return nil
	}
}

func (a *app) loadConfig() (config.Config, error) {
	if a.configFile == "" {
		return config.Default(), nil
	}
	return config.LoadFile(a.configFile)
}

func (a *app) keyStore() (*keys.KeyStore, error) {
	return keys.CreateKeyStore(a.keystore)
}

func (a *app) factory() (config.Config, *keys.Factory, error) {
	cfg, err := a.loadConfig()
	if err != nil {
		return cfg, nil, err
	}
	f, err := cfg.Factory()
	return cfg, f, err
}
