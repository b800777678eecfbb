package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const Version = "1.0.0"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// cliFlags are shared by the root command and seal
type cliFlags struct {
	out        string
	key        string
	keyLengths []int
	path       string
	envFile    string
	verbose    bool
	wrap       bool
	raw        bool
}

func newRootCmd() *cobra.Command {
	var (
		flags  cliFlags
		cfg    *Config
		logger = zap.NewNop()
	)

	root := &cobra.Command{
		Use:   "ppdecrypt <response.json|->",
		Short: "Decrypt the pageProps.a blob of a JSON response",
		Long: `ppdecrypt - Decrypt the encrypted pageProps.a string embedded in a JSON response

The blob is split into base64 ciphertext and trailing key material, the key
is SHA-256(key material), and the ciphertext is AES-256-CTR with a 16-byte
IV prefix used as the initial counter. The plaintext must be JSON.

KEY MATERIAL:
    Guessed from the blob by default. Set PPDECRYPT_KEY, pass --key, or use
    --key - to enter it interactively.`,
		Example: `    # Decrypt a saved response to STDOUT
    ppdecrypt meta.json

    # Write the result to a file
    ppdecrypt meta.json -o decrypted.json

    # Blob somewhere else in the document
    ppdecrypt --path 'data.0.a' response.json

    # Build a test fixture and decrypt it again
    ppdecrypt seal --wrap payload.json | ppdecrypt -`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			cfg, err = loadConfig(cmd.Context(), flags.envFile, nil)
			if err != nil {
				return err
			}
			logger, err = newLogger(cfg.LogLevel, flags.verbose, cmd.ErrOrStderr())
			return err
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = logger.Sync()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := Options{
				Input:      args[0],
				Output:     flags.out,
				Key:        cfg.Key,
				KeyLengths: cfg.KeyLengths,
				BlobPath:   cfg.BlobPath,
			}
			if cmd.Flags().Changed("key") {
				opts.Key = flags.key
			}
			if cmd.Flags().Changed("key-lengths") {
				opts.KeyLengths = flags.keyLengths
			}
			if cmd.Flags().Changed("path") {
				opts.BlobPath = flags.path
			}

			var err error
			if opts.Key, err = resolveKey(opts.Key); err != nil {
				return err
			}
			return decrypt(opts, cmd.InOrStdin(), cmd.OutOrStdout(), logger)
		},
	}

	root.PersistentFlags().StringVar(&flags.envFile, "env-file", "", "load environment variables from this file first")
	root.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "log split attempts and sizes to STDERR")
	root.PersistentFlags().StringVarP(&flags.out, "out", "o", "", "write the result to a file instead of STDOUT")
	root.PersistentFlags().StringVarP(&flags.key, "key", "k", "", "key material to use instead of guessing (\"-\" prompts)")

	root.Flags().IntSliceVar(&flags.keyLengths, "key-lengths", DefaultKeyLengths, "key material lengths to try, in order")
	root.Flags().StringVar(&flags.path, "path", "", "gjson path of the blob (disables the pageProps.a search)")

	sealCmd := &cobra.Command{
		Use:   "seal <payload.json|->",
		Short: "Encrypt a JSON document into a pageProps.a blob",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := SealOptions{
				Input:  args[0],
				Output: flags.out,
				Key:    cfg.Key,
				Wrap:   flags.wrap,
				Raw:    flags.raw,
			}
			if cmd.Flags().Changed("key") {
				opts.Key = flags.key
			}

			var err error
			if opts.Key, err = resolveKey(opts.Key); err != nil {
				return err
			}
			return seal(opts, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
	sealCmd.Flags().BoolVar(&flags.wrap, "wrap", false, `wrap the blob as {"props":{"pageProps":{"a":...}}}`)
	sealCmd.Flags().BoolVar(&flags.raw, "raw", false, "omit base64 padding")

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "ppdecrypt version %s\n", Version)
		},
	}

	root.AddCommand(sealCmd, versionCmd)
	return root
}

// newLogger builds a console logger on w; verbose forces debug level
func newLogger(level string, verbose bool, w io.Writer) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	if verbose {
		lvl = zapcore.DebugLevel
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), zapcore.AddSync(w), zap.NewAtomicLevelAt(lvl))
	return zap.New(core), nil
}
