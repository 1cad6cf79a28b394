package main

import (
	"github.com/ai8future/keywrap"
	"github.com/ai8future/keywrap/internal/app"
	"github.com/ai8future/keywrap/internal/config"
	logger "github.com/ai8future/keywrap/internal/logging"
	"github.com/ai8future/keywrap/internal/store"
	"github.com/spf13/cobra"
)

var (
	configPath      string
	storePath       string
	verbose         bool
	debug           bool
	passphraseStdin bool

	Logger    logger.Logger
	boundary  *app.App
	envelopes *store.Store
)

var rootCmd = &cobra.Command{
	Use:   "keywrap",
	Short: "Protect a repository root key behind a passphrase",
	Long: `keywrap wraps a repository root key under a passphrase-derived key and
stores the resulting envelope. It can also encrypt short secrets such as
sharing tokens under a passphrase.

The passphrase and the unwrapped root key are never written to disk.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		path := configPath
		if path == "" {
			var err error
			if path, err = config.DefaultPath(); err != nil {
				return err
			}
		}

		cfg, err := config.Load(path)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("verbose") {
			cfg.Verbose = verbose
		}
		if cmd.Flags().Changed("debug") {
			cfg.Debug = debug
		}
		if storePath != "" {
			cfg.StorePath = storePath
		}

		Logger = logger.Logger{Verbose: cfg.Verbose, Debug: cfg.Debug}
		Logger.Debugf("config %s, store %s", path, cfg.StorePath)

		m, err := keywrap.NewManager(keywrap.WithLogger(Logger))
		if err != nil {
			return Logger.ErrorfAndReturn("failed to create key manager: %v", err)
		}
		boundary = app.New(m, Logger)
		envelopes = store.Open(cfg.StorePath)
		return nil
	},
}

// closeBoundary locks and closes the manager once the command has finished,
// whether or not it failed.
func closeBoundary() {
	if boundary != nil {
		boundary.Close()
		boundary = nil
	}
}

func init() {
	cobra.OnFinalize(closeBoundary)

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default $XDG_CONFIG_HOME/keywrap/config.toml)")
	rootCmd.PersistentFlags().StringVar(&storePath, "store", "", "envelope store file (overrides config)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "enable debug output")
	rootCmd.PersistentFlags().BoolVar(&passphraseStdin, "passphrase-stdin", false, "read passphrases from stdin, one per line")

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(unlockCmd)
	rootCmd.AddCommand(passwdCmd)
	rootCmd.AddCommand(encryptCmd)
	rootCmd.AddCommand(decryptCmd)
	rootCmd.AddCommand(saltCmd)
	rootCmd.AddCommand(wrapKeyCmd)
	rootCmd.AddCommand(unwrapKeyCmd)
}
