package main

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/tanamoe/release-bot/catalog"
	"github.com/tanamoe/release-bot/config"
	"github.com/tanamoe/release-bot/release"
)

var (
	envFile string
	verbose bool
	cfg     *config.Config
)

// Execute builds the command tree and runs it.
func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "releasectl",
		Short:         "Operate the release calendar bot",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if envFile != "" {
				if err := godotenv.Load(envFile); err != nil {
					return err
				}
			} else {
				_ = godotenv.Load()
			}
			lvl := slog.LevelWarn
			if verbose {
				lvl = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})))

			var err error
			cfg, err = config.Load()
			return err
		},
	}

	root.PersistentFlags().StringVar(&envFile, "env", "", "env file to load (default .env when present)")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log debug output to stderr")

	root.AddCommand(previewCmd(), registerCmd(), postCmd())
	return root
}

// newService wires the release pipeline from cfg.
func newService(cfg *config.Config) (*release.Service, error) {
	if err := cfg.ValidateCatalog(); err != nil {
		return nil, err
	}
	locale, err := cfg.ReleaseLocale()
	if err != nil {
		return nil, err
	}
	emotes, err := config.LoadEmotes(cfg.EmotesFile)
	if err != nil {
		return nil, err
	}
	fetcher := catalog.NewClient(cfg.CatalogURL, cfg.CatalogToken,
		catalog.WithCollection(cfg.CatalogCollection),
		catalog.WithPageSize(cfg.CatalogPageSize),
		catalog.WithTimeout(cfg.CatalogTimeout),
	)
	return release.NewService(locale, fetcher, emotes, cfg.CalendarImage), nil
}
