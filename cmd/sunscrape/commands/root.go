package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sunscrape/internal/components/chrono"
	"sunscrape/internal/components/telemetry"
	"sunscrape/internal/scrapers/campaignfinance"

	"github.com/spf13/cobra"
)

type environment struct {
	config  Config
	clock   chrono.TimeAPI
	tel     telemetry.API
	scraper campaignfinance.Scraper
	otel    telemetry.Telemetry
}

var env environment

var configPath *string
var verbose *bool

func init() {
	configPath = rootCmd.PersistentFlags().String("config", defaultConfigName, "The config file, a bare name is searched for upwards from the working directory.")
	verbose = rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Log debug messages.")
}

var rootCmd = &cobra.Command{
	Use:          "sunscrape",
	Short:        "sunscrape queries the Florida Division of Elections campaign finance portal.",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		telemetry.InitSlog(*verbose)

		cfg, err := LoadConfig(*configPath)
		if err != nil {
			return fmt.Errorf("read config: %w", err)
		}
		otel, err := telemetry.Setup(cmd.Context(), "sunscrape", cfg.Telemetry)
		if err != nil {
			return fmt.Errorf("setup telemetry: %w", err)
		}
		clock, err := chrono.NewStandardTime()
		if err != nil {
			return err
		}

		tel := telemetry.SlogAPI{}
		scraper, _, err := campaignfinance.NewDefaultScraper(cfg.ClientOptions(), clock, tel)
		if err != nil {
			return fmt.Errorf("create client: %w", err)
		}

		env = environment{
			config:  cfg,
			clock:   clock,
			tel:     tel,
			scraper: scraper.WithOutputDir(cfg.OutputDir),
			otel:    otel,
		}
		return nil
	},
}

// execute runs root and then flushes telemetry, whether or not the command
// failed.
func execute(ctx context.Context, root *cobra.Command) error {
	err := root.ExecuteContext(ctx)
	shutdownErr := env.otel.Shutdown(context.Background())
	if shutdownErr != nil {
		shutdownErr = fmt.Errorf("shutdown telemetry: %w", shutdownErr)
	}
	return errors.Join(err, shutdownErr)
}

func ExecuteContext(ctx context.Context) {
	if err := execute(ctx, rootCmd); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
