package main

import (
	"context"
	"fmt"
	"os"

	"github.com/jinhae8971/stock-dashboard/pkg/config"
	"github.com/jinhae8971/stock-dashboard/pkg/github"
	"github.com/jinhae8971/stock-dashboard/pkg/log"
	"github.com/jinhae8971/stock-dashboard/pkg/market"
	"github.com/spf13/cobra"
)

var (
	fetchConfigPath string
	fetchOutPath    string
	fetchNoUpload   bool
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Fetch market data, generate the strategy, and publish the snapshot",
	Long: `Fetch collects index, sector, and leading-stock data for the KR and US
markets, generates the daily strategy, and writes the combined snapshot to
data/market_data.json locally and in the dashboard repository.

This is the command the scheduled Actions workflow runs. Credentials come from
the environment only: GITHUB_TOKEN for the upload, ANTHROPIC_API_KEY for the
strategy. Both are optional; the command degrades rather than fails.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(fetchConfigPath)
		if err != nil {
			return err
		}
		if fetchOutPath == "" {
			fetchOutPath = cfg.DataPath
		}

		ctx := context.Background()

		var strategist market.Strategist
		if apiKey := os.Getenv(config.EnvAnthropicAPIKey); apiKey != "" {
			strategist = market.NewClaudeStrategist(apiKey)
		} else {
			log.Warn("no API key, strategy generation will be skipped")
		}

		fetcher := market.NewFetcher(market.NewQuoteClient(), strategist)
		snap, err := fetcher.Snapshot(ctx)
		if err != nil {
			return fmt.Errorf("failed to fetch market data: %w", err)
		}

		var uploader market.Uploader
		if token := os.Getenv(config.EnvGitHubToken); token != "" && !fetchNoUpload {
			client, err := github.NewClient(token)
			if err != nil {
				return err
			}
			uploader = client
		}

		uploaded, err := market.Publish(ctx, snap, fetchOutPath, uploader, cfg.Owner, cfg.Repo, cfg.Branch, cfg.DataPath)
		if err != nil {
			return err
		}
		if uploaded {
			fmt.Printf("Snapshot published to %s/%s\n", cfg.Owner, cfg.Repo)
		} else {
			fmt.Printf("Snapshot written to %s\n", fetchOutPath)
		}
		return nil
	},
}

func init() {
	fetchCmd.Flags().StringVarP(&fetchConfigPath, "config", "c", "dashboard.yaml", "Path to config file (optional)")
	fetchCmd.Flags().StringVarP(&fetchOutPath, "out", "o", "", "Local output path (defaults to the configured data path)")
	fetchCmd.Flags().BoolVar(&fetchNoUpload, "no-upload", false, "Write the snapshot locally only")
	rootCmd.AddCommand(fetchCmd)
}
