// Command finfetch fetches and normalizes Indian equity market data:
// technical indicator reports, fundamentals metric sets, and news.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/seenimoa/finfetch/internal/aggregate"
	"github.com/seenimoa/finfetch/internal/api"
	"github.com/seenimoa/finfetch/internal/config"
	"github.com/seenimoa/finfetch/pkg/utils"
)

var version = "0.3.0"

var (
	cfg        *config.Config
	cfgFile    string
	aggregator *aggregate.Aggregator
)

var rootCmd = &cobra.Command{
	Use:   "finfetch",
	Short: "Market data fetcher for Indian equities",
	Long: `FinFetch fetches OHLCV price history through a multi-provider fallback
chain, derives technical indicators, builds a canonical fundamentals metric
set from scraped and vendor statements, and aggregates ticker news.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// .env is optional; missing files are fine.
		_ = godotenv.Load()

		var err error
		if cfgFile != "" {
			cfg, err = config.LoadFromFile(cfgFile)
		} else {
			cfg, err = config.Load()
		}
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		aggregator = aggregate.New(cfg)
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("finfetch %s\n", version)
	},
}

var technicalCmd = &cobra.Command{
	Use:   "technical <ticker>",
	Short: "Compute the technical indicator report for a ticker",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		period, _ := cmd.Flags().GetString("period")
		interval, _ := cmd.Flags().GetString("interval")

		report := aggregator.Technical.Analyze(cmd.Context(), args[0], period, interval)
		return printJSON(report)
	},
}

var fundamentalCmd = &cobra.Command{
	Use:   "fundamental <ticker>",
	Short: "Build the fundamentals metric set for a ticker",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		refresh, _ := cmd.Flags().GetBool("refresh")

		metrics := aggregator.Fundamentals.Fetch(cmd.Context(), args[0], "", refresh)
		return printJSON(metrics)
	},
}

var newsCmd = &cobra.Command{
	Use:   "news <ticker>",
	Short: "Fetch recent news mentioning a ticker",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		articles := aggregator.News.FetchStockNews(cmd.Context(), args[0], "")
		return printJSON(articles)
	},
}

var bundleCmd = &cobra.Command{
	Use:   "bundle <ticker>",
	Short: "Fetch fundamentals, technicals, and news in one shot",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := aggregate.DefaultBundleOptions()
		opts.Period, _ = cmd.Flags().GetString("period")
		opts.Interval, _ = cmd.Flags().GetString("interval")
		opts.ForceRefresh, _ = cmd.Flags().GetBool("refresh")

		bundle, err := aggregator.FetchBundle(cmd.Context(), args[0], opts)
		if err != nil {
			return err
		}
		return printJSON(bundle)
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		server := api.NewServer(cfg.API, aggregator)
		return server.Start(ctx)
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show market session and provider API key configuration",
	Run: func(cmd *cobra.Command, args []string) {
		now := utils.NowIST()
		fmt.Printf("NSE market: %s (%s %s IST)\n", utils.MarketStatus(), utils.FormatDateIST(now), now.Format("15:04"))
		fmt.Println("Provider API keys:")
		for _, ks := range config.CheckAPIKeys(cfg) {
			state := "not configured (provider will be skipped)"
			if ks.IsSet {
				state = "configured " + ks.Masked
			}
			fmt.Printf("  %-12s %s\n", ks.Name, state)
		}
		fmt.Printf("Preferred exchange: %s\n", cfg.Providers.PreferredExchange)
	},
}

func printJSON(v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file path")

	technicalCmd.Flags().String("period", "1y", "history period (1mo, 3mo, 6mo, 1y, 2y, 5y, 10y, max)")
	technicalCmd.Flags().String("interval", "1d", "bar interval (1m, 5m, 15m, 1h, 1d, 1wk, 1mo)")

	fundamentalCmd.Flags().Bool("refresh", false, "bypass the scrape cache")

	bundleCmd.Flags().String("period", "1y", "history period")
	bundleCmd.Flags().String("interval", "1d", "bar interval")
	bundleCmd.Flags().Bool("refresh", false, "bypass the scrape cache")

	rootCmd.AddCommand(versionCmd, technicalCmd, fundamentalCmd, newsCmd, bundleCmd, serveCmd, statusCmd)
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}
