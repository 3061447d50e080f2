package main

import (
	"math"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"fxcarry-go/internal/backtest"
	"fxcarry-go/internal/config"
	"fxcarry-go/internal/fixings"
	"fxcarry-go/internal/metrics"
	"fxcarry-go/internal/report"
	"fxcarry-go/internal/util"
)

func main() {
	_ = godotenv.Load() // best-effort

	var cfgPath string
	root := &cobra.Command{Use: "fxcarry", Short: "FX carry-divergence backtester"}
	root.PersistentFlags().StringVar(&cfgPath, "config", getEnv("FXCARRY_CONFIG", "config.yaml"), "path to YAML config")
	root.AddCommand(runCmd(&cfgPath))

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func runCmd(cfgPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run the London-fix carry backtest and report annual stats",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*cfgPath)
			if err != nil {
				return err
			}
			log := util.NewConsoleLogger(getEnv("LOG_LEVEL", cfg.App.LogLevel))

			if cfg.App.MetricsAddr != "" {
				_ = metrics.Serve(cfg.App.MetricsAddr)
				log.Info().Str("addr", cfg.App.MetricsAddr).Msg("metrics up")
			}

			fxLon, err := fixings.ReadFile(cfg.Data.FXLonFixes)
			if err != nil {
				return err
			}
			fxNY, err := fixings.ReadFile(cfg.Data.FXNYFixes)
			if err != nil {
				return err
			}
			swapsLon, err := fixings.ReadFile(cfg.Data.SwapsLonFixes)
			if err != nil {
				return err
			}
			swapsNY, err := fixings.ReadFile(cfg.Data.SwapsNYFixes)
			if err != nil {
				return err
			}

			b, err := backtest.New(fxLon, fxNY, swapsLon, swapsNY, cfg.SpreadTable(), cfg.Backtest, log)
			if err != nil {
				return err
			}
			log.Info().Int("rows", fxLon.Len()).Int("instruments", len(b.Instruments())).Msg("backtest engine started")

			if err := b.Run(); err != nil {
				return err
			}
			costs, err := b.ComputeTransactionCosts()
			if err != nil {
				return err
			}
			stats, err := b.ComputeStats()
			if err != nil {
				return err
			}

			totalCost := 0.0
			for _, c := range costs.Col("total") {
				if !math.IsNaN(c) {
					totalCost += c
				}
			}
			log.Info().Float64("total_cost", totalCost).Msg("transaction costs")
			for _, year := range stats {
				log.Info().
					Int("year", year.Year).
					Float64("return", year.Return).
					Float64("vol", year.Vol).
					Float64("sharpe", year.Sharpe).
					Msg("annual performance")
			}

			if cfg.Data.ResultsPath != "" {
				recorder, err := report.NewJSONLRecorder(cfg.Data.ResultsPath)
				if err != nil {
					return err
				}
				defer recorder.Close()
				recorder.Record(report.NewRunSummary(b.LiveSession(), fxLon.Len(), stats))
				log.Info().Str("path", cfg.Data.ResultsPath).Msg("run recorded")
			}
			return nil
		},
	}
}

func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
