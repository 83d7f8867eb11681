package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/Dimmiditutto/TradingAgents-sub000/internal/backtest"
	"github.com/Dimmiditutto/TradingAgents-sub000/internal/config"
	"github.com/Dimmiditutto/TradingAgents-sub000/internal/core"
	"github.com/Dimmiditutto/TradingAgents-sub000/internal/metrics"
	"github.com/Dimmiditutto/TradingAgents-sub000/internal/storage/archive"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	backtestWorkers     int
	backtestDataDir     string
	backtestOutput      string
	backtestSummary     bool
	backtestMetricsAddr string
)

var backtestCmd = &cobra.Command{
	Use:   "backtest [SYMBOL|FILE.csv ...]",
	Short: "Replay the scoring pipeline over historical bars",
	Long: `Walk each series bar by bar, simulate every qualifying signal with
stops, targets, partial exits and trailing, and report per-instrument
statistics. Results are written as JSON and optionally archived.`,
	RunE: runBacktest,
}

func init() {
	backtestCmd.Flags().IntVarP(&backtestWorkers, "workers", "w", -1, "parallel instruments (0 = one per CPU, default from config)")
	backtestCmd.Flags().StringVar(&backtestDataDir, "data", "", "directory of <SYMBOL>.csv files (default from config)")
	backtestCmd.Flags().StringVarP(&backtestOutput, "output", "o", "", "write JSON results to file instead of stdout")
	backtestCmd.Flags().BoolVar(&backtestSummary, "summary", false, "print a summary table instead of JSON")
	backtestCmd.Flags().StringVar(&backtestMetricsAddr, "metrics-addr", "", "serve /metrics on this address while running")

	rootCmd.AddCommand(backtestCmd)
}

// instrumentReport is the JSON shape of one instrument's outcome.
type instrumentReport struct {
	Instrument string           `json:"instrument"`
	Result     *backtest.Result `json:"result,omitempty"`
	Error      string           `json:"error,omitempty"`
	Archived   string           `json:"archived,omitempty"`
}

func runBacktest(cmd *cobra.Command, args []string) error {
	cfg, log, err := loadConfig()
	if err != nil {
		return err
	}
	defer log.Sync()

	if backtestDataDir != "" {
		cfg.Data.Dir = backtestDataDir
	}
	workers := cfg.Backtest.Workers
	if backtestWorkers >= 0 {
		workers = backtestWorkers
	}
	metricsAddr := cfg.Metrics.Addr
	if backtestMetricsAddr != "" {
		metricsAddr = backtestMetricsAddr
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	reg := metrics.NewRegistry()
	if metricsAddr != "" {
		srv := startMetricsServer(metricsAddr, reg, log)
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			srv.Shutdown(shutdownCtx)
		}()
	}

	instruments, err := loadInstruments(ctx, cfg, args, log)
	if err != nil {
		return err
	}

	bt, err := backtest.New(cfg.Simulation(), log)
	if err != nil {
		return err
	}
	bt.SetMetrics(reg)

	store, err := openResultStore(cfg, reg, log)
	if err != nil {
		return err
	}

	log.Info("starting backtest",
		zap.Int("instruments", len(instruments)),
		zap.Int("workers", workers),
		zap.String("policy", cfg.Backtest.Policy))

	outcomes, runErr := backtest.NewRunner(bt, workers, log).Run(ctx, instruments)

	reports := make([]instrumentReport, len(outcomes))
	failed := 0
	for i, o := range outcomes {
		reports[i] = instrumentReport{Instrument: o.Instrument, Result: o.Result}
		if o.Err != nil {
			reports[i].Error = o.Err.Error()
			failed++
			continue
		}
		if store != nil {
			p, err := store.Save(ctx, o.Result)
			if err != nil {
				log.Error("archive failed", zap.String("instrument", o.Instrument), zap.Error(err))
				continue
			}
			reports[i].Archived = p
		}
	}

	if backtestSummary {
		printSummary(reports)
	} else if err := writeJSON(backtestOutput, reports); err != nil {
		return err
	}

	if runErr != nil {
		return fmt.Errorf("backtest interrupted: %w", runErr)
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d instruments failed", failed, len(outcomes))
	}
	return nil
}

func openResultStore(cfg *config.Config, reg *metrics.Registry, log *zap.Logger) (*archive.ResultStore, error) {
	a := cfg.Storage.Archive
	backend, err := archive.Open(archive.Options{
		Type: a.Type,
		Path: a.Path,
		S3: archive.S3Config{
			Bucket:    a.S3.Bucket,
			Endpoint:  a.S3.Endpoint,
			Region:    a.S3.Region,
			AccessKey: a.S3.AccessKey,
			SecretKey: a.S3.SecretKey,
			Prefix:    a.S3.Prefix,
		},
	})
	if err != nil || backend == nil {
		return nil, err
	}
	store := archive.NewResultStore(backend, log)
	store.SetMetrics(reg)
	return store, nil
}

func startMetricsServer(addr string, reg *metrics.Registry, log *zap.Logger) *http.Server {
	srv := &http.Server{
		Addr:              addr,
		Handler:           metrics.NewServeMux(reg, log),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("metrics server error", zap.Error(err))
		}
	}()
	log.Info("serving metrics", zap.String("addr", addr))
	return srv
}

func printSummary(reports []instrumentReport) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "INSTRUMENT\tTRADES\tWIN%\tPF\tEXPECT(R)\tRETURN%\tMAXDD%\tSHARPE\tSTATUS")
	for _, r := range reports {
		switch {
		case r.Error != "":
			fmt.Fprintf(w, "%s\t-\t-\t-\t-\t-\t-\t-\t%s\n", r.Instrument, r.Error)
		case r.Result.InsufficientData:
			fmt.Fprintf(w, "%s\t-\t-\t-\t-\t-\t-\t-\tinsufficient data (%d bars)\n", r.Instrument, r.Result.Bars)
		default:
			s := r.Result.Stats
			pf := "n/a"
			if !core.IsUndefined(s.ProfitFactor) {
				pf = fmt.Sprintf("%.2f", s.ProfitFactor)
			}
			fmt.Fprintf(w, "%s\t%d\t%.1f\t%s\t%.2f\t%.2f\t%.2f\t%.2f\tok\n",
				r.Instrument, s.TotalTrades, s.WinRate, pf, s.Expectancy,
				s.TotalReturn, s.MaxDrawdown, s.SharpeRatio)
		}
	}
	w.Flush()
}
