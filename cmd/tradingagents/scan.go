package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"github.com/Dimmiditutto/TradingAgents-sub000/internal/core"
	"github.com/Dimmiditutto/TradingAgents-sub000/internal/indicator"
	"github.com/Dimmiditutto/TradingAgents-sub000/internal/scoring"
	signalstore "github.com/Dimmiditutto/TradingAgents-sub000/internal/storage/signal"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	scanDataDir   string
	scanLookback  int
	scanAll       bool
	scanMinScore  float64
	scanDirection string
	scanLimit     int
	scanJSON      bool
)

var scanCmd = &cobra.Command{
	Use:   "scan [SYMBOL|FILE.csv ...]",
	Short: "Score the most recent bars of each instrument",
	Long: `Run the indicator, structure and scoring pipeline over each series and
report the signals of the last --lookback bars. Only qualifying signals are
kept unless --all is set.`,
	RunE: runScan,
}

func init() {
	scanCmd.Flags().StringVar(&scanDataDir, "data", "", "directory of <SYMBOL>.csv files (default from config)")
	scanCmd.Flags().IntVar(&scanLookback, "lookback", 1, "number of trailing bars to evaluate")
	scanCmd.Flags().BoolVar(&scanAll, "all", false, "keep non-qualifying signals too")
	scanCmd.Flags().Float64Var(&scanMinScore, "min-score", 0, "only report signals at or above this score")
	scanCmd.Flags().StringVar(&scanDirection, "direction", "", "only report LONG or SHORT signals")
	scanCmd.Flags().IntVar(&scanLimit, "limit", 0, "maximum signals to report (0 = no limit)")
	scanCmd.Flags().BoolVar(&scanJSON, "json", false, "print JSON instead of a table")

	rootCmd.AddCommand(scanCmd)
}

func runScan(cmd *cobra.Command, args []string) error {
	cfg, log, err := loadConfig()
	if err != nil {
		return err
	}
	defer log.Sync()

	if scanDataDir != "" {
		cfg.Data.Dir = scanDataDir
	}
	if scanLookback < 1 {
		return fmt.Errorf("--lookback must be >= 1, got %d", scanLookback)
	}
	dir := core.Direction(scanDirection)
	if dir != "" && dir != core.Long && dir != core.Short {
		return fmt.Errorf("--direction must be LONG or SHORT, got %q", scanDirection)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	instruments, err := loadInstruments(ctx, cfg, args, log)
	if err != nil {
		return err
	}

	store := signalstore.NewMemoryStore(len(instruments) * scanLookback * len(core.Directions))
	pipeline := cfg.Pipeline()
	clouds := make(map[string]indicator.Cloud, len(instruments))

	for _, inst := range instruments {
		if err := ctx.Err(); err != nil {
			return err
		}
		scores, err := scanInstrument(inst, pipeline, scanLookback, log)
		if err != nil {
			log.Error("scan failed", zap.String("instrument", inst.Symbol), zap.Error(err))
			continue
		}
		clouds[inst.Symbol] = indicator.ProjectCloud(inst.Bars, pipeline.Indicators.Cloud)
		for _, s := range scores {
			if !scanAll && !s.Qualifies() {
				continue
			}
			if _, err := store.Save(ctx, s); err != nil {
				return err
			}
		}
	}

	signals, err := store.List(ctx, signalstore.ListFilter{
		Direction: dir,
		MinScore:  scanMinScore,
		Limit:     scanLimit,
	})
	if err != nil {
		return err
	}
	log.Info("scan complete",
		zap.Int("instruments", len(instruments)),
		zap.Int("signals", len(signals)))

	if scanJSON {
		return writeJSON("", signals)
	}
	printSignals(signals, clouds)
	return nil
}

// scanInstrument walks the series once and evaluates its last lookback bars.
func scanInstrument(inst core.Instrument, p scoring.Pipeline, lookback int, log *zap.Logger) ([]scoring.SignalScore, error) {
	w, err := scoring.NewWalker(inst.Symbol, inst.Bars, p, log)
	if err != nil {
		return nil, err
	}
	first := w.Len() - lookback
	if first < 0 {
		first = 0
	}

	var out []scoring.SignalScore
	for {
		if _, ok := w.Step(); !ok {
			break
		}
		if w.Index() >= first {
			out = append(out, w.Evaluate()...)
		}
	}
	return out, nil
}

// printSignals renders a table. The cloud column is informational only.
func printSignals(signals []scoring.SignalScore, clouds map[string]indicator.Cloud) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TIME\tINSTRUMENT\tDIR\tSCORE\tEVENT\tENTRY\tSTOP\tT1\tT2\tRR\tCLOUD\tQUALIFIED")
	for _, s := range signals {
		rr := "n/a"
		if !core.IsUndefined(s.RiskReward) {
			rr = fmt.Sprintf("%.2f", s.RiskReward)
		}
		cloud := clouds[s.Instrument].Position(s.Index, s.EntryPrice)
		if cloud == "" {
			cloud = "n/a"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%.1f\t%s\t%.2f\t%.2f\t%.2f\t%.2f\t%s\t%s\t%t\n",
			s.Time.Format("2006-01-02"), s.Instrument, s.Direction, s.TotalScore,
			s.EventType, s.EntryPrice, s.StopLoss, s.Target1, s.Target2, rr, cloud, s.Qualifies())
	}
	w.Flush()
}
