package main

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	cfgFile string
	debug   bool
)

var rootCmd = &cobra.Command{
	Use:   "tradingagents",
	Short: "TradingAgents - structure-aware signal scoring and backtesting",
	Long: `TradingAgents turns daily OHLCV series into scored, risk-managed trade
signals from market structure, trend, momentum, volatility and volume, and
replays them bar by bar to measure how the scoring would have performed.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "enable debug mode")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
