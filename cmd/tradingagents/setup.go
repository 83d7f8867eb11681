package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/Dimmiditutto/TradingAgents-sub000/internal/config"
	"github.com/Dimmiditutto/TradingAgents-sub000/internal/core"
	"github.com/Dimmiditutto/TradingAgents-sub000/internal/feed"
	"github.com/Dimmiditutto/TradingAgents-sub000/internal/logger"
	"go.uber.org/zap"
)

// loadConfig reads --config or falls back to defaults, then validates.
func loadConfig() (*config.Config, *zap.Logger, error) {
	var cfg *config.Config
	if cfgFile != "" {
		var err error
		cfg, err = config.Load(cfgFile)
		if err != nil {
			return nil, nil, fmt.Errorf("loading config: %w", err)
		}
	} else {
		cfg = config.Defaults()
	}

	level := cfg.Log.Level
	if debug {
		level = "debug"
	}
	log, err := logger.New(level, debug || cfg.Log.Development)
	if err != nil {
		return nil, nil, err
	}
	if cfgFile == "" {
		log.Warn("no config file specified, using defaults")
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, log, nil
}

// loadInstruments resolves CLI arguments into bar series. Arguments ending
// in .csv are read as files; anything else is a symbol looked up in the
// data directory. With no arguments, the configured symbols are used, or
// every file in the data directory.
func loadInstruments(ctx context.Context, cfg *config.Config, args []string, log *zap.Logger) ([]core.Instrument, error) {
	src := feed.NewCSVDir(cfg.Data.Dir, log)

	if len(args) == 0 {
		symbols := cfg.Data.Symbols
		if len(symbols) == 0 {
			var err error
			if symbols, err = src.Symbols(ctx); err != nil {
				return nil, err
			}
		}
		if len(symbols) == 0 {
			return nil, core.WrapError(core.ErrNoData, fmt.Errorf("no instruments in %s", cfg.Data.Dir))
		}
		return feed.LoadAll(ctx, src, symbols)
	}

	out := make([]core.Instrument, 0, len(args))
	for _, arg := range args {
		var (
			inst core.Instrument
			err  error
		)
		if strings.HasSuffix(strings.ToLower(arg), ".csv") {
			inst, err = feed.LoadFile(arg)
		} else {
			inst, err = src.Load(ctx, arg)
		}
		if err != nil {
			return nil, err
		}
		out = append(out, inst)
	}
	return out, nil
}

// writeJSON writes v to path, or stdout when path is empty or "-".
func writeJSON(path string, v any) error {
	var w io.Writer = os.Stdout
	if path != "" && path != "-" {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("creating output: %w", err)
		}
		defer f.Close()
		w = f
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
