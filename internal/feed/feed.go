// Package feed loads already-fetched bar series. Fetching and caching market
// data belongs to the data collaborator; a Source only reads what it produced.
package feed

import (
	"context"

	"github.com/Dimmiditutto/TradingAgents-sub000/internal/core"
)

// Source defines the interface for bar series providers
type Source interface {
	// Name identifies the source in logs
	Name() string

	// Load returns the full series for one symbol, oldest bar first
	Load(ctx context.Context, symbol string) (core.Instrument, error)

	// Symbols lists what the source can load
	Symbols(ctx context.Context) ([]string, error)
}

// LoadAll loads every symbol in order, stopping at the first failure.
func LoadAll(ctx context.Context, src Source, symbols []string) ([]core.Instrument, error) {
	out := make([]core.Instrument, 0, len(symbols))
	for _, sym := range symbols {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		inst, err := src.Load(ctx, sym)
		if err != nil {
			return nil, err
		}
		out = append(out, inst)
	}
	return out, nil
}
