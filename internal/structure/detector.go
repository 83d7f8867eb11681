package structure

import (
	"math"
	"sort"

	"github.com/Dimmiditutto/TradingAgents-sub000/internal/core"
)

// Detector consumes bars one at a time and keeps the confirmed structure.
// A pivot at bar c is only examined once bar c+Right has been fed, so
// nothing it reports depends on bars it has not seen.
type Detector struct {
	cfg  Config
	bars []core.Bar

	highs  []Pivot
	lows   []Pivot
	events []Event

	highBroken bool
	lowBroken  bool

	// confirmed levels not yet closed through
	levels []Pivot
}

// Update lists what changed on a single step.
type Update struct {
	Pivots []Pivot
	Events []Event
}

// Snapshot is a value copy of the detector state after the last step.
type Snapshot struct {
	Index     int
	Trend     Trend
	LastHigh  *Pivot
	LastLow   *Pivot
	LastEvent *Event
}

// NewDetector creates a detector for a fresh series.
func NewDetector(cfg Config) *Detector {
	return &Detector{cfg: cfg}
}

// Len returns the number of bars consumed.
func (d *Detector) Len() int {
	return len(d.bars)
}

// Step feeds the next bar. relVolume is the bar's normalized volume (NaN if
// unknown) and is only recorded on break events.
func (d *Detector) Step(b core.Bar, relVolume float64) Update {
	d.bars = append(d.bars, b)
	i := len(d.bars) - 1

	var up Update
	if c := i - d.cfg.Right; c-d.cfg.Left >= 0 {
		if p, ok := d.confirm(c, High); ok {
			d.highs = append(d.highs, p)
			d.highBroken = false
			d.levels = append(d.levels, p)
			up.Pivots = append(up.Pivots, p)
		}
		if p, ok := d.confirm(c, Low); ok {
			d.lows = append(d.lows, p)
			d.lowBroken = false
			d.levels = append(d.levels, p)
			up.Pivots = append(up.Pivots, p)
		}
	}

	// break above is evaluated before break below
	trend := d.Trend()
	if h := d.lastHigh(); h != nil && !d.highBroken && b.Close > h.Price {
		d.highBroken = true
		if ev, ok := d.breakEvent(i, *h, trend, relVolume); ok {
			up.Events = append(up.Events, ev)
		}
	}
	if l := d.lastLow(); l != nil && !d.lowBroken && b.Close < l.Price {
		d.lowBroken = true
		if ev, ok := d.breakEvent(i, *l, trend, relVolume); ok {
			up.Events = append(up.Events, ev)
		}
	}
	d.events = append(d.events, up.Events...)

	d.dropBrokenLevels(b.Close)
	return up
}

func (d *Detector) confirm(c int, kind Kind) (Pivot, bool) {
	left, right := d.cfg.Left, d.cfg.Right
	price := d.extreme(c, kind)

	// strictly beyond the left window, at least equal to the right window
	for j := c - left; j < c; j++ {
		if !beyond(kind, price, d.extreme(j, kind)) {
			return Pivot{}, false
		}
	}
	for j := c + 1; j <= c+right; j++ {
		if beyond(kind, d.extreme(j, kind), price) {
			return Pivot{}, false
		}
	}

	prom := d.prominence(c, kind, price)
	if prom <= d.cfg.MinProminencePct {
		return Pivot{}, false
	}

	ref := d.extreme(0, kind)
	if prev := d.last(kind); prev != nil {
		ref = prev.Price
	}

	return Pivot{
		Index:       c,
		ConfirmedAt: c + right,
		Time:        d.bars[c].Time,
		Price:       price,
		Kind:        kind,
		Label:       classify(kind, price, ref),
		Prominence:  prom,
	}, true
}

// prominence measures the shallower of the two opposing swings around the
// pivot, as a percentage of the pivot price.
func (d *Detector) prominence(c int, kind Kind, price float64) float64 {
	if price == 0 {
		return 0
	}
	opp := Low
	if kind == Low {
		opp = High
	}
	leftExt := d.windowExtreme(c-d.cfg.Left, c-1, opp)
	rightExt := d.windowExtreme(c+1, c+d.cfg.Right, opp)

	if kind == High {
		return (price - math.Max(leftExt, rightExt)) / price * 100
	}
	return (math.Min(leftExt, rightExt) - price) / price * 100
}

func (d *Detector) windowExtreme(from, to int, kind Kind) float64 {
	ext := d.extreme(from, kind)
	for j := from + 1; j <= to; j++ {
		if beyond(kind, d.extreme(j, kind), ext) {
			ext = d.extreme(j, kind)
		}
	}
	return ext
}

func (d *Detector) extreme(i int, kind Kind) float64 {
	if kind == High {
		return d.bars[i].High
	}
	return d.bars[i].Low
}

// beyond reports whether a is more extreme than b for the given kind.
func beyond(kind Kind, a, b float64) bool {
	if kind == High {
		return a > b
	}
	return a < b
}

func (d *Detector) breakEvent(i int, level Pivot, trend Trend, relVolume float64) (Event, bool) {
	var kind EventKind
	switch {
	case level.Kind == High && trend == Uptrend:
		kind = BOSUp
	case level.Kind == High && trend == Downtrend:
		kind = CHOCHUp
	case level.Kind == Low && trend == Downtrend:
		kind = BOSDown
	case level.Kind == Low && trend == Uptrend:
		kind = CHOCHDown
	default:
		return Event{}, false
	}
	if math.IsNaN(relVolume) {
		relVolume = 0
	}
	return Event{
		Index:       i,
		Time:        d.bars[i].Time,
		Kind:        kind,
		BrokenLevel: level.Price,
		PivotIndex:  level.Index,
		TrendBefore: trend,
		RelVolume:   relVolume,
	}, true
}

func (d *Detector) dropBrokenLevels(close float64) {
	kept := d.levels[:0]
	for _, p := range d.levels {
		if (p.Kind == High && close > p.Price) || (p.Kind == Low && close < p.Price) {
			continue
		}
		kept = append(kept, p)
	}
	d.levels = kept
}

func (d *Detector) last(kind Kind) *Pivot {
	if kind == High {
		return d.lastHigh()
	}
	return d.lastLow()
}

func (d *Detector) lastHigh() *Pivot {
	if len(d.highs) == 0 {
		return nil
	}
	return &d.highs[len(d.highs)-1]
}

func (d *Detector) lastLow() *Pivot {
	if len(d.lows) == 0 {
		return nil
	}
	return &d.lows[len(d.lows)-1]
}

// Trend returns the current trend state.
func (d *Detector) Trend() Trend {
	return TrendOf(d.lastHigh(), d.lastLow())
}

// Snapshot copies the current state.
func (d *Detector) Snapshot() Snapshot {
	s := Snapshot{Index: len(d.bars) - 1, Trend: d.Trend()}
	if h := d.lastHigh(); h != nil {
		hc := *h
		s.LastHigh = &hc
	}
	if l := d.lastLow(); l != nil {
		lc := *l
		s.LastLow = &lc
	}
	if len(d.events) > 0 {
		ev := d.events[len(d.events)-1]
		s.LastEvent = &ev
	}
	return s
}

// NearestLevelAbove returns the closest unbroken high strictly above price.
func (d *Detector) NearestLevelAbove(price float64) (float64, bool) {
	best, ok := math.Inf(1), false
	for _, p := range d.levels {
		if p.Kind == High && p.Price > price && p.Price < best {
			best, ok = p.Price, true
		}
	}
	return best, ok
}

// NearestLevelBelow returns the closest unbroken low strictly below price.
func (d *Detector) NearestLevelBelow(price float64) (float64, bool) {
	best, ok := math.Inf(-1), false
	for _, p := range d.levels {
		if p.Kind == Low && p.Price < price && p.Price > best {
			best, ok = p.Price, true
		}
	}
	return best, ok
}

// Result is the structure of a full series.
type Result struct {
	Pivots []Pivot
	Events []Event
	Trend  Trend
}

// Pivots returns all confirmed pivots ordered by confirmation, then index.
func (d *Detector) Pivots() []Pivot {
	out := make([]Pivot, 0, len(d.highs)+len(d.lows))
	out = append(out, d.highs...)
	out = append(out, d.lows...)
	sort.SliceStable(out, func(a, b int) bool {
		if out[a].ConfirmedAt != out[b].ConfirmedAt {
			return out[a].ConfirmedAt < out[b].ConfirmedAt
		}
		return out[a].Kind == High && out[b].Kind == Low
	})
	return out
}

// Events returns a copy of all emitted events.
func (d *Detector) Events() []Event {
	return append([]Event(nil), d.events...)
}

// Detect runs the detector over a complete series. relVolume may be nil.
func Detect(bars []core.Bar, relVolume []float64, cfg Config) Result {
	d := NewDetector(cfg)
	for i, b := range bars {
		rv := math.NaN()
		if i < len(relVolume) {
			rv = relVolume[i]
		}
		d.Step(b, rv)
	}
	return Result{Pivots: d.Pivots(), Events: d.Events(), Trend: d.Trend()}
}
