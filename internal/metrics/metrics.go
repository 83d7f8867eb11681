package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry holds all Prometheus metrics.
type Registry struct {
	*prometheus.Registry

	// HTTP metrics
	httpRequestsTotal    *prometheus.CounterVec
	httpRequestDuration  *prometheus.HistogramVec
	httpRequestsInFlight prometheus.Gauge

	// Business metrics
	signalsEvaluated    *prometheus.CounterVec
	backtestsTotal      *prometheus.CounterVec
	backtestDuration    prometheus.Histogram
	tradesTotal         *prometheus.CounterVec
	tradeR              prometheus.Histogram
	instrumentsInFlight prometheus.Gauge
	archivedResults     *prometheus.CounterVec
}

// NewRegistry creates a new metrics registry with all metrics registered.
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()

	// Register Go runtime metrics
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	r := &Registry{
		Registry: reg,

		httpRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),

		httpRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),

		httpRequestsInFlight: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "http_requests_in_flight",
				Help: "Number of HTTP requests currently in flight",
			},
		),
	}

	reg.MustRegister(r.httpRequestsTotal)
	reg.MustRegister(r.httpRequestDuration)
	reg.MustRegister(r.httpRequestsInFlight)

	// Business metrics
	r.signalsEvaluated = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tradingagents_signals_evaluated_total",
			Help: "Total number of scored signals",
		},
		[]string{"direction", "outcome"},
	)
	r.backtestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tradingagents_backtests_total",
			Help: "Total number of instrument backtests",
		},
		[]string{"status"},
	)
	r.backtestDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "tradingagents_backtest_duration_seconds",
			Help:    "Per-instrument backtest duration in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30},
		},
	)
	r.tradesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tradingagents_trades_total",
			Help: "Total number of simulated trades",
		},
		[]string{"direction", "reason"},
	)
	r.tradeR = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "tradingagents_trade_r_multiple",
			Help:    "Realized R multiple of simulated trades",
			Buckets: []float64{-2, -1, -0.5, 0, 0.5, 1, 2, 3, 5},
		},
	)
	r.instrumentsInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "tradingagents_instruments_in_flight",
			Help: "Number of instruments currently being simulated",
		},
	)
	r.archivedResults = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tradingagents_archived_results_total",
			Help: "Total number of backtest results written to the archive",
		},
		[]string{"status"},
	)

	reg.MustRegister(r.signalsEvaluated)
	reg.MustRegister(r.backtestsTotal)
	reg.MustRegister(r.backtestDuration)
	reg.MustRegister(r.tradesTotal)
	reg.MustRegister(r.tradeR)
	reg.MustRegister(r.instrumentsInFlight)
	reg.MustRegister(r.archivedResults)

	return r
}

// Handler returns the scrape endpoint for this registry.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.Registry, promhttp.HandlerOpts{Registry: r.Registry})
}

// RecordRequest records metrics for an HTTP request.
func (r *Registry) RecordRequest(method, path string, status int, duration float64) {
	statusStr := statusToString(status)
	r.httpRequestsTotal.WithLabelValues(method, path, statusStr).Inc()
	r.httpRequestDuration.WithLabelValues(method, path).Observe(duration)
}

// InFlightInc increments in-flight requests.
func (r *Registry) InFlightInc() {
	r.httpRequestsInFlight.Inc()
}

// InFlightDec decrements in-flight requests.
func (r *Registry) InFlightDec() {
	r.httpRequestsInFlight.Dec()
}

// RecordSignal records a scored signal. outcome is "qualified", "scored"
// or "filtered".
func (r *Registry) RecordSignal(direction, outcome string) {
	r.signalsEvaluated.WithLabelValues(direction, outcome).Inc()
}

// RecordBacktest records a backtest completion.
func (r *Registry) RecordBacktest(status string, duration float64) {
	r.backtestsTotal.WithLabelValues(status).Inc()
	r.backtestDuration.Observe(duration)
}

// RecordTrade records a closed simulated trade.
func (r *Registry) RecordTrade(direction, reason string, realizedR float64) {
	r.tradesTotal.WithLabelValues(direction, reason).Inc()
	r.tradeR.Observe(realizedR)
}

// InstrumentStarted increments the in-flight instrument gauge.
func (r *Registry) InstrumentStarted() {
	r.instrumentsInFlight.Inc()
}

// InstrumentDone decrements the in-flight instrument gauge.
func (r *Registry) InstrumentDone() {
	r.instrumentsInFlight.Dec()
}

// RecordArchive records an archive write.
func (r *Registry) RecordArchive(status string) {
	r.archivedResults.WithLabelValues(status).Inc()
}

func statusToString(status int) string {
	switch {
	case status >= 500:
		return "5xx"
	case status >= 400:
		return "4xx"
	case status >= 300:
		return "3xx"
	case status >= 200:
		return "2xx"
	default:
		return "1xx"
	}
}
