package monitoring

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Signal pipeline metrics
	signalsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "signal_agent_signals_total",
			Help: "Total number of signals extracted from messages",
		},
		[]string{"type"},
	)

	dispatchResults = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "signal_agent_dispatch_results_total",
			Help: "Dispatch results by outcome tag",
		},
		[]string{"outcome"},
	)

	signalConfidence = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "signal_agent_signal_confidence",
			Help:    "Distribution of extractor confidence scores",
			Buckets: prometheus.LinearBuckets(0, 0.1, 11),
		},
		[]string{"type"},
	)

	// Trading metrics
	tradesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "signal_agent_trades_total",
			Help: "Total number of trades executed",
		},
		[]string{"symbol", "side"},
	)

	openPositions = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "signal_agent_open_positions",
			Help: "Number of currently open positions",
		},
	)

	dailyPnL = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "signal_agent_daily_pnl",
			Help: "Realized P&L accumulated in the current daily window",
		},
	)

	// Error metrics
	errorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "signal_agent_errors_total",
			Help: "Total number of errors",
		},
		[]string{"type"},
	)
)

func init() {
	// Register metrics
	prometheus.MustRegister(signalsTotal)
	prometheus.MustRegister(dispatchResults)
	prometheus.MustRegister(signalConfidence)
	prometheus.MustRegister(tradesTotal)
	prometheus.MustRegister(openPositions)
	prometheus.MustRegister(dailyPnL)
	prometheus.MustRegister(errorsTotal)
}

// MetricsHandler handles Prometheus metrics endpoint
type MetricsHandler struct{}

// NewMetricsHandler creates a new metrics handler
func NewMetricsHandler() *MetricsHandler {
	return &MetricsHandler{}
}

// ServeHTTP serves the Prometheus metrics endpoint
func (m *MetricsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

// RecordSignal records an extracted signal metric
func RecordSignal(signalType string, confidence float64) {
	signalsTotal.WithLabelValues(signalType).Inc()
	signalConfidence.WithLabelValues(signalType).Observe(confidence)
}

// RecordDispatch records a dispatch outcome metric
func RecordDispatch(outcome string) {
	dispatchResults.WithLabelValues(outcome).Inc()
}

// RecordTrade records a trade metric
func RecordTrade(symbol, side string) {
	tradesTotal.WithLabelValues(symbol, side).Inc()
}

// UpdateOpenPositions updates the open position count metric
func UpdateOpenPositions(count int) {
	openPositions.Set(float64(count))
}

// UpdateDailyPnL updates the daily P&L metric
func UpdateDailyPnL(pnl float64) {
	dailyPnL.Set(pnl)
}

// RecordError records an error metric
func RecordError(errorType string) {
	errorsTotal.WithLabelValues(errorType).Inc()
}
