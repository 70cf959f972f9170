package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	daysTotal     prometheus.Counter
	triggersTotal *prometheus.CounterVec
	newsTotal     *prometheus.CounterVec
	errorsTotal   *prometheus.CounterVec
	lastPrice     *prometheus.GaugeVec
	tickDuration  prometheus.Histogram
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		daysTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "marketlab_days_total",
				Help: "Total number of simulated days",
			},
		),
		triggersTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "marketlab_phenomena_triggered_total",
				Help: "Phenomenon activations by type",
			},
			[]string{"type"},
		),
		newsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "marketlab_news_emitted_total",
				Help: "News records emitted by type",
			},
			[]string{"type"},
		),
		errorsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "marketlab_errors_total",
				Help: "Total number of errors encountered",
			},
			[]string{"type"},
		),
		lastPrice: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "marketlab_last_price",
				Help: "Last simulated price for a symbol",
			},
			[]string{"symbol"},
		),
		tickDuration: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "marketlab_tick_duration_seconds",
				Help:    "Duration of a simulated day in seconds",
				Buckets: prometheus.DefBuckets,
			},
		),
	}
}

// RecordDayAdvanced counts a completed simulated day.
func (r *Recorder) RecordDayAdvanced() {
	r.daysTotal.Inc()
}

// RecordPhenomenonTriggered counts a phenomenon activation.
func (r *Recorder) RecordPhenomenonTriggered(newsType string) {
	r.triggersTotal.WithLabelValues(newsType).Inc()
}

// RecordNewsEmitted counts an emitted news record.
func (r *Recorder) RecordNewsEmitted(newsType string) {
	r.newsTotal.WithLabelValues(newsType).Inc()
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}

// RecordLastPrice records the last price for a symbol.
func (r *Recorder) RecordLastPrice(symbol string, price float64) {
	r.lastPrice.WithLabelValues(symbol).Set(price)
}

// RecordTickDuration records how long a simulated day took.
func (r *Recorder) RecordTickDuration(seconds float64) {
	r.tickDuration.Observe(seconds)
}
