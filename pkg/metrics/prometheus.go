package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

type Prometheus struct {
	ordersOpened    prometheus.Counter
	ordersClosed    prometheus.Counter
	stockUnits      *prometheus.CounterVec
	useCaseTotal    *prometheus.CounterVec
	useCaseDuration *prometheus.HistogramVec
	txTotal         *prometheus.CounterVec
	txDuration      *prometheus.HistogramVec
	txConflicts     *prometheus.CounterVec
	httpDuration    *prometheus.HistogramVec
	eventsPublished *prometheus.CounterVec
	eventsProcessed *prometheus.CounterVec
}

func NewPrometheusMetrics(reg prometheus.Registerer, serviceName string) *Prometheus {
	labels := prometheus.Labels{"service": serviceName}
	m := &Prometheus{
		ordersOpened: prometheus.NewCounter(prometheus.CounterOpts{
			Name:        "gopos_orders_opened_total",
			Help:        "Total orders opened.",
			ConstLabels: labels,
		}),
		ordersClosed: prometheus.NewCounter(prometheus.CounterOpts{
			Name:        "gopos_orders_closed_total",
			Help:        "Total orders checked out.",
			ConstLabels: labels,
		}),
		stockUnits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "gopos_stock_units_total",
			Help:        "Stock units moved out (purchases) and in (returns, cancellations).",
			ConstLabels: labels,
		}, []string{"direction"}),
		useCaseTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "app_usecase_total",
			Help:        "Total number of Use Case executions.",
			ConstLabels: labels,
		}, []string{"use_case", "status"}),
		useCaseDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "app_usecase_duration_seconds",
			Help:        "Use Case execution latency.",
			Buckets:     []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			ConstLabels: labels,
		}, []string{"use_case", "status"}),
		txTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "app_transactions_total",
			Help:        "Units of work by storage backend and outcome.",
			ConstLabels: labels,
		}, []string{"backend", "outcome"}),
		txDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "app_transaction_duration_seconds",
			Help:        "Unit of work latency, retries included.",
			Buckets:     prometheus.DefBuckets,
			ConstLabels: labels,
		}, []string{"backend", "outcome"}),
		txConflicts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "app_transaction_conflicts_total",
			Help:        "Write conflicts that caused a unit of work to be rerun.",
			ConstLabels: labels,
		}, []string{"backend"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "app_http_duration_seconds",
			Help:        "Duration of HTTP requests.",
			Buckets:     []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			ConstLabels: labels,
		}, []string{"method", "path", "status_code"}),
		eventsPublished: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "app_events_published_total",
			Help:        "Events handed to the broker.",
			ConstLabels: labels,
		}, []string{"topic", "status"}),
		eventsProcessed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "app_events_processed_total",
			Help:        "Events consumed by worker handlers.",
			ConstLabels: labels,
		}, []string{"handler", "status"}),
	}

	reg.MustRegister(
		m.ordersOpened,
		m.ordersClosed,
		m.stockUnits,
		m.useCaseTotal,
		m.useCaseDuration,
		m.txTotal,
		m.txDuration,
		m.txConflicts,
		m.httpDuration,
		m.eventsPublished,
		m.eventsProcessed,
	)
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	return m
}

func (p *Prometheus) RecordOrderOpened() {
	p.ordersOpened.Inc()
}

func (p *Prometheus) RecordOrderClosed() {
	p.ordersClosed.Inc()
}

func (p *Prometheus) RecordStockMovement(direction string, units int) {
	if units <= 0 {
		return
	}
	p.stockUnits.WithLabelValues(direction).Add(float64(units))
}

func (p *Prometheus) RecordUseCaseExecution(useCase string, success bool, duration time.Duration) {
	status := outcome(success, "success", "failure")
	p.useCaseTotal.WithLabelValues(useCase, status).Inc()
	p.useCaseDuration.WithLabelValues(useCase, status).Observe(duration.Seconds())
}

func (p *Prometheus) RecordTransaction(backend string, committed bool, duration time.Duration) {
	status := outcome(committed, "committed", "aborted")
	p.txTotal.WithLabelValues(backend, status).Inc()
	p.txDuration.WithLabelValues(backend, status).Observe(duration.Seconds())
}

func (p *Prometheus) IncTransactionConflict(backend string) {
	p.txConflicts.WithLabelValues(backend).Inc()
}

func (p *Prometheus) ObserveHTTPRequestDuration(method, path, code string, duration float64) {
	p.httpDuration.WithLabelValues(method, path, code).Observe(duration)
}

func (p *Prometheus) IncEventsPublished(topic, status string) {
	p.eventsPublished.WithLabelValues(topic, status).Inc()
}

func (p *Prometheus) IncEventsProcessed(handler, status string) {
	p.eventsProcessed.WithLabelValues(handler, status).Inc()
}

func outcome(ok bool, yes, no string) string {
	if ok {
		return yes
	}
	return no
}
