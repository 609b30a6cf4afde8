package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics набор prometheus-метрик сервиса
type Metrics struct {
	// HTTP
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// База данных
	DBQueryDuration   *prometheus.HistogramVec
	DBQueryErrors     *prometheus.CounterVec
	DBOpenConnections *prometheus.GaugeVec
	DBInUse           *prometheus.GaugeVec
	DBIdle            *prometheus.GaugeVec
	DBWaitCount       *prometheus.GaugeVec

	// Бизнес-метрики
	GroupsCreated     *prometheus.CounterVec
	DatesSkipped      *prometheus.CounterVec
	GroupsCancelled   prometheus.Counter
	PaymentsRecorded  *prometheus.CounterVec
	PaymentsAmount    prometheus.Counter
	CommitRetries     prometheus.Counter
	NoValidDatesTotal prometheus.Counter
}

// New создает и регистрирует метрики в глобальном registry prometheus
func New(serviceName string) *Metrics {
	return NewWithRegistry(serviceName, prometheus.DefaultRegisterer)
}

// NewWithRegistry создает метрики и регистрирует их в переданном registry
func NewWithRegistry(serviceName string, reg prometheus.Registerer) *Metrics {
	constLabels := prometheus.Labels{"service": serviceName}

	m := &Metrics{
		HTTPRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "http_requests_total",
			Help:        "Total number of HTTP requests",
			ConstLabels: constLabels,
		}, []string{"method", "route", "status"}),
		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "http_request_duration_seconds",
			Help:        "HTTP request duration in seconds",
			ConstLabels: constLabels,
			Buckets:     prometheus.DefBuckets,
		}, []string{"method", "route"}),

		DBQueryDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "db_query_duration_seconds",
			Help:        "Database query duration in seconds",
			ConstLabels: constLabels,
			Buckets:     []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		}, []string{"operation"}),
		DBQueryErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "db_query_errors_total",
			Help:        "Total number of failed database queries",
			ConstLabels: constLabels,
		}, []string{"operation"}),
		DBOpenConnections: newPoolGauge("db_open_connections", "Number of established connections", constLabels),
		DBInUse:           newPoolGauge("db_in_use_connections", "Number of connections currently in use", constLabels),
		DBIdle:            newPoolGauge("db_idle_connections", "Number of idle connections", constLabels),
		DBWaitCount:       newPoolGauge("db_wait_count", "Total number of connections waited for", constLabels),

		GroupsCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "recurring_groups_created_total",
			Help:        "Recurring booking groups created",
			ConstLabels: constLabels,
		}, []string{"payment_mode"}),
		DatesSkipped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "recurring_dates_skipped_total",
			Help:        "Dates skipped while committing recurring groups",
			ConstLabels: constLabels,
		}, []string{"reason"}),
		GroupsCancelled: prometheus.NewCounter(prometheus.CounterOpts{
			Name:        "recurring_groups_cancelled_total",
			Help:        "Recurring booking groups cancelled",
			ConstLabels: constLabels,
		}),
		PaymentsRecorded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "recurring_group_payments_total",
			Help:        "Bulk payments recorded",
			ConstLabels: constLabels,
		}, []string{"method"}),
		PaymentsAmount: prometheus.NewCounter(prometheus.CounterOpts{
			Name:        "recurring_group_payments_amount_total",
			Help:        "Sum of bulk payments recorded",
			ConstLabels: constLabels,
		}),
		CommitRetries: prometheus.NewCounter(prometheus.CounterOpts{
			Name:        "tx_serialization_retries_total",
			Help:        "Serializable transactions retried after a serialization failure",
			ConstLabels: constLabels,
		}),
		NoValidDatesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name:        "recurring_no_valid_dates_total",
			Help:        "Commits rejected because no date was bookable",
			ConstLabels: constLabels,
		}),
	}

	reg.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.DBQueryDuration,
		m.DBQueryErrors,
		m.DBOpenConnections,
		m.DBInUse,
		m.DBIdle,
		m.DBWaitCount,
		m.GroupsCreated,
		m.DatesSkipped,
		m.GroupsCancelled,
		m.PaymentsRecorded,
		m.PaymentsAmount,
		m.CommitRetries,
		m.NoValidDatesTotal,
	)

	return m
}

func newPoolGauge(name, help string, constLabels prometheus.Labels) *prometheus.GaugeVec {
	return prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name:        name,
		Help:        help,
		ConstLabels: constLabels,
	}, []string{"db"})
}

// Методы ниже используются usecase-ами через узкий интерфейс Recorder.
// Все методы безопасны для nil-получателя, чтобы сервис работал с выключенными метриками.

// GroupCreated учитывает созданную группу
func (m *Metrics) GroupCreated(paymentMode string) {
	if m == nil {
		return
	}
	m.GroupsCreated.WithLabelValues(paymentMode).Inc()
}

// DateSkipped учитывает пропущенные даты
func (m *Metrics) DateSkipped(reason string, count int) {
	if m == nil || count == 0 {
		return
	}
	m.DatesSkipped.WithLabelValues(reason).Add(float64(count))
}

// NoValidDates учитывает отказ из-за отсутствия свободных дат
func (m *Metrics) NoValidDates() {
	if m == nil {
		return
	}
	m.NoValidDatesTotal.Inc()
}

// GroupCancelled учитывает отмену группы
func (m *Metrics) GroupCancelled() {
	if m == nil {
		return
	}
	m.GroupsCancelled.Inc()
}

// PaymentRecorded учитывает оплату по группе
func (m *Metrics) PaymentRecorded(method string, amount float64) {
	if m == nil {
		return
	}
	m.PaymentsRecorded.WithLabelValues(method).Inc()
	m.PaymentsAmount.Add(amount)
}

// TxRetried учитывает повтор сериализуемой транзакции
func (m *Metrics) TxRetried() {
	if m == nil {
		return
	}
	m.CommitRetries.Inc()
}
