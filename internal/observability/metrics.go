package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrorRate counts Redis errors by operation type.
	RedisErrorRate = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "askme_redis_error_rate_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// DatabaseQueryLatency records database query latency by operation and table.
	DatabaseQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "askme_database_query_latency_seconds",
		Help:    "Database query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "table"})

	// CacheLookups counts cache-aside lookups by key family and outcome.
	CacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "askme_cache_lookups_total",
		Help: "Cache lookups by key family and result (hit, miss, error)",
	}, []string{"family", "result"})

	// SeedRecordsTotal counts records written by the dataset seeder.
	SeedRecordsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "askme_seed_records_total",
		Help: "Records inserted by the dataset seeder by entity kind",
	}, []string{"kind"})

	// SeedStepDuration records how long each seeding step took.
	SeedStepDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "askme_seed_step_duration_seconds",
		Help:    "Duration of dataset seeding steps in seconds",
		Buckets: prometheus.ExponentialBuckets(0.01, 4, 10),
	}, []string{"kind"})

	// CorpusFetches counts corpus provider calls by source and outcome.
	CorpusFetches = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "askme_corpus_fetches_total",
		Help: "Corpus fetches by source and result",
	}, []string{"source", "result"})

	// NotificationsPublished counts user notifications pushed to Redis by event and outcome.
	NotificationsPublished = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "askme_notifications_published_total",
		Help: "User notifications published by event type and result",
	}, []string{"event", "result"})
)

// DatabaseMetrics records query latency for one repository.
type DatabaseMetrics struct {
	table string
}

// NewDatabaseMetrics returns a new DatabaseMetrics instance for table.
func NewDatabaseMetrics(table string) *DatabaseMetrics {
	return &DatabaseMetrics{table: table}
}

// ObserveQuery records the latency of a database query.
func (m *DatabaseMetrics) ObserveQuery(operation string, start time.Time) {
	latency := time.Since(start).Seconds()
	DatabaseQueryLatency.WithLabelValues(operation, m.table).Observe(latency)
}

// TrackQuery returns a function that records query latency when called (e.g. defer).
func (m *DatabaseMetrics) TrackQuery(operation string) func() {
	start := time.Now()
	return func() {
		m.ObserveQuery(operation, start)
	}
}

// RecordSeedStep adds n inserted records of kind and the step duration.
func RecordSeedStep(kind string, n int, elapsed time.Duration) {
	SeedRecordsTotal.WithLabelValues(kind).Add(float64(n))
	SeedStepDuration.WithLabelValues(kind).Observe(elapsed.Seconds())
}
