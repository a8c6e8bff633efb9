package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"gorm.io/gorm"
)

var (
	// AuthDenials counts requests rejected by an auth gate.
	AuthDenials = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "inkwell_auth_denials_total",
		Help: "Total number of requests rejected by an auth gate",
	}, []string{"gate", "reason"})

	// LikesToggled counts like toggles by outcome (liked/unliked).
	LikesToggled = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "inkwell_likes_toggled_total",
		Help: "Total number of like toggles by result",
	}, []string{"result"})

	// PostsWritten counts post mutations by operation.
	PostsWritten = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "inkwell_posts_written_total",
		Help: "Total number of post writes by operation",
	}, []string{"op"})

	// EventPublishErrors counts events that could not be published to Redis.
	EventPublishErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "inkwell_event_publish_errors_total",
		Help: "Total number of events that failed to publish",
	}, []string{"event_type"})

	// RedisErrors counts failed Redis commands by command name.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "inkwell_redis_errors_total",
		Help: "Total number of Redis command errors",
	}, []string{"command"})

	// DatabaseQueryLatency records database query latency by operation and table.
	DatabaseQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "inkwell_database_query_latency_seconds",
		Help:    "Database query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "table"})
)

const queryStartKey = "inkwell:query_start"

// QueryMetricsPlugin is a GORM plugin that records query latency for every statement.
type QueryMetricsPlugin struct{}

// Name implements gorm.Plugin.
func (QueryMetricsPlugin) Name() string {
	return "inkwell:query_metrics"
}

// Initialize registers before/after callbacks on every GORM processor.
func (p QueryMetricsPlugin) Initialize(db *gorm.DB) error {
	cb := db.Callback()
	hooks := []struct {
		op     string
		before func(string, func(*gorm.DB)) error
		after  func(string, func(*gorm.DB)) error
	}{
		{"create", cb.Create().Before("gorm:create").Register, cb.Create().After("gorm:create").Register},
		{"query", cb.Query().Before("gorm:query").Register, cb.Query().After("gorm:query").Register},
		{"update", cb.Update().Before("gorm:update").Register, cb.Update().After("gorm:update").Register},
		{"delete", cb.Delete().Before("gorm:delete").Register, cb.Delete().After("gorm:delete").Register},
		{"row", cb.Row().Before("gorm:row").Register, cb.Row().After("gorm:row").Register},
		{"raw", cb.Raw().Before("gorm:raw").Register, cb.Raw().After("gorm:raw").Register},
	}

	for _, h := range hooks {
		op := h.op
		if err := h.before(p.Name()+":before_"+op, startTimer); err != nil {
			return err
		}
		if err := h.after(p.Name()+":after_"+op, observe(op)); err != nil {
			return err
		}
	}
	return nil
}

func startTimer(db *gorm.DB) {
	db.InstanceSet(queryStartKey, time.Now())
}

func observe(op string) func(*gorm.DB) {
	return func(db *gorm.DB) {
		v, ok := db.InstanceGet(queryStartKey)
		if !ok {
			return
		}
		start, ok := v.(time.Time)
		if !ok {
			return
		}
		table := db.Statement.Table
		if table == "" {
			table = "unknown"
		}
		DatabaseQueryLatency.WithLabelValues(op, table).Observe(time.Since(start).Seconds())
	}
}
