// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package metrics provides Prometheus collectors for the answers service.
// Collectors are grouped by concern: HTTP traffic, the view counter, the
// response cache and the database connection pool.
package metrics

import (
	"database/sql"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "answers"

var (
	// HTTP metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests by method, route and status code",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		},
		[]string{"method", "route"},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_in_flight",
			Help:      "Number of HTTP requests currently being processed",
		},
	)

	// ViewIncrements counts view counter outcomes: ok, error or dropped.
	ViewIncrements = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "views",
			Name:      "increments_total",
			Help:      "View counter increments by result",
		},
		[]string{"result"},
	)

	ViewQueueDepth = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "views",
			Name:      "queue_depth",
			Help:      "Pending view increments waiting for a worker",
		},
	)

	// CacheLookups counts response cache lookups: hit, miss or error.
	CacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "lookups_total",
			Help:      "Response cache lookups by result",
		},
		[]string{"result"},
	)

	UpsertRows = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "catalog",
			Name:      "upsert_rows_total",
			Help:      "Rows written by administrative upserts by entity and outcome",
		},
		[]string{"entity", "outcome"},
	)

	DBConnections = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "db",
			Name:      "pool_connections",
			Help:      "Database connection pool stats",
		},
		[]string{"state"},
	)
)

// StatsProvider reports connection pool statistics. *sql.DB satisfies it.
type StatsProvider interface {
	Stats() sql.DBStats
}

// PoolStatsCollector publishes pool statistics on an interval.
type PoolStatsCollector struct {
	provider StatsProvider
	stopCh   chan struct{}
	wg       sync.WaitGroup
}

// NewPoolStatsCollector creates a collector for the given pool.
func NewPoolStatsCollector(provider StatsProvider) *PoolStatsCollector {
	return &PoolStatsCollector{
		provider: provider,
		stopCh:   make(chan struct{}),
	}
}

// Start begins collecting every interval, with one immediate collection.
func (c *PoolStatsCollector) Start(interval time.Duration) {
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		c.collect()
		for {
			select {
			case <-ticker.C:
				c.collect()
			case <-c.stopCh:
				return
			}
		}
	}()
}

func (c *PoolStatsCollector) collect() {
	stats := c.provider.Stats()
	DBConnections.WithLabelValues("open").Set(float64(stats.OpenConnections))
	DBConnections.WithLabelValues("idle").Set(float64(stats.Idle))
	DBConnections.WithLabelValues("in_use").Set(float64(stats.InUse))
}

// Stop ends collection and waits for the goroutine to exit.
func (c *PoolStatsCollector) Stop() {
	close(c.stopCh)
	c.wg.Wait()
}
