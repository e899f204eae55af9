// Package metrics holds the service's Prometheus counters. Data-integrity
// anomalies on the query path (stale slots, deleted listings) are counted
// here rather than surfaced to callers: a partially stale index is an
// expected steady state between rebuilds.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// QueriesTotal counts search requests that passed validation.
	QueriesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "hostelhaven_queries_total",
		Help: "Search queries accepted for processing.",
	})

	// QueryErrorsTotal counts queries that failed on an upstream
	// dependency, partitioned by stage.
	QueryErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hostelhaven_query_errors_total",
		Help: "Search queries failed on an upstream dependency.",
	}, []string{"stage"})

	// StaleSlotsSkipped counts index slots dropped during resolution
	// because the listing no longer exists or the slot was out of range.
	StaleSlotsSkipped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "hostelhaven_stale_slots_skipped_total",
		Help: "Index slots skipped because the listing was deleted or the slot was invalid.",
	})

	// BuildEmbedFailures counts listings skipped during an index build
	// because their embedding call failed.
	BuildEmbedFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "hostelhaven_build_embed_failures_total",
		Help: "Listings skipped during index build due to embedding failures.",
	})
)
