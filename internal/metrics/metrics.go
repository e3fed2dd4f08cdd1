package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Comparison outcomes
const (
	OutcomeSuccess      = "success"
	OutcomeNotSupported = "not_supported"
	OutcomeUnreachable  = "unreachable"
	OutcomeInvalid      = "invalid"
	OutcomeError        = "error"
)

var (
	ComparisonsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "menucompare_comparisons_total",
			Help: "Total number of vendor comparison requests by base platform and outcome",
		},
		[]string{"platform", "outcome"},
	)

	ComparisonItems = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "menucompare_items_total",
			Help: "Items seen by the comparison pipeline, by kind (mapped, compared, missing_counterpart, not_comparable, skipped)",
		},
		[]string{"kind"},
	)

	CatalogFetchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "menucompare_catalog_fetch_duration_seconds",
			Help:    "Duration of platform catalog fetches in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"platform"},
	)

	CacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "menucompare_cache_lookups_total",
			Help: "Cache lookups by cache name and result (hit, miss)",
		},
		[]string{"cache", "result"},
	)
)
