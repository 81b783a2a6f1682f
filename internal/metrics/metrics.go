// Package metrics exposes Prometheus collectors for scheduling, enrichment and HTTP.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Schedule metrics
	regenerationRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "popcorn_schedule_regenerations_total",
		Help: "Schedule regeneration attempts by outcome",
	}, []string{"outcome"}) // outcome=success|skipped|failure

	regenerationWarnings = promauto.NewCounter(prometheus.CounterOpts{
		Name: "popcorn_schedule_warnings_total",
		Help: "Channel/day failures recorded during regeneration",
	})

	regenerationDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "popcorn_schedule_regeneration_duration_seconds",
		Help:    "Time taken by completed regenerations",
		Buckets: prometheus.ExponentialBuckets(0.05, 2, 10),
	})

	slotsWritten = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "popcorn_schedule_slots",
		Help: "Slots written by the last completed regeneration",
	})

	channelsScheduled = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "popcorn_schedule_channels",
		Help: "Channels scheduled by the last completed regeneration",
	}, []string{"kind"}) // kind=genre|themed

	// Catalog metrics
	catalogEntries = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "popcorn_catalog_entries",
		Help: "Catalog rows after the last sync",
	})

	catalogSyncs = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "popcorn_catalog_syncs_total",
		Help: "Catalog sync attempts by outcome",
	}, []string{"outcome"})

	// Enrichment metrics
	enrichmentLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "popcorn_enrichment_lookups_total",
		Help: "External metadata lookups by result",
	}, []string{"result"}) // result=hit|miss|error|rejected

	circuitBreakerState = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "popcorn_circuit_breaker_state",
		Help: "Circuit breaker state by component (1 for the active state, 0 otherwise)",
	}, []string{"component", "state"})

	// HTTP metrics
	httpRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "popcorn_http_requests_total",
		Help: "HTTP requests by method, route and status",
	}, []string{"method", "route", "status"})

	httpDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "popcorn_http_request_duration_seconds",
		Help:    "HTTP request latency by route",
		Buckets: prometheus.DefBuckets,
	}, []string{"route"})
)

var circuitStates = []string{"closed", "half_open", "open"}

// RecordRegeneration records a regeneration outcome
func RecordRegeneration(outcome string) {
	regenerationRuns.WithLabelValues(outcome).Inc()
}

// RecordRegenerationResult records the figures of a completed regeneration
func RecordRegenerationResult(genreChannels, themedChannels, slots, warnings int, duration time.Duration) {
	regenerationRuns.WithLabelValues("success").Inc()
	regenerationWarnings.Add(float64(warnings))
	regenerationDuration.Observe(duration.Seconds())
	slotsWritten.Set(float64(slots))
	channelsScheduled.WithLabelValues("genre").Set(float64(genreChannels))
	channelsScheduled.WithLabelValues("themed").Set(float64(themedChannels))
}

// RecordCatalogSync records a catalog sync outcome and, on success, the row count
func RecordCatalogSync(outcome string, rows int) {
	catalogSyncs.WithLabelValues(outcome).Inc()
	if outcome == "success" {
		catalogEntries.Set(float64(rows))
	}
}

// RecordEnrichmentLookup counts an enrichment lookup by result
func RecordEnrichmentLookup(result string) {
	enrichmentLookups.WithLabelValues(result).Inc()
}

// SetCircuitBreakerState records the active circuit breaker state for a component.
func SetCircuitBreakerState(component, state string) {
	for _, s := range circuitStates {
		value := 0.0
		if s == state {
			value = 1.0
		}
		circuitBreakerState.WithLabelValues(component, s).Set(value)
	}
}

// ObserveHTTPRequest records one served request
func ObserveHTTPRequest(method, route string, status int, duration time.Duration) {
	httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	httpDuration.WithLabelValues(route).Observe(duration.Seconds())
}
