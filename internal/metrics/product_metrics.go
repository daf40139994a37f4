package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "catalog"

var (
	// ProductsCreated counts products created through the API.
	ProductsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "products_created_total",
		Help:      "The total number of products created",
	})

	// ProductsUpdated counts successful product updates.
	ProductsUpdated = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "products_updated_total",
		Help:      "The total number of products updated",
	})

	// ProductsDeleted counts products removed from the catalog.
	ProductsDeleted = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "products_deleted_total",
		Help:      "The total number of products deleted",
	})

	// ProductsGenerated counts synthetic products committed by the batch writer.
	ProductsGenerated = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "products_generated_total",
		Help:      "The total number of synthetic products generated",
	})

	// GenerationDuration observes how long a whole generation run takes, by outcome.
	GenerationDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "generation_duration_seconds",
		Help:      "Duration of product generation runs",
		Buckets:   prometheus.ExponentialBuckets(0.01, 2, 12),
	}, []string{"outcome"})

	// Searches counts full-text searches by outcome.
	Searches = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "searches_total",
		Help:      "The total number of full-text searches",
	}, []string{"outcome"})

	// OutboxEvents counts outbox events handled by the worker, by resulting status.
	OutboxEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "outbox_events_total",
		Help:      "The total number of outbox events published or failed",
	}, []string{"status"})
)

// Outcome label values.
const (
	OutcomeSuccess = "success"
	OutcomeError   = "error"
)
