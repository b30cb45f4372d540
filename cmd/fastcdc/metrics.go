package main

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const metricsNamespace = "fastcdc"

// A dedicated registry keeps these counters isolated from the global
// default registry, so the metrics server only ever exposes what this
// binary defines.
var (
	metricsRegistry = prometheus.NewRegistry()

	chunksEmittedTotal = promauto.With(metricsRegistry).NewCounter(
		prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "chunks_emitted_total",
			Help:      "Total number of chunks emitted across all split invocations.",
		},
	)

	bytesProcessedTotal = promauto.With(metricsRegistry).NewCounter(
		prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "bytes_processed_total",
			Help:      "Total number of input bytes consumed across all split invocations.",
		},
	)

	chunkSizeBytes = promauto.With(metricsRegistry).NewHistogram(
		prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "chunk_size_bytes",
			Help:      "Distribution of emitted chunk sizes in bytes.",
			Buckets:   prometheus.ExponentialBuckets(1024, 2, 8),
		},
	)
)
