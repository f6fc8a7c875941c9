// Package metrics exposes the ingestion counters over Prometheus.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// AlbumsIngested counts albums committed to the catalog.
	AlbumsIngested = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "musiclify",
		Subsystem: "ingest",
		Name:      "albums_total",
		Help:      "Number of albums committed to the catalog.",
	})

	// TracksIngested counts tracks stored and recorded.
	TracksIngested = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "musiclify",
		Subsystem: "ingest",
		Name:      "tracks_total",
		Help:      "Number of tracks stored and recorded.",
	})

	// TrackFailures counts tracks that failed to process and were skipped.
	TrackFailures = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "musiclify",
		Subsystem: "ingest",
		Name:      "track_failures_total",
		Help:      "Number of tracks that failed processing and were skipped.",
	})

	// IngestDuration observes how long a full album submission takes.
	IngestDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "musiclify",
		Subsystem: "ingest",
		Name:      "duration_seconds",
		Help:      "Duration of complete album ingestions.",
		Buckets:   prometheus.ExponentialBuckets(0.05, 2, 12),
	})
)
