package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all prometheus metrics for the ingest pipeline.
type Metrics struct {
	ItinerariesProcessed prometheus.Counter
	SegmentsNormalized   prometheus.Counter
	ParseErrors          prometheus.Counter
	ProcessingTime       prometheus.Histogram
	ErrorsCount          *prometheus.CounterVec
}

// NewMetrics registers the pipeline metrics on the default registry.
func NewMetrics(namespace string) *Metrics {
	return NewMetricsWith(prometheus.DefaultRegisterer, namespace)
}

// NewMetricsWith registers on the given registerer. Tests pass a fresh
// registry so repeated construction does not collide.
func NewMetricsWith(reg prometheus.Registerer, namespace string) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		ItinerariesProcessed: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "itineraries_processed_total",
			Help:      "The total number of processed itineraries",
		}),
		SegmentsNormalized: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "segments_normalized_total",
			Help:      "The total number of normalized flight segments",
		}),
		ParseErrors: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "parse_errors_total",
			Help:      "The total number of itinerary lines that failed to parse",
		}),
		ProcessingTime: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "itinerary_processing_time_seconds",
			Help:      "Time taken to process itineraries",
			Buckets:   prometheus.DefBuckets,
		}),
		ErrorsCount: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "errors_total",
			Help:      "The total number of errors",
		}, []string{"operation"}),
	}
}
