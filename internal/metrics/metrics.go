package metrics

import (
	"fmt"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"net/http"
	"sync"
)

var (
	ErrorsCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "job_monitor_errors_total",
			Help: "Total number of occurred errors.",
		},
		[]string{"type"},
	)
	PipelineRunDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "job_monitor_pipeline_run_duration_seconds",
			Help:    "Duration of each pipeline run in seconds.",
			Buckets: []float64{10, 30, 60, 180, 600, 1800},
		},
	)
	SourceFetchDuration = prometheus.NewSummaryVec(
		prometheus.SummaryOpts{
			Name:       "job_monitor_source_fetch_duration_seconds",
			Help:       "Duration of fetching one source.",
			Objectives: map[float64]float64{0.5: 0.05, 0.9: 0.01, 0.99: 0.001},
		},
		[]string{"source"},
	)
	SourceFailuresCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "job_monitor_source_failures_total",
			Help: "Total number of failed source fetches.",
		},
		[]string{"source"},
	)
	PostingsEnrichedCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "job_monitor_postings_enriched_total",
			Help: "Total number of new postings enriched and stored.",
		},
	)
	QueueEntriesInsertedCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "job_monitor_queue_entries_inserted_total",
			Help: "Total number of postings queued for subscribers.",
		},
	)
	DigestsSentCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "job_monitor_digests_sent_total",
			Help: "Total number of delivered digest emails.",
		},
	)
	DigestsFailedCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "job_monitor_digests_failed_total",
			Help: "Total number of digest emails that could not be delivered.",
		},
	)
)

var registerOnce sync.Once

func register() {
	registerOnce.Do(func() {
		prometheus.MustRegister(ErrorsCounter)
		prometheus.MustRegister(PipelineRunDuration)
		prometheus.MustRegister(SourceFetchDuration)
		prometheus.MustRegister(SourceFailuresCounter)
		prometheus.MustRegister(PostingsEnrichedCounter)
		prometheus.MustRegister(QueueEntriesInsertedCounter)
		prometheus.MustRegister(DigestsSentCounter)
		prometheus.MustRegister(DigestsFailedCounter)
	})
}

func StartMetricsServer(port int) {

	register()

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	go func() {
		log.Fatal(http.ListenAndServe(fmt.Sprintf(":%d", port), mux))
	}()
}
