package logger

import (
	"github.com/maxaizer/job-monitor/internal/metrics"
	log "github.com/sirupsen/logrus"
)

const untypedError = "untyped"

// prometheusHook counts error-level entries by their error_type field. Failures of the
// Loki pusher itself are counted under their own type.
type prometheusHook struct{}

func (h *prometheusHook) Fire(entry *log.Entry) error {
	metrics.ErrorsCounter.WithLabelValues(errorTypeOf(entry)).Inc()
	return nil
}

func errorTypeOf(entry *log.Entry) string {
	if errorType, ok := entry.Data[ErrorTypeField].(string); ok && errorType != "" {
		return errorType
	}
	if entry.Data[SourceField] == lokiSource {
		return lokiSource
	}
	return untypedError
}

func (h *prometheusHook) Levels() []log.Level {
	return []log.Level{
		log.ErrorLevel,
		log.FatalLevel,
		log.PanicLevel,
	}
}

func addPrometheusHook() {
	log.AddHook(&prometheusHook{})
}
