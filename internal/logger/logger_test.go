package logger

import (
	"github.com/maxaizer/job-monitor/internal/config"
	"github.com/maxaizer/job-monitor/internal/metrics"
	"github.com/maxaizer/job-monitor/pkg/loki"
	"github.com/prometheus/client_golang/prometheus/testutil"
	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"testing"
)

type recordingPusher struct {
	entries []loki.LogEntry
}

func (p *recordingPusher) Push(e loki.LogEntry) error {
	p.entries = append(p.entries, e)
	return nil
}

func Test_LokiHook_ShouldForwardFieldsAndSkipOwnErrors(t *testing.T) {
	pusher := &recordingPusher{}
	hook := &lokiHook{pusher: pusher, minLevel: log.InfoLevel}

	entry := log.WithFields(log.Fields{ErrorTypeField: ErrorTypeSource, SourceField: "capa"})
	entry.Level = log.ErrorLevel
	entry.Message = "fetch failed"
	require.NoError(t, hook.Fire(entry))

	own := log.WithField(SourceField, lokiSource)
	own.Level = log.ErrorLevel
	require.NoError(t, hook.Fire(own))

	require.Len(t, pusher.entries, 1)
	assert.Equal(t, "error", pusher.entries[0].Level)
	assert.Equal(t, ErrorTypeSource, pusher.entries[0].ErrorType)
	assert.Equal(t, "capa", pusher.entries[0].Source)
}

func Test_LokiHook_Levels_ShouldStopAtMinLevel(t *testing.T) {
	hook := &lokiHook{minLevel: log.WarnLevel}

	assert.Contains(t, hook.Levels(), log.ErrorLevel)
	assert.Contains(t, hook.Levels(), log.WarnLevel)
	assert.NotContains(t, hook.Levels(), log.InfoLevel)
}

func Test_PrometheusHook_ShouldCountByErrorType(t *testing.T) {
	hook := &prometheusHook{}
	before := testutil.ToFloat64(metrics.ErrorsCounter.WithLabelValues(ErrorTypeSmtp))

	require.NoError(t, hook.Fire(log.WithField(ErrorTypeField, ErrorTypeSmtp)))

	assert.Equal(t, before+1, testutil.ToFloat64(metrics.ErrorsCounter.WithLabelValues(ErrorTypeSmtp)))
}

func Test_ToLogrusLevel(t *testing.T) {
	assert.Equal(t, log.DebugLevel, toLogrusLevel(config.LevelDebug))
	assert.Equal(t, log.WarnLevel, toLogrusLevel(config.LevelWarning))
	assert.Equal(t, log.InfoLevel, toLogrusLevel("VERBOSE"))
}

func Test_ErrorTypeOf(t *testing.T) {
	assert.Equal(t, ErrorTypeDb, errorTypeOf(log.WithField(ErrorTypeField, ErrorTypeDb)))
	assert.Equal(t, lokiSource, errorTypeOf(log.WithField(SourceField, lokiSource)))
	assert.Equal(t, untypedError, errorTypeOf(log.WithField(SourceField, "capa")))
}
