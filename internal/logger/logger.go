package logger

import (
	"context"
	"github.com/maxaizer/job-monitor/internal/config"
	"github.com/maxaizer/job-monitor/pkg/loki"
	log "github.com/sirupsen/logrus"
	"io"
	"os"
	"path/filepath"
)

const ErrorTypeField = "error_type"
const SourceField = "source"

const (
	ErrorTypeDb          = "db"
	ErrorTypeSource      = "source"
	ErrorTypeGazetteer   = "gazetteer"
	ErrorTypePreferences = "preferences"
	ErrorTypeSmtp        = "smtp"
	ErrorTypeTgApi       = "tg_api"
)

var (
	logFile    *os.File
	lokiPusher *loki.Pusher
)

func Setup(ctx context.Context, cfg config.LoggerConfig) {

	if err := os.MkdirAll(filepath.Dir(cfg.OutputFile), 0755); err != nil {
		log.Fatalf("Failed to create log directory: %v", err)
	}

	var err error
	logFile, err = os.OpenFile(cfg.OutputFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		log.Fatalf("Failed to open log file: %v", err)
	}

	multiWriter := io.MultiWriter(os.Stdout, logFile)
	log.SetOutput(multiWriter)

	customFormatter := &log.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02T15:04:05.000 -0700",
	}
	log.SetFormatter(customFormatter)
	log.SetLevel(toLogrusLevel(cfg.LogLevel))

	addPrometheusHook()

	if cfg.LokiURL == "" {
		return
	}

	lokiPusher, err = addLokiHook(ctx, loki.Config{
		Url:      cfg.LokiURL,
		Labels:   map[string]string{"app": cfg.AppName},
		Username: cfg.LokiUser,
		Password: cfg.LokiPassword,
	}, log.InfoLevel)
	if err != nil {
		log.Errorf("Failed to enable Loki logging: %v", err)
	}
}

func toLogrusLevel(level config.Level) log.Level {
	switch level {
	case config.LevelInfo:
		return log.InfoLevel
	case config.LevelDebug:
		return log.DebugLevel
	case config.LevelWarning:
		return log.WarnLevel
	case config.LevelError:
		return log.ErrorLevel
	case config.LevelFatal:
		return log.FatalLevel
	default:
		return log.InfoLevel
	}
}

func Cleanup() {
	if lokiPusher != nil {
		lokiPusher.Stop()
	}
	if logFile != nil {
		_ = logFile.Close()
	}
}
