package main

import (
	"context"
	"github.com/asaskevich/EventBus"
	"github.com/maxaizer/job-monitor/internal/clients/platsbanken"
	"github.com/maxaizer/job-monitor/internal/config"
	"github.com/maxaizer/job-monitor/internal/delivery"
	"github.com/maxaizer/job-monitor/internal/enrichment"
	"github.com/maxaizer/job-monitor/internal/logger"
	"github.com/maxaizer/job-monitor/internal/metrics"
	"github.com/maxaizer/job-monitor/internal/repositories"
	"github.com/maxaizer/job-monitor/internal/services"
	"github.com/maxaizer/job-monitor/internal/sources"
	log "github.com/sirupsen/logrus"
	"net/http"
	"os/signal"
	"syscall"
)

func buildSources(cfg config.PipelineConfig) []sources.Source {
	httpClient := &http.Client{Timeout: cfg.HTTPTimeout}
	limiter := sources.NewHostLimiter(cfg.RequestsPerSecond, 1)

	var platsbankenSource *sources.Platsbanken
	if keywords := cfg.Keywords(); len(keywords) > 0 {
		client := platsbanken.NewClient()
		client.SetHTTPClient(httpClient)
		client.SetRateLimit(cfg.RequestsPerSecond)
		platsbankenSource = sources.NewPlatsbanken(client, keywords, cfg.PlatsbankenLimit)
	}

	return sources.Build(cfg.EnabledSources, httpClient, limiter, platsbankenSource)
}

func runTelegram(cfg config.TelegramConfig, bus EventBus.Bus) {
	if !cfg.Enabled() {
		log.Info("Telegram alerts disabled (no token configured)")
		return
	}

	api, err := delivery.NewTelegramAPI(cfg.Token)
	if err != nil {
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeTgApi).Errorf("can't connect to telegram, alerts disabled: %v", err)
		return
	}

	_, err = delivery.NewTelegramNotifier(api, bus, cfg.MaxMessagesPerSecond, cfg.MaxPostingsPerMessage)
	if err != nil {
		log.Fatalf("can't create telegram notifier: %v", err)
	}
}

func main() {

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.Get()

	logger.Setup(ctx, cfg.Logger)
	defer logger.Cleanup()

	metrics.StartMetricsServer(cfg.Metrics.Port)

	dbContext, err := repositories.NewDbContext(cfg.DB.ConnectionString)
	if err != nil {
		log.Fatalf("can't create db context: %v", err)
	}
	defer dbContext.Close()

	err = dbContext.Migrate()
	if err != nil {
		log.Fatalf("can't migrate db context: %v", err)
	}

	subscribers := repositories.NewSubscribersRepository(dbContext.DB)
	queue := repositories.NewQueueRepository(dbContext.DB)

	gazetteer := enrichment.NewGazetteer(repositories.NewLocationsRepository(dbContext.DB))
	resolver := enrichment.NewCachedResolver(enrichment.NewLocationResolver(gazetteer), cfg.Pipeline.LocationCacheTTL)
	enricher := enrichment.NewEnricher(resolver, enrichment.NewCountryTable(cfg.Pipeline.SourceCountries))

	bus := EventBus.New()
	runTelegram(cfg.Telegram, bus)

	pipeline, err := services.NewPipeline(bus, buildSources(cfg.Pipeline), enricher, services.PipelineRepositories{
		Subscribers:    subscribers,
		Postings:       repositories.NewPostingsRepository(dbContext.DB),
		Queue:          queue,
		SourceStatuses: repositories.NewSourceStatusesRepository(dbContext.DB),
	})
	if err != nil {
		log.Fatalf("can't create pipeline: %v", err)
	}

	digestSender, err := services.NewDigestSender(subscribers, queue, delivery.NewMailer(cfg.SMTP), cfg.Digest.Location())
	if err != nil {
		log.Fatalf("can't create digest sender: %v", err)
	}

	cleaner, err := services.NewQueueCleaner(queue, cfg.Digest.RetentionDays, cfg.Digest.CleanupSchedule, cfg.Digest.Location())
	if err != nil {
		log.Fatalf("can't create queue cleaner: %v", err)
	}
	cleaner.Start()

	scheduler, err := services.NewScheduler(services.ScheduleConfig{
		Pipeline:   cfg.Pipeline.Schedule,
		Digest:     cfg.Digest.Schedule,
		Location:   cfg.Digest.Location(),
		RunAtStart: cfg.Pipeline.RunAtStart,
	}, pipeline, digestSender)
	if err != nil {
		log.Fatalf("can't create scheduler: %v", err)
	}
	scheduler.Start()

	<-ctx.Done()

	log.Info("Shutting down services...")
	scheduler.Stop()
	cleaner.Stop()
	bus.WaitAsync()
	log.Info("Services stopped.")
}
