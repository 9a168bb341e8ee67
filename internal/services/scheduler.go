package services

import (
	"context"
	"github.com/pkg/errors"
	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"
	"sync"
	"time"
)

type pipelineRunner interface {
	Run(ctx context.Context) (RunSummary, error)
}

type digestRunner interface {
	Send(ctx context.Context) (DigestSummary, error)
}

type ScheduleConfig struct {
	Pipeline   string
	Digest     string
	Location   *time.Location
	RunAtStart bool
}

// Scheduler triggers pipeline runs and digest sends on cron schedules. A job that is
// still running when its next tick arrives is skipped, so runs never overlap.
type Scheduler struct {
	cron        *cron.Cron
	ctx         context.Context
	cancel      context.CancelFunc
	pipelineJob cron.Job
	runAtStart  bool
	startRun    sync.WaitGroup
}

func NewScheduler(cfg ScheduleConfig, pipeline pipelineRunner, digest digestRunner) (*Scheduler, error) {

	if pipeline == nil || digest == nil {
		return nil, errors.New("scheduler needs a pipeline and a digest sender")
	}
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}

	cronLogger := cron.PrintfLogger(log.StandardLogger())
	ctx, cancel := context.WithCancel(context.Background())

	s := &Scheduler{
		cron:       cron.New(cron.WithLocation(cfg.Location), cron.WithLogger(cronLogger)),
		ctx:        ctx,
		cancel:     cancel,
		runAtStart: cfg.RunAtStart,
	}

	chain := cron.NewChain(cron.Recover(cronLogger), cron.SkipIfStillRunning(cronLogger))
	s.pipelineJob = chain.Then(cron.FuncJob(func() {
		_, _ = pipeline.Run(s.ctx)
	}))
	digestJob := chain.Then(cron.FuncJob(func() {
		_, _ = digest.Send(s.ctx)
	}))

	if _, err := s.cron.AddJob(cfg.Pipeline, s.pipelineJob); err != nil {
		cancel()
		return nil, errors.Wrapf(err, "invalid pipeline schedule %q", cfg.Pipeline)
	}
	if _, err := s.cron.AddJob(cfg.Digest, digestJob); err != nil {
		cancel()
		return nil, errors.Wrapf(err, "invalid digest schedule %q", cfg.Digest)
	}

	return s, nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
	log.Info("scheduler started")

	if s.runAtStart {
		s.startRun.Add(1)
		go func() {
			defer s.startRun.Done()
			s.pipelineJob.Run()
		}()
	}
}

// RunPipelineNow triggers a pipeline run unless one is already in progress.
func (s *Scheduler) RunPipelineNow() {
	s.pipelineJob.Run()
}

// Stop cancels running jobs and waits for them to return.
func (s *Scheduler) Stop() {
	stopped := s.cron.Stop()
	s.cancel()
	<-stopped.Done()
	s.startRun.Wait()
}
