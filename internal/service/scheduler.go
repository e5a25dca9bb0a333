package service

import (
	"context"
	"fmt"
	"time"

	"github.com/schiang418/cyclescope-domain-api/config"
	"github.com/schiang418/cyclescope-domain-api/internal/strategy"
	"github.com/schiang418/cyclescope-domain-api/pkg/logger"
	"github.com/schiang418/cyclescope-domain-api/pkg/utils"

	"github.com/robfig/cron/v3"
)

type ScheduledJob struct {
	JobType  strategy.JobType `json:"job_type"`
	Spec     string           `json:"spec"`
	NextRun  time.Time        `json:"next_run"`
	PrevRun  time.Time        `json:"prev_run,omitempty"`
	Location string           `json:"location"`
}

type SchedulerService interface {
	// Start registers the configured jobs and starts the cron loop.
	Start() error
	// Stop halts the cron loop; the returned context is done once running jobs finish.
	Stop() context.Context
	Jobs() []ScheduledJob
	RunJobTask(ctx context.Context, jobType strategy.JobType) (strategy.JobResult, error)
}

type schedulerService struct {
	cfg          *config.Config
	log          *logger.Logger
	cron         *cron.Cron
	taskExecutor TaskExecutor
	entries      map[cron.EntryID]strategy.JobType
	specs        map[cron.EntryID]string
}

func NewSchedulerService(cfg *config.Config, log *logger.Logger, taskExecutor TaskExecutor) SchedulerService {
	cronLog := &cronLogger{log: log}
	return &schedulerService{
		cfg: cfg,
		log: log,
		cron: cron.New(
			cron.WithLocation(cfg.Scheduler.Location()),
			cron.WithParser(cron.NewParser(cron.Minute|cron.Hour|cron.Dom|cron.Month|cron.Dow|cron.Descriptor)),
			cron.WithChain(cron.Recover(cronLog), cron.SkipIfStillRunning(cronLog)),
			cron.WithLogger(cronLog),
		),
		taskExecutor: taskExecutor,
		entries:      make(map[cron.EntryID]strategy.JobType),
		specs:        make(map[cron.EntryID]string),
	}
}

func (s *schedulerService) Start() error {
	jobs := []struct {
		jobType strategy.JobType
		spec    string
	}{
		{jobType: strategy.JobTypeDomainAnalysisBatch, spec: s.cfg.Scheduler.BatchCron},
		{jobType: strategy.JobTypeDataCleanUp, spec: s.cfg.Scheduler.CleanupCron},
	}

	for _, job := range jobs {
		if job.spec == "" {
			s.log.Info("Job has no schedule, skipping", logger.StringField("job_type", string(job.jobType)))
			continue
		}
		jobType := job.jobType
		id, err := s.cron.AddFunc(job.spec, func() {
			s.runScheduled(jobType)
		})
		if err != nil {
			return fmt.Errorf("failed to schedule %s with %q: %w", jobType, job.spec, err)
		}
		s.entries[id] = jobType
		s.specs[id] = job.spec
	}

	s.cron.Start()
	for _, job := range s.Jobs() {
		s.log.Info("Job scheduled",
			logger.StringField("job_type", string(job.JobType)),
			logger.StringField("spec", job.Spec),
			logger.StringField("next_run", job.NextRun.Format(time.RFC3339)),
		)
	}
	return nil
}

func (s *schedulerService) Stop() context.Context {
	return s.cron.Stop()
}

func (s *schedulerService) Jobs() []ScheduledJob {
	var jobs []ScheduledJob
	for _, entry := range s.cron.Entries() {
		jobs = append(jobs, ScheduledJob{
			JobType:  s.entries[entry.ID],
			Spec:     s.specs[entry.ID],
			NextRun:  entry.Next,
			PrevRun:  entry.Prev,
			Location: s.cfg.Scheduler.Location().String(),
		})
	}
	return jobs
}

func (s *schedulerService) RunJobTask(ctx context.Context, jobType strategy.JobType) (strategy.JobResult, error) {
	s.log.InfoContext(ctx, "Running job task", logger.StringField("job_type", string(jobType)))
	return s.taskExecutor.Execute(ctx, jobType)
}

func (s *schedulerService) runScheduled(jobType strategy.JobType) {
	timeout := s.cfg.Scheduler.JobTimeout
	if timeout <= 0 {
		timeout = time.Hour
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	log := s.log.With(logger.StringField("job_type", string(jobType)), logger.StringField("started_at", utils.PrettyDate(time.Now().In(s.cfg.Scheduler.Location()))))
	ctx = logger.NewContext(ctx, log)

	if _, err := s.taskExecutor.Execute(ctx, jobType); err != nil {
		log.ErrorContextWithAlert(ctx, "Scheduled job failed", logger.ErrorField(err))
	}
}

// cronLogger adapts the zap logger to cron.Logger.
type cronLogger struct {
	log *logger.Logger
}

func (c *cronLogger) Info(msg string, keysAndValues ...interface{}) {
	c.log.Sugar().Debugw("cron: "+msg, keysAndValues...)
}

func (c *cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	c.log.Sugar().Errorw("cron: "+msg, append(keysAndValues, "error", err)...)
}
