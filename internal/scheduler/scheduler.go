// Package scheduler runs periodic jobs through the mediator.
package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"

	"saas_admin/internal/app"
	"saas_admin/internal/mediator"
	"saas_admin/internal/platform/ctxutil"
	"saas_admin/internal/platform/logger"
)

const PublishScheduledContentJob = "publish-scheduled-content"

const jobTimeout = 5 * time.Minute

type Scheduler struct {
	cron *cron.Cron
	m    *mediator.Mediator
	log  *logger.Logger
	base context.Context
	stop context.CancelFunc
}

func New(m *mediator.Mediator, log *logger.Logger) *Scheduler {
	cronLog := cron.PrintfLogger(log)
	c := cron.New(cron.WithChain(
		cron.Recover(cronLog),
		cron.SkipIfStillRunning(cronLog),
	))
	base, stop := context.WithCancel(context.Background())
	return &Scheduler{cron: c, m: m, log: log, base: base, stop: stop}
}

// AddContentPublishing registers the job that publishes content whose scheduled date has passed.
func (s *Scheduler) AddContentPublishing(spec string) error {
	_, err := s.cron.AddFunc(spec, func() { s.PublishDueContent() })
	if err != nil {
		s.log.Error("failed to schedule job", "job", PublishScheduledContentJob, "error", err)
		return err
	}
	s.log.Info("scheduled job", "job", PublishScheduledContentJob, "schedule", spec)
	return nil
}

// PublishDueContent runs one pass of the publishing job and returns how many items were published.
func (s *Scheduler) PublishDueContent() int {
	ctx, cancel := context.WithTimeout(s.base, jobTimeout)
	defer cancel()
	ctx = ctxutil.WithRequestData(ctx, &ctxutil.RequestData{UserID: "system"})

	n, err := mediator.Send[int](ctx, s.m, app.PublishDueContentCommand{})
	if err != nil {
		s.log.Error("job failed", "job", PublishScheduledContentJob, "error", err)
	}
	return n
}

func (s *Scheduler) Start() { s.cron.Start() }

// Stop cancels running jobs and waits for them to return or for ctx to end.
func (s *Scheduler) Stop(ctx context.Context) {
	s.stop()
	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
	}
}
