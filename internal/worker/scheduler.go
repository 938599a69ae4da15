package worker

import (
	"context"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// Job is a unit of periodic work.
type Job interface {
	Name() string
	Run()
}

// Scheduler runs registered jobs on cron schedules.
type Scheduler struct {
	cron *cron.Cron
	log  *logrus.Logger
}

func NewScheduler(log *logrus.Logger) *Scheduler {
	cronLogger := cron.PrintfLogger(log)
	c := cron.New(cron.WithChain(cron.Recover(cronLogger)))

	return &Scheduler{
		cron: c,
		log:  log,
	}
}

// Register adds job on a cron schedule. An invalid schedule is logged and returned.
func (s *Scheduler) Register(schedule string, job Job) error {
	if _, err := s.cron.AddFunc(schedule, job.Run); err != nil {
		s.log.Errorf("Failed to schedule %s job: %v", job.Name(), err)
		return err
	}
	s.log.Infof("Scheduled %s job (%s)", job.Name(), schedule)
	return nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop halts scheduling; the returned context is done once running jobs finish.
func (s *Scheduler) Stop() context.Context {
	return s.cron.Stop()
}
