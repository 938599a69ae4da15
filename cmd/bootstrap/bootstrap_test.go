package bootstrap

import (
	"io"
	"testing"

	"github.com/sirupsen/logrus"
)

type noopJob struct{}

func (noopJob) Name() string { return "noop" }
func (noopJob) Run()         {}

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func TestNewScheduler_InvalidScheduleFailsStartup(t *testing.T) {
	for _, schedule := range []string{"", "not a schedule", "61 * * * *"} {
		if scheduler, err := newScheduler(quietLogger(), schedule, noopJob{}); err == nil {
			t.Errorf("schedule %q: expected error, got scheduler %v", schedule, scheduler)
		}
	}
}

func TestNewScheduler_ValidSchedule(t *testing.T) {
	scheduler, err := newScheduler(quietLogger(), "@every 1h", noopJob{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if scheduler == nil {
		t.Fatal("expected scheduler")
	}
}
