// Package task runs the background maintenance jobs.
package task

import (
	"context"
	"time"

	"github.com/Vampire-js/techfiesta/pkg/safe_close"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Task is one scheduled job.
type Task interface {
	Name() string
	Run(ctx context.Context) error
	// Spec is the cron schedule, e.g. "@every 10m".
	Spec() string
	// IsStartupRun runs the task once right after start.
	IsStartupRun() bool
}

// Scheduler drives tasks through a cron runner and stops them on the
// shutdown signal.
type Scheduler struct {
	logger *zap.Logger
	cron   *cron.Cron
	tasks  []Task
	sc     *safe_close.SafeClose
}

func NewScheduler(logger *zap.Logger, sc *safe_close.SafeClose) *Scheduler {
	return &Scheduler{
		logger: logger,
		cron:   cron.New(),
		tasks:  make([]Task, 0),
		sc:     sc,
	}
}

func (s *Scheduler) AddTask(task Task) {
	s.tasks = append(s.tasks, task)
}

// Start schedules every task and ties the runner to the close signal.
func (s *Scheduler) Start() error {
	if len(s.tasks) == 0 {
		s.logger.Info("no tasks to schedule")
		return nil
	}

	for _, t := range s.tasks {
		task := t
		if task.IsStartupRun() {
			go s.runOnce(task, "startup")
		}
		if _, err := s.cron.AddFunc(task.Spec(), func() {
			s.runOnce(task, "scheduled")
		}); err != nil {
			return err
		}
		s.logger.Info("task scheduled",
			zap.String("name", task.Name()),
			zap.String("spec", task.Spec()))
	}

	s.cron.Start()

	s.sc.Attach(func(done func(), closeSignal <-chan struct{}) {
		defer done()
		<-closeSignal
		ctx := s.cron.Stop()
		select {
		case <-ctx.Done():
		case <-time.After(30 * time.Second):
			s.logger.Warn("task scheduler stop timed out")
		}
		s.logger.Info("task scheduler stopped")
	})

	return nil
}

func (s *Scheduler) runOnce(task Task, mode string) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("task panic",
				zap.String("name", task.Name()),
				zap.Any("panic", r),
				zap.Stack("stack"))
		}
	}()

	if err := task.Run(context.Background()); err != nil {
		s.logger.Error("task run error",
			zap.String("name", task.Name()),
			zap.String("mode", mode),
			zap.Error(err))
		return
	}
	s.logger.Info("task completed",
		zap.String("name", task.Name()),
		zap.String("mode", mode))
}
