package task

import (
	"github.com/Vampire-js/techfiesta/internal/app"
	"github.com/Vampire-js/techfiesta/pkg/safe_close"

	"go.uber.org/zap"
)

// Manager creates and schedules every background task from the app
// container.
type Manager struct {
	scheduler *Scheduler
	logger    *zap.Logger
}

func NewManager(logger *zap.Logger, sc *safe_close.SafeClose) *Manager {
	return &Manager{
		scheduler: NewScheduler(logger, sc),
		logger:    logger,
	}
}

// RegisterTasks wires the tasks against the container's services.
func (m *Manager) RegisterTasks(a *app.App) {
	cleanup := NewDocumentCleanupTask(
		a.DocumentService,
		a.Config().GetSoftDeleteRetention(),
		m.logger,
	)
	if cleanup != nil {
		m.scheduler.AddTask(cleanup)
	} else {
		m.logger.Info("document cleanup task is disabled (retention time not configured)")
	}
}

// Start launches all registered tasks.
func (m *Manager) Start() error {
	return m.scheduler.Start()
}
