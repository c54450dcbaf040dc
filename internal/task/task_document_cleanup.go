package task

import (
	"context"
	"time"

	"github.com/Vampire-js/techfiesta/internal/service"

	"go.uber.org/zap"
)

// DocumentCleanupTask purges soft-deleted documents once their retention
// window has passed.
type DocumentCleanupTask struct {
	documentService service.DocumentService
	retention       time.Duration
	logger          *zap.Logger
}

// NewDocumentCleanupTask returns nil when retention is zero, which
// disables the cleanup entirely.
func NewDocumentCleanupTask(documentService service.DocumentService, retention time.Duration, logger *zap.Logger) *DocumentCleanupTask {
	if retention <= 0 {
		return nil
	}
	return &DocumentCleanupTask{
		documentService: documentService,
		retention:       retention,
		logger:          logger,
	}
}

func (t *DocumentCleanupTask) Name() string {
	return "DocumentCleanupTask"
}

func (t *DocumentCleanupTask) Spec() string {
	return "@every 10m"
}

func (t *DocumentCleanupTask) IsStartupRun() bool {
	return true
}

func (t *DocumentCleanupTask) Run(ctx context.Context) error {
	cutoff := time.Now().Add(-t.retention).Unix()
	purged, err := t.documentService.PurgeDeletedBefore(ctx, cutoff)
	if err != nil {
		return err
	}
	if purged > 0 {
		t.logger.Info("purged soft-deleted documents", zap.Int64("count", purged))
	}
	return nil
}
