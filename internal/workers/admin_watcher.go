package workers

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/praveensuthar2105/Ai-Resume-Builder/internal/models"
	"github.com/praveensuthar2105/Ai-Resume-Builder/internal/utils"
)

const DefaultAdminPollInterval = 30 * time.Second

// AdminSource re-verifies the admin role and returns a fresh user table.
type AdminSource interface {
	Snapshot(ctx context.Context) (models.AdminSnapshot, error)
}

// AdminWatcher refreshes the admin table immediately and then every Interval until
// ctx ends or access is lost.
type AdminWatcher struct {
	Source   AdminSource
	Interval time.Duration
	Logger   *logrus.Logger

	OnSnapshot func(models.AdminSnapshot)
	// OnError receives failures that do not stop the watcher.
	OnError func(error)
}

// Run blocks. It returns nil when ctx is done and the access error when the role
// was revoked or the session is no longer valid.
func (w *AdminWatcher) Run(ctx context.Context) error {
	if w.Source == nil {
		return errors.New("AdminWatcher missing dependency: Source must be set")
	}
	if w.Interval <= 0 {
		w.Interval = DefaultAdminPollInterval
	}
	if w.Logger == nil {
		w.Logger = logrus.New()
	}

	t := time.NewTicker(w.Interval)
	defer t.Stop()

	for {
		if err := w.tick(ctx); err != nil {
			return err
		}
		select {
		case <-ctx.Done():
			return nil
		case <-t.C:
		}
	}
}

func (w *AdminWatcher) tick(ctx context.Context) error {
	snap, err := w.Source.Snapshot(ctx)
	if err == nil {
		if w.OnSnapshot != nil {
			w.OnSnapshot(snap)
		}
		return nil
	}
	if ctx.Err() != nil {
		return nil
	}
	if utils.IsCode(err, utils.CodeForbidden) || utils.IsCode(err, utils.CodeUnauthorized) {
		w.Logger.WithError(err).Warn("admin watcher stopped: access denied")
		return err
	}
	w.Logger.WithError(err).Warn("admin refresh failed")
	if w.OnError != nil {
		w.OnError(err)
	}
	return nil
}
