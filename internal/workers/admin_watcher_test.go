package workers

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/praveensuthar2105/Ai-Resume-Builder/internal/models"
	"github.com/praveensuthar2105/Ai-Resume-Builder/internal/utils"
)

type scriptedSource struct {
	mu    sync.Mutex
	errs  []error
	calls int
}

func (s *scriptedSource) Snapshot(ctx context.Context) (models.AdminSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.calls
	s.calls++
	if i < len(s.errs) && s.errs[i] != nil {
		return models.AdminSnapshot{}, s.errs[i]
	}
	return models.AdminSnapshot{Stats: models.UserStats{TotalUsers: i + 1}}, nil
}

func TestAdminWatcherStopsWhenAccessIsRevoked(t *testing.T) {
	revoked := utils.E(utils.CodeForbidden, "AdminService.Verify", "admin privileges have been revoked", nil)
	src := &scriptedSource{errs: []error{nil, errors.New("network blip"), revoked}}

	var snaps []models.AdminSnapshot
	var soft []error
	w := &AdminWatcher{
		Source:     src,
		Interval:   5 * time.Millisecond,
		Logger:     quietLogger(),
		OnSnapshot: func(s models.AdminSnapshot) { snaps = append(snaps, s) },
		OnError:    func(err error) { soft = append(soft, err) },
	}

	err := w.Run(context.Background())
	require.Error(t, err)
	assert.True(t, utils.IsCode(err, utils.CodeForbidden))
	require.Len(t, snaps, 1)
	assert.Equal(t, 1, snaps[0].Stats.TotalUsers)
	require.Len(t, soft, 1)
	assert.Equal(t, 3, src.calls)
}

func TestAdminWatcherEndsWithContext(t *testing.T) {
	src := &scriptedSource{}
	ctx, cancel := context.WithCancel(context.Background())

	w := &AdminWatcher{
		Source:   src,
		Interval: time.Hour,
		Logger:   quietLogger(),
		OnSnapshot: func(models.AdminSnapshot) {
			cancel()
		},
	}
	assert.NoError(t, w.Run(ctx))
	assert.Equal(t, 1, src.calls)
}
