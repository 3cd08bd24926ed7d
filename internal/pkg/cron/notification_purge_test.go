package cron

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubPurger struct {
	olderThan time.Duration
	err       error
}

func (p *stubPurger) PurgeRead(ctx context.Context, olderThan time.Duration) (int64, error) {
	p.olderThan = olderThan
	return 3, p.err
}

func TestNotificationPurgeJobs(t *testing.T) {
	purger := &stubPurger{}
	jobs := NewNotificationPurgeJobs(purger, time.Hour, 30*24*time.Hour, nil)

	s := NewScheduler(nil)
	jobs.RegisterJobs(s)
	require.Len(t, s.Jobs(), 1)
	assert.Equal(t, "purge_read_notifications", s.Jobs()[0].Name)
	assert.Equal(t, time.Hour, s.Jobs()[0].Interval)

	require.NoError(t, jobs.PurgeReadNotifications(context.Background()))
	assert.Equal(t, 30*24*time.Hour, purger.olderThan)

	purger.err = errors.New("db down")
	assert.ErrorContains(t, jobs.PurgeReadNotifications(context.Background()), "db down")
}
