package shift

import (
	"context"
	"time"
)

// ListFilter - nil/empty fields are not filtered on. From/To bound WorkDate as [From, To).
type ListFilter struct {
	WorkerID    *string
	WorkplaceID *string
	From        time.Time
	To          time.Time
}

type Repository interface {
	Create(ctx context.Context, s *Shift) error
	Update(ctx context.Context, s Shift) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (Shift, error)
	List(ctx context.Context, filter ListFilter) ([]Shift, error)
	Count(ctx context.Context, filter ListFilter) (int, error)

	// HasOverlap reports whether the worker has a shift whose scheduled
	// interval intersects [start, end), ignoring excludeID.
	HasOverlap(ctx context.Context, workerID string, start, end time.Time, excludeID string) (bool, error)

	// WithWorkerLock runs fn while holding the worker's single-writer lock.
	// Repository calls made with the ctx passed to fn join the locked scope.
	WithWorkerLock(ctx context.Context, workerID string, fn func(ctx context.Context) error) error

	// ListStartingBetween returns shifts starting in (from, to] with no alarm sent yet.
	ListStartingBetween(ctx context.Context, from, to time.Time) ([]Shift, error)
	MarkAlarmSent(ctx context.Context, ids []string, at time.Time) error
}
