// Package memory holds map-backed repositories for tests and offline tools.
// They honor the same contracts as the postgresql package, including the
// per-worker lock, but keep nothing across restarts.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/cmlabs-hris/shiftpay-backend-go/internal/domain/shift"
	"github.com/google/uuid"
)

type ShiftRepository struct {
	mu     sync.RWMutex
	shifts map[string]shift.Shift

	lockMu      sync.Mutex
	workerLocks map[string]*sync.Mutex

	now func() time.Time
}

func NewShiftRepository() *ShiftRepository {
	return &ShiftRepository{
		shifts:      make(map[string]shift.Shift),
		workerLocks: make(map[string]*sync.Mutex),
		now:         time.Now,
	}
}

func (r *ShiftRepository) Create(ctx context.Context, s *shift.Shift) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	now := r.now()
	s.CreatedAt = now
	s.UpdatedAt = now
	r.shifts[s.ID] = cloneShift(*s)
	return nil
}

func (r *ShiftRepository) Update(ctx context.Context, s shift.Shift) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.shifts[s.ID]
	if !ok {
		return shift.ErrShiftNotFound
	}
	s.CreatedAt = existing.CreatedAt
	s.UpdatedAt = r.now()
	r.shifts[s.ID] = cloneShift(s)
	return nil
}

func (r *ShiftRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.shifts[id]; !ok {
		return shift.ErrShiftNotFound
	}
	delete(r.shifts, id)
	return nil
}

func (r *ShiftRepository) GetByID(ctx context.Context, id string) (shift.Shift, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.shifts[id]
	if !ok {
		return shift.Shift{}, shift.ErrShiftNotFound
	}
	return cloneShift(s), nil
}

func (r *ShiftRepository) List(ctx context.Context, filter shift.ListFilter) ([]shift.Shift, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]shift.Shift, 0)
	for _, s := range r.shifts {
		if matches(s, filter) {
			out = append(out, cloneShift(s))
		}
	}
	sortShifts(out)
	return out, nil
}

func (r *ShiftRepository) Count(ctx context.Context, filter shift.ListFilter) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n := 0
	for _, s := range r.shifts {
		if matches(s, filter) {
			n++
		}
	}
	return n, nil
}

func (r *ShiftRepository) HasOverlap(ctx context.Context, workerID string, start, end time.Time, excludeID string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, s := range r.shifts {
		if s.WorkerID != workerID || s.ID == excludeID {
			continue
		}
		if s.Overlaps(start, end) {
			return true, nil
		}
	}
	return false, nil
}

func (r *ShiftRepository) WithWorkerLock(ctx context.Context, workerID string, fn func(ctx context.Context) error) error {
	r.lockMu.Lock()
	l, ok := r.workerLocks[workerID]
	if !ok {
		l = &sync.Mutex{}
		r.workerLocks[workerID] = l
	}
	r.lockMu.Unlock()

	l.Lock()
	defer l.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}
	return fn(ctx)
}

func (r *ShiftRepository) ListStartingBetween(ctx context.Context, from, to time.Time) ([]shift.Shift, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]shift.Shift, 0)
	for _, s := range r.shifts {
		if s.AlarmSentAt != nil {
			continue
		}
		if s.StartTime.After(from) && !s.StartTime.After(to) {
			out = append(out, cloneShift(s))
		}
	}
	sortShifts(out)
	return out, nil
}

func (r *ShiftRepository) MarkAlarmSent(ctx context.Context, ids []string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, id := range ids {
		s, ok := r.shifts[id]
		if !ok {
			continue
		}
		sentAt := at
		s.AlarmSentAt = &sentAt
		r.shifts[id] = s
	}
	return nil
}

func matches(s shift.Shift, f shift.ListFilter) bool {
	if f.WorkerID != nil && s.WorkerID != *f.WorkerID {
		return false
	}
	if f.WorkplaceID != nil && s.WorkplaceID != *f.WorkplaceID {
		return false
	}
	if !f.From.IsZero() && s.WorkDate.Before(f.From) {
		return false
	}
	if !f.To.IsZero() && !s.WorkDate.Before(f.To) {
		return false
	}
	return true
}

func sortShifts(shifts []shift.Shift) {
	sort.Slice(shifts, func(i, j int) bool {
		if !shifts[i].StartTime.Equal(shifts[j].StartTime) {
			return shifts[i].StartTime.Before(shifts[j].StartTime)
		}
		return shifts[i].ID < shifts[j].ID
	})
}

func cloneShift(s shift.Shift) shift.Shift {
	if s.RoutineIDs != nil {
		s.RoutineIDs = append([]string(nil), s.RoutineIDs...)
	}
	if s.FixedPay != nil {
		fp := *s.FixedPay
		s.FixedPay = &fp
	}
	return s
}
