package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/cmlabs-hris/shiftpay-backend-go/internal/domain/workplace"
)

type WorkplaceRepository struct {
	mu         sync.RWMutex
	workplaces map[string]workplace.Workplace
	members    map[string][]workplace.Member
}

func NewWorkplaceRepository() *WorkplaceRepository {
	return &WorkplaceRepository{
		workplaces: make(map[string]workplace.Workplace),
		members:    make(map[string][]workplace.Member),
	}
}

// Add stores w and enrolls the given workers as members.
func (r *WorkplaceRepository) Add(w workplace.Workplace, workerIDs ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	if w.CreatedAt.IsZero() {
		w.CreatedAt = now
		w.UpdatedAt = now
	}
	r.workplaces[w.ID] = w
	for _, id := range workerIDs {
		r.members[w.ID] = append(r.members[w.ID], workplace.Member{WorkplaceID: w.ID, WorkerID: id, JoinedAt: now})
	}
}

func (r *WorkplaceRepository) GetByID(ctx context.Context, id string) (workplace.Workplace, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	w, ok := r.workplaces[id]
	if !ok {
		return workplace.Workplace{}, workplace.ErrWorkplaceNotFound
	}
	return w, nil
}

func (r *WorkplaceRepository) ListByOwner(ctx context.Context, ownerID string) ([]workplace.Workplace, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]workplace.Workplace, 0)
	for _, w := range r.workplaces {
		if w.OwnerID == ownerID {
			out = append(out, w)
		}
	}
	sortWorkplaces(out)
	return out, nil
}

func (r *WorkplaceRepository) ListByWorker(ctx context.Context, workerID string) ([]workplace.Workplace, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]workplace.Workplace, 0)
	for id, members := range r.members {
		for _, m := range members {
			if m.WorkerID == workerID {
				out = append(out, r.workplaces[id])
				break
			}
		}
	}
	sortWorkplaces(out)
	return out, nil
}

func (r *WorkplaceRepository) ListMembers(ctx context.Context, workplaceID string) ([]workplace.Member, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return append([]workplace.Member{}, r.members[workplaceID]...), nil
}

func (r *WorkplaceRepository) IsMember(ctx context.Context, workplaceID, workerID string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, m := range r.members[workplaceID] {
		if m.WorkerID == workerID {
			return true, nil
		}
	}
	return false, nil
}

func (r *WorkplaceRepository) CountAll(ctx context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.workplaces), nil
}

// WeeklyRestDay serves the holiday calendar from the stored workplaces.
func (r *WorkplaceRepository) WeeklyRestDay(ctx context.Context, workplaceID string) (*string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	w, ok := r.workplaces[workplaceID]
	if !ok {
		return nil, workplace.ErrWorkplaceNotFound
	}
	return w.WeeklyRestDay, nil
}

func sortWorkplaces(ws []workplace.Workplace) {
	sort.Slice(ws, func(i, j int) bool { return ws[i].Name < ws[j].Name })
}
