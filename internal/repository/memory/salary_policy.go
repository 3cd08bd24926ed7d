package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/cmlabs-hris/shiftpay-backend-go/internal/domain/salary"
	"github.com/google/uuid"
)

type PolicyRepository struct {
	mu       sync.RWMutex
	policies map[string]salary.Policy // keyed by worker|workplace
}

func NewPolicyRepository() *PolicyRepository {
	return &PolicyRepository{policies: make(map[string]salary.Policy)}
}

func policyKey(workerID, workplaceID string) string {
	return workerID + "|" + workplaceID
}

func (r *PolicyRepository) Create(ctx context.Context, p salary.Policy) (salary.Policy, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := policyKey(p.WorkerID, p.WorkplaceID)
	if _, ok := r.policies[key]; ok {
		return salary.Policy{}, salary.ErrPolicyExists
	}
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	now := time.Now()
	p.CreatedAt = now
	p.UpdatedAt = now
	r.policies[key] = p
	return p, nil
}

func (r *PolicyRepository) Update(ctx context.Context, p salary.Policy) (salary.Policy, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := policyKey(p.WorkerID, p.WorkplaceID)
	existing, ok := r.policies[key]
	if !ok {
		return salary.Policy{}, salary.ErrPolicyNotFound
	}
	p.ID = existing.ID
	p.CreatedAt = existing.CreatedAt
	p.UpdatedAt = time.Now()
	r.policies[key] = p
	return p, nil
}

func (r *PolicyRepository) GetByWorkerAndWorkplace(ctx context.Context, workerID, workplaceID string) (salary.Policy, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.policies[policyKey(workerID, workplaceID)]
	if !ok {
		return salary.Policy{}, salary.ErrPolicyNotFound
	}
	return p, nil
}

func (r *PolicyRepository) ListByWorkplace(ctx context.Context, workplaceID string) ([]salary.Policy, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]salary.Policy, 0)
	for _, p := range r.policies {
		if p.WorkplaceID == workplaceID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].WorkerID < out[j].WorkerID })
	return out, nil
}
