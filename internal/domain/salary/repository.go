package salary

import "context"

// PolicyRepository - one policy per (worker, workplace) pairing
type PolicyRepository interface {
	Create(ctx context.Context, policy Policy) (Policy, error)
	Update(ctx context.Context, policy Policy) (Policy, error)
	GetByWorkerAndWorkplace(ctx context.Context, workerID, workplaceID string) (Policy, error)
	ListByWorkplace(ctx context.Context, workplaceID string) ([]Policy, error)
}
