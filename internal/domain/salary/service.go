package salary

import "context"

type Service interface {
	CreatePolicy(ctx context.Context, req CreatePolicyRequest) (PolicyResponse, error)
	GetPolicy(ctx context.Context, workerID, workplaceID string) (PolicyResponse, error)
	ListPolicies(ctx context.Context, workplaceID string) ([]PolicyResponse, error)
	UpdatePolicy(ctx context.Context, req UpdatePolicyRequest) (PolicyResponse, error)
}
