package workplace

import "context"

type Repository interface {
	GetByID(ctx context.Context, id string) (Workplace, error)
	ListByOwner(ctx context.Context, ownerID string) ([]Workplace, error)
	ListByWorker(ctx context.Context, workerID string) ([]Workplace, error)
	ListMembers(ctx context.Context, workplaceID string) ([]Member, error)
	IsMember(ctx context.Context, workplaceID, workerID string) (bool, error)
	CountAll(ctx context.Context) (int, error)
}
