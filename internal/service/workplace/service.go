package workplace

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/shiftpay-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/shiftpay-backend-go/internal/domain/workplace"
)

type WorkplaceServiceImpl struct {
	workplace.Repository
}

func NewWorkplaceService(repo workplace.Repository) workplace.Service {
	return &WorkplaceServiceImpl{Repository: repo}
}

// ListForViewer implements workplace.Service. Owners see what they own,
// workers what they belong to, admins nothing here.
func (s *WorkplaceServiceImpl) ListForViewer(ctx context.Context, viewer user.Viewer) ([]workplace.WorkplaceResponse, error) {
	var (
		list []workplace.Workplace
		err  error
	)
	switch viewer.Role {
	case user.RoleOwner:
		list, err = s.Repository.ListByOwner(ctx, viewer.UserID)
	case user.RoleWorker:
		list, err = s.Repository.ListByWorker(ctx, viewer.UserID)
	case user.RoleAdmin:
		return []workplace.WorkplaceResponse{}, nil
	default:
		return nil, user.ErrInvalidRole
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list workplaces: %w", err)
	}

	out := make([]workplace.WorkplaceResponse, len(list))
	for i, w := range list {
		out[i] = workplace.ToResponse(w)
	}
	return out, nil
}

// Authorize implements workplace.Service.
func (s *WorkplaceServiceImpl) Authorize(ctx context.Context, viewer user.Viewer, workplaceID string, allowWorker bool) (workplace.Workplace, error) {
	if workplaceID == "" {
		return workplace.Workplace{}, workplace.ErrWorkplaceIDRequired
	}

	w, err := s.Repository.GetByID(ctx, workplaceID)
	if err != nil {
		if errors.Is(err, workplace.ErrWorkplaceNotFound) {
			return workplace.Workplace{}, err
		}
		return workplace.Workplace{}, fmt.Errorf("failed to get workplace: %w", err)
	}

	switch viewer.Role {
	case user.RoleOwner:
		if w.OwnerID != viewer.UserID {
			return workplace.Workplace{}, workplace.ErrNotWorkplaceOwner
		}
		return w, nil
	case user.RoleWorker:
		if !allowWorker {
			return workplace.Workplace{}, user.ErrOwnerAccessRequired
		}
		ok, err := s.Repository.IsMember(ctx, workplaceID, viewer.UserID)
		if err != nil {
			return workplace.Workplace{}, fmt.Errorf("failed to check workplace membership: %w", err)
		}
		if !ok {
			return workplace.Workplace{}, workplace.ErrNotWorkplaceMember
		}
		return w, nil
	default:
		return workplace.Workplace{}, user.ErrInsufficientPermissions
	}
}
