package salary

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/shiftpay-backend-go/internal/domain/notification"
	"github.com/cmlabs-hris/shiftpay-backend-go/internal/domain/salary"
)

type SalaryServiceImpl struct {
	salary.PolicyRepository
	notifier notification.Notifier
	log      *slog.Logger
}

// NewSalaryService builds the policy service. notifier may be nil.
func NewSalaryService(repo salary.PolicyRepository, notifier notification.Notifier, logger *slog.Logger) salary.Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &SalaryServiceImpl{
		PolicyRepository: repo,
		notifier:         notifier,
		log:              logger.With("component", "salary"),
	}
}

// CreatePolicy implements salary.Service.
func (s *SalaryServiceImpl) CreatePolicy(ctx context.Context, req salary.CreatePolicyRequest) (salary.PolicyResponse, error) {
	if err := req.Validate(); err != nil {
		return salary.PolicyResponse{}, err
	}

	_, err := s.PolicyRepository.GetByWorkerAndWorkplace(ctx, req.WorkerID, req.WorkplaceID)
	if err == nil {
		return salary.PolicyResponse{}, salary.ErrPolicyExists
	}
	if !errors.Is(err, salary.ErrPolicyNotFound) {
		return salary.PolicyResponse{}, fmt.Errorf("failed to check existing salary policy: %w", err)
	}

	created, err := s.PolicyRepository.Create(ctx, req.ToPolicy())
	if err != nil {
		if errors.Is(err, salary.ErrPolicyExists) {
			return salary.PolicyResponse{}, err
		}
		return salary.PolicyResponse{}, fmt.Errorf("failed to create salary policy: %w", err)
	}

	s.log.Info("salary policy created",
		"worker_id", created.WorkerID,
		"workplace_id", created.WorkplaceID,
		"calculation", created.SalaryCalculation)

	return salary.ToResponse(created), nil
}

// GetPolicy implements salary.Service.
func (s *SalaryServiceImpl) GetPolicy(ctx context.Context, workerID, workplaceID string) (salary.PolicyResponse, error) {
	p, err := s.PolicyRepository.GetByWorkerAndWorkplace(ctx, workerID, workplaceID)
	if err != nil {
		if errors.Is(err, salary.ErrPolicyNotFound) {
			return salary.PolicyResponse{}, err
		}
		return salary.PolicyResponse{}, fmt.Errorf("failed to get salary policy: %w", err)
	}
	return salary.ToResponse(p), nil
}

// ListPolicies implements salary.Service.
func (s *SalaryServiceImpl) ListPolicies(ctx context.Context, workplaceID string) ([]salary.PolicyResponse, error) {
	policies, err := s.PolicyRepository.ListByWorkplace(ctx, workplaceID)
	if err != nil {
		return nil, fmt.Errorf("failed to list salary policies: %w", err)
	}

	out := make([]salary.PolicyResponse, len(policies))
	for i, p := range policies {
		out[i] = salary.ToResponse(p)
	}
	return out, nil
}

// UpdatePolicy implements salary.Service. Shifts keep the rate and pay mode
// they were created under, so only future shifts see a rate or mode change;
// deduction and allowance toggles take effect the next time a shift is
// recomputed.
func (s *SalaryServiceImpl) UpdatePolicy(ctx context.Context, req salary.UpdatePolicyRequest) (salary.PolicyResponse, error) {
	current, err := s.PolicyRepository.GetByWorkerAndWorkplace(ctx, req.WorkerID, req.WorkplaceID)
	if err != nil {
		if errors.Is(err, salary.ErrPolicyNotFound) {
			return salary.PolicyResponse{}, err
		}
		return salary.PolicyResponse{}, fmt.Errorf("failed to get salary policy: %w", err)
	}

	next := req.Apply(current)
	if err := next.Validate(); err != nil {
		return salary.PolicyResponse{}, err
	}

	updated, err := s.PolicyRepository.Update(ctx, next)
	if err != nil {
		return salary.PolicyResponse{}, fmt.Errorf("failed to update salary policy: %w", err)
	}

	s.notifyUpdated(ctx, updated)
	return salary.ToResponse(updated), nil
}

func (s *SalaryServiceImpl) notifyUpdated(ctx context.Context, p salary.Policy) {
	if s.notifier == nil {
		return
	}
	workplaceID := p.WorkplaceID
	err := s.notifier.Notify(ctx, notification.CreateNotificationRequest{
		WorkplaceID: &workplaceID,
		RecipientID: p.WorkerID,
		Type:        notification.TypeSalaryPolicyUpdated,
		Title:       "Salary policy updated",
		Message:     "Your pay settings for this workplace were changed.",
		Data: map[string]interface{}{
			"policy_id":          p.ID,
			"salary_type":        string(p.SalaryType),
			"salary_calculation": string(p.SalaryCalculation),
			"updated_at":         p.UpdatedAt.Format(time.RFC3339),
		},
	})
	if err != nil {
		s.log.Warn("failed to queue policy notification", "worker_id", p.WorkerID, "error", err)
	}
}
