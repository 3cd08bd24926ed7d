package shift

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/shiftpay-backend-go/internal/domain/holiday"
	"github.com/cmlabs-hris/shiftpay-backend-go/internal/domain/notification"
	"github.com/cmlabs-hris/shiftpay-backend-go/internal/domain/payroll"
	"github.com/cmlabs-hris/shiftpay-backend-go/internal/domain/salary"
	"github.com/cmlabs-hris/shiftpay-backend-go/internal/domain/shift"
	"github.com/cmlabs-hris/shiftpay-backend-go/internal/pkg/timewindow"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// Config tunes batch creation
type Config struct {
	// Concurrency bounds how many workers of one batch are expanded at once.
	Concurrency int // default: 4
}

type ShiftServiceImpl struct {
	shift.Repository
	policies   salary.PolicyRepository
	calendar   holiday.Calendar
	calculator payroll.Calculator
	resolver   *timewindow.Resolver
	notifier   notification.Notifier
	config     Config
	log        *slog.Logger
}

// NewShiftService wires the recurrence expander to storage and the pricing
// engine. notifier may be nil.
func NewShiftService(
	repo shift.Repository,
	policies salary.PolicyRepository,
	calendar holiday.Calendar,
	calculator payroll.Calculator,
	resolver *timewindow.Resolver,
	notifier notification.Notifier,
	cfg Config,
	logger *slog.Logger,
) shift.Service {
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 4
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ShiftServiceImpl{
		Repository: repo,
		policies:   policies,
		calendar:   calendar,
		calculator: calculator,
		resolver:   resolver,
		notifier:   notifier,
		config:     cfg,
		log:        logger.With("component", "shift"),
	}
}

// CreateShift implements shift.Service.
func (s *ShiftServiceImpl) CreateShift(ctx context.Context, req shift.CreateShiftRequest) (shift.BatchResult, error) {
	if err := req.Validate(); err != nil {
		return shift.BatchResult{}, err
	}
	t, err := s.template(req.ShiftFields, req.WorkplaceID, req.RequestedBy)
	if err != nil {
		return shift.BatchResult{}, err
	}

	policy, err := s.policies.GetByWorkerAndWorkplace(ctx, req.WorkerID, req.WorkplaceID)
	if err != nil {
		if errors.Is(err, salary.ErrPolicyNotFound) {
			return shift.BatchResult{}, err
		}
		return shift.BatchResult{}, fmt.Errorf("failed to get salary policy: %w", err)
	}

	result := s.expand(context.WithoutCancel(ctx), req.WorkerID, t, policy)
	s.notifyAssigned(ctx, req.WorkerID, t, result.SuccessIDs)
	return result, nil
}

// CreateShiftsForWorkers implements shift.Service. Each worker is expanded
// on its own; results are merged in request order.
func (s *ShiftServiceImpl) CreateShiftsForWorkers(ctx context.Context, req shift.BatchCreateShiftRequest) (shift.BatchResult, error) {
	if err := req.Validate(); err != nil {
		return shift.BatchResult{}, err
	}
	t, err := s.template(req.ShiftFields, req.WorkplaceID, req.RequestedBy)
	if err != nil {
		return shift.BatchResult{}, err
	}

	// A batch runs to completion even if the caller goes away.
	ctx = context.WithoutCancel(ctx)

	workerIDs := req.UniqueWorkerIDs()
	results := make([]shift.BatchResult, len(workerIDs))

	var g errgroup.Group
	g.SetLimit(s.config.Concurrency)
	for i, workerID := range workerIDs {
		g.Go(func() error {
			results[i] = s.createForWorker(ctx, workerID, t)
			return nil
		})
	}
	_ = g.Wait()

	merged := shift.NewBatchResult()
	for _, r := range results {
		merged.Merge(r)
	}

	s.log.Info("batch shift creation finished",
		"workplace_id", req.WorkplaceID,
		"workers", len(workerIDs),
		"created", len(merged.SuccessIDs),
		"failed", len(merged.Failures))

	return merged, nil
}

func (s *ShiftServiceImpl) createForWorker(ctx context.Context, workerID string, t shift.Template) shift.BatchResult {
	policy, err := s.policies.GetByWorkerAndWorkplace(ctx, workerID, t.WorkplaceID)
	if err != nil {
		reason := shift.ReasonPolicyNotFound
		if !errors.Is(err, salary.ErrPolicyNotFound) {
			reason = shift.ReasonInternal
			s.log.Error("failed to get salary policy", "worker_id", workerID, "error", err)
		}
		result := shift.NewBatchResult()
		result.Failures = append(result.Failures, shift.Failure{
			WorkerID: workerID,
			Date:     s.resolver.DateOf(t.StartTime).Format("2006-01-02"),
			Reason:   reason,
		})
		return result
	}

	result := s.expand(ctx, workerID, t, policy)
	s.notifyAssigned(ctx, workerID, t, result.SuccessIDs)
	return result
}

// template parses the request and rejects spans the engine cannot price
// before anything is written.
func (s *ShiftServiceImpl) template(f shift.ShiftFields, workplaceID, requestedBy string) (shift.Template, error) {
	t, err := f.ToTemplate(workplaceID, requestedBy, s.resolver.Location())
	if err != nil {
		return shift.Template{}, err
	}
	if _, err := s.calculator.WorkMinutes(t.StartTime, t.EndTime, t.RestTimeMinutes); err != nil {
		return shift.Template{}, err
	}
	if t.ActualStartTime != nil {
		if _, err := s.calculator.WorkMinutes(*t.ActualStartTime, *t.ActualEndTime, t.RestTimeMinutes); err != nil {
			return shift.Template{}, err
		}
	}
	return t, nil
}

// expand materializes and commits one worker's occurrences in date order.
// Each check-then-write runs under the worker lock so a later occurrence
// sees the ones committed before it.
func (s *ShiftServiceImpl) expand(ctx context.Context, workerID string, t shift.Template, policy salary.Policy) shift.BatchResult {
	result := shift.NewBatchResult()

	occurrences := Occurrences(t, workerID, s.resolver)

	var groupID *string
	if len(t.RepeatDays) > 0 && len(occurrences) > 0 {
		id := uuid.New().String()
		groupID = &id
	}

	rate := policy.SnapshotRate()
	for _, sh := range occurrences {
		day := sh.WorkDate.Format("2006-01-02")

		sh.ID = uuid.New().String()
		sh.RepeatGroupID = groupID
		sh.FixedPay = shift.NewFixedPay(policy)

		if err := s.price(ctx, &sh, rate, policy); err != nil {
			reason := shift.ReasonInternal
			if errors.Is(err, payroll.ErrInvalidArgument) {
				reason = shift.ReasonInvalidShift
			}
			s.log.Warn("failed to price occurrence", "worker_id", workerID, "date", day, "error", err)
			result.Failures = append(result.Failures, shift.Failure{WorkerID: workerID, Date: day, Reason: reason})
			continue
		}

		err := s.Repository.WithWorkerLock(ctx, workerID, func(ctx context.Context) error {
			overlap, err := s.Repository.HasOverlap(ctx, workerID, sh.StartTime, sh.EndTime, "")
			if err != nil {
				return fmt.Errorf("failed to check schedule overlap: %w", err)
			}
			if overlap {
				return shift.ErrScheduleConflict
			}
			if err := s.Repository.Create(ctx, &sh); err != nil {
				return fmt.Errorf("failed to create shift: %w", err)
			}
			return nil
		})
		switch {
		case err == nil:
			result.SuccessIDs = append(result.SuccessIDs, sh.ID)
		case errors.Is(err, shift.ErrScheduleConflict):
			s.log.Debug("occurrence conflicts with existing shift", "worker_id", workerID, "date", day)
			result.Failures = append(result.Failures, shift.Failure{WorkerID: workerID, Date: day, Reason: shift.ReasonScheduleConflict})
		default:
			s.log.Error("failed to commit occurrence", "worker_id", workerID, "date", day, "error", err)
			result.Failures = append(result.Failures, shift.Failure{WorkerID: workerID, Date: day, Reason: shift.ReasonInternal})
		}
	}

	s.log.Info("shift expansion finished",
		"worker_id", workerID,
		"occurrences", len(occurrences),
		"created", len(result.SuccessIDs),
		"failed", len(result.Failures))

	return result
}

// price runs the authoritative span of sh through the engine and stores
// every derived field on it.
func (s *ShiftServiceImpl) price(ctx context.Context, sh *shift.Shift, rate decimal.Decimal, policy salary.Policy) error {
	restDay, err := s.calendar.IsDesignatedRestDay(ctx, sh.WorkplaceID, sh.WorkDate)
	if err != nil {
		return fmt.Errorf("failed to classify work date: %w", err)
	}

	start, end := sh.Span()
	priced, err := s.calculator.Price(payroll.PricingInput{
		Start:       start,
		End:         end,
		RestMinutes: sh.RestTimeMinutes,
		HourlyRate:  rate,
		Policy:      policy,
		RestDay:     restDay,
	})
	if err != nil {
		return err
	}

	sh.ApplyPricing(priced)
	return nil
}

// GetShift implements shift.Service.
func (s *ShiftServiceImpl) GetShift(ctx context.Context, id string) (shift.ShiftResponse, error) {
	sh, err := s.Repository.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, shift.ErrShiftNotFound) {
			return shift.ShiftResponse{}, err
		}
		return shift.ShiftResponse{}, fmt.Errorf("failed to get shift: %w", err)
	}
	return shift.ToResponse(sh), nil
}

// ListShifts implements shift.Service.
func (s *ShiftServiceImpl) ListShifts(ctx context.Context, req shift.ListShiftsRequest) ([]shift.ShiftResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	from, to := s.resolver.MonthRange(req.Year, time.Month(req.Month))
	shifts, err := s.Repository.List(ctx, shift.ListFilter{
		WorkerID:    req.WorkerID,
		WorkplaceID: req.WorkplaceID,
		From:        from,
		To:          to,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list shifts: %w", err)
	}

	out := make([]shift.ShiftResponse, len(shifts))
	for i, sh := range shifts {
		out[i] = shift.ToResponse(sh)
	}
	return out, nil
}

// UpdateShift implements shift.Service. The hourly rate snapshot taken at
// creation is kept; deduction and allowance toggles come from the policy
// as it is now.
func (s *ShiftServiceImpl) UpdateShift(ctx context.Context, req shift.UpdateShiftRequest) (shift.ShiftResponse, error) {
	if err := req.Validate(); err != nil {
		return shift.ShiftResponse{}, err
	}

	current, err := s.Repository.GetByID(ctx, req.ID)
	if err != nil {
		if errors.Is(err, shift.ErrShiftNotFound) {
			return shift.ShiftResponse{}, err
		}
		return shift.ShiftResponse{}, fmt.Errorf("failed to get shift: %w", err)
	}

	next := req.Apply(current)
	next.WorkDate = s.resolver.DateOf(next.StartTime)
	if _, err := s.calculator.WorkMinutes(next.StartTime, next.EndTime, next.RestTimeMinutes); err != nil {
		return shift.ShiftResponse{}, err
	}

	policy, err := s.policies.GetByWorkerAndWorkplace(ctx, next.WorkerID, next.WorkplaceID)
	if err != nil {
		if errors.Is(err, salary.ErrPolicyNotFound) {
			return shift.ShiftResponse{}, err
		}
		return shift.ShiftResponse{}, fmt.Errorf("failed to get salary policy: %w", err)
	}

	if err := s.price(ctx, &next, current.HourlyRate, current.PricingPolicy(policy)); err != nil {
		return shift.ShiftResponse{}, err
	}

	err = s.Repository.WithWorkerLock(ctx, next.WorkerID, func(ctx context.Context) error {
		overlap, err := s.Repository.HasOverlap(ctx, next.WorkerID, next.StartTime, next.EndTime, next.ID)
		if err != nil {
			return fmt.Errorf("failed to check schedule overlap: %w", err)
		}
		if overlap {
			return shift.ErrScheduleConflict
		}
		return s.Repository.Update(ctx, next)
	})
	if err != nil {
		if errors.Is(err, shift.ErrScheduleConflict) || errors.Is(err, shift.ErrShiftNotFound) {
			return shift.ShiftResponse{}, err
		}
		return shift.ShiftResponse{}, fmt.Errorf("failed to update shift: %w", err)
	}

	updated, err := s.Repository.GetByID(ctx, next.ID)
	if err != nil {
		return shift.ShiftResponse{}, fmt.Errorf("failed to reload shift: %w", err)
	}

	if req.RequestedBy != "" && req.RequestedBy != updated.WorkerID {
		s.queue(ctx, notification.CreateNotificationRequest{
			WorkplaceID: &updated.WorkplaceID,
			RecipientID: updated.WorkerID,
			SenderID:    &req.RequestedBy,
			Type:        notification.TypeShiftUpdated,
			Title:       "Shift updated",
			Message:     fmt.Sprintf("Your shift on %s was changed.", updated.WorkDate.Format("2006-01-02")),
			Data:        map[string]interface{}{"shift_id": updated.ID},
		})
	}

	return shift.ToResponse(updated), nil
}

// DeleteShift implements shift.Service. Siblings sharing the repeat group
// are left alone.
func (s *ShiftServiceImpl) DeleteShift(ctx context.Context, id string) error {
	if err := s.Repository.Delete(ctx, id); err != nil {
		if errors.Is(err, shift.ErrShiftNotFound) {
			return err
		}
		return fmt.Errorf("failed to delete shift: %w", err)
	}
	return nil
}

func (s *ShiftServiceImpl) notifyAssigned(ctx context.Context, workerID string, t shift.Template, ids []string) {
	if len(ids) == 0 || t.RequestedBy == "" || t.RequestedBy == workerID {
		return
	}
	workplaceID := t.WorkplaceID
	requestedBy := t.RequestedBy
	s.queue(ctx, notification.CreateNotificationRequest{
		WorkplaceID: &workplaceID,
		RecipientID: workerID,
		SenderID:    &requestedBy,
		Type:        notification.TypeShiftAssigned,
		Title:       "New shifts assigned",
		Message:     fmt.Sprintf("%d shift(s) were scheduled for you.", len(ids)),
		Data:        map[string]interface{}{"shift_ids": ids},
	})
}

func (s *ShiftServiceImpl) queue(ctx context.Context, req notification.CreateNotificationRequest) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.Notify(ctx, req); err != nil {
		s.log.Warn("failed to queue notification", "type", req.Type, "recipient_id", req.RecipientID, "error", err)
	}
}
