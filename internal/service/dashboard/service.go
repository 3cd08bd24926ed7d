package dashboard

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/shiftpay-backend-go/internal/domain/dashboard"
	"github.com/cmlabs-hris/shiftpay-backend-go/internal/domain/payroll"
	"github.com/cmlabs-hris/shiftpay-backend-go/internal/domain/shift"
	"github.com/cmlabs-hris/shiftpay-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/shiftpay-backend-go/internal/domain/workplace"
	"github.com/cmlabs-hris/shiftpay-backend-go/internal/pkg/timewindow"
	"golang.org/x/sync/errgroup"
)

const upcomingShiftLimit = 5

type DashboardServiceImpl struct {
	shifts     shift.Repository
	workplaces workplace.Repository
	calculator payroll.Calculator
	resolver   *timewindow.Resolver
	now        func() time.Time
}

func NewDashboardService(
	shifts shift.Repository,
	workplaces workplace.Repository,
	calculator payroll.Calculator,
	resolver *timewindow.Resolver,
) dashboard.Service {
	return &DashboardServiceImpl{
		shifts:     shifts,
		workplaces: workplaces,
		calculator: calculator,
		resolver:   resolver,
		now:        time.Now,
	}
}

// GetMonthlySummary implements dashboard.Service. The requested month and
// the one before it are aggregated in parallel.
func (s *DashboardServiceImpl) GetMonthlySummary(ctx context.Context, req dashboard.SummaryRequest) (dashboard.MonthlySummary, error) {
	if err := req.Validate(); err != nil {
		return dashboard.MonthlySummary{}, err
	}

	var current, previous []dashboard.WorkplaceSummary
	prevYear, prevMonth := previousMonth(req.Year, req.Month)

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		current, err = s.workerMonth(gCtx, req.WorkerID, req.WorkplaceID, req.Year, req.Month)
		return err
	})
	g.Go(func() error {
		var err error
		previous, err = s.workerMonth(gCtx, req.WorkerID, req.WorkplaceID, prevYear, prevMonth)
		return err
	})
	if err := g.Wait(); err != nil {
		return dashboard.MonthlySummary{}, err
	}

	totals := sumTotals(current)
	return dashboard.MonthlySummary{
		WorkerID:                    req.WorkerID,
		Year:                        req.Year,
		Month:                       req.Month,
		PreviousMonthNetIncomeDelta: totals.TotalNetIncome.Sub(sumTotals(previous).TotalNetIncome),
		Workplaces:                  current,
		Totals:                      totals,
	}, nil
}

func (s *DashboardServiceImpl) workerMonth(ctx context.Context, workerID string, workplaceID *string, year, month int) ([]dashboard.WorkplaceSummary, error) {
	from, to := s.resolver.MonthRange(year, time.Month(month))
	shifts, err := s.shifts.List(ctx, shift.ListFilter{
		WorkerID:    &workerID,
		WorkplaceID: workplaceID,
		From:        from,
		To:          to,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list shifts: %w", err)
	}
	return s.aggregate(ctx, shifts)
}

// GetDashboard implements dashboard.Service. Exactly one branch matching
// the viewer's role is filled.
func (s *DashboardServiceImpl) GetDashboard(ctx context.Context, req dashboard.DashboardRequest) (dashboard.Dashboard, error) {
	if err := req.Validate(); err != nil {
		return dashboard.Dashboard{}, err
	}

	out := dashboard.Dashboard{Role: req.Viewer.Role}
	switch req.Viewer.Role {
	case user.RoleWorker:
		w, err := s.workerDashboard(ctx, req)
		if err != nil {
			return dashboard.Dashboard{}, err
		}
		out.Worker = &w
	case user.RoleOwner:
		o, err := s.ownerDashboard(ctx, req)
		if err != nil {
			return dashboard.Dashboard{}, err
		}
		out.Owner = &o
	case user.RoleAdmin:
		a, err := s.adminDashboard(ctx, req)
		if err != nil {
			return dashboard.Dashboard{}, err
		}
		out.Admin = &a
	default:
		return dashboard.Dashboard{}, user.ErrInvalidRole
	}
	return out, nil
}

func (s *DashboardServiceImpl) workerDashboard(ctx context.Context, req dashboard.DashboardRequest) (dashboard.WorkerDashboard, error) {
	var (
		summary  dashboard.MonthlySummary
		upcoming []shift.Shift
	)

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		summary, err = s.GetMonthlySummary(gCtx, dashboard.SummaryRequest{
			WorkerID: req.Viewer.UserID,
			Year:     req.Year,
			Month:    req.Month,
		})
		return err
	})
	g.Go(func() error {
		now := s.now()
		today := s.resolver.DateOf(now)
		workerID := req.Viewer.UserID
		list, err := s.shifts.List(gCtx, shift.ListFilter{
			WorkerID: &workerID,
			From:     today,
			To:       today.AddDate(0, 0, 8),
		})
		if err != nil {
			return fmt.Errorf("failed to list upcoming shifts: %w", err)
		}
		for _, sh := range list {
			if sh.StartTime.After(now) && len(upcoming) < upcomingShiftLimit {
				upcoming = append(upcoming, sh)
			}
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return dashboard.WorkerDashboard{}, err
	}

	responses := make([]shift.ShiftResponse, len(upcoming))
	for i, sh := range upcoming {
		responses[i] = shift.ToResponse(sh)
	}
	return dashboard.WorkerDashboard{Summary: summary, UpcomingShifts: responses}, nil
}

func (s *DashboardServiceImpl) ownerDashboard(ctx context.Context, req dashboard.DashboardRequest) (dashboard.OwnerDashboard, error) {
	owned, err := s.workplaces.ListByOwner(ctx, req.Viewer.UserID)
	if err != nil {
		return dashboard.OwnerDashboard{}, fmt.Errorf("failed to list workplaces: %w", err)
	}

	costs := make([]dashboard.WorkplaceLaborCost, len(owned))
	prevYear, prevMonth := previousMonth(req.Year, req.Month)

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for i, w := range owned {
		g.Go(func() error {
			current, workers, err := s.workplaceMonth(gCtx, w.ID, req.Year, req.Month)
			if err != nil {
				return err
			}
			previous, _, err := s.workplaceMonth(gCtx, w.ID, prevYear, prevMonth)
			if err != nil {
				return err
			}
			costs[i] = dashboard.WorkplaceLaborCost{
				WorkplaceID:        w.ID,
				WorkplaceName:      w.Name,
				WorkerCount:        workers,
				ShiftCount:         current.ShiftCount,
				TotalMinutes:       current.TotalMinutes,
				TotalGrossIncome:   current.TotalGrossIncome,
				PreviousMonthGross: previous.TotalGrossIncome,
				GrossDelta:         current.TotalGrossIncome.Sub(previous.TotalGrossIncome),
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return dashboard.OwnerDashboard{}, err
	}

	out := dashboard.OwnerDashboard{Year: req.Year, Month: req.Month, Workplaces: costs}
	for _, c := range costs {
		out.TotalLaborCost = out.TotalLaborCost.Add(c.TotalGrossIncome)
	}
	return out, nil
}

// workplaceMonth returns one workplace's totals for a month and how many
// distinct workers had shifts there.
func (s *DashboardServiceImpl) workplaceMonth(ctx context.Context, workplaceID string, year, month int) (dashboard.Totals, int, error) {
	from, to := s.resolver.MonthRange(year, time.Month(month))
	shifts, err := s.shifts.List(ctx, shift.ListFilter{WorkplaceID: &workplaceID, From: from, To: to})
	if err != nil {
		return dashboard.Totals{}, 0, fmt.Errorf("failed to list shifts: %w", err)
	}

	workers := make(map[string]bool)
	for _, sh := range shifts {
		workers[sh.WorkerID] = true
	}

	summaries, err := s.aggregate(ctx, shifts)
	if err != nil {
		return dashboard.Totals{}, 0, err
	}
	return sumTotals(summaries), len(workers), nil
}

func (s *DashboardServiceImpl) adminDashboard(ctx context.Context, req dashboard.DashboardRequest) (dashboard.AdminDashboard, error) {
	var workplaces, shifts int
	from, to := s.resolver.MonthRange(req.Year, time.Month(req.Month))

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		workplaces, err = s.workplaces.CountAll(gCtx)
		if err != nil {
			return fmt.Errorf("failed to count workplaces: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		shifts, err = s.shifts.Count(gCtx, shift.ListFilter{From: from, To: to})
		if err != nil {
			return fmt.Errorf("failed to count shifts: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return dashboard.AdminDashboard{}, err
	}

	return dashboard.AdminDashboard{
		Year:           req.Year,
		Month:          req.Month,
		WorkplaceCount: workplaces,
		ShiftCount:     shifts,
	}, nil
}
