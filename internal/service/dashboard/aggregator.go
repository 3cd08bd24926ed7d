package dashboard

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/cmlabs-hris/shiftpay-backend-go/internal/domain/dashboard"
	"github.com/cmlabs-hris/shiftpay-backend-go/internal/domain/salary"
	"github.com/cmlabs-hris/shiftpay-backend-go/internal/domain/shift"
	"github.com/cmlabs-hris/shiftpay-backend-go/internal/domain/workplace"
)

type pairing struct {
	workerID    string
	workplaceID string
}

// aggregate folds priced shifts into per-workplace totals ordered by
// workplace ID. Fixed-rate shifts carry zero pay, so the fixed amount is
// added here once per pay cycle on the terms the shifts were created under.
func (s *DashboardServiceImpl) aggregate(ctx context.Context, shifts []shift.Shift) ([]dashboard.WorkplaceSummary, error) {
	groups := make(map[pairing][]shift.Shift)
	for _, sh := range shifts {
		k := pairing{workerID: sh.WorkerID, workplaceID: sh.WorkplaceID}
		groups[k] = append(groups[k], sh)
	}

	keys := make([]pairing, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].workplaceID != keys[j].workplaceID {
			return keys[i].workplaceID < keys[j].workplaceID
		}
		return keys[i].workerID < keys[j].workerID
	})

	out := make([]dashboard.WorkplaceSummary, 0)
	index := make(map[string]int)
	for _, k := range keys {
		i, ok := index[k.workplaceID]
		if !ok {
			name, err := s.workplaceName(ctx, k.workplaceID)
			if err != nil {
				return nil, err
			}
			out = append(out, dashboard.WorkplaceSummary{WorkplaceID: k.workplaceID, WorkplaceName: name})
			i = len(out) - 1
			index[k.workplaceID] = i
		}
		ws := &out[i]

		group := groups[k]
		for _, sh := range group {
			ws.AddShift(sh)
		}

		s.addFixedPay(ws, group)
	}
	return out, nil
}

func (s *DashboardServiceImpl) addFixedPay(ws *dashboard.WorkplaceSummary, group []shift.Shift) {
	for _, terms := range FixedCycles(group) {
		deductions, net := s.calculator.Deductions(terms.Amount, terms.Policy())

		ws.FixedPay = ws.FixedPay.Add(terms.Amount)
		ws.FixedCycles++
		ws.TotalBasePay = ws.TotalBasePay.Add(terms.Amount)
		ws.TotalGrossIncome = ws.TotalGrossIncome.Add(terms.Amount)
		ws.TotalNetIncome = ws.TotalNetIncome.Add(net)
		ws.DeductionBreakdown = ws.DeductionBreakdown.Add(deductions)
	}
}

func (s *DashboardServiceImpl) workplaceName(ctx context.Context, id string) (string, error) {
	w, err := s.workplaces.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, workplace.ErrWorkplaceNotFound) {
			return "", nil
		}
		return "", fmt.Errorf("failed to get workplace: %w", err)
	}
	return w.Name, nil
}

// FixedCycles returns the fixed-rate terms of every pay cycle the shifts
// touch. Hourly shifts are skipped and a cycle takes the terms of its
// earliest shift, so a policy change never reprices a cycle already worked.
func FixedCycles(shifts []shift.Shift) []shift.FixedPay {
	ordered := append([]shift.Shift(nil), shifts...)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].StartTime.Before(ordered[j].StartTime) })

	seen := make(map[string]bool)
	out := make([]shift.FixedPay, 0)
	for _, sh := range ordered {
		if sh.FixedPay == nil {
			continue
		}
		key := CycleKey(sh.FixedPay.Cadence, sh.WorkDate)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, *sh.FixedPay)
	}
	return out
}

// CycleKey names the pay cycle holding workDate: its month for MONTHLY,
// its ISO week for WEEKLY and the date itself for DAILY.
func CycleKey(cadence salary.SalaryType, workDate time.Time) string {
	switch cadence {
	case salary.SalaryTypeWeekly:
		year, week := workDate.ISOWeek()
		return fmt.Sprintf("%d-W%02d", year, week)
	case salary.SalaryTypeDaily:
		return workDate.Format("2006-01-02")
	default:
		return workDate.Format("2006-01")
	}
}

// sumTotals adds up per-workplace totals.
func sumTotals(summaries []dashboard.WorkplaceSummary) dashboard.Totals {
	var t dashboard.Totals
	for _, ws := range summaries {
		t.Add(ws.Totals)
	}
	return t
}

func previousMonth(year, month int) (int, int) {
	prev := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -1, 0)
	return prev.Year(), int(prev.Month())
}
