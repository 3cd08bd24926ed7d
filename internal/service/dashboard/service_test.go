package dashboard

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/cmlabs-hris/shiftpay-backend-go/internal/domain/dashboard"
	"github.com/cmlabs-hris/shiftpay-backend-go/internal/domain/notification"
	"github.com/cmlabs-hris/shiftpay-backend-go/internal/domain/payroll"
	"github.com/cmlabs-hris/shiftpay-backend-go/internal/domain/salary"
	"github.com/cmlabs-hris/shiftpay-backend-go/internal/domain/shift"
	"github.com/cmlabs-hris/shiftpay-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/shiftpay-backend-go/internal/domain/workplace"
	"github.com/cmlabs-hris/shiftpay-backend-go/internal/pkg/timewindow"
	"github.com/cmlabs-hris/shiftpay-backend-go/internal/repository/memory"
	holidaysvc "github.com/cmlabs-hris/shiftpay-backend-go/internal/service/holiday"
	payrollsvc "github.com/cmlabs-hris/shiftpay-backend-go/internal/service/payroll"
	salarysvc "github.com/cmlabs-hris/shiftpay-backend-go/internal/service/salary"
	shiftsvc "github.com/cmlabs-hris/shiftpay-backend-go/internal/service/shift"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var kst = time.FixedZone("KST", 9*60*60)

type fixture struct {
	svc        *DashboardServiceImpl
	shifts     *memory.ShiftRepository
	policies   *memory.PolicyRepository
	workplaces *memory.WorkplaceRepository
	calc       payroll.Calculator
	resolver   *timewindow.Resolver
}

type nopNotifier struct{}

func (nopNotifier) Notify(ctx context.Context, req notification.CreateNotificationRequest) error {
	return nil
}

func (nopNotifier) NotifyMany(ctx context.Context, reqs []notification.CreateNotificationRequest) error {
	return nil
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	resolver := timewindow.MustResolver(kst, 22*60, 6*60)
	calc := payrollsvc.NewCalculator(resolver,
		payroll.Premiums{Night: decimal.RequireFromString("0.5"), Holiday: decimal.RequireFromString("0.5")},
		payroll.RateTable{NationalPension: decimal.RequireFromString("0.045")},
	)

	f := &fixture{
		shifts:     memory.NewShiftRepository(),
		policies:   memory.NewPolicyRepository(),
		workplaces: memory.NewWorkplaceRepository(),
		calc:       calc,
		resolver:   resolver,
	}
	f.workplaces.Add(workplace.Workplace{ID: "cafe", OwnerID: "owner-1", Name: "Cafe"}, "worker-1", "worker-2")
	f.workplaces.Add(workplace.Workplace{ID: "bar", OwnerID: "owner-1", Name: "Bar"}, "worker-1")
	f.workplaces.Add(workplace.Workplace{ID: "deli", OwnerID: "owner-2", Name: "Deli"})

	f.svc = NewDashboardService(f.shifts, f.workplaces, calc, resolver).(*DashboardServiceImpl)
	f.svc.now = func() time.Time { return time.Date(2025, 10, 15, 12, 0, 0, 0, kst) }
	return f
}

// addShift stores an already priced shift: net minutes at 10,000/h with a
// flat 1,000 deduction.
func (f *fixture) addShift(t *testing.T, workerID, workplaceID string, month time.Month, day, hour, netMinutes int) shift.Shift {
	t.Helper()
	start := time.Date(2025, month, day, hour, 0, 0, 0, kst)
	gross := decimal.NewFromInt(int64(netMinutes) * 10000 / 60)
	deduction := decimal.NewFromInt(1000)
	s := shift.Shift{
		WorkerID:           workerID,
		WorkplaceID:        workplaceID,
		WorkDate:           time.Date(2025, month, day, 0, 0, 0, 0, kst),
		StartTime:          start,
		EndTime:            start.Add(time.Duration(netMinutes) * time.Minute),
		GrossWorkMinutes:   netMinutes,
		NetWorkMinutes:     netMinutes,
		NightWorkMinutes:   30,
		HourlyRate:         decimal.NewFromInt(10000),
		BasePay:            gross,
		GrossIncome:        gross,
		Deductions:         payroll.DeductionBreakdown{IncomeTax: deduction},
		EstimatedNetIncome: gross.Sub(deduction),
	}
	require.NoError(t, f.shifts.Create(context.Background(), &s))
	return s
}

// writers builds the shift and salary services over the fixture's stores.
func (f *fixture) writers() (shift.Service, salary.Service) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	shifts := shiftsvc.NewShiftService(f.shifts, f.policies, holidaysvc.NewWeeklyCalendar(time.Sunday),
		f.calc, f.resolver, nopNotifier{}, shiftsvc.Config{Concurrency: 1}, logger)
	return shifts, salarysvc.NewSalaryService(f.policies, nil, logger)
}

func assertDecimal(t *testing.T, want int64, got decimal.Decimal) {
	t.Helper()
	assert.Truef(t, decimal.NewFromInt(want).Equal(got), "want %d, got %s", want, got)
}

func TestGetMonthlySummary_NoShifts(t *testing.T) {
	f := newFixture(t)

	got, err := f.svc.GetMonthlySummary(context.Background(), dashboard.SummaryRequest{WorkerID: "worker-1", Year: 2025, Month: 10})
	require.NoError(t, err)

	assert.Equal(t, 0, got.ShiftCount)
	assert.Equal(t, 0, got.TotalMinutes)
	assertDecimal(t, 0, got.TotalBasePay)
	assertDecimal(t, 0, got.TotalGrossIncome)
	assertDecimal(t, 0, got.TotalNetIncome)
	assertDecimal(t, 0, got.DeductionBreakdown.Total())
	assertDecimal(t, 0, got.PreviousMonthNetIncomeDelta)
	assert.NotNil(t, got.Workplaces)
	assert.Empty(t, got.Workplaces)
}

func TestGetMonthlySummary_AcrossWorkplacesWithDelta(t *testing.T) {
	f := newFixture(t)
	f.addShift(t, "worker-1", "cafe", time.October, 13, 9, 480)   // 80,000
	f.addShift(t, "worker-1", "cafe", time.October, 14, 9, 240)   // 40,000
	f.addShift(t, "worker-1", "bar", time.October, 14, 18, 180)   // 30,000
	f.addShift(t, "worker-1", "cafe", time.September, 30, 9, 480) // previous month
	f.addShift(t, "worker-1", "cafe", time.November, 1, 9, 480)   // next month
	f.addShift(t, "worker-2", "cafe", time.October, 13, 9, 480)   // someone else

	got, err := f.svc.GetMonthlySummary(context.Background(), dashboard.SummaryRequest{WorkerID: "worker-1", Year: 2025, Month: 10})
	require.NoError(t, err)

	assert.Equal(t, 3, got.ShiftCount)
	assert.Equal(t, 900, got.TotalMinutes)
	assert.Equal(t, 90, got.TotalNightMinutes)
	assertDecimal(t, 150000, got.TotalBasePay)
	assertDecimal(t, 150000, got.TotalGrossIncome)
	assertDecimal(t, 3000, got.DeductionBreakdown.IncomeTax)
	assertDecimal(t, 147000, got.TotalNetIncome)
	assertDecimal(t, 147000-79000, got.PreviousMonthNetIncomeDelta)

	require.Len(t, got.Workplaces, 2)
	assert.Equal(t, "bar", got.Workplaces[0].WorkplaceID)
	assert.Equal(t, "Bar", got.Workplaces[0].WorkplaceName)
	assertDecimal(t, 30000, got.Workplaces[0].TotalGrossIncome)
	assert.Equal(t, "cafe", got.Workplaces[1].WorkplaceID)
	assert.Equal(t, 2, got.Workplaces[1].ShiftCount)
	assertDecimal(t, 120000, got.Workplaces[1].TotalGrossIncome)
}

func TestGetMonthlySummary_SingleWorkplace(t *testing.T) {
	f := newFixture(t)
	f.addShift(t, "worker-1", "cafe", time.October, 13, 9, 480)
	f.addShift(t, "worker-1", "bar", time.October, 14, 18, 180)

	cafe := "cafe"
	got, err := f.svc.GetMonthlySummary(context.Background(), dashboard.SummaryRequest{WorkerID: "worker-1", WorkplaceID: &cafe, Year: 2025, Month: 10})
	require.NoError(t, err)

	assert.Equal(t, 1, got.ShiftCount)
	require.Len(t, got.Workplaces, 1)
	assertDecimal(t, 80000, got.TotalGrossIncome)
	assertDecimal(t, 79000, got.PreviousMonthNetIncomeDelta)
}

func TestGetMonthlySummary_NegativeDelta(t *testing.T) {
	f := newFixture(t)
	f.addShift(t, "worker-1", "cafe", time.December, 30, 9, 480)

	got, err := f.svc.GetMonthlySummary(context.Background(), dashboard.SummaryRequest{WorkerID: "worker-1", Year: 2026, Month: 1})
	require.NoError(t, err)

	assertDecimal(t, 0, got.TotalNetIncome)
	assertDecimal(t, -79000, got.PreviousMonthNetIncomeDelta)
}

func TestGetMonthlySummary_FixedPayOncePerCycle(t *testing.T) {
	tests := []struct {
		name       string
		cadence    salary.SalaryType
		wantCycles int
	}{
		{"monthly", salary.SalaryTypeMonthly, 1},
		{"weekly", salary.SalaryTypeWeekly, 2},
		{"daily", salary.SalaryTypeDaily, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			terms := &shift.FixedPay{
				Cadence:    tt.cadence,
				Amount:     decimal.NewFromInt(100000),
				Deductions: salary.DeductionToggles{NationalPension: true},
			}

			// Fixed-rate shifts are priced at zero per shift.
			for _, d := range []struct{ day, hour int }{{13, 9}, {13, 18}, {15, 9}, {20, 9}} {
				s := f.addShift(t, "worker-1", "cafe", time.October, d.day, d.hour, 240)
				s.BasePay, s.GrossIncome, s.EstimatedNetIncome = decimal.Zero, decimal.Zero, decimal.Zero
				s.Deductions = payroll.DeductionBreakdown{}
				s.FixedPay = terms
				require.NoError(t, f.shifts.Update(context.Background(), s))
			}

			got, err := f.svc.GetMonthlySummary(context.Background(), dashboard.SummaryRequest{WorkerID: "worker-1", Year: 2025, Month: 10})
			require.NoError(t, err)

			amount := int64(100000 * tt.wantCycles)
			require.Len(t, got.Workplaces, 1)
			assert.Equal(t, tt.wantCycles, got.Workplaces[0].FixedCycles)
			assertDecimal(t, amount, got.Workplaces[0].FixedPay)
			assertDecimal(t, amount, got.TotalBasePay)
			assertDecimal(t, amount, got.TotalGrossIncome)
			assertDecimal(t, amount*45/1000, got.DeductionBreakdown.NationalPension)
			assertDecimal(t, amount-amount*45/1000, got.TotalNetIncome)
			assert.Equal(t, 4, got.ShiftCount)
			assert.Equal(t, 960, got.TotalMinutes)
		})
	}
}

func TestGetMonthlySummary_PolicyUpdateKeepsPastMonths(t *testing.T) {
	fixed := func(amount int64) *decimal.Decimal {
		d := decimal.NewFromInt(amount)
		return &d
	}
	hourly := salary.CreatePolicyRequest{SalaryCalculation: "HOURLY", HourlyRate: fixed(10000)}
	fixedMonthly := salary.CreatePolicyRequest{SalaryCalculation: "FIXED", FixedRate: fixed(2000000)}
	toFixed := "FIXED"

	tests := []struct {
		name        string
		create      salary.CreatePolicyRequest
		update      salary.UpdatePolicyRequest
		wantSep     int64
		wantOct     int64
		wantSepBase int64
	}{
		{
			name:        "hourly to fixed",
			create:      hourly,
			update:      salary.UpdatePolicyRequest{SalaryCalculation: &toFixed, FixedRate: fixed(2000000)},
			wantSep:     80000,
			wantOct:     2000000,
			wantSepBase: 80000,
		},
		{
			name:        "fixed rate raised",
			create:      fixedMonthly,
			update:      salary.UpdatePolicyRequest{FixedRate: fixed(2500000)},
			wantSep:     2000000,
			wantOct:     2500000,
			wantSepBase: 2000000,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			f := newFixture(t)
			shifts, policies := f.writers()

			payday := 25
			create := tt.create
			create.WorkerID, create.WorkplaceID = "worker-1", "cafe"
			create.SalaryType, create.SalaryDate = "MONTHLY", &payday
			_, err := policies.CreatePolicy(ctx, create)
			require.NoError(t, err)

			work := func(start, end string) {
				res, err := shifts.CreateShift(ctx, shift.CreateShiftRequest{
					WorkplaceID: "cafe",
					RequestedBy: "worker-1",
					WorkerID:    "worker-1",
					ShiftFields: shift.ShiftFields{StartTime: start, EndTime: end},
				})
				require.NoError(t, err)
				require.Len(t, res.SuccessIDs, 1, res.Failures)
			}
			summary := func(month int) dashboard.MonthlySummary {
				got, err := f.svc.GetMonthlySummary(ctx, dashboard.SummaryRequest{WorkerID: "worker-1", Year: 2025, Month: month})
				require.NoError(t, err)
				return got
			}

			work("2025-09-15T09:00:00+09:00", "2025-09-15T17:00:00+09:00")
			before := summary(9)
			assertDecimal(t, tt.wantSep, before.TotalGrossIncome)

			update := tt.update
			update.WorkerID, update.WorkplaceID = "worker-1", "cafe"
			_, err = policies.UpdatePolicy(ctx, update)
			require.NoError(t, err)

			after := summary(9)
			assertDecimal(t, tt.wantSep, after.TotalGrossIncome)
			assertDecimal(t, tt.wantSepBase, after.TotalBasePay)

			work("2025-10-13T09:00:00+09:00", "2025-10-13T17:00:00+09:00")
			assertDecimal(t, tt.wantOct, summary(10).TotalGrossIncome)
		})
	}
}

func TestFixedCycles(t *testing.T) {
	monthly := &shift.FixedPay{Cadence: salary.SalaryTypeMonthly, Amount: decimal.NewFromInt(100)}
	weekly := &shift.FixedPay{Cadence: salary.SalaryTypeWeekly, Amount: decimal.NewFromInt(10)}
	daily := &shift.FixedPay{Cadence: salary.SalaryTypeDaily, Amount: decimal.NewFromInt(1)}
	mk := func(terms *shift.FixedPay, month time.Month, day int) shift.Shift {
		date := time.Date(2025, month, day, 0, 0, 0, 0, kst)
		return shift.Shift{WorkDate: date, StartTime: date.Add(9 * time.Hour), FixedPay: terms}
	}
	days := []struct {
		month time.Month
		day   int
	}{{time.September, 29}, {time.October, 5}, {time.October, 6}, {time.October, 6}}

	// 2025-09-29 (Mon) and 2025-10-05 (Sun) share ISO week 40.
	for _, tt := range []struct {
		terms *shift.FixedPay
		want  int
	}{{monthly, 2}, {weekly, 2}, {daily, 3}} {
		shifts := make([]shift.Shift, 0, len(days))
		for _, d := range days {
			shifts = append(shifts, mk(tt.terms, d.month, d.day))
		}
		assert.Len(t, FixedCycles(shifts), tt.want, string(tt.terms.Cadence))
	}

	assert.Empty(t, FixedCycles(nil))
	assert.Empty(t, FixedCycles([]shift.Shift{mk(nil, time.October, 6)}), "hourly shifts carry no cycle pay")

	raised := &shift.FixedPay{Cadence: salary.SalaryTypeMonthly, Amount: decimal.NewFromInt(200)}
	cycles := FixedCycles([]shift.Shift{mk(raised, time.October, 20), mk(monthly, time.October, 6)})
	require.Len(t, cycles, 1)
	assertDecimal(t, 100, cycles[0].Amount)
}

func TestGetDashboard_Worker(t *testing.T) {
	f := newFixture(t)
	f.addShift(t, "worker-1", "cafe", time.October, 13, 9, 480)
	f.addShift(t, "worker-1", "cafe", time.October, 15, 9, 240)  // before now
	f.addShift(t, "worker-1", "cafe", time.October, 15, 18, 240) // later today
	f.addShift(t, "worker-1", "bar", time.October, 20, 9, 240)
	f.addShift(t, "worker-1", "bar", time.November, 1, 9, 240) // beyond the upcoming window

	got, err := f.svc.GetDashboard(context.Background(), dashboard.DashboardRequest{
		Viewer: user.Viewer{UserID: "worker-1", Role: user.RoleWorker},
		Year:   2025,
		Month:  10,
	})
	require.NoError(t, err)

	assert.Equal(t, user.RoleWorker, got.Role)
	assert.Nil(t, got.Owner)
	assert.Nil(t, got.Admin)
	require.NotNil(t, got.Worker)
	assert.Equal(t, 4, got.Worker.Summary.ShiftCount)
	require.Len(t, got.Worker.UpcomingShifts, 2)
	assert.Equal(t, "2025-10-15", got.Worker.UpcomingShifts[0].WorkDate)
	assert.Equal(t, "2025-10-20", got.Worker.UpcomingShifts[1].WorkDate)
}

func TestGetDashboard_Owner(t *testing.T) {
	f := newFixture(t)
	f.addShift(t, "worker-1", "cafe", time.October, 13, 9, 480)
	f.addShift(t, "worker-2", "cafe", time.October, 13, 9, 240)
	f.addShift(t, "worker-1", "cafe", time.September, 2, 9, 60)
	f.addShift(t, "worker-1", "bar", time.September, 3, 9, 120)
	f.addShift(t, "worker-1", "deli", time.October, 3, 9, 120) // other owner

	got, err := f.svc.GetDashboard(context.Background(), dashboard.DashboardRequest{
		Viewer: user.Viewer{UserID: "owner-1", Role: user.RoleOwner},
		Year:   2025,
		Month:  10,
	})
	require.NoError(t, err)

	require.NotNil(t, got.Owner)
	assert.Nil(t, got.Worker)
	assertDecimal(t, 120000, got.Owner.TotalLaborCost)

	require.Len(t, got.Owner.Workplaces, 2)
	bar, cafe := got.Owner.Workplaces[0], got.Owner.Workplaces[1]

	assert.Equal(t, "Bar", bar.WorkplaceName)
	assert.Equal(t, 0, bar.ShiftCount)
	assertDecimal(t, 20000, bar.PreviousMonthGross)
	assertDecimal(t, -20000, bar.GrossDelta)

	assert.Equal(t, "Cafe", cafe.WorkplaceName)
	assert.Equal(t, 2, cafe.WorkerCount)
	assert.Equal(t, 2, cafe.ShiftCount)
	assert.Equal(t, 720, cafe.TotalMinutes)
	assertDecimal(t, 120000, cafe.TotalGrossIncome)
	assertDecimal(t, 10000, cafe.PreviousMonthGross)
	assertDecimal(t, 110000, cafe.GrossDelta)
}

func TestGetDashboard_Admin(t *testing.T) {
	f := newFixture(t)
	f.addShift(t, "worker-1", "cafe", time.October, 13, 9, 480)
	f.addShift(t, "worker-2", "deli", time.October, 14, 9, 480)
	f.addShift(t, "worker-2", "deli", time.November, 14, 9, 480)

	got, err := f.svc.GetDashboard(context.Background(), dashboard.DashboardRequest{
		Viewer: user.Viewer{UserID: "admin-1", Role: user.RoleAdmin},
		Year:   2025,
		Month:  10,
	})
	require.NoError(t, err)

	require.NotNil(t, got.Admin)
	assert.Nil(t, got.Worker)
	assert.Nil(t, got.Owner)
	assert.Equal(t, 3, got.Admin.WorkplaceCount)
	assert.Equal(t, 2, got.Admin.ShiftCount)
}

func TestGetDashboard_InvalidRequest(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.GetDashboard(context.Background(), dashboard.DashboardRequest{
		Viewer: user.Viewer{UserID: "x", Role: "guest"},
		Year:   2025,
		Month:  10,
	})
	require.Error(t, err)

	_, err = f.svc.GetMonthlySummary(context.Background(), dashboard.SummaryRequest{WorkerID: "worker-1", Year: 2025, Month: 0})
	require.Error(t, err)
}
