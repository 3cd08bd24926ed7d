package dashboard

import (
	"github.com/cmlabs-hris/shiftpay-backend-go/internal/domain/payroll"
	"github.com/cmlabs-hris/shiftpay-backend-go/internal/domain/shift"
	"github.com/cmlabs-hris/shiftpay-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/shiftpay-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// ========== MONTHLY SUMMARY ==========

// Totals are the summed pay and minute components of a set of shifts
type Totals struct {
	ShiftCount            int                        `json:"shift_count"`
	TotalMinutes          int                        `json:"total_minutes"` // net work minutes
	TotalNightMinutes     int                        `json:"total_night_minutes"`
	TotalBasePay          decimal.Decimal            `json:"total_base_pay"`
	TotalNightAllowance   decimal.Decimal            `json:"total_night_allowance"`
	TotalHolidayAllowance decimal.Decimal            `json:"total_holiday_allowance"`
	TotalGrossIncome      decimal.Decimal            `json:"total_gross_income"`
	TotalNetIncome        decimal.Decimal            `json:"total_net_income"`
	DeductionBreakdown    payroll.DeductionBreakdown `json:"deduction_breakdown"`
}

// AddShift folds one priced shift into t.
func (t *Totals) AddShift(s shift.Shift) {
	t.ShiftCount++
	t.TotalMinutes += s.NetWorkMinutes
	t.TotalNightMinutes += s.NightWorkMinutes
	t.TotalBasePay = t.TotalBasePay.Add(s.BasePay)
	t.TotalNightAllowance = t.TotalNightAllowance.Add(s.NightAllowance)
	t.TotalHolidayAllowance = t.TotalHolidayAllowance.Add(s.HolidayAllowance)
	t.TotalGrossIncome = t.TotalGrossIncome.Add(s.GrossIncome)
	t.TotalNetIncome = t.TotalNetIncome.Add(s.EstimatedNetIncome)
	t.DeductionBreakdown = t.DeductionBreakdown.Add(s.Deductions)
}

// Add folds o into t.
func (t *Totals) Add(o Totals) {
	t.ShiftCount += o.ShiftCount
	t.TotalMinutes += o.TotalMinutes
	t.TotalNightMinutes += o.TotalNightMinutes
	t.TotalBasePay = t.TotalBasePay.Add(o.TotalBasePay)
	t.TotalNightAllowance = t.TotalNightAllowance.Add(o.TotalNightAllowance)
	t.TotalHolidayAllowance = t.TotalHolidayAllowance.Add(o.TotalHolidayAllowance)
	t.TotalGrossIncome = t.TotalGrossIncome.Add(o.TotalGrossIncome)
	t.TotalNetIncome = t.TotalNetIncome.Add(o.TotalNetIncome)
	t.DeductionBreakdown = t.DeductionBreakdown.Add(o.DeductionBreakdown)
}

// WorkplaceSummary - one worker's month at one workplace
type WorkplaceSummary struct {
	WorkplaceID   string          `json:"workplace_id"`
	WorkplaceName string          `json:"workplace_name,omitempty"`
	FixedPay      decimal.Decimal `json:"fixed_pay"`    // fixed-rate amount included in the totals
	FixedCycles   int             `json:"fixed_cycles"` // pay cycles the fixed amount was counted for
	Totals
}

// MonthlySummary - recomputed on every request, never cached
type MonthlySummary struct {
	WorkerID                    string             `json:"worker_id"`
	Year                        int                `json:"year"`
	Month                       int                `json:"month"`
	PreviousMonthNetIncomeDelta decimal.Decimal    `json:"previous_month_net_income_delta"`
	Workplaces                  []WorkplaceSummary `json:"workplaces"`
	Totals
}

type SummaryRequest struct {
	WorkerID    string
	WorkplaceID *string // nil = every workplace of the worker
	Year        int
	Month       int
}

func (r *SummaryRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.WorkerID) {
		errs.Add("worker_id", "worker_id is required")
	}
	errs = append(errs, validatePeriod(r.Year, r.Month)...)

	return errs.Err()
}

func validatePeriod(year, month int) validator.ValidationErrors {
	var errs validator.ValidationErrors
	if year < 2000 || year > 2100 {
		errs.Add("year", "year must be between 2000 and 2100")
	}
	if month < 1 || month > 12 {
		errs.Add("month", "month must be between 1 and 12")
	}
	return errs
}

// ========== ROLE DASHBOARDS ==========

// Dashboard is a role-tagged union: exactly one branch matching Role is set.
type Dashboard struct {
	Role   user.Role        `json:"role"`
	Worker *WorkerDashboard `json:"worker,omitempty"`
	Owner  *OwnerDashboard  `json:"owner,omitempty"`
	Admin  *AdminDashboard  `json:"admin,omitempty"`
}

type WorkerDashboard struct {
	Summary        MonthlySummary        `json:"summary"`
	UpcomingShifts []shift.ShiftResponse `json:"upcoming_shifts"`
}

// WorkplaceLaborCost - what one workplace owes its workers for a month
type WorkplaceLaborCost struct {
	WorkplaceID        string          `json:"workplace_id"`
	WorkplaceName      string          `json:"workplace_name"`
	WorkerCount        int             `json:"worker_count"`
	ShiftCount         int             `json:"shift_count"`
	TotalMinutes       int             `json:"total_minutes"`
	TotalGrossIncome   decimal.Decimal `json:"total_gross_income"`
	PreviousMonthGross decimal.Decimal `json:"previous_month_gross"`
	GrossDelta         decimal.Decimal `json:"gross_delta"`
}

type OwnerDashboard struct {
	Year           int                  `json:"year"`
	Month          int                  `json:"month"`
	TotalLaborCost decimal.Decimal      `json:"total_labor_cost"`
	Workplaces     []WorkplaceLaborCost `json:"workplaces"`
}

type AdminDashboard struct {
	Year           int `json:"year"`
	Month          int `json:"month"`
	WorkplaceCount int `json:"workplace_count"`
	ShiftCount     int `json:"shift_count"`
}

type DashboardRequest struct {
	Viewer user.Viewer
	Year   int
	Month  int
}

func (r *DashboardRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Viewer.UserID) {
		errs.Add("user_id", "user_id is required")
	}
	if !r.Viewer.Role.IsValid() {
		errs.Add("role", "role must be one of: owner, worker, admin")
	}
	errs = append(errs, validatePeriod(r.Year, r.Month)...)

	return errs.Err()
}
