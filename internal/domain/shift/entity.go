package shift

import (
	"time"

	"github.com/cmlabs-hris/shiftpay-backend-go/internal/domain/payroll"
	"github.com/cmlabs-hris/shiftpay-backend-go/internal/domain/salary"
	"github.com/shopspring/decimal"
)

// Shift - one concrete, fully priced work instance
type Shift struct {
	ID              string
	WorkerID        string
	WorkplaceID     string
	RoutineIDs      []string
	WorkDate        time.Time // local date of StartTime
	StartTime       time.Time
	EndTime         time.Time
	ActualStartTime *time.Time
	ActualEndTime   *time.Time
	RestTimeMinutes int
	Memo            *string
	RepeatGroupID   *string

	// Derived, recomputed on every write
	GrossWorkMinutes   int
	NetWorkMinutes     int
	NightWorkMinutes   int
	HourlyRate         decimal.Decimal // snapshot taken at creation
	FixedPay           *FixedPay       // snapshot taken at creation, nil for hourly pay
	BasePay            decimal.Decimal
	NightAllowance     decimal.Decimal
	HolidayAllowance   decimal.Decimal
	GrossIncome        decimal.Decimal
	Deductions         payroll.DeductionBreakdown
	EstimatedNetIncome decimal.Decimal

	AlarmSentAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// FixedPay - fixed-rate terms in force when a shift was created
type FixedPay struct {
	Cadence    salary.SalaryType       `json:"cadence"`
	Amount     decimal.Decimal         `json:"amount"`
	Deductions salary.DeductionToggles `json:"deductions"`
}

// NewFixedPay snapshots the fixed-rate terms of p, or returns nil when p
// pays by the hour.
func NewFixedPay(p salary.Policy) *FixedPay {
	if !p.IsFixed() {
		return nil
	}
	return &FixedPay{Cadence: p.SalaryType, Amount: p.FixedAmount(), Deductions: p.Toggles()}
}

// Policy rebuilds the fixed-rate policy the snapshot was taken from, as far
// as cycle pay and its deductions are concerned.
func (f FixedPay) Policy() salary.Policy {
	amount := f.Amount
	return salary.Policy{
		SalaryType:          f.Cadence,
		SalaryCalculation:   salary.CalculationFixed,
		FixedRate:           &amount,
		NationalPension:     f.Deductions.NationalPension,
		HealthInsurance:     f.Deductions.HealthInsurance,
		EmploymentInsurance: f.Deductions.EmploymentInsurance,
		IndustrialAccident:  f.Deductions.IndustrialAccident,
		IncomeTax:           f.Deductions.IncomeTax,
	}
}

// PricingPolicy overlays the shift's own calculation mode and rates on the
// live policy. Re-pricing keeps the live allowance and deduction toggles
// but never moves a shift between hourly and fixed pay.
func (s Shift) PricingPolicy(live salary.Policy) salary.Policy {
	if s.FixedPay != nil {
		amount := s.FixedPay.Amount
		live.SalaryType = s.FixedPay.Cadence
		live.SalaryCalculation = salary.CalculationFixed
		live.FixedRate = &amount
		live.HourlyRate = nil
		return live
	}
	rate := s.HourlyRate
	live.SalaryCalculation = salary.CalculationHourly
	live.HourlyRate = &rate
	live.FixedRate = nil
	return live
}

// Span returns the authoritative interval: actual times when both are
// recorded, otherwise the scheduled ones.
func (s Shift) Span() (time.Time, time.Time) {
	if s.ActualStartTime != nil && s.ActualEndTime != nil {
		return *s.ActualStartTime, *s.ActualEndTime
	}
	return s.StartTime, s.EndTime
}

// ApplyPricing copies engine output onto the shift.
func (s *Shift) ApplyPricing(p payroll.PricedShift) {
	s.GrossWorkMinutes = p.Minutes.Gross
	s.NetWorkMinutes = p.Minutes.Net
	s.NightWorkMinutes = p.Minutes.Night
	s.HourlyRate = p.HourlyRate
	s.BasePay = p.Pay.BasePay
	s.NightAllowance = p.Pay.NightAllowance
	s.HolidayAllowance = p.Pay.HolidayAllowance
	s.GrossIncome = p.Pay.GrossIncome
	s.Deductions = p.Deductions
	s.EstimatedNetIncome = p.EstimatedNetIncome
}

// Overlaps reports whether the scheduled intervals of s and [start, end) intersect.
func (s Shift) Overlaps(start, end time.Time) bool {
	return s.StartTime.Before(end) && s.EndTime.After(start)
}

// Template - a parsed shift request ready for expansion
type Template struct {
	WorkplaceID     string
	RoutineIDs      []string
	StartTime       time.Time
	EndTime         time.Time
	ActualStartTime *time.Time
	ActualEndTime   *time.Time
	RestTimeMinutes int
	Memo            *string
	RepeatDays      []time.Weekday
	RepeatEndDate   *time.Time
	RequestedBy     string
}

// Failure - one occurrence that could not be created
type Failure struct {
	WorkerID string `json:"worker_id"`
	Date     string `json:"date"`
	Reason   string `json:"reason"`
}

const (
	ReasonScheduleConflict = "schedule_conflict"
	ReasonPolicyNotFound   = "policy_not_found"
	ReasonInvalidShift     = "invalid_shift"
	ReasonInternal         = "internal_error"
)

// BatchResult - created ids and structured failures, never nil
type BatchResult struct {
	SuccessIDs []string  `json:"success_ids"`
	Failures   []Failure `json:"failures"`
}

func NewBatchResult() BatchResult {
	return BatchResult{SuccessIDs: []string{}, Failures: []Failure{}}
}

// Merge appends o's entries to r.
func (r *BatchResult) Merge(o BatchResult) {
	r.SuccessIDs = append(r.SuccessIDs, o.SuccessIDs...)
	r.Failures = append(r.Failures, o.Failures...)
}

// AlarmPayload - what a push channel needs to remind a worker of a shift
type AlarmPayload struct {
	ShiftID           string    `json:"shift_id"`
	WorkerID          string    `json:"worker_id"`
	WorkplaceID       string    `json:"workplace_id"`
	StartTime         time.Time `json:"start_time"`
	MinutesUntilStart int       `json:"minutes_until_start"`
}

// NewAlarmPayload builds the reminder for s as seen at now.
func NewAlarmPayload(s Shift, now time.Time) AlarmPayload {
	until := int(s.StartTime.Sub(now) / time.Minute)
	if until < 0 {
		until = 0
	}
	return AlarmPayload{
		ShiftID:           s.ID,
		WorkerID:          s.WorkerID,
		WorkplaceID:       s.WorkplaceID,
		StartTime:         s.StartTime,
		MinutesUntilStart: until,
	}
}
