package salary

import (
	"strings"
	"time"

	"github.com/cmlabs-hris/shiftpay-backend-go/internal/pkg/timewindow"
	"github.com/cmlabs-hris/shiftpay-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// DeductionToggles - which statutory deductions apply
type DeductionToggles struct {
	NationalPension     bool `json:"national_pension"`
	HealthInsurance     bool `json:"health_insurance"`
	EmploymentInsurance bool `json:"employment_insurance"`
	IndustrialAccident  bool `json:"industrial_accident"`
	IncomeTax           bool `json:"income_tax"`
}

type CreatePolicyRequest struct {
	WorkerID                 string           `json:"-"`
	WorkplaceID              string           `json:"-"`
	SalaryType               string           `json:"salary_type"`
	SalaryCalculation        string           `json:"salary_calculation"`
	HourlyRate               *decimal.Decimal `json:"hourly_rate"`
	FixedRate                *decimal.Decimal `json:"fixed_rate"`
	SalaryDate               *int             `json:"salary_date"`
	SalaryDay                *string          `json:"salary_day"`
	Deductions               DeductionToggles `json:"deductions"`
	HolidayAllowanceEligible bool             `json:"holiday_allowance_eligible"`
	NightAllowanceEligible   bool             `json:"night_allowance_eligible"`
}

// ToPolicy maps the request onto a new policy without validating it.
func (r *CreatePolicyRequest) ToPolicy() Policy {
	p := Policy{
		WorkerID:                 r.WorkerID,
		WorkplaceID:              r.WorkplaceID,
		SalaryType:               SalaryType(strings.ToUpper(r.SalaryType)),
		SalaryCalculation:        Calculation(strings.ToUpper(r.SalaryCalculation)),
		HourlyRate:               r.HourlyRate,
		FixedRate:                r.FixedRate,
		SalaryDate:               r.SalaryDate,
		SalaryDay:                r.SalaryDay,
		HolidayAllowanceEligible: r.HolidayAllowanceEligible,
		NightAllowanceEligible:   r.NightAllowanceEligible,
	}
	p.setToggles(r.Deductions)
	return p
}

func (r *CreatePolicyRequest) Validate() error {
	return r.ToPolicy().Validate()
}

// UpdatePolicyRequest - nil fields keep their current value
type UpdatePolicyRequest struct {
	WorkerID                 string            `json:"-"`
	WorkplaceID              string            `json:"-"`
	SalaryType               *string           `json:"salary_type"`
	SalaryCalculation        *string           `json:"salary_calculation"`
	HourlyRate               *decimal.Decimal  `json:"hourly_rate"`
	FixedRate                *decimal.Decimal  `json:"fixed_rate"`
	SalaryDate               *int              `json:"salary_date"`
	SalaryDay                *string           `json:"salary_day"`
	Deductions               *DeductionToggles `json:"deductions"`
	HolidayAllowanceEligible *bool             `json:"holiday_allowance_eligible"`
	NightAllowanceEligible   *bool             `json:"night_allowance_eligible"`
}

// Apply overlays the request on p. The rate and pay-day fields that no
// longer match the resulting calculation mode and cycle are cleared.
func (r *UpdatePolicyRequest) Apply(p Policy) Policy {
	if r.SalaryType != nil {
		p.SalaryType = SalaryType(strings.ToUpper(*r.SalaryType))
	}
	if r.SalaryCalculation != nil {
		p.SalaryCalculation = Calculation(strings.ToUpper(*r.SalaryCalculation))
	}
	if r.HourlyRate != nil {
		p.HourlyRate = r.HourlyRate
	}
	if r.FixedRate != nil {
		p.FixedRate = r.FixedRate
	}
	if r.SalaryDate != nil {
		p.SalaryDate = r.SalaryDate
	}
	if r.SalaryDay != nil {
		p.SalaryDay = r.SalaryDay
	}
	if r.Deductions != nil {
		p.setToggles(*r.Deductions)
	}
	if r.HolidayAllowanceEligible != nil {
		p.HolidayAllowanceEligible = *r.HolidayAllowanceEligible
	}
	if r.NightAllowanceEligible != nil {
		p.NightAllowanceEligible = *r.NightAllowanceEligible
	}

	switch p.SalaryCalculation {
	case CalculationHourly:
		p.FixedRate = nil
	case CalculationFixed:
		p.HourlyRate = nil
	}
	switch p.SalaryType {
	case SalaryTypeMonthly:
		p.SalaryDay = nil
	case SalaryTypeWeekly:
		p.SalaryDate = nil
	case SalaryTypeDaily:
		p.SalaryDate = nil
		p.SalaryDay = nil
	}
	return p
}

// Validate checks the policy as a whole.
func (p Policy) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(p.WorkerID) {
		errs.Add("worker_id", "worker_id is required")
	}
	if validator.IsEmpty(p.WorkplaceID) {
		errs.Add("workplace_id", "workplace_id is required")
	}

	if !validator.OneOf(string(p.SalaryType), SalaryTypeValues) {
		errs.Add("salary_type", "salary_type must be one of: "+strings.Join(SalaryTypeValues, ", "))
	}
	if !validator.OneOf(string(p.SalaryCalculation), CalculationValues) {
		errs.Add("salary_calculation", "salary_calculation must be one of: "+strings.Join(CalculationValues, ", "))
	}

	switch p.SalaryCalculation {
	case CalculationHourly:
		if p.HourlyRate == nil {
			errs.Add("hourly_rate", "hourly_rate is required for HOURLY calculation")
		}
		if p.FixedRate != nil {
			errs.Add("fixed_rate", "fixed_rate must be empty for HOURLY calculation")
		}
	case CalculationFixed:
		if p.FixedRate == nil {
			errs.Add("fixed_rate", "fixed_rate is required for FIXED calculation")
		}
		if p.HourlyRate != nil {
			errs.Add("hourly_rate", "hourly_rate must be empty for FIXED calculation")
		}
	}
	if p.HourlyRate != nil && p.HourlyRate.IsNegative() {
		errs.Add("hourly_rate", "hourly_rate must be a non-negative number")
	}
	if p.FixedRate != nil && p.FixedRate.IsNegative() {
		errs.Add("fixed_rate", "fixed_rate must be a non-negative number")
	}

	switch p.SalaryType {
	case SalaryTypeMonthly:
		if p.SalaryDate == nil {
			errs.Add("salary_date", "salary_date is required for MONTHLY salary")
		} else if *p.SalaryDate < 1 || *p.SalaryDate > 31 {
			errs.Add("salary_date", "salary_date must be between 1 and 31")
		}
	case SalaryTypeWeekly:
		if p.SalaryDay == nil {
			errs.Add("salary_day", "salary_day is required for WEEKLY salary")
		} else if _, err := timewindow.ParseWeekday(*p.SalaryDay); err != nil {
			errs.Add("salary_day", "salary_day must be one of: "+strings.Join(timewindow.WeekdayValues, ", "))
		}
	}

	return errs.Err()
}

// Toggles returns the statutory deduction switches of p.
func (p Policy) Toggles() DeductionToggles {
	return DeductionToggles{
		NationalPension:     p.NationalPension,
		HealthInsurance:     p.HealthInsurance,
		EmploymentInsurance: p.EmploymentInsurance,
		IndustrialAccident:  p.IndustrialAccident,
		IncomeTax:           p.IncomeTax,
	}
}

func (p *Policy) setToggles(t DeductionToggles) {
	p.NationalPension = t.NationalPension
	p.HealthInsurance = t.HealthInsurance
	p.EmploymentInsurance = t.EmploymentInsurance
	p.IndustrialAccident = t.IndustrialAccident
	p.IncomeTax = t.IncomeTax
}

type PolicyResponse struct {
	ID                       string           `json:"id"`
	WorkerID                 string           `json:"worker_id"`
	WorkplaceID              string           `json:"workplace_id"`
	SalaryType               SalaryType       `json:"salary_type"`
	SalaryCalculation        Calculation      `json:"salary_calculation"`
	HourlyRate               *decimal.Decimal `json:"hourly_rate,omitempty"`
	FixedRate                *decimal.Decimal `json:"fixed_rate,omitempty"`
	SalaryDate               *int             `json:"salary_date,omitempty"`
	SalaryDay                *string          `json:"salary_day,omitempty"`
	Deductions               DeductionToggles `json:"deductions"`
	HolidayAllowanceEligible bool             `json:"holiday_allowance_eligible"`
	NightAllowanceEligible   bool             `json:"night_allowance_eligible"`
	CreatedAt                string           `json:"created_at"`
	UpdatedAt                string           `json:"updated_at"`
}

// ToResponse maps a policy to its API shape.
func ToResponse(p Policy) PolicyResponse {
	return PolicyResponse{
		ID:                       p.ID,
		WorkerID:                 p.WorkerID,
		WorkplaceID:              p.WorkplaceID,
		SalaryType:               p.SalaryType,
		SalaryCalculation:        p.SalaryCalculation,
		HourlyRate:               p.HourlyRate,
		FixedRate:                p.FixedRate,
		SalaryDate:               p.SalaryDate,
		SalaryDay:                p.SalaryDay,
		Deductions:               p.Toggles(),
		HolidayAllowanceEligible: p.HolidayAllowanceEligible,
		NightAllowanceEligible:   p.NightAllowanceEligible,
		CreatedAt:                p.CreatedAt.Format(time.RFC3339),
		UpdatedAt:                p.UpdatedAt.Format(time.RFC3339),
	}
}
