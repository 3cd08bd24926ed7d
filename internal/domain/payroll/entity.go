package payroll

import (
	"time"

	"github.com/cmlabs-hris/shiftpay-backend-go/internal/domain/salary"
	"github.com/shopspring/decimal"
)

// WorkMinutes - minute breakdown of one shift
type WorkMinutes struct {
	Gross int `json:"gross_work_minutes"`
	Net   int `json:"net_work_minutes"`
	Night int `json:"night_work_minutes"`
}

// PayComponents - monetary components before deductions
type PayComponents struct {
	BasePay          decimal.Decimal `json:"base_pay"`
	NightAllowance   decimal.Decimal `json:"night_allowance"`
	HolidayAllowance decimal.Decimal `json:"holiday_allowance"`
	GrossIncome      decimal.Decimal `json:"gross_income"`
}

// DeductionBreakdown - itemized statutory deductions; disabled items are zero
type DeductionBreakdown struct {
	NationalPension     decimal.Decimal `json:"national_pension"`
	HealthInsurance     decimal.Decimal `json:"health_insurance"`
	EmploymentInsurance decimal.Decimal `json:"employment_insurance"`
	IndustrialAccident  decimal.Decimal `json:"industrial_accident"`
	IncomeTax           decimal.Decimal `json:"income_tax"`
}

// Total sums every deduction line.
func (d DeductionBreakdown) Total() decimal.Decimal {
	return d.NationalPension.
		Add(d.HealthInsurance).
		Add(d.EmploymentInsurance).
		Add(d.IndustrialAccident).
		Add(d.IncomeTax)
}

// Add returns the line-by-line sum of d and o.
func (d DeductionBreakdown) Add(o DeductionBreakdown) DeductionBreakdown {
	return DeductionBreakdown{
		NationalPension:     d.NationalPension.Add(o.NationalPension),
		HealthInsurance:     d.HealthInsurance.Add(o.HealthInsurance),
		EmploymentInsurance: d.EmploymentInsurance.Add(o.EmploymentInsurance),
		IndustrialAccident:  d.IndustrialAccident.Add(o.IndustrialAccident),
		IncomeTax:           d.IncomeTax.Add(o.IncomeTax),
	}
}

// RateTable - statutory deduction rates as fractions of gross income (0.045 = 4.5%)
type RateTable struct {
	NationalPension     decimal.Decimal
	HealthInsurance     decimal.Decimal
	EmploymentInsurance decimal.Decimal
	IndustrialAccident  decimal.Decimal
	IncomeTax           decimal.Decimal
}

// Premiums - multipliers applied on top of the hourly rate
type Premiums struct {
	Night   decimal.Decimal
	Holiday decimal.Decimal
}

// PricingInput - everything needed to price one shift
type PricingInput struct {
	Start       time.Time
	End         time.Time
	RestMinutes int
	// HourlyRate is the snapshot rate; zero for fixed-rate policies.
	HourlyRate decimal.Decimal
	Policy     salary.Policy
	RestDay    bool
}

// PricedShift - full engine output for one shift
type PricedShift struct {
	Minutes            WorkMinutes        `json:"minutes"`
	HourlyRate         decimal.Decimal    `json:"hourly_rate"`
	Pay                PayComponents      `json:"pay"`
	Deductions         DeductionBreakdown `json:"deductions"`
	EstimatedNetIncome decimal.Decimal    `json:"estimated_net_income"`
}
