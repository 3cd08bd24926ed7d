package salary

import (
	"time"

	"github.com/shopspring/decimal"
)

// SalaryType is the pay cycle cadence
type SalaryType string

const (
	SalaryTypeMonthly SalaryType = "MONTHLY"
	SalaryTypeWeekly  SalaryType = "WEEKLY"
	SalaryTypeDaily   SalaryType = "DAILY"
)

var SalaryTypeValues = []string{string(SalaryTypeMonthly), string(SalaryTypeWeekly), string(SalaryTypeDaily)}

// Calculation decides how base pay is derived
type Calculation string

const (
	CalculationHourly Calculation = "HOURLY"
	CalculationFixed  Calculation = "FIXED"
)

var CalculationValues = []string{string(CalculationHourly), string(CalculationFixed)}

// Policy - pay rules for one worker at one workplace
type Policy struct {
	ID                string
	WorkerID          string
	WorkplaceID       string
	SalaryType        SalaryType
	SalaryCalculation Calculation
	HourlyRate        *decimal.Decimal
	FixedRate         *decimal.Decimal
	SalaryDate        *int    // day of month, MONTHLY only
	SalaryDay         *string // weekday name, WEEKLY only

	NationalPension          bool
	HealthInsurance          bool
	EmploymentInsurance      bool
	IndustrialAccident       bool
	IncomeTax                bool
	HolidayAllowanceEligible bool
	NightAllowanceEligible   bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (p Policy) IsHourly() bool {
	return p.SalaryCalculation == CalculationHourly
}

func (p Policy) IsFixed() bool {
	return p.SalaryCalculation == CalculationFixed
}

// SnapshotRate is the hourly rate copied onto new shifts. Fixed-rate
// policies snapshot zero so per-shift pay stays zero.
func (p Policy) SnapshotRate() decimal.Decimal {
	if p.IsHourly() && p.HourlyRate != nil {
		return *p.HourlyRate
	}
	return decimal.Zero
}

// FixedAmount returns the per-cycle amount of a fixed-rate policy.
func (p Policy) FixedAmount() decimal.Decimal {
	if p.IsFixed() && p.FixedRate != nil {
		return *p.FixedRate
	}
	return decimal.Zero
}
