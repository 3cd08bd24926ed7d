package payroll

import (
	"time"

	"github.com/cmlabs-hris/shiftpay-backend-go/internal/domain/payroll"
	"github.com/cmlabs-hris/shiftpay-backend-go/internal/domain/salary"
	"github.com/cmlabs-hris/shiftpay-backend-go/internal/pkg/timewindow"
	"github.com/shopspring/decimal"
)

var minutesPerHour = decimal.NewFromInt(60)

type calculatorImpl struct {
	resolver *timewindow.Resolver
	premiums payroll.Premiums
	rates    payroll.RateTable
}

// NewCalculator wires the engine with the configured night window, premium
// multipliers and statutory rates.
func NewCalculator(resolver *timewindow.Resolver, premiums payroll.Premiums, rates payroll.RateTable) payroll.Calculator {
	return &calculatorImpl{
		resolver: resolver,
		premiums: premiums,
		rates:    rates,
	}
}

// WorkMinutes implements payroll.Calculator.
//
// Rest time is placed as one block centered on the middle of the span, and
// only the night minutes inside that block are removed from the night count.
func (c *calculatorImpl) WorkMinutes(start, end time.Time, restMinutes int) (payroll.WorkMinutes, error) {
	if restMinutes < 0 {
		return payroll.WorkMinutes{}, payroll.ErrNegativeRest
	}

	gross := int(end.Sub(start) / time.Minute)
	if gross <= 0 {
		return payroll.WorkMinutes{}, payroll.ErrNonPositiveSpan
	}
	if restMinutes >= gross {
		return payroll.WorkMinutes{}, payroll.ErrRestExceedsGross
	}
	net := gross - restMinutes

	night := c.resolver.NightMinutes(start, end)
	if restMinutes > 0 {
		restStart := start.Add(time.Duration((gross-restMinutes)/2) * time.Minute)
		restEnd := restStart.Add(time.Duration(restMinutes) * time.Minute)
		night -= c.resolver.NightMinutes(restStart, restEnd)
	}
	if night < 0 {
		night = 0
	}
	if night > net {
		night = net
	}

	return payroll.WorkMinutes{Gross: gross, Net: net, Night: night}, nil
}

// Pay implements payroll.Calculator. Fixed-rate policies price every shift
// at zero base pay; their fixed amount is counted once per pay cycle when
// months are aggregated.
func (c *calculatorImpl) Pay(minutes payroll.WorkMinutes, hourlyRate decimal.Decimal, policy salary.Policy, restDay bool) payroll.PayComponents {
	pay := payroll.PayComponents{
		BasePay:          decimal.Zero,
		NightAllowance:   decimal.Zero,
		HolidayAllowance: decimal.Zero,
	}

	if policy.IsHourly() {
		pay.BasePay = prorate(minutes.Net, hourlyRate, decimal.NewFromInt(1))
	}
	if policy.NightAllowanceEligible {
		pay.NightAllowance = prorate(minutes.Night, hourlyRate, c.premiums.Night)
	}
	if policy.HolidayAllowanceEligible && restDay {
		pay.HolidayAllowance = prorate(minutes.Net, hourlyRate, c.premiums.Holiday)
	}

	pay.GrossIncome = pay.BasePay.Add(pay.NightAllowance).Add(pay.HolidayAllowance)
	return pay
}

// Deductions implements payroll.Calculator.
func (c *calculatorImpl) Deductions(grossIncome decimal.Decimal, policy salary.Policy) (payroll.DeductionBreakdown, decimal.Decimal) {
	line := func(enabled bool, rate decimal.Decimal) decimal.Decimal {
		if !enabled {
			return decimal.Zero
		}
		return grossIncome.Mul(rate).Round(0)
	}

	d := payroll.DeductionBreakdown{
		NationalPension:     line(policy.NationalPension, c.rates.NationalPension),
		HealthInsurance:     line(policy.HealthInsurance, c.rates.HealthInsurance),
		EmploymentInsurance: line(policy.EmploymentInsurance, c.rates.EmploymentInsurance),
		IndustrialAccident:  line(policy.IndustrialAccident, c.rates.IndustrialAccident),
		IncomeTax:           line(policy.IncomeTax, c.rates.IncomeTax),
	}
	return d, grossIncome.Sub(d.Total())
}

// Price implements payroll.Calculator.
func (c *calculatorImpl) Price(in payroll.PricingInput) (payroll.PricedShift, error) {
	if in.Policy.IsHourly() && in.Policy.HourlyRate == nil {
		return payroll.PricedShift{}, payroll.ErrMissingRate
	}
	if in.Policy.IsFixed() && in.Policy.FixedRate == nil {
		return payroll.PricedShift{}, payroll.ErrMissingRate
	}

	minutes, err := c.WorkMinutes(in.Start, in.End, in.RestMinutes)
	if err != nil {
		return payroll.PricedShift{}, err
	}

	pay := c.Pay(minutes, in.HourlyRate, in.Policy, in.RestDay)
	deductions, net := c.Deductions(pay.GrossIncome, in.Policy)

	return payroll.PricedShift{
		Minutes:            minutes,
		HourlyRate:         in.HourlyRate,
		Pay:                pay,
		Deductions:         deductions,
		EstimatedNetIncome: net,
	}, nil
}

// prorate returns round(minutes / 60 * rate * multiplier), rounding half up
// exactly once.
func prorate(minutes int, rate, multiplier decimal.Decimal) decimal.Decimal {
	if minutes == 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(int64(minutes)).
		Mul(rate).
		Mul(multiplier).
		Div(minutesPerHour).
		Round(0)
}
