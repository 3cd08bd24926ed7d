package payroll

import (
	"time"

	"github.com/cmlabs-hris/shiftpay-backend-go/internal/domain/salary"
	"github.com/shopspring/decimal"
)

// Calculator turns shift timestamps into priced components. Implementations
// are pure: the same input always yields the same output.
type Calculator interface {
	WorkMinutes(start, end time.Time, restMinutes int) (WorkMinutes, error)
	Pay(minutes WorkMinutes, hourlyRate decimal.Decimal, policy salary.Policy, restDay bool) PayComponents
	Deductions(grossIncome decimal.Decimal, policy salary.Policy) (DeductionBreakdown, decimal.Decimal)
	Price(in PricingInput) (PricedShift, error)
}
