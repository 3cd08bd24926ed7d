package cli

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/cmlabs-hris/shiftpay-backend-go/internal/domain/payroll"
	"github.com/cmlabs-hris/shiftpay-backend-go/internal/domain/salary"
	"github.com/cmlabs-hris/shiftpay-backend-go/internal/domain/shift"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

type priceFlags struct {
	start           string
	end             string
	rest            int
	rate            string
	restDay         bool
	nightEligible   bool
	holidayEligible bool
	deductions      []string
}

func newPriceCmd(app *App) *cobra.Command {
	var f priceFlags

	cmd := &cobra.Command{
		Use:   "price",
		Short: "Price a single shift",
		Example: `  payctl price --start 2025-10-13T22:00:00+09:00 --end 2025-10-14T06:00:00+09:00 \
    --rest 60 --rate 10030 --deductions national_pension,income_tax`,
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := f.input()
			if err != nil {
				return err
			}
			priced, err := app.Calculator.Price(in)
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(priced)
		},
	}

	cmd.Flags().StringVar(&f.start, "start", "", "Shift start (RFC3339)")
	cmd.Flags().StringVar(&f.end, "end", "", "Shift end (RFC3339); an earlier clock time means the next day")
	cmd.Flags().IntVar(&f.rest, "rest", 0, "Rest minutes inside the shift")
	cmd.Flags().StringVar(&f.rate, "rate", "0", "Hourly rate")
	cmd.Flags().BoolVar(&f.restDay, "rest-day", false, "Shift falls on a designated rest day")
	cmd.Flags().BoolVar(&f.nightEligible, "night", true, "Pay the night premium")
	cmd.Flags().BoolVar(&f.holidayEligible, "holiday", true, "Pay the rest-day premium")
	cmd.Flags().StringSliceVar(&f.deductions, "deductions", nil, "Deductions to apply: "+strings.Join(deductionNames, ", "))
	_ = cmd.MarkFlagRequired("start")
	_ = cmd.MarkFlagRequired("end")

	return cmd
}

var deductionNames = []string{"national_pension", "health_insurance", "employment_insurance", "industrial_accident", "income_tax"}

func (f priceFlags) input() (payroll.PricingInput, error) {
	start, err := time.Parse(time.RFC3339, f.start)
	if err != nil {
		return payroll.PricingInput{}, fmt.Errorf("invalid --start: %w", err)
	}
	end, err := time.Parse(time.RFC3339, f.end)
	if err != nil {
		return payroll.PricingInput{}, fmt.Errorf("invalid --end: %w", err)
	}
	policy, err := f.policy()
	if err != nil {
		return payroll.PricingInput{}, err
	}

	return payroll.PricingInput{
		Start:       start,
		End:         shift.NormalizeEnd(start, end),
		RestMinutes: f.rest,
		HourlyRate:  policy.SnapshotRate(),
		Policy:      policy,
		RestDay:     f.restDay,
	}, nil
}

// policy builds the hourly policy the flags describe.
func (f priceFlags) policy() (salary.Policy, error) {
	rate, err := decimal.NewFromString(f.rate)
	if err != nil {
		return salary.Policy{}, fmt.Errorf("invalid --rate: %w", err)
	}
	if rate.IsNegative() {
		return salary.Policy{}, fmt.Errorf("invalid --rate: must be non-negative")
	}

	p := salary.Policy{
		SalaryType:               salary.SalaryTypeMonthly,
		SalaryCalculation:        salary.CalculationHourly,
		HourlyRate:               &rate,
		NightAllowanceEligible:   f.nightEligible,
		HolidayAllowanceEligible: f.holidayEligible,
	}
	for _, d := range f.deductions {
		switch strings.ToLower(strings.TrimSpace(d)) {
		case "national_pension":
			p.NationalPension = true
		case "health_insurance":
			p.HealthInsurance = true
		case "employment_insurance":
			p.EmploymentInsurance = true
		case "industrial_accident":
			p.IndustrialAccident = true
		case "income_tax":
			p.IncomeTax = true
		case "":
		default:
			return salary.Policy{}, fmt.Errorf("unknown deduction %q", d)
		}
	}
	return p, nil
}
