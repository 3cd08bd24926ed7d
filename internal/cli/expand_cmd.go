package cli

import (
	"fmt"
	"strconv"

	"github.com/cmlabs-hris/shiftpay-backend-go/internal/domain/payroll"
	"github.com/cmlabs-hris/shiftpay-backend-go/internal/domain/shift"
	shiftService "github.com/cmlabs-hris/shiftpay-backend-go/internal/service/shift"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

func newExpandCmd(app *App) *cobra.Command {
	var (
		f     priceFlags
		days  []string
		until string
	)

	cmd := &cobra.Command{
		Use:   "expand",
		Short: "Preview the occurrences of a repeating shift",
		Example: `  payctl expand --start 2025-10-13T09:00:00+09:00 --end 2025-10-13T18:00:00+09:00 \
    --days MONDAY,WEDNESDAY --until 2025-10-31 --rate 10030`,
		RunE: func(cmd *cobra.Command, args []string) error {
			fields := shift.ShiftFields{
				StartTime:       f.start,
				EndTime:         f.end,
				RestTimeMinutes: f.rest,
				RepeatDays:      days,
			}
			if until != "" {
				fields.RepeatEndDate = &until
			}
			if len(days) > 0 && until == "" {
				return fmt.Errorf("--until is required with --days")
			}

			tmpl, err := fields.ToTemplate("", "", app.Resolver.Location())
			if err != nil {
				return err
			}
			policy, err := f.policy()
			if err != nil {
				return err
			}

			occurrences := shiftService.Occurrences(tmpl, "", app.Resolver)
			loc := app.Resolver.Location()
			rows := make([][]string, 0, len(occurrences))
			total := decimal.Zero
			for _, o := range occurrences {
				priced, err := app.Calculator.Price(payroll.PricingInput{
					Start:       o.StartTime,
					End:         o.EndTime,
					RestMinutes: o.RestTimeMinutes,
					HourlyRate:  policy.SnapshotRate(),
					Policy:      policy,
					RestDay:     f.restDay,
				})
				if err != nil {
					return fmt.Errorf("failed to price %s: %w", o.WorkDate.Format("2006-01-02"), err)
				}
				total = total.Add(priced.Pay.GrossIncome)

				rows = append(rows, []string{
					o.WorkDate.Format("2006-01-02 Mon"),
					o.StartTime.In(loc).Format("15:04"),
					o.EndTime.In(loc).Format("01-02 15:04"),
					strconv.Itoa(priced.Minutes.Net),
					strconv.Itoa(priced.Minutes.Night),
					priced.Pay.GrossIncome.StringFixed(0),
					priced.EstimatedNetIncome.StringFixed(0),
				})
			}

			out := cmd.OutOrStdout()
			fmt.Fprint(out, renderTable([]string{"DATE", "START", "END", "NET MIN", "NIGHT MIN", "GROSS", "NET"}, rows))
			fmt.Fprintf(out, "\n%d occurrence(s), gross %s\n", len(occurrences), total.StringFixed(0))
			return nil
		},
	}

	cmd.Flags().StringVar(&f.start, "start", "", "First shift start (RFC3339)")
	cmd.Flags().StringVar(&f.end, "end", "", "First shift end (RFC3339)")
	cmd.Flags().IntVar(&f.rest, "rest", 0, "Rest minutes inside each shift")
	cmd.Flags().StringVar(&f.rate, "rate", "0", "Hourly rate")
	cmd.Flags().BoolVar(&f.nightEligible, "night", true, "Pay the night premium")
	cmd.Flags().BoolVar(&f.holidayEligible, "holiday", true, "Pay the rest-day premium")
	cmd.Flags().BoolVar(&f.restDay, "rest-day", false, "Treat every occurrence as a rest day")
	cmd.Flags().StringSliceVar(&f.deductions, "deductions", nil, "Deductions to apply")
	cmd.Flags().StringSliceVar(&days, "days", nil, "Weekdays to repeat on, e.g. MONDAY,FRIDAY")
	cmd.Flags().StringVar(&until, "until", "", "Last repeat date, inclusive (YYYY-MM-DD)")
	_ = cmd.MarkFlagRequired("start")
	_ = cmd.MarkFlagRequired("end")

	return cmd
}
