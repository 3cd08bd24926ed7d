package cli

import (
	"context"

	"github.com/cmlabs-hris/shiftpay-backend-go/internal/domain/payroll"
	"github.com/cmlabs-hris/shiftpay-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/shiftpay-backend-go/internal/pkg/timewindow"
	"github.com/spf13/cobra"
)

// App holds what the commands need. Migrate and Tokens are resolved lazily
// so pricing commands run without a database or secrets.
type App struct {
	Calculator payroll.Calculator
	Resolver   *timewindow.Resolver
	Migrate    func(ctx context.Context) ([]string, error)
	Tokens     func() (jwt.Service, error)
}

// NewRootCmd creates the top-level "payctl" command.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "payctl",
		Short:         "Shift pay engine tooling",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newPriceCmd(app),
		newExpandCmd(app),
		newMigrateCmd(app),
		newTokenCmd(app),
	)

	return root
}
