package cli

import (
	"fmt"
	"time"

	"github.com/cmlabs-hris/shiftpay-backend-go/internal/domain/user"
	"github.com/spf13/cobra"
)

func newTokenCmd(app *App) *cobra.Command {
	var (
		userID string
		role   string
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue an access token for local testing",
		RunE: func(cmd *cobra.Command, args []string) error {
			r := user.Role(role)
			if !r.IsValid() {
				return user.ErrInvalidRole
			}
			if app.Tokens == nil {
				return fmt.Errorf("token signing is not configured")
			}
			tokens, err := app.Tokens()
			if err != nil {
				return err
			}

			token, expiresAt, err := tokens.GenerateAccessToken(userID, r)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, token)
			fmt.Fprintf(cmd.ErrOrStderr(), "expires %s\n", time.Unix(expiresAt, 0).Format(time.RFC3339))
			return nil
		},
	}

	cmd.Flags().StringVar(&userID, "user", "", "User ID to embed")
	cmd.Flags().StringVar(&role, "role", string(user.RoleWorker), "Role: owner, worker or admin")
	_ = cmd.MarkFlagRequired("user")

	return cmd
}
