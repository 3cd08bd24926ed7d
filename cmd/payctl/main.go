package main

import (
	"context"
	"fmt"
	"os"

	"github.com/cmlabs-hris/shiftpay-backend-go/internal/cli"
	"github.com/cmlabs-hris/shiftpay-backend-go/internal/config"
	"github.com/cmlabs-hris/shiftpay-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/shiftpay-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/shiftpay-backend-go/internal/pkg/logger"
	"github.com/cmlabs-hris/shiftpay-backend-go/internal/repository/postgresql"
	payrollService "github.com/cmlabs-hris/shiftpay-backend-go/internal/service/payroll"
)

func main() {
	payrollCfg, err := config.LoadPayroll()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error loading payroll config:", err)
		os.Exit(1)
	}
	resolver, err := payrollCfg.Resolver()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error building time window resolver:", err)
		os.Exit(1)
	}

	app := &cli.App{
		Calculator: payrollService.NewCalculator(resolver, payrollCfg.Premiums, payrollCfg.Rates),
		Resolver:   resolver,
		Migrate: func(ctx context.Context) ([]string, error) {
			cfg, err := config.Load()
			if err != nil {
				return nil, err
			}
			db, err := database.Connect(ctx, cfg.Pool())
			if err != nil {
				return nil, fmt.Errorf("failed to connect to database: %w", err)
			}
			defer db.Close()

			log := logger.New(os.Stderr, cfg.App.SlogLevel(), "shiftpay-payctl", version, cfg.App.Env)
			return postgresql.Migrate(ctx, db, log)
		},
		Tokens: func() (jwt.Service, error) {
			cfg, err := config.Load()
			if err != nil {
				return nil, err
			}
			return jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration), nil
		},
	}

	if err := cli.NewRootCmd(app).ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

const version = "v1.0.0"
