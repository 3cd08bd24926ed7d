package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/cmlabs-hris/shiftpay-backend-go/internal/domain/payroll"
	"github.com/cmlabs-hris/shiftpay-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/shiftpay-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/shiftpay-backend-go/internal/pkg/timewindow"
	payrollService "github.com/cmlabs-hris/shiftpay-backend-go/internal/service/payroll"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var kst = time.FixedZone("KST", 9*60*60)

func newTestApp() *App {
	resolver := timewindow.MustResolver(kst, 22*60, 6*60)
	calc := payrollService.NewCalculator(resolver,
		payroll.Premiums{Night: decimal.RequireFromString("0.5"), Holiday: decimal.RequireFromString("0.5")},
		payroll.RateTable{
			NationalPension: decimal.RequireFromString("0.045"),
			IncomeTax:       decimal.RequireFromString("0.033"),
		},
	)
	return &App{Calculator: calc, Resolver: resolver}
}

func run(t *testing.T, app *App, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := NewRootCmd(app)
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestPriceCmd_DayShift(t *testing.T) {
	out, err := run(t, newTestApp(), "price",
		"--start", "2025-10-13T09:00:00+09:00",
		"--end", "2025-10-13T18:00:00+09:00",
		"--rest", "60",
		"--rate", "10000",
		"--deductions", "national_pension")
	require.NoError(t, err)

	var priced payroll.PricedShift
	require.NoError(t, json.Unmarshal([]byte(out), &priced))
	assert.Equal(t, 480, priced.Minutes.Net)
	assert.Equal(t, 0, priced.Minutes.Night)
	assert.True(t, priced.Pay.GrossIncome.Equal(decimal.NewFromInt(80000)), priced.Pay.GrossIncome.String())
	assert.True(t, priced.Deductions.NationalPension.Equal(decimal.NewFromInt(3600)), priced.Deductions.NationalPension.String())
	assert.True(t, priced.Deductions.IncomeTax.IsZero())
}

func TestPriceCmd_OvernightEndRollsOver(t *testing.T) {
	out, err := run(t, newTestApp(), "price",
		"--start", "2025-10-13T22:00:00+09:00",
		"--end", "2025-10-13T06:00:00+09:00",
		"--rate", "10000")
	require.NoError(t, err)

	var priced payroll.PricedShift
	require.NoError(t, json.Unmarshal([]byte(out), &priced))
	assert.Equal(t, 480, priced.Minutes.Gross)
	assert.Equal(t, 480, priced.Minutes.Night)
}

func TestPriceCmd_InvalidInput(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"missing end", []string{"price", "--start", "2025-10-13T09:00:00+09:00"}},
		{"bad start", []string{"price", "--start", "9am", "--end", "2025-10-13T18:00:00+09:00"}},
		{"negative rate", []string{"price", "--start", "2025-10-13T09:00:00+09:00", "--end", "2025-10-13T18:00:00+09:00", "--rate", "-1"}},
		{"unknown deduction", []string{"price", "--start", "2025-10-13T09:00:00+09:00", "--end", "2025-10-13T18:00:00+09:00", "--deductions", "tithe"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, newTestApp(), tt.args...)
			assert.Error(t, err)
		})
	}
}

func TestExpandCmd(t *testing.T) {
	out, err := run(t, newTestApp(), "expand",
		"--start", "2025-10-13T09:00:00+09:00",
		"--end", "2025-10-13T13:00:00+09:00",
		"--days", "MONDAY,WEDNESDAY",
		"--until", "2025-10-22",
		"--rate", "10000")
	require.NoError(t, err)

	assert.Contains(t, out, "2025-10-13 Mon")
	assert.Contains(t, out, "2025-10-15 Wed")
	assert.Contains(t, out, "2025-10-20 Mon")
	assert.Contains(t, out, "2025-10-22 Wed")
	assert.Contains(t, out, "4 occurrence(s), gross 160000")
}

func TestExpandCmd_RequiresUntilWithDays(t *testing.T) {
	_, err := run(t, newTestApp(), "expand",
		"--start", "2025-10-13T09:00:00+09:00",
		"--end", "2025-10-13T13:00:00+09:00",
		"--days", "MONDAY")
	assert.Error(t, err)
}

func TestMigrateCmd(t *testing.T) {
	app := newTestApp()
	app.Migrate = func(ctx context.Context) ([]string, error) {
		return []string{"001_init"}, nil
	}

	out, err := run(t, app, "migrate")
	require.NoError(t, err)
	assert.Equal(t, "Applied 001_init\n", out)

	app.Migrate = func(ctx context.Context) ([]string, error) { return nil, nil }
	out, err = run(t, app, "migrate")
	require.NoError(t, err)
	assert.Equal(t, "Schema is up to date\n", out)

	app.Migrate = func(ctx context.Context) ([]string, error) { return nil, errors.New("connection refused") }
	_, err = run(t, app, "migrate")
	assert.EqualError(t, err, "connection refused")
}

func TestTokenCmd(t *testing.T) {
	svc := jwt.NewJWTService("test-secret", time.Hour)
	app := newTestApp()
	app.Tokens = func() (jwt.Service, error) { return svc, nil }

	out, err := run(t, app, "token", "--user", "owner-1", "--role", "owner")
	require.NoError(t, err)
	assert.NotEmpty(t, out)

	_, err = run(t, app, "token", "--user", "owner-1", "--role", "manager")
	assert.ErrorIs(t, err, user.ErrInvalidRole)
}
