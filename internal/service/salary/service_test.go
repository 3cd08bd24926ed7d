package salary

import (
	"context"
	"testing"

	"github.com/cmlabs-hris/shiftpay-backend-go/internal/domain/salary"
	"github.com/cmlabs-hris/shiftpay-backend-go/internal/pkg/validator"
	"github.com/cmlabs-hris/shiftpay-backend-go/internal/repository/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func hourlyRequest(rate int64) salary.CreatePolicyRequest {
	r := decimal.NewFromInt(rate)
	payday := 10
	return salary.CreatePolicyRequest{
		WorkerID:          "worker-1",
		WorkplaceID:       "workplace-1",
		SalaryType:        "monthly",
		SalaryCalculation: "hourly",
		HourlyRate:        &r,
		SalaryDate:        &payday,
		Deductions:        salary.DeductionToggles{IncomeTax: true},
	}
}

func TestSalaryService_CreatePolicy(t *testing.T) {
	ctx := context.Background()
	svc := NewSalaryService(memory.NewPolicyRepository(), nil, nil)

	resp, err := svc.CreatePolicy(ctx, hourlyRequest(10030))
	require.NoError(t, err)

	assert.NotEmpty(t, resp.ID)
	assert.Equal(t, salary.SalaryTypeMonthly, resp.SalaryType)
	assert.Equal(t, salary.CalculationHourly, resp.SalaryCalculation)
	assert.True(t, resp.HourlyRate.Equal(decimal.NewFromInt(10030)))
	assert.True(t, resp.Deductions.IncomeTax)
	assert.False(t, resp.Deductions.NationalPension)

	_, err = svc.CreatePolicy(ctx, hourlyRequest(12000))
	assert.ErrorIs(t, err, salary.ErrPolicyExists)
}

func TestSalaryService_CreatePolicy_Validation(t *testing.T) {
	ctx := context.Background()
	svc := NewSalaryService(memory.NewPolicyRepository(), nil, nil)

	tests := []struct {
		name   string
		mutate func(*salary.CreatePolicyRequest)
		field  string
	}{
		{"hourly without rate", func(r *salary.CreatePolicyRequest) { r.HourlyRate = nil }, "hourly_rate"},
		{"fixed without amount", func(r *salary.CreatePolicyRequest) { r.SalaryCalculation = "FIXED"; r.HourlyRate = nil }, "fixed_rate"},
		{"unknown cycle", func(r *salary.CreatePolicyRequest) { r.SalaryType = "YEARLY" }, "salary_type"},
		{"monthly without payday", func(r *salary.CreatePolicyRequest) { r.SalaryDate = nil }, "salary_date"},
		{"weekly without weekday", func(r *salary.CreatePolicyRequest) { r.SalaryType = "WEEKLY"; r.SalaryDate = nil }, "salary_day"},
		{"negative rate", func(r *salary.CreatePolicyRequest) { neg := decimal.NewFromInt(-1); r.HourlyRate = &neg }, "hourly_rate"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := hourlyRequest(10000)
			tt.mutate(&req)

			_, err := svc.CreatePolicy(ctx, req)
			require.Error(t, err)

			var verrs validator.ValidationErrors
			require.ErrorAs(t, err, &verrs)
			assert.Contains(t, verrs.ToMap(), tt.field)
		})
	}
}

func TestSalaryService_UpdatePolicy(t *testing.T) {
	ctx := context.Background()
	svc := NewSalaryService(memory.NewPolicyRepository(), nil, nil)

	_, err := svc.CreatePolicy(ctx, hourlyRequest(10000))
	require.NoError(t, err)

	fixed := decimal.NewFromInt(2000000)
	calc := "FIXED"
	night := true
	resp, err := svc.UpdatePolicy(ctx, salary.UpdatePolicyRequest{
		WorkerID:               "worker-1",
		WorkplaceID:            "workplace-1",
		SalaryCalculation:      &calc,
		FixedRate:              &fixed,
		NightAllowanceEligible: &night,
	})
	require.NoError(t, err)

	assert.Equal(t, salary.CalculationFixed, resp.SalaryCalculation)
	assert.Nil(t, resp.HourlyRate, "switching to FIXED clears the hourly rate")
	assert.True(t, resp.FixedRate.Equal(fixed))
	assert.True(t, resp.NightAllowanceEligible)
	assert.True(t, resp.Deductions.IncomeTax, "untouched toggles keep their value")

	got, err := svc.GetPolicy(ctx, "worker-1", "workplace-1")
	require.NoError(t, err)
	assert.Equal(t, resp.ID, got.ID)
	assert.Equal(t, salary.CalculationFixed, got.SalaryCalculation)
}

func TestSalaryService_UpdatePolicy_NotFound(t *testing.T) {
	svc := NewSalaryService(memory.NewPolicyRepository(), nil, nil)

	_, err := svc.UpdatePolicy(context.Background(), salary.UpdatePolicyRequest{WorkerID: "nobody", WorkplaceID: "workplace-1"})
	assert.ErrorIs(t, err, salary.ErrPolicyNotFound)

	_, err = svc.GetPolicy(context.Background(), "nobody", "workplace-1")
	assert.ErrorIs(t, err, salary.ErrPolicyNotFound)
}

func TestSalaryService_ListPolicies(t *testing.T) {
	ctx := context.Background()
	svc := NewSalaryService(memory.NewPolicyRepository(), nil, nil)

	for _, worker := range []string{"worker-b", "worker-a"} {
		req := hourlyRequest(10000)
		req.WorkerID = worker
		_, err := svc.CreatePolicy(ctx, req)
		require.NoError(t, err)
	}

	list, err := svc.ListPolicies(ctx, "workplace-1")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "worker-a", list[0].WorkerID)

	empty, err := svc.ListPolicies(ctx, "workplace-2")
	require.NoError(t, err)
	assert.Empty(t, empty)
}
