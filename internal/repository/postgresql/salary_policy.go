package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/shiftpay-backend-go/internal/domain/salary"
	"github.com/cmlabs-hris/shiftpay-backend-go/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const salaryPolicyColumns = `
	id, worker_id, workplace_id, salary_type, salary_calculation, hourly_rate, fixed_rate,
	salary_date, salary_day, national_pension, health_insurance, employment_insurance,
	industrial_accident, income_tax, holiday_allowance_eligible, night_allowance_eligible,
	created_at, updated_at`

// uniqueViolation is the PostgreSQL SQLSTATE for unique_violation.
const uniqueViolation = "23505"

type salaryPolicyRepository struct {
	db *database.DB
}

func NewSalaryPolicyRepository(db *database.DB) salary.PolicyRepository {
	return &salaryPolicyRepository{db: db}
}

func (r *salaryPolicyRepository) Create(ctx context.Context, p salary.Policy) (salary.Policy, error) {
	q := GetQuerier(ctx, r.db)

	p.ID = uuid.New().String()
	now := time.Now()
	p.CreatedAt = now
	p.UpdatedAt = now

	query := fmt.Sprintf(`INSERT INTO salary_policies (%s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)`, salaryPolicyColumns)

	_, err := q.Exec(ctx, query, policyArgs(p)...)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return salary.Policy{}, salary.ErrPolicyExists
		}
		return salary.Policy{}, fmt.Errorf("failed to create salary policy: %w", err)
	}
	return p, nil
}

func (r *salaryPolicyRepository) Update(ctx context.Context, p salary.Policy) (salary.Policy, error) {
	q := GetQuerier(ctx, r.db)

	p.UpdatedAt = time.Now()
	query := `
		UPDATE salary_policies SET
			salary_type = $3, salary_calculation = $4, hourly_rate = $5, fixed_rate = $6,
			salary_date = $7, salary_day = $8, national_pension = $9, health_insurance = $10,
			employment_insurance = $11, industrial_accident = $12, income_tax = $13,
			holiday_allowance_eligible = $14, night_allowance_eligible = $15, updated_at = $16
		WHERE worker_id = $1 AND workplace_id = $2
		RETURNING id, created_at`

	err := q.QueryRow(ctx, query,
		p.WorkerID, p.WorkplaceID, string(p.SalaryType), string(p.SalaryCalculation),
		p.HourlyRate, p.FixedRate, p.SalaryDate, p.SalaryDay,
		p.NationalPension, p.HealthInsurance, p.EmploymentInsurance, p.IndustrialAccident, p.IncomeTax,
		p.HolidayAllowanceEligible, p.NightAllowanceEligible, p.UpdatedAt,
	).Scan(&p.ID, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return salary.Policy{}, salary.ErrPolicyNotFound
		}
		return salary.Policy{}, fmt.Errorf("failed to update salary policy: %w", err)
	}
	return p, nil
}

func policyArgs(p salary.Policy) []interface{} {
	return []interface{}{
		p.ID, p.WorkerID, p.WorkplaceID, string(p.SalaryType), string(p.SalaryCalculation),
		p.HourlyRate, p.FixedRate, p.SalaryDate, p.SalaryDay,
		p.NationalPension, p.HealthInsurance, p.EmploymentInsurance, p.IndustrialAccident, p.IncomeTax,
		p.HolidayAllowanceEligible, p.NightAllowanceEligible, p.CreatedAt, p.UpdatedAt,
	}
}

func scanPolicy(row pgx.Row) (salary.Policy, error) {
	var (
		p           salary.Policy
		salaryType  string
		calculation string
	)
	err := row.Scan(
		&p.ID, &p.WorkerID, &p.WorkplaceID, &salaryType, &calculation,
		&p.HourlyRate, &p.FixedRate, &p.SalaryDate, &p.SalaryDay,
		&p.NationalPension, &p.HealthInsurance, &p.EmploymentInsurance, &p.IndustrialAccident, &p.IncomeTax,
		&p.HolidayAllowanceEligible, &p.NightAllowanceEligible, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return salary.Policy{}, err
	}
	p.SalaryType = salary.SalaryType(salaryType)
	p.SalaryCalculation = salary.Calculation(calculation)
	return p, nil
}

func (r *salaryPolicyRepository) GetByWorkerAndWorkplace(ctx context.Context, workerID, workplaceID string) (salary.Policy, error) {
	q := GetQuerier(ctx, r.db)

	query := fmt.Sprintf(`SELECT %s FROM salary_policies WHERE worker_id = $1 AND workplace_id = $2`, salaryPolicyColumns)
	p, err := scanPolicy(q.QueryRow(ctx, query, workerID, workplaceID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return salary.Policy{}, salary.ErrPolicyNotFound
		}
		return salary.Policy{}, fmt.Errorf("failed to get salary policy: %w", err)
	}
	return p, nil
}

func (r *salaryPolicyRepository) ListByWorkplace(ctx context.Context, workplaceID string) ([]salary.Policy, error) {
	q := GetQuerier(ctx, r.db)

	query := fmt.Sprintf(`SELECT %s FROM salary_policies WHERE workplace_id = $1 ORDER BY worker_id`, salaryPolicyColumns)
	rows, err := q.Query(ctx, query, workplaceID)
	if err != nil {
		return nil, fmt.Errorf("failed to list salary policies: %w", err)
	}
	defer rows.Close()

	policies := make([]salary.Policy, 0)
	for rows.Next() {
		p, err := scanPolicy(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan salary policy: %w", err)
		}
		policies = append(policies, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate salary policies: %w", err)
	}
	return policies, nil
}
