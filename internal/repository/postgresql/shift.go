package postgresql

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cmlabs-hris/shiftpay-backend-go/internal/domain/shift"
	"github.com/cmlabs-hris/shiftpay-backend-go/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const shiftColumns = `
	id, worker_id, workplace_id, routine_ids, work_date, start_time, end_time,
	actual_start_time, actual_end_time, rest_time_minutes, memo, repeat_group_id,
	gross_work_minutes, net_work_minutes, night_work_minutes, hourly_rate,
	base_pay, night_allowance, holiday_allowance, gross_income,
	national_pension, health_insurance, employment_insurance, industrial_accident, income_tax,
	estimated_net_income, alarm_sent_at, created_at, updated_at, fixed_pay`

const dateLayout = "2006-01-02"

type shiftRepository struct {
	db *database.DB
	// loc turns stored DATE values back into local midnights.
	loc *time.Location
}

func NewShiftRepository(db *database.DB, loc *time.Location) shift.Repository {
	return &shiftRepository{db: db, loc: loc}
}

func (r *shiftRepository) Create(ctx context.Context, s *shift.Shift) error {
	q := GetQuerier(ctx, r.db)

	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	now := time.Now()
	s.CreatedAt = now
	s.UpdatedAt = now

	query := fmt.Sprintf(`INSERT INTO shifts (%s) VALUES (
		$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15,
		$16, $17, $18, $19, $20, $21, $22, $23, $24, $25, $26, $27, $28, $29, $30)`, shiftColumns)

	args, err := shiftArgs(*s)
	if err != nil {
		return err
	}
	if _, err := q.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to create shift: %w", err)
	}
	return nil
}

func (r *shiftRepository) Update(ctx context.Context, s shift.Shift) error {
	q := GetQuerier(ctx, r.db)

	s.UpdatedAt = time.Now()
	query := `
		UPDATE shifts SET
			worker_id = $2, workplace_id = $3, routine_ids = $4, work_date = $5,
			start_time = $6, end_time = $7, actual_start_time = $8, actual_end_time = $9,
			rest_time_minutes = $10, memo = $11, repeat_group_id = $12,
			gross_work_minutes = $13, net_work_minutes = $14, night_work_minutes = $15,
			hourly_rate = $16, base_pay = $17, night_allowance = $18, holiday_allowance = $19,
			gross_income = $20, national_pension = $21, health_insurance = $22,
			employment_insurance = $23, industrial_accident = $24, income_tax = $25,
			estimated_net_income = $26, alarm_sent_at = $27, updated_at = $28, fixed_pay = $29
		WHERE id = $1`

	args, err := shiftArgs(s)
	if err != nil {
		return err
	}
	fixedPay := args[29]
	args = append(args[:27], s.UpdatedAt, fixedPay)
	result, err := q.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update shift: %w", err)
	}
	if result.RowsAffected() == 0 {
		return shift.ErrShiftNotFound
	}
	return nil
}

// shiftArgs lists s in shiftColumns order.
func shiftArgs(s shift.Shift) ([]interface{}, error) {
	routineIDs := s.RoutineIDs
	if routineIDs == nil {
		routineIDs = []string{}
	}
	var fixedPay []byte
	if s.FixedPay != nil {
		raw, err := json.Marshal(s.FixedPay)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal fixed pay: %w", err)
		}
		fixedPay = raw
	}
	return []interface{}{
		s.ID, s.WorkerID, s.WorkplaceID, routineIDs, s.WorkDate.Format(dateLayout),
		s.StartTime, s.EndTime, s.ActualStartTime, s.ActualEndTime,
		s.RestTimeMinutes, s.Memo, s.RepeatGroupID,
		s.GrossWorkMinutes, s.NetWorkMinutes, s.NightWorkMinutes, s.HourlyRate,
		s.BasePay, s.NightAllowance, s.HolidayAllowance, s.GrossIncome,
		s.Deductions.NationalPension, s.Deductions.HealthInsurance, s.Deductions.EmploymentInsurance,
		s.Deductions.IndustrialAccident, s.Deductions.IncomeTax,
		s.EstimatedNetIncome, s.AlarmSentAt, s.CreatedAt, s.UpdatedAt, fixedPay,
	}, nil
}

func (r *shiftRepository) scan(row pgx.Row) (shift.Shift, error) {
	var (
		s        shift.Shift
		workDate time.Time
		fixedPay []byte
	)
	err := row.Scan(
		&s.ID, &s.WorkerID, &s.WorkplaceID, &s.RoutineIDs, &workDate,
		&s.StartTime, &s.EndTime, &s.ActualStartTime, &s.ActualEndTime,
		&s.RestTimeMinutes, &s.Memo, &s.RepeatGroupID,
		&s.GrossWorkMinutes, &s.NetWorkMinutes, &s.NightWorkMinutes, &s.HourlyRate,
		&s.BasePay, &s.NightAllowance, &s.HolidayAllowance, &s.GrossIncome,
		&s.Deductions.NationalPension, &s.Deductions.HealthInsurance, &s.Deductions.EmploymentInsurance,
		&s.Deductions.IndustrialAccident, &s.Deductions.IncomeTax,
		&s.EstimatedNetIncome, &s.AlarmSentAt, &s.CreatedAt, &s.UpdatedAt, &fixedPay,
	)
	if err != nil {
		return shift.Shift{}, err
	}
	if len(fixedPay) > 0 {
		s.FixedPay = &shift.FixedPay{}
		if err := json.Unmarshal(fixedPay, s.FixedPay); err != nil {
			return shift.Shift{}, fmt.Errorf("failed to unmarshal fixed pay: %w", err)
		}
	}
	s.WorkDate = time.Date(workDate.Year(), workDate.Month(), workDate.Day(), 0, 0, 0, 0, r.loc)
	return s, nil
}

func (r *shiftRepository) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	result, err := q.Exec(ctx, `DELETE FROM shifts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete shift: %w", err)
	}
	if result.RowsAffected() == 0 {
		return shift.ErrShiftNotFound
	}
	return nil
}

func (r *shiftRepository) GetByID(ctx context.Context, id string) (shift.Shift, error) {
	q := GetQuerier(ctx, r.db)

	s, err := r.scan(q.QueryRow(ctx, fmt.Sprintf(`SELECT %s FROM shifts WHERE id = $1`, shiftColumns), id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return shift.Shift{}, shift.ErrShiftNotFound
		}
		return shift.Shift{}, fmt.Errorf("failed to get shift: %w", err)
	}
	return s, nil
}

// filterClause renders f as a WHERE clause with positional args.
func filterClause(f shift.ListFilter) (string, []interface{}) {
	conditions := []string{"1=1"}
	var args []interface{}

	add := func(cond string, arg interface{}) {
		args = append(args, arg)
		conditions = append(conditions, fmt.Sprintf(cond, len(args)))
	}
	if f.WorkerID != nil {
		add("worker_id = $%d", *f.WorkerID)
	}
	if f.WorkplaceID != nil {
		add("workplace_id = $%d", *f.WorkplaceID)
	}
	if !f.From.IsZero() {
		add("work_date >= $%d", f.From.Format(dateLayout))
	}
	if !f.To.IsZero() {
		add("work_date < $%d", f.To.Format(dateLayout))
	}
	return strings.Join(conditions, " AND "), args
}

func (r *shiftRepository) List(ctx context.Context, filter shift.ListFilter) ([]shift.Shift, error) {
	q := GetQuerier(ctx, r.db)

	where, args := filterClause(filter)
	query := fmt.Sprintf(`SELECT %s FROM shifts WHERE %s ORDER BY start_time, id`, shiftColumns, where)

	return r.query(ctx, q, query, args...)
}

func (r *shiftRepository) query(ctx context.Context, q database.Querier, query string, args ...interface{}) ([]shift.Shift, error) {
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query shifts: %w", err)
	}
	defer rows.Close()

	out := make([]shift.Shift, 0)
	for rows.Next() {
		s, err := r.scan(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan shift: %w", err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate shifts: %w", err)
	}
	return out, nil
}

func (r *shiftRepository) Count(ctx context.Context, filter shift.ListFilter) (int, error) {
	q := GetQuerier(ctx, r.db)

	where, args := filterClause(filter)
	var n int
	if err := q.QueryRow(ctx, `SELECT COUNT(*) FROM shifts WHERE `+where, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count shifts: %w", err)
	}
	return n, nil
}

func (r *shiftRepository) HasOverlap(ctx context.Context, workerID string, start, end time.Time, excludeID string) (bool, error) {
	q := GetQuerier(ctx, r.db)

	var exists bool
	err := q.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM shifts
			WHERE worker_id = $1 AND start_time < $3 AND end_time > $2 AND id <> $4
		)`, workerID, start, end, excludeID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check shift overlap: %w", err)
	}
	return exists, nil
}

// WithWorkerLock takes a transaction-scoped advisory lock keyed on the
// worker, so concurrent check-then-insert sequences for one worker queue up.
func (r *shiftRepository) WithWorkerLock(ctx context.Context, workerID string, fn func(ctx context.Context) error) error {
	return WithTransaction(ctx, r.db, func(txCtx context.Context) error {
		q := GetQuerier(txCtx, r.db)
		if _, err := q.Exec(txCtx, `SELECT pg_advisory_xact_lock(hashtext('shift-worker:' || $1))`, workerID); err != nil {
			return fmt.Errorf("failed to lock worker: %w", err)
		}
		return fn(txCtx)
	})
}

func (r *shiftRepository) ListStartingBetween(ctx context.Context, from, to time.Time) ([]shift.Shift, error) {
	q := GetQuerier(ctx, r.db)

	query := fmt.Sprintf(`
		SELECT %s FROM shifts
		WHERE start_time > $1 AND start_time <= $2 AND alarm_sent_at IS NULL
		ORDER BY start_time, id`, shiftColumns)

	return r.query(ctx, q, query, from, to)
}

func (r *shiftRepository) MarkAlarmSent(ctx context.Context, ids []string, at time.Time) error {
	if len(ids) == 0 {
		return nil
	}
	q := GetQuerier(ctx, r.db)

	if _, err := q.Exec(ctx, `UPDATE shifts SET alarm_sent_at = $1 WHERE id = ANY($2)`, at, ids); err != nil {
		return fmt.Errorf("failed to mark shift alarms: %w", err)
	}
	return nil
}
