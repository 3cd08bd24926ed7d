package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/shiftpay-backend-go/internal/domain/holiday"
	"github.com/cmlabs-hris/shiftpay-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type holidayRepository struct {
	db  *database.DB
	loc *time.Location
}

// NewHolidayRepository stores public holidays as plain dates; loc is used
// to turn them back into local midnights.
func NewHolidayRepository(db *database.DB, loc *time.Location) holiday.Repository {
	return &holidayRepository{db: db, loc: loc}
}

func (r *holidayRepository) IsPublicHoliday(ctx context.Context, date time.Time) (bool, error) {
	q := GetQuerier(ctx, r.db)

	var exists bool
	err := q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM public_holidays WHERE holiday_date = $1)`,
		date.Format(dateLayout)).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check public holiday: %w", err)
	}
	return exists, nil
}

func (r *holidayRepository) ListBetween(ctx context.Context, from, to time.Time) ([]holiday.Holiday, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `
		SELECT holiday_date, name FROM public_holidays
		WHERE holiday_date >= $1 AND holiday_date < $2
		ORDER BY holiday_date`, from.Format(dateLayout), to.Format(dateLayout))
	if err != nil {
		return nil, fmt.Errorf("failed to list public holidays: %w", err)
	}
	defer rows.Close()

	out := make([]holiday.Holiday, 0)
	for rows.Next() {
		var (
			d time.Time
			h holiday.Holiday
		)
		if err := rows.Scan(&d, &h.Name); err != nil {
			return nil, fmt.Errorf("failed to scan public holiday: %w", err)
		}
		h.Date = time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, r.loc)
		out = append(out, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate public holidays: %w", err)
	}
	return out, nil
}

func (r *holidayRepository) Upsert(ctx context.Context, h holiday.Holiday) error {
	q := GetQuerier(ctx, r.db)

	_, err := q.Exec(ctx, `
		INSERT INTO public_holidays (holiday_date, name) VALUES ($1, $2)
		ON CONFLICT (holiday_date) DO UPDATE SET name = EXCLUDED.name`,
		h.Date.Format(dateLayout), h.Name)
	if err != nil {
		return fmt.Errorf("failed to upsert public holiday: %w", err)
	}
	return nil
}

func (r *holidayRepository) WeeklyRestDay(ctx context.Context, workplaceID string) (*string, error) {
	q := GetQuerier(ctx, r.db)

	var day *string
	err := q.QueryRow(ctx, `SELECT weekly_rest_day FROM workplaces WHERE id = $1`, workplaceID).Scan(&day)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get weekly rest day: %w", err)
	}
	return day, nil
}
