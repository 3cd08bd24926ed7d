package holiday

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/shiftpay-backend-go/internal/domain/holiday"
	"github.com/cmlabs-hris/shiftpay-backend-go/internal/pkg/timewindow"
)

type CalendarImpl struct {
	repo           holiday.Repository
	defaultRestDay time.Weekday
}

// NewCalendar treats a date as a designated rest day when it falls on the
// workplace's weekly rest day (defaultRestDay if the workplace has none) or
// is a stored public holiday.
func NewCalendar(repo holiday.Repository, defaultRestDay time.Weekday) holiday.Calendar {
	return &CalendarImpl{repo: repo, defaultRestDay: defaultRestDay}
}

func (c *CalendarImpl) IsDesignatedRestDay(ctx context.Context, workplaceID string, date time.Time) (bool, error) {
	restDay := c.defaultRestDay
	if workplaceID != "" {
		name, err := c.repo.WeeklyRestDay(ctx, workplaceID)
		if err != nil {
			return false, fmt.Errorf("failed to get weekly rest day: %w", err)
		}
		if name != nil {
			wd, err := timewindow.ParseWeekday(*name)
			if err != nil {
				return false, fmt.Errorf("workplace %s has invalid weekly rest day %q: %w", workplaceID, *name, err)
			}
			restDay = wd
		}
	}
	if date.Weekday() == restDay {
		return true, nil
	}

	isHoliday, err := c.repo.IsPublicHoliday(ctx, date)
	if err != nil {
		return false, fmt.Errorf("failed to check public holiday: %w", err)
	}
	return isHoliday, nil
}

// WeeklyCalendar answers from a fixed weekday and date list. It backs the
// command line pricer and tests.
type WeeklyCalendar struct {
	restDay time.Weekday
	dates   map[string]bool
}

func NewWeeklyCalendar(restDay time.Weekday, holidays ...time.Time) *WeeklyCalendar {
	dates := make(map[string]bool, len(holidays))
	for _, d := range holidays {
		dates[d.Format("2006-01-02")] = true
	}
	return &WeeklyCalendar{restDay: restDay, dates: dates}
}

func (c *WeeklyCalendar) IsDesignatedRestDay(ctx context.Context, workplaceID string, date time.Time) (bool, error) {
	return date.Weekday() == c.restDay || c.dates[date.Format("2006-01-02")], nil
}
