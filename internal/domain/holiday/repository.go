package holiday

import (
	"context"
	"time"
)

type Repository interface {
	IsPublicHoliday(ctx context.Context, date time.Time) (bool, error)
	ListBetween(ctx context.Context, from, to time.Time) ([]Holiday, error)
	Upsert(ctx context.Context, h Holiday) error
	// WeeklyRestDay returns the workplace's weekday name, or nil if unset.
	WeeklyRestDay(ctx context.Context, workplaceID string) (*string, error)
}
