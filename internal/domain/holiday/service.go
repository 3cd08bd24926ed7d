package holiday

import (
	"context"
	"time"
)

// Calendar classifies calendar dates as designated rest days for a workplace.
type Calendar interface {
	IsDesignatedRestDay(ctx context.Context, workplaceID string, date time.Time) (bool, error)
}

// Service maintains the public holiday list that feeds the Calendar.
type Service interface {
	ListYear(ctx context.Context, year int) ([]HolidayResponse, error)
	Upsert(ctx context.Context, req UpsertHolidayRequest) (HolidayResponse, error)
}
