package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/cmlabs-hris/shiftpay-backend-go/internal/domain/holiday"
)

// HolidayRepository keeps public holidays by date and reads weekly rest
// days from a workplace repository.
type HolidayRepository struct {
	mu         sync.RWMutex
	holidays   map[string]holiday.Holiday
	workplaces *WorkplaceRepository
}

func NewHolidayRepository(workplaces *WorkplaceRepository) *HolidayRepository {
	return &HolidayRepository{
		holidays:   make(map[string]holiday.Holiday),
		workplaces: workplaces,
	}
}

func dateKey(t time.Time) string {
	return t.Format("2006-01-02")
}

func (r *HolidayRepository) IsPublicHoliday(ctx context.Context, date time.Time) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.holidays[dateKey(date)]
	return ok, nil
}

func (r *HolidayRepository) ListBetween(ctx context.Context, from, to time.Time) ([]holiday.Holiday, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	lo, hi := dateKey(from), dateKey(to)
	out := make([]holiday.Holiday, 0)
	for k, h := range r.holidays {
		if k >= lo && k < hi {
			out = append(out, h)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

func (r *HolidayRepository) Upsert(ctx context.Context, h holiday.Holiday) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.holidays[dateKey(h.Date)] = h
	return nil
}

func (r *HolidayRepository) WeeklyRestDay(ctx context.Context, workplaceID string) (*string, error) {
	if r.workplaces == nil {
		return nil, nil
	}
	return r.workplaces.WeeklyRestDay(ctx, workplaceID)
}
