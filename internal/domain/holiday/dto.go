package holiday

import (
	"time"

	"github.com/cmlabs-hris/shiftpay-backend-go/internal/pkg/timewindow"
	"github.com/cmlabs-hris/shiftpay-backend-go/internal/pkg/validator"
)

type UpsertHolidayRequest struct {
	Date string `json:"date"`
	Name string `json:"name"`
}

func (r *UpsertHolidayRequest) Validate() error {
	var errs validator.ValidationErrors

	if _, ok := validator.IsValidDate(r.Date); !ok {
		errs.Add("date", "date must be in YYYY-MM-DD format")
	}
	if validator.IsEmpty(r.Name) {
		errs.Add("name", "name is required")
	} else if len(r.Name) > 100 {
		errs.Add("name", "name must be at most 100 characters")
	}
	return errs.Err()
}

type HolidayResponse struct {
	Date    string `json:"date"`
	Name    string `json:"name"`
	Weekday string `json:"weekday"`
}

func ToResponse(h Holiday) HolidayResponse {
	return HolidayResponse{
		Date:    h.Date.Format("2006-01-02"),
		Name:    h.Name,
		Weekday: timewindow.WeekdayName(h.Date.Weekday()),
	}
}

// YearRange returns [Jan 1, next Jan 1) of year in loc.
func YearRange(year int, loc *time.Location) (time.Time, time.Time) {
	from := time.Date(year, time.January, 1, 0, 0, 0, 0, loc)
	return from, from.AddDate(1, 0, 0)
}
