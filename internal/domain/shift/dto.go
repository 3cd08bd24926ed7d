package shift

import (
	"strings"
	"time"

	"github.com/cmlabs-hris/shiftpay-backend-go/internal/domain/payroll"
	"github.com/cmlabs-hris/shiftpay-backend-go/internal/pkg/timewindow"
	"github.com/cmlabs-hris/shiftpay-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// MaxRepeatHorizon bounds how far past the start date a recurrence may run.
const MaxRepeatHorizon = 1 // years

// ShiftFields - shared body of single and batch creation requests
type ShiftFields struct {
	RoutineIDs      []string `json:"routine_ids"`
	StartTime       string   `json:"start_time"` // RFC3339
	EndTime         string   `json:"end_time"`
	ActualStartTime *string  `json:"actual_start_time"`
	ActualEndTime   *string  `json:"actual_end_time"`
	RestTimeMinutes int      `json:"rest_time_minutes"`
	Memo            *string  `json:"memo"`
	RepeatDays      []string `json:"repeat_days"`
	RepeatEndDate   *string  `json:"repeat_end_date"` // YYYY-MM-DD, inclusive
}

func (f *ShiftFields) validate() validator.ValidationErrors {
	var errs validator.ValidationErrors

	start, startOK := validator.IsValidDateTime(f.StartTime)
	if !startOK {
		errs.Add("start_time", "start_time must be a valid RFC3339 timestamp")
	}
	if _, ok := validator.IsValidDateTime(f.EndTime); !ok {
		errs.Add("end_time", "end_time must be a valid RFC3339 timestamp")
	}
	if f.ActualStartTime != nil {
		if _, ok := validator.IsValidDateTime(*f.ActualStartTime); !ok {
			errs.Add("actual_start_time", "actual_start_time must be a valid RFC3339 timestamp")
		}
	}
	if f.ActualEndTime != nil {
		if _, ok := validator.IsValidDateTime(*f.ActualEndTime); !ok {
			errs.Add("actual_end_time", "actual_end_time must be a valid RFC3339 timestamp")
		}
	}
	switch {
	case f.ActualStartTime != nil && f.ActualEndTime == nil:
		errs.Add("actual_end_time", "actual_end_time is required when actual_start_time is set")
	case f.ActualStartTime == nil && f.ActualEndTime != nil:
		errs.Add("actual_start_time", "actual_start_time is required when actual_end_time is set")
	}
	if f.RestTimeMinutes < 0 {
		errs.Add("rest_time_minutes", "rest_time_minutes must be a non-negative number")
	}

	seen := make(map[string]bool, len(f.RepeatDays))
	for _, d := range f.RepeatDays {
		if !validator.IsValidWeekday(d) {
			errs.Add("repeat_days", "repeat_days must contain only: "+strings.Join(timewindow.WeekdayValues, ", "))
			break
		}
		key := strings.ToUpper(d)
		if seen[key] {
			errs.Add("repeat_days", "repeat_days must not contain duplicates")
			break
		}
		seen[key] = true
	}
	if len(f.RepeatDays) > 0 && f.RepeatEndDate == nil {
		errs.Add("repeat_end_date", "repeat_end_date is required when repeat_days is set")
	}
	if f.RepeatEndDate != nil {
		until, ok := validator.IsValidDate(*f.RepeatEndDate)
		switch {
		case !ok:
			errs.Add("repeat_end_date", "repeat_end_date must be in YYYY-MM-DD format")
		case startOK:
			first := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)
			if until.After(first.AddDate(MaxRepeatHorizon, 0, 0)) {
				errs.Add("repeat_end_date", "repeat_end_date must be within one year of start_time")
			}
		}
	}

	return errs
}

// ToTemplate parses validated fields. Dates are read in loc.
func (f *ShiftFields) ToTemplate(workplaceID, requestedBy string, loc *time.Location) (Template, error) {
	start, err := time.Parse(time.RFC3339, f.StartTime)
	if err != nil {
		return Template{}, ErrInvalidTimeFormat
	}
	end, err := time.Parse(time.RFC3339, f.EndTime)
	if err != nil {
		return Template{}, ErrInvalidTimeFormat
	}

	t := Template{
		WorkplaceID:     workplaceID,
		RoutineIDs:      normalizeIDs(f.RoutineIDs),
		StartTime:       start,
		EndTime:         NormalizeEnd(start, end),
		RestTimeMinutes: f.RestTimeMinutes,
		Memo:            f.Memo,
		RequestedBy:     requestedBy,
	}

	if f.ActualStartTime != nil && f.ActualEndTime != nil {
		as, err := time.Parse(time.RFC3339, *f.ActualStartTime)
		if err != nil {
			return Template{}, ErrInvalidTimeFormat
		}
		ae, err := time.Parse(time.RFC3339, *f.ActualEndTime)
		if err != nil {
			return Template{}, ErrInvalidTimeFormat
		}
		ae = NormalizeEnd(as, ae)
		t.ActualStartTime = &as
		t.ActualEndTime = &ae
	}

	for _, d := range f.RepeatDays {
		wd, err := timewindow.ParseWeekday(d)
		if err != nil {
			return Template{}, ErrInvalidRequestData
		}
		t.RepeatDays = append(t.RepeatDays, wd)
	}

	if f.RepeatEndDate != nil {
		d, err := time.ParseInLocation("2006-01-02", *f.RepeatEndDate, loc)
		if err != nil {
			return Template{}, ErrInvalidDateFormat
		}
		t.RepeatEndDate = &d
	}

	return t, nil
}

// NormalizeEnd moves an end that precedes its start to the next day, so a
// 22:00-06:00 template means an overnight shift. Equal instants are left
// alone and rejected later as an empty span.
func NormalizeEnd(start, end time.Time) time.Time {
	if end.Before(start) && !end.AddDate(0, 0, 1).Before(start) {
		return end.AddDate(0, 0, 1)
	}
	return end
}

func normalizeIDs(ids []string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if !validator.IsEmpty(id) {
			out = append(out, strings.TrimSpace(id))
		}
	}
	return out
}

type CreateShiftRequest struct {
	WorkplaceID string `json:"-"`
	RequestedBy string `json:"-"`
	WorkerID    string `json:"worker_id"`
	ShiftFields
}

func (r *CreateShiftRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.WorkplaceID) {
		errs.Add("workplace_id", "workplace_id is required")
	}
	if validator.IsEmpty(r.WorkerID) {
		errs.Add("worker_id", "worker_id is required")
	}
	errs = append(errs, r.ShiftFields.validate()...)

	return errs.Err()
}

type BatchCreateShiftRequest struct {
	WorkplaceID string   `json:"-"`
	RequestedBy string   `json:"-"`
	WorkerIDs   []string `json:"worker_ids"`
	ShiftFields
}

func (r *BatchCreateShiftRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.WorkplaceID) {
		errs.Add("workplace_id", "workplace_id is required")
	}
	if len(normalizeIDs(r.WorkerIDs)) == 0 {
		errs.Add("worker_ids", "worker_ids must contain at least one worker")
	}
	errs = append(errs, r.ShiftFields.validate()...)

	return errs.Err()
}

// UniqueWorkerIDs returns the requested workers in order without duplicates.
func (r *BatchCreateShiftRequest) UniqueWorkerIDs() []string {
	seen := make(map[string]bool)
	var out []string
	for _, id := range normalizeIDs(r.WorkerIDs) {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}

// UpdateShiftRequest - nil fields keep their value. Repeat settings are not
// editable; a shift is always updated on its own.
type UpdateShiftRequest struct {
	ID              string    `json:"-"`
	RequestedBy     string    `json:"-"`
	RoutineIDs      *[]string `json:"routine_ids"`
	StartTime       *string   `json:"start_time"`
	EndTime         *string   `json:"end_time"`
	ActualStartTime *string   `json:"actual_start_time"`
	ActualEndTime   *string   `json:"actual_end_time"`
	ClearActual     bool      `json:"clear_actual"`
	RestTimeMinutes *int      `json:"rest_time_minutes"`
	Memo            *string   `json:"memo"`
}

func (r *UpdateShiftRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ID) {
		errs.Add("id", "id is required")
	}
	check := func(field string, v *string) {
		if v == nil {
			return
		}
		if _, ok := validator.IsValidDateTime(*v); !ok {
			errs.Add(field, field+" must be a valid RFC3339 timestamp")
		}
	}
	check("start_time", r.StartTime)
	check("end_time", r.EndTime)
	check("actual_start_time", r.ActualStartTime)
	check("actual_end_time", r.ActualEndTime)

	if r.RestTimeMinutes != nil && *r.RestTimeMinutes < 0 {
		errs.Add("rest_time_minutes", "rest_time_minutes must be a non-negative number")
	}
	if r.ClearActual && (r.ActualStartTime != nil || r.ActualEndTime != nil) {
		errs.Add("clear_actual", "clear_actual cannot be combined with actual times")
	}

	return errs.Err()
}

// Apply overlays the validated request on s. Derived fields are left for
// the caller to recompute.
func (r *UpdateShiftRequest) Apply(s Shift) Shift {
	parse := func(v string) time.Time {
		t, _ := time.Parse(time.RFC3339, v)
		return t
	}

	if r.RoutineIDs != nil {
		s.RoutineIDs = normalizeIDs(*r.RoutineIDs)
	}
	if r.StartTime != nil {
		s.StartTime = parse(*r.StartTime)
	}
	if r.EndTime != nil {
		s.EndTime = parse(*r.EndTime)
	}
	s.EndTime = NormalizeEnd(s.StartTime, s.EndTime)

	if r.ClearActual {
		s.ActualStartTime = nil
		s.ActualEndTime = nil
	}
	if r.ActualStartTime != nil {
		t := parse(*r.ActualStartTime)
		s.ActualStartTime = &t
	}
	if r.ActualEndTime != nil {
		t := parse(*r.ActualEndTime)
		s.ActualEndTime = &t
	}
	if s.ActualStartTime != nil && s.ActualEndTime != nil {
		ae := NormalizeEnd(*s.ActualStartTime, *s.ActualEndTime)
		s.ActualEndTime = &ae
	}

	if r.RestTimeMinutes != nil {
		s.RestTimeMinutes = *r.RestTimeMinutes
	}
	if r.Memo != nil {
		s.Memo = r.Memo
	}
	return s
}

type ListShiftsRequest struct {
	WorkplaceID *string
	WorkerID    *string
	Year        int
	Month       int
}

func (r *ListShiftsRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.WorkplaceID == nil && r.WorkerID == nil {
		errs.Add("workplace_id", "workplace_id or worker_id is required")
	}
	if r.Year < 2000 || r.Year > 2100 {
		errs.Add("year", "year must be between 2000 and 2100")
	}
	if r.Month < 1 || r.Month > 12 {
		errs.Add("month", "month must be between 1 and 12")
	}

	return errs.Err()
}

type ShiftResponse struct {
	ID                 string                     `json:"id"`
	WorkerID           string                     `json:"worker_id"`
	WorkplaceID        string                     `json:"workplace_id"`
	RoutineIDs         []string                   `json:"routine_ids"`
	WorkDate           string                     `json:"work_date"`
	StartTime          time.Time                  `json:"start_time"`
	EndTime            time.Time                  `json:"end_time"`
	ActualStartTime    *time.Time                 `json:"actual_start_time,omitempty"`
	ActualEndTime      *time.Time                 `json:"actual_end_time,omitempty"`
	RestTimeMinutes    int                        `json:"rest_time_minutes"`
	GrossWorkMinutes   int                        `json:"gross_work_minutes"`
	NetWorkMinutes     int                        `json:"net_work_minutes"`
	NightWorkMinutes   int                        `json:"night_work_minutes"`
	HourlyRate         decimal.Decimal            `json:"hourly_rate"`
	FixedPay           *FixedPay                  `json:"fixed_pay,omitempty"`
	BasePay            decimal.Decimal            `json:"base_pay"`
	NightAllowance     decimal.Decimal            `json:"night_allowance"`
	HolidayAllowance   decimal.Decimal            `json:"holiday_allowance"`
	GrossIncome        decimal.Decimal            `json:"gross_income"`
	Deductions         payroll.DeductionBreakdown `json:"deductions"`
	EstimatedNetIncome decimal.Decimal            `json:"estimated_net_income"`
	Memo               *string                    `json:"memo,omitempty"`
	RepeatGroupID      *string                    `json:"repeat_group_id,omitempty"`
	CreatedAt          string                     `json:"created_at"`
	UpdatedAt          string                     `json:"updated_at"`
}

// ToResponse maps a shift to its API shape.
func ToResponse(s Shift) ShiftResponse {
	routines := s.RoutineIDs
	if routines == nil {
		routines = []string{}
	}
	return ShiftResponse{
		ID:                 s.ID,
		WorkerID:           s.WorkerID,
		WorkplaceID:        s.WorkplaceID,
		RoutineIDs:         routines,
		WorkDate:           s.WorkDate.Format("2006-01-02"),
		StartTime:          s.StartTime,
		EndTime:            s.EndTime,
		ActualStartTime:    s.ActualStartTime,
		ActualEndTime:      s.ActualEndTime,
		RestTimeMinutes:    s.RestTimeMinutes,
		GrossWorkMinutes:   s.GrossWorkMinutes,
		NetWorkMinutes:     s.NetWorkMinutes,
		NightWorkMinutes:   s.NightWorkMinutes,
		HourlyRate:         s.HourlyRate,
		FixedPay:           s.FixedPay,
		BasePay:            s.BasePay,
		NightAllowance:     s.NightAllowance,
		HolidayAllowance:   s.HolidayAllowance,
		GrossIncome:        s.GrossIncome,
		Deductions:         s.Deductions,
		EstimatedNetIncome: s.EstimatedNetIncome,
		Memo:               s.Memo,
		RepeatGroupID:      s.RepeatGroupID,
		CreatedAt:          s.CreatedAt.Format(time.RFC3339),
		UpdatedAt:          s.UpdatedAt.Format(time.RFC3339),
	}
}
