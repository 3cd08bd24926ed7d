package holiday

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/cmlabs-hris/shiftpay-backend-go/internal/domain/holiday"
	"github.com/cmlabs-hris/shiftpay-backend-go/internal/pkg/validator"
)

type HolidayServiceImpl struct {
	repo holiday.Repository
	loc  *time.Location
	log  *slog.Logger
}

// NewHolidayService reads and writes holidays as dates in loc.
func NewHolidayService(repo holiday.Repository, loc *time.Location, logger *slog.Logger) holiday.Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &HolidayServiceImpl{repo: repo, loc: loc, log: logger}
}

func (s *HolidayServiceImpl) ListYear(ctx context.Context, year int) ([]holiday.HolidayResponse, error) {
	if year < 2000 || year > 2100 {
		var errs validator.ValidationErrors
		errs.Add("year", "year must be between 2000 and 2100")
		return nil, errs
	}

	from, to := holiday.YearRange(year, s.loc)
	list, err := s.repo.ListBetween(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list holidays: %w", err)
	}

	out := make([]holiday.HolidayResponse, len(list))
	for i, h := range list {
		out[i] = holiday.ToResponse(h)
	}
	return out, nil
}

// Upsert stores the holiday, renaming it when the date already exists.
func (s *HolidayServiceImpl) Upsert(ctx context.Context, req holiday.UpsertHolidayRequest) (holiday.HolidayResponse, error) {
	if err := req.Validate(); err != nil {
		return holiday.HolidayResponse{}, err
	}

	date, err := time.ParseInLocation("2006-01-02", req.Date, s.loc)
	if err != nil {
		return holiday.HolidayResponse{}, fmt.Errorf("failed to parse holiday date: %w", err)
	}

	h := holiday.Holiday{Date: date, Name: strings.TrimSpace(req.Name)}
	if err := s.repo.Upsert(ctx, h); err != nil {
		return holiday.HolidayResponse{}, fmt.Errorf("failed to save holiday: %w", err)
	}

	s.log.Info("public holiday saved", "date", req.Date, "name", h.Name)
	return holiday.ToResponse(h), nil
}
