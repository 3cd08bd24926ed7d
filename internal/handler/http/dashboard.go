package http

import (
	"net/http"
	"time"

	"github.com/cmlabs-hris/shiftpay-backend-go/internal/domain/dashboard"
	"github.com/cmlabs-hris/shiftpay-backend-go/internal/domain/workplace"
	"github.com/cmlabs-hris/shiftpay-backend-go/internal/handler/http/response"
)

type DashboardHandler interface {
	// GetDashboard returns the role-indexed dashboard
	GetDashboard(w http.ResponseWriter, r *http.Request)
	// GetMySummary returns the caller's monthly pay summary
	GetMySummary(w http.ResponseWriter, r *http.Request)
}

type dashboardHandlerImpl struct {
	dashboardService dashboard.Service
	workplaceService workplace.Service
	location         *time.Location
	now              func() time.Time
}

func NewDashboardHandler(dashboardService dashboard.Service, workplaceService workplace.Service, location *time.Location) DashboardHandler {
	return &dashboardHandlerImpl{
		dashboardService: dashboardService,
		workplaceService: workplaceService,
		location:         location,
		now:              time.Now,
	}
}

// GetDashboard handles GET /dashboard?year=&month=
func (h *dashboardHandlerImpl) GetDashboard(w http.ResponseWriter, r *http.Request) {
	viewer, ok := currentViewer(w, r)
	if !ok {
		return
	}

	year, month, err := getPeriod(r, h.now().In(h.location))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.dashboardService.GetDashboard(r.Context(), dashboard.DashboardRequest{
		Viewer: viewer,
		Year:   year,
		Month:  month,
	})
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// GetMySummary handles GET /me/summary?year=&month=&workplace_id=
func (h *dashboardHandlerImpl) GetMySummary(w http.ResponseWriter, r *http.Request) {
	viewer, ok := currentViewer(w, r)
	if !ok {
		return
	}

	year, month, err := getPeriod(r, h.now().In(h.location))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	workplaceID := optionalQuery(r, "workplace_id")
	if workplaceID != nil {
		if _, err := h.workplaceService.Authorize(r.Context(), viewer, *workplaceID, true); err != nil {
			response.HandleError(w, err)
			return
		}
	}

	result, err := h.dashboardService.GetMonthlySummary(r.Context(), dashboard.SummaryRequest{
		WorkerID:    viewer.UserID,
		WorkplaceID: workplaceID,
		Year:        year,
		Month:       month,
	})
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
