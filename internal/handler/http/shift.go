package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/cmlabs-hris/shiftpay-backend-go/internal/domain/shift"
	"github.com/cmlabs-hris/shiftpay-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/shiftpay-backend-go/internal/domain/workplace"
	"github.com/cmlabs-hris/shiftpay-backend-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type ShiftHandler interface {
	// Workplace scoped, behind RequireWorkplace
	Create(w http.ResponseWriter, r *http.Request)
	CreateBatch(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)

	// By shift ID
	Get(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
}

type shiftHandlerImpl struct {
	shiftService     shift.Service
	workplaceService workplace.Service
	location         *time.Location
	now              func() time.Time
}

func NewShiftHandler(shiftService shift.Service, workplaceService workplace.Service, location *time.Location) ShiftHandler {
	return &shiftHandlerImpl{
		shiftService:     shiftService,
		workplaceService: workplaceService,
		location:         location,
		now:              time.Now,
	}
}

// Create handles POST /workplaces/{workplaceID}/shifts. Workers may only
// create shifts for themselves.
func (h *shiftHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	viewer, ok := currentViewer(w, r)
	if !ok {
		return
	}

	var req shift.CreateShiftRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}
	req.WorkplaceID = chi.URLParam(r, "workplaceID")
	req.RequestedBy = viewer.UserID

	if viewer.IsWorker() {
		if req.WorkerID == "" {
			req.WorkerID = viewer.UserID
		}
		if req.WorkerID != viewer.UserID {
			response.HandleError(w, user.ErrOwnerAccessRequired)
			return
		}
	}

	result, err := h.shiftService.CreateShift(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Batch(w, len(result.SuccessIDs), len(result.Failures), result)
}

// CreateBatch handles POST /workplaces/{workplaceID}/shifts/batch
func (h *shiftHandlerImpl) CreateBatch(w http.ResponseWriter, r *http.Request) {
	viewer, ok := currentViewer(w, r)
	if !ok {
		return
	}

	var req shift.BatchCreateShiftRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}
	req.WorkplaceID = chi.URLParam(r, "workplaceID")
	req.RequestedBy = viewer.UserID

	result, err := h.shiftService.CreateShiftsForWorkers(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Batch(w, len(result.SuccessIDs), len(result.Failures), result)
}

// List handles GET /workplaces/{workplaceID}/shifts?worker_id=&year=&month=
func (h *shiftHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	viewer, ok := currentViewer(w, r)
	if !ok {
		return
	}

	year, month, err := getPeriod(r, h.now().In(h.location))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	workplaceID := chi.URLParam(r, "workplaceID")
	req := shift.ListShiftsRequest{
		WorkplaceID: &workplaceID,
		WorkerID:    optionalQuery(r, "worker_id"),
		Year:        year,
		Month:       month,
	}
	if viewer.IsWorker() {
		req.WorkerID = &viewer.UserID
	}

	result, err := h.shiftService.ListShifts(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Get handles GET /shifts/{id}
func (h *shiftHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	_, result, ok := h.authorizedShift(w, r)
	if !ok {
		return
	}

	response.Success(w, result)
}

// Update handles PUT /shifts/{id}
func (h *shiftHandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	viewer, current, ok := h.authorizedShift(w, r)
	if !ok {
		return
	}

	var req shift.UpdateShiftRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}
	req.ID = current.ID
	req.RequestedBy = viewer.UserID

	result, err := h.shiftService.UpdateShift(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Shift updated", result)
}

// Delete handles DELETE /shifts/{id}
func (h *shiftHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	_, current, ok := h.authorizedShift(w, r)
	if !ok {
		return
	}

	if err := h.shiftService.DeleteShift(r.Context(), current.ID); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Shift deleted", nil)
}

// authorizedShift loads the {id} shift and checks the caller owns its
// workplace or is the worker on it.
func (h *shiftHandlerImpl) authorizedShift(w http.ResponseWriter, r *http.Request) (user.Viewer, shift.ShiftResponse, bool) {
	viewer, ok := currentViewer(w, r)
	if !ok {
		return viewer, shift.ShiftResponse{}, false
	}

	s, err := h.shiftService.GetShift(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return viewer, shift.ShiftResponse{}, false
	}

	if _, err := h.workplaceService.Authorize(r.Context(), viewer, s.WorkplaceID, true); err != nil {
		response.HandleError(w, err)
		return viewer, shift.ShiftResponse{}, false
	}
	if viewer.IsWorker() && s.WorkerID != viewer.UserID {
		response.HandleError(w, user.ErrInsufficientPermissions)
		return viewer, shift.ShiftResponse{}, false
	}

	return viewer, s, true
}
