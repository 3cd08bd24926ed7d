package http

import (
	"encoding/json"
	"net/http"

	"github.com/cmlabs-hris/shiftpay-backend-go/internal/domain/salary"
	"github.com/cmlabs-hris/shiftpay-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/shiftpay-backend-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type SalaryHandler interface {
	CreatePolicy(w http.ResponseWriter, r *http.Request)
	GetPolicy(w http.ResponseWriter, r *http.Request)
	UpdatePolicy(w http.ResponseWriter, r *http.Request)
	ListPolicies(w http.ResponseWriter, r *http.Request)
}

type salaryHandlerImpl struct {
	salaryService salary.Service
}

func NewSalaryHandler(salaryService salary.Service) SalaryHandler {
	return &salaryHandlerImpl{salaryService: salaryService}
}

// CreatePolicy handles POST /workplaces/{workplaceID}/workers/{workerID}/salary-policy
func (h *salaryHandlerImpl) CreatePolicy(w http.ResponseWriter, r *http.Request) {
	var req salary.CreatePolicyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}
	req.WorkplaceID = chi.URLParam(r, "workplaceID")
	req.WorkerID = chi.URLParam(r, "workerID")

	result, err := h.salaryService.CreatePolicy(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Salary policy created", result)
}

// GetPolicy handles GET /workplaces/{workplaceID}/workers/{workerID}/salary-policy.
// Workers may only read their own policy.
func (h *salaryHandlerImpl) GetPolicy(w http.ResponseWriter, r *http.Request) {
	viewer, ok := currentViewer(w, r)
	if !ok {
		return
	}

	workerID := chi.URLParam(r, "workerID")
	if viewer.IsWorker() && workerID != viewer.UserID {
		response.HandleError(w, user.ErrInsufficientPermissions)
		return
	}

	result, err := h.salaryService.GetPolicy(r.Context(), workerID, chi.URLParam(r, "workplaceID"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// UpdatePolicy handles PUT /workplaces/{workplaceID}/workers/{workerID}/salary-policy
func (h *salaryHandlerImpl) UpdatePolicy(w http.ResponseWriter, r *http.Request) {
	var req salary.UpdatePolicyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}
	req.WorkplaceID = chi.URLParam(r, "workplaceID")
	req.WorkerID = chi.URLParam(r, "workerID")

	result, err := h.salaryService.UpdatePolicy(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Salary policy updated", result)
}

// ListPolicies handles GET /workplaces/{workplaceID}/salary-policies
func (h *salaryHandlerImpl) ListPolicies(w http.ResponseWriter, r *http.Request) {
	result, err := h.salaryService.ListPolicies(r.Context(), chi.URLParam(r, "workplaceID"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
