package http

import (
	"net/http"

	"github.com/cmlabs-hris/shiftpay-backend-go/internal/domain/workplace"
	"github.com/cmlabs-hris/shiftpay-backend-go/internal/handler/http/response"
)

type WorkplaceHandler interface {
	// List returns the workplaces the caller owns or works at
	List(w http.ResponseWriter, r *http.Request)
}

type workplaceHandlerImpl struct {
	workplaceService workplace.Service
}

func NewWorkplaceHandler(workplaceService workplace.Service) WorkplaceHandler {
	return &workplaceHandlerImpl{workplaceService: workplaceService}
}

// List handles GET /workplaces
func (h *workplaceHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	viewer, ok := currentViewer(w, r)
	if !ok {
		return
	}

	result, err := h.workplaceService.ListForViewer(r.Context(), viewer)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
