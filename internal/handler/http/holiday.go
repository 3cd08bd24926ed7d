package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/cmlabs-hris/shiftpay-backend-go/internal/domain/holiday"
	"github.com/cmlabs-hris/shiftpay-backend-go/internal/handler/http/response"
)

type HolidayHandler interface {
	List(w http.ResponseWriter, r *http.Request)
	Upsert(w http.ResponseWriter, r *http.Request)
}

type holidayHandlerImpl struct {
	holidayService holiday.Service
	loc            *time.Location
}

func NewHolidayHandler(holidayService holiday.Service, loc *time.Location) HolidayHandler {
	return &holidayHandlerImpl{holidayService: holidayService, loc: loc}
}

// List handles GET /holidays?year=
func (h *holidayHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	year := getIntQueryParam(r, "year", time.Now().In(h.loc).Year())

	result, err := h.holidayService.ListYear(r.Context(), year)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Upsert handles PUT /admin/holidays
func (h *holidayHandlerImpl) Upsert(w http.ResponseWriter, r *http.Request) {
	var req holiday.UpsertHolidayRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.holidayService.Upsert(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Holiday saved", result)
}
