package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/cmlabs-hris/shiftpay-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/shiftpay-backend-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/shiftpay-backend-go/internal/handler/http/response"
	"github.com/cmlabs-hris/shiftpay-backend-go/internal/pkg/validator"
)

// currentViewer writes 401 and returns false when the request carries no
// authenticated caller.
func currentViewer(w http.ResponseWriter, r *http.Request) (user.Viewer, bool) {
	viewer, ok := middleware.ViewerFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Unauthorized")
		return user.Viewer{}, false
	}
	return viewer, true
}

func currentUserID(w http.ResponseWriter, r *http.Request) (string, bool) {
	viewer, ok := currentViewer(w, r)
	return viewer.UserID, ok
}

// getIntQueryParam gets an int query parameter with a default value
func getIntQueryParam(r *http.Request, key string, defaultVal int) int {
	val := r.URL.Query().Get(key)
	if val == "" {
		return defaultVal
	}
	intVal, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return intVal
}

// getBoolQueryParam gets a bool query parameter with a default value
func getBoolQueryParam(r *http.Request, key string, defaultVal bool) bool {
	val := r.URL.Query().Get(key)
	if val == "" {
		return defaultVal
	}
	return val == "true" || val == "1"
}

// getPeriod reads ?year=&month=, defaulting each to the month of now.
func getPeriod(r *http.Request, now time.Time) (int, int, error) {
	var errs validator.ValidationErrors

	year, month := now.Year(), int(now.Month())
	if v := r.URL.Query().Get("year"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			errs.Add("year", "year must be a number")
		}
		year = n
	}
	if v := r.URL.Query().Get("month"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			errs.Add("month", "month must be a number")
		}
		month = n
	}

	if len(errs) > 0 {
		return 0, 0, errs
	}
	return year, month, nil
}

func optionalQuery(r *http.Request, key string) *string {
	if v := r.URL.Query().Get(key); v != "" {
		return &v
	}
	return nil
}
