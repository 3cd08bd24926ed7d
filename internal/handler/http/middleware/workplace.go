package middleware

import (
	"context"
	"net/http"

	"github.com/cmlabs-hris/shiftpay-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/shiftpay-backend-go/internal/domain/workplace"
	"github.com/cmlabs-hris/shiftpay-backend-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type workplaceKey struct{}

// RequireWorkplace resolves the {workplaceID} route parameter and lets the
// request through only for its owner or, with allowWorker, its members.
func RequireWorkplace(svc workplace.Service, allowWorker bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			viewer, ok := ViewerFromContext(r.Context())
			if !ok {
				response.HandleError(w, user.ErrMissingIdentity)
				return
			}

			wp, err := svc.Authorize(r.Context(), viewer, chi.URLParam(r, "workplaceID"), allowWorker)
			if err != nil {
				response.HandleError(w, err)
				return
			}

			ctx := context.WithValue(r.Context(), workplaceKey{}, wp)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// WorkplaceFromContext returns the workplace resolved by RequireWorkplace.
func WorkplaceFromContext(ctx context.Context) (workplace.Workplace, bool) {
	wp, ok := ctx.Value(workplaceKey{}).(workplace.Workplace)
	return wp, ok
}
