package middleware

import (
	"context"
	"net/http"

	"github.com/cmlabs-hris/shiftpay-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/shiftpay-backend-go/internal/handler/http/response"
	"github.com/cmlabs-hris/shiftpay-backend-go/internal/pkg/jwt"
	"github.com/go-chi/jwtauth/v5"
)

type viewerKey struct{}

// AuthRequired accepts only verified access tokens and puts the caller's
// user.Viewer on the request context.
func AuthRequired(ja *jwtauth.JWTAuth) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		hfn := func(w http.ResponseWriter, r *http.Request) {
			token, claims, err := jwtauth.FromContext(r.Context())

			if err != nil {
				response.Unauthorized(w, err.Error())
				return
			}

			if token == nil {
				response.HandleError(w, user.ErrInvalidToken)
				return
			}

			tokenType, ok := claims["type"].(string)
			if tokenType != jwt.TokenTypeAccess || !ok {
				response.HandleError(w, user.ErrInvalidToken)
				return
			}

			userID, _ := claims["user_id"].(string)
			if userID == "" {
				response.HandleError(w, user.ErrMissingIdentity)
				return
			}

			roleStr, _ := claims["role"].(string)
			role := user.Role(roleStr)
			if !role.IsValid() {
				response.HandleError(w, user.ErrInvalidRole)
				return
			}

			ctx := WithViewer(r.Context(), user.Viewer{UserID: userID, Role: role})
			next.ServeHTTP(w, r.WithContext(ctx))
		}
		return http.HandlerFunc(hfn)
	}
}

func WithViewer(ctx context.Context, v user.Viewer) context.Context {
	return context.WithValue(ctx, viewerKey{}, v)
}

// ViewerFromContext returns the caller set by AuthRequired.
func ViewerFromContext(ctx context.Context) (user.Viewer, bool) {
	v, ok := ctx.Value(viewerKey{}).(user.Viewer)
	return v, ok
}
