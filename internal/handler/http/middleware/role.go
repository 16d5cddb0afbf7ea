package middleware

import (
	"fmt"
	"net/http"

	"github.com/satshine/satshine-backend/internal/domain/auth"
	"github.com/satshine/satshine-backend/internal/domain/employee"
	"github.com/satshine/satshine-backend/internal/handler/http/response"
)

// RequirePermission checks the actor's designation grants permission.
// Must run after AuthRequired.
func RequirePermission(permission employee.Permission) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor, err := auth.ActorFromContext(r.Context())
			if err != nil {
				response.Forbidden(w, fmt.Sprintf("Insufficient permissions: required '%s'", permission))
				return
			}

			if !employee.HasPermission(actor.Designation, permission) {
				response.Forbidden(w, fmt.Sprintf("Insufficient permissions: required '%s', but designation is '%s'", permission, actor.Designation))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
