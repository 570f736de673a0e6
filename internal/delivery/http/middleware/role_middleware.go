package middleware

import (
	"net/http"

	"staff-service/internal/domain/entity"
	"staff-service/pkg/response"

	"github.com/sirupsen/logrus"
)

// RequireRole creates a middleware that checks if the caller has any of the required roles.
// It must run after AuthMiddleware.Authenticate.
func RequireRole(log *logrus.Logger, allowedRoles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session, ok := GetSessionFromContext(r.Context())
			if !ok {
				response.Unauthorized(w, "Unauthorized")
				return
			}

			for _, role := range allowedRoles {
				if session.HasRole(role) {
					next.ServeHTTP(w, r)
					return
				}
			}

			log.WithFields(RequestFields(r)).Error("User is not an admin")
			response.Forbidden(w, "Forbidden")
		})
	}
}

// RequireClinicAdmin is a convenience middleware for clinic admin endpoints
func RequireClinicAdmin(log *logrus.Logger) func(http.Handler) http.Handler {
	return RequireRole(log, entity.RoleClinicAdmin)
}
