package middleware

import (
	"net/http"

	"github.com/go-chi/jwtauth/v5"

	"github.com/schoolhub/shiftops-backend-go/internal/handler/http/response"
)

// Roles carried in the identity provider's token.
const (
	RoleEmployee = "employee"
	RoleManager  = "manager"
	RoleAdmin    = "admin"
)

// RequireManager requires manager or admin role.
func RequireManager(next http.Handler) http.Handler {
	return requireRole(next, RoleManager, RoleAdmin)
}

// RequireAdmin requires admin role.
func RequireAdmin(next http.Handler) http.Handler {
	return requireRole(next, RoleAdmin)
}

func requireRole(next http.Handler, allowed ...string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, claims, err := jwtauth.FromContext(r.Context())
		if err != nil {
			response.Forbidden(w, "Insufficient permissions")
			return
		}

		role, ok := claims["role"].(string)
		if !ok {
			response.Forbidden(w, "Insufficient permissions")
			return
		}

		for _, a := range allowed {
			if role == a {
				next.ServeHTTP(w, r)
				return
			}
		}
		response.Forbidden(w, "Insufficient permissions: role '"+role+"' is not allowed")
	})
}
