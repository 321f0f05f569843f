package middleware

import (
	"net/http"

	"github.com/go-chi/jwtauth/v5"
	"github.com/lestrrat-go/jwx/v2/jwt"

	"github.com/schoolhub/shiftops-backend-go/internal/handler/http/response"
)

// AuthRequired rejects requests without a verified access token. Signature
// verification itself runs in jwtauth.Verifier earlier in the chain.
func AuthRequired(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, _, err := jwtauth.FromContext(r.Context())
		if err != nil {
			response.Unauthorized(w, err.Error())
			return
		}
		if token == nil || jwt.Validate(token) != nil {
			response.Unauthorized(w, "missing or invalid token")
			return
		}
		if token.Subject() == "" {
			response.Unauthorized(w, "token has no subject")
			return
		}

		next.ServeHTTP(w, r)
	})
}
