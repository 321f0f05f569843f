package shift

import (
	"context"
	"fmt"

	"github.com/go-chi/jwtauth/v5"
)

// actorID extracts the authenticated user's id from the JWT claims.
func actorID(ctx context.Context) (string, error) {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to extract claims from context: %w", err)
	}

	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return "", fmt.Errorf("sub claim is missing or invalid")
	}
	return sub, nil
}
