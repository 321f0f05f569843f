package swap

import (
	"context"
	"time"
)

// SwapRepository defines data access for swap requests.
type SwapRepository interface {
	Create(ctx context.Context, request SwapRequest) (SwapRequest, error)
	GetByID(ctx context.Context, id string) (SwapRequest, error)
	// Update persists a state transition guarded by the optimistic version;
	// returns ErrVersionConflict when the row moved underneath.
	Update(ctx context.Context, request SwapRequest) (SwapRequest, error)
	List(ctx context.Context, filter SwapFilter) ([]SwapRequest, int64, error)
	// ListExpirable returns non-terminal requests whose expiry time has
	// passed, for the expiry sweep.
	ListExpirable(ctx context.Context, now time.Time) ([]SwapRequest, error)
}
