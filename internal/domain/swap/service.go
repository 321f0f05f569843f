package swap

import (
	"context"
)

// SwapService drives the two-phase swap workflow: target response first, then
// manager approval; approval exchanges the two assignments atomically.
type SwapService interface {
	CreateRequest(ctx context.Context, req CreateSwapRequest) (SwapResponse, error)
	GetRequest(ctx context.Context, id string) (SwapResponse, error)
	RespondAsTarget(ctx context.Context, req TargetResponseRequest) (SwapResponse, error)
	RespondAsManager(ctx context.Context, req ManagerResponseRequest) (SwapResponse, error)
	CancelRequest(ctx context.Context, id string) (SwapResponse, error)
	ListRequests(ctx context.Context, filter SwapFilter) ([]SwapResponse, int64, error)
	// ExpireStale flips all non-terminal requests past their expiry time.
	// Run from the cron sweep; also applied on read.
	ExpireStale(ctx context.Context) (int, error)
}
