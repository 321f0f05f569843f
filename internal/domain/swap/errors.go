package swap

import "github.com/schoolhub/shiftops-backend-go/internal/pkg/apperrors"

// Swap domain errors
var (
	ErrNotFound              = apperrors.NotFound("swap request not found")
	ErrSelfSwap              = apperrors.Validation("requester and target must be different employees")
	ErrAssignmentOwnership   = apperrors.Validation("each assignment must belong to its stated owner")
	ErrAssignmentSettled     = apperrors.InvalidState("completed or cancelled assignments cannot be swapped")
	ErrSwapWouldConflict     = apperrors.Conflict("the swap would create an overlapping shift for one of the parties")
	ErrTargetResponseClosed  = apperrors.InvalidState("swap request is no longer awaiting the target's response")
	ErrManagerResponseClosed = apperrors.InvalidState("swap request is no longer awaiting a manager decision")
	ErrCancelClosed          = apperrors.InvalidState("swap request can no longer be cancelled")
	ErrExpired               = apperrors.InvalidState("swap request has expired")
	ErrNotRequester          = apperrors.InvalidState("only the requester may cancel this swap request")
	ErrNotTarget             = apperrors.InvalidState("only the target employee may respond to this swap request")
	ErrVersionConflict       = apperrors.InvalidState("swap request was modified concurrently")
)
