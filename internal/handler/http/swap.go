package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/schoolhub/shiftops-backend-go/internal/domain/swap"
	"github.com/schoolhub/shiftops-backend-go/internal/handler/http/response"
)

type SwapHandler interface {
	Create(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	RespondAsTarget(w http.ResponseWriter, r *http.Request)
	RespondAsManager(w http.ResponseWriter, r *http.Request)
	Cancel(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
}

type swapHandlerImpl struct {
	swapService swap.SwapService
}

func NewSwapHandler(swapService swap.SwapService) SwapHandler {
	return &swapHandlerImpl{swapService: swapService}
}

// Create implements SwapHandler.
func (h *swapHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	var req swap.CreateSwapRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.swapService.CreateRequest(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Created(w, "Swap request created", result)
}

// Get implements SwapHandler.
func (h *swapHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	result, err := h.swapService.GetRequest(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

// RespondAsTarget implements SwapHandler.
func (h *swapHandlerImpl) RespondAsTarget(w http.ResponseWriter, r *http.Request) {
	var req swap.TargetResponseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.SwapRequestID = chi.URLParam(r, "id")

	result, err := h.swapService.RespondAsTarget(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Response recorded", result)
}

// RespondAsManager implements SwapHandler.
func (h *swapHandlerImpl) RespondAsManager(w http.ResponseWriter, r *http.Request) {
	var req swap.ManagerResponseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.SwapRequestID = chi.URLParam(r, "id")

	result, err := h.swapService.RespondAsManager(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Decision recorded", result)
}

// Cancel implements SwapHandler.
func (h *swapHandlerImpl) Cancel(w http.ResponseWriter, r *http.Request) {
	result, err := h.swapService.CancelRequest(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Swap request cancelled", result)
}

// List implements SwapHandler.
func (h *swapHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	filter := swap.SwapFilter{}
	q := r.URL.Query()

	if v := q.Get("requester_id"); v != "" {
		filter.RequesterID = &v
	}
	if v := q.Get("target_id"); v != "" {
		filter.TargetID = &v
	}
	if v := q.Get("status"); v != "" {
		parsed := swap.Status(v)
		filter.Status = &parsed
	}
	filter.Page, filter.Limit = pagination(r)

	result, total, err := h.swapService.ListRequests(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMeta(w, result, response.NewMeta(filter.Page, filter.Limit, total))
}
