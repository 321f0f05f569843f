package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/schoolhub/shiftops-backend-go/internal/domain/shift"
	"github.com/schoolhub/shiftops-backend-go/internal/handler/http/response"
)

type ShiftHandler interface {
	CreateTemplate(w http.ResponseWriter, r *http.Request)
	GetTemplate(w http.ResponseWriter, r *http.Request)
	UpdateTemplate(w http.ResponseWriter, r *http.Request)
	DeleteTemplate(w http.ResponseWriter, r *http.Request)
	ListTemplates(w http.ResponseWriter, r *http.Request)

	CreateSchedule(w http.ResponseWriter, r *http.Request)
	GetSchedule(w http.ResponseWriter, r *http.Request)
	PublishSchedule(w http.ResponseWriter, r *http.Request)
	ArchiveSchedule(w http.ResponseWriter, r *http.Request)
	CancelSchedule(w http.ResponseWriter, r *http.Request)
	ListSchedules(w http.ResponseWriter, r *http.Request)

	CreateAssignment(w http.ResponseWriter, r *http.Request)
	GetAssignment(w http.ResponseWriter, r *http.Request)
	CheckIn(w http.ResponseWriter, r *http.Request)
	CheckOut(w http.ResponseWriter, r *http.Request)
	CancelAssignment(w http.ResponseWriter, r *http.Request)
	ListAssignments(w http.ResponseWriter, r *http.Request)
}

type shiftHandlerImpl struct {
	templateService   shift.TemplateService
	scheduleService   shift.ScheduleService
	assignmentService shift.AssignmentService
}

func NewShiftHandler(
	templateService shift.TemplateService,
	scheduleService shift.ScheduleService,
	assignmentService shift.AssignmentService,
) ShiftHandler {
	return &shiftHandlerImpl{
		templateService:   templateService,
		scheduleService:   scheduleService,
		assignmentService: assignmentService,
	}
}

// CreateTemplate implements ShiftHandler.
func (h *shiftHandlerImpl) CreateTemplate(w http.ResponseWriter, r *http.Request) {
	var req shift.CreateTemplateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.templateService.CreateTemplate(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Created(w, "Shift template created", result)
}

// GetTemplate implements ShiftHandler.
func (h *shiftHandlerImpl) GetTemplate(w http.ResponseWriter, r *http.Request) {
	result, err := h.templateService.GetTemplate(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

// UpdateTemplate implements ShiftHandler.
func (h *shiftHandlerImpl) UpdateTemplate(w http.ResponseWriter, r *http.Request) {
	var req shift.UpdateTemplateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.ID = chi.URLParam(r, "id")

	result, err := h.templateService.UpdateTemplate(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

// DeleteTemplate implements ShiftHandler.
func (h *shiftHandlerImpl) DeleteTemplate(w http.ResponseWriter, r *http.Request) {
	if err := h.templateService.DeleteTemplate(r.Context(), chi.URLParam(r, "id")); err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Shift template deleted", nil)
}

// ListTemplates implements ShiftHandler.
func (h *shiftHandlerImpl) ListTemplates(w http.ResponseWriter, r *http.Request) {
	activeOnly := r.URL.Query().Get("active") == "true"

	result, err := h.templateService.ListTemplates(r.Context(), activeOnly)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

// CreateSchedule implements ShiftHandler.
func (h *shiftHandlerImpl) CreateSchedule(w http.ResponseWriter, r *http.Request) {
	var req shift.CreateScheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.scheduleService.CreateSchedule(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Created(w, "Schedule created", result)
}

// GetSchedule implements ShiftHandler.
func (h *shiftHandlerImpl) GetSchedule(w http.ResponseWriter, r *http.Request) {
	result, err := h.scheduleService.GetSchedule(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

// PublishSchedule implements ShiftHandler.
func (h *shiftHandlerImpl) PublishSchedule(w http.ResponseWriter, r *http.Request) {
	result, err := h.scheduleService.PublishSchedule(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Schedule published", result)
}

// ArchiveSchedule implements ShiftHandler.
func (h *shiftHandlerImpl) ArchiveSchedule(w http.ResponseWriter, r *http.Request) {
	result, err := h.scheduleService.ArchiveSchedule(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Schedule archived", result)
}

// CancelSchedule implements ShiftHandler.
func (h *shiftHandlerImpl) CancelSchedule(w http.ResponseWriter, r *http.Request) {
	result, err := h.scheduleService.CancelSchedule(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Schedule cancelled", result)
}

// ListSchedules implements ShiftHandler.
func (h *shiftHandlerImpl) ListSchedules(w http.ResponseWriter, r *http.Request) {
	var status *shift.ScheduleStatus
	if s := r.URL.Query().Get("status"); s != "" {
		parsed := shift.ScheduleStatus(s)
		status = &parsed
	}
	page, limit := pagination(r)

	result, total, err := h.scheduleService.ListSchedules(r.Context(), status, page, limit)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMeta(w, result, response.NewMeta(page, limit, total))
}

// CreateAssignment implements ShiftHandler.
func (h *shiftHandlerImpl) CreateAssignment(w http.ResponseWriter, r *http.Request) {
	var req shift.CreateAssignmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.assignmentService.CreateAssignment(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Created(w, "Shift assigned", result)
}

// GetAssignment implements ShiftHandler.
func (h *shiftHandlerImpl) GetAssignment(w http.ResponseWriter, r *http.Request) {
	result, err := h.assignmentService.GetAssignment(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

// CheckIn implements ShiftHandler.
func (h *shiftHandlerImpl) CheckIn(w http.ResponseWriter, r *http.Request) {
	var req shift.CheckInRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			response.BadRequest(w, "Invalid request format", nil)
			return
		}
	}
	req.AssignmentID = chi.URLParam(r, "id")

	result, err := h.assignmentService.CheckIn(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Checked in", result)
}

// CheckOut implements ShiftHandler.
func (h *shiftHandlerImpl) CheckOut(w http.ResponseWriter, r *http.Request) {
	var req shift.CheckOutRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			response.BadRequest(w, "Invalid request format", nil)
			return
		}
	}
	req.AssignmentID = chi.URLParam(r, "id")

	result, err := h.assignmentService.CheckOut(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Checked out", result)
}

// CancelAssignment implements ShiftHandler.
func (h *shiftHandlerImpl) CancelAssignment(w http.ResponseWriter, r *http.Request) {
	var req shift.CancelAssignmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.AssignmentID = chi.URLParam(r, "id")

	result, err := h.assignmentService.CancelAssignment(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Shift assignment cancelled", result)
}

// ListAssignments implements ShiftHandler.
func (h *shiftHandlerImpl) ListAssignments(w http.ResponseWriter, r *http.Request) {
	filter := shift.AssignmentFilter{}
	q := r.URL.Query()

	if v := q.Get("employee_id"); v != "" {
		filter.EmployeeID = &v
	}
	if v := q.Get("schedule_id"); v != "" {
		filter.ScheduleID = &v
	}
	if v := q.Get("status"); v != "" {
		filter.Status = &v
	}
	if v := q.Get("date_from"); v != "" {
		if t, err := time.Parse("2006-01-02", v); err == nil {
			filter.DateFrom = &t
		}
	}
	if v := q.Get("date_to"); v != "" {
		if t, err := time.Parse("2006-01-02", v); err == nil {
			filter.DateTo = &t
		}
	}
	filter.Page, filter.Limit = pagination(r)

	result, total, err := h.assignmentService.ListAssignments(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMeta(w, result, response.NewMeta(filter.Page, filter.Limit, total))
}

// pagination reads page/limit query params with defaults.
func pagination(r *http.Request) (int, int) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return page, limit
}
