package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/schoolhub/shiftops-backend-go/internal/domain/salary"
	"github.com/schoolhub/shiftops-backend-go/internal/handler/http/response"
)

type PayrollHandler interface {
	CreateStructure(w http.ResponseWriter, r *http.Request)
	GetStructure(w http.ResponseWriter, r *http.Request)
	DeactivateStructure(w http.ResponseWriter, r *http.Request)
	ListStructures(w http.ResponseWriter, r *http.Request)

	Calculate(w http.ResponseWriter, r *http.Request)
	CalculatePeriod(w http.ResponseWriter, r *http.Request)
	Recalculate(w http.ResponseWriter, r *http.Request)
	Approve(w http.ResponseWriter, r *http.Request)
	MarkPaid(w http.ResponseWriter, r *http.Request)
	Cancel(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
}

type payrollHandlerImpl struct {
	structureService salary.StructureService
	payrollService   salary.PayrollService
}

func NewPayrollHandler(structureService salary.StructureService, payrollService salary.PayrollService) PayrollHandler {
	return &payrollHandlerImpl{
		structureService: structureService,
		payrollService:   payrollService,
	}
}

// CreateStructure implements PayrollHandler.
func (h *payrollHandlerImpl) CreateStructure(w http.ResponseWriter, r *http.Request) {
	var req salary.CreateStructureRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.structureService.CreateStructure(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Created(w, "Salary structure created", result)
}

// GetStructure implements PayrollHandler.
func (h *payrollHandlerImpl) GetStructure(w http.ResponseWriter, r *http.Request) {
	result, err := h.structureService.GetStructure(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

// DeactivateStructure implements PayrollHandler.
func (h *payrollHandlerImpl) DeactivateStructure(w http.ResponseWriter, r *http.Request) {
	if err := h.structureService.DeactivateStructure(r.Context(), chi.URLParam(r, "id")); err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Salary structure deactivated", nil)
}

// ListStructures implements PayrollHandler.
func (h *payrollHandlerImpl) ListStructures(w http.ResponseWriter, r *http.Request) {
	employeeID := r.URL.Query().Get("employee_id")
	if employeeID == "" {
		response.BadRequest(w, "Query param 'employee_id' is required", nil)
		return
	}

	result, err := h.structureService.ListStructures(r.Context(), employeeID)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

// Calculate implements PayrollHandler.
func (h *payrollHandlerImpl) Calculate(w http.ResponseWriter, r *http.Request) {
	var req salary.CalculatePayrollRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.payrollService.CalculatePayroll(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Created(w, "Payroll calculated", result)
}

// CalculatePeriod implements PayrollHandler.
func (h *payrollHandlerImpl) CalculatePeriod(w http.ResponseWriter, r *http.Request) {
	var req salary.CalculatePeriodRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.payrollService.CalculateForPeriod(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Period calculation finished", result)
}

// Recalculate implements PayrollHandler.
func (h *payrollHandlerImpl) Recalculate(w http.ResponseWriter, r *http.Request) {
	result, err := h.payrollService.RecalculatePayroll(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Payroll recalculated", result)
}

// Approve implements PayrollHandler.
func (h *payrollHandlerImpl) Approve(w http.ResponseWriter, r *http.Request) {
	result, err := h.payrollService.ApprovePayroll(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Payroll approved", result)
}

// MarkPaid implements PayrollHandler.
func (h *payrollHandlerImpl) MarkPaid(w http.ResponseWriter, r *http.Request) {
	result, err := h.payrollService.MarkPaid(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Payroll marked paid", result)
}

// Cancel implements PayrollHandler.
func (h *payrollHandlerImpl) Cancel(w http.ResponseWriter, r *http.Request) {
	result, err := h.payrollService.CancelPayroll(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Payroll cancelled", result)
}

// Get implements PayrollHandler.
func (h *payrollHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	result, err := h.payrollService.GetPayroll(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

// List implements PayrollHandler.
func (h *payrollHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	filter := salary.PayrollFilter{}
	q := r.URL.Query()

	if v := q.Get("employee_id"); v != "" {
		filter.EmployeeID = &v
	}
	if v := q.Get("year"); v != "" {
		if year, err := strconv.Atoi(v); err == nil {
			filter.Year = &year
		}
	}
	if v := q.Get("month"); v != "" {
		if month, err := strconv.Atoi(v); err == nil {
			filter.Month = &month
		}
	}
	if v := q.Get("status"); v != "" {
		parsed := salary.PayrollStatus(v)
		filter.Status = &parsed
	}
	filter.Page, filter.Limit = pagination(r)

	result, total, err := h.payrollService.ListPayrolls(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMeta(w, result, response.NewMeta(filter.Page, filter.Limit, total))
}
