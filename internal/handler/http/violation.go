package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/schoolhub/shiftops-backend-go/internal/domain/violation"
	"github.com/schoolhub/shiftops-backend-go/internal/handler/http/response"
)

type ViolationHandler interface {
	Get(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	ListOverdue(w http.ResponseWriter, r *http.Request)

	SubmitExplanation(w http.ResponseWriter, r *http.Request)
	UpdateExplanation(w http.ResponseWriter, r *http.Request)
	GetExplanation(w http.ResponseWriter, r *http.Request)
	AttachEvidence(w http.ResponseWriter, r *http.Request)
	RemoveEvidence(w http.ResponseWriter, r *http.Request)
	ReviewExplanation(w http.ResponseWriter, r *http.Request)
}

type violationHandlerImpl struct {
	violationService   violation.ViolationService
	explanationService violation.ExplanationService
	maxEvidenceBytes   int64
}

func NewViolationHandler(
	violationService violation.ViolationService,
	explanationService violation.ExplanationService,
	maxEvidenceSizeMB int,
) ViolationHandler {
	return &violationHandlerImpl{
		violationService:   violationService,
		explanationService: explanationService,
		maxEvidenceBytes:   int64(maxEvidenceSizeMB) * 1024 * 1024,
	}
}

// Get implements ViolationHandler.
func (h *violationHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	result, err := h.violationService.GetViolation(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

// List implements ViolationHandler.
func (h *violationHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	filter := violation.ViolationFilter{}
	q := r.URL.Query()

	if v := q.Get("employee_id"); v != "" {
		filter.EmployeeID = &v
	}
	if v := q.Get("status"); v != "" {
		parsed := violation.Status(v)
		filter.Status = &parsed
	}
	if v := q.Get("type"); v != "" {
		parsed := violation.Type(v)
		filter.Type = &parsed
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

	result, total, err := h.violationService.ListViolations(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMeta(w, result, response.NewMeta(filter.Page, filter.Limit, total))
}

// ListOverdue implements ViolationHandler.
func (h *violationHandlerImpl) ListOverdue(w http.ResponseWriter, r *http.Request) {
	result, err := h.violationService.ListOverdue(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

// SubmitExplanation implements ViolationHandler.
func (h *violationHandlerImpl) SubmitExplanation(w http.ResponseWriter, r *http.Request) {
	var req violation.SubmitExplanationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.ViolationID = chi.URLParam(r, "id")

	result, err := h.explanationService.SubmitExplanation(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Created(w, "Explanation submitted", result)
}

// UpdateExplanation implements ViolationHandler.
func (h *violationHandlerImpl) UpdateExplanation(w http.ResponseWriter, r *http.Request) {
	var req violation.UpdateExplanationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.ExplanationID = chi.URLParam(r, "id")

	result, err := h.explanationService.UpdateExplanation(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

// GetExplanation implements ViolationHandler.
func (h *violationHandlerImpl) GetExplanation(w http.ResponseWriter, r *http.Request) {
	result, err := h.explanationService.GetExplanation(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

// AttachEvidence implements ViolationHandler. Evidence uploads are multipart:
// the file goes under the 'file' field.
func (h *violationHandlerImpl) AttachEvidence(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(h.maxEvidenceBytes); err != nil {
		slog.Error("Failed to parse multipart form", "error", err)
		response.BadRequest(w, "Failed to parse form data", nil)
		return
	}

	file, fileHeader, err := r.FormFile("file")
	if err != nil {
		if err == http.ErrMissingFile {
			response.BadRequest(w, "Field 'file' is required", nil)
			return
		}
		response.BadRequest(w, "Invalid file upload", nil)
		return
	}
	defer file.Close()

	req := violation.AttachEvidenceRequest{
		ExplanationID: chi.URLParam(r, "id"),
		FileName:      fileHeader.Filename,
		MimeType:      fileHeader.Header.Get("Content-Type"),
		FileSize:      fileHeader.Size,
	}

	result, err := h.explanationService.AttachEvidence(r.Context(), req, file)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Created(w, "Evidence attached", result)
}

// RemoveEvidence implements ViolationHandler.
func (h *violationHandlerImpl) RemoveEvidence(w http.ResponseWriter, r *http.Request) {
	if err := h.explanationService.RemoveEvidence(r.Context(), chi.URLParam(r, "evidenceID")); err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Evidence removed", nil)
}

// ReviewExplanation implements ViolationHandler.
func (h *violationHandlerImpl) ReviewExplanation(w http.ResponseWriter, r *http.Request) {
	var req violation.ReviewExplanationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.ExplanationID = chi.URLParam(r, "id")

	result, err := h.explanationService.ReviewExplanation(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Explanation reviewed", result)
}
