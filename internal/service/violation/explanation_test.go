package violation

import (
	"context"
	"fmt"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schoolhub/shiftops-backend-go/internal/domain/violation"
	"github.com/schoolhub/shiftops-backend-go/internal/pkg/clock"
	"github.com/schoolhub/shiftops-backend-go/internal/pkg/storage"
)

type fakeViolationRepo struct {
	violations map[string]violation.AttendanceViolation
}

func newFakeViolationRepo(seed ...violation.AttendanceViolation) *fakeViolationRepo {
	r := &fakeViolationRepo{violations: map[string]violation.AttendanceViolation{}}
	for _, v := range seed {
		r.violations[v.ID] = v
	}
	return r
}

func (r *fakeViolationRepo) Create(_ context.Context, v violation.AttendanceViolation) (violation.AttendanceViolation, error) {
	r.violations[v.ID] = v
	return v, nil
}

func (r *fakeViolationRepo) GetByID(_ context.Context, id string) (violation.AttendanceViolation, error) {
	v, ok := r.violations[id]
	if !ok {
		return violation.AttendanceViolation{}, violation.ErrNotFound
	}
	return v, nil
}

func (r *fakeViolationRepo) Update(_ context.Context, v violation.AttendanceViolation) error {
	if _, ok := r.violations[v.ID]; !ok {
		return violation.ErrNotFound
	}
	r.violations[v.ID] = v
	return nil
}

func (r *fakeViolationRepo) List(_ context.Context, _ violation.ViolationFilter) ([]violation.AttendanceViolation, int64, error) {
	out := make([]violation.AttendanceViolation, 0, len(r.violations))
	for _, v := range r.violations {
		out = append(out, v)
	}
	return out, int64(len(out)), nil
}

func (r *fakeViolationRepo) ExistsForAssignment(_ context.Context, assignmentID string, violationType violation.Type) (bool, error) {
	for _, v := range r.violations {
		if v.AssignmentID != nil && *v.AssignmentID == assignmentID && v.Type == violationType {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeViolationRepo) ListOverdue(_ context.Context, cutoff time.Time) ([]violation.AttendanceViolation, error) {
	var out []violation.AttendanceViolation
	for _, v := range r.violations {
		if v.Status == violation.StatusPendingExplanation && v.CreatedAt.Before(cutoff) {
			out = append(out, v)
		}
	}
	return out, nil
}

func (r *fakeViolationRepo) ListForPeriod(_ context.Context, employeeID string, from, to time.Time) ([]violation.AttendanceViolation, error) {
	var out []violation.AttendanceViolation
	for _, v := range r.violations {
		if v.EmployeeID == employeeID && !v.Date.Before(from) && !v.Date.After(to) {
			out = append(out, v)
		}
	}
	return out, nil
}

type fakeExplanationRepo struct {
	explanations map[string]violation.ViolationExplanation
	order        []string
}

func newFakeExplanationRepo() *fakeExplanationRepo {
	return &fakeExplanationRepo{explanations: map[string]violation.ViolationExplanation{}}
}

func (r *fakeExplanationRepo) Create(_ context.Context, e violation.ViolationExplanation) (violation.ViolationExplanation, error) {
	r.explanations[e.ID] = e
	r.order = append(r.order, e.ID)
	return e, nil
}

func (r *fakeExplanationRepo) GetByID(_ context.Context, id string) (violation.ViolationExplanation, error) {
	e, ok := r.explanations[id]
	if !ok {
		return violation.ViolationExplanation{}, violation.ErrExplanationNotFound
	}
	return e, nil
}

func (r *fakeExplanationRepo) GetLatestByViolation(_ context.Context, violationID string) (*violation.ViolationExplanation, error) {
	for i := len(r.order) - 1; i >= 0; i-- {
		e := r.explanations[r.order[i]]
		if e.ViolationID == violationID {
			return &e, nil
		}
	}
	return nil, nil
}

func (r *fakeExplanationRepo) Update(_ context.Context, e violation.ViolationExplanation) error {
	if _, ok := r.explanations[e.ID]; !ok {
		return violation.ErrExplanationNotFound
	}
	r.explanations[e.ID] = e
	return nil
}

type fakeEvidenceRepo struct {
	evidence map[string]violation.ExplanationEvidence
}

func newFakeEvidenceRepo() *fakeEvidenceRepo {
	return &fakeEvidenceRepo{evidence: map[string]violation.ExplanationEvidence{}}
}

func (r *fakeEvidenceRepo) Create(_ context.Context, ev violation.ExplanationEvidence) (violation.ExplanationEvidence, error) {
	r.evidence[ev.ID] = ev
	return ev, nil
}

func (r *fakeEvidenceRepo) GetByID(_ context.Context, id string) (violation.ExplanationEvidence, error) {
	ev, ok := r.evidence[id]
	if !ok {
		return violation.ExplanationEvidence{}, violation.ErrEvidenceNotFound
	}
	return ev, nil
}

func (r *fakeEvidenceRepo) ListByExplanation(_ context.Context, explanationID string) ([]violation.ExplanationEvidence, error) {
	var out []violation.ExplanationEvidence
	for _, ev := range r.evidence {
		if ev.ExplanationID == explanationID {
			out = append(out, ev)
		}
	}
	return out, nil
}

func (r *fakeEvidenceRepo) Delete(_ context.Context, id string) error {
	delete(r.evidence, id)
	return nil
}

type fakeFileStorage struct {
	stored map[string][]byte
}

func newFakeFileStorage() *fakeFileStorage {
	return &fakeFileStorage{stored: map[string][]byte{}}
}

func (s *fakeFileStorage) Store(_ context.Context, file io.Reader, path string, _ string) (storage.StoredFile, error) {
	data, err := io.ReadAll(file)
	if err != nil {
		return storage.StoredFile{}, err
	}
	s.stored[path] = data
	return storage.StoredFile{
		Path: path,
		URL:  "http://files.test/" + path,
		Hash: strings.Repeat("a", 64),
	}, nil
}

func (s *fakeFileStorage) Delete(_ context.Context, path string) error {
	delete(s.stored, path)
	return nil
}

func (s *fakeFileStorage) GetURL(_ context.Context, path string, _ time.Duration) (string, error) {
	return "http://files.test/" + path, nil
}

func (s *fakeFileStorage) Exists(_ context.Context, path string) (bool, error) {
	_, ok := s.stored[path]
	return ok, nil
}

type recordingSink struct {
	events []string
}

func (s *recordingSink) Notify(_ context.Context, _ string, eventType string, _ map[string]interface{}) {
	s.events = append(s.events, eventType)
}

func authedContext(t *testing.T, sub string) context.Context {
	t.Helper()
	ta := jwtauth.New("HS256", []byte("test-secret"), nil)
	token, _, err := ta.Encode(map[string]interface{}{"sub": sub})
	require.NoError(t, err)
	return jwtauth.NewContext(context.Background(), token, nil)
}

func lateArrivalViolation(id, employeeID string) violation.AttendanceViolation {
	assignmentID := "assignment-" + id
	return violation.AttendanceViolation{
		ID:               id,
		EmployeeID:       employeeID,
		AssignmentID:     &assignmentID,
		Date:             time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
		Type:             violation.TypeLateArrival,
		Severity:         violation.SeverityMinor,
		DeviationMinutes: 20,
		Status:           violation.StatusPendingExplanation,
		AutoDetected:     true,
		CreatedAt:        time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC),
	}
}

type explanationFixture struct {
	svc             violation.ExplanationService
	violationRepo   *fakeViolationRepo
	explanationRepo *fakeExplanationRepo
	evidenceRepo    *fakeEvidenceRepo
	files           *fakeFileStorage
	sink            *recordingSink
}

func newExplanationFixture(maxResubmissions int, seed ...violation.AttendanceViolation) explanationFixture {
	f := explanationFixture{
		violationRepo:   newFakeViolationRepo(seed...),
		explanationRepo: newFakeExplanationRepo(),
		evidenceRepo:    newFakeEvidenceRepo(),
		files:           newFakeFileStorage(),
		sink:            &recordingSink{},
	}
	f.svc = NewExplanationService(
		f.violationRepo,
		f.explanationRepo,
		f.evidenceRepo,
		f.files,
		f.sink,
		clock.NewFixed(time.Date(2025, 3, 11, 9, 0, 0, 0, time.UTC)),
		maxResubmissions,
		10,
	)
	return f
}

func TestSubmitExplanation_CreatesAndMovesViolation(t *testing.T) {
	f := newExplanationFixture(3, lateArrivalViolation("v-1", "emp-1"))
	ctx := authedContext(t, "emp-1")

	resp, err := f.svc.SubmitExplanation(ctx, violation.SubmitExplanationRequest{
		ViolationID: "v-1",
		Text:        "Bus broke down on the way in",
	})
	require.NoError(t, err)
	assert.Equal(t, string(violation.ExplanationSubmitted), resp.Status)

	v := f.violationRepo.violations["v-1"]
	assert.Equal(t, violation.StatusExplanationSubmitted, v.Status)
}

func TestSubmitExplanation_RejectsNonOwner(t *testing.T) {
	f := newExplanationFixture(3, lateArrivalViolation("v-1", "emp-1"))

	_, err := f.svc.SubmitExplanation(authedContext(t, "emp-2"), violation.SubmitExplanationRequest{
		ViolationID: "v-1",
		Text:        "not mine to explain",
	})
	assert.ErrorIs(t, err, violation.ErrNotViolationOwner)
}

func TestSubmitExplanation_ResubmissionLimit(t *testing.T) {
	f := newExplanationFixture(3, lateArrivalViolation("v-1", "emp-1"))
	employee := authedContext(t, "emp-1")
	manager := authedContext(t, "mgr-1")

	// The initial submission plus three resubmissions are accepted, each one
	// rejected by the manager to reopen the violation.
	for round := 0; round < 4; round++ {
		resp, err := f.svc.SubmitExplanation(employee, violation.SubmitExplanationRequest{
			ViolationID: "v-1",
			Text:        fmt.Sprintf("attempt %d", round+1),
		})
		require.NoError(t, err, "submission %d should be accepted", round+1)

		_, err = f.svc.ReviewExplanation(manager, violation.ReviewExplanationRequest{
			ExplanationID: resp.ID,
			Action:        string(violation.ReviewReject),
		})
		require.NoError(t, err)

		v := f.violationRepo.violations["v-1"]
		assert.Equal(t, violation.StatusPendingExplanation, v.Status)
		assert.Equal(t, round+1, v.ResubmissionCount)
	}

	_, err := f.svc.SubmitExplanation(employee, violation.SubmitExplanationRequest{
		ViolationID: "v-1",
		Text:        "one attempt too many",
	})
	assert.ErrorIs(t, err, violation.ErrResubmissionLimit)
}

func TestReviewExplanation_ApproveResolvesViolation(t *testing.T) {
	f := newExplanationFixture(3, lateArrivalViolation("v-1", "emp-1"))

	resp, err := f.svc.SubmitExplanation(authedContext(t, "emp-1"), violation.SubmitExplanationRequest{
		ViolationID: "v-1",
		Text:        "Doctor appointment ran over",
	})
	require.NoError(t, err)

	notes := "confirmed with the clinic"
	reviewed, err := f.svc.ReviewExplanation(authedContext(t, "mgr-1"), violation.ReviewExplanationRequest{
		ExplanationID: resp.ID,
		Action:        string(violation.ReviewApprove),
		Notes:         &notes,
	})
	require.NoError(t, err)
	assert.Equal(t, string(violation.ExplanationApproved), reviewed.Status)
	assert.True(t, reviewed.IsValid)

	v := f.violationRepo.violations["v-1"]
	assert.Equal(t, violation.StatusResolved, v.Status)
	require.NotNil(t, v.ResolvedBy)
	assert.Equal(t, "mgr-1", *v.ResolvedBy)
	assert.Contains(t, f.sink.events, "violation.explanation_reviewed")
}

func TestReviewExplanation_AlreadyReviewed(t *testing.T) {
	f := newExplanationFixture(3, lateArrivalViolation("v-1", "emp-1"))
	manager := authedContext(t, "mgr-1")

	resp, err := f.svc.SubmitExplanation(authedContext(t, "emp-1"), violation.SubmitExplanationRequest{
		ViolationID: "v-1",
		Text:        "late bus",
	})
	require.NoError(t, err)

	_, err = f.svc.ReviewExplanation(manager, violation.ReviewExplanationRequest{
		ExplanationID: resp.ID,
		Action:        string(violation.ReviewApprove),
	})
	require.NoError(t, err)

	_, err = f.svc.ReviewExplanation(manager, violation.ReviewExplanationRequest{
		ExplanationID: resp.ID,
		Action:        string(violation.ReviewReject),
	})
	assert.ErrorIs(t, err, violation.ErrExplanationReviewed)
}

func TestUpdateExplanation_AfterMoreInfoRequeuesViolation(t *testing.T) {
	f := newExplanationFixture(3, lateArrivalViolation("v-1", "emp-1"))
	employee := authedContext(t, "emp-1")

	resp, err := f.svc.SubmitExplanation(employee, violation.SubmitExplanationRequest{
		ViolationID: "v-1",
		Text:        "traffic jam",
	})
	require.NoError(t, err)

	_, err = f.svc.ReviewExplanation(authedContext(t, "mgr-1"), violation.ReviewExplanationRequest{
		ExplanationID: resp.ID,
		Action:        string(violation.ReviewRequestMoreInfo),
	})
	require.NoError(t, err)
	assert.Equal(t, violation.StatusUnderReview, f.violationRepo.violations["v-1"].Status)

	updated, err := f.svc.UpdateExplanation(employee, violation.UpdateExplanationRequest{
		ExplanationID: resp.ID,
		Text:          "traffic jam, tow truck receipt attached",
	})
	require.NoError(t, err)
	assert.Equal(t, string(violation.ExplanationSubmitted), updated.Status)

	// The edited explanation goes back into the review queue and takes the
	// violation with it.
	assert.Equal(t, violation.StatusExplanationSubmitted, f.violationRepo.violations["v-1"].Status)
}

func TestUpdateExplanation_OnlySubmitterMayEdit(t *testing.T) {
	f := newExplanationFixture(3, lateArrivalViolation("v-1", "emp-1"))

	resp, err := f.svc.SubmitExplanation(authedContext(t, "emp-1"), violation.SubmitExplanationRequest{
		ViolationID: "v-1",
		Text:        "traffic jam",
	})
	require.NoError(t, err)

	_, err = f.svc.UpdateExplanation(authedContext(t, "emp-2"), violation.UpdateExplanationRequest{
		ExplanationID: resp.ID,
		Text:          "rewritten by someone else",
	})
	assert.ErrorIs(t, err, violation.ErrNotSubmitter)
}

func TestAttachEvidence_StoresFileAndRecord(t *testing.T) {
	f := newExplanationFixture(3, lateArrivalViolation("v-1", "emp-1"))
	employee := authedContext(t, "emp-1")

	resp, err := f.svc.SubmitExplanation(employee, violation.SubmitExplanationRequest{
		ViolationID: "v-1",
		Text:        "flat tire",
	})
	require.NoError(t, err)

	ev, err := f.svc.AttachEvidence(employee, violation.AttachEvidenceRequest{
		ExplanationID: resp.ID,
		FileName:      "receipt.pdf",
		MimeType:      "application/pdf",
		FileSize:      2048,
	}, strings.NewReader("%PDF-1.4"))
	require.NoError(t, err)
	assert.Equal(t, "receipt.pdf", ev.FileName)
	require.NotNil(t, ev.FileURL)
	assert.Len(t, f.files.stored, 1)
}

func TestAttachEvidence_RejectsDisallowedType(t *testing.T) {
	f := newExplanationFixture(3, lateArrivalViolation("v-1", "emp-1"))
	employee := authedContext(t, "emp-1")

	resp, err := f.svc.SubmitExplanation(employee, violation.SubmitExplanationRequest{
		ViolationID: "v-1",
		Text:        "flat tire",
	})
	require.NoError(t, err)

	_, err = f.svc.AttachEvidence(employee, violation.AttachEvidenceRequest{
		ExplanationID: resp.ID,
		FileName:      "tool.exe",
		MimeType:      "application/octet-stream",
		FileSize:      2048,
	}, strings.NewReader("MZ"))
	assert.ErrorIs(t, err, violation.ErrEvidenceFileType)
	assert.Empty(t, f.files.stored)
}
