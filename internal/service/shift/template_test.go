package shift

import (
	"context"
	"testing"

	"github.com/go-chi/jwtauth/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schoolhub/shiftops-backend-go/internal/domain/shift"
)

type fakeTemplateRepo struct {
	templates       map[string]shift.ShiftTemplate
	byCode          map[string]string
	assignmentCount map[string]int64
}

func newFakeTemplateRepo() *fakeTemplateRepo {
	return &fakeTemplateRepo{
		templates:       map[string]shift.ShiftTemplate{},
		byCode:          map[string]string{},
		assignmentCount: map[string]int64{},
	}
}

func (r *fakeTemplateRepo) Create(_ context.Context, template shift.ShiftTemplate) (shift.ShiftTemplate, error) {
	r.templates[template.ID] = template
	r.byCode[template.Code] = template.ID
	return template, nil
}

func (r *fakeTemplateRepo) GetByID(_ context.Context, id string) (shift.ShiftTemplate, error) {
	template, ok := r.templates[id]
	if !ok {
		return shift.ShiftTemplate{}, shift.ErrTemplateNotFound
	}
	return template, nil
}

func (r *fakeTemplateRepo) GetByCode(_ context.Context, code string) (*shift.ShiftTemplate, error) {
	id, ok := r.byCode[code]
	if !ok {
		return nil, nil
	}
	template := r.templates[id]
	return &template, nil
}

func (r *fakeTemplateRepo) Update(_ context.Context, template shift.ShiftTemplate) error {
	if _, ok := r.templates[template.ID]; !ok {
		return shift.ErrTemplateNotFound
	}
	r.templates[template.ID] = template
	return nil
}

func (r *fakeTemplateRepo) Delete(_ context.Context, id string) error {
	delete(r.templates, id)
	return nil
}

func (r *fakeTemplateRepo) List(_ context.Context, _ bool) ([]shift.ShiftTemplate, error) {
	out := make([]shift.ShiftTemplate, 0, len(r.templates))
	for _, template := range r.templates {
		out = append(out, template)
	}
	return out, nil
}

func (r *fakeTemplateRepo) CountAssignments(_ context.Context, templateID string) (int64, error) {
	return r.assignmentCount[templateID], nil
}

func managerContext(t *testing.T, sub string) context.Context {
	t.Helper()
	ta := jwtauth.New("HS256", []byte("test-secret"), nil)
	token, _, err := ta.Encode(map[string]interface{}{"sub": sub, "role": "manager"})
	require.NoError(t, err)
	return jwtauth.NewContext(context.Background(), token, nil)
}

func strPtr(s string) *string { return &s }

func TestCreateTemplate_BreakMustBeInsideShift(t *testing.T) {
	tests := []struct {
		name       string
		breakStart string
		breakEnd   string
		wantErr    error
	}{
		{"strictly inside", "12:00", "13:00", nil},
		{"starts with the shift", "08:00", "12:00", shift.ErrBreakOutsideShift},
		{"ends with the shift", "13:00", "17:00", shift.ErrBreakOutsideShift},
		{"covers the whole shift", "08:00", "17:00", shift.ErrBreakOutsideShift},
		{"inverted window", "13:00", "12:00", shift.ErrBreakOutsideShift},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewTemplateService(newFakeTemplateRepo())

			_, err := svc.CreateTemplate(managerContext(t, "mgr-1"), shift.CreateTemplateRequest{
				Name:       "Day shift",
				Code:       "DAY",
				StartTime:  "08:00",
				EndTime:    "17:00",
				BreakStart: strPtr(tt.breakStart),
				BreakEnd:   strPtr(tt.breakEnd),
			})
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestCreateTemplate_CodeMustBeUnique(t *testing.T) {
	svc := NewTemplateService(newFakeTemplateRepo())
	ctx := managerContext(t, "mgr-1")

	_, err := svc.CreateTemplate(ctx, shift.CreateTemplateRequest{
		Name:      "Morning",
		Code:      "MOR",
		StartTime: "06:00",
		EndTime:   "14:00",
	})
	require.NoError(t, err)

	_, err = svc.CreateTemplate(ctx, shift.CreateTemplateRequest{
		Name:      "Morning again",
		Code:      "MOR",
		StartTime: "07:00",
		EndTime:   "15:00",
	})
	assert.ErrorIs(t, err, shift.ErrTemplateCodeTaken)
}

func TestDeleteTemplate_RefusedWhileReferenced(t *testing.T) {
	repo := newFakeTemplateRepo()
	svc := NewTemplateService(repo)
	ctx := managerContext(t, "mgr-1")

	created, err := svc.CreateTemplate(ctx, shift.CreateTemplateRequest{
		Name:      "Night",
		Code:      "NGT",
		StartTime: "22:00",
		EndTime:   "23:00",
	})
	require.NoError(t, err)

	repo.assignmentCount[created.ID] = 4
	assert.ErrorIs(t, svc.DeleteTemplate(ctx, created.ID), shift.ErrTemplateInUse)
}
