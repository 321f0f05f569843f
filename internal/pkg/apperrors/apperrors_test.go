package apperrors

import (
	"errors"
	"fmt"
	"testing"
)

func TestKindOf(t *testing.T) {
	sentinel := Conflict("duplicate period")

	kind, ok := KindOf(sentinel)
	if !ok || kind != KindConflict {
		t.Errorf("KindOf(sentinel) = %v, %v", kind, ok)
	}

	wrapped := fmt.Errorf("calculate payroll: %w", sentinel)
	kind, ok = KindOf(wrapped)
	if !ok || kind != KindConflict {
		t.Errorf("KindOf(wrapped) = %v, %v", kind, ok)
	}

	if _, ok := KindOf(errors.New("plain")); ok {
		t.Error("KindOf(plain error) should report no classification")
	}
}

func TestSentinelsSurviveWrapping(t *testing.T) {
	sentinel := NotFound("shift template not found")
	wrapped := fmt.Errorf("get template: %w", sentinel)

	if !errors.Is(wrapped, sentinel) {
		t.Error("errors.Is must match the wrapped sentinel")
	}
}

func TestKindString(t *testing.T) {
	cases := map[Kind]string{
		KindValidation:   "VALIDATION",
		KindConflict:     "CONFLICT",
		KindInvalidState: "INVALID_STATE",
		KindNotFound:     "NOT_FOUND",
	}
	for kind, want := range cases {
		if got := kind.String(); got != want {
			t.Errorf("Kind(%d).String() = %q, want %q", kind, got, want)
		}
	}
}
