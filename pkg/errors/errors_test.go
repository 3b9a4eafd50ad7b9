package errors

import (
	stderrors "errors"
	"fmt"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeInvalidConstraint, "unknown direction %q", "x")
	if err.Code != ErrCodeInvalidConstraint {
		t.Errorf("Code = %s, want %s", err.Code, ErrCodeInvalidConstraint)
	}
	want := `INVALID_CONSTRAINT: unknown direction "x"`
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestWrap(t *testing.T) {
	cause := stderrors.New("connection refused")
	err := Wrap(ErrCodeNetwork, cause, "fetch spec")

	if !stderrors.Is(err, cause) {
		t.Error("wrapped error should match cause via errors.Is")
	}
	if err.Unwrap() != cause {
		t.Error("Unwrap should return the cause")
	}
}

func TestIs(t *testing.T) {
	err := New(ErrCodeCapacity, "snapshot stack overflow")

	if !Is(err, ErrCodeCapacity) {
		t.Error("Is should match the error's own code")
	}
	if Is(err, ErrCodeUnsatisfiable) {
		t.Error("Is should not match a different code")
	}

	// Code survives one level of fmt wrapping.
	wrapped := fmt.Errorf("solve: %w", err)
	if !Is(wrapped, ErrCodeCapacity) {
		t.Error("Is should unwrap fmt-wrapped errors")
	}

	if Is(stderrors.New("plain"), ErrCodeCapacity) {
		t.Error("Is should not match plain errors")
	}
}

func TestGetCode(t *testing.T) {
	if got := GetCode(New(ErrCodeNotFound, "no such component")); got != ErrCodeNotFound {
		t.Errorf("GetCode = %s, want %s", got, ErrCodeNotFound)
	}
	if got := GetCode(stderrors.New("plain")); got != "" {
		t.Errorf("GetCode on plain error = %q, want empty", got)
	}
}

func TestUserMessage(t *testing.T) {
	err := New(ErrCodeCapacity, "grid exceeds maximum extent")
	if got := UserMessage(err); got != "grid exceeds maximum extent" {
		t.Errorf("UserMessage = %q", got)
	}
	plain := stderrors.New("boom")
	if got := UserMessage(plain); got != "boom" {
		t.Errorf("UserMessage on plain error = %q", got)
	}
}
