package errors

import (
	stderrors "errors"
	"strings"
	"testing"
)

func TestErrorFormatting(t *testing.T) {
	plain := New(ErrCodeInvalidPlot, "unknown plot kind: %s", "mosaic")
	if got := plain.Error(); got != "INVALID_PLOT: unknown plot kind: mosaic" {
		t.Errorf("Error() = %q", got)
	}

	cause := stderrors.New("boom")
	wrapped := Wrap(ErrCodeInternal, cause, "rendering failed")
	if got := wrapped.Error(); !strings.Contains(got, "boom") {
		t.Errorf("wrapped Error() = %q, want cause included", got)
	}
	if !stderrors.Is(wrapped, cause) {
		t.Error("errors.Is(wrapped, cause) = false, want true")
	}
}

func TestIsAndGetCode(t *testing.T) {
	err := New(ErrCodeExplanationNotFound, "no such explanation")

	if !Is(err, ErrCodeExplanationNotFound) {
		t.Error("Is() = false for matching code")
	}
	if Is(err, ErrCodeInternal) {
		t.Error("Is() = true for non-matching code")
	}
	if Is(stderrors.New("plain"), ErrCodeInternal) {
		t.Error("Is() = true for non-structured error")
	}

	if got := GetCode(err); got != ErrCodeExplanationNotFound {
		t.Errorf("GetCode() = %q", got)
	}
	if got := GetCode(stderrors.New("plain")); got != "" {
		t.Errorf("GetCode(plain) = %q, want empty", got)
	}
}

func TestUserMessage(t *testing.T) {
	err := New(ErrCodeInvalidRow, "row 9 out of range")
	if got := UserMessage(err); got != "row 9 out of range" {
		t.Errorf("UserMessage() = %q", got)
	}
	if got := UserMessage(stderrors.New("plain")); got != "plain" {
		t.Errorf("UserMessage(plain) = %q", got)
	}
}
