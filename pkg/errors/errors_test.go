package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorFormatting(t *testing.T) {
	err := New(ErrCodeInvalidSelection, "need %d elements", 2)
	if got, want := err.Error(), "INVALID_SELECTION: need 2 elements"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}

	cause := fmt.Errorf("boom")
	wrapped := Wrap(ErrCodeInvalidDocument, cause, "element %s", "a")
	if got, want := wrapped.Error(), "INVALID_DOCUMENT: element a: boom"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	if !errors.Is(wrapped, cause) {
		t.Error("wrapped error should unwrap to its cause")
	}
}

func TestIsAndGetCode(t *testing.T) {
	err := fmt.Errorf("outer: %w", New(ErrCodeGroupMember, "member"))

	if !Is(err, ErrCodeGroupMember) {
		t.Error("Is should find code through fmt wrapping")
	}
	if Is(err, ErrCodeNotFound) {
		t.Error("Is should not match a different code")
	}
	if GetCode(err) != ErrCodeGroupMember {
		t.Errorf("GetCode() = %q", GetCode(err))
	}
	if GetCode(fmt.Errorf("plain")) != "" {
		t.Error("GetCode on plain error should be empty")
	}
}

func TestUserMessage(t *testing.T) {
	if got := UserMessage(New(ErrCodeUnknownField, "unknown field %q", "x")); got != `unknown field "x"` {
		t.Errorf("UserMessage() = %q", got)
	}
	if got := UserMessage(fmt.Errorf("plain")); got != "plain" {
		t.Errorf("UserMessage() = %q", got)
	}
}

func TestIsValidation(t *testing.T) {
	tests := []struct {
		code Code
		want bool
	}{
		{ErrCodeInvalidSelection, true},
		{ErrCodeDuplicateID, true},
		{ErrCodeGroupMember, true},
		{ErrCodeMissingAttribute, false},
		{ErrCodeInternal, false},
	}
	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			if got := IsValidation(New(tt.code, "x")); got != tt.want {
				t.Errorf("IsValidation(%s) = %v, want %v", tt.code, got, tt.want)
			}
		})
	}
}
