package apperr

import (
	"errors"
	"fmt"
	"testing"
)

func TestNew_IsKind(t *testing.T) {
	err := New(ErrNotFound, "User not found")
	if !errors.Is(err, ErrNotFound) {
		t.Fatal("New(ErrNotFound) should match ErrNotFound")
	}
	if err.Error() != "User not found" {
		t.Errorf("Error() = %q, want %q", err.Error(), "User not found")
	}
	if Kind(fmt.Errorf("login: %w", err)) != ErrNotFound {
		t.Error("Kind should see through wrapping")
	}
}

func TestInternal_HidesCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := Internal("USER_LOOKUP_FAILED", cause, "operation", "find user")
	if !errors.Is(err, ErrInternal) {
		t.Fatal("Internal should match ErrInternal")
	}
	if !errors.Is(err, cause) {
		t.Fatal("Internal should keep the cause for operators")
	}
	if got := Message(err); got != "Internal Server Error" {
		t.Errorf("Message = %q, want generic text", got)
	}
}

func TestKind_Unknown(t *testing.T) {
	if Kind(errors.New("boom")) != ErrInternal {
		t.Error("unknown errors should be internal")
	}
	if Kind(nil) != ErrInternal {
		t.Error("nil has no client kind")
	}
}

func TestMessage_BareKind(t *testing.T) {
	if got := Message(ErrUnauthorized); got != "unauthorized" {
		t.Errorf("Message = %q, want %q", got, "unauthorized")
	}
	if got := Message(New(ErrAlreadyExists, "User already exists")); got != "User already exists" {
		t.Errorf("Message = %q", got)
	}
}
