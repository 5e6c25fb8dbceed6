package errors

import (
	stderrors "errors"
	"fmt"
	"testing"
)

func TestNewFormatsMessage(t *testing.T) {
	err := New(ErrCodeInvalidGraph, "duplicate node id %q", "alice")
	want := `INVALID_GRAPH: duplicate node id "alice"`
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestWrapPreservesCause(t *testing.T) {
	cause := fmt.Errorf("disk full")
	err := Wrap(ErrCodeRender, cause, "render %s", "svg")

	if !stderrors.Is(err, cause) {
		t.Error("wrapped error lost its cause")
	}
	if got := err.Error(); got != "RENDER_ERROR: render svg: disk full" {
		t.Errorf("Error() = %q", got)
	}
}

func TestIs(t *testing.T) {
	err := New(ErrCodeInvalidMode, "invalid mode")
	if !Is(err, ErrCodeInvalidMode) {
		t.Error("Is() did not match the code")
	}
	if Is(err, ErrCodeRender) {
		t.Error("Is() matched the wrong code")
	}
	if Is(fmt.Errorf("plain"), ErrCodeInvalidMode) {
		t.Error("Is() matched a plain error")
	}
}

func TestIsThroughWrapping(t *testing.T) {
	inner := New(ErrCodeFileNotFound, "config missing")
	outer := fmt.Errorf("startup: %w", inner)
	if !Is(outer, ErrCodeFileNotFound) {
		t.Error("Is() did not unwrap the chain")
	}
}

func TestGetCode(t *testing.T) {
	if got := GetCode(New(ErrCodeInternal, "boom")); got != ErrCodeInternal {
		t.Errorf("GetCode() = %q, want %q", got, ErrCodeInternal)
	}
	if got := GetCode(fmt.Errorf("plain")); got != "" {
		t.Errorf("GetCode(plain) = %q, want empty", got)
	}
}
