package errors

import (
	stderrors "errors"
	"testing"
)

func TestErrorString(t *testing.T) {
	err := New(CategoryBind, "bad value %d", 7).WithSuggestion("use a string")
	want := "relit/bind: bad value 7 (use a string)"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestWrapUnwrap(t *testing.T) {
	cause := stderrors.New("boom")
	err := Wrap(CategoryTemplate, cause, "parse markup")

	if !stderrors.Is(err, cause) {
		t.Errorf("wrapped cause not reachable via errors.Is")
	}

	var e *Error
	if !stderrors.As(err, &e) {
		t.Fatalf("errors.As failed")
	}
	if e.Category != CategoryTemplate {
		t.Errorf("Category = %v, want %v", e.Category, CategoryTemplate)
	}
}
