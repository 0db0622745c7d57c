package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestMapError(t *testing.T) {
	cases := []struct {
		err  error
		code int
	}{
		{fmt.Errorf("wrap: %w", ErrInvalidInput), http.StatusBadRequest},
		{fmt.Errorf("wrap: %w", ErrNotFound), http.StatusNotFound},
		{errors.New("anything else"), http.StatusInternalServerError},
		{NewAppError(http.StatusTeapot, "custom", nil), http.StatusTeapot},
	}
	for _, c := range cases {
		if got := MapError(c.err); got.Code != c.code {
			t.Errorf("MapError(%v).Code = %d, want %d", c.err, got.Code, c.code)
		}
	}
	if MapError(nil) != nil {
		t.Error("MapError(nil) must be nil")
	}
}

func TestAppErrorUnwrap(t *testing.T) {
	inner := ErrNotFound
	e := NewAppError(http.StatusNotFound, "missing", inner)
	if !errors.Is(e, ErrNotFound) {
		t.Fatal("AppError must unwrap to its cause")
	}
	if e.Error() != "missing: not found" {
		t.Fatalf("got %q", e.Error())
	}
}
