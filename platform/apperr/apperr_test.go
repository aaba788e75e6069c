package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestHTTPStatusMapping(t *testing.T) {
	cases := []struct {
		err  *Error
		want int
	}{
		{NotFound("missing"), http.StatusNotFound},
		{Validation("bad"), http.StatusBadRequest},
		{BadRequest("bad"), http.StatusBadRequest},
		{Forbidden("no"), http.StatusForbidden},
		{Unauthorized("who"), http.StatusUnauthorized},
		{Unavailable("off"), http.StatusServiceUnavailable},
		{Internal("boom"), http.StatusInternalServerError},
		{New(KindUnknown, "?"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		if got := tc.err.HTTPStatus(); got != tc.want {
			t.Errorf("%q: HTTPStatus() = %d, want %d", tc.err.Message, got, tc.want)
		}
	}
}

func TestGetKindUnwrapsChain(t *testing.T) {
	base := NotFound("score not found")
	wrapped := fmt.Errorf("load score: %w", base)

	if !Is(wrapped, KindNotFound) {
		t.Fatalf("expected wrapped error to carry KindNotFound, got %v", GetKind(wrapped))
	}
	if GetKind(errors.New("plain")) != KindUnknown {
		t.Fatal("expected plain error to be KindUnknown")
	}
}

func TestErrorMessageIncludesOp(t *testing.T) {
	err := Validation("weight out of range").WithOp("scores.create")
	if err.Error() != "scores.create: weight out of range" {
		t.Fatalf("unexpected message %q", err.Error())
	}
}

func TestValidationFieldsDetails(t *testing.T) {
	err := ValidationFields(FieldError{Field: "factors[0].weight", Message: "must be between 0 and 1"})
	fields, ok := err.Details.([]FieldError)
	if !ok || len(fields) != 1 {
		t.Fatalf("expected one field error, got %#v", err.Details)
	}
	if fields[0].Field != "factors[0].weight" {
		t.Fatalf("unexpected field %q", fields[0].Field)
	}
}
