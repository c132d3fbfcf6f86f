package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestStatusCodes(t *testing.T) {
	cases := []struct {
		err  *Error
		want int
	}{
		{Validationf("rating", "rating must be between 1 and 5"), http.StatusBadRequest},
		{NotFoundf("album not found"), http.StatusNotFound},
		{Conflictf("username taken"), http.StatusConflict},
		{Unauthenticatedf("missing token"), http.StatusUnauthorized},
		{Forbiddenf("admin only"), http.StatusForbidden},
		{Internalf(errors.New("boom"), "query failed"), http.StatusInternalServerError},
		{Wrap(LookupUnavailable, "musicbrainz down", errors.New("timeout")), http.StatusBadGateway},
	}
	for _, tc := range cases {
		if got := tc.err.StatusCode(); got != tc.want {
			t.Fatalf("status for kind %d: got %d want %d", tc.err.Kind, got, tc.want)
		}
	}
}

func TestKindChecksUnwrapWrappedErrors(t *testing.T) {
	inner := Validationf("year", "year out of bounds")
	wrapped := fmt.Errorf("create album: %w", inner)
	if !IsValidation(wrapped) {
		t.Fatalf("expected wrapped validation error to be detected")
	}
	if IsConflict(wrapped) {
		t.Fatalf("wrapped validation error should not be a conflict")
	}
	if KindOf(wrapped) != Validation {
		t.Fatalf("KindOf should see through wrapping")
	}
	if KindOf(errors.New("plain")) != Internal {
		t.Fatalf("plain errors default to Internal")
	}
}

func TestValidationNamesField(t *testing.T) {
	err := Validationf("review", "review exceeds %d characters", 2000)
	if err.Field != "review" {
		t.Fatalf("expected field name, got %q", err.Field)
	}
	if err.Error() != "review exceeds 2000 characters" {
		t.Fatalf("unexpected message: %q", err.Error())
	}
}
